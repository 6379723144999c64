// profilectl interprets the headers of snow pit field files from the command line.
package main

import (
	"os"
	_ "time/tzdata"

	"github.com/couchcryptid/profile-header-etl/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
