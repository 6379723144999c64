package commands

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadOverrides reads a YAML mapping of header keys to scalar values, e.g.
//
//	site_id: 1N20
//	latitude: 39.03
//	date: 2020-02-05
//
// Values are kept as written so dates and numbers reach the header parser
// unchanged.
func LoadOverrides(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading overrides: %w", err)
	}

	var nodes map[string]yaml.Node
	if err := yaml.Unmarshal(data, &nodes); err != nil {
		return nil, fmt.Errorf("parsing overrides %s: %w", path, err)
	}

	out := make(map[string]string, len(nodes))
	for k, n := range nodes {
		if n.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("override %q in %s must be a scalar (line %d)", k, path, n.Line)
		}
		out[k] = n.Value
	}
	return out, nil
}
