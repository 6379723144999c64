package domain

// CheckIntegrity compares a profile header against the site-description header
// of the same pit. The site header may carry more keys, but every profile key
// must be present there with the same value. Values compare as strings.
func CheckIntegrity(profile, site HeaderRecord) error {
	mismatches := make(map[string]string)
	for _, k := range profile.Keys() {
		pv, _ := profile.Get(k)
		sv, ok := site.Get(k)
		switch {
		case !ok:
			mismatches[k] = "key not found in site details"
		case pv != sv:
			mismatches[k] = "profile header != site details header"
		}
	}
	if len(mismatches) > 0 {
		return &IntegrityError{Mismatches: mismatches}
	}
	return nil
}
