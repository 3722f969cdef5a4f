package config

import (
	"regexp"
	"slices"
)

// Matches ${VAR} and ${VAR:-fallback}.
var envRef = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(?::-([^}]*))?\}`)

// expandEnv resolves variable references in content through lookup. A
// reference with no value and no fallback is left in place and its name
// returned in missing, sorted and without duplicates.
func expandEnv(content []byte, lookup func(string) (string, bool)) (out []byte, missing []string) {
	out = envRef.ReplaceAllFunc(content, func(ref []byte) []byte {
		m := envRef.FindSubmatch(ref)
		name := string(m[1])
		if v, ok := lookup(name); ok {
			return []byte(v)
		}
		if m[2] != nil {
			return m[2]
		}
		missing = append(missing, name)
		return ref
	})

	slices.Sort(missing)
	return out, slices.Compact(missing)
}
