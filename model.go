package manualagent

import "strings"

// NormalizeModel canonicalizes a model identifier for matching: lowercase
// with spaces and hyphens removed. "MRO-S7D", "mro s7d" and "MROS7D" all
// normalize to "mros7d".
func NormalizeModel(model string) string {
	s := strings.ToLower(model)
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, "-", "")
	return s
}

// ModelVariants returns the spellings of a model identifier worth searching
// for: the verbatim form plus hyphen- and space-stripped variants.
// Duplicates are removed, order preserved.
func ModelVariants(model string) []string {
	variants := []string{
		model,
		strings.ReplaceAll(model, "-", ""),
		strings.ReplaceAll(strings.ReplaceAll(model, "-", " "), "  ", " "),
	}

	seen := make(map[string]bool, len(variants))
	var out []string
	for _, v := range variants {
		v = strings.TrimSpace(v)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

// MatchesModel reports whether s contains the model identifier in any
// normalized spelling. Both sides are compared hyphen/space/case-insensitively.
func MatchesModel(s, model string) bool {
	norm := NormalizeModel(model)
	if norm == "" {
		return false
	}
	return strings.Contains(NormalizeModel(s), norm)
}
