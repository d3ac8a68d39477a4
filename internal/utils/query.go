package utils

import "strings"

// ParseQueryList handles both repeated and comma-separated query params.
// Blank entries are dropped and duplicates keep their first position.
// Example:
//
//	?categories=Therapy,Nursing            → ["Therapy","Nursing"]
//	?categories=Therapy&categories=Nursing → ["Therapy","Nursing"]
func ParseQueryList(q map[string][]string, key string) []string {
	values := q[key]

	if len(values) == 0 {
		return nil
	}

	var out []string
	seen := make(map[string]struct{})
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			if _, ok := seen[part]; ok {
				continue
			}
			seen[part] = struct{}{}
			out = append(out, part)
		}
	}
	return out
}

// JoinQueryList is the inverse of ParseQueryList for the comma-joined form.
func JoinQueryList(values []string) string {
	cleaned := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v != "" {
			cleaned = append(cleaned, v)
		}
	}
	return strings.Join(cleaned, ",")
}
