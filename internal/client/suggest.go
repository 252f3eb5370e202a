package client

import (
	"strings"

	"amphomeus/internal/domain"
)

// SuggestTags returns the known tags whose name contains input, ignoring
// case, minus the ones already selected. A blank input suggests nothing.
func SuggestTags(all []domain.Tag, input string, selected []string) []domain.Tag {
	needle := strings.ToLower(strings.TrimSpace(input))
	if needle == "" {
		return nil
	}

	taken := make(map[string]struct{}, len(selected))
	for _, s := range selected {
		taken[s] = struct{}{}
	}

	var out []domain.Tag
	for _, t := range all {
		if _, ok := taken[t.Name]; ok {
			continue
		}
		if strings.Contains(strings.ToLower(t.Name), needle) {
			out = append(out, t)
		}
	}
	return out
}
