package tag

import (
	"context"
	"fmt"
	"strings"

	"amphomeus/internal/domain"
)

// NormalizeNames trims every name, drops blanks and removes exact duplicates
// while keeping the first occurrence order. Case is preserved.
func NormalizeNames(names []string) []string {
	out := make([]string, 0, len(names))
	seen := make(map[string]struct{}, len(names))

	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}

// Reconcile maps tag names to existing or newly created tag rows. Calling it
// twice with the same names yields the same ids and no extra rows.
func Reconcile(ctx context.Context, repo Finder, names []string) ([]domain.Tag, error) {
	normalized := NormalizeNames(names)
	tags := make([]domain.Tag, 0, len(normalized))

	for _, name := range normalized {
		t, err := repo.FindOrCreate(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %v", ErrReconciliationFailed, name, err)
		}
		tags = append(tags, *t)
	}
	return tags, nil
}
