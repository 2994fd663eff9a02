// Package insights keeps the visible insight list in step with dismissals.
package insights

import "github.com/cleared-dev/budgetwatch/internal/model"

// Reconcile drops every insight whose ID is in dismissed and removes later
// duplicates of an ID. Relative order is preserved and the inputs are not
// modified.
func Reconcile(raw []model.Insight, dismissed []string) []model.Insight {
	skip := make(map[string]struct{}, len(dismissed)+len(raw))
	for _, id := range dismissed {
		skip[id] = struct{}{}
	}

	out := make([]model.Insight, 0, len(raw))
	for _, in := range raw {
		if _, ok := skip[in.ID]; ok {
			continue
		}
		skip[in.ID] = struct{}{}
		out = append(out, in)
	}
	return out
}

func indexOf(insights []model.Insight, id string) int {
	for i, in := range insights {
		if in.ID == id {
			return i
		}
	}
	return -1
}

func clamp(i, lo, hi int) int {
	return max(lo, min(i, hi))
}
