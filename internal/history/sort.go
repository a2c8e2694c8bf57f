package history

import (
	"slices"

	"reelarchitect/models"
)

// SortNewestFirst orders entries by CreatedAt descending. Entries without a
// timestamp count as the zero time and end up last; ties keep their order.
func SortNewestFirst(entries []models.HistoryEntry) {
	slices.SortStableFunc(entries, func(a, b models.HistoryEntry) int {
		return b.CreatedAtOrZero().Compare(a.CreatedAtOrZero())
	})
}

// RemoveByID returns entries without the one whose ID matches; the rest keep
// their relative order. The input slice is not modified.
func RemoveByID(entries []models.HistoryEntry, id string) []models.HistoryEntry {
	out := make([]models.HistoryEntry, 0, len(entries))
	for _, e := range entries {
		if e.ID != id {
			out = append(out, e)
		}
	}
	return out
}
