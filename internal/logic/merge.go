package logic

// MergeSelection unions a newly chosen set of reference IDs into an existing
// selection. Existing order is preserved and new IDs are appended, so merging
// one interest category never disturbs another category's prior picks.
// Merging an already-applied selection is a no-op.
func MergeSelection(existing, incoming []int64) []int64 {
	merged := make([]int64, 0, len(existing)+len(incoming))
	seen := make(map[int64]bool, len(existing)+len(incoming))
	for _, id := range existing {
		if !seen[id] {
			seen[id] = true
			merged = append(merged, id)
		}
	}
	for _, id := range incoming {
		if !seen[id] {
			seen[id] = true
			merged = append(merged, id)
		}
	}
	return merged
}
