package consultations

import "sort"

// Diff computes the membership changes needed to turn current into target,
// with set semantics: duplicates in either input are ignored. Results are
// sorted for deterministic persistence and notification order.
func Diff(current, target []uint) (toAdd, toRemove []uint) {
	cur := make(map[uint]bool, len(current))
	for _, id := range current {
		cur[id] = true
	}
	tgt := make(map[uint]bool, len(target))
	for _, id := range target {
		tgt[id] = true
	}

	for id := range tgt {
		if !cur[id] {
			toAdd = append(toAdd, id)
		}
	}
	for id := range cur {
		if !tgt[id] {
			toRemove = append(toRemove, id)
		}
	}
	sort.Slice(toAdd, func(i, j int) bool { return toAdd[i] < toAdd[j] })
	sort.Slice(toRemove, func(i, j int) bool { return toRemove[i] < toRemove[j] })
	return toAdd, toRemove
}
