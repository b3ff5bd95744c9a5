// Package diversity interleaves feed items round-robin by source so no single
// prolific publisher can occupy all early slots. Selection only affects which
// items survive; the surviving subset is re-sorted by recency so the visible
// order stays newest first.
package diversity

import (
	"sort"

	"tahofeed/internal/core"
)

// Select picks up to cap items from the input, which must already be sorted
// newest first. At depth 0 the newest item from every source is taken, at
// depth 1 the second newest from every source that still has one, and so on
// until cap or maxDepth is exhausted. Source order follows first appearance in
// the input, so the result is deterministic for a given sorted input.
func Select(items []core.RawItem, cap, maxDepth int) []core.RawItem {
	if len(items) == 0 || cap <= 0 {
		return nil
	}

	grouped := make(map[string][]core.RawItem)
	var order []string
	for _, item := range items {
		if _, seen := grouped[item.SourceName]; !seen {
			order = append(order, item.SourceName)
		}
		grouped[item.SourceName] = append(grouped[item.SourceName], item)
	}

	var selection []core.RawItem
	for depth := 0; depth < maxDepth && len(selection) < cap; depth++ {
		for _, source := range order {
			if len(selection) >= cap {
				break
			}
			if group := grouped[source]; depth < len(group) {
				selection = append(selection, group[depth])
			}
		}
	}

	sort.SliceStable(selection, func(i, j int) bool {
		return selection[i].Published.After(selection[j].Published)
	})
	return selection
}
