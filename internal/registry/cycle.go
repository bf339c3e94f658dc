package registry

import (
	"sort"

	"github.com/roach88/tokencheck/internal/tokens"
)

// findCycles detects loops in the extends graph.
//
// Single inheritance gives every node at most one outgoing edge, so a plain
// walk with a per-walk visited set finds every cycle. Each cycle is reported
// once, rotated to start at its smallest id and closed with that id again:
// ["a", "b", "a"]. Unknown bases end a walk; they are reported separately.
func findCycles(families map[string]tokens.FamilySchema) [][]string {
	ids := make([]string, 0, len(families))
	for id := range families {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	done := make(map[string]bool, len(families))
	var cycles [][]string

	for _, start := range ids {
		if done[start] {
			continue
		}

		pos := make(map[string]int)
		var path []string
		id := start
		for id != "" && !done[id] {
			if at, seen := pos[id]; seen {
				cycles = append(cycles, normalizeCycle(path[at:]))
				break
			}
			fam, ok := families[id]
			if !ok {
				break
			}
			pos[id] = len(path)
			path = append(path, id)
			id = fam.Extends
		}

		for _, p := range path {
			done[p] = true
		}
	}

	return cycles
}

// normalizeCycle rotates a cycle to start at its smallest member and closes it.
func normalizeCycle(members []string) []string {
	minIdx := 0
	for i, m := range members {
		if m < members[minIdx] {
			minIdx = i
		}
	}
	out := make([]string, 0, len(members)+1)
	out = append(out, members[minIdx:]...)
	out = append(out, members[:minIdx]...)
	return append(out, out[0])
}
