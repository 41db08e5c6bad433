package stm

import "slices"

func sortTvarsByID(vs []*tvar) {
	slices.SortFunc(vs, func(a, b *tvar) int {
		switch {
		case a.id < b.id:
			return -1
		case a.id > b.id:
			return 1
		default:
			return 0
		}
	})
}
