package types

import (
	"sort"
	"strconv"
)

// AxleClass is the regulatory vehicle configuration code ("6", "7", "9").
type AxleClass string

// Count returns the numeric axle count, or 0 when the code is not numeric.
func (a AxleClass) Count() int {
	n, err := strconv.Atoi(string(a))
	if err != nil {
		return 0
	}
	return n
}

// SortAxles orders classes by ascending axle count; non-numeric codes go last in lexical order.
func SortAxles(classes []AxleClass) {
	sort.SliceStable(classes, func(i, j int) bool {
		ci, cj := classes[i].Count(), classes[j].Count()
		switch {
		case ci == 0 && cj == 0:
			return classes[i] < classes[j]
		case ci == 0:
			return false
		case cj == 0:
			return true
		default:
			return ci < cj
		}
	})
}
