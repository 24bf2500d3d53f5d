package util

import "github.com/zeu5/skill-learn/types"

// Powerset enumerates every non-empty subset of the variables,
// ordered by increasing size and, within a size, by position of the
// included elements. The input order is preserved inside each subset.
func Powerset(vars []*types.Variable) [][]*types.Variable {
	n := len(vars)
	var out [][]*types.Variable
	for size := 1; size <= n; size++ {
		idx := make([]int, size)
		for i := range idx {
			idx[i] = i
		}
		for {
			subset := make([]*types.Variable, size)
			for i, j := range idx {
				subset[i] = vars[j]
			}
			out = append(out, subset)
			// advance the combination
			i := size - 1
			for i >= 0 && idx[i] == n-size+i {
				i--
			}
			if i < 0 {
				break
			}
			idx[i]++
			for j := i + 1; j < size; j++ {
				idx[j] = idx[j-1] + 1
			}
		}
	}
	return out
}

// SubsetKey is a deterministic identity for a variable subset.
func SubsetKey(vars []*types.Variable) string {
	key := ""
	for _, v := range vars {
		key += v.Name + ":" + v.Type.Name + ";"
	}
	return key
}
