package util

import (
	"github.com/zeu5/skill-learn/types"
)

// Abstract computes the abstract state: every ground atom over the
// given predicates whose classifier holds in the state. Argument
// tuples never repeat an object.
func Abstract(s types.State, preds []*types.Predicate) types.GroundAtomSet {
	atoms := types.NewGroundAtomSet()
	for _, p := range preds {
		for _, choice := range ObjectCombinations(s.Objects(), p.Types, false) {
			if p.Holds(s, choice) {
				atoms.Add(types.NewGroundAtom(p, choice))
			}
		}
	}
	return atoms
}

// AllGroundAtoms enumerates every possible ground atom over the
// predicates and the state's objects, in deterministic order, without
// evaluating any classifier.
func AllGroundAtoms(s types.State, preds []*types.Predicate) []types.GroundAtom {
	sorted := make([]*types.Predicate, len(preds))
	copy(sorted, preds)
	types.SortPredicates(sorted)
	atoms := make([]types.GroundAtom, 0)
	for _, p := range sorted {
		for _, choice := range ObjectCombinations(s.Objects(), p.Types, false) {
			atoms = append(atoms, types.NewGroundAtom(p, choice))
		}
	}
	return atoms
}

// ObjectCombinations enumerates ordered tuples of objects matching the
// type list. When allowDuplicates is false, an object appears at most
// once per tuple. Objects are iterated in their given order, so the
// enumeration order is deterministic.
func ObjectCombinations(objects []*types.Object, argTypes []*types.Type,
	allowDuplicates bool) [][]*types.Object {
	choicesPerSlot := make([][]*types.Object, len(argTypes))
	for i, t := range argTypes {
		for _, o := range objects {
			if o.Type == t {
				choicesPerSlot[i] = append(choicesPerSlot[i], o)
			}
		}
		if len(choicesPerSlot[i]) == 0 {
			return nil
		}
	}
	var out [][]*types.Object
	current := make([]*types.Object, len(argTypes))
	var recurse func(slot int)
	recurse = func(slot int) {
		if slot == len(argTypes) {
			tuple := make([]*types.Object, len(current))
			copy(tuple, current)
			out = append(out, tuple)
			return
		}
		for _, o := range choicesPerSlot[slot] {
			if !allowDuplicates {
				dup := false
				for i := 0; i < slot; i++ {
					if current[i] == o {
						dup = true
						break
					}
				}
				if dup {
					continue
				}
			}
			current[slot] = o
			recurse(slot + 1)
		}
	}
	recurse(0)
	return out
}

// AllGroundings enumerates every substitution of the variables to
// objects of matching types, together with the grounded atom set.
// Distinct variables may bind the same object.
func AllGroundings(atoms types.LiftedAtomSet, objects []*types.Object,
) []Grounding {
	vars := atoms.AllVariables()
	varTypes := make([]*types.Type, len(vars))
	for i, v := range vars {
		varTypes[i] = v.Type
	}
	var out []Grounding
	for _, choice := range ObjectCombinations(objects, varTypes, true) {
		sub := make(types.VarToObjSub, len(vars))
		for i, v := range vars {
			sub[v] = choice[i]
		}
		out = append(out, Grounding{Atoms: atoms.Ground(sub), Sub: sub})
	}
	return out
}

// Grounding pairs a grounded atom set with the substitution that
// produced it.
type Grounding struct {
	Atoms types.GroundAtomSet
	Sub   types.VarToObjSub
}
