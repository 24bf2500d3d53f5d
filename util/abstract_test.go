package util

import (
	"testing"

	"github.com/zeu5/skill-learn/types"
)

func TestObjectCombinations(t *testing.T) {
	cup := types.NewType("cup", []string{"f"})
	plate := types.NewType("plate", []string{"f"})
	a := types.NewObject("a", cup)
	b := types.NewObject("b", cup)
	c := types.NewObject("c", plate)
	objects := []*types.Object{a, b, c}

	combos := ObjectCombinations(objects, []*types.Type{cup, cup}, false)
	if len(combos) != 2 {
		t.Fatalf("expected 2 duplicate-free combinations, got %d", len(combos))
	}
	if combos[0][0] != a || combos[0][1] != b || combos[1][0] != b || combos[1][1] != a {
		t.Errorf("wrong enumeration order")
	}

	withDups := ObjectCombinations(objects, []*types.Type{cup, cup}, true)
	if len(withDups) != 4 {
		t.Errorf("expected 4 combinations with duplicates, got %d", len(withDups))
	}

	if got := ObjectCombinations(objects, []*types.Type{plate, plate}, false); len(got) != 0 {
		t.Errorf("expected no duplicate-free pairs over a single plate")
	}

	// zero argument slots yield exactly one empty tuple
	empty := ObjectCombinations(objects, nil, false)
	if len(empty) != 1 || len(empty[0]) != 0 {
		t.Errorf("expected a single empty combination, got %v", empty)
	}
}

func TestAbstract(t *testing.T) {
	cup := types.NewType("cup", []string{"full"})
	full := types.NewPredicate("Full", []*types.Type{cup},
		func(s types.State, objs []*types.Object) bool {
			return s.Get(objs[0], "full") > 0.5
		})
	handEmpty := types.NewPredicate("HandEmpty", nil,
		func(s types.State, objs []*types.Object) bool { return true })
	a := types.NewObject("a", cup)
	b := types.NewObject("b", cup)
	s := types.NewState(map[*types.Object][]float64{a: {1}, b: {0}})

	atoms := Abstract(s, []*types.Predicate{full, handEmpty})
	if atoms.Len() != 2 {
		t.Fatalf("expected 2 atoms, got %s", atoms)
	}
	if !atoms.Contains(types.NewGroundAtom(full, []*types.Object{a})) {
		t.Errorf("Full(a) missing from the abstract state")
	}
	if !atoms.Contains(types.NewGroundAtom(handEmpty, nil)) {
		t.Errorf("zero-arity atom missing from the abstract state")
	}
}

func TestAllGroundAtomsOrder(t *testing.T) {
	cup := types.NewType("cup", []string{"full"})
	full := types.NewPredicate("Full", []*types.Type{cup}, nil)
	empty := types.NewPredicate("Empty", []*types.Type{cup}, nil)
	a := types.NewObject("a", cup)
	b := types.NewObject("b", cup)
	s := types.NewState(map[*types.Object][]float64{a: {1}, b: {0}})

	atoms := AllGroundAtoms(s, []*types.Predicate{full, empty})
	if len(atoms) != 4 {
		t.Fatalf("expected 4 atoms, got %d", len(atoms))
	}
	// predicates sorted by signature, objects in state order
	want := []string{"Empty(a)", "Empty(b)", "Full(a)", "Full(b)"}
	for i, a := range atoms {
		if a.Key() != want[i] {
			t.Errorf("atom %d is %s, want %s", i, a.Key(), want[i])
		}
	}
}

func TestPowerset(t *testing.T) {
	cup := types.NewType("cup", []string{"f"})
	v1 := types.NewVariable("?x0", cup)
	v2 := types.NewVariable("?x1", cup)
	subsets := Powerset([]*types.Variable{v1, v2})
	if len(subsets) != 3 {
		t.Fatalf("expected 3 non-empty subsets, got %d", len(subsets))
	}
	if len(subsets[0]) != 1 || len(subsets[1]) != 1 || len(subsets[2]) != 2 {
		t.Errorf("subsets not ordered by increasing size")
	}
}

func TestAllGroundings(t *testing.T) {
	cup := types.NewType("cup", []string{"f"})
	p := types.NewPredicate("On", []*types.Type{cup, cup}, nil)
	v1 := types.NewVariable("?x0", cup)
	v2 := types.NewVariable("?x1", cup)
	atoms := types.NewLiftedAtomSet(types.NewLiftedAtom(p, []*types.Variable{v1, v2}))
	a := types.NewObject("a", cup)
	b := types.NewObject("b", cup)

	groundings := AllGroundings(atoms, []*types.Object{a, b})
	// duplicates allowed: 2 variables over 2 objects
	if len(groundings) != 4 {
		t.Fatalf("expected 4 groundings, got %d", len(groundings))
	}
	for _, g := range groundings {
		if g.Atoms.Len() != 1 {
			t.Errorf("grounding has %d atoms, want 1", g.Atoms.Len())
		}
	}
}
