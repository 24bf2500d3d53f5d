package learning

import (
	"testing"

	"github.com/zeu5/skill-learn/types"
	"github.com/zeu5/skill-learn/unify"
)

func touchSetup() (*types.Type, *types.Predicate, *types.Predicate, *types.ParameterizedOption) {
	cup := types.NewType("cup", []string{"f1", "f2"})
	high := types.NewPredicate("High", []*types.Type{cup},
		func(s types.State, objs []*types.Object) bool {
			return s.Get(objs[0], "f1") > 0.5
		})
	wet := types.NewPredicate("Wet", []*types.Type{cup},
		func(s types.State, objs []*types.Object) bool {
			return s.Get(objs[0], "f2") > 0.5
		})
	option := types.NewParameterizedOption("Touch", []*types.Type{cup},
		types.NewBox([]float64{0}, []float64{1}),
		func(s types.State, objs []*types.Object, params []float64) types.Action {
			return types.NewAction(params)
		},
		func(types.State, []*types.Object, []float64) bool { return true },
		func(types.State, []*types.Object, []float64) bool { return true })
	return cup, high, wet, option
}

func touchTransition(cup *types.Type, preds []*types.Predicate,
	option *types.ParameterizedOption, name string, pre, post []float64,
	params float64) *types.Transition {
	obj := types.NewObject(name, cup)
	state := types.NewState(map[*types.Object][]float64{obj: pre})
	nextState := types.NewState(map[*types.Object][]float64{obj: post})
	atoms := abstractAll(state, preds)
	nextAtoms := abstractAll(nextState, preds)
	return &types.Transition{
		State:         state,
		NextState:     nextState,
		Atoms:         atoms,
		Option:        option.Ground([]*types.Object{obj}, []float64{params}),
		NextAtoms:     nextAtoms,
		AddEffects:    nextAtoms.Difference(atoms),
		DeleteEffects: atoms.Difference(nextAtoms),
	}
}

func abstractAll(s types.State, preds []*types.Predicate) types.GroundAtomSet {
	atoms := types.NewGroundAtomSet()
	for _, p := range preds {
		for _, o := range s.Objects() {
			if o.Type == p.Types[0] && p.Holds(s, []*types.Object{o}) {
				atoms.Add(types.NewGroundAtom(p, []*types.Object{o}))
			}
		}
	}
	return atoms
}

func TestPartitionTransitionsByLiftedEffects(t *testing.T) {
	cup, high, wet, option := touchSetup()
	preds := []*types.Predicate{high, wet}

	tr1 := touchTransition(cup, preds, option, "a", []float64{0, 1}, []float64{1, 1}, 0.2)
	tr2 := touchTransition(cup, preds, option, "b", []float64{0, 0}, []float64{1, 0}, 0.8)
	// a no-effect transition seeds its own partition
	tr3 := touchTransition(cup, preds, option, "c", []float64{0, 0}, []float64{0, 0}, 0.5)

	p := PartitionTransitions(option, []*types.Transition{tr1, tr2, tr3}, unify.NewUnifier())
	if p.NumPartitions() != 2 {
		t.Fatalf("expected 2 partitions, got %d", p.NumPartitions())
	}
	if len(p.Members[0]) != 2 || len(p.Members[1]) != 1 {
		t.Errorf("wrong partition membership: %d and %d members",
			len(p.Members[0]), len(p.Members[1]))
	}
	if p.AddEffects[0].Len() != 1 || p.DelEffects[0].Len() != 0 {
		t.Errorf("wrong lifted effects in partition 0")
	}
	if p.AddEffects[1].Len() != 0 || p.DelEffects[1].Len() != 0 {
		t.Errorf("no-effect partition should have empty effects")
	}
}

func TestPreconditionsAreIntersected(t *testing.T) {
	cup, high, wet, option := touchSetup()
	preds := []*types.Predicate{high, wet}
	cfg := types.DefaultConfig()
	cfg.MinDataForOperator = 1

	tr1 := touchTransition(cup, preds, option, "a", []float64{0, 1}, []float64{1, 1}, 0.2)
	tr2 := touchTransition(cup, preds, option, "b", []float64{0, 0}, []float64{1, 0}, 0.8)

	ops := LearnOperatorsForOption(option, []*types.Transition{tr1},
		cfg, false, unify.NewUnifier())
	if len(ops) != 1 {
		t.Fatalf("expected 1 operator, got %d", len(ops))
	}
	if ops[0].Name != "Touch0" {
		t.Errorf("wrong operator name %s", ops[0].Name)
	}
	if ops[0].Preconditions.Len() != 1 {
		t.Errorf("single-member partition should keep its preconditions, got %s",
			ops[0].Preconditions)
	}

	// the second member lacks Wet, so the intersection drops it
	ops = LearnOperatorsForOption(option, []*types.Transition{tr1, tr2},
		cfg, false, unify.NewUnifier())
	if len(ops) != 1 {
		t.Fatalf("expected 1 operator, got %d", len(ops))
	}
	if ops[0].Preconditions.Len() != 0 {
		t.Errorf("expected empty preconditions, got %s", ops[0].Preconditions)
	}
	if ops[0].AddEffects.Len() != 1 || ops[0].DeleteEffects.Len() != 0 {
		t.Errorf("wrong effects: %s / %s", ops[0].AddEffects, ops[0].DeleteEffects)
	}
	if len(ops[0].Parameters) != 1 || len(ops[0].OptionVars) != 1 {
		t.Errorf("expected one shared parameter for effects and option")
	}
}

func TestPreconditionsWithSameNamedObjects(t *testing.T) {
	cup, high, wet, option := touchSetup()
	preds := []*types.Predicate{high, wet}
	cfg := types.DefaultConfig()
	cfg.MinDataForOperator = 1

	// separate trajectories allocate their own objects under the same name
	tr1 := touchTransition(cup, preds, option, "cup0", []float64{0, 1}, []float64{1, 1}, 0.2)
	tr2 := touchTransition(cup, preds, option, "cup0", []float64{0, 1}, []float64{1, 1}, 0.7)

	ops := LearnOperatorsForOption(option, []*types.Transition{tr1, tr2},
		cfg, false, unify.NewUnifier())
	if len(ops) != 1 {
		t.Fatalf("expected 1 operator, got %d", len(ops))
	}
	if ops[0].Preconditions.Len() != 1 {
		t.Fatalf("expected precondition {Wet(?x0)}, got %s", ops[0].Preconditions)
	}
	atom := ops[0].Preconditions.Sorted()[0]
	if atom.Predicate.Name != "Wet" {
		t.Errorf("wrong precondition %s", ops[0].Preconditions)
	}
}

func TestMinDataFilter(t *testing.T) {
	cup, high, wet, option := touchSetup()
	preds := []*types.Predicate{high, wet}
	cfg := types.DefaultConfig()
	cfg.MinDataForOperator = 3

	tr1 := touchTransition(cup, preds, option, "a", []float64{0, 1}, []float64{1, 1}, 0.2)
	tr2 := touchTransition(cup, preds, option, "b", []float64{0, 0}, []float64{1, 0}, 0.8)
	ops := LearnOperatorsForOption(option, []*types.Transition{tr1, tr2},
		cfg, false, unify.NewUnifier())
	if len(ops) != 0 {
		t.Errorf("partitions below the data threshold must not produce operators")
	}
}

func TestGenerateTransitionsEffects(t *testing.T) {
	cup, high, wet, option := touchSetup()
	preds := []*types.Predicate{high, wet}

	obj := types.NewObject("a", cup)
	s0 := types.NewState(map[*types.Object][]float64{obj: {0, 1}})
	s1 := types.NewState(map[*types.Object][]float64{obj: {1, 0}})
	opt := option.Ground([]*types.Object{obj}, []float64{0.4})
	traj := types.ActionTrajectory{
		States:  []types.State{s0, s1},
		Actions: []types.Action{types.NewAction([]float64{0.4}).WithOption(opt)},
	}
	byOption, err := GenerateTransitions(types.Dataset{traj}, preds)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(byOption.Options) != 1 {
		t.Fatalf("expected 1 option, got %d", len(byOption.Options))
	}
	trs := byOption.ByOption[option]
	if len(trs) != 1 {
		t.Fatalf("expected 1 transition, got %d", len(trs))
	}
	tr := trs[0]
	if !tr.AddEffects.Equal(tr.NextAtoms.Difference(tr.Atoms)) {
		t.Errorf("add effects are not the abstract difference")
	}
	if !tr.DeleteEffects.Equal(tr.Atoms.Difference(tr.NextAtoms)) {
		t.Errorf("delete effects are not the abstract difference")
	}
	if !tr.AddEffects.Contains(types.NewGroundAtom(high, []*types.Object{obj})) {
		t.Errorf("High(a) should be added")
	}
	if !tr.DeleteEffects.Contains(types.NewGroundAtom(wet, []*types.Object{obj})) {
		t.Errorf("Wet(a) should be deleted")
	}
}
