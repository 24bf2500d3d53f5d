package learning

import (
	"testing"

	"golang.org/x/exp/rand"

	"github.com/zeu5/skill-learn/types"
)

// Two partitions of a zero-argument option: one whose transition adds
// Pred0(cup0) and one whose transition changes nothing.
func samplerFixture() (*Partitioned, *types.Predicate, *types.Variable) {
	cup := types.NewType("cup_type", []string{"feat1"})
	cup0 := types.NewObject("cup0", cup)
	varCup0 := types.NewVariable("?cup0", cup)
	pred0 := types.NewPredicate("Pred0", []*types.Type{cup},
		func(s types.State, objs []*types.Object) bool {
			return s.Get(objs[0], "feat1") > 0.5
		})
	option := types.NewParameterizedOption("dummy", nil,
		types.NewBox([]float64{0.1}, []float64{1}),
		func(s types.State, objs []*types.Object, params []float64) types.Action {
			return types.NewAction(params)
		},
		func(types.State, []*types.Object, []float64) bool { return false },
		func(types.State, []*types.Object, []float64) bool { return false })
	ground := option.Ground(nil, []float64{0.3})

	makeTransition := func(preVal, postVal float64) *types.Transition {
		state := types.NewState(map[*types.Object][]float64{cup0: {preVal}})
		nextState := types.NewState(map[*types.Object][]float64{cup0: {postVal}})
		atoms := types.NewGroundAtomSet()
		if preVal > 0.5 {
			atoms.Add(types.NewGroundAtom(pred0, []*types.Object{cup0}))
		}
		nextAtoms := types.NewGroundAtomSet()
		if postVal > 0.5 {
			nextAtoms.Add(types.NewGroundAtom(pred0, []*types.Object{cup0}))
		}
		return &types.Transition{
			State:         state,
			NextState:     nextState,
			Atoms:         atoms,
			Option:        ground,
			NextAtoms:     nextAtoms,
			AddEffects:    nextAtoms.Difference(atoms),
			DeleteEffects: atoms.Difference(nextAtoms),
		}
	}
	tr1 := makeTransition(0.4, 0.9) // adds Pred0(cup0)
	tr2 := makeTransition(0.4, 0.4) // does nothing

	p := &Partitioned{
		Option:     option,
		OptionVars: [][]*types.Variable{{}, {}},
		AddEffects: []types.LiftedAtomSet{
			types.NewLiftedAtomSet(types.NewLiftedAtom(pred0, []*types.Variable{varCup0})),
			types.NewLiftedAtomSet(),
		},
		DelEffects: []types.LiftedAtomSet{
			types.NewLiftedAtomSet(),
			types.NewLiftedAtomSet(),
		},
		Members: [][]Member{
			{{Transition: tr1, Sub: types.ObjToVarSub{cup0: varCup0}}},
			{{Transition: tr2, Sub: types.ObjToVarSub{}}},
		},
	}
	return p, pred0, varCup0
}

func TestCreateSamplerData(t *testing.T) {
	p, pred0, varCup0 := samplerFixture()

	positive, negative := CreateSamplerData(p, []*types.Variable{varCup0},
		types.NewLiftedAtomSet(),
		types.NewLiftedAtomSet(types.NewLiftedAtom(pred0, []*types.Variable{varCup0})),
		types.NewLiftedAtomSet(), 0)
	if len(positive) != 1 {
		t.Errorf("expected 1 positive example, got %d", len(positive))
	}
	if len(negative) != 1 {
		t.Errorf("expected 1 negative example, got %d", len(negative))
	}
}

func TestCreateSamplerDataSupersetEffectsExcluded(t *testing.T) {
	p, _, _ := samplerFixture()

	// Partition 1 has no effects. Transition 1 achieved a superset of
	// those effects, so it must not be a negative example.
	positive, negative := CreateSamplerData(p, nil,
		types.NewLiftedAtomSet(), types.NewLiftedAtomSet(),
		types.NewLiftedAtomSet(), 1)
	if len(positive) != 1 {
		t.Errorf("expected 1 positive example, got %d", len(positive))
	}
	if len(negative) != 0 {
		t.Errorf("expected 0 negative examples, got %d", len(negative))
	}
}

func TestLearnSamplerStaysInBounds(t *testing.T) {
	p, pred0, varCup0 := samplerFixture()
	cfg := types.DefaultConfig()

	sampler := LearnSampler(p, []*types.Variable{varCup0},
		types.NewLiftedAtomSet(),
		types.NewLiftedAtomSet(types.NewLiftedAtom(pred0, []*types.Variable{varCup0})),
		types.NewLiftedAtomSet(), p.Option, 0, cfg)

	rng := rand.New(rand.NewSource(0))
	tr := p.Members[0][0].Transition
	cup0 := tr.State.Objects()[0]
	for i := 0; i < 10; i++ {
		params := sampler(tr.State, rng, []*types.Object{cup0})
		if !p.Option.ParamSpace.Contains(params) {
			t.Fatalf("sampled parameters %v out of bounds", params)
		}
	}
}
