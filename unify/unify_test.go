package unify

import (
	"testing"

	"github.com/zeu5/skill-learn/types"
)

func setup() (*types.Type, *types.Predicate, *types.ParameterizedOption) {
	cup := types.NewType("cup", []string{"f"})
	pred := types.NewPredicate("Full", []*types.Type{cup}, nil)
	opt := types.NewParameterizedOption("Move", []*types.Type{cup},
		types.NewBox([]float64{0}, []float64{1}),
		func(s types.State, objs []*types.Object, params []float64) types.Action {
			return types.NewAction(params)
		},
		func(types.State, []*types.Object, []float64) bool { return true },
		func(types.State, []*types.Object, []float64) bool { return true })
	return cup, pred, opt
}

func TestUnifySimple(t *testing.T) {
	cup, pred, opt := setup()
	a := types.NewObject("a", cup)
	v := types.NewVariable("?x0", cup)

	ground := GroundEffects(opt.Ground([]*types.Object{a}, []float64{0.5}),
		types.NewGroundAtomSet(types.NewGroundAtom(pred, []*types.Object{a})),
		types.NewGroundAtomSet())
	lifted := LiftedEffects("Move", []*types.Variable{v},
		types.NewLiftedAtomSet(types.NewLiftedAtom(pred, []*types.Variable{v})),
		types.NewLiftedAtomSet())

	u := NewUnifier()
	ok, sub := u.Unify(ground, lifted)
	if !ok {
		t.Fatalf("expected unification to succeed")
	}
	if sub[a] != v {
		t.Errorf("wrong substitution: %v", sub)
	}
}

func TestUnifyRespectsKinds(t *testing.T) {
	cup, pred, opt := setup()
	a := types.NewObject("a", cup)
	v := types.NewVariable("?x0", cup)

	// same predicate, but an add effect can never match a delete effect
	ground := GroundEffects(opt.Ground([]*types.Object{a}, []float64{0.5}),
		types.NewGroundAtomSet(types.NewGroundAtom(pred, []*types.Object{a})),
		types.NewGroundAtomSet())
	lifted := LiftedEffects("Move", []*types.Variable{v},
		types.NewLiftedAtomSet(),
		types.NewLiftedAtomSet(types.NewLiftedAtom(pred, []*types.Variable{v})))

	u := NewUnifier()
	if ok, _ := u.Unify(ground, lifted); ok {
		t.Errorf("add effect unified with a delete effect")
	}
}

func TestUnifyBijective(t *testing.T) {
	cup, _, opt := setup()
	a := types.NewObject("a", cup)
	v1 := types.NewVariable("?x0", cup)
	v2 := types.NewVariable("?x1", cup)
	on := types.NewPredicate("On", []*types.Type{cup, cup}, nil)

	// On(a, a) cannot match On(?x0, ?x1): two variables would share an object
	ground := GroundEffects(opt.Ground([]*types.Object{a}, []float64{0.5}),
		types.NewGroundAtomSet(types.NewGroundAtom(on, []*types.Object{a, a})),
		types.NewGroundAtomSet())
	lifted := LiftedEffects("Move", []*types.Variable{v1},
		types.NewLiftedAtomSet(types.NewLiftedAtom(on, []*types.Variable{v1, v2})),
		types.NewLiftedAtomSet())

	u := NewUnifier()
	if ok, _ := u.Unify(ground, lifted); ok {
		t.Errorf("non-injective match was accepted")
	}

	// On(a, a) does match On(?x0, ?x0)
	lifted2 := LiftedEffects("Move", []*types.Variable{v1},
		types.NewLiftedAtomSet(types.NewLiftedAtom(on, []*types.Variable{v1, v1})),
		types.NewLiftedAtomSet())
	if ok, _ := u.Unify(ground, lifted2); !ok {
		t.Errorf("repeated-variable match was rejected")
	}
}

func TestUnifyOptionArgsConstrainEffects(t *testing.T) {
	cup, pred, opt := setup()
	a := types.NewObject("a", cup)
	b := types.NewObject("b", cup)
	v1 := types.NewVariable("?x0", cup)
	v2 := types.NewVariable("?x1", cup)

	// option bound to a, effect on b: the effect variable must differ
	// from the option variable
	ground := GroundEffects(opt.Ground([]*types.Object{a}, []float64{0.5}),
		types.NewGroundAtomSet(types.NewGroundAtom(pred, []*types.Object{b})),
		types.NewGroundAtomSet())
	lifted := LiftedEffects("Move", []*types.Variable{v1},
		types.NewLiftedAtomSet(types.NewLiftedAtom(pred, []*types.Variable{v1})),
		types.NewLiftedAtomSet())

	u := NewUnifier()
	if ok, _ := u.Unify(ground, lifted); ok {
		t.Errorf("option argument and effect bound different objects to one variable")
	}

	lifted2 := LiftedEffects("Move", []*types.Variable{v1},
		types.NewLiftedAtomSet(types.NewLiftedAtom(pred, []*types.Variable{v2})),
		types.NewLiftedAtomSet())
	ok, sub := u.Unify(ground, lifted2)
	if !ok {
		t.Fatalf("expected unification to succeed with distinct variables")
	}
	if sub[a] != v1 || sub[b] != v2 {
		t.Errorf("wrong substitution: %v", sub)
	}
}

func TestUnifyTypeMismatch(t *testing.T) {
	cup, _, opt := setup()
	plate := types.NewType("plate", []string{"f"})
	onPlate := types.NewPredicate("OnPlate", []*types.Type{plate}, nil)
	a := types.NewObject("a", cup)
	p := types.NewObject("p", plate)
	v := types.NewVariable("?x0", cup)

	ground := GroundEffects(opt.Ground([]*types.Object{a}, []float64{0.5}),
		types.NewGroundAtomSet(types.NewGroundAtom(onPlate, []*types.Object{p})),
		types.NewGroundAtomSet())
	lifted := LiftedEffects("Move", []*types.Variable{v},
		types.NewLiftedAtomSet(types.NewLiftedAtom(onPlate, []*types.Variable{v})),
		types.NewLiftedAtomSet())

	u := NewUnifier()
	if ok, _ := u.Unify(ground, lifted); ok {
		t.Errorf("variable bound to an object of the wrong type")
	}
}

func TestUnifyCacheConsistency(t *testing.T) {
	cup, pred, opt := setup()
	a := types.NewObject("a", cup)
	v := types.NewVariable("?x0", cup)

	ground := GroundEffects(opt.Ground([]*types.Object{a}, []float64{0.5}),
		types.NewGroundAtomSet(types.NewGroundAtom(pred, []*types.Object{a})),
		types.NewGroundAtomSet())
	lifted := LiftedEffects("Move", []*types.Variable{v},
		types.NewLiftedAtomSet(types.NewLiftedAtom(pred, []*types.Variable{v})),
		types.NewLiftedAtomSet())

	u := NewUnifier()
	ok1, sub1 := u.Unify(ground, lifted)
	ok2, sub2 := u.Unify(ground, lifted)
	if ok1 != ok2 || len(sub1) != len(sub2) {
		t.Errorf("cached result differs from the first result")
	}
	for o, v := range sub1 {
		if sub2[o] != v {
			t.Errorf("cached substitution differs")
		}
	}
}

func TestUnifyCacheRebindsNameEqualObjects(t *testing.T) {
	cup, pred, opt := setup()
	v := types.NewVariable("?x0", cup)
	lifted := LiftedEffects("Move", []*types.Variable{v},
		types.NewLiftedAtomSet(types.NewLiftedAtom(pred, []*types.Variable{v})),
		types.NewLiftedAtomSet())

	// two name-equal objects from independently built states
	a1 := types.NewObject("a", cup)
	a2 := types.NewObject("a", cup)
	ground1 := GroundEffects(opt.Ground([]*types.Object{a1}, []float64{0.5}),
		types.NewGroundAtomSet(types.NewGroundAtom(pred, []*types.Object{a1})),
		types.NewGroundAtomSet())
	ground2 := GroundEffects(opt.Ground([]*types.Object{a2}, []float64{0.5}),
		types.NewGroundAtomSet(types.NewGroundAtom(pred, []*types.Object{a2})),
		types.NewGroundAtomSet())

	u := NewUnifier()
	if ok, sub := u.Unify(ground1, lifted); !ok || sub[a1] != v {
		t.Fatalf("first unification failed: %v", sub)
	}
	// the cache hit must bind the second call's own objects
	ok, sub := u.Unify(ground2, lifted)
	if !ok {
		t.Fatalf("cached unification failed for name-equal objects")
	}
	if sub[a2] != v {
		t.Errorf("substitution does not cover the queried objects: %v", sub)
	}
	if _, stale := sub[a1]; stale {
		t.Errorf("substitution still keyed by the first call's objects")
	}
}
