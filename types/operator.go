package types

import (
	"fmt"
	"strings"

	"golang.org/x/exp/rand"
)

// Sampler draws candidate option parameters for an operator grounded
// with the given objects.
type Sampler func(State, *rand.Rand, []*Object) []float64

// Operator is a learned STRIPS-style rule tied to one parameterized
// option. Every variable in the preconditions, effects and option
// arguments is drawn from Parameters; add and delete effects are
// disjoint.
type Operator struct {
	Name          string
	Parameters    []*Variable
	Preconditions LiftedAtomSet
	AddEffects    LiftedAtomSet
	DeleteEffects LiftedAtomSet
	Option        *ParameterizedOption
	OptionVars    []*Variable
	Sampler       Sampler
}

func NewOperator(name string, parameters []*Variable, preconditions,
	addEffects, deleteEffects LiftedAtomSet, option *ParameterizedOption,
	optionVars []*Variable, sampler Sampler) *Operator {
	op := &Operator{
		Name:          name,
		Parameters:    parameters,
		Preconditions: preconditions,
		AddEffects:    addEffects,
		DeleteEffects: deleteEffects,
		Option:        option,
		OptionVars:    optionVars,
		Sampler:       sampler,
	}
	op.check()
	return op
}

func (op *Operator) check() {
	params := make(map[*Variable]bool, len(op.Parameters))
	for _, v := range op.Parameters {
		params[v] = true
	}
	for _, v := range op.OptionVars {
		if !params[v] {
			panic(fmt.Sprintf("operator %s: option variable %s not in parameters", op.Name, v))
		}
	}
	for _, set := range []LiftedAtomSet{op.Preconditions, op.AddEffects, op.DeleteEffects} {
		for _, a := range set {
			for _, v := range a.Variables {
				if !params[v] {
					panic(fmt.Sprintf("operator %s: variable %s of %s not in parameters",
						op.Name, v, a.Key()))
				}
			}
		}
	}
	for k := range op.AddEffects {
		if _, ok := op.DeleteEffects[k]; ok {
			panic(fmt.Sprintf("operator %s: effect %s is both added and deleted", op.Name, k))
		}
	}
}

func (op *Operator) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s:\n", op.Name)
	params := make([]string, len(op.Parameters))
	for i, v := range op.Parameters {
		params[i] = v.String()
	}
	fmt.Fprintf(&b, "    Parameters: [%s]\n", strings.Join(params, ", "))
	fmt.Fprintf(&b, "    Preconditions: %s\n", op.Preconditions)
	fmt.Fprintf(&b, "    Add Effects: %s\n", op.AddEffects)
	fmt.Fprintf(&b, "    Delete Effects: %s\n", op.DeleteEffects)
	optVars := make([]string, len(op.OptionVars))
	for i, v := range op.OptionVars {
		optVars[i] = v.Name
	}
	fmt.Fprintf(&b, "    Option: %s(%s)", op.Option.Name, strings.Join(optVars, ", "))
	return b.String()
}

// Ground binds the operator parameters to concrete objects, producing
// concrete preconditions and effects.
func (op *Operator) Ground(objects []*Object) (*GroundOperator, error) {
	if len(objects) != len(op.Parameters) {
		return nil, fmt.Errorf("operator %s grounded with %d objects, want %d",
			op.Name, len(objects), len(op.Parameters))
	}
	sub := make(VarToObjSub, len(objects))
	for i, v := range op.Parameters {
		if objects[i].Type != v.Type {
			return nil, fmt.Errorf("operator %s parameter %s bound to %s of wrong type",
				op.Name, v, objects[i])
		}
		sub[v] = objects[i]
	}
	optObjs := make([]*Object, len(op.OptionVars))
	for i, v := range op.OptionVars {
		optObjs[i] = sub[v]
	}
	return &GroundOperator{
		Parent:        op,
		Objects:       objects,
		Preconditions: op.Preconditions.Ground(sub),
		AddEffects:    op.AddEffects.Ground(sub),
		DeleteEffects: op.DeleteEffects.Ground(sub),
		OptionObjects: optObjs,
	}, nil
}

// GroundOperator is an operator with all parameters bound.
type GroundOperator struct {
	Parent        *Operator
	Objects       []*Object
	Preconditions GroundAtomSet
	AddEffects    GroundAtomSet
	DeleteEffects GroundAtomSet
	OptionObjects []*Object
}

// Applicable reports whether all preconditions hold in the atom set.
func (g *GroundOperator) Applicable(atoms GroundAtomSet) bool {
	return g.Preconditions.IsSubset(atoms)
}

// SampleOption draws option parameters with the learned sampler and
// binds the option.
func (g *GroundOperator) SampleOption(s State, rng *rand.Rand) *GroundOption {
	params := g.Parent.Sampler(s, rng, g.Objects)
	return g.Parent.Option.Ground(g.OptionObjects, params)
}

// Transition is one observed option execution: the continuous states,
// their abstractions, the executed ground option, and the symmetric
// split of the abstract state difference.
type Transition struct {
	State         State
	NextState     State
	Atoms         GroundAtomSet
	Option        *GroundOption
	NextAtoms     GroundAtomSet
	AddEffects    GroundAtomSet
	DeleteEffects GroundAtomSet
}

// ActionTrajectory is a demonstrated state/action sequence with
// len(States) == len(Actions)+1.
type ActionTrajectory struct {
	States  []State
	Actions []Action
}

// Dataset is an ordered collection of trajectories. Ordering is part
// of the reproducibility contract of learning.
type Dataset []ActionTrajectory

// Task is an initial state together with a goal atom set.
type Task struct {
	Init State
	Goal GroundAtomSet
}
