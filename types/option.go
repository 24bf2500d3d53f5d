package types

import (
	"fmt"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// Box is a bounded continuous parameter space.
type Box struct {
	Low  []float64
	High []float64
}

func NewBox(low, high []float64) Box {
	if len(low) != len(high) {
		panic("box bounds have mismatched lengths")
	}
	return Box{Low: low, High: high}
}

func (b Box) Dim() int {
	return len(b.Low)
}

func (b Box) Contains(x []float64) bool {
	if len(x) != len(b.Low) {
		return false
	}
	for i, v := range x {
		if v < b.Low[i] || v > b.High[i] {
			return false
		}
	}
	return true
}

// Sample draws a uniform point from the box.
func (b Box) Sample(rng *rand.Rand) []float64 {
	out := make([]float64, len(b.Low))
	for i := range out {
		u := distuv.Uniform{Min: b.Low[i], Max: b.High[i], Src: rng}
		out[i] = u.Rand()
	}
	return out
}

// OptionPolicy maps (state, objects, params) to a low-level action.
type OptionPolicy func(State, []*Object, []float64) Action

// OptionCondition is an initiation or termination predicate of an option.
type OptionCondition func(State, []*Object, []float64) bool

// ParameterizedOption is a closed-loop skill with typed object
// arguments and a continuous parameter space.
type ParameterizedOption struct {
	Name       string
	Types      []*Type
	ParamSpace Box
	Policy     OptionPolicy
	Initiable  OptionCondition
	Terminal   OptionCondition
}

func NewParameterizedOption(name string, argTypes []*Type, paramSpace Box,
	policy OptionPolicy, initiable, terminal OptionCondition) *ParameterizedOption {
	return &ParameterizedOption{
		Name:       name,
		Types:      argTypes,
		ParamSpace: paramSpace,
		Policy:     policy,
		Initiable:  initiable,
		Terminal:   terminal,
	}
}

func (p *ParameterizedOption) String() string {
	return p.Name
}

// Ground binds concrete objects and a concrete parameter vector.
func (p *ParameterizedOption) Ground(objects []*Object, params []float64) *GroundOption {
	if len(objects) != len(p.Types) {
		panic(fmt.Sprintf("option %s grounded with %d objects, want %d",
			p.Name, len(objects), len(p.Types)))
	}
	for i, o := range objects {
		if o.Type != p.Types[i] {
			panic(fmt.Sprintf("option %s argument %d has type %s, want %s",
				p.Name, i, o.Type.Name, p.Types[i].Name))
		}
	}
	if len(params) != p.ParamSpace.Dim() {
		panic(fmt.Sprintf("option %s grounded with %d params, want %d",
			p.Name, len(params), p.ParamSpace.Dim()))
	}
	return &GroundOption{Parent: p, Objects: objects, Params: params}
}

// GroundOption is an option bound to objects and parameters.
type GroundOption struct {
	Parent  *ParameterizedOption
	Objects []*Object
	Params  []float64
}

// Policy runs the parent policy under this binding.
func (o *GroundOption) Policy(s State) Action {
	return o.Parent.Policy(s, o.Objects, o.Params)
}

// Initiable reports whether the option can start in the state.
func (o *GroundOption) Initiable(s State) bool {
	return o.Parent.Initiable(s, o.Objects, o.Params)
}

// Terminal reports whether the option has finished in the state.
func (o *GroundOption) Terminal(s State) bool {
	return o.Parent.Terminal(s, o.Objects, o.Params)
}

func (o *GroundOption) String() string {
	return fmt.Sprintf("%s(%v, %v)", o.Parent.Name, o.Objects, o.Params)
}
