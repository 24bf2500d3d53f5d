package types

import "fmt"

// State maps every object to its fixed-length feature vector. The
// object order is fixed at construction so that all iteration over a
// state is deterministic.
type State struct {
	objects []*Object
	data    map[*Object][]float64
}

func NewState(data map[*Object][]float64) State {
	objects := make([]*Object, 0, len(data))
	for o, feats := range data {
		if len(feats) != o.Type.Dim() {
			panic(fmt.Sprintf("object %s has %d features, type %s wants %d",
				o, len(feats), o.Type.Name, o.Type.Dim()))
		}
		objects = append(objects, o)
	}
	SortObjects(objects)
	return State{objects: objects, data: data}
}

// Objects returns the objects of the state in deterministic order.
// The returned slice must not be mutated.
func (s State) Objects() []*Object {
	return s.objects
}

// Features returns the feature vector of an object.
func (s State) Features(o *Object) []float64 {
	feats, ok := s.data[o]
	if !ok {
		panic(fmt.Sprintf("object %s is not in the state", o))
	}
	return feats
}

// Get reads a single named feature of an object.
func (s State) Get(o *Object, feature string) float64 {
	idx := o.Type.FeatureIndex(feature)
	if idx < 0 {
		panic(fmt.Sprintf("type %s has no feature %q", o.Type.Name, feature))
	}
	return s.Features(o)[idx]
}

// Set writes a single named feature of an object. Only call on copies.
func (s State) Set(o *Object, feature string, value float64) {
	idx := o.Type.FeatureIndex(feature)
	if idx < 0 {
		panic(fmt.Sprintf("type %s has no feature %q", o.Type.Name, feature))
	}
	s.Features(o)[idx] = value
}

// Copy returns a deep copy sharing object pointers but not feature data.
func (s State) Copy() State {
	data := make(map[*Object][]float64, len(s.data))
	for o, feats := range s.data {
		cp := make([]float64, len(feats))
		copy(cp, feats)
		data[o] = cp
	}
	objects := make([]*Object, len(s.objects))
	copy(objects, s.objects)
	return State{objects: objects, data: data}
}

// Vec concatenates the feature vectors of the given objects, in the
// given order.
func (s State) Vec(objects []*Object) []float64 {
	out := make([]float64, 0)
	for _, o := range objects {
		out = append(out, s.Features(o)...)
	}
	return out
}

// Action is a low-level continuous control. Actions produced by
// executing an option remember the ground option that produced them.
type Action struct {
	Arr    []float64
	option *GroundOption
}

func NewAction(arr []float64) Action {
	return Action{Arr: arr}
}

func (a Action) HasOption() bool {
	return a.option != nil
}

func (a Action) Option() *GroundOption {
	if a.option == nil {
		panic("action has no associated option")
	}
	return a.option
}

// WithOption returns a copy of the action tagged with the ground
// option that produced it.
func (a Action) WithOption(o *GroundOption) Action {
	a.option = o
	return a
}
