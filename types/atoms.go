package types

import (
	"fmt"
	"sort"
	"strings"
)

// GroundAtom is a predicate applied to concrete objects.
type GroundAtom struct {
	Predicate *Predicate
	Objects   []*Object
}

func NewGroundAtom(p *Predicate, objects []*Object) GroundAtom {
	if len(objects) != p.Arity() {
		panic(fmt.Sprintf("atom %s applied to %d objects, want %d",
			p.Name, len(objects), p.Arity()))
	}
	return GroundAtom{Predicate: p, Objects: objects}
}

// Key is the set identity of the atom: predicate name and argument
// names, in order.
func (a GroundAtom) Key() string {
	names := make([]string, len(a.Objects))
	for i, o := range a.Objects {
		names[i] = o.Name
	}
	return a.Predicate.Name + "(" + strings.Join(names, ",") + ")"
}

func (a GroundAtom) String() string {
	return a.Key()
}

// Holds evaluates the atom's predicate classifier in the state.
func (a GroundAtom) Holds(s State) bool {
	return a.Predicate.Holds(s, a.Objects)
}

// Lift replaces every object with its variable under sub. The
// substitution must cover all of the atom's objects.
func (a GroundAtom) Lift(sub ObjToVarSub) LiftedAtom {
	vars := make([]*Variable, len(a.Objects))
	for i, o := range a.Objects {
		v, ok := sub[o]
		if !ok {
			panic(fmt.Sprintf("lifting %s: no variable for object %s", a.Key(), o))
		}
		vars[i] = v
	}
	return LiftedAtom{Predicate: a.Predicate, Variables: vars}
}

// LiftedAtom is a predicate applied to variables.
type LiftedAtom struct {
	Predicate *Predicate
	Variables []*Variable
}

func NewLiftedAtom(p *Predicate, variables []*Variable) LiftedAtom {
	if len(variables) != p.Arity() {
		panic(fmt.Sprintf("atom %s applied to %d variables, want %d",
			p.Name, len(variables), p.Arity()))
	}
	return LiftedAtom{Predicate: p, Variables: variables}
}

func (a LiftedAtom) Key() string {
	names := make([]string, len(a.Variables))
	for i, v := range a.Variables {
		names[i] = v.Name
	}
	return a.Predicate.Name + "(" + strings.Join(names, ",") + ")"
}

func (a LiftedAtom) String() string {
	return a.Key()
}

// Ground replaces every variable with its object under sub. The
// substitution must cover all of the atom's variables.
func (a LiftedAtom) Ground(sub VarToObjSub) GroundAtom {
	objs := make([]*Object, len(a.Variables))
	for i, v := range a.Variables {
		o, ok := sub[v]
		if !ok {
			panic(fmt.Sprintf("grounding %s: no object for variable %s", a.Key(), v))
		}
		objs[i] = o
	}
	return GroundAtom{Predicate: a.Predicate, Objects: objs}
}

// GroundAtomSet is a set of ground atoms keyed by atom identity.
type GroundAtomSet map[string]GroundAtom

func NewGroundAtomSet(atoms ...GroundAtom) GroundAtomSet {
	s := make(GroundAtomSet, len(atoms))
	for _, a := range atoms {
		s.Add(a)
	}
	return s
}

func (s GroundAtomSet) Add(a GroundAtom) {
	s[a.Key()] = a
}

func (s GroundAtomSet) Contains(a GroundAtom) bool {
	_, ok := s[a.Key()]
	return ok
}

func (s GroundAtomSet) Len() int {
	return len(s)
}

func (s GroundAtomSet) Copy() GroundAtomSet {
	out := make(GroundAtomSet, len(s))
	for k, a := range s {
		out[k] = a
	}
	return out
}

func (s GroundAtomSet) Union(other GroundAtomSet) GroundAtomSet {
	out := s.Copy()
	for k, a := range other {
		out[k] = a
	}
	return out
}

// Difference returns the atoms of s that are not in other.
func (s GroundAtomSet) Difference(other GroundAtomSet) GroundAtomSet {
	out := make(GroundAtomSet)
	for k, a := range s {
		if _, ok := other[k]; !ok {
			out[k] = a
		}
	}
	return out
}

func (s GroundAtomSet) IsSubset(other GroundAtomSet) bool {
	for k := range s {
		if _, ok := other[k]; !ok {
			return false
		}
	}
	return true
}

func (s GroundAtomSet) Equal(other GroundAtomSet) bool {
	return len(s) == len(other) && s.IsSubset(other)
}

// Sorted returns the atoms in deterministic key order.
func (s GroundAtomSet) Sorted() []GroundAtom {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	atoms := make([]GroundAtom, len(keys))
	for i, k := range keys {
		atoms[i] = s[k]
	}
	return atoms
}

// Lift lifts every atom through sub.
func (s GroundAtomSet) Lift(sub ObjToVarSub) LiftedAtomSet {
	out := make(LiftedAtomSet, len(s))
	for _, a := range s {
		out.Add(a.Lift(sub))
	}
	return out
}

// AllObjects returns the sorted set of objects appearing in the atoms.
func (s GroundAtomSet) AllObjects() []*Object {
	seen := make(map[*Object]bool)
	objs := make([]*Object, 0)
	for _, a := range s {
		for _, o := range a.Objects {
			if !seen[o] {
				seen[o] = true
				objs = append(objs, o)
			}
		}
	}
	SortObjects(objs)
	return objs
}

func (s GroundAtomSet) String() string {
	atoms := s.Sorted()
	parts := make([]string, len(atoms))
	for i, a := range atoms {
		parts[i] = a.Key()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// LiftedAtomSet is a set of lifted atoms keyed by atom identity.
type LiftedAtomSet map[string]LiftedAtom

func NewLiftedAtomSet(atoms ...LiftedAtom) LiftedAtomSet {
	s := make(LiftedAtomSet, len(atoms))
	for _, a := range atoms {
		s.Add(a)
	}
	return s
}

func (s LiftedAtomSet) Add(a LiftedAtom) {
	s[a.Key()] = a
}

func (s LiftedAtomSet) Contains(a LiftedAtom) bool {
	_, ok := s[a.Key()]
	return ok
}

func (s LiftedAtomSet) Len() int {
	return len(s)
}

func (s LiftedAtomSet) Copy() LiftedAtomSet {
	out := make(LiftedAtomSet, len(s))
	for k, a := range s {
		out[k] = a
	}
	return out
}

// Intersect returns the atoms present in both sets.
func (s LiftedAtomSet) Intersect(other LiftedAtomSet) LiftedAtomSet {
	out := make(LiftedAtomSet)
	for k, a := range s {
		if _, ok := other[k]; ok {
			out[k] = a
		}
	}
	return out
}

func (s LiftedAtomSet) IsSubset(other LiftedAtomSet) bool {
	for k := range s {
		if _, ok := other[k]; !ok {
			return false
		}
	}
	return true
}

func (s LiftedAtomSet) Equal(other LiftedAtomSet) bool {
	return len(s) == len(other) && s.IsSubset(other)
}

func (s LiftedAtomSet) Sorted() []LiftedAtom {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	atoms := make([]LiftedAtom, len(keys))
	for i, k := range keys {
		atoms[i] = s[k]
	}
	return atoms
}

// Ground grounds every atom through sub.
func (s LiftedAtomSet) Ground(sub VarToObjSub) GroundAtomSet {
	out := make(GroundAtomSet, len(s))
	for _, a := range s {
		out.Add(a.Ground(sub))
	}
	return out
}

// AllVariables returns the sorted set of variables appearing in the atoms.
func (s LiftedAtomSet) AllVariables() []*Variable {
	seen := make(map[*Variable]bool)
	vars := make([]*Variable, 0)
	for _, a := range s {
		for _, v := range a.Variables {
			if !seen[v] {
				seen[v] = true
				vars = append(vars, v)
			}
		}
	}
	SortVariables(vars)
	return vars
}

func (s LiftedAtomSet) String() string {
	atoms := s.Sorted()
	parts := make([]string, len(atoms))
	for i, a := range atoms {
		parts[i] = a.Key()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
