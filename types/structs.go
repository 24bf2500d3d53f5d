package types

import (
	"fmt"
	"sort"
	"strings"
)

// Type is a named category of objects with an ordered list of
// continuous feature names. Types are immutable and shared by pointer.
type Type struct {
	Name     string
	Features []string
}

func NewType(name string, features []string) *Type {
	return &Type{Name: name, Features: features}
}

// Dim is the length of the feature vector of objects of this type.
func (t *Type) Dim() int {
	return len(t.Features)
}

// FeatureIndex returns the position of the named feature, or -1.
func (t *Type) FeatureIndex(name string) int {
	for i, f := range t.Features {
		if f == name {
			return i
		}
	}
	return -1
}

func (t *Type) String() string {
	return t.Name
}

// Object is an instance of a Type. Objects are shared by pointer within
// a task; identity for sorting and printing is (name, type name).
type Object struct {
	Name string
	Type *Type
}

func NewObject(name string, t *Type) *Object {
	return &Object{Name: name, Type: t}
}

func (o *Object) String() string {
	return o.Name + ":" + o.Type.Name
}

// Variable is a typed placeholder for an Object inside lifted structures.
type Variable struct {
	Name string
	Type *Type
}

func NewVariable(name string, t *Type) *Variable {
	return &Variable{Name: name, Type: t}
}

func (v *Variable) String() string {
	return v.Name + ":" + v.Type.Name
}

// SortObjects orders objects deterministically by name, then type name.
func SortObjects(objects []*Object) {
	sort.Slice(objects, func(i, j int) bool {
		if objects[i].Name != objects[j].Name {
			return objects[i].Name < objects[j].Name
		}
		return objects[i].Type.Name < objects[j].Type.Name
	})
}

// SortVariables orders variables deterministically by name, then type name.
func SortVariables(variables []*Variable) {
	sort.Slice(variables, func(i, j int) bool {
		if variables[i].Name != variables[j].Name {
			return variables[i].Name < variables[j].Name
		}
		return variables[i].Type.Name < variables[j].Type.Name
	})
}

// PredicateClassifier decides whether a predicate holds for a tuple of
// objects in a state. Classifiers must be pure functions.
type PredicateClassifier func(State, []*Object) bool

// Predicate is a named boolean relation over typed objects. Two
// predicates are the same predicate iff name and argument types match;
// the classifier is deliberately not part of identity so that a
// predicate can be stripped of its classifier for learning.
type Predicate struct {
	Name       string
	Types      []*Type
	Classifier PredicateClassifier
}

func NewPredicate(name string, argTypes []*Type, classifier PredicateClassifier) *Predicate {
	return &Predicate{Name: name, Types: argTypes, Classifier: classifier}
}

func (p *Predicate) Arity() int {
	return len(p.Types)
}

// Signature is the identity key of the predicate: name plus argument
// type names. The classifier never contributes.
func (p *Predicate) Signature() string {
	names := make([]string, len(p.Types))
	for i, t := range p.Types {
		names[i] = t.Name
	}
	return p.Name + "(" + strings.Join(names, ",") + ")"
}

// Strip returns a copy of the predicate without its classifier. The
// stripped predicate is equal to the original in every atom set.
func (p *Predicate) Strip() *Predicate {
	return &Predicate{Name: p.Name, Types: p.Types}
}

// Negation returns the derived predicate whose classifier inverts this
// one. The negation carries a NOT- prefixed name.
func (p *Predicate) Negation() *Predicate {
	orig := p.Classifier
	return &Predicate{
		Name:  "NOT-" + p.Name,
		Types: p.Types,
		Classifier: func(s State, objs []*Object) bool {
			return !orig(s, objs)
		},
	}
}

// Holds evaluates the classifier on ground arguments.
func (p *Predicate) Holds(s State, objects []*Object) bool {
	if p.Classifier == nil {
		panic(fmt.Sprintf("predicate %s has been stripped of its classifier", p.Name))
	}
	if len(objects) != len(p.Types) {
		panic(fmt.Sprintf("predicate %s applied to %d objects, want %d",
			p.Name, len(objects), len(p.Types)))
	}
	return p.Classifier(s, objects)
}

func (p *Predicate) String() string {
	return p.Name
}

// SortPredicates orders predicates deterministically by signature.
func SortPredicates(preds []*Predicate) {
	sort.Slice(preds, func(i, j int) bool {
		return preds[i].Signature() < preds[j].Signature()
	})
}

// ObjToVarSub maps objects to variables. Used for lifting.
type ObjToVarSub map[*Object]*Variable

// Inverse flips the substitution. Panics if it is not injective.
func (s ObjToVarSub) Inverse() VarToObjSub {
	inv := make(VarToObjSub, len(s))
	for o, v := range s {
		if _, ok := inv[v]; ok {
			panic("substitution is not injective")
		}
		inv[v] = o
	}
	return inv
}

// Variables returns the sorted variable range of the substitution.
func (s ObjToVarSub) Variables() []*Variable {
	vars := make([]*Variable, 0, len(s))
	for _, v := range s {
		vars = append(vars, v)
	}
	SortVariables(vars)
	return vars
}

// VarToObjSub maps variables to objects. Used for grounding.
type VarToObjSub map[*Variable]*Object
