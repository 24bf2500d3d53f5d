// Package unify finds substitutions making a lifted atom combination
// syntactically identical to a ground one. Atom combinations mix option
// arguments, add effects and delete effects; each atom carries an
// explicit Kind so that atoms of the same predicate from different
// sources can never be confused with each other.
package unify

import (
	"fmt"
	"sort"
	"strings"

	"github.com/zeu5/skill-learn/types"
)

// Kind is the source of an atom inside a combination.
type Kind int

const (
	KindOptionArgs Kind = iota
	KindPrecondition
	KindAddEffect
	KindDeleteEffect
)

func (k Kind) String() string {
	switch k {
	case KindOptionArgs:
		return "OPT-ARGS"
	case KindPrecondition:
		return "PRE"
	case KindAddEffect:
		return "ADD"
	case KindDeleteEffect:
		return "DEL"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// GroundAtom is a kinded atom over objects. For option-argument atoms
// Name is the option name and Args the option's objects.
type GroundAtom struct {
	Kind Kind
	Name string
	Args []*types.Object
}

func (a GroundAtom) key() string {
	names := make([]string, len(a.Args))
	for i, o := range a.Args {
		names[i] = o.Name
	}
	return a.Kind.String() + "-" + a.Name + "(" + strings.Join(names, ",") + ")"
}

// signature identifies which lifted atoms this atom may match.
func (a GroundAtom) signature() string {
	return fmt.Sprintf("%s-%s/%d", a.Kind, a.Name, len(a.Args))
}

// LiftedAtom is a kinded atom over variables.
type LiftedAtom struct {
	Kind Kind
	Name string
	Args []*types.Variable
}

func (a LiftedAtom) key() string {
	names := make([]string, len(a.Args))
	for i, v := range a.Args {
		names[i] = v.Name
	}
	return a.Kind.String() + "-" + a.Name + "(" + strings.Join(names, ",") + ")"
}

func (a LiftedAtom) signature() string {
	return fmt.Sprintf("%s-%s/%d", a.Kind, a.Name, len(a.Args))
}

// WrapGround tags every atom of the set with the kind.
func WrapGround(kind Kind, atoms types.GroundAtomSet) []GroundAtom {
	out := make([]GroundAtom, 0, atoms.Len())
	for _, a := range atoms.Sorted() {
		out = append(out, GroundAtom{Kind: kind, Name: a.Predicate.Name, Args: a.Objects})
	}
	return out
}

// WrapLifted tags every atom of the set with the kind.
func WrapLifted(kind Kind, atoms types.LiftedAtomSet) []LiftedAtom {
	out := make([]LiftedAtom, 0, atoms.Len())
	for _, a := range atoms.Sorted() {
		out = append(out, LiftedAtom{Kind: kind, Name: a.Predicate.Name, Args: a.Variables})
	}
	return out
}

// GroundOptionAtom is the synthetic option-argument-identity atom of a
// ground option.
func GroundOptionAtom(opt *types.GroundOption) GroundAtom {
	return GroundAtom{Kind: KindOptionArgs, Name: opt.Parent.Name, Args: opt.Objects}
}

// LiftedOptionAtom is the synthetic option-argument-identity atom over
// the option's argument variables.
func LiftedOptionAtom(name string, optionVars []*types.Variable) LiftedAtom {
	return LiftedAtom{Kind: KindOptionArgs, Name: name, Args: optionVars}
}

// GroundEffects combines a transition's option arguments, add effects
// and delete effects into one tagged combination.
func GroundEffects(opt *types.GroundOption, addEffects, delEffects types.GroundAtomSet) []GroundAtom {
	out := []GroundAtom{GroundOptionAtom(opt)}
	out = append(out, WrapGround(KindAddEffect, addEffects)...)
	out = append(out, WrapGround(KindDeleteEffect, delEffects)...)
	return out
}

// LiftedEffects combines a partition representative's option argument
// variables, add effects and delete effects into one tagged combination.
func LiftedEffects(optionName string, optionVars []*types.Variable,
	addEffects, delEffects types.LiftedAtomSet) []LiftedAtom {
	out := []LiftedAtom{LiftedOptionAtom(optionName, optionVars)}
	out = append(out, WrapLifted(KindAddEffect, addEffects)...)
	out = append(out, WrapLifted(KindDeleteEffect, delEffects)...)
	return out
}

type result struct {
	ok    bool
	pairs []argPair
}

// argPair records one object-to-variable binding by position within
// the key-sorted combinations. Cached substitutions are stored this
// way rather than as pointer maps: objects are identified by name and
// type, so a later call may pass name-equal objects allocated by a
// different trajectory, and the substitution must be rebuilt over
// that call's own pointers.
type argPair struct {
	groundAtom, groundArg int
	liftedAtom, liftedArg int
}

// Unifier performs cached unification. Invention re-invokes
// unification with mostly repeated lifted sides, so results are cached
// by the exact (ground, lifted) combination.
type Unifier struct {
	cache map[string]result
}

func NewUnifier() *Unifier {
	return &Unifier{cache: make(map[string]result)}
}

func cacheKey(ground []GroundAtom, lifted []LiftedAtom) string {
	gk := make([]string, len(ground))
	for i, a := range ground {
		gk[i] = a.key()
	}
	lk := make([]string, len(lifted))
	for i, a := range lifted {
		lk[i] = a.key()
	}
	sort.Strings(gk)
	sort.Strings(lk)
	return strings.Join(gk, "|") + "||" + strings.Join(lk, "|")
}

// Unify finds a substitution from objects to variables that is a
// bijection over the symbols that appear, such that applying it to the
// lifted combination yields exactly the ground combination. Failure is
// an ordinary negative result, not an error.
func (u *Unifier) Unify(ground []GroundAtom, lifted []LiftedAtom) (bool, types.ObjToVarSub) {
	key := cacheKey(ground, lifted)
	if r, ok := u.cache[key]; ok {
		if !r.ok {
			return false, nil
		}
		return true, rebindSub(ground, lifted, r.pairs)
	}
	ok, sub := unify(ground, lifted)
	u.cache[key] = result{ok: ok, pairs: encodeSub(ground, lifted, sub)}
	return ok, sub
}

// groundKeyOrder returns atom indices sorted by key. Keys are unique
// within a combination, so the order is the same for any two
// combinations with equal cache keys.
func groundKeyOrder(atoms []GroundAtom) []int {
	idx := make([]int, len(atoms))
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(i, j int) bool {
		return atoms[idx[i]].key() < atoms[idx[j]].key()
	})
	return idx
}

func liftedKeyOrder(atoms []LiftedAtom) []int {
	idx := make([]int, len(atoms))
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(i, j int) bool {
		return atoms[idx[i]].key() < atoms[idx[j]].key()
	})
	return idx
}

func encodeSub(ground []GroundAtom, lifted []LiftedAtom, sub types.ObjToVarSub) []argPair {
	if sub == nil {
		return nil
	}
	gOrder := groundKeyOrder(ground)
	lOrder := liftedKeyOrder(lifted)
	varAt := make(map[*types.Variable][2]int)
	for li, ai := range lOrder {
		for pos, v := range lifted[ai].Args {
			if _, ok := varAt[v]; !ok {
				varAt[v] = [2]int{li, pos}
			}
		}
	}
	seen := make(map[*types.Object]bool, len(sub))
	pairs := make([]argPair, 0, len(sub))
	for gi, ai := range gOrder {
		for pos, o := range ground[ai].Args {
			if seen[o] {
				continue
			}
			seen[o] = true
			at := varAt[sub[o]]
			pairs = append(pairs, argPair{
				groundAtom: gi, groundArg: pos,
				liftedAtom: at[0], liftedArg: at[1],
			})
		}
	}
	return pairs
}

func rebindSub(ground []GroundAtom, lifted []LiftedAtom, pairs []argPair) types.ObjToVarSub {
	gOrder := groundKeyOrder(ground)
	lOrder := liftedKeyOrder(lifted)
	sub := make(types.ObjToVarSub, len(pairs))
	for _, p := range pairs {
		o := ground[gOrder[p.groundAtom]].Args[p.groundArg]
		v := lifted[lOrder[p.liftedAtom]].Args[p.liftedArg]
		sub[o] = v
	}
	return sub
}

func unify(ground []GroundAtom, lifted []LiftedAtom) (bool, types.ObjToVarSub) {
	if len(ground) != len(lifted) {
		return false, nil
	}
	// Group the ground atoms by signature; the multisets of signatures
	// must agree or no bijection can exist.
	groundBySig := make(map[string][]int)
	for i, a := range ground {
		groundBySig[a.signature()] = append(groundBySig[a.signature()], i)
	}
	liftedBySig := make(map[string]int)
	for _, a := range lifted {
		liftedBySig[a.signature()]++
	}
	if len(groundBySig) != len(liftedBySig) {
		return false, nil
	}
	for sig, count := range liftedBySig {
		if len(groundBySig[sig]) != count {
			return false, nil
		}
	}
	// Deterministic search order: lifted atoms sorted by key.
	ordered := make([]LiftedAtom, len(lifted))
	copy(ordered, lifted)
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].key() < ordered[j].key()
	})
	used := make([]bool, len(ground))
	objToVar := make(types.ObjToVarSub)
	varToObj := make(types.VarToObjSub)

	var search func(idx int) bool
	search = func(idx int) bool {
		if idx == len(ordered) {
			return true
		}
		la := ordered[idx]
		for _, gi := range groundBySig[la.signature()] {
			if used[gi] {
				continue
			}
			ga := ground[gi]
			if !bindAtom(la, ga, objToVar, varToObj) {
				continue
			}
			bound := bindingsOf(la, ga)
			for _, b := range bound {
				if _, ok := objToVar[b.obj]; !ok {
					objToVar[b.obj] = b.v
					varToObj[b.v] = b.obj
				} else {
					b.fresh = false
				}
			}
			used[gi] = true
			if search(idx + 1) {
				return true
			}
			used[gi] = false
			for _, b := range bound {
				if b.fresh {
					delete(objToVar, b.obj)
					delete(varToObj, b.v)
				}
			}
		}
		return false
	}
	if !search(0) {
		return false, nil
	}
	return true, objToVar
}

type binding struct {
	obj   *types.Object
	v     *types.Variable
	fresh bool
}

// bindAtom checks whether the lifted atom can match the ground atom
// positionally under the current bijection, with type compatibility.
func bindAtom(la LiftedAtom, ga GroundAtom, objToVar types.ObjToVarSub,
	varToObj types.VarToObjSub) bool {
	if len(la.Args) != len(ga.Args) {
		return false
	}
	// local consistency within the atom itself
	local := make(map[*types.Variable]*types.Object)
	localObj := make(map[*types.Object]*types.Variable)
	for i, v := range la.Args {
		o := ga.Args[i]
		if v.Type != o.Type {
			return false
		}
		if bo, ok := varToObj[v]; ok && bo != o {
			return false
		}
		if bv, ok := objToVar[o]; ok && bv != v {
			return false
		}
		if lo, ok := local[v]; ok && lo != o {
			return false
		}
		if lv, ok := localObj[o]; ok && lv != v {
			return false
		}
		local[v] = o
		localObj[o] = v
	}
	return true
}

// bindingsOf lists the new (object, variable) pairs an atom match
// introduces, deduplicated within the atom.
func bindingsOf(la LiftedAtom, ga GroundAtom) []*binding {
	seen := make(map[*types.Object]bool)
	out := make([]*binding, 0, len(la.Args))
	for i, v := range la.Args {
		o := ga.Args[i]
		if seen[o] {
			continue
		}
		seen[o] = true
		out = append(out, &binding{obj: o, v: v, fresh: true})
	}
	return out
}
