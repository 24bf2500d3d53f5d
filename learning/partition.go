package learning

import (
	"fmt"

	"github.com/zeu5/skill-learn/types"
	"github.com/zeu5/skill-learn/unify"
)

// Member is a transition assigned to a partition together with the
// object-to-variable substitution that unified it with the partition's
// representative effects.
type Member struct {
	Transition *types.Transition
	Sub        types.ObjToVarSub
}

// Partitioned is the result of partitioning one option's transitions
// by lifted effects. Index i across all four slices describes
// partition i.
type Partitioned struct {
	Option     *types.ParameterizedOption
	OptionVars [][]*types.Variable
	AddEffects []types.LiftedAtomSet
	DelEffects []types.LiftedAtomSet
	Members    [][]Member
}

func (p *Partitioned) NumPartitions() int {
	return len(p.Members)
}

// PartitionTransitions groups one option's transitions into classes
// sharing unifiable lifted effects. Assignment is first-fit in
// transition arrival order and partition creation order; the input
// order is the reproducibility contract.
func PartitionTransitions(option *types.ParameterizedOption,
	transitions []*types.Transition, unifier *unify.Unifier) *Partitioned {
	p := &Partitioned{Option: option}
	for _, tr := range transitions {
		ground := unify.GroundEffects(tr.Option, tr.AddEffects, tr.DeleteEffects)
		assigned := false
		for i := 0; i < p.NumPartitions(); i++ {
			lifted := unify.LiftedEffects(option.Name, p.OptionVars[i],
				p.AddEffects[i], p.DelEffects[i])
			if ok, sub := unifier.Unify(ground, lifted); ok {
				p.Members[i] = append(p.Members[i], Member{Transition: tr, Sub: sub})
				assigned = true
				break
			}
		}
		if assigned {
			continue
		}
		// Seed a new partition: fresh variables for the objects touched
		// by the effects or the option arguments, in sorted object order.
		objects := tr.AddEffects.Union(tr.DeleteEffects).AllObjects()
		seen := make(map[*types.Object]bool, len(objects))
		for _, o := range objects {
			seen[o] = true
		}
		for _, o := range tr.Option.Objects {
			if !seen[o] {
				objects = append(objects, o)
				seen[o] = true
			}
		}
		types.SortObjects(objects)
		sub := make(types.ObjToVarSub, len(objects))
		for i, o := range objects {
			sub[o] = types.NewVariable(fmt.Sprintf("?x%d", i), o.Type)
		}
		optVars := make([]*types.Variable, len(tr.Option.Objects))
		for i, o := range tr.Option.Objects {
			optVars[i] = sub[o]
		}
		p.OptionVars = append(p.OptionVars, optVars)
		p.AddEffects = append(p.AddEffects, tr.AddEffects.Lift(sub))
		p.DelEffects = append(p.DelEffects, tr.DeleteEffects.Lift(sub))
		p.Members = append(p.Members, []Member{{Transition: tr, Sub: sub}})
	}
	if len(p.OptionVars) != len(p.AddEffects) ||
		len(p.AddEffects) != len(p.DelEffects) ||
		len(p.DelEffects) != len(p.Members) {
		panic("partition bookkeeping out of sync")
	}
	return p
}

// learnPreconditions computes the precondition atom set of partition
// idx as the intersection, across member transitions, of each member's
// pre-transition atoms filtered to objects participating in the
// effects or option arguments, lifted through the member's
// substitution. Every member must yield the same variable set.
func learnPreconditions(p *Partitioned, idx int, unifier *unify.Unifier,
) ([]*types.Variable, types.LiftedAtomSet) {
	var variables []*types.Variable
	var preconditions types.LiftedAtomSet
	lifted := unify.LiftedEffects(p.Option.Name, p.OptionVars[idx],
		p.AddEffects[idx], p.DelEffects[idx])
	for i, m := range p.Members[idx] {
		tr := m.Transition
		ground := unify.GroundEffects(tr.Option, tr.AddEffects, tr.DeleteEffects)
		ok, sub := unifier.Unify(ground, lifted)
		if !ok {
			// every member was admitted by exactly this unification
			panic(fmt.Sprintf("partition %s/%d: member transition no longer unifies",
				p.Option.Name, idx))
		}
		// Drop atoms mentioning objects outside the effects and option
		// arguments; preconditions cannot act at a distance.
		participating := make(map[*types.Object]bool, len(sub))
		for o := range sub {
			participating[o] = true
		}
		atoms := types.NewGroundAtomSet()
		for _, a := range tr.Atoms {
			all := true
			for _, o := range a.Objects {
				if !participating[o] {
					all = false
					break
				}
			}
			if all {
				atoms.Add(a)
			}
		}
		liftedAtoms := atoms.Lift(sub)
		memberVars := sub.Variables()
		if i == 0 {
			variables = memberVars
			preconditions = liftedAtoms
			continue
		}
		if !sameVariables(variables, memberVars) {
			panic(fmt.Sprintf("partition %s/%d: inconsistent variable sets across members",
				p.Option.Name, idx))
		}
		preconditions = preconditions.Intersect(liftedAtoms)
	}
	return variables, preconditions
}

func sameVariables(a, b []*types.Variable) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
