// Package learning implements operator learning from option
// trajectories: transition generation, effect-based partitioning,
// precondition learning and sampler learning.
package learning

import (
	"github.com/zeu5/skill-learn/types"
	"github.com/zeu5/skill-learn/util"
)

// TransitionsByOption groups transitions by their parameterized
// option, remembering first-seen option order so that iteration is
// deterministic.
type TransitionsByOption struct {
	Options  []*types.ParameterizedOption
	ByOption map[*types.ParameterizedOption][]*types.Transition
}

func NewTransitionsByOption() *TransitionsByOption {
	return &TransitionsByOption{
		Options:  make([]*types.ParameterizedOption, 0),
		ByOption: make(map[*types.ParameterizedOption][]*types.Transition),
	}
}

func (t *TransitionsByOption) Add(tr *types.Transition) {
	parent := tr.Option.Parent
	if _, ok := t.ByOption[parent]; !ok {
		t.Options = append(t.Options, parent)
	}
	t.ByOption[parent] = append(t.ByOption[parent], tr)
}

// GenerateTransitions walks the dataset, collapses action trajectories
// to option trajectories, abstracts both endpoints of every option
// step with the predicates, and splits the abstract difference into
// add and delete effects.
func GenerateTransitions(dataset types.Dataset, preds []*types.Predicate,
) (*TransitionsByOption, error) {
	out := NewTransitionsByOption()
	for _, traj := range dataset {
		optTraj, err := util.ActionsToOptions(traj)
		if err != nil {
			return nil, err
		}
		for i, opt := range optTraj.Options {
			atoms := util.Abstract(optTraj.States[i], preds)
			nextAtoms := util.Abstract(optTraj.States[i+1], preds)
			out.Add(&types.Transition{
				State:         optTraj.States[i],
				NextState:     optTraj.States[i+1],
				Atoms:         atoms,
				Option:        opt,
				NextAtoms:     nextAtoms,
				AddEffects:    nextAtoms.Difference(atoms),
				DeleteEffects: atoms.Difference(nextAtoms),
			})
		}
	}
	return out, nil
}
