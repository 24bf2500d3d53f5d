package util

import (
	"fmt"

	"github.com/zeu5/skill-learn/types"
)

// OptionTrajectory is an action trajectory collapsed to the option
// level: consecutive actions produced by the same ground option become
// one step. len(States) == len(Options)+1.
type OptionTrajectory struct {
	States  []types.State
	Options []*types.GroundOption
}

// ActionsToOptions collapses an action trajectory into an option
// trajectory. Every action must carry its associated ground option.
func ActionsToOptions(traj types.ActionTrajectory) (OptionTrajectory, error) {
	if len(traj.States) != len(traj.Actions)+1 {
		return OptionTrajectory{}, fmt.Errorf(
			"trajectory has %d states for %d actions", len(traj.States), len(traj.Actions))
	}
	out := OptionTrajectory{States: []types.State{}}
	if len(traj.Actions) == 0 {
		out.States = append(out.States, traj.States...)
		return out, nil
	}
	out.States = append(out.States, traj.States[0])
	var current *types.GroundOption
	for i, act := range traj.Actions {
		if !act.HasOption() {
			return OptionTrajectory{}, fmt.Errorf(
				"action %d has no associated option", i)
		}
		opt := act.Option()
		if opt != current {
			if current != nil {
				out.States = append(out.States, traj.States[i])
			}
			out.Options = append(out.Options, opt)
			current = opt
		}
	}
	out.States = append(out.States, traj.States[len(traj.States)-1])
	return out, nil
}
