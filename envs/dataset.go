package envs

import (
	"github.com/zeu5/skill-learn/types"
)

// DemonstrationDataset rolls out a hand-coded expert on the given
// tasks and returns the resulting trajectories. Every action carries
// the ground option that produced it, so the trajectories can be
// segmented into option executions downstream.
func (e *Cover) DemonstrationDataset(tasks []types.Task) types.Dataset {
	dataset := make(types.Dataset, 0, len(tasks))
	for _, task := range tasks {
		dataset = append(dataset, e.demonstrate(task))
	}
	return dataset
}

// demonstrate covers each goal target with its goal block in turn:
// one pick at a point inside the block, one place near the target
// center, offset so the block lands centered on the target.
func (e *Cover) demonstrate(task types.Task) types.ActionTrajectory {
	traj := types.ActionTrajectory{States: []types.State{task.Init}}
	state := task.Init
	step := func(pose float64) {
		ground := e.PickPlace.Ground(nil, []float64{pose})
		act := ground.Policy(state).WithOption(ground)
		state = e.Simulate(state, act)
		traj.Actions = append(traj.Actions, act)
		traj.States = append(traj.States, state)
	}
	for _, goal := range task.Goal.Sorted() {
		if goal.Holds(state) {
			continue
		}
		block, target := goal.Objects[0], goal.Objects[1]
		// jitter the grasp point, small enough that the place point
		// stays inside the target's hand region
		jitter := state.Get(target, "width") / 10 * 0.5
		grasp := (e.rng.Float64()*2 - 1) * jitter
		step(state.Get(block, "pose") + grasp)
		step(state.Get(target, "pose") + grasp)
	}
	return traj
}
