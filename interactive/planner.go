package interactive

import (
	"time"

	"golang.org/x/exp/rand"

	"github.com/zeu5/skill-learn/types"
	"github.com/zeu5/skill-learn/util"
)

// Policy maps states to actions during rollout.
type Policy func(types.State) types.Action

// Simulator advances the environment by one low-level action.
type Simulator func(types.State, types.Action) types.State

// Planner is the external task planner boundary. Failures surface as
// PlannerFailureError or PlannerTimeoutError.
type Planner interface {
	Solve(task types.Task, timeout time.Duration) (Policy, error)
}

// RandomOptionPlanner is a baseline planner that repeatedly executes
// randomly grounded options. It keeps the active-learning loop
// runnable without the external task-and-motion planner.
type RandomOptionPlanner struct {
	Options []*types.ParameterizedOption
	Rng     *rand.Rand
}

func NewRandomOptionPlanner(options []*types.ParameterizedOption,
	rng *rand.Rand) *RandomOptionPlanner {
	return &RandomOptionPlanner{Options: options, Rng: rng}
}

var _ Planner = &RandomOptionPlanner{}

// Solve returns a policy that samples a random initiable ground option
// at every step.
func (p *RandomOptionPlanner) Solve(task types.Task, timeout time.Duration,
) (Policy, error) {
	if len(p.Options) == 0 {
		return nil, &types.PlannerFailureError{Msg: "no options to plan with"}
	}
	return func(s types.State) types.Action {
		const maxTries = 100
		for try := 0; try < maxTries; try++ {
			option := p.Options[p.Rng.Intn(len(p.Options))]
			combinations := util.ObjectCombinations(s.Objects(), option.Types, false)
			if len(combinations) == 0 && len(option.Types) > 0 {
				continue
			}
			var objects []*types.Object
			if len(option.Types) == 0 {
				objects = nil
			} else {
				objects = combinations[p.Rng.Intn(len(combinations))]
			}
			params := option.ParamSpace.Sample(p.Rng)
			ground := option.Ground(objects, params)
			if !ground.Initiable(s) {
				continue
			}
			return ground.Policy(s).WithOption(ground)
		}
		// fall back to an arbitrary grounding of the first option
		option := p.Options[0]
		var objects []*types.Object
		if len(option.Types) > 0 {
			objects = util.ObjectCombinations(s.Objects(), option.Types, false)[0]
		}
		ground := option.Ground(objects, option.ParamSpace.Sample(p.Rng))
		return ground.Policy(s).WithOption(ground)
	}, nil
}

// RunPolicyOnTask rolls out a policy from the task's initial state,
// recording the action trajectory. The rollout stops when the goal
// holds or maxSteps actions have been taken.
func RunPolicyOnTask(policy Policy, task types.Task, simulate Simulator,
	preds []*types.Predicate, maxSteps int) types.ActionTrajectory {
	traj := types.ActionTrajectory{States: []types.State{task.Init}}
	state := task.Init
	for step := 0; step < maxSteps; step++ {
		if task.Goal.IsSubset(util.Abstract(state, preds)) {
			break
		}
		act := policy(state)
		state = simulate(state, act)
		traj.Actions = append(traj.Actions, act)
		traj.States = append(traj.States, state)
	}
	return traj
}
