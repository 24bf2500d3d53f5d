package envs

import (
	"testing"

	"github.com/zeu5/skill-learn/types"
	"github.com/zeu5/skill-learn/util"
)

func TestCoverTasksAreWellFormed(t *testing.T) {
	cfg := types.DefaultConfig()
	env := NewCover(cfg)

	train := env.TrainTasks()
	test := env.TestTasks()
	if len(train) != cfg.NumTrainTasks {
		t.Errorf("expected %d train tasks, got %d", cfg.NumTrainTasks, len(train))
	}
	if len(test) != cfg.NumTestTasks {
		t.Errorf("expected %d test tasks, got %d", cfg.NumTestTasks, len(test))
	}
	for _, task := range train {
		// 2 blocks, 2 targets, 1 robot
		if len(task.Init.Objects()) != 5 {
			t.Fatalf("expected 5 objects, got %d", len(task.Init.Objects()))
		}
		if task.Goal.Len() == 0 {
			t.Errorf("task has an empty goal")
		}
		for _, atom := range task.Goal.Sorted() {
			if atom.Predicate.Name != "Covers" {
				t.Errorf("goals may only use Covers, got %s", atom.Predicate.Name)
			}
			if atom.Holds(task.Init) {
				t.Errorf("goal already satisfied in the initial state")
			}
		}
		atoms := util.Abstract(task.Init, env.Predicates())
		if !atoms.Contains(types.NewGroundAtom(env.HandEmpty, nil)) {
			t.Errorf("hand should start empty")
		}
	}
}

func TestCoverPickAndPlace(t *testing.T) {
	cfg := types.DefaultConfig()
	env := NewCover(cfg)
	state := types.NewState(map[*types.Object][]float64{
		env.blocks[0]:  {1, 0, 0.1, 0.2, -1},
		env.blocks[1]:  {1, 0, 0.07, 0.5, -1},
		env.targets[0]: {0, 1, 0.05, 0.8},
		env.targets[1]: {0, 1, 0.03, 0.35},
		env.robot:      {0.5},
	})

	block := env.blocks[0]
	target := env.targets[0]
	blockPose := state.Get(block, "pose")

	// pick at the block center
	next := env.Simulate(state, types.NewAction([]float64{blockPose}))
	if next.Get(block, "grasp") != 0 {
		t.Fatalf("expected grasp 0 after a centered pick, got %f",
			next.Get(block, "grasp"))
	}
	if env.HandEmpty.Holds(next, nil) {
		t.Errorf("hand should not be empty while holding a block")
	}
	if !env.Holding.Holds(next, []*types.Object{block}) {
		t.Errorf("Holding should be true for the picked block")
	}

	// place at the target center
	targetPose := next.Get(target, "pose")
	placed := env.Simulate(next, types.NewAction([]float64{targetPose}))
	if placed.Get(block, "grasp") != -1 {
		t.Fatalf("expected the block to be released")
	}
	if placed.Get(block, "pose") != targetPose {
		t.Errorf("block should land centered on the target")
	}
	if !env.Covers.Holds(placed, []*types.Object{block, target}) {
		t.Errorf("the placed block should cover the target")
	}
}

func TestCoverNoopOutsideHandRegions(t *testing.T) {
	cfg := types.DefaultConfig()
	env := NewCover(cfg)
	state := env.TrainTasks()[0].Init

	// find a point outside every hand region
	pose := -1.0
	next := env.Simulate(state, types.NewAction([]float64{pose}))
	for _, o := range state.Objects() {
		pre := state.Features(o)
		post := next.Features(o)
		for i := range pre {
			if pre[i] != post[i] {
				t.Fatalf("out-of-region action changed object %s", o)
			}
		}
	}
}

func TestDemonstrationsReachGoals(t *testing.T) {
	cfg := types.DefaultConfig()
	env := NewCover(cfg)
	tasks := env.TrainTasks()
	dataset := env.DemonstrationDataset(tasks)
	if len(dataset) != len(tasks) {
		t.Fatalf("expected one trajectory per task")
	}
	reached := 0
	for i, traj := range dataset {
		if len(traj.States) != len(traj.Actions)+1 {
			t.Fatalf("malformed trajectory %d", i)
		}
		for _, act := range traj.Actions {
			if !act.HasOption() {
				t.Fatalf("demonstration action without an option")
			}
		}
		final := traj.States[len(traj.States)-1]
		if tasks[i].Goal.IsSubset(util.Abstract(final, env.Predicates())) {
			reached++
		}
	}
	// the expert can be foiled by a block already resting near a goal
	// target, but demonstrations are not all failures
	if reached == 0 {
		t.Errorf("no demonstration reached its goal")
	}
}

func TestCoverPredicateTypes(t *testing.T) {
	cfg := types.DefaultConfig()
	env := NewCover(cfg)
	if env.Covers.Arity() != 2 || env.HandEmpty.Arity() != 0 {
		t.Errorf("wrong predicate arities")
	}
	if len(env.Options()) != 1 || env.PickPlace.ParamSpace.Dim() != 1 {
		t.Errorf("expected a single one-parameter option")
	}
	if len(env.GoalPredicates()) != 1 || env.GoalPredicates()[0] != env.Covers {
		t.Errorf("Covers should be the only goal predicate")
	}
}
