package envs

import (
	"fmt"
	"math"

	"golang.org/x/exp/rand"

	"github.com/zeu5/skill-learn/types"
)

// Cover is a 1-D pick-and-place environment. Blocks and targets live
// on the unit interval; the robot hand picks a block by targeting a
// point inside it and places the held block by targeting a point near
// a target's center. A block covers a target when the target's extent
// lies inside the block's extent.
type Cover struct {
	cfg types.Config
	rng *rand.Rand

	BlockType  *types.Type
	TargetType *types.Type
	RobotType  *types.Type

	IsBlock   *types.Predicate
	IsTarget  *types.Predicate
	Covers    *types.Predicate
	HandEmpty *types.Predicate
	Holding   *types.Predicate

	PickPlace *types.ParameterizedOption

	blocks       []*types.Object
	targets      []*types.Object
	robot        *types.Object
	blockWidths  []float64
	targetWidths []float64
}

func NewCover(cfg types.Config) *Cover {
	e := &Cover{
		cfg:          cfg,
		rng:          rand.New(rand.NewSource(cfg.Seed)),
		blockWidths:  []float64{0.1, 0.07},
		targetWidths: []float64{0.05, 0.03},
	}
	e.BlockType = types.NewType("block",
		[]string{"is_block", "is_target", "width", "pose", "grasp"})
	e.TargetType = types.NewType("target",
		[]string{"is_block", "is_target", "width", "pose"})
	e.RobotType = types.NewType("robot", []string{"hand"})

	e.IsBlock = types.NewPredicate("IsBlock", []*types.Type{e.BlockType},
		func(s types.State, objs []*types.Object) bool {
			return s.Get(objs[0], "is_block") > 0.5
		})
	e.IsTarget = types.NewPredicate("IsTarget", []*types.Type{e.TargetType},
		func(s types.State, objs []*types.Object) bool {
			return s.Get(objs[0], "is_target") > 0.5
		})
	e.Covers = types.NewPredicate("Covers",
		[]*types.Type{e.BlockType, e.TargetType},
		func(s types.State, objs []*types.Object) bool {
			block, target := objs[0], objs[1]
			blockPose := s.Get(block, "pose")
			targetPose := s.Get(target, "pose")
			return math.Abs(blockPose-targetPose)+
				s.Get(target, "width")/2 <= s.Get(block, "width")/2
		})
	e.HandEmpty = types.NewPredicate("HandEmpty", nil,
		func(s types.State, objs []*types.Object) bool {
			for _, o := range s.Objects() {
				if o.Type == e.BlockType && s.Get(o, "grasp") != -1 {
					return false
				}
			}
			return true
		})
	e.Holding = types.NewPredicate("Holding", []*types.Type{e.BlockType},
		func(s types.State, objs []*types.Object) bool {
			return s.Get(objs[0], "grasp") != -1
		})

	e.PickPlace = types.NewParameterizedOption("PickPlace", nil,
		types.NewBox([]float64{0}, []float64{1}),
		func(s types.State, objs []*types.Object, params []float64) types.Action {
			return types.NewAction(params)
		},
		func(types.State, []*types.Object, []float64) bool { return true },
		func(types.State, []*types.Object, []float64) bool { return true })

	e.blocks = make([]*types.Object, len(e.blockWidths))
	for i := range e.blocks {
		e.blocks[i] = types.NewObject(fmt.Sprintf("block%d", i), e.BlockType)
	}
	e.targets = make([]*types.Object, len(e.targetWidths))
	for i := range e.targets {
		e.targets[i] = types.NewObject(fmt.Sprintf("target%d", i), e.TargetType)
	}
	e.robot = types.NewObject("robby", e.RobotType)
	return e
}

// Predicates returns every predicate of the environment.
func (e *Cover) Predicates() []*types.Predicate {
	return []*types.Predicate{e.IsBlock, e.IsTarget, e.Covers, e.HandEmpty, e.Holding}
}

// GoalPredicates returns the predicates that may appear in task goals.
func (e *Cover) GoalPredicates() []*types.Predicate {
	return []*types.Predicate{e.Covers}
}

// Options returns the parameterized options of the environment.
func (e *Cover) Options() []*types.ParameterizedOption {
	return []*types.ParameterizedOption{e.PickPlace}
}

// Simulate advances the environment by one action. The action's single
// dimension is the point the hand moves to. Outside every hand region
// the action is a no-op; inside a free block it picks; holding a block
// over free space it places, unless the placement would overlap
// another block.
func (e *Cover) Simulate(s types.State, a types.Action) types.State {
	pose := a.Arr[0]
	next := s.Copy()
	if !e.inHandRegion(s, pose) {
		return next
	}
	var heldBlock, aboveBlock *types.Object
	for _, block := range e.blocks {
		if s.Get(block, "grasp") != -1 {
			heldBlock = block
		}
		lb := s.Get(block, "pose") - s.Get(block, "width")/2
		ub := s.Get(block, "pose") + s.Get(block, "width")/2
		if s.Get(block, "grasp") == -1 && lb <= pose && pose <= ub {
			aboveBlock = block
		}
	}
	if heldBlock == nil && aboveBlock != nil {
		grasp := pose - s.Get(aboveBlock, "pose")
		next.Set(e.robot, "hand", pose)
		next.Set(aboveBlock, "pose", -1000) // out of the way
		next.Set(aboveBlock, "grasp", grasp)
	}
	if heldBlock != nil && aboveBlock == nil {
		newPose := pose - s.Get(heldBlock, "grasp")
		if !e.blockCollides(s, newPose, s.Get(heldBlock, "width"), heldBlock) {
			next.Set(e.robot, "hand", pose)
			next.Set(heldBlock, "pose", newPose)
			next.Set(heldBlock, "grasp", -1)
		}
	}
	return next
}

// inHandRegion reports whether the hand point lies over a free block
// or close to a target center.
func (e *Cover) inHandRegion(s types.State, pose float64) bool {
	for _, block := range e.blocks {
		if s.Get(block, "grasp") != -1 {
			continue
		}
		half := s.Get(block, "width") / 2
		if math.Abs(pose-s.Get(block, "pose")) <= half {
			return true
		}
	}
	for _, target := range e.targets {
		tenth := s.Get(target, "width") / 10
		if math.Abs(pose-s.Get(target, "pose")) <= tenth {
			return true
		}
	}
	return false
}

func (e *Cover) blockCollides(s types.State, pose, width float64,
	excluded *types.Object) bool {
	for _, block := range e.blocks {
		if block == excluded || s.Get(block, "grasp") != -1 {
			continue
		}
		dist := math.Abs(pose - s.Get(block, "pose"))
		if dist < (width+s.Get(block, "width"))/2 {
			return true
		}
	}
	return false
}

// TrainTasks samples the training tasks of this environment instance.
func (e *Cover) TrainTasks() []types.Task {
	return e.sampleTasks(e.cfg.NumTrainTasks)
}

// TestTasks samples the evaluation tasks of this environment instance.
func (e *Cover) TestTasks() []types.Task {
	return e.sampleTasks(e.cfg.NumTestTasks)
}

func (e *Cover) sampleTasks(n int) []types.Task {
	goals := []types.GroundAtomSet{
		types.NewGroundAtomSet(
			types.NewGroundAtom(e.Covers, []*types.Object{e.blocks[0], e.targets[0]})),
		types.NewGroundAtomSet(
			types.NewGroundAtom(e.Covers, []*types.Object{e.blocks[1], e.targets[1]})),
		types.NewGroundAtomSet(
			types.NewGroundAtom(e.Covers, []*types.Object{e.blocks[0], e.targets[0]}),
			types.NewGroundAtom(e.Covers, []*types.Object{e.blocks[1], e.targets[1]})),
	}
	tasks := make([]types.Task, 0, n)
	for i := 0; i < n; i++ {
		tasks = append(tasks, types.Task{
			Init: e.sampleInitialState(),
			Goal: goals[i%len(goals)],
		})
	}
	return tasks
}

// sampleInitialState places all blocks and targets on [0, 1] with no
// overlaps, the hand at 0.5, and nothing held.
func (e *Cover) sampleInitialState() types.State {
	for {
		data := make(map[*types.Object][]float64)
		for i, block := range e.blocks {
			w := e.blockWidths[i]
			pose := w/2 + e.rng.Float64()*(1-w)
			data[block] = []float64{1, 0, w, pose, -1}
		}
		for i, target := range e.targets {
			w := e.targetWidths[i]
			pose := w/2 + e.rng.Float64()*(1-w)
			data[target] = []float64{0, 1, w, pose}
		}
		data[e.robot] = []float64{0.5}
		state := types.NewState(data)
		if !e.anyOverlap(state) {
			return state
		}
	}
}

func (e *Cover) anyOverlap(s types.State) bool {
	items := append(append([]*types.Object{}, e.blocks...), e.targets...)
	for i := 0; i < len(items); i++ {
		for j := i + 1; j < len(items); j++ {
			dist := math.Abs(s.Get(items[i], "pose") - s.Get(items[j], "pose"))
			if dist < (s.Get(items[i], "width")+s.Get(items[j], "width"))/2 {
				return true
			}
		}
	}
	return false
}
