package interactive

import (
	"fmt"
	"sort"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/sampleuv"

	"github.com/zeu5/skill-learn/types"
	"github.com/zeu5/skill-learn/util"
)

// GLIBSample babbles candidate goals from an initial state: random
// small atom sets scored by how rarely they were seen in the labeled
// dataset, keeping the top-scoring ones as tasks.
func GLIBSample(initialState types.State, preds []*types.Predicate,
	groundAtomDataset [][]types.GroundAtomSet, cfg types.Config,
	rng *rand.Rand) []types.Task {
	fmt.Println("Sampling a task using GLIB approach...")
	groundAtoms := util.AllGroundAtoms(initialState, preds)
	type scoredGoal struct {
		goal  types.GroundAtomSet
		score float64
	}
	goals := make([]scoredGoal, 0, cfg.InteractiveNumBabbles)
	for b := 0; b < cfg.InteractiveNumBabbles; b++ {
		numAtoms := 1 + rng.Intn(cfg.InteractiveMaxNumAtomsBabbled)
		if numAtoms > len(groundAtoms) {
			numAtoms = len(groundAtoms)
		}
		idxs := make([]int, numAtoms)
		sampleuv.WithoutReplacement(idxs, len(groundAtoms), rng)
		goal := types.NewGroundAtomSet()
		for _, i := range idxs {
			goal.Add(groundAtoms[i])
		}
		goals = append(goals, scoredGoal{goal: goal, score: ScoreGoal(groundAtomDataset, goal)})
	}
	sort.SliceStable(goals, func(i, j int) bool {
		return goals[i].score > goals[j].score
	})
	n := cfg.InteractiveNumTasksBabbled
	if n > len(goals) {
		n = len(goals)
	}
	tasks := make([]types.Task, n)
	for i := 0; i < n; i++ {
		tasks[i] = types.Task{Init: initialState, Goal: goals[i].goal}
	}
	return tasks
}

// ScoreGoal scores a goal inversely to the number of labeled atom sets
// it is a subset of.
func ScoreGoal(groundAtomDataset [][]types.GroundAtomSet,
	goal types.GroundAtomSet) float64 {
	count := 1 // avoid division by zero
	for _, traj := range groundAtomDataset {
		for _, atomSet := range traj {
			if goal.IsSubset(atomSet) {
				count++
			}
		}
	}
	return 1.0 / float64(count)
}
