package benchmarks

import (
	"fmt"
	"path"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/zeu5/skill-learn/envs"
	"github.com/zeu5/skill-learn/learning"
	"github.com/zeu5/skill-learn/types"
	"github.com/zeu5/skill-learn/util"
)

// LearnOperatorsBenchmark learns operators from expert demonstrations
// on growing prefixes of the dataset and plots the operator count as a
// learning curve.
func LearnOperatorsBenchmark(seed uint64, trainTasks int, saveFile string) error {
	started := time.Now()
	cfg := types.DefaultConfig()
	cfg.Seed = seed
	cfg.NumTrainTasks = trainTasks

	env := envs.NewCover(cfg)
	dataset := env.DemonstrationDataset(env.TrainTasks())

	curve := make([]float64, 0, len(dataset))
	var operators []*types.Operator
	for k := 1; k <= len(dataset); k++ {
		ops, err := learning.LearnOperators(dataset[:k], env.Predicates(), cfg, true)
		if err != nil {
			return err
		}
		operators = ops
		curve = append(curve, float64(len(ops)))
	}

	if err := PlotCurves(saveFile, "operator_count", "Trajectories", "Operators",
		[]string{"operators"}, [][]float64{curve}); err != nil {
		return err
	}
	lines := make([]string, 0, len(operators))
	for _, op := range operators {
		lines = append(lines, op.String())
	}
	if err := util.WriteReport(path.Join(saveFile, "operators.txt"), lines...); err != nil {
		return err
	}

	store, err := NewRunStore(path.Join(saveFile, "runs.db"))
	if err != nil {
		return err
	}
	defer store.Close()
	return store.SaveRun(RunRecord{
		ID:           uuid.NewString(),
		Benchmark:    "learn",
		Seed:         seed,
		StartedAt:    started,
		FinishedAt:   time.Now(),
		NumOperators: len(operators),
		Summary:      fmt.Sprintf("%d trajectories", len(dataset)),
	})
}

func LearnCommand() *cobra.Command {
	return &cobra.Command{
		Use: "learn",
		RunE: func(cmd *cobra.Command, args []string) error {
			return LearnOperatorsBenchmark(seed, trainTasks, saveFile)
		},
	}
}
