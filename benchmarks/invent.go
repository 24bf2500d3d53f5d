package benchmarks

import (
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/zeu5/skill-learn/envs"
	"github.com/zeu5/skill-learn/invention"
	"github.com/zeu5/skill-learn/types"
	"github.com/zeu5/skill-learn/util"
)

// InventBenchmark runs predicate invention with some environment
// predicates withheld, so the inventor has something to rediscover.
func InventBenchmark(seed uint64, trainTasks int, saveFile string,
	excluded []string) error {
	started := time.Now()
	cfg := types.DefaultConfig()
	cfg.Seed = seed
	cfg.NumTrainTasks = trainTasks

	env := envs.NewCover(cfg)
	dataset := env.DemonstrationDataset(env.TrainTasks())

	excludedNames := make(map[string]bool, len(excluded))
	for _, n := range excluded {
		excludedNames[n] = true
	}
	initial := make([]*types.Predicate, 0)
	for _, p := range env.Predicates() {
		if !excludedNames[p.Name] {
			initial = append(initial, p)
		}
	}
	if len(initial) == len(env.Predicates()) && len(excluded) > 0 {
		return fmt.Errorf("excluded predicates %v not found in the environment", excluded)
	}

	inventor := invention.NewInventor(cfg, initial)
	operators, err := inventor.LearnFromDataset(dataset)
	if err != nil {
		return err
	}

	lines := []string{
		fmt.Sprintf("inventions: %d", inventor.NumInventions()),
		"",
	}
	for _, op := range operators {
		lines = append(lines, op.String())
	}
	if err := util.WriteReport(path.Join(saveFile, "invention.txt"), lines...); err != nil {
		return err
	}

	store, err := NewRunStore(path.Join(saveFile, "runs.db"))
	if err != nil {
		return err
	}
	defer store.Close()
	return store.SaveRun(RunRecord{
		ID:            uuid.NewString(),
		Benchmark:     "invent",
		Seed:          seed,
		StartedAt:     started,
		FinishedAt:    time.Now(),
		NumOperators:  len(operators),
		NumInventions: inventor.NumInventions(),
		Summary:       fmt.Sprintf("excluded: %s", strings.Join(excluded, ",")),
	})
}

func InventCommand() *cobra.Command {
	var excluded []string

	cmd := &cobra.Command{
		Use: "invent",
		RunE: func(cmd *cobra.Command, args []string) error {
			return InventBenchmark(seed, trainTasks, saveFile, excluded)
		},
	}
	cmd.PersistentFlags().StringSliceVar(&excluded, "excluded", []string{"Holding"},
		"Environment predicates withheld from the learner")
	return cmd
}
