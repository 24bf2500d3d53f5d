package benchmarks

import (
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/exp/rand"

	"github.com/zeu5/skill-learn/envs"
	"github.com/zeu5/skill-learn/interactive"
	"github.com/zeu5/skill-learn/types"
	"github.com/zeu5/skill-learn/util"
)

// InteractiveBenchmark runs the active-learning loop with some
// predicates withheld from the learner, then scores the learned
// classifiers against the environment's own predicates on the
// evaluation tasks.
func InteractiveBenchmark(seed uint64, trainTasks, testTasks int,
	saveFile string, known []string) error {
	started := time.Now()
	cfg := types.DefaultConfig()
	cfg.Seed = seed
	cfg.NumTrainTasks = trainTasks
	cfg.NumTestTasks = testTasks
	cfg.InteractiveKnownPredicates = known

	env := envs.NewCover(cfg)
	dataset := env.DemonstrationDataset(env.TrainTasks())
	planner := interactive.NewRandomOptionPlanner(env.Options(),
		rand.New(rand.NewSource(cfg.Seed)))
	learner := interactive.NewLearner(cfg, env.Simulate, planner,
		env.Predicates(), env.Options(), env.TrainTasks())
	if err := learner.Learn(dataset); err != nil {
		return err
	}

	truth := make(map[string]*types.Predicate, len(env.Predicates()))
	for _, p := range env.Predicates() {
		truth[p.Name] = p
	}
	tasks := env.TestTasks()
	names := make([]string, 0)
	series := make([][]float64, 0)
	lines := make([]string, 0)
	for _, learned := range learner.CurrentPredicates() {
		actual, ok := truth[learned.Name]
		if !ok {
			continue
		}
		curve := make([]float64, 0, len(tasks))
		total, agree := 0, 0
		for _, task := range tasks {
			for _, combo := range util.ObjectCombinations(
				task.Init.Objects(), learned.Types, false) {
				total++
				if learned.Holds(task.Init, combo) == actual.Holds(task.Init, combo) {
					agree++
				}
			}
			curve = append(curve, float64(agree)/float64(total))
		}
		names = append(names, learned.Name)
		series = append(series, curve)
		accuracy := float64(agree) / float64(total)
		lines = append(lines, fmt.Sprintf("%s: %.3f", learned.Name, accuracy))
		fmt.Printf("Agreement for %s: %.3f\n", learned.Name, accuracy)
	}

	if err := PlotCurves(saveFile, "predicate_agreement", "Task", "Agreement",
		names, series); err != nil {
		return err
	}
	if err := util.WriteReport(path.Join(saveFile, "interactive.txt"), lines...); err != nil {
		return err
	}

	store, err := NewRunStore(path.Join(saveFile, "runs.db"))
	if err != nil {
		return err
	}
	defer store.Close()
	return store.SaveRun(RunRecord{
		ID:           uuid.NewString(),
		Benchmark:    "interactive",
		Seed:         seed,
		StartedAt:    started,
		FinishedAt:   time.Now(),
		NumOperators: len(learner.Operators()),
		Summary:      fmt.Sprintf("known: %s", strings.Join(known, ",")),
	})
}

func InteractiveCommand() *cobra.Command {
	var known []string

	cmd := &cobra.Command{
		Use: "interactive",
		RunE: func(cmd *cobra.Command, args []string) error {
			return InteractiveBenchmark(seed, trainTasks, testTasks, saveFile, known)
		},
	}
	cmd.PersistentFlags().StringSliceVar(&known,
		"known", []string{"IsBlock", "IsTarget", "Covers"},
		"Predicates whose classifiers the learner is given")
	return cmd
}
