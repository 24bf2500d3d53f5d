package benchmarks

import "github.com/spf13/cobra"

var (
	seed       uint64
	trainTasks int
	testTasks  int
	saveFile   string
)

func GetRootCommand() *cobra.Command {
	rootCommand := &cobra.Command{Use: "skill-learn"}
	rootCommand.PersistentFlags().Uint64Var(&seed, "seed", 0, "Seed for all randomness")
	rootCommand.PersistentFlags().IntVar(&trainTasks, "train-tasks", 5, "Number of training tasks")
	rootCommand.PersistentFlags().IntVar(&testTasks, "test-tasks", 10, "Number of evaluation tasks")
	rootCommand.PersistentFlags().StringVarP(&saveFile, "save", "s", "results", "Save the result data in the specified folder")
	// adding the subcommands here
	rootCommand.AddCommand(LearnCommand())
	rootCommand.AddCommand(InventCommand())
	rootCommand.AddCommand(InteractiveCommand())
	return rootCommand
}
