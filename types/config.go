package types

import "time"

// Config carries every tunable of the learning pipeline. It is passed
// by value into entry points and never mutated; there is no ambient
// global configuration.
type Config struct {
	Seed uint64

	// operator learning
	MinDataForOperator        int
	MaxRejectionSamplingTries int
	ClassifierMaxItrSampler   int
	ClassifierMaxItrPredicate int
	ClassifierHiddenSize      int
	ClassifierLearningRate    float64

	// predicate invention
	InventionAcceptScore float64

	// interactive learning
	TeacherDatasetLabelRatio        float64
	InteractiveKnownPredicates      []string
	InteractiveNumEpisodes          int
	InteractiveRelearnEvery         int
	InteractiveMaxSteps             int
	InteractiveNumBabbles           int
	InteractiveMaxNumAtomsBabbled   int
	InteractiveNumTasksBabbled      int
	InteractiveAskStrategy          string
	InteractiveAskStrategyThreshold float64
	InteractiveAskStrategyPct       float64

	// planner boundary
	Timeout time.Duration

	// environment / dataset
	NumTrainTasks int
	NumTestTasks  int
}

func DefaultConfig() Config {
	return Config{
		Seed:                      0,
		MinDataForOperator:        3,
		MaxRejectionSamplingTries: 100,
		ClassifierMaxItrSampler:   1000,
		ClassifierMaxItrPredicate: 1000,
		ClassifierHiddenSize:      32,
		ClassifierLearningRate:    0.05,
		InventionAcceptScore:      1 - 1e-5,

		TeacherDatasetLabelRatio:        0.5,
		InteractiveNumEpisodes:          10,
		InteractiveRelearnEvery:         1,
		InteractiveMaxSteps:             10,
		InteractiveNumBabbles:           10,
		InteractiveMaxNumAtomsBabbled:   1,
		InteractiveNumTasksBabbled:      5,
		InteractiveAskStrategy:          "all_seen_states",
		InteractiveAskStrategyThreshold: 0.0,
		InteractiveAskStrategyPct:       20.0,

		Timeout:       10 * time.Second,
		NumTrainTasks: 5,
		NumTestTasks:  10,
	}
}
