package learning

import (
	"fmt"
	"strconv"

	"golang.org/x/exp/rand"

	"github.com/zeu5/skill-learn/types"
	"github.com/zeu5/skill-learn/unify"
)

// LearnOperators learns operators from a dataset of trajectories,
// abstracting states with the given predicates. Sampler learning can
// be switched off when only operator structure is needed.
func LearnOperators(dataset types.Dataset, preds []*types.Predicate,
	cfg types.Config, doSamplerLearning bool) ([]*types.Operator, error) {
	fmt.Printf("\nLearning operators on %d trajectories...\n", len(dataset))

	byOption, err := GenerateTransitions(dataset, preds)
	if err != nil {
		return nil, err
	}

	unifier := unify.NewUnifier()
	operators := make([]*types.Operator, 0)
	for _, option := range byOption.Options {
		ops := LearnOperatorsForOption(option, byOption.ByOption[option],
			cfg, doSamplerLearning, unifier)
		operators = append(operators, ops...)
	}

	fmt.Println("\nLearned operators:")
	for _, op := range operators {
		fmt.Println(op)
	}
	return operators, nil
}

// LearnOperatorsForOption partitions one option's transitions and
// learns an operator per partition.
func LearnOperatorsForOption(option *types.ParameterizedOption,
	transitions []*types.Transition, cfg types.Config,
	doSamplerLearning bool, unifier *unify.Unifier) []*types.Operator {
	p := PartitionTransitions(option, transitions, unifier)

	operators := make([]*types.Operator, 0, p.NumPartitions())
	for i := 0; i < p.NumPartitions(); i++ {
		if len(p.Members[i]) < cfg.MinDataForOperator {
			continue
		}
		if p.AddEffects[i].Len() == 0 && p.DelEffects[i].Len() == 0 {
			// Operators with no effects help neither planning nor
			// predicate invention.
			continue
		}
		variables, preconditions := learnPreconditions(p, i, unifier)
		name := option.Name + strconv.Itoa(i)
		var sampler types.Sampler
		if doSamplerLearning && option.ParamSpace.Dim() != 0 {
			fmt.Printf("\nLearning sampler for operator %s\n", name)
			sampler = LearnSampler(p, variables, preconditions,
				p.AddEffects[i], p.DelEffects[i], option, i, cfg)
		} else {
			sampler = uniformSampler(option)
		}
		operators = append(operators, types.NewOperator(name, variables,
			preconditions, p.AddEffects[i], p.DelEffects[i], option,
			p.OptionVars[i], sampler))
	}
	return operators
}

// uniformSampler ignores the state and samples the option's parameter
// space. For a zero-dimensional space it returns the empty vector.
func uniformSampler(option *types.ParameterizedOption) types.Sampler {
	return func(_ types.State, rng *rand.Rand, _ []*types.Object) []float64 {
		return option.ParamSpace.Sample(rng)
	}
}
