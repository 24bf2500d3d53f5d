package learning

import (
	"fmt"

	"golang.org/x/exp/rand"

	"github.com/zeu5/skill-learn/models"
	"github.com/zeu5/skill-learn/types"
	"github.com/zeu5/skill-learn/util"
)

// SamplerExample is one labeled grounding of an operator's variables
// in a transition's state.
type SamplerExample struct {
	State  types.State
	Sub    types.VarToObjSub
	Option *types.GroundOption
}

// CreateSamplerData builds positive and negative training examples for
// the sampler of partition partitionIdx. Positives are the partition's
// own recorded groundings. Every other grounding over every
// transition's objects (across all of the option's partitions) is
// negative, unless the candidate grounding's effects are a subset of
// the transition's actual effects: achieving a superset of the desired
// effects does not falsify the operator.
func CreateSamplerData(p *Partitioned, variables []*types.Variable,
	preconditions, addEffects, delEffects types.LiftedAtomSet,
	partitionIdx int) (positive, negative []SamplerExample) {
	varTypes := make([]*types.Type, len(variables))
	for i, v := range variables {
		varTypes[i] = v.Type
	}
	for idx := 0; idx < p.NumPartitions(); idx++ {
		for _, m := range p.Members[idx] {
			tr := m.Transition
			if tr.Option.Parent != p.Option {
				panic("transition belongs to a different option")
			}
			for _, grounding := range util.ObjectCombinations(
				tr.State.Objects(), varTypes, false) {
				if idx == partitionIdx {
					varToObj := m.Sub.Inverse()
					if matchesGrounding(grounding, variables, varToObj) {
						for _, pre := range preconditions {
							objs := make([]*types.Object, len(pre.Variables))
							for i, v := range pre.Variables {
								objs[i] = varToObj[v]
							}
							if !pre.Predicate.Holds(tr.State, objs) {
								panic(fmt.Sprintf(
									"precondition %s does not hold on its own partition member",
									pre.Key()))
							}
						}
						positive = append(positive, SamplerExample{
							State: tr.State, Sub: varToObj, Option: tr.Option})
						continue
					}
				}
				sub := make(types.VarToObjSub, len(variables))
				for i, v := range variables {
					sub[v] = grounding[i]
				}
				if addEffects.Ground(sub).IsSubset(tr.AddEffects) &&
					delEffects.Ground(sub).IsSubset(tr.DeleteEffects) {
					continue
				}
				negative = append(negative, SamplerExample{
					State: tr.State, Sub: sub, Option: tr.Option})
			}
		}
	}
	fmt.Printf("Generated %d positive and %d negative examples\n",
		len(positive), len(negative))
	if len(positive) != len(p.Members[partitionIdx]) {
		panic(fmt.Sprintf(
			"insufficient data: %d positive examples for a partition of %d members",
			len(positive), len(p.Members[partitionIdx])))
	}
	return positive, negative
}

func matchesGrounding(grounding []*types.Object, variables []*types.Variable,
	varToObj types.VarToObjSub) bool {
	for i, v := range variables {
		if varToObj[v] != grounding[i] {
			return false
		}
	}
	return true
}

// LearnSampler trains the feasibility classifier and the generative
// regressor for one partition and returns the rejection sampler built
// from them.
func LearnSampler(p *Partitioned, variables []*types.Variable,
	preconditions, addEffects, delEffects types.LiftedAtomSet,
	option *types.ParameterizedOption, partitionIdx int,
	cfg types.Config) types.Sampler {
	positive, negative := CreateSamplerData(p, variables, preconditions,
		addEffects, delEffects, partitionIdx)

	// Classifier input: bias, state features of the grounded variables
	// in operator variable order, then option parameters.
	fmt.Println("Fitting classifier...")
	all := make([]SamplerExample, 0, len(positive)+len(negative))
	all = append(all, positive...)
	all = append(all, negative...)
	X := make([][]float64, len(all))
	y := make([]int, len(all))
	for i, ex := range all {
		X[i] = samplerFeatures(ex.State, variables, ex.Sub)
		X[i] = append(X[i], ex.Option.Params...)
		if i < len(positive) {
			y[i] = 1
		}
	}
	classifier := models.NewMLPClassifier(cfg.ClassifierHiddenSize,
		cfg.ClassifierMaxItrSampler, cfg.ClassifierLearningRate, cfg.Seed)
	if err := classifier.Fit(X, y); err != nil {
		panic(fmt.Sprintf("fitting sampler classifier: %v", err))
	}

	// Regressor sees only positive data.
	fmt.Println("Fitting regressor...")
	Xr := make([][]float64, len(positive))
	Yr := make([][]float64, len(positive))
	for i, ex := range positive {
		Xr[i] = samplerFeatures(ex.State, variables, ex.Sub)
		Yr[i] = ex.Option.Params
	}
	regressor := models.NewGaussianRegressor()
	if err := regressor.Fit(Xr, Yr); err != nil {
		panic(fmt.Sprintf("fitting sampler regressor: %v", err))
	}

	ls := &learnedSampler{
		classifier:    classifier,
		regressor:     regressor,
		variables:     variables,
		option:        option,
		maxRejections: cfg.MaxRejectionSamplingTries,
	}
	return ls.Sample
}

func samplerFeatures(s types.State, variables []*types.Variable,
	sub types.VarToObjSub) []float64 {
	x := []float64{1.0} // bias term first
	for _, v := range variables {
		x = append(x, s.Features(sub[v])...)
	}
	return x
}

// learnedSampler holds the models underlying a learned sampler.
type learnedSampler struct {
	classifier    models.Classifier
	regressor     models.Regressor
	variables     []*types.Variable
	option        *types.ParameterizedOption
	maxRejections int
}

// Sample draws candidate parameters from the regressor and accepts the
// first candidate that is in bounds and classified feasible. The loop
// is bounded: on exhaustion the last candidate is kept if in bounds,
// otherwise the parameter space is sampled uniformly. Callers must
// tolerate approximate fallback samples.
func (ls *learnedSampler) Sample(s types.State, rng *rand.Rand,
	objects []*types.Object) []float64 {
	sub := make(types.VarToObjSub, len(ls.variables))
	for i, v := range ls.variables {
		sub[v] = objects[i]
	}
	x := samplerFeatures(s, ls.variables, sub)
	var params []float64
	for rejections := 0; ; rejections++ {
		params = ls.regressor.PredictSample(x, rng)
		input := make([]float64, 0, len(x)+len(params))
		input = append(input, x...)
		input = append(input, params...)
		if ls.option.ParamSpace.Contains(params) && ls.classifier.Classify(input) {
			return params
		}
		if rejections >= ls.maxRejections {
			break
		}
	}
	if !ls.option.ParamSpace.Contains(params) {
		params = ls.option.ParamSpace.Sample(rng)
	}
	return params
}
