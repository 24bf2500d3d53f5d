// Package invention iteratively invents predicates: whenever an
// operator's effects do not deterministically follow from its current
// precondition atoms, a binary classification problem over parameter
// subsets is framed and the best-scoring accepted classifier becomes a
// new predicate (together with its negation).
package invention

import (
	"fmt"

	"golang.org/x/exp/rand"

	"github.com/zeu5/skill-learn/learning"
	"github.com/zeu5/skill-learn/models"
	"github.com/zeu5/skill-learn/types"
	"github.com/zeu5/skill-learn/unify"
	"github.com/zeu5/skill-learn/util"
)

// Inventor runs the iterative invention loop. All randomness comes
// from the explicit seeded generator; two runs with the same seed and
// dataset produce identical predicate names, partition structures and
// accept decisions.
type Inventor struct {
	cfg           types.Config
	rng           *rand.Rand
	initialPreds  []*types.Predicate
	learnedPreds  []*types.Predicate
	numInventions int
}

func NewInventor(cfg types.Config, initialPreds []*types.Predicate) *Inventor {
	return &Inventor{
		cfg:          cfg,
		rng:          rand.New(rand.NewSource(cfg.Seed)),
		initialPreds: initialPreds,
		learnedPreds: make([]*types.Predicate, 0),
	}
}

// Predicates returns the current predicate set: the externally
// supplied predicates plus everything invented so far.
func (inv *Inventor) Predicates() []*types.Predicate {
	out := make([]*types.Predicate, 0, len(inv.initialPreds)+len(inv.learnedPreds))
	out = append(out, inv.initialPreds...)
	out = append(out, inv.learnedPreds...)
	return out
}

// NumInventions is the number of accepted inventions so far.
func (inv *Inventor) NumInventions() int {
	return inv.numInventions
}

// LearnFromDataset runs invention to convergence over the dataset and
// then relearns final operators, with samplers, using the full
// accumulated predicate set.
func (inv *Inventor) LearnFromDataset(dataset types.Dataset) ([]*types.Operator, error) {
	byOption, err := learning.GenerateTransitions(dataset, inv.Predicates())
	if err != nil {
		return nil, err
	}
	for {
		fmt.Printf("\n\nInvention iteration %d\n", inv.numInventions)
		newPred := inv.inventForSomeOperator(byOption)
		if newPred == nil {
			fmt.Println("\tFound no new predicates, terminating invention")
			break
		}
		negPred := newPred.Negation()
		inv.learnedPreds = append(inv.learnedPreds, newPred, negPred)
		inv.numInventions++
		// Fold the two new predicates into every stored transition,
		// atomically with the predicate set change: effects absorb any
		// new-predicate atoms that changed truth value.
		pair := []*types.Predicate{newPred, negPred}
		for _, option := range byOption.Options {
			for _, tr := range byOption.ByOption[option] {
				tr.Atoms = tr.Atoms.Union(util.Abstract(tr.State, pair))
				tr.NextAtoms = tr.NextAtoms.Union(util.Abstract(tr.NextState, pair))
				tr.AddEffects = tr.NextAtoms.Difference(tr.Atoms)
				tr.DeleteEffects = tr.Atoms.Difference(tr.NextAtoms)
			}
		}
	}
	return learning.LearnOperators(dataset, inv.Predicates(), inv.cfg, true)
}

// inventForSomeOperator scans options and their operators in seeded
// random order and returns the first successful invention, or nil.
func (inv *Inventor) inventForSomeOperator(byOption *learning.TransitionsByOption,
) *types.Predicate {
	unifier := unify.NewUnifier()
	for _, i := range inv.rng.Perm(len(byOption.Options)) {
		option := byOption.Options[i]
		transitions := byOption.ByOption[option]
		operators := learning.LearnOperatorsForOption(option, transitions,
			inv.cfg, false, unifier)
		for _, j := range inv.rng.Perm(len(operators)) {
			if pred := inv.inventForOperator(operators[j], transitions); pred != nil {
				// Halt on any successful invention.
				return pred
			}
		}
	}
	return nil
}

// subsetData accumulates labeled feature vectors for one parameter subset.
type subsetData struct {
	params []*types.Variable
	pos    [][]float64
	neg    [][]float64
}

// inventForOperator splits the operator's applicable groundings into
// positives and negatives by whether the operator predicts the
// transition's effects exactly. Any negative data yields a
// classification problem whose solution is a new predicate.
func (inv *Inventor) inventForOperator(op *types.Operator,
	transitions []*types.Transition) *types.Predicate {
	if len(op.Parameters) == 0 {
		// Zero-arity predicates have empty feature vectors; nothing to fit.
		return nil
	}
	// The operator signature: preconditions, effects and the synthetic
	// option-argument atom, as one lifted combination over Parameters.
	signatureVars := op.Parameters
	varTypes := make([]*types.Type, len(signatureVars))
	for i, v := range signatureVars {
		varTypes[i] = v.Type
	}

	// Group transitions by their exact object set.
	groups := make(map[string][]*types.Transition)
	groupOrder := make([]string, 0)
	groupObjects := make(map[string][]*types.Object)
	for _, tr := range transitions {
		if tr.Option.Parent != op.Option {
			panic("transition belongs to a different option")
		}
		objs := tr.State.Objects()
		key := ""
		for _, o := range objs {
			key += o.String() + ";"
		}
		if _, ok := groups[key]; !ok {
			groupOrder = append(groupOrder, key)
			groupObjects[key] = objs
		}
		groups[key] = append(groups[key], tr)
	}

	data := make(map[string]*subsetData)
	subsets := util.Powerset(op.Parameters)
	for _, subset := range subsets {
		data[util.SubsetKey(subset)] = &subsetData{params: subset}
	}

	for _, key := range groupOrder {
		objects := groupObjects[key]
		for _, choice := range util.ObjectCombinations(objects, varTypes, true) {
			sub := make(types.VarToObjSub, len(signatureVars))
			for i, v := range signatureVars {
				sub[v] = choice[i]
			}
			groundPre := op.Preconditions.Ground(sub)
			groundAdd := op.AddEffects.Ground(sub)
			groundDel := op.DeleteEffects.Ground(sub)
			optObjects := make([]*types.Object, len(op.OptionVars))
			for i, v := range op.OptionVars {
				optObjects[i] = sub[v]
			}
			for _, tr := range groups[key] {
				// The grounding is relevant only if the preconditions
				// hold in the transition's atoms and the option
				// arguments match the transition's option binding.
				if !groundPre.IsSubset(tr.Atoms) {
					continue
				}
				if !sameObjects(optObjects, tr.Option.Objects) {
					continue
				}
				positive := groundAdd.Equal(tr.AddEffects) &&
					groundDel.Equal(tr.DeleteEffects)
				for _, subset := range subsets {
					objs := make([]*types.Object, len(subset))
					for i, v := range subset {
						objs[i] = sub[v]
					}
					vec := tr.State.Vec(objs)
					d := data[util.SubsetKey(subset)]
					if positive {
						d.pos = append(d.pos, vec)
					} else {
						d.neg = append(d.neg, vec)
					}
				}
			}
		}
	}

	full := data[util.SubsetKey(op.Parameters)]
	if len(full.pos) == 0 {
		panic(fmt.Sprintf("operator %s has no positive groundings in its own data", op.Name))
	}
	if len(full.neg) == 0 {
		fmt.Printf("\tNo wrong predictions for operator %s\n", op.Name)
		return nil
	}
	fmt.Printf("\tFound a classification problem for operator %s\n", op.Name)
	fmt.Printf("\t\tData: %d positives, %d negatives\n", len(full.pos), len(full.neg))

	// Fit a classifier per parameter subset; score by fit accuracy
	// regularized by subset arity; keep the best accepted candidate.
	var bestPred *types.Predicate
	var bestParams []*types.Variable
	bestScore := -1.0
	for _, subset := range subsets {
		d := data[util.SubsetKey(subset)]
		X := make([][]float64, 0, len(d.pos)+len(d.neg))
		X = append(X, d.pos...)
		X = append(X, d.neg...)
		y := make([]int, len(X))
		for i := range d.pos {
			y[i] = 1
		}
		model := models.NewMLPClassifier(inv.cfg.ClassifierHiddenSize,
			inv.cfg.ClassifierMaxItrPredicate, inv.cfg.ClassifierLearningRate,
			inv.cfg.Seed)
		if err := model.Fit(X, y); err != nil {
			continue
		}
		correct := 0
		for i, x := range X {
			if model.Classify(x) == (y[i] == 1) {
				correct++
			}
		}
		fitScore := float64(correct) / float64(len(y))
		if fitScore < inv.cfg.InventionAcceptScore {
			fmt.Printf("\t\tFor parameters %v, rejecting predicate due to fit score: %.5f\n",
				subset, fitScore)
			continue
		}
		score := fitScore - 0.1*float64(len(subset)) // regularize
		fmt.Printf("\t\tFor parameters %v, got regularized score: %.5f\n", subset, score)
		if bestPred == nil || score > bestScore {
			argTypes := make([]*types.Type, len(subset))
			for i, v := range subset {
				argTypes[i] = v.Type
			}
			classifier := models.LearnedPredicateClassifier{Model: model}.Classifier()
			bestPred = types.NewPredicate(
				fmt.Sprintf("InventedPredicate-%d", inv.numInventions),
				argTypes, classifier)
			bestParams = subset
			bestScore = score
		}
	}
	// All candidates may have been rejected by the accept threshold.
	fmt.Printf("\t\tChose parameters %v\n", bestParams)
	return bestPred
}

func sameObjects(a, b []*types.Object) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
