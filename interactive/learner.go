package interactive

import (
	"errors"
	"fmt"
	"sort"

	"golang.org/x/exp/rand"

	"github.com/zeu5/skill-learn/learning"
	"github.com/zeu5/skill-learn/models"
	"github.com/zeu5/skill-learn/types"
	"github.com/zeu5/skill-learn/util"
)

// Learner learns predicate classifiers from a teacher, semi-supervised,
// and improves them with actively gathered data. The learner only ever
// sees stripped copies of the predicates it is learning.
type Learner struct {
	cfg        types.Config
	rng        *rand.Rand
	simulate   Simulator
	planner    Planner
	teacher    *Teacher
	options    []*types.ParameterizedOption
	trainTasks []types.Task

	knownPredicates   []*types.Predicate
	predicatesToLearn []*types.Predicate

	dataset           types.Dataset
	groundAtomDataset [][]types.GroundAtomSet

	operators []*types.Operator
}

// NewLearner splits the predicates into known (named in the config)
// and to-learn; only the teacher keeps the classifiers of the latter.
func NewLearner(cfg types.Config, simulate Simulator, planner Planner,
	allPredicates []*types.Predicate, options []*types.ParameterizedOption,
	trainTasks []types.Task) *Learner {
	known := make([]*types.Predicate, 0)
	toLearn := make([]*types.Predicate, 0)
	knownNames := make(map[string]bool, len(cfg.InteractiveKnownPredicates))
	for _, n := range cfg.InteractiveKnownPredicates {
		knownNames[n] = true
	}
	for _, p := range allPredicates {
		if knownNames[p.Name] {
			known = append(known, p)
		} else {
			toLearn = append(toLearn, p)
		}
	}
	teacher := NewTeacher(allPredicates, toLearn)
	// No cheating: strip the classifiers before the learner keeps them.
	stripped := make([]*types.Predicate, len(toLearn))
	for i, p := range toLearn {
		stripped[i] = p.Strip()
	}
	return &Learner{
		cfg:               cfg,
		rng:               rand.New(rand.NewSource(cfg.Seed)),
		simulate:          simulate,
		planner:           planner,
		teacher:           teacher,
		options:           options,
		trainTasks:        trainTasks,
		knownPredicates:   known,
		predicatesToLearn: stripped,
	}
}

// CurrentPredicates is the union of known and (being-)learned predicates.
func (l *Learner) CurrentPredicates() []*types.Predicate {
	out := make([]*types.Predicate, 0, len(l.knownPredicates)+len(l.predicatesToLearn))
	out = append(out, l.knownPredicates...)
	out = append(out, l.predicatesToLearn...)
	return out
}

// Operators returns the operators learned in the last relearn pass.
func (l *Learner) Operators() []*types.Operator {
	return l.operators
}

// AskTeacher queries the oracle about one ground atom.
func (l *Learner) AskTeacher(s types.State, atom types.GroundAtom) bool {
	return l.teacher.Ask(s, atom)
}

// LoadDataset stores the dataset and its teacher-labeled atom sets.
func (l *Learner) LoadDataset(dataset types.Dataset) error {
	labeled, err := l.teacher.GenerateData(dataset,
		l.cfg.TeacherDatasetLabelRatio, l.rng)
	if err != nil {
		return err
	}
	l.dataset = append(l.dataset, dataset...)
	l.groundAtomDataset = append(l.groundAtomDataset, labeled...)
	return nil
}

// Learn runs the full interactive pipeline: initial semi-supervised
// learning followed by active-learning episodes.
func (l *Learner) Learn(dataset types.Dataset) error {
	if err := l.LoadDataset(dataset); err != nil {
		return err
	}
	if err := l.relearnPredicatesAndOperators(); err != nil {
		return err
	}
	newTrajectories := make(types.Dataset, 0)
	for i := 1; i <= l.cfg.InteractiveNumEpisodes; i++ {
		fmt.Printf("\nActive learning episode %d\n", i)
		task := l.trainTasks[l.rng.Intn(len(l.trainTasks))]
		candidates := GLIBSample(task.Init, l.CurrentPredicates(),
			l.groundAtomDataset, l.cfg, l.rng)
		if len(candidates) == 0 {
			return &types.PlannerFailureError{Msg: "no babbled tasks"}
		}
		var policy Policy
		var solved types.Task
		for _, cand := range candidates {
			fmt.Println("Solving for policy...")
			p, err := l.planner.Solve(cand, l.cfg.Timeout)
			if err == nil {
				policy = p
				solved = cand
				break
			}
			var pf *types.PlannerFailureError
			var pt *types.PlannerTimeoutError
			if errors.As(err, &pf) || errors.As(err, &pt) {
				fmt.Printf("Planner failed to solve with error: %v\n", err)
				continue
			}
			return err
		}
		if policy == nil {
			return &types.PlannerFailureError{
				Msg: "failed to sample a task the planner can solve"}
		}
		traj := RunPolicyOnTask(policy, solved, l.simulate,
			l.CurrentPredicates(), l.cfg.InteractiveMaxSteps)
		newTrajectories = append(newTrajectories, traj)
		if i%l.cfg.InteractiveRelearnEvery != 0 {
			continue
		}
		fmt.Println("Asking teacher...")
		l.dataset = append(l.dataset, newTrajectories...)
		for _, traj := range newTrajectories {
			// unlabeled: keeps the atom dataset index-aligned
			empty := make([]types.GroundAtomSet, len(traj.States))
			for k := range empty {
				empty[k] = types.NewGroundAtomSet()
			}
			l.groundAtomDataset = append(l.groundAtomDataset, empty)
		}
		states, err := l.statesToAsk(newTrajectories)
		if err != nil {
			return err
		}
		for _, s := range states {
			// Pick a random ground atom to ask about.
			groundAtoms := util.AllGroundAtoms(s, l.CurrentPredicates())
			if len(groundAtoms) == 0 {
				return &types.DegenerateLabelError{Msg: "state has no ground atoms to ask about"}
			}
			atom := groundAtoms[l.rng.Intn(len(groundAtoms))]
			if l.AskTeacher(s, atom) {
				// Keep positive answers as single-state trajectories.
				l.groundAtomDataset = append(l.groundAtomDataset,
					[]types.GroundAtomSet{types.NewGroundAtomSet(atom)})
				l.dataset = append(l.dataset, types.ActionTrajectory{
					States: []types.State{s}})
			}
			// TODO: use negative answers once the predicate fitter
			// accepts explicit negative labels.
		}
		if err := l.relearnPredicatesAndOperators(); err != nil {
			return err
		}
		newTrajectories = newTrajectories[:0]
	}
	return nil
}

// relearnPredicatesAndOperators refits every to-learn predicate from
// the labeled atoms (treating unlabeled groundings as negative) and
// relearns operators under the refreshed predicates.
func (l *Learner) relearnPredicatesAndOperators() error {
	fmt.Println("\nStarting semi-supervised learning...")
	for pi, pred := range l.predicatesToLearn {
		positives := make([][]float64, 0)
		for ti, traj := range l.groundAtomDataset {
			for si, atomSet := range traj {
				state := l.dataset[ti].States[si]
				for _, atom := range atomSet.Sorted() {
					if atom.Predicate.Name == pred.Name {
						positives = append(positives, state.Vec(atom.Objects))
					}
				}
			}
		}
		// Unlabeled groundings count as negative.
		negatives := make([][]float64, 0)
		for _, traj := range l.dataset {
			for _, state := range traj.States {
				for _, choice := range util.ObjectCombinations(
					state.Objects(), pred.Types, false) {
					vec := state.Vec(choice)
					if !containsVec(positives, vec) {
						negatives = append(negatives, vec)
					}
				}
			}
		}
		fmt.Printf("Generated %d positive and %d negative examples for predicate %s\n",
			len(positives), len(negatives), pred.Name)

		X := make([][]float64, 0, len(positives)+len(negatives))
		X = append(X, positives...)
		X = append(X, negatives...)
		y := make([]int, len(X))
		for i := range positives {
			y[i] = 1
		}
		model := models.NewMLPClassifier(l.cfg.ClassifierHiddenSize,
			l.cfg.ClassifierMaxItrPredicate, l.cfg.ClassifierLearningRate,
			l.cfg.Seed)
		if err := model.Fit(X, y); err != nil {
			return fmt.Errorf("fitting predicate %s: %w", pred.Name, err)
		}
		classifier := models.LearnedPredicateClassifier{Model: model}.Classifier()
		l.predicatesToLearn[pi] = types.NewPredicate(pred.Name, pred.Types, classifier)
	}

	ops, err := learning.LearnOperators(l.dataset, l.CurrentPredicates(), l.cfg, true)
	if err != nil {
		return err
	}
	l.operators = ops
	return nil
}

func containsVec(vecs [][]float64, v []float64) bool {
	for _, w := range vecs {
		if len(w) != len(v) {
			continue
		}
		same := true
		for i := range w {
			if w[i] != v[i] {
				same = false
				break
			}
		}
		if same {
			return true
		}
	}
	return false
}

// statesToAsk selects which freshly explored states to query,
// according to the configured ask strategy.
func (l *Learner) statesToAsk(trajectories types.Dataset) ([]types.State, error) {
	states := make([]types.State, 0)
	for _, traj := range trajectories {
		states = append(states, traj.States...)
	}
	scores := make([]float64, len(states))
	for i, s := range states {
		scores[i] = ScoreGoal(l.groundAtomDataset,
			util.Abstract(s, l.CurrentPredicates()))
	}
	switch l.cfg.InteractiveAskStrategy {
	case "all_seen_states":
		return states, nil
	case "threshold":
		out := make([]types.State, 0)
		for i, s := range states {
			if scores[i] >= l.cfg.InteractiveAskStrategyThreshold {
				out = append(out, s)
			}
		}
		return out, nil
	case "top_k_percent":
		n := int(l.cfg.InteractiveAskStrategyPct / 100.0 * float64(len(states)))
		idx := make([]int, len(states))
		for i := range idx {
			idx[i] = i
		}
		sort.SliceStable(idx, func(a, b int) bool {
			return scores[idx[a]] > scores[idx[b]]
		})
		out := make([]types.State, 0, n)
		for i := 0; i < n && i < len(idx); i++ {
			out = append(out, states[idx[i]])
		}
		return out, nil
	}
	return nil, &types.UnsupportedStrategyError{Strategy: l.cfg.InteractiveAskStrategy}
}
