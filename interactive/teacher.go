// Package interactive implements learning predicates from a teacher:
// a sparse ground-atom dataset labeled by an oracle, semi-supervised
// predicate fitting, and an active-learning loop that babbles goals
// and queries the teacher about novel states.
package interactive

import (
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/sampleuv"

	"github.com/zeu5/skill-learn/types"
	"github.com/zeu5/skill-learn/util"
)

// Teacher answers queries about ground atoms in states. Only the
// teacher holds the classifier-bearing predicates; learners see
// stripped copies.
type Teacher struct {
	byName            map[string]*types.Predicate
	predicatesToLearn []*types.Predicate
	hasGeneratedData  bool
}

func NewTeacher(allPredicates, predicatesToLearn []*types.Predicate) *Teacher {
	byName := make(map[string]*types.Predicate, len(allPredicates))
	for _, p := range allPredicates {
		byName[p.Name] = p
	}
	return &Teacher{byName: byName, predicatesToLearn: predicatesToLearn}
}

// GenerateData creates the sparse ground-atom dataset. It may be
// called only once per teacher; repeated labeling would leak
// classifier information.
func (t *Teacher) GenerateData(dataset types.Dataset, ratio float64,
	rng *rand.Rand) ([][]types.GroundAtomSet, error) {
	if t.hasGeneratedData {
		panic("teacher has already generated data")
	}
	t.hasGeneratedData = true
	return CreateTeacherDataset(t.predicatesToLearn, dataset, ratio, rng)
}

// Ask reports whether the ground atom is true in the state, using the
// teacher's classifier for the atom's predicate name.
func (t *Teacher) Ask(s types.State, atom types.GroundAtom) bool {
	pred, ok := t.byName[atom.Predicate.Name]
	if !ok {
		panic("teacher asked about an unknown predicate " + atom.Predicate.Name)
	}
	return pred.Holds(s, atom.Objects)
}

// CreateTeacherDataset labels a random subset of each state's abstract
// atoms. Each state keeps exactly floor(ratio * #atoms) atoms, sampled
// without replacement from the sorted atom list.
func CreateTeacherDataset(preds []*types.Predicate, dataset types.Dataset,
	ratio float64, rng *rand.Rand) ([][]types.GroundAtomSet, error) {
	out := make([][]types.GroundAtomSet, 0, len(dataset))
	for _, traj := range dataset {
		trajAtoms := make([]types.GroundAtomSet, 0, len(traj.States))
		for _, s := range traj.States {
			atoms := util.Abstract(s, preds).Sorted()
			nSamples := int(float64(len(atoms)) * ratio)
			if nSamples < 1 {
				return nil, &types.DegenerateLabelError{
					Msg: "need at least 1 ground atom sample"}
			}
			idxs := make([]int, nSamples)
			sampleuv.WithoutReplacement(idxs, len(atoms), rng)
			subset := types.NewGroundAtomSet()
			for _, j := range idxs {
				subset.Add(atoms[j])
			}
			trajAtoms = append(trajAtoms, subset)
		}
		out = append(out, trajAtoms)
	}
	return out, nil
}
