package models

import (
	"fmt"
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// GaussianRegressor fits a linear-Gaussian model per output dimension:
// a ridge-regularized least-squares mean plus a diagonal residual
// variance. PredictSample draws from the fitted Gaussian.
type GaussianRegressor struct {
	ridge float64

	weights *mat.Dense // inputDim x outputDim
	stds    []float64  // outputDim
	fitted  bool
}

func NewGaussianRegressor() *GaussianRegressor {
	return &GaussianRegressor{ridge: 1e-6}
}

var _ Regressor = &GaussianRegressor{}

// minimum sampling noise so degenerate residuals still produce a
// proper distribution
const minStd = 1e-6

// Fit solves (XᵀX + λI)W = XᵀY and estimates per-dimension residual
// standard deviations.
func (r *GaussianRegressor) Fit(X, Y [][]float64) error {
	Xm, err := toDense(X)
	if err != nil {
		return err
	}
	Ym, err := toDense(Y)
	if err != nil {
		return err
	}
	n, d := Xm.Dims()
	yn, k := Ym.Dims()
	if n != yn {
		return fmt.Errorf("regressor has %d inputs but %d outputs", n, yn)
	}

	var gram mat.Dense
	gram.Mul(Xm.T(), Xm)
	for i := 0; i < d; i++ {
		gram.Set(i, i, gram.At(i, i)+r.ridge)
	}
	var xty mat.Dense
	xty.Mul(Xm.T(), Ym)
	var w mat.Dense
	if err := w.Solve(&gram, &xty); err != nil {
		return fmt.Errorf("solving least squares: %w", err)
	}

	var pred mat.Dense
	pred.Mul(Xm, &w)
	stds := make([]float64, k)
	for j := 0; j < k; j++ {
		ss := 0.0
		for i := 0; i < n; i++ {
			diff := Ym.At(i, j) - pred.At(i, j)
			ss += diff * diff
		}
		stds[j] = math.Max(math.Sqrt(ss/float64(n)), minStd)
	}

	r.weights = &w
	r.stds = stds
	r.fitted = true
	return nil
}

// PredictMean returns the mean output for a single input.
func (r *GaussianRegressor) PredictMean(x []float64) []float64 {
	if !r.fitted {
		panic("regressor used before Fit")
	}
	d, k := r.weights.Dims()
	if len(x) != d {
		panic("regressor input has wrong dimension")
	}
	out := make([]float64, k)
	for j := 0; j < k; j++ {
		v := 0.0
		for i := 0; i < d; i++ {
			v += x[i] * r.weights.At(i, j)
		}
		out[j] = v
	}
	return out
}

// PredictSample draws one output from the fitted Gaussian.
func (r *GaussianRegressor) PredictSample(x []float64, rng *rand.Rand) []float64 {
	mean := r.PredictMean(x)
	out := make([]float64, len(mean))
	for j := range mean {
		n := distuv.Normal{Mu: mean[j], Sigma: r.stds[j], Src: rng}
		out[j] = n.Rand()
	}
	return out
}
