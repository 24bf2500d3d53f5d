package models

import (
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
)

// MLPClassifier is a one-hidden-layer binary classifier trained by
// full-batch gradient descent on the logistic loss. Weight
// initialization and training are deterministic given the seed.
type MLPClassifier struct {
	hiddenSize   int
	maxItr       int
	learningRate float64
	rng          *rand.Rand

	// learned parameters
	w1 *mat.Dense    // inputDim x hiddenSize
	b1 []float64     // hiddenSize
	w2 *mat.VecDense // hiddenSize
	b2 float64

	fitted        bool
	constantLabel bool
	constantValue bool
}

func NewMLPClassifier(hiddenSize, maxItr int, learningRate float64, seed uint64) *MLPClassifier {
	return &MLPClassifier{
		hiddenSize:   hiddenSize,
		maxItr:       maxItr,
		learningRate: learningRate,
		rng:          rand.New(rand.NewSource(seed)),
	}
}

var _ Classifier = &MLPClassifier{}

func sigmoid(z float64) float64 {
	return 1.0 / (1.0 + math.Exp(-z))
}

// Fit trains on samples X with labels y in {0, 1}.
func (c *MLPClassifier) Fit(X [][]float64, y []int) error {
	Xm, err := toDense(X)
	if err != nil {
		return err
	}
	n, d := Xm.Dims()
	// Degenerate label sets short-circuit to a constant model.
	allSame := true
	for i := 1; i < len(y); i++ {
		if y[i] != y[0] {
			allSame = false
			break
		}
	}
	if allSame {
		c.fitted = true
		c.constantLabel = true
		c.constantValue = len(y) > 0 && y[0] == 1
		return nil
	}
	c.constantLabel = false

	h := c.hiddenSize
	scale := 1.0 / math.Sqrt(float64(d))
	w1 := mat.NewDense(d, h, nil)
	for i := 0; i < d; i++ {
		for j := 0; j < h; j++ {
			w1.Set(i, j, c.rng.NormFloat64()*scale)
		}
	}
	b1 := make([]float64, h)
	w2 := mat.NewVecDense(h, nil)
	for j := 0; j < h; j++ {
		w2.SetVec(j, c.rng.NormFloat64()/math.Sqrt(float64(h)))
	}
	b2 := 0.0

	hidden := mat.NewDense(n, h, nil)
	for itr := 0; itr < c.maxItr; itr++ {
		// forward
		hidden.Mul(Xm, w1)
		for i := 0; i < n; i++ {
			for j := 0; j < h; j++ {
				hidden.Set(i, j, math.Tanh(hidden.At(i, j)+b1[j]))
			}
		}
		probs := make([]float64, n)
		for i := 0; i < n; i++ {
			z := b2
			for j := 0; j < h; j++ {
				z += hidden.At(i, j) * w2.AtVec(j)
			}
			probs[i] = sigmoid(z)
		}
		// backward: dL/dz = p - y, averaged over the batch
		dz := make([]float64, n)
		for i := range dz {
			dz[i] = (probs[i] - float64(y[i])) / float64(n)
		}
		gw2 := make([]float64, h)
		gb2 := 0.0
		for i := 0; i < n; i++ {
			for j := 0; j < h; j++ {
				gw2[j] += dz[i] * hidden.At(i, j)
			}
			gb2 += dz[i]
		}
		gw1 := mat.NewDense(d, h, nil)
		gb1 := make([]float64, h)
		for i := 0; i < n; i++ {
			for j := 0; j < h; j++ {
				// tanh' = 1 - tanh^2
				dh := dz[i] * w2.AtVec(j) * (1 - hidden.At(i, j)*hidden.At(i, j))
				gb1[j] += dh
				for k := 0; k < d; k++ {
					gw1.Set(k, j, gw1.At(k, j)+dh*Xm.At(i, k))
				}
			}
		}
		// descend
		lr := c.learningRate
		for j := 0; j < h; j++ {
			w2.SetVec(j, w2.AtVec(j)-lr*gw2[j])
			b1[j] -= lr * gb1[j]
			for k := 0; k < d; k++ {
				w1.Set(k, j, w1.At(k, j)-lr*gw1.At(k, j))
			}
		}
		b2 -= lr * gb2
	}
	c.w1, c.b1, c.w2, c.b2 = w1, b1, w2, b2
	c.fitted = true
	return nil
}

// Classify labels a single sample.
func (c *MLPClassifier) Classify(x []float64) bool {
	if !c.fitted {
		panic("classifier used before Fit")
	}
	if c.constantLabel {
		return c.constantValue
	}
	d, h := c.w1.Dims()
	if len(x) != d {
		panic("classifier input has wrong dimension")
	}
	z := c.b2
	for j := 0; j < h; j++ {
		a := c.b1[j]
		for k := 0; k < d; k++ {
			a += x[k] * c.w1.At(k, j)
		}
		z += math.Tanh(a) * c.w2.AtVec(j)
	}
	return sigmoid(z) >= 0.5
}
