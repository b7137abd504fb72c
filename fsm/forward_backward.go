package fsm

import (
	"fmt"
	"math"

	"github.com/konvo/konvo/internal/options"
)

// forwardBackwardParams holds the optional prior knowledge supplied to
// ForwardBackward.
type forwardBackwardParams struct {
	inputPriors [][]float64
	initialDist []float64
	finalDist   []float64
}

// ForwardBackwardOption configures a ForwardBackward run.
type ForwardBackwardOption = options.Option[*forwardBackwardParams]

// WithInputPriors sets the prior pmf of each input symbol. The matrix must
// have shape L x X: row t, column x holds P(x_t = x). The default is
// uniform priors at every step.
func WithInputPriors(priors [][]float64) ForwardBackwardOption {
	return options.NoError(func(p *forwardBackwardParams) {
		p.inputPriors = priors
	})
}

// WithInitialStateDistribution sets the pmf of the machine's initial state.
// It must have length S. The default is uniform over all states.
func WithInitialStateDistribution(dist []float64) ForwardBackwardOption {
	return options.NoError(func(p *forwardBackwardParams) {
		p.initialDist = dist
	})
}

// WithFinalStateDistribution sets the pmf of the machine's final state. It
// must have length S. The default is uniform over all states.
func WithFinalStateDistribution(dist []float64) ForwardBackwardOption {
	return options.NoError(func(p *forwardBackwardParams) {
		p.finalDist = dist
	})
}

// ForwardBackward runs the BCJR (forward-backward) algorithm over an
// observed sequence, returning the exact posterior pmf of every input
// symbol: the result has shape L x X with row t, column x holding
// P(x_t = x | observed).
//
// The metric function is interpreted as a log-likelihood of the observed
// value given the output symbol (higher is better); it is combined with the
// log input priors into per-edge transition weights, and both trellis
// sweeps run entirely in the log domain with a deterministic left-to-right
// log-sum-exp accumulation.
//
// An observation inconsistent with every transition leaves an all -Inf
// posterior row, which normalizes to NaN; callers must treat such rows as
// degenerate rather than expect a correction.
//
// Time is O(L*S*X); the transition weight tensor costs O(L*S^2) space.
func ForwardBackward[Z any](m *Machine, observed []Z, metric MetricFunc[Z], opts ...ForwardBackwardOption) ([][]float64, error) {
	if metric == nil {
		return nil, fmt.Errorf("fsm: forward-backward requires a metric function")
	}

	L := len(observed)
	numStates, numInputs := m.numStates, m.numInputs

	params := &forwardBackwardParams{}
	if err := options.Apply(params, opts...); err != nil {
		return nil, err
	}
	if params.inputPriors == nil {
		params.inputPriors = uniformRows(L, numInputs)
	}
	if params.initialDist == nil {
		params.initialDist = uniformRow(numStates)
	}
	if params.finalDist == nil {
		params.finalDist = uniformRow(numStates)
	}
	if len(params.inputPriors) != L {
		return nil, fmt.Errorf("fsm: input priors have %d rows, want %d", len(params.inputPriors), L)
	}
	for t, row := range params.inputPriors {
		if len(row) != numInputs {
			return nil, fmt.Errorf("fsm: input priors row %d has length %d, want %d", t, len(row), numInputs)
		}
	}
	if len(params.initialDist) != numStates {
		return nil, fmt.Errorf("fsm: initial state distribution length %d, want %d", len(params.initialDist), numStates)
	}
	if len(params.finalDist) != numStates {
		return nil, fmt.Errorf("fsm: final state distribution length %d, want %d", len(params.finalDist), numStates)
	}

	// Per-edge log transition weights: prior of the driving input plus the
	// observation log-likelihood; -Inf marks missing edges.
	logGamma := make([][][]float64, L)
	for t, z := range observed {
		logGamma[t] = negInfRows(numStates, numStates)
		for x := 0; x < numInputs; x++ {
			logPrior := math.Log(params.inputPriors[t][x])
			for s0 := 0; s0 < numStates; s0++ {
				s1 := m.nextStates[s0][x]
				logGamma[t][s0][s1] = logPrior + metric(m.outputs[s0][x], z)
			}
		}
	}

	logAlpha := negInfRows(L+1, numStates)
	logBeta := negInfRows(L+1, numStates)
	for s := 0; s < numStates; s++ {
		logAlpha[0][s] = math.Log(params.initialDist[s])
		logBeta[L][s] = math.Log(params.finalDist[s])
	}

	for t := 0; t < L-1; t++ {
		for s1 := 0; s1 < numStates; s1++ {
			acc := math.Inf(-1)
			for s0 := 0; s0 < numStates; s0++ {
				acc = logAddExp(acc, logGamma[t][s0][s1]+logAlpha[t][s0])
			}
			logAlpha[t+1][s1] = acc
		}
	}

	for t := L - 1; t >= 0; t-- {
		for s0 := 0; s0 < numStates; s0++ {
			acc := math.Inf(-1)
			for s1 := 0; s1 < numStates; s1++ {
				acc = logAddExp(acc, logGamma[t][s0][s1]+logBeta[t+1][s1])
			}
			logBeta[t][s0] = acc
		}
	}

	posteriors := make([][]float64, L)
	for t := 0; t < L; t++ {
		logPosteriors := make([]float64, numInputs)
		for x := 0; x < numInputs; x++ {
			acc := math.Inf(-1)
			for s0 := 0; s0 < numStates; s0++ {
				s1 := m.nextStates[s0][x]
				acc = logAddExp(acc, logAlpha[t][s0]+logGamma[t][s0][s1]+logBeta[t+1][s1])
			}
			logPosteriors[x] = acc
		}
		posteriors[t] = normalizeLog(logPosteriors)
	}

	return posteriors, nil
}

// logAddExp returns log(exp(a) + exp(b)) without overflow, tolerating -Inf
// operands.
func logAddExp(a, b float64) float64 {
	if math.IsInf(a, -1) && math.IsInf(b, -1) {
		return math.Inf(-1)
	}
	if a < b {
		a, b = b, a
	}

	return a + math.Log1p(math.Exp(b-a))
}

// normalizeLog converts unnormalized log probabilities to a pmf using
// max-subtraction for numerical stability. An all -Inf input yields NaN
// entries.
func normalizeLog(logProbs []float64) []float64 {
	maxLog := math.Inf(-1)
	for _, lp := range logProbs {
		if lp > maxLog {
			maxLog = lp
		}
	}

	probs := make([]float64, len(logProbs))
	sum := 0.0
	for i, lp := range logProbs {
		probs[i] = math.Exp(lp - maxLog)
		sum += probs[i]
	}
	for i := range probs {
		probs[i] /= sum
	}

	return probs
}

func uniformRow(n int) []float64 {
	row := make([]float64, n)
	for i := range row {
		row[i] = 1.0 / float64(n)
	}

	return row
}

func uniformRows(rows, cols int) [][]float64 {
	out := make([][]float64, rows)
	for i := range out {
		out[i] = uniformRow(cols)
	}

	return out
}

func negInfRows(rows, cols int) [][]float64 {
	out := make([][]float64, rows)
	for i := range out {
		out[i] = make([]float64, cols)
		for j := range out[i] {
			out[i][j] = math.Inf(-1)
		}
	}

	return out
}
