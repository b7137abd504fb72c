package fsm

import (
	"fmt"
	"math"
)

// Viterbi finds, for every possible final state s, the minimum-cost input
// sequence ending in s, given a fully observed sequence of length L.
//
// The metric function scores one output symbol against one observed value;
// costs are additive along a trellis path, so a negative log-likelihood
// metric yields maximum-likelihood sequence decoding. Ties between incoming
// edges are broken by enumeration order: source states and input symbols
// are scanned in ascending order and the first-seen minimum survives, so
// results are bit-exact reproducible.
//
// initialMetrics biases the starting states; it must have length S or be
// nil, in which case all states start at cost zero.
//
// Viterbi returns an L x S matrix whose column s is the optimal input
// sequence ending in state s, together with the S final path metrics. Time
// is O(L*S*X), space O(L*S).
func Viterbi[Z any](m *Machine, observed []Z, metric MetricFunc[Z], initialMetrics []float64) ([][]int, []float64, error) {
	if metric == nil {
		return nil, nil, fmt.Errorf("fsm: viterbi requires a metric function")
	}
	numStates := m.numStates
	if initialMetrics != nil && len(initialMetrics) != numStates {
		return nil, nil, fmt.Errorf("fsm: initial metrics length %d, want %d", len(initialMetrics), numStates)
	}

	L := len(observed)
	choices := make([][]int, L)
	metrics := make([]float64, numStates)
	next := make([]float64, numStates)
	if initialMetrics != nil {
		copy(metrics, initialMetrics)
	}

	for t, z := range observed {
		choices[t] = make([]int, numStates)
		for s1 := 0; s1 < numStates; s1++ {
			next[s1] = math.Inf(1)
		}
		for s0 := 0; s0 < numStates; s0++ {
			for x := 0; x < m.numInputs; x++ {
				s1 := m.nextStates[s0][x]
				candidate := metrics[s0] + metric(m.outputs[s0][x], z)
				if candidate < next[s1] {
					next[s1] = candidate
					choices[t][s1] = s0
				}
			}
		}
		metrics, next = next, metrics
	}

	// Backtrack independently from every final state.
	inputs := make([][]int, L)
	for t := range inputs {
		inputs[t] = make([]int, numStates)
	}
	for finalState := 0; finalState < numStates; finalState++ {
		s1 := finalState
		for t := L - 1; t >= 0; t-- {
			s0 := choices[t][s1]
			inputs[t][finalState] = m.inputEdges[s0][s1]
			s1 = s0
		}
	}

	finalMetrics := make([]float64, numStates)
	copy(finalMetrics, metrics)

	return inputs, finalMetrics, nil
}
