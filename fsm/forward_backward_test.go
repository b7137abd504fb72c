package fsm

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

// symbolLogLikelihood is the log-likelihood counterpart of symbolMatch: an
// exact match is certain, anything else impossible.
func symbolLogLikelihood(y, z int) float64 {
	if y == z {
		return 0
	}

	return math.Inf(-1)
}

func TestForwardBackward_NoiselessPosteriors(t *testing.T) {
	m := testMachine(t)

	message := []int{1, 1, 0, 1, 0}
	observed, finalState, err := m.Process(message, 0)
	require.NoError(t, err)

	posteriors, err := ForwardBackward(m, observed, symbolLogLikelihood,
		WithInitialStateDistribution([]float64{1, 0, 0, 0}),
		WithFinalStateDistribution(oneHotDist(m.NumStates(), finalState)),
	)
	require.NoError(t, err)
	require.Len(t, posteriors, len(message))

	for i, x := range message {
		require.Len(t, posteriors[i], m.NumInputSymbols())
		require.InDelta(t, 1.0, posteriors[i][x], 1e-12, "step %d", i)
		require.InDelta(t, 0.0, posteriors[i][1-x], 1e-12, "step %d", i)
	}
}

func TestForwardBackward_RowsSumToOne(t *testing.T) {
	m := testMachine(t)

	// A noisy log-likelihood: matches are likelier but mismatches possible.
	noisy := func(y, z int) float64 {
		if y == z {
			return math.Log(0.7)
		}

		return math.Log(0.1)
	}

	observed := []int{3, 2, 1, 0, 2, 3, 1, 1}
	posteriors, err := ForwardBackward(m, observed, noisy)
	require.NoError(t, err)

	for i, row := range posteriors {
		sum := 0.0
		for _, p := range row {
			require.False(t, math.IsNaN(p), "step %d", i)
			require.GreaterOrEqual(t, p, 0.0)
			sum += p
		}
		require.InDelta(t, 1.0, sum, 1e-9, "step %d", i)
	}
}

func TestForwardBackward_InputPriorsBias(t *testing.T) {
	m := testMachine(t)

	// With an uninformative metric the posterior reduces to the prior.
	flat := func(y, z int) float64 { return 0 }
	priors := [][]float64{
		{0.9, 0.1},
		{0.25, 0.75},
		{0.5, 0.5},
	}

	posteriors, err := ForwardBackward(m, []int{0, 0, 0}, flat, WithInputPriors(priors))
	require.NoError(t, err)

	for i, row := range priors {
		require.InDelta(t, row[0], posteriors[i][0], 1e-9, "step %d", i)
		require.InDelta(t, row[1], posteriors[i][1], 1e-9, "step %d", i)
	}
}

func TestForwardBackward_ImpossibleObservationYieldsNaN(t *testing.T) {
	m := testMachine(t)

	// A value outside the output alphabet matches no transition, so every
	// posterior in its row is degenerate.
	posteriors, err := ForwardBackward(m, []int{99}, symbolLogLikelihood)
	require.NoError(t, err)
	require.Len(t, posteriors, 1)

	for _, p := range posteriors[0] {
		require.True(t, math.IsNaN(p))
	}
}

func TestForwardBackward_Validation(t *testing.T) {
	m := testMachine(t)

	_, err := ForwardBackward[int](m, []int{0}, nil)
	require.Error(t, err)

	_, err = ForwardBackward(m, []int{0, 1}, symbolLogLikelihood,
		WithInputPriors([][]float64{{0.5, 0.5}}))
	require.Error(t, err, "priors row count mismatch")

	_, err = ForwardBackward(m, []int{0}, symbolLogLikelihood,
		WithInputPriors([][]float64{{1}}))
	require.Error(t, err, "priors row length mismatch")

	_, err = ForwardBackward(m, []int{0}, symbolLogLikelihood,
		WithInitialStateDistribution([]float64{1, 0}))
	require.Error(t, err)

	_, err = ForwardBackward(m, []int{0}, symbolLogLikelihood,
		WithFinalStateDistribution([]float64{1}))
	require.Error(t, err)
}

func oneHotDist(n, i int) []float64 {
	dist := make([]float64, n)
	dist[i] = 1

	return dist
}
