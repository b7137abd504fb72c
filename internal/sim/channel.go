// Package sim provides the memoryless channel models and measurement
// helpers behind the simulation CLI. Channels are deliberately simple and
// deterministic under a fixed seed so BER sweeps are reproducible.
package sim

import (
	"fmt"
	"math"
	"math/rand"
)

// BSC is a binary symmetric channel: each transmitted bit is flipped
// independently with the crossover probability.
type BSC struct {
	crossover float64
	rng       *rand.Rand
}

// NewBSC creates a binary symmetric channel with the given crossover
// probability in [0, 1] and a deterministic noise seed.
func NewBSC(crossover float64, seed uint64) (*BSC, error) {
	if crossover < 0 || crossover > 1 || math.IsNaN(crossover) {
		return nil, fmt.Errorf("sim: crossover probability %v outside [0, 1]", crossover)
	}

	return &BSC{
		crossover: crossover,
		rng:       rand.New(rand.NewSource(int64(seed))),
	}, nil
}

// Transmit passes bits through the channel, returning the received bits.
func (c *BSC) Transmit(bits []int) []int {
	received := make([]int, len(bits))
	for i, b := range bits {
		if c.rng.Float64() < c.crossover {
			received[i] = 1 - b
		} else {
			received[i] = b
		}
	}

	return received
}

// AWGN is a BPSK-over-AWGN channel: bit 0 is transmitted as +1, bit 1 as
// -1, and white Gaussian noise with variance 1/(2*snr) is added, where snr
// is the linear signal-to-noise ratio Es/N0.
type AWGN struct {
	snr   float64
	sigma float64
	rng   *rand.Rand
}

// NewAWGN creates an AWGN channel with the given linear SNR (must be
// positive) and a deterministic noise seed.
func NewAWGN(snr float64, seed uint64) (*AWGN, error) {
	if snr <= 0 || math.IsNaN(snr) {
		return nil, fmt.Errorf("sim: snr %v must be positive", snr)
	}

	return &AWGN{
		snr:   snr,
		sigma: math.Sqrt(1 / (2 * snr)),
		rng:   rand.New(rand.NewSource(int64(seed))),
	}, nil
}

// SNR returns the channel's linear signal-to-noise ratio.
func (c *AWGN) SNR() float64 { return c.snr }

// Transmit maps bits to bipolar amplitudes and adds Gaussian noise,
// returning the received soft values.
func (c *AWGN) Transmit(bits []int) []float64 {
	received := make([]float64, len(bits))
	for i, b := range bits {
		amplitude := 1.0
		if b == 1 {
			amplitude = -1.0
		}
		received[i] = amplitude + c.sigma*c.rng.NormFloat64()
	}

	return received
}
