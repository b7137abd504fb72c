package conv

import "fmt"

// InputType selects how a decoder interprets the received sequence.
type InputType int

const (
	// InputTypeHard treats received values as bits and scores candidate
	// outputs by Hamming distance.
	InputTypeHard InputType = iota
	// InputTypeSoft treats received values as real numbers and scores
	// candidate outputs by correlation, suitable for bipolar mapping where
	// bit 1 is transmitted as a negative amplitude.
	InputTypeSoft
)

// String returns the textual name of the input type.
func (t InputType) String() string {
	switch t {
	case InputTypeHard:
		return "hard"
	case InputTypeSoft:
		return "soft"
	default:
		return fmt.Sprintf("InputType(%d)", int(t))
	}
}

func (t InputType) valid() bool {
	return t == InputTypeHard || t == InputTypeSoft
}

// bitTable caches the LSB-first bit expansion of every output symbol so the
// per-edge metric evaluation avoids re-deriving bits in the hot loop.
func bitTable(width int) [][]int {
	table := make([][]int, 1<<width)
	for symbol := range table {
		bits := make([]int, width)
		for i := 0; i < width; i++ {
			bits[i] = (symbol >> i) & 1
		}
		table[symbol] = bits
	}

	return table
}

// hammingMetric counts the positions where the output symbol's bits differ
// from the observed hard bits.
func hammingMetric(table [][]int) func(int, []int) float64 {
	return func(outputSymbol int, observed []int) float64 {
		distance := 0.0
		for i, bit := range table[outputSymbol] {
			if bit != observed[i] {
				distance++
			}
		}

		return distance
	}
}

// correlationMetric accumulates the observed soft values at the positions
// where the output symbol has a 1 bit. Under the bipolar convention
// (bit 0 -> +1, bit 1 -> -1) lower is better, matching Viterbi's cost
// semantics.
func correlationMetric(table [][]int) func(int, []float64) float64 {
	return func(outputSymbol int, observed []float64) float64 {
		cost := 0.0
		for i, bit := range table[outputSymbol] {
			if bit == 1 {
				cost += observed[i]
			}
		}

		return cost
	}
}

// bipolarLogLikelihood scores an output symbol against soft received values
// under BPSK over AWGN: bit 0 maps to +1, bit 1 to -1, and the
// log-likelihood of the received block is 2*snr*<mapped bits, observed> up
// to a constant that cancels in posterior normalization.
func bipolarLogLikelihood(table [][]int, snr float64) func(int, []float64) float64 {
	return func(outputSymbol int, observed []float64) float64 {
		acc := 0.0
		for i, bit := range table[outputSymbol] {
			if bit == 0 {
				acc += observed[i]
			} else {
				acc -= observed[i]
			}
		}

		return 2 * snr * acc
	}
}
