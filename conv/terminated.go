package conv

import (
	"fmt"
	"math"

	"github.com/konvo/konvo/bitops"
	"github.com/konvo/konvo/fsm"
	"github.com/konvo/konvo/gf2"
)

// TerminatedCode is the linear block code obtained by running a
// convolutional encoder over a fixed number of input blocks under a
// termination mode.
//
// The code has dimension h*k0. Its length is h*n0 for direct truncation and
// tail-biting, and (h+mu)*n0 for zero termination. The generator matrix and
// the per-mode linear correctors are computed once at construction and the
// value is immutable afterwards.
type TerminatedCode struct {
	code      *Code
	numBlocks int
	mode      TerminationMode

	// Mode-specific precomputed correctors; exactly one is non-nil except
	// for direct truncation, which needs none.
	tailProjector gf2.Matrix // ZeroTermination: message bits -> tail bits
	zsMultiplier  gf2.Matrix // TailBiting: zero-state response -> initial state

	generator gf2.Matrix
	bits      [][]int
}

// NewTerminatedCode builds the block code induced by running code over
// numBlocks input blocks under the given termination mode.
func NewTerminatedCode(code *Code, numBlocks int, mode TerminationMode) (*TerminatedCode, error) {
	if numBlocks < 1 {
		return nil, fmt.Errorf("conv: number of blocks %d, must be at least 1", numBlocks)
	}
	if !mode.valid() {
		return nil, fmt.Errorf("conv: termination mode %q is not supported", mode)
	}

	t := &TerminatedCode{
		code:      code,
		numBlocks: numBlocks,
		mode:      mode,
		bits:      bitTable(code.numOutputBits),
	}

	var err error
	switch mode {
	case ZeroTermination:
		t.tailProjector, err = tailProjector(code, numBlocks)
	case TailBiting:
		t.zsMultiplier, err = zsMultiplier(code, numBlocks)
	}
	if err != nil {
		return nil, err
	}

	t.generator, err = t.buildGeneratorMatrix()
	if err != nil {
		return nil, err
	}

	return t, nil
}

// Code returns the underlying convolutional code.
func (t *TerminatedCode) Code() *Code { return t.code }

// NumBlocks returns the number of message blocks h.
func (t *TerminatedCode) NumBlocks() int { return t.numBlocks }

// Mode returns the termination mode.
func (t *TerminatedCode) Mode() TerminationMode { return t.mode }

// Dimension returns the message length k = h*k0 in bits.
func (t *TerminatedCode) Dimension() int { return t.numBlocks * t.code.numInputBits }

// Length returns the codeword length in bits.
func (t *TerminatedCode) Length() int {
	if t.mode == ZeroTermination {
		return (t.numBlocks + t.code.memoryOrder) * t.code.numOutputBits
	}

	return t.numBlocks * t.code.numOutputBits
}

// Redundancy returns Length() - Dimension().
func (t *TerminatedCode) Redundancy() int { return t.Length() - t.Dimension() }

// preProcessInput converts message bits into the packed input symbol
// sequence actually fed to the encoder, appending the computed tail blocks
// under zero termination.
func (t *TerminatedCode) preProcessInput(message []int) ([]int, error) {
	k0 := t.code.numInputBits
	if t.mode != ZeroTermination {
		return bitops.Pack(message, k0), nil
	}

	bits := make([]byte, len(message))
	for i, b := range message {
		bits[i] = byte(b & 1)
	}
	tail, err := gf2.VecMul(bits, t.tailProjector)
	if err != nil {
		return nil, err
	}
	extended := make([]int, 0, len(message)+len(tail))
	extended = append(extended, message...)
	for _, b := range tail {
		extended = append(extended, int(b))
	}

	return bitops.Pack(extended, k0), nil
}

// initialState returns the encoder start state for the given packed input
// symbols: zero except under tail-biting, where the unique self-closing
// state is derived from the zero-state response through the precomputed
// corrector.
func (t *TerminatedCode) initialState(inputSymbols []int) (int, error) {
	if t.mode != TailBiting {
		return 0, nil
	}

	_, zeroStateResponse, err := t.code.machine.Process(inputSymbols, 0)
	if err != nil {
		return 0, err
	}
	zsBits := bitops.IntToBits(zeroStateResponse, t.code.constraint)
	row := make([]byte, len(zsBits))
	for i, b := range zsBits {
		row[i] = byte(b)
	}
	initial, err := gf2.VecMul(row, t.zsMultiplier)
	if err != nil {
		return 0, err
	}
	asInts := make([]int, len(initial))
	for i, b := range initial {
		asInts[i] = int(b)
	}

	return bitops.BitsToInt(asInts), nil
}

// EncodeMapping encodes a message by running the convolutional encoder
// directly under the termination mode's boundary convention. Encode
// produces the same codeword through the generator matrix.
func (t *TerminatedCode) EncodeMapping(message []int) ([]int, error) {
	if len(message) != t.Dimension() {
		return nil, fmt.Errorf("conv: message length %d, want %d", len(message), t.Dimension())
	}
	for i, b := range message {
		if b != 0 && b != 1 {
			return nil, fmt.Errorf("conv: message value %d at position %d is not a bit", b, i)
		}
	}

	symbols, err := t.preProcessInput(message)
	if err != nil {
		return nil, err
	}
	start, err := t.initialState(symbols)
	if err != nil {
		return nil, err
	}
	outputs, _, err := t.code.machine.Process(symbols, start)
	if err != nil {
		return nil, err
	}

	return bitops.Unpack(outputs, t.code.numOutputBits), nil
}

// GeneratorMatrix returns the k x n generator matrix of the block code. The
// returned matrix is shared; callers must not modify it.
func (t *TerminatedCode) GeneratorMatrix() gf2.Matrix { return t.generator }

// buildGeneratorMatrix encodes each of the k0 standard basis messages and
// tiles the resulting rows with a circular shift of n0 columns per block:
// the encoder is time-invariant, so every later block sees the same impulse
// response shifted in time. The wrap-around of the circular shift is what
// realizes tail-biting; under direct truncation the wrapped (pre-horizon)
// columns are zeroed instead, and under zero termination the codeword is
// long enough that no row ever wraps.
func (t *TerminatedCode) buildGeneratorMatrix() (gf2.Matrix, error) {
	k0 := t.code.numInputBits
	n0 := t.code.numOutputBits
	k, n := t.Dimension(), t.Length()

	topRows := gf2.New(k0, n)
	for i := 0; i < k0; i++ {
		basis := make([]int, k)
		basis[i] = 1
		codeword, err := t.EncodeMapping(basis)
		if err != nil {
			return nil, err
		}
		for j, b := range codeword {
			topRows[i][j] = byte(b)
		}
	}

	generator := gf2.New(k, n)
	for block := 0; block < t.numBlocks; block++ {
		shift := n0 * block
		for i := 0; i < k0; i++ {
			row := generator[k0*block+i]
			for j := 0; j < n; j++ {
				row[(j+shift)%n] = topRows[i][j]
			}
			if t.mode == DirectTruncation {
				for j := 0; j < shift; j++ {
					row[j] = 0
				}
			}
		}
	}

	return generator, nil
}

// Encode encodes a message through the generator matrix.
func (t *TerminatedCode) Encode(message []int) ([]int, error) {
	if len(message) != t.Dimension() {
		return nil, fmt.Errorf("conv: message length %d, want %d", len(message), t.Dimension())
	}

	row := make([]byte, len(message))
	for i, b := range message {
		row[i] = byte(b & 1)
	}
	codeword, err := gf2.VecMul(row, t.generator)
	if err != nil {
		return nil, err
	}
	out := make([]int, len(codeword))
	for i, b := range codeword {
		out[i] = int(b)
	}

	return out, nil
}

// DecodeViterbi performs hard-decision maximum-likelihood decoding of a
// received word of Length() bits, returning the most likely message.
//
// The boundary convention follows the termination mode: direct truncation
// and zero termination pin the initial state to zero; zero termination also
// pins the final state to zero, while the other modes pick the final state
// with the best metric.
func (t *TerminatedCode) DecodeViterbi(received []int) ([]int, error) {
	if len(received) != t.Length() {
		return nil, fmt.Errorf("conv: received length %d, want %d", len(received), t.Length())
	}
	n0 := t.code.numOutputBits
	blocks := make([][]int, len(received)/n0)
	for i := range blocks {
		blocks[i] = received[i*n0 : (i+1)*n0]
	}

	machine := t.code.machine
	var initialMetrics []float64
	if t.mode != TailBiting {
		initialMetrics = make([]float64, machine.NumStates())
		for s := 1; s < machine.NumStates(); s++ {
			initialMetrics[s] = math.Inf(1)
		}
	}

	inputs, finalMetrics, err := fsm.Viterbi(machine, blocks, hammingMetric(t.bits), initialMetrics)
	if err != nil {
		return nil, err
	}

	finalState := 0
	if t.mode != ZeroTermination {
		for s := 1; s < machine.NumStates(); s++ {
			if finalMetrics[s] < finalMetrics[finalState] {
				finalState = s
			}
		}
	}

	symbols := make([]int, t.numBlocks)
	for block := 0; block < t.numBlocks; block++ {
		symbols[block] = inputs[block][finalState]
	}

	return bitops.Unpack(symbols, t.code.numInputBits), nil
}

// DecodeBCJR performs soft-decision a-posteriori decoding of a received
// word of Length() soft values under BPSK over AWGN with the given
// signal-to-noise ratio, returning the symbolwise most probable message.
// Zero termination pins both boundary states; direct truncation pins only
// the initial state; tail-biting leaves both uniform.
func (t *TerminatedCode) DecodeBCJR(received []float64, snr float64) ([]int, error) {
	if len(received) != t.Length() {
		return nil, fmt.Errorf("conv: received length %d, want %d", len(received), t.Length())
	}
	n0 := t.code.numOutputBits
	blocks := make([][]float64, len(received)/n0)
	for i := range blocks {
		blocks[i] = received[i*n0 : (i+1)*n0]
	}

	machine := t.code.machine
	var opts []fsm.ForwardBackwardOption
	if t.mode != TailBiting {
		opts = append(opts, fsm.WithInitialStateDistribution(oneHot(machine.NumStates(), 0)))
	}
	if t.mode == ZeroTermination {
		opts = append(opts, fsm.WithFinalStateDistribution(oneHot(machine.NumStates(), 0)))
	}

	posteriors, err := fsm.ForwardBackward(machine, blocks, bipolarLogLikelihood(t.bits, snr), opts...)
	if err != nil {
		return nil, err
	}

	symbols := make([]int, t.numBlocks)
	for block := 0; block < t.numBlocks; block++ {
		best := 0
		for x := 1; x < machine.NumInputSymbols(); x++ {
			if posteriors[block][x] > posteriors[block][best] {
				best = x
			}
		}
		symbols[block] = best
	}

	return bitops.Unpack(symbols, t.code.numInputBits), nil
}

func oneHot(n, index int) []float64 {
	dist := make([]float64, n)
	dist[index] = 1

	return dist
}
