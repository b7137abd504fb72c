package conv

import (
	"fmt"

	"github.com/konvo/konvo/bitops"
)

// StreamEncoder encodes a continuous bit stream through a convolutional
// code, carrying the encoder state across calls.
//
// A StreamEncoder is stateful and not safe for concurrent use.
type StreamEncoder struct {
	code  *Code
	state int
}

// NewStreamEncoder creates a stream encoder starting in the zero state.
func NewStreamEncoder(code *Code) *StreamEncoder {
	return &StreamEncoder{code: code}
}

// State returns the current encoder state as a packed integer.
func (e *StreamEncoder) State() int { return e.state }

// Encode consumes input bits (length a multiple of k0) and returns the
// encoded bits (n0 per input block). Successive calls continue the same
// stream.
func (e *StreamEncoder) Encode(inputBits []int) ([]int, error) {
	k0 := e.code.numInputBits
	if len(inputBits)%k0 != 0 {
		return nil, fmt.Errorf("conv: input length %d is not a multiple of %d input bits", len(inputBits), k0)
	}

	symbols := bitops.Pack(inputBits, k0)
	outputs, finalState, err := e.code.machine.Process(symbols, e.state)
	if err != nil {
		return nil, err
	}
	e.state = finalState

	return bitops.Unpack(outputs, e.code.numOutputBits), nil
}
