package conv

import (
	"fmt"

	"github.com/konvo/konvo/bitops"
	"github.com/konvo/konvo/fsm"
	"github.com/konvo/konvo/internal/options"
)

// StreamDecoder decodes a continuous (hard or soft) bit stream encoded by a
// convolutional code, using the bounded-memory streaming Viterbi algorithm.
//
// The decoded stream lags the input by traceback-length input blocks: the
// first tau decoded blocks are produced from the initial path memory and
// are provisional, and the caller feeds tau blocks of dummy observations at
// the end of the stream to drain the final decisions.
//
// A StreamDecoder is stateful and not safe for concurrent use; create one
// per stream. The underlying machine tables are shared and immutable.
type StreamDecoder struct {
	code      *Code
	traceback int
	inputType InputType
	bits      [][]int

	hard *fsm.StreamDecoder[[]int]
	soft *fsm.StreamDecoder[[]float64]

	hardMetric fsm.MetricFunc[[]int]
	softMetric fsm.MetricFunc[[]float64]
}

// StreamDecoderOption configures a StreamDecoder.
type StreamDecoderOption = options.Option[*StreamDecoder]

// WithTracebackLength sets the traceback window tau in input blocks. The
// default is five times the code's memory order.
func WithTracebackLength(tau int) StreamDecoderOption {
	return options.New(func(d *StreamDecoder) error {
		if tau < 1 {
			return fmt.Errorf("conv: traceback length %d, must be at least 1", tau)
		}
		d.traceback = tau

		return nil
	})
}

// WithInputType sets how received values are interpreted. The default is
// InputTypeHard.
func WithInputType(t InputType) StreamDecoderOption {
	return options.New(func(d *StreamDecoder) error {
		if !t.valid() {
			return fmt.Errorf("conv: input type %q is not supported", t)
		}
		d.inputType = t

		return nil
	})
}

// NewStreamDecoder creates a streaming decoder for the given code, starting
// from the zero encoder state.
func NewStreamDecoder(code *Code, opts ...StreamDecoderOption) (*StreamDecoder, error) {
	d := &StreamDecoder{
		code:      code,
		traceback: 5 * code.memoryOrder,
		inputType: InputTypeHard,
		bits:      bitTable(code.numOutputBits),
	}
	if err := options.Apply(d, opts...); err != nil {
		return nil, err
	}
	if d.traceback < 1 {
		// Memory order 0 leaves the 5*mu default degenerate.
		d.traceback = 1
	}

	var err error
	switch d.inputType {
	case InputTypeHard:
		d.hardMetric = hammingMetric(d.bits)
		d.hard, err = fsm.NewStreamDecoder[[]int](code.machine, d.traceback, 0)
	case InputTypeSoft:
		d.softMetric = correlationMetric(d.bits)
		d.soft, err = fsm.NewStreamDecoder[[]float64](code.machine, d.traceback, 0)
	}
	if err != nil {
		return nil, err
	}

	return d, nil
}

// TracebackLength returns the decoder's traceback window in input blocks.
func (d *StreamDecoder) TracebackLength() int { return d.traceback }

// Decode consumes hard received bits (length a multiple of n0) and returns
// one block of k0 decoded bits per received block, delayed by the traceback
// length. It fails if the decoder was configured for soft input.
func (d *StreamDecoder) Decode(received []int) ([]int, error) {
	if d.inputType != InputTypeHard {
		return nil, fmt.Errorf("conv: decoder configured for %q input, use DecodeSoft", d.inputType)
	}
	n0 := d.code.numOutputBits
	if len(received)%n0 != 0 {
		return nil, fmt.Errorf("conv: received length %d is not a multiple of %d output bits", len(received), n0)
	}
	for i, bit := range received {
		if bit != 0 && bit != 1 {
			return nil, fmt.Errorf("conv: received value %d at position %d is not a bit", bit, i)
		}
	}

	blocks := make([][]int, len(received)/n0)
	for i := range blocks {
		blocks[i] = received[i*n0 : (i+1)*n0]
	}
	symbols := d.hard.Decode(blocks, d.hardMetric)

	return bitops.Unpack(symbols, d.code.numInputBits), nil
}

// DecodeSoft consumes soft received values (length a multiple of n0, bipolar
// convention: bit 0 transmitted as +1) and returns decoded bits, delayed by
// the traceback length. It fails if the decoder was configured for hard
// input.
func (d *StreamDecoder) DecodeSoft(received []float64) ([]int, error) {
	if d.inputType != InputTypeSoft {
		return nil, fmt.Errorf("conv: decoder configured for %q input, use Decode", d.inputType)
	}
	n0 := d.code.numOutputBits
	if len(received)%n0 != 0 {
		return nil, fmt.Errorf("conv: received length %d is not a multiple of %d output bits", len(received), n0)
	}

	blocks := make([][]float64, len(received)/n0)
	for i := range blocks {
		blocks[i] = received[i*n0 : (i+1)*n0]
	}
	symbols := d.soft.Decode(blocks, d.softMetric)

	return bitops.Unpack(symbols, d.code.numInputBits), nil
}
