package fsm

import (
	"fmt"
	"math"
)

// StreamDecoder is a real-time Viterbi decoder with a fixed traceback
// window of tau steps.
//
// The decoder keeps two parallel buffers indexed by (state, offset) with
// offset in [0, tau]: the running path metrics of the most recent tau+1
// time steps and, per state, the states visited along the best-known path
// ending in that state. Both buffers have constant size S x (tau+1)
// regardless of how many symbols have been decoded, which is what allows
// unbounded streams to be decoded in bounded memory.
//
// Each observed symbol produces exactly one decoded input symbol, delayed
// by tau steps: the decision emitted at time t is the one made at time
// t-tau along the survivor path with the currently best metric (the merge
// point heuristic). The first tau emissions are produced from the initial
// all-zero path memory and are provisional; callers discard them and feed
// tau dummy observations at the end of the stream to drain the final
// decisions.
//
// A StreamDecoder is stateful and not safe for concurrent use.
type StreamDecoder[Z any] struct {
	m         *Machine
	traceback int
	width     int // traceback + 1 columns

	// metrics is a ring of width columns per state; head is the physical
	// index of the oldest column. Rotation is index arithmetic only.
	metrics []float64
	head    int

	// paths and scratch are double-buffered S x width path histories,
	// offset-addressed with offset 0 = oldest. The per-step survivor
	// rewrite copies whole rows between states, so the previous buffer
	// must stay intact while the next one is built.
	paths   []int
	scratch []int

	newMetrics []float64
	choices    []int
}

// NewStreamDecoder creates a streaming decoder over machine m with the
// given traceback length (at least 1) and initial machine state.
//
// A practical traceback for convolutional codes is about five times the
// encoder memory order; longer windows approach block-optimal decisions at
// the price of latency.
func NewStreamDecoder[Z any](m *Machine, tracebackLength, initialState int) (*StreamDecoder[Z], error) {
	if tracebackLength < 1 {
		return nil, fmt.Errorf("fsm: traceback length %d, must be at least 1", tracebackLength)
	}
	if initialState < 0 || initialState >= m.numStates {
		return nil, fmt.Errorf("fsm: initial state %d outside [0,%d)", initialState, m.numStates)
	}

	d := &StreamDecoder[Z]{
		m:          m,
		traceback:  tracebackLength,
		width:      tracebackLength + 1,
		newMetrics: make([]float64, m.numStates),
		choices:    make([]int, m.numStates),
	}
	d.metrics = make([]float64, m.numStates*d.width)
	d.paths = make([]int, m.numStates*d.width)
	d.scratch = make([]int, m.numStates*d.width)
	d.Reset(initialState)

	return d, nil
}

// TracebackLength returns the decoder's fixed traceback window tau.
func (d *StreamDecoder[Z]) TracebackLength() int { return d.traceback }

// Reset clears the path memory and restarts the decoder at initialState.
func (d *StreamDecoder[Z]) Reset(initialState int) {
	for i := range d.metrics {
		d.metrics[i] = math.Inf(1)
	}
	for i := range d.paths {
		d.paths[i] = 0
	}
	d.head = 0
	// Only the newest column is ever read by the one-step update; seed it
	// so every survivor path starts from the initial state.
	d.metrics[initialState*d.width+d.newestColumn()] = 0
}

func (d *StreamDecoder[Z]) newestColumn() int {
	return (d.head + d.width - 1) % d.width
}

// Decode absorbs a batch of observed symbols and returns one decoded input
// symbol per observation, each delayed by the traceback length. The metric
// function is an additive cost as in Viterbi. The path memory is mutated in
// place; successive calls continue the same stream.
func (d *StreamDecoder[Z]) Decode(observed []Z, metric MetricFunc[Z]) []int {
	decoded := make([]int, len(observed))
	for t, z := range observed {
		decoded[t] = d.step(z, metric)
	}

	return decoded
}

// step performs the one-symbol update: extend all survivor paths by one
// trellis section, emit the tau-delayed decision of the best survivor, and
// rotate the window.
func (d *StreamDecoder[Z]) step(z Z, metric MetricFunc[Z]) int {
	m := d.m
	numStates := m.numStates
	newest := d.newestColumn()

	// One-step Viterbi update against the newest stored metric column.
	// Ties keep the first-seen minimum: ascending source state, then
	// ascending input symbol.
	for s1 := 0; s1 < numStates; s1++ {
		d.newMetrics[s1] = math.Inf(1)
		d.choices[s1] = 0
	}
	for s0 := 0; s0 < numStates; s0++ {
		base := d.metrics[s0*d.width+newest]
		for x := 0; x < m.numInputs; x++ {
			s1 := m.nextStates[s0][x]
			candidate := base + metric(m.outputs[s0][x], z)
			if candidate < d.newMetrics[s1] {
				d.newMetrics[s1] = candidate
				d.choices[s1] = s0
			}
		}
	}

	// Merge point: the state with the globally best new metric; ties go to
	// the lowest state index. Emit the decision made tau steps ago on its
	// path, i.e. the input on the edge between the two oldest offsets.
	best := 0
	for s := 1; s < numStates; s++ {
		if d.newMetrics[s] < d.newMetrics[best] {
			best = s
		}
	}
	s0 := d.pathAt(best, 0)
	s1 := d.pathAt(best, 1)
	symbol := m.inputEdges[s0][s1]

	// Rotate the metric ring: the oldest column is overwritten by the new
	// one and becomes the newest.
	oldest := d.head
	d.head = (d.head + 1) % d.width
	for s := 0; s < numStates; s++ {
		d.metrics[s*d.width+oldest] = d.newMetrics[s]
	}

	// Rewrite the path buffer so each state's row is the full lineage of
	// its new survivor: the chosen predecessor's history shifted by one,
	// ending in the state itself.
	for s1 := 0; s1 < numStates; s1++ {
		src := d.choices[s1] * d.width
		dst := s1 * d.width
		for off := 0; off < d.traceback; off++ {
			d.scratch[dst+off] = d.paths[src+off+1]
		}
		d.scratch[dst+d.traceback] = s1
	}
	d.paths, d.scratch = d.scratch, d.paths

	return symbol
}

// pathAt returns the state at the given offset (0 = oldest) of the survivor
// path currently assigned to state s.
func (d *StreamDecoder[Z]) pathAt(s, offset int) int {
	return d.paths[s*d.width+offset]
}
