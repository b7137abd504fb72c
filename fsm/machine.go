package fsm

import (
	"fmt"
)

// MetricFunc scores a machine output symbol against one observed channel
// value. Viterbi decoders treat the result as an additive cost (lower is
// better); ForwardBackward treats it as a log-likelihood (higher is better).
type MetricFunc[Z any] func(outputSymbol int, observed Z) float64

// Machine is a finite-state (Mealy) machine with dense integer alphabets.
//
// The machine is defined by two tables of identical shape S x X: the next
// state table and the output table. Row s, column x holds the next state
// (respectively output symbol) taken when the machine is in state s and
// consumes input symbol x.
//
// A Machine is immutable once constructed.
type Machine struct {
	nextStates [][]int
	outputs    [][]int

	numStates  int
	numInputs  int
	numOutputs int

	// inputEdges[s0][s1] is the input symbol driving the s0 -> s1
	// transition, or -1 if no such edge exists. outputEdges is analogous
	// for output symbols. If the tables define more than one edge between
	// an ordered state pair the later input symbol wins; such machines are
	// outside deterministic Mealy semantics and decoding over them is
	// undefined.
	inputEdges  [][]int
	outputEdges [][]int
}

// NewMachine constructs a machine from its next-state and output tables.
//
// Both tables must be non-empty, rectangular and of identical shape S x X.
// Next-state entries must lie in [0, S). Output entries must be
// non-negative; the output alphabet size is one plus the largest entry.
// Construction is O(S*X) and precomputes the edge lookup tables.
func NewMachine(nextStates, outputs [][]int) (*Machine, error) {
	numStates := len(nextStates)
	if numStates == 0 {
		return nil, fmt.Errorf("fsm: next state table is empty")
	}
	if len(outputs) != numStates {
		return nil, fmt.Errorf("fsm: table shapes differ: %d next-state rows, %d output rows", numStates, len(outputs))
	}
	numInputs := len(nextStates[0])
	if numInputs == 0 {
		return nil, fmt.Errorf("fsm: next state table has no columns")
	}

	numOutputs := 0
	for s := 0; s < numStates; s++ {
		if len(nextStates[s]) != numInputs || len(outputs[s]) != numInputs {
			return nil, fmt.Errorf("fsm: table row %d is not rectangular", s)
		}
		for x := 0; x < numInputs; x++ {
			s1 := nextStates[s][x]
			if s1 < 0 || s1 >= numStates {
				return nil, fmt.Errorf("fsm: next state %d at (%d,%d) outside [0,%d)", s1, s, x, numStates)
			}
			y := outputs[s][x]
			if y < 0 {
				return nil, fmt.Errorf("fsm: negative output symbol %d at (%d,%d)", y, s, x)
			}
			if y+1 > numOutputs {
				numOutputs = y + 1
			}
		}
	}

	m := &Machine{
		nextStates: nextStates,
		outputs:    outputs,
		numStates:  numStates,
		numInputs:  numInputs,
		numOutputs: numOutputs,
	}

	m.inputEdges = make([][]int, numStates)
	m.outputEdges = make([][]int, numStates)
	for s0 := 0; s0 < numStates; s0++ {
		m.inputEdges[s0] = make([]int, numStates)
		m.outputEdges[s0] = make([]int, numStates)
		for s1 := 0; s1 < numStates; s1++ {
			m.inputEdges[s0][s1] = -1
			m.outputEdges[s0][s1] = -1
		}
		for x := 0; x < numInputs; x++ {
			s1 := nextStates[s0][x]
			m.inputEdges[s0][s1] = x
			m.outputEdges[s0][s1] = outputs[s0][x]
		}
	}

	return m, nil
}

// NumStates returns the number of states S.
func (m *Machine) NumStates() int { return m.numStates }

// NumInputSymbols returns the input alphabet size X.
func (m *Machine) NumInputSymbols() int { return m.numInputs }

// NumOutputSymbols returns the output alphabet size Y.
func (m *Machine) NumOutputSymbols() int { return m.numOutputs }

// NextState returns the state reached from state s on input symbol x.
func (m *Machine) NextState(s, x int) int { return m.nextStates[s][x] }

// Output returns the output symbol emitted from state s on input symbol x.
func (m *Machine) Output(s, x int) int { return m.outputs[s][x] }

// InputEdge returns the input symbol driving the s0 -> s1 transition, or -1
// if the machine has no such edge.
func (m *Machine) InputEdge(s0, s1 int) int { return m.inputEdges[s0][s1] }

// OutputEdge returns the output symbol emitted on the s0 -> s1 transition,
// or -1 if the machine has no such edge.
func (m *Machine) OutputEdge(s0, s1 int) int { return m.outputEdges[s0][s1] }

// Process replays the machine deterministically over an input sequence
// starting from initialState, returning the emitted output sequence and the
// final state.
//
// An empty input sequence returns an empty output sequence and the initial
// state unchanged. Process fails if initialState or any input symbol lies
// outside its alphabet; no partial output is returned.
func (m *Machine) Process(inputs []int, initialState int) ([]int, int, error) {
	if initialState < 0 || initialState >= m.numStates {
		return nil, 0, fmt.Errorf("fsm: initial state %d outside [0,%d)", initialState, m.numStates)
	}
	for t, x := range inputs {
		if x < 0 || x >= m.numInputs {
			return nil, 0, fmt.Errorf("fsm: input symbol %d at position %d outside [0,%d)", x, t, m.numInputs)
		}
	}

	outputs := make([]int, len(inputs))
	s := initialState
	for t, x := range inputs {
		outputs[t] = m.outputs[s][x]
		s = m.nextStates[s][x]
	}

	return outputs, s, nil
}
