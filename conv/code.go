package conv

import (
	"fmt"
	"math/bits"

	"github.com/konvo/konvo/fsm"
	"github.com/konvo/konvo/gf2"
)

// Code is a feedforward binary convolutional encoder.
//
// It is defined by a k0 x n0 matrix of generator polynomials over GF(2),
// one polynomial per (input, output) pair, with the least significant bit
// of each polynomial holding the D^0 coefficient. Input i feeds a shift
// register of length equal to the largest degree in row i; output j at time
// t is the mod-2 sum of the taps selected by column j across all registers.
//
// A Code is immutable after construction and safe for concurrent use.
type Code struct {
	generators [][]uint64

	numInputBits  int // k0
	numOutputBits int // n0
	memoryOrder   int // mu: largest single-register length
	constraint    int // nu: total register length

	// registerOffsets[i] is the index of input i's first state bit; state
	// bit registerOffsets[i]+d-1 holds the input consumed d steps ago.
	registerOffsets []int
	registerLengths []int

	machine *fsm.Machine
}

// NewCode constructs a convolutional code from its generator polynomial
// matrix. The matrix must be non-empty and rectangular. The finite-state
// machine over packed symbols is materialized once here (2^nu states).
//
// The classic rate-1/2, memory-2 code is NewCode([][]uint64{{0b111, 0b101}})
// (octal 7 and 5).
func NewCode(generators [][]uint64) (*Code, error) {
	k0 := len(generators)
	if k0 == 0 {
		return nil, fmt.Errorf("conv: generator matrix is empty")
	}
	n0 := len(generators[0])
	if n0 == 0 {
		return nil, fmt.Errorf("conv: generator matrix has no columns")
	}

	c := &Code{
		generators:      generators,
		numInputBits:    k0,
		numOutputBits:   n0,
		registerOffsets: make([]int, k0),
		registerLengths: make([]int, k0),
	}
	for i, row := range generators {
		if len(row) != n0 {
			return nil, fmt.Errorf("conv: generator row %d has %d polynomials, want %d", i, len(row), n0)
		}
		length := 0
		for _, g := range row {
			if degree := bits.Len64(g) - 1; degree > length {
				length = degree
			}
		}
		c.registerOffsets[i] = c.constraint
		c.registerLengths[i] = length
		c.constraint += length
		if length > c.memoryOrder {
			c.memoryOrder = length
		}
	}

	machine, err := c.buildMachine()
	if err != nil {
		return nil, err
	}
	c.machine = machine

	return c, nil
}

// NumInputBits returns k0, the input block size in bits.
func (c *Code) NumInputBits() int { return c.numInputBits }

// NumOutputBits returns n0, the output block size in bits.
func (c *Code) NumOutputBits() int { return c.numOutputBits }

// MemoryOrder returns mu, the length of the longest shift register.
func (c *Code) MemoryOrder() int { return c.memoryOrder }

// OverallConstraintLength returns nu, the total number of state bits.
func (c *Code) OverallConstraintLength() int { return c.constraint }

// FiniteStateMachine returns the Mealy machine of the encoder over packed
// symbols: 2^nu states, 2^k0 input symbols and 2^n0 output symbols, all
// encoded LSB first. The machine is shared, immutable and safe for
// concurrent decoders.
func (c *Code) FiniteStateMachine() *fsm.Machine { return c.machine }

func (c *Code) buildMachine() (*fsm.Machine, error) {
	numStates := 1 << c.constraint
	numInputs := 1 << c.numInputBits

	nextStates := make([][]int, numStates)
	outputs := make([][]int, numStates)
	for s := 0; s < numStates; s++ {
		nextStates[s] = make([]int, numInputs)
		outputs[s] = make([]int, numInputs)
		for x := 0; x < numInputs; x++ {
			nextStates[s][x], outputs[s][x] = c.stepPacked(s, x)
		}
	}

	return fsm.NewMachine(nextStates, outputs)
}

// stepPacked advances one time step from packed state s on packed input x,
// returning the packed next state and output symbol.
func (c *Code) stepPacked(s, x int) (next, output int) {
	for j := 0; j < c.numOutputBits; j++ {
		bit := 0
		for i := 0; i < c.numInputBits; i++ {
			g := c.generators[i][j]
			bit ^= int(g) & (x >> i) & 1
			for d := 1; d <= c.registerLengths[i]; d++ {
				bit ^= int(g>>d) & (s >> (c.registerOffsets[i] + d - 1)) & 1
			}
		}
		output |= (bit & 1) << j
	}

	for i := 0; i < c.numInputBits; i++ {
		length := c.registerLengths[i]
		if length == 0 {
			continue
		}
		offset := c.registerOffsets[i]
		mask := (1<<length - 1) << offset
		register := (s & mask) >> offset
		register = ((register << 1) | ((x >> i) & 1)) & (1<<length - 1)
		next = (next &^ mask) | (register << offset)
	}

	return next, output
}

// StateSpace returns the GF(2) state-space representation (A, B, C, D) of
// the encoder under the row-vector convention
//
//	state_{t+1} = state_t*A + x_t*B
//	y_t         = state_t*C + x_t*D
//
// with state_t a 1 x nu bit vector, x_t 1 x k0 and y_t 1 x n0. The bit
// order matches FiniteStateMachine's packed state encoding, so integer
// states and bit-vector states interconvert via bitops.
func (c *Code) StateSpace() (a, b, cm, d gf2.Matrix) {
	nu, k0, n0 := c.constraint, c.numInputBits, c.numOutputBits

	a = gf2.New(nu, nu)
	b = gf2.New(k0, nu)
	cm = gf2.New(nu, n0)
	d = gf2.New(k0, n0)

	for i := 0; i < k0; i++ {
		offset := c.registerOffsets[i]
		length := c.registerLengths[i]
		if length > 0 {
			b[i][offset] = 1
		}
		for pos := 1; pos < length; pos++ {
			a[offset+pos-1][offset+pos] = 1
		}
		for j := 0; j < n0; j++ {
			g := c.generators[i][j]
			d[i][j] = byte(g & 1)
			for deg := 1; deg <= length; deg++ {
				cm[offset+deg-1][j] = byte((g >> deg) & 1)
			}
		}
	}

	return a, b, cm, d
}
