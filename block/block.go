// Package block provides generator-matrix linear block codes over GF(2).
//
// A block code here is the minimal external surface the trellis engine
// needs: an encode map from k message bits to n codeword bits plus its
// dimensions. Syndrome decoding and algebraic code families are out of
// scope; conv.TerminatedCode produces generator matrices directly usable
// with this package.
package block

import (
	"fmt"

	"github.com/konvo/konvo/gf2"
)

// Code is a binary linear [n, k] block code defined by a k x n generator
// matrix. Immutable and safe for concurrent use.
type Code struct {
	generator gf2.Matrix
}

// NewCode creates a block code from its generator matrix. The matrix must
// be non-empty with at least as many columns as rows.
func NewCode(generator gf2.Matrix) (*Code, error) {
	k, n := generator.Rows(), generator.Cols()
	if k == 0 || n == 0 {
		return nil, fmt.Errorf("block: generator matrix is empty")
	}
	if n < k {
		return nil, fmt.Errorf("block: generator matrix is %dx%d, need at least as many columns as rows", k, n)
	}
	for i, row := range generator {
		if len(row) != n {
			return nil, fmt.Errorf("block: generator row %d is not rectangular", i)
		}
	}

	return &Code{generator: generator.Clone()}, nil
}

// Dimension returns the message length k in bits.
func (c *Code) Dimension() int { return c.generator.Rows() }

// Length returns the codeword length n in bits.
func (c *Code) Length() int { return c.generator.Cols() }

// Redundancy returns n - k.
func (c *Code) Redundancy() int { return c.Length() - c.Dimension() }

// Rate returns the code rate k/n.
func (c *Code) Rate() float64 { return float64(c.Dimension()) / float64(c.Length()) }

// Encode maps k message bits to the n-bit codeword message * G.
func (c *Code) Encode(message []int) ([]int, error) {
	if len(message) != c.Dimension() {
		return nil, fmt.Errorf("block: message length %d, want %d", len(message), c.Dimension())
	}

	row := make([]byte, len(message))
	for i, b := range message {
		if b != 0 && b != 1 {
			return nil, fmt.Errorf("block: message value %d at position %d is not a bit", b, i)
		}
		row[i] = byte(b)
	}
	codeword, err := gf2.VecMul(row, c.generator)
	if err != nil {
		return nil, err
	}

	out := make([]int, len(codeword))
	for i, b := range codeword {
		out[i] = int(b)
	}

	return out, nil
}
