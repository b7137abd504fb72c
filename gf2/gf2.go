// Package gf2 implements dense matrix arithmetic over the binary field
// GF(2).
//
// Matrices are small and dense (encoder state dimensions), so entries are
// stored one per byte rather than bit-packed. All operations are exact:
// addition is XOR and multiplication reduces every dot product mod 2, so
// there is no floating-point approximation anywhere, including in
// PseudoInverse.
package gf2

import "fmt"

// Matrix is a dense matrix over GF(2). Entries are 0 or 1.
type Matrix [][]byte

// New builds an all-zero matrix of the given shape.
func New(rows, cols int) Matrix {
	m := make(Matrix, rows)
	for i := range m {
		m[i] = make([]byte, cols)
	}

	return m
}

// Eye returns the n x n identity matrix.
func Eye(n int) Matrix {
	m := New(n, n)
	for i := 0; i < n; i++ {
		m[i][i] = 1
	}

	return m
}

// FromInts builds a matrix from integer rows, reducing entries mod 2.
func FromInts(rows [][]int) Matrix {
	m := make(Matrix, len(rows))
	for i, row := range rows {
		m[i] = make([]byte, len(row))
		for j, v := range row {
			m[i][j] = byte(v & 1)
		}
	}

	return m
}

// Rows returns the number of rows.
func (m Matrix) Rows() int { return len(m) }

// Cols returns the number of columns, or 0 for an empty matrix.
func (m Matrix) Cols() int {
	if len(m) == 0 {
		return 0
	}

	return len(m[0])
}

// Clone returns a deep copy of m.
func (m Matrix) Clone() Matrix {
	out := make(Matrix, len(m))
	for i, row := range m {
		out[i] = make([]byte, len(row))
		copy(out[i], row)
	}

	return out
}

// Transpose returns the transpose of m.
func (m Matrix) Transpose() Matrix {
	out := New(m.Cols(), m.Rows())
	for i, row := range m {
		for j, v := range row {
			out[j][i] = v
		}
	}

	return out
}

// Add returns a + b over GF(2) (elementwise XOR).
func Add(a, b Matrix) (Matrix, error) {
	if a.Rows() != b.Rows() || a.Cols() != b.Cols() {
		return nil, fmt.Errorf("gf2: add shape mismatch: %dx%d vs %dx%d", a.Rows(), a.Cols(), b.Rows(), b.Cols())
	}

	out := New(a.Rows(), a.Cols())
	for i := range a {
		for j := range a[i] {
			out[i][j] = a[i][j] ^ b[i][j]
		}
	}

	return out, nil
}

// Mul returns the matrix product a * b over GF(2).
func Mul(a, b Matrix) (Matrix, error) {
	if a.Cols() != b.Rows() {
		return nil, fmt.Errorf("gf2: mul shape mismatch: %dx%d vs %dx%d", a.Rows(), a.Cols(), b.Rows(), b.Cols())
	}

	out := New(a.Rows(), b.Cols())
	for i := range a {
		for k, aik := range a[i] {
			if aik == 0 {
				continue
			}
			for j := range b[k] {
				out[i][j] ^= b[k][j]
			}
		}
	}

	return out, nil
}

// VecMul returns the row vector v * m over GF(2).
func VecMul(v []byte, m Matrix) ([]byte, error) {
	if len(v) != m.Rows() {
		return nil, fmt.Errorf("gf2: vecmul shape mismatch: vector length %d vs %d rows", len(v), m.Rows())
	}

	out := make([]byte, m.Cols())
	for k, vk := range v {
		if vk == 0 {
			continue
		}
		for j := range m[k] {
			out[j] ^= m[k][j]
		}
	}

	return out, nil
}

// Pow returns m raised to the n-th power over GF(2). m must be square and
// n non-negative; Pow(m, 0) is the identity.
func Pow(m Matrix, n int) (Matrix, error) {
	if m.Rows() != m.Cols() {
		return nil, fmt.Errorf("gf2: pow of non-square %dx%d matrix", m.Rows(), m.Cols())
	}
	if n < 0 {
		return nil, fmt.Errorf("gf2: pow with negative exponent %d", n)
	}

	result := Eye(m.Rows())
	base := m.Clone()
	for n > 0 {
		if n&1 == 1 {
			var err error
			result, err = Mul(result, base)
			if err != nil {
				return nil, err
			}
		}
		var err error
		base, err = Mul(base, base)
		if err != nil {
			return nil, err
		}
		n >>= 1
	}

	return result, nil
}

// PseudoInverse returns a generalized inverse P of m over GF(2) satisfying
// m * P * m = m.
//
// P is built from the reduced row echelon form of m: with E the invertible
// row transform such that E*m is in RREF with pivot columns p_1..p_r, P is
// the pivot indicator transpose composed with E. Whenever a linear system
// x*m = v (or m*x = v) is consistent, x = v*P (resp. P*v) solves it, which
// is exactly how the termination strategies use it; for full-row-rank m, P
// is a right inverse.
func PseudoInverse(m Matrix) Matrix {
	rows, cols := m.Rows(), m.Cols()

	// Row-reduce [m | I], tracking the transform E in the right block.
	r := m.Clone()
	e := Eye(rows)
	pivots := make([]int, 0, rows)
	row := 0
	for col := 0; col < cols && row < rows; col++ {
		pivot := -1
		for i := row; i < rows; i++ {
			if r[i][col] == 1 {
				pivot = i
				break
			}
		}
		if pivot == -1 {
			continue
		}
		r[row], r[pivot] = r[pivot], r[row]
		e[row], e[pivot] = e[pivot], e[row]
		for i := 0; i < rows; i++ {
			if i != row && r[i][col] == 1 {
				for j := 0; j < cols; j++ {
					r[i][j] ^= r[row][j]
				}
				for j := 0; j < rows; j++ {
					e[i][j] ^= e[row][j]
				}
			}
		}
		pivots = append(pivots, col)
		row++
	}

	// P = R+ * E where R+ has a 1 at (pivot column j, row j).
	p := New(cols, rows)
	for j, pivotCol := range pivots {
		copy(p[pivotCol], e[j])
	}

	return p
}
