// Package bitops provides lossless conversions between non-negative
// integers and bit lists, and between bit streams and fixed-width symbol
// streams.
//
// Bits are ordered least-significant first throughout: IntToBits(6, 4)
// yields [0 1 1 0], and the first bit of every Pack group is the low bit of
// the resulting symbol. These helpers are pure format conversions; no
// decoding logic lives here.
package bitops

// IntToBits returns the width least-significant bits of value, LSB first.
func IntToBits(value, width int) []int {
	bits := make([]int, width)
	for i := 0; i < width; i++ {
		bits[i] = (value >> i) & 1
	}

	return bits
}

// BitsToInt converts an LSB-first bit list to an integer.
func BitsToInt(bits []int) int {
	value := 0
	for i, b := range bits {
		value |= (b & 1) << i
	}

	return value
}

// Pack groups an LSB-first bit list into symbols of the given bit width.
// The bit list length must be a multiple of width.
func Pack(bits []int, width int) []int {
	symbols := make([]int, len(bits)/width)
	for i := range symbols {
		symbols[i] = BitsToInt(bits[i*width : (i+1)*width])
	}

	return symbols
}

// Unpack expands symbols into an LSB-first bit list, width bits per symbol.
// It is the exact inverse of Pack.
func Unpack(symbols []int, width int) []int {
	bits := make([]int, 0, len(symbols)*width)
	for _, symbol := range symbols {
		bits = append(bits, IntToBits(symbol, width)...)
	}

	return bits
}
