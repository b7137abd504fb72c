// Package conv implements binary convolutional codes: the shift-register
// encoder, its finite-state-machine and state-space views, stream
// encoding/decoding, and the termination strategies that turn a
// convolutional encoder plus a block length into an equivalent linear
// block code.
//
// A Code is described by a k0 x n0 matrix of feedforward generator
// polynomials over GF(2). Encoding one input block of k0 bits produces one
// output block of n0 bits; the encoder state is the content of the k0
// shift registers, so the code is exactly a Mealy machine over packed
// input/output symbols (see package fsm).
//
// TerminatedCode converts a Code into a linear block code over h input
// blocks under one of three boundary conventions: direct truncation (stop
// the encoder cold), zero termination (append mu computed tail blocks that
// drive the state back to zero), and tail-biting (start in the state the
// encoder will end in, at no rate overhead).
package conv
