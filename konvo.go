// Package konvo is a trellis-based channel-coding engine: convolutional
// codes modeled as finite-state machines, dynamic-programming decoders over
// their trellises, and termination strategies that turn a convolutional
// encoder into an equivalent linear block code.
//
// # Core Packages
//
//   - fsm: finite-state (Mealy) machines and the three trellis decoders:
//     block Viterbi, bounded-memory streaming Viterbi, and forward-backward
//     (BCJR) posterior decoding.
//   - conv: convolutional codes (shift-register encoders, state-space and
//     machine views), stream encoding/decoding, and the direct-truncation,
//     zero-termination and tail-biting block-code constructions.
//   - block: generator-matrix linear block codes.
//   - gf2: exact matrix arithmetic over GF(2), including matrix powers and
//     the generalized inverse the termination strategies solve with.
//   - bitops: lossless integer/bit-list and bit/symbol conversions.
//   - compress: codecs for simulation trace artifacts.
//
// # Basic Usage
//
// Stream-encode and decode a rate-1/2 code over a noisy channel:
//
//	code, _ := konvo.NewConvolutionalCode([][]uint64{{0o7, 0o5}})
//	encoder := conv.NewStreamEncoder(code)
//	decoder, _ := konvo.NewStreamDecoder(code) // hard input, traceback 5*mu
//
//	tx, _ := encoder.Encode(messageBits)
//	rx := transmit(tx) // caller's channel
//	decoded, _ := decoder.Decode(rx)
//	// decoded lags messageBits by decoder.TracebackLength() blocks.
//
// Build the tail-biting block code over 12 message blocks:
//
//	tb, _ := konvo.NewTailBitingCode(code, 12)
//	codeword, _ := tb.Encode(messageBits)
//
// This package provides convenience wrappers around the conv package for
// the common cases; use the subpackages directly for full control.
package konvo

import "github.com/konvo/konvo/conv"

// NewConvolutionalCode builds a feedforward convolutional code from its
// generator polynomial matrix (one row per input bit, LSB = D^0).
func NewConvolutionalCode(generators [][]uint64) (*conv.Code, error) {
	return conv.NewCode(generators)
}

// NewStreamDecoder creates a hard-decision streaming Viterbi decoder for
// code with the default traceback of five times the memory order.
func NewStreamDecoder(code *conv.Code) (*conv.StreamDecoder, error) {
	return conv.NewStreamDecoder(code)
}

// NewDirectTruncationCode builds the block code of running code over
// numBlocks input blocks and stopping without flushing.
func NewDirectTruncationCode(code *conv.Code, numBlocks int) (*conv.TerminatedCode, error) {
	return conv.NewTerminatedCode(code, numBlocks, conv.DirectTruncation)
}

// NewZeroTerminationCode builds the block code of running code over
// numBlocks input blocks followed by the computed zero-driving tail.
func NewZeroTerminationCode(code *conv.Code, numBlocks int) (*conv.TerminatedCode, error) {
	return conv.NewTerminatedCode(code, numBlocks, conv.ZeroTermination)
}

// NewTailBitingCode builds the tail-biting block code of code over
// numBlocks input blocks.
func NewTailBitingCode(code *conv.Code, numBlocks int) (*conv.TerminatedCode, error) {
	return conv.NewTerminatedCode(code, numBlocks, conv.TailBiting)
}
