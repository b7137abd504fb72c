// Package fsm implements finite-state (Mealy) machines and the trellis
// decoding algorithms that operate on them.
//
// A Machine is defined by a set of states S, an input alphabet X, an output
// alphabet Y, and a transition function T: S x X -> S x Y. All three sets
// are dense integer ranges [0, N), so the transition function is stored as
// two S x X tables: next states and outputs.
//
// # Decoding
//
// Three dynamic-programming decoders run over the time-unrolled trellis of
// a machine, all driven by a caller-supplied metric function that scores a
// machine output symbol against one observed channel value:
//
//   - Viterbi: block maximum-likelihood sequence decoding over a fully
//     materialized observation. The metric is an additive cost (lower is
//     better, e.g. Hamming distance or negative log-likelihood).
//   - StreamDecoder: a real-time Viterbi variant with a fixed traceback
//     window. Memory is constant in the stream length, so arbitrarily long
//     streams decode with bounded latency.
//   - ForwardBackward: the BCJR algorithm, computing exact posterior
//     probabilities per input symbol. The metric is interpreted as a
//     log-likelihood (higher is better) and all recursions run in the log
//     domain.
//
// # Thread Safety
//
// A Machine is immutable after construction and safe to share between any
// number of concurrent decoders. A StreamDecoder mutates its path memory in
// place and must not be used from more than one goroutine; create one
// decoder per stream.
package fsm
