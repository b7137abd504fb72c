// Package compress provides the compression codecs used for simulation
// trace artifacts.
//
// Channel simulations can dump every transmitted, received and decoded bit
// for offline inspection; at realistic stream lengths those traces dominate
// the output size, so the simulator compresses them with a codec chosen per
// run. Binary bit traces are highly repetitive and compress well with all
// of the supported algorithms.
//
// Supported codecs:
//   - None: passthrough, for debugging and baselines
//   - LZ4: fastest, moderate ratio
//   - S2: fast with a better ratio on long runs
//   - Zstd: best ratio, used for archived sweeps
//
// The Zstd codec uses the cgo gozstd implementation when cgo is available
// and falls back to the pure-Go implementation otherwise; both produce
// interchangeable frames.
package compress
