package compress

// ZstdCodec compresses artifacts with Zstandard: the best ratio of the
// supported codecs, used for archived parameter sweeps.
//
// The implementation is selected at build time: with cgo available the
// gozstd bindings are used, otherwise the pure-Go implementation. The two
// produce interchangeable frames.
type ZstdCodec struct{}

var _ Codec = ZstdCodec{}
