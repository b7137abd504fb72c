package compress

// NoOpCodec passes data through without compression. Useful for baselines
// and for debugging artifact contents with ordinary text tools.
//
// Both directions return the input slice itself, so callers must not
// modify the input while the result is in use.
type NoOpCodec struct{}

var _ Codec = NoOpCodec{}

// Compress returns data unchanged.
func (NoOpCodec) Compress(data []byte) ([]byte, error) {
	return data, nil
}

// Decompress returns data unchanged.
func (NoOpCodec) Decompress(data []byte) ([]byte, error) {
	return data, nil
}
