package compress

import "github.com/klauspost/compress/s2"

// S2Codec compresses artifacts with S2, a Snappy-compatible format that
// does particularly well on the long zero runs of low-error bit traces.
type S2Codec struct{}

var _ Codec = S2Codec{}

// Compress compresses data in S2 format.
func (S2Codec) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	return s2.Encode(nil, data), nil
}

// Decompress decompresses S2-framed data.
func (S2Codec) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	return s2.Decode(nil, data)
}
