//go:build cgo

package compress

import "github.com/valyala/gozstd"

// Compress compresses data as a Zstandard frame using the cgo bindings.
func (ZstdCodec) Compress(data []byte) ([]byte, error) {
	return gozstd.CompressLevel(nil, data, 3), nil
}

// Decompress decompresses a Zstandard frame using the cgo bindings.
func (ZstdCodec) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	return gozstd.Decompress(nil, data)
}
