package compress

import "fmt"

// Type identifies a trace compression algorithm.
type Type uint8

const (
	// TypeNone passes data through unmodified.
	TypeNone Type = iota + 1
	// TypeLZ4 selects LZ4 block compression.
	TypeLZ4
	// TypeS2 selects S2 (Snappy-compatible) compression.
	TypeS2
	// TypeZstd selects Zstandard compression.
	TypeZstd
)

// String returns the codec name as used in CLI flags and scenario files.
func (t Type) String() string {
	switch t {
	case TypeNone:
		return "none"
	case TypeLZ4:
		return "lz4"
	case TypeS2:
		return "s2"
	case TypeZstd:
		return "zstd"
	default:
		return fmt.Sprintf("Type(%d)", uint8(t))
	}
}

// ParseType parses a codec name as accepted by String.
func ParseType(name string) (Type, error) {
	switch name {
	case "none", "":
		return TypeNone, nil
	case "lz4":
		return TypeLZ4, nil
	case "s2":
		return TypeS2, nil
	case "zstd":
		return TypeZstd, nil
	default:
		return 0, fmt.Errorf("compress: unknown codec %q", name)
	}
}

// Compressor compresses a complete artifact payload.
//
// The returned slice is newly allocated and owned by the caller (except for
// the passthrough codec, which returns the input slice); the input is never
// modified.
type Compressor interface {
	Compress(data []byte) ([]byte, error)
}

// Decompressor reverses a Compressor of the same Type. It validates the
// input framing and fails on corrupted or mismatched data.
type Decompressor interface {
	Decompress(data []byte) ([]byte, error)
}

// Codec combines both directions.
type Codec interface {
	Compressor
	Decompressor
}

var builtinCodecs = map[Type]Codec{
	TypeNone: NoOpCodec{},
	TypeLZ4:  LZ4Codec{},
	TypeS2:   S2Codec{},
	TypeZstd: ZstdCodec{},
}

// ForType returns the built-in codec for the given type.
func ForType(t Type) (Codec, error) {
	codec, ok := builtinCodecs[t]
	if !ok {
		return nil, fmt.Errorf("compress: unsupported codec type: %s", t)
	}

	return codec, nil
}
