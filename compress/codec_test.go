package compress

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func testPayload() []byte {
	// Repetitive text compresses well, mirroring the trace artifacts the
	// codecs are used for.
	var buf bytes.Buffer
	for i := 0; i < 64; i++ {
		buf.WriteString("message 0110100111010010\n")
		buf.WriteString("decoded 0110100111010011\n")
	}

	return buf.Bytes()
}

func TestType_String(t *testing.T) {
	require.Equal(t, "none", TypeNone.String())
	require.Equal(t, "lz4", TypeLZ4.String())
	require.Equal(t, "s2", TypeS2.String())
	require.Equal(t, "zstd", TypeZstd.String())
	require.Equal(t, "Type(99)", Type(99).String())
}

func TestParseType(t *testing.T) {
	for _, typ := range []Type{TypeNone, TypeLZ4, TypeS2, TypeZstd} {
		parsed, err := ParseType(typ.String())
		require.NoError(t, err)
		require.Equal(t, typ, parsed)
	}

	parsed, err := ParseType("")
	require.NoError(t, err)
	require.Equal(t, TypeNone, parsed)

	_, err = ParseType("gzip")
	require.Error(t, err)
}

func TestForType(t *testing.T) {
	for _, typ := range []Type{TypeNone, TypeLZ4, TypeS2, TypeZstd} {
		codec, err := ForType(typ)
		require.NoError(t, err)
		require.NotNil(t, codec)
	}

	_, err := ForType(Type(99))
	require.Error(t, err)
}

func TestCodec_RoundTrip(t *testing.T) {
	payload := testPayload()

	for _, typ := range []Type{TypeNone, TypeLZ4, TypeS2, TypeZstd} {
		t.Run(typ.String(), func(t *testing.T) {
			codec, err := ForType(typ)
			require.NoError(t, err)

			compressed, err := codec.Compress(payload)
			require.NoError(t, err)
			if typ != TypeNone {
				require.Less(t, len(compressed), len(payload))
			}

			decompressed, err := codec.Decompress(compressed)
			require.NoError(t, err)
			require.Equal(t, payload, decompressed)
		})
	}
}

func TestCodec_RoundTripEmpty(t *testing.T) {
	for _, typ := range []Type{TypeNone, TypeLZ4, TypeS2, TypeZstd} {
		t.Run(typ.String(), func(t *testing.T) {
			codec, err := ForType(typ)
			require.NoError(t, err)

			compressed, err := codec.Compress(nil)
			require.NoError(t, err)
			decompressed, err := codec.Decompress(compressed)
			require.NoError(t, err)
			require.Empty(t, decompressed)
		})
	}
}

func TestNoOpCodec_Passthrough(t *testing.T) {
	payload := []byte{1, 2, 3}
	codec := NoOpCodec{}

	compressed, err := codec.Compress(payload)
	require.NoError(t, err)
	require.Equal(t, payload, compressed)

	decompressed, err := codec.Decompress(compressed)
	require.NoError(t, err)
	require.Equal(t, payload, decompressed)
}

func TestCodec_DecompressCorruptData(t *testing.T) {
	garbage := []byte{0xff, 0xfe, 0xfd, 0xfc, 0xfb, 0xfa}

	for _, typ := range []Type{TypeLZ4, TypeZstd} {
		t.Run(typ.String(), func(t *testing.T) {
			codec, err := ForType(typ)
			require.NoError(t, err)

			_, err = codec.Decompress(garbage)
			require.Error(t, err)
		})
	}
}
