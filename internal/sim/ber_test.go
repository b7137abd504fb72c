package sim

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/konvo/konvo/conv"
)

func testCode(t *testing.T) *conv.Code {
	t.Helper()

	code, err := conv.NewCode([][]uint64{{0b111, 0b101}})
	require.NoError(t, err)

	return code
}

func TestStreamResult_BER(t *testing.T) {
	r := &StreamResult{MessageBits: 200, BitErrors: 3}
	require.InDelta(t, 0.015, r.BER(), 1e-12)

	require.Equal(t, 0.0, (&StreamResult{}).BER())
}

func TestRunStreamBSC_NoiselessChannel(t *testing.T) {
	result, err := RunStreamBSC(testCode(t), 10, 0, 200, 99)
	require.NoError(t, err)

	require.Equal(t, 200, result.MessageBits)
	require.Equal(t, 0, result.BitErrors)
	require.Equal(t, 0.0, result.BER())
	require.Equal(t, result.Message, result.Decoded)
	require.Equal(t, result.Transmitted, result.Received)
	require.Len(t, result.Transmitted, 2*(200+10))
}

func TestRunStreamBSC_Deterministic(t *testing.T) {
	code := testCode(t)

	first, err := RunStreamBSC(code, 10, 0.05, 400, 123)
	require.NoError(t, err)
	second, err := RunStreamBSC(code, 10, 0.05, 400, 123)
	require.NoError(t, err)

	require.Equal(t, first.BitErrors, second.BitErrors)
	require.Equal(t, first.Decoded, second.Decoded)
}

func TestRunStreamBSC_MessageTooShort(t *testing.T) {
	code, err := conv.NewCode([][]uint64{{0b11, 0b10, 0b11}, {0b10, 0b01, 0b01}})
	require.NoError(t, err)

	_, err = RunStreamBSC(code, 5, 0.1, 1, 1)
	require.Error(t, err)
}

func TestRunStreamAWGN_HighSNR(t *testing.T) {
	result, err := RunStreamAWGN(testCode(t), 10, 1000, 200, 7)
	require.NoError(t, err)

	require.Equal(t, 200, result.MessageBits)
	require.Equal(t, 0, result.BitErrors)
	require.Equal(t, result.Message, result.Decoded)
	require.Equal(t, result.Transmitted, result.Received)
}

func TestRunStreamAWGN_InvalidSNR(t *testing.T) {
	_, err := RunStreamAWGN(testCode(t), 10, 0, 100, 7)
	require.Error(t, err)
}
