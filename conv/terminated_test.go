package conv

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/konvo/konvo/gf2"
)

func TestTerminatedCode_NewTerminatedCode_Parameters(t *testing.T) {
	code := code75(t)

	dt, err := NewTerminatedCode(code, 6, DirectTruncation)
	require.NoError(t, err)
	require.Equal(t, 6, dt.Dimension())
	require.Equal(t, 12, dt.Length())
	require.Equal(t, 6, dt.Redundancy())
	require.Equal(t, 6, dt.NumBlocks())
	require.Equal(t, DirectTruncation, dt.Mode())
	require.Same(t, code, dt.Code())

	zt, err := NewTerminatedCode(code, 6, ZeroTermination)
	require.NoError(t, err)
	require.Equal(t, 6, zt.Dimension())
	require.Equal(t, 16, zt.Length())
	require.Equal(t, 10, zt.Redundancy())

	tb, err := NewTerminatedCode(code, 6, TailBiting)
	require.NoError(t, err)
	require.Equal(t, 6, tb.Dimension())
	require.Equal(t, 12, tb.Length())
}

func TestTerminatedCode_NewTerminatedCode_Validation(t *testing.T) {
	code := code75(t)

	_, err := NewTerminatedCode(code, 0, DirectTruncation)
	require.Error(t, err)

	_, err = NewTerminatedCode(code, 4, TerminationMode(9))
	require.Error(t, err)
}

func TestTerminatedCode_Encode_Validation(t *testing.T) {
	tc, err := NewTerminatedCode(code75(t), 4, DirectTruncation)
	require.NoError(t, err)

	_, err = tc.Encode([]int{1, 0})
	require.Error(t, err)

	_, err = tc.EncodeMapping([]int{1, 0, 2, 0})
	require.Error(t, err, "non-bit message value")
}

// Hand-computed tail-biting code over two blocks of the (7,5) encoder: the
// impulse response wraps around the horizon.
func TestTerminatedCode_TailBiting_KnownSmallCode(t *testing.T) {
	tb, err := NewTerminatedCode(code75(t), 2, TailBiting)
	require.NoError(t, err)

	want := gf2.FromInts([][]int{
		{0, 0, 1, 0},
		{1, 0, 0, 0},
	})
	require.Equal(t, want, tb.GeneratorMatrix())

	cw, err := tb.EncodeMapping([]int{1, 0})
	require.NoError(t, err)
	require.Equal(t, []int{0, 0, 1, 0}, cw)

	cw, err = tb.Encode([]int{1, 1})
	require.NoError(t, err)
	require.Equal(t, []int{1, 0, 1, 0}, cw)
}

// The generator matrix route and the direct encoder run must produce the
// same codeword under every termination mode; encoding is linear.
func TestTerminatedCode_Encode_MatchesEncodeMapping(t *testing.T) {
	code2, err := NewCode([][]uint64{{0b11, 0b10, 0b11}, {0b10, 0b01, 0b01}})
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(3))
	for _, code := range []*Code{code75(t), code2} {
		for _, mode := range []TerminationMode{DirectTruncation, ZeroTermination, TailBiting} {
			tc, err := NewTerminatedCode(code, 5, mode)
			require.NoError(t, err)

			for trial := 0; trial < 10; trial++ {
				message := make([]int, tc.Dimension())
				for i := range message {
					message[i] = rng.Intn(2)
				}

				direct, err := tc.EncodeMapping(message)
				require.NoError(t, err)
				viaMatrix, err := tc.Encode(message)
				require.NoError(t, err)
				require.Equal(t, direct, viaMatrix, "mode %s message %v", mode, message)
				require.Len(t, direct, tc.Length())
			}
		}
	}
}

// Zero termination drives the encoder back to the zero state; tail-biting
// closes the trajectory on itself.
func TestTerminatedCode_BoundaryStates(t *testing.T) {
	code := code75(t)
	messages := [][]int{
		{1, 1, 0, 1, 0, 1},
		{0, 1, 1, 1, 0, 0},
		{1, 0, 0, 0, 1, 1},
	}

	zt, err := NewTerminatedCode(code, 6, ZeroTermination)
	require.NoError(t, err)
	tb, err := NewTerminatedCode(code, 6, TailBiting)
	require.NoError(t, err)

	for _, message := range messages {
		symbols, err := zt.preProcessInput(message)
		require.NoError(t, err)
		require.Len(t, symbols, 6+code.MemoryOrder())
		_, finalState, err := code.FiniteStateMachine().Process(symbols, 0)
		require.NoError(t, err)
		require.Equal(t, 0, finalState, "zero termination message %v", message)

		symbols, err = tb.preProcessInput(message)
		require.NoError(t, err)
		start, err := tb.initialState(symbols)
		require.NoError(t, err)
		_, finalState, err = code.FiniteStateMachine().Process(symbols, start)
		require.NoError(t, err)
		require.Equal(t, start, finalState, "tail-biting message %v", message)
	}
}

// Direct truncation is the prefix of zero termination: both run the same
// message from the zero state, zero termination just keeps encoding the tail.
func TestTerminatedCode_DirectTruncation_PrefixOfZeroTermination(t *testing.T) {
	code := code75(t)
	dt, err := NewTerminatedCode(code, 6, DirectTruncation)
	require.NoError(t, err)
	zt, err := NewTerminatedCode(code, 6, ZeroTermination)
	require.NoError(t, err)

	message := []int{1, 0, 0, 1, 1, 0}
	short, err := dt.Encode(message)
	require.NoError(t, err)
	long, err := zt.Encode(message)
	require.NoError(t, err)
	require.Equal(t, short, long[:dt.Length()])
}

func TestTerminatedCode_DecodeViterbi_NoiselessRoundTrip(t *testing.T) {
	code := code75(t)
	cases := []struct {
		mode    TerminationMode
		message []int
	}{
		{DirectTruncation, []int{1, 1, 0, 1, 0, 1}},
		{ZeroTermination, []int{1, 0, 1, 1, 1, 0}},
		{TailBiting, []int{1, 1, 0, 1, 0, 0}},
	}

	for _, tc := range cases {
		terminated, err := NewTerminatedCode(code, 6, tc.mode)
		require.NoError(t, err)

		codeword, err := terminated.Encode(tc.message)
		require.NoError(t, err)
		decoded, err := terminated.DecodeViterbi(codeword)
		require.NoError(t, err)
		require.Equal(t, tc.message, decoded, "mode %s", tc.mode)
	}
}

func TestTerminatedCode_DecodeViterbi_CorrectsBitErrors(t *testing.T) {
	zt, err := NewTerminatedCode(code75(t), 6, ZeroTermination)
	require.NoError(t, err)

	message := []int{1, 0, 1, 1, 0, 1}
	codeword, err := zt.Encode(message)
	require.NoError(t, err)

	// Two errors stay within half the free distance of the (7,5) code.
	for _, flips := range [][]int{{3}, {2, 11}} {
		received := append([]int{}, codeword...)
		for _, pos := range flips {
			received[pos] ^= 1
		}
		decoded, err := zt.DecodeViterbi(received)
		require.NoError(t, err)
		require.Equal(t, message, decoded, "flips %v", flips)
	}
}

func TestTerminatedCode_DecodeViterbi_Validation(t *testing.T) {
	zt, err := NewTerminatedCode(code75(t), 4, ZeroTermination)
	require.NoError(t, err)

	_, err = zt.DecodeViterbi([]int{1, 0, 1})
	require.Error(t, err, "received length mismatch")
}

func TestTerminatedCode_DecodeBCJR_NoiselessRoundTrip(t *testing.T) {
	code := code75(t)
	cases := []struct {
		mode    TerminationMode
		message []int
	}{
		{DirectTruncation, []int{0, 1, 1, 0, 1, 0}},
		{ZeroTermination, []int{1, 0, 1, 1, 1, 0}},
		{TailBiting, []int{1, 1, 0, 1, 0, 0}},
	}

	for _, tc := range cases {
		terminated, err := NewTerminatedCode(code, 6, tc.mode)
		require.NoError(t, err)

		codeword, err := terminated.Encode(tc.message)
		require.NoError(t, err)
		soft := make([]float64, len(codeword))
		for i, b := range codeword {
			soft[i] = 1 - 2*float64(b)
		}

		decoded, err := terminated.DecodeBCJR(soft, 4.0)
		require.NoError(t, err)
		require.Equal(t, tc.message, decoded, "mode %s", tc.mode)
	}
}

func TestTerminatedCode_DecodeBCJR_Validation(t *testing.T) {
	tb, err := NewTerminatedCode(code75(t), 4, TailBiting)
	require.NoError(t, err)

	_, err = tb.DecodeBCJR([]float64{1, -1}, 1.0)
	require.Error(t, err, "received length mismatch")
}

func TestTerminationMode_String(t *testing.T) {
	require.Equal(t, "direct-truncation", DirectTruncation.String())
	require.Equal(t, "zero-termination", ZeroTermination.String())
	require.Equal(t, "tail-biting", TailBiting.String())
	require.Equal(t, "TerminationMode(9)", TerminationMode(9).String())
}
