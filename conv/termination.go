package conv

import (
	"fmt"

	"github.com/konvo/konvo/gf2"
)

// TerminationMode is the boundary convention used to turn a convolutional
// encoder into a block code over a fixed number of input blocks.
type TerminationMode int

const (
	// DirectTruncation stops the encoder after the last input block
	// without flushing its memory. No rate overhead; the trailing message
	// bits get weaker protection.
	DirectTruncation TerminationMode = iota
	// ZeroTermination appends mu computed tail blocks that drive the
	// encoder state back to zero. The tail is a fixed GF(2)-linear
	// function of the message.
	ZeroTermination
	// TailBiting forces the initial state to equal the final state, so the
	// trellis wraps with no rate overhead.
	TailBiting
)

// String returns the textual name of the termination mode.
func (m TerminationMode) String() string {
	switch m {
	case DirectTruncation:
		return "direct-truncation"
	case ZeroTermination:
		return "zero-termination"
	case TailBiting:
		return "tail-biting"
	default:
		return fmt.Sprintf("TerminationMode(%d)", int(m))
	}
}

func (m TerminationMode) valid() bool {
	return m == DirectTruncation || m == ZeroTermination || m == TailBiting
}

// tailProjector precomputes the linear map from message bits to the mu
// zero-driving tail blocks of zero termination.
//
// With the row-vector state space s' = s*A + x*B, the state after the
// message and tail is
//
//	s = message*M + tail*T0,  M = [B*A^(mu+h-1); ...; B*A^mu],  T0 = [B*A^(mu-1); ...; B]
//
// so the tail zeroing the state is message*M*pinv(T0). The system is always
// consistent: everything the message can leave in the state lies in the
// space reachable within mu steps, which is exactly the row space of T0.
func tailProjector(code *Code, numBlocks int) (gf2.Matrix, error) {
	a, b, _, _ := code.StateSpace()
	mu, h := code.memoryOrder, numBlocks

	stack := func(hi, lo int) (gf2.Matrix, error) {
		rows := gf2.Matrix{}
		for j := hi; j >= lo; j-- {
			an, err := gf2.Pow(a, j)
			if err != nil {
				return nil, err
			}
			ban, err := gf2.Mul(b, an)
			if err != nil {
				return nil, err
			}
			rows = append(rows, ban...)
		}

		return rows, nil
	}

	fromMessage, err := stack(mu+h-1, mu)
	if err != nil {
		return nil, err
	}
	fromTail, err := stack(mu-1, 0)
	if err != nil {
		return nil, err
	}

	return gf2.Mul(fromMessage, gf2.PseudoInverse(fromTail))
}

// zsMultiplier precomputes the tail-biting corrector: the initial state
// whose trajectory closes on itself satisfies s0*(A^h + I) = zs, where zs
// is the final state of a zero-state run over the same input, so
// s0 = zs*pinv(A^h + I).
func zsMultiplier(code *Code, numBlocks int) (gf2.Matrix, error) {
	a, _, _, _ := code.StateSpace()

	ah, err := gf2.Pow(a, numBlocks)
	if err != nil {
		return nil, err
	}
	sum, err := gf2.Add(ah, gf2.Eye(code.constraint))
	if err != nil {
		return nil, err
	}

	return gf2.PseudoInverse(sum), nil
}
