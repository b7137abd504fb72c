package sim

import (
	"fmt"
	"math/rand"

	"github.com/konvo/konvo/conv"
)

// StreamResult is the outcome of one stream-decoding run at one channel
// setting.
type StreamResult struct {
	// MessageBits is the number of information bits compared.
	MessageBits int
	// BitErrors is the number of decoded bits differing from the message.
	BitErrors int
	// Message, Transmitted, Received and Decoded are the full traces,
	// retained for artifact dumps. Received holds hard bits for the BSC
	// run and hard decisions of the soft values for the AWGN run.
	Message     []int
	Transmitted []int
	Received    []int
	Decoded     []int
}

// BER returns the measured bit error rate.
func (r *StreamResult) BER() float64 {
	if r.MessageBits == 0 {
		return 0
	}

	return float64(r.BitErrors) / float64(r.MessageBits)
}

// RunStreamBSC measures the streaming decoder over a binary symmetric
// channel: a random message is stream-encoded, transmitted, decoded with
// the given traceback, flushed with traceback dummy blocks, and compared
// after discarding the traceback warm-up.
func RunStreamBSC(code *conv.Code, traceback int, crossover float64, messageBits int, seed uint64) (*StreamResult, error) {
	k0 := code.NumInputBits()
	blocks := messageBits / k0
	if blocks < 1 {
		return nil, fmt.Errorf("sim: message of %d bits holds no %d-bit block", messageBits, k0)
	}

	message := randomBits(blocks*k0, seed)

	encoder := conv.NewStreamEncoder(code)
	decoder, err := conv.NewStreamDecoder(code,
		conv.WithTracebackLength(traceback),
		conv.WithInputType(conv.InputTypeHard),
	)
	if err != nil {
		return nil, err
	}

	channel, err := NewBSC(crossover, seed+1)
	if err != nil {
		return nil, err
	}

	// Flush blocks push the last traceback decisions out of the decoder.
	flush := make([]int, traceback*k0)
	transmitted, err := encoder.Encode(append(append([]int{}, message...), flush...))
	if err != nil {
		return nil, err
	}
	received := channel.Transmit(transmitted)

	decoded, err := decoder.Decode(received)
	if err != nil {
		return nil, err
	}
	decoded = decoded[traceback*k0:] // discard warm-up

	result := &StreamResult{
		MessageBits: len(message),
		Message:     message,
		Transmitted: transmitted,
		Received:    received,
		Decoded:     decoded,
	}
	for i, b := range message {
		if decoded[i] != b {
			result.BitErrors++
		}
	}

	return result, nil
}

// RunStreamAWGN is RunStreamBSC over BPSK/AWGN with soft-decision decoding
// at the given linear SNR.
func RunStreamAWGN(code *conv.Code, traceback int, snr float64, messageBits int, seed uint64) (*StreamResult, error) {
	k0 := code.NumInputBits()
	blocks := messageBits / k0
	if blocks < 1 {
		return nil, fmt.Errorf("sim: message of %d bits holds no %d-bit block", messageBits, k0)
	}

	message := randomBits(blocks*k0, seed)

	encoder := conv.NewStreamEncoder(code)
	decoder, err := conv.NewStreamDecoder(code,
		conv.WithTracebackLength(traceback),
		conv.WithInputType(conv.InputTypeSoft),
	)
	if err != nil {
		return nil, err
	}

	channel, err := NewAWGN(snr, seed+1)
	if err != nil {
		return nil, err
	}

	flush := make([]int, traceback*k0)
	transmitted, err := encoder.Encode(append(append([]int{}, message...), flush...))
	if err != nil {
		return nil, err
	}
	soft := channel.Transmit(transmitted)

	decoded, err := decoder.DecodeSoft(soft)
	if err != nil {
		return nil, err
	}
	decoded = decoded[traceback*k0:]

	hard := make([]int, len(soft))
	for i, v := range soft {
		if v < 0 {
			hard[i] = 1
		}
	}

	result := &StreamResult{
		MessageBits: len(message),
		Message:     message,
		Transmitted: transmitted,
		Received:    hard,
		Decoded:     decoded,
	}
	for i, b := range message {
		if decoded[i] != b {
			result.BitErrors++
		}
	}

	return result, nil
}

// randomBits draws a deterministic equiprobable bit sequence.
func randomBits(n int, seed uint64) []int {
	rng := rand.New(rand.NewSource(int64(seed)))
	bits := make([]int, n)
	for i := range bits {
		bits[i] = rng.Intn(2)
	}

	return bits
}
