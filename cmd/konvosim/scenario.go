package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/konvo/konvo/compress"
	"github.com/konvo/konvo/conv"
)

// Scenario is the yaml description of one BER sweep.
type Scenario struct {
	// Name labels the run and seeds its noise, so identical scenarios
	// reproduce identical results.
	Name string `yaml:"name"`
	// Generators is the convolutional code's generator polynomial matrix,
	// one row per input bit (yaml integers; octal 0o171 style works).
	Generators [][]uint64 `yaml:"generators"`
	// Traceback is the stream decoder window in blocks; 0 means the
	// decoder default of five times the memory order.
	Traceback int `yaml:"traceback"`
	// MessageBits is the number of information bits per sweep point.
	MessageBits int `yaml:"message_bits"`
	// Channel selects the channel model: "bsc" (hard decisions) or "awgn"
	// (BPSK soft decisions).
	Channel string `yaml:"channel"`
	// Sweep lists the channel parameter per point: crossover probability
	// for bsc, Es/N0 in dB for awgn.
	Sweep []float64 `yaml:"sweep"`
	// TraceArtifact, when set, is the path of a compressed dump of the
	// message/transmitted/received/decoded traces of every sweep point.
	TraceArtifact string `yaml:"trace_artifact"`
	// TraceCodec selects the artifact compression: none, lz4, s2 or zstd
	// (default zstd).
	TraceCodec string `yaml:"trace_codec"`
}

// LoadScenario reads and validates a scenario file.
func LoadScenario(path string) (*Scenario, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}

	var s Scenario
	if err := yaml.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}
	if err := s.validate(); err != nil {
		return nil, err
	}

	return &s, nil
}

func (s *Scenario) validate() error {
	if s.Name == "" {
		return fmt.Errorf("scenario: name is required")
	}
	if len(s.Generators) == 0 {
		return fmt.Errorf("scenario: generators are required")
	}
	if s.MessageBits <= 0 {
		return fmt.Errorf("scenario: message_bits must be positive")
	}
	if s.Channel != "bsc" && s.Channel != "awgn" {
		return fmt.Errorf("scenario: channel %q is not supported (bsc, awgn)", s.Channel)
	}
	if len(s.Sweep) == 0 {
		return fmt.Errorf("scenario: sweep must list at least one channel setting")
	}
	if s.TraceCodec == "" {
		s.TraceCodec = "zstd"
	}
	if _, err := compress.ParseType(s.TraceCodec); err != nil {
		return fmt.Errorf("scenario: %w", err)
	}

	return nil
}

// buildCode constructs the scenario's convolutional code and resolves the
// traceback default.
func (s *Scenario) buildCode() (*conv.Code, int, error) {
	code, err := conv.NewCode(s.Generators)
	if err != nil {
		return nil, 0, err
	}
	traceback := s.Traceback
	if traceback <= 0 {
		traceback = 5 * code.MemoryOrder()
		if traceback < 1 {
			traceback = 1
		}
	}

	return code, traceback, nil
}
