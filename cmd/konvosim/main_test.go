package main

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/konvo/konvo/compress"
)

func TestRunBER_WritesResultsAndArtifact(t *testing.T) {
	dir := t.TempDir()
	output := filepath.Join(dir, "results.csv")
	artifact := filepath.Join(dir, "traces.zst")

	scenario := &Scenario{
		Name:          "smoke",
		Generators:    [][]uint64{{0o7, 0o5}},
		Traceback:     10,
		MessageBits:   60,
		Channel:       "bsc",
		Sweep:         []float64{0, 0.02},
		TraceArtifact: artifact,
		TraceCodec:    "zstd",
	}
	require.NoError(t, scenario.validate())
	require.NoError(t, runBER(scenario, output))

	f, err := os.Open(output)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3, "header plus one row per sweep point")
	require.Equal(t, []string{"scenario", "channel", "parameter", "message_bits", "bit_errors", "ber"}, rows[0])
	require.Equal(t, "smoke", rows[1][0])
	require.Equal(t, "bsc", rows[1][1])
	require.Equal(t, "0", rows[1][2])
	require.Equal(t, "60", rows[1][3])
	require.Equal(t, "0", rows[1][4], "noiseless sweep point has no errors")
	require.Equal(t, "0", rows[1][5])

	raw, err := os.ReadFile(artifact)
	require.NoError(t, err)
	codec, err := compress.ForType(compress.TypeZstd)
	require.NoError(t, err)
	trace, err := codec.Decompress(raw)
	require.NoError(t, err)

	text := string(trace)
	require.Contains(t, text, "# smoke:bsc:0\n")
	require.Contains(t, text, "# smoke:bsc:0.02\n")
	for _, line := range []string{"message ", "transmitted ", "received ", "decoded "} {
		require.Contains(t, text, line)
	}

	// Each trace line is a bit string of the expected length.
	for _, line := range strings.Split(strings.TrimSpace(text), "\n") {
		if !strings.HasPrefix(line, "message ") {
			continue
		}
		require.Len(t, strings.TrimPrefix(line, "message "), 60)
	}
}

func TestRunBER_Deterministic(t *testing.T) {
	dir := t.TempDir()

	scenario := &Scenario{
		Name:        "repeat",
		Generators:  [][]uint64{{0o7, 0o5}},
		MessageBits: 200,
		Channel:     "awgn",
		Sweep:       []float64{1.0},
		TraceCodec:  "none",
	}
	require.NoError(t, scenario.validate())

	first := filepath.Join(dir, "a.csv")
	second := filepath.Join(dir, "b.csv")
	require.NoError(t, runBER(scenario, first))
	require.NoError(t, runBER(scenario, second))

	a, err := os.ReadFile(first)
	require.NoError(t, err)
	b, err := os.ReadFile(second)
	require.NoError(t, err)
	require.Equal(t, a, b)
}
