// konvosim runs reproducible channel-coding simulations: it sweeps a
// convolutional code across channel settings, measures stream-decoder bit
// error rates, and optionally dumps the full bit traces as a compressed
// artifact for offline inspection.
package main

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/konvo/konvo/compress"
	"github.com/konvo/konvo/internal/hash"
	"github.com/konvo/konvo/internal/sim"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "konvosim:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "konvosim",
		Short:         "Channel-coding simulations for konvo",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newBERCmd())

	return root
}

func newBERCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "ber <scenario.yaml>",
		Short: "Sweep a channel parameter and report stream-decoder BER",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			scenario, err := LoadScenario(args[0])
			if err != nil {
				return err
			}

			return runBER(scenario, output)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "write CSV results to a file instead of stdout")

	return cmd
}

func runBER(scenario *Scenario, output string) error {
	code, traceback, err := scenario.buildCode()
	if err != nil {
		return err
	}

	rows := [][]string{{"scenario", "channel", "parameter", "message_bits", "bit_errors", "ber"}}
	var trace bytes.Buffer

	for _, parameter := range scenario.Sweep {
		label := fmt.Sprintf("%s:%s:%v", scenario.Name, scenario.Channel, parameter)
		seed := hash.Seed(label)

		var result *sim.StreamResult
		switch scenario.Channel {
		case "bsc":
			result, err = sim.RunStreamBSC(code, traceback, parameter, scenario.MessageBits, seed)
		case "awgn":
			snr := math.Pow(10, parameter/10)
			result, err = sim.RunStreamAWGN(code, traceback, snr, scenario.MessageBits, seed)
		}
		if err != nil {
			return fmt.Errorf("sweep point %v: %w", parameter, err)
		}

		rows = append(rows, []string{
			scenario.Name,
			scenario.Channel,
			strconv.FormatFloat(parameter, 'g', -1, 64),
			strconv.Itoa(result.MessageBits),
			strconv.Itoa(result.BitErrors),
			strconv.FormatFloat(result.BER(), 'g', -1, 64),
		})

		if scenario.TraceArtifact != "" {
			appendTrace(&trace, label, result)
		}
	}

	if err := writeCSV(rows, output); err != nil {
		return err
	}
	if scenario.TraceArtifact != "" {
		if err := writeArtifact(scenario, trace.Bytes()); err != nil {
			return err
		}
	}

	return nil
}

func writeCSV(rows [][]string, output string) error {
	out := os.Stdout
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}

	w := csv.NewWriter(out)
	if err := w.WriteAll(rows); err != nil {
		return err
	}
	w.Flush()

	return w.Error()
}

// appendTrace serializes one sweep point's bit traces as labeled '0'/'1'
// lines. The format is plain text on purpose: decompressed artifacts diff
// cleanly between runs.
func appendTrace(buf *bytes.Buffer, label string, result *sim.StreamResult) {
	writeBits := func(name string, bits []int) {
		buf.WriteString(name)
		buf.WriteByte(' ')
		for _, b := range bits {
			buf.WriteByte('0' + byte(b))
		}
		buf.WriteByte('\n')
	}

	fmt.Fprintf(buf, "# %s\n", label)
	writeBits("message", result.Message)
	writeBits("transmitted", result.Transmitted)
	writeBits("received", result.Received)
	writeBits("decoded", result.Decoded)
}

func writeArtifact(scenario *Scenario, raw []byte) error {
	codecType, err := compress.ParseType(scenario.TraceCodec)
	if err != nil {
		return err
	}
	codec, err := compress.ForType(codecType)
	if err != nil {
		return err
	}

	compressed, err := codec.Compress(raw)
	if err != nil {
		return fmt.Errorf("compress trace artifact: %w", err)
	}

	return os.WriteFile(scenario.TraceArtifact, compressed, 0o644)
}
