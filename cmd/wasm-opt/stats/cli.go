package stats

import (
	"encoding/csv"
	"errors"
	"io"
	"os"

	"github.com/jszwec/csvutil"
	"github.com/spf13/cobra"

	wasmopt "github.com/pgavlin/wasm-opt"
	"github.com/pgavlin/wasm-opt/wasm"
)

func Command() *cobra.Command {
	command := &cobra.Command{
		Use:   "stats [path to module]",
		Short: "Dump WebAssembly module statistics",
		Long:  "Dump per-section sizes of a WebAssembly module in CSV format",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("expected exactly one argument")
			}

			m, err := wasmopt.NewModuleReader().ReadFile(args[0])
			if err != nil {
				return err
			}

			return dumpStats(os.Stdout, m)
		},
	}

	return command
}

func dumpStats(w io.Writer, m *wasm.Module) error {
	type row struct {
		Section string  `csv:"section"`
		Name    string  `csv:"name"`
		Size    int     `csv:"size"`
		Percent float64 `csv:"percent"`
	}

	csvWriter := csv.NewWriter(w)
	defer csvWriter.Flush()

	encoder := csvutil.NewEncoder(csvWriter)

	total := wasm.EncodedSize(m)
	for _, s := range m.Sections {
		r := row{
			Section: s.ID.String(),
			Name:    s.Name,
			Size:    len(s.Bytes),
			Percent: float64(len(s.Bytes)) * 100 / float64(total),
		}
		if err := encoder.Encode(r); err != nil {
			return err
		}
	}

	return nil
}
