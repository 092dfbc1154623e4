// Package output writes extraction results as CSV, XLSX, SQLite rows and
// Markdown tables.
package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/Cortexa-LLC/mcp/src/patentocr/patent"
	"github.com/Cortexa-LLC/mcp/src/patentocr/pipeline"
)

// Rows returns the header followed by one row per result, in result order.
// Failed results carry the Error sentinel in every field.
func Rows(results []pipeline.Result) [][]string {
	rows := make([][]string, 0, len(results)+1)
	rows = append(rows, append([]string(nil), patent.Header...))
	for _, r := range results {
		rows = append(rows, r.Record.Row())
	}
	return rows
}

// EncodeCSV writes results as CSV to w. Rows end in CRLF.
func EncodeCSV(w io.Writer, results []pipeline.Result) error {
	cw := csv.NewWriter(w)
	cw.UseCRLF = true
	if err := cw.WriteAll(Rows(results)); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}

// WriteCSV creates or truncates path and writes results to it. The file is
// written only after every result is known.
func WriteCSV(path string, results []pipeline.Result) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
	}()
	return EncodeCSV(f, results)
}
