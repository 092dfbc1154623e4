package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
)

// Identity constants shared by the CLI and the MCP server.
const (
	appName    = "patentocr"
	appVersion = "0.1.0"
)

// Defaults of the batch command.
const (
	defaultDataDir = "data"
	defaultOutCSV  = "optimized_patent_data.csv"
)

// Flag names shared between definitions and lookups.
const (
	flagConfig     = "config"
	flagRules      = "rules"
	flagDPI        = "dpi"
	flagWorkers    = "workers"
	flagEngine     = "engine"
	flagRasterizer = "rasterizer"
	flagNormalize  = "normalize"
	flagTextLayer  = "text-layer"
	flagTimeout    = "timeout"
	flagQuiet      = "quiet"

	flagDir         = "dir"
	flagOut         = "out"
	flagXLSX        = "xlsx"
	flagSQLite      = "sqlite"
	flagCSV         = "csv"
	flagCategory    = "category"
	flagDescription = "description"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:    appName,
		Usage:   "OCR scanned US patent PDFs and extract bibliographic fields",
		Version: appVersion,
		Commands: []*cli.Command{
			{
				Name:  "extract",
				Usage: "Process every patent PDF under a directory into a CSV file",
				Flags: append(commonFlags(),
					&cli.StringFlag{Name: flagDir, Value: defaultDataDir, Usage: "input directory, scanned recursively"},
					&cli.StringFlag{Name: flagOut, Value: defaultOutCSV, Usage: "CSV output path"},
					&cli.StringFlag{Name: flagXLSX, Usage: "also write an XLSX workbook"},
					&cli.StringFlag{Name: flagSQLite, Usage: "also record the run in a SQLite database"},
				),
				Action: extractAction,
			},
			{
				Name:      "inspect",
				Usage:     "Extract fields from a single PDF and print them",
				ArgsUsage: "FILE",
				Flags: append(commonFlags(),
					&cli.StringFlag{Name: flagCategory, Usage: "rule category to apply instead of the file-name prefix"},
					&cli.StringFlag{Name: flagCSV, Usage: "write the record to a CSV file"},
					&cli.StringFlag{Name: flagXLSX, Usage: "write the record to an XLSX workbook"},
					&cli.BoolFlag{Name: flagDescription, Usage: "include the full acquired text"},
				),
				Action: inspectAction,
			},
			{
				Name:   "serve",
				Usage:  "Run an MCP server on stdio",
				Flags:  commonFlags(),
				Action: serveAction,
			},
			{
				Name:   "rules",
				Usage:  "Print the active extraction rules",
				Flags:  []cli.Flag{&cli.StringFlag{Name: flagRules, Usage: "YAML rule file overriding built-in rules"}},
				Action: rulesAction,
			},
		},
	}
}

// commonFlags returns fresh flag values; urfave/cli flags must not be shared
// between commands.
func commonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: flagConfig, Usage: "YAML config file"},
		&cli.StringFlag{Name: flagRules, Usage: "YAML rule file overriding built-in rules"},
		&cli.IntFlag{Name: flagDPI, Usage: "rasterization resolution"},
		&cli.IntFlag{Name: flagWorkers, Usage: "concurrent files (default: number of CPUs)"},
		&cli.StringFlag{Name: flagEngine, Usage: "OCR engine: cli or library"},
		&cli.StringFlag{Name: flagRasterizer, Usage: "page rasterizer: pdftoppm or embedded"},
		&cli.StringFlag{Name: flagNormalize, Usage: "whitespace normalization: collapse or lines"},
		&cli.BoolFlag{Name: flagTextLayer, Usage: "use the PDF text layer when present instead of OCR"},
		&cli.DurationFlag{Name: flagTimeout, Usage: "per-file processing limit (0 = none)"},
		&cli.BoolFlag{Name: flagQuiet, Aliases: []string{"q"}, Usage: "log errors only"},
	}
}
