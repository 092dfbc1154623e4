package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Cortexa-LLC/mcp/src/patentocr/converter"
	"github.com/Cortexa-LLC/mcp/src/patentocr/patent"
)

// Result is the outcome for one file. When Err is set, Record holds the
// all-Error sentinel row.
type Result struct {
	Path     string
	Category string
	Record   patent.Record
	Pages    int
	Source   converter.Source
	// Text is the raw acquired text; populated only when Processor.KeepText
	// is set.
	Text string
	Err  error
}

// Failed reports whether the file could not be processed.
func (r Result) Failed() bool { return r.Err != nil }

// Processor runs one file through acquisition, normalization and extraction.
type Processor struct {
	Text      converter.TextExtractor
	Extractor *patent.Extractor
	Mode      patent.Mode
	NFKC      bool
	// Timeout bounds one file; zero means no limit.
	Timeout time.Duration
	// Category forces a rule set; empty selects it from the file name.
	Category string
	KeepText bool
	Logger   *slog.Logger
}

// Process never returns an error: failures are folded into the Result so a
// bad file cannot stop the batch.
func (p *Processor) Process(ctx context.Context, path string) Result {
	category := p.Category
	if category == "" {
		category = patent.CategoryOf(path)
	}
	res := Result{Path: path, Category: category}

	if p.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.Timeout)
		defer cancel()
	}

	doc, err := p.Text.ExtractText(ctx, path)
	if err != nil {
		res.Err = err
		res.Record = patent.ErrorRecord(path)
		return res
	}

	res.Pages, res.Source = doc.Pages, doc.Source
	if p.KeepText {
		res.Text = doc.Text
	}
	text := patent.Normalize(doc.Text, p.Mode, p.NFKC)
	res.Record = p.Extractor.Extract(path, text, category)
	return res
}

// safeProcess converts a panic inside one task into an error Result.
func (p *Processor) safeProcess(ctx context.Context, path string) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			res = Result{
				Path:     path,
				Category: patent.CategoryOf(path),
				Record:   patent.ErrorRecord(path),
				Err:      fmt.Errorf("panic processing %s: %v", path, r),
			}
		}
	}()
	return p.Process(ctx, path)
}

func (p *Processor) logger() *slog.Logger {
	if p.Logger == nil {
		return slog.Default()
	}
	return p.Logger
}
