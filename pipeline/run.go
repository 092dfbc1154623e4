package pipeline

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Cortexa-LLC/mcp/src/patentocr/patent"
)

// Run processes files on at most workers goroutines. Results come back in
// submission order regardless of completion order, one per input file.
func (p *Processor) Run(ctx context.Context, files []string, workers int) []Result {
	if workers < 1 {
		workers = 1
	}
	log := p.logger()
	log.Info("Processing files", "count", len(files), "workers", workers)
	start := time.Now()

	results := make([]Result, len(files))
	var g errgroup.Group
	g.SetLimit(workers)

	for i, path := range files {
		g.Go(func() error {
			fileStart := time.Now()
			res := p.safeProcess(ctx, path)
			if res.Failed() {
				log.Error("File failed", "file", path, "error", res.Err)
			} else {
				log.Info("File processed", "file", path, "category", res.Category,
					"pages", res.Pages, "duration", time.Since(fileStart).String())
			}
			results[i] = res
			return nil
		})
	}
	_ = g.Wait()

	s := Summarize(results)
	log.Info("All files finished", "count", s.Total, "failed", s.Failed, "duration", time.Since(start).String())
	return results
}

// Summary counts outcomes across a run.
type Summary struct {
	Total  int
	Failed int
	// Found counts, per field, the records where the field was extracted.
	Found map[string]int
}

// Summarize tallies results.
func Summarize(results []Result) Summary {
	s := Summary{Total: len(results), Found: make(map[string]int, len(patent.Fields))}
	for _, r := range results {
		if r.Failed() {
			s.Failed++
			continue
		}
		for _, f := range patent.Fields {
			if r.Record.Get(f) != patent.NotFound {
				s.Found[f]++
			}
		}
	}
	return s
}
