// Package pipeline selects patent PDFs and runs them through text acquisition
// and field extraction on a bounded pool of workers.
package pipeline

import (
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"
)

// PDFExt is the only extension SelectPDFs accepts. The match is
// case-sensitive.
const PDFExt = ".pdf"

var walkDir = filepath.WalkDir

// SelectPDFs walks root recursively and returns every file ending in PDFExt
// whose base name starts with one of prefixes. WalkDir visits entries in
// lexical order, so the result is deterministic for an unchanged tree.
//
// Only an unreadable root is an error. Entries below it that cannot be read
// are logged and skipped.
func SelectPDFs(root string, prefixes []string, logger *slog.Logger) ([]string, error) {
	if logger == nil {
		logger = slog.Default()
	}
	var files []string
	err := walkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			logger.Warn("Skipping unreadable entry", "path", path, "error", err)
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		name := d.Name()
		if !strings.HasSuffix(name, PDFExt) {
			return nil
		}
		for _, p := range prefixes {
			if strings.HasPrefix(name, p) {
				files = append(files, path)
				break
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", root, err)
	}
	return files, nil
}
