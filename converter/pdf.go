package converter

// pdf.go — embedded text layer via github.com/ledongthuc/pdf.
//
// Scanned patents usually carry no text layer; some re-published copies
// do, and reading it is far cheaper than OCR.

import (
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// PageCount returns the number of pages in the PDF at filePath.
func PageCount(filePath string) (int, error) {
	f, r, err := pdf.Open(filePath)
	if err != nil {
		return 0, fmt.Errorf("open pdf %s: %w", filePath, err)
	}
	defer func() { _ = f.Close() }()
	return r.NumPage(), nil
}

// TextLayer returns the embedded text of every page, one page per line
// group. It returns "" without error for image-only documents.
func TextLayer(filePath string) (string, error) {
	f, r, err := pdf.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("open pdf %s: %w", filePath, err)
	}
	defer func() { _ = f.Close() }()

	numPages := r.NumPage()
	fonts := make(map[string]*pdf.Font)
	var parts []string

	for i := 1; i <= numPages; i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}

		for _, name := range p.Fonts() {
			if _, ok := fonts[name]; !ok {
				f2 := p.Font(name)
				fonts[name] = &f2
			}
		}

		text, pageErr := p.GetPlainText(fonts)
		if pageErr != nil {
			return "", fmt.Errorf("read pdf page %d: %w", i, pageErr)
		}
		if trimmed := strings.TrimSpace(text); trimmed != "" {
			parts = append(parts, trimmed)
		}
	}

	return strings.Join(parts, "\n"), nil
}
