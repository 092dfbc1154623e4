package converter

// rasterize.go — PDF page → image file.
//
// pdftoppm renders every page at the requested DPI. The embedded rasterizer
// skips rendering and pulls the scan image each page already carries.

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// ErrNoPages is returned when a document yields no page images.
var ErrNoPages = errors.New("no pages rendered")

// Rasterizer writes one image per PDF page into dir and returns their paths
// in page order.
type Rasterizer interface {
	Name() string
	Rasterize(ctx context.Context, pdfPath string, dpi int, dir string) ([]string, error)
}

// pdftoppmRasterizer runs `pdftoppm -r <dpi> -png <pdf> <dir>/page`.
type pdftoppmRasterizer struct {
	bin string
}

func newPdftoppmRasterizer(bin string) *pdftoppmRasterizer {
	return &pdftoppmRasterizer{bin: bin}
}

func (r *pdftoppmRasterizer) Name() string { return "pdftoppm" }

func (r *pdftoppmRasterizer) Rasterize(ctx context.Context, pdfPath string, dpi int, dir string) ([]string, error) {
	bin, err := resolveTool(r.bin)
	if err != nil {
		return nil, err
	}

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, bin, "-r", strconv.Itoa(dpi), "-png", pdfPath, filepath.Join(dir, "page"))
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("pdftoppm %s: %w: %s", filepath.Base(pdfPath), err, msg)
		}
		return nil, fmt.Errorf("pdftoppm %s: %w", filepath.Base(pdfPath), err)
	}

	// pdftoppm zero-pads page numbers to a common width, so lexical order is
	// page order.
	pages, err := filepath.Glob(filepath.Join(dir, "page-*.png"))
	if err != nil {
		return nil, fmt.Errorf("list rendered pages: %w", err)
	}
	if len(pages) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoPages, pdfPath)
	}
	sort.Strings(pages)
	return pages, nil
}

// embeddedRasterizer extracts the largest embedded image on each page.
type embeddedRasterizer struct{}

func (embeddedRasterizer) Name() string { return "embedded" }

func (embeddedRasterizer) Rasterize(ctx context.Context, pdfPath string, _ int, dir string) ([]string, error) {
	n, err := api.PageCountFile(pdfPath)
	if err != nil {
		return nil, fmt.Errorf("page count %s: %w", filepath.Base(pdfPath), err)
	}
	if n == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoPages, pdfPath)
	}

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	pages := make([]string, 0, n)
	for p := 1; p <= n; p++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		pageDir := filepath.Join(dir, fmt.Sprintf("page-%05d", p))
		if err := os.MkdirAll(pageDir, 0o700); err != nil {
			return nil, fmt.Errorf("create page dir: %w", err)
		}
		if err := api.ExtractImagesFile(pdfPath, pageDir, []string{strconv.Itoa(p)}, conf); err != nil {
			return nil, fmt.Errorf("extract images from page %d: %w", p, err)
		}
		img, err := largestFile(pageDir)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", p, err)
		}
		pages = append(pages, img)
	}
	return pages, nil
}

// largestFile returns the biggest regular file in dir; on a scanned page
// that is the page scan rather than a stamp or logo.
func largestFile(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", dir, err)
	}
	var best string
	var bestSize int64 = -1
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if info.Size() > bestSize {
			best, bestSize = filepath.Join(dir, e.Name()), info.Size()
		}
	}
	if best == "" {
		return "", errors.New("no embedded image")
	}
	return best, nil
}
