package converter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/Cortexa-LLC/mcp/src/patentocr/config"
)

// ErrFileTooLarge is returned for inputs above Config.MaxFileSizeBytes.
var ErrFileTooLarge = errors.New("file too large")

// Source names how a document's text was obtained.
type Source string

const (
	SourceOCR       Source = "ocr"
	SourceTextLayer Source = "text-layer"
)

// Document is the text acquired from one PDF.
type Document struct {
	Path   string
	Text   string
	Pages  int
	Source Source
}

// TextExtractor is implemented by Converter; callers accept it so tests can
// inject canned text.
type TextExtractor interface {
	ExtractText(ctx context.Context, pdfPath string) (Document, error)
}

// Converter turns a scanned PDF into one text blob: rasterize every page,
// OCR each image, join the pages with a single space.
type Converter struct {
	raster Rasterizer
	engine Engine
	cfg    *config.Config
	logger *slog.Logger
}

// New builds a Converter for cfg. It fails only on configuration that can
// never work (unknown names, an engine not compiled in); missing binaries are
// reported per document.
func New(cfg *config.Config, logger *slog.Logger) (*Converter, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var raster Rasterizer
	switch cfg.Rasterizer {
	case config.RasterizerPdftoppm:
		raster = newPdftoppmRasterizer(cfg.PdftoppmPath)
	case config.RasterizerEmbedded:
		raster = embeddedRasterizer{}
	default:
		return nil, fmt.Errorf("unknown rasterizer %q", cfg.Rasterizer)
	}

	var engine Engine
	switch cfg.Engine {
	case config.EngineCLI:
		engine = newCLIEngine(cfg.TesseractPath, cfg.LanguageList(), cfg.DPI)
	case config.EngineLibrary:
		e, err := newLibraryEngine(cfg.LanguageList(), cfg.DPI)
		if err != nil {
			return nil, err
		}
		engine = e
	default:
		return nil, fmt.Errorf("unknown engine %q", cfg.Engine)
	}

	return NewWith(cfg, raster, engine, logger), nil
}

// NewWith builds a Converter from explicit parts.
func NewWith(cfg *config.Config, raster Rasterizer, engine Engine, logger *slog.Logger) *Converter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Converter{raster: raster, engine: engine, cfg: cfg, logger: logger}
}

// Preflight checks that the external tools the configuration relies on can
// be found, so a batch fails once up front instead of once per file.
func (c *Converter) Preflight() error {
	if r, ok := c.raster.(*pdftoppmRasterizer); ok {
		if _, err := resolveTool(r.bin); err != nil {
			return err
		}
	}
	if e, ok := c.engine.(*cliEngine); ok {
		if _, err := resolveTool(e.bin); err != nil {
			return err
		}
	}
	return nil
}

// Describe names the active rasterizer and engine.
func (c *Converter) Describe() (rasterizer, engine string) {
	return c.raster.Name(), c.engine.Name()
}

// ExtractText acquires the text of pdfPath. Any rasterizer or OCR failure
// fails the whole document; there is no partial-page recovery.
func (c *Converter) ExtractText(ctx context.Context, pdfPath string) (Document, error) {
	doc := Document{Path: pdfPath}

	info, err := os.Stat(pdfPath)
	if err != nil {
		return doc, fmt.Errorf("file not found: %s: %w", pdfPath, err)
	}
	if info.Size() > c.cfg.MaxFileSizeBytes {
		return doc, fmt.Errorf("%w: %d bytes (max %d)", ErrFileTooLarge, info.Size(), c.cfg.MaxFileSizeBytes)
	}

	if c.cfg.UseTextLayer {
		text, err := TextLayer(pdfPath)
		switch {
		case err != nil:
			c.logger.Debug("text layer unreadable, falling back to OCR", "file", pdfPath, "error", err)
		case strings.TrimSpace(text) != "":
			doc.Text, doc.Source = text, SourceTextLayer
			if n, err := PageCount(pdfPath); err == nil {
				doc.Pages = n
			}
			return doc, nil
		}
	}

	dir, err := os.MkdirTemp("", "patentocr-*")
	if err != nil {
		return doc, fmt.Errorf("create page dir: %w", err)
	}
	defer func() { _ = os.RemoveAll(dir) }()

	images, err := c.raster.Rasterize(ctx, pdfPath, c.cfg.DPI, dir)
	if err != nil {
		return doc, fmt.Errorf("rasterize: %w", err)
	}

	texts := make([]string, 0, len(images))
	for i, img := range images {
		if err := ctx.Err(); err != nil {
			return doc, err
		}
		text, err := c.engine.Recognize(ctx, img)
		_ = os.Remove(img)
		if err != nil {
			return doc, fmt.Errorf("ocr page %d: %w", i+1, err)
		}
		texts = append(texts, text)
	}

	doc.Text = strings.Join(texts, " ")
	doc.Pages = len(images)
	doc.Source = SourceOCR
	c.logger.Debug("ocr complete", "file", pdfPath, "pages", doc.Pages, "chars", len(doc.Text))
	return doc, nil
}
