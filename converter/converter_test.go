package converter

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Cortexa-LLC/mcp/src/patentocr/config"
)

func newTestConverter(r Rasterizer, e Engine) *Converter {
	return NewWith(config.Default(), r, e, nil)
}

// ---- ExtractText -----------------------------------------------------------

func TestConverter_ExtractText_JoinsPagesInOrder(t *testing.T) {
	pdfPath := writeTempFile(t, "02488002.pdf", "%PDF-stub")
	r := &fakeRasterizer{pages: []string{"UNITED STATES\nPATENT OFFICE", "Patented Jan. 5, 1912", "claims"}}

	doc, err := newTestConverter(r, fakeEngine{}).ExtractText(context.Background(), pdfPath)
	assertNoErr(t, err)

	if want := "UNITED STATES\nPATENT OFFICE Patented Jan. 5, 1912 claims"; doc.Text != want {
		t.Errorf("Text = %q, want %q", doc.Text, want)
	}
	if doc.Pages != 3 || doc.Source != SourceOCR {
		t.Errorf("Pages/Source = %d/%s, want 3/%s", doc.Pages, doc.Source, SourceOCR)
	}
	for _, p := range r.written {
		if _, err := os.Stat(p); !os.IsNotExist(err) {
			t.Errorf("page image %s should be removed after OCR", p)
		}
	}
	if len(r.written) > 0 {
		if _, err := os.Stat(filepath.Dir(r.written[0])); !os.IsNotExist(err) {
			t.Error("page directory should be removed")
		}
	}
}

func TestConverter_ExtractText_RasterizeError(t *testing.T) {
	pdfPath := writeTempFile(t, "D0000001.pdf", "%PDF-stub")
	r := &fakeRasterizer{err: errors.New("corrupt xref")}

	_, err := newTestConverter(r, fakeEngine{}).ExtractText(context.Background(), pdfPath)
	assertErr(t, err)
	assertContains(t, err.Error(), "corrupt xref")
}

func TestConverter_ExtractText_EngineErrorFailsDocument(t *testing.T) {
	pdfPath := writeTempFile(t, "PP000001.pdf", "%PDF-stub")
	r := &fakeRasterizer{pages: []string{"one", "two", "three"}}

	_, err := newTestConverter(r, fakeEngine{failOn: "two"}).ExtractText(context.Background(), pdfPath)
	assertErr(t, err)
	assertContains(t, err.Error(), "page 2")
}

func TestConverter_ExtractText_Canceled(t *testing.T) {
	pdfPath := writeTempFile(t, "RE000001.pdf", "%PDF-stub")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestConverter(&fakeRasterizer{pages: []string{"a"}}, fakeEngine{}).ExtractText(ctx, pdfPath)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestConverter_ExtractText_NotFound(t *testing.T) {
	_, err := newTestConverter(&fakeRasterizer{}, fakeEngine{}).ExtractText(context.Background(), "/no/such/file.pdf")
	assertErr(t, err)
}

func TestConverter_ExtractText_TooLarge(t *testing.T) {
	pdfPath := writeTempFile(t, "big.pdf", "xx")
	cfg := config.Default()
	cfg.MaxFileSizeBytes = 1

	_, err := NewWith(cfg, &fakeRasterizer{}, fakeEngine{}, nil).ExtractText(context.Background(), pdfPath)
	if !errors.Is(err, ErrFileTooLarge) {
		t.Fatalf("err = %v, want ErrFileTooLarge", err)
	}
}

func TestConverter_ExtractText_TextLayerSkipsOCR(t *testing.T) {
	pdfPath := writeTempFile(t, "02000001.pdf", string(minimalPDF("Patented Jan. 5, 1912")))
	cfg := config.Default()
	cfg.UseTextLayer = true
	r := &fakeRasterizer{err: errors.New("rasterizer should not run")}

	doc, err := NewWith(cfg, r, fakeEngine{}, nil).ExtractText(context.Background(), pdfPath)
	assertNoErr(t, err)
	assertContains(t, doc.Text, "Patented")
	if doc.Source != SourceTextLayer {
		t.Errorf("Source = %s, want %s", doc.Source, SourceTextLayer)
	}
}

func TestConverter_ExtractText_EmptyTextLayerFallsBackToOCR(t *testing.T) {
	pdfPath := writeTempFile(t, "02000002.pdf", "not a pdf at all")
	cfg := config.Default()
	cfg.UseTextLayer = true

	doc, err := NewWith(cfg, &fakeRasterizer{pages: []string{"scanned"}}, fakeEngine{}, nil).
		ExtractText(context.Background(), pdfPath)
	assertNoErr(t, err)
	if doc.Text != "scanned" || doc.Source != SourceOCR {
		t.Errorf("doc = %+v, want OCR text", doc)
	}
}

// ---- construction ----------------------------------------------------------

func TestNew_SelectsParts(t *testing.T) {
	cfg := config.Default()
	cfg.Rasterizer = config.RasterizerEmbedded
	c, err := New(cfg, nil)
	assertNoErr(t, err)
	r, e := c.Describe()
	if r != "embedded" || e != "tesseract-cli" {
		t.Errorf("Describe() = %s, %s", r, e)
	}
}

func TestNew_UnknownNames(t *testing.T) {
	cfg := config.Default()
	cfg.Rasterizer = "ghostscript"
	if _, err := New(cfg, nil); err == nil {
		t.Error("expected error for unknown rasterizer")
	}
	cfg = config.Default()
	cfg.Engine = "cloud"
	if _, err := New(cfg, nil); err == nil {
		t.Error("expected error for unknown engine")
	}
}

func TestPreflight_MissingTools(t *testing.T) {
	withNoTools(t, func() {
		c, err := New(config.Default(), nil)
		assertNoErr(t, err)
		err = c.Preflight()
		if !errors.Is(err, ErrToolNotFound) {
			t.Fatalf("Preflight() = %v, want ErrToolNotFound", err)
		}
	})
}

func TestPreflight_FakePartsNeedNothing(t *testing.T) {
	withNoTools(t, func() {
		assertNoErr(t, newTestConverter(&fakeRasterizer{}, fakeEngine{}).Preflight())
	})
}

// ---- helpers under test ----------------------------------------------------

func TestLargestFile(t *testing.T) {
	dir := t.TempDir()
	for name, size := range map[string]int{"logo.png": 10, "scan.tif": 500, "stamp.jpg": 40} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(strings.Repeat("x", size)), 0o600); err != nil {
			t.Fatal(err)
		}
	}
	got, err := largestFile(dir)
	assertNoErr(t, err)
	if filepath.Base(got) != "scan.tif" {
		t.Errorf("largestFile() = %s, want scan.tif", got)
	}

	_, err = largestFile(t.TempDir())
	assertErr(t, err)
}
