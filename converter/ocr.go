package converter

// ocr.go — OCR engines.
//
// The cli engine shells out to the tesseract binary, resolved through
// lookPath on every call so a missing install surfaces as ErrToolNotFound
// rather than a crash. The library engine links libtesseract through
// gosseract and is only compiled with the "gosseract" build tag.

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// ErrToolNotFound is returned when an external binary cannot be resolved.
var ErrToolNotFound = errors.New("external tool not found")

// ErrLibraryOCRNotEnabled is returned by the library engine in builds
// without the gosseract tag.
var ErrLibraryOCRNotEnabled = errors.New("library OCR engine not enabled; rebuild with -tags gosseract")

// lookPath is the exec.LookPath implementation used to resolve tools.
// Tests may replace it to simulate a missing binary.
var lookPath = exec.LookPath

// Engine turns one page image into text.
type Engine interface {
	Name() string
	Recognize(ctx context.Context, imagePath string) (string, error)
}

// resolveTool returns the absolute path of name or an error wrapping
// ErrToolNotFound.
func resolveTool(name string) (string, error) {
	p, err := lookPath(name)
	if err != nil {
		return "", fmt.Errorf("%w: %s is not installed or not on PATH", ErrToolNotFound, name)
	}
	return p, nil
}

// cliEngine runs `tesseract <image> stdout`.
type cliEngine struct {
	bin   string
	langs []string
	dpi   int
}

func newCLIEngine(bin string, langs []string, dpi int) *cliEngine {
	return &cliEngine{bin: bin, langs: langs, dpi: dpi}
}

func (e *cliEngine) Name() string { return "tesseract-cli" }

func (e *cliEngine) Recognize(ctx context.Context, imagePath string) (string, error) {
	bin, err := resolveTool(e.bin)
	if err != nil {
		return "", err
	}

	args := []string{imagePath, "stdout"}
	if len(e.langs) > 0 {
		args = append(args, "-l", strings.Join(e.langs, "+"))
	}
	if e.dpi > 0 {
		args = append(args, "--dpi", strconv.Itoa(e.dpi))
	}

	out, err := exec.CommandContext(ctx, bin, args...).Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && len(exitErr.Stderr) > 0 {
			return "", fmt.Errorf("tesseract: %w: %s", err, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return "", fmt.Errorf("tesseract: %w", err)
	}
	return strings.TrimSpace(string(out)), nil
}
