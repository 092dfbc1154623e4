//go:build gosseract

package converter

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/otiai10/gosseract/v2"
)

// libraryEngine recognizes text in-process through libtesseract. A client is
// created per page since gosseract clients are not safe for concurrent use.
type libraryEngine struct {
	langs []string
	dpi   int
}

func newLibraryEngine(langs []string, dpi int) (Engine, error) {
	return &libraryEngine{langs: langs, dpi: dpi}, nil
}

func (e *libraryEngine) Name() string { return "tesseract-library" }

func (e *libraryEngine) Recognize(ctx context.Context, imagePath string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	c := gosseract.NewClient()
	defer c.Close()

	if len(e.langs) > 0 {
		if err := c.SetLanguage(e.langs...); err != nil {
			return "", fmt.Errorf("set languages: %w", err)
		}
	}
	if e.dpi > 0 {
		if err := c.SetVariable(gosseract.SettableVariable("user_defined_dpi"), strconv.Itoa(e.dpi)); err != nil {
			return "", fmt.Errorf("set dpi: %w", err)
		}
	}
	if err := c.SetImage(imagePath); err != nil {
		return "", fmt.Errorf("set image: %w", err)
	}
	text, err := c.Text()
	if err != nil {
		return "", fmt.Errorf("recognize text: %w", err)
	}
	return strings.TrimSpace(text), nil
}
