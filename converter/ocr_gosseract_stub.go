//go:build !gosseract

package converter

// newLibraryEngine reports that in-process OCR was not compiled in.
// Rebuild with -tags gosseract (requires libtesseract and leptonica headers).
func newLibraryEngine(_ []string, _ int) (Engine, error) {
	return nil, ErrLibraryOCRNotEnabled
}
