// Package ocr wraps text recognition behind a small interface so the
// extraction pipeline can be tested without a Tesseract installation.
package ocr

import (
	"fmt"

	"github.com/otiai10/gosseract/v2"
)

// Recognizer turns a rendered page image into text.
type Recognizer interface {
	Recognize(image []byte) (string, error)
}

// Tesseract recognizes text via the gosseract bindings. A fresh client is
// created per call because gosseract clients are not safe for concurrent use.
type Tesseract struct {
	Languages []string // tesseract language codes, e.g. "eng"
}

func NewTesseract(languages ...string) *Tesseract {
	if len(languages) == 0 {
		languages = []string{"eng"}
	}
	return &Tesseract{Languages: languages}
}

func (t *Tesseract) Recognize(image []byte) (string, error) {
	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(t.Languages...); err != nil {
		return "", fmt.Errorf("set ocr language: %w", err)
	}
	if err := client.SetImageFromBytes(image); err != nil {
		return "", fmt.Errorf("load ocr image: %w", err)
	}
	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("ocr: %w", err)
	}
	return text, nil
}
