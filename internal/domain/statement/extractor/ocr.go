package extractor

import (
	"bytes"
	"context"
	"fmt"
	"image/png"
	"sync"

	"github.com/gen2brain/go-fitz"

	"github.com/paisaflow/statement-parser/internal/domain/statement"
	"github.com/paisaflow/statement-parser/internal/domain/statement/sniffer"
	"github.com/paisaflow/statement-parser/pkg/ocr"
)

// OCRExtractor rasterizes PDF pages (or takes images as-is), recognizes text
// on each page, and hands the combined text to the line-mining pass. Pages
// are recognized by a bounded worker pool but reassembled in page order.
type OCRExtractor struct {
	recognizer ocr.Recognizer
	dpi        int
	workers    int
}

func NewOCRExtractor(recognizer ocr.Recognizer, dpi, workers int) *OCRExtractor {
	if dpi < 300 {
		dpi = 300 // below this Tesseract accuracy drops off sharply
	}
	if workers < 1 {
		workers = 1
	}
	return &OCRExtractor{recognizer: recognizer, dpi: dpi, workers: workers}
}

func (e *OCRExtractor) Name() statement.Strategy { return statement.StrategyOCR }

func (e *OCRExtractor) Applies(p *ParseContext) bool {
	if e.recognizer == nil {
		return false
	}
	return p.Kind == sniffer.KindPDF || p.Kind == sniffer.KindImage
}

func (e *OCRExtractor) Extract(ctx context.Context, p *ParseContext) ([]statement.RawRecord, error) {
	var text string
	var err error
	switch p.Kind {
	case sniffer.KindImage:
		text, err = e.recognizer.Recognize(p.Data)
		if err != nil {
			p.AddWarning("ocr failed: %v", err)
			return nil, nil
		}
	case sniffer.KindPDF:
		text = e.recognizePDF(ctx, p)
	default:
		return nil, nil
	}

	if text == "" {
		return nil, nil
	}
	// Keep the recognized text around so the AI fallback has something to
	// work with on scanned documents.
	if p.Text == "" {
		p.Text = text
	}
	return ScanLines(text, statement.StrategyOCR), nil
}

func (e *OCRExtractor) recognizePDF(ctx context.Context, p *ParseContext) string {
	doc, err := fitz.NewFromMemory(p.Data)
	if err != nil {
		p.AddWarning("rasterize pdf: %v", err)
		return ""
	}
	defer doc.Close()

	pages := doc.NumPage()
	if p.Logger != nil {
		p.Logger.Info("rasterizing pages for ocr", "pages", pages, "dpi", e.dpi)
	}
	texts := make([]string, pages)

	var (
		wg  sync.WaitGroup
		sem = make(chan struct{}, e.workers)
		mu  sync.Mutex
	)
	for n := 0; n < pages; n++ {
		if ctx.Err() != nil {
			break
		}
		wg.Add(1)
		sem <- struct{}{}
		go func(n int) {
			defer wg.Done()
			defer func() { <-sem }()

			img, err := doc.ImageDPI(n, float64(e.dpi))
			if err != nil {
				mu.Lock()
				p.AddWarning("render page %d: %v", n+1, err)
				mu.Unlock()
				return
			}
			var buf bytes.Buffer
			if err := png.Encode(&buf, img); err != nil {
				mu.Lock()
				p.AddWarning("encode page %d: %v", n+1, err)
				mu.Unlock()
				return
			}
			if p.Workspace != nil {
				// Diagnostic copy; recognition itself works off memory.
				_, _ = p.Workspace.WriteFile(fmt.Sprintf("page-%03d.png", n+1), buf.Bytes())
			}
			text, err := e.recognizer.Recognize(buf.Bytes())
			if err != nil {
				mu.Lock()
				p.AddWarning("ocr page %d: %v", n+1, err)
				mu.Unlock()
				return
			}
			texts[n] = text
		}(n)
	}
	wg.Wait()

	var out bytes.Buffer
	for _, t := range texts {
		if t == "" {
			continue
		}
		if out.Len() > 0 {
			out.WriteByte('\n')
		}
		out.WriteString(t)
	}
	return out.String()
}
