package extractor

import (
	"bytes"

	"github.com/ledongthuc/pdf"

	"github.com/paisaflow/statement-parser/internal/domain/statement/sniffer"
)

// PopulateText fills p.Text with the document's text layer where one exists:
// the file itself for delimited text, the embedded text layer for PDFs.
// Spreadsheets and images have none; scanned PDFs yield an empty layer and
// pick one up later from OCR.
func PopulateText(p *ParseContext) {
	if p.Text != "" {
		return
	}
	switch p.Kind {
	case sniffer.KindCSV:
		p.Text = string(p.Data)
	case sniffer.KindPDF:
		text, err := pdfPlainText(p.Data)
		if err != nil {
			p.AddWarning("pdf text layer: %v", err)
			return
		}
		p.Text = text
	}
}

// pdfPlainText reassembles the text layer row by row so line breaks survive;
// GetPlainText flattens them away, which would starve the line-mining pass.
func pdfPlainText(data []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	for n := 1; n <= r.NumPage(); n++ {
		page := r.Page(n)
		if page.V.IsNull() {
			continue
		}
		rows, err := page.GetTextByRow()
		if err != nil {
			continue
		}
		for _, row := range rows {
			for i, cell := range splitRowCells(row.Content) {
				if i > 0 {
					buf.WriteByte(' ')
				}
				buf.WriteString(cell)
			}
			buf.WriteByte('\n')
		}
	}
	return buf.String(), nil
}
