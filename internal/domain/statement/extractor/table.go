package extractor

import (
	"bytes"
	"context"
	"encoding/csv"
	"regexp"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/ledongthuc/pdf"
	fuzzy "github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/xuri/excelize/v2"

	"github.com/paisaflow/statement-parser/internal/domain/statement"
	"github.com/paisaflow/statement-parser/internal/domain/statement/sniffer"
)

// headerWords are column labels (and fragments) that mark a row as a table
// header rather than data. Matched case-insensitively, fuzzily for OCR-ish
// inputs.
var headerWords = []string{
	"date", "description", "narration", "particulars", "details", "remarks",
	"amount", "debit", "credit", "withdrawal", "deposit", "balance",
	"type", "dr/cr", "ref", "cheque", "chq", "category", "mode",
}

// tableDateRe is a cheap gate for "does this cell look like a date" when
// mining PDF rows without a header.
var tableDateRe = regexp.MustCompile(`\d{1,2}[/\-.]\d{1,2}[/\-.]\d{2,4}|\d{4}[/\-]\d{1,2}[/\-]\d{1,2}|\d{1,2}[ -][A-Za-z]{3}`)

// TableExtractor reads structured tabular data out of spreadsheets, delimited
// text, and PDFs that retain a positional text layer.
type TableExtractor struct{}

func NewTableExtractor() *TableExtractor { return &TableExtractor{} }

func (e *TableExtractor) Name() statement.Strategy { return statement.StrategyTable }

func (e *TableExtractor) Applies(p *ParseContext) bool {
	return p.Kind != sniffer.KindImage
}

func (e *TableExtractor) Extract(ctx context.Context, p *ParseContext) ([]statement.RawRecord, error) {
	switch p.Kind {
	case sniffer.KindSpreadsheet:
		return e.extractSpreadsheet(p)
	case sniffer.KindCSV:
		return e.extractDelimited(p)
	case sniffer.KindPDF:
		return e.extractPDFRows(p)
	default:
		return nil, nil
	}
}

func (e *TableExtractor) extractSpreadsheet(p *ParseContext) ([]statement.RawRecord, error) {
	f, err := excelize.OpenReader(bytes.NewReader(p.Data))
	if err != nil {
		return nil, &statement.DecodeError{Kind: "spreadsheet", Err: err}
	}
	defer f.Close()

	var out []statement.RawRecord
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			p.AddWarning("sheet %q unreadable: %v", sheet, err)
			continue
		}
		out = append(out, recordsFromRows(rows, len(out))...)
	}
	return out, nil
}

// csvRow is the fast path for delimited files that use the header names most
// Indian bank exports share. When it matches nothing we fall back to the
// generic reader below.
type csvRow struct {
	Date        string `csv:"date"`
	TxnDate     string `csv:"transaction date"`
	ValueDate   string `csv:"value date"`
	Description string `csv:"description"`
	Narration   string `csv:"narration"`
	Particulars string `csv:"particulars"`
	Debit       string `csv:"debit"`
	Withdrawal  string `csv:"withdrawal amt"`
	Credit      string `csv:"credit"`
	Deposit     string `csv:"deposit amt"`
	Amount      string `csv:"amount"`
	Type        string `csv:"type"`
	Balance     string `csv:"balance"`
	Category    string `csv:"category"`
}

func (r csvRow) columns() []statement.Column {
	var cols []statement.Column
	add := func(label, value string) {
		if strings.TrimSpace(value) != "" {
			cols = append(cols, statement.Column{Label: label, Value: strings.TrimSpace(value)})
		}
	}
	add("date", coalesce(r.Date, r.TxnDate, r.ValueDate))
	add("description", coalesce(r.Description, r.Narration, r.Particulars))
	add("debit", coalesce(r.Debit, r.Withdrawal))
	add("credit", coalesce(r.Credit, r.Deposit))
	add("amount", r.Amount)
	add("type", r.Type)
	add("balance", r.Balance)
	add("category", r.Category)
	return cols
}

func coalesce(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func (e *TableExtractor) extractDelimited(p *ParseContext) ([]statement.RawRecord, error) {
	layout, ok := sniffer.DetectLayout(p.Data)
	if !ok {
		return nil, nil
	}

	trimmed := dropLines(p.Data, layout.SkipLines)

	if layout.HasHeader && layout.Delimiter == ',' {
		if recs := e.extractTagged(trimmed); len(recs) > 0 {
			return recs, nil
		}
	}

	reader := csv.NewReader(bytes.NewReader(trimmed))
	reader.Comma = layout.Delimiter
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, &statement.DecodeError{Kind: "delimited", Err: err}
	}
	return recordsFromRows(rows, 0), nil
}

// extractTagged runs gocsv against the lowered header so tag matching is
// case-insensitive.
func (e *TableExtractor) extractTagged(data []byte) []statement.RawRecord {
	lowered := lowerFirstLine(data)

	var rows []csvRow
	if err := gocsv.UnmarshalBytes(lowered, &rows); err != nil {
		return nil
	}

	var out []statement.RawRecord
	for _, r := range rows {
		cols := r.columns()
		if len(cols) < 2 {
			continue
		}
		out = append(out, statement.RawRecord{
			Columns:  cols,
			Strategy: statement.StrategyTable,
			Index:    len(out),
		})
	}
	return out
}

func dropLines(data []byte, n int) []byte {
	for ; n > 0; n-- {
		i := bytes.IndexByte(data, '\n')
		if i < 0 {
			return nil
		}
		data = data[i+1:]
	}
	return data
}

func lowerFirstLine(data []byte) []byte {
	i := bytes.IndexByte(data, '\n')
	if i < 0 {
		return bytes.ToLower(data)
	}
	out := make([]byte, 0, len(data))
	out = append(out, bytes.ToLower(data[:i])...)
	out = append(out, data[i:]...)
	return out
}

// cellGap is the horizontal distance, in PDF points, that separates two text
// fragments into different table cells.
const cellGap = 10.0

func (e *TableExtractor) extractPDFRows(p *ParseContext) ([]statement.RawRecord, error) {
	r, err := pdf.NewReader(bytes.NewReader(p.Data), int64(len(p.Data)))
	if err != nil {
		return nil, &statement.DecodeError{Kind: "pdf", Err: err}
	}

	var out []statement.RawRecord
	for n := 1; n <= r.NumPage(); n++ {
		page := r.Page(n)
		if page.V.IsNull() {
			continue
		}
		rows, err := page.GetTextByRow()
		if err != nil {
			p.AddWarning("page %d: no text layer: %v", n, err)
			continue
		}

		var cellRows [][]string
		for _, row := range rows {
			cells := splitRowCells(row.Content)
			if len(cells) > 0 {
				cellRows = append(cellRows, cells)
			}
		}
		out = append(out, recordsFromRows(cellRows, len(out))...)
	}
	return out, nil
}

// splitRowCells groups the positioned text fragments of one visual row into
// cells, breaking on horizontal gaps wider than cellGap.
func splitRowCells(texts []pdf.Text) []string {
	if len(texts) == 0 {
		return nil
	}

	var (
		cells []string
		cur   strings.Builder
		lastX = texts[0].X
	)
	flush := func() {
		if s := strings.TrimSpace(cur.String()); s != "" {
			cells = append(cells, s)
		}
		cur.Reset()
	}
	for _, t := range texts {
		if t.X-lastX > cellGap && cur.Len() > 0 {
			flush()
		}
		cur.WriteString(t.S)
		lastX = t.X + t.W
	}
	flush()
	return cells
}

// recordsFromRows turns a grid of cells into raw records. If a header row is
// found, data cells are labeled positionally from it; otherwise rows that
// contain something date-shaped are emitted unlabeled for the heuristics in
// the normalizer to sort out.
func recordsFromRows(rows [][]string, baseIndex int) []statement.RawRecord {
	headerAt := -1
	var header []string
	for i, row := range rows {
		if i > 20 {
			break
		}
		if isHeaderRow(row) {
			headerAt, header = i, normalizeHeader(row)
			break
		}
	}

	var out []statement.RawRecord
	for i, row := range rows {
		if i <= headerAt {
			continue
		}
		var cols []statement.Column
		if header != nil {
			for j, cell := range row {
				cell = strings.TrimSpace(cell)
				if cell == "" {
					continue
				}
				label := ""
				if j < len(header) {
					label = header[j]
				}
				cols = append(cols, statement.Column{Label: label, Value: cell})
			}
		} else {
			if !rowHasDate(row) {
				continue
			}
			for _, cell := range row {
				cell = strings.TrimSpace(cell)
				if cell == "" {
					continue
				}
				cols = append(cols, statement.Column{Value: cell})
			}
		}
		if len(cols) < 2 {
			continue
		}
		out = append(out, statement.RawRecord{
			Columns:  cols,
			Strategy: statement.StrategyTable,
			Index:    baseIndex + len(out),
		})
	}
	return out
}

func isHeaderRow(row []string) bool {
	if len(row) < 2 {
		return false
	}
	matches := 0
	for _, cell := range row {
		cell = strings.ToLower(strings.TrimSpace(cell))
		if cell == "" {
			continue
		}
		for _, w := range headerWords {
			if strings.Contains(cell, w) || fuzzy.MatchNormalizedFold(w, cell) {
				matches++
				break
			}
		}
	}
	return matches >= 2
}

func normalizeHeader(row []string) []string {
	out := make([]string, len(row))
	for i, cell := range row {
		out[i] = strings.ToLower(strings.TrimSpace(cell))
	}
	return out
}

func rowHasDate(row []string) bool {
	for _, cell := range row {
		if tableDateRe.MatchString(cell) {
			return true
		}
	}
	return false
}
