package extractor

import (
	"context"
	"testing"

	"github.com/ledongthuc/pdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paisaflow/statement-parser/internal/domain/statement"
	"github.com/paisaflow/statement-parser/internal/domain/statement/sniffer"
)

func TestTableExtractor_Delimited(t *testing.T) {
	e := NewTableExtractor()

	t.Run("tagged header csv", func(t *testing.T) {
		data := []byte(`Date,Description,Debit,Credit,Balance
15/03/2024,SALARY CREDIT XYZ CORP,,75000.00,125000.00
16/03/2024,POS AMAZON,1499.00,,123501.00
`)
		p := &ParseContext{Kind: sniffer.KindCSV, Data: data}
		recs, err := e.Extract(context.Background(), p)
		require.NoError(t, err)
		require.Len(t, recs, 2)

		first := recs[0]
		assert.Equal(t, statement.StrategyTable, first.Strategy)
		assert.Equal(t, "15/03/2024", getColumn(t, first, "date"))
		assert.Equal(t, "75000.00", getColumn(t, first, "credit"))
		_, hasDebit := first.Get("debit")
		assert.False(t, hasDebit, "empty debit cell must not surface")

		second := recs[1]
		assert.Equal(t, "1499.00", getColumn(t, second, "debit"))
		assert.Equal(t, "POS AMAZON", getColumn(t, second, "description"))
	})

	t.Run("metadata preamble is skipped", func(t *testing.T) {
		data := []byte(`HDFC BANK Ltd.
Account Number: XXXX1234

Date,Narration,Withdrawal Amt,Deposit Amt,Closing Balance
02/01/2024,UPI-SWIGGY-FOOD ORDER,450.00,,9550.00
`)
		p := &ParseContext{Kind: sniffer.KindCSV, Data: data}
		recs, err := e.Extract(context.Background(), p)
		require.NoError(t, err)
		require.Len(t, recs, 1)
		// The tagged reader folds Narration and Withdrawal Amt into the
		// canonical description/debit labels.
		assert.Equal(t, "UPI-SWIGGY-FOOD ORDER", getColumn(t, recs[0], "description"))
		assert.Equal(t, "450.00", getColumn(t, recs[0], "debit"))
	})

	t.Run("semicolon delimited falls back to the generic reader", func(t *testing.T) {
		data := []byte("Date;Description;Amount\n05/04/2024;CARD PAYMENT;350.00\n")
		p := &ParseContext{Kind: sniffer.KindCSV, Data: data}
		recs, err := e.Extract(context.Background(), p)
		require.NoError(t, err)
		require.Len(t, recs, 1)
		assert.Equal(t, "350.00", getColumn(t, recs[0], "amount"))
	})

	t.Run("headerless rows come back unlabeled", func(t *testing.T) {
		data := []byte("01/02/2024,UPI-ZOMATO,250.00,9750.00\n02/02/2024,POS DMART,1100.00,8650.00\n")
		p := &ParseContext{Kind: sniffer.KindCSV, Data: data}
		recs, err := e.Extract(context.Background(), p)
		require.NoError(t, err)
		require.Len(t, recs, 2)
		for _, rec := range recs {
			for _, col := range rec.Columns {
				assert.Empty(t, col.Label)
			}
		}
	})

	t.Run("empty input yields nothing", func(t *testing.T) {
		p := &ParseContext{Kind: sniffer.KindCSV, Data: nil}
		recs, err := e.Extract(context.Background(), p)
		require.NoError(t, err)
		assert.Empty(t, recs)
	})
}

func TestTableExtractor_SpreadsheetDecodeFailure(t *testing.T) {
	e := NewTableExtractor()
	p := &ParseContext{Kind: sniffer.KindSpreadsheet, Data: []byte("PK\x03\x04 truncated")}
	_, err := e.Extract(context.Background(), p)
	require.Error(t, err)
	assert.ErrorIs(t, err, statement.ErrDecodeFailure)
}

func TestTableExtractor_Applies(t *testing.T) {
	e := NewTableExtractor()
	assert.True(t, e.Applies(&ParseContext{Kind: sniffer.KindPDF}))
	assert.True(t, e.Applies(&ParseContext{Kind: sniffer.KindCSV}))
	assert.False(t, e.Applies(&ParseContext{Kind: sniffer.KindImage}))
}

func TestSplitRowCells(t *testing.T) {
	row := []pdf.Text{
		{S: "02/01/2024", X: 40, W: 60},
		{S: "UPI-", X: 120, W: 24},
		{S: "SWIGGY", X: 144, W: 40},
		{S: "450.00", X: 300, W: 36},
	}
	cells := splitRowCells(row)
	require.Len(t, cells, 3)
	assert.Equal(t, "02/01/2024", cells[0])
	assert.Equal(t, "UPI-SWIGGY", cells[1])
	assert.Equal(t, "450.00", cells[2])
}

func TestRecordsFromRows(t *testing.T) {
	t.Run("labels follow the header positionally", func(t *testing.T) {
		rows := [][]string{
			{"Statement", "Period Jan"},
			{"Date", "Description", "Debit", "Credit", "Balance"},
			{"15/03/2024", "SALARY CREDIT", "", "75000.00", "125000.00"},
		}
		recs := recordsFromRows(rows, 0)
		require.Len(t, recs, 1)
		assert.Equal(t, "75000.00", getColumn(t, recs[0], "credit"))
	})

	t.Run("rows without dates are dropped when headerless", func(t *testing.T) {
		rows := [][]string{
			{"TOTAL", "76,499.00"},
			{"15/03/2024", "POS AMAZON", "1,499.00"},
		}
		recs := recordsFromRows(rows, 0)
		require.Len(t, recs, 1)
		assert.Equal(t, "POS AMAZON", recs[0].Columns[1].Value)
	})
}
