package sniffer

import (
	"strings"
)

// Header keywords seen on bank statement exports. Indian bank exports mix
// English with the occasional abbreviated form.
var headerKeywords = []string{
	"date", "txn date", "value date", "description", "narration", "particulars",
	"details", "remarks", "amount", "debit", "withdrawal", "credit", "deposit",
	"balance", "chq", "ref", "dr", "cr", "category", "type",
}

// DelimitedLayout describes a delimited-text file well enough to read it.
type DelimitedLayout struct {
	Delimiter rune
	SkipLines int // metadata lines before the header row
	HasHeader bool
}

// DetectLayout finds the header row and delimiter of a delimited-text file.
// Bank exports often lead with account metadata lines, so the first rows are
// scored rather than trusted. When no keyword-bearing line exists, the widest
// line wins and the file is treated as headerless.
func DetectLayout(data []byte) (DelimitedLayout, bool) {
	lines := strings.Split(string(data), "\n")

	bestKeywordIdx, bestKeywordCols := -1, 0
	bestKeywordDelim := rune(0)
	bestKeywordScore := 0
	fallbackIdx, fallbackCols := -1, 0
	fallbackDelim := rune(0)

	for i, line := range lines {
		if i > 20 {
			break
		}
		line = cleanLine(line, i == 0)
		if line == "" {
			continue
		}

		delim, cols := detectDelimiter(line)
		if cols < 1 {
			continue
		}

		lower := strings.ToLower(line)
		matches := 0
		for _, kw := range headerKeywords {
			if strings.Contains(lower, kw) {
				matches++
			}
		}

		if matches > 0 {
			score := cols*10 + matches
			if score > bestKeywordScore {
				bestKeywordScore = score
				bestKeywordIdx = i
				bestKeywordCols = cols
				bestKeywordDelim = delim
			}
		} else if cols > fallbackCols {
			fallbackCols = cols
			fallbackIdx = i
			fallbackDelim = delim
		}
	}

	if bestKeywordIdx >= 0 && bestKeywordCols >= 2 {
		return DelimitedLayout{Delimiter: bestKeywordDelim, SkipLines: bestKeywordIdx, HasHeader: true}, true
	}
	if fallbackCols >= 2 {
		return DelimitedLayout{Delimiter: fallbackDelim, SkipLines: fallbackIdx, HasHeader: false}, true
	}
	return DelimitedLayout{}, false
}

func cleanLine(line string, firstLine bool) string {
	line = strings.TrimRight(line, "\r")
	if firstLine {
		line = strings.TrimPrefix(line, "\uFEFF")
	}
	return strings.TrimSpace(line)
}

func detectDelimiter(line string) (rune, int) {
	delimiters := []rune{';', '\t', ',', '|'}
	best := rune(0)
	bestCount := 0
	for _, d := range delimiters {
		count := strings.Count(line, string(d))
		if count > bestCount {
			bestCount = count
			best = d
		}
	}
	return best, bestCount
}
