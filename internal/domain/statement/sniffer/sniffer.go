// Package sniffer routes incoming statement files to the right decoder
// family. Detection goes by extension first and falls back to magic-byte
// inspection when the extension is missing or ambiguous. It also carries the
// delimiter and header-row detection used by the delimited-text extractor.
package sniffer

import (
	"bytes"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/paisaflow/statement-parser/internal/domain/statement"
)

// FileKind is the closed set of supported decoder families. Adding a kind
// requires updating every switch over it; there is no default passthrough.
type FileKind int

const (
	KindPDF FileKind = iota
	KindCSV
	KindSpreadsheet
	KindImage
)

func (k FileKind) String() string {
	switch k {
	case KindPDF:
		return "pdf"
	case KindCSV:
		return "csv"
	case KindSpreadsheet:
		return "spreadsheet"
	case KindImage:
		return "image"
	}
	return "unknown"
}

var (
	pdfMagic  = []byte("%PDF-")
	zipMagic  = []byte("PK\x03\x04")                     // xlsx containers
	oleMagic  = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1} // legacy xls
	pngMagic  = []byte{0x89, 'P', 'N', 'G'}
	jpegMagic = []byte{0xFF, 0xD8, 0xFF}
	tiffII    = []byte{'I', 'I', 0x2A, 0x00}
	tiffMM    = []byte{'M', 'M', 0x00, 0x2A}
)

// Detect resolves the file kind from the declared filename and, when that is
// absent or unknown, the leading bytes of the content. Unsupported inputs
// return an error wrapping statement.ErrUnsupportedFormat.
func Detect(filename string, data []byte) (FileKind, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".pdf":
		return KindPDF, nil
	case ".csv", ".tsv", ".txt":
		return KindCSV, nil
	case ".xlsx", ".xls", ".xlsm":
		return KindSpreadsheet, nil
	case ".png", ".jpg", ".jpeg", ".tiff", ".tif":
		return KindImage, nil
	case "":
		if kind, ok := detectByContent(data); ok {
			return kind, nil
		}
		return 0, &statement.UnsupportedFormatError{}
	}
	// Known-bad extension: still give content sniffing a chance, since bank
	// portals export PDFs with .dat and similar.
	if kind, ok := detectByContent(data); ok {
		return kind, nil
	}
	return 0, &statement.UnsupportedFormatError{Extension: ext}
}

func detectByContent(data []byte) (FileKind, bool) {
	trimmed := data
	if len(trimmed) > 512 {
		trimmed = trimmed[:512]
	}
	switch {
	case bytes.HasPrefix(data, pdfMagic):
		return KindPDF, true
	case bytes.HasPrefix(data, zipMagic), bytes.HasPrefix(data, oleMagic):
		return KindSpreadsheet, true
	case bytes.HasPrefix(data, pngMagic), bytes.HasPrefix(data, jpegMagic),
		bytes.HasPrefix(data, tiffII), bytes.HasPrefix(data, tiffMM):
		return KindImage, true
	case looksLikeText(trimmed):
		return KindCSV, true
	}
	return 0, false
}

// looksLikeText accepts UTF-8 (with or without BOM) and windows-1252-ish
// bytes, the encodings bank CSV exports actually arrive in.
func looksLikeText(sample []byte) bool {
	if len(sample) == 0 {
		return false
	}
	sample = bytes.TrimPrefix(sample, []byte("\uFEFF"))
	if utf8.Valid(sample) {
		return !bytes.ContainsRune(sample, 0x00)
	}
	control := 0
	for _, b := range sample {
		if b < 0x09 || (b > 0x0D && b < 0x20) {
			control++
		}
	}
	return control*20 < len(sample)
}
