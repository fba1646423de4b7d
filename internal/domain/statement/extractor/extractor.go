// Package extractor implements the ordered chain of extraction strategies:
// structured table, line pattern, OCR, and the last-resort AI document
// extractor. Strategies share a ParseContext threaded through each call, so
// nothing about a parse lives in package state and independent parses can run
// concurrently.
package extractor

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/paisaflow/statement-parser/internal/domain/statement"
	"github.com/paisaflow/statement-parser/internal/domain/statement/banks"
	"github.com/paisaflow/statement-parser/internal/domain/statement/sniffer"
	"github.com/paisaflow/statement-parser/pkg/storage"
)

// ParseContext carries everything a strategy needs for one parse invocation:
// the decoded input, the detected bank, the scratch workspace, and the
// warnings accumulated so far. It is created by the pipeline service and
// never shared across parses.
type ParseContext struct {
	Kind      sniffer.FileKind
	Filename  string
	Data      []byte
	Text      string // extracted text layer; filled lazily (PDF text, OCR output)
	Bank      *banks.Signature
	Workspace *storage.Workspace
	Logger    *slog.Logger

	warnings []string
}

// AddWarning records a non-fatal problem on the parse.
func (p *ParseContext) AddWarning(format string, args ...any) {
	p.warnings = append(p.warnings, fmt.Sprintf(format, args...))
}

// Warnings returns the accumulated warnings in order.
func (p *ParseContext) Warnings() []string { return p.warnings }

// Strategy is one extraction technique in the fallback chain.
type Strategy interface {
	// Name identifies the strategy on provenance and reports.
	Name() statement.Strategy

	// Applies reports whether this strategy can do anything with the input
	// kind at all. The chain skips strategies that do not apply.
	Applies(p *ParseContext) bool

	// Extract produces raw records from the input. A strategy finding
	// nothing returns an empty slice and nil error; errors are reserved for
	// fatal decode failures (statement.ErrDecodeFailure).
	Extract(ctx context.Context, p *ParseContext) ([]statement.RawRecord, error)
}
