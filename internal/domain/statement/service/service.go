// Package service orchestrates a statement parse end to end: format
// detection, bank identification, the extraction strategy chain,
// normalization, categorization, and the final report.
package service

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/paisaflow/statement-parser/internal/domain/statement"
	"github.com/paisaflow/statement-parser/internal/domain/statement/banks"
	"github.com/paisaflow/statement-parser/internal/domain/statement/categorizer"
	"github.com/paisaflow/statement-parser/internal/domain/statement/extractor"
	"github.com/paisaflow/statement-parser/internal/domain/statement/normalizer"
	"github.com/paisaflow/statement-parser/internal/domain/statement/sniffer"
	"github.com/paisaflow/statement-parser/internal/domain/statement/summary"
	"github.com/paisaflow/statement-parser/pkg/storage"
)

// bankSampleLimit bounds how much document text the bank signatures scan.
const bankSampleLimit = 4096

// Service runs the parse pipeline. It holds no per-parse state, so a single
// Service may serve concurrent parses.
type Service struct {
	registry    *banks.Registry
	categorizer *categorizer.Categorizer
	strategies  []extractor.Strategy
	logger      *slog.Logger
	aiTimeout   time.Duration
}

// New assembles a pipeline service. Strategies are attempted in the order
// given, each only while the transaction count is still zero.
func New(registry *banks.Registry, cat *categorizer.Categorizer, logger *slog.Logger, aiTimeout time.Duration, strategies ...extractor.Strategy) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		registry:    registry,
		categorizer: cat,
		strategies:  strategies,
		logger:      logger,
		aiTimeout:   aiTimeout,
	}
}

// ParseFile reads path and parses it. See Parse.
func (s *Service) ParseFile(ctx context.Context, path string) (*statement.ParseReport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return s.Parse(ctx, filepath.Base(path), data)
}

// Parse runs the full pipeline over one document. A document from which no
// strategy can extract anything yields an empty report with warnings, not an
// error; errors are reserved for unsupported formats and undecodable input.
func (s *Service) Parse(ctx context.Context, filename string, data []byte) (*statement.ParseReport, error) {
	log := s.logger.With(slog.String("file", filename))

	kind, err := sniffer.Detect(filename, data)
	if err != nil {
		return nil, err
	}
	log.Info("format detected", slog.String("kind", kind.String()))

	ws, err := storage.NewWorkspace()
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := ws.Close(); cerr != nil {
			log.Warn("workspace cleanup failed", slog.Any("error", cerr))
		}
	}()

	pctx := &extractor.ParseContext{
		Kind:      kind,
		Filename:  filename,
		Data:      data,
		Workspace: ws,
		Logger:    log,
	}
	extractor.PopulateText(pctx)

	sig := s.detectBank(pctx)
	bank := banks.BankID(sig)
	pctx.Bank = sig
	log.Info("bank detection", slog.String("bank", bank))

	records, used, err := s.runChain(ctx, pctx, log)
	if err != nil {
		return nil, err
	}

	// Header labels are only known after extraction; give the registry a
	// second chance when the text scan found nothing.
	if sig == nil && len(records) > 0 {
		if sig = s.registry.MatchHeaders(recordLabels(records[0])); sig != nil {
			bank = banks.BankID(sig)
			log.Info("bank detected from headers", slog.String("bank", bank))
		}
	}

	norm := normalizer.New()
	if sig != nil && sig.DateHint != "" {
		norm = normalizer.NewWithDateHint(sig.DateHint)
	}
	txs, warnings := norm.Normalize(records, bank)
	for _, w := range warnings {
		pctx.AddWarning("%s", w)
	}

	for i := range txs {
		if txs[i].Category == "" {
			txs[i].Category = s.categorizer.Categorize(txs[i].Description)
		}
	}

	summary.SortByDateDesc(txs)
	before := len(txs)
	txs = summary.Deduplicate(txs)
	if dropped := before - len(txs); dropped > 0 {
		log.Info("duplicates removed", slog.Int("count", dropped))
	}

	report := &statement.ParseReport{
		ID:           uuid.New(),
		Transactions: txs,
		StrategyUsed: used,
		DetectedBank: bank,
		Summary:      summary.Summarize(txs),
		Warnings:     pctx.Warnings(),
	}
	if report.Empty() {
		report.Warnings = append(report.Warnings,
			"no transactions found; the document may be scanned without OCR support or carry an unrecognized layout")
	}
	log.Info("parse complete",
		slog.Int("transactions", len(txs)),
		slog.String("strategy", string(used)),
	)
	return report, nil
}

// runChain tries each strategy in order until one yields records. Decode
// failures abort the parse; anything else becomes a warning and the chain
// moves on.
func (s *Service) runChain(ctx context.Context, pctx *extractor.ParseContext, log *slog.Logger) ([]statement.RawRecord, statement.Strategy, error) {
	for _, strat := range s.strategies {
		if !strat.Applies(pctx) {
			continue
		}
		sctx := ctx
		if strat.Name() == statement.StrategyAI && s.aiTimeout > 0 {
			var cancel context.CancelFunc
			sctx, cancel = context.WithTimeout(ctx, s.aiTimeout)
			defer cancel()
		}

		records, err := strat.Extract(sctx, pctx)
		if err != nil {
			if errors.Is(err, statement.ErrDecodeFailure) {
				return nil, "", err
			}
			pctx.AddWarning("%s: %v", strat.Name(), err)
			continue
		}
		log.Info("strategy attempted",
			slog.String("strategy", string(strat.Name())),
			slog.Int("records", len(records)),
		)
		if len(records) > 0 {
			return records, strat.Name(), nil
		}
	}
	return nil, "", nil
}

func (s *Service) detectBank(pctx *extractor.ParseContext) *banks.Signature {
	if pctx.Text == "" {
		return nil
	}
	sample := pctx.Text
	if len(sample) > bankSampleLimit {
		sample = sample[:bankSampleLimit]
	}
	return s.registry.Match(sample)
}

func recordLabels(rec statement.RawRecord) []string {
	labels := make([]string, 0, len(rec.Columns))
	for _, c := range rec.Columns {
		if c.Label != "" {
			labels = append(labels, c.Label)
		}
	}
	return labels
}
