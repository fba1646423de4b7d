package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/paisaflow/statement-parser/internal/domain/statement"
	aidoc "github.com/paisaflow/statement-parser/internal/domain/statement/ai"
	"github.com/paisaflow/statement-parser/internal/domain/statement/banks"
	"github.com/paisaflow/statement-parser/internal/domain/statement/categorizer"
	"github.com/paisaflow/statement-parser/internal/domain/statement/extractor"
	"github.com/paisaflow/statement-parser/internal/domain/statement/service"
	"github.com/paisaflow/statement-parser/pkg/config"
	"github.com/paisaflow/statement-parser/pkg/ocr"
)

var verbose bool

func main() {
	root := &cobra.Command{
		Use:   "statement-parser",
		Short: "Extract transactions from bank statement files",
		Long: `statement-parser reads bank statements (PDF, CSV, XLSX, scans) and
produces normalized, categorized transactions as JSON.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(parseCmd(), banksCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func parseCmd() *cobra.Command {
	var summaryOnly bool

	cmd := &cobra.Command{
		Use:   "parse <file>",
		Short: "Parse a statement file and print the transactions as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			svc, cleanup, err := buildService(ctx, cfg)
			if err != nil {
				return err
			}
			defer cleanup()

			report, err := svc.ParseFile(ctx, args[0])
			if err != nil {
				return err
			}

			var out any = report
			if summaryOnly {
				out = report.Summary
			}
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(out); err != nil {
				return err
			}
			if report.Empty() {
				return statement.ErrNoTransactions
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&summaryOnly, "summary", false, "print only the statement summary")
	return cmd
}

func banksCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "banks",
		Short: "List the bank signatures the parser recognizes",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "BANK\tDATE FORMAT\tCOLUMNS")
			for _, sig := range banks.Default().Signatures() {
				fmt.Fprintf(w, "%s\t%s\t%d\n", sig.ID, sig.DateHint, len(sig.Columns))
			}
			return w.Flush()
		},
	}
}

// buildService wires the full strategy chain from configuration. The AI
// fallback is only attached when an API key is configured.
func buildService(ctx context.Context, cfg *config.Config) (*service.Service, func(), error) {
	workers := cfg.Pipeline.MaxWorkers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	recognizer := ocr.NewTesseract(cfg.OCR.Languages...)

	strategies := []extractor.Strategy{
		extractor.NewTableExtractor(),
		extractor.NewLineExtractor(),
		extractor.NewOCRExtractor(recognizer, cfg.OCR.DPI, workers),
	}

	cleanup := func() {}
	if cfg.Gemini.Enabled() {
		gemini, err := aidoc.NewGemini(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model)
		if err != nil {
			return nil, nil, err
		}
		cleanup = func() { _ = gemini.Close() }
		strategies = append(strategies, extractor.NewAIExtractor(gemini))
	}

	svc := service.New(
		banks.Default(),
		categorizer.New(),
		slog.Default(),
		cfg.Pipeline.AITimeout,
		strategies...,
	)
	return svc, cleanup, nil
}
