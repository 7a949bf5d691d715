package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sells-group/apollo-cli/internal/cost"
	"github.com/sells-group/apollo-cli/internal/enrich"
	"github.com/sells-group/apollo-cli/internal/model"
	"github.com/sells-group/apollo-cli/pkg/apollo"
)

var (
	enrichInput   string
	enrichOutput  string
	enrichFormat  string
	enrichLimit   int
	enrichDryRun  bool
	enrichNoStore bool
)

var enrichCmd = &cobra.Command{
	Use:   "enrich",
	Short: "Run the two-stage enrichment batch over a file of LinkedIn URLs",
	Long: `Reads newline-separated LinkedIn profile URLs, matches each against
Apollo, unlocks mobile numbers where a credit-consuming lookup is warranted,
and exports one row per input URL.

Examples:
  # Default paths from config (input_linkedin.txt -> apollo_contact_data.csv)
  apollo-cli enrich

  # Explicit paths, XLSX output
  apollo-cli enrich --input urls.txt --output contacts.xlsx --format xlsx

  # Parse the input file only, no API calls
  apollo-cli enrich --input urls.txt --dry-run`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		// The credential gate: nothing runs without a key.
		if cfg.Apollo.Key == "" {
			return eris.New("enrich: APOLLO_APOLLO_KEY is not set")
		}

		inputPath := enrichInput
		if inputPath == "" {
			inputPath = cfg.Input.Path
		}
		outputPath := enrichOutput
		if outputPath == "" {
			outputPath = cfg.Export.Path
		}
		format := enrichFormat
		if format == "" {
			format = cfg.Export.Format
		}
		if format != "csv" && format != "xlsx" {
			return eris.Errorf("enrich: unsupported format %q (csv or xlsx)", format)
		}

		urls, err := enrich.ReadInputs(inputPath)
		if err != nil {
			return eris.Wrap(err, "enrich: read inputs")
		}
		if len(urls) == 0 {
			zap.L().Info("enrich: no input URLs, nothing to do", zap.String("input", inputPath))
			return nil
		}
		if enrichLimit > 0 && enrichLimit < len(urls) {
			urls = urls[:enrichLimit]
		}
		zap.L().Info("enrich: batch starting",
			zap.String("input", inputPath),
			zap.Int("profiles", len(urls)),
		)

		if enrichDryRun {
			return printURLsJSON(urls)
		}

		client := apollo.NewClient(cfg.Apollo.Key,
			apollo.WithBaseURL(cfg.Apollo.BaseURL),
			apollo.WithHTTPClient(&http.Client{Timeout: time.Duration(cfg.Apollo.TimeoutSecs) * time.Second}),
			apollo.WithLimiter(rate.NewLimiter(rate.Limit(cfg.Apollo.RatePerSec), 1)),
		)
		ledger := cost.NewLedger(cfg.Credits.MobileUnlockCost)
		runner := enrich.NewRunner(enrich.NewEnricher(client, ledger))

		records, credits := runner.Run(ctx, urls)

		if err := exportRecords(records, outputPath, format); err != nil {
			return err
		}
		zap.L().Info("enrich: results exported",
			zap.String("output", outputPath),
			zap.Int("rows", len(records)),
			zap.Int("credits_used", credits),
		)

		if !enrichNoStore {
			if err := persistRun(ctx, inputPath, outputPath, records, credits); err != nil {
				// History is bookkeeping; the batch already produced its output.
				zap.L().Error("enrich: persist run history", zap.Error(err))
			}
		}

		return nil
	},
}

func init() {
	enrichCmd.Flags().StringVar(&enrichInput, "input", "", "path to newline-separated LinkedIn URLs (default from config)")
	enrichCmd.Flags().StringVar(&enrichOutput, "output", "", "output file path (default from config)")
	enrichCmd.Flags().StringVar(&enrichFormat, "format", "", "output format: csv or xlsx (default from config)")
	enrichCmd.Flags().IntVar(&enrichLimit, "limit", 0, "max profiles to process (0 = all)")
	enrichCmd.Flags().BoolVar(&enrichDryRun, "dry-run", false, "parse inputs and print URLs, skip API calls")
	enrichCmd.Flags().BoolVar(&enrichNoStore, "no-store", false, "skip recording run history")
	rootCmd.AddCommand(enrichCmd)
}

// exportRecords writes records in the requested format.
func exportRecords(records []model.PersonRecord, outputPath, format string) error {
	if format == "xlsx" {
		return enrich.ExportXLSX(records, outputPath)
	}
	return enrich.ExportCSV(records, outputPath)
}

// persistRun records the batch and its rows in the run-history store.
func persistRun(ctx context.Context, inputPath, outputPath string, records []model.PersonRecord, credits int) error {
	st, err := initStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close() //nolint:errcheck

	run, err := st.CreateRun(ctx, inputPath)
	if err != nil {
		return err
	}

	result := &model.RunResult{
		URLsTotal:   len(records),
		CreditsUsed: credits,
		OutputPath:  outputPath,
	}
	for _, rec := range records {
		result.Tally(rec.Status)
		if _, err := st.SaveContact(ctx, run.ID, rec); err != nil {
			return err
		}
	}

	return st.CompleteRun(ctx, run.ID, result)
}

// printURLsJSON prints parsed input URLs as indented JSON.
func printURLsJSON(urls []string) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(urls)
}
