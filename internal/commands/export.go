package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/shinsei-trade/permit-ledger/internal/config"
)

func newExportCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export <permit.pdf>...",
		Short: "Parse import permits and append their ledger rows to the export target",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := applyExportOverrides(cmd.Flags(), a.cfg); err != nil {
				return err
			}
			jobs, _ := cmd.Flags().GetInt("jobs")
			return runExport(a, args, jobs)
		},
	}

	cmd.Flags().String("out", "", "export target path (overrides config)")
	cmd.Flags().String("format", "", "export format: csv, xlsx or sqlite (overrides config)")
	cmd.Flags().Int("jobs", 4, "number of documents to process concurrently")
	cmd.Flags().Int64("tolerance", 0, "reconciliation tolerance in yen (overrides config)")
	cmd.Flags().Bool("ai-fallback", false, "enable the AI fallback parser (overrides config)")

	return cmd
}

// applyExportOverrides folds the export flags into the loaded configuration
// and revalidates it. Flags the user did not set leave the config untouched.
func applyExportOverrides(flags *pflag.FlagSet, cfg *config.Config) error {
	if v, _ := flags.GetString("out"); v != "" {
		cfg.Export.Path = v
	}
	if v, _ := flags.GetString("format"); v != "" {
		cfg.Export.Format = v
	}
	if flags.Changed("tolerance") {
		v, _ := flags.GetInt64("tolerance")
		cfg.Reconcile.ToleranceYen = v
	}
	if flags.Changed("ai-fallback") {
		v, _ := flags.GetBool("ai-fallback")
		cfg.AI.Enabled = v
	}
	return cfg.Validate()
}

func runExport(a *app, paths []string, jobs int) error {
	sink, closeSink, err := a.newSink()
	if err != nil {
		return err
	}
	if closeSink != nil {
		defer func() {
			if err := closeSink(); err != nil {
				a.logger.Warn("failed to close export sink", zap.Error(err))
			}
		}()
	}

	p := a.newPipeline()
	ctx := context.Background()
	items := p.ProcessBatch(ctx, paths, jobs)

	var failed int
	for _, item := range items {
		if item.Err != nil {
			failed++
			a.logger.Error("document failed",
				zap.String("source", item.Source),
				zap.Error(item.Err))
			continue
		}
		if err := sink.Append(ctx, item.Result.Rows); err != nil {
			return fmt.Errorf("failed to export rows for %s: %w", item.Source, err)
		}
	}

	a.logger.Info("export finished",
		zap.Int("documents", len(paths)),
		zap.Int("failed", failed),
		zap.String("target", a.cfg.Export.Path))

	if failed > 0 {
		return fmt.Errorf("%d of %d documents failed", failed, len(paths))
	}
	return nil
}
