// Package commands assembles the permitledger CLI.
package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/shinsei-trade/permit-ledger/internal/aiparse"
	"github.com/shinsei-trade/permit-ledger/internal/config"
	"github.com/shinsei-trade/permit-ledger/internal/extract"
	"github.com/shinsei-trade/permit-ledger/internal/export"
	"github.com/shinsei-trade/permit-ledger/internal/ledger"
	"github.com/shinsei-trade/permit-ledger/internal/parse"
	"github.com/shinsei-trade/permit-ledger/internal/permit"
	"github.com/shinsei-trade/permit-ledger/internal/pipeline"
	"github.com/shinsei-trade/permit-ledger/pkg/database"
	"github.com/shinsei-trade/permit-ledger/pkg/utils"
)

// app carries the loaded configuration and logger into subcommands.
type app struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	a := &app{}
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "permitledger",
		Short: "Parse customs import permits into bookkeeping ledger rows",
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(configPath)
		},
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to YAML config file")

	rootCmd.AddCommand(newExportCommand(a))
	rootCmd.AddCommand(newShowCommand(a))

	return rootCmd
}

func (a *app) init(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger, err := utils.NewLogger(utils.LoggerConfig{
		Level:      cfg.Logger.Level,
		OutputPath: cfg.Logger.OutputPath,
		Format:     cfg.Logger.Format,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	a.cfg = cfg
	a.logger = logger
	return nil
}

func (a *app) newPipeline() *pipeline.Pipeline {
	extractor := extract.NewExtractor(a.logger)
	parser := parse.NewParser(a.logger)
	builder := permit.NewBuilder(permit.Options{
		ToleranceYen:      a.cfg.Reconcile.ToleranceYen,
		CheckItemSubtotal: a.cfg.Reconcile.CheckItemSubtotal,
	}, a.logger)
	generator := ledger.NewGenerator()

	var fallback pipeline.FallbackParser
	if a.cfg.AI.Enabled {
		fallback = aiparse.NewParser(a.cfg.AI.APIKey, a.cfg.AI.Model, a.cfg.AI.Timeout, a.logger)
	}

	return pipeline.New(extractor, parser, builder, generator, fallback, a.logger)
}

// newSink opens the configured export sink. The returned closer releases
// any underlying file or database handle and must be called once.
func (a *app) newSink() (export.Sink, func() error, error) {
	cfg := a.cfg.Export
	switch cfg.Format {
	case "csv":
		info, statErr := os.Stat(cfg.Path)
		withHeader := statErr != nil || info.Size() == 0
		f, err := os.OpenFile(cfg.Path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open %s: %w", cfg.Path, err)
		}
		return export.NewCSVSink(f, withHeader), f.Close, nil
	case "xlsx":
		return export.NewXLSXSink(cfg.Path, cfg.Sheet, a.logger), nil, nil
	case "sqlite":
		db, err := database.Open(cfg.Path, a.logger)
		if err != nil {
			return nil, nil, err
		}
		sink, err := export.NewSQLiteSink(db, a.logger)
		if err != nil {
			db.Close()
			return nil, nil, err
		}
		return sink, db.Close, nil
	default:
		return nil, nil, fmt.Errorf("unsupported export format %q", cfg.Format)
	}
}
