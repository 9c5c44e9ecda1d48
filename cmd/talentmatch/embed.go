package main

import (
	"context"
	"io"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hyperjump/talentmatch/internal/cli"
	"github.com/hyperjump/talentmatch/internal/indexer"
	"github.com/hyperjump/talentmatch/internal/watcher"
)

var (
	embedSheet     string
	embedDelay     time.Duration
	embedOverwrite bool
	embedWatch     bool
)

var embedCmd = &cobra.Command{
	Use:   "embed",
	Short: "Precompute candidate embeddings into the workbook",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		format, err := cli.ParseOutputFormat(outputFlag)
		if err != nil {
			return err
		}
		cfg, logger, components, err := setup(cmd.Context())
		if err != nil {
			return err
		}
		defer logger.Sync()
		defer components.Close()

		sheet := embedSheet
		if sheet == "" {
			sheet = cfg.Storage.CandidatesSheet
		}
		idx := indexer.NewIndexer(components.Records, components.Embedder,
			indexer.WithLogger(logger),
			indexer.WithDelay(embedDelay),
			indexer.WithOverwrite(embedOverwrite),
		)
		report, err := idx.IndexCandidates(cmd.Context(), sheet)
		if err != nil {
			return err
		}
		if err := cli.WriteIndexReport(cmd.OutOrStdout(), report, format); err != nil {
			return err
		}
		if !embedWatch {
			return nil
		}
		// Later runs only refresh missing or stale vectors; overwriting every row
		// would retrigger the watcher on each write.
		idx = indexer.NewIndexer(components.Records, components.Embedder,
			indexer.WithLogger(logger),
			indexer.WithDelay(embedDelay),
		)
		return watchWorkbook(cmd.Context(), cfg.Storage.WorkbookPath, idx, sheet, cmd.OutOrStdout(), format, logger)
	},
}

// watchWorkbook re-runs the indexer whenever the workbook changes until ctx is done.
func watchWorkbook(ctx context.Context, path string, idx *indexer.Indexer, sheet string, out io.Writer, format cli.OutputFormat, logger *zap.Logger) error {
	changes := make(chan struct{}, 1)
	w, err := watcher.NewWatcher([]string{path}, func(string) {
		select {
		case changes <- struct{}{}:
		default:
		}
	}, watcher.WithLogger(logger))
	if err != nil {
		return err
	}
	if err := w.Start(ctx); err != nil {
		return err
	}
	defer w.Stop()
	logger.Info("watching workbook for changes", zap.String("path", path))

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-changes:
			report, err := idx.IndexCandidates(ctx, sheet)
			if err != nil {
				logger.Warn("re-index failed", zap.Error(err))
				continue
			}
			if report.Embedded == 0 && report.Failed == 0 {
				continue
			}
			if err := cli.WriteIndexReport(out, report, format); err != nil {
				return err
			}
		}
	}
}

func init() {
	embedCmd.Flags().StringVar(&embedSheet, "sheet", "", "sheet to process (default from config)")
	embedCmd.Flags().DurationVar(&embedDelay, "delay", 0, "pause after each stored embedding, e.g. 1s")
	embedCmd.Flags().BoolVar(&embedOverwrite, "overwrite", false, "re-embed rows that already have an embedding")
	embedCmd.Flags().BoolVarP(&embedWatch, "watch", "w", false, "keep running and re-embed when the workbook changes")
	rootCmd.AddCommand(embedCmd)
}
