package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hyperjump/talentmatch/internal/server"
	"github.com/hyperjump/talentmatch/internal/storage"
	"github.com/hyperjump/talentmatch/pkg/utils"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the HTTP server",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runServer(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)
}

func runServer(ctx context.Context) error {
	cfg, resolvedConfigPath, err := loadConfig(cfgFile)
	if err != nil {
		return err
	}
	debugMode := cfg.Debug || debugFlag
	logger, err := newServerLogger(debugMode, jsonLogs)
	if err != nil {
		return err
	}
	defer logger.Sync()

	logger.Info("config loaded",
		zap.String("config_path", resolvedConfigPath),
		zap.Bool("debug", debugMode),
	)

	components, err := initializeComponents(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize components", zap.Error(err))
		return err
	}
	defer components.Close()

	opts := []server.Option{server.WithMetrics(components.Metrics)}
	if components.Embeddings != nil {
		opts = append(opts, server.WithEmbeddingStore(storage.EmbeddingStore(components.Embeddings)))
	}
	srv := server.NewServer(
		components.Engine,
		components.Records,
		components.JobSearcher(),
		cfg,
		logger,
		opts...,
	)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		logger.Error("Server failed", zap.Error(err))
		return err
	}

	logger.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Stop(shutdownCtx)
}

// newServerLogger honours --json; without it debug mode logs in the
// development console format and normal mode in JSON.
func newServerLogger(debug, jsonOutput bool) (*zap.Logger, error) {
	if jsonOutput {
		return utils.NewJSONLogger(debug)
	}
	return utils.NewLogger(debug)
}
