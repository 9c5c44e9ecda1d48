package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hyperjump/talentmatch/internal/cli"
	"github.com/hyperjump/talentmatch/internal/config"
	"github.com/hyperjump/talentmatch/internal/matching"
	"github.com/hyperjump/talentmatch/internal/models"
	"github.com/hyperjump/talentmatch/pkg/utils"
)

var (
	matchInput string
	matchEmail string
	matchTopK  int
)

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Rank job postings for a candidate",
	Long: `Rank job postings for a candidate.

With --input, reads a JSON request {"candidate": {...}, "postings": [...], "top_k": N}
from a file ("-" for stdin). With --email, looks the candidate up in the workbook
and matches against live job board results.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runMatch(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout())
	},
}

func init() {
	matchCmd.Flags().StringVarP(&matchInput, "input", "i", "", "JSON match request file, or - for stdin")
	matchCmd.Flags().StringVarP(&matchEmail, "email", "e", "", "email of a candidate in the workbook")
	matchCmd.Flags().IntVarP(&matchTopK, "top-k", "k", 0, "number of matches to return (default from config)")
	rootCmd.AddCommand(matchCmd)
}

func runMatch(ctx context.Context, stdin io.Reader, stdout io.Writer) error {
	if (matchInput == "") == (matchEmail == "") {
		return errors.New("exactly one of --input or --email is required")
	}
	format, err := cli.ParseOutputFormat(outputFlag)
	if err != nil {
		return err
	}
	var req models.MatchRequest
	if matchInput != "" {
		if err := readMatchRequest(matchInput, stdin, &req); err != nil {
			return err
		}
		if matchTopK > 0 {
			req.TopK = matchTopK
		}
	}

	cfg, logger, components, err := setup(ctx)
	if err != nil {
		return err
	}
	defer logger.Sync()
	defer components.Close()

	if matchEmail != "" {
		jobs := components.JobSearcher()
		if jobs == nil {
			return errors.New("job search credentials are not configured (set ADZUNA_APP_ID and ADZUNA_APP_KEY)")
		}
		topK := cfg.Matching.TopK
		if matchTopK > 0 {
			topK = matchTopK
		}
		flow := &matching.CandidateFlow{
			Ranker:  components.Engine,
			Records: components.Records,
			Jobs:    jobs,
			Skills:  components.Skills,
			Sheet:   cfg.Storage.CandidatesSheet,
			TopK:    topK,
			Logger:  logger,
		}
		resp, err := flow.MatchByEmail(ctx, matchEmail)
		if err != nil {
			return err
		}
		return cli.WriteCandidateMatch(stdout, resp, format)
	}

	if err := req.Validate(); err != nil {
		return err
	}
	candidate := req.Candidate.Profile()
	results := components.Engine.Match(ctx, candidate, models.PostingsFromRecords(req.Postings), req.TopK)
	logger.Debug("match finished", zap.Int("returned", len(results)))
	return cli.WriteMatchResults(stdout, &models.MatchResponse{
		Matches:       models.Views(results),
		MissingSkills: components.Skills.ForTopMatch(candidate.Skills, results),
	}, format)
}

func readMatchRequest(path string, stdin io.Reader, req *models.MatchRequest) error {
	var r io.Reader = stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("failed to open input: %w", err)
		}
		defer f.Close()
		r = f
	}
	if err := json.NewDecoder(r).Decode(req); err != nil {
		return fmt.Errorf("failed to parse match request: %w", err)
	}
	return nil
}

// setup loads config and builds a stderr logger and the components for a
// one-shot command.
func setup(ctx context.Context) (*config.Config, *zap.Logger, *Components, error) {
	cfg, resolved, err := loadConfig(cfgFile)
	if err != nil {
		return nil, nil, nil, err
	}
	logger, err := utils.NewConsoleLogger(cfg.Debug || debugFlag, jsonLogs)
	if err != nil {
		return nil, nil, nil, err
	}
	logger.Debug("config loaded", zap.String("config_path", resolved))
	components, err := initializeComponents(ctx, cfg, logger)
	if err != nil {
		_ = logger.Sync()
		return nil, nil, nil, err
	}
	return cfg, logger, components, nil
}
