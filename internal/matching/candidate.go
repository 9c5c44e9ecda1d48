package matching

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/hyperjump/talentmatch/internal/jobsearch"
	"github.com/hyperjump/talentmatch/internal/models"
	"github.com/hyperjump/talentmatch/internal/skillgap"
	"github.com/hyperjump/talentmatch/internal/storage"
	"github.com/hyperjump/talentmatch/pkg/utils"
)

// NoMatchesMessage accompanies an empty candidate match.
const NoMatchesMessage = "No matching jobs found."

// ErrJobSearch wraps failures of the job board query.
var ErrJobSearch = errors.New("job search failed")

// Ranker ranks postings for a candidate. *Engine implements it.
type Ranker interface {
	Match(ctx context.Context, candidate models.CandidateProfile, postings []models.JobPosting, topK int) []models.MatchResult
}

// JobSearcher finds postings on a job board.
type JobSearcher interface {
	QueryJobs(ctx context.Context, keywords, location string, maxResults int) (*jobsearch.Result, error)
}

// CandidateFlow matches a stored candidate against live job board results.
type CandidateFlow struct {
	Ranker  Ranker
	Records storage.RecordStore
	Jobs    JobSearcher
	Skills  skillgap.Analyzer
	Sheet   string
	TopK    int
	Logger  *zap.Logger
}

// MatchByEmail looks the candidate up by email, searches the job board with
// the candidate's skills and summary near their location, and ranks the
// results. An unknown email returns an error wrapping storage.ErrNotFound; a
// failed board query wraps ErrJobSearch. Finding nothing is not an error.
func (f *CandidateFlow) MatchByEmail(ctx context.Context, email string) (*models.CandidateMatchResponse, error) {
	rec, _, err := f.Records.Find(ctx, f.Sheet, models.ColumnEmail, email)
	if err != nil {
		return nil, fmt.Errorf("candidate lookup: %w", err)
	}
	candidate := models.CandidateFromRecord(rec)
	log := utils.OrNop(f.Logger).With(zap.String("email", candidate.Email))

	found, err := f.Jobs.QueryJobs(ctx, candidate.SearchKeywords(), candidate.Location, 0)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrJobSearch, err)
	}
	log.Debug("job search complete", zap.Int("count", found.Count), zap.Int("returned", len(found.Examples)))

	resp := &models.CandidateMatchResponse{
		Location:      candidate.Location,
		TopMatches:    []models.MatchView{},
		MissingSkills: []string{},
	}
	var results []models.MatchResult
	if len(found.Examples) > 0 {
		results = f.Ranker.Match(ctx, candidate, found.Postings(), f.TopK)
	}
	if len(results) == 0 {
		resp.Message = NoMatchesMessage
		return resp, nil
	}
	resp.MatchesFound = len(results)
	resp.TopMatches = models.Views(results)
	resp.MissingSkills = f.Skills.ForTopMatch(candidate.Skills, results)
	return resp, nil
}
