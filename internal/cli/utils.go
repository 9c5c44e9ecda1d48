// Package cli provides output helpers for the talentmatch command line.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/hyperjump/talentmatch/internal/indexer"
	"github.com/hyperjump/talentmatch/internal/models"
	"github.com/hyperjump/talentmatch/pkg/utils"
)

// OutputFormat is the format for command output.
type OutputFormat string

const (
	// OutputText is human-readable text (default).
	OutputText OutputFormat = "text"
	// OutputJSON is structured JSON for machine consumption.
	OutputJSON OutputFormat = "json"
)

// ParseOutputFormat maps a flag value to an OutputFormat.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text":
		return OutputText, nil
	case "json":
		return OutputJSON, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want text or json)", s)
	}
}

// WriteMatchResults writes ranked matches to w in the given format.
func WriteMatchResults(w io.Writer, response *models.MatchResponse, format OutputFormat) error {
	if format == OutputJSON {
		return writeJSON(w, response)
	}
	if len(response.Matches) == 0 {
		fmt.Fprintln(w, "No matching jobs found.")
		return nil
	}
	fmt.Fprintf(w, "\nFound %d matches\n\n", len(response.Matches))
	for i, m := range response.Matches {
		writeOneMatch(w, i+1, m)
	}
	writeMissing(w, response.MissingSkills)
	return nil
}

// WriteCandidateMatch writes a job board match for a stored candidate.
func WriteCandidateMatch(w io.Writer, response *models.CandidateMatchResponse, format OutputFormat) error {
	if format == OutputJSON {
		return writeJSON(w, response)
	}
	if response.MatchesFound == 0 {
		msg := response.Message
		if msg == "" {
			msg = "No matching jobs found."
		}
		fmt.Fprintln(w, msg)
		return nil
	}
	fmt.Fprintf(w, "\nFound %d matches near %s\n\n", response.MatchesFound, response.Location)
	for i, m := range response.TopMatches {
		writeOneMatch(w, i+1, m)
	}
	writeMissing(w, response.MissingSkills)
	return nil
}

// WriteMissingSkills writes a missing-skill list.
func WriteMissingSkills(w io.Writer, missing []string, format OutputFormat) error {
	if format == OutputJSON {
		if missing == nil {
			missing = []string{}
		}
		return writeJSON(w, map[string][]string{"missing_skills": missing})
	}
	if len(missing) == 0 {
		fmt.Fprintln(w, "No missing skills.")
		return nil
	}
	for _, s := range missing {
		fmt.Fprintf(w, "- %s\n", s)
	}
	return nil
}

// WriteIndexReport writes the outcome of an embedding precompute run.
func WriteIndexReport(w io.Writer, report indexer.Report, format OutputFormat) error {
	if format == OutputJSON {
		return writeJSON(w, report)
	}
	fmt.Fprintln(w, report.String())
	return nil
}

func writeOneMatch(w io.Writer, rank int, m models.MatchView) {
	fmt.Fprintf(w, "─────────────────────────────────────────────────────────\n")
	fmt.Fprintf(w, "Rank: %d | Score: %.4f (Similarity: %.4f, Penalty: %.4f)\n", rank, m.Score, m.Similarity, m.Penalty)
	if m.Title != "" {
		fmt.Fprintf(w, "Title: %s\n", m.Title)
	}
	loc := m.Location
	if loc == "" {
		loc = "unknown"
	}
	if m.DistanceKM != nil {
		fmt.Fprintf(w, "Location: %s (%.1f km)\n", loc, *m.DistanceKM)
	} else {
		fmt.Fprintf(w, "Location: %s\n", loc)
	}
	if m.URL != "" {
		fmt.Fprintf(w, "URL: %s\n", m.URL)
	}
	fmt.Fprintf(w, "Why: %s\n", m.Reason)
	fmt.Fprintf(w, "\n%s\n\n", utils.Truncate(m.Summary, 200))
}

func writeMissing(w io.Writer, missing []string) {
	if len(missing) == 0 {
		return
	}
	fmt.Fprintf(w, "Missing skills for the top match: %s\n", strings.Join(missing, ", "))
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
