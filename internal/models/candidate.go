package models

import "strings"

// Column names used by the candidates sheet.
const (
	ColumnName      = "Name"
	ColumnEmail     = "Email"
	ColumnSummary   = "Summary"
	ColumnSkills    = "Skills"
	ColumnLocation  = "Location"
	ColumnEmbedding = "Embedding"
	// ColumnEmbeddingKey holds the cache key of the model and text the
	// Embedding column was computed from.
	ColumnEmbeddingKey = "Embedding Key"
)

// CandidateProfile describes a job seeker. Skills is a comma-separated list.
type CandidateProfile struct {
	Name     string `json:"name,omitempty"`
	Email    string `json:"email,omitempty"`
	Summary  string `json:"summary"`
	Skills   string `json:"skills"`
	Location string `json:"location"`
	// StoredEmbedding is the encoded precomputed embedding, if any.
	StoredEmbedding string `json:"-"`
	// StoredEmbeddingKey is the cache key of the text StoredEmbedding was computed from.
	StoredEmbeddingKey string `json:"-"`
}

// Degenerate reports whether the profile has neither summary nor skills.
func (c CandidateProfile) Degenerate() bool {
	return strings.TrimSpace(c.Summary) == "" && strings.TrimSpace(c.Skills) == ""
}

// MatchText is the text embedded for the candidate: the summary (or the skills
// when no summary is given) followed by the location. Empty when the profile is degenerate.
func (c CandidateProfile) MatchText() string {
	body := strings.TrimSpace(c.Summary)
	if body == "" {
		body = strings.TrimSpace(c.Skills)
	}
	return withLocation(body, c.Location)
}

// ExplanationText is the text compared against posting summaries when
// explaining a match.
func (c CandidateProfile) ExplanationText() string {
	if s := strings.TrimSpace(c.Summary); s != "" {
		return s
	}
	return strings.TrimSpace(c.Skills)
}

// SearchKeywords returns the free text used to query job boards for this candidate.
func (c CandidateProfile) SearchKeywords() string {
	return strings.TrimSpace(strings.TrimSpace(c.Skills) + " " + strings.TrimSpace(c.Summary))
}

// CandidateFromRecord builds a profile from a candidates sheet row.
func CandidateFromRecord(r Record) CandidateProfile {
	return CandidateProfile{
		Name:               r.Get(ColumnName, "Full Name"),
		Email:              r.Get(ColumnEmail),
		Summary:            r.Get(ColumnSummary),
		Skills:             r.Get(ColumnSkills),
		Location:           r.Get(ColumnLocation),
		StoredEmbedding:    r.Get(ColumnEmbedding),
		StoredEmbeddingKey: r.Get(ColumnEmbeddingKey),
	}
}

func withLocation(body, location string) string {
	body = strings.TrimSpace(body)
	if body == "" {
		return ""
	}
	location = strings.TrimSpace(location)
	if location == "" {
		return body
	}
	return body + ". Location: " + location
}
