package models

import (
	"fmt"
	"strings"
)

// MaxPostingsPerRequest bounds the postings accepted in one match request.
const MaxPostingsPerRequest = 200

// CandidateInput is the request form of a candidate profile.
type CandidateInput struct {
	Name     string    `json:"name,omitempty"`
	Email    string    `json:"email,omitempty"`
	Summary  string    `json:"summary"`
	Skills   SkillList `json:"skills"`
	Location string    `json:"location"`
}

// Profile normalizes the input into a CandidateProfile.
func (c CandidateInput) Profile() CandidateProfile {
	return CandidateProfile{
		Name:     strings.TrimSpace(c.Name),
		Email:    strings.TrimSpace(c.Email),
		Summary:  strings.TrimSpace(c.Summary),
		Skills:   c.Skills.String(),
		Location: strings.TrimSpace(c.Location),
	}
}

// MatchRequest asks for the best postings for one candidate.
type MatchRequest struct {
	Candidate CandidateInput `json:"candidate"`
	Postings  []Record       `json:"postings"`
	TopK      int            `json:"top_k,omitempty"`
}

// Validate checks the request bounds. A candidate without text is not an
// error; it simply yields no matches.
func (q *MatchRequest) Validate() error {
	if len(q.Postings) > MaxPostingsPerRequest {
		return fmt.Errorf("too many postings: %d (max %d)", len(q.Postings), MaxPostingsPerRequest)
	}
	if q.TopK < 0 {
		return fmt.Errorf("top_k must not be negative")
	}
	return nil
}

// MatchResponse is returned by the match endpoints.
type MatchResponse struct {
	Matches       []MatchView `json:"matches"`
	MissingSkills []string    `json:"missing_skills"`
}

// SkillGapRequest asks which job keywords the candidate's skills lack.
type SkillGapRequest struct {
	Skills  SkillList `json:"skills"`
	JobText string    `json:"job_text"`
	Limit   int       `json:"limit,omitempty"`
}

// CandidateMatchRequest identifies a registered candidate by email.
type CandidateMatchRequest struct {
	Email string `json:"email"`
}

// Validate ensures the email is present.
func (q *CandidateMatchRequest) Validate() error {
	q.Email = strings.TrimSpace(q.Email)
	if q.Email == "" {
		return fmt.Errorf("email is required")
	}
	return nil
}

// CandidateMatchResponse is the job board match result for a stored candidate.
type CandidateMatchResponse struct {
	MatchesFound  int         `json:"matches_found"`
	Location      string      `json:"location"`
	TopMatches    []MatchView `json:"top_matches"`
	MissingSkills []string    `json:"missing_skills"`
	Message       string      `json:"message,omitempty"`
}

// JobCandidatesRequest asks for stored candidates sharing the given skills.
type JobCandidatesRequest struct {
	Skills SkillList `json:"skills"`
	Limit  int       `json:"limit,omitempty"`
}

// Validate ensures at least one skill is given.
func (q *JobCandidatesRequest) Validate() error {
	if len(q.Skills) == 0 {
		return fmt.Errorf("skills are required")
	}
	return nil
}
