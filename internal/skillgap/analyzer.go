// Package skillgap finds job keywords a candidate's skills do not cover and
// ranks candidates by skill overlap with a job.
package skillgap

import (
	"sort"
	"strings"

	"github.com/hyperjump/talentmatch/internal/keyword"
	"github.com/hyperjump/talentmatch/internal/models"
)

// DefaultLimit is the number of missing skills returned when no limit is given.
const DefaultLimit = 5

// MissingSkills returns up to limit lowercase tokens of jobText that are not
// among the comma-separated candidateSkills. Job tokens are whitespace
// separated and trimmed of ".,()". Results are ordered by how often the token
// occurs in jobText, then alphabetically. limit <= 0 uses DefaultLimit.
func MissingSkills(candidateSkills, jobText string, limit int) []string {
	a := Analyzer{Limit: limit}
	return a.Missing(candidateSkills, jobText)
}

// Analyzer is a configurable MissingSkills.
type Analyzer struct {
	Limit int
	// IgnoreStopWords drops common English words from the job tokens.
	IgnoreStopWords bool
	// SplitMultiWordSkills also treats each word of a multi-word skill
	// ("machine learning") as known.
	SplitMultiWordSkills bool
	// MaxTypos treats a job token within this many edits of a known skill as
	// known. Only tokens of at least MinTypoLength runes qualify.
	MaxTypos int
}

// MinTypoLength is the shortest token eligible for typo tolerance.
const MinTypoLength = 5

// Missing returns the job tokens absent from the candidate's skills.
func (a Analyzer) Missing(candidateSkills, jobText string) []string {
	limit := a.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}

	known := a.skillSet(candidateSkills)
	counts := make(map[string]int)
	for _, tok := range JobTokens(jobText) {
		if known[tok] || a.nearSkill(tok, known) {
			continue
		}
		if a.IgnoreStopWords && keyword.IsStopWord(tok) {
			continue
		}
		counts[tok]++
	}

	missing := make([]string, 0, len(counts))
	for tok := range counts {
		missing = append(missing, tok)
	}
	sort.Slice(missing, func(i, j int) bool {
		ci, cj := counts[missing[i]], counts[missing[j]]
		if ci != cj {
			return ci > cj
		}
		return missing[i] < missing[j]
	})
	if len(missing) > limit {
		missing = missing[:limit]
	}
	return missing
}

func (a Analyzer) skillSet(skills string) map[string]bool {
	set := SkillSet(skills)
	if a.SplitMultiWordSkills {
		for s := range set {
			for _, w := range strings.Fields(s) {
				set[w] = true
			}
		}
	}
	return set
}

func (a Analyzer) nearSkill(tok string, known map[string]bool) bool {
	if a.MaxTypos <= 0 {
		return false
	}
	for s := range known {
		if keyword.Near(tok, s, a.MaxTypos, MinTypoLength) {
			return true
		}
	}
	return false
}

// JobTokens splits text on whitespace, lowercases each token, and trims
// '.', ',', '(' and ')' from its ends. Empty tokens are dropped.
func JobTokens(text string) []string {
	fields := strings.Fields(text)
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		tok := strings.Trim(strings.ToLower(f), ".,()")
		if tok != "" {
			out = append(out, tok)
		}
	}
	return out
}

// SkillSet splits a comma-separated skills string into a set of trimmed,
// lowercase skills.
func SkillSet(skills string) map[string]bool {
	set := make(map[string]bool)
	for _, s := range strings.Split(skills, ",") {
		if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
			set[s] = true
		}
	}
	return set
}

// ForTopMatch returns the skills missing for the best of results, or an empty
// list when there are no results.
func (a Analyzer) ForTopMatch(candidateSkills string, results []models.MatchResult) []string {
	if len(results) == 0 {
		return []string{}
	}
	return a.Missing(candidateSkills, results[0].Posting.Summary)
}
