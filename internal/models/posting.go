package models

import (
	"strings"

	"github.com/hyperjump/talentmatch/pkg/utils"
)

// JobPosting is one job opening offered for matching.
type JobPosting struct {
	ID       string `json:"id,omitempty"`
	Title    string `json:"title,omitempty"`
	Summary  string `json:"summary"`
	Location string `json:"location"`
	Company  string `json:"company,omitempty"`
	URL      string `json:"url,omitempty"`
}

// Usable reports whether the posting has a summary to match against.
func (p JobPosting) Usable() bool {
	return strings.TrimSpace(p.Summary) != ""
}

// MatchText is the text embedded for the posting.
func (p JobPosting) MatchText() string {
	return withLocation(p.Summary, p.Location)
}

// PostingFromRecord builds a posting from a loosely keyed record, accepting the
// field names used by job sheets ("Job Summary", "Job Location") and by job
// board payloads ("summary", "description", "location").
func PostingFromRecord(r Record) JobPosting {
	p := JobPosting{
		ID:       r.Get("id", "Job ID"),
		Title:    r.Get("title", "Job Title"),
		Summary:  r.Get("Job Summary", "summary", "Summary"),
		Location: r.Get("Job Location", "location", "Location"),
		Company:  r.Get("company", "Company"),
		URL:      r.Get("url", "redirect_url", "URL"),
	}
	if p.Summary == "" {
		p.Summary = utils.JoinNonEmpty(". ", p.Title, r.Get("description", "Description"))
	}
	return p
}

// PostingsFromRecords converts each record with PostingFromRecord.
func PostingsFromRecords(records []Record) []JobPosting {
	out := make([]JobPosting, len(records))
	for i, r := range records {
		out[i] = PostingFromRecord(r)
	}
	return out
}
