package skillgap

import (
	"sort"

	"github.com/hyperjump/talentmatch/internal/models"
)

// CandidateScore is a candidate ranked by the number of job skills they share.
type CandidateScore struct {
	Name   string   `json:"name"`
	Email  string   `json:"email"`
	Score  int      `json:"match_score"`
	Shared []string `json:"shared_skills"`
}

// RankCandidates scores each candidate by the count of jobSkills found in
// their skills (case-insensitive). Candidates sharing nothing are dropped; the
// rest are ordered by score descending, keeping input order on ties.
func RankCandidates(jobSkills []string, candidates []models.CandidateProfile) []CandidateScore {
	wanted := make(map[string]bool, len(jobSkills))
	for _, s := range jobSkills {
		for k := range SkillSet(s) {
			wanted[k] = true
		}
	}

	var out []CandidateScore
	for _, c := range candidates {
		var shared []string
		for s := range SkillSet(c.Skills) {
			if wanted[s] {
				shared = append(shared, s)
			}
		}
		if len(shared) == 0 {
			continue
		}
		sort.Strings(shared)
		out = append(out, CandidateScore{Name: c.Name, Email: c.Email, Score: len(shared), Shared: shared})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out
}
