package matching

import "testing"

func TestExplain(t *testing.T) {
	tests := []struct {
		name      string
		candidate string
		posting   string
		minLen    int
		wantTerms int
		wantRsn   string
	}{
		{"shared", "Data engineer with Python", "Python data pipelines", 4, 2, "shared terms: data, python"},
		{"short tokens dropped", "Go and C", "Go and C", 4, 0, DefaultFallbackReason},
		{"min length override", "Go dev", "Go team", 2, 1, "shared terms: go"},
		{"punctuation stripped", "Kubernetes, Docker!", "docker; kubernetes.", 0, 2, "shared terms: docker, kubernetes"},
		{"empty posting", "anything here", "", 4, 0, DefaultFallbackReason},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			terms, reason := Explain(tt.candidate, tt.posting, tt.minLen, "")
			if len(terms) != tt.wantTerms {
				t.Errorf("terms = %v, want %d", terms, tt.wantTerms)
			}
			if reason != tt.wantRsn {
				t.Errorf("reason = %q, want %q", reason, tt.wantRsn)
			}
		})
	}
}

func TestExplain_CustomFallback(t *testing.T) {
	_, reason := Explain("alpha", "omega", 4, "related role")
	if reason != "related role" {
		t.Errorf("reason = %q", reason)
	}
}
