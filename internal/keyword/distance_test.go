package keyword

import "testing"

func TestEditDistance(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"go", "", 2},
		{"", "sql", 3},
		{"kubernetes", "kubernetes", 0},
		{"postgres", "postgress", 1},
		{"kitten", "sitting", 3},
		{"café", "cafe", 1},
	}
	for _, tt := range tests {
		if got := EditDistance(tt.a, tt.b); got != tt.want {
			t.Errorf("EditDistance(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestNear(t *testing.T) {
	tests := []struct {
		a, b     string
		maxEdits int
		want     bool
	}{
		{"javascript", "javascrpit", 2, true},
		{"javascript", "javascrpit", 1, false},
		{"docker", "docker", 0, true},
		{"docker", "dockers", 0, false},
		{"go", "js", 2, false},
		{"terraform", "terra", 2, false},
	}
	for _, tt := range tests {
		if got := Near(tt.a, tt.b, tt.maxEdits, 5); got != tt.want {
			t.Errorf("Near(%q, %q, %d) = %v, want %v", tt.a, tt.b, tt.maxEdits, got, tt.want)
		}
	}
}
