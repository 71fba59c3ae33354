package similarity

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDistance(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"drake", "drake", 0},
		{"adel", "adele", 1},
		{"kitten", "sitting", 3},
		{"", "abc", 3},
		{"flaw", "lawn", 2},
		{"weeknd", "theweeknd", 3},
		{"café", "cafe", 1},
	}

	for _, tt := range tests {
		t.Run(tt.a+"->"+tt.b, func(t *testing.T) {
			if got := Distance(tt.a, tt.b); got != tt.want {
				t.Errorf("Distance(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
			}
			if got := Distance(tt.b, tt.a); got != tt.want {
				t.Errorf("Distance(%q, %q) = %d, want %d (symmetry)", tt.b, tt.a, got, tt.want)
			}
		})
	}
}

func TestDistanceZeroOnlyForEqual(t *testing.T) {
	words := []string{"", "a", "ab", "ba", "drake", "Drake", "adele", "adel"}
	for _, a := range words {
		for _, b := range words {
			if got := Distance(a, b) == 0; got != (a == b) {
				t.Errorf("Distance(%q, %q) == 0 is %v, want %v", a, b, got, a == b)
			}
		}
	}
}

func TestCloseMatches(t *testing.T) {
	candidates := []string{"drake", "adele", "adela", "taylorswift"}

	tests := []struct {
		name  string
		query string
		max   int
		want  []string
	}{
		{"exact", "drake", 0, []string{"drake"}},
		{"one edit keeps candidate order", "adel", 2, []string{"adele", "adela"}},
		{"none", "12", 2, nil},
		{"wide threshold", "adel", 4, []string{"drake", "adele", "adela"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CloseMatches(tt.query, candidates, tt.max)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("CloseMatches() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFirstPrefersCandidateOrder(t *testing.T) {
	// "adela" is an exact match, but "adele" comes first and is within range.
	got, ok := First("adela", []string{"adele", "adela"}, 2)
	if !ok || got != "adele" {
		t.Errorf("First() = %q, %v; want %q, true", got, ok, "adele")
	}

	if _, ok := First("zz", []string{"adele"}, 2); ok {
		t.Error("First() found a match for an unrelated query")
	}
}
