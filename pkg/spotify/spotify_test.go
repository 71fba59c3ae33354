package spotify

import (
	"context"
	"io"
	"log/slog"
	"math/rand/v2"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/codeGROOVE-dev/handlecheck/pkg/curated"
	"github.com/codeGROOVE-dev/handlecheck/pkg/profile"
	"github.com/codeGROOVE-dev/handlecheck/pkg/synth"
)

func newTestClient(t *testing.T, opts ...Option) *Client {
	t.Helper()
	gen := synth.New(
		synth.WithRand(rand.New(rand.NewPCG(11, 12))),
		synth.WithClock(func() time.Time { return time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC) }),
	)
	base := []Option{
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithGenerator(gen),
	}
	c, err := New(context.Background(), append(base, opts...)...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return c
}

func resolve(t *testing.T, c *Client, username string) profile.Result {
	t.Helper()
	got, err := c.Resolve(context.Background(), username)
	if err != nil {
		t.Fatalf("Resolve(%q) error = %v", username, err)
	}
	if got.Exists == (got.Profile == nil) {
		t.Fatalf("Resolve(%q) = %+v, malformed envelope", username, got)
	}
	return got
}

func TestResolveExact(t *testing.T) {
	c := newTestClient(t)
	got := resolve(t, c, "drake")
	if !got.Exists {
		t.Fatal("drake should exist")
	}
	p := got.Profile
	if p.Name != "Drake" {
		t.Errorf("Name = %q, want Drake", p.Name)
	}
	if p.Simulated || p.Scraped || p.Note != "" {
		t.Errorf("curated record carries flags: simulated=%v scraped=%v note=%q", p.Simulated, p.Scraped, p.Note)
	}

	want, _ := curated.Default().Lookup("drake")
	if diff := cmp.Diff(want, resolve(t, c, " Drake ").Profile); diff != "" {
		t.Errorf("repeated lookup differs (-want +got):\n%s", diff)
	}
}

func TestResolveAlias(t *testing.T) {
	got := resolve(t, newTestClient(t), "weeknd")
	if !got.Exists || got.Profile.Name != "The Weeknd" || got.Profile.Note != "" {
		t.Errorf("Resolve(weeknd) = %+v, want The Weeknd without note", got.Profile)
	}
}

func TestResolveCloseMatch(t *testing.T) {
	tests := []struct {
		query    string
		wantName string
	}{
		{"adel", "Adele"},
		{"ADEL", "Adele"},
		{"drak", "Drake"},
		{"drakee", "Drake"},
		{"taylorswif", "Taylor Swift"},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got := resolve(t, newTestClient(t), tt.query)
			if !got.Exists {
				t.Fatal("Exists = false, want true")
			}
			p := got.Profile
			if p.Name != tt.wantName {
				t.Errorf("Name = %q, want %q", p.Name, tt.wantName)
			}
			if !strings.Contains(p.Note, tt.query) || !strings.Contains(p.Note, tt.wantName) {
				t.Errorf("Note = %q, want mention of %q and %q", p.Note, tt.query, tt.wantName)
			}
			if p.Simulated {
				t.Error("close match should not be simulated")
			}
		})
	}
}

func TestResolveSynthetic(t *testing.T) {
	tests := []struct {
		name     string
		username string
		want     profile.Kind
		exists   bool
	}{
		{"brand-like name", "midnight-owls", profile.KindArtist, true},
		{"spaced name", "Neon Harbor", profile.KindArtist, true},
		{"digit run", "user12345", profile.KindUser, true},
		{"three letters", "zed", profile.KindUser, true},
		{"three digits", "123", profile.KindUser, true},
		{"too short", "12", "", false},
		{"two accented letters", "éé", "", false},
		{"two kanji", "日本", "", false},
		{"three kanji", "日本語", profile.KindUser, true},
		{"four kanji", "日本語名", profile.KindArtist, true},
		{"short with space", "a 12345", "", false},
		{"blank", "   ", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := resolve(t, newTestClient(t), tt.username)
			if got.Exists != tt.exists {
				t.Fatalf("Exists = %v, want %v", got.Exists, tt.exists)
			}
			if !tt.exists {
				return
			}
			p := got.Profile
			if p.Type != tt.want {
				t.Errorf("Type = %q, want %q", p.Type, tt.want)
			}
			if !p.Simulated || p.Provenance != profile.ProvenanceSimulated {
				t.Errorf("synthetic profile not marked simulated: %+v", p)
			}
			if p.ExternalURL == "" {
				t.Error("ExternalURL is empty")
			}
		})
	}
}

func TestResolveSyntheticArtistShape(t *testing.T) {
	c := newTestClient(t)
	for i := range 50 {
		got := resolve(t, c, "midnight-owls")
		p := got.Profile
		if p.Name != "Midnight Owls" {
			t.Fatalf("Name = %q, want Midnight Owls", p.Name)
		}
		if len(p.TopTracks) != 5 {
			t.Fatalf("run %d: %d top tracks, want 5", i, len(p.TopTracks))
		}
		albums := make(map[string]bool)
		for _, a := range p.Albums {
			albums[a.Name] = true
		}
		for _, tr := range p.TopTracks {
			if !albums[tr.Album] {
				t.Errorf("run %d: track %q references unknown album %q", i, tr.Name, tr.Album)
			}
		}
	}
}

func TestResolveSeparatorsOnly(t *testing.T) {
	got := resolve(t, newTestClient(t), "____")
	if !got.Exists || got.Profile.Type != profile.KindArtist {
		t.Fatalf("Resolve(____) = %+v, want synthetic artist", got)
	}
	if got.Profile.Name != "____" {
		t.Errorf("Name = %q, want ____", got.Profile.Name)
	}
}

func TestWithDataset(t *testing.T) {
	data, err := curated.Parse([]byte(`
records:
  - key: solo
    type: artist
    name: Solo Act
`))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	c := newTestClient(t, WithDataset(data))

	if got := resolve(t, c, "solo"); got.Profile.Name != "Solo Act" {
		t.Errorf("Resolve(solo) = %+v", got.Profile)
	}
	if got := resolve(t, c, "drake"); got.Profile.Provenance != profile.ProvenanceSimulated {
		t.Errorf("drake outside custom dataset should be synthetic, got %q", got.Profile.Provenance)
	}
}
