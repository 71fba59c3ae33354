// Package synth fabricates plausible profiles for usernames that could not be
// confirmed against a live source. Every generated profile is marked simulated.
package synth

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/codeGROOVE-dev/handlecheck/pkg/profile"
)

// Rand is the random source used for generation.
// *rand.Rand from math/rand/v2 satisfies it.
type Rand interface {
	IntN(n int) int
}

// globalRand uses the math/rand/v2 top-level source, which is safe for concurrent use.
type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.IntN(n) }

// Generator builds synthetic profiles.
type Generator struct {
	rng Rand
	now func() time.Time
}

// Option configures a Generator.
type Option func(*Generator)

// WithRand sets the random source. The source must be safe for concurrent use
// if the Generator is shared between goroutines.
func WithRand(r Rand) Option {
	return func(g *Generator) { g.rng = r }
}

// WithClock sets the clock used to date generated albums.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) { g.now = now }
}

// New creates a Generator.
func New(opts ...Option) *Generator {
	g := &Generator{rng: globalRand{}, now: time.Now}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

var _ profile.Synthesizer = (*Generator)(nil)

// DisplayName turns a username into a display name: segments split on
// hyphens, underscores and whitespace, each capitalized, joined by spaces.
// A username made only of separators is returned normalized.
func DisplayName(username string) string {
	parts := strings.FieldsFunc(username, func(r rune) bool {
		return r == '-' || r == '_' || unicode.IsSpace(r)
	})
	if len(parts) == 0 {
		return profile.Normalize(username)
	}
	for i, part := range parts {
		first, size := utf8.DecodeRuneInString(part)
		parts[i] = string(unicode.ToUpper(first)) + strings.ToLower(part[size:])
	}
	return strings.Join(parts, " ")
}

// between returns a uniform integer in [lo, hi].
func (g *Generator) between(lo, hi int) int {
	return lo + g.rng.IntN(hi-lo+1)
}

func (g *Generator) pick(pool []string) string {
	return pool[g.rng.IntN(len(pool))]
}

// sample returns n distinct entries of pool in random order.
func (g *Generator) sample(pool []string, n int) []string {
	s := append([]string(nil), pool...)
	n = min(n, len(s))
	for i := range n {
		j := i + g.rng.IntN(len(s)-i)
		s[i], s[j] = s[j], s[i]
	}
	return s[:n]
}

const base62 = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

// id returns a random base62 identifier in the style of Spotify object ids.
func (g *Generator) id() string {
	var sb strings.Builder
	for range 22 {
		sb.WriteByte(base62[g.rng.IntN(len(base62))])
	}
	return sb.String()
}

// Artist fabricates an artist profile.
func (g *Generator) Artist(username string) *profile.Profile {
	theme := genrePools[g.rng.IntN(len(genrePools))]
	albums := g.albums()

	p := &profile.Profile{
		Platform:         "spotify",
		Username:         profile.Normalize(username),
		Name:             DisplayName(username),
		Type:             profile.KindArtist,
		AvatarURL:        g.pick(artistImages),
		Followers:        g.between(1_000, 4_999_999),
		Popularity:       g.between(20, 89),
		MonthlyListeners: g.between(5_000, 9_999_999),
		Genres:           g.sample(theme.tags, g.between(2, 4)),
		Albums:           albums,
		TopTracks:        g.topTracks(albums),
		ExternalURL:      "https://open.spotify.com/artist/" + g.id(),
	}
	p.SetProvenance(profile.ProvenanceSimulated)
	return p
}

func (g *Generator) albums() []profile.Album {
	n := g.between(2, 3)
	adjectives := g.sample(albumAdjectives, n)
	year := g.now().Year()

	albums := make([]profile.Album, n)
	for i := range albums {
		albums[i] = profile.Album{
			Name:        adjectives[i] + " " + g.pick(albumNouns),
			ReleaseDate: fmt.Sprintf("%04d-%02d-%02d", year-1-i, g.between(1, 12), g.between(1, 28)),
			TotalTracks: g.between(8, 17),
			Image:       g.pick(coverImages),
		}
	}
	return albums
}

func (g *Generator) topTracks(albums []profile.Album) []profile.Track {
	tracks := make([]profile.Track, 5)
	for i := range tracks {
		tracks[i] = profile.Track{
			Name:       g.pick(trackFirstWords) + " " + g.pick(trackSecondWords),
			Album:      albums[g.rng.IntN(len(albums))].Name,
			Popularity: g.between(30, 99),
			DurationMs: g.between(150_000, 299_999),
		}
	}
	return tracks
}

// Listener fabricates a listener (user) profile with a few playlists.
func (g *Generator) Listener(username string) *profile.Profile {
	name := DisplayName(username)
	u := profile.Normalize(username)

	playlists := make([]profile.Playlist, g.between(2, 4))
	for i := range playlists {
		var title string
		if g.rng.IntN(2) == 0 {
			title = g.pick(playlistPrefixes) + " " + g.pick(playlistGenres)
		} else {
			title = name + "'s " + g.pick(playlistKinds)
		}
		playlists[i] = profile.Playlist{
			Name:      title,
			Followers: g.between(0, 999),
			Tracks:    g.between(10, 149),
			Image:     g.pick(coverImages),
		}
	}

	p := &profile.Profile{
		Platform:    "spotify",
		Username:    u,
		Name:        name,
		Type:        profile.KindUser,
		Followers:   g.between(0, 499),
		Playlists:   playlists,
		ExternalURL: "https://open.spotify.com/user/" + u,
	}
	p.SetProvenance(profile.ProvenanceSimulated)
	return p
}

// Account fabricates a generic social account on the given platform.
func (g *Generator) Account(platform, username, profileURL string) *profile.Profile {
	p := &profile.Profile{
		Platform:  platform,
		Username:  username,
		Name:      DisplayName(username),
		Bio:       g.pick(bios),
		AvatarURL: g.pick(avatarImages),
		URL:       profileURL,
		Followers: g.between(100, 49_999),
		Following: g.between(10, 999),
		Posts:     g.between(5, 499),
	}
	p.SetProvenance(profile.ProvenanceSimulated)
	return p
}
