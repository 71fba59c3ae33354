// Package profile defines the common types shared by every platform resolver.
package profile

import (
	"errors"
	"strings"
	"unicode"
)

// Common errors returned by platform packages.
var (
	// ErrProfileNotFound means the remote explicitly reported that the profile does not exist.
	ErrProfileNotFound = errors.New("profile not found")
	// ErrUnavailable covers network failures, timeouts, rate limiting and 5xx responses.
	ErrUnavailable = errors.New("platform unavailable")
	// ErrParse means a successful response did not contain the data needed to identify a profile.
	ErrParse = errors.New("unparseable response")
	// ErrInternal is the only error class surfaced to callers of Resolve.
	ErrInternal = errors.New("internal error")
)

// Provenance records where a profile's data came from.
type Provenance string

// Provenance values.
const (
	ProvenanceReal      Provenance = "real"      // confirmed by an authoritative source
	ProvenanceScraped   Provenance = "scraped"   // confirmed by parsing a public page
	ProvenanceSimulated Provenance = "simulated" // fabricated
)

// Kind discriminates the shape of music-platform records.
type Kind string

// Kind values.
const (
	KindArtist  Kind = "artist"
	KindAccount Kind = "account"
	KindUser    Kind = "user"
)

// Repository is a recently updated code repository.
type Repository struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
	URL         string `json:"html_url" yaml:"html_url"`
	Stars       int    `json:"stargazers_count" yaml:"stargazers_count"`
	Language    string `json:"language" yaml:"language"`
}

// Album is a released album.
type Album struct {
	Name        string `json:"name" yaml:"name"`
	ReleaseDate string `json:"release_date" yaml:"release_date"`
	TotalTracks int    `json:"total_tracks" yaml:"total_tracks"`
	Image       string `json:"image,omitempty" yaml:"image"`
}

// Track is one of an artist's top tracks.
type Track struct {
	Name       string `json:"name" yaml:"name"`
	Album      string `json:"album" yaml:"album"`
	Popularity int    `json:"popularity" yaml:"popularity"`
	DurationMs int    `json:"duration_ms" yaml:"duration_ms"`
}

// Playlist is a user-curated playlist.
type Playlist struct {
	Name      string `json:"name" yaml:"name"`
	Followers int    `json:"followers" yaml:"followers"`
	Tracks    int    `json:"tracks" yaml:"tracks"`
	Image     string `json:"image,omitempty" yaml:"image"`
}

// Profile is the normalized summary of a profile on one platform.
// Which fields are populated depends on the platform and the provenance.
//
//nolint:govet // fieldalignment: intentional layout for readability
type Profile struct {
	// Metadata
	Platform   string     `json:"platform"`
	Username   string     `json:"username"`
	Provenance Provenance `json:"provenance"`
	Simulated  bool       `json:"simulated,omitempty"`
	Scraped    bool       `json:"scraped,omitempty"`
	Note       string     `json:"note,omitempty"` // set only when a close match was substituted

	// Account data
	Name        string       `json:"name,omitempty"`
	Bio         string       `json:"bio,omitempty"`
	AvatarURL   string       `json:"avatar_url,omitempty"`
	URL         string       `json:"url,omitempty"`
	Followers   int          `json:"followers"`
	Following   int          `json:"following,omitempty"`
	Posts       int          `json:"posts,omitempty"`
	Verified    bool         `json:"verified,omitempty"`
	Location    string       `json:"location,omitempty"`
	Company     string       `json:"company,omitempty"`
	CreatedAt   string       `json:"created_at,omitempty"`
	PublicRepos int          `json:"public_repos,omitempty"`
	Repos       []Repository `json:"repositories,omitempty"`

	// Music data
	Type             Kind       `json:"type,omitempty"`
	Popularity       int        `json:"popularity,omitempty"`
	MonthlyListeners int        `json:"monthly_listeners,omitempty"`
	Genres           []string   `json:"genres,omitempty"`
	Albums           []Album    `json:"albums,omitempty"`
	TopTracks        []Track    `json:"top_tracks,omitempty"`
	Playlists        []Playlist `json:"playlists,omitempty"`
	ExternalURL      string     `json:"external_url,omitempty"`

	// Platform-specific extras (likes, subscribers, etc.)
	Fields map[string]string `json:"fields,omitempty"`
}

// SetProvenance sets the provenance and the matching caller-facing flag.
func (p *Profile) SetProvenance(pv Provenance) {
	p.Provenance = pv
	p.Simulated = pv == ProvenanceSimulated
	p.Scraped = pv == ProvenanceScraped
}

// Result is the uniform envelope returned for every query.
// Profile is nil if and only if Exists is false.
type Result struct {
	Exists  bool     `json:"exists"`
	Profile *Profile `json:"profile"`
}

// Found wraps an existing profile.
func Found(p *Profile) Result {
	if p == nil {
		return NotFound()
	}
	return Result{Exists: true, Profile: p}
}

// NotFound is the result for a profile that does not exist.
func NotFound() Result {
	return Result{}
}

// Normalize lowercases a username and strips all whitespace.
func Normalize(username string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return unicode.ToLower(r)
	}, username)
}

// Handle normalizes a username and removes a leading "@".
func Handle(username string) string {
	return strings.TrimPrefix(Normalize(username), "@")
}
