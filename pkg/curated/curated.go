// Package curated holds the hand-authored profile records served by the
// spotify resolver. The dataset is loaded once at startup and never mutated.
package curated

import (
	_ "embed"
	"fmt"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/codeGROOVE-dev/handlecheck/pkg/profile"
)

//go:embed dataset.yaml
var datasetYAML []byte

// Record is a hand-authored profile entry keyed by normalized username.
//
//nolint:govet // fieldalignment: mirrors dataset.yaml layout
type Record struct {
	Key              string             `yaml:"key"`
	Type             profile.Kind       `yaml:"type"`
	Name             string             `yaml:"name"`
	Followers        int                `yaml:"followers"`
	Popularity       int                `yaml:"popularity"`
	MonthlyListeners int                `yaml:"monthly_listeners"`
	Genres           []string           `yaml:"genres"`
	Image            string             `yaml:"image"`
	ExternalURL      string             `yaml:"external_url"`
	TopTracks        []profile.Track    `yaml:"top_tracks"`
	Albums           []profile.Album    `yaml:"albums"`
	Playlists        []profile.Playlist `yaml:"playlists"`
}

type document struct {
	Records []Record          `yaml:"records"`
	Aliases map[string]string `yaml:"aliases"`
}

// Dataset is an immutable set of curated records.
type Dataset struct {
	keys    []string
	records map[string]Record
	aliases map[string]string
}

var defaultDataset = mustParse(datasetYAML)

// Default returns the embedded dataset.
func Default() *Dataset { return defaultDataset }

func mustParse(data []byte) *Dataset {
	d, err := Parse(data)
	if err != nil {
		panic("curated: embedded dataset: " + err.Error())
	}
	return d
}

// Parse builds a Dataset from a YAML document.
func Parse(data []byte) (*Dataset, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse dataset: %w", err)
	}

	d := &Dataset{
		records: make(map[string]Record, len(doc.Records)),
		aliases: make(map[string]string, len(doc.Aliases)),
	}
	for _, r := range doc.Records {
		key := profile.Normalize(r.Key)
		if key == "" {
			return nil, fmt.Errorf("record %q: empty key", r.Name)
		}
		if _, dup := d.records[key]; dup {
			return nil, fmt.Errorf("duplicate key %q", key)
		}
		switch r.Type {
		case profile.KindArtist, profile.KindAccount, profile.KindUser:
		default:
			return nil, fmt.Errorf("record %q: unknown type %q", key, r.Type)
		}
		r.Key = key
		d.keys = append(d.keys, key)
		d.records[key] = r
	}
	for alias, key := range doc.Aliases {
		key = profile.Normalize(key)
		if _, ok := d.records[key]; !ok {
			return nil, fmt.Errorf("alias %q points at unknown key %q", alias, key)
		}
		d.aliases[profile.Normalize(alias)] = key
	}
	return d, nil
}

// Canonical rewrites a known alias to its canonical key; other keys are returned unchanged.
func (d *Dataset) Canonical(key string) string {
	if canonical, ok := d.aliases[key]; ok {
		return canonical
	}
	return key
}

// Keys returns the record keys in document order.
func (d *Dataset) Keys() []string {
	return slices.Clone(d.keys)
}

// Record returns a copy of the record stored under key, after alias rewriting.
func (d *Dataset) Record(key string) (Record, bool) {
	r, ok := d.records[d.Canonical(key)]
	if !ok {
		return Record{}, false
	}
	r.Genres = slices.Clone(r.Genres)
	r.TopTracks = slices.Clone(r.TopTracks)
	r.Albums = slices.Clone(r.Albums)
	r.Playlists = slices.Clone(r.Playlists)
	return r, true
}

// Lookup returns the profile for an exact key (after alias rewriting).
// Every call returns a fresh Profile.
func (d *Dataset) Lookup(key string) (*profile.Profile, bool) {
	r, ok := d.Record(key)
	if !ok {
		return nil, false
	}
	p := &profile.Profile{
		Platform:         "spotify",
		Username:         r.Key,
		Name:             r.Name,
		Type:             r.Type,
		AvatarURL:        r.Image,
		Followers:        r.Followers,
		Popularity:       r.Popularity,
		MonthlyListeners: r.MonthlyListeners,
		Genres:           r.Genres,
		Albums:           r.Albums,
		TopTracks:        r.TopTracks,
		Playlists:        r.Playlists,
		ExternalURL:      r.ExternalURL,
	}
	p.SetProvenance(profile.ProvenanceReal)
	return p, true
}
