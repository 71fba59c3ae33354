// Package spotify resolves Spotify artists and listeners from the curated dataset.
// It makes no network calls: an exact record wins, then the first record within
// edit distance 2, and otherwise a synthetic artist or listener is generated.
package spotify

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/codeGROOVE-dev/handlecheck/pkg/curated"
	"github.com/codeGROOVE-dev/handlecheck/pkg/pipeline"
	"github.com/codeGROOVE-dev/handlecheck/pkg/profile"
	"github.com/codeGROOVE-dev/handlecheck/pkg/similarity"
	"github.com/codeGROOVE-dev/handlecheck/pkg/synth"
)

const (
	platform = "spotify"

	// maxDistance is the largest edit distance accepted as a misspelling.
	maxDistance = 2
)

// platformInfo implements profile.Platform for Spotify.
type platformInfo struct{}

func (platformInfo) Name() string               { return platform }
func (platformInfo) Strategy() profile.Strategy { return profile.StrategyDataset }

func init() { profile.Register(platformInfo{}, newResolver) }

func newResolver(ctx context.Context, cfg *profile.ResolverConfig) (profile.Resolver, error) {
	var opts []Option
	if cfg != nil {
		if cfg.Logger != nil {
			opts = append(opts, WithLogger(cfg.Logger))
		}
		if cfg.Generator != nil {
			opts = append(opts, WithGenerator(cfg.Generator))
		}
	}
	return New(ctx, opts...)
}

var digitRun = regexp.MustCompile(`\d{3,}`)

// Client resolves Spotify usernames.
type Client struct {
	data   *curated.Dataset
	gen    profile.Synthesizer
	logger *slog.Logger
}

// Option configures a Client.
type Option func(*config)

type config struct {
	data   *curated.Dataset
	gen    profile.Synthesizer
	logger *slog.Logger
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) { c.logger = logger }
}

// WithGenerator sets the generator for usernames outside the dataset.
func WithGenerator(gen profile.Synthesizer) Option {
	return func(c *config) { c.gen = gen }
}

// WithDataset replaces the embedded curated dataset.
func WithDataset(d *curated.Dataset) Option {
	return func(c *config) { c.data = d }
}

// New creates a Spotify client.
func New(_ context.Context, opts ...Option) (*Client, error) {
	cfg := &config{logger: slog.Default()}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}
	if cfg.data == nil {
		cfg.data = curated.Default()
	}
	if cfg.gen == nil {
		cfg.gen = synth.New()
	}
	return &Client{data: cfg.data, gen: cfg.gen, logger: cfg.logger}, nil
}

// Resolve reports whether username names a Spotify artist or listener.
func (c *Client) Resolve(ctx context.Context, username string) (profile.Result, error) {
	key := profile.Handle(username)
	if key == "" {
		return profile.NotFound(), nil
	}
	raw := strings.TrimPrefix(strings.TrimSpace(username), "@")

	c.logger.InfoContext(ctx, "resolving spotify profile", "username", key)
	return pipeline.Run(ctx, c.logger, platform, key,
		pipeline.Stage{Name: "curated", Run: c.exact},
		pipeline.Stage{Name: "close_match", Run: func(_ context.Context, key string) (*profile.Profile, error) {
			return c.closeMatch(key, raw)
		}},
		pipeline.Stage{Name: "synthetic", Run: func(_ context.Context, key string) (*profile.Profile, error) {
			return c.synthesize(key, raw)
		}},
	)
}

func (c *Client) exact(_ context.Context, key string) (*profile.Profile, error) {
	p, ok := c.data.Lookup(key)
	if !ok {
		return nil, nil
	}
	return p, nil
}

// closeMatch substitutes the first dataset record within maxDistance of key.
func (c *Client) closeMatch(key, raw string) (*profile.Profile, error) {
	match, ok := similarity.First(key, c.data.Keys(), maxDistance)
	if !ok {
		return nil, nil
	}
	p, ok := c.data.Lookup(match)
	if !ok {
		return nil, fmt.Errorf("dataset key %q has no record: %w", match, profile.ErrInternal)
	}
	p.Note = fmt.Sprintf("No exact match for %q; showing results for %q instead", raw, p.Name)
	return p, nil
}

// synthesize generates an artist for brand-like names and a listener for
// person-like ones. Anything else does not exist.
func (c *Client) synthesize(key, raw string) (*profile.Profile, error) {
	n := utf8.RuneCountInString(key)
	switch {
	case n > 3 && !digitRun.MatchString(key):
		return c.gen.Artist(raw), nil
	case n >= 3 && !strings.ContainsFunc(raw, unicode.IsSpace):
		return c.gen.Listener(raw), nil
	default:
		return nil, profile.ErrProfileNotFound
	}
}
