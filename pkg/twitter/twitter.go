// Package twitter checks X (Twitter) handles with an existence probe.
// The probe confirms existence only; a confirmed profile carries no account data.
package twitter

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/codeGROOVE-dev/handlecheck/pkg/httpclient"
	"github.com/codeGROOVE-dev/handlecheck/pkg/pipeline"
	"github.com/codeGROOVE-dev/handlecheck/pkg/profile"
	"github.com/codeGROOVE-dev/handlecheck/pkg/synth"
)

const (
	platform       = "twitter"
	defaultBaseURL = "https://x.com"
)

// platformInfo implements profile.Platform for Twitter.
type platformInfo struct{}

func (platformInfo) Name() string               { return platform }
func (platformInfo) Strategy() profile.Strategy { return profile.StrategyProbe }

func init() { profile.Register(platformInfo{}, newResolver) }

func newResolver(ctx context.Context, cfg *profile.ResolverConfig) (profile.Resolver, error) {
	var opts []Option
	if cfg != nil {
		if cfg.Logger != nil {
			opts = append(opts, WithLogger(cfg.Logger))
		}
		if cfg.HTTPClient != nil {
			opts = append(opts, WithHTTPClient(cfg.HTTPClient))
		}
		if cfg.Generator != nil {
			opts = append(opts, WithGenerator(cfg.Generator))
		}
	}
	return New(ctx, opts...)
}

var popular = []string{
	"elonmusk", "barackobama", "cristiano", "justinbieber", "rihanna",
	"katyperry", "taylorswift13", "nasa", "x", "jack",
}

// plausible mirrors the 4-15 character handle range and skips reserved-looking names.
func plausible(username string) bool {
	if slices.Contains(popular, username) {
		return true
	}
	n := utf8.RuneCountInString(username)
	return n >= 4 && n <= 15 && !strings.Contains(username, "admin") && !strings.Contains(username, "twitter")
}

// Client handles Twitter probes.
type Client struct {
	httpClient *http.Client
	logger     *slog.Logger
	gen        profile.Synthesizer
	baseURL    string
}

// Option configures a Client.
type Option func(*config)

type config struct {
	httpClient *http.Client
	logger     *slog.Logger
	gen        profile.Synthesizer
	baseURL    string
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) { c.logger = logger }
}

// WithHTTPClient sets the HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *config) { c.httpClient = hc }
}

// WithGenerator sets the generator used when the probe fails.
func WithGenerator(gen profile.Synthesizer) Option {
	return func(c *config) { c.gen = gen }
}

// WithBaseURL overrides the site root (default https://x.com).
func WithBaseURL(u string) Option {
	return func(c *config) { c.baseURL = strings.TrimSuffix(u, "/") }
}

// New creates a Twitter client.
func New(_ context.Context, opts ...Option) (*Client, error) {
	cfg := &config{logger: slog.Default(), baseURL: defaultBaseURL}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}
	if cfg.httpClient == nil {
		cfg.httpClient = httpclient.New(0)
	}
	if cfg.gen == nil {
		cfg.gen = synth.New()
	}
	return &Client{
		httpClient: cfg.httpClient,
		logger:     cfg.logger,
		gen:        cfg.gen,
		baseURL:    cfg.baseURL,
	}, nil
}

// Resolve reports whether handle username exists on X.
func (c *Client) Resolve(ctx context.Context, username string) (profile.Result, error) {
	u := profile.Handle(username)
	if u == "" {
		return profile.NotFound(), nil
	}

	c.logger.InfoContext(ctx, "probing twitter handle", "username", u)
	return pipeline.Run(ctx, c.logger, platform, u,
		pipeline.Stage{Name: "probe", Run: c.probe},
		pipeline.Stage{Name: "fallback", Run: c.fallback},
	)
}

func profileURL(username string) string {
	return defaultBaseURL + "/" + url.PathEscape(username)
}

func (c *Client) probe(ctx context.Context, username string) (*profile.Profile, error) {
	header := http.Header{"User-Agent": {httpclient.UserAgent}}
	status, err := httpclient.Probe(ctx, c.httpClient, c.baseURL+"/"+url.PathEscape(username), header, c.logger)
	if err != nil {
		return nil, fmt.Errorf("probe twitter: %w", err)
	}

	switch {
	case status == http.StatusNotFound:
		return nil, fmt.Errorf("probe twitter: %w", profile.ErrProfileNotFound)
	case status >= 200 && status < 300:
		p := &profile.Profile{
			Platform: platform,
			Username: username,
			URL:      profileURL(username),
		}
		p.SetProvenance(profile.ProvenanceReal)
		return p, nil
	default:
		return nil, fmt.Errorf("probe twitter: %w", &httpclient.HTTPError{URL: profileURL(username), StatusCode: status})
	}
}

func (c *Client) fallback(_ context.Context, username string) (*profile.Profile, error) {
	if !plausible(username) {
		return nil, profile.ErrProfileNotFound
	}
	return c.gen.Account(platform, username, profileURL(username)), nil
}
