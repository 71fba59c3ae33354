// Package instagram resolves Instagram accounts by reading the public profile page.
package instagram

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/codeGROOVE-dev/handlecheck/pkg/htmlutil"
	"github.com/codeGROOVE-dev/handlecheck/pkg/httpclient"
	"github.com/codeGROOVE-dev/handlecheck/pkg/pipeline"
	"github.com/codeGROOVE-dev/handlecheck/pkg/profile"
	"github.com/codeGROOVE-dev/handlecheck/pkg/synth"
)

const (
	platform       = "instagram"
	defaultBaseURL = "https://www.instagram.com"
	// appID is the web client's application id; the page is not served without it.
	appID = "936619743392459"
)

// platformInfo implements profile.Platform for Instagram.
type platformInfo struct{}

func (platformInfo) Name() string               { return platform }
func (platformInfo) Strategy() profile.Strategy { return profile.StrategyScrape }

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
	"instagram", "cristiano", "leomessi", "selenagomez", "kyliejenner",
	"therock", "arianagrande", "kimkardashian", "beyonce", "natgeo",
}

func plausible(username string) bool {
	if slices.Contains(popular, username) {
		return true
	}
	return utf8.RuneCountInString(username) > 3 && !strings.Contains(username, "..") && !strings.Contains(username, "fake")
}

// Client handles Instagram requests.
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

// WithGenerator sets the generator used when the page cannot be read.
func WithGenerator(gen profile.Synthesizer) Option {
	return func(c *config) { c.gen = gen }
}

// WithBaseURL overrides the site root.
func WithBaseURL(u string) Option {
	return func(c *config) { c.baseURL = strings.TrimSuffix(u, "/") }
}

// New creates an Instagram client.
func New(_ context.Context, opts ...Option) (*Client, error) {
	cfg := &config{logger: slog.Default(), baseURL: defaultBaseURL}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.httpClient == nil {
		cfg.httpClient = httpclient.New(0)
	}
	if cfg.gen == nil {
		cfg.gen = synth.New()
	}
	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}

	return &Client{
		httpClient: cfg.httpClient,
		logger:     cfg.logger,
		gen:        cfg.gen,
		baseURL:    cfg.baseURL,
	}, nil
}

// Resolve reports whether username exists on Instagram.
func (c *Client) Resolve(ctx context.Context, username string) (profile.Result, error) {
	u := profile.Handle(username)
	if u == "" {
		return profile.NotFound(), nil
	}

	c.logger.InfoContext(ctx, "resolving instagram profile", "username", u)
	return pipeline.Run(ctx, c.logger, platform, u,
		pipeline.Stage{Name: "scrape", Run: c.fetch},
		pipeline.Stage{Name: "fallback", Run: c.fallback},
	)
}

func profileURL(username string) string {
	return defaultBaseURL + "/" + url.PathEscape(username) + "/"
}

func (c *Client) fetch(ctx context.Context, username string) (*profile.Profile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/"+url.PathEscape(username)+"/", http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", httpclient.UserAgent)
	req.Header.Set("X-IG-App-ID", appID)

	body, err := httpclient.Fetch(ctx, c.httpClient, req, c.logger)
	if err != nil {
		return nil, fmt.Errorf("fetch instagram page: %w", err)
	}
	return c.parse(body, username)
}

// parse reads the Open Graph tags of a profile page, e.g.
//
//	og:title       "Jane Doe (@jane) • Instagram photos and videos"
//	og:description "12,345 Followers, 67 Following, 89 Posts - See Instagram photos and videos from Jane Doe (@jane)"
func (c *Client) parse(body []byte, username string) (*profile.Profile, error) {
	doc, err := htmlutil.Parse(body)
	if err != nil {
		return nil, err
	}

	title := htmlutil.Meta(doc, "og:title")
	desc := htmlutil.Meta(doc, "og:description")

	if htmlutil.IsNotFound(htmlutil.Text(doc, "title")) {
		return nil, fmt.Errorf("instagram page: %w", profile.ErrProfileNotFound)
	}
	if !strings.Contains(title, "(@") && !strings.Contains(strings.ToLower(desc), "followers") {
		return nil, fmt.Errorf("instagram page lacks profile metadata: %w", profile.ErrParse)
	}

	p := &profile.Profile{
		Platform:  platform,
		Username:  username,
		Name:      displayName(title),
		AvatarURL: htmlutil.Image(doc),
		URL:       profileURL(username),
		Followers: htmlutil.LabeledCount(desc, "Followers"),
		Following: htmlutil.LabeledCount(desc, "Following"),
		Posts:     htmlutil.LabeledCount(desc, "Posts"),
	}
	if _, bio, ok := strings.Cut(desc, " - "); ok && !strings.HasPrefix(bio, "See Instagram photos") {
		p.Bio = strings.TrimSpace(bio)
	}
	p.SetProvenance(profile.ProvenanceScraped)

	c.logger.Debug("parsed instagram profile",
		"username", p.Username,
		"name", p.Name,
		"followers", p.Followers,
	)
	return p, nil
}

// displayName returns the part of an og:title before the "(@handle)" marker.
func displayName(title string) string {
	name, _, ok := strings.Cut(title, "(@")
	if !ok {
		return ""
	}
	return strings.TrimSpace(name)
}

func (c *Client) fallback(_ context.Context, username string) (*profile.Profile, error) {
	if !plausible(username) {
		return nil, profile.ErrProfileNotFound
	}
	return c.gen.Account(platform, username, profileURL(username)), nil
}
