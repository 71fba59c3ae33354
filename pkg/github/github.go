// Package github resolves GitHub accounts through the public REST API.
package github

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"github.com/codeGROOVE-dev/handlecheck/pkg/httpclient"
	"github.com/codeGROOVE-dev/handlecheck/pkg/pipeline"
	"github.com/codeGROOVE-dev/handlecheck/pkg/profile"
	"github.com/codeGROOVE-dev/handlecheck/pkg/synth"
)

const (
	platform       = "github"
	defaultBaseURL = "https://api.github.com"
	userAgent      = "handlecheck/1.0"
	repoLimit      = 5
)

// platformInfo implements profile.Platform for GitHub.
type platformInfo struct{}

func (platformInfo) Name() string               { return platform }
func (platformInfo) Strategy() profile.Strategy { return profile.StrategyAPI }

func init() {
	profile.Register(platformInfo{}, newResolver)
}

// newResolver is the profile.Factory for GitHub.
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
		if cfg.GitHubToken != "" {
			opts = append(opts, WithToken(cfg.GitHubToken))
		}
	}
	return New(ctx, opts...)
}

// popular accounts are assumed to exist when the API cannot be reached.
var popular = []string{
	"torvalds", "octocat", "gaearon", "defunkt", "mojombo",
	"sindresorhus", "yyx990803", "tj", "kentcdodds", "addyosmani",
}

// plausible reports whether username looks like a real GitHub account.
func plausible(username string) bool {
	if slices.Contains(popular, username) {
		return true
	}
	return utf8.RuneCountInString(username) > 3 && !strings.Contains(username, "test") && !strings.Contains(username, "fake")
}

// Client handles GitHub requests.
type Client struct {
	httpClient *http.Client
	logger     *slog.Logger
	gen        profile.Synthesizer
	baseURL    string
	token      string
}

// Option configures a Client.
type Option func(*config)

type config struct {
	httpClient *http.Client
	logger     *slog.Logger
	gen        profile.Synthesizer
	baseURL    string
	token      string
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) { c.logger = logger }
}

// WithHTTPClient sets the HTTP client used for API calls.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *config) { c.httpClient = hc }
}

// WithGenerator sets the generator used when the API is unavailable.
func WithGenerator(gen profile.Synthesizer) Option {
	return func(c *config) { c.gen = gen }
}

// WithBaseURL overrides the API root (default https://api.github.com).
func WithBaseURL(u string) Option {
	return func(c *config) { c.baseURL = strings.TrimSuffix(u, "/") }
}

// WithToken sets the GitHub API token.
func WithToken(token string) Option {
	return func(c *config) { c.token = token }
}

// New creates a GitHub client.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &config{logger: slog.Default(), baseURL: defaultBaseURL}
	for _, opt := range opts {
		opt(cfg)
	}

	logger := cfg.logger
	if logger == nil {
		logger = slog.Default()
	}
	hc := cfg.httpClient
	if hc == nil {
		hc = httpclient.New(0)
	}
	gen := cfg.gen
	if gen == nil {
		gen = synth.New()
	}

	if cfg.token == "" {
		logger.WarnContext(ctx, "GITHUB_TOKEN not set - GitHub API requests will be rate-limited to 60/hour")
	}

	return &Client{
		httpClient: hc,
		logger:     logger,
		gen:        gen,
		baseURL:    cfg.baseURL,
		token:      cfg.token,
	}, nil
}

// Resolve reports whether username exists on GitHub.
func (c *Client) Resolve(ctx context.Context, username string) (profile.Result, error) {
	u := profile.Handle(username)
	if u == "" {
		return profile.NotFound(), nil
	}

	c.logger.InfoContext(ctx, "resolving github profile", "username", u)
	return pipeline.Run(ctx, c.logger, platform, u,
		pipeline.Stage{Name: "api", Run: c.fetch},
		pipeline.Stage{Name: "fallback", Run: c.fallback},
	)
}

// fetch loads the user and their recent repositories in parallel.
// A failed repository listing leaves the list empty.
func (c *Client) fetch(ctx context.Context, username string) (*profile.Profile, error) {
	var (
		prof     *profile.Profile
		repos    []profile.Repository
		reposErr error
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		body, err := c.get(gctx, "/users/"+url.PathEscape(username))
		if err != nil {
			return err
		}
		prof, err = parseUser(body)
		return err
	})
	g.Go(func() error {
		body, err := c.get(gctx, fmt.Sprintf("/users/%s/repos?sort=updated&per_page=%d", url.PathEscape(username), repoLimit))
		if err != nil {
			reposErr = err
			return nil
		}
		repos, reposErr = parseRepos(body)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if reposErr != nil {
		c.logger.DebugContext(ctx, "repository listing unavailable", "username", username, "error", reposErr)
	}
	prof.Repos = repos
	if prof.Repos == nil {
		prof.Repos = []profile.Repository{}
	}
	return prof, nil
}

func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/vnd.github+json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	return httpclient.Fetch(ctx, c.httpClient, req, c.logger)
}

func (c *Client) fallback(_ context.Context, username string) (*profile.Profile, error) {
	if !plausible(username) {
		return nil, profile.ErrProfileNotFound
	}
	return c.gen.Account(platform, username, "https://github.com/"+username), nil
}

func parseUser(data []byte) (*profile.Profile, error) {
	//nolint:govet // fieldalignment: intentional layout for readability
	var ghUser struct {
		Login       string `json:"login"`
		Name        string `json:"name"`
		Bio         string `json:"bio"`
		Location    string `json:"location"`
		Company     string `json:"company"`
		PublicRepos int    `json:"public_repos"`
		Followers   int    `json:"followers"`
		Following   int    `json:"following"`
		AvatarURL   string `json:"avatar_url"`
		HTMLURL     string `json:"html_url"`
		CreatedAt   string `json:"created_at"`
	}

	if err := json.Unmarshal(data, &ghUser); err != nil {
		return nil, fmt.Errorf("decode user: %w: %w", profile.ErrParse, err)
	}
	if ghUser.Login == "" {
		return nil, fmt.Errorf("decode user: %w: missing login", profile.ErrParse)
	}

	prof := &profile.Profile{
		Platform:    platform,
		Username:    ghUser.Login,
		Name:        strings.TrimSpace(ghUser.Name),
		Bio:         strings.TrimSpace(ghUser.Bio),
		AvatarURL:   ghUser.AvatarURL,
		URL:         ghUser.HTMLURL,
		Followers:   ghUser.Followers,
		Following:   ghUser.Following,
		Location:    strings.TrimSpace(ghUser.Location),
		Company:     strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(ghUser.Company), "@")),
		CreatedAt:   ghUser.CreatedAt,
		PublicRepos: ghUser.PublicRepos,
	}
	if prof.URL == "" {
		prof.URL = "https://github.com/" + ghUser.Login
	}
	prof.SetProvenance(profile.ProvenanceReal)
	return prof, nil
}

func parseRepos(data []byte) ([]profile.Repository, error) {
	var repos []profile.Repository
	if err := json.Unmarshal(data, &repos); err != nil {
		return nil, fmt.Errorf("decode repos: %w: %w", profile.ErrParse, err)
	}
	if len(repos) > repoLimit {
		repos = repos[:repoLimit]
	}
	return repos, nil
}
