// Package tiktok resolves TikTok accounts by reading the public profile page.
package tiktok

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"

	"github.com/codeGROOVE-dev/handlecheck/pkg/htmlutil"
	"github.com/codeGROOVE-dev/handlecheck/pkg/httpclient"
	"github.com/codeGROOVE-dev/handlecheck/pkg/pipeline"
	"github.com/codeGROOVE-dev/handlecheck/pkg/profile"
	"github.com/codeGROOVE-dev/handlecheck/pkg/synth"
)

const (
	platform       = "tiktok"
	defaultBaseURL = "https://www.tiktok.com"

	// statusUserNotFound is reported in the page state for unknown handles.
	statusUserNotFound = 10221
)

// platformInfo implements profile.Platform for TikTok.
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
	"khaby.lame", "charlidamelio", "mrbeast", "bellapoarch", "addisonre",
	"zachking", "willsmith", "tiktok", "therock", "kimberly.loaiza",
}

var generatedHandle = regexp.MustCompile(`^user\d+$`)

// plausible rejects short handles and the "user123456" names TikTok assigns by default.
func plausible(username string) bool {
	if slices.Contains(popular, username) {
		return true
	}
	return utf8.RuneCountInString(username) >= 4 && !generatedHandle.MatchString(username)
}

// Client handles TikTok requests.
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

// New creates a TikTok client.
func New(ctx context.Context, opts ...Option) (*Client, error) {
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
	cfg.logger.DebugContext(ctx, "tiktok client created", "base_url", cfg.baseURL)

	return &Client{
		httpClient: cfg.httpClient,
		logger:     cfg.logger,
		gen:        cfg.gen,
		baseURL:    cfg.baseURL,
	}, nil
}

// Resolve reports whether username exists on TikTok.
func (c *Client) Resolve(ctx context.Context, username string) (profile.Result, error) {
	u := profile.Handle(username)
	if u == "" {
		return profile.NotFound(), nil
	}

	c.logger.InfoContext(ctx, "resolving tiktok profile", "username", u)
	return pipeline.Run(ctx, c.logger, platform, u,
		pipeline.Stage{Name: "scrape", Run: c.fetch},
		pipeline.Stage{Name: "fallback", Run: c.fallback},
	)
}

func profileURL(username string) string {
	return defaultBaseURL + "/@" + url.PathEscape(username)
}

func (c *Client) fetch(ctx context.Context, username string) (*profile.Profile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/@"+url.PathEscape(username), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("request creation failed: %w", err)
	}
	setHeaders(req)

	body, err := httpclient.Fetch(ctx, c.httpClient, req, c.logger)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	return c.parseProfile(ctx, body, username)
}

func setHeaders(req *http.Request) {
	// User-Agent matching Chrome 120 on macOS
	userAgent := "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 " +
		"(KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
}

// rehydration is the subset of the embedded page state that describes the profile owner.
type rehydration struct {
	DefaultScope struct {
		UserDetail struct {
			StatusCode int `json:"statusCode"`
			UserInfo   struct {
				User struct {
					UniqueID     string `json:"uniqueId"`
					Nickname     string `json:"nickname"`
					AvatarLarger string `json:"avatarLarger"`
					Signature    string `json:"signature"`
					Verified     bool   `json:"verified"`
				} `json:"user"`
				Stats struct {
					FollowerCount  int `json:"followerCount"`
					FollowingCount int `json:"followingCount"`
					HeartCount     int `json:"heartCount"`
					VideoCount     int `json:"videoCount"`
				} `json:"stats"`
			} `json:"userInfo"`
		} `json:"webapp.user-detail"`
	} `json:"__DEFAULT_SCOPE__"`
}

// parseProfile prefers the embedded page state and falls back to the rendered markup.
func (c *Client) parseProfile(ctx context.Context, body []byte, username string) (*profile.Profile, error) {
	doc, err := htmlutil.Parse(body)
	if err != nil {
		return nil, err
	}

	p := &profile.Profile{
		Platform: platform,
		Username: username,
		URL:      profileURL(username),
	}

	if raw := doc.Find("script#__UNIVERSAL_DATA_FOR_REHYDRATION__").First().Text(); raw != "" {
		var state rehydration
		if err := json.Unmarshal([]byte(raw), &state); err != nil {
			c.logger.DebugContext(ctx, "page state unreadable, using markup", "username", username, "error", err)
		} else {
			detail := state.DefaultScope.UserDetail
			if detail.StatusCode == statusUserNotFound {
				return nil, fmt.Errorf("tiktok status %d: %w", detail.StatusCode, profile.ErrProfileNotFound)
			}
			if user := detail.UserInfo.User; user.UniqueID != "" {
				stats := detail.UserInfo.Stats
				p.Name = user.Nickname
				p.Bio = user.Signature
				p.AvatarURL = user.AvatarLarger
				p.Verified = user.Verified
				p.Followers = stats.FollowerCount
				p.Following = stats.FollowingCount
				p.Posts = stats.VideoCount
				p.Fields = map[string]string{"likes": strconv.Itoa(stats.HeartCount)}
				p.SetProvenance(profile.ProvenanceScraped)
				return p, nil
			}
		}
	}

	if !parseMarkup(doc, p) {
		return nil, fmt.Errorf("tiktok page lacks profile data: %w", profile.ErrParse)
	}
	p.SetProvenance(profile.ProvenanceScraped)

	c.logger.DebugContext(ctx, "tiktok profile parsed from markup",
		"username", p.Username,
		"name", p.Name,
		"followers", p.Followers)
	return p, nil
}

// parseMarkup fills p from data-e2e elements, using the meta description
// ("Name (@handle) on TikTok | 3.4K Likes. 250 Followers. ...") for anything missing.
// It reports whether the page identified a profile at all.
func parseMarkup(doc *goquery.Document, p *profile.Profile) bool {
	handle := htmlutil.Text(doc, `[data-e2e="user-title"]`)
	followers := htmlutil.Text(doc, `[data-e2e="followers-count"]`)
	desc := htmlutil.Description(doc)
	if handle == "" && followers == "" && !strings.Contains(desc, "on TikTok") {
		return false
	}

	p.Name = htmlutil.Text(doc, `[data-e2e="user-subtitle"]`)
	p.Bio = htmlutil.Text(doc, `[data-e2e="user-bio"]`)
	p.AvatarURL = htmlutil.Image(doc)
	p.Followers = htmlutil.ParseCount(followers)
	p.Following = htmlutil.ParseCount(htmlutil.Text(doc, `[data-e2e="following-count"]`))
	likes := htmlutil.ParseCount(htmlutil.Text(doc, `[data-e2e="likes-count"]`))

	if p.Followers == 0 {
		p.Followers = htmlutil.LabeledCount(desc, "Followers")
	}
	if likes == 0 {
		likes = htmlutil.LabeledCount(desc, "Likes")
	}
	if p.Name == "" {
		if name, _, ok := strings.Cut(htmlutil.Title(doc), " (@"); ok {
			p.Name = strings.TrimSpace(name)
		}
	}
	p.Fields = map[string]string{"likes": strconv.Itoa(likes)}
	return true
}

func (c *Client) fallback(_ context.Context, username string) (*profile.Profile, error) {
	if !plausible(username) {
		return nil, profile.ErrProfileNotFound
	}
	return c.gen.Account(platform, username, profileURL(username)), nil
}
