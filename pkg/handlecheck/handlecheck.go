// Package handlecheck reports whether a username exists on each supported platform.
//
// Basic usage:
//
//	checker, err := handlecheck.New(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := checker.Check(ctx, "github", "octocat")
//
// Every platform answers with the same envelope: Exists is false and Profile is nil
// when the username is absent. An error is returned only for an unknown platform
// or an internal fault.
package handlecheck

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/sourcegraph/conc/pool"

	"github.com/codeGROOVE-dev/handlecheck/pkg/profile"
	"github.com/codeGROOVE-dev/handlecheck/pkg/synth"

	// Platforms register themselves with the profile registry.
	_ "github.com/codeGROOVE-dev/handlecheck/pkg/github"
	_ "github.com/codeGROOVE-dev/handlecheck/pkg/instagram"
	_ "github.com/codeGROOVE-dev/handlecheck/pkg/spotify"
	_ "github.com/codeGROOVE-dev/handlecheck/pkg/tiktok"
	_ "github.com/codeGROOVE-dev/handlecheck/pkg/twitter"
	_ "github.com/codeGROOVE-dev/handlecheck/pkg/youtube"
)

type (
	// Result re-exports profile.Result for convenience.
	Result = profile.Result
	// Profile re-exports profile.Profile for convenience.
	Profile = profile.Profile
)

// ErrUnknownPlatform is returned for a platform id with no registered resolver.
var ErrUnknownPlatform = errors.New("unknown platform")

// Re-export the internal fault sentinel.
var ErrInternal = profile.ErrInternal

// Option configures a Checker.
type Option func(*config)

type config struct {
	logger      *slog.Logger
	httpClient  *http.Client
	gen         profile.Synthesizer
	githubToken string
	concurrency int
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) { c.logger = logger }
}

// WithHTTPClient sets the HTTP client shared by all live lookups.
// Its Timeout bounds every live call.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *config) { c.httpClient = hc }
}

// WithGenerator sets the synthetic profile generator.
func WithGenerator(gen profile.Synthesizer) Option {
	return func(c *config) { c.gen = gen }
}

// WithGitHubToken sets the GitHub API token for authenticated requests.
func WithGitHubToken(token string) Option {
	return func(c *config) { c.githubToken = token }
}

// WithConcurrency caps how many platforms CheckAll queries at once.
func WithConcurrency(n int) Option {
	return func(c *config) { c.concurrency = n }
}

// Checker dispatches username queries to platform resolvers.
type Checker struct {
	resolvers   map[string]profile.Resolver
	platforms   []profile.Platform
	logger      *slog.Logger
	concurrency int
}

// New builds a resolver for every registered platform.
func New(ctx context.Context, opts ...Option) (*Checker, error) {
	cfg := &config{logger: slog.Default()}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}
	if cfg.gen == nil {
		cfg.gen = synth.New()
	}

	rcfg := &profile.ResolverConfig{
		Logger:      cfg.logger,
		HTTPClient:  cfg.httpClient,
		Generator:   cfg.gen,
		GitHubToken: cfg.githubToken,
	}

	platforms := profile.Platforms()
	c := &Checker{
		resolvers:   make(map[string]profile.Resolver, len(platforms)),
		platforms:   platforms,
		logger:      cfg.logger,
		concurrency: cfg.concurrency,
	}
	if c.concurrency <= 0 {
		c.concurrency = len(platforms)
	}

	for _, p := range platforms {
		r, err := profile.LookupFactory(p.Name())(ctx, rcfg)
		if err != nil {
			return nil, fmt.Errorf("create %s resolver: %w", p.Name(), err)
		}
		c.resolvers[p.Name()] = r
	}
	c.logger.DebugContext(ctx, "checker ready", "platforms", len(c.resolvers))
	return c, nil
}

// Platforms returns the supported platforms sorted by name.
func (c *Checker) Platforms() []profile.Platform {
	return c.platforms
}

// Check resolves username on one platform.
func (c *Checker) Check(ctx context.Context, platform, username string) (Result, error) {
	r, ok := c.resolvers[strings.ToLower(platform)]
	if !ok {
		return Result{}, fmt.Errorf("%w: %q", ErrUnknownPlatform, platform)
	}
	return r.Resolve(ctx, username)
}

// CheckAll resolves username on every platform concurrently.
// The map is keyed by platform name and holds an entry for every platform.
func (c *Checker) CheckAll(ctx context.Context, username string) (map[string]Result, error) {
	p := pool.New().WithMaxGoroutines(c.concurrency)

	var (
		mu      sync.Mutex
		results = make(map[string]Result, len(c.platforms))
		errs    []error
	)

	for _, plat := range c.platforms {
		name := plat.Name()
		p.Go(func() {
			res, err := c.resolvers[name].Resolve(ctx, username)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", name, err))
				return
			}
			results[name] = res
		})
	}
	p.Wait()

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return results, nil
}
