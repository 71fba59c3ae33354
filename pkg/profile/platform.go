// Platform registration and interface definitions.

package profile

import (
	"context"
	"log/slog"
	"net/http"
	"sort"
	"sync"
)

// Strategy describes how a platform confirms a profile.
type Strategy string

// Strategy values.
const (
	StrategyAPI     Strategy = "api"     // authenticated or public JSON API
	StrategyScrape  Strategy = "scrape"  // HTML page parsing
	StrategyProbe   Strategy = "probe"   // existence-only HEAD request
	StrategyDataset Strategy = "dataset" // curated dataset, no network
)

// Resolver reports whether a username exists on one platform.
// Resolve only returns an error for internal faults; every platform failure
// is absorbed into the returned Result.
type Resolver interface {
	Resolve(ctx context.Context, username string) (Result, error)
}

// Platform describes a registered platform.
type Platform interface {
	// Name returns the platform identifier used in request paths (e.g., "github").
	Name() string

	// Strategy returns how the platform's live lookup works.
	Strategy() Strategy
}

// Synthesizer fabricates plausible profiles for fallback paths.
type Synthesizer interface {
	Account(platform, username, profileURL string) *Profile
	Artist(username string) *Profile
	Listener(username string) *Profile
}

// ResolverConfig holds configuration for creating platform resolvers.
type ResolverConfig struct {
	Logger      *slog.Logger
	HTTPClient  *http.Client
	Generator   Synthesizer
	GitHubToken string
}

// Factory builds a platform's resolver.
type Factory func(ctx context.Context, cfg *ResolverConfig) (Resolver, error)

type platformEntry struct {
	platform Platform
	factory  Factory
}

// registry holds all registered platforms.
var (
	registryMu sync.RWMutex
	byName     = make(map[string]*platformEntry)
)

// Register adds a platform to the global registry.
// This should be called from each platform package's init() function.
func Register(p Platform, f Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()

	name := p.Name()
	if _, exists := byName[name]; exists {
		panic("platform already registered: " + name)
	}
	byName[name] = &platformEntry{platform: p, factory: f}
}

// Platforms returns all registered platforms sorted by name.
func Platforms() []Platform {
	registryMu.RLock()
	defer registryMu.RUnlock()

	result := make([]Platform, 0, len(byName))
	for _, e := range byName {
		result = append(result, e.platform)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name() < result[j].Name() })
	return result
}

// LookupFactory returns the resolver factory for the given platform name, or nil if not found.
func LookupFactory(name string) Factory {
	registryMu.RLock()
	defer registryMu.RUnlock()

	if e := byName[name]; e != nil {
		return e.factory
	}
	return nil
}
