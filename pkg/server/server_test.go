package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/codeGROOVE-dev/handlecheck/pkg/handlecheck"
	"github.com/codeGROOVE-dev/handlecheck/pkg/profile"
)

type fakePlatform struct {
	name     string
	strategy profile.Strategy
}

func (p fakePlatform) Name() string               { return p.name }
func (p fakePlatform) Strategy() profile.Strategy { return p.strategy }

// fakeChecker knows "alice" on every platform, panics for "boom" and fails internally for "oops".
type fakeChecker struct{}

func (fakeChecker) Platforms() []profile.Platform {
	return []profile.Platform{
		fakePlatform{"github", profile.StrategyAPI},
		fakePlatform{"spotify", profile.StrategyDataset},
	}
}

func (f fakeChecker) Check(_ context.Context, platform, username string) (profile.Result, error) {
	if platform != "github" && platform != "spotify" {
		return profile.Result{}, fmt.Errorf("%w: %q", handlecheck.ErrUnknownPlatform, platform)
	}
	switch username {
	case "boom":
		panic("resolver exploded")
	case "oops":
		return profile.Result{}, fmt.Errorf("dataset corrupt: %w", handlecheck.ErrInternal)
	case "alice", "@alice":
		p := &profile.Profile{Platform: platform, Username: "alice", Followers: 3}
		p.SetProvenance(profile.ProvenanceReal)
		return profile.Found(p), nil
	default:
		return profile.NotFound(), nil
	}
}

func (f fakeChecker) CheckAll(ctx context.Context, username string) (map[string]profile.Result, error) {
	out := make(map[string]profile.Result)
	for _, p := range f.Platforms() {
		res, err := f.Check(ctx, p.Name(), username)
		if err != nil {
			return nil, err
		}
		out[p.Name()] = res
	}
	return out, nil
}

func newTestServer(opts ...Option) *Server {
	base := []Option{WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))}
	return New(fakeChecker{}, append(base, opts...)...)
}

func get(t *testing.T, s *Server, path string) (int, string, http.Header) {
	t.Helper()
	resp, err := s.App().Test(httptest.NewRequest(http.MethodGet, path, http.NoBody), -1)
	if err != nil {
		t.Fatalf("app.Test(%s) error = %v", path, err)
	}
	defer resp.Body.Close() //nolint:errcheck // test helper
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp.StatusCode, string(body), resp.Header
}

func TestCheck(t *testing.T) {
	s := newTestServer()

	tests := []struct {
		name       string
		path       string
		wantStatus int
		wantBody   string
	}{
		{
			"found",
			"/api/github/alice",
			http.StatusOK,
			`{"exists":true,"profile":{"platform":"github","username":"alice","provenance":"real","followers":3}}`,
		},
		{
			"escaped handle",
			"/api/github/%40alice",
			http.StatusOK,
			`{"exists":true,"profile":{"platform":"github","username":"alice","provenance":"real","followers":3}}`,
		},
		{"not found", "/api/spotify/12", http.StatusOK, `{"exists":false,"profile":null}`},
		{"unknown platform", "/api/myspace/tom", http.StatusNotFound, `{"error":"unknown platform: myspace"}`},
		{"internal fault", "/api/github/oops", http.StatusInternalServerError, `{"error":"internal server error"}`},
		{"panic", "/api/github/boom", http.StatusInternalServerError, `{"error":"internal server error"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body, header := get(t, s, tt.path)
			if status != tt.wantStatus {
				t.Errorf("status = %d, want %d", status, tt.wantStatus)
			}
			if body != tt.wantBody {
				t.Errorf("body = %s, want %s", body, tt.wantBody)
			}
			if header.Get("X-Request-ID") == "" {
				t.Error("missing X-Request-ID header")
			}
		})
	}
}

func TestCheckAll(t *testing.T) {
	status, body, _ := get(t, newTestServer(), "/api/all/alice")
	if status != http.StatusOK {
		t.Fatalf("status = %d, body %s", status, body)
	}

	var got struct {
		Username string                    `json:"username"`
		Results  map[string]profile.Result `json:"results"`
	}
	if err := json.Unmarshal([]byte(body), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Username != "alice" || len(got.Results) != 2 {
		t.Errorf("CheckAll response = %+v", got)
	}
	for name, res := range got.Results {
		if !res.Exists || res.Profile.Platform != name {
			t.Errorf("%s: %+v", name, res)
		}
	}

	if status, _, _ := get(t, newTestServer(), "/api/all/oops"); status != http.StatusInternalServerError {
		t.Errorf("internal fault status = %d, want 500", status)
	}
}

func TestPlatforms(t *testing.T) {
	status, body, _ := get(t, newTestServer(), "/api/platforms")
	if status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}
	var got []platformView
	if err := json.Unmarshal([]byte(body), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := []platformView{{"github", profile.StrategyAPI}, {"spotify", profile.StrategyDataset}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("platforms mismatch (-want +got):\n%s", diff)
	}
}

func TestRateLimit(t *testing.T) {
	s := newTestServer(WithRateLimit(2, time.Minute))
	for i := range 2 {
		if status, _, _ := get(t, s, "/api/github/alice"); status != http.StatusOK {
			t.Fatalf("request %d status = %d, want 200", i, status)
		}
	}
	status, body, _ := get(t, s, "/api/github/alice")
	if status != http.StatusTooManyRequests {
		t.Errorf("status = %d, want 429", status)
	}
	if body != `{"error":"too many requests"}` {
		t.Errorf("body = %s", body)
	}

	// Health checks are outside the limited group.
	if status, _, _ := get(t, s, "/healthz"); status != http.StatusOK {
		t.Errorf("healthz status = %d, want 200", status)
	}
}

func TestRequestIDPassthrough(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/healthz", http.NoBody)
	req.Header.Set("X-Request-ID", "trace-123")
	resp, err := newTestServer().App().Test(req)
	if err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}
	defer resp.Body.Close() //nolint:errcheck // test helper
	if got := resp.Header.Get("X-Request-ID"); got != "trace-123" {
		t.Errorf("X-Request-ID = %q, want trace-123", got)
	}
}

func TestCORS(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/github/alice", http.NoBody)
	req.Header.Set("Origin", "https://app.example.com")
	resp, err := newTestServer(WithCORSOrigins("https://app.example.com")).App().Test(req)
	if err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}
	defer resp.Body.Close() //nolint:errcheck // test helper
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "https://app.example.com" {
		t.Errorf("Access-Control-Allow-Origin = %q", got)
	}
}

func TestMetrics(t *testing.T) {
	status, body, _ := get(t, newTestServer(), "/metrics")
	if status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}
	if !strings.Contains(body, "go_goroutines") {
		t.Error("metrics output missing go_goroutines")
	}
}

func TestErrorLogging(t *testing.T) {
	tests := []struct {
		path    string
		wantMsg string
	}{
		{"/api/github/oops", `msg="internal fault"`},
		{"/api/github/boom", `msg="request failed"`},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			var buf bytes.Buffer
			s := New(fakeChecker{}, WithLogger(slog.New(slog.NewTextHandler(&buf, nil))))
			if status, _, _ := get(t, s, tt.path); status != http.StatusInternalServerError {
				t.Fatalf("status = %d, want 500", status)
			}
			if !strings.Contains(buf.String(), tt.wantMsg) {
				t.Errorf("log = %s, want %s", buf.String(), tt.wantMsg)
			}
		})
	}
}
