package pipeline

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/codeGROOVE-dev/handlecheck/pkg/profile"
)

type recorder struct {
	ran []string
}

func (r *recorder) stage(name string, p *profile.Profile, err error) Stage {
	return Stage{
		Name: name,
		Run: func(context.Context, string) (*profile.Profile, error) {
			r.ran = append(r.ran, name)
			return p, err
		},
	}
}

func TestRun(t *testing.T) {
	live := &profile.Profile{Platform: "test", Username: "alice"}
	live.SetProvenance(profile.ProvenanceScraped)
	fake := &profile.Profile{Platform: "test", Username: "alice"}
	fake.SetProvenance(profile.ProvenanceSimulated)

	unavailable := fmt.Errorf("fetch: %w", profile.ErrUnavailable)
	notFound := fmt.Errorf("fetch: %w", profile.ErrProfileNotFound)
	internal := fmt.Errorf("boom: %w", profile.ErrInternal)

	tests := []struct {
		name       string
		liveP      *profile.Profile
		liveErr    error
		wantExists bool
		wantProv   profile.Provenance
		wantErr    error
		wantRan    []string
	}{
		{"live success", live, nil, true, profile.ProvenanceScraped, nil, []string{"live"}},
		{"live unavailable falls back", nil, unavailable, true, profile.ProvenanceSimulated, nil, []string{"live", "fallback"}},
		{"live 404 short-circuits", nil, notFound, false, "", nil, []string{"live"}},
		{"live passes with nil", nil, nil, true, profile.ProvenanceSimulated, nil, []string{"live", "fallback"}},
		{"internal fault surfaces", nil, internal, false, "", profile.ErrInternal, []string{"live"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &recorder{}
			got, err := Run(context.Background(), nil, "test", "alice",
				r.stage("live", tt.liveP, tt.liveErr), r.stage("fallback", fake, nil))
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Run() error = %v, want %v", err, tt.wantErr)
			}
			if got.Exists != tt.wantExists {
				t.Errorf("Exists = %v, want %v", got.Exists, tt.wantExists)
			}
			if tt.wantExists && got.Profile.Provenance != tt.wantProv {
				t.Errorf("Provenance = %q, want %q", got.Profile.Provenance, tt.wantProv)
			}
			if !tt.wantExists && got.Profile != nil {
				t.Errorf("Profile = %+v, want nil", got.Profile)
			}
			if fmt.Sprint(r.ran) != fmt.Sprint(tt.wantRan) {
				t.Errorf("stages ran = %v, want %v", r.ran, tt.wantRan)
			}
		})
	}
}

func TestRunExhausted(t *testing.T) {
	r := &recorder{}
	got, err := Run(context.Background(), nil, "exhausted", "bob",
		r.stage("live", nil, profile.ErrUnavailable),
		r.stage("fallback", nil, nil))
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if got.Exists || got.Profile != nil {
		t.Errorf("Run() = %+v, want not found", got)
	}
	if n := testutil.ToFloat64(resolutions.WithLabelValues("exhausted", OutcomeNotFound)); n != 1 {
		t.Errorf("not_found counter = %v, want 1", n)
	}
}

func TestRunNoStages(t *testing.T) {
	got, err := Run(context.Background(), nil, "empty", "carol")
	if err != nil || got.Exists {
		t.Errorf("Run() = %+v, %v; want not found", got, err)
	}
}
