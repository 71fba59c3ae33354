// Package pipeline runs a platform's resolution stages in order.
//
// A stage either confirms a profile, declares the username absent, fails with an
// internal fault, or passes. Passing hands the username to the next stage; when
// no stage is left the username is reported as not found. Stages are never retried.
package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/codeGROOVE-dev/handlecheck/pkg/profile"
)

// Outcome labels recorded when no stage produced a profile.
const (
	OutcomeNotFound = "not_found"
	OutcomeError    = "error"
)

var (
	resolutions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "handlecheck_resolutions_total",
		Help: "The total number of username resolutions per platform and outcome",
	}, []string{"platform", "outcome"})
	stageDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "handlecheck_stage_duration_seconds",
		Help:    "Duration of a single resolution stage in seconds",
		Buckets: []float64{.001, .01, .05, .1, .25, .5, 1, 2.5, 5, 10},
	}, []string{"platform", "stage"})
)

// Stage is one step of a resolution.
// Run returns (p, nil) to confirm p, an error matching profile.ErrProfileNotFound
// to stop with a not-found result, or an error matching profile.ErrInternal to abort.
// Any other error, or (nil, nil), passes to the next stage.
type Stage struct {
	Name string
	Run  func(ctx context.Context, username string) (*profile.Profile, error)
}

// Run executes stages in order for username on platform.
// The returned error is non-nil only for internal faults.
func Run(ctx context.Context, logger *slog.Logger, platform, username string, stages ...Stage) (profile.Result, error) {
	if logger == nil {
		logger = slog.Default()
	}

	for _, st := range stages {
		start := time.Now()
		p, err := st.Run(ctx, username)
		stageDuration.WithLabelValues(platform, st.Name).Observe(time.Since(start).Seconds())

		switch {
		case err == nil && p != nil:
			logger.DebugContext(ctx, "stage resolved profile",
				"platform", platform, "username", username, "stage", st.Name, "provenance", p.Provenance)
			resolutions.WithLabelValues(platform, st.Name).Inc()
			return profile.Found(p), nil
		case errors.Is(err, profile.ErrInternal):
			logger.ErrorContext(ctx, "stage failed with internal fault",
				"platform", platform, "username", username, "stage", st.Name, "error", err)
			resolutions.WithLabelValues(platform, OutcomeError).Inc()
			return profile.Result{}, err
		case errors.Is(err, profile.ErrProfileNotFound):
			logger.DebugContext(ctx, "stage reported profile not found",
				"platform", platform, "username", username, "stage", st.Name)
			resolutions.WithLabelValues(platform, OutcomeNotFound).Inc()
			return profile.NotFound(), nil
		case err != nil:
			logger.DebugContext(ctx, "stage failed, moving on",
				"platform", platform, "username", username, "stage", st.Name, "error", err)
		default:
			logger.DebugContext(ctx, "stage passed",
				"platform", platform, "username", username, "stage", st.Name)
		}
	}

	resolutions.WithLabelValues(platform, OutcomeNotFound).Inc()
	return profile.NotFound(), nil
}
