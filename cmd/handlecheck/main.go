// Command handlecheck reports whether a username exists on supported platforms.
//
// Usage:
//
//	handlecheck octocat                 # every platform
//	handlecheck -p github octocat       # one platform
//	handlecheck -p spotify adel         # GITHUB_TOKEN is read from the environment
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/codeGROOVE-dev/handlecheck/pkg/handlecheck"
	"github.com/codeGROOVE-dev/handlecheck/pkg/httpclient"
	"github.com/codeGROOVE-dev/handlecheck/pkg/profile"
)

func main() {
	debug := flag.Bool("debug", false, "enable debug logging")
	verbose := flag.Bool("v", false, "verbose logging (same as -debug)")
	platform := flag.String("p", "", "check a single platform instead of all of them")
	timeout := flag.Duration("timeout", httpclient.DefaultTimeout, "timeout for each live lookup")
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: handlecheck [options] <username>")
		fmt.Fprintln(os.Stderr, "\nOptions:")
		flag.PrintDefaults()
		fmt.Fprintln(os.Stderr, "\nSupported platforms:")
		for _, p := range profile.Platforms() {
			fmt.Fprintf(os.Stderr, "  - %s (%s)\n", p.Name(), p.Strategy())
		}
		os.Exit(1)
	}

	username := flag.Arg(0)

	logLevel := slog.LevelInfo
	if *debug || *verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))

	ctx, cancel := context.WithTimeout(context.Background(), 2*(*timeout)+time.Second)
	defer cancel()

	checker, err := handlecheck.New(ctx,
		handlecheck.WithLogger(logger),
		handlecheck.WithHTTPClient(httpclient.New(*timeout)),
		handlecheck.WithGitHubToken(os.Getenv("GITHUB_TOKEN")),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1) //nolint:gocritic // exitAfterDefer is acceptable in main
	}

	var out any
	if *platform != "" {
		res, err := checker.Check(ctx, *platform, username)
		if errors.Is(err, handlecheck.ErrUnknownPlatform) {
			fmt.Fprintf(os.Stderr, "Error: %v (try one of the platforms listed by -h)\n", err)
			os.Exit(2)
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		out = res
	} else {
		results, err := checker.CheckAll(ctx, username)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		out = map[string]any{"username": username, "results": results}
	}

	if err := outputJSON(out); err != nil {
		fmt.Fprintf(os.Stderr, "Output error: %v\n", err)
		os.Exit(1)
	}
}

func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
