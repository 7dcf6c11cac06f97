// Command resolve answers a single weather request and prints the result as JSON.
//
// Usage:
//
//	go run ./cmd/resolve -date 2025-06-12 -place 강남역
//	go run ./cmd/resolve -date 2025-06-12 -now 2025-06-10T09:30:00+09:00
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

	"github.com/couchcryptid/forecast-resolver/internal/config"
	"github.com/couchcryptid/forecast-resolver/internal/domain"
	"github.com/couchcryptid/forecast-resolver/internal/observability"
	"github.com/couchcryptid/forecast-resolver/internal/resolver"
	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"
)

const (
	exitOK = iota
	exitFailure
	exitInvalidRequest
)

func main() {
	date := flag.String("date", "", "target date, YYYY-MM-DD (required)")
	place := flag.String("place", "", "place name to geocode; empty uses the default place")
	now := flag.String("now", "", "pretend the current time is this RFC3339 timestamp")
	timeout := flag.Duration("timeout", 30*time.Second, "overall deadline")
	flag.Parse()

	if *date == "" {
		flag.Usage()
		os.Exit(exitInvalidRequest)
	}
	os.Exit(run(*date, *place, *now, *timeout))
}

func run(date, place, now string, timeout time.Duration) int {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "load .env: %v\n", err)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		return exitFailure
	}
	// Logs go to stderr so stdout carries only the result.
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	metrics := observability.NewMetrics()

	clock := clockwork.NewRealClock()
	if now != "" {
		t, err := time.Parse(time.RFC3339, now)
		if err != nil {
			fmt.Fprintf(os.Stderr, "invalid -now %q: %v\n", now, err)
			return exitInvalidRequest
		}
		clock = clockwork.NewFakeClockAt(t)
	}

	res, err := resolver.NewFromConfig(cfg, clock, logger, metrics)
	if err != nil {
		fmt.Fprintf(os.Stderr, "resolver: %v\n", err)
		return exitFailure
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	resolved, err := res.ResolveRequest(ctx, domain.WeatherRequest{Date: date, Place: place})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		if errors.Is(err, domain.ErrInvalidRequest) {
			return exitInvalidRequest
		}
		return exitFailure
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(resolved); err != nil {
		fmt.Fprintf(os.Stderr, "encode: %v\n", err)
		return exitFailure
	}
	return exitOK
}
