// Command hrquery calls one consumption endpoint and prints its rows as
// JSON.
//
// Usage:
//
//	hrquery [-url http://localhost:4000] <endpoint> [key=value ...]
//
// Example:
//
//	hrquery getLatestUserHeartRates min_hr=60 limit=10 users=ann users=bob
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/prompted/hrconsume/internal/client"
	"github.com/prompted/hrconsume/internal/config"
	"github.com/prompted/hrconsume/internal/httpx"
)

func main() {
	cfg := config.LoadClient()

	baseURL := flag.String("url", cfg.BaseURL, "consumption service base URL")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [-url URL] <endpoint> [key=value ...]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: config.ParseLevel(cfg.LogLevel),
	})))

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(2)
	}

	params, err := parseParams(flag.Args()[1:])
	if err != nil {
		slog.Error("invalid arguments", "error", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	c := client.New(*baseURL, httpx.NewClient(cfg.Timeout, cfg.MaxRetries))
	rows, err := c.Query(ctx, flag.Arg(0), params)
	if err != nil {
		slog.Error("query failed", "endpoint", flag.Arg(0), "error", err)
		os.Exit(1)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rows); err != nil {
		slog.Error("encode rows", "error", err)
		os.Exit(1)
	}
}

// parseParams turns key=value arguments into query parameters. Repeated keys
// accumulate.
func parseParams(args []string) (url.Values, error) {
	params := url.Values{}
	for _, arg := range args {
		k, v, ok := strings.Cut(arg, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("expected key=value, got %q", arg)
		}
		params.Add(k, v)
	}
	return params, nil
}
