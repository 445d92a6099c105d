// Command crawler runs a concurrent web crawler and content indexer:
// it fetches pages starting from a seed URL, extracts links and
// keywords, and persists the results to a SQLite database.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cametumbling/crawlindex/internal/config"
	"github.com/cametumbling/crawlindex/internal/crawler"
	"github.com/cametumbling/crawlindex/internal/indexer"
	"github.com/cametumbling/crawlindex/internal/platform/htmlparser"
	"github.com/cametumbling/crawlindex/internal/platform/httpclient"
	"github.com/cametumbling/crawlindex/internal/ratelimit"
	"github.com/cametumbling/crawlindex/internal/stats"
)

const shutdownTimeout = 5 * time.Second

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	cfg, err := config.Parse(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	httpClient := httpclient.New(httpclient.Config{
		Timeout:     cfg.Timeout,
		MaxBodySize: cfg.MaxBodyBytes,
	})
	defer httpClient.Close()

	ix, err := indexer.Open(context.Background(), cfg.DBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening index: %v\n", err)
		return 1
	}
	defer ix.Close()

	st := stats.New()

	engine, err := crawler.New(crawler.Config{
		StartURL:    cfg.URL,
		Workers:     cfg.Workers,
		MaxDepth:    cfg.MaxDepth,
		Unbounded:   cfg.Unbounded,
		AllowedHost: cfg.AllowedHost,
		Fetcher:     httpClient,
		Parser:      htmlparser.New(),
		Indexer:     ix,
		RateLimiter: ratelimit.New(cfg.RatePerSecond),
		Stats:       st,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating engine: %v\n", err)
		return 1
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	snapCh := make(chan stats.Snapshot, 1)
	go func() {
		snapCh <- engine.Run(ctx)
	}()

	select {
	case snap := <-snapCh:
		snap.Report(os.Stdout)
		return 0
	case sig := <-sigCh:
		log.Printf("received signal %v, shutting down gracefully...", sig)
		cancel()

		select {
		case snap := <-snapCh:
			snap.Report(os.Stdout)
			log.Println("shutdown complete")
			return 130
		case <-time.After(shutdownTimeout):
			fmt.Fprintln(os.Stderr, "shutdown timeout exceeded, forcing exit")
			return 130
		}
	}
}
