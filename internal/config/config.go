// Package config resolves crawler settings from a positional start URL,
// CLI flags, and environment variable fallbacks, with CLI flags always
// winning when explicitly set.
package config

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds the fully resolved settings for a crawl run.
type Config struct {
	URL           string
	Workers       int // --concurrency
	MaxDepth      int
	Unbounded     bool
	AllowedHost   string // --domain; empty means any host is followed
	RatePerSecond float64
	Timeout       time.Duration
	MaxBodyBytes  int64
	DBPath        string
}

const (
	defaultConcurrency = 10
	defaultRateLimit   = 5.0
	defaultTimeout     = 10 * time.Second
	defaultMaxBodyByte = 10 * 1024 * 1024
	defaultDBPath      = "crawler_index.db"
)

// Parse builds a Config from args (typically os.Args[1:]): flags
// followed by a required positional start_url (flag parsing stops at the
// first non-flag argument, so flags after start_url are not read). Any flag left unset falls
// back to its CRAWLER_* environment variable, then to its built-in
// default. An explicitly-set CLI flag always wins over its environment
// counterpart.
func Parse(args []string) (Config, error) {
	fs := flag.NewFlagSet("crawler", flag.ContinueOnError)

	maxDepth := fs.Int("max-depth", -1, "maximum link depth to follow (-1 = unbounded)")
	domain := fs.String("domain", "", "host links must match to be followed (default: empty, any host is followed)")
	concurrency := fs.Int("concurrency", defaultConcurrency, "number of concurrent workers")
	rateLimit := fs.Float64("rate-limit", defaultRateLimit, "requests per second, per host")
	dbPath := fs.String("db-path", defaultDBPath, "path to the SQLite index database")
	timeoutSecs := fs.Int("timeout", int(defaultTimeout.Seconds()), "per-attempt fetch timeout in seconds")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	explicit := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { explicit[f.Name] = true })

	if fs.NArg() < 1 {
		return Config{}, fmt.Errorf("start_url is required")
	}

	cfg := Config{
		URL:           fs.Arg(0),
		Workers:       *concurrency,
		MaxDepth:      *maxDepth,
		AllowedHost:   *domain,
		RatePerSecond: *rateLimit,
		Timeout:       time.Duration(*timeoutSecs) * time.Second,
		MaxBodyBytes:  defaultMaxBodyByte,
		DBPath:        *dbPath,
	}

	if !explicit["concurrency"] {
		if v, ok := envInt("CRAWLER_CONCURRENCY"); ok {
			cfg.Workers = v
		}
	}
	if !explicit["rate-limit"] {
		if v, ok := envFloat("CRAWLER_RATE_LIMIT"); ok {
			cfg.RatePerSecond = v
		}
	}
	if !explicit["db-path"] {
		if v := os.Getenv("CRAWLER_DB_PATH"); v != "" {
			cfg.DBPath = v
		}
	}

	cfg.Unbounded = cfg.MaxDepth < 0

	if cfg.Workers <= 0 {
		return Config{}, fmt.Errorf("concurrency must be greater than 0")
	}
	if cfg.RatePerSecond <= 0 {
		return Config{}, fmt.Errorf("rate-limit must be greater than 0")
	}

	return cfg, nil
}

func envInt(name string) (int, bool) {
	v := os.Getenv(name)
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

func envFloat(name string) (float64, bool) {
	v := os.Getenv(name)
	if v == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
