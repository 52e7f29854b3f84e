package config

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"
)

// Config holds application level configuration loaded from environment and flags.
type Config struct {
	RunAddress      string
	OrderAPIAddress string
	BrokerURL       string
	BrokerExchange  string
	BearerToken     string
	ReconnectDelay  time.Duration
	PageSize        int
	NoticeTTL       time.Duration
	ShutdownTimeout time.Duration
}

const (
	defaultRunAddress      = ":8080"
	defaultBrokerExchange  = "order-events"
	defaultReconnectDelay  = 3 * time.Second
	defaultPageSize        = 10
	defaultNoticeTTL       = 5 * time.Second
	defaultShutdownTimeout = 10 * time.Second
)

// Load parses configuration from flags and environment variables.
func Load() (*Config, error) {
	return load(os.Args[1:], os.LookupEnv)
}

type envLookup func(string) (string, bool)

func load(args []string, lookup envLookup) (*Config, error) {
	cfg := &Config{
		RunAddress:      getString(lookup, "RUN_ADDRESS", defaultRunAddress),
		OrderAPIAddress: getString(lookup, "ORDER_API_ADDRESS", ""),
		BrokerURL:       getString(lookup, "BROKER_URL", ""),
		BrokerExchange:  getString(lookup, "BROKER_EXCHANGE", defaultBrokerExchange),
		BearerToken:     getString(lookup, "BEARER_TOKEN", ""),
		ReconnectDelay:  getDuration(lookup, "RECONNECT_DELAY", defaultReconnectDelay),
		PageSize:        getInt(lookup, "PAGE_SIZE", defaultPageSize),
		NoticeTTL:       getDuration(lookup, "NOTICE_TTL", defaultNoticeTTL),
		ShutdownTimeout: getDuration(lookup, "SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
	}

	fs := flag.NewFlagSet("storefront", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		reconnectDelayStr  = cfg.ReconnectDelay.String()
		noticeTTLStr       = cfg.NoticeTTL.String()
		shutdownTimeoutStr = cfg.ShutdownTimeout.String()
	)

	fs.StringVar(&cfg.RunAddress, "a", cfg.RunAddress, "HTTP server listen address")
	fs.StringVar(&cfg.OrderAPIAddress, "r", cfg.OrderAPIAddress, "Order API base URL")
	fs.StringVar(&cfg.BrokerURL, "b", cfg.BrokerURL, "AMQP broker URL")
	fs.StringVar(&cfg.BrokerExchange, "exchange", cfg.BrokerExchange, "AMQP topic exchange for order events")
	fs.StringVar(&cfg.BearerToken, "token", cfg.BearerToken, "Bearer token for the order API session")
	fs.StringVar(&reconnectDelayStr, "reconnect-delay", reconnectDelayStr, "Delay between broker reconnect attempts")
	fs.IntVar(&cfg.PageSize, "page-size", cfg.PageSize, "Orders per dashboard page")
	fs.StringVar(&noticeTTLStr, "notice-ttl", noticeTTLStr, "Lifetime of transient dashboard notices")
	fs.StringVar(&shutdownTimeoutStr, "shutdown-timeout", shutdownTimeoutStr, "Graceful shutdown timeout")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	var err error

	if cfg.ReconnectDelay, err = time.ParseDuration(reconnectDelayStr); err != nil {
		return nil, fmt.Errorf("invalid reconnect delay: %w", err)
	}

	if cfg.NoticeTTL, err = time.ParseDuration(noticeTTLStr); err != nil {
		return nil, fmt.Errorf("invalid notice ttl: %w", err)
	}

	if cfg.ShutdownTimeout, err = time.ParseDuration(shutdownTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid shutdown timeout: %w", err)
	}

	if tokenFile, ok := lookup("BEARER_TOKEN_FILE"); ok && tokenFile != "" {
		content, err := os.ReadFile(tokenFile)
		if err != nil {
			return nil, fmt.Errorf("read bearer token file: %w", err)
		}
		cfg.BearerToken = string(content)
	}

	if cfg.ReconnectDelay <= 0 {
		cfg.ReconnectDelay = defaultReconnectDelay
	}

	if cfg.PageSize <= 0 {
		cfg.PageSize = defaultPageSize
	}

	if cfg.NoticeTTL <= 0 {
		cfg.NoticeTTL = defaultNoticeTTL
	}

	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	if cfg.OrderAPIAddress == "" {
		return nil, fmt.Errorf("order API address must be provided")
	}

	if cfg.BrokerURL == "" {
		return nil, fmt.Errorf("broker URL must be provided")
	}

	return cfg, nil
}

func getString(lookup envLookup, key, def string) string {
	if v, ok := lookup(key); ok && v != "" {
		return v
	}
	return def
}

func getInt(lookup envLookup, key string, def int) int {
	if v, ok := lookup(key); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getDuration(lookup envLookup, key string, def time.Duration) time.Duration {
	if v, ok := lookup(key); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
