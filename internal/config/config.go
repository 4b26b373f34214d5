package config

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application level configuration loaded from environment and flags.
type Config struct {
	RunAddress         string
	DatabaseURI        string
	GatewayAddress     string
	GatewayTimeout     time.Duration
	ReturnURL          string
	CancelURL          string
	JWTSecret          string
	VIPDuration        time.Duration
	OrderCodeAttempts  int
	OrderTTL           time.Duration
	ExpirePollInterval time.Duration
	ExpireBatchSize    int
	ShutdownTimeout    time.Duration
}

const (
	defaultRunAddress         = ":8080"
	defaultJWTSecret          = "change-me-in-production"
	defaultGatewayTimeout     = 10 * time.Second
	defaultVIPDuration        = 30 * 24 * time.Hour
	defaultOrderCodeAttempts  = 5
	defaultOrderTTL           = time.Hour
	defaultExpirePollInterval = time.Minute
	defaultExpireBatchSize    = 64
	defaultShutdownTimeout    = 10 * time.Second
)

// Load parses configuration from flags and environment variables. A local
// .env file, when present, is merged into the environment first.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return load(os.Args[1:], os.LookupEnv)
}

type envLookup func(string) (string, bool)

func load(args []string, lookup envLookup) (*Config, error) {
	cfg := &Config{
		RunAddress:         getString(lookup, "RUN_ADDRESS", defaultRunAddress),
		DatabaseURI:        getString(lookup, "DATABASE_URI", ""),
		GatewayAddress:     getString(lookup, "GATEWAY_ADDRESS", ""),
		GatewayTimeout:     getDuration(lookup, "GATEWAY_TIMEOUT", defaultGatewayTimeout),
		ReturnURL:          getString(lookup, "PAYMENT_RETURN_URL", ""),
		CancelURL:          getString(lookup, "PAYMENT_CANCEL_URL", ""),
		JWTSecret:          getString(lookup, "JWT_SECRET", defaultJWTSecret),
		VIPDuration:        getDuration(lookup, "VIP_DURATION", defaultVIPDuration),
		OrderCodeAttempts:  getInt(lookup, "ORDER_CODE_ATTEMPTS", defaultOrderCodeAttempts),
		OrderTTL:           getDuration(lookup, "ORDER_TTL", defaultOrderTTL),
		ExpirePollInterval: getDuration(lookup, "EXPIRE_POLL_INTERVAL", defaultExpirePollInterval),
		ExpireBatchSize:    getInt(lookup, "EXPIRE_BATCH_SIZE", defaultExpireBatchSize),
		ShutdownTimeout:    getDuration(lookup, "SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
	}

	fs := flag.NewFlagSet("vipgate", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		gatewayTimeoutStr  = cfg.GatewayTimeout.String()
		vipDurationStr     = cfg.VIPDuration.String()
		orderTTLStr        = cfg.OrderTTL.String()
		pollIntervalStr    = cfg.ExpirePollInterval.String()
		shutdownTimeoutStr = cfg.ShutdownTimeout.String()
	)

	fs.StringVar(&cfg.RunAddress, "a", cfg.RunAddress, "HTTP server listen address")
	fs.StringVar(&cfg.DatabaseURI, "d", cfg.DatabaseURI, "PostgreSQL DSN")
	fs.StringVar(&cfg.GatewayAddress, "g", cfg.GatewayAddress, "Payment gateway base URL")
	fs.StringVar(&cfg.ReturnURL, "return-url", cfg.ReturnURL, "Redirect URL after successful payment")
	fs.StringVar(&cfg.CancelURL, "cancel-url", cfg.CancelURL, "Redirect URL after cancelled payment")
	fs.StringVar(&cfg.JWTSecret, "jwt-secret", cfg.JWTSecret, "Secret for signing auth tokens")
	fs.StringVar(&gatewayTimeoutStr, "gateway-timeout", gatewayTimeoutStr, "Timeout for payment gateway calls")
	fs.StringVar(&vipDurationStr, "vip-duration", vipDurationStr, "VIP entitlement window granted per paid order")
	fs.StringVar(&orderTTLStr, "order-ttl", orderTTLStr, "Max age of a pending order before auto-cancel")
	fs.StringVar(&pollIntervalStr, "expire-poll-interval", pollIntervalStr, "Interval between stale order sweeps")
	fs.IntVar(&cfg.ExpireBatchSize, "expire-batch", cfg.ExpireBatchSize, "Maximum orders cancelled per sweep")
	fs.IntVar(&cfg.OrderCodeAttempts, "code-attempts", cfg.OrderCodeAttempts, "Retries for order code collisions")
	fs.StringVar(&shutdownTimeoutStr, "shutdown-timeout", shutdownTimeoutStr, "Graceful shutdown timeout")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	var err error

	if cfg.GatewayTimeout, err = time.ParseDuration(gatewayTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid gateway timeout: %w", err)
	}

	if cfg.VIPDuration, err = time.ParseDuration(vipDurationStr); err != nil {
		return nil, fmt.Errorf("invalid vip duration: %w", err)
	}

	if cfg.OrderTTL, err = time.ParseDuration(orderTTLStr); err != nil {
		return nil, fmt.Errorf("invalid order ttl: %w", err)
	}

	if cfg.ExpirePollInterval, err = time.ParseDuration(pollIntervalStr); err != nil {
		return nil, fmt.Errorf("invalid expire poll interval: %w", err)
	}

	if cfg.ShutdownTimeout, err = time.ParseDuration(shutdownTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid shutdown timeout: %w", err)
	}

	if secretFile, ok := lookup("JWT_SECRET_FILE"); ok && secretFile != "" {
		content, err := os.ReadFile(secretFile)
		if err != nil {
			return nil, fmt.Errorf("read jwt secret file: %w", err)
		}
		cfg.JWTSecret = string(content)
	}

	if cfg.GatewayTimeout <= 0 {
		cfg.GatewayTimeout = defaultGatewayTimeout
	}

	if cfg.VIPDuration <= 0 {
		cfg.VIPDuration = defaultVIPDuration
	}

	if cfg.OrderCodeAttempts <= 0 {
		cfg.OrderCodeAttempts = defaultOrderCodeAttempts
	}

	if cfg.OrderTTL <= 0 {
		cfg.OrderTTL = defaultOrderTTL
	}

	if cfg.ExpirePollInterval <= 0 {
		cfg.ExpirePollInterval = defaultExpirePollInterval
	}

	if cfg.ExpireBatchSize <= 0 {
		cfg.ExpireBatchSize = defaultExpireBatchSize
	}

	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	if cfg.DatabaseURI == "" {
		return nil, fmt.Errorf("database URI must be provided")
	}

	if cfg.GatewayAddress == "" {
		return nil, fmt.Errorf("payment gateway address must be provided")
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
