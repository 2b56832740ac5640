package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config is centralized process configuration.
// Keep infra values here and pass typed config into builders.
type Config struct {
	ServiceName  string
	HTTPPort     string
	PostgresDSN  string
	KafkaBrokers []string

	OwnerAddress string
	TotalSupply  uint64
	TokenName    string
	TokenSymbol  string
	TokenDecimal uint8

	OutboxBatchSize    int
	OutboxPollInterval time.Duration

	EnableOutboxRelay       bool
	EnableResultsProjection bool
}

func Load() (Config, error) {
	service := envString("SERVICE_NAME", "voting-ledger")
	port := envString("HTTP_PORT", "8080")

	var brokers []string
	for _, value := range strings.Split(os.Getenv("KAFKA_BROKERS"), ",") {
		value = strings.TrimSpace(value)
		if value != "" {
			brokers = append(brokers, value)
		}
	}
	if len(brokers) == 0 {
		brokers = []string{"localhost:9092"}
	}

	owner := strings.TrimSpace(os.Getenv("LEDGER_OWNER_ADDRESS"))
	if owner == "" {
		return Config{}, errors.New("LEDGER_OWNER_ADDRESS is required")
	}

	supply, err := strconv.ParseUint(envString("LEDGER_TOTAL_SUPPLY", "1000000"), 10, 64)
	if err != nil {
		return Config{}, fmt.Errorf("parse LEDGER_TOTAL_SUPPLY: %w", err)
	}
	decimals, err := strconv.ParseUint(envString("TOKEN_DECIMALS", "18"), 10, 8)
	if err != nil {
		return Config{}, fmt.Errorf("parse TOKEN_DECIMALS: %w", err)
	}
	batchSize, err := strconv.Atoi(envString("OUTBOX_BATCH_SIZE", "100"))
	if err != nil || batchSize <= 0 {
		return Config{}, fmt.Errorf("OUTBOX_BATCH_SIZE must be a positive integer")
	}
	pollInterval, err := time.ParseDuration(envString("OUTBOX_POLL_INTERVAL", "2s"))
	if err != nil || pollInterval <= 0 {
		return Config{}, fmt.Errorf("OUTBOX_POLL_INTERVAL must be a positive duration")
	}

	return Config{
		ServiceName:  service,
		HTTPPort:     port,
		PostgresDSN:  os.Getenv("POSTGRES_DSN"),
		KafkaBrokers: brokers,

		OwnerAddress: owner,
		TotalSupply:  supply,
		TokenName:    envString("TOKEN_NAME", "Voting Token"),
		TokenSymbol:  envString("TOKEN_SYMBOL", "VOTE"),
		TokenDecimal: uint8(decimals),

		OutboxBatchSize:    batchSize,
		OutboxPollInterval: pollInterval,

		EnableOutboxRelay:       envBool("ENABLE_OUTBOX_RELAY", true),
		EnableResultsProjection: envBool("ENABLE_RESULTS_PROJECTION", true),
	}, nil
}

func envString(name string, fallback string) string {
	value := strings.TrimSpace(os.Getenv(name))
	if value == "" {
		return fallback
	}
	return value
}

func envBool(name string, fallback bool) bool {
	raw := strings.TrimSpace(strings.ToLower(os.Getenv(name)))
	if raw == "" {
		return fallback
	}
	switch raw {
	case "1", "true", "t", "yes", "y", "on":
		return true
	case "0", "false", "f", "no", "n", "off":
		return false
	default:
		return fallback
	}
}
