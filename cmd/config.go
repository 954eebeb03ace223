package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/core/domain/services/financial"
	"marketplace/internal/core/domain/services/temporal"
	"marketplace/internal/pkg/errs"
)

const (
	defaultHTTPPort                = "8080"
	defaultDBSslMode               = "disable"
	defaultKafkaHost               = "localhost:9092"
	defaultKafkaOrderChangedTopic  = "orders.events"
	defaultKafkaNotificationsTopic = "orders.notifications"
	defaultKafkaLedgerTopic        = "orders.ledger"
	defaultLogLevel                = "info"
)

type Config struct {
	HTTPPort   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	KafkaHost               string
	KafkaOrderChangedTopic  string
	KafkaNotificationsTopic string
	KafkaLedgerTopic        string

	ReevaluationSchedule string
	OutboxRelaySchedule  string
	OutboxBatchSize      int
	LogLevel             string

	Rules  temporal.Rules
	Policy financial.Policy
}

// LoadConfig reads the configuration through getenv. Empty values fall back to the
// defaults of the engine and the adapters.
func LoadConfig(getenv func(key string) string) (Config, error) {
	str := func(key, fallback string) string {
		if v := getenv(key); v != "" {
			return v
		}
		return fallback
	}

	config := Config{
		HTTPPort:   str("HTTP_PORT", defaultHTTPPort),
		DBHost:     getenv("DB_HOST"),
		DBPort:     getenv("DB_PORT"),
		DBUser:     getenv("DB_USER"),
		DBPassword: getenv("DB_PASSWORD"),
		DBName:     getenv("DB_NAME"),
		DBSslMode:  str("DB_SSLMODE", defaultDBSslMode),

		KafkaHost:               str("KAFKA_HOST", defaultKafkaHost),
		KafkaOrderChangedTopic:  str("KAFKA_ORDER_CHANGED_TOPIC", defaultKafkaOrderChangedTopic),
		KafkaNotificationsTopic: str("KAFKA_NOTIFICATIONS_TOPIC", defaultKafkaNotificationsTopic),
		KafkaLedgerTopic:        str("KAFKA_LEDGER_TOPIC", defaultKafkaLedgerTopic),

		ReevaluationSchedule: getenv("REEVALUATION_SCHEDULE"),
		OutboxRelaySchedule:  getenv("OUTBOX_RELAY_SCHEDULE"),
		LogLevel:             str("LOG_LEVEL", defaultLogLevel),

		Rules:  temporal.DefaultRules(),
		Policy: financial.DefaultPolicy(),
	}

	var err error
	config.Rules.AutoConfirmWindow, err = durationVar(getenv, "AUTO_CONFIRM_WINDOW", config.Rules.AutoConfirmWindow, err)
	config.Rules.ReassignCutoff, err = durationVar(getenv, "REASSIGN_CUTOFF", config.Rules.ReassignCutoff, err)
	config.Rules.AutoReassignAfter, err = durationVar(getenv, "AUTO_REASSIGN_AFTER", config.Rules.AutoReassignAfter, err)
	config.Policy.RatePerPage, err = intVar(getenv, "RATE_PER_PAGE", config.Policy.RatePerPage, err)

	step, err := intVar(getenv, "REVISION_SCORE_STEP", int64(config.Policy.RevisionScoreStep), err)
	config.Policy.RevisionScoreStep = int(step)
	config.Policy.Currency = str("CURRENCY", config.Policy.Currency)

	batch, err := intVar(getenv, "OUTBOX_BATCH_SIZE", commands.DefaultOutboxBatchSize, err)
	config.OutboxBatchSize = int(batch)

	if err != nil {
		return Config{}, err
	}
	if config.OutboxBatchSize <= 0 {
		err = errs.NewValueIsInvalidErrorWithCause("OUTBOX_BATCH_SIZE", fmt.Errorf("%d is not greater than 0", config.OutboxBatchSize))
	}
	if err = errors.Join(err, config.Rules.Validate(), config.Policy.Validate()); err != nil {
		return Config{}, err
	}
	return config, nil
}

// DSN is the lib/pq connection string.
func (c Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}

func durationVar(getenv func(string) string, key string, fallback time.Duration, prev error) (time.Duration, error) {
	raw := getenv(key)
	if raw == "" {
		return fallback, prev
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback, errors.Join(prev, errs.NewValueIsInvalidErrorWithCause(key, err))
	}
	return d, prev
}

func intVar(getenv func(string) string, key string, fallback int64, prev error) (int64, error) {
	raw := getenv(key)
	if raw == "" {
		return fallback, prev
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return fallback, errors.Join(prev, errs.NewValueIsInvalidErrorWithCause(key, err))
	}
	return v, prev
}
