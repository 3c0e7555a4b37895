package app

import "time"

// Поддерживаемые драйверы хранилища.
const (
	StorageDriverMemory   = "memory"
	StorageDriverPostgres = "postgres"
)

// DevJWTSecret используется, если SHOP_JWT_SECRET не задан. Только для локального запуска.
const DevJWTSecret = "shopcheck-dev-secret"

// Config описывает настройки запуска сервиса магазина.
type Config struct {
	HTTPAddr    string
	MetricsAddr string
	GRPCAddr    string

	StorageDriver       string
	PostgresDSN         string
	PostgresAutoMigrate bool

	JWTSecret       string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	// BcryptCost 0 означает bcrypt.DefaultCost.
	BcryptCost int

	SeedDemoData bool

	KafkaBrokers       []string
	KafkaTopic         string
	// OutboxEnabled пишет события в outbox и без Kafka, например для внешнего relay.
	// С брокерами Kafka outbox включён всегда.
	OutboxEnabled      bool
	OutboxPollInterval time.Duration
	OutboxBatchSize    int
	OutboxMaxAttempts  int
	OutboxRetryDelay   time.Duration
	OutboxMaxAge       time.Duration
}

// DefaultConfig возвращает настройки для локального запуска без внешних зависимостей.
func DefaultConfig() Config {
	return Config{
		HTTPAddr:            ":8080",
		MetricsAddr:         ":9090",
		GRPCAddr:            ":50051",
		StorageDriver:       StorageDriverMemory,
		PostgresAutoMigrate: true,
		JWTSecret:           DevJWTSecret,
		AccessTokenTTL:      30 * time.Minute,
		RefreshTokenTTL:     7 * 24 * time.Hour,
		SeedDemoData:        true,
		OutboxPollInterval:  time.Second,
		OutboxBatchSize:     100,
		OutboxMaxAttempts:   3,
		OutboxRetryDelay:    50 * time.Millisecond,
		OutboxMaxAge:        5 * time.Minute,
	}
}

// OutboxActive сообщает, что события пишутся в outbox и кто-то его разбирает.
func (c Config) OutboxActive() bool {
	return c.OutboxEnabled || len(c.KafkaBrokers) > 0
}
