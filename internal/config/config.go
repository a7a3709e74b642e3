// Package config holds the shared config structs loaded from the
// environment by pkg/envconf.
package config

import "time"

type PostgresConfig struct {
	DSN             string        `env:"PG_DSN" envDefault:""`
	MaxOpenConns    int           `env:"PG_MAX_OPEN_CONNS" envDefault:"10"`
	MaxIdleConns    int           `env:"PG_MAX_IDLE_CONNS" envDefault:"5"`
	ConnMaxIdleTime time.Duration `env:"PG_CONN_MAX_IDLE_TIME" envDefault:"5m"`
	ConnMaxLifetime time.Duration `env:"PG_CONN_MAX_LIFETIME" envDefault:"30m"`
}

// StoreConfig selects and parameterizes the wallet's durable store.
type StoreConfig struct {
	// Driver is "file" or "postgres".
	Driver   string `env:"STORE_DRIVER" envDefault:"file"`
	DataDir  string `env:"WALLET_DATA_DIR" envDefault:"./data"`
	Postgres PostgresConfig
}

// FeedConfig points at the external settlement feed.
type FeedConfig struct {
	URL          string        `env:"FEED_URL"`
	Timeout      time.Duration `env:"FEED_TIMEOUT" envDefault:"5s"`
	PollInterval time.Duration `env:"FEED_POLL_INTERVAL" envDefault:"30s"`
}
