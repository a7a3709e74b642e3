package main

import (
	"log/slog"
	"time"

	"github.com/quantgoal/walletd/internal/config"
)

type appConfig struct {
	Port            uint16        `env:"PORT" envDefault:"8080"`
	LogLevel        slog.Level    `env:"APP_LOG_LEVEL" envDefault:"INFO"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
	Store           config.StoreConfig
	Feed            config.FeedConfig
}
