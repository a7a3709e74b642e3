package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/quantgoal/walletd/internal/api"
	"github.com/quantgoal/walletd/internal/config"
	"github.com/quantgoal/walletd/internal/feed"
	"github.com/quantgoal/walletd/internal/infra/logging"
	"github.com/quantgoal/walletd/internal/infra/pgutils"
	"github.com/quantgoal/walletd/internal/services/wallet"
	"github.com/quantgoal/walletd/internal/store"
	filestore "github.com/quantgoal/walletd/internal/store/file"
	pgstore "github.com/quantgoal/walletd/internal/store/postgres"
	"github.com/quantgoal/walletd/pkg/envconf"
	"github.com/quantgoal/walletd/pkg/shutdownqueue"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := run(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error running walletd: %v", err)
		//nolint:gocritic
		os.Exit(1)
	}
}

func run(ctx context.Context) (retErr error) {
	cfg := new(appConfig)

	err := envconf.Load(cfg)
	if err != nil {
		return fmt.Errorf("init config: %w", err)
	}

	logging.SetupJSON(cfg.LogLevel)

	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		serr := shutdownqueue.Shutdown(shutdownCtx)
		if serr != nil {
			retErr = errors.Join(retErr, serr)
		}
	}()

	// --- Durable store ---
	st, err := openStore(ctx, cfg.Store)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}

	shutdownqueue.Add(func(context.Context) error {
		slog.Info("Close store")

		return st.Close()
	})

	// --- Wallet service ---
	feedClient := feed.NewHTTP(cfg.Feed.URL, cfg.Feed.Timeout)

	walletSrv, err := wallet.New(ctx, st, feedClient)
	if err != nil {
		return fmt.Errorf("init wallet: %w", err)
	}

	// --- Settlement poller ---
	pollCtx, stopPolling := context.WithCancel(ctx)
	ticker := time.NewTicker(cfg.Feed.PollInterval)

	pollDone := make(chan struct{})

	go func() {
		defer close(pollDone)
		walletSrv.RunPolling(pollCtx, ticker.C)
	}()

	shutdownqueue.Add(func(context.Context) error {
		slog.Info("Stop settlement poller")

		ticker.Stop()
		stopPolling()
		<-pollDone

		return nil
	})

	// --- HTTP server ---
	srv := api.NewServer(cfg.Port, walletSrv)

	shutdownqueue.Add(func(c context.Context) error {
		slog.Info("Shut down server")

		err := srv.Shutdown(c)
		if err != nil {
			return fmt.Errorf("shutdown srv: %w", err)
		}

		return nil
	})

	errCh := make(chan error, 1)

	go func() {
		serr := srv.ListenAndServe()
		// http.ErrServerClosed is the normal path during Shutdown
		if serr != nil && !errors.Is(serr, http.ErrServerClosed) {
			errCh <- serr
			return
		}

		errCh <- nil
	}()

	slog.Info("walletd started", "port", cfg.Port, "store", cfg.Store.Driver)

	// --- Wait until either context cancels or server errors out ---
	select {
	case <-ctx.Done():
		// graceful path; deferred shutdownqueue.Shutdown will run
		return nil
	case serr := <-errCh:
		if serr != nil {
			return fmt.Errorf("server error: %w", serr)
		}

		return nil
	}
}

func openStore(ctx context.Context, cfg config.StoreConfig) (store.Store, error) {
	switch cfg.Driver {
	case "file":
		s, err := filestore.New(cfg.DataDir)
		if err != nil {
			return nil, fmt.Errorf("file store: %w", err)
		}

		return s, nil

	case "postgres":
		db, err := pgutils.OpenDB(ctx, cfg.Postgres)
		if err != nil {
			return nil, fmt.Errorf("open db: %w", err)
		}

		return pgstore.New(db), nil

	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}
