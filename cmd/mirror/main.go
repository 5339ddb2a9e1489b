// mirror connects to the push stream and maintains a live local mirror
// of server state, logging every observed change to the console.
// Usage: go run ./cmd/mirror --config configs/mirror.local.yaml
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rickgao/botmarket-mirror/internal/auth"
	"github.com/rickgao/botmarket-mirror/internal/config"
	"github.com/rickgao/botmarket-mirror/internal/connection"
	"github.com/rickgao/botmarket-mirror/internal/mirror"
	"github.com/rickgao/botmarket-mirror/internal/model"
	"github.com/rickgao/botmarket-mirror/internal/observable"
	"github.com/rickgao/botmarket-mirror/internal/version"
)

func main() {
	configPath := flag.String("config", "configs/mirror.local.yaml", "path to config file")
	verbose := flag.Bool("verbose", false, "log every per-market update")
	flag.Parse()

	// Set up structured logging
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	logger.Info("starting mirror",
		"version", version.Version,
		"commit", version.Commit,
		"config", *configPath,
	)

	// Load configuration
	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger.Info("configuration loaded",
		"instance_id", cfg.Instance.ID,
		"ws_url", cfg.Server.WSURL,
	)

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	// Credential provider (re-read on every reconnect)
	creds, err := auth.NewFileProvider(cfg.Credentials.AccessTokenPath, cfg.Credentials.IdentityTokenPath)
	if err != nil {
		logger.Error("failed to configure credentials", "error", err)
		os.Exit(1)
	}

	// The mirror and everything observing it
	m := mirror.New(logger)
	watch(m, logger, *verbose)

	// Running count of connectivity drops, derived from the stale flag.
	disconnects := observable.Derive(m.Stale(), 0, func(acc int, stale bool) int {
		if stale {
			return acc + 1
		}
		return acc
	}, logger)
	defer disconnects.Close()

	// Connection manager feeds the mirror
	mgr := connection.NewManager(connection.ManagerConfig{
		WSURL:             cfg.Server.WSURL,
		ReconnectBaseWait: cfg.Connection.ReconnectBaseDelay,
		ReconnectMaxWait:  cfg.Connection.ReconnectMaxDelay,
		PingTimeout:       cfg.Connection.PingTimeout,
		WriteTimeout:      cfg.Connection.WriteTimeout,
		BufferSize:        cfg.Connection.BufferSize,
	}, creds, m, logger)

	if err := mgr.Start(ctx); err != nil {
		logger.Error("failed to start connection manager", "error", err)
		os.Exit(1)
	}

	// Periodic stats until shutdown
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			stopCtx, stopCancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer stopCancel()
			if err := mgr.Stop(stopCtx); err != nil {
				logger.Warn("connection manager stop", "error", err)
			}
			logger.Info("mirror stopped")
			return

		case <-ticker.C:
			ms := m.Stats()
			cs := mgr.Stats()
			logger.Info("stats",
				"connected", cs.Connected,
				"frames", cs.Frames,
				"decode_errors", cs.DecodeErrors,
				"applied", ms.Applied,
				"dropped", ms.DroppedNoEnt,
				"duplicates", ms.Duplicates,
				"markets", len(m.Markets().Get()),
				"disconnects", disconnects.Get(),
			)
		}
	}
}

// watch subscribes to every exposed observable and logs changes.
func watch(m *mirror.Mirror, logger *slog.Logger, verbose bool) {
	m.Stale().Subscribe(func(stale bool) {
		logger.Info("connectivity changed", "stale", stale)
	})

	m.SessionID().Subscribe(func(id string) {
		logger.Info("session established", "session_id", id)
	})

	m.Portfolio().Subscribe(func(p model.Portfolio) {
		logger.Info("portfolio updated", "balance", p.Balance, "positions", len(p.Positions))
	})

	m.Payments().Subscribe(func(list []model.Payment) {
		logger.Info("payments updated", "count", len(list))
	})

	m.Ownerships().Subscribe(func(list []model.Ownership) {
		logger.Info("ownerships updated", "count", len(list))
	})

	m.Users().Subscribe(func(dir map[string]model.User) {
		logger.Info("users updated", "count", len(dir))
	})

	// Watch the registry for new markets; attach to each market as it
	// appears. Registry entries are never removed, so a single
	// subscription per market suffices for the process lifetime.
	seen := make(map[string]struct{})
	m.Markets().Subscribe(func(reg map[string]observable.ReadOnly[model.Market]) {
		for id, mo := range reg {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			logger.Info("market discovered", "market_id", id)

			if verbose {
				mo.Subscribe(func(mkt model.Market) {
					logger.Debug("market updated",
						"market_id", mkt.ID,
						"status", mkt.Status,
						"orders", len(mkt.Orders),
						"trades", len(mkt.Trades),
					)
				})
			}
		}
	})
}
