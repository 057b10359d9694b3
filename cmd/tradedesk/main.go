package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/tradedesk/tradedesk-go/internal/api"
	"github.com/tradedesk/tradedesk-go/internal/config"
	"github.com/tradedesk/tradedesk-go/internal/kvstore"
	"github.com/tradedesk/tradedesk-go/internal/market"
	"github.com/tradedesk/tradedesk-go/internal/model"
	"github.com/tradedesk/tradedesk-go/internal/poller"
	"github.com/tradedesk/tradedesk-go/internal/session"
	"github.com/tradedesk/tradedesk-go/internal/version"
	"github.com/tradedesk/tradedesk-go/internal/wallet"
)

func main() {
	configPath := flag.String("config", "", "path to config file (defaults apply when empty)")
	username := flag.String("username", "", "username to log in with when no session is stored")
	password := flag.String("password", "", "password for -username")
	watch := flag.Bool("watch", false, "keep running and stream quote updates for the watchlist")
	flag.Parse()

	// Set up structured logging
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	logger.Info("starting tradedesk",
		"version", version.Version,
		"commit", version.Commit,
	)

	// Load configuration
	var cfg *config.ClientConfig
	if *configPath != "" {
		loaded, err := config.LoadAndValidate(*configPath)
		if err != nil {
			logger.Error("failed to load config", "error", err)
			os.Exit(1)
		}
		cfg = loaded
	} else {
		cfg = config.Default()
		if home, err := os.UserHomeDir(); err == nil {
			cfg.State.Path = filepath.Join(home, config.DefaultStatePath)
		}
	}

	logger.Info("configuration loaded",
		"api_url", cfg.API.BaseURL,
		"state_path", cfg.State.Path,
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

	// Open session state storage
	var store kvstore.Store
	if cfg.State.Path != "" {
		fileStore, err := kvstore.OpenFile(cfg.State.Path)
		if err != nil {
			logger.Error("failed to open state file", "path", cfg.State.Path, "error", err)
			os.Exit(1)
		}
		store = fileStore
	} else {
		store = kvstore.NewMemory()
	}

	sessions := session.NewStore(store, session.WithLogger(logger))

	// Create API client
	apiClient := api.NewClient(
		cfg.API.BaseURL,
		sessions,
		api.WithLogger(logger),
		api.WithTimeout(cfg.API.Timeout),
		api.WithRetries(cfg.API.MaxRetries, cfg.API.RetryBackoff),
	)

	auth := session.NewAuthenticator(apiClient, sessions, logger)

	// Restore any persisted session before deciding whether to log in
	sessions.Restore()

	if !sessions.IsAuthenticated() {
		if *username == "" || *password == "" {
			logger.Error("no valid session stored; -username and -password are required")
			os.Exit(1)
		}
		resp, err := auth.Login(ctx, model.LoginRequest{UsernameOrEmail: *username, Password: *password})
		if err != nil {
			logger.Error("login failed", "error", err)
			os.Exit(1)
		}
		logger.Info("logged in", "user_id", resp.UserID, "username", resp.Username)
	} else if user := sessions.Current(); user != nil {
		logger.Info("session restored", "user_id", user.ID, "username", user.Username)
	}

	wallets := wallet.NewService(apiClient, sessions, wallet.WithLogger(logger))
	markets := market.NewService(apiClient, sessions,
		market.WithLogger(logger),
		market.WithPopularSymbols(cfg.Market.PopularSymbols),
		market.WithConcurrency(cfg.Market.QuoteConcurrency),
	)

	if err := run(ctx, cfg, apiClient, wallets, markets, logger, *watch); err != nil {
		logger.Error("run failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.ClientConfig, apiClient *api.Client, wallets *wallet.Service, markets *market.Service, logger *slog.Logger, watch bool) error {
	// Wallet balance (creates the wallet on first use)
	w, err := wallets.LoadWallet(ctx)
	if err != nil {
		return fmt.Errorf("load wallet: %w", err)
	}
	fmt.Printf("Balance: %s %s\n\n", w.Balance.StringFixed(2), w.Currency)

	// Popular quotes
	quotes := markets.PopularQuotes(ctx)
	fmt.Println("Popular:")
	for _, sym := range cfg.Market.PopularSymbols {
		sym = model.NormalizeSymbol(sym)
		outcome, ok := quotes[sym]
		if !ok || outcome.Err != nil {
			fmt.Printf("  %-6s (unavailable)\n", sym)
			continue
		}
		q := outcome.Value
		fmt.Printf("  %-6s %10s  %s%%\n", q.Symbol, q.Price.StringFixed(2), q.ChangePercent.StringFixed(2))
	}

	// Watchlist
	items, err := markets.RefreshWatchlist(ctx)
	if err != nil {
		return fmt.Errorf("refresh watchlist: %w", err)
	}
	fmt.Println("\nWatchlist:")
	if len(items) == 0 {
		fmt.Println("  (empty)")
	}
	for _, item := range items {
		fmt.Printf("  %s\n", item.Symbol)
	}

	if !watch || !cfg.Poller.Enabled {
		return nil
	}

	// Stream watchlist quotes until interrupted
	p := poller.New(poller.Config{
		Interval:    cfg.Poller.Interval,
		Concurrency: cfg.Poller.Concurrency,
		Timeout:     cfg.Poller.Timeout,
	}, apiClient, markets, logger)

	if err := p.Start(ctx); err != nil {
		return fmt.Errorf("start poller: %w", err)
	}
	defer func() {
		stopCtx, stopCancel := context.WithTimeout(context.Background(), cfg.Poller.Timeout)
		defer stopCancel()
		p.Stop(stopCtx)
	}()

	updates, unsubscribe := p.SubscribeQuotes()
	defer unsubscribe()

	for {
		select {
		case <-ctx.Done():
			return nil
		case snapshot, ok := <-updates:
			if !ok {
				return nil
			}
			fmt.Printf("--- %d quotes ---\n", len(snapshot))
			for _, q := range snapshot {
				fmt.Printf("  %-6s %10s  %s%%\n", q.Symbol, q.Price.StringFixed(2), q.ChangePercent.StringFixed(2))
			}
		}
	}
}
