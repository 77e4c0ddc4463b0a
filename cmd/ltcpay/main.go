package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/oxbel/ltcpay/internal/api"
	"github.com/oxbel/ltcpay/internal/config"
	"github.com/oxbel/ltcpay/internal/db"
	"github.com/oxbel/ltcpay/internal/explorer"
	"github.com/oxbel/ltcpay/internal/hdkey"
	"github.com/oxbel/ltcpay/internal/logging"
	"github.com/oxbel/ltcpay/internal/reconciler"
	"github.com/oxbel/ltcpay/internal/wallet"
)

const usage = `Usage: ltcpay <command> [flags]

Commands:
  serve       run the deposit service (API + reconciler)
  mnemonic    generate a new BIP-39 mnemonic and print it
  address     derive the deposit address for a user
  version     print the build version
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	switch os.Args[1] {
	case "serve":
		runServe()
	case "mnemonic":
		runMnemonic(os.Args[2:])
	case "address":
		runAddress(os.Args[2:])
	case "version":
		fmt.Println(api.Version)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s", os.Args[1], usage)
		os.Exit(2)
	}
}

func runServe() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logCloser, err := logging.Setup(cfg.LogLevel, cfg.LogDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logging: %v\n", err)
		os.Exit(1)
	}
	defer logCloser.Close()

	slog.Info("ltcpay starting",
		"version", api.Version,
		"port", cfg.Port,
		"network", cfg.Network,
		"dbPath", cfg.DBPath,
		"pollInterval", cfg.PollIntervalSec,
		"minConfirmations", cfg.MinConfirmations,
	)

	wlt, err := openWallet(cfg)
	if err != nil {
		slog.Error("failed to open wallet", "error", err)
		os.Exit(1)
	}

	database, err := db.New(cfg.DBPath)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer database.Close()

	if err := database.RunMigrations(); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("database ready", "path", cfg.DBPath)

	httpClient := &http.Client{Timeout: config.ExplorerRequestTimeout}
	exp := explorer.NewClient(httpClient, cfg.ExplorerBaseURL, cfg.ExplorerRateLimit)

	rec := reconciler.New(
		database,
		exp,
		time.Duration(cfg.PollIntervalSec)*time.Second,
		cfg.MinConfirmations,
	)
	recCtx, recCancel := context.WithCancel(context.Background())
	recDone := make(chan struct{})
	go func() {
		rec.Run(recCtx)
		close(recDone)
	}()

	router := api.NewRouter(database, wlt, cfg, exp.CircuitState)

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  config.ServerReadTimeout,
		WriteTimeout: config.ServerWriteTimeout,
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("HTTP server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server error", "error", err)
			os.Exit(1)
		}
	}()

	sig := <-done
	slog.Info("shutdown signal received", "signal", sig)

	// Stop the reconciler first so no confirmation lands mid-shutdown,
	// then drain the HTTP server.
	recCancel()
	<-recDone

	ctx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	slog.Info("ltcpay stopped")
}

func runMnemonic(args []string) {
	fs := flag.NewFlagSet("mnemonic", flag.ExitOnError)
	strength := fs.Int("strength", 128, "entropy in bits (128, 160, 192, 224, or 256)")
	fs.Parse(args)

	mnemonic, err := hdkey.GenerateMnemonic(*strength)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to generate mnemonic: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(mnemonic)
}

func runAddress(args []string) {
	fs := flag.NewFlagSet("address", flag.ExitOnError)
	userID := fs.Int64("user", -1, "user ID to derive the address for")
	fs.Parse(args)

	if *userID < 0 {
		fmt.Fprintln(os.Stderr, "address: --user is required and must be non-negative")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	wlt, err := openWallet(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open wallet: %v\n", err)
		os.Exit(1)
	}

	address, err := wlt.AddressForUser(*userID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to derive address: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(address)
}

// openWallet loads the mnemonic from the configured file and builds the
// wallet for the configured network.
func openWallet(cfg *config.Config) (*wallet.Wallet, error) {
	if cfg.MnemonicFile == "" {
		return nil, config.ErrMnemonicFileNotSet
	}

	mnemonic, err := wallet.ReadMnemonicFromFile(cfg.MnemonicFile)
	if err != nil {
		return nil, err
	}

	params, err := wallet.ParamsForNetwork(cfg.Network)
	if err != nil {
		return nil, err
	}

	return wallet.New(mnemonic, cfg.Passphrase, params)
}
