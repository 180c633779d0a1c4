// Package main is the entry point for the flight deal scanner.
//
// Usage:
//
//	flight-deal-scanner [API_KEY] [MAX_PRICE]
//
// A numeric argument is the maximum price, any other argument is the Tequila API key.
// Without a key from the command line, KIWI_API_KEY or the built-in default, a setup
// guide is printed and the program exits successfully.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/flight-search/flight-deal-scanner/internal/adapter/provider/tequila"
	"github.com/flight-search/flight-deal-scanner/internal/adapter/storage/jsonfile"
	"github.com/flight-search/flight-deal-scanner/internal/config"
	"github.com/flight-search/flight-deal-scanner/internal/infrastructure/logger"
	"github.com/flight-search/flight-deal-scanner/internal/usecase"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout))
}

// run executes the scanner and returns the process exit code.
func run(args []string, stdout io.Writer) int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		return 1
	}
	cfg.ApplyArgs(config.ParseArgs(args))

	log := setupLogger(cfg)

	if !cfg.HasAPIKey() {
		printSetupGuide(stdout)
		return 0
	}

	routes, err := cfg.Routes()
	if err != nil {
		logger.Error().Err(err).Str("file", cfg.Scan.RoutesFile).Msg("Failed to load routes")
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := tequila.NewClient(cfg.Tequila.APIKey,
		tequila.WithBaseURL(cfg.Tequila.BaseURL),
		tequila.WithTimeout(cfg.Tequila.Timeout),
		tequila.WithLogger(log),
	)
	store := jsonfile.NewStore(cfg.Scan.OutputFile)

	scanner := usecase.NewDealScanner(client, store, &usecase.Config{
		Concurrency: cfg.Scan.Concurrency,
		Out:         stdout,
		Logger:      log,
	})

	if _, err := scanner.Scan(ctx, routes, scanOptions(cfg)); err != nil {
		logger.Error().Err(err).Str("file", store.Location()).Msg("Failed to save deals")
		return 1
	}
	return 0
}

// scanOptions maps configuration to scan options with the default limits.
func scanOptions(cfg *config.Config) usecase.ScanOptions {
	opts := usecase.DefaultScanOptions()
	opts.DateFrom = cfg.Search.DateFrom
	opts.DateTo = cfg.Search.DateTo
	opts.MaxPrice = cfg.Search.MaxPrice
	opts.Currency = cfg.Search.Currency
	opts.NightsFrom = cfg.Search.NightsFrom
	opts.NightsTo = cfg.Search.NightsTo
	opts.ResultLimit = cfg.Search.ResultLimit
	return opts
}

// setupLogger configures the global logger from config and returns it.
func setupLogger(cfg *config.Config) *logger.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	l := logger.New(logger.Config{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		ServiceName: "flight-deal-scanner",
	})
	logger.SetGlobal(l)
	return l
}

// printSetupGuide explains how to obtain and provide an API key.
func printSetupGuide(w io.Writer) {
	rule := "============================================================"
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, "  FLIGHT DEAL SCANNER - SETUP")
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  1. Go to %s\n", usecase.KeyPortalURL)
	fmt.Fprintln(w, "  2. Sign up for free")
	fmt.Fprintln(w, "  3. Create a Solution and copy its API key")
	fmt.Fprintln(w, "  4. Run: KIWI_API_KEY=your_key flight-deal-scanner")
	fmt.Fprintln(w, "     Or:  flight-deal-scanner your_key")
	fmt.Fprintln(w, "     Or:  put KIWI_API_KEY=your_key in a .env file")
}
