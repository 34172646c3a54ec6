package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/AlphaCoderNotAI/AlgoTrade-Analyzer/internal/config"
	"github.com/AlphaCoderNotAI/AlgoTrade-Analyzer/internal/report"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to config file")
	serve := flag.Bool("serve", false, "run the HTTP report server")
	strategy := flag.String("strategy", "", "report on a single strategy (one-shot mode)")
	flag.Parse()

	// .env is optional; real environments set variables directly.
	_ = godotenv.Load()

	// Setup structured logging
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnixMicro
	log.Logger = zerolog.New(os.Stdout).With().
		Timestamp().
		Str("service", "analyzer").
		Logger()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	if level, err := zerolog.ParseLevel(cfg.General.LogLevel); err == nil {
		zerolog.SetGlobalLevel(level)
	}
	if cfg.General.LogFormat == "text" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	log.Info().
		Str("data_dir", cfg.Data.Dir).
		Float64("annualization_factor", cfg.Risk.AnnualizationFactor).
		Float64("annual_risk_free_rate", cfg.Risk.AnnualRiskFreeRate).
		Msg("Configuration loaded")

	svc := report.NewService(cfg.Data.Dir, cfg.Data.Schema, cfg.Risk)
	if err := svc.Refresh(); err != nil {
		log.Fatal().Err(err).Msg("Failed to load strategy logs")
	}

	if !*serve {
		runOnce(svc, *strategy)
		return
	}

	// Setup context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		log.Warn().Str("signal", sig.String()).Msg("Shutdown signal received")
		cancel()
	}()

	if cfg.Data.RefreshCron != "" {
		if err := svc.StartRefresh(cfg.Data.RefreshCron); err != nil {
			log.Fatal().Err(err).Msg("Failed to start refresh scheduler")
		}
	}
	defer svc.Stop()

	server := report.NewServer(svc)
	if err := server.ListenAndServe(ctx, cfg.Server.ListenAddr); err != nil {
		log.Fatal().Err(err).Msg("Report server failed")
	}
	log.Info().Msg("Shutdown complete")
}

// runOnce logs the headline metrics for each loaded strategy and exits.
func runOnce(svc *report.Service, only string) {
	names := svc.Strategies()
	if only != "" {
		names = []string{only}
	}

	for _, name := range names {
		rep, err := svc.Report(name, report.Filter{})
		if err != nil {
			log.Error().Err(err).Str("strategy", name).Msg("report failed")
			continue
		}

		evt := log.Info().
			Str("strategy", name).
			Int("records", rep.Records).
			Float64("total_profit", rep.Summary.TotalProfit).
			Float64("total_pnl_pct", rep.Summary.TotalPnLPct).
			Float64("win_rate", rep.Summary.WinRate).
			Float64("max_drawdown", rep.Drawdown.MaxDrawdown).
			Float64("max_drawdown_pct", rep.Drawdown.MaxDrawdownPct).
			Int("max_drawdown_days", rep.Drawdown.DurationDays)

		if rep.Risk.Sharpe != nil {
			evt = evt.Float64("sharpe", *rep.Risk.Sharpe)
		} else {
			evt = evt.Str("sharpe", "n/a ("+rep.Risk.SharpeReason+")")
		}
		if rep.Risk.Sortino != nil {
			evt = evt.Float64("sortino", *rep.Risk.Sortino)
		} else {
			evt = evt.Str("sortino", "n/a ("+rep.Risk.SortinoReason+")")
		}
		evt.Msg("strategy report")
	}
}
