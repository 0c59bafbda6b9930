package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"morning-digest/internal/app"
	"morning-digest/internal/infra/config"
	applog "morning-digest/internal/infra/log"
	"morning-digest/internal/infra/metrics"
)

// Раз в минуту сверяет время и запускает рассылку в настроенный час,
// не чаще одного раза в сутки.
func main() {
	cfg := config.Load()
	logger := applog.NewLogger(cfg.AppEnv).With().Str("component", "scheduler").Logger()
	metrics.MustRegister(prometheus.DefaultRegisterer)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	services := app.Build(cfg, logger)
	defer services.Close()

	metrics.StartServer(ctx, logger.With().Str("component", "metrics").Logger(), cfg.MetricsAddr)

	logger.Info().Str("daily_at", cfg.Digest.DailyAt).Msg("scheduler: старт")

	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	var lastRunDate string
	for {
		select {
		case <-ctx.Done():
			logger.Info().Msg("scheduler: остановка")
			return
		case now := <-ticker.C:
			if now.Format("15:04") != cfg.Digest.DailyAt {
				continue
			}
			today := now.Format("2006-01-02")
			if today == lastRunDate {
				continue
			}
			lastRunDate = today

			res := services.Digest.Run(ctx)
			if !res.OK {
				logger.Error().Str("message", res.Message).Msg("scheduler: рассылка завершилась ошибкой")
				continue
			}
			logger.Info().Str("message", res.Message).Msg("scheduler: рассылка выполнена")
		}
	}
}
