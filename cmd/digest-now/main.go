package main

import (
	"context"
	"os"

	"github.com/prometheus/client_golang/prometheus"

	"morning-digest/internal/app"
	"morning-digest/internal/infra/config"
	applog "morning-digest/internal/infra/log"
	"morning-digest/internal/infra/metrics"
)

// Запускает рассылку один раз и завершает процесс кодом 0 или 1.
func main() {
	cfg := config.Load()
	logger := applog.NewLogger(cfg.AppEnv).With().Str("component", "digest-now").Logger()
	metrics.MustRegister(prometheus.DefaultRegisterer)

	services := app.Build(cfg, logger)
	defer services.Close()

	res := services.Digest.Run(context.Background())
	if !res.OK {
		logger.Error().Str("message", res.Message).Msg("digest-now: запуск завершился ошибкой")
		os.Exit(1)
	}
	logger.Info().Str("message", res.Message).Msg("digest-now: готово")
}
