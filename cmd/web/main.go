package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"morning-digest/internal/app"
	"morning-digest/internal/domain"
	"morning-digest/internal/infra/config"
	httpinfra "morning-digest/internal/infra/http"
	applog "morning-digest/internal/infra/log"
	"morning-digest/internal/infra/metrics"
)

// Веб-служба: редактирование настроек рассылки и ручной запуск дайджеста
// (тот же маршрут дёргает внешний планировщик по таймеру).
func main() {
	cfg := config.Load()
	logger := applog.NewLogger(cfg.AppEnv).With().Str("component", "web").Logger()
	metrics.MustRegister(prometheus.DefaultRegisterer)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	services := app.Build(cfg, logger)
	defer services.Close()

	srv := httpinfra.NewServer(logger)

	srv.Router.Get("/api/v1/settings", func(w http.ResponseWriter, r *http.Request) {
		current := services.Settings.Current(r.Context())
		writeJSON(w, settingsPayload{
			Emails:       current.Emails,
			Preferences:  current.Prefs.Map(),
			CustomTopics: current.CustomTopics,
		})
	})

	srv.Router.Put("/api/v1/settings", func(w http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()
		var req settingsPayload
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		err := services.Settings.Save(r.Context(), domain.UserSettings{
			Emails:       trimAll(req.Emails),
			Prefs:        domain.NewGenrePrefs(req.Preferences),
			CustomTopics: trimAll(req.CustomTopics),
		})
		if err != nil {
			logger.Error().Err(err).Msg("web: сохранение настроек")
			writeError(w, http.StatusInternalServerError, "failed to save settings")
			return
		}
		writeJSON(w, map[string]string{"status": "ok"})
	})

	runDigest := func(w http.ResponseWriter, r *http.Request) {
		res := services.Digest.Run(r.Context())
		if !res.OK {
			writeError(w, http.StatusInternalServerError, res.Message)
			return
		}
		writeJSON(w, map[string]string{"status": "ok", "message": res.Message})
	}
	srv.Router.Post("/digest/run", runDigest)
	srv.Router.Get("/digest/run", runDigest)

	metrics.StartServer(ctx, logger.With().Str("component", "metrics").Logger(), cfg.MetricsAddr)

	go func() {
		if err := srv.Start(cfg.HTTPAddr); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("web: сервер остановлен")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("web: остановка")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("web: graceful shutdown failed")
	}
}

type settingsPayload struct {
	Emails       []string        `json:"emails"`
	Preferences  map[string]bool `json:"preferences"`
	CustomTopics []string        `json:"custom_topics"`
}

func trimAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{"error": msg})
}
