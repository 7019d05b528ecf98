package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"yt-gateway/internal/extract"
	"yt-gateway/internal/gateway"
	"yt-gateway/internal/platform/config"
	"yt-gateway/internal/platform/logger"
	"yt-gateway/internal/platform/metrics"
	"yt-gateway/internal/verify"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

const shutdownTimeout = 10 * time.Second

func main() {
	_ = config.Load()
	cfg := config.FromEnv()

	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	var verifier verify.Verifier
	if cfg.TurnstileSecret != "" {
		verifier = verify.NewTurnstile(cfg.TurnstileSecret)
	} else {
		verifier = verify.Disabled{}
		log.Warn("human verification disabled: TURNSTILE_SECRET is not set")
	}

	var jar http.CookieJar
	if cfg.CookieFile != "" {
		var err error
		jar, err = gateway.LoadCookieJar(cfg.CookieFile)
		if err != nil {
			log.Warn("cookie file not loaded", "path", cfg.CookieFile, "error", err)
			jar = nil
		}
	}

	cache := gateway.NewMetadataCache(cfg.CacheCapacity, gateway.MetadataTTL)
	svc := gateway.NewService(extract.NewYTDLP(), cache)
	analyzeLimiter := gateway.NewLimiter(gateway.AnalyzeRateLimit, gateway.RateWindow)
	downloadLimiter := gateway.NewLimiter(gateway.DownloadRateLimit, gateway.RateWindow)
	met := metrics.New()

	h := gateway.NewHandler(gateway.HandlerConfig{
		Service:         svc,
		Verifier:        verifier,
		Proxy:           gateway.NewStreamProxy(jar),
		AnalyzeLimiter:  analyzeLimiter,
		DownloadLimiter: downloadLimiter,
		AppDomain:       cfg.AppDomain,
		Log:             log,
		Metrics:         met,
	})

	r := chi.NewRouter()
	r.Use(logger.RequestLogger(log))
	r.Use(metrics.RequestMiddleware(met))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.AppDomain},
		AllowedMethods:   []string{http.MethodGet, http.MethodPost},
		AllowedHeaders:   []string{"Content-Type", "X-CSRF-Token"},
		AllowCredentials: true,
	}))

	r.Get("/", h.Index)
	r.Post("/analyze", h.Analyze)
	r.Get("/download", h.Download)
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		met.Handler(func() {
			met.SetTrackedIdentities(analyzeLimiter.TrackedIdentities() + downloadLimiter.TrackedIdentities())
		}).ServeHTTP(w, r)
	})

	addr := ":" + cfg.Port
	srv := &http.Server{Addr: addr, Handler: r}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	log.Info("server starting",
		"port", cfg.Port,
		"app_domain", cfg.AppDomain,
		"verification", cfg.TurnstileSecret != "",
		"cache_capacity", cfg.CacheCapacity,
	)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Info("shutdown signal received, draining connections")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("shutdown error", "error", err)
		os.Exit(1)
	}

	log.Info("server stopped")
}
