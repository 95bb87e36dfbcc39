// cmd/worker-manager/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"outy-workers/internal/common/audit"
	"outy-workers/internal/common/camunda"
	"outy-workers/internal/common/config"
	"outy-workers/internal/common/database"
	"outy-workers/internal/common/logger"
	"outy-workers/internal/common/observability"
	"outy-workers/internal/locations"
	"outy-workers/internal/outy"
	"outy-workers/internal/session"
	"outy-workers/internal/workers/scope"
	"outy-workers/internal/workflow/profile"

	aej "outy-workers/internal/workers/expressjob/apply-express-job"
	cej "outy-workers/internal/workers/expressjob/complete-express-job"
	ha "outy-workers/internal/workers/expressjob/hire-applicant"
	lej "outy-workers/internal/workers/expressjob/load-express-job"
	mej "outy-workers/internal/workers/expressjob/manage-express-job"
	rej "outy-workers/internal/workers/expressjob/report-express-job"
	rw "outy-workers/internal/workers/expressjob/review-worker"
	rl "outy-workers/internal/workers/locations/resolve-location"
	ewp "outy-workers/internal/workers/profile/ensure-worker-profile"
)

func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		zap.NewExample().Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.NewWithOutput(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting worker manager...",
		zap.String("app", cfg.App.Name),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	obs := observability.New(cfg.App.Name, log)
	defer func() {
		if err := obs.Shutdown(context.Background()); err != nil {
			zapLog.Warn("observability shutdown failed", zap.Error(err))
		}
	}()

	ctx := context.Background()

	// ==========================
	// Zeebe
	// ==========================
	var zeebe *camunda.Client
	err = retryWithBackoff(func() error {
		var err error
		zeebe, err = camunda.NewClientWithConfig(camunda.ConfigFrom(cfg.Camunda))
		return err
	}, 10, 2*time.Second, zapLog, "Zeebe client initialization")
	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	defer zeebe.Close()
	zapLog.Info("Zeebe client connected successfully")

	// ==========================
	// Session cache
	// ==========================
	var store session.Store = session.NewMemoryStore()
	if cfg.Cache.Address != "" {
		redisClient := database.NewRedis(cfg.Cache)
		err = retryWithBackoff(func() error {
			return database.PingRedis(ctx, redisClient)
		}, 5, 2*time.Second, zapLog, "Redis connection")
		if err != nil {
			zapLog.Warn("redis unavailable, session cache stays in memory", zap.Error(err))
			_ = redisClient.Close()
		} else {
			defer redisClient.Close()
			store = session.NewRedisStore(redisClient, cfg.Cache.Prefix)
			zapLog.Info("Redis connected successfully")
		}
	}

	// ==========================
	// Audit trail
	// ==========================
	var recorder audit.Recorder = audit.Nop{}
	if cfg.Audit.Enabled {
		var pg *database.PostgresClient
		err = retryWithBackoff(func() error {
			var err error
			pg, err = database.NewPostgres(cfg.Audit)
			if err != nil {
				return err
			}
			return pg.Ping(ctx)
		}, 15, 2*time.Second, zapLog, "PostgreSQL connection")
		if err != nil {
			zapLog.Fatal("postgres failed after retries", zap.Error(err))
		}
		defer pg.Close()

		if err := audit.EnsureSchema(ctx, pg.DB); err != nil {
			zapLog.Fatal("audit schema setup failed", zap.Error(err))
		}
		recorder = audit.NewPostgresRecorder(pg.DB, log)
		zapLog.Info("PostgreSQL audit trail enabled")
	}

	// ==========================
	// Outy API
	// ==========================
	api := outy.NewClient(outy.Options{
		BaseURL:        cfg.API.BaseURL,
		Timeout:        config.GetDuration(cfg.API.Timeout),
		RateLimitRPS:   cfg.API.RateLimitRPS,
		RateLimitBurst: cfg.API.RateLimitBurst,
		Logger:         log,
	})

	catalog := locations.NewCatalog(api.WithToken(cfg.API.Token), locations.Options{
		PageSize: cfg.Catalog.PageSize,
		MaxPages: cfg.Catalog.MaxPages,
		Logger:   log,
	})
	warmCtx, cancelWarm := context.WithTimeout(ctx, 2*time.Minute)
	if fromCache, err := session.WarmCatalog(warmCtx, catalog, store, 0, log); err != nil {
		// resolve-location retries the load on its first job
		zapLog.Warn("location catalog not loaded at startup", zap.Error(err))
	} else {
		zapLog.Info("location catalog ready", zap.Int("entries", catalog.Len()), zap.Bool("fromCache", fromCache))
	}
	cancelWarm()

	deps := &scope.Deps{
		API:      api,
		Store:    store,
		CacheTTL: time.Duration(cfg.Cache.TTL) * time.Second,
		Scan: profile.ScanOptions{
			PageSize: cfg.Profile.ScanPageSize,
			Limit:    cfg.Profile.ScanLimit,
		},
		Recorder: recorder,
		Logger:   log,
		Catalog:  catalog,
	}

	// ==========================
	// Workers
	// ==========================
	timeout := func(taskType string) time.Duration {
		return config.GetDuration(config.GetWorkerConfig(cfg, taskType).Timeout)
	}

	handlers := map[string]camunda.JobHandler{
		aej.TaskType: aej.NewHandler(&aej.Config{Timeout: timeout(aej.TaskType)}, deps, log),
		ha.TaskType:  ha.NewHandler(&ha.Config{Timeout: timeout(ha.TaskType)}, deps, log),
		cej.TaskType: cej.NewHandler(&cej.Config{Timeout: timeout(cej.TaskType)}, deps, log),
		rw.TaskType:  rw.NewHandler(&rw.Config{Timeout: timeout(rw.TaskType)}, deps, log),
		rej.TaskType: rej.NewHandler(&rej.Config{Timeout: timeout(rej.TaskType)}, deps, log),
		mej.TaskType: mej.NewHandler(&mej.Config{Timeout: timeout(mej.TaskType)}, deps, log),
		lej.TaskType: lej.NewHandler(&lej.Config{Timeout: timeout(lej.TaskType), Prefetch: true}, deps, log),
		ewp.TaskType: ewp.NewHandler(&ewp.Config{Timeout: timeout(ewp.TaskType)}, deps, log),
		rl.TaskType:  rl.NewHandler(&rl.Config{Timeout: timeout(rl.TaskType), DefaultLimit: rl.LoadConfig().DefaultLimit}, deps, log),
	}

	var workers []*camunda.CamundaWorker
	for taskType, handler := range handlers {
		if !config.IsWorkerEnabled(cfg, taskType) {
			zapLog.Info("worker disabled", zap.String("taskType", taskType))
			continue
		}
		wcfg := config.GetWorkerConfig(cfg, taskType)
		w := camunda.NewWorker(zeebe.GetClient(), camunda.WorkerOptions{
			TaskType:      taskType,
			MaxJobsActive: wcfg.MaxJobsActive,
			Timeout:       config.GetDuration(wcfg.Timeout),
			Obs:           obs,
		}, handler, log)
		w.Start()
		workers = append(workers, w)
	}
	served := make([]string, 0, len(workers))
	for _, w := range workers {
		served = append(served, w.TaskType())
	}
	zapLog.Info("Workers registered", zap.Int("count", len(workers)), zap.Strings("taskTypes", served))

	// ==========================
	// Health & metrics
	// ==========================
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeStatus(w, http.StatusOK, "healthy", nil)
	})
	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		checkCtx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()
		if err := zeebe.HealthCheck(checkCtx); err != nil {
			writeStatus(w, http.StatusServiceUnavailable, "unavailable", err)
			return
		}
		writeStatus(w, http.StatusOK, "ready", nil)
	})
	mux.Handle("/metrics", promhttp.Handler())

	server := &http.Server{Addr: cfg.App.HealthAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		zapLog.Info("Health/Metrics server listening", zap.String("addr", cfg.App.HealthAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	// ==========================
	// Shutdown
	// ==========================
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping workers...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, w := range workers {
		w.Stop()
	}
	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error stopping health server", zap.Error(err))
	}

	zapLog.Info("Worker manager stopped gracefully")
}

func writeStatus(w http.ResponseWriter, code int, status string, err error) {
	body := map[string]string{
		"status": status,
		"time":   time.Now().Format(time.RFC3339),
	}
	if err != nil {
		body["error"] = err.Error()
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}
