// cmd/worker-manager/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"disposition-engine/internal/common/camunda"
	"disposition-engine/internal/common/config"
	"disposition-engine/internal/common/database"
	"disposition-engine/internal/common/logger"
	"disposition-engine/internal/common/observability"
	"disposition-engine/internal/engine"
	"disposition-engine/internal/engine/discovery"
	"disposition-engine/internal/engine/policy"
	"disposition-engine/internal/engine/provider"
	"disposition-engine/pkg/registry"

	co "disposition-engine/internal/workers/disposition/compose-outreach"
	dp "disposition-engine/internal/workers/disposition/discover-partners"
)

// retryWithBackoff attempts to execute a function with exponential backoff
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
			delay *= 2 // Exponential backoff
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	zapLog := logger.New("info", "console")
	defer zapLog.Sync()

	// Wrap zap logger with our logger interface
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting worker manager...")

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("config load failed", zap.Error(err))
	}

	obs := observability.New("worker-manager")
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Init Zeebe Client with retry ---
	var zeebeClient *camunda.Client
	err = retryWithBackoff(func() error {
		var err error
		zeebeClient, err = camunda.NewClient(cfg.Camunda)
		return err
	}, 10, 2*time.Second, zapLog, "Zeebe client initialization")

	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	zapLog.Info("Zeebe client connected successfully")

	// --- Init Redis with retry ---
	var redis *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		redis, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		// Test the connection with context
		return redis.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")

	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer redis.Close()
	zapLog.Info("Redis connected successfully")

	// --- Load Activity Registry ---
	activityRegistry, err := registry.Load(cfg.Registry.Path)
	if err != nil {
		zapLog.Fatal("activity registry load failed", zap.Error(err))
	}
	zapLog.Info("Activity registry loaded",
		zap.String("path", cfg.Registry.Path),
		zap.Strings("taskTypes", activityRegistry.TaskTypes()),
	)

	// --- Load Disposition Matrix ---
	store, err := policy.NewStore(cfg.Matrix.Path)
	if err != nil {
		zapLog.Fatal("disposition matrix load failed", zap.Error(err))
	}
	zapLog.Info("Disposition matrix loaded",
		zap.String("path", cfg.Matrix.Path),
		zap.Int("version", store.Matrix().Version),
		zap.Int("entries", len(store.Matrix().Entries)),
	)

	// --- Build Discovery Pipeline ---
	searchProvider, err := provider.New(&cfg.Discovery)
	if err != nil {
		zapLog.Fatal("search provider init failed", zap.Error(err))
	}
	zapLog.Info("Search provider initialized", zap.String("provider", searchProvider.Name()))

	cache := discovery.NewCandidateCache(
		redis.Client,
		time.Duration(cfg.Discovery.CacheTTL)*time.Second,
		log,
	)
	resolver := discovery.NewResolver(searchProvider, cache, log, &cfg.Discovery)
	eng := engine.New(store, resolver, obs, log)

	// --- Register Workers ---
	manager := camunda.NewWorkerManager(zeebeClient, zapLog)

	if config.IsWorkerEnabled(cfg, dp.TaskType) {
		if _, ok := activityRegistry.ByTaskType(dp.TaskType); !ok {
			zapLog.Warn("task type missing from activity registry", zap.String("taskType", dp.TaskType))
		}
		handler := dp.NewHandler(dp.LoadConfig(cfg), eng, log)
		manager.Register(dp.TaskType, config.GetWorkerConfig(cfg, dp.TaskType), handler.Handle)
	}

	if config.IsWorkerEnabled(cfg, co.TaskType) {
		if _, ok := activityRegistry.ByTaskType(co.TaskType); !ok {
			zapLog.Warn("task type missing from activity registry", zap.String("taskType", co.TaskType))
		}
		handler := co.NewHandler(co.LoadConfig(cfg), log)
		manager.Register(co.TaskType, config.GetWorkerConfig(cfg, co.TaskType), handler.Handle)
	}
	zapLog.Info("All workers registered successfully")

	// --- Health & Metrics Server ---
	go func() {
		http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{
				"status": "healthy",
				"time":   time.Now().Format(time.RFC3339),
			})
		})
		http.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
			status := "ready"
			code := http.StatusOK
			if err := redis.Ping(r.Context()); err != nil {
				status = "degraded"
				code = http.StatusServiceUnavailable
			} else if err := zeebeClient.HealthCheck(r.Context()); err != nil {
				status = "degraded"
				code = http.StatusServiceUnavailable
			}
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(code)
			json.NewEncoder(w).Encode(map[string]string{
				"status": status,
				"time":   time.Now().Format(time.RFC3339),
			})
		})
		http.HandleFunc("/activities", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(activityRegistry)
		})
		http.HandleFunc("/reload-matrix", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				w.WriteHeader(http.StatusMethodNotAllowed)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			if err := store.Reload(); err != nil {
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
				return
			}
			json.NewEncoder(w).Encode(map[string]interface{}{
				"status":  "reloaded",
				"version": store.Matrix().Version,
				"entries": len(store.Matrix().Entries),
			})
		})
		http.Handle("/metrics", promhttp.Handler())
		zapLog.Info("Health/Metrics server listening on :8080")
		if err := http.ListenAndServe(":8080", nil); err != nil {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping workers...")
	manager.Close()

	if err := zeebeClient.Close(); err != nil {
		zapLog.Error("Error closing Zeebe client", zap.Error(err))
	}

	zapLog.Info("Worker manager stopped gracefully")
}
