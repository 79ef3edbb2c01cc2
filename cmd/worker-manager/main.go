// cmd/worker-manager/main.go
package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"idea-workers/internal/common/camunda"
	"idea-workers/internal/common/config"
	"idea-workers/internal/common/database"
	"idea-workers/internal/common/genai"
	"idea-workers/internal/common/logger"
	"idea-workers/internal/common/observability"
	"idea-workers/internal/evaluation"

	// Submission lifecycle workers
	eh "idea-workers/internal/workers/ideas/evaluation-history"
	ie "idea-workers/internal/workers/ideas/index-evaluation"
	ls "idea-workers/internal/workers/ideas/load-submission"
	se "idea-workers/internal/workers/ideas/save-evaluation"
	sv "idea-workers/internal/workers/ideas/search-evaluations"
	vs "idea-workers/internal/workers/ideas/validate-submission"

	// Scoring workers
	cp "idea-workers/internal/workers/evaluation/classify-priorities"
	ei "idea-workers/internal/workers/evaluation/evaluate-idea"
	gf "idea-workers/internal/workers/evaluation/generate-feedback"
	ia "idea-workers/internal/workers/evaluation/infer-attributes"
	sc "idea-workers/internal/workers/evaluation/score-clarity"
	sd "idea-workers/internal/workers/evaluation/score-decision"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		zap.NewExample().Fatal("config load failed", zap.Error(err))
	}

	zapLog, err := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		zap.NewExample().Fatal("logger init failed", zap.Error(err))
	}
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("starting worker manager",
		zap.String("app", cfg.App.Name),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	obs := observability.New(observability.Config{
		ServiceName:    cfg.App.Name,
		JaegerEndpoint: cfg.Observability.JaegerEndpoint,
	}, log)
	defer obs.Shutdown()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Zeebe ---
	zeebe, err := camunda.Connect(ctx, &camunda.ClientConfig{
		GatewayAddress:         cfg.Camunda.BrokerAddress,
		UsePlaintextConnection: true,
		ConnectionTimeout:      config.GetDuration(cfg.Camunda.RequestTimeout),
	}, log)
	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	defer zeebe.Close()
	zapLog.Info("Zeebe client connected successfully")

	retry := &camunda.RetryConfig{MaxRetries: 15, BaseDelay: 2 * time.Second, MaxDelay: 30 * time.Second}

	// --- PostgreSQL ---
	pg, err := database.NewPostgres(cfg.Database.Postgres)
	if err != nil {
		zapLog.Fatal("postgres init failed", zap.Error(err))
	}
	defer pg.Close()
	err = camunda.Retry(ctx, retry, log, "PostgreSQL connection", func(ctx context.Context) error {
		if err := pg.Ping(ctx); err != nil {
			return err
		}
		return database.EnsureSchema(ctx, pg.DB)
	})
	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	zapLog.Info("PostgreSQL connected successfully")

	// --- Redis ---
	rdb, err := database.NewRedis(cfg.Database.Redis)
	if err != nil {
		zapLog.Fatal("redis init failed", zap.Error(err))
	}
	defer rdb.Close()
	if err := camunda.Retry(ctx, retry, log, "Redis connection", rdb.Ping); err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	zapLog.Info("Redis connected successfully")

	// --- Elasticsearch ---
	es, err := database.NewElasticsearch(cfg.Database.Elasticsearch)
	if err != nil {
		zapLog.Fatal("elasticsearch init failed", zap.Error(err))
	}
	err = camunda.Retry(ctx, retry, log, "Elasticsearch connection", func(ctx context.Context) error {
		if err := es.Ping(ctx); err != nil {
			return err
		}
		return es.EnsureIndex(ctx, cfg.Search.IndexName)
	})
	if err != nil {
		zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
	}
	zapLog.Info("Elasticsearch connected successfully")

	// --- Evaluation engine ---
	rules, err := loadRules(cfg.Engine.RulesPath)
	if err != nil {
		zapLog.Fatal("rules load failed", zap.Error(err), zap.String("path", cfg.Engine.RulesPath))
	}

	var suggester evaluation.Suggester
	if cfg.Engine.SuggestFallback && cfg.APIs.Suggest.BaseURL != "" {
		suggester = genai.NewCachedSuggester(
			genai.NewClient(cfg.APIs.Suggest, evaluation.MaxPriorityTags, log),
			rdb.Client,
			time.Duration(cfg.APIs.Suggest.CacheTTL)*time.Second,
			log,
		)
	}
	engine := evaluation.NewEngine(&evaluation.Config{
		SuggestFallback: cfg.Engine.SuggestFallback,
		SuggestTimeout:  config.GetDuration(cfg.Engine.SuggestTimeout),
	}, rules, suggester, log)
	zapLog.Info("evaluation engine ready",
		zap.String("rulesVersion", rules.Version),
		zap.Bool("suggestFallback", suggester != nil),
	)

	// --- Workers ---
	pool := camunda.NewPool(zeebe.GetClient(), obs, log)

	lsCfg := ls.LoadConfig()
	if cfg.Database.Redis.CacheTTL > 0 {
		lsCfg.CacheTTL = time.Duration(cfg.Database.Redis.CacheTTL) * time.Second
	}
	pool.Register(ls.TaskType, config.GetWorkerConfig(cfg, ls.TaskType),
		ls.NewHandler(lsCfg, pg.DB, rdb.Client, log).Handle)

	vsCfg := vs.LoadConfig()
	vsHandler, err := vs.NewHandler(vsCfg, log)
	if err != nil {
		zapLog.Fatal("failed to create validate-submission handler", zap.Error(err))
	}
	pool.Register(vs.TaskType, config.GetWorkerConfig(cfg, vs.TaskType), vsHandler.Handle)

	eiCfg := ei.LoadConfig()
	pool.Register(ei.TaskType, config.GetWorkerConfig(cfg, ei.TaskType),
		ei.NewHandler(eiCfg, engine, obs, log).Handle)

	cpCfg := cp.LoadConfig()
	pool.Register(cp.TaskType, config.GetWorkerConfig(cfg, cp.TaskType),
		cp.NewHandler(cpCfg, engine.Classifier(), log).Handle)

	iaCfg := ia.LoadConfig()
	pool.Register(ia.TaskType, config.GetWorkerConfig(cfg, ia.TaskType),
		ia.NewHandler(iaCfg, rules, log).Handle)

	scCfg := sc.LoadConfig()
	pool.Register(sc.TaskType, config.GetWorkerConfig(cfg, sc.TaskType),
		sc.NewHandler(scCfg, rules, log).Handle)

	sdCfg := sd.LoadConfig()
	pool.Register(sd.TaskType, config.GetWorkerConfig(cfg, sd.TaskType),
		sd.NewHandler(sdCfg, rules, log).Handle)

	gfCfg := gf.LoadConfig()
	pool.Register(gf.TaskType, config.GetWorkerConfig(cfg, gf.TaskType),
		gf.NewHandler(gfCfg, rules, log).Handle)

	seCfg := se.LoadConfig()
	pool.Register(se.TaskType, config.GetWorkerConfig(cfg, se.TaskType),
		se.NewHandler(seCfg, pg.DB, log).Handle)

	ieCfg := ie.LoadConfig()
	ieCfg.IndexName = cfg.Search.IndexName
	pool.Register(ie.TaskType, config.GetWorkerConfig(cfg, ie.TaskType),
		ie.NewHandler(ieCfg, es.Client, log).Handle)

	ehCfg := eh.LoadConfig()
	pool.Register(eh.TaskType, config.GetWorkerConfig(cfg, eh.TaskType),
		eh.NewHandler(ehCfg, pg.DB, log).Handle)

	svCfg := sv.LoadConfig()
	svCfg.IndexName = cfg.Search.IndexName
	pool.Register(sv.TaskType, config.GetWorkerConfig(cfg, sv.TaskType),
		sv.NewHandler(svCfg, es.Client, log).Handle)

	zapLog.Info("workers registered", zap.Int("count", pool.Len()))

	// --- Health & Metrics Server ---
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeStatus(w, http.StatusOK, "healthy")
	})
	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		checkCtx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()
		if err := zeebe.HealthCheck(checkCtx); err != nil {
			writeStatus(w, http.StatusServiceUnavailable, "zeebe unavailable")
			return
		}
		if err := pg.Ping(checkCtx); err != nil {
			writeStatus(w, http.StatusServiceUnavailable, "postgres unavailable")
			return
		}
		writeStatus(w, http.StatusOK, "ready")
	})
	mux.Handle("/metrics", promhttp.Handler())

	server := &http.Server{
		Addr:              cfg.Observability.MetricsAddress,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		zapLog.Info("health/metrics server listening", zap.String("address", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLog.Error("health/metrics server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	<-ctx.Done()
	zapLog.Info("shutdown signal received, stopping workers...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool.Close()
	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("error stopping health server", zap.Error(err))
	}

	zapLog.Info("worker manager stopped gracefully")
}

func loadRules(path string) (*evaluation.RuleSet, error) {
	if path == "" {
		return evaluation.DefaultRules()
	}
	return evaluation.LoadRules(path)
}

func writeStatus(w http.ResponseWriter, code int, status string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{
		"status": status,
		"time":   time.Now().Format(time.RFC3339),
	})
}
