// internal/common/camunda/worker.go
package camunda

import (
	"context"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"

	"idea-workers/internal/common/config"
	"idea-workers/internal/common/logger"
	"idea-workers/internal/common/metrics"
	"idea-workers/internal/common/observability"
)

// Pool owns the job workers opened against one Zeebe client.
type Pool struct {
	client  zbc.Client
	workers map[string]worker.JobWorker
	obs     *observability.Observability
	logger  logger.Logger
}

// NewPool returns an empty pool. obs may be nil.
func NewPool(client zbc.Client, obs *observability.Observability, log logger.Logger) *Pool {
	if obs == nil {
		obs = &observability.Observability{}
	}
	return &Pool{
		client:  client,
		workers: make(map[string]worker.JobWorker),
		obs:     obs,
		logger:  log,
	}
}

// Register opens a job worker for taskType unless it is disabled. It reports
// whether a worker was started.
func (p *Pool) Register(taskType string, wcfg config.WorkerConfig, handler worker.JobHandler) bool {
	if !wcfg.Enabled {
		p.logger.Info("worker disabled", map[string]interface{}{"taskType": taskType})
		return false
	}

	p.workers[taskType] = p.client.NewJobWorker().
		JobType(taskType).
		Handler(track(taskType, p.obs, handler)).
		MaxJobsActive(wcfg.MaxJobsActive).
		Timeout(time.Duration(wcfg.Timeout) * time.Millisecond).
		Open()

	p.logger.Info("worker started", map[string]interface{}{
		"taskType":      taskType,
		"maxJobsActive": wcfg.MaxJobsActive,
		"timeout_ms":    wcfg.Timeout,
	})
	return true
}

func (p *Pool) Len() int {
	return len(p.workers)
}

// Close stops polling on every worker and waits for them to drain.
func (p *Pool) Close() {
	for taskType, w := range p.workers {
		p.logger.Info("stopping worker", map[string]interface{}{"taskType": taskType})
		w.Close()
		w.AwaitClose()
	}
}

// track wraps handler with the active-jobs gauge and a job span.
func track(taskType string, obs *observability.Observability, handler worker.JobHandler) worker.JobHandler {
	return func(client worker.JobClient, job entities.Job) {
		gauge := metrics.WorkerJobsActive.WithLabelValues(taskType)
		gauge.Inc()
		defer gauge.Dec()

		ctx, span := obs.StartSpan(context.Background(), taskType)
		defer span.End()

		start := time.Now()
		handler(client, job)
		obs.RecordJobProcessed(ctx, taskType, "handled")
		obs.RecordJobDuration(ctx, taskType, time.Since(start), "handled")
	}
}
