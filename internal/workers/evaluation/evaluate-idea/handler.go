// internal/workers/evaluation/evaluate-idea/handler.go
package evaluateidea

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"go.opentelemetry.io/otel/attribute"

	apperrors "idea-workers/internal/common/errors"
	"idea-workers/internal/common/logger"
	"idea-workers/internal/common/metrics"
	"idea-workers/internal/common/observability"
	"idea-workers/internal/evaluation"
	"idea-workers/internal/models"
)

const (
	TaskType = "evaluate-idea"
)

var (
	ErrSubmissionParseFailed = errors.New("SUBMISSION_PARSE_FAILED")
	ErrEvaluationFailed      = errors.New("EVALUATION_FAILED")
)

type Handler struct {
	config *Config
	engine *evaluation.Engine
	obs    *observability.Observability
	errors *apperrors.ErrorHandler
	logger logger.Logger
}

func NewHandler(config *Config, engine *evaluation.Engine, obs *observability.Observability, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config: config,
		engine: engine,
		obs:    obs,
		errors: apperrors.NewErrorHandler(log),
		logger: log,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	start := time.Now()
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.failJob(client, job, start, fmt.Errorf("%w: %v", ErrSubmissionParseFailed, err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		h.failJob(client, job, start, err)
		return
	}
	h.completeJob(client, job, start, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input.Submission == nil {
		return nil, fmt.Errorf("%w: submission is required", ErrSubmissionParseFailed)
	}

	ctx, span := h.obs.StartSpan(ctx, "evaluate-idea",
		attribute.String("submission.id", input.Submission.ID),
		attribute.String("submission.category", string(input.Submission.Category)),
	)
	defer span.End()

	result := h.engine.Evaluate(ctx, input.Submission)
	if err := ctx.Err(); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("%w: %v", ErrEvaluationFailed, err)
	}

	span.SetAttributes(
		attribute.Int("score.stage1", result.Score.Stage1.Total),
		attribute.Int("score.combined", result.Score.CombinedTotal),
		attribute.String("score.tier", string(result.Score.QualificationTier)),
		attribute.String("priority.source", result.PrioritySource),
	)
	metrics.ObserveEvaluation(result)
	h.obs.RecordEvaluation(ctx, string(result.Score.QualificationTier))

	output := &Output{
		Evaluation:        result,
		QualificationTier: result.Score.QualificationTier,
		GatingState:       result.Score.State,
		Stage1Passed:      result.Score.Stage1.Passed,
		Stage2Passed:      result.Score.State == models.StateStage2Passed,
	}

	h.logger.Info("idea evaluated", map[string]interface{}{
		"submissionId":   result.SubmissionID,
		"rulesVersion":   result.RulesVersion,
		"stage1Total":    result.Score.Stage1.Total,
		"combinedTotal":  result.Score.CombinedTotal,
		"tier":           result.Score.QualificationTier,
		"state":          result.Score.State,
		"priorityTags":   result.PriorityTags,
		"prioritySource": result.PrioritySource,
	})
	return output, nil
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, start time.Time, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}

	if _, err := cmd.Send(context.Background()); err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}
	metrics.ObserveJob(TaskType, start, "")
	h.obs.RecordJobProcessed(context.Background(), TaskType, "completed")
	h.obs.RecordJobDuration(context.Background(), TaskType, time.Since(start), "completed")
	h.logger.Info("job completed successfully", map[string]interface{}{
		"jobKey": job.Key,
	})
}

func (h *Handler) failJob(client worker.JobClient, job entities.Job, start time.Time, err error) {
	bpmnErr := h.errors.HandleJobError(context.Background(), client, job, err)
	metrics.ObserveJob(TaskType, start, bpmnErr.Code)
	h.obs.RecordJobProcessed(context.Background(), TaskType, "failed")
	h.obs.RecordJobDuration(context.Background(), TaskType, time.Since(start), "failed")
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
