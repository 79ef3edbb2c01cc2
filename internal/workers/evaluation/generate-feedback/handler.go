// internal/workers/evaluation/generate-feedback/handler.go
package generatefeedback

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	apperrors "idea-workers/internal/common/errors"
	"idea-workers/internal/common/logger"
	"idea-workers/internal/common/metrics"
	"idea-workers/internal/evaluation"
	"idea-workers/internal/models"
)

const (
	TaskType = "generate-feedback"
)

var ErrSubmissionParseFailed = errors.New("SUBMISSION_PARSE_FAILED")

type Handler struct {
	config *Config
	rules  *evaluation.RuleSet
	errors *apperrors.ErrorHandler
	logger logger.Logger
}

func NewHandler(config *Config, rules *evaluation.RuleSet, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config: config,
		rules:  rules,
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

func (h *Handler) execute(_ context.Context, input *Input) (*Output, error) {
	stage1 := input.Stage1
	if stage1 == nil {
		if input.Submission == nil {
			return nil, fmt.Errorf("%w: stage1 or submission is required", ErrSubmissionParseFailed)
		}
		scored := h.rules.ScoreClarity(input.Submission)
		stage1 = &scored
	}

	// A stage 2 result next to a failed stage 1 is stale process data.
	stage2 := input.Stage2
	if stage2 != nil && !stage1.Passed {
		h.logger.Warn("ignoring stage2 for failed stage1", map[string]interface{}{
			"stage1Total": stage1.Total,
		})
		stage2 = nil
	}

	out := &Output{
		Feedback: evaluation.GenerateFeedback(*stage1, stage2),
		Score:    evaluation.RankQualification(*stage1, stage2),
	}
	out.QualificationTier = out.Score.QualificationTier
	if input.Submission != nil {
		out.BreakEvenMonths = evaluation.EstimateBreakEven(input.Submission.EstimatedCost, input.Submission.MonthlySavings())
	}

	h.logger.Info("feedback generated", map[string]interface{}{
		"submissionId":  submissionID(input.Submission),
		"overallScore":  out.Feedback.Overall.Score,
		"quickWins":     len(out.Feedback.QuickWins),
		"combinedTotal": out.Score.CombinedTotal,
	})
	return out, nil
}

func submissionID(s *models.Submission) string {
	if s == nil {
		return ""
	}
	return s.ID
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
}

func (h *Handler) failJob(client worker.JobClient, job entities.Job, start time.Time, err error) {
	bpmnErr := h.errors.HandleJobError(context.Background(), client, job, err)
	metrics.ObserveJob(TaskType, start, bpmnErr.Code)
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
