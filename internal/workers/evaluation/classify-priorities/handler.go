// internal/workers/evaluation/classify-priorities/handler.go
package classifypriorities

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
)

const (
	TaskType = "classify-priorities"
)

var ErrSubmissionParseFailed = errors.New("SUBMISSION_PARSE_FAILED")

type Handler struct {
	config     *Config
	classifier *evaluation.Classifier
	errors     *apperrors.ErrorHandler
	logger     logger.Logger
}

func NewHandler(config *Config, classifier *evaluation.Classifier, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     config,
		classifier: classifier,
		errors:     apperrors.NewErrorHandler(log),
		logger:     log,
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

// execute never fails on suggestion problems; the classifier degrades to an
// empty tag list.
func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input.Submission == nil {
		return nil, fmt.Errorf("%w: submission is required", ErrSubmissionParseFailed)
	}

	tags, source := h.classifier.Classify(ctx, input.Submission)
	metrics.ObservePriorities(tags, source)

	h.logger.Info("priorities classified", map[string]interface{}{
		"submissionId": input.Submission.ID,
		"tags":         tags,
		"source":       source,
	})
	return &Output{PriorityTags: tags, PrioritySource: source}, nil
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
