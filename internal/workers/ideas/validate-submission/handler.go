// internal/workers/ideas/validate-submission/handler.go
package validatesubmission

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	apperrors "idea-workers/internal/common/errors"
	"idea-workers/internal/common/logger"
	"idea-workers/internal/common/metrics"
	"idea-workers/internal/common/validation"
)

const (
	TaskType = "validate-submission"

	warnMissing  = "MISSING"
	warnTooShort = "TOO_SHORT"
)

var (
	ErrSubmissionParseFailed      = errors.New("SUBMISSION_PARSE_FAILED")
	ErrSubmissionValidationFailed = errors.New("SUBMISSION_VALIDATION_FAILED")
)

// narrativeFields are scored on their content, so thin text is worth a warning.
var narrativeFields = []string{
	"problemStatement",
	"currentProcess",
	"benefitStatement",
	"operationalNeeds",
}

var classificationFields = []string{"category", "frequency", "location"}

type Handler struct {
	config    *Config
	validator *validation.Validator
	errors    *apperrors.ErrorHandler
	logger    logger.Logger
}

func NewHandler(config *Config, log logger.Logger) (*Handler, error) {
	v, err := validation.NewSubmissionValidator()
	if err != nil {
		return nil, fmt.Errorf("load submission schema: %w", err)
	}
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:    config,
		validator: v,
		errors:    apperrors.NewErrorHandler(log),
		logger:    log,
	}, nil
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
	if err == nil && !output.IsValid && h.config.FailOnInvalid {
		err = fmt.Errorf("%w: %s", ErrSubmissionValidationFailed, strings.Join(messages(output.Errors), "; "))
	}
	if err != nil {
		h.failJob(client, job, start, err)
		return
	}
	h.completeJob(client, job, start, output)
}

func (h *Handler) execute(_ context.Context, input *Input) (*Output, error) {
	raw := bytes.TrimSpace(input.Submission)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, fmt.Errorf("%w: submission is required", ErrSubmissionParseFailed)
	}

	var doc map[string]interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%w: submission must be a JSON object: %v", ErrSubmissionParseFailed, err)
	}

	result, err := h.validator.ValidateJSON(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSubmissionParseFailed, err)
	}

	output := &Output{
		IsValid:  result.Valid,
		Errors:   result.Errors,
		Warnings: h.warnings(doc),
	}
	if output.Errors == nil {
		output.Errors = []validation.ValidationError{}
	}

	h.logger.Info("submission validated", map[string]interface{}{
		"submissionId": doc["id"],
		"isValid":      output.IsValid,
		"errorCount":   len(output.Errors),
		"warningCount": len(output.Warnings),
	})
	return output, nil
}

func (h *Handler) warnings(doc map[string]interface{}) []Warning {
	warnings := []Warning{}
	for _, field := range narrativeFields {
		text, _ := doc[field].(string)
		text = strings.TrimSpace(text)
		switch n := utf8.RuneCountInString(text); {
		case n == 0:
			warnings = append(warnings, Warning{Field: field, Code: warnMissing, Message: "field is empty and will score zero"})
		case n < h.config.MinTextLength:
			warnings = append(warnings, Warning{
				Field:   field,
				Code:    warnTooShort,
				Message: fmt.Sprintf("only %d characters; add detail to improve the score", n),
			})
		}
	}
	for _, field := range classificationFields {
		if text, _ := doc[field].(string); strings.TrimSpace(text) == "" {
			warnings = append(warnings, Warning{Field: field, Code: warnMissing, Message: "field is empty"})
		}
	}
	return warnings
}

func messages(errs []validation.ValidationError) []string {
	out := make([]string, len(errs))
	for i, e := range errs {
		out[i] = e.Field + ": " + e.Message
	}
	return out
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
	h.logger.Info("job completed successfully", map[string]interface{}{
		"jobKey": job.Key,
	})
}

func (h *Handler) failJob(client worker.JobClient, job entities.Job, start time.Time, err error) {
	bpmnErr := h.errors.HandleJobError(context.Background(), client, job, err)
	metrics.ObserveJob(TaskType, start, bpmnErr.Code)
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
