// internal/workers/ideas/evaluation-history/handler.go
package evaluationhistory

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	apperrors "idea-workers/internal/common/errors"
	"idea-workers/internal/common/logger"
	"idea-workers/internal/common/metrics"
	"idea-workers/internal/models"
	"idea-workers/internal/workers/ideas/evaluation-history/queries"
)

const (
	TaskType = "evaluation-history"
)

var (
	ErrSubmissionParseFailed = errors.New("SUBMISSION_PARSE_FAILED")
	ErrQueryExecutionFailed  = errors.New("QUERY_EXECUTION_FAILED")
	ErrQueryTimeout          = errors.New("QUERY_TIMEOUT")
)

type Handler struct {
	config *Config
	db     *sql.DB
	errors *apperrors.ErrorHandler
	logger logger.Logger
}

func NewHandler(config *Config, db *sql.DB, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config: config,
		db:     db,
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
	queryType := models.QueryType(input.QueryType)
	if queryType == "" {
		queryType = models.QueryTypeEvaluationHistory
	}
	if _, exists := queries.Registry[queryType]; !exists {
		return nil, fmt.Errorf("%w: unknown query type %q", ErrSubmissionParseFailed, input.QueryType)
	}

	rows, took, err := queries.Execute(ctx, h.db, queryType, queries.Params{
		SubmissionID: strings.TrimSpace(input.SubmissionID),
		Limit:        input.Limit,
	})
	switch {
	case errors.Is(err, queries.ErrMissingParam):
		return nil, fmt.Errorf("%w: %v", ErrSubmissionParseFailed, err)
	case err != nil && (errors.Is(err, context.DeadlineExceeded) || ctx.Err() != nil):
		return nil, fmt.Errorf("%w: %v", ErrQueryTimeout, err)
	case err != nil:
		return nil, fmt.Errorf("%w: %v", ErrQueryExecutionFailed, err)
	}

	out := &Output{
		Evaluations:        rows,
		RowCount:           len(rows),
		QueryExecutionTime: took,
	}
	if len(rows) >= 2 {
		delta := rows[0].CombinedTotal - rows[1].CombinedTotal
		out.ScoreDelta = &delta
	}

	h.logger.Info("evaluation history loaded", map[string]interface{}{
		"submissionId": input.SubmissionID,
		"queryType":    string(queryType),
		"rowCount":     out.RowCount,
	})
	return out, nil
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
