// internal/workers/ideas/load-submission/handler.go
package loadsubmission

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
	"github.com/redis/go-redis/v9"

	"idea-workers/internal/common/database"
	apperrors "idea-workers/internal/common/errors"
	"idea-workers/internal/common/logger"
	"idea-workers/internal/common/metrics"
	"idea-workers/internal/models"
)

const (
	TaskType = "load-submission"
)

var (
	ErrSubmissionParseFailed = errors.New("SUBMISSION_PARSE_FAILED")
	ErrSubmissionNotFound    = errors.New("SUBMISSION_NOT_FOUND")
	ErrQueryExecutionFailed  = errors.New("QUERY_EXECUTION_FAILED")
	ErrQueryTimeout          = errors.New("QUERY_TIMEOUT")
)

const selectSubmission = `
	SELECT id, title, problem_statement, current_process, solution,
	       benefit_statement, operational_needs, category, location,
	       target_audience, frequency, receipt_count, capabilities, integrations,
	       cost_estimate, estimated_cost, monthly_cost_saved,
	       time_saved_hours_per_month, hourly_cost
	FROM submissions
	WHERE id = $1`

type Handler struct {
	config *Config
	db     *sql.DB
	redis  redis.Cmdable
	errors *apperrors.ErrorHandler
	logger logger.Logger
}

func NewHandler(config *Config, db *sql.DB, rdb redis.Cmdable, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config: config,
		db:     db,
		redis:  rdb,
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
	id := strings.TrimSpace(input.SubmissionID)
	if id == "" {
		return nil, fmt.Errorf("%w: submissionId is required", ErrSubmissionParseFailed)
	}

	if s := h.fromCache(ctx, id); s != nil {
		h.logger.Info("submission loaded from cache", map[string]interface{}{"submissionId": id})
		return &Output{Submission: s, FromCache: true}, nil
	}

	s, err := h.query(ctx, id)
	if err != nil {
		return nil, err
	}
	h.storeCache(ctx, s)

	h.logger.Info("submission loaded", map[string]interface{}{
		"submissionId": id,
		"category":     s.Category,
	})
	return &Output{Submission: s}, nil
}

func (h *Handler) query(ctx context.Context, id string) (*models.Submission, error) {
	var (
		s                          models.Submission
		category, frequency        string
		capabilities, integrations []byte
		costEstimate               sql.NullString
		estimatedCost, monthly     sql.NullFloat64
		hoursSaved, hourlyCost     sql.NullFloat64
	)

	err := h.db.QueryRowContext(ctx, selectSubmission, id).Scan(
		&s.ID, &s.Title, &s.ProblemStatement, &s.CurrentProcess, &s.Solution,
		&s.BenefitStatement, &s.OperationalNeeds, &category, &s.Location,
		&s.TargetAudience, &frequency, &s.ReceiptCount, &capabilities, &integrations,
		&costEstimate, &estimatedCost, &monthly, &hoursSaved, &hourlyCost,
	)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil, fmt.Errorf("%w: %s", ErrSubmissionNotFound, id)
	case err != nil && (errors.Is(err, context.DeadlineExceeded) || ctx.Err() != nil):
		return nil, fmt.Errorf("%w: %v", ErrQueryTimeout, err)
	case err != nil:
		return nil, fmt.Errorf("%w: %v", ErrQueryExecutionFailed, err)
	}

	s.Category = models.Category(category)
	s.Frequency = models.Frequency(frequency)
	if err := decodeList(capabilities, &s.Capabilities); err != nil {
		return nil, fmt.Errorf("%w: capabilities: %v", ErrQueryExecutionFailed, err)
	}
	if err := decodeList(integrations, &s.Integrations); err != nil {
		return nil, fmt.Errorf("%w: integrations: %v", ErrQueryExecutionFailed, err)
	}
	if costEstimate.Valid {
		s.CostEstimate = &costEstimate.String
	}
	s.EstimatedCost = nullFloat(estimatedCost)
	s.MonthlyCostSaved = nullFloat(monthly)
	s.TimeSavedHoursPerMonth = nullFloat(hoursSaved)
	s.HourlyCost = nullFloat(hourlyCost)
	return &s, nil
}

func (h *Handler) fromCache(ctx context.Context, id string) *models.Submission {
	cached, err := h.redis.Get(ctx, database.SubmissionCacheKey(id)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			h.logger.Warn("submission cache read failed", map[string]interface{}{"error": err.Error()})
		}
		return nil
	}
	var s models.Submission
	if err := json.Unmarshal(cached, &s); err != nil {
		h.logger.Warn("discarding malformed cached submission", map[string]interface{}{"submissionId": id})
		return nil
	}
	return &s
}

func (h *Handler) storeCache(ctx context.Context, s *models.Submission) {
	payload, err := json.Marshal(s)
	if err != nil {
		return
	}
	if err := h.redis.Set(ctx, database.SubmissionCacheKey(s.ID), payload, h.config.CacheTTL).Err(); err != nil {
		h.logger.Warn("submission cache write failed", map[string]interface{}{"error": err.Error()})
	}
}

func decodeList(raw []byte, dst *[]string) error {
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return err
	}
	if len(*dst) == 0 {
		*dst = nil
	}
	return nil
}

func nullFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
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
