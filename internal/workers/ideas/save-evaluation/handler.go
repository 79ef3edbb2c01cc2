// internal/workers/ideas/save-evaluation/handler.go
package saveevaluation

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
	"github.com/google/uuid"

	apperrors "idea-workers/internal/common/errors"
	"idea-workers/internal/common/logger"
	"idea-workers/internal/common/metrics"
	"idea-workers/internal/models"
)

const (
	TaskType = "save-evaluation"
)

var (
	ErrSubmissionParseFailed = errors.New("SUBMISSION_PARSE_FAILED")
	ErrDatabaseInsertFailed  = errors.New("DATABASE_INSERT_FAILED")
)

const insertEvaluation = `
	INSERT INTO idea_evaluations (
		id, submission_id, rules_version, stage1_total, stage2_total,
		combined_total, qualification_tier, gating_state, priority_tags,
		priority_source, break_even_months, payload, created_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

const insertAudit = `
	INSERT INTO audit_log (entity_type, entity_id, action, details, created_at)
	VALUES ($1, $2, $3, $4, $5)`

type Handler struct {
	config *Config
	db     *sql.DB
	errors *apperrors.ErrorHandler
	logger logger.Logger
	now    func() time.Time
}

func NewHandler(config *Config, db *sql.DB, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config: config,
		db:     db,
		errors: apperrors.NewErrorHandler(log),
		logger: log,
		now:    time.Now,
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
	ev := input.Evaluation
	if ev == nil || strings.TrimSpace(ev.SubmissionID) == "" {
		return nil, fmt.Errorf("%w: evaluation with submissionId is required", ErrSubmissionParseFailed)
	}

	payload, err := json.Marshal(ev)
	if err != nil {
		return nil, fmt.Errorf("%w: encode evaluation: %v", ErrSubmissionParseFailed, err)
	}
	tags := ev.PriorityTags
	if tags == nil {
		tags = []models.PriorityTag{}
	}
	tagsJSON, err := json.Marshal(tags)
	if err != nil {
		return nil, fmt.Errorf("%w: encode priority tags: %v", ErrSubmissionParseFailed, err)
	}

	id := uuid.New().String()
	savedAt := h.now().UTC()

	tx, err := h.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: begin: %v", ErrDatabaseInsertFailed, err)
	}
	defer tx.Rollback()

	var stage2Total sql.NullInt64
	if ev.Score.Stage2 != nil {
		stage2Total = sql.NullInt64{Int64: int64(ev.Score.Stage2.Total), Valid: true}
	}
	var breakEven sql.NullInt64
	if ev.BreakEvenMonths != nil {
		breakEven = sql.NullInt64{Int64: int64(*ev.BreakEvenMonths), Valid: true}
	}

	if _, err := tx.ExecContext(ctx, insertEvaluation,
		id,
		ev.SubmissionID,
		ev.RulesVersion,
		ev.Score.Stage1.Total,
		stage2Total,
		ev.Score.CombinedTotal,
		string(ev.Score.QualificationTier),
		string(ev.Score.State),
		tagsJSON,
		ev.PrioritySource,
		breakEven,
		payload,
		savedAt,
	); err != nil {
		return nil, fmt.Errorf("%w: insert evaluation: %v", ErrDatabaseInsertFailed, err)
	}

	// The audit row shares the transaction; a failed statement aborts it anyway.
	if err := h.audit(ctx, tx, id, ev, savedAt); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("%w: commit: %v", ErrDatabaseInsertFailed, err)
	}

	h.logger.Info("evaluation saved", map[string]interface{}{
		"evaluationId":      id,
		"submissionId":      ev.SubmissionID,
		"qualificationTier": ev.Score.QualificationTier,
	})
	return &Output{EvaluationID: id, SavedAt: savedAt.Format(time.RFC3339)}, nil
}

func (h *Handler) audit(ctx context.Context, tx *sql.Tx, id string, ev *models.Evaluation, at time.Time) error {
	details, err := json.Marshal(map[string]interface{}{
		"evaluationId":      id,
		"rulesVersion":      ev.RulesVersion,
		"combinedTotal":     ev.Score.CombinedTotal,
		"qualificationTier": ev.Score.QualificationTier,
	})
	if err != nil {
		details = []byte("{}")
	}
	if _, err := tx.ExecContext(ctx, insertAudit, "submission", ev.SubmissionID, "evaluation_saved", details, at); err != nil {
		return fmt.Errorf("%w: insert audit: %v", ErrDatabaseInsertFailed, err)
	}
	return nil
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
