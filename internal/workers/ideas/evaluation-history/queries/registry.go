// internal/workers/ideas/evaluation-history/queries/registry.go
package queries

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"idea-workers/internal/models"
)

var (
	ErrMissingParam     = errors.New("missing required parameter")
	ErrUnknownQueryType = errors.New("unknown query type")
)

const (
	DefaultLimit = 10
	MaxLimit     = 50
)

type Params struct {
	SubmissionID string
	Limit        int
}

// QueryFunc returns the matching rows, newest first.
type QueryFunc func(ctx context.Context, db *sql.DB, params Params) ([]models.EvaluationSummary, error)

var Registry = map[models.QueryType]QueryFunc{
	models.QueryTypeLatestEvaluation:  LatestEvaluation,
	models.QueryTypeEvaluationHistory: EvaluationHistory,
}

const selectEvaluations = `
	SELECT id, submission_id, rules_version, stage1_total, stage2_total,
	       combined_total, qualification_tier, gating_state, priority_tags,
	       priority_source, break_even_months, created_at
	FROM idea_evaluations
	WHERE submission_id = $1
	ORDER BY created_at DESC
	LIMIT $2`

func Execute(ctx context.Context, db *sql.DB, queryType models.QueryType, params Params) ([]models.EvaluationSummary, int64, error) {
	fn, exists := Registry[queryType]
	if !exists {
		return nil, 0, fmt.Errorf("%w: %s", ErrUnknownQueryType, queryType)
	}
	if params.SubmissionID == "" {
		return nil, 0, fmt.Errorf("%w: submissionId", ErrMissingParam)
	}
	start := time.Now()
	rows, err := fn(ctx, db, params)
	return rows, time.Since(start).Milliseconds(), err
}

func LatestEvaluation(ctx context.Context, db *sql.DB, params Params) ([]models.EvaluationSummary, error) {
	return selectRows(ctx, db, params.SubmissionID, 1)
}

func EvaluationHistory(ctx context.Context, db *sql.DB, params Params) ([]models.EvaluationSummary, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return selectRows(ctx, db, params.SubmissionID, limit)
}

func selectRows(ctx context.Context, db *sql.DB, submissionID string, limit int) ([]models.EvaluationSummary, error) {
	rows, err := db.QueryContext(ctx, selectEvaluations, submissionID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.EvaluationSummary{}
	for rows.Next() {
		var (
			s               models.EvaluationSummary
			tier, state     string
			tags            []byte
			stage2, breakEv sql.NullInt64
			createdAt       time.Time
		)
		if err := rows.Scan(
			&s.EvaluationID, &s.SubmissionID, &s.RulesVersion, &s.Stage1Total, &stage2,
			&s.CombinedTotal, &tier, &state, &tags,
			&s.PrioritySource, &breakEv, &createdAt,
		); err != nil {
			return nil, err
		}
		s.QualificationTier = models.QualificationTier(tier)
		s.GatingState = models.GatingState(state)
		s.Stage2Total = nullInt(stage2)
		s.BreakEvenMonths = nullInt(breakEv)
		s.CreatedAt = createdAt.UTC().Format(time.RFC3339)
		s.PriorityTags = []models.PriorityTag{}
		if len(tags) > 0 {
			if err := json.Unmarshal(tags, &s.PriorityTags); err != nil {
				return nil, fmt.Errorf("priority_tags: %w", err)
			}
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func nullInt(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	n := int(v.Int64)
	return &n
}
