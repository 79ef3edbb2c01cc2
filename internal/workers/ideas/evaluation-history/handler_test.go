package evaluationhistory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "idea-workers/internal/common/errors"
	"idea-workers/internal/common/logger"
	"idea-workers/internal/models"
)

var columns = []string{
	"id", "submission_id", "rules_version", "stage1_total", "stage2_total",
	"combined_total", "qualification_tier", "gating_state", "priority_tags",
	"priority_source", "break_even_months", "created_at",
}

func newHandler(t *testing.T) (*Handler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewHandler(LoadConfig(), db, logger.NewTestLogger(t)), mock
}

func TestHandler_Execute_History(t *testing.T) {
	h, mock := newHandler(t)

	newer := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	older := newer.Add(-48 * time.Hour)
	mock.ExpectQuery("FROM idea_evaluations").
		WithArgs("sub-good", 10).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow("eval-2", "sub-good", "v1", 40, 20, 60, "exceptional", "stage2_passed",
				`["digital_transformation","healthcare_improvement"]`, "rules", 5, newer).
			AddRow("eval-1", "sub-good", "v1", 30, nil, 30, "developing", "stage1_passed",
				`[]`, "none", nil, older))

	out, err := h.Execute(context.Background(), &Input{SubmissionID: "sub-good"})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())

	require.Equal(t, 2, out.RowCount)
	latest := out.Evaluations[0]
	assert.Equal(t, "eval-2", latest.EvaluationID)
	assert.Equal(t, models.TierExceptional, latest.QualificationTier)
	assert.Equal(t, models.StateStage2Passed, latest.GatingState)
	require.NotNil(t, latest.Stage2Total)
	assert.Equal(t, 20, *latest.Stage2Total)
	require.NotNil(t, latest.BreakEvenMonths)
	assert.Equal(t, 5, *latest.BreakEvenMonths)
	assert.Equal(t, []models.PriorityTag{models.TagDigitalTransformation, models.TagHealthcareImprovement}, latest.PriorityTags)
	assert.Equal(t, "2026-03-14T09:30:00Z", latest.CreatedAt)

	first := out.Evaluations[1]
	assert.Nil(t, first.Stage2Total)
	assert.Nil(t, first.BreakEvenMonths)
	assert.Empty(t, first.PriorityTags)

	require.NotNil(t, out.ScoreDelta)
	assert.Equal(t, 30, *out.ScoreDelta)
}

func TestHandler_Execute_Latest(t *testing.T) {
	h, mock := newHandler(t)

	mock.ExpectQuery("FROM idea_evaluations").
		WithArgs("sub-good", 1).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow("eval-2", "sub-good", "v1", 40, 20, 60, "exceptional", "stage2_passed",
				`[]`, "rules", nil, time.Now()))

	out, err := h.Execute(context.Background(), &Input{
		QueryType:    string(models.QueryTypeLatestEvaluation),
		SubmissionID: " sub-good ",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, out.RowCount)
	assert.Nil(t, out.ScoreDelta)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_Execute_LimitClamped(t *testing.T) {
	h, mock := newHandler(t)

	mock.ExpectQuery("FROM idea_evaluations").
		WithArgs("sub-good", 50).
		WillReturnRows(sqlmock.NewRows(columns))

	out, err := h.Execute(context.Background(), &Input{SubmissionID: "sub-good", Limit: 500})
	require.NoError(t, err)
	assert.Equal(t, 0, out.RowCount)
	assert.NotNil(t, out.Evaluations)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_Execute_Errors(t *testing.T) {
	t.Run("missing submission id", func(t *testing.T) {
		h, _ := newHandler(t)
		_, err := h.Execute(context.Background(), &Input{})
		require.ErrorIs(t, err, ErrSubmissionParseFailed)
	})

	t.Run("unknown query type", func(t *testing.T) {
		h, _ := newHandler(t)
		_, err := h.Execute(context.Background(), &Input{QueryType: "franchise_outlets", SubmissionID: "sub-good"})
		require.ErrorIs(t, err, ErrSubmissionParseFailed)
	})

	t.Run("query failure", func(t *testing.T) {
		h, mock := newHandler(t)
		mock.ExpectQuery("FROM idea_evaluations").WillReturnError(errors.New("connection reset"))

		_, err := h.Execute(context.Background(), &Input{SubmissionID: "sub-good"})
		require.ErrorIs(t, err, ErrQueryExecutionFailed)
		stdErr := apperrors.FromError(err)
		assert.Equal(t, apperrors.ErrCodeQueryExecutionFailed, stdErr.Code)
		assert.True(t, stdErr.Retryable)
	})

	t.Run("malformed tags", func(t *testing.T) {
		h, mock := newHandler(t)
		mock.ExpectQuery("FROM idea_evaluations").
			WillReturnRows(sqlmock.NewRows(columns).
				AddRow("eval-1", "sub-good", "v1", 10, nil, 10, "pending", "stage1_failed",
					`{bad`, "none", nil, time.Now()))

		_, err := h.Execute(context.Background(), &Input{SubmissionID: "sub-good"})
		require.ErrorIs(t, err, ErrQueryExecutionFailed)
	})
}
