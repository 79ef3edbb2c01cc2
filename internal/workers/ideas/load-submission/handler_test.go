package loadsubmission

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"idea-workers/internal/common/database"
	"idea-workers/internal/common/logger"
	"idea-workers/internal/models"
)

const submissionQuery = `SELECT (.+) FROM submissions WHERE id = \$1`

var submissionColumns = []string{
	"id", "title", "problem_statement", "current_process", "solution",
	"benefit_statement", "operational_needs", "category", "location",
	"target_audience", "frequency", "receipt_count", "capabilities", "integrations",
	"cost_estimate", "estimated_cost", "monthly_cost_saved",
	"time_saved_hours_per_month", "hourly_cost",
}

func submissionRow() *sqlmock.Rows {
	return sqlmock.NewRows(submissionColumns).AddRow(
		"idea-42", "Solar pumps", "Farmers in Souss pump water with diesel every day.",
		"1. Buy diesel\n2. Run pump", "", "Save 3000 DH per month", "Two technicians",
		"agriculture", "Souss", "smallholder farmers", "daily", 2,
		[]byte(`["iot"]`), []byte(`[]`),
		"about 8000 DH", 8000.0, 3000.0, nil, nil,
	)
}

func setup(t *testing.T) (*Handler, sqlmock.Sqlmock, *miniredis.Miniredis) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	return NewHandler(LoadConfig(), db, rdb, logger.NewTestLogger(t)), mock, mr
}

func TestHandler_Execute_LoadsAndCaches(t *testing.T) {
	h, mock, mr := setup(t)
	mock.ExpectQuery(submissionQuery).WithArgs("idea-42").WillReturnRows(submissionRow())

	out, err := h.Execute(context.Background(), &Input{SubmissionID: "idea-42"})
	require.NoError(t, err)
	assert.False(t, out.FromCache)

	s := out.Submission
	assert.Equal(t, "idea-42", s.ID)
	assert.Equal(t, models.CategoryAgriculture, s.Category)
	assert.Equal(t, models.FrequencyDaily, s.Frequency)
	assert.Equal(t, 2, s.ReceiptCount)
	assert.Equal(t, []string{"iot"}, s.Capabilities)
	assert.Empty(t, s.Integrations)
	require.NotNil(t, s.CostEstimate)
	assert.Equal(t, "about 8000 DH", *s.CostEstimate)
	require.NotNil(t, s.MonthlyCostSaved)
	assert.Equal(t, 3000.0, *s.MonthlyCostSaved)
	assert.Nil(t, s.HourlyCost)

	assert.True(t, mr.Exists(database.SubmissionCacheKey("idea-42")))

	again, err := h.Execute(context.Background(), &Input{SubmissionID: "idea-42"})
	require.NoError(t, err)
	assert.True(t, again.FromCache)
	assert.Equal(t, s, again.Submission)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_Execute_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   *Input
		mock    func(sqlmock.Sqlmock)
		wantErr error
	}{
		{
			name:    "missing id",
			input:   &Input{SubmissionID: "  "},
			mock:    func(sqlmock.Sqlmock) {},
			wantErr: ErrSubmissionParseFailed,
		},
		{
			name:  "not found",
			input: &Input{SubmissionID: "ghost"},
			mock: func(m sqlmock.Sqlmock) {
				m.ExpectQuery(submissionQuery).WithArgs("ghost").WillReturnRows(sqlmock.NewRows(submissionColumns))
			},
			wantErr: ErrSubmissionNotFound,
		},
		{
			name:  "query failure",
			input: &Input{SubmissionID: "idea-1"},
			mock: func(m sqlmock.Sqlmock) {
				m.ExpectQuery(submissionQuery).WithArgs("idea-1").WillReturnError(errors.New("relation does not exist"))
			},
			wantErr: ErrQueryExecutionFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, mock, _ := setup(t)
			tt.mock(mock)

			out, err := h.Execute(context.Background(), tt.input)
			assert.Nil(t, out)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestHandler_Execute_CacheUnavailable(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rdb, redisMock := redismock.NewClientMock()
	key := database.SubmissionCacheKey("idea-42")
	redisMock.ExpectGet(key).SetErr(errors.New("connection refused"))
	redisMock.Regexp().ExpectSet(key, `.*`, 10*time.Minute).SetErr(errors.New("connection refused"))

	mock.ExpectQuery(submissionQuery).WithArgs("idea-42").WillReturnRows(submissionRow())

	h := NewHandler(LoadConfig(), db, rdb, logger.NewTestLogger(t))
	out, err := h.Execute(context.Background(), &Input{SubmissionID: "idea-42"})
	require.NoError(t, err)
	assert.Equal(t, "idea-42", out.Submission.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
	assert.NoError(t, redisMock.ExpectationsWereMet())
}

func TestHandler_Execute_IgnoresMalformedCache(t *testing.T) {
	h, mock, mr := setup(t)
	require.NoError(t, mr.Set(database.SubmissionCacheKey("idea-42"), "{oops"))
	mock.ExpectQuery(submissionQuery).WithArgs("idea-42").WillReturnRows(submissionRow())

	out, err := h.Execute(context.Background(), &Input{SubmissionID: "idea-42"})
	require.NoError(t, err)
	assert.False(t, out.FromCache)

	cached, err := mr.Get(database.SubmissionCacheKey("idea-42"))
	require.NoError(t, err)
	var s models.Submission
	require.NoError(t, json.Unmarshal([]byte(cached), &s))
	assert.Equal(t, "Solar pumps", s.Title)
}
