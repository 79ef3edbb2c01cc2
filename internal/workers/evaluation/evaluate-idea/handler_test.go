package evaluateidea

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"idea-workers/internal/common/logger"
	"idea-workers/internal/common/observability"
	"idea-workers/internal/evaluation"
	"idea-workers/internal/models"
	"idea-workers/internal/models/modeltest"
)

func newHandler(t *testing.T) *Handler {
	t.Helper()
	rules, err := evaluation.DefaultRules()
	require.NoError(t, err)
	log := logger.NewTestLogger(t)
	engine := evaluation.NewEngine(evaluation.DefaultConfig(), rules, nil, log)
	return NewHandler(LoadConfig(), engine, &observability.Observability{}, log)
}

func TestHandler_Execute(t *testing.T) {
	tests := []struct {
		name           string
		submission     *models.Submission
		validateOutput func(t *testing.T, out *Output)
	}{
		{
			name:       "strong submission passes both gates",
			submission: modeltest.GoodSubmission(),
			validateOutput: func(t *testing.T, out *Output) {
				assert.Equal(t, models.TierExceptional, out.QualificationTier)
				assert.Equal(t, models.StateStage2Passed, out.GatingState)
				assert.True(t, out.Stage1Passed)
				assert.True(t, out.Stage2Passed)
				assert.Equal(t, 60, out.Evaluation.Score.CombinedTotal)
				require.NotNil(t, out.Evaluation.BreakEvenMonths)
				assert.Equal(t, 5, *out.Evaluation.BreakEvenMonths)
			},
		},
		{
			name:       "placeholder fails stage 1",
			submission: modeltest.PlaceholderSubmission(),
			validateOutput: func(t *testing.T, out *Output) {
				assert.Equal(t, models.TierPending, out.QualificationTier)
				assert.Equal(t, models.StateStage1Failed, out.GatingState)
				assert.False(t, out.Stage1Passed)
				assert.False(t, out.Stage2Passed)
				assert.Nil(t, out.Evaluation.Score.Stage2)
				assert.Len(t, out.Evaluation.Feedback.QuickWins, 3)
			},
		},
	}

	h := newHandler(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := h.Execute(context.Background(), &Input{Submission: tt.submission})
			require.NoError(t, err)
			assert.Equal(t, tt.submission.ID, out.Evaluation.SubmissionID)
			assert.Equal(t, "v1", out.Evaluation.RulesVersion)
			tt.validateOutput(t, out)
		})
	}
}

func TestHandler_Execute_MissingSubmission(t *testing.T) {
	out, err := newHandler(t).Execute(context.Background(), &Input{})
	assert.Nil(t, out)
	assert.ErrorIs(t, err, ErrSubmissionParseFailed)
}

func TestHandler_Execute_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out, err := newHandler(t).Execute(ctx, &Input{Submission: modeltest.GoodSubmission()})
	assert.Nil(t, out)
	assert.ErrorIs(t, err, ErrEvaluationFailed)
}

func TestOutput_JSONShape(t *testing.T) {
	out, err := newHandler(t).Execute(context.Background(), &Input{Submission: modeltest.PlaceholderSubmission()})
	require.NoError(t, err)

	raw, err := json.Marshal(out)
	require.NoError(t, err)

	var vars map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &vars))
	assert.Equal(t, "stage1_failed", vars["gatingState"])

	score := vars["evaluation"].(map[string]interface{})["score"].(map[string]interface{})
	_, hasStage2 := score["stage2"]
	assert.False(t, hasStage2)
}
