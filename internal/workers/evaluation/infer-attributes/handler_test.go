package inferattributes

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"idea-workers/internal/common/logger"
	"idea-workers/internal/evaluation"
	"idea-workers/internal/models"
	"idea-workers/internal/models/modeltest"
)

func newHandler(t *testing.T) *Handler {
	t.Helper()
	rules, err := evaluation.DefaultRules()
	require.NoError(t, err)
	return NewHandler(LoadConfig(), rules, logger.NewTestLogger(t))
}

func TestHandler_Execute(t *testing.T) {
	tests := []struct {
		name       string
		submission *models.Submission
		want       models.InferredAttributes
	}{
		{
			name:       "city health project",
			submission: modeltest.GoodSubmission(),
			want: models.InferredAttributes{
				BudgetTier:   models.BudgetUnder1K,
				LocationType: models.LocationUrban,
				Complexity:   models.ComplexityBeginner,
			},
		},
		{
			name: "rural agriculture with a large budget",
			submission: &models.Submission{
				ID:               "idea-farm",
				ProblemStatement: "Small farms in the douar lose harvests to late irrigation.",
				Category:         models.CategoryAgriculture,
				Location:         "Rural commune near Taroudant",
				CostEstimate:     modeltest.StrPtr("25000 DH"),
			},
			want: models.InferredAttributes{
				BudgetTier:   models.Budget10KPlus,
				LocationType: models.LocationRural,
				Complexity:   models.ComplexityAdvanced,
			},
		},
	}

	h := newHandler(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := h.Execute(context.Background(), &Input{Submission: tt.submission})
			require.NoError(t, err)
			assert.Equal(t, tt.want, out.InferredAttributes)
		})
	}
}

func TestHandler_Execute_MissingSubmission(t *testing.T) {
	_, err := newHandler(t).Execute(context.Background(), &Input{})
	assert.ErrorIs(t, err, ErrSubmissionParseFailed)
}
