package classifypriorities

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"idea-workers/internal/common/config"
	"idea-workers/internal/common/genai"
	"idea-workers/internal/common/logger"
	"idea-workers/internal/evaluation"
	"idea-workers/internal/models"
	"idea-workers/internal/models/modeltest"
)

func newHandler(t *testing.T, suggestURL string) *Handler {
	t.Helper()
	rules, err := evaluation.DefaultRules()
	require.NoError(t, err)
	log := logger.NewTestLogger(t)

	var suggester evaluation.Suggester
	if suggestURL != "" {
		suggester = genai.NewClient(config.SuggestAPIConfig{BaseURL: suggestURL, Timeout: 1000}, evaluation.MaxPriorityTags, log)
	}
	classifier := evaluation.NewClassifier(rules, suggester, 0, log)
	return NewHandler(LoadConfig(), classifier, log)
}

func unmatched() *models.Submission {
	return &models.Submission{
		ID:               "idea-lorem",
		ProblemStatement: "Lorem ipsum dolor",
		Category:         models.CategoryOther,
	}
}

func TestHandler_Execute_RuleMatch(t *testing.T) {
	out, err := newHandler(t, "").Execute(context.Background(), &Input{Submission: modeltest.GoodSubmission()})
	require.NoError(t, err)
	assert.Equal(t, []models.PriorityTag{models.TagDigitalTransformation, models.TagHealthcareImprovement}, out.PriorityTags)
	assert.Equal(t, models.PrioritySourceRules, out.PrioritySource)
}

func TestHandler_Execute_SuggestionFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"tags": []string{"social_inclusion", "not_a_tag", "social_inclusion", "green_economy"},
		})
	}))
	defer srv.Close()

	out, err := newHandler(t, srv.URL).Execute(context.Background(), &Input{Submission: unmatched()})
	require.NoError(t, err)
	assert.Equal(t, []models.PriorityTag{models.TagSocialInclusion, models.TagGreenEconomy}, out.PriorityTags)
	assert.Equal(t, models.PrioritySourceSuggestion, out.PrioritySource)
}

func TestHandler_Execute_SuggestionFailureDegrades(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	out, err := newHandler(t, srv.URL).Execute(context.Background(), &Input{Submission: unmatched()})
	require.NoError(t, err)
	assert.NotNil(t, out.PriorityTags)
	assert.Empty(t, out.PriorityTags)
	assert.Equal(t, models.PrioritySourceNone, out.PrioritySource)
}

func TestHandler_Execute_MissingSubmission(t *testing.T) {
	_, err := newHandler(t, "").Execute(context.Background(), &Input{})
	assert.ErrorIs(t, err, ErrSubmissionParseFailed)
}
