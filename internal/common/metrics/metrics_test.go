package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"idea-workers/internal/models"
)

func TestObserveJob(t *testing.T) {
	const taskType = "metrics-test-job"

	ObserveJob(taskType, time.Now(), "")
	ObserveJob(taskType, time.Now(), "INDEX_FAILED")
	ObserveJob(taskType, time.Now(), "INDEX_FAILED")

	assert.Equal(t, 1.0, testutil.ToFloat64(WorkerJobsCompleted.WithLabelValues(taskType)))
	assert.Equal(t, 2.0, testutil.ToFloat64(WorkerJobsFailed.WithLabelValues(taskType, "INDEX_FAILED")))
}

func TestObservePriorities(t *testing.T) {
	before := testutil.ToFloat64(SuggestionFallbacks.WithLabelValues(models.PrioritySourceSuggestion))
	beforeRules := testutil.ToFloat64(PriorityTagsAssigned.WithLabelValues("social_inclusion", models.PrioritySourceRules))

	ObservePriorities([]models.PriorityTag{models.TagSocialInclusion}, models.PrioritySourceRules)
	ObservePriorities([]models.PriorityTag{models.TagGreenEconomy}, models.PrioritySourceSuggestion)

	assert.Equal(t, beforeRules+1, testutil.ToFloat64(PriorityTagsAssigned.WithLabelValues("social_inclusion", models.PrioritySourceRules)))
	assert.Equal(t, before+1, testutil.ToFloat64(SuggestionFallbacks.WithLabelValues(models.PrioritySourceSuggestion)))
}

func TestObserveEvaluation(t *testing.T) {
	ev := models.Evaluation{
		PrioritySource: models.PrioritySourceNone,
		Score: models.ScoreResult{
			Stage1:            models.StageResult{Total: 12},
			QualificationTier: models.TierPending,
			State:             models.StateStage1Failed,
		},
	}
	before := testutil.ToFloat64(EvaluationsTotal.WithLabelValues("stage1_failed", "pending"))

	ObserveEvaluation(ev)

	assert.Equal(t, before+1, testutil.ToFloat64(EvaluationsTotal.WithLabelValues("stage1_failed", "pending")))
}
