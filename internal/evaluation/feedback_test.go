package evaluation

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"idea-workers/internal/models"
)

func stage(criteria ...models.CriterionScore) models.StageResult {
	result := models.StageResult{Criteria: criteria}
	for _, c := range criteria {
		result.Total += c.Points
		result.MaxTotal += c.MaxPoints
	}
	return result
}

func criterion(name string, points, maxPoints int) models.CriterionScore {
	return models.CriterionScore{Name: name, Points: points, MaxPoints: maxPoints}
}

func TestGenerateFeedback_Stage1Only(t *testing.T) {
	stage1 := stage(
		criterion(CriterionProblemSpecificity, 2, 10),
		criterion(CriterionProcessCompleteness, 6, 12),
		criterion(CriterionBenefitQuantification, 12, 12),
		criterion(CriterionFrequencyImpact, 0, 6),
	)

	report := GenerateFeedback(stage1, nil)

	require.Len(t, report.Items, 4)
	assert.Equal(t, 2.0, report.Items[0].Score)
	assert.Equal(t, models.SeverityCritical, report.Items[0].Severity)
	assert.Equal(t, 5.0, report.Items[1].Score)
	assert.Equal(t, models.SeverityModerate, report.Items[1].Severity)
	assert.Equal(t, models.SeverityOK, report.Items[2].Severity)
	assert.Empty(t, report.Items[2].Issues)
	assert.Zero(t, report.Items[2].EstimatedMinutes)

	names := make([]string, 0, len(report.QuickWins))
	for _, w := range report.QuickWins {
		names = append(names, w.Criterion)
	}
	assert.Equal(t, []string{CriterionFrequencyImpact, CriterionProcessCompleteness, CriterionProblemSpecificity}, names)

	assert.Equal(t, 15+10+5, report.EstimatedTotalTimeMinutes)
	assert.Equal(t, 5.0, report.Overall.Score)
	assert.Equal(t, models.StatusNeedsWork, report.Overall.Status)
}

func TestGenerateFeedback_WithStage2(t *testing.T) {
	stage1 := stage(
		criterion(CriterionProblemSpecificity, 2, 10),
		criterion(CriterionProcessCompleteness, 6, 12),
		criterion(CriterionBenefitQuantification, 12, 12),
		criterion(CriterionFrequencyImpact, 0, 6),
	)
	stage2 := stage(
		criterion(CriterionOperationalPlan, 8, 8),
		criterion(CriterionFeasibility, 3, 6),
		criterion(CriterionValidationStrength, 0, 6),
	)

	report := GenerateFeedback(stage1, &stage2)

	require.Len(t, report.Items, 7)
	assert.Equal(t, 2, report.Items[5].Stage)
	assert.Equal(t, 15+10+5+10+60, report.EstimatedTotalTimeMinutes)
	assert.InDelta(t, 5.2, report.Overall.Score, 0.001)

	require.Len(t, report.QuickWins, QuickWinLimit)
	assert.Equal(t, CriterionFrequencyImpact, report.QuickWins[0].Criterion)
	// ties keep criterion order
	assert.Equal(t, CriterionProcessCompleteness, report.QuickWins[1].Criterion)
	assert.Equal(t, CriterionFeasibility, report.QuickWins[2].Criterion)
}

func TestGenerateFeedback_QuickWinsSortedSubset(t *testing.T) {
	rules := mustRules(t)

	for _, s := range []*models.Submission{goodSubmission(), placeholderSubmission(), {}} {
		stage1 := rules.ScoreClarity(s)
		var stage2 *models.StageResult
		if stage1.Passed {
			result, err := rules.ScoreDecision(s, stage1)
			require.NoError(t, err)
			stage2 = &result
		}
		report := GenerateFeedback(stage1, stage2)

		assert.LessOrEqual(t, len(report.QuickWins), QuickWinLimit)
		assert.True(t, sort.SliceIsSorted(report.QuickWins, func(i, j int) bool {
			return report.QuickWins[i].EstimatedMinutes < report.QuickWins[j].EstimatedMinutes
		}))

		total := 0
		for _, item := range report.Items {
			if item.Score < FixThreshold {
				total += item.EstimatedMinutes
			}
		}
		assert.Equal(t, total, report.EstimatedTotalTimeMinutes)

		for _, w := range report.QuickWins {
			assert.Less(t, w.Score, FixThreshold)
			assert.Contains(t, report.Items, w)
		}
	}
}

func TestGenerateFeedback_Perfect(t *testing.T) {
	report := GenerateFeedback(stage(criterion(CriterionProblemSpecificity, 10, 10)), nil)

	assert.Equal(t, 10.0, report.Overall.Score)
	assert.Equal(t, models.StatusExcellent, report.Overall.Status)
	assert.Empty(t, report.QuickWins)
	assert.NotNil(t, report.QuickWins)
	assert.Zero(t, report.EstimatedTotalTimeMinutes)
}

func TestSeverityAndStatusBands(t *testing.T) {
	assert.Equal(t, models.SeverityCritical, SeverityFor(0))
	assert.Equal(t, models.SeverityCritical, SeverityFor(3.9))
	assert.Equal(t, models.SeverityModerate, SeverityFor(4))
	assert.Equal(t, models.SeverityModerate, SeverityFor(6.9))
	assert.Equal(t, models.SeverityOK, SeverityFor(7))

	assert.Equal(t, models.StatusExcellent, statusFor(8))
	assert.Equal(t, models.StatusGood, statusFor(7.9))
	assert.Equal(t, models.StatusGood, statusFor(6))
	assert.Equal(t, models.StatusNeedsWork, statusFor(5.9))
}

func TestFeedbackTableCoversEveryCriterion(t *testing.T) {
	for _, name := range append(append([]string{}, stage1Criteria...), stage2Criteria...) {
		for _, sev := range []models.Severity{models.SeverityCritical, models.SeverityModerate} {
			tmpl, ok := feedbackTable[feedbackKey{name, sev}]
			require.True(t, ok, "%s/%s", name, sev)
			assert.NotEmpty(t, tmpl.issues)
			assert.NotEmpty(t, tmpl.suggestions)
			assert.Positive(t, tmpl.minutes)
		}
	}
}
