package evaluation

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"idea-workers/internal/common/logger"
	"idea-workers/internal/models"
)

type stubSuggester struct {
	tags  []models.PriorityTag
	err   error
	block bool
	calls atomic.Int32
}

// sleepySuggester answers after a fixed delay regardless of its context.
type sleepySuggester struct {
	delay time.Duration
}

func (s sleepySuggester) SuggestPriorities(context.Context, string) ([]models.PriorityTag, error) {
	time.Sleep(s.delay)
	return []models.PriorityTag{models.TagSocialInclusion}, nil
}

func (s *stubSuggester) SuggestPriorities(ctx context.Context, corpus string) ([]models.PriorityTag, error) {
	s.calls.Add(1)
	if s.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return s.tags, s.err
}

func unmatchedSubmission() *models.Submission {
	return &models.Submission{
		ID:               "sub-unmatched",
		ProblemStatement: "Lorem ipsum dolor",
		Category:         models.CategoryOther,
	}
}

func TestMatchPriorities(t *testing.T) {
	rules := mustRules(t)

	tests := []struct {
		name       string
		submission *models.Submission
		want       []models.PriorityTag
	}{
		{
			name:       "category allow-list with empty text",
			submission: &models.Submission{Category: models.CategoryHealth},
			want:       []models.PriorityTag{models.TagHealthcareImprovement},
		},
		{
			name: "keyword substring",
			submission: &models.Submission{
				Category:         models.CategoryOther,
				ProblemStatement: "Households throw away recyclable plastic",
			},
			want: []models.PriorityTag{models.TagGreenEconomy},
		},
		{
			name: "audience heuristic",
			submission: &models.Submission{
				Category:       models.CategoryOther,
				TargetAudience: "Unemployed graduates",
			},
			want: []models.PriorityTag{models.TagYouthEmployment},
		},
		{
			name: "capped at three in rule order",
			submission: &models.Submission{
				Category:         models.CategoryOther,
				ProblemStatement: "Solar panels and a digital platform to boost export revenue for youth cooperatives",
			},
			want: []models.PriorityTag{
				models.TagGreenEconomy,
				models.TagDigitalTransformation,
				models.TagEconomicCompetitiveness,
			},
		},
		{
			name:       "nothing matches",
			submission: unmatchedSubmission(),
			want:       []models.PriorityTag{},
		},
		{
			name:       "nil submission",
			submission: nil,
			want:       []models.PriorityTag{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MatchPriorities(rules, tt.submission))
		})
	}
}

func TestClassifier_Classify(t *testing.T) {
	rules := mustRules(t)
	log := logger.NewTestLogger(t)

	t.Run("rules win without calling the suggester", func(t *testing.T) {
		stub := &stubSuggester{tags: []models.PriorityTag{models.TagSocialInclusion}}
		c := NewClassifier(rules, stub, time.Second, log)

		tags, source := c.Classify(context.Background(), &models.Submission{Category: models.CategoryEducation})
		assert.Equal(t, []models.PriorityTag{models.TagEducationQuality}, tags)
		assert.Equal(t, models.PrioritySourceRules, source)
		assert.Equal(t, int32(0), stub.calls.Load())
	})

	t.Run("suggestions are filtered, deduplicated and capped", func(t *testing.T) {
		stub := &stubSuggester{tags: []models.PriorityTag{
			models.TagGreenEconomy,
			models.TagGreenEconomy,
			"space_program",
			models.TagDigitalTransformation,
			models.TagRuralDevelopment,
			models.TagHealthcareImprovement,
		}}
		c := NewClassifier(rules, stub, time.Second, log)

		tags, source := c.Classify(context.Background(), unmatchedSubmission())
		assert.Equal(t, []models.PriorityTag{
			models.TagGreenEconomy,
			models.TagDigitalTransformation,
			models.TagRuralDevelopment,
		}, tags)
		assert.Equal(t, models.PrioritySourceSuggestion, source)
	})

	t.Run("suggester error yields no tags", func(t *testing.T) {
		stub := &stubSuggester{err: errors.New("upstream 500")}
		c := NewClassifier(rules, stub, time.Second, log)

		tags, source := c.Classify(context.Background(), unmatchedSubmission())
		assert.Empty(t, tags)
		assert.NotNil(t, tags)
		assert.Equal(t, models.PrioritySourceNone, source)
	})

	t.Run("suggester timeout yields no tags", func(t *testing.T) {
		stub := &stubSuggester{block: true}
		c := NewClassifier(rules, stub, 20*time.Millisecond, log)

		start := time.Now()
		tags, source := c.Classify(context.Background(), unmatchedSubmission())
		assert.Empty(t, tags)
		assert.Equal(t, models.PrioritySourceNone, source)
		assert.Less(t, time.Since(start), 2*time.Second)
	})

	t.Run("suggester ignoring its deadline yields no tags", func(t *testing.T) {
		c := NewClassifier(rules, sleepySuggester{delay: 2 * time.Second}, 50*time.Millisecond, log)

		start := time.Now()
		tags, source := c.Classify(context.Background(), unmatchedSubmission())
		assert.Less(t, time.Since(start), time.Second)
		assert.Empty(t, tags)
		assert.NotNil(t, tags)
		assert.Equal(t, models.PrioritySourceNone, source)
	})

	t.Run("nil suggester behaves as no-op", func(t *testing.T) {
		c := NewClassifier(rules, nil, 0, log)

		tags, source := c.Classify(context.Background(), unmatchedSubmission())
		assert.Empty(t, tags)
		assert.Equal(t, models.PrioritySourceNone, source)
	})
}
