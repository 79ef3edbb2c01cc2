package evaluation

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"idea-workers/internal/common/logger"
	"idea-workers/internal/models"
)

type Config struct {
	// SuggestFallback enables the suggestion collaborator when no priority
	// rule matches.
	SuggestFallback bool
	SuggestTimeout  time.Duration
}

func DefaultConfig() *Config {
	return &Config{
		SuggestFallback: true,
		SuggestTimeout:  DefaultSuggestTimeout,
	}
}

// Engine evaluates submissions against one rule set. It holds no mutable
// state and may be shared across goroutines.
type Engine struct {
	rules      *RuleSet
	classifier *Classifier
	logger     logger.Logger
}

func NewEngine(config *Config, rules *RuleSet, suggester Suggester, log logger.Logger) *Engine {
	if config == nil {
		config = DefaultConfig()
	}
	if !config.SuggestFallback || suggester == nil {
		suggester = NoopSuggester{}
	}
	log = log.WithFields(map[string]interface{}{"rulesVersion": rules.Version})
	return &Engine{
		rules:      rules,
		classifier: NewClassifier(rules, suggester, config.SuggestTimeout, log),
		logger:     log,
	}
}

func (e *Engine) Rules() *RuleSet {
	return e.rules
}

func (e *Engine) Classifier() *Classifier {
	return e.classifier
}

// Evaluate runs the whole pipeline. It never fails: poor or empty input
// scores low, and a failing suggester only loses the fallback tags.
func (e *Engine) Evaluate(ctx context.Context, s *models.Submission) models.Evaluation {
	if s == nil {
		s = &models.Submission{}
	}

	var (
		tags   []models.PriorityTag
		source string
		attrs  models.InferredAttributes
	)
	var g errgroup.Group
	g.Go(func() error {
		tags, source = e.classifier.Classify(ctx, s)
		return nil
	})
	g.Go(func() error {
		attrs = e.rules.InferAttributes(s)
		return nil
	})

	stage1 := e.rules.ScoreClarity(s)
	var stage2 *models.StageResult
	if stage1.Passed {
		// stage 1 passed, so the gate cannot be violated here
		result, _ := e.rules.ScoreDecision(s, stage1)
		stage2 = &result
	}
	_ = g.Wait()

	score := RankQualification(stage1, stage2)
	evaluation := models.Evaluation{
		SubmissionID:       s.ID,
		RulesVersion:       e.rules.Version,
		PriorityTags:       tags,
		PrioritySource:     source,
		InferredAttributes: attrs,
		Score:              score,
		BreakEvenMonths:    EstimateBreakEven(s.EstimatedCost, s.MonthlySavings()),
		Feedback:           GenerateFeedback(stage1, stage2),
	}

	e.logger.Debug("submission evaluated", map[string]interface{}{
		"submissionId":      s.ID,
		"state":             score.State,
		"combinedTotal":     score.CombinedTotal,
		"qualificationTier": score.QualificationTier,
		"priorityTags":      tags,
	})
	return evaluation
}
