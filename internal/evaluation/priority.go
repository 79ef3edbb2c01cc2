package evaluation

import (
	"context"
	"time"

	"idea-workers/internal/common/logger"
	"idea-workers/internal/models"
)

const (
	MaxPriorityTags       = 3
	DefaultSuggestTimeout = 5 * time.Second
)

// Suggester proposes priority tags for a corpus when no rule matched. It is
// best effort: the classifier swallows every error it returns.
type Suggester interface {
	SuggestPriorities(ctx context.Context, corpus string) ([]models.PriorityTag, error)
}

// NoopSuggester never suggests anything.
type NoopSuggester struct{}

func (NoopSuggester) SuggestPriorities(context.Context, string) ([]models.PriorityTag, error) {
	return nil, nil
}

type Classifier struct {
	rules     *RuleSet
	suggester Suggester
	timeout   time.Duration
	logger    logger.Logger
}

func NewClassifier(rules *RuleSet, suggester Suggester, timeout time.Duration, log logger.Logger) *Classifier {
	if suggester == nil {
		suggester = NoopSuggester{}
	}
	if timeout <= 0 {
		timeout = DefaultSuggestTimeout
	}
	return &Classifier{
		rules:     rules,
		suggester: suggester,
		timeout:   timeout,
		logger:    log,
	}
}

// Classify returns at most MaxPriorityTags tags along with where they came
// from. Suggester failures degrade to an empty list.
func (c *Classifier) Classify(ctx context.Context, s *models.Submission) ([]models.PriorityTag, string) {
	if tags := MatchPriorities(c.rules, s); len(tags) > 0 {
		return tags, models.PrioritySourceRules
	}

	corpus := Corpus(s)
	suggestCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	type suggestion struct {
		tags []models.PriorityTag
		err  error
	}
	done := make(chan suggestion, 1)
	go func() {
		tags, err := c.suggester.SuggestPriorities(suggestCtx, corpus)
		done <- suggestion{tags: tags, err: err}
	}()

	var suggested []models.PriorityTag
	select {
	case res := <-done:
		// A suggester that ignores its context may still answer after the deadline.
		if res.err == nil && suggestCtx.Err() != nil {
			res.err = suggestCtx.Err()
		}
		if res.err != nil {
			c.warnSuggestion(s, res.err)
			return []models.PriorityTag{}, models.PrioritySourceNone
		}
		suggested = res.tags
	case <-suggestCtx.Done():
		c.warnSuggestion(s, suggestCtx.Err())
		return []models.PriorityTag{}, models.PrioritySourceNone
	}

	tags := sanitizeTags(suggested)
	if len(tags) == 0 {
		return tags, models.PrioritySourceNone
	}
	return tags, models.PrioritySourceSuggestion
}

func (c *Classifier) warnSuggestion(s *models.Submission, err error) {
	c.logger.Warn("priority suggestion failed, continuing without tags", map[string]interface{}{
		"submissionId": submissionID(s),
		"error":        err.Error(),
	})
}

// MatchPriorities applies the rule table in order. For each tag the category
// allow-list is tried first, then the keywords, then the audience vocabulary.
func MatchPriorities(rules *RuleSet, s *models.Submission) []models.PriorityTag {
	tags := make([]models.PriorityTag, 0, MaxPriorityTags)
	if s == nil {
		return tags
	}
	corpus := Corpus(s)
	audience := lower(s.TargetAudience)

	for _, rule := range rules.Priorities {
		if len(tags) == MaxPriorityTags {
			break
		}
		if matchesRule(rule, s.Category, corpus, audience) {
			tags = append(tags, rule.Code)
		}
	}
	return tags
}

func matchesRule(rule PriorityRule, category models.Category, corpus, audience string) bool {
	for _, c := range rule.Categories {
		if c == category {
			return true
		}
	}
	if containsAny(corpus, rule.Keywords) {
		return true
	}
	if len(rule.AudienceKeywords) == 0 {
		return false
	}
	return containsAny(audience, rule.AudienceKeywords) || containsAny(corpus, rule.AudienceKeywords)
}

func sanitizeTags(in []models.PriorityTag) []models.PriorityTag {
	out := make([]models.PriorityTag, 0, MaxPriorityTags)
	seen := make(map[models.PriorityTag]bool, len(in))
	for _, t := range in {
		if len(out) == MaxPriorityTags {
			break
		}
		if !models.IsKnownPriorityTag(t) || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

func submissionID(s *models.Submission) string {
	if s == nil {
		return ""
	}
	return s.ID
}
