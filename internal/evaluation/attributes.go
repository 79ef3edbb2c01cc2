package evaluation

import (
	"strings"

	"idea-workers/internal/models"
)

// Budget breakpoints in DH.
const (
	budgetLowMax    = 1000
	budgetMediumMax = 5000
	budgetHighMax   = 10000
)

// Labels are probed in this order so "5k-10k" is not read as "1k-5k" or
// "10k+" by a shorter label that happens to be a substring.
var budgetLabels = []models.BudgetTier{
	models.Budget5Kto10K,
	models.Budget10KPlus,
	models.Budget1Kto5K,
	models.BudgetUnder1K,
}

// InferBudgetTier buckets a free-text cost estimate. Missing or unparseable
// input falls back to the lowest tier.
func InferBudgetTier(raw *string) models.BudgetTier {
	if raw == nil {
		return models.BudgetUnder1K
	}
	text := lower(*raw)
	if text == "" {
		return models.BudgetUnder1K
	}
	for _, label := range budgetLabels {
		if strings.Contains(text, strings.ToLower(string(label))) {
			return label
		}
	}

	amounts := extractAmounts(text)
	if len(amounts) == 0 {
		return models.BudgetUnder1K
	}
	return bucketBudget(maxInt(amounts...))
}

func bucketBudget(amount int) models.BudgetTier {
	switch {
	case amount < budgetLowMax:
		return models.BudgetUnder1K
	case amount <= budgetMediumMax:
		return models.Budget1Kto5K
	case amount <= budgetHighMax:
		return models.Budget5Kto10K
	default:
		return models.Budget10KPlus
	}
}

// InferLocationType checks rural vocabulary before any city so that a
// village near Marrakech stays rural.
func (r *RuleSet) InferLocationType(location string, category models.Category, problem string) models.LocationType {
	text := normalize(location, problem)
	loc := lower(location)

	if containsAny(text, r.Location.RuralKeywords) {
		return models.LocationRural
	}
	namesCity := containsAnyTerm(text, r.Location.Cities)
	if containsAnyTerm(loc, r.Location.NationwideKeywords) && !namesCity {
		return models.LocationBoth
	}
	if namesCity {
		return models.LocationUrban
	}
	if category == models.CategoryAgriculture {
		return models.LocationRural
	}
	if category == models.CategoryInfrastructure && containsAny(text, r.Location.UrbanKeywords) {
		return models.LocationUrban
	}
	return models.LocationUrban
}

// InferComplexity grades the technical ambition of a submission. The advanced
// checks short-circuit everything else.
func (r *RuleSet) InferComplexity(capabilities, integrations []string, tier models.BudgetTier) models.Complexity {
	if len(capabilities) >= 3 || len(integrations) >= 4 || tier == models.Budget10KPlus {
		return models.ComplexityAdvanced
	}
	for _, c := range capabilities {
		if containsAny(lower(c), r.Complexity.AdvancedKeywords) {
			return models.ComplexityAdvanced
		}
	}
	if len(capabilities) <= 1 && len(integrations) <= 2 &&
		(tier == models.BudgetUnder1K || tier == models.Budget1Kto5K) {
		return models.ComplexityBeginner
	}
	return models.ComplexityIntermediate
}

// InferAttributes derives every attribute of s.
func (r *RuleSet) InferAttributes(s *models.Submission) models.InferredAttributes {
	if s == nil {
		s = &models.Submission{}
	}
	tier := InferBudgetTier(s.CostEstimate)
	return models.InferredAttributes{
		BudgetTier:   tier,
		LocationType: r.InferLocationType(s.Location, s.Category, s.ProblemStatement),
		Complexity:   r.InferComplexity(s.Capabilities, s.Integrations, tier),
	}
}
