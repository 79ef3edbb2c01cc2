package evaluation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"idea-workers/internal/models"
)

func TestInferBudgetTier(t *testing.T) {
	tests := []struct {
		name string
		raw  *string
		want models.BudgetTier
	}{
		{"missing", nil, models.BudgetUnder1K},
		{"empty", strPtr("  "), models.BudgetUnder1K},
		{"unparseable", strPtr("no idea yet"), models.BudgetUnder1K},
		{"dirham amount", strPtr("7500 DH"), models.Budget5Kto10K},
		{"below first breakpoint", strPtr("around 999 dh"), models.BudgetUnder1K},
		{"first breakpoint", strPtr("1000"), models.Budget1Kto5K},
		{"second breakpoint inclusive", strPtr("5000 MAD"), models.Budget1Kto5K},
		{"just above second breakpoint", strPtr("5001"), models.Budget5Kto10K},
		{"thousands separator", strPtr("10,000 DH"), models.Budget5Kto10K},
		{"dotted thousands separator", strPtr("7.500 DH"), models.Budget5Kto10K},
		{"above third breakpoint", strPtr("10 001 DH"), models.Budget10KPlus},
		{"range takes the maximum", strPtr("between 2k and 12k"), models.Budget10KPlus},
		{"label 5K-10K", strPtr("5K-10K"), models.Budget5Kto10K},
		{"label 10K+", strPtr("10k+ probably"), models.Budget10KPlus},
		{"label 1K-5K", strPtr("1K-5K"), models.Budget1Kto5K},
		{"label <1K", strPtr("<1k"), models.BudgetUnder1K},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, InferBudgetTier(tt.raw))
		})
	}
}

func TestInferLocationType(t *testing.T) {
	rules := mustRules(t)

	tests := []struct {
		name     string
		location string
		category models.Category
		problem  string
		want     models.LocationType
	}{
		{"rural keyword beats city", "Village near Marrakech", models.CategoryHealth, "", models.LocationRural},
		{"rural keyword in problem", "Marrakech", models.CategoryHealth, "Farmers in remote areas", models.LocationRural},
		{"nationwide without city", "Nationwide, Morocco", models.CategoryTech, "", models.LocationBoth},
		{"nationwide with city", "Morocco, mainly Rabat", models.CategoryTech, "", models.LocationUrban},
		{"city match", "Casablanca", models.CategoryOther, "", models.LocationUrban},
		{"city needs word boundary", "Morocco, professional networks", models.CategoryOther, "", models.LocationBoth},
		{"nationwide needs word boundary", "International zone", models.CategoryOther, "", models.LocationUrban},
		{"national keyword", "National coverage", models.CategoryOther, "", models.LocationBoth},
		{"agriculture fallback", "", models.CategoryAgriculture, "", models.LocationRural},
		{"infrastructure urban keyword", "", models.CategoryInfrastructure, "Urban road maintenance", models.LocationUrban},
		{"default", "", models.CategoryOther, "", models.LocationUrban},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, rules.InferLocationType(tt.location, tt.category, tt.problem))
		})
	}
}

func TestInferComplexity(t *testing.T) {
	rules := mustRules(t)

	tests := []struct {
		name         string
		capabilities []string
		integrations []string
		tier         models.BudgetTier
		want         models.Complexity
	}{
		{"three capabilities", []string{"ocr", "chat", "forms"}, nil, models.BudgetUnder1K, models.ComplexityAdvanced},
		{"advanced keyword", []string{"Computer Vision"}, nil, models.BudgetUnder1K, models.ComplexityAdvanced},
		{"four integrations", nil, []string{"erp", "crm", "sms", "email"}, models.BudgetUnder1K, models.ComplexityAdvanced},
		{"large budget", nil, nil, models.Budget10KPlus, models.ComplexityAdvanced},
		{"beginner", []string{"ocr"}, []string{"erp", "sms"}, models.Budget1Kto5K, models.ComplexityBeginner},
		{"no inputs", nil, nil, models.BudgetUnder1K, models.ComplexityBeginner},
		{"two capabilities", []string{"ocr", "chat"}, nil, models.Budget1Kto5K, models.ComplexityIntermediate},
		{"mid budget", []string{"ocr"}, nil, models.Budget5Kto10K, models.ComplexityIntermediate},
		{"three integrations", nil, []string{"erp", "crm", "sms"}, models.BudgetUnder1K, models.ComplexityIntermediate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, rules.InferComplexity(tt.capabilities, tt.integrations, tt.tier))
		})
	}
}

func TestInferAttributes_Deterministic(t *testing.T) {
	rules := mustRules(t)
	s := goodSubmission()
	s.CostEstimate = strPtr("7500 DH")

	first := rules.InferAttributes(s)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, rules.InferAttributes(s))
	}
	assert.Equal(t, models.InferredAttributes{
		BudgetTier:   models.Budget5Kto10K,
		LocationType: models.LocationUrban,
		Complexity:   models.ComplexityIntermediate,
	}, first)
}
