package evaluation

import (
	"errors"
	"fmt"

	"idea-workers/internal/models"
)

// Stage2PassPoints is 75% of Stage2MaxPoints.
const Stage2PassPoints = 15

const (
	operationalNativeMax = 8
	feasibilityNativeMax = 6
	validationNativeMax  = 6

	pointsPerReceipt = 2
	receiptCap       = 3
)

var ErrStageGateViolation = errors.New("STAGE_GATE_VIOLATION")

// ScoreDecision runs the stage 2 rubric. It refuses to score a submission
// whose stage 1 result did not pass or whose total is below the pass mark.
func (r *RuleSet) ScoreDecision(s *models.Submission, stage1 models.StageResult) (models.StageResult, error) {
	if !stage1.Passed || stage1.Total < Stage1PassPoints {
		return models.StageResult{}, fmt.Errorf("%w: stage 1 scored %d/%d", ErrStageGateViolation, stage1.Total, stage1.MaxTotal)
	}
	if s == nil {
		s = &models.Submission{}
	}
	raw := map[string]int{
		CriterionOperationalPlan:    r.operationalPlan(s),
		CriterionFeasibility:        r.feasibility(s),
		CriterionValidationStrength: validationStrength(s.ReceiptCount),
	}
	native := map[string]int{
		CriterionOperationalPlan:    operationalNativeMax,
		CriterionFeasibility:        feasibilityNativeMax,
		CriterionValidationStrength: validationNativeMax,
	}
	return buildStage(r.Stage2, raw, native, Stage2PassPoints), nil
}

func (r *RuleSet) operationalPlan(s *models.Submission) int {
	text := lower(s.OperationalNeeds)
	points := 0
	if containsAny(text, r.Vocabulary.Team) {
		points += 3
	}

	figures := len(r.moneyPattern.FindAllStringIndex(text, -1))
	if positive(s.EstimatedCost) || (s.CostEstimate != nil && hasNumber(*s.CostEstimate)) {
		figures++
	}
	points += lengthBand(figures, []band{{2, 3}, {1, 2}})
	points += lengthBand(runeLen(text), []band{{100, 2}, {40, 1}})
	return points
}

func (r *RuleSet) feasibility(s *models.Submission) int {
	points := 0
	if len(s.Capabilities) > 0 {
		points += 2
	}
	if len(s.Integrations) > 0 {
		points++
	}
	technical := normalize(s.OperationalNeeds, s.Solution, s.CurrentProcess)
	if containsAnyTerm(technical, r.Vocabulary.Technical) {
		points++
	}
	switch r.InferComplexity(s.Capabilities, s.Integrations, InferBudgetTier(s.CostEstimate)) {
	case models.ComplexityBeginner:
		points += 2
	case models.ComplexityIntermediate:
		points++
	}
	return points
}

// validationStrength grows with the receipt count up to receiptCap.
func validationStrength(receipts int) int {
	if receipts <= 0 {
		return 0
	}
	if receipts > receiptCap {
		receipts = receiptCap
	}
	return receipts * pointsPerReceipt
}
