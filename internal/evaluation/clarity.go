package evaluation

import (
	"math"
	"strings"

	"idea-workers/internal/models"
)

// Stage1PassPoints is 60% of Stage1MaxPoints.
const Stage1PassPoints = 24

// Native maxima of the stage 1 signals before scaling to rule weights.
const (
	problemNativeMax   = 10
	processNativeMax   = 12
	benefitNativeMax   = 12
	frequencyNativeMax = 6
)

// maxConsistentBreakEvenMonths bounds what counts as a plausible payback when
// structured cost and savings figures are both given.
const maxConsistentBreakEvenMonths = 120

var frequencyPoints = map[models.Frequency]int{
	models.FrequencyDaily:     6,
	models.FrequencyWeekly:    5,
	models.FrequencyMonthly:   3,
	models.FrequencyQuarterly: 2,
	models.FrequencyYearly:    1,
}

// ScoreClarity runs the stage 1 rubric. Missing text scores as the lowest
// case of each criterion.
func (r *RuleSet) ScoreClarity(s *models.Submission) models.StageResult {
	if s == nil {
		s = &models.Submission{}
	}
	raw := map[string]int{
		CriterionProblemSpecificity:    r.problemSpecificity(s),
		CriterionProcessCompleteness:   r.processCompleteness(s.CurrentProcess),
		CriterionBenefitQuantification: r.benefitQuantification(s),
		CriterionFrequencyImpact:       frequencyPoints[s.Frequency],
	}
	native := map[string]int{
		CriterionProblemSpecificity:    problemNativeMax,
		CriterionProcessCompleteness:   processNativeMax,
		CriterionBenefitQuantification: benefitNativeMax,
		CriterionFrequencyImpact:       frequencyNativeMax,
	}
	return buildStage(r.Stage1, raw, native, Stage1PassPoints)
}

func (r *RuleSet) problemSpecificity(s *models.Submission) int {
	text := lower(s.ProblemStatement)
	points := lengthBand(runeLen(text), []band{{150, 4}, {80, 3}, {30, 1}})
	if hasNumber(text) {
		points += 3
	}
	if containsAny(text, r.Vocabulary.Population) {
		points += 2
	}
	if s.Frequency != "" || containsAny(text, r.Vocabulary.Frequency) {
		points++
	}
	return points
}

func (r *RuleSet) processCompleteness(process string) int {
	if strings.TrimSpace(process) == "" {
		return 0
	}
	points := lengthBand(countSteps(process), []band{{5, 6}, {3, 4}, {1, 2}})
	durations := len(r.durationPattern.FindAllStringIndex(lower(process), -1))
	points += lengthBand(durations, []band{{3, 4}, {1, 2}})
	points += lengthBand(runeLen(strings.TrimSpace(process)), []band{{200, 2}, {80, 1}})
	return points
}

func (r *RuleSet) benefitQuantification(s *models.Submission) int {
	text := lower(s.BenefitStatement)
	hasTime := r.durationPattern.MatchString(text) || positive(s.TimeSavedHoursPerMonth)
	hasMoney := r.moneyPattern.MatchString(text) || positive(s.MonthlyCostSaved)

	points := 0
	if hasTime {
		points += 3
	}
	if hasMoney {
		points += 4
	}
	if percentPattern.MatchString(text) || containsAnyTerm(text, r.Vocabulary.ROI) {
		points += 3
	}
	if structuredFiguresConsistent(s) || (r.durationPattern.MatchString(text) && r.moneyPattern.MatchString(text)) {
		points += 2
	}
	return points
}

func structuredFiguresConsistent(s *models.Submission) bool {
	months := EstimateBreakEven(s.EstimatedCost, s.MonthlySavings())
	return months != nil && *months <= maxConsistentBreakEvenMonths
}

type band struct {
	min    int
	points int
}

// lengthBand returns the points of the first band whose minimum v reaches.
// Bands are ordered from the highest minimum down.
func lengthBand(v int, bands []band) int {
	for _, b := range bands {
		if v >= b.min {
			return b.points
		}
	}
	return 0
}

func positive(v *float64) bool {
	return v != nil && *v > 0
}

// scale maps a native sub-score onto the configured weight.
func scale(raw, nativeMax, weight int) int {
	if nativeMax <= 0 || raw <= 0 {
		return 0
	}
	if raw > nativeMax {
		raw = nativeMax
	}
	return int(math.Round(float64(raw) * float64(weight) / float64(nativeMax)))
}

func buildStage(weights []CriterionWeight, raw, native map[string]int, passPoints int) models.StageResult {
	result := models.StageResult{Criteria: make([]models.CriterionScore, 0, len(weights))}
	for _, w := range weights {
		points := scale(raw[w.Name], native[w.Name], w.Weight)
		result.Criteria = append(result.Criteria, models.CriterionScore{
			Name:      w.Name,
			Points:    points,
			MaxPoints: w.Weight,
		})
		result.Total += points
		result.MaxTotal += w.Weight
	}
	result.Passed = result.Total >= passPoints
	return result
}
