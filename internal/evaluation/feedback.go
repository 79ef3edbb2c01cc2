package evaluation

import (
	"math"
	"sort"

	"idea-workers/internal/models"
)

const (
	// FixThreshold is the 0-10 score under which a criterion gets feedback.
	FixThreshold  = 7.0
	criticalBelow = 4.0
	QuickWinLimit = 3

	excellentFrom = 8.0
	goodFrom      = 6.0
)

type feedbackTemplate struct {
	issues      []string
	suggestions []string
	minutes     int
}

type feedbackKey struct {
	criterion string
	severity  models.Severity
}

var feedbackTable = map[feedbackKey]feedbackTemplate{
	{CriterionProblemSpecificity, models.SeverityCritical}: {
		issues:      []string{"The problem statement is too vague to assess."},
		suggestions: []string{"Describe who is affected, how many people, and how often the problem occurs, with at least one number."},
		minutes:     15,
	},
	{CriterionProblemSpecificity, models.SeverityModerate}: {
		issues:      []string{"The problem statement lacks figures or an affected population."},
		suggestions: []string{"Add a concrete figure, such as the number of people affected or the time lost each week."},
		minutes:     10,
	},
	{CriterionProcessCompleteness, models.SeverityCritical}: {
		issues:      []string{"The current manual process is missing or reduced to a single line."},
		suggestions: []string{"List the steps of today's process one per line, with the time each step takes."},
		minutes:     20,
	},
	{CriterionProcessCompleteness, models.SeverityModerate}: {
		issues:      []string{"The current process has few steps or no time estimates."},
		suggestions: []string{"Split the process into at least five steps and add a duration such as \"15 min\" to each."},
		minutes:     10,
	},
	{CriterionBenefitQuantification, models.SeverityCritical}: {
		issues:      []string{"The benefit is not quantified."},
		suggestions: []string{"State the time saved per month and the money saved in DH, and the expected return on investment."},
		minutes:     20,
	},
	{CriterionBenefitQuantification, models.SeverityModerate}: {
		issues:      []string{"The benefit mentions gains without both time and money figures."},
		suggestions: []string{"Give both the hours saved and the DH saved per month, and a percentage improvement."},
		minutes:     10,
	},
	{CriterionFrequencyImpact, models.SeverityCritical}: {
		issues:      []string{"The problem frequency is unknown or rare."},
		suggestions: []string{"Select how often the problem occurs."},
		minutes:     5,
	},
	{CriterionFrequencyImpact, models.SeverityModerate}: {
		issues:      []string{"The problem occurs infrequently, which limits its impact."},
		suggestions: []string{"Check whether the problem actually happens more often, for example weekly across several sites."},
		minutes:     2,
	},
	{CriterionOperationalPlan, models.SeverityCritical}: {
		issues:      []string{"There is no operational plan: team and budget are missing."},
		suggestions: []string{"Name the roles needed to run the project and give a budget breakdown in DH."},
		minutes:     25,
	},
	{CriterionOperationalPlan, models.SeverityModerate}: {
		issues:      []string{"The operational plan is incomplete."},
		suggestions: []string{"Add the team composition and at least two budget lines with amounts."},
		minutes:     15,
	},
	{CriterionFeasibility, models.SeverityCritical}: {
		issues:      []string{"The technical approach is not described."},
		suggestions: []string{"List the capabilities required and the systems the solution must integrate with."},
		minutes:     15,
	},
	{CriterionFeasibility, models.SeverityModerate}: {
		issues:      []string{"The technical approach is only partly described."},
		suggestions: []string{"Name the tools already in use, such as Excel, WhatsApp or an ERP, and how the solution connects to them."},
		minutes:     10,
	},
	{CriterionValidationStrength, models.SeverityCritical}: {
		issues:      []string{"No external validation supports the idea."},
		suggestions: []string{"Collect receipts from people who face the problem and would use the solution."},
		minutes:     60,
	},
	{CriterionValidationStrength, models.SeverityModerate}: {
		issues:      []string{"Few external validations support the idea."},
		suggestions: []string{"Collect at least three receipts from distinct users or organisations."},
		minutes:     30,
	},
}

// GenerateFeedback builds the author-facing report from the scored stages.
// stage2 may be nil.
func GenerateFeedback(stage1 models.StageResult, stage2 *models.StageResult) models.FeedbackReport {
	report := models.FeedbackReport{
		Items:     []models.FeedbackItem{},
		QuickWins: []models.FeedbackItem{},
	}

	var points, maxPoints int
	var fixable []models.FeedbackItem
	add := func(stage int, result models.StageResult) {
		for _, c := range result.Criteria {
			points += c.Points
			maxPoints += c.MaxPoints
			item := feedbackItem(stage, c)
			report.Items = append(report.Items, item)
			if item.Severity != models.SeverityOK {
				fixable = append(fixable, item)
				report.EstimatedTotalTimeMinutes += item.EstimatedMinutes
			}
		}
	}
	add(1, stage1)
	if stage2 != nil {
		add(2, *stage2)
	}

	sort.SliceStable(fixable, func(i, j int) bool {
		return fixable[i].EstimatedMinutes < fixable[j].EstimatedMinutes
	})
	if len(fixable) > QuickWinLimit {
		fixable = fixable[:QuickWinLimit]
	}
	report.QuickWins = append(report.QuickWins, fixable...)

	overall := 0.0
	if maxPoints > 0 {
		overall = roundTenth(float64(points) / float64(maxPoints) * 10)
	}
	report.Overall = models.OverallFeedback{Score: overall, Status: statusFor(overall)}
	return report
}

func feedbackItem(stage int, c models.CriterionScore) models.FeedbackItem {
	score := 0.0
	if c.MaxPoints > 0 {
		score = roundTenth(float64(c.Points) / float64(c.MaxPoints) * 10)
	}
	item := models.FeedbackItem{
		Criterion:   c.Name,
		Stage:       stage,
		Score:       score,
		Severity:    SeverityFor(score),
		Issues:      []string{},
		Suggestions: []string{},
	}
	if tmpl, ok := feedbackTable[feedbackKey{c.Name, item.Severity}]; ok {
		item.Issues = append(item.Issues, tmpl.issues...)
		item.Suggestions = append(item.Suggestions, tmpl.suggestions...)
		item.EstimatedMinutes = tmpl.minutes
	}
	return item
}

func SeverityFor(score float64) models.Severity {
	switch {
	case score < criticalBelow:
		return models.SeverityCritical
	case score < FixThreshold:
		return models.SeverityModerate
	default:
		return models.SeverityOK
	}
}

func statusFor(score float64) models.FeedbackStatus {
	switch {
	case score >= excellentFrom:
		return models.StatusExcellent
	case score >= goodFrom:
		return models.StatusGood
	default:
		return models.StatusNeedsWork
	}
}

func roundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}
