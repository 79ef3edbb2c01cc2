// internal/models/evaluation.go
package models

// PriorityTag is a national/thematic priority code.
type PriorityTag string

const (
	TagGreenEconomy            PriorityTag = "green_economy"
	TagDigitalTransformation   PriorityTag = "digital_transformation"
	TagEconomicCompetitiveness PriorityTag = "economic_competitiveness"
	TagYouthEmployment         PriorityTag = "youth_employment"
	TagWomenEntrepreneurship   PriorityTag = "women_entrepreneurship"
	TagRuralDevelopment        PriorityTag = "rural_development"
	TagHealthcareImprovement   PriorityTag = "healthcare_improvement"
	TagEducationQuality        PriorityTag = "education_quality"
	TagSocialInclusion         PriorityTag = "social_inclusion"
)

// AllPriorityTags is the closed set of tags in precedence order.
var AllPriorityTags = []PriorityTag{
	TagGreenEconomy,
	TagDigitalTransformation,
	TagEconomicCompetitiveness,
	TagYouthEmployment,
	TagWomenEntrepreneurship,
	TagRuralDevelopment,
	TagHealthcareImprovement,
	TagEducationQuality,
	TagSocialInclusion,
}

// IsKnownPriorityTag reports whether tag belongs to the closed set.
func IsKnownPriorityTag(tag PriorityTag) bool {
	for _, t := range AllPriorityTags {
		if t == tag {
			return true
		}
	}
	return false
}

const (
	PrioritySourceRules      = "rules"
	PrioritySourceSuggestion = "suggestion"
	PrioritySourceNone       = "none"
)

type BudgetTier string

const (
	BudgetUnder1K BudgetTier = "<1K"
	Budget1Kto5K  BudgetTier = "1K-5K"
	Budget5Kto10K BudgetTier = "5K-10K"
	Budget10KPlus BudgetTier = "10K+"
)

type LocationType string

const (
	LocationUrban LocationType = "urban"
	LocationRural LocationType = "rural"
	LocationBoth  LocationType = "both"
)

type Complexity string

const (
	ComplexityBeginner     Complexity = "beginner"
	ComplexityIntermediate Complexity = "intermediate"
	ComplexityAdvanced     Complexity = "advanced"
)

type InferredAttributes struct {
	BudgetTier   BudgetTier   `json:"budgetTier"`
	LocationType LocationType `json:"locationType"`
	Complexity   Complexity   `json:"complexity"`
}

type CriterionScore struct {
	Name      string `json:"name"`
	Points    int    `json:"points"`
	MaxPoints int    `json:"maxPoints"`
}

type StageResult struct {
	Criteria []CriterionScore `json:"criteria"`
	Total    int              `json:"total"`
	MaxTotal int              `json:"maxTotal"`
	Passed   bool             `json:"passed"`
}

type QualificationTier string

const (
	TierExceptional QualificationTier = "exceptional"
	TierQualified   QualificationTier = "qualified"
	TierDeveloping  QualificationTier = "developing"
	TierPending     QualificationTier = "pending"
)

// GatingState tracks where a submission sits in the two-stage gate.
type GatingState string

const (
	StateUnscored     GatingState = "unscored"
	StateStage1Failed GatingState = "stage1_failed"
	StateStage1Passed GatingState = "stage1_passed"
	StateStage2Failed GatingState = "stage2_failed"
	StateStage2Passed GatingState = "stage2_passed"
)

// ScoreResult holds both gate results. Stage2 is nil when it was not
// evaluated, which is different from an evaluated stage that scored zero.
type ScoreResult struct {
	Stage1            StageResult       `json:"stage1"`
	Stage2            *StageResult      `json:"stage2,omitempty"`
	CombinedTotal     int               `json:"combinedTotal"`
	QualificationTier QualificationTier `json:"qualificationTier"`
	State             GatingState       `json:"state"`
}

type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityModerate Severity = "moderate"
	SeverityOK       Severity = "ok"
)

type FeedbackStatus string

const (
	StatusNeedsWork FeedbackStatus = "needs_work"
	StatusGood      FeedbackStatus = "good"
	StatusExcellent FeedbackStatus = "excellent"
)

type OverallFeedback struct {
	Score  float64        `json:"score"`
	Status FeedbackStatus `json:"status"`
}

type FeedbackItem struct {
	Criterion        string   `json:"criterion"`
	Stage            int      `json:"stage"`
	Score            float64  `json:"score"`
	Severity         Severity `json:"severity"`
	Issues           []string `json:"issues"`
	Suggestions      []string `json:"suggestions"`
	EstimatedMinutes int      `json:"estimatedMinutes"`
}

type FeedbackReport struct {
	Overall                   OverallFeedback `json:"overall"`
	Items                     []FeedbackItem  `json:"items"`
	QuickWins                 []FeedbackItem  `json:"quickWins"`
	EstimatedTotalTimeMinutes int             `json:"estimatedTotalTimeMinutes"`
}

// Evaluation is everything the engine derives from one submission.
type Evaluation struct {
	SubmissionID       string             `json:"submissionId"`
	RulesVersion       string             `json:"rulesVersion"`
	PriorityTags       []PriorityTag      `json:"priorityTags"`
	PrioritySource     string             `json:"prioritySource"`
	InferredAttributes InferredAttributes `json:"inferredAttributes"`
	Score              ScoreResult        `json:"score"`
	BreakEvenMonths    *int               `json:"breakEvenMonths,omitempty"`
	Feedback           FeedbackReport     `json:"feedback"`
}
