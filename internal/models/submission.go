// internal/models/submission.go
package models

// Category is the thematic area a submission is filed under.
type Category string

const (
	CategoryHealth          Category = "health"
	CategoryEducation       Category = "education"
	CategoryAgriculture     Category = "agriculture"
	CategoryTech            Category = "tech"
	CategoryInfrastructure  Category = "infrastructure"
	CategoryAdministration  Category = "administration"
	CategoryLogistics       Category = "logistics"
	CategoryFinance         Category = "finance"
	CategoryCustomerService Category = "customer_service"
	CategoryInclusion       Category = "inclusion"
	CategoryOther           Category = "other"
)

// Frequency is how often the described problem occurs.
type Frequency string

const (
	FrequencyDaily     Frequency = "daily"
	FrequencyWeekly    Frequency = "weekly"
	FrequencyMonthly   Frequency = "monthly"
	FrequencyQuarterly Frequency = "quarterly"
	FrequencyYearly    Frequency = "yearly"
	FrequencyRarely    Frequency = "rarely"
)

// Submission is one idea as entered by its author. It is read-only for the
// duration of an evaluation pass.
type Submission struct {
	ID               string    `json:"id"`
	Title            string    `json:"title,omitempty"`
	ProblemStatement string    `json:"problemStatement"`
	CurrentProcess   string    `json:"currentProcess"`
	Solution         string    `json:"solution,omitempty"`
	BenefitStatement string    `json:"benefitStatement"`
	OperationalNeeds string    `json:"operationalNeeds"`
	Category         Category  `json:"category"`
	Location         string    `json:"location"`
	TargetAudience   string    `json:"targetAudience,omitempty"`
	Frequency        Frequency `json:"frequency"`
	ReceiptCount     int       `json:"receiptCount"`
	Capabilities     []string  `json:"capabilities,omitempty"`
	Integrations     []string  `json:"integrations,omitempty"`
	CostEstimate     *string   `json:"costEstimate,omitempty"`

	// Monetary figures are in DH.
	EstimatedCost          *float64 `json:"estimatedCost,omitempty"`
	MonthlyCostSaved       *float64 `json:"monthlyCostSaved,omitempty"`
	TimeSavedHoursPerMonth *float64 `json:"timeSavedHoursPerMonth,omitempty"`
	HourlyCost             *float64 `json:"hourlyCost,omitempty"`
}

// MonthlySavings returns the monthly amount saved, falling back to hours saved
// times the hourly cost when no direct figure was given.
func (s *Submission) MonthlySavings() *float64 {
	if s.MonthlyCostSaved != nil {
		v := *s.MonthlyCostSaved
		return &v
	}
	if s.TimeSavedHoursPerMonth != nil && s.HourlyCost != nil {
		v := *s.TimeSavedHoursPerMonth * *s.HourlyCost
		return &v
	}
	return nil
}
