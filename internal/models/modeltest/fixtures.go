// Package modeltest provides submissions with known outcomes under rules v1.
package modeltest

import "idea-workers/internal/models"

func StrPtr(s string) *string { return &s }

func FloatPtr(f float64) *float64 { return &f }

// GoodSubmission scores full marks on both stages: 60 points, exceptional,
// tags digital_transformation and healthcare_improvement, break-even in 5 months.
func GoodSubmission() *models.Submission {
	return &models.Submission{
		ID:               "sub-good",
		Title:            "Digital appointment records",
		ProblemStatement: "Every day about 120 patients wait more than 3 hours at the regional hospital reception because paper appointment files are searched by hand in the archive room.",
		CurrentProcess: "1. Patient arrives and queues at the desk (20 min)\n" +
			"2. Clerk searches the paper archive (30 min)\n" +
			"3. Clerk photocopies the file (10 min)\n" +
			"4. Nurse carries the file to the doctor (15 min)\n" +
			"5. Doctor writes notes and the file is re-archived (20 min)",
		Solution:         "Digital appointment records with an online booking platform.",
		BenefitStatement: "Digitising the archive saves 40 hours per month of clerk time, about 26700 DH per month, a 25% reduction in waiting time with a payback under 5 months.",
		OperationalNeeds: "A team of two developers and one project manager. Budget: 45000 DH for development and 6000 DH per year for hosting on a cloud server.",
		Category:         models.CategoryHealth,
		Location:         "Marrakech",
		Frequency:        models.FrequencyDaily,
		ReceiptCount:     3,
		Capabilities:     []string{"ocr"},
		Integrations:     []string{"erp"},
		EstimatedCost:    FloatPtr(120000),
		MonthlyCostSaved: FloatPtr(26700),
	}
}

// PlaceholderSubmission fails stage 1 with 2 points and matches no rule.
func PlaceholderSubmission() *models.Submission {
	return &models.Submission{
		ID:               "sub-placeholder",
		ProblemStatement: "TBD",
		CurrentProcess:   "TBD",
		BenefitStatement: "TBD",
		OperationalNeeds: "TBD",
		Category:         models.CategoryOther,
		Location:         "TBD",
	}
}
