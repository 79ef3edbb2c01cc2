// internal/workers/ideas/search-evaluations/models.go
package searchevaluations

import "idea-workers/internal/workers/ideas/search-evaluations/queries"

type Input struct {
	QueryType    string          `json:"queryType"`
	Filters      queries.Filters `json:"filters"`
	SubmissionID string          `json:"submissionId,omitempty"`
	Pagination   Pagination      `json:"pagination"`
}

type Pagination struct {
	From int `json:"from"`
	Size int `json:"size"`
}

type Output struct {
	Results   []queries.Hit `json:"results"`
	TotalHits int64         `json:"totalHits"`
	MaxScore  float64       `json:"maxScore"`
	Took      int64         `json:"took"` // milliseconds
	QueryType string        `json:"queryType"`
}
