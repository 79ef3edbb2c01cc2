package queries

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/elastic/go-elasticsearch/v8/esapi"
)

const (
	QueryRanked  = "ranked"
	QuerySimilar = "similar"

	DefaultSize = 20
	MaxSize     = 100
)

var (
	ErrUnknownQueryType = errors.New("unknown query type")
	ErrMissingIndex     = errors.New("index name is required")
	ErrMissingReference = errors.New("submissionId is required for similar queries")
)

// Filters narrows a ranked query. Empty fields do not filter.
type Filters struct {
	Keywords          string   `json:"keywords,omitempty"`
	QualificationTier []string `json:"qualificationTier,omitempty"`
	PriorityTags      []string `json:"priorityTags,omitempty"`
	Category          string   `json:"category,omitempty"`
	LocationType      string   `json:"locationType,omitempty"`
	BudgetTier        string   `json:"budgetTier,omitempty"`
	GatingState       string   `json:"gatingState,omitempty"`
	MinCombinedTotal  *int     `json:"minCombinedTotal,omitempty"`
}

type SearchQuery struct {
	Index        string
	QueryType    string
	Filters      Filters
	SubmissionID string
	From         int
	Size         int
}

// BuildQuery turns a SearchQuery into a search request. Pagination is
// clamped to [1, MaxSize].
func BuildQuery(sq SearchQuery) (*esapi.SearchRequest, error) {
	if sq.Index == "" {
		return nil, ErrMissingIndex
	}

	var body map[string]interface{}
	switch sq.QueryType {
	case QueryRanked, "":
		body = buildRankedQuery(sq.Filters)
	case QuerySimilar:
		if strings.TrimSpace(sq.SubmissionID) == "" {
			return nil, ErrMissingReference
		}
		body = buildSimilarQuery(sq.Index, sq.SubmissionID, sq.Filters)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownQueryType, sq.QueryType)
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode query: %w", err)
	}

	from, size := clamp(sq.From, sq.Size)
	return &esapi.SearchRequest{
		Index: []string{sq.Index},
		Body:  bytes.NewReader(payload),
		From:  &from,
		Size:  &size,
	}, nil
}

func clamp(from, size int) (int, int) {
	if from < 0 {
		from = 0
	}
	if size < 1 {
		size = DefaultSize
	}
	if size > MaxSize {
		size = MaxSize
	}
	return from, size
}

// buildRankedQuery orders evaluated ideas by combined total, breaking ties
// on stage 1 and then on relevance when keywords are given.
func buildRankedQuery(f Filters) map[string]interface{} {
	must := []interface{}{}
	if f.Keywords != "" {
		must = append(must, map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  f.Keywords,
				"fields": []string{"title^3", "fullText"},
				"type":   "best_fields",
			},
		})
	}

	query := map[string]interface{}{
		"bool": boolQuery(must, filterClauses(f), nil),
	}
	return map[string]interface{}{
		"query": query,
		"sort": []interface{}{
			map[string]interface{}{"combinedTotal": map[string]interface{}{"order": "desc"}},
			map[string]interface{}{"stage1Total": map[string]interface{}{"order": "desc"}},
			"_score",
		},
		"track_total_hits": true,
	}
}

// buildSimilarQuery finds ideas whose text resembles the referenced
// submission, excluding the submission itself.
func buildSimilarQuery(index, submissionID string, f Filters) map[string]interface{} {
	must := []interface{}{
		map[string]interface{}{
			"more_like_this": map[string]interface{}{
				"fields": []string{"title", "fullText"},
				"like": []interface{}{
					map[string]interface{}{"_index": index, "_id": submissionID},
				},
				"min_term_freq":   1,
				"min_doc_freq":    1,
				"max_query_terms": 25,
			},
		},
	}
	mustNot := []interface{}{
		map[string]interface{}{"ids": map[string]interface{}{"values": []string{submissionID}}},
	}
	return map[string]interface{}{
		"query": map[string]interface{}{
			"bool": boolQuery(must, filterClauses(f), mustNot),
		},
		"track_total_hits": true,
	}
}

func filterClauses(f Filters) []interface{} {
	filters := []interface{}{}
	term := func(field, value string) {
		if value != "" {
			filters = append(filters, map[string]interface{}{
				"term": map[string]interface{}{field: value},
			})
		}
	}
	terms := func(field string, values []string) {
		if len(values) > 0 {
			filters = append(filters, map[string]interface{}{
				"terms": map[string]interface{}{field: values},
			})
		}
	}

	terms("qualificationTier", f.QualificationTier)
	terms("priorityTags", f.PriorityTags)
	term("category", f.Category)
	term("locationType", f.LocationType)
	term("budgetTier", f.BudgetTier)
	term("gatingState", f.GatingState)
	if f.MinCombinedTotal != nil {
		filters = append(filters, map[string]interface{}{
			"range": map[string]interface{}{
				"combinedTotal": map[string]interface{}{"gte": *f.MinCombinedTotal},
			},
		})
	}
	return filters
}

func boolQuery(must, filter, mustNot []interface{}) map[string]interface{} {
	q := map[string]interface{}{}
	if len(must) > 0 {
		q["must"] = must
	} else {
		q["must"] = []interface{}{map[string]interface{}{"match_all": map[string]interface{}{}}}
	}
	if len(filter) > 0 {
		q["filter"] = filter
	}
	if len(mustNot) > 0 {
		q["must_not"] = mustNot
	}
	return q
}
