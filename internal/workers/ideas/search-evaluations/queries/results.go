package queries

import (
	"encoding/json"
	"fmt"
	"io"
)

// Hit is one ranked evaluation. Source carries the indexed document.
type Hit struct {
	ID     string                 `json:"id"`
	Score  float64                `json:"score"`
	Source map[string]interface{} `json:"source"`
}

type Result struct {
	Hits      []Hit
	TotalHits int64
	MaxScore  float64
	Took      int64
}

type searchResponse struct {
	Took int64 `json:"took"`
	Hits struct {
		Total struct {
			Value int64 `json:"value"`
		} `json:"total"`
		MaxScore *float64 `json:"max_score"`
		Hits     []struct {
			ID     string                 `json:"_id"`
			Score  *float64               `json:"_score"`
			Source map[string]interface{} `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

// DecodeResult reads a search response body.
func DecodeResult(body io.Reader) (*Result, error) {
	var resp searchResponse
	if err := json.NewDecoder(body).Decode(&resp); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	out := &Result{
		Hits:      make([]Hit, 0, len(resp.Hits.Hits)),
		TotalHits: resp.Hits.Total.Value,
		Took:      resp.Took,
	}
	if resp.Hits.MaxScore != nil {
		out.MaxScore = *resp.Hits.MaxScore
	}
	for _, h := range resp.Hits.Hits {
		hit := Hit{ID: h.ID, Source: h.Source}
		if h.Score != nil {
			hit.Score = *h.Score
		}
		out.Hits = append(out.Hits, hit)
	}
	return out, nil
}
