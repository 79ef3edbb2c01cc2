// internal/common/genai/suggest.go
package genai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"idea-workers/internal/common/config"
	httpclient "idea-workers/internal/common/http"
	"idea-workers/internal/common/logger"
	"idea-workers/internal/models"
)

const suggestPath = "/api/ai/suggest-priorities"

var (
	ErrSuggestionFailed  = errors.New("SUGGESTION_FAILED")
	ErrSuggestionTimeout = errors.New("SUGGESTION_TIMEOUT")
)

// Suggester proposes priority tags for a text corpus.
type Suggester interface {
	SuggestPriorities(ctx context.Context, corpus string) ([]models.PriorityTag, error)
}

type suggestRequest struct {
	Text        string               `json:"text"`
	AllowedTags []models.PriorityTag `json:"allowedTags"`
	MaxTags     int                  `json:"maxTags"`
}

type suggestResponse struct {
	Tags       []string `json:"tags"`
	Confidence float64  `json:"confidence"`
}

// Client calls the suggestion service over HTTP.
type Client struct {
	baseURL string
	apiKey  string
	maxTags int
	http    *httpclient.Client
	logger  logger.Logger
}

func NewClient(cfg config.SuggestAPIConfig, maxTags int, log logger.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		maxTags: maxTags,
		http:    httpclient.NewClient(time.Duration(cfg.Timeout)*time.Millisecond, cfg.MaxRetries),
		logger:  log.With(map[string]interface{}{"component": "genai-suggest"}),
	}
}

// SuggestPriorities returns the tags the service proposed, in the order it
// ranked them. Unknown codes are passed through; callers filter them.
func (c *Client) SuggestPriorities(ctx context.Context, corpus string) ([]models.PriorityTag, error) {
	if strings.TrimSpace(corpus) == "" {
		return []models.PriorityTag{}, nil
	}

	headers := map[string]string{}
	if c.apiKey != "" {
		headers["Authorization"] = "Bearer " + c.apiKey
	}

	var resp suggestResponse
	err := c.http.PostJSON(ctx, c.baseURL+suggestPath, headers, suggestRequest{
		Text:        corpus,
		AllowedTags: models.AllPriorityTags,
		MaxTags:     c.maxTags,
	}, &resp)
	if err != nil {
		if errors.Is(err, httpclient.ErrTimeout) {
			return nil, fmt.Errorf("%w: %v", ErrSuggestionTimeout, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrSuggestionFailed, err)
	}

	tags := make([]models.PriorityTag, 0, len(resp.Tags))
	for _, t := range resp.Tags {
		tags = append(tags, models.PriorityTag(strings.ToLower(strings.TrimSpace(t))))
	}

	c.logger.Debug("priority suggestion received", map[string]interface{}{
		"tags":       tags,
		"confidence": resp.Confidence,
	})
	return tags, nil
}
