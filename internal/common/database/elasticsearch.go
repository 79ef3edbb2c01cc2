// internal/common/database/elasticsearch.go
package database

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"

	"idea-workers/internal/common/config"
)

// evaluationIndexMapping keeps tags and tiers as keywords so the ranking
// queries can filter and aggregate on them.
const evaluationIndexMapping = `{
  "mappings": {
    "properties": {
      "submissionId":       {"type": "keyword"},
      "evaluationId":       {"type": "keyword"},
      "title":              {"type": "text"},
      "category":           {"type": "keyword"},
      "location":           {"type": "keyword"},
      "priorityTags":       {"type": "keyword"},
      "prioritySource":     {"type": "keyword"},
      "qualificationTier":  {"type": "keyword"},
      "gatingState":        {"type": "keyword"},
      "budgetTier":         {"type": "keyword"},
      "locationType":       {"type": "keyword"},
      "complexity":         {"type": "keyword"},
      "stage1Total":        {"type": "integer"},
      "stage2Total":        {"type": "integer"},
      "combinedTotal":      {"type": "integer"},
      "breakEvenMonths":    {"type": "integer"},
      "overallFeedback":    {"type": "float"},
      "rulesVersion":       {"type": "keyword"},
      "fullText":           {"type": "text"},
      "indexedAt":          {"type": "date"}
    }
  }
}`

// ElasticsearchClient wraps the Elasticsearch client
type ElasticsearchClient struct {
	Client *elasticsearch.Client
}

func NewElasticsearch(cfg config.ElasticsearchConfig) (*ElasticsearchClient, error) {
	esCfg := elasticsearch.Config{
		Addresses: cfg.Addresses,
	}
	if cfg.Username != "" {
		esCfg.Username = cfg.Username
		esCfg.Password = cfg.Password
	}

	es, err := elasticsearch.NewClient(esCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create elasticsearch client: %w", err)
	}
	return &ElasticsearchClient{Client: es}, nil
}

func (c *ElasticsearchClient) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := c.Client.Ping(c.Client.Ping.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("elasticsearch ping failed: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("elasticsearch ping error: %s", res.Status())
	}
	return nil
}

// EnsureIndex creates the evaluation index with its mapping when it does not
// exist yet.
func (c *ElasticsearchClient) EnsureIndex(ctx context.Context, name string) error {
	res, err := c.Client.Indices.Exists([]string{name}, c.Client.Indices.Exists.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("check index %s: %w", name, err)
	}
	res.Body.Close()

	switch res.StatusCode {
	case http.StatusOK:
		return nil
	case http.StatusNotFound:
	default:
		return fmt.Errorf("check index %s: %s", name, res.Status())
	}

	res, err = c.Client.Indices.Create(name,
		c.Client.Indices.Create.WithContext(ctx),
		c.Client.Indices.Create.WithBody(strings.NewReader(evaluationIndexMapping)),
	)
	if err != nil {
		return fmt.Errorf("create index %s: %w", name, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("create index %s: %s", name, res.Status())
	}
	return nil
}
