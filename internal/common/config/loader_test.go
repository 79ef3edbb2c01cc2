package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const baseYAML = `
app:
  name: idea-workers
camunda:
  broker_address: localhost:26500
database:
  postgres:
    host: ${TEST_PG_HOST}
    database: ideas
    user: ideas
  elasticsearch:
    addresses: ["http://localhost:9200"]
  redis:
    address: localhost:6379
workers:
  evaluate-idea:
    enabled: true
    timeout: 10000
  index-evaluation:
    enabled: false
engine:
  suggest_fallback: false
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadFromFile(t *testing.T) {
	t.Setenv("TEST_PG_HOST", "db.internal")

	cfg, err := LoadFromFile(writeConfig(t, baseYAML))
	require.NoError(t, err)

	assert.Equal(t, "db.internal", cfg.Database.Postgres.Host)
	assert.Equal(t, 5432, cfg.Database.Postgres.Port)
	assert.Equal(t, "disable", cfg.Database.Postgres.SSLMode)
	assert.Equal(t, 10, cfg.Camunda.MaxJobsActive)
	assert.Equal(t, "idea-evaluations", cfg.Search.IndexName)
	assert.Equal(t, 5000, cfg.Engine.SuggestTimeout)
	assert.Equal(t, "info", cfg.Logging.Level)

	evaluate := GetWorkerConfig(cfg, "evaluate-idea")
	assert.True(t, evaluate.Enabled)
	assert.Equal(t, 10000, evaluate.Timeout)
	assert.Equal(t, defaultWorkerMaxJobs, evaluate.MaxJobsActive)
	assert.Equal(t, defaultWorkerMaxRetries, evaluate.MaxRetries)

	assert.False(t, IsWorkerEnabled(cfg, "index-evaluation"))
	assert.True(t, IsWorkerEnabled(cfg, "score-clarity"))
}

func TestLoadFromFile_Validation(t *testing.T) {
	t.Setenv("TEST_PG_HOST", "db.internal")

	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{
			name:    "missing broker",
			body:    "database:\n  postgres:\n    host: x\n",
			wantErr: "camunda.broker_address is required",
		},
		{
			name:    "missing redis",
			body:    "camunda:\n  broker_address: b:26500\ndatabase:\n  postgres:\n    host: h\n    database: d\n    user: u\n  elasticsearch:\n    addresses: [\"http://es:9200\"]\n",
			wantErr: "database.redis.address is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFromFile(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateConfig_SuggestFallback(t *testing.T) {
	cfg := &Config{
		Camunda: CamundaConfig{BrokerAddress: "localhost:26500"},
		Database: DatabaseConfig{
			Postgres:      PostgresConfig{Host: "h", Database: "d", User: "u"},
			Elasticsearch: ElasticsearchConfig{Addresses: []string{"http://es:9200"}},
			Redis:         RedisConfig{Address: "r:6379"},
		},
		Engine: EngineConfig{SuggestFallback: true},
	}
	err := validateConfig(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "apis.suggest.base_url")

	cfg.APIs.Suggest.BaseURL = "http://genai:8000"
	assert.NoError(t, validateConfig(cfg))
}

func TestGetDuration(t *testing.T) {
	assert.Equal(t, 1500*time.Millisecond, GetDuration(1500))
}

func TestLoadFromFile_ExpandsListEntries(t *testing.T) {
	t.Setenv("TEST_PG_HOST", "db.internal")
	t.Setenv("TEST_ES_URL", "http://search:9200")

	body := strings.Replace(baseYAML, `["http://localhost:9200"]`, `["${TEST_ES_URL}", "http://replica:9200"]`, 1)
	cfg, err := LoadFromFile(writeConfig(t, body))
	require.NoError(t, err)
	assert.Equal(t, []string{"http://search:9200", "http://replica:9200"}, cfg.Database.Elasticsearch.Addresses)
}
