package database

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"idea-workers/internal/common/config"
)

func TestEnsureSchema(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS submissions").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS idea_evaluations").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE INDEX IF NOT EXISTS idx_idea_evaluations_submission").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS audit_log").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	require.NoError(t, EnsureSchema(context.Background(), db))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnsureSchema_RollsBackOnFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS submissions").WillReturnError(errors.New("permission denied"))
	mock.ExpectRollback()

	err = EnsureSchema(context.Background(), db)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "permission denied")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedis_Ping(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := NewRedis(config.RedisConfig{Address: mr.Addr()})
	require.NoError(t, err)
	defer client.Close()

	assert.NoError(t, client.Ping(context.Background()))
	assert.Equal(t, defaultRedisPoolSize, client.Client.Options().PoolSize)

	sized, err := NewRedis(config.RedisConfig{Address: mr.Addr(), PoolSize: 4})
	require.NoError(t, err)
	defer sized.Close()
	assert.Equal(t, 4, sized.Client.Options().PoolSize)
	assert.Equal(t, 2, sized.Client.Options().MinIdleConns)
}

func TestNewRedis_EmptyAddress(t *testing.T) {
	_, err := NewRedis(config.RedisConfig{})
	assert.Error(t, err)
}

func TestCacheKeys(t *testing.T) {
	assert.Equal(t, "submission:idea-7", SubmissionCacheKey("idea-7"))
	assert.Equal(t, "suggest:priorities:abc", SuggestionCacheKey("abc"))
}

// fakeCluster answers the index endpoints the way Elasticsearch does.
type fakeCluster struct {
	mu      sync.Mutex
	indices map[string]bool
	created []string
}

func (f *fakeCluster) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	w.Header().Set("X-Elastic-Product", "Elasticsearch")
	w.Header().Set("Content-Type", "application/json")
	name := r.URL.Path[1:]

	switch r.Method {
	case http.MethodHead:
		if f.indices[name] {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	case http.MethodPut:
		f.indices[name] = true
		f.created = append(f.created, name)
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"acknowledged":true,"index":"` + name + `"}`))
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func TestElasticsearch_EnsureIndex(t *testing.T) {
	cluster := &fakeCluster{indices: map[string]bool{"existing": true}}
	srv := httptest.NewServer(cluster)
	defer srv.Close()

	client, err := NewElasticsearch(config.ElasticsearchConfig{Addresses: []string{srv.URL}})
	require.NoError(t, err)

	require.NoError(t, client.EnsureIndex(context.Background(), "existing"))
	require.NoError(t, client.EnsureIndex(context.Background(), "idea-evaluations"))
	require.NoError(t, client.EnsureIndex(context.Background(), "idea-evaluations"))

	assert.Equal(t, []string{"idea-evaluations"}, cluster.created)
}
