package evaluation

import (
	"testing"

	"github.com/stretchr/testify/require"

	"idea-workers/internal/models/modeltest"
)

func mustRules(t *testing.T) *RuleSet {
	t.Helper()
	rules, err := DefaultRules()
	require.NoError(t, err)
	return rules
}

var (
	strPtr                = modeltest.StrPtr
	floatPtr              = modeltest.FloatPtr
	goodSubmission        = modeltest.GoodSubmission
	placeholderSubmission = modeltest.PlaceholderSubmission
)
