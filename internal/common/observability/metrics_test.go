package observability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"idea-workers/internal/common/logger"
)

func TestNew_WithoutJaeger(t *testing.T) {
	o := New(Config{ServiceName: "observability-test"}, logger.NewTestLogger(t))
	defer o.Shutdown()

	ctx, span := o.StartSpan(context.Background(), "evaluate")
	require.NotNil(t, ctx)
	assert.False(t, span.IsRecording())
	span.End()

	assert.NotPanics(t, func() {
		o.RecordJobProcessed(ctx, "evaluate-idea", "completed")
		o.RecordJobDuration(ctx, "evaluate-idea", 15*time.Millisecond, "completed")
		o.RecordEvaluation(ctx, "qualified")
	})
}

func TestZeroValue(t *testing.T) {
	var o Observability

	_, span := o.StartSpan(context.Background(), "noop")
	assert.False(t, span.IsRecording())
	assert.NotPanics(t, func() {
		o.RecordJobProcessed(context.Background(), "x", "failed")
		o.RecordEvaluation(context.Background(), "pending")
	})
}
