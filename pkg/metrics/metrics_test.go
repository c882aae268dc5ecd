package metrics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoApplication(t *testing.T) {
	ctx := context.Background()

	_, ok := fromContext(ctx)
	assert.False(t, ok)

	_, ok = fromContext(NewContext(ctx, nil))
	assert.False(t, ok)

	RecordCount(ctx, "count", 1)
	RecordDuration(ctx, "duration", time.Second)
	RecordEvent(ctx, "event", map[string]interface{}{"key": "value"})

	tracer := TraceMethodCall(ctx, "metrics", "TestNoApplication")
	assert.Nil(t, tracer)
	tracer.AddAttribute("key", "value")
	tracer.AddAttributes(map[string]interface{}{"key": "value"})
	tracer.OnError(errors.New("error"))
	tracer.End()
}

func TestDisabledApplication(t *testing.T) {
	app, err := newrelic.NewApplication(
		newrelic.ConfigAppName("token-faucet-test"),
		newrelic.ConfigEnabled(false),
	)
	require.NoError(t, err)
	defer app.Shutdown(time.Second)

	ctx := NewContext(context.Background(), app)

	actual, ok := fromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, app, actual)

	RecordCount(ctx, "count", 1)
	RecordDuration(ctx, "duration", time.Second)
	RecordEvent(ctx, "event", map[string]interface{}{"key": "value"})

	tracer := TraceMethodCall(ctx, "metrics", "TestDisabledApplication")
	require.NotNil(t, tracer)
	assert.Nil(t, tracer.seg)
	tracer.AddAttribute("key", "value")
	tracer.OnError(errors.New("error"))
	tracer.End()
}
