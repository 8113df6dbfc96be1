package tracing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDebugToggle(t *testing.T) {
	SetDebug(true)
	assert.True(t, DebugEnabled())
	SetDebug(false)
	assert.False(t, DebugEnabled())
}

func TestTraceToggle(t *testing.T) {
	SetTrace(true)
	assert.True(t, TraceEnabled())
	SetTrace(false)
	assert.False(t, TraceEnabled())
}

func TestStatus(t *testing.T) {
	SetDebug(false)
	SetTrace(false)
	assert.Equal(t, "debug: off, trace: off", Status())

	SetDebug(true)
	SetTrace(true)
	assert.Equal(t, "debug: on, trace: on", Status())

	SetDebug(false)
	SetTrace(false)
}

func TestTracerConstruction(t *testing.T) {
	require.NotNil(t, Tracer())
}
