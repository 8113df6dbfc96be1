// Package tracing controls debug logging and graph execution tracing.
package tracing

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/kataras/golog"
	"github.com/smallnest/langgraphgo/graph"
)

var (
	debugEnabled atomic.Bool
	traceEnabled atomic.Bool
)

// SetDebug switches verbose logging on or off.
func SetDebug(enabled bool) {
	debugEnabled.Store(enabled)
	if enabled {
		golog.SetLevel("debug")
	} else {
		golog.SetLevel("info")
	}
}

// DebugEnabled reports whether debug logging is active.
func DebugEnabled() bool { return debugEnabled.Load() }

// SetTrace switches graph execution tracing on or off. The Tracer hook
// only logs while tracing is enabled, so the tracer can stay attached.
func SetTrace(enabled bool) {
	traceEnabled.Store(enabled)
}

// TraceEnabled reports whether execution tracing is active.
func TraceEnabled() bool { return traceEnabled.Load() }

// Tracer returns a graph tracer that logs node and edge events.
func Tracer() *graph.Tracer {
	t := graph.NewTracer()
	t.AddHook(graph.TraceHookFunc(logSpan))
	return t
}

func logSpan(ctx context.Context, span *graph.TraceSpan) {
	if !traceEnabled.Load() {
		return
	}
	switch span.Event {
	case graph.TraceEventNodeStart:
		golog.Infof("[trace] node %s started", span.NodeName)
	case graph.TraceEventNodeEnd:
		golog.Infof("[trace] node %s finished in %s", span.NodeName, span.Duration)
	case graph.TraceEventNodeError:
		golog.Errorf("[trace] node %s failed: %v", span.NodeName, span.Error)
	case graph.TraceEventEdgeTraversal:
		golog.Infof("[trace] edge %s -> %s", span.FromNode, span.ToNode)
	case graph.TraceEventGraphStart:
		golog.Infof("[trace] graph execution started")
	case graph.TraceEventGraphEnd:
		golog.Infof("[trace] graph execution finished in %s", span.Duration)
	}
}

// Status describes the current debug and trace switches.
func Status() string {
	onOff := func(b bool) string {
		if b {
			return "on"
		}
		return "off"
	}
	return fmt.Sprintf("debug: %s, trace: %s", onOff(debugEnabled.Load()), onOff(traceEnabled.Load()))
}
