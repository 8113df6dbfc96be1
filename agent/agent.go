// Package agent wires the news and speech tools into a tool-calling
// conversation graph with per-thread checkpointed memory.
package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/kataras/golog"
	"github.com/smallnest/langgraphgo/graph"
	"github.com/smallnest/langgraphgo/prebuilt"
	"github.com/smallnest/langgraphgo/store/redis"
	"github.com/smallnest/langgraphgo/store/sqlite"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/tools"

	"github.com/smallnest/newsagent/config"
)

// Result is the outcome of one agent run.
type Result struct {
	Response           string    `json:"response"`
	ThreadID           string    `json:"thread_id"`
	Timestamp          time.Time `json:"timestamp"`
	MemoryEnabled      bool      `json:"memory_enabled"`
	ConversationLength int       `json:"conversation_length"`
}

// Message is one turn of stored conversation history.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// GraphBuilder assembles and runs the agent graph.
type GraphBuilder struct {
	model           llms.Model
	tools           []tools.Tool
	store           graph.CheckpointStore
	runnable        *graph.CheckpointableRunnable[State]
	tracer          *graph.Tracer
	memoryEnabled   bool
	defaultThreadID string
}

// Option tweaks GraphBuilder construction.
type Option func(*GraphBuilder)

// WithStore overrides the checkpoint store.
func WithStore(s graph.CheckpointStore) Option {
	return func(b *GraphBuilder) { b.store = s }
}

// WithMemoryEnabled toggles conversation memory.
func WithMemoryEnabled(enabled bool) Option {
	return func(b *GraphBuilder) { b.memoryEnabled = enabled }
}

// WithTracer attaches an execution tracer for debugging.
func WithTracer(t *graph.Tracer) Option {
	return func(b *GraphBuilder) { b.tracer = t }
}

// NewGraphBuilder builds the agent graph around the given model and tools.
func NewGraphBuilder(cfg *config.Config, model llms.Model, agentTools []tools.Tool, opts ...Option) (*GraphBuilder, error) {
	b := &GraphBuilder{
		model:           model,
		tools:           agentTools,
		memoryEnabled:   cfg.Memory.Enabled,
		defaultThreadID: cfg.Memory.DefaultThreadID,
	}
	for _, opt := range opts {
		opt(b)
	}

	if b.store == nil && b.memoryEnabled {
		s, err := NewStore(cfg.Memory)
		if err != nil {
			return nil, err
		}
		b.store = s
	}
	if b.store == nil {
		b.store = graph.NewMemoryCheckpointStore()
	}

	if err := b.buildGraph(); err != nil {
		return nil, err
	}
	return b, nil
}

// NewStore opens the checkpoint store named by the memory configuration.
func NewStore(cfg config.MemoryConfig) (graph.CheckpointStore, error) {
	switch cfg.Store {
	case "", "memory":
		return graph.NewMemoryCheckpointStore(), nil
	case "sqlite":
		return sqlite.NewSqliteCheckpointStore(sqlite.SqliteOptions{
			Path: cfg.SqlitePath,
		})
	case "redis":
		return redis.NewRedisCheckpointStore(redis.RedisOptions{
			Addr:   cfg.RedisAddr,
			Prefix: "newsagent:",
		}), nil
	default:
		return nil, fmt.Errorf("unknown memory store %q (supported: memory, sqlite, redis)", cfg.Store)
	}
}

func (b *GraphBuilder) buildGraph() error {
	g := graph.NewCheckpointableStateGraph[State]()
	g.SetCheckpointConfig(graph.CheckpointConfig{
		Store:          b.store,
		AutoSave:       b.memoryEnabled,
		MaxCheckpoints: 20,
	})
	g.SetSchema(graph.NewStructSchema(State{}, mergeState))

	g.AddNode("agent", "Model decision node", b.agentNode)
	g.AddNode("tools", "Tool execution node", b.toolsNode)

	g.SetEntryPoint("agent")
	g.AddConditionalEdge("agent", func(ctx context.Context, state State) string {
		if len(state.Messages) == 0 {
			return graph.END
		}
		if hasToolCalls(state.Messages[len(state.Messages)-1]) {
			return "tools"
		}
		return graph.END
	})
	g.AddEdge("tools", "agent")

	runnable, err := g.CompileCheckpointable()
	if err != nil {
		return fmt.Errorf("failed to compile agent graph: %w", err)
	}
	if b.tracer != nil {
		runnable.SetTracer(b.tracer)
	}
	b.runnable = runnable
	return nil
}

// agentNode sends the conversation to the model with the tool definitions
// bound and appends the model's reply.
func (b *GraphBuilder) agentNode(ctx context.Context, state State) (State, error) {
	if len(state.Messages) == 0 {
		return state, fmt.Errorf("no messages in state")
	}

	var toolDefs []llms.Tool
	for _, t := range b.tools {
		toolDefs = append(toolDefs, llms.Tool{
			Type: "function",
			Function: &llms.FunctionDefinition{
				Name:        t.Name(),
				Description: t.Description(),
				Parameters: map[string]any{
					"type": "object",
					"properties": map[string]any{
						"input": map[string]any{
							"type":        "string",
							"description": "The input query for the tool",
						},
					},
					"required":             []string{"input"},
					"additionalProperties": false,
				},
			},
		})
	}

	msgs := append([]llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, systemPrompt),
	}, state.Messages...)

	resp, err := b.model.GenerateContent(ctx, msgs, llms.WithTools(toolDefs))
	if err != nil {
		return state, fmt.Errorf("model call failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return state, fmt.Errorf("model returned no choices")
	}
	choice := resp.Choices[0]

	aiMsg := llms.MessageContent{Role: llms.ChatMessageTypeAI}
	if choice.Content != "" {
		aiMsg.Parts = append(aiMsg.Parts, llms.TextPart(choice.Content))
	}
	for _, tc := range choice.ToolCalls {
		aiMsg.Parts = append(aiMsg.Parts, tc)
	}

	return State{Messages: []llms.MessageContent{aiMsg}}, nil
}

// toolsNode runs every tool call from the last assistant message and appends
// one tool message per call.
func (b *GraphBuilder) toolsNode(ctx context.Context, state State) (State, error) {
	if len(state.Messages) == 0 {
		return state, fmt.Errorf("no messages in state")
	}
	lastMsg := state.Messages[len(state.Messages)-1]
	if lastMsg.Role != llms.ChatMessageTypeAI {
		return state, fmt.Errorf("last message is not an assistant message")
	}

	executor := prebuilt.NewToolExecutor(b.tools)

	var toolMessages []llms.MessageContent
	for _, part := range lastMsg.Parts {
		tc, ok := part.(llms.ToolCall)
		if !ok {
			continue
		}

		var args map[string]any
		_ = json.Unmarshal([]byte(tc.FunctionCall.Arguments), &args)
		input := tc.FunctionCall.Arguments
		if val, ok := args["input"].(string); ok {
			input = val
		}

		golog.Debugf("executing tool %s", tc.FunctionCall.Name)
		res, err := executor.Execute(ctx, prebuilt.ToolInvocation{
			Tool:      tc.FunctionCall.Name,
			ToolInput: input,
		})
		if err != nil {
			res = fmt.Sprintf("Error: %v", err)
		}

		toolMessages = append(toolMessages, llms.MessageContent{
			Role: llms.ChatMessageTypeTool,
			Parts: []llms.ContentPart{
				llms.ToolCallResponse{
					ToolCallID: tc.ID,
					Name:       tc.FunctionCall.Name,
					Content:    res,
				},
			},
		})
	}

	return State{Messages: toolMessages}, nil
}

// Run executes one query without touching conversation memory.
func (b *GraphBuilder) Run(ctx context.Context, query string) (*Result, error) {
	return b.invoke(ctx, query, "", false)
}

// RunWithMemory executes one query on the given conversation thread. Prior
// turns for the thread are restored from the checkpoint store and the result
// is saved back under it.
func (b *GraphBuilder) RunWithMemory(ctx context.Context, query, threadID string) (*Result, error) {
	if !b.memoryEnabled {
		return b.Run(ctx, query)
	}
	if threadID == "" {
		threadID = b.defaultThreadID
	}
	return b.invoke(ctx, query, threadID, true)
}

func (b *GraphBuilder) invoke(ctx context.Context, query, threadID string, withMemory bool) (*Result, error) {
	input := State{Messages: []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeHuman, query),
	}}

	var cfg *graph.Config
	if withMemory {
		// Checkpoints are grouped per thread so history survives restarts
		// and can be wiped per thread.
		b.runnable.SetExecutionID(threadID)
		cfg = &graph.Config{Configurable: map[string]any{"thread_id": threadID}}
	}

	final, err := b.runnable.InvokeWithConfig(ctx, input, cfg)
	if err != nil {
		return nil, fmt.Errorf("agent run failed: %w", err)
	}

	response := lastAIText(final.Messages)
	if response == "" {
		return nil, fmt.Errorf("no response generated")
	}

	return &Result{
		Response:           FormatResponse(response),
		ThreadID:           threadID,
		Timestamp:          time.Now(),
		MemoryEnabled:      withMemory,
		ConversationLength: len(final.Messages),
	}, nil
}

// FormatResponse prefixes the answer with a response-time header.
func FormatResponse(content string) string {
	ts := time.Now().Format("2006-01-02 15:04:05")
	return fmt.Sprintf("🕒 **Response Time:** %s\n\n%s", ts, content)
}

// History returns the stored conversation for a thread, oldest first.
func (b *GraphBuilder) History(ctx context.Context, threadID string) ([]Message, error) {
	if !b.memoryEnabled {
		return nil, nil
	}
	if threadID == "" {
		threadID = b.defaultThreadID
	}

	snapshot, err := b.runnable.GetState(ctx, &graph.Config{
		Configurable: map[string]any{"thread_id": threadID},
	})
	if err != nil {
		// No checkpoints yet means an empty conversation, not a failure.
		return nil, nil
	}

	state, ok := snapshot.Values.(State)
	if !ok {
		return nil, fmt.Errorf("unexpected state type %T in checkpoint", snapshot.Values)
	}

	var history []Message
	for _, msg := range state.Messages {
		text := ""
		for _, part := range msg.Parts {
			if tp, ok := part.(llms.TextContent); ok {
				text = tp.Text
				break
			}
		}
		if text == "" {
			continue
		}
		history = append(history, Message{Role: string(msg.Role), Content: text})
	}
	return history, nil
}

// ClearHistory wipes every checkpoint stored for a thread.
func (b *GraphBuilder) ClearHistory(ctx context.Context, threadID string) error {
	if !b.memoryEnabled {
		return nil
	}
	if threadID == "" {
		threadID = b.defaultThreadID
	}
	if err := b.store.Clear(ctx, threadID); err != nil {
		return fmt.Errorf("failed to clear history for thread %s: %w", threadID, err)
	}
	return nil
}

// MemoryEnabled reports whether conversation memory is active.
func (b *GraphBuilder) MemoryEnabled() bool { return b.memoryEnabled }

// DefaultThreadID returns the configured fallback thread id.
func (b *GraphBuilder) DefaultThreadID() string { return b.defaultThreadID }
