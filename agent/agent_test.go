package agent

import (
	"context"
	"strings"
	"testing"

	"github.com/smallnest/langgraphgo/graph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/tools"

	"github.com/smallnest/newsagent/config"
)

// MockModel is a simple mock for llms.Model.
type MockModel struct {
	responses []string
	callCount int

	// lastMessages records the conversation sent on the latest call.
	lastMessages []llms.MessageContent
}

func (m *MockModel) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	m.lastMessages = messages

	resp := "default response"
	if m.callCount < len(m.responses) {
		resp = m.responses[m.callCount]
	}
	m.callCount++

	return &llms.ContentResponse{
		Choices: []*llms.ContentChoice{
			{Content: resp},
		},
	}, nil
}

func (m *MockModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return "", nil
}

// toolCallModel issues one tool call, then answers with text.
type toolCallModel struct {
	toolName  string
	toolInput string
	answer    string
	callCount int
}

func (m *toolCallModel) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	m.callCount++
	if m.callCount == 1 {
		return &llms.ContentResponse{
			Choices: []*llms.ContentChoice{
				{
					ToolCalls: []llms.ToolCall{
						{
							ID:   "call-1",
							Type: "function",
							FunctionCall: &llms.FunctionCall{
								Name:      m.toolName,
								Arguments: `{"input": "` + m.toolInput + `"}`,
							},
						},
					},
				},
			},
		}, nil
	}
	return &llms.ContentResponse{
		Choices: []*llms.ContentChoice{
			{Content: m.answer},
		},
	}, nil
}

func (m *toolCallModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return "", nil
}

// echoTool records its input and returns a fixed result.
type echoTool struct {
	name      string
	lastInput string
}

func (t *echoTool) Name() string        { return t.name }
func (t *echoTool) Description() string { return "echoes the input" }
func (t *echoTool) Call(ctx context.Context, input string) (string, error) {
	t.lastInput = input
	return "result for " + input, nil
}

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Memory.Enabled = true
	cfg.Memory.Store = "memory"
	cfg.Memory.DefaultThreadID = "default"
	return &cfg
}

func TestRunWithoutMemory(t *testing.T) {
	model := &MockModel{responses: []string{"Here is the news."}}

	builder, err := NewGraphBuilder(testConfig(), model, nil)
	require.NoError(t, err)

	result, err := builder.Run(context.Background(), "latest AI news")
	require.NoError(t, err)
	assert.Contains(t, result.Response, "Here is the news.")
	assert.Contains(t, result.Response, "**Response Time:**")
	assert.False(t, result.MemoryEnabled)
	assert.Equal(t, 2, result.ConversationLength)
}

func TestRunWithMemoryPersistsThread(t *testing.T) {
	model := &MockModel{responses: []string{"First answer.", "Second answer."}}
	store := graph.NewMemoryCheckpointStore()

	builder, err := NewGraphBuilder(testConfig(), model, nil, WithStore(store))
	require.NoError(t, err)

	ctx := context.Background()

	first, err := builder.RunWithMemory(ctx, "what happened today?", "thread-1")
	require.NoError(t, err)
	assert.Equal(t, "thread-1", first.ThreadID)
	assert.True(t, first.MemoryEnabled)
	assert.Equal(t, 2, first.ConversationLength)

	second, err := builder.RunWithMemory(ctx, "and in tech?", "thread-1")
	require.NoError(t, err)
	assert.Equal(t, 4, second.ConversationLength)

	// The model must have seen the earlier turns plus the system prompt.
	require.GreaterOrEqual(t, len(model.lastMessages), 4)
	assert.Equal(t, llms.ChatMessageTypeSystem, model.lastMessages[0].Role)
}

func TestRunWithMemoryIsolatesThreads(t *testing.T) {
	model := &MockModel{responses: []string{"a", "b"}}

	builder, err := NewGraphBuilder(testConfig(), model, nil)
	require.NoError(t, err)

	ctx := context.Background()

	first, err := builder.RunWithMemory(ctx, "hello", "alpha")
	require.NoError(t, err)
	assert.Equal(t, 2, first.ConversationLength)

	other, err := builder.RunWithMemory(ctx, "hello", "beta")
	require.NoError(t, err)
	assert.Equal(t, 2, other.ConversationLength)
}

func TestRunWithMemoryDefaultThread(t *testing.T) {
	model := &MockModel{}

	builder, err := NewGraphBuilder(testConfig(), model, nil)
	require.NoError(t, err)

	result, err := builder.RunWithMemory(context.Background(), "hello", "")
	require.NoError(t, err)
	assert.Equal(t, "default", result.ThreadID)
}

func TestHistoryAndClear(t *testing.T) {
	model := &MockModel{responses: []string{"The answer."}}

	builder, err := NewGraphBuilder(testConfig(), model, nil)
	require.NoError(t, err)

	ctx := context.Background()

	_, err = builder.RunWithMemory(ctx, "what's new?", "hist")
	require.NoError(t, err)

	history, err := builder.History(ctx, "hist")
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "human", history[0].Role)
	assert.Equal(t, "what's new?", history[0].Content)
	assert.Equal(t, "ai", history[1].Role)

	require.NoError(t, builder.ClearHistory(ctx, "hist"))

	history, err = builder.History(ctx, "hist")
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestToolCallLoop(t *testing.T) {
	tool := &echoTool{name: "search_general_news"}
	model := &toolCallModel{
		toolName:  "search_general_news",
		toolInput: "AI",
		answer:    "Based on the search, AI is in the news.",
	}

	builder, err := NewGraphBuilder(testConfig(), model, []tools.Tool{tool})
	require.NoError(t, err)

	result, err := builder.Run(context.Background(), "search for AI news")
	require.NoError(t, err)

	assert.Equal(t, "AI", tool.lastInput)
	assert.Contains(t, result.Response, "Based on the search")
	// human + tool-call + tool result + final answer
	assert.Equal(t, 4, result.ConversationLength)
}

func TestNewStoreUnknown(t *testing.T) {
	cfg := config.Default().Memory
	cfg.Store = "cassandra"
	_, err := NewStore(cfg)
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "cassandra"))
}
