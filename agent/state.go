package agent

import (
	"github.com/smallnest/langgraphgo/store"
	"github.com/tmc/langchaingo/llms"
)

func init() {
	// Lets the sqlite and redis stores rebuild State from serialized
	// checkpoints.
	_ = store.RegisterTypeWithValue(State{}, "newsagent.State")
}

// State is the conversation state flowing through the graph.
type State struct {
	Messages []llms.MessageContent
}

// mergeState appends incoming messages onto the existing conversation.
// Checkpoint resume relies on this reducer to merge stored history with
// the new user input.
func mergeState(current, incoming State) (State, error) {
	current.Messages = append(current.Messages, incoming.Messages...)
	return current, nil
}

// lastAIText returns the text of the last assistant message, if any.
func lastAIText(messages []llms.MessageContent) string {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role != llms.ChatMessageTypeAI {
			continue
		}
		for _, part := range messages[i].Parts {
			if text, ok := part.(llms.TextContent); ok {
				return text.Text
			}
		}
	}
	return ""
}

// hasToolCalls reports whether the message carries pending tool calls.
func hasToolCalls(msg llms.MessageContent) bool {
	for _, part := range msg.Parts {
		if _, ok := part.(llms.ToolCall); ok {
			return true
		}
	}
	return false
}
