package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/smallnest/newsagent/speech"
	"github.com/smallnest/newsagent/tracing"
)

const welcomeBanner = `📰 NEWS AGGREGATOR AGENT

I can help you find news and information from multiple sources:
  • General news (AP, Reuters, BBC, CNN, ...)
  • Technology news (TechCrunch, Ars Technica, The Verge, ...)
  • Business news (Bloomberg, Reuters, CNBC, WSJ, ...)
  • Professional insights from LinkedIn
  • In-depth articles from Medium

Type a question to search for news, or 'help' for commands.`

const helpText = `Commands:
  listen [sec] [lang] [device] [wait]  record from the microphone and ask
  mics                                 list available microphones
  speak <text>                         speak text out loud
  voices                               list text-to-speech voices
  debug on|off                         toggle verbose logging
  trace on|off                         toggle graph execution tracing
  thread <id>                          switch conversation thread
  history                              show the current thread's conversation
  clear                                clear the current thread's conversation
  help                                 show this help
  quit                                 end the session

Anything else is sent to the agent as a news question. Examples:
  What are the latest AI developments?
  Show me news about Tesla stock
  listen 8 en-US 0 15`

// repl runs the interactive chat loop.
func (s *session) repl() error {
	fmt.Println(titleStyle.Render(welcomeBanner))
	fmt.Println(metaStyle.Render(fmt.Sprintf("Provider: %s  Memory: %v  Thread: %s",
		s.cfg.DefaultModelProvider, s.builder.MemoryEnabled(), s.threadID)))

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print(promptStyle.Render("🔍 You: "))
		if !scanner.Scan() {
			fmt.Println()
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if s.dispatch(line) {
			return nil
		}
	}
}

// dispatch handles one REPL line. It returns true when the session ends.
func (s *session) dispatch(line string) bool {
	ctx := context.Background()
	fields := strings.Fields(line)
	command := strings.ToLower(fields[0])
	rest := strings.TrimSpace(strings.TrimPrefix(line, fields[0]))

	switch command {
	case "quit", "exit", "q":
		fmt.Println("👋 Thank you for using News Aggregator Agent. Goodbye!")
		return true

	case "help":
		fmt.Println(helpText)

	case "debug":
		switch rest {
		case "on":
			tracing.SetDebug(true)
		case "off":
			tracing.SetDebug(false)
		default:
			fmt.Println(errorStyle.Render("usage: debug on|off"))
			return false
		}
		fmt.Println(metaStyle.Render(tracing.Status()))

	case "trace":
		switch rest {
		case "on":
			tracing.SetTrace(true)
		case "off":
			tracing.SetTrace(false)
		default:
			fmt.Println(errorStyle.Render("usage: trace on|off"))
			return false
		}
		fmt.Println(metaStyle.Render(tracing.Status()))

	case "thread":
		if rest == "" {
			fmt.Println(metaStyle.Render("current thread: " + s.threadID))
			return false
		}
		s.threadID = rest
		fmt.Println(metaStyle.Render("switched to thread: " + s.threadID))

	case "history":
		s.showHistory(ctx)

	case "clear":
		if err := s.builder.ClearHistory(ctx, s.threadID); err != nil {
			fmt.Println(errorStyle.Render(fmt.Sprintf("❌ %v", err)))
			return false
		}
		fmt.Println(metaStyle.Render("conversation cleared for thread: " + s.threadID))

	case "mics":
		s.listMicrophones(ctx)

	case "listen":
		s.listen(ctx, rest)

	case "speak":
		s.speak(ctx, rest)

	case "voices":
		s.listVoices()

	default:
		s.runQuery(ctx, line)
	}
	return false
}

func (s *session) runQuery(ctx context.Context, query string) {
	fmt.Println(metaStyle.Render("🔄 Searching for news..."))

	result, err := s.builder.RunWithMemory(ctx, query, s.threadID)
	if err != nil {
		fmt.Println(errorStyle.Render(fmt.Sprintf("❌ %v", err)))
		return
	}

	fmt.Println()
	fmt.Println(responseStyle.Render(result.Response))
	fmt.Println(metaStyle.Render(fmt.Sprintf("Thread: %s  Memory: %v  %s",
		result.ThreadID, result.MemoryEnabled, result.Timestamp.Format(time.RFC3339))))
	fmt.Println()
}

func (s *session) showHistory(ctx context.Context) {
	history, err := s.builder.History(ctx, s.threadID)
	if err != nil {
		fmt.Println(errorStyle.Render(fmt.Sprintf("❌ %v", err)))
		return
	}
	if len(history) == 0 {
		fmt.Println(metaStyle.Render("no conversation yet on thread: " + s.threadID))
		return
	}
	for _, msg := range history {
		fmt.Printf("%s %s\n", promptStyle.Render(msg.Role+":"), msg.Content)
	}
}

func (s *session) listMicrophones(ctx context.Context) {
	mics, err := s.recorder.ListMicrophones(ctx)
	if err != nil {
		fmt.Println(errorStyle.Render(fmt.Sprintf("❌ %v", err)))
		return
	}
	if len(mics) == 0 {
		fmt.Println(metaStyle.Render("no microphones found"))
		return
	}
	for _, m := range mics {
		fmt.Printf("  %d: %s\n", m.Index, m.Name)
	}
}

// listen records from the microphone, transcribes the audio, and feeds the
// text to the agent as a question.
func (s *session) listen(ctx context.Context, args string) {
	duration, lang, device, startTimeout := speech.ParseListenArgs(args, s.transcriber.DefaultLanguage())

	if err := s.transcriber.ValidateLanguage(lang); err != nil {
		fmt.Println(errorStyle.Render(fmt.Sprintf("❌ %v", err)))
		return
	}

	fmt.Println(metaStyle.Render(fmt.Sprintf("🎤 Listening for %ds (%s)...", duration, lang)))

	path, err := s.recorder.Record(ctx, duration, device, startTimeout)
	if err != nil {
		fmt.Println(errorStyle.Render(fmt.Sprintf("❌ %v", err)))
		return
	}
	defer os.Remove(path)

	result := s.transcriber.TranscribeFile(ctx, path, lang)
	if !result.Success {
		fmt.Println(errorStyle.Render("❌ " + result.Error))
		return
	}

	fmt.Println(metaStyle.Render(fmt.Sprintf("Heard (%s, %s confidence): %s",
		result.Engine, result.Confidence, result.Text)))
	s.runQuery(ctx, result.Text)
}

func (s *session) speak(ctx context.Context, text string) {
	if s.synth == nil {
		fmt.Println(errorStyle.Render("❌ text-to-speech unavailable (set OPENAI_API_KEY)"))
		return
	}
	if text == "" {
		fmt.Println(errorStyle.Render("usage: speak <text>"))
		return
	}
	if err := s.synth.Speak(ctx, text, "", 0); err != nil {
		fmt.Println(errorStyle.Render(fmt.Sprintf("❌ %v", err)))
	}
}

func (s *session) listVoices() {
	if s.synth == nil {
		fmt.Println(errorStyle.Render("❌ text-to-speech unavailable (set OPENAI_API_KEY)"))
		return
	}
	for i, v := range s.synth.Voices() {
		fmt.Printf("  %d. %s (id: %s)\n", i+1, v.Name, v.ID)
	}
}
