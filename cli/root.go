// Package cli implements the newsagent command line interface.
package cli

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/kataras/golog"
	"github.com/spf13/cobra"
	"github.com/tmc/langchaingo/tools"

	"github.com/smallnest/newsagent/agent"
	"github.com/smallnest/newsagent/config"
	"github.com/smallnest/newsagent/news"
	"github.com/smallnest/newsagent/provider"
	"github.com/smallnest/newsagent/speech"
	"github.com/smallnest/newsagent/tracing"
	"github.com/smallnest/newsagent/tts"
)

var (
	flagQuery       string
	flagProvider    string
	flagThread      string
	flagNoMemory    bool
	flagInteractive bool
	flagConfigPath  string
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212"))

	responseStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			PaddingLeft(1)

	metaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243")).
			Italic(true)

	errorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196"))

	promptStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62"))
)

var rootCmd = &cobra.Command{
	Use:   "newsagent",
	Short: "Conversational news aggregation agent",
	Long: `An AI-powered news aggregation agent that searches general, technology
and business sources, answers in Markdown, and keeps per-thread
conversation memory. Supports spoken queries via microphone or audio
files and can speak answers back.

Quick start:
  newsagent -q "latest AI news"          # one-shot query
  newsagent --interactive                # chat session
  newsagent serve --port 8000            # HTTP API`,
	RunE: runRoot,
}

// Execute runs the CLI.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render(fmt.Sprintf("Error: %v", err)))
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().StringVarP(&flagQuery, "query", "q", "", "Query text")
	rootCmd.Flags().BoolVar(&flagInteractive, "interactive", false, "Interactive chat mode")
	rootCmd.PersistentFlags().StringVarP(&flagProvider, "provider", "p", "", "LLM provider (groq or openai)")
	rootCmd.PersistentFlags().StringVarP(&flagThread, "thread", "t", "", "Thread id for memory continuity")
	rootCmd.PersistentFlags().BoolVar(&flagNoMemory, "no-memory", false, "Disable conversation memory")
	rootCmd.PersistentFlags().StringVar(&flagConfigPath, "config", "", "Path to config file")
	rootCmd.AddCommand(serveCmd)
}

// session bundles everything one CLI run needs.
type session struct {
	cfg         *config.Config
	builder     *agent.GraphBuilder
	transcriber *speech.Transcriber
	recorder    *speech.Recorder
	synth       *tts.Synthesizer
	threadID    string
}

func loadConfig() (config.Config, error) {
	if flagConfigPath != "" {
		return config.LoadFile(flagConfigPath)
	}
	return config.Load()
}

func newSession() (*session, error) {
	loaded, err := loadConfig()
	if err != nil {
		return nil, err
	}
	cfg := &loaded
	if flagProvider != "" {
		cfg.DefaultModelProvider = flagProvider
	}
	if flagNoMemory {
		cfg.Memory.Enabled = false
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	model, err := provider.Load(cfg.DefaultModelProvider)
	if err != nil {
		return nil, err
	}

	transcriber := speech.NewTranscriber(cfg.Speech)
	recorder := speech.NewRecorder(cfg.Speech)

	agentTools := assembleTools(cfg, transcriber, recorder)

	synth, err := tts.NewSynthesizer(cfg.Speech)
	if err != nil {
		golog.Warnf("text-to-speech unavailable: %v", err)
	} else {
		agentTools = append(agentTools, tts.Tools(synth)...)
	}

	builder, err := agent.NewGraphBuilder(cfg, model, agentTools,
		agent.WithTracer(tracing.Tracer()),
	)
	if err != nil {
		return nil, err
	}

	threadID := flagThread
	if threadID == "" {
		threadID = cfg.Memory.DefaultThreadID
	}

	return &session{
		cfg:         cfg,
		builder:     builder,
		transcriber: transcriber,
		recorder:    recorder,
		synth:       synth,
		threadID:    threadID,
	}, nil
}

// assembleTools builds the news and speech tool set.
func assembleTools(cfg *config.Config, transcriber *speech.Transcriber, recorder *speech.Recorder) []tools.Tool {
	agg := news.NewAggregator(cfg.News)
	agentTools := news.Tools(agg)
	agentTools = append(agentTools, speech.Tools(transcriber, recorder)...)
	return agentTools
}

func runRoot(cmd *cobra.Command, args []string) error {
	if flagInteractive {
		s, err := newSession()
		if err != nil {
			return err
		}
		return s.repl()
	}

	if flagQuery == "" {
		return fmt.Errorf("provide a query with -q/--query or use --interactive")
	}

	s, err := newSession()
	if err != nil {
		return err
	}
	s.runQuery(cmd.Context(), flagQuery)
	return nil
}
