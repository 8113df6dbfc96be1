package cli

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/tmc/langchaingo/tools"

	"github.com/smallnest/newsagent/agent"
	"github.com/smallnest/newsagent/server"
	"github.com/smallnest/newsagent/speech"
)

var (
	flagHost string
	flagPort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagHost, "host", "", "Host to bind (default from config)")
	serveCmd.Flags().IntVar(&flagPort, "port", 0, "Port to bind (default from config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	loaded, err := loadConfig()
	if err != nil {
		return err
	}
	cfg := &loaded
	if flagProvider != "" {
		cfg.DefaultModelProvider = flagProvider
	}
	if flagNoMemory {
		cfg.Memory.Enabled = false
	}
	if flagHost != "" {
		cfg.Server.Host = flagHost
	}
	if flagPort != 0 {
		cfg.Server.Port = flagPort
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	store, err := agent.NewStore(cfg.Memory)
	if err != nil {
		return err
	}

	transcriber := speech.NewTranscriber(cfg.Speech)
	recorder := speech.NewRecorder(cfg.Speech)
	buildTools := func() ([]tools.Tool, error) {
		return assembleTools(cfg, transcriber, recorder), nil
	}

	srv := server.New(cfg, store, transcriber, buildTools)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return srv.ListenAndServe(ctx)
}
