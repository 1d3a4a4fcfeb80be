package main

import (
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/pribylovaa/jobfeed/internal/config"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

// globals — то, что PersistentPreRunE готовит для подкоманд.
type globals struct {
	configPath string
	cfg        *config.Config
}

func newRootCmd() *cobra.Command {
	g := &globals{}

	root := &cobra.Command{
		Use:   "jobfeed",
		Short: "Session-aware job feed client",
		Long: `jobfeed is a local client for the job offers service.

It keeps the access/refresh token pair in a durable store, renews the access
token in the background and serves the job feed to the browser on localhost.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(g.configPath)
			if err != nil {
				return err
			}
			g.cfg = cfg
			return nil
		},
	}

	root.PersistentFlags().StringVar(&g.configPath, "config", "", "path to config file")

	root.AddCommand(
		newServeCmd(g),
		newLoginCmd(g),
		newRegisterCmd(g),
		newLogoutCmd(g),
		newStatusCmd(g),
		newJobsCmd(g),
	)

	return root
}

func setupLogger(env string, w io.Writer) *slog.Logger {
	switch env {
	case envLocal:
		return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
	case envDev:
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
	case envProd:
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo}))
	default:
		return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
}

// cliLogger — логгер одноразовых команд: в stderr и только предупреждения,
// чтобы не мешать выводу в stdout.
func cliLogger(cmd *cobra.Command) *slog.Logger {
	w := cmd.ErrOrStderr()
	if w == nil {
		w = os.Stderr
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelWarn}))
}
