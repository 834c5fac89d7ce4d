package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Bitlatte/pinpage/internal/config"
	"github.com/Bitlatte/pinpage/internal/logging"
)

var (
	cfgFile   string
	logLevel  string
	appConfig config.Config
)

var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pinpage",
		Short: "pinpage - a static blog with pinned posts",
		Long: `pinpage takes your Markdown posts, renders them and outputs a static
HTML blog whose home page lists pinned posts first, then the rest by date.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initializeConfig(cmd)
		},
	}
	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")

	cmd.AddCommand(newBuildCmd(), newServeCmd(), newListCmd())
	return cmd
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func initializeConfig(cmd *cobra.Command) error {
	cfg, found, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	logging.Init(cmd.ErrOrStderr(), cfg.LogLevel)

	if found != "" {
		logging.L().Info().Str("file", found).Msg("using config file")
	} else {
		logging.L().Info().Msg("no config file found, using defaults and environment")
	}
	appConfig = cfg
	return nil
}
