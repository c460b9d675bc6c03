// Package main is the entry point for the newsroom CLI.
//
// Usage:
//
//	newsroom backend -c config.yaml                       # Show the selected storage mode
//	newsroom articles publish --as ana@school.edu ...      # Publish and notify subscribers
//	newsroom subscribers add "Juan Pérez" juan@school.edu  # Subscribe a reader
//	newsroom publishers add --name Ana --email ana@school.edu --admin head@school.edu
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"schoolnews/internal/app"
	"schoolnews/internal/config"
	logx "schoolnews/pkg/logx"
)

// Version information, set at build time via ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "newsroom",
	Short: "School news publishing and subscriber notifications",
	Long: `newsroom manages the articles, subscribers and publishers of the school
news site, and e-mails subscribers when a new article is published.

Storage is chosen once at startup: the remote document store when it is
configured and reachable, local storage otherwise. Subscribers, publishers
and admins live only in the remote store.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringP("config", "c", "", "path to config file (JSON or YAML)")
	rootCmd.PersistentFlags().String("log-level", "", "override logging.level (debug, info, warn, error)")
	rootCmd.AddCommand(versionCmd, backendCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "newsroom %s\n", version)
		fmt.Fprintf(out, "  commit: %s\n", commit)
		fmt.Fprintf(out, "  built:  %s\n", date)
	},
}

var backendCmd = &cobra.Command{
	Use:   "backend",
	Short: "Print the storage mode selected at startup",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			fmt.Fprintf(cmd.OutOrStdout(), "mode: %s\n", a.Selection.Mode())
			return nil
		})
	},
}

// withApp loads the config, builds the app and runs fn with a context that
// is canceled on SIGINT/SIGTERM.
func withApp(cmd *cobra.Command, fn func(ctx context.Context, a *app.App) error) error {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
		cfg.Logging.Level = lvl
	}

	logSvc, log := logx.New(logx.Config{
		Level:   cfg.Logging.Level,
		Console: cfg.Logging.Console,
		File:    logx.FileConfig{Enabled: cfg.Logging.File.Enabled, Path: cfg.Logging.File.Path},
	})
	defer logSvc.Close()

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	a, err := app.Build(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer a.Close()
	stop := a.LogEvents(ctx)
	defer stop()

	return fn(ctx, a)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
