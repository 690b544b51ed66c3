// Package commands implements the querycatalog CLI.
package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/satishbabariya/querycatalog/internal/adapters"
	"github.com/satishbabariya/querycatalog/internal/adapters/database"
	"github.com/satishbabariya/querycatalog/internal/config"
	"github.com/satishbabariya/querycatalog/internal/core/schema"
	"github.com/satishbabariya/querycatalog/internal/debug"
	"github.com/satishbabariya/querycatalog/internal/session"
	"github.com/satishbabariya/querycatalog/internal/ui"
	"github.com/spf13/cobra"
)

// globals holds the persistent flags and the configuration they resolve to.
type globals struct {
	configFile string
	provider   string
	url        string
	debug      bool
	logFile    string

	cfg     *config.Config
	logSink io.Closer
}

// NewRootCommand creates the root command with every subcommand attached.
func NewRootCommand() *cobra.Command {
	g := &globals{}

	rootCmd := &cobra.Command{
		Use:   "querycatalog",
		Short: "Run and compare sample queries over the AdventureWorks schema",
		Long: `querycatalog runs a catalog of sample queries (aggregation, joins, set
combination and containment) against SQLite, PostgreSQL or MySQL and shows the
SQL each one translates to.`,
		Version:       fmt.Sprintf("%s (commit: %s)", Version, GitCommit),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return g.setup(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if g.logSink != nil {
				return g.logSink.Close()
			}
			return nil
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&g.configFile, "config", "", "Config file (default .querycatalog.yaml in ., $HOME or ~/.config/querycatalog)")
	flags.StringVar(&g.provider, "provider", "", "Database provider: sqlite, postgresql or mysql")
	flags.StringVar(&g.url, "url", "", "Database URL (overrides DATABASE_URL)")
	flags.BoolVar(&g.debug, "debug", false, "Enable debug logging")
	flags.StringVar(&g.logFile, "log-file", "", "Write debug logs to this file instead of stderr")

	rootCmd.AddCommand(newListCommand())
	rootCmd.AddCommand(newRunCommand(g))
	rootCmd.AddCommand(newExplainCommand())
	rootCmd.AddCommand(newSeedCommand(g))
	rootCmd.AddCommand(newConfigCommand(g))
	rootCmd.AddCommand(NewVersionCommand())

	return rootCmd
}

func (g *globals) setup(cmd *cobra.Command) error {
	ui.Out = cmd.OutOrStdout()
	ui.Err = cmd.ErrOrStderr()

	cfg, err := config.Load(g.configFile)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("provider") {
		cfg.Provider = g.provider
	}
	if flags.Changed("url") {
		cfg.DatabaseURL = g.url
	}
	if flags.Changed("debug") {
		cfg.Debug = g.debug
	}
	g.cfg = cfg

	if g.logFile != "" {
		f, err := os.OpenFile(g.logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		g.logSink = f
		debug.InitWriter(true, f)
	} else {
		debug.Init(cfg.Debug)
	}
	return nil
}

// connect opens the configured database. The caller disconnects the adapter.
func (g *globals) connect(ctx context.Context) (database.Adapter, error) {
	adapter, err := adapters.NewAdapter(g.cfg.Database())
	if err != nil {
		return nil, err
	}
	if err := adapter.Connect(ctx); err != nil {
		return nil, err
	}
	return adapter, nil
}

// factory opens the database and wraps it in a session factory.
func (g *globals) factory(ctx context.Context) (*session.Factory, func(), error) {
	adapter, err := g.connect(ctx)
	if err != nil {
		return nil, nil, err
	}
	f := session.NewFactory(adapter, schema.AdventureWorks(), g.cfg.CacheSize)
	closeFn := func() {
		if err := adapter.Disconnect(context.Background()); err != nil {
			debug.Warn("Disconnect failed", "error", err)
		}
	}
	return f, closeFn, nil
}
