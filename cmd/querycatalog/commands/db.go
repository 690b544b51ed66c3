package commands

import (
	"fmt"
	"strconv"

	"github.com/satishbabariya/querycatalog/internal/config"
	"github.com/satishbabariya/querycatalog/internal/core/schema"
	"github.com/satishbabariya/querycatalog/internal/fixtures"
	"github.com/satishbabariya/querycatalog/internal/ui"
	"github.com/spf13/cobra"
)

func newSeedCommand(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Create the schema and load the fixture data",
		Long: `Drop and recreate the catalog tables, then insert the fixture rows. Running it
again resets the data.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			adapter, err := g.connect(ctx)
			if err != nil {
				return err
			}
			defer adapter.Disconnect(ctx)

			if err := fixtures.Load(ctx, adapter); err != nil {
				return err
			}

			counts, err := fixtures.Counts(ctx, adapter, schema.AdventureWorks())
			if err != nil {
				return err
			}
			rows := make([][]string, len(counts))
			for i, c := range counts {
				rows[i] = []string{c.Table, strconv.Itoa(c.Rows)}
			}
			if err := ui.PrintTable([]string{"Table", "Rows"}, rows); err != nil {
				return err
			}
			ui.PrintSuccess("Seeded %d tables (%s)", len(counts), g.cfg.Provider)
			return nil
		},
	}
}

func newConfigCommand(g *globals) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or save the effective configuration",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := g.cfg
			source := cfg.ConfigFile
			if source == "" {
				ui.PrintWarning("No config file found; using defaults and environment")
				source = "-"
			}
			return ui.PrintTable([]string{"Key", "Value"}, [][]string{
				{"config_file", source},
				{"provider", cfg.Provider},
				{"database_url", cfg.DatabaseURL},
				{"debug", strconv.FormatBool(cfg.Debug)},
				{"max_connections", strconv.Itoa(cfg.MaxConnections)},
				{"max_idle_time", strconv.Itoa(cfg.MaxIdleTime)},
				{"connect_timeout", strconv.Itoa(cfg.ConnectTimeout)},
				{"cache_size", strconv.Itoa(cfg.CacheSize)},
			})
		},
	})

	var path string
	save := &cobra.Command{
		Use:   "save",
		Short: "Write the effective configuration to a file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			target := path
			if target == "" {
				p, err := config.DefaultPath()
				if err != nil {
					return err
				}
				target = p
			}
			if err := config.Save(g.cfg, target); err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}
			ui.PrintSuccess("Saved configuration to %s", target)
			return nil
		},
	}
	save.Flags().StringVar(&path, "path", "", "Destination (default ~/.config/querycatalog/.querycatalog.yaml)")
	cmd.AddCommand(save)

	return cmd
}
