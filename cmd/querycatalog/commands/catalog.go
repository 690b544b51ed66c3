package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/satishbabariya/querycatalog/internal/catalog"
	"github.com/satishbabariya/querycatalog/internal/core/query/domain"
	"github.com/satishbabariya/querycatalog/internal/core/schema"
	"github.com/satishbabariya/querycatalog/internal/fixtures"
	"github.com/satishbabariya/querycatalog/internal/ui"
	"github.com/spf13/cobra"
)

func newListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List catalog entries by category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c := catalog.New(catalog.Options{})
			ui.PrintHeader("querycatalog", fmt.Sprintf("%d entries in %d categories", len(c.Entries()), len(catalog.Categories())))
			for _, category := range catalog.Categories() {
				ui.PrintSection(string(category))
				var rows [][]string
				for _, e := range c.InCategory(category) {
					flag := ""
					if e.KnownFailure {
						flag = "not translatable"
					}
					rows = append(rows, []string{e.Name, e.Summary, flag})
				}
				if err := ui.PrintTable([]string{"Entry", "Summary", "Notes"}, rows); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

type runOptions struct {
	top     int
	state   string
	classes []string
	all     bool
	seed    bool
	showSQL bool
	quiet   bool
}

func newRunCommand(g *globals) *cobra.Command {
	opts := &runOptions{}

	cmd := &cobra.Command{
		Use:   "run [entries...]",
		Short: "Run catalog entries against the configured database",
		Long: `Run one or more catalog entries. Each entry runs in a session of its own and
prints its rows, the number of round trips and, with --sql, the statements issued.
Without arguments an interactive picker is shown.`,
		Example: `  querycatalog run CountPerSubcategoryNavigation CountPerSubcategoryJoin
  querycatalog run --all --seed
  querycatalog run AddressesInState --state ON --sql`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEntries(cmd, g, opts, args)
		},
	}

	cmd.Flags().IntVar(&opts.top, "top", 0, "Row limit for entries that take one (default per entry)")
	cmd.Flags().StringVar(&opts.state, "state", "", "State province code for AddressesInState (default WA)")
	cmd.Flags().StringSliceVar(&opts.classes, "classes", nil, "Product classes for the containment entries (default H,M)")
	cmd.Flags().BoolVar(&opts.all, "all", false, "Run every entry")
	cmd.Flags().BoolVar(&opts.seed, "seed", false, "Load the fixture data before running")
	cmd.Flags().BoolVar(&opts.showSQL, "sql", false, "Print the statements each entry issued")
	cmd.Flags().BoolVarP(&opts.quiet, "quiet", "q", false, "Print status lines only")

	return cmd
}

func runEntries(cmd *cobra.Command, g *globals, opts *runOptions, args []string) error {
	ctx := cmd.Context()
	c := catalog.New(catalog.Options{Top: opts.top, State: opts.state, Classes: opts.classes})

	names := args
	switch {
	case opts.all:
		names = nil
		for _, e := range c.Entries() {
			names = append(names, e.Name)
		}
	case len(names) == 0:
		picked, err := ui.SelectEntries(c.Names())
		if err != nil {
			return err
		}
		names = picked
	}

	entries := make([]catalog.Entry, 0, len(names))
	for _, name := range names {
		e, err := c.Lookup(name)
		if err != nil {
			return err
		}
		entries = append(entries, e)
	}

	f, closeFn, err := g.factory(ctx)
	if err != nil {
		return err
	}
	defer closeFn()

	if opts.seed {
		if err := fixtures.Load(ctx, f.Adapter()); err != nil {
			return err
		}
		ui.PrintSuccess("Fixture data loaded")
	}

	failed := 0
	for _, e := range entries {
		res, err := e.Run(ctx, f)
		known := err != nil && e.KnownFailure && domain.IsTranslationFailure(err)
		if err != nil && !known {
			failed++
		}

		detail := ""
		if err == nil {
			detail = fmt.Sprintf("(%d rows, %d round trips)", len(res.Rows), res.RoundTrips)
		}
		ui.PrintStatus(e.Name, err, known, detail)

		if opts.showSQL {
			for _, stmt := range res.SQL {
				ui.PrintCodeBlock(stmt, string(f.Dialect()))
			}
		}
		if err == nil && !opts.quiet {
			if err := ui.PrintRows(res.Rows); err != nil {
				return err
			}
		}
	}

	stats := f.CacheStats()
	ui.PrintInfo("compiled query cache: %d hits, %d misses", stats.Hits, stats.Misses)

	if failed > 0 {
		return fmt.Errorf("%d of %d entries failed", failed, len(entries))
	}
	return nil
}

var dialects = []domain.SQLDialect{domain.SQLite, domain.PostgreSQL, domain.MySQL}

func newExplainCommand() *cobra.Command {
	var dialect string

	cmd := &cobra.Command{
		Use:   "explain <entry>",
		Short: "Show the SQL an entry translates to in every dialect",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := catalog.New(catalog.Options{}).Lookup(args[0])
			if err != nil {
				return err
			}

			targets := dialects
			if dialect != "" {
				d, err := parseDialect(dialect)
				if err != nil {
					return err
				}
				targets = []domain.SQLDialect{d}
			}
			md, err := explain(cmd.Context(), e, targets)
			if err != nil {
				return err
			}
			return ui.PrintMarkdown(md)
		},
	}

	cmd.Flags().StringVar(&dialect, "dialect", "", "Only show one dialect: sqlite, postgres or mysql")
	return cmd
}

func parseDialect(name string) (domain.SQLDialect, error) {
	switch strings.ToLower(name) {
	case "sqlite", "sqlite3":
		return domain.SQLite, nil
	case "postgres", "postgresql":
		return domain.PostgreSQL, nil
	case "mysql":
		return domain.MySQL, nil
	}
	return "", fmt.Errorf("unknown dialect %q", name)
}

// explain builds the markdown description of an entry.
func explain(ctx context.Context, e catalog.Entry, targets []domain.SQLDialect) (string, error) {
	registry := schema.AdventureWorks()

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n*%s.* %s\n\n", e.Name, e.Category, e.Summary)
	if e.Note != "" {
		fmt.Fprintf(&b, "%s\n\n", strings.TrimSpace(e.Note))
	}

	for _, d := range targets {
		fmt.Fprintf(&b, "## %s\n\n", d)
		compiled, err := e.Compile(ctx, d, registry)
		if err != nil {
			if e.KnownFailure && domain.IsTranslationFailure(err) {
				fmt.Fprintf(&b, "Not translatable: `%s`\n\n", err)
				continue
			}
			return "", err
		}
		for _, q := range compiled {
			fmt.Fprintf(&b, "```sql\n%s\n```\n\n", q.SQL.Query)
		}
	}
	return b.String(), nil
}
