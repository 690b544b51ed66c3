// Package main is the entry point for the querycatalog CLI.
package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/satishbabariya/querycatalog/cmd/querycatalog/commands"
	"github.com/satishbabariya/querycatalog/internal/ui"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := commands.NewRootCommand().ExecuteContext(ctx); err != nil {
		ui.PrintError("%v", err)
		stop()
		os.Exit(1)
	}
}
