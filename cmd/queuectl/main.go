package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/queuectl/queuectl/internal/cli"
	"github.com/queuectl/queuectl/internal/executor"
	"github.com/queuectl/queuectl/internal/store"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "queuectl:", err)
		os.Exit(1)
	}
}

func run() error {
	dbPath := os.Getenv("QUEUECTL_DB")
	if dbPath == "" {
		dbPath = "queue.db"
	}

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	st, err := store.Open(dbPath)
	if err != nil {
		return err
	}
	defer st.Close()

	app := &cli.App{
		Store:  st,
		Exec:   executor.New(log),
		DBPath: dbPath,
		Log:    log,
	}

	root := cli.NewRootCmd(app)
	root.CompletionOptions.DisableDefaultCmd = true
	cobra.EnableCommandSorting = true

	return root.Execute()
}
