package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/queuectl/queuectl/internal/model"
)

var validConfigKeys = map[string]bool{
	model.ConfigMaxRetries:  true,
	model.ConfigBackoffBase: true,
	model.ConfigJobTimeout:  true,
}

func NewConfigRootCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "View and change queue configuration",
	}
	cmd.AddCommand(newConfigShowCmd(app), newConfigSetCmd(app))
	return cmd
}

func newConfigShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.Store.AllConfig(cmd.Context())
			if err != nil {
				return err
			}
			for _, key := range []string{model.ConfigMaxRetries, model.ConfigBackoffBase, model.ConfigJobTimeout} {
				val, ok := cfg[key]
				if !ok {
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%-14s %s\n", key+":", val)
			}
			return nil
		},
	}
}

func newConfigSetCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, value := args[0], args[1]
			if !validConfigKeys[key] {
				return fmt.Errorf("unknown config key %q (valid: max-retries, backoff-base, job-timeout)", key)
			}
			if _, err := strconv.Atoi(value); err != nil {
				return fmt.Errorf("%s must be an integer, got %q", key, value)
			}
			if err := app.Store.SetConfig(cmd.Context(), key, value); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", key, value)
			return nil
		},
	}
}
