package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var errValidationFailed = errors.New("validation failed")

func newDatasourceCmd(global *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "datasource",
		Aliases: []string{"ds"},
		Short:   "Inspect and test stored data sources",
	}
	cmd.AddCommand(newDatasourceListCmd(global), newDatasourceTestCmd(global))
	return cmd
}

func newDatasourceListCmd(global *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print stored data sources with secrets masked",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, global)
			if err != nil {
				return err
			}
			defer a.Close()

			list, err := a.DatasourceService.List(cmd.Context())
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), list)
		},
	}
}

func newDatasourceTestCmd(global *globalOptions) *cobra.Command {
	var live bool
	cmd := &cobra.Command{
		Use:   "test <id>",
		Short: "Validate a stored data source and record the outcome",
		Long: `Runs the static checks for the data source's provider and, with --live,
one read-only call against the provider API. The result is printed as JSON and
the data source's status and lastSync are updated. The command exits non-zero
when any check fails.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, global)
			if err != nil {
				return err
			}
			defer a.Close()

			result, err := a.DatasourceService.Test(cmd.Context(), args[0], live)
			if err != nil {
				return err
			}
			if err := writeJSON(cmd.OutOrStdout(), result); err != nil {
				return err
			}
			if !result.Passed() {
				return fmt.Errorf("%w: %s", errValidationFailed, args[0])
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&live, "live", false, "Also call the provider API")
	return cmd
}
