package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewVersionCommand creates the "version" subcommand.
func NewVersionCommand(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the glogread version",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), version)
			return err
		},
	}
}
