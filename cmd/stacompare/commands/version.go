package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kinling9/stacompare/pkg/version"
)

// NewVersionCommand builds the "version" subcommand.
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print stacompare's build version",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "stacompare %s (commit %s, built %s)\n",
				version.Version, version.Commit, version.Date)

			return nil
		},
	}
}
