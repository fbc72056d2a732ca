package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/walteh/diffmorpher/cmd/diffmorpher/opts"
)

// NewVersionCmd creates the version command
func NewVersionCmd(o *opts.RootOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprint(cmd.OutOrStdout(), o.Version())
			return err
		},
	}
}
