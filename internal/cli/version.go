package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/dynstruct"
)

// NewVersionCommand creates the version command.
func NewVersionCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the dynstruct version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := newFormatter(rootOpts, cmd)
			if rootOpts.Format == "json" {
				return formatter.Success(map[string]string{"version": dynstruct.Version})
			}
			return formatter.Success("dynstruct " + dynstruct.Version)
		},
	}
}
