package cli

import (
	"github.com/spf13/cobra"

	"github.com/idilsaglam/kinly/internal/tui"
)

func (r *runner) newTUICmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Browse lists and items interactively",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.with(cmd, func(s *session) error {
				return tui.Run(cmd.Context(), s.tr, s.log)
			})
		},
	}
}
