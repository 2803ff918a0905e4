package cli

import (
	"github.com/spf13/cobra"
)

func (r *runner) newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "kinly",
		Short: "kinly - todo lists in your terminal",
		Long: `kinly keeps todo items, optionally grouped into colored lists.

Items are addressed by the 1-based index shown by "kinly ls" (with the same
--list/--unassigned filter) or by a prefix of their ID. Lists are addressed
by index in "kinly list ls", ID prefix, or exact name.`,
		Example: `  kinly add "Buy milk"
  kinly list add Groceries --color green
  kinly add Eggs --list Groceries
  kinly ls --list Groceries
  kinly done 2
  kinly rm 3`,
		Args:          usageArgs(cobra.NoArgs),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Help()
			return errShowedHelp
		},
	}
	root.SetFlagErrorFunc(flagError)

	pf := root.PersistentFlags()
	pf.StringVar(&r.opt.ConfigPath, "config", "", "config file (default $KINLY_CONFIG or ~/.config/kinly/config.toml)")
	pf.StringVar(&r.opt.Theme, "theme", "", "output theme: classic, neon or mono")
	pf.BoolVar(&r.opt.NoColor, "no-color", false, "disable colored output")
	pf.BoolVar(&r.opt.Group, "group", false, "group output by pending/done")
	pf.BoolVarP(&r.opt.Verbose, "verbose", "v", false, "log diagnostics to stderr")

	root.AddCommand(
		r.newAddCmd(),
		r.newListItemsCmd(),
		r.newDoneCmd(),
		r.newRemoveCmd(),
		r.newEditCmd(),
		r.newListCmd(),
		r.newTUICmd(),
	)
	return root
}
