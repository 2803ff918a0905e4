package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/idilsaglam/kinly/internal/model"
	"github.com/idilsaglam/kinly/internal/ui"
)

func (r *runner) newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Manage lists",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.runListLs(cmd)
		},
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "ls",
			Short: "Show lists with their counts",
			Args:  usageArgs(cobra.NoArgs),
			RunE: func(cmd *cobra.Command, args []string) error {
				return r.runListLs(cmd)
			},
		},
		r.newListAddCmd(),
		&cobra.Command{
			Use:   "rm <list>",
			Short: "Delete a list and every item in it",
			Args:  usageArgs(cobra.ExactArgs(1)),
			RunE: func(cmd *cobra.Command, args []string) error {
				return r.withList(cmd, args[0], func(s *session, l model.List) error {
					n, err := s.tr.ItemCount(cmd.Context(), l.ID)
					if err != nil {
						return err
					}
					if err := s.tr.DeleteList(cmd.Context(), l.ID); err != nil {
						return err
					}
					ui.OK(r.stdout, fmt.Sprintf("removed list %s (%d %s)", l.DisplayName(), n, plural(n, "item", "items")))
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "rename <list> <name...>",
			Short: "Rename a list",
			Args:  usageArgs(cobra.MinimumNArgs(2)),
			RunE: func(cmd *cobra.Command, args []string) error {
				name := strings.TrimSpace(strings.Join(args[1:], " "))
				if name == "" {
					return usageError("list rename: empty name")
				}
				return r.withList(cmd, args[0], func(s *session, l model.List) error {
					if _, err := s.tr.RenameList(cmd.Context(), l.ID, name); err != nil {
						return err
					}
					ui.OK(r.stdout, fmt.Sprintf("renamed list: %s → %s", l.DisplayName(), name))
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "color <list> <color>",
			Short: "Change a list's color (palette name or RRGGBB)",
			Args:  usageArgs(cobra.ExactArgs(2)),
			RunE: func(cmd *cobra.Command, args []string) error {
				hex, err := parseColor(args[1])
				if err != nil {
					return err
				}
				return r.withList(cmd, args[0], func(s *session, l model.List) error {
					out, err := s.tr.RecolorList(cmd.Context(), l.ID, hex)
					if err != nil {
						return err
					}
					ui.OK(r.stdout, fmt.Sprintf("recolored %s %s", ui.Swatch(out.Color()), out.DisplayName()))
					return nil
				})
			},
		},
	)
	return cmd
}

func (r *runner) newListAddCmd() *cobra.Command {
	var color string
	cmd := &cobra.Command{
		Use:   "add <name...>",
		Short: "Create a list",
		Args:  usageArgs(cobra.MinimumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := strings.TrimSpace(strings.Join(args, " "))
			if name == "" {
				return usageError("list add: empty name")
			}
			hex := model.DefaultColorHex
			if color != "" {
				var err error
				if hex, err = parseColor(color); err != nil {
					return err
				}
			}
			return r.with(cmd, func(s *session) error {
				l, err := s.tr.CreateList(cmd.Context(), name, hex)
				if err != nil {
					return err
				}
				ui.OK(r.stdout, fmt.Sprintf("created list %s %s", ui.Swatch(l.Color()), l.DisplayName()))
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&color, "color", "c", "", "palette name or RRGGBB (default blue)")
	return cmd
}

func (r *runner) runListLs(cmd *cobra.Command) error {
	return r.with(cmd, func(s *session) error {
		rows, err := s.tr.Summaries(cmd.Context())
		if err != nil {
			return err
		}
		t := ui.Current()
		total, open := 0, 0
		for _, row := range rows {
			total += row.ItemCount
			open += row.IncompleteCount
		}
		lines := []string{
			fmt.Sprintf("%s  %s %d  %s %d",
				ui.C(t.Title, "Lists"),
				ui.C(t.Pending, t.SymPending), open,
				ui.C(t.Accent, "Total"), len(rows),
			),
			"",
		}
		lines = append(lines, summaryLines(rows)...)
		lines = append(lines, "")
		lines = append(lines, ui.C(t.Muted, fmt.Sprintf("%d %s in lists", total, plural(total, "item", "items"))))
		ui.Panel(r.stdout, lines)
		return nil
	})
}

func (r *runner) withList(cmd *cobra.Command, ref string, fn func(*session, model.List) error) error {
	return r.with(cmd, func(s *session) error {
		l, err := resolveList(cmd.Context(), s.tr, ref)
		if err != nil {
			return err
		}
		return fn(s, l)
	})
}

func parseColor(s string) (string, error) {
	hex, ok := model.ResolveColor(s)
	if !ok {
		names := make([]string, len(model.Palette))
		for i, sw := range model.Palette {
			names[i] = sw.Name
		}
		return "", usageError("unknown color %q", s).
			withHint("use RRGGBB or one of: " + strings.Join(names, ", "))
	}
	return hex, nil
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
