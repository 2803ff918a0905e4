package cli

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/idilsaglam/kinly/internal/model"
	"github.com/idilsaglam/kinly/internal/ui"
)

func (r *runner) newAddCmd() *cobra.Command {
	var list string
	cmd := &cobra.Command{
		Use:   "add <title...>",
		Short: "Add a new item (title can be multiple words)",
		Args:  usageArgs(cobra.MinimumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			title := strings.TrimSpace(strings.Join(args, " "))
			if title == "" {
				return usageError("add: empty title")
			}
			return r.with(cmd, func(s *session) error {
				ctx := cmd.Context()
				var owner *uuid.UUID
				if list != "" {
					l, err := resolveList(ctx, s.tr, list)
					if err != nil {
						return err
					}
					owner = &l.ID
				}
				if _, err := s.tr.CreateItem(ctx, title, owner); err != nil {
					return err
				}
				ui.OK(r.stdout, "added")
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&list, "list", "l", "", "add to this list (index, id prefix or name)")
	return cmd
}

func (r *runner) newListItemsCmd() *cobra.Command {
	var f filterFlags
	cmd := &cobra.Command{
		Use:   "ls",
		Short: "List items",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.with(cmd, func(s *session) error {
				ctx := cmd.Context()
				filter, list, err := f.resolve(ctx, s.tr)
				if err != nil {
					return err
				}
				items, err := s.tr.Items(ctx, filter)
				if err != nil {
					return err
				}

				t := ui.Current()
				title := ui.C(t.Title, "Todos")
				var owners map[uuid.UUID]model.List
				switch {
				case list != nil:
					title = ui.Swatch(list.Color()) + " " + ui.C(t.Title, list.DisplayName())
				case f.unassigned:
					title = ui.C(t.Title, "Unassigned")
				default:
					lists, err := s.tr.Lists(ctx)
					if err != nil {
						return err
					}
					owners = make(map[uuid.UUID]model.List, len(lists))
					for _, l := range lists {
						owners[l.ID] = l
					}
				}

				lines := header(title, items)
				if s.group {
					lines = append(lines, groupLines(number(items), owners)...)
				} else {
					lines = append(lines, itemLines(number(items), owners)...)
				}
				lines = append(lines, "")
				lines = append(lines, ui.C(t.Muted, "Tip: add with `kinly add \"Buy milk\"`"))
				ui.Panel(r.stdout, lines)
				return nil
			})
		},
	}
	addFilterFlags(cmd, &f)
	return cmd
}

func (r *runner) newDoneCmd() *cobra.Command {
	var f filterFlags
	cmd := &cobra.Command{
		Use:   "done <index|id>",
		Short: "Toggle done for an item",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.withItem(cmd, &f, args[0], func(s *session, it model.Item) error {
				out, err := s.tr.ToggleCompletion(cmd.Context(), it.ID)
				if err != nil {
					return err
				}
				if out.Done() {
					ui.OK(r.stdout, "done: "+out.TitleText())
				} else {
					ui.OK(r.stdout, "reopened: "+out.TitleText())
				}
				return nil
			})
		},
	}
	addFilterFlags(cmd, &f)
	return cmd
}

func (r *runner) newRemoveCmd() *cobra.Command {
	var f filterFlags
	cmd := &cobra.Command{
		Use:   "rm <index|id>",
		Short: "Remove an item",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.withItem(cmd, &f, args[0], func(s *session, it model.Item) error {
				if err := s.tr.DeleteItem(cmd.Context(), it.ID); err != nil {
					return err
				}
				ui.OK(r.stdout, "removed: "+it.TitleText())
				return nil
			})
		},
	}
	addFilterFlags(cmd, &f)
	return cmd
}

func (r *runner) newEditCmd() *cobra.Command {
	var f filterFlags
	cmd := &cobra.Command{
		Use:   "edit <index|id> <title...>",
		Short: "Change an item's title",
		Args:  usageArgs(cobra.MinimumNArgs(2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			title := strings.TrimSpace(strings.Join(args[1:], " "))
			if title == "" {
				return usageError("edit: empty title")
			}
			return r.withItem(cmd, &f, args[0], func(s *session, it model.Item) error {
				if _, err := s.tr.RenameItem(cmd.Context(), it.ID, title); err != nil {
					return err
				}
				ui.OK(r.stdout, fmt.Sprintf("renamed: %s → %s", it.TitleText(), title))
				return nil
			})
		},
	}
	addFilterFlags(cmd, &f)
	return cmd
}

// withItem opens a session and resolves ref against the filter flags.
func (r *runner) withItem(cmd *cobra.Command, f *filterFlags, ref string, fn func(*session, model.Item) error) error {
	return r.with(cmd, func(s *session) error {
		ctx := cmd.Context()
		filter, _, err := f.resolve(ctx, s.tr)
		if err != nil {
			return err
		}
		it, err := resolveItem(ctx, s.tr, filter, ref)
		if err != nil {
			return err
		}
		return fn(s, it)
	})
}

func addFilterFlags(cmd *cobra.Command, f *filterFlags) {
	cmd.Flags().StringVarP(&f.list, "list", "l", "", "only items of this list (index, id prefix or name)")
	cmd.Flags().BoolVarP(&f.unassigned, "unassigned", "u", false, "only items that belong to no list")
}
