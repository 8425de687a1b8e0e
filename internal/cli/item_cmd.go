package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/laststart/internal/cli/formatter"
	"github.com/alexanderramin/laststart/internal/domain"
)

func newItemCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "item",
		Aliases: []string{"items"},
		Short:   "Manage work items",
	}

	cmd.AddCommand(
		newItemAddCmd(app),
		newItemListCmd(app),
		newItemShowCmd(app),
		newItemStartCmd(app),
		newItemDoneCmd(app),
		newItemReopenCmd(app),
		newItemRemoveCmd(app),
	)

	return cmd
}

func newItemAddCmd(app *App) *cobra.Command {
	var (
		due, notBefore, description string
		plannedMin                  int
	)
	priority := domain.PriorityNormal

	cmd := &cobra.Command{
		Use:   "add TITLE",
		Short: "Create a new work item",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmdContext(cmd)
			loc, err := app.location(ctx)
			if err != nil {
				return err
			}

			w := &domain.WorkItem{
				Title:       strings.Join(args, " "),
				Description: description,
				Priority:    priority,
				PlannedMin:  plannedMin,
			}
			if due != "" {
				t, err := parseTimeFlag(due, loc, true)
				if err != nil {
					return fmt.Errorf("--due: %w", err)
				}
				w.DueDate = &t
			}
			if notBefore != "" {
				t, err := parseTimeFlag(notBefore, loc, false)
				if err != nil {
					return fmt.Errorf("--not-before: %w", err)
				}
				w.NotBefore = &t
			}

			if err := app.WorkItems.Create(ctx, w); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created #%d %s\n", w.Seq, w.Title)
			return nil
		},
	}

	cmd.Flags().StringVar(&due, "due", "", "Deadline (YYYY-MM-DD means end of that day)")
	cmd.Flags().StringVar(&notBefore, "not-before", "", "Earliest allowed start")
	cmd.Flags().IntVar(&plannedMin, "planned-min", 60, "Estimated effort in minutes")
	cmd.Flags().Var(&priorityValue{p: &priority}, "priority", "low, normal, high or a number")
	cmd.Flags().StringVar(&description, "description", "", "Longer description")

	return cmd
}

func newItemListCmd(app *App) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List work items in scheduling order",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmdContext(cmd)
			loc, err := app.location(ctx)
			if err != nil {
				return err
			}
			items, err := app.WorkItems.List(ctx, all)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatWorkItemList(items, app.now(), loc, app.Plain))
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Include done and archived items")
	return cmd
}

func newItemShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show work item details and sessions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmdContext(cmd)
			loc, err := app.location(ctx)
			if err != nil {
				return err
			}
			w, err := app.WorkItems.Resolve(ctx, args[0])
			if err != nil {
				return err
			}
			sessions, err := app.Sessions.ListByWorkItem(ctx, w.ID)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatWorkItem(w, sessions, loc))
			return nil
		},
	}
}

func newItemStartCmd(app *App) *cobra.Command {
	return newItemTransitionCmd(app, "start ID", "Mark a work item in progress", "Started", app.WorkItems.Start)
}

func newItemDoneCmd(app *App) *cobra.Command {
	return newItemTransitionCmd(app, "done ID", "Mark a work item done", "Completed", app.WorkItems.MarkDone)
}

func newItemReopenCmd(app *App) *cobra.Command {
	return newItemTransitionCmd(app, "reopen ID", "Move a done work item back to todo", "Reopened", app.WorkItems.Reopen)
}

func newItemTransitionCmd(app *App, use, short, verb string, apply func(ctx context.Context, id string) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmdContext(cmd)
			w, err := app.WorkItems.Resolve(ctx, args[0])
			if err != nil {
				return err
			}
			if err := apply(ctx, w.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s #%d %s\n", verb, w.Seq, w.Title)
			return nil
		},
	}
}

func newItemRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "rm ID",
		Aliases: []string{"remove"},
		Short:   "Delete a work item and its sessions",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmdContext(cmd)
			w, err := app.WorkItems.Resolve(ctx, args[0])
			if err != nil {
				return err
			}
			if err := app.WorkItems.Delete(ctx, w.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted #%d %s\n", w.Seq, w.Title)
			return nil
		},
	}
}
