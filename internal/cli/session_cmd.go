package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/laststart/internal/cli/formatter"
	"github.com/alexanderramin/laststart/internal/domain"
)

func newLogCmd(app *App) *cobra.Command {
	var (
		note    string
		started string
	)

	cmd := &cobra.Command{
		Use:   "log ID MINUTES",
		Short: "Log time spent on a work item",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmdContext(cmd)
			minutes, err := strconv.Atoi(args[1])
			if err != nil || minutes <= 0 {
				return fmt.Errorf("invalid minutes %q: must be a positive number", args[1])
			}

			w, err := app.WorkItems.Resolve(ctx, args[0])
			if err != nil {
				return err
			}

			s := &domain.WorkSessionLog{
				WorkItemID: w.ID,
				Minutes:    minutes,
				Note:       note,
			}
			if started != "" {
				loc, err := app.location(ctx)
				if err != nil {
					return err
				}
				t, err := parseTimeFlag(started, loc, false)
				if err != nil {
					return fmt.Errorf("--started: %w", err)
				}
				s.StartedAt = t
			}

			if err := app.logSessionUseCase().LogSession(ctx, s); err != nil {
				return err
			}

			left := w.RemainingMin() - minutes
			if left < 0 {
				left = 0
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged %s on #%d %s (%s left)\n",
				formatter.FormatMinutes(minutes), w.Seq, w.Title, formatter.FormatMinutes(left))
			return nil
		},
	}

	cmd.Flags().StringVar(&note, "note", "", "Session note")
	cmd.Flags().StringVar(&started, "started", "", "When the session started (default: MINUTES ago)")
	return cmd
}

func newSessionCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Review logged sessions",
	}

	cmd.AddCommand(
		newSessionListCmd(app),
		newSessionRemoveCmd(app),
	)

	return cmd
}

func newSessionListCmd(app *App) *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmdContext(cmd)
			loc, err := app.location(ctx)
			if err != nil {
				return err
			}
			sessions, err := app.Sessions.ListRecent(ctx, days)
			if err != nil {
				return err
			}

			titles := map[string]string{}
			rows := make([][]string, 0, len(sessions))
			for _, s := range sessions {
				title, ok := titles[s.WorkItemID]
				if !ok {
					if w, err := app.WorkItems.GetByID(ctx, s.WorkItemID); err == nil {
						title = fmt.Sprintf("#%d %s", w.Seq, w.Title)
					}
					titles[s.WorkItemID] = title
				}
				rows = append(rows, []string{
					s.ID,
					s.StartedAt.In(loc).Format(time.RFC3339),
					fmt.Sprint(s.Minutes),
					title,
					s.Note,
				})
			}

			headers := []string{"ID", "STARTED", "MINUTES", "ITEM", "NOTE"}
			if app.Plain {
				fmt.Fprint(cmd.OutOrStdout(), formatter.RenderPlainTable(headers, rows))
				return nil
			}
			if len(rows) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), formatter.Dim(fmt.Sprintf("No sessions in the last %d days.", days)))
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.RenderTable(headers, rows))
			return nil
		},
	}

	cmd.Flags().IntVar(&days, "days", 7, "How many days back to list")
	return cmd
}

func newSessionRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rm SESSION_ID",
		Short: "Delete a session and return its minutes to the item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Sessions.Delete(cmdContext(cmd), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted session %s\n", args[0])
			return nil
		},
	}
}
