package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/laststart/internal/app"
	"github.com/alexanderramin/laststart/internal/cli/formatter"
)

const nothingToPlan = "Nothing to plan: no pending item has a future deadline and remaining effort."

func newPlanCmd(a *App) *cobra.Command {
	var (
		limit int
		at    string
	)

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Show the latest start of each pending item",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmdContext(cmd)
			loc, err := a.location(ctx)
			if err != nil {
				return err
			}

			req := app.NewLatestStartRequest()
			req.Limit = limit
			now := a.now()
			if at != "" {
				t, err := parseTimeFlag(at, loc, false)
				if err != nil {
					return fmt.Errorf("--at: %w", err)
				}
				now = t
			}
			req.Now = &now

			resp, err := a.LatestStart.Compute(ctx, req)
			if app.LatestStartCode(err) == app.LatestStartErrNoSchedulableItems {
				fmt.Fprintln(cmd.OutOrStdout(), nothingToPlan)
				return nil
			}
			if err != nil {
				return err
			}
			renderPlan(cmd.OutOrStdout(), a.Plain, resp, now, loc)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of items to plan (default from config)")
	cmd.Flags().StringVar(&at, "at", "", "Plan as of this time instead of now")
	return cmd
}

func renderPlan(w io.Writer, plain bool, resp *app.LatestStartResponse, now time.Time, loc *time.Location) {
	if plain {
		fmt.Fprint(w, formatter.FormatLatestStartPlain(resp, loc))
		return
	}
	fmt.Fprintln(w, formatter.FormatLatestStart(resp, now, loc))
}

// location returns the display zone of the user's calendar.
func (a *App) location(ctx context.Context) (*time.Location, error) {
	p, err := a.Calendar.Get(ctx)
	if err != nil {
		return nil, err
	}
	loc, err := p.LoadLocation()
	if err != nil {
		return nil, fmt.Errorf("loading time zone %q: %w", p.Timezone, err)
	}
	return loc, nil
}

func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// isCancelled reports whether err only says the command was interrupted.
func isCancelled(err error) bool {
	return errors.Is(err, context.Canceled) || app.LatestStartCode(err) == app.LatestStartErrCancelled
}
