package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/laststart/internal/calendar"
	"github.com/alexanderramin/laststart/internal/cli/formatter"
	"github.com/alexanderramin/laststart/internal/domain"
)

func newCalendarCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calendar",
		Short: "Show or change working days and hours",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showCalendar(cmd, app)
		},
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Show the working calendar",
			RunE: func(cmd *cobra.Command, args []string) error {
				return showCalendar(cmd, app)
			},
		},
		newCalendarSetCmd(app),
	)

	return cmd
}

func showCalendar(cmd *cobra.Command, app *App) error {
	p, err := app.Calendar.Get(cmdContext(cmd))
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), formatter.FormatProfile(p, app.Plain))
	return nil
}

func newCalendarSetCmd(app *App) *cobra.Command {
	var (
		days       []time.Weekday
		start, end string
		bin        int
		tz         string
	)

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Change the working calendar",
		Example: `  laststart calendar set --days mon,tue,wed,thu --start 08:30 --end 16:00
  laststart calendar set --bin 30 --tz Europe/Berlin`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmdContext(cmd)
			flags := cmd.Flags()

			var patch domain.ProfilePatch
			if flags.Changed("days") {
				patch.WorkDays = days
			}
			if flags.Changed("start") {
				m, err := calendar.ParseClock(start)
				if err != nil {
					return fmt.Errorf("--start: %w", err)
				}
				patch.WorkStartMin = &m
			}
			if flags.Changed("end") {
				m, err := calendar.ParseClock(end)
				if err != nil {
					return fmt.Errorf("--end: %w", err)
				}
				patch.WorkEndMin = &m
			}
			if flags.Changed("bin") {
				patch.BinMinutes = &bin
			}
			if flags.Changed("tz") {
				patch.Timezone = &tz
			}

			current, err := app.Calendar.Get(ctx)
			if err != nil {
				return err
			}
			next := current.Patched(patch)
			if err := app.Calendar.Set(ctx, &next); err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatProfile(&next, app.Plain))
			return nil
		},
	}

	cmd.Flags().Var(newWeekdaysValue(&days), "days", "Working weekdays, e.g. mon,tue,wed")
	cmd.Flags().StringVar(&start, "start", "", "Start of the working day (HH:MM)")
	cmd.Flags().StringVar(&end, "end", "", "End of the working day (HH:MM)")
	cmd.Flags().IntVar(&bin, "bin", 0, "Scheduling granularity in minutes")
	cmd.Flags().StringVar(&tz, "tz", "", "IANA time zone, e.g. Europe/Berlin")

	return cmd
}
