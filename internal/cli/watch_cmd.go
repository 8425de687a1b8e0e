package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/laststart/internal/app"
	"github.com/alexanderramin/laststart/internal/cli/formatter"
	"github.com/alexanderramin/laststart/internal/logging"
	"github.com/alexanderramin/laststart/internal/service"
)

func newWatchCmd(a *App) *cobra.Command {
	var (
		interval    time.Duration
		metricsAddr string
		count       int
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Recompute the plan periodically and on SIGHUP",
		Long: `Recompute the plan every --interval and whenever the process receives
SIGHUP. A recompute that is still running when the next one is due is
cancelled; only the newest plan is printed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if interval <= 0 {
				return fmt.Errorf("--interval must be positive")
			}

			ctx, stop := signal.NotifyContext(cmdContext(cmd), os.Interrupt, syscall.SIGTERM)
			defer stop()

			loc, err := a.location(ctx)
			if err != nil {
				return err
			}

			logger := logging.Component(a.Logger, "watch")

			if metricsAddr != "" {
				go func() {
					if err := startMetricsServer(ctx, metricsAddr, logger); err != nil {
						logger.Error().Err(err).Msg("metrics server")
					}
				}()
			}

			hup := make(chan os.Signal, 1)
			signal.Notify(hup, syscall.SIGHUP)
			defer signal.Stop(hup)

			refresher := service.NewRefresher(a.LatestStart, logger)
			if a.Now != nil {
				refresher.WithClock(a.Now)
			}
			defer refresher.Close()

			ticker := time.NewTicker(interval)
			defer ticker.Stop()

			refresher.Trigger(ctx)
			seen := 0
			for {
				select {
				case <-ctx.Done():
					return nil
				case <-ticker.C:
					refresher.Trigger(ctx)
				case <-hup:
					logger.Info().Msg("reload requested")
					refresher.Trigger(ctx)
				case res, ok := <-refresher.Results():
					if !ok {
						return nil
					}
					printRefresh(cmd, a, res, loc)
					seen++
					if count > 0 && seen >= count {
						return nil
					}
				}
			}
		},
	}

	cmd.Flags().DurationVar(&interval, "interval", a.RefreshInterval, "Time between recomputes")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", a.MetricsAddr, "Serve Prometheus metrics on this address")
	cmd.Flags().IntVar(&count, "count", 0, "Exit after printing this many plans (0 runs until interrupted)")
	_ = cmd.Flags().MarkHidden("count")

	return cmd
}

func printRefresh(cmd *cobra.Command, a *App, res service.RefreshResult, loc *time.Location) {
	out := cmd.OutOrStdout()
	switch {
	case res.Err == nil:
	case isCancelled(res.Err):
		return
	case app.LatestStartCode(res.Err) == app.LatestStartErrNoSchedulableItems:
		fmt.Fprintln(out, nothingToPlan)
		return
	default:
		a.Logger.Error().Err(res.Err).Uint64("generation", res.Generation).Msg("refresh failed")
		fmt.Fprintf(out, "refresh failed: %v\n", res.Err)
		return
	}
	if !a.Plain {
		fmt.Fprintf(out, "\n%s\n", formatter.Dim(res.Response.GeneratedAt.In(loc).Format("15:04:05")))
	}
	renderPlan(out, a.Plain, res.Response, res.Response.GeneratedAt, loc)
}
