package cli

import (
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/alexanderramin/laststart/internal/app"
	"github.com/alexanderramin/laststart/internal/service"
)

// App holds references to all service interfaces used by CLI commands.
type App struct {
	WorkItems   service.WorkItemService
	Sessions    service.SessionService
	Calendar    service.CalendarService
	LatestStart app.LatestStartUseCase

	LogSession app.LogSessionUseCase

	Logger zerolog.Logger

	// Plain disables styling, for pipes and scripts.
	Plain bool
	// RefreshInterval is the default watch period.
	RefreshInterval time.Duration
	// MetricsAddr is the default watch metrics listen address.
	MetricsAddr string

	// Now is the clock; nil means time.Now.
	Now func() time.Time
}

func (a *App) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

func (a *App) logSessionUseCase() app.LogSessionUseCase {
	if a.LogSession != nil {
		return a.LogSession
	}
	return a.Sessions
}

// NewRootCmd creates the top-level "laststart" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "laststart",
		Short:         "Latest moment to start each task and still make every deadline",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolVar(&app.Plain, "plain", app.Plain, "Plain output without colors or boxes")

	root.AddCommand(
		newPlanCmd(app),
		newWatchCmd(app),
		newItemCmd(app),
		newLogCmd(app),
		newSessionCmd(app),
		newCalendarCmd(app),
	)

	return root
}
