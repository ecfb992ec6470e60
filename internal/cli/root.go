package cli

import (
	"time"

	"github.com/alexanderramin/grove/internal/service"
	"github.com/spf13/cobra"
)

// App holds references to the service interfaces used by CLI commands.
type App struct {
	Controller service.SessionController
	Profile    service.ProfileService

	// Interval is the award cadence, used for display only.
	Interval time.Duration

	// IsInteractive reports whether stdin is an interactive terminal;
	// the live timer TUI is only launched when it is.
	IsInteractive func() bool
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

// NewRootCmd creates the top-level "grove" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "grove",
		Short: "Focus session timer that grows a grove of badges",
	}

	root.AddCommand(
		newStartCmd(app),
		newResumeCmd(app),
		newStopCmd(app),
		newStatusCmd(app),
		newProfileCmd(app),
	)

	return root
}
