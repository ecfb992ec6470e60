package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/grove/internal/cli/formatter"
	"github.com/alexanderramin/grove/internal/domain"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// modeValue is a pflag.Value that only accepts known focus modes.
type modeValue domain.FocusMode

func (v *modeValue) String() string { return string(*v) }
func (v *modeValue) Type() string   { return "mode" }

func (v *modeValue) Set(s string) error {
	mode, ok := domain.ParseFocusMode(strings.ToLower(s))
	if !ok {
		return fmt.Errorf("unknown mode %q (work, play, rest, sleep)", s)
	}
	*v = modeValue(mode)
	return nil
}

var _ pflag.Value = (*modeValue)(nil)

func newStartCmd(app *App) *cobra.Command {
	mode := modeValue(domain.ModeWork)

	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start a focus session",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			if err := app.Controller.Start(ctx, domain.FocusMode(mode)); err != nil {
				return err
			}

			if app.interactive() {
				return runTimer(app)
			}
			fmt.Printf("Started %s session. Run 'grove status' to check on it.\n", domain.FocusMode(mode))
			return nil
		},
	}

	cmd.Flags().VarP(&mode, "mode", "m", "Focus mode: work, play, rest or sleep")
	return cmd
}

func newResumeCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "resume",
		Short: "Resume a persisted focus session",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			adopted, err := app.Controller.Restore(ctx)
			if err != nil {
				return err
			}
			if !adopted {
				fmt.Println("No session to resume.")
				return nil
			}

			if app.interactive() {
				return runTimer(app)
			}
			snap := app.Controller.Snapshot()
			fmt.Printf("Resumed %s session at %s with %s.\n",
				snap.Mode, formatter.FormatClock(snap.Elapsed), formatter.Points(snap.Points))
			return nil
		},
	}
}

func newStopCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "Stop the active focus session and bank its rewards",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			// Adopt the persisted session first so the final
			// reconciliation pass settles anything earned since the
			// owning process went away.
			if _, err := app.Controller.Restore(ctx); err != nil {
				return err
			}
			s, err := app.Controller.Stop(ctx)
			if err != nil {
				return err
			}
			if s == nil {
				fmt.Println("No active session.")
				return nil
			}

			fmt.Printf("Stopped %s session after %s: %s earned.\n",
				s.Mode,
				formatter.FormatClock(s.Elapsed(*s.EndTime)),
				formatter.Points(s.Points))
			if len(s.Badges) > 0 {
				fmt.Println(formatter.BadgeShelf(s.Badges))
			}
			return nil
		},
	}
}

func newStatusCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the active session without disturbing it",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			info, err := app.Controller.Status(ctx)
			if err != nil {
				return err
			}
			if info == nil {
				fmt.Println("No active session.")
				return nil
			}

			lines := []string{
				fmt.Sprintf("Mode     %s", formatter.ModeLabel(info.Session.Mode)),
				fmt.Sprintf("Elapsed  %s", formatter.StyleBold.Render(formatter.FormatClock(info.Elapsed))),
				fmt.Sprintf("Points   %s", formatter.Points(info.Session.Points)),
				fmt.Sprintf("Badges   %s", formatter.BadgeShelf(info.Session.Badges)),
			}
			if app.Interval > 0 {
				untilNext := app.Interval - info.Elapsed%app.Interval
				lines = append(lines, fmt.Sprintf("Next     %s",
					formatter.StyleDim.Render("award in "+formatter.FormatClock(untilNext))))
			}
			if info.PendingAwards > 0 {
				lines = append(lines, formatter.StyleYellow.Render(
					fmt.Sprintf("%d award(s) pending reconciliation", info.PendingAwards)))
			}
			fmt.Println(formatter.RenderBox("session", strings.Join(lines, "\n")))
			return nil
		},
	}
}
