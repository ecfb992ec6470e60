package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/alexanderramin/grove/internal/cli/formatter"
	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

func newProfileCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show and edit the user profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showProfile(app)
		},
	}

	cmd.AddCommand(
		newProfileEditCmd(app),
		newProfileAvatarCmd(app),
	)
	return cmd
}

func showProfile(app *App) error {
	ctx := context.Background()
	prof, err := app.Profile.Get(ctx)
	if err != nil {
		return err
	}

	name := prof.Name
	if name == "" {
		name = "(unnamed)"
	}
	lines := []string{
		fmt.Sprintf("Name    %s", formatter.StyleBold.Render(name)),
		fmt.Sprintf("Total   %s", formatter.Points(prof.TotalPoints)),
		fmt.Sprintf("Badges  %s", formatter.BadgeShelf(prof.Badges)),
	}
	if len(prof.Avatar) > 0 {
		lines = append(lines, formatter.StyleDim.Render(
			fmt.Sprintf("Avatar  %d bytes", len(prof.Avatar))))
	}

	if n := len(prof.Sessions); n > 0 {
		lines = append(lines, "", formatter.StyleHeader.Render("RECENT SESSIONS"))
		recent := prof.Sessions
		if n > 5 {
			recent = recent[n-5:]
		}
		// Newest last in storage, newest first on screen.
		for i := len(recent) - 1; i >= 0; i-- {
			lines = append(lines, formatter.SessionLine(recent[i]))
		}
	}

	fmt.Println(formatter.RenderBox("profile", strings.Join(lines, "\n")))
	return nil
}

func newProfileEditCmd(app *App) *cobra.Command {
	var nameFlag string

	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Edit profile identity",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			prof, err := app.Profile.Get(ctx)
			if err != nil {
				return err
			}

			name := nameFlag
			if name == "" {
				if !app.interactive() {
					return fmt.Errorf("--name is required in non-interactive mode")
				}
				name = prof.Name
				form := huh.NewForm(
					huh.NewGroup(
						huh.NewInput().
							Title("Display name").
							Placeholder("Ada").
							Value(&name).
							Validate(validateName),
					),
				).WithShowHelp(false)
				if err := form.Run(); err != nil {
					return err
				}
			}

			if err := app.Profile.UpdateIdentity(ctx, name, prof.Avatar); err != nil {
				return err
			}
			fmt.Printf("Profile name set to %q.\n", name)
			return nil
		},
	}

	cmd.Flags().StringVar(&nameFlag, "name", "", "Display name (prompts when omitted)")
	return cmd
}

func newProfileAvatarCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "avatar <path>",
		Short: "Set the profile avatar from an image file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			prof, err := app.Profile.Get(ctx)
			if err != nil {
				return err
			}

			blob, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading avatar file: %w", err)
			}

			if err := app.Profile.UpdateIdentity(ctx, prof.Name, blob); err != nil {
				return err
			}
			fmt.Printf("Avatar updated (%d bytes).\n", len(blob))
			return nil
		},
	}
}

func validateName(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("name cannot be empty")
	}
	return nil
}
