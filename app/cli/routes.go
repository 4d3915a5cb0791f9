package cli

import (
	"fmt"

	"github.com/Guerrilla-Interactive/snip-cli/app"
	"github.com/Guerrilla-Interactive/snip-cli/app/router"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
)

func newRoutesCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "routes",
		Short: "Show the route table and what the guard decides for this session",
		Args:  cobra.NoArgs,
		RunE: opts.run(modeCLI, func(cmd *cobra.Command, args []string, env *Env, _ *rootOptions) error {
			snap := router.Snapshot{LoggedIn: env.Session.IsLoggedIn()}
			t := table.New().
				Border(lipgloss.NormalBorder()).
				BorderStyle(app.PathStyle).
				Headers("PATTERN", "VIEW", "GUARD", "NOW")
			for _, r := range env.Nav.Table().Routes() {
				t.Row(r.Pattern, r.View, guardLabel(r), router.Evaluate(r, snap).String())
			}
			state := "guest"
			if snap.LoggedIn {
				state = "logged in"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\nsession: %s\n", t.String(), state)
			return nil
		}),
	}
}

func guardLabel(r router.Route) string {
	switch {
	case r.RequiresAuth:
		return "requires-auth"
	case r.GuestOnly:
		return "guest-only"
	}
	return "-"
}
