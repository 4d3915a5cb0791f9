package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/Guerrilla-Interactive/snip-cli/app"
	"github.com/Guerrilla-Interactive/snip-cli/app/api"
	"github.com/Guerrilla-Interactive/snip-cli/app/forms"
	"github.com/atotto/clipboard"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// ErrLoginRequired is returned when the auth guard redirects a command to
// the login route.
var ErrLoginRequired = errors.New("login required, run `snip login`")

func newShortenCmd(opts *rootOptions) *cobra.Command {
	var (
		code, password, description string
		inactive, copyLink          bool
	)
	cmd := &cobra.Command{
		Use:   "shorten <url>",
		Short: "Create a short link",
		Example: `  snip shorten https://example.com/a/very/long/path
  snip shorten https://example.com --code mylink1 --password s3cret! --copy`,
		Args: cobra.ExactArgs(1),
		RunE: opts.run(modeCLI, func(cmd *cobra.Command, args []string, env *Env, _ *rootOptions) error {
			if _, err := env.visit("/"); err != nil {
				return err
			}

			input := map[string]any{
				"originalUrl": args[0],
				"password":    nil,
				"description": nil,
				"isActive":    !inactive,
			}
			flags := cmd.Flags()
			if flags.Changed("code") {
				input["customShortCode"] = code
			}
			if flags.Changed("password") {
				input["password"] = password
			}
			if flags.Changed("description") {
				input["description"] = description
			}

			var req api.ShortenRequest
			if err := forms.ShortenerFormSchema.Validate(input).Bind(&req); err != nil {
				return err
			}
			link, err := env.API.Shorten(cmd.Context(), req)
			if err != nil {
				return err
			}

			short := env.Config.ShortLink(link.ShortCode)
			fmt.Fprintln(cmd.OutOrStdout(), short)
			if copyLink {
				if err := clipboard.WriteAll(short); err != nil {
					env.Log.Warn("clipboard unavailable", zap.Error(err))
				}
			}
			return nil
		}),
	}
	f := cmd.Flags()
	f.StringVar(&code, "code", "", "custom short code (6-20 letters and digits)")
	f.StringVar(&password, "password", "", "protect the link with a password")
	f.StringVar(&description, "description", "", "description, up to 300 characters")
	f.BoolVar(&inactive, "inactive", false, "create the link disabled")
	f.BoolVar(&copyLink, "copy", false, "copy the short link to the clipboard")
	return cmd
}

func newResolveCmd(opts *rootOptions) *cobra.Command {
	var (
		password string
		open     bool
	)
	cmd := &cobra.Command{
		Use:   "resolve <code>",
		Short: "Print the destination of a short link",
		Args:  cobra.ExactArgs(1),
		RunE: opts.run(modeCLI, func(cmd *cobra.Command, args []string, env *Env, _ *rootOptions) error {
			code := args[0]
			loc, err := env.visit(app.ShortLinkPath(code))
			if err != nil {
				return err
			}
			if app.Screen(loc.Route.View) != app.ScreenRedirect {
				return fmt.Errorf("%q is not a short code, it is the %s page", code, loc.Route.View)
			}

			target, err := env.API.Resolve(cmd.Context(), code)
			if errors.Is(err, api.ErrPasswordRequired) {
				if _, navErr := env.visit(app.ProtectedLinkPath(code)); navErr != nil {
					return navErr
				}
				if password == "" {
					return fmt.Errorf("%s: pass --password: %w", code, err)
				}
				target, err = env.API.Unlock(cmd.Context(), code, password)
			}
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), target)
			if open {
				return app.OpenBrowser(target)
			}
			return nil
		}),
	}
	cmd.Flags().StringVar(&password, "password", "", "password of a protected link")
	cmd.Flags().BoolVar(&open, "open", false, "open the destination in the browser")
	return cmd
}

func newMineCmd(opts *rootOptions) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:     "mine",
		Aliases: []string{"my-urls", "ls"},
		Short:   "List your links",
		Args:    cobra.NoArgs,
		RunE: opts.run(modeCLI, func(cmd *cobra.Command, args []string, env *Env, _ *rootOptions) error {
			loc, err := env.visit(app.MyURLsPath)
			if err != nil {
				return err
			}
			if loc.Redirected() {
				return ErrLoginRequired
			}

			links, err := env.API.MyLinks(cmd.Context())
			if errors.Is(err, api.ErrUnauthorized) {
				if logoutErr := env.Session.Logout(); logoutErr != nil {
					env.Log.Warn("logout after rejected token failed", zap.Error(logoutErr))
				}
				return fmt.Errorf("session expired: %w", ErrLoginRequired)
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(links)
			}
			if len(links) == 0 {
				fmt.Fprintln(out, "No links yet")
				return nil
			}
			fmt.Fprintln(out, renderLinks(env, links))
			return nil
		}),
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

func renderLinks(env *Env, links []api.Link) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(app.PathStyle).
		Headers("SHORT LINK", "ORIGINAL URL", "ACTIVE", "LOCK", "CLICKS")
	for _, l := range links {
		active, lock := "no", ""
		if l.IsActive {
			active = "yes"
		}
		if l.Protected {
			lock = "yes"
		}
		t.Row(env.Config.ShortLink(l.ShortCode), l.OriginalURL, active, lock, strconv.Itoa(l.Clicks))
	}
	return t.String()
}
