package cli

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/Guerrilla-Interactive/snip-cli/app"
	"github.com/Guerrilla-Interactive/snip-cli/app/api"
	"github.com/Guerrilla-Interactive/snip-cli/app/forms"
	"github.com/Guerrilla-Interactive/snip-cli/app/router"
	"github.com/spf13/cobra"
)

// ErrAlreadyLoggedIn is returned by login and register when the guest-only
// guard sends the request home.
var ErrAlreadyLoggedIn = errors.New("already logged in, run `snip logout` first")

func newLoginCmd(opts *rootOptions, register bool) *cobra.Command {
	var email, password string
	use, short, path := "login", "Log in and store the session token", router.LoginPath
	if register {
		use, short, path = "register", "Create an account and store the session token", app.RegisterPath
	}
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Long: short + `.

The password is read from --password or, when omitted, from the first line
of standard input.`,
		Example: "  snip " + use + " --email you@example.com --password s3cret1\n" +
			"  echo s3cret1 | snip " + use + " --email you@example.com",
		Args: cobra.NoArgs,
		RunE: opts.run(modeCLI, func(cmd *cobra.Command, args []string, env *Env, _ *rootOptions) error {
			loc, err := env.visit(path)
			if err != nil {
				return err
			}
			if loc.Redirected() {
				return ErrAlreadyLoggedIn
			}

			if password == "" {
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && line == "" {
					return fmt.Errorf("no password given: use --password or pipe it on stdin")
				}
				password = strings.TrimRight(line, "\r\n")
			}

			schema := forms.LoginFormSchema
			if register {
				schema = forms.RegisterFormSchema
			}
			res := schema.Validate(map[string]any{"email": email, "password": password})
			var creds api.Credentials
			if err := res.Bind(&creds); err != nil {
				return err
			}

			var token string
			if register {
				token, err = env.API.Register(cmd.Context(), creds)
			} else {
				token, err = env.API.Login(cmd.Context(), creds)
			}
			if err != nil {
				return err
			}
			if err := env.Session.SetToken(token); err != nil {
				return err
			}

			who := creds.Email
			if id, ok := env.Session.Identity(); ok {
				who = id.Label()
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s\n", who)
			return nil
		}),
	}
	cmd.Flags().StringVarP(&email, "email", "e", "", "account email")
	cmd.Flags().StringVarP(&password, "password", "p", "", "account password")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newLogoutCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session token",
		Args:  cobra.NoArgs,
		RunE: opts.run(modeCLI, func(cmd *cobra.Command, args []string, env *Env, _ *rootOptions) error {
			if !env.Session.IsLoggedIn() {
				fmt.Fprintln(cmd.OutOrStdout(), "Not logged in")
				return nil
			}
			if err := env.Session.Logout(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return nil
		}),
	}
}

func newStatusCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show session and configuration",
		Args:  cobra.NoArgs,
		RunE: opts.run(modeCLI, func(cmd *cobra.Command, args []string, env *Env, _ *rootOptions) error {
			out := cmd.OutOrStdout()
			if id, ok := env.Session.Identity(); ok {
				fmt.Fprintf(out, "session:  logged in as %s\n", id.Label())
			} else if env.Session.IsLoggedIn() {
				fmt.Fprintln(out, "session:  logged in")
			} else {
				fmt.Fprintln(out, "session:  guest")
			}
			fmt.Fprintf(out, "api:      %s\n", env.API.BaseURL())
			fmt.Fprintf(out, "links:    %s\n", env.Config.PublicURL)
			fmt.Fprintf(out, "storage:  %s (%s)\n", env.Config.Storage.Backend, env.Config.Storage.Path)
			fmt.Fprintf(out, "config:   %s\n", env.ConfigPath)
			return nil
		}),
	}
}
