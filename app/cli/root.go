// Package cli is the cobra command tree of snip. Every command that has a
// screen equivalent goes through the router first, so the CLI obeys the same
// navigation guards as the TUI.
package cli

import (
	"fmt"

	"github.com/Guerrilla-Interactive/snip-cli/app"
	"github.com/Guerrilla-Interactive/snip-cli/app/api"
	"github.com/Guerrilla-Interactive/snip-cli/app/router"
	"github.com/Guerrilla-Interactive/snip-cli/app/session"
	config "github.com/Guerrilla-Interactive/snip-cli/internal"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// TUIRunner starts the interactive program at a path.
type TUIRunner func(env *Env, startPath string) error

// Env is what a command runs against: resolved config, session, API client,
// a navigator over the route table and a logger.
type Env struct {
	Config     config.Config
	ConfigPath string
	Session    *session.Store
	API        *api.Client
	Nav        *router.Navigator
	Log        *zap.Logger
	// ConfigErr is why the settings failed to load or validate. Only the
	// config commands run with it set.
	ConfigErr error
}

// Close releases the session storage and flushes the logger.
func (e *Env) Close() error {
	var err error
	if e.Session != nil {
		err = e.Session.Close()
	}
	if e.Log != nil {
		_ = e.Log.Sync()
	}
	return err
}

type envMode int

const (
	modeCLI envMode = iota
	modeTUI
	modeConfig
)

type rootOptions struct {
	version    string
	configPath string
	verbose    bool
	ephemeral  bool
	runTUI     TUIRunner
}

// NewRootCommand builds the command tree. Run without a subcommand, snip opens
// the TUI; a single argument is taken as the start path, so `snip abc123`
// resolves that short code.
func NewRootCommand(version string, runTUI TUIRunner) *cobra.Command {
	opts := &rootOptions{version: version, runTUI: runTUI}

	root := &cobra.Command{
		Use:   "snip [path]",
		Short: "Shorten, manage and open short links from the terminal",
		Long: `snip is a terminal client for the snip URL shortener.

Without arguments it opens the interactive UI. Paths mirror the web app:
  /                      shorten a URL
  /<code>                open a short link
  /protected-link/<code> unlock a password-protected link
  /login, /register      authenticate (guests only)
  /my-urls               manage your links (requires login)`,
		Version:      version,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE:         opts.run(modeTUI, runOpen),
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default ~/.config/snip/config.yaml)")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "debug logging")
	root.PersistentFlags().BoolVar(&opts.ephemeral, "ephemeral", false, "keep the session in memory only")

	root.AddCommand(
		newOpenCmd(opts),
		newLoginCmd(opts, false),
		newLoginCmd(opts, true),
		newLogoutCmd(opts),
		newStatusCmd(opts),
		newShortenCmd(opts),
		newResolveCmd(opts),
		newMineCmd(opts),
		newRoutesCmd(opts),
		newConfigCmd(opts),
	)
	return root
}

type runFunc func(cmd *cobra.Command, args []string, env *Env, opts *rootOptions) error

// run opens an Env for the duration of one command.
func (o *rootOptions) run(mode envMode, fn runFunc) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		env, err := o.open(mode)
		if err != nil {
			return err
		}
		defer env.Close()
		env.Log.Debug("command", zap.String("name", cmd.CommandPath()), zap.Strings("args", args))
		return fn(cmd, args, env, o)
	}
}

func (o *rootOptions) open(mode envMode) (*Env, error) {
	path := o.configPath
	if path == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}
	if mode == modeConfig {
		return o.openConfig(path)
	}

	cfg, err := config.LoadConfig(path)
	if err != nil {
		return nil, err
	}
	if o.ephemeral {
		cfg.Storage.Backend = session.BackendMemory
	}

	log, err := config.NewLogger(cfg.Logging, o.verbose, mode == modeTUI)
	if err != nil {
		return nil, err
	}
	env := &Env{Config: cfg, ConfigPath: path, Log: log}

	storage, err := session.OpenStorage(cfg.Storage.Backend, cfg.Storage.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open session storage: %w", err)
	}
	store, err := session.NewStore(storage, log)
	if err != nil {
		_ = storage.Close()
		return nil, err
	}
	env.Session = store

	timeout, err := cfg.RequestTimeout()
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	env.API = api.New(cfg.BaseURL, store, api.WithLogger(log), api.WithTimeout(timeout))

	table, err := app.NewRouteTable()
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	env.Nav = router.NewNavigator(table, store, log)
	return env, nil
}

// openConfig loads settings without validating them, so the config commands
// keep working on a file that LoadConfig would reject.
func (o *rootOptions) openConfig(path string) (*Env, error) {
	env := &Env{ConfigPath: path}
	cfg, err := config.ReadEffective(path)
	if err != nil {
		env.ConfigErr = err
		cfg = config.DefaultConfig()
	} else if err := cfg.Validate(); err != nil {
		env.ConfigErr = fmt.Errorf("invalid config: %w", err)
	}
	env.Config = cfg

	log, err := config.NewLogger(cfg.Logging, o.verbose, false)
	if err != nil {
		log, err = config.NewLogger(config.DefaultConfig().Logging, o.verbose, false)
		if err != nil {
			return nil, err
		}
	}
	env.Log = log
	if env.ConfigErr != nil {
		log.Debug("config has problems", zap.Error(env.ConfigErr))
	}
	return env, nil
}

// visit runs path through the router and guard, as the TUI would.
func (e *Env) visit(path string) (router.Location, error) {
	loc, err := e.Nav.Navigate(path)
	if err != nil {
		return router.Location{}, err
	}
	if loc.Redirected() {
		e.Log.Debug("guard redirected", zap.String("from", loc.RedirectedFrom), zap.String("to", loc.Path))
	}
	return loc, nil
}

func newOpenCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "open [path]",
		Short: "Open the interactive UI at a path",
		Example: `  snip open
  snip open /my-urls
  snip open abc123`,
		Args: cobra.MaximumNArgs(1),
		RunE: opts.run(modeTUI, runOpen),
	}
}

func runOpen(cmd *cobra.Command, args []string, env *Env, opts *rootOptions) error {
	path := router.HomePath
	if len(args) == 1 {
		path = router.NormalizePath(args[0])
	}
	if opts.runTUI == nil {
		return fmt.Errorf("interactive mode is not available")
	}
	return opts.runTUI(env, path)
}
