// Package cli implements the command-line interface.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/aurule/npc/defaults"
	"github.com/aurule/npc/internal/campaign"
	"github.com/aurule/npc/internal/config"
	"github.com/aurule/npc/internal/schema"
	"github.com/aurule/npc/internal/settings"
	"github.com/aurule/npc/internal/ui"
)

// app holds the state shared by the commands of one invocation.
type app struct {
	out    io.Writer
	errOut io.Writer

	// Global flags
	campaignFlag string
	userDirFlag  string
	logLevelFlag string
	verbose      bool
	noColor      bool
	jsonOutput   bool

	opts    *config.Options
	logger  *log.Logger
	display *ui.DisplayContext

	// Loaded on first use
	settings *settings.Settings
	root     string
}

func (a *app) rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "npc",
		Short: "npc - Game master's character manager",
		Long: `npc keeps a campaign's non-player characters in plain text files.

Each character file starts with a free-form description followed by a header
of @tags. npc checks those tags against the campaign's game systems, files
characters into directories that match their tags, and reports on the cast.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	cmd.PersistentFlags().StringVar(&a.campaignFlag, "campaign", "", "Campaign directory (default: search upward from the working directory)")
	cmd.PersistentFlags().StringVar(&a.userDirFlag, "user-dir", "", "User settings directory")
	cmd.PersistentFlags().StringVar(&a.logLevelFlag, "log-level", "", "Log level: debug, info, warn or error")
	cmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Log debug messages")
	cmd.PersistentFlags().BoolVar(&a.noColor, "no-color", false, "Disable styled output")
	cmd.PersistentFlags().BoolVar(&a.jsonOutput, "json", false, "Output in JSON format (for script use)")

	cmd.AddCommand(
		a.initCmd(),
		a.lintCmd(),
		a.newCmd(),
		a.reorgCmd(),
		a.sessionCmd(),
		a.reportCmd(),
		a.settingsCmd(),
		a.tidyCmd(),
		a.versionCmd(),
	)
	return cmd
}

// Execute runs the CLI against os.Args and returns the error main should
// turn into an exit code. The error has already been reported.
func Execute() error {
	return Run(os.Args[1:], os.Stdout, os.Stderr)
}

// Run executes one invocation with args.
func Run(args []string, out, errOut io.Writer) error {
	a := &app{out: out, errOut: errOut}
	cmd := a.rootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(out)
	cmd.SetErr(errOut)

	err := cmd.Execute()
	if err == nil {
		return nil
	}
	exitErr := classify(err)
	a.reportError(exitErr)
	return exitErr
}

// setup reads runtime options and applies flag overrides.
func (a *app) setup(cmd *cobra.Command) error {
	opts, err := config.Load()
	if err != nil {
		return configError(err)
	}

	flags := cmd.Flags()
	if flags.Changed("campaign") {
		opts.Campaign = a.campaignFlag
	}
	if flags.Changed("user-dir") {
		opts.UserDir = a.userDirFlag
	}
	if flags.Changed("log-level") {
		opts.LogLevel = a.logLevelFlag
	}
	if a.verbose {
		opts.LogLevel = "debug"
	}
	if a.noColor {
		opts.NoColor = true
	}

	level, err := opts.Level()
	if err != nil {
		return inputError(err)
	}
	a.logger = log.NewWithOptions(a.errOut, log.Options{Prefix: "npc", Level: level})
	a.opts = opts
	a.display = ui.NewDisplayContext(a.out)

	ui.ConfigureTheme(opts.Accent)
	if opts.NoColor {
		ui.DisableColor()
	}
	return nil
}

// loadSettings composes the settings tiers. Outside a campaign only the
// defaults and user tiers are read.
func (a *app) loadSettings() (*settings.Settings, error) {
	if a.settings != nil {
		return a.settings, nil
	}

	start := a.opts.Campaign
	if start == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, &ExitError{Code: ExitUnreadable, Err: err, ErrCode: ErrFileReadError}
		}
		start = wd
	}
	root, err := campaign.FindRoot(start)
	if err != nil && !errors.Is(err, campaign.ErrNoCampaign) {
		return nil, &ExitError{Code: ExitUnreadable, Err: err, ErrCode: ErrFileReadError}
	}

	st, err := settings.Load(settings.Options{
		Tiers:        settings.StandardTiers(defaults.FS, a.opts.UserDir, root),
		CampaignRoot: root,
		Logger:       a.logger,
	})
	if err != nil {
		return nil, classify(err)
	}
	a.logger.Debug("loaded settings", "campaign", root, "versions", st.Versions())
	a.settings, a.root = st, root
	return st, nil
}

// requireCampaign loads settings and fails outside a campaign.
func (a *app) requireCampaign() (*settings.Settings, error) {
	st, err := a.loadSettings()
	if err != nil {
		return nil, err
	}
	if a.root == "" {
		return nil, classify(fmt.Errorf("%w: no %s directory found", campaign.ErrNoCampaign, settings.CampaignDirName))
	}
	return st, nil
}

// campaignSchema builds the schema characters are checked against.
func (a *app) campaignSchema(st *settings.Settings) (*schema.Schema, error) {
	s, err := st.CampaignSchema()
	if err != nil {
		return nil, &ExitError{Code: ExitConfig, Err: err, ErrCode: ErrSystemNotFound,
			Suggestion: "Check campaign.systems in the campaign settings"}
	}
	return s, nil
}

// println writes a line of command output. JSON mode writes only the
// envelope, so text lines are dropped.
func (a *app) println(args ...interface{}) {
	if a.jsonOutput {
		return
	}
	fmt.Fprintln(a.out, args...)
}

func (a *app) printf(format string, args ...interface{}) {
	if a.jsonOutput {
		return
	}
	fmt.Fprintf(a.out, format, args...)
}
