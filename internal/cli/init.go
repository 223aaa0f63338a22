package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/aurule/npc/defaults"
	"github.com/aurule/npc/internal/atomicfile"
	"github.com/aurule/npc/internal/settings"
	"github.com/aurule/npc/internal/ui"
)

// initSettings is the campaign settings file written by init.
type initSettings struct {
	NPC struct {
		Version string `yaml:"version"`
	} `yaml:"npc"`
	Campaign struct {
		Name    string   `yaml:"name"`
		Systems []string `yaml:"systems"`
	} `yaml:"campaign"`
}

type initResult struct {
	Root        string   `json:"root"`
	Settings    string   `json:"settings"`
	System      string   `json:"system"`
	Directories []string `json:"directories"`
}

func (a *app) initCmd() *cobra.Command {
	var name, system string

	cmd := &cobra.Command{
		Use:   "init [dir]",
		Short: "Create a new campaign",
		Long: `Creates a campaign in the given directory (default: the current directory).

Writes .npc/settings.yaml and creates the characters, sessions and plots
directories, plus a directory for each character type of the chosen system.

Examples:
  npc init
  npc init --name "Autumn Court" --system nwod`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			return a.runInit(dir, name, system)
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "Campaign name (default: the directory name)")
	cmd.Flags().StringVarP(&system, "system", "s", "", "Game system key (default: generic)")
	return cmd
}

func (a *app) runInit(dir, name, system string) error {
	root, err := filepath.Abs(dir)
	if err != nil {
		return inputError(err)
	}
	settingsPath := filepath.Join(root, settings.CampaignDirName, "settings.yaml")
	if _, err := os.Stat(settingsPath); err == nil {
		return &ExitError{Code: ExitFailure, Err: fmt.Errorf("campaign already exists: %s", settingsPath), ErrCode: ErrCampaignExists}
	}

	// Defaults and user settings decide the directory layout.
	st, err := settings.Load(settings.Options{
		Tiers:  settings.StandardTiers(defaults.FS, a.opts.UserDir, ""),
		Logger: a.logger,
	})
	if err != nil {
		return classify(err)
	}
	if system == "" {
		system = st.Campaign().DefaultSystem()
	}
	sch, err := st.CampaignSchema(system)
	if err != nil {
		return &ExitError{Code: ExitFailure, Err: err, ErrCode: ErrSystemNotFound,
			Suggestion: fmt.Sprintf("Known systems: %v", st.SystemKeys())}
	}
	if name == "" {
		name = filepath.Base(root)
	}

	var doc initSettings
	doc.NPC.Version = st.Versions()[settings.TierDefaults]
	doc.Campaign.Name = name
	doc.Campaign.Systems = []string{system}
	data, err := yaml.Marshal(&doc)
	if err != nil {
		return classify(err)
	}

	if err := os.MkdirAll(filepath.Dir(settingsPath), 0o755); err != nil {
		return &ExitError{Code: ExitFailure, Err: err, ErrCode: ErrFileWriteError}
	}
	if err := atomicfile.Create(settingsPath, data, 0o644); err != nil {
		if errors.Is(err, atomicfile.ErrExists) {
			return &ExitError{Code: ExitFailure, Err: fmt.Errorf("campaign already exists: %s", settingsPath), ErrCode: ErrCampaignExists}
		}
		return &ExitError{Code: ExitFailure, Err: err, ErrCode: ErrFileWriteError}
	}

	c := st.Campaign()
	dirs := []string{c.Characters.Path, c.Sessions.Path, c.Plots.Path}
	for _, key := range sch.TypeKeys() {
		dirs = append(dirs, filepath.Join(c.Characters.Path, sch.Type(key).DirName()))
	}
	sort.Strings(dirs)

	var created []string
	for _, d := range dirs {
		path := d
		if !filepath.IsAbs(path) {
			path = filepath.Join(root, d)
		}
		if err := os.MkdirAll(path, 0o755); err != nil {
			return &ExitError{Code: ExitFailure, Err: err, ErrCode: ErrFileWriteError}
		}
		created = append(created, d)
	}
	a.logger.Info("created campaign", "root", root, "system", system)

	if a.jsonOutput {
		a.outputSuccess(initResult{Root: root, Settings: settingsPath, System: system, Directories: created}, nil)
		return nil
	}
	a.println(ui.Successf("Created campaign %q in %s", name, ui.FilePath(root)))
	for _, d := range created {
		a.println("  " + ui.Hint(d+string(filepath.Separator)))
	}
	return nil
}
