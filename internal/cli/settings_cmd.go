package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/aurule/npc/internal/ui"
)

type settingValue struct {
	Key   string      `json:"key"`
	Value interface{} `json:"value"`
}

type systemView struct {
	Key            string                 `json:"key" yaml:"key"`
	Name           string                 `json:"name" yaml:"name"`
	Desc           string                 `json:"desc,omitempty" yaml:"desc,omitempty"`
	Extends        string                 `json:"extends,omitempty" yaml:"extends,omitempty"`
	Chain          []string               `json:"chain" yaml:"chain"`
	Tags           map[string]interface{} `json:"tags" yaml:"tags"`
	DeprecatedTags map[string]interface{} `json:"deprecated_tags,omitempty" yaml:"deprecated_tags,omitempty"`
	Metatags       map[string]interface{} `json:"metatags,omitempty" yaml:"metatags,omitempty"`
	Types          map[string]interface{} `json:"types,omitempty" yaml:"types,omitempty"`
}

type problemsResult struct {
	Problems []string          `json:"problems"`
	Versions map[string]string `json:"versions"`
}

func (a *app) settingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Inspect the composed settings",
		Long: `Shows settings after the packaged defaults, the user settings and the
campaign settings have been merged.`,
	}
	cmd.AddCommand(a.settingsGetCmd(), a.settingsShowCmd(), a.settingsProblemsCmd())
	return cmd
}

func (a *app) settingsGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Print one setting by dotted key",
		Long: `Prints the value at a dotted key.

Examples:
  npc settings get campaign.characters.path
  npc settings get systems.nwod.types.changeling`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := a.loadSettings()
			if err != nil {
				return err
			}
			key := args[0]
			value := st.Get(key, nil)
			if value == nil {
				return &ExitError{Code: ExitFailure, Err: fmt.Errorf("no setting %q", key), ErrCode: ErrKeyNotFound}
			}
			if a.jsonOutput {
				a.outputSuccess(settingValue{Key: key, Value: value}, nil)
				return nil
			}
			switch v := value.(type) {
			case map[string]interface{}, []interface{}:
				return a.printYAML(v)
			default:
				a.println(fmt.Sprint(v))
			}
			return nil
		},
	}
}

func (a *app) settingsShowCmd() *cobra.Command {
	var system string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print all settings, or one composed system",
		Long: `Prints the whole merged settings tree as YAML. With --system, prints one
system with its inherited tags, metatags and types applied.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := a.loadSettings()
			if err != nil {
				return err
			}
			var out interface{} = st.Tree("")
			if system != "" {
				sys, err := st.System(system)
				if err != nil {
					return &ExitError{Code: ExitFailure, Err: err, ErrCode: ErrSystemNotFound,
						Suggestion: "Known systems: " + strings.Join(st.SystemKeys(), ", ")}
				}
				out = systemView{
					Key:            sys.Key,
					Name:           sys.Name,
					Desc:           sys.Desc,
					Extends:        sys.Extends,
					Chain:          sys.Chain,
					Tags:           sys.Definition.Tags,
					DeprecatedTags: sys.Definition.DeprecatedTags,
					Metatags:       sys.Definition.Metatags,
					Types:          sys.Definition.Types,
				}
			}
			if a.jsonOutput {
				a.outputSuccess(out, nil)
				return nil
			}
			return a.printYAML(out)
		},
	}

	cmd.Flags().StringVarP(&system, "system", "s", "", "System key to show")
	return cmd
}

func (a *app) settingsProblemsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "problems",
		Short: "List settings problems that did not stop loading",
		Long: `Lists non-fatal settings problems: redefined locked tags, extends cycles,
unknown parent systems, missing sheet templates and malformed tag specs.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := a.loadSettings()
			if err != nil {
				return err
			}
			if a.root != "" {
				if _, err := a.campaignSchema(st); err != nil {
					return err
				}
			}
			res := problemsResult{Problems: []string{}, Versions: st.Versions()}
			for _, p := range st.Problems() {
				res.Problems = append(res.Problems, p.Error())
			}
			if a.jsonOutput {
				a.outputJSON(Response{OK: true, Data: res, Meta: &Meta{Count: len(res.Problems)}})
				return nil
			}
			if len(res.Problems) == 0 {
				a.println(ui.Success("No settings problems"))
				return nil
			}
			for _, p := range res.Problems {
				a.println(ui.Warning(p))
			}
			return nil
		},
	}
}

func (a *app) printYAML(v interface{}) error {
	data, err := yaml.Marshal(v)
	if err != nil {
		return classify(err)
	}
	a.printf("%s", data)
	return nil
}
