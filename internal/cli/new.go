package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aurule/npc/internal/character"
	"github.com/aurule/npc/internal/check"
	"github.com/aurule/npc/internal/pages"
	"github.com/aurule/npc/internal/parser"
	"github.com/aurule/npc/internal/ui"
)

type newResult struct {
	Path     string              `json:"path"`
	Name     string              `json:"name"`
	Type     string              `json:"type"`
	DryRun   bool                `json:"dry_run,omitempty"`
	Content  string              `json:"content,omitempty"`
	Problems []character.Problem `json:"problems,omitempty"`
}

func (a *app) newCmd() *cobra.Command {
	var (
		desc   string
		dryRun bool
	)

	cmd := &cobra.Command{
		Use:   "new <type> <name>",
		Short: "Create a character file",
		Long: `Creates a character of the given type from the type's sheet template.

The file is placed with the campaign's path template, so it lands in the
deepest existing directory its type, groups and tags lead to. An existing
file is never overwritten.

Examples:
  npc new person "Ana Ruiz"
  npc new changeling Hollis --tag seeming=Beast --tag kith=Hunterheart
  npc new person Bo --group Wolves:Alpha --group Crows`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			groups, err := groupsFromFlags(cmd.Flags())
			if err != nil {
				return inputError(err)
			}
			tags, err := tagsFromFlags(cmd.Flags())
			if err != nil {
				return inputError(err)
			}
			return a.runNew(args[0], args[1], groups, tags, desc, dryRun)
		},
	}

	addGroupFlag(cmd.Flags())
	addTagFlag(cmd.Flags())
	cmd.Flags().StringVarP(&desc, "desc", "d", "", "Description (replaces the sheet's description)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show the file without writing it")
	return cmd
}

func (a *app) runNew(typeName, name string, groups []pages.Group, tags []pages.TagValue, desc string, dryRun bool) error {
	st, err := a.requireCampaign()
	if err != nil {
		return err
	}
	sch, err := a.campaignSchema(st)
	if err != nil {
		return err
	}

	typeKey := parser.TypeKey(typeName)
	if sch.Type(typeKey) == nil {
		return &ExitError{
			Code:       ExitFailure,
			Err:        fmt.Errorf("unknown character type %q", typeName),
			ErrCode:    ErrTypeNotFound,
			Suggestion: "Known types: " + strings.Join(sch.TypeKeys(), ", "),
		}
	}

	c := st.Campaign()
	res, err := pages.Create(pages.CreateOptions{
		Root:         st.CharactersDir(),
		PathTemplate: c.Characters.PathTemplate,
		Schema:       sch,
		TypeKey:      typeKey,
		Name:         name,
		Groups:       groups,
		Tags:         tags,
		Description:  desc,
		DryRun:       dryRun,
	})
	if err != nil {
		return classify(err)
	}

	problems := check.NewValidator(sch, false).Validate(res.Character)
	out := newResult{
		Path:     a.rel(res.FilePath),
		Name:     res.Character.Name(),
		Type:     typeKey,
		DryRun:   dryRun,
		Problems: problems,
	}
	if dryRun {
		out.Content = res.Content
	}

	if a.jsonOutput {
		a.outputSuccess(out, nil)
		return nil
	}

	if dryRun {
		a.println(ui.Infof("Would create %s", ui.FilePath(out.Path)))
		a.println()
		a.printf("%s", res.Content)
	} else {
		a.println(ui.Successf("Created %s", ui.FilePath(out.Path)))
	}
	for _, p := range problems {
		a.println(ui.Warning(p.Message))
	}
	return nil
}
