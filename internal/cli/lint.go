package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/aurule/npc/internal/character"
	"github.com/aurule/npc/internal/check"
	"github.com/aurule/npc/internal/ui"
)

type lintResult struct {
	Path     string              `json:"path"`
	Name     string              `json:"name"`
	Problems []character.Problem `json:"problems"`
}

type lintReport struct {
	Checked    int          `json:"checked"`
	Characters []lintResult `json:"characters"`
	Unreadable []string     `json:"unreadable,omitempty"`
}

var errLintFailed = errors.New("lint found problems")

func (a *app) lintCmd() *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "lint [paths...]",
		Short: "Check character files against the campaign's tag schema",
		Long: `Parses every character file and reports tags that break the rules of its
character type: missing or repeated tags, values outside a tag's allowed
set, deprecated tags and subtags with no parent.

With no paths the whole characters directory is checked. Exits with status 6
when any character has a problem.

Examples:
  npc lint
  npc lint Characters/Changelings --strict`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runLint(args, strict)
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "Also report tags the schema does not define")
	return cmd
}

func (a *app) runLint(args []string, strict bool) error {
	st, err := a.requireCampaign()
	if err != nil {
		return err
	}
	sch, err := a.campaignSchema(st)
	if err != nil {
		return err
	}
	loaded, err := a.loadCast(st, sch, args)
	if err != nil {
		return err
	}

	v := check.NewValidator(sch, strict)
	report := lintReport{Checked: len(loaded.Characters), Characters: []lintResult{}}
	total := 0
	for _, c := range loaded.Characters {
		problems := v.Lint(c)
		if len(problems) == 0 {
			continue
		}
		total += len(problems)
		report.Characters = append(report.Characters, lintResult{Path: a.rel(c.Path), Name: c.Name(), Problems: problems})
	}
	for _, e := range loaded.Failed {
		report.Unreadable = append(report.Unreadable, e.Error())
	}

	failed := len(report.Characters) > 0 || len(report.Unreadable) > 0
	if a.jsonOutput {
		if failed {
			return a.failWithDetails(ExitFailure, ErrValidationFailed, errLintFailed, report)
		}
		a.outputSuccess(report, &Meta{Count: report.Checked})
		return nil
	}

	for _, r := range report.Characters {
		a.println(ui.FilePath(r.Path))
		for _, p := range r.Problems {
			a.println(ui.Problem(p.Message))
		}
		a.println()
	}
	for _, msg := range report.Unreadable {
		a.println(ui.Warning(msg))
	}

	if !failed {
		a.println(ui.Successf("No problems in %d %s", report.Checked, pluralize("character", report.Checked)))
		return nil
	}
	a.println(ui.Error(ui.ProblemCounts(total, len(report.Characters), report.Checked)))
	return &ExitError{Code: ExitFailure, Err: errLintFailed, ErrCode: ErrValidationFailed, reported: true}
}

func pluralize(word string, n int) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
