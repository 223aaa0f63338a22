package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/aurule/npc/internal/pages"
	"github.com/aurule/npc/internal/parser"
	"github.com/aurule/npc/internal/ui"
)

type tidyResult struct {
	Checked int      `json:"checked"`
	Changed []string `json:"changed"`
	Skipped []string `json:"skipped,omitempty"`
	DryRun  bool     `json:"dry_run,omitempty"`
}

func (a *app) tidyCmd() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "tidy [paths...]",
		Short: "Rewrite character files in canonical form",
		Long: `Rewrites each character's tag header in the standard order: name and type
first, then metatags collapsed where possible, then the remaining tags.
Files already in canonical form are left alone, and so are files whose
header holds lines that are not tags.

Examples:
  npc tidy --dry-run
  npc tidy Characters/Humans`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runTidy(args, dryRun)
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "List the files that would change")
	return cmd
}

func (a *app) runTidy(args []string, dryRun bool) error {
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
	for _, e := range loaded.Failed {
		a.println(ui.Warningf("Skipped: %v", e))
	}

	res := tidyResult{Checked: len(loaded.Characters), Changed: []string{}, DryRun: dryRun}
	for _, c := range loaded.Characters {
		if len(c.Stray) > 0 {
			a.logger.Warn("header has lines that are not tags, leaving it alone", "path", c.Path, "line", c.Stray[0])
			res.Skipped = append(res.Skipped, a.rel(c.Path))
			continue
		}
		current, err := os.ReadFile(c.Path)
		if err != nil {
			return &ExitError{Code: ExitUnreadable, Err: err, ErrCode: ErrFileReadError}
		}
		if pages.Format(c, sch, parser.NameFromFilename(c.Path)) == string(current) {
			continue
		}
		if !dryRun {
			if err := pages.WriteFile(c.Path, c, sch); err != nil {
				return &ExitError{Code: ExitFailure, Err: err, ErrCode: ErrFileWriteError}
			}
			a.logger.Debug("rewrote character", "path", c.Path)
		}
		res.Changed = append(res.Changed, a.rel(c.Path))
	}

	if a.jsonOutput {
		a.outputSuccess(res, &Meta{Count: len(res.Changed)})
		return nil
	}

	for _, p := range res.Changed {
		a.println(ui.FilePath(p))
	}
	for _, p := range res.Skipped {
		a.println(ui.Warningf("Skipped %s: header has lines that are not tags", ui.FilePath(p)))
	}
	verb := "Tidied"
	if dryRun {
		verb = "Would tidy"
	}
	a.println(ui.Successf("%s %d of %d %s", verb, len(res.Changed), res.Checked, pluralize("file", res.Checked)))
	return nil
}
