package cli

import (
	"github.com/spf13/cobra"

	"github.com/aurule/npc/internal/reorg"
	"github.com/aurule/npc/internal/ui"
)

type moveInfo struct {
	From string `json:"from"`
	To   string `json:"to"`
}

type conflictInfo struct {
	Destination string   `json:"destination"`
	Sources     []string `json:"sources"`
}

type reorgResult struct {
	Moves     []moveInfo `json:"moves"`
	Unchanged int        `json:"unchanged"`
	Removed   []string   `json:"removed,omitempty"`
	DryRun    bool       `json:"dry_run,omitempty"`
}

func (a *app) reorgCmd() *cobra.Command {
	var dryRun, purge bool

	cmd := &cobra.Command{
		Use:   "reorg",
		Short: "Move character files to the directories their tags call for",
		Long: `Resolves every character against the campaign's path template and moves
each file into the deepest existing directory it belongs in.

All moves are planned first. If two characters would land on the same file,
or a character would replace an existing file, nothing is moved.

Examples:
  npc reorg --dry-run
  npc reorg --purge`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runReorg(dryRun, purge)
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show the moves without making them")
	cmd.Flags().BoolVar(&purge, "purge", false, "Remove directories left empty by the moves")
	return cmd
}

func (a *app) runReorg(dryRun, purge bool) error {
	st, err := a.requireCampaign()
	if err != nil {
		return err
	}
	sch, err := a.campaignSchema(st)
	if err != nil {
		return err
	}
	loaded, err := a.loadCast(st, sch, nil)
	if err != nil {
		return err
	}
	for _, e := range loaded.Failed {
		a.println(ui.Warningf("Skipped: %v", e))
	}

	root := st.CharactersDir()
	planner, err := reorg.NewPlanner(sch, root, st.Campaign().Characters.PathTemplate)
	if err != nil {
		return classify(err)
	}
	plan := planner.Plan(loaded.Characters)

	if plan.HasConflicts() {
		conflicts := make([]conflictInfo, 0, len(plan.Conflicts))
		for _, c := range plan.Conflicts {
			info := conflictInfo{Destination: a.rel(c.Destination)}
			for _, src := range c.Sources {
				info.Sources = append(info.Sources, a.rel(src))
			}
			conflicts = append(conflicts, info)

			a.println(ui.Error("Conflict at " + ui.FilePath(info.Destination)))
			for _, src := range info.Sources {
				a.println("  " + ui.Hint(src))
			}
		}
		a.println()
		a.println(ui.Hint("No files were moved."))
		return a.failWithDetails(ExitFailure, ErrReorgConflict, plan.Err(), conflicts)
	}

	res, err := reorg.Execute(plan, reorg.Options{
		DryRun: dryRun,
		Purge:  purge,
		Root:   root,
		Logger: a.logger,
	})
	out := reorgResult{Moves: []moveInfo{}, Unchanged: len(plan.Unchanged), DryRun: dryRun}
	if res != nil {
		for _, m := range res.Moved {
			out.Moves = append(out.Moves, moveInfo{From: a.rel(m.Source), To: a.rel(m.Destination)})
		}
		for _, d := range res.Removed {
			out.Removed = append(out.Removed, a.rel(d))
		}
	}
	for _, m := range out.Moves {
		a.println(ui.Move(m.From, m.To))
	}
	if err != nil {
		return classify(err)
	}

	if a.jsonOutput {
		a.outputSuccess(out, &Meta{Count: len(out.Moves)})
		return nil
	}
	for _, d := range out.Removed {
		a.println(ui.Hint("Removed empty directory " + d))
	}
	switch {
	case len(out.Moves) == 0:
		a.println(ui.Success("Every character is already in place"))
	case dryRun:
		a.println(ui.Infof("%d %s would be moved. Run without --dry-run to apply.", len(out.Moves), pluralize("file", len(out.Moves))))
	default:
		a.println(ui.Successf("Moved %d %s", len(out.Moves), pluralize("file", len(out.Moves))))
	}
	return nil
}
