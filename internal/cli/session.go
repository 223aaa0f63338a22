package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/aurule/npc/internal/campaign"
	"github.com/aurule/npc/internal/ui"
)

type sessionResult struct {
	Session       string `json:"session"`
	SessionNumber int    `json:"session_number"`
	Plot          string `json:"plot"`
	PlotNumber    int    `json:"plot_number"`
}

// now is replaced in tests.
var now = time.Now

func (a *app) sessionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "session",
		Short: "Create the next session and plot files",
		Long: `Creates the next numbered session file and plot file.

Each new file starts as a copy of the latest one in its series. The first
file of a series comes from its configured template instead, with
{{number}} and {{date}} filled in.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runSession()
		},
	}
}

func (a *app) runSession() error {
	st, err := a.requireCampaign()
	if err != nil {
		return err
	}

	t := now()
	session, err := campaign.NextSession(st, t)
	if err != nil {
		return classify(err)
	}
	plot, err := campaign.NextPlot(st, t)
	if err != nil {
		return classify(err)
	}

	if a.jsonOutput {
		a.outputSuccess(sessionResult{
			Session:       a.rel(session.Path),
			SessionNumber: session.Number,
			Plot:          a.rel(plot.Path),
			PlotNumber:    plot.Number,
		}, nil)
		return nil
	}
	a.println(ui.Successf("Created %s", ui.FilePath(a.rel(session.Path))))
	a.println(ui.Successf("Created %s", ui.FilePath(a.rel(plot.Path))))
	return nil
}
