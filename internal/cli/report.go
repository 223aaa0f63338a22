package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aurule/npc/internal/campaign"
	"github.com/aurule/npc/internal/ui"
)

// Report formats.
const (
	formatTable    = "table"
	formatMarkdown = "markdown"
	formatJSON     = "json"
)

func (a *app) reportCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "report <tag>...",
		Short: "Count the values of tags across the cast",
		Long: `Counts how often each value of the named tags appears across all
characters, most common first.

Use parent/child to count subtags, such as group/rank. Characters can keep
values out of reports with @hide, @hidegroup and @hideranks.

Examples:
  npc report group
  npc report group/rank title --format markdown`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runReport(args, format)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", formatTable, "Output format: table, markdown or json")
	return cmd
}

func (a *app) runReport(tags []string, format string) error {
	switch format {
	case formatTable, formatMarkdown, formatJSON:
	default:
		return inputError(fmt.Errorf("unknown report format %q", format))
	}
	for i, tag := range tags {
		tags[i] = strings.TrimPrefix(tag, "@")
	}

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
	reports := campaign.Report(loaded.Characters, tags)

	if a.jsonOutput || format == formatJSON {
		a.jsonOutput = true
		a.outputSuccess(reports, &Meta{Count: len(loaded.Characters)})
		return nil
	}

	if format == formatMarkdown {
		md := reportMarkdown(reports)
		if !a.display.IsTTY || a.opts.NoColor {
			a.printf("%s", md)
			return nil
		}
		rendered, err := ui.RenderMarkdown(md, a.display.AvailableWidth(ui.MarkdownRenderMargin))
		if err != nil {
			a.printf("%s", md)
			return nil
		}
		a.printf("%s", rendered)
		return nil
	}

	for i, r := range reports {
		if i > 0 {
			a.println()
		}
		a.println(ui.Header("@"+r.Tag) + " " + ui.Hint(ui.Count(r.Total(), "value", "values")))
		if len(r.Values) == 0 {
			a.println(ui.Hint("  no values"))
			continue
		}
		rows := make([][]string, 0, len(r.Values))
		for _, v := range r.Values {
			rows = append(rows, []string{v.Value, strconv.Itoa(v.Count)})
		}
		a.println(ui.Table([]ui.Column{
			{Header: "Value", Style: ui.Accent},
			{Header: "Count", Align: ui.AlignRight},
		}, rows, 0))
	}
	return nil
}

// reportMarkdown renders reports as one markdown table per tag.
func reportMarkdown(reports []campaign.TagReport) string {
	var sb strings.Builder
	for i, r := range reports {
		if i > 0 {
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "## @%s\n\n", r.Tag)
		if len(r.Values) == 0 {
			sb.WriteString("_No values._\n")
			continue
		}
		sb.WriteString("| Value | Count |\n|---|---:|\n")
		for _, v := range r.Values {
			fmt.Fprintf(&sb, "| %s | %d |\n", strings.ReplaceAll(v.Value, "|", `\|`), v.Count)
		}
	}
	return sb.String()
}
