package theme

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/xray-sync/internal/sync"
)

// Outcome classifies what happened to an issue during the run.
func Outcome(created bool, updated []string) string {
	switch {
	case created:
		return OutcomeCreated
	case len(updated) > 0:
		return OutcomeUpdated
	default:
		return OutcomeUnchanged
	}
}

// RenderSummary renders the end-of-run report. baseURL is used to build
// browse links; runErr, when set, is shown as the failure reason.
func RenderSummary(report *sync.Report, baseURL string, runErr error) string {
	var b strings.Builder

	b.WriteString(HeaderStyle.Render("xraysync"))
	b.WriteString("\n")

	var lines []string
	if report.TestSetKey != "" {
		lines = append(lines, issueLine(
			"Test set", report.TestSetName, report.TestSetKey,
			Outcome(report.TestSetCreated, report.TestSetUpdated), baseURL,
		))
	}

	attachmentFailures := 0
	for _, t := range report.Tests {
		line := issueLine(
			"Test", t.Name, t.Key, Outcome(t.Created, t.UpdatedFields), baseURL,
		)
		line += "\n" + HelpStyle.Render(fmt.Sprintf(
			"    %s: %d steps replaced by %d", t.Path, t.StepsDeleted, t.StepsCreated,
		))
		if t.AttachmentFailures > 0 {
			line += "\n" + ErrorStyle.Render(fmt.Sprintf(
				"    %d attachment(s) sent without content", t.AttachmentFailures,
			))
		}
		attachmentFailures += t.AttachmentFailures
		lines = append(lines, line)
	}

	lines = append(lines, "", fmt.Sprintf(
		"%d issue(s) created, %d field update(s), %d attachment failure(s) in %s",
		report.IssuesCreated(), report.FieldsUpdated(), attachmentFailures,
		report.Duration.Round(time.Millisecond),
	))
	if runErr != nil {
		lines = append(lines, ErrorStyle.Render("sync failed: "+runErr.Error()))
	}

	b.WriteString(PanelStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...)))
	b.WriteString("\n")

	return b.String()
}

func issueLine(kind, name, key, outcome, baseURL string) string {
	line := fmt.Sprintf("%-8s %s %s%s",
		kind, KeyStyle.Render(key), name, OutcomeStyle(outcome).Render(outcome),
	)
	if baseURL != "" && key != "" {
		line += " " + HelpStyle.Render(baseURL+"/browse/"+key)
	}
	return line
}
