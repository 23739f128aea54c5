package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/x/ansi"

	"github.com/dt-pm-tools/aha-cli/internal/aha"
	"github.com/dt-pm-tools/aha-cli/internal/browse"
	"github.com/dt-pm-tools/aha-cli/internal/markdown"
)

// formatDetail renders a feature or requirement for the detail pane,
// wrapped to width columns.
func formatDetail(record *aha.Record, kind aha.Kind, width int) string {
	var b strings.Builder

	title := record.Name
	if record.ReferenceNum != "" {
		title = record.ReferenceNum + ": " + record.Name
	}
	b.WriteString(titleStyle.Render(ansi.Wrap(title, width, "")))
	b.WriteString("\n\n")

	var color string
	if record.WorkflowStatus != nil {
		color = record.WorkflowStatus.Color
	}
	fmt.Fprintf(&b, "%s %s\n", labelStyle.Render("Kind:    "), kind)
	fmt.Fprintf(&b, "%s %s\n", labelStyle.Render("Status:  "), statusStyle(color).Render(record.StatusName()))

	assignee := "Unassigned"
	if record.Assigned() {
		assignee = record.AssignedToUser.Name
		if assignee == "" {
			assignee = record.AssignedToUser.Email
		}
	}
	fmt.Fprintf(&b, "%s %s\n", labelStyle.Render("Assignee:"), assignee)
	if record.URL != "" {
		fmt.Fprintf(&b, "%s %s\n", labelStyle.Render("URL:     "), linkStyle.Render(record.URL))
	}
	if field, ok := record.CustomField(aha.PullRequestFieldName); ok && field.Value != nil {
		fmt.Fprintf(&b, "%s %v\n", labelStyle.Render("PR:      "), field.Value)
	}

	b.WriteString("\n")
	if record.Description == nil || strings.TrimSpace(record.Description.Body) == "" {
		b.WriteString(labelStyle.Render("(No description)"))
		return b.String()
	}
	text, err := markdown.FromHTML(record.Description.Body)
	if err != nil {
		text = record.Description.Body
	}
	b.WriteString(ansi.Wrap(text, width, ""))
	return b.String()
}

// helpText is shown in the detail pane above the Feature level.
func helpText(keys KeyMap, level browse.Level) string {
	lines := []string{
		titleStyle.Render("Keys"),
		"",
		helpLine(keys.Up),
		helpLine(keys.Down),
		helpLine(keys.Enter),
		helpLine(keys.Back),
		helpLine(keys.Search),
		helpLine(keys.Quit),
		"esc  close popups",
	}
	if level != browse.LevelProject {
		lines = append(lines,
			"",
			titleStyle.Render("Release actions"),
			"",
			fmt.Sprintf("%s  create a feature in the selected release", keys.Create.Help().Key),
			fmt.Sprintf("%s  create a requirement on the open feature", keys.Create.Help().Key),
		)
	}
	return strings.Join(lines, "\n")
}

func helpLine(binding key.Binding) string {
	help := binding.Help()
	return help.Key + "  " + help.Desc
}
