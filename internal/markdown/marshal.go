package markdown

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"gopkg.in/yaml.v3"

	"github.com/dt-pm-tools/aha-cli/internal/aha"
)

var converter = goldmark.New(goldmark.WithExtensions(extension.GFM))

// ToHTML converts markdown typed by the user into the HTML the tracker
// stores in description fields.
func ToHTML(source string) (string, error) {
	var buf bytes.Buffer
	if err := converter.Convert([]byte(source), &buf); err != nil {
		return "", fmt.Errorf("converting markdown: %w", err)
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}

// Marshal converts a feature or requirement into a markdown document with
// YAML frontmatter.
func Marshal(record *aha.Record, kind aha.Kind) (string, error) {
	return marshalAt(record, kind, time.Now().UTC())
}

func marshalAt(record *aha.Record, kind aha.Kind, now time.Time) (string, error) {
	meta := Frontmatter{
		Key:    record.ReferenceNum,
		Kind:   kind.String(),
		Title:  record.Name,
		Status: record.StatusName(),
		URL:    record.URL,
		Synced: now.Format(time.RFC3339),
	}
	if record.Assigned() {
		meta.Assignee = record.AssignedToUser.Email
		if meta.Assignee == "" {
			meta.Assignee = record.AssignedToUser.Name
		}
	}
	if field, ok := record.CustomField(aha.PullRequestFieldName); ok && field.Value != nil {
		meta.PR = fmt.Sprint(field.Value)
	}

	header, err := yaml.Marshal(meta)
	if err != nil {
		return "", fmt.Errorf("marshalling frontmatter: %w", err)
	}

	var b strings.Builder
	b.WriteString("---\n")
	b.Write(header)
	b.WriteString("---\n\n")

	if record.ReferenceNum != "" {
		b.WriteString(fmt.Sprintf("# %s: %s\n\n", record.ReferenceNum, record.Name))
	} else {
		b.WriteString(fmt.Sprintf("# %s\n\n", record.Name))
	}

	b.WriteString("## Description\n\n")
	body := ""
	if record.Description != nil {
		body, err = FromHTML(record.Description.Body)
		if err != nil {
			return "", err
		}
	}
	if body == "" {
		b.WriteString("(No description)\n")
	} else {
		b.WriteString(body)
		b.WriteString("\n")
	}

	if len(record.Requirements) > 0 {
		b.WriteString("\n## Requirements\n\n")
		for _, req := range record.Requirements {
			b.WriteString(fmt.Sprintf("- %s %s [%s]\n", req.ReferenceNum, req.Name, req.StatusName()))
		}
	}

	return b.String(), nil
}
