package markdown

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// FromHTML converts a record description (HTML) into markdown.
func FromHTML(body string) (string, error) {
	if strings.TrimSpace(body) == "" {
		return "", nil
	}
	root, err := html.Parse(strings.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("parsing description: %w", err)
	}
	var b strings.Builder
	renderNode(&b, root, "")
	return collapseBlankLines(strings.TrimSpace(b.String())), nil
}

func renderNode(b *strings.Builder, node *html.Node, listPrefix string) {
	switch node.Type {
	case html.TextNode:
		b.WriteString(collapseSpace(node.Data))
		return
	case html.DocumentNode:
		renderChildren(b, node, listPrefix)
		return
	case html.ElementNode:
	default:
		return
	}

	switch node.DataAtom {
	case atom.Script, atom.Style, atom.Head:

	case atom.P, atom.Div:
		renderChildren(b, node, listPrefix)
		b.WriteString("\n\n")

	case atom.Br:
		b.WriteString("\n")

	case atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
		level := int(node.Data[1] - '0')
		b.WriteString(strings.Repeat("#", level))
		b.WriteString(" ")
		renderChildren(b, node, "")
		b.WriteString("\n\n")

	case atom.Strong, atom.B:
		wrapChildren(b, node, "**")
	case atom.Em, atom.I:
		wrapChildren(b, node, "*")
	case atom.Del, atom.S, atom.Strike:
		wrapChildren(b, node, "~~")
	case atom.Code:
		wrapChildren(b, node, "`")

	case atom.A:
		var text strings.Builder
		renderChildren(&text, node, "")
		href := attr(node, "href")
		if href == "" {
			b.WriteString(text.String())
		} else {
			b.WriteString(fmt.Sprintf("[%s](%s)", text.String(), href))
		}

	case atom.Img:
		b.WriteString(fmt.Sprintf("![%s](%s)", attr(node, "alt"), attr(node, "src")))

	case atom.Ul, atom.Ol:
		index := 0
		for child := node.FirstChild; child != nil; child = child.NextSibling {
			if child.DataAtom != atom.Li {
				continue
			}
			index++
			prefix := "- "
			if node.DataAtom == atom.Ol {
				prefix = fmt.Sprintf("%d. ", index)
			}
			b.WriteString(listPrefix)
			b.WriteString(prefix)
			renderListItem(b, child, listPrefix+strings.Repeat(" ", len(prefix)))
			b.WriteString("\n")
		}
		if listPrefix == "" {
			b.WriteString("\n")
		}

	case atom.Pre:
		b.WriteString("```\n")
		b.WriteString(strings.TrimRight(textContent(node), "\n"))
		b.WriteString("\n```\n\n")

	case atom.Blockquote:
		var inner strings.Builder
		renderChildren(&inner, node, "")
		for _, line := range strings.Split(strings.TrimSpace(inner.String()), "\n") {
			b.WriteString("> ")
			b.WriteString(line)
			b.WriteString("\n")
		}
		b.WriteString("\n")

	case atom.Hr:
		b.WriteString("---\n\n")

	default:
		renderChildren(b, node, listPrefix)
	}
}

// renderListItem writes an item's inline content on the current line and
// nested lists below it, indented under the item text.
func renderListItem(b *strings.Builder, item *html.Node, indent string) {
	var inline strings.Builder
	for child := item.FirstChild; child != nil; child = child.NextSibling {
		if child.DataAtom == atom.Ul || child.DataAtom == atom.Ol {
			b.WriteString(strings.TrimSpace(inline.String()))
			inline.Reset()
			b.WriteString("\n")
			var nested strings.Builder
			renderNode(&nested, child, indent)
			b.WriteString(strings.TrimRight(nested.String(), "\n"))
			continue
		}
		if child.DataAtom == atom.P {
			renderChildren(&inline, child, "")
			continue
		}
		renderNode(&inline, child, "")
	}
	b.WriteString(strings.TrimSpace(inline.String()))
}

func renderChildren(b *strings.Builder, node *html.Node, listPrefix string) {
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		renderNode(b, child, listPrefix)
	}
}

func wrapChildren(b *strings.Builder, node *html.Node, marker string) {
	var inner strings.Builder
	renderChildren(&inner, node, "")
	text := inner.String()
	if strings.TrimSpace(text) == "" {
		b.WriteString(text)
		return
	}
	b.WriteString(marker + text + marker)
}

func textContent(node *html.Node) string {
	if node.Type == html.TextNode {
		return node.Data
	}
	var b strings.Builder
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		b.WriteString(textContent(child))
	}
	return b.String()
}

func attr(node *html.Node, name string) string {
	for _, a := range node.Attr {
		if a.Key == name {
			return a.Val
		}
	}
	return ""
}

// collapseSpace folds runs of whitespace in a text node into single
// spaces, as a browser would.
func collapseSpace(s string) string {
	if s == "" {
		return s
	}
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return " "
	}
	out := strings.Join(fields, " ")
	if isSpace(s[0]) {
		out = " " + out
	}
	if isSpace(s[len(s)-1]) {
		out += " "
	}
	return out
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\n' || c == '\t' || c == '\r'
}

func collapseBlankLines(s string) string {
	lines := strings.Split(s, "\n")
	out := lines[:0]
	blank := 0
	for _, line := range lines {
		line = strings.TrimRight(line, " ")
		if line == "" {
			blank++
			if blank > 1 {
				continue
			}
		} else {
			blank = 0
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}
