package render

import (
	"fmt"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/charmbracelet/glamour"

	"github.com/jarv/ytgoat/internal/columns"
	"github.com/jarv/ytgoat/internal/logging"
	"github.com/jarv/ytgoat/internal/videos"
)

// HTMLToMarkdown converts an item description to markdown. Descriptions are
// usually plain text, which passes through with blank lines squeezed.
func HTMLToMarkdown(input string) string {
	if input == "" {
		return ""
	}

	markdown, err := md.ConvertString(input)
	if err != nil {
		logging.Warn("Failed to convert HTML to markdown", "error", err)
		return input
	}

	markdown = strings.TrimSpace(markdown)
	lines := strings.Split(markdown, "\n")
	var cleanLines []string
	blank := false
	for _, line := range lines {
		line = strings.TrimRight(line, " \t")
		if line == "" {
			if !blank && len(cleanLines) > 0 {
				cleanLines = append(cleanLines, "")
			}
			blank = true
			continue
		}
		blank = false
		cleanLines = append(cleanLines, line)
	}

	return strings.Join(cleanLines, "\n")
}

// DetailMarkdown builds the markdown document for the item detail view
func DetailMarkdown(index int, item videos.Item) string {
	var b strings.Builder

	title := item.Title
	if title == "" {
		title = item.VideoID
	}
	fmt.Fprintf(&b, "# %s\n\n", escapeMarkdown(title))

	b.WriteString("| Field | Value |\n|---|---|\n")
	for _, col := range columns.DefaultColumns() {
		if col.Name == columns.Description || col.Name == columns.Title {
			continue
		}
		text, err := CellText(col.Name, index, item)
		if err != nil || text == "" {
			continue
		}
		fmt.Fprintf(&b, "| %s | %s |\n", col.Name, escapeTableCell(text))
	}

	if desc := HTMLToMarkdown(item.Description); desc != "" {
		b.WriteString("\n## Description\n\n")
		b.WriteString(desc)
		b.WriteString("\n")
	}

	return b.String()
}

func escapeMarkdown(s string) string {
	r := strings.NewReplacer("*", "\\*", "_", "\\_", "`", "\\`", "#", "\\#")
	return r.Replace(s)
}

func escapeTableCell(s string) string {
	return strings.ReplaceAll(flatten(s), "|", "\\|")
}

// MarkdownRenderer renders markdown for the terminal with glamour
type MarkdownRenderer struct {
	renderer *glamour.TermRenderer
}

func NewMarkdownRenderer(glamourStyle string, width int) *MarkdownRenderer {
	if width <= 0 {
		width = 80
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(glamourStyle),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		logging.Warn("Failed to create glamour renderer, using defaults", "style", glamourStyle, "error", err)
		renderer, err = glamour.NewTermRenderer(glamour.WithWordWrap(width))
		if err != nil {
			logging.Error("Failed to create glamour renderer", "error", err)
			return &MarkdownRenderer{}
		}
	}
	return &MarkdownRenderer{renderer: renderer}
}

// Render returns the styled markdown, or the input unchanged if rendering fails
func (r *MarkdownRenderer) Render(markdown string) string {
	if r == nil || r.renderer == nil {
		return markdown
	}
	out, err := r.renderer.Render(markdown)
	if err != nil {
		logging.Warn("Failed to render markdown", "error", err)
		return markdown
	}
	return out
}
