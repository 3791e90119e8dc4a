package ui

import (
	"fmt"
	"strings"

	"github.com/bz888/medirag/internal/format"
	"github.com/bz888/medirag/internal/model"
	"github.com/bz888/medirag/internal/session"
	"github.com/rivo/tview"
)

const (
	Title       = "MediRAG"
	Tagline     = "Grounded Drug Information. Zero Hallucination."
	Placeholder = "Ask about a medication, side effects, or contraindications..."
	Source      = "MediRAG System"
)

// Everything below returns text with tview color tags. Backend and user text
// is escaped before it is tagged.

func renderHeader() string {
	return fmt.Sprintf("[::b]%s[::-]\n[gray]%s[-]", Title, Tagline)
}

// renderToggle draws both options. The selected one is highlighted and an
// unavailable one is greyed out with a note.
func renderToggle(options []model.Option, busy bool) string {
	parts := make([]string, 0, len(options))
	for _, o := range options {
		label := tview.Escape(o.Label)
		switch {
		case !o.Available:
			parts = append(parts, fmt.Sprintf("[gray] %s [yellow]unavailable[-]", label))
		case o.Selected && busy:
			parts = append(parts, fmt.Sprintf("[black:gray] %s [-:-]", label))
		case o.Selected:
			parts = append(parts, fmt.Sprintf("[black:white] %s [-:-]", label))
		default:
			parts = append(parts, fmt.Sprintf(" %s ", label))
		}
	}
	return strings.Join(parts, " ") + "  [gray](Ctrl+T)[-]"
}

// renderPanel draws the response panel for one snapshot: the echoed question
// followed by exactly one of the loading skeleton, the error or the answer.
// An untouched session renders as an empty string.
func renderPanel(v session.View) string {
	if v.Query == "" && v.Response == "" && !v.Loading() && !v.Failed() {
		return ""
	}

	var b strings.Builder
	if v.Query != "" {
		fmt.Fprintf(&b, "[red::b]You:[-::-]\n%s\n\n", tview.Escape(v.Query))
	}

	switch {
	case v.Loading():
		b.WriteString(renderSkeleton())
	case v.Failed():
		msg := v.Response
		if msg == "" {
			msg = "An unexpected error occurred."
		}
		fmt.Fprintf(&b, "[red]! %s[-]\n", tview.Escape(msg))
	case v.Response != "":
		b.WriteString("[green::b]MediRAG:[-::-]\n")
		b.WriteString(renderBlocks(format.Format(v.Response)))
		if meta := renderMetadata(v.ModelUsed); meta != "" {
			b.WriteString("\n" + meta + "\n")
		}
	}
	return b.String()
}

func renderSkeleton() string {
	return "[gray]" +
		"▆▆▆▆▆▆▆▆▆▆\n\n" +
		"▆▆▆▆▆▆▆▆▆▆▆▆▆▆▆▆▆▆▆▆▆▆▆▆▆▆▆\n" +
		"▆▆▆▆▆▆▆▆▆▆▆▆▆▆▆▆▆▆▆▆▆▆▆▆▆▆▆▆▆▆\n" +
		"▆▆▆▆▆▆▆▆▆▆▆▆▆▆▆▆▆▆▆▆▆▆▆▆\n\n" +
		"  · ▆▆▆▆▆▆▆▆▆▆▆▆▆▆▆▆▆▆\n" +
		"  · ▆▆▆▆▆▆▆▆▆▆▆▆▆▆▆▆▆▆▆▆▆▆\n" +
		"[-]"
}

func renderBlocks(blocks []format.Block) string {
	var b strings.Builder
	for i, block := range blocks {
		if i > 0 {
			b.WriteString("\n")
		}
		switch block.Kind {
		case format.Heading:
			fmt.Fprintf(&b, "[::b]%s[::-]\n", tview.Escape(block.Text))
		case format.List:
			for _, item := range block.Items {
				fmt.Fprintf(&b, "  [gray]■[-] %s\n", tview.Escape(item))
			}
		default:
			fmt.Fprintf(&b, "%s\n", tview.Escape(block.Text))
		}
	}
	return b.String()
}

// renderMetadata is the footer under an answer. The model is shown as the
// backend reported it, and the footer is empty when it reported none.
func renderMetadata(modelUsed string) string {
	if modelUsed == "" {
		return ""
	}
	return fmt.Sprintf("[gray]Source: %s · Model: %s[-] [green]●[-]", Source, tview.Escape(modelUsed))
}

func renderHelp() string {
	var b strings.Builder
	b.WriteString("[green::b]MediRAG:[-::-]\n")
	b.WriteString("Here are some commands you can use:\n")
	for _, c := range commands {
		fmt.Fprintf(&b, "  [gray]■[-] %s: %s\n", tview.Escape(c.usage), c.help)
	}
	b.WriteString("  [gray]■[-] Ctrl+T: Switch between the local and cloud model\n")
	b.WriteString("  [gray]■[-] Esc: Scroll the conversation\n")
	return b.String()
}
