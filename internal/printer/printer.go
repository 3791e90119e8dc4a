// Package printer writes a finished session to a terminal stream for the
// one-shot ask command.
package printer

import (
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/bz888/medirag/internal/format"
	"github.com/bz888/medirag/internal/session"
	"github.com/charmbracelet/lipgloss"
)

const source = "MediRAG System"

type styles struct {
	heading  lipgloss.Style
	bullet   lipgloss.Style
	meta     lipgloss.Style
	err      lipgloss.Style
	question lipgloss.Style
}

type Printer struct {
	w     io.Writer
	plain bool
	s     styles
}

// New returns a printer for w. Colors follow what w supports; plain
// disables styling altogether.
func New(w io.Writer, plain bool) *Printer {
	r := lipgloss.NewRenderer(w)
	return &Printer{
		w:     w,
		plain: plain,
		s: styles{
			heading:  r.NewStyle().Bold(true).Underline(true),
			bullet:   r.NewStyle().Foreground(lipgloss.Color("8")),
			meta:     r.NewStyle().Faint(true),
			err:      r.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
			question: r.NewStyle().Bold(true),
		},
	}
}

func (p *Printer) render(style lipgloss.Style, text string) string {
	if p.plain {
		return text
	}
	return style.Render(text)
}

// Question echoes the question being asked.
func (p *Printer) Question(q string) error {
	_, err := fmt.Fprintf(p.w, "%s %s\n\n", p.render(p.s.question, "You:"), sanitize(q))
	return err
}

// View prints the outcome held in v. Idle and loading views print nothing.
func (p *Printer) View(v session.View) error {
	var out string
	switch v.Phase {
	case session.Failed:
		msg := v.Response
		if msg == "" {
			msg = "An unexpected error occurred."
		}
		out = p.render(p.s.err, "Error:") + " " + sanitize(msg) + "\n"
	case session.Answered:
		out = p.Blocks(format.Format(sanitize(v.Response)))
		if v.ModelUsed != "" {
			out += "\n" + p.render(p.s.meta, fmt.Sprintf("Source: %s · Model: %s", source, sanitize(v.ModelUsed))) + "\n"
		}
	default:
		return nil
	}
	_, err := io.WriteString(p.w, out)
	return err
}

// sanitize drops control characters, escape sequences included, from text
// that did not come from this program. Newlines and tabs are kept.
func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
}

// Blocks renders formatted blocks separated by blank lines.
func (p *Printer) Blocks(blocks []format.Block) string {
	var b strings.Builder
	for i, block := range blocks {
		if i > 0 {
			b.WriteString("\n")
		}
		switch block.Kind {
		case format.Heading:
			b.WriteString(p.render(p.s.heading, block.Text) + "\n")
		case format.List:
			for _, item := range block.Items {
				fmt.Fprintf(&b, "  %s%s\n", p.render(p.s.bullet, format.Bullet), item)
			}
		default:
			b.WriteString(block.Text + "\n")
		}
	}
	return b.String()
}
