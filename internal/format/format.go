// Package format turns a raw answer into display blocks. It is a heuristic,
// not a markdown parser: a short sentence without closing punctuation is
// treated as a heading.
package format

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

type Kind int

const (
	Paragraph Kind = iota
	Heading
	List
)

func (k Kind) String() string {
	switch k {
	case Heading:
		return "heading"
	case List:
		return "list"
	default:
		return "paragraph"
	}
}

// Block is one section of a formatted answer. Items is only set for lists.
type Block struct {
	Kind  Kind
	Text  string
	Items []string
}

// Bullet is the uniform list marker every list line is rewritten to.
const Bullet = "• "

const maxHeadingLen = 60

var (
	listLine     = regexp.MustCompile(`^[ \t]*(?:[-*]|\d+\.)[ \t]+(.+)$`)
	bulletPrefix = regexp.MustCompile(`^•\s*`)
)

// Format splits raw on blank lines and classifies every section.
func Format(raw string) []Block {
	text := normalizeLists(strings.ReplaceAll(raw, "\r\n", "\n"))

	var blocks []Block
	for _, section := range strings.Split(text, "\n\n") {
		if strings.TrimSpace(section) == "" {
			continue
		}
		blocks = append(blocks, classify(section))
	}
	return blocks
}

// normalizeLists rewrites "- x", "* x" and "1. x" lines to "• x". Matching is
// done per line so the blank line in front of a list is never consumed.
func normalizeLists(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if m := listLine.FindStringSubmatch(line); m != nil {
			lines[i] = Bullet + m[1]
		}
	}
	return strings.Join(lines, "\n")
}

func classify(section string) Block {
	if strings.Contains(strings.TrimSpace(section), Bullet) {
		return Block{Kind: List, Items: listItems(section)}
	}
	if isHeading(section) {
		return Block{Kind: Heading, Text: strings.TrimSuffix(section, ":")}
	}
	return Block{Kind: Paragraph, Text: section}
}

func listItems(section string) []string {
	var items []string
	for _, line := range strings.Split(section, "\n") {
		item := strings.TrimSpace(bulletPrefix.ReplaceAllString(line, ""))
		if item == "" {
			continue
		}
		items = append(items, item)
	}
	return items
}

func isHeading(section string) bool {
	if utf8.RuneCountInString(section) >= maxHeadingLen {
		return false
	}
	if strings.Contains(section, "\n") {
		return false
	}
	if strings.HasSuffix(section, ":") {
		return true
	}
	return !strings.HasSuffix(section, ".") &&
		!strings.HasSuffix(section, "!") &&
		!strings.HasSuffix(section, "?")
}
