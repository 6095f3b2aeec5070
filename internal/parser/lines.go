package parser

import (
	"strings"
)

// Lines splits raw receipt text into trimmed, non-empty lines in original order
func Lines(text string) []string {
	raw := strings.Split(text, "\n")
	lines := make([]string, 0, len(raw))
	for _, line := range raw {
		// Copy-pasted web pages carry non-breaking spaces that RE2's \s ignores
		line = strings.ReplaceAll(line, "\u00a0", " ")
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

// cursor walks a line sequence with small lookahead and lookbehind windows
type cursor struct {
	lines []string
	pos   int
}

func newCursor(lines []string) *cursor {
	return &cursor{lines: lines}
}

func (c *cursor) done() bool {
	return c.pos >= len(c.lines)
}

func (c *cursor) line() string {
	if c.done() {
		return ""
	}
	return c.lines[c.pos]
}

// peek returns the line n positions ahead of the cursor
func (c *cursor) peek(n int) (string, bool) {
	i := c.pos + n
	if i < 0 || i >= len(c.lines) {
		return "", false
	}
	return c.lines[i], true
}

// behind returns the line n positions before the cursor
func (c *cursor) behind(n int) (string, bool) {
	return c.peek(-n)
}

// advance moves forward by n lines, never less than one
func (c *cursor) advance(n int) {
	if n < 1 {
		n = 1
	}
	c.pos += n
}
