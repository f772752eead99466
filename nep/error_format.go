package nep

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// sourceLine returns line n (1-based) of source without its terminator.
func sourceLine(source string, n int) (string, bool) {
	for i := 1; ; i++ {
		end := strings.IndexByte(source, '\n')
		if i == n {
			if end >= 0 {
				source = source[:end]
			}
			return strings.TrimSuffix(source, "\r"), true
		}
		if end < 0 {
			return "", false
		}
		source = source[end+1:]
	}
}

// formatCodeFrame renders the line at pos, preceded by the line before it
// when there is one, with a caret under the column.
func formatCodeFrame(source string, pos Position) string {
	if source == "" || pos.Line <= 0 {
		return ""
	}
	text, ok := sourceLine(source, pos.Line)
	if !ok {
		return ""
	}
	column := min(max(pos.Column, 1), utf8.RuneCountInString(text)+1)
	width := len(strconv.Itoa(pos.Line))

	var b strings.Builder
	fmt.Fprintf(&b, "  --> line %d, column %d", pos.Line, column)
	if prev, ok := sourceLine(source, pos.Line-1); ok && pos.Line > 1 && strings.TrimSpace(prev) != "" {
		fmt.Fprintf(&b, "\n %*d | %s", width, pos.Line-1, prev)
	}
	fmt.Fprintf(&b, "\n %*d | %s", width, pos.Line, text)
	fmt.Fprintf(&b, "\n %s | %s^", strings.Repeat(" ", width), strings.Repeat(" ", column-1))
	return b.String()
}
