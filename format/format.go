// Package format implements rofi's "-format" output formatter
// ("-format {s|i|d|q|f|F}"): each letter selects one piece of the
// accepted result, concatenated with a tab between letters.
package format

import (
	"strconv"
	"strings"
)

// Result is everything the output formatter needs to know about an
// accepted entry.
type Result struct {
	Selected string // the entry's display/completion text
	Index    int    // the entry's index in the mode's entry list, -1 for custom input
	Filter   string // the raw input text at the time of acceptance
}

// shellQuote wraps s in single quotes, escaping embedded single quotes,
// matching g_shell_quote's POSIX-shell-safe quoting used by the original
// formatter's 'q'/'F' codes.
func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// Format renders r according to spec, a string of format codes (default
// "s" when empty): s=selected text, i/d=index, q=quoted selected text,
// f=filter text, F=quoted filter text. Unknown codes are skipped.
func Format(spec string, r Result) string {
	if spec == "" {
		spec = "s"
	}
	parts := make([]string, 0, len(spec))
	for _, c := range spec {
		switch c {
		case 's':
			parts = append(parts, r.Selected)
		case 'i', 'd':
			parts = append(parts, strconv.Itoa(r.Index))
		case 'q':
			parts = append(parts, shellQuote(r.Selected))
		case 'f':
			parts = append(parts, r.Filter)
		case 'F':
			parts = append(parts, shellQuote(r.Filter))
		}
	}
	return strings.Join(parts, "\t")
}
