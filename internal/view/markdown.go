package view

import (
	"fmt"
	"strings"
	"time"

	"github.com/idilsaglam/standup/internal/model"
)

// Markdown renders entries as a report grouped under relative date
// headings. since, when non-zero, is noted under the title.
func Markdown(entries []model.Entry, now, since time.Time) string {
	var b strings.Builder
	b.WriteString("# Standup report\n\n")
	if !since.IsZero() {
		fmt.Fprintf(&b, "_Since %s_\n\n", since.Format("Monday, January 2, 2006"))
	}
	if len(entries) == 0 {
		b.WriteString("_" + EmptyTitle + "._\n")
		return b.String()
	}
	for _, g := range GroupByDate(entries) {
		fmt.Fprintf(&b, "## %s\n\n", Heading(g.Date, now))
		for _, e := range g.Entries {
			fmt.Fprintf(&b, "### %s\n\n", escape(strings.ReplaceAll(e.Name, "\n", " ")))
			section(&b, "Yesterday", e.Yesterday)
			section(&b, "Today", e.Today)
			if e.Blockers != "" {
				section(&b, "Blockers", e.Blockers)
			}
		}
	}
	return b.String()
}

func section(b *strings.Builder, title, text string) {
	if strings.TrimSpace(text) == "" {
		text = "_none_"
	} else {
		text = escape(text)
	}
	fmt.Fprintf(b, "**%s**\n\n%s\n\n", title, text)
}

var inlineEscaper = strings.NewReplacer(
	`\`, `\\`, "`", "\\`", "*", `\*`, "_", `\_`, "[", `\[`, "]", `\]`,
	"<", `\<`, ">", `\>`, "|", `\|`, "~", `\~`,
)

// escape makes user text render literally. No line of the result can open
// a block of its own.
func escape(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = escapeLineStart(inlineEscaper.Replace(strings.TrimLeft(line, " \t")))
	}
	return strings.Join(lines, "\n")
}

func escapeLineStart(line string) string {
	if line == "" {
		return line
	}
	switch line[0] {
	case '#', '-', '+', '=':
		return `\` + line
	}
	// ordered list marker: digits followed by "." or ")"
	i := 0
	for i < len(line) && line[i] >= '0' && line[i] <= '9' {
		i++
	}
	if i > 0 && i < len(line) && (line[i] == '.' || line[i] == ')') {
		return line[:i] + `\` + line[i:]
	}
	return line
}
