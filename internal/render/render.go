// Package render formats records and status lines as plain text. Colors are
// applied only after EnableColor(true), which the interactive shell calls
// when writing to a terminal.
package render

import (
	"strings"
	"sync/atomic"
	"text/tabwriter"

	"github.com/gookit/color"
)

var colorOn atomic.Bool

// EnableColor turns ANSI colors on or off for every status line.
func EnableColor(on bool) { colorOn.Store(on) }

func paint(c color.Color, s string) string {
	if !colorOn.Load() {
		return s
	}
	return c.Sprint(s)
}

// Success formats a confirmation line.
func Success(msg string) string { return paint(color.Green, msg) }

// Info formats a neutral status line.
func Info(msg string) string { return paint(color.Cyan, msg) }

// Warning formats a notice the user should read.
func Warning(msg string) string { return paint(color.Yellow, msg) }

// Header formats a section heading.
func Header(msg string) string { return paint(color.Bold, msg) }

// Error formats err as a single "Error: ..." line.
func Error(err error) string { return paint(color.Red, "Error: "+err.Error()) }

// ---------------------------------------------------------------------------
// tables
// ---------------------------------------------------------------------------

// table aligns rows under headers in space-padded columns.
func table(headers []string, rows [][]string) string {
	var sb strings.Builder
	tw := tabwriter.NewWriter(&sb, 0, 0, 2, ' ', 0)
	writeRow(tw, headers)
	rule := make([]string, len(headers))
	for i, h := range headers {
		rule[i] = strings.Repeat("-", len(h))
	}
	writeRow(tw, rule)
	for _, r := range rows {
		writeRow(tw, r)
	}
	_ = tw.Flush()
	return sb.String()
}

func writeRow(tw *tabwriter.Writer, cells []string) {
	for i, cell := range cells {
		if i > 0 {
			_, _ = tw.Write([]byte{'\t'})
		}
		_, _ = tw.Write([]byte(cellText(cell)))
	}
	_, _ = tw.Write([]byte{'\n'})
}

// cellText flattens s onto one line so it cannot break the column layout.
func cellText(s string) string {
	return strings.NewReplacer("\t", " ", "\r\n", " ", "\n", " ").Replace(s)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
