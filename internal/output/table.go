package output

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
	"golang.org/x/term"

	"bilisweep/internal/format"
	"bilisweep/internal/model"
)

// TableFormatter renders decisions as a terminal table followed by the run
// summary.
type TableFormatter struct{}

var (
	colorRemove = color.New(color.FgRed)
	colorKeep   = color.New(color.FgGreen)
	colorSkip   = color.New(color.FgYellow)
	colorFailed = color.New(color.FgRed, color.Bold)
)

// displayWidth returns the visible width of a string in terminal columns.
// Display names are mostly CJK, so byte or rune counts are useless here.
func displayWidth(s string) int {
	return runewidth.StringWidth(s)
}

// truncateToWidth truncates a string to fit within maxWidth display columns.
func truncateToWidth(s string, maxWidth int) string {
	if displayWidth(s) <= maxWidth {
		return s
	}
	return runewidth.Truncate(s, maxWidth, "...")
}

// padRight pads a string with spaces to reach the target visible width.
func padRight(s string, targetWidth int) string {
	w := displayWidth(s)
	if w >= targetWidth {
		return s
	}
	return s + strings.Repeat(" ", targetWidth-w)
}

// colorAction renders an action label padded to width, applying color after
// padding so escape sequences never skew column alignment.
func colorAction(a model.Action, width int) string {
	var c *color.Color
	var label string
	switch a {
	case model.ActionRemove:
		c, label = colorRemove, "REMOVE"
	case model.ActionSkip:
		c, label = colorSkip, "SKIP"
	default:
		c, label = colorKeep, "KEEP"
	}
	return c.Sprint(padRight(label, width))
}

// terminalWidth returns the width of the terminal behind w, or fallback
// when w is not a terminal (pipes, test buffers).
func terminalWidth(w io.Writer, fallback int) int {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return fallback
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width <= 0 {
		return fallback
	}
	return width
}

// Format outputs the decision table and summary.
func (f *TableFormatter) Format(decisions []model.Decision, report *model.RunReport, w io.Writer) error {
	if len(decisions) == 0 {
		fmt.Fprintln(w, "No accounts evaluated.")
		printSummary(report, w)
		return nil
	}

	const (
		colIndex  = 5
		colUID    = 12
		colName   = 24
		colAction = 6
		colActive = 8
	)

	// Reason gets whatever width remains; 10 covers the column gaps.
	width := terminalWidth(w, 120)
	colReason := max(width-colIndex-colUID-colName-colAction-colActive-10, 20)

	fmt.Fprintf(w, "%*s  %-*s  %-*s  %-*s  %-*s  %s\n",
		colIndex, "#",
		colUID, "UID",
		colName, "Name",
		colAction, "Action",
		colActive, "Active",
		"Reason")
	fmt.Fprintln(w, strings.Repeat("-", colIndex+colUID+colName+colAction+colActive+40))

	for _, d := range decisions {
		name := truncateToWidth(d.Account.Name, colName)

		active := "-"
		if d.LastActive > 0 {
			active = format.Age(time.Since(time.Unix(d.LastActive, 0)))
		}

		fmt.Fprintf(w, "%*d  %-*d  %s  %s  %-*s  %s\n",
			colIndex, d.Index,
			colUID, d.Account.ID,
			padRight(name, colName),
			colorAction(d.Action, colAction),
			colActive, active,
			truncateToWidth(d.Reason, colReason))
	}

	printSummary(report, w)
	return nil
}

func printSummary(report *model.RunReport, w io.Writer) {
	fmt.Fprintf(w, "\nScanned %d accounts in %ds: removed %d, kept %d, skipped %d",
		report.TotalScanned, report.Seconds, report.Removed, report.Kept, report.Skipped)
	if report.Failed > 0 {
		fmt.Fprintf(w, ", %s %d", colorFailed.Sprint("failed"), report.Failed)
	}
	fmt.Fprintln(w)

	if report.FollowListIncomplete {
		fmt.Fprintln(w, colorSkip.Sprint("Note: the follow list could not be fully enumerated; this sweep covered a partial list."))
	}
	if report.RateLimited {
		fmt.Fprintln(w, colorFailed.Sprint("Run aborted by the platform's rate limit; remaining accounts were NOT evaluated. Re-run later with a larger lag range."))
	}
}
