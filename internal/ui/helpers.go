package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/x/ansi"
)

// humanizeDuration renders d with at most two of d/h/m/s, largest first.
// Zero-valued units are skipped; minutes and seconds are dropped once two
// units are present.
func humanizeDuration(d time.Duration) string {
	if d <= 0 {
		return ""
	}
	const day = 24 * time.Hour

	var parts []string
	if days := d / day; days > 0 {
		parts = append(parts, fmt.Sprintf("%dd", days))
		d -= days * day
	}
	if hours := d / time.Hour; hours > 0 {
		parts = append(parts, fmt.Sprintf("%dh", hours))
		d -= hours * time.Hour
	}
	if minutes := d / time.Minute; minutes > 0 && len(parts) < 2 {
		parts = append(parts, fmt.Sprintf("%dm", minutes))
		d -= minutes * time.Minute
	}
	if seconds := d / time.Second; seconds > 0 && len(parts) < 2 {
		parts = append(parts, fmt.Sprintf("%ds", seconds))
	}
	return strings.Join(parts, " ")
}

// fitCell truncates or right-pads value to exactly width cells.
func fitCell(value string, width int) string {
	if width <= 0 {
		return ""
	}
	value = ansi.Truncate(value, width, "…")
	if pad := width - ansi.StringWidth(value); pad > 0 {
		value += strings.Repeat(" ", pad)
	}
	return value
}

// fitCellRight is fitCell with the padding on the left.
func fitCellRight(value string, width int) string {
	if width <= 0 {
		return ""
	}
	value = ansi.Truncate(value, width, "…")
	if pad := width - ansi.StringWidth(value); pad > 0 {
		value = strings.Repeat(" ", pad) + value
	}
	return value
}

// truncateLine cuts a line to width cells without padding.
func truncateLine(value string, width int) string {
	if width <= 0 {
		return ""
	}
	return ansi.Truncate(value, width, "…")
}
