package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/gantt/internal/calendar"
	"github.com/charmbracelet/lipgloss"
)

// RenderBox wraps content in a rounded-border box with an optional title.
func RenderBox(title string, content string) string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorDim).
		PaddingLeft(2).
		PaddingRight(2).
		PaddingTop(1).
		PaddingBottom(1)

	if title != "" {
		titleRendered := StyleHeader.Render(strings.ToUpper(title))
		return boxStyle.Render(titleRendered + "\n\n" + content)
	}
	return boxStyle.Render(content)
}

// HumanTimestamp returns a relative timestamp for recent times and an
// absolute one otherwise.
func HumanTimestamp(t time.Time) string {
	return HumanTimestampFrom(t, time.Now())
}

func HumanTimestampFrom(t, now time.Time) string {
	diff := now.Sub(t)
	switch {
	case diff < 0:
		return t.Local().Format("Jan 2, 2006 15:04")
	case diff < time.Minute:
		return "Just now"
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	default:
		return t.Local().Format("Jan 2, 2006 15:04")
	}
}

// DateRange renders an inclusive range with its length, e.g.
// "2025-01-01 → 2025-01-05 (5d)".
func DateRange(start, end time.Time) string {
	return fmt.Sprintf("%s → %s %s", calendar.Format(start), calendar.Format(end),
		Dim(fmt.Sprintf("(%dd)", calendar.Duration(start, end))))
}

// Money renders an amount with its currency code.
func Money(amount float64, currency string) string {
	return fmt.Sprintf("%.2f %s", amount, currency)
}

// TruncID returns the first 8 characters of an ID, dimmed.
func TruncID(id string) string {
	if len(id) > 8 {
		id = id[:8]
	}
	return StyleDim.Render(id)
}

// Slip renders a signed day offset; zero is dimmed.
func Slip(days int) string {
	switch {
	case days > 0:
		return StyleRed.Render(fmt.Sprintf("%+dd", days))
	case days < 0:
		return StyleGreen.Render(fmt.Sprintf("%+dd", days))
	default:
		return Dim("0d")
	}
}
