package formatter

import (
	"fmt"
	"strings"
)

const (
	filledBlock = "█"
	emptyBlock  = "░"
)

// RenderProgress renders a progress bar like [████░░░░] 45% for a
// percentage in [0, 100]. Complete work is green, started work blue.
func RenderProgress(pct float64, width int) string {
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	if width < 2 {
		width = 2
	}

	filled := int(pct / 100 * float64(width))
	bar := strings.Repeat(filledBlock, filled) + strings.Repeat(emptyBlock, width-filled)

	style := StyleBlue
	switch {
	case pct >= 100:
		style = StyleGreen
	case pct == 0:
		style = StyleDim
	}
	return fmt.Sprintf("[%s] %3.0f%%", style.Render(bar), pct)
}
