package formatter

import (
	"fmt"
	"strings"
)

const (
	filledBlock = "█"
	emptyBlock  = "░"
)

// RenderEffort renders logged against planned minutes as a bar, e.g.
// [████░░░░] 1h of 2h. Green once two thirds are done, red below one third.
func RenderEffort(loggedMin, plannedMin, width int) string {
	width = max(width, 2)
	pct := 1.0
	if plannedMin > 0 {
		pct = min(max(float64(loggedMin)/float64(plannedMin), 0), 1)
	}

	filled := int(pct * float64(width))
	bar := strings.Repeat(filledBlock, filled) + strings.Repeat(emptyBlock, width-filled)

	style := StyleGreen
	switch {
	case pct < 0.33:
		style = StyleRed
	case pct < 0.66:
		style = StyleYellow
	}
	return fmt.Sprintf("[%s] %s of %s", style.Render(bar), FormatMinutes(loggedMin), FormatMinutes(plannedMin))
}
