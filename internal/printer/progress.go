package printer

import (
	"fmt"
	"strings"
)

// DefaultBarWidth is the width of the progress bars.
const DefaultBarWidth = 30

// ProgressBar returns an ASCII progress bar for a percentage in [0, 100].
func ProgressBar(pct float64, width int) string {
	if width <= 0 {
		width = DefaultBarWidth
	}

	filled := int(pct / 100 * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}

	return "[" + strings.Repeat("=", filled) + strings.Repeat(" ", width-filled) + "]"
}

// FormatPercent returns a rounded percentage.
func FormatPercent(pct float64) string {
	return fmt.Sprintf("%3.0f%%", pct)
}
