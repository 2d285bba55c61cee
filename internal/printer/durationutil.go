package printer

import (
	"fmt"
	"time"
)

// FormatDuration returns a short human-readable duration.
// Examples: "0s", "850ms", "12.4s", "3m05s", "1h02m".
func FormatDuration(d time.Duration) string {
	if d <= 0 {
		return "0s"
	}

	switch {
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	case d < time.Minute:
		return fmt.Sprintf("%.1fs", d.Seconds())
	case d < time.Hour:
		m := int(d / time.Minute)
		s := int((d % time.Minute) / time.Second)
		return fmt.Sprintf("%dm%02ds", m, s)
	default:
		h := int(d / time.Hour)
		m := int((d % time.Hour) / time.Minute)
		return fmt.Sprintf("%dh%02dm", h, m)
	}
}
