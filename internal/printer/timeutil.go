package printer

import (
	"fmt"
	"time"
)

var agoUnits = []struct {
	size time.Duration
	name string
}{
	{24 * time.Hour, "day"},
	{time.Hour, "hour"},
	{time.Minute, "minute"},
	{time.Second, "second"},
}

// TimeAgo returns how long ago t happened using its largest whole unit,
// e.g. "just now", "1 minute ago", "3 days ago".
func TimeAgo(t time.Time) string {
	diff := time.Since(t)
	if diff < 0 {
		return "in the future"
	}

	for _, u := range agoUnits {
		if diff < u.size {
			continue
		}
		n := int(diff / u.size)
		if n == 1 {
			return fmt.Sprintf("1 %s ago", u.name)
		}
		return fmt.Sprintf("%d %ss ago", n, u.name)
	}

	return "just now"
}
