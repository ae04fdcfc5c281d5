// Package present formats article data for display.
package present

import (
	"fmt"
	"time"
)

// Layout used for anything a week old or more (en-US short date).
const dateLayout = "1/2/2006"

// FormatRelative renders published relative to now: "Just now" under an
// hour, then whole hours, then whole days up to six, then a calendar date.
func FormatRelative(now, published time.Time) string {
	hours := int(now.Sub(published) / time.Hour)
	days := hours / 24

	switch {
	case hours < 1:
		return "Just now"
	case hours < 24:
		return plural(hours, "hour") + " ago"
	case days < 7:
		return plural(days, "day") + " ago"
	default:
		return published.In(now.Location()).Format(dateLayout)
	}
}

// Relative is FormatRelative against the current time.
func Relative(published time.Time) string {
	return FormatRelative(time.Now(), published)
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
