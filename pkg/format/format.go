// Package format renders byte counts, durations, percentages and
// relative timestamps for the fetchmon TUI's stat panes.
package format

import (
	"fmt"
	"time"
)

const (
	zeroPercent = "0%"
	zeroLatency = "0ms"
	never       = "never"
)

// Bytes renders a byte count using binary (1024) units.
func Bytes(bytes uint64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}

	div, exp := uint64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}

	units := []string{"KB", "MB", "GB", "TB", "PB"}
	return fmt.Sprintf("%.2f %s", float64(bytes)/float64(div), units[exp])
}

// Percentage renders a 0-100 value, e.g. for the connection pool's reuse
// rate.
func Percentage(value float64) string {
	if value == 0 {
		return zeroPercent
	}
	if value == 100.0 {
		return "100%"
	}
	return fmt.Sprintf("%.1f%%", value)
}

// Latency renders a millisecond duration at a resolution that suits a
// live-updating status line.
func Latency(ms int64) string {
	if ms == 0 {
		return zeroLatency
	}
	if ms >= 1000 {
		return fmt.Sprintf("%.1fs", float64(ms)/1000.0)
	}
	if ms < 10 {
		return fmt.Sprintf("%dms", ms)
	}
	return fmt.Sprintf("%dms", ms)
}

// TimeAgo renders how long ago t was, or "never" for the zero time —
// used for a pooled connection's LastUsedAt or a DNS entry's resolve time.
func TimeAgo(t time.Time) string {
	if t.IsZero() {
		return never
	}
	return TimeDuration(time.Since(t)) + " ago"
}

// TimeDuration renders d at whichever resolution (s/m/h/d) keeps the
// output to a couple of characters.
func TimeDuration(d time.Duration) string {
	if d < time.Minute {
		seconds := int(d.Seconds())
		return fmt.Sprintf("%ds", seconds)
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm", int(d.Minutes()))
	}
	if d < 24*time.Hour {
		return fmt.Sprintf("%dh", int(d.Hours()))
	}
	return fmt.Sprintf("%dd", int(d.Hours()/24))
}
