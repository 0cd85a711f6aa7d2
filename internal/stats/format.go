package stats

import "fmt"

// FormatDuration renders ms as "1h 5m" or "5m", truncating seconds.
func FormatDuration(ms int64) string {
	minutes := max(ms, 0) / 60000
	if h := minutes / 60; h > 0 {
		return fmt.Sprintf("%dh %dm", h, minutes%60)
	}
	return fmt.Sprintf("%dm", minutes)
}

// FormatReward renders fractional reward milliseconds like FormatDuration.
func FormatReward(ms float64) string {
	return FormatDuration(int64(ms))
}

// FormatRunning renders a live total: "1h 5m" once past an hour,
// otherwise "5m 12s" so the display visibly ticks. Zero is "0m".
func FormatRunning(ms int64) string {
	if ms <= 0 {
		return "0m"
	}
	secs := ms / 1000
	minutes := secs / 60
	if h := minutes / 60; h > 0 {
		return fmt.Sprintf("%dh %dm", h, minutes%60)
	}
	return fmt.Sprintf("%dm %ds", minutes, secs%60)
}

// FormatClock renders a stopwatch face: "MM:SS", or "HH:MM:SS" past an
// hour.
func FormatClock(ms int64) string {
	secs := max(ms, 0) / 1000
	h, m, s := secs/3600, (secs%3600)/60, secs%60
	if h > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}
