package timing

import (
	"strconv"
	"strings"
)

// Measure is the metric name used in summary lines.
const Measure = "redis"

// FormatSummary renders a drained window as
// "measure#redis.average=<avg>ms measure#redis.max=<max>ms".
// Both values use two significant digits.
func FormatSummary(avg, max float64) string {
	var b strings.Builder
	b.Grow(64)
	b.WriteString("measure#")
	b.WriteString(Measure)
	b.WriteString(".average=")
	b.WriteString(formatMs(avg))
	b.WriteString("ms measure#")
	b.WriteString(Measure)
	b.WriteString(".max=")
	b.WriteString(formatMs(max))
	b.WriteString("ms")
	return b.String()
}

func formatMs(v float64) string {
	return strconv.FormatFloat(v, 'g', 2, 64)
}
