package robots

import (
	"math"
	"strconv"
	"time"
)

// parseCrawlDelay parses the value of a crawl-delay directive, a
// non-negative decimal number of seconds (possibly fractional, e.g.
// ".5", "1.5", "30"), into a millisecond duration. Anything else
// (empty, non-numeric, trailing garbage) reports ok == false.
func parseCrawlDelay(value string) (time.Duration, bool) {
	if value == "" {
		return 0, false
	}
	seconds, err := strconv.ParseFloat(value, 64)
	if err != nil || seconds < 0 || math.IsInf(seconds, 0) || math.IsNaN(seconds) {
		return 0, false
	}
	return time.Duration(seconds * float64(time.Second)), true
}
