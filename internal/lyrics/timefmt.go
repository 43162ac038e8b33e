package lyrics

import (
	"fmt"
	"math"
)

// FormatTime renders seconds as an LRC tag, [mm:ss.hh].
func FormatTime(seconds float64) string {
	return "[" + clock(seconds) + "]"
}

func inlineTime(seconds float64) string {
	return "<" + clock(seconds) + ">"
}

func clock(seconds float64) string {
	cs := centiseconds(seconds)
	return fmt.Sprintf("%02d:%02d.%02d", cs/6000, (cs%6000)/100, cs%100)
}

func centiseconds(seconds float64) int64 {
	if math.IsNaN(seconds) || seconds <= 0 {
		return 0
	}
	if math.IsInf(seconds, 1) {
		return math.MaxInt64 / 2
	}
	return int64(math.Round(seconds * 100))
}
