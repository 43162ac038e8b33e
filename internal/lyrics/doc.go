// Package lyrics renders timed words into LRC and enhanced LRC documents.
//
// Both formats share FormatTime, which rounds to whole centiseconds before
// splitting into minutes, seconds and hundredths, so a value such as 59.999
// renders as [01:00.00] rather than [00:60.00]. Minutes are never wrapped
// into hours.
//
// The package also carries the low-fidelity timing strategies used when no
// acoustic model is available: evenly spaced words and energy-onset matching.
package lyrics
