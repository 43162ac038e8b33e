package audio

import (
	"strings"

	"autolrc/internal/language"
	"autolrc/internal/media/ffprobe"
)

// Select returns the audio stream that best matches the preferred language.
// Ties go to the default-flagged stream, then stereo or wider layouts, then
// container order. ok is false when there are no audio streams.
func Select(streams []ffprobe.Stream, preferredLanguage string) (ffprobe.Stream, bool) {
	want := language.ToISO2(preferredLanguage)
	var (
		best      ffprobe.Stream
		bestScore float64
		order     int
	)
	for _, stream := range streams {
		if !strings.EqualFold(stream.CodecType, "audio") {
			continue
		}
		score := 0.0
		if want != "" && language.ToISO2(stream.Language()) == want {
			score += 100
		}
		if stream.Disposition["default"] == 1 {
			score += 10
		}
		if stream.Channels >= 2 {
			score += 1
		}
		score -= float64(order) * 0.01
		order++
		if order == 1 || score > bestScore {
			best, bestScore = stream, score
		}
	}
	return best, order > 0
}
