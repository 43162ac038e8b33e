package logging

import (
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

type infoField struct {
	label string
	value string
}

const infoAttrLimit = 8

var infoHighlightKeys = []string{
	FieldEventType,
	FieldProgressPercent,
	"source",
	"transcript_source",
	"language",
	"mapper",
	"model",
	"attempt",
	"backoff",
	"status_code",
	"error_message",
	FieldErrorKind,
	FieldErrorHint,
	FieldImpact,
	"words",
	"lines",
	"frames",
	"tokens",
	"audio_duration",
	"stage_duration",
	"fallback",
	"lrc_path",
	"elrc_path",
	"txt_path",
	"attempted",
	"succeeded",
	"failed",
	"reason",
}

var infoRank = func() map[string]int {
	rank := make(map[string]int, len(infoHighlightKeys))
	for i, key := range infoHighlightKeys {
		rank[key] = i
	}
	return rank
}()

// selectInfoFields picks up to limit fields for an info-level summary,
// highlighted keys first in their listed order and the rest in record order.
// It also returns how many fields were left out. limit <= 0 means no limit;
// includeDebug admits debug-only keys and long values.
func selectInfoFields(attrs []kv, limit int, includeDebug bool) ([]infoField, int) {
	type candidate struct {
		kv
		order int
	}
	var picked []candidate
	hidden := 0
	for i, attr := range attrs {
		if skipInfoKey(attr.key) {
			continue
		}
		if !includeDebug && isDebugOnlyKey(attr.key) {
			hidden++
			continue
		}
		order := len(infoHighlightKeys) + i
		if r, ok := infoRank[attr.key]; ok {
			order = r
		}
		picked = append(picked, candidate{kv: attr, order: order})
	}
	slices.SortStableFunc(picked, func(a, b candidate) int { return a.order - b.order })

	fields := make([]infoField, 0, min(len(picked), infoAttrLimit))
	for _, c := range picked {
		value := formatValueForKey(c.key, c.value)
		if !includeDebug && shouldHideInfoValue(c.key, value) {
			hidden++
			continue
		}
		if limit > 0 && len(fields) >= limit {
			hidden++
			continue
		}
		fields = append(fields, infoField{label: displayLabel(c.key), value: value})
	}
	return fields, hidden
}

// formatValueForKey applies smart formatting based on the key name.
func formatValueForKey(key string, v slog.Value) string {
	v = v.Resolve()

	// Handle byte sizes
	if isByteSizeKey(key) && (v.Kind() == slog.KindInt64 || v.Kind() == slog.KindUint64) {
		var bytes int64
		if v.Kind() == slog.KindInt64 {
			bytes = v.Int64()
		} else {
			bytes = int64(v.Uint64())
		}
		return humanize.IBytes(uint64(max(bytes, 0)))
	}

	// Handle durations
	if isDurationKey(key) && v.Kind() == slog.KindDuration {
		return formatDurationHuman(v.Duration())
	}

	// Handle percentages
	if isPercentKey(key) && v.Kind() == slog.KindFloat64 {
		return formatPercent(v.Float64())
	}

	// Handle booleans with friendlier display
	if v.Kind() == slog.KindBool {
		if v.Bool() {
			return "yes"
		}
		return "no"
	}

	value := plainValue(v)
	if key == "error" || key == "error_message" {
		value = truncateErrorValue(value)
	}
	return value
}

// isByteSizeKey returns true if the key represents a byte size.
func isByteSizeKey(key string) bool {
	return strings.HasSuffix(key, "_bytes") ||
		strings.HasSuffix(key, "_size") ||
		key == "size" ||
		key == "audio_bytes"
}

// isDurationKey returns true if the key represents a duration.
func isDurationKey(key string) bool {
	return strings.HasSuffix(key, "_duration") ||
		strings.HasSuffix(key, "_elapsed") ||
		strings.HasSuffix(key, "_latency") ||
		key == "elapsed" ||
		key == "duration" ||
		key == "backoff"
}

// isPercentKey returns true if the key represents a percentage.
func isPercentKey(key string) bool {
	return strings.HasSuffix(key, "_percent") ||
		key == FieldProgressPercent
}

func truncateErrorValue(value string) string {
	value = strings.TrimSpace(value)
	const maxLen = 200
	if len(value) > maxLen {
		value = value[:maxLen] + "…"
	}
	return value
}

func skipInfoKey(key string) bool {
	switch key {
	case "", FieldJobID, FieldStage, FieldComponent:
		return true
	default:
		return false
	}
}

func isDebugOnlyKey(key string) bool {
	if key == "" {
		return true
	}
	switch key {
	case FieldRunID,
		"command",
		"args",
		"temp_dir",
		"wav_path",
		"vocals_path",
		"sample_rate",
		"num_samples",
		"vocab_size",
		"frame_duration",
		"prompt":
		return true
	}
	if strings.HasSuffix(key, "_id") && key != FieldJobID {
		return true
	}
	if strings.HasPrefix(key, "ffprobe.") {
		return true
	}
	if strings.HasSuffix(key, "_dir") {
		return true
	}
	return false
}

func shouldHideInfoValue(key, value string) bool {
	switch key {
	case "error_message", "error", "source":
		return false
	}
	return len(value) > 120
}

func displayLabel(key string) string {
	switch key {
	case FieldEventType:
		return "Event"
	case FieldErrorKind:
		return "Error Kind"
	case FieldErrorHint:
		return "Hint"
	case FieldProgressPercent:
		return "Progress"
	case FieldJobID:
		return "Job"
	case FieldStage:
		return "Stage"
	case "transcript_source":
		return "Transcript"
	case "status_code":
		return "HTTP Status"
	case "audio_duration":
		return "Audio"
	case "stage_duration":
		return "Duration"
	case "lrc_path":
		return "LRC"
	case "elrc_path":
		return "eLRC"
	case "txt_path":
		return "Text"
	default:
		return titleizeKey(key)
	}
}

func titleizeKey(key string) string {
	if key == "" {
		return ""
	}
	parts := strings.FieldsFunc(key, func(r rune) bool {
		return r == '_' || r == '-'
	})
	if len(parts) == 0 {
		return strings.ToUpper(key[:1]) + strings.ToLower(key[1:])
	}
	for i, part := range parts {
		parts[i] = capitalizeASCII(part)
	}
	return strings.Join(parts, " ")
}

func capitalizeASCII(value string) string {
	switch len(value) {
	case 0:
		return ""
	case 1:
		return strings.ToUpper(value)
	default:
		lower := strings.ToLower(value)
		return strings.ToUpper(lower[:1]) + lower[1:]
	}
}

func formatDurationHuman(d time.Duration) string {
	switch {
	case d < time.Second:
		return d.Round(time.Millisecond).String()
	case d < time.Minute:
		return fmt.Sprintf("%.1fs", d.Seconds())
	default:
		return d.Round(time.Second).String()
	}
}

func formatPercent(value float64) string {
	return strconv.FormatFloat(value, 'f', 1, 64) + "%"
}
