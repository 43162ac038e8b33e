package logging

import "strings"

const shortIDLength = 8

// FormatSubject builds the job/stage subject string used in console output.
// Job identifiers are UUIDs; only the leading block is shown.
func FormatSubject(jobID, stage string) string {
	jobID = ShortID(jobID)
	stage = strings.TrimSpace(stage)
	switch {
	case jobID != "" && stage != "":
		return "Job " + jobID + " (" + stage + ")"
	case jobID != "":
		return "Job " + jobID
	default:
		return stage
	}
}

// ShortID trims an identifier to its first block for display.
func ShortID(id string) string {
	id = strings.TrimSpace(id)
	if len(id) > shortIDLength {
		return id[:shortIDLength]
	}
	return id
}
