package lyrics

import (
	"bufio"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	tagPattern    = regexp.MustCompile(`\[\d+:\d{2}\.\d{2}\]|<\d+:\d{2}\.\d{2}>`)
	leadPattern   = regexp.MustCompile(`^\[(\d+):(\d{2})\.(\d{2})\]`)
	inlinePattern = regexp.MustCompile(`<(\d+):(\d{2})\.(\d{2})>([^<]*)`)
)

// StripTimestamps removes every line and inline tag, collapses runs of
// whitespace and drops blank lines.
func StripTimestamps(text string) string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		line = tagPattern.ReplaceAllString(line, " ")
		if fields := strings.Fields(line); len(fields) > 0 {
			out = append(out, strings.Join(fields, " "))
		}
	}
	if len(out) == 0 {
		return ""
	}
	return strings.Join(out, "\n") + "\n"
}

// ParseLRC reads LRC or enhanced LRC text back into a Document. Lines without
// a leading tag are skipped. Words on plain LRC lines inherit the line start.
// End times are filled from the following word where known.
func ParseLRC(text string) (Document, error) {
	var doc Document
	scanner := bufio.NewScanner(strings.NewReader(text))
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		raw := strings.TrimSpace(scanner.Text())
		m := leadPattern.FindStringSubmatch(raw)
		if m == nil {
			continue
		}
		start, err := tagSeconds(m[1], m[2], m[3])
		if err != nil {
			return Document{}, fmt.Errorf("line %d: %w", lineNo, err)
		}
		rest := raw[len(m[0]):]
		line := Line{Start: start}
		if inline := inlinePattern.FindAllStringSubmatch(rest, -1); len(inline) > 0 {
			for _, im := range inline {
				ws, err := tagSeconds(im[1], im[2], im[3])
				if err != nil {
					return Document{}, fmt.Errorf("line %d: %w", lineNo, err)
				}
				text := strings.TrimSpace(im[4])
				if text == "" {
					continue
				}
				line.Words = append(line.Words, Word{Text: text, Start: ws, End: ws})
			}
		} else {
			for _, f := range strings.Fields(rest) {
				line.Words = append(line.Words, Word{Text: f, Start: start, End: start})
			}
		}
		if len(line.Words) > 0 {
			doc.Lines = append(doc.Lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return Document{}, err
	}
	fillEnds(&doc)
	return doc, nil
}

func fillEnds(doc *Document) {
	var prev *Word
	for i := range doc.Lines {
		for j := range doc.Lines[i].Words {
			w := &doc.Lines[i].Words[j]
			if prev != nil && w.Start > prev.End {
				prev.End = w.Start
			}
			prev = w
		}
	}
}

func tagSeconds(mins, secs, hund string) (float64, error) {
	m, err := strconv.Atoi(mins)
	if err != nil {
		return 0, fmt.Errorf("invalid minutes %q", mins)
	}
	s, err := strconv.Atoi(secs)
	if err != nil || s >= 60 {
		return 0, fmt.Errorf("invalid seconds %q", secs)
	}
	h, err := strconv.Atoi(hund)
	if err != nil {
		return 0, fmt.Errorf("invalid hundredths %q", hund)
	}
	return float64(m*6000+s*100+h) / 100, nil
}
