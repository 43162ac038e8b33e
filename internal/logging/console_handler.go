package logging

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"
)

const consoleTimeLayout = "15:04:05"

// consoleHandler writes one header line per record followed by an indented
// summary of the interesting attributes. Debug records list every attribute
// in logfmt form instead.
type consoleHandler struct {
	mu        *sync.Mutex
	writer    io.Writer
	level     slog.Leveler
	attrs     []slog.Attr
	groups    []string
	addSource bool
}

func newConsoleHandler(w io.Writer, level slog.Leveler, addSource bool) slog.Handler {
	return &consoleHandler{mu: &sync.Mutex{}, writer: w, level: level, addSource: addSource}
}

func (h *consoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *consoleHandler) Handle(_ context.Context, record slog.Record) error {
	entry := h.collect(record)

	var buf bytes.Buffer
	entry.writeHeader(&buf, h.addSource)
	if record.Level < slog.LevelInfo {
		entry.writeLogfmt(&buf)
	} else {
		entry.writeSummary(&buf)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.writer.Write(buf.Bytes())
	return err
}

func (h *consoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := *h
	next.attrs = append(append([]slog.Attr(nil), h.attrs...), attrs...)
	return &next
}

func (h *consoleHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	next := *h
	next.groups = append(append([]string(nil), h.groups...), name)
	return &next
}

// consoleEntry is a record with its routing attributes pulled out.
type consoleEntry struct {
	time      time.Time
	level     slog.Level
	message   string
	source    *slog.Source
	component string
	jobID     string
	stage     string
	fields    []kv
}

type kv struct {
	key   string
	value slog.Value
}

func (h *consoleHandler) collect(record slog.Record) consoleEntry {
	entry := consoleEntry{
		time:    record.Time,
		level:   record.Level,
		message: strings.TrimSpace(record.Message),
		source:  record.Source(),
	}
	if entry.time.IsZero() {
		entry.time = time.Now()
	}

	var all []kv
	for _, attr := range h.attrs {
		flattenAttr(&all, h.groups, attr)
	}
	record.Attrs(func(attr slog.Attr) bool {
		flattenAttr(&all, h.groups, attr)
		return true
	})

	for _, field := range lastWins(all) {
		switch field.key {
		case FieldComponent:
			entry.component = plainValue(field.value)
			continue
		case FieldJobID:
			entry.jobID = plainValue(field.value)
			continue
		case FieldStage:
			entry.stage = plainValue(field.value)
			continue
		}
		entry.fields = append(entry.fields, field)
	}
	return entry
}

func (e consoleEntry) writeHeader(buf *bytes.Buffer, addSource bool) {
	buf.WriteString(e.time.Local().Format(consoleTimeLayout))
	buf.WriteByte(' ')
	fmt.Fprintf(buf, "%-5s", levelLabel(e.level))
	if e.component != "" {
		buf.WriteString(" [" + e.component + "]")
	}
	if subject := FormatSubject(e.jobID, e.stage); subject != "" {
		buf.WriteString(" " + subject)
	}
	if e.message != "" {
		buf.WriteString(" – " + e.message)
	}
	if addSource && e.source != nil && e.source.File != "" {
		buf.WriteString(" (" + filepath.Base(e.source.File) + ":" + strconv.Itoa(e.source.Line) + ")")
	}
	buf.WriteByte('\n')
}

func (e consoleEntry) writeSummary(buf *bytes.Buffer) {
	fields, hidden := selectInfoFields(e.fields, infoAttrLimit, false)
	for _, field := range fields {
		buf.WriteString("    - " + field.label + ": " + field.value + "\n")
	}
	if hidden > 0 {
		fmt.Fprintf(buf, "    + %d more (use --log-level debug)\n", hidden)
	}
}

func (e consoleEntry) writeLogfmt(buf *bytes.Buffer) {
	if len(e.fields) == 0 {
		return
	}
	buf.WriteString("   ")
	for _, field := range e.fields {
		buf.WriteString(" " + field.key + "=" + quotedValue(field.value))
	}
	buf.WriteByte('\n')
}

// lastWins drops earlier duplicates of a key, keeping the first position and
// the last value.
func lastWins(attrs []kv) []kv {
	index := make(map[string]int, len(attrs))
	out := make([]kv, 0, len(attrs))
	for _, attr := range attrs {
		if attr.key == "" {
			continue
		}
		if i, ok := index[attr.key]; ok {
			out[i].value = attr.value
			continue
		}
		index[attr.key] = len(out)
		out = append(out, attr)
	}
	return out
}

func flattenAttr(dst *[]kv, prefix []string, attr slog.Attr) {
	if attr.Equal(slog.Attr{}) {
		return
	}
	value := attr.Value.Resolve()
	path := prefix
	if attr.Key != "" {
		path = append(append([]string(nil), prefix...), attr.Key)
	}
	if value.Kind() == slog.KindGroup {
		for _, member := range value.Group() {
			flattenAttr(dst, path, member)
		}
		return
	}
	*dst = append(*dst, kv{key: strings.Join(path, "."), value: value})
}

// plainValue renders v without quoting.
func plainValue(v slog.Value) string {
	switch v.Kind() {
	case slog.KindString:
		return v.String()
	case slog.KindTime:
		return v.Time().Local().Format(time.DateTime)
	case slog.KindFloat64:
		return strconv.FormatFloat(v.Float64(), 'f', -1, 64)
	case slog.KindAny:
		if err, ok := v.Any().(error); ok {
			return err.Error()
		}
		return fmt.Sprint(v.Any())
	default:
		return v.String()
	}
}

// quotedValue renders v for logfmt output, quoting anything with spaces,
// equals signs or quotes.
func quotedValue(v slog.Value) string {
	s := plainValue(v)
	if s == "" || strings.ContainsFunc(s, func(r rune) bool { return r <= ' ' || r == '=' || r == '"' }) {
		return strconv.Quote(s)
	}
	return s
}

func levelLabel(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return "ERROR"
	case level >= slog.LevelWarn:
		return "WARN"
	case level >= slog.LevelInfo:
		return "INFO"
	default:
		return "DEBUG"
	}
}
