package logging

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"
)

type prettyHandler struct {
	mu        *sync.Mutex
	writer    io.Writer
	level     *slog.LevelVar
	attrs     []slog.Attr
	groups    []string
	addSource bool
}

func newPrettyHandler(w io.Writer, lvl *slog.LevelVar, addSource bool) slog.Handler {
	return &prettyHandler{mu: &sync.Mutex{}, writer: w, level: lvl, addSource: addSource}
}

func (h *prettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *prettyHandler) Handle(_ context.Context, record slog.Record) error {
	if record.Level < h.level.Level() {
		return nil
	}

	timestamp := record.Time
	if timestamp.IsZero() {
		timestamp = time.Now()
	}

	kvs := make([]kv, 0, record.NumAttrs()+len(h.attrs))
	flattenAttrs(&kvs, h.groups, h.attrs)
	record.Attrs(func(attr slog.Attr) bool {
		flattenAttr(&kvs, h.groups, attr)
		return true
	})
	kvs = dedupeKVsByKey(kvs)

	var subject logSubject
	filtered := make([]kv, 0, len(kvs))
	for _, kv := range kvs {
		switch kv.key {
		case FieldComponent:
			subject.component = attrString(kv.value)
			continue
		case FieldSourceFile:
			subject.sourceFile = attrString(kv.value)
		case FieldChunk:
			subject.chunk = attrString(kv.value)
		case FieldStage:
			subject.stage = attrString(kv.value)
		}
		filtered = append(filtered, kv)
	}

	message := strings.TrimSpace(record.Message)
	if message == "" {
		message = "(no message)"
	}

	var buf bytes.Buffer
	buf.Grow(256 + len(filtered)*32)
	writeLogHeader(&buf, timestamp, record.Level, subject, message, h.addSource, record.Source())
	buf.WriteByte('\n')
	if record.Level < slog.LevelInfo {
		writeDebugFields(&buf, filtered)
	} else {
		writeInfoFields(&buf, filtered, record.Level >= slog.LevelWarn)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.writer.Write(buf.Bytes())
	return err
}

func writeInfoFields(buf *bytes.Buffer, attrs []kv, showAll bool) {
	fields, hidden := selectInfoFields(attrs, showAll)
	for _, field := range fields {
		buf.WriteString("    - ")
		buf.WriteString(field.label)
		buf.WriteString(": ")
		buf.WriteString(field.value)
		buf.WriteByte('\n')
	}
	if hidden > 0 {
		buf.WriteString("    + ")
		buf.WriteString(strconv.Itoa(hidden))
		buf.WriteString(" more field")
		if hidden != 1 {
			buf.WriteByte('s')
		}
		buf.WriteString(" hidden\n")
	}
}

func writeDebugFields(buf *bytes.Buffer, attrs []kv) {
	for _, kv := range attrs {
		if kv.key == "" {
			continue
		}
		buf.WriteString("    ")
		buf.WriteString(kv.key)
		buf.WriteString(": ")
		buf.WriteString(formatValue(kv.value))
		buf.WriteByte('\n')
	}
}

type logSubject struct {
	component  string
	sourceFile string
	chunk      string
	stage      string
}

func writeLogHeader(buf *bytes.Buffer, ts time.Time, level slog.Level, subject logSubject, message string, addSource bool, src *slog.Source) {
	buf.WriteString(formatTimestamp(ts))
	buf.WriteByte(' ')
	buf.WriteString(levelLabel(level))
	if subject.component != "" {
		buf.WriteString(" [")
		buf.WriteString(subject.component)
		buf.WriteByte(']')
	}
	if s := subject.String(); s != "" {
		buf.WriteByte(' ')
		buf.WriteString(s)
	}
	if message != "" {
		buf.WriteString(" – ")
		buf.WriteString(message)
	}
	if addSource && src != nil {
		buf.WriteString(" [")
		buf.WriteString(filepath.Base(src.File))
		buf.WriteByte(':')
		buf.WriteString(strconv.Itoa(src.Line))
		buf.WriteByte(']')
	}
}

// String renders "file.csv #3 (score)" style subjects, omitting empty parts.
func (s logSubject) String() string {
	parts := make([]string, 0, 2)
	file := strings.TrimSpace(s.sourceFile)
	if file != "" {
		file = filepath.Base(file)
	}
	chunk := strings.TrimSpace(s.chunk)
	stage := strings.TrimSpace(s.stage)
	head := file
	if chunk != "" {
		if head != "" {
			head += " "
		}
		head += "#" + chunk
	}
	if head != "" {
		parts = append(parts, head)
	}
	if stage != "" {
		if len(parts) > 0 {
			parts[0] += " (" + stage + ")"
		} else {
			parts = append(parts, stage)
		}
	}
	return strings.Join(parts, " · ")
}

type infoField struct {
	label string
	value string
}

// infoHighlights lists the keys shown on INFO lines, in display order.
var infoHighlights = []struct {
	key   string
	label string
}{
	{"rows", "Rows"},
	{"registry_size", "Registry"},
	{"located", "Located"},
	{"regions", "Regions"},
	{"new", "New"},
	{"duplicate", "Duplicates"},
	{"review", "Review"},
	{"skipped", "Skipped"},
	{"failed", "Failed"},
	{"malformed", "Malformed"},
	{"chunks", "Chunks"},
	{"workers", "Workers"},
	{FieldProgressPercent, "Progress"},
	{"path", "Path"},
	{"output", "Output"},
	{"duration", "Duration"},
	{"decision_result", "Decision"},
	{"decision_reason", "Reason"},
	{FieldErrorHint, "Hint"},
	{FieldImpact, "Impact"},
	{"error", "Error"},
}

// selectInfoFields picks highlighted fields. Context keys rendered in the
// header are never counted as hidden.
func selectInfoFields(attrs []kv, showAll bool) ([]infoField, int) {
	index := make(map[string]kv, len(attrs))
	for _, attr := range attrs {
		index[attr.key] = attr
	}
	fields := make([]infoField, 0, len(infoHighlights))
	seen := make(map[string]struct{}, len(infoHighlights))
	for _, h := range infoHighlights {
		attr, ok := index[h.key]
		if !ok {
			continue
		}
		seen[h.key] = struct{}{}
		value := attrString(attr.value)
		if h.key == FieldProgressPercent {
			value = formatPercent(attr.value)
		}
		fields = append(fields, infoField{label: h.label, value: value})
	}
	hidden := 0
	for _, attr := range attrs {
		if _, ok := seen[attr.key]; ok {
			continue
		}
		if isHeaderKey(attr.key) {
			continue
		}
		if showAll {
			fields = append(fields, infoField{label: attr.key, value: formatValue(attr.value)})
			continue
		}
		hidden++
	}
	return fields, hidden
}

func isHeaderKey(key string) bool {
	switch key {
	case FieldSourceFile, FieldChunk, FieldStage, FieldRunID, FieldEventType, FieldDecisionType:
		return true
	}
	return false
}

func formatPercent(v slog.Value) string {
	v = v.Resolve()
	switch v.Kind() {
	case slog.KindFloat64:
		return strconv.FormatFloat(v.Float64(), 'f', 0, 64) + "%"
	case slog.KindInt64:
		return strconv.FormatInt(v.Int64(), 10) + "%"
	}
	return attrString(v)
}

func (h *prettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := h.clone()
	clone.attrs = append(clone.attrs, attrs...)
	return clone
}

func (h *prettyHandler) WithGroup(name string) slog.Handler {
	clone := h.clone()
	clone.groups = append(clone.groups, name)
	return clone
}

func (h *prettyHandler) clone() *prettyHandler {
	clone := &prettyHandler{
		mu:        h.mu,
		writer:    h.writer,
		level:     h.level,
		addSource: h.addSource,
	}
	if len(h.attrs) > 0 {
		clone.attrs = make([]slog.Attr, len(h.attrs))
		copy(clone.attrs, h.attrs)
	}
	if len(h.groups) > 0 {
		clone.groups = make([]string, len(h.groups))
		copy(clone.groups, h.groups)
	}
	return clone
}

type kv struct {
	key   string
	value slog.Value
}

func dedupeKVsByKey(attrs []kv) []kv {
	if len(attrs) < 2 {
		return attrs
	}
	positions := make(map[string]int, len(attrs))
	deduped := make([]kv, 0, len(attrs))
	for _, attr := range attrs {
		if attr.key == "" {
			continue
		}
		if pos, ok := positions[attr.key]; ok {
			deduped[pos].value = attr.value
			continue
		}
		positions[attr.key] = len(deduped)
		deduped = append(deduped, attr)
	}
	return deduped
}

func flattenAttrs(dst *[]kv, prefix []string, attrs []slog.Attr) {
	for _, attr := range attrs {
		flattenAttr(dst, prefix, attr)
	}
}

func flattenAttr(dst *[]kv, prefix []string, attr slog.Attr) {
	if attr.Equal(slog.Attr{}) {
		return
	}
	attr.Value = attr.Value.Resolve()
	if attr.Value.Kind() == slog.KindGroup {
		nextPrefix := prefix
		if attr.Key != "" {
			nextPrefix = appendPrefix(prefix, attr.Key)
		}
		flattenAttrs(dst, nextPrefix, attr.Value.Group())
		return
	}
	key := attr.Key
	if len(prefix) > 0 {
		if key != "" {
			key = strings.Join(appendPrefix(prefix, key), ".")
		} else {
			key = strings.Join(prefix, ".")
		}
	}
	*dst = append(*dst, kv{key: key, value: attr.Value})
}

func appendPrefix(prefix []string, value string) []string {
	out := make([]string, len(prefix)+1)
	copy(out, prefix)
	out[len(prefix)] = value
	return out
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
