package trace

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Format represents the output format for trace events.
type Format uint8

const (
	FormatAuto   Format = iota // pick by output path
	FormatText                 // human-readable text
	FormatNDJSON               // newline-delimited JSON
)

// ParseFormat converts a string to Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "", "auto":
		return FormatAuto, nil
	case "text":
		return FormatText, nil
	case "ndjson", "json":
		return FormatNDJSON, nil
	default:
		return FormatAuto, fmt.Errorf("invalid trace format: %q (expected: auto|text|ndjson)", s)
	}
}

// FormatEvent formats an event according to the specified format.
func FormatEvent(ev *Event, format Format) []byte {
	if format == FormatNDJSON {
		return formatNDJSON(ev)
	}
	return formatText(ev)
}

type jsonStats struct {
	Files  int `json:"files,omitempty"`
	Cached int `json:"cached,omitempty"`
	Tokens int `json:"tokens,omitempty"`
	Errors int `json:"errors"`
}

type jsonEvent struct {
	Time      string     `json:"time"`
	Seq       uint64     `json:"seq"`
	Kind      string     `json:"kind"`
	Scope     string     `json:"scope"`
	SpanID    uint64     `json:"span_id,omitempty"`
	ParentID  uint64     `json:"parent_id,omitempty"`
	Name      string     `json:"name"`
	File      string     `json:"file,omitempty"`
	Offset    uint32     `json:"offset,omitempty"`
	ElapsedUS int64      `json:"elapsed_us,omitempty"`
	Stats     *jsonStats `json:"stats,omitempty"`
	Detail    string     `json:"detail,omitempty"`
}

func formatNDJSON(ev *Event) []byte {
	j := jsonEvent{
		Time:      ev.Time.Format("2006-01-02T15:04:05.000000Z07:00"),
		Seq:       ev.Seq,
		Kind:      ev.Kind.String(),
		Scope:     ev.Scope.String(),
		SpanID:    ev.SpanID,
		ParentID:  ev.ParentID,
		Name:      ev.Name,
		ElapsedUS: ev.Elapsed.Microseconds(),
		Detail:    ev.Detail,
	}
	if ev.Scope == ScopeProduction {
		j.File, j.Offset = ev.File, ev.Offset
	}
	if st := ev.Stats; st != nil {
		j.Stats = &jsonStats{Files: st.Files, Cached: st.Cached, Tokens: st.Tokens, Errors: st.Errors}
	}
	data, err := json.Marshal(j)
	if err != nil {
		return nil
	}
	return append(data, '\n')
}

// formatText renders one line:
//
//	[000012] file       ← a/b.go 1.2ms tokens=340 errors=0
//	[000013] production → stmt @a/b.go:120
func formatText(ev *Event) []byte {
	var sb strings.Builder
	fmt.Fprintf(&sb, "[%06d] %-10s ", ev.Seq, ev.Scope)

	switch ev.Kind {
	case KindSpanBegin:
		sb.WriteString("→ ")
	case KindSpanEnd:
		sb.WriteString("← ")
	case KindPoint:
		sb.WriteString("• ")
	case KindHeartbeat:
		sb.WriteString("♡ ")
	}

	sb.WriteString(ev.Name)
	if ev.Scope == ScopeProduction && ev.File != "" {
		fmt.Fprintf(&sb, " @%s:%d", ev.File, ev.Offset)
	}
	if ev.Elapsed > 0 {
		sb.WriteString(" ")
		sb.WriteString(ev.Elapsed.String())
	}
	if st := ev.Stats; st != nil {
		if st.Files > 0 {
			fmt.Fprintf(&sb, " files=%d cached=%d", st.Files, st.Cached)
		}
		if st.Tokens > 0 {
			fmt.Fprintf(&sb, " tokens=%d", st.Tokens)
		}
		fmt.Fprintf(&sb, " errors=%d", st.Errors)
	}
	if ev.Detail != "" {
		sb.WriteString(" (")
		sb.WriteString(ev.Detail)
		sb.WriteString(")")
	}
	sb.WriteString("\n")
	return []byte(sb.String())
}
