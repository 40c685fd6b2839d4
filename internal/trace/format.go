package trace

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strings"
)

// FormatEvent renders ev as one line, newline included.
func FormatEvent(ev *Event, format Format) []byte {
	if format == FormatNDJSON {
		return encodeJSON(ev)
	}
	return encodeText(ev)
}

type wireEvent struct {
	TS     string            `json:"ts"`
	Seq    uint64            `json:"seq"`
	Kind   string            `json:"kind"`
	Scope  string            `json:"scope"`
	Name   string            `json:"name"`
	Detail string            `json:"detail,omitempty"`
	Span   uint64            `json:"span,omitempty"`
	Parent uint64            `json:"parent,omitempty"`
	GID    uint64            `json:"gid,omitempty"`
	Extra  map[string]string `json:"extra,omitempty"`
}

func encodeJSON(ev *Event) []byte {
	data, err := json.Marshal(wireEvent{
		TS:     ev.Time.UTC().Format("2006-01-02T15:04:05.000000Z"),
		Seq:    ev.Seq,
		Kind:   ev.Kind.String(),
		Scope:  ev.Scope.String(),
		Name:   ev.Name,
		Detail: ev.Detail,
		Span:   ev.SpanID,
		Parent: ev.ParentID,
		GID:    ev.GID,
		Extra:  ev.Extra,
	})
	if err != nil {
		return nil
	}
	return append(data, '\n')
}

var kindMarks = map[Kind]string{KindSpanBegin: ">", KindSpanEnd: "<", KindPoint: "*"}

// encodeText: "<seq> <scope> <mark> name: detail [k=v ...]"
func encodeText(ev *Event) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "%6d %-6s %s %s", ev.Seq, ev.Scope, kindMarks[ev.Kind], ev.Name)
	if ev.Detail != "" {
		b.WriteString(": " + ev.Detail)
	}
	if len(ev.Extra) > 0 {
		pairs := make([]string, 0, len(ev.Extra))
		for _, k := range slices.Sorted(maps.Keys(ev.Extra)) {
			pairs = append(pairs, k+"="+ev.Extra[k])
		}
		b.WriteString(" [" + strings.Join(pairs, " ") + "]")
	}
	b.WriteByte('\n')
	return []byte(b.String())
}
