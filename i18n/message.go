package i18n

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Args holds the named parameters of a message, e.g. {"field": "Username", "max_length": 32}.
type Args map[string]any

type segment struct {
	literal   string
	param     string
	formatter string
}

// parsedMessage is a translation split into literal text interleaved with {param} or {param|formatter} placeholders.
type parsedMessage struct {
	segments []segment
}

func parseMessage(s string) *parsedMessage {
	m := &parsedMessage{}
	for len(s) > 0 {
		start := strings.IndexByte(s, '{')
		if start < 0 {
			m.segments = append(m.segments, segment{literal: s})
			break
		}
		end := strings.IndexByte(s[start:], '}')
		if end < 0 {
			// Unterminated placeholders are kept as literal text.
			m.segments = append(m.segments, segment{literal: s})
			break
		}
		end += start

		if start > 0 {
			m.segments = append(m.segments, segment{literal: s[:start]})
		}
		param, formatter, _ := strings.Cut(s[start+1:end], "|")
		if param = strings.TrimSpace(param); param == "" {
			m.segments = append(m.segments, segment{literal: s[start : end+1]})
		} else {
			m.segments = append(m.segments, segment{
				param:     param,
				formatter: strings.TrimSpace(formatter),
			})
		}
		s = s[end+1:]
	}
	return m
}

// params returns the names of all placeholders, in order of appearance.
func (m *parsedMessage) params() []string {
	var names []string
	for _, seg := range m.segments {
		if seg.param != "" {
			names = append(names, seg.param)
		}
	}
	return names
}

func (m *parsedMessage) format(tag language.Tag, args Args) string {
	var sb strings.Builder
	printer := message.NewPrinter(tag)
	for _, seg := range m.segments {
		if seg.param == "" {
			sb.WriteString(seg.literal)
			continue
		}
		v, ok := args[seg.param]
		if !ok || v == nil {
			continue
		}
		sb.WriteString(applyFormatter(tag, seg.formatter, printer.Sprintf("%v", v)))
	}
	return sb.String()
}

func applyFormatter(tag language.Tag, formatter, s string) string {
	switch formatter {
	case "lowercase":
		return cases.Lower(tag).String(s)
	case "uppercase":
		return cases.Upper(tag).String(s)
	default:
		return s
	}
}
