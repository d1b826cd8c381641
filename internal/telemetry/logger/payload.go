package logger

import (
	"log/slog"
	"strconv"
	"strings"
)

// MaxPayloadPreview is the number of payload bytes kept in a log line.
const MaxPayloadPreview = 64

// payloadKeys are attribute keys whose values come from the client.
var payloadKeys = map[string]bool{
	"payload": true,
	"line":    true,
	"command": true,
	"args":    true,
}

// truncatePayload bounds client-controlled attribute values.
func truncatePayload(a slog.Attr) slog.Attr {
	if !isPayloadKey(a.Key) {
		return a
	}
	switch a.Value.Kind() {
	case slog.KindString:
		return slog.String(a.Key, Preview(a.Value.String()))
	case slog.KindAny:
		if b, ok := a.Value.Any().([]byte); ok {
			return slog.String(a.Key, Preview(string(b)))
		}
	}
	return a
}

func isPayloadKey(key string) bool {
	return payloadKeys[key] || strings.HasSuffix(key, "_payload")
}

// Preview returns s unchanged when it is short printable text, and otherwise
// a quoted prefix of at most MaxPayloadPreview bytes with the total length.
func Preview(s string) string {
	if len(s) <= MaxPayloadPreview && isPrintable(s) {
		return s
	}
	if len(s) <= MaxPayloadPreview {
		return strconv.Quote(s)
	}
	return strconv.Quote(s[:MaxPayloadPreview]) + "... (" + strconv.Itoa(len(s)) + " bytes)"
}

func isPrintable(s string) bool {
	for _, r := range s {
		if !strconv.IsPrint(r) {
			return false
		}
	}
	return true
}
