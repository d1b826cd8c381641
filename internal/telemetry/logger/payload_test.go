package logger

import (
	"strings"
	"testing"
)

func TestPreview(t *testing.T) {
	long := strings.Repeat("a", MaxPayloadPreview+10)

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"short text", "hey", "hey"},
		{"empty", "", ""},
		{"control bytes are quoted", "a\r\nb", `"a\r\nb"`},
		{"long text is cut", long, `"` + long[:MaxPayloadPreview] + `"... (74 bytes)`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Preview(tt.in); got != tt.want {
				t.Errorf("Preview() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLogger_TruncatesPayloadAttrs(t *testing.T) {
	l, buf := newJSON(t, "info")

	big := strings.Repeat("x", 1000)
	l.Info("echo", "payload", big, "args", []byte("\x00\x01"), "other", big)

	entry := decodeEntry(t, buf)
	payload, _ := entry["payload"].(string)
	if len(payload) >= len(big) || !strings.HasSuffix(payload, "(1000 bytes)") {
		t.Errorf("payload not truncated: %q", payload)
	}
	if entry["args"] != `"\x00\x01"` {
		t.Errorf("args = %v", entry["args"])
	}
	if entry["other"] != big {
		t.Error("non-payload attribute was modified")
	}
}

func TestIsPayloadKey(t *testing.T) {
	for key, want := range map[string]bool{
		"payload":       true,
		"line":          true,
		"reply_payload": true,
		"conn_id":       false,
		"addr":          false,
	} {
		if got := isPayloadKey(key); got != want {
			t.Errorf("isPayloadKey(%q) = %v, want %v", key, got, want)
		}
	}
}
