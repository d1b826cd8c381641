package command

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/yndnr/respd-go/internal/protocol/resp"
	"github.com/yndnr/respd-go/internal/telemetry/logger"
)

func bulk(s string) resp.Value {
	return resp.BulkString([]byte(s))
}

// ============================================================
// Interpret Tests
// ============================================================

func TestInterpret(t *testing.T) {
	tests := []struct {
		name    string
		input   resp.Value
		want    Command
		wantErr error
	}{
		{
			name:  "ping",
			input: resp.Array(bulk("ping")),
			want:  Ping(),
		},
		{
			name:  "ping ignores extra arguments",
			input: resp.Array(bulk("PING"), bulk("a"), resp.Integer(3)),
			want:  Ping(),
		},
		{
			name:  "echo",
			input: resp.Array(bulk("ECHO"), bulk("hey")),
			want:  Echo("hey"),
		},
		{
			name:  "echo empty string",
			input: resp.Array(bulk("echo"), bulk("")),
			want:  Echo(""),
		},
		{
			name:  "echo binary payload is decoded lossily",
			input: resp.Array(bulk("echo"), resp.BulkString([]byte{'a', 0xff, 'b'})),
			want:  Echo("a�b"),
		},
		{
			name:  "error frame downgrades to unknown",
			input: resp.Error("some error"),
			want:  Unknown(),
		},
		{
			name:    "echo without argument",
			input:   resp.Array(bulk("ECHO")),
			wantErr: ErrArity,
		},
		{
			name:    "echo with two arguments",
			input:   resp.Array(bulk("ECHO"), bulk("a"), bulk("b")),
			wantErr: ErrArity,
		},
		{
			name:    "echo with integer argument",
			input:   resp.Array(bulk("ECHO"), resp.Integer(1)),
			wantErr: ErrType,
		},
		{
			name:    "echo with simple string argument",
			input:   resp.Array(bulk("ECHO"), resp.SimpleString("x")),
			wantErr: ErrType,
		},
		{
			name:    "unknown command",
			input:   resp.Array(bulk("UNKNOWN"), bulk("x")),
			wantErr: ErrUnknownCommand,
		},
		{
			name:    "empty array",
			input:   resp.Array(),
			wantErr: ErrNotACommand,
		},
		{
			name:    "name is not a bulk string",
			input:   resp.Array(resp.SimpleString("PING")),
			wantErr: ErrNotACommand,
		},
		{
			name:    "top-level simple string",
			input:   resp.SimpleString("PING"),
			wantErr: ErrNotACommand,
		},
		{
			name:    "top-level integer",
			input:   resp.Integer(1),
			wantErr: ErrNotACommand,
		},
		{
			name:    "top-level bulk string",
			input:   bulk("PING"),
			wantErr: ErrNotACommand,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Interpret(tt.input)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Interpret() error = %v, want %v", err, tt.wantErr)
				}
				var ce *Error
				if !errors.As(err, &ce) {
					t.Errorf("error %T is not *command.Error", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Interpret() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Interpret() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestInterpret_CaseInsensitive(t *testing.T) {
	for _, name := range []string{"PING", "Ping", "ping", "pInG"} {
		got, err := Interpret(resp.Array(bulk(name)))
		if err != nil {
			t.Fatalf("Interpret(%q) error = %v", name, err)
		}
		if got != Ping() {
			t.Errorf("Interpret(%q) = %+v, want PING", name, got)
		}
	}

	for _, name := range []string{"ECHO", "Echo", "echo"} {
		got, err := Interpret(resp.Array(bulk(name), bulk("x")))
		if err != nil {
			t.Fatalf("Interpret(%q) error = %v", name, err)
		}
		if got != Echo("x") {
			t.Errorf("Interpret(%q) = %+v, want ECHO(x)", name, got)
		}
	}
}

func TestInterpret_EchoTruncatedSequence(t *testing.T) {
	got, err := Interpret(resp.Command("echo", []byte("a\xe2\x82b")))
	if err != nil {
		t.Fatalf("Interpret() error = %v", err)
	}
	if got != Echo("a\uFFFDb") {
		t.Errorf("Interpret() = %+v, want ECHO(a\uFFFDb)", got)
	}
	if reply := string(got.Reply()); reply != "$5\r\na\uFFFDb\r\n" {
		t.Errorf("Reply() = %q", reply)
	}
}

func TestInterpret_InvalidUTF8Name(t *testing.T) {
	_, err := Interpret(resp.Array(resp.BulkString([]byte{0xff, 'p'})))

	var ce *Error
	if !errors.As(err, &ce) {
		t.Fatalf("Interpret() error = %v, want *command.Error", err)
	}
	if ce.Name != "�p" {
		t.Errorf("Name = %q, want %q", ce.Name, "�p")
	}
}

func TestError_Message(t *testing.T) {
	err := &Error{Kind: ErrArity, Name: "echo", Detail: "missing argument"}
	want := "command: wrong number of arguments 'echo': missing argument"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestLossyString(t *testing.T) {
	tests := []struct {
		in   []byte
		want string
	}{
		{[]byte("plain"), "plain"},
		{[]byte("héllo"), "héllo"},
		{[]byte{}, ""},
		{[]byte{0xff, 0xfe}, "��"},
		{[]byte("ok\xc3"), "ok�"},
		{[]byte("a\xe2\x82b"), "a\uFFFDb"},
		{[]byte("a\xf0\x9f\x98b"), "a\uFFFDb"},
		{[]byte("\xe0\x80"), "\uFFFD\uFFFD"},
		{[]byte("\xed\xa0\x80"), "\uFFFD\uFFFD\uFFFD"},
		{[]byte("\xc3\xc3\xa9"), "\uFFFDé"},
	}

	for _, tt := range tests {
		if got := lossyString(tt.in); got != tt.want {
			t.Errorf("lossyString(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

// ============================================================
// Interpreter Tests
// ============================================================

func TestInterpreter_LogsErrorFrames(t *testing.T) {
	var buf bytes.Buffer
	l, err := logger.New(logger.Config{Level: "debug", Format: "json", Output: &buf})
	if err != nil {
		t.Fatalf("logger.New() error = %v", err)
	}

	in := NewInterpreter(l)
	ctx := logger.WithConnID(context.Background(), "conn-1")

	got, err := in.Interpret(ctx, resp.Error("boom"))
	if err != nil {
		t.Fatalf("Interpret() error = %v", err)
	}
	if got != Unknown() {
		t.Errorf("Interpret() = %+v, want UNKNOWN", got)
	}

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("parse log entry: %v (%q)", err, buf.String())
	}
	if entry["payload"] != "boom" {
		t.Errorf("payload = %v, want boom", entry["payload"])
	}
	if entry["conn_id"] != "conn-1" {
		t.Errorf("conn_id = %v, want conn-1", entry["conn_id"])
	}
}

func TestInterpreter_QuietForCommands(t *testing.T) {
	var buf bytes.Buffer
	l, _ := logger.New(logger.Config{Level: "debug", Format: "json", Output: &buf})

	if _, err := NewInterpreter(l).Interpret(context.Background(), resp.Array(bulk("PING"))); err != nil {
		t.Fatalf("Interpret() error = %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("unexpected log output: %s", buf.String())
	}
}

func TestNewInterpreter_NilLogger(t *testing.T) {
	if NewInterpreter(nil).log == nil {
		t.Error("NewInterpreter(nil) should fall back to the default logger")
	}
}

// ============================================================
// End-to-end Scenarios (decode -> interpret -> reply)
// ============================================================

func TestPipeline_Scenarios(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		want      Command
		wantErr   error
		wantReply string
	}{
		{
			name:      "ping",
			input:     "*1\r\n$4\r\nPING\r\n",
			want:      Ping(),
			wantReply: "+PONG\r\n",
		},
		{
			name:      "echo",
			input:     "*2\r\n$4\r\nECHO\r\n$3\r\nhey\r\n",
			want:      Echo("hey"),
			wantReply: "$3\r\nhey\r\n",
		},
		{
			name:    "echo without argument",
			input:   "*1\r\n$4\r\nECHO\r\n",
			wantErr: ErrArity,
		},
		{
			name:    "unknown command",
			input:   "*2\r\n$7\r\nUNKNOWN\r\n$1\r\nx\r\n",
			wantErr: ErrUnknownCommand,
		},
		{
			name:      "error frame",
			input:     "-some error\r\n",
			want:      Unknown(),
			wantReply: "-ERROR_UNKNOWN_COMMAND\r\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := resp.Decode(bufio.NewReader(strings.NewReader(tt.input)))
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}

			got, err := Interpret(v)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Interpret() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Interpret() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Interpret() = %+v, want %+v", got, tt.want)
			}
			if reply := string(got.Reply()); reply != tt.wantReply {
				t.Errorf("Reply() = %q, want %q", reply, tt.wantReply)
			}
		})
	}
}
