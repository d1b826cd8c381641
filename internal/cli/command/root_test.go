package command

import (
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/yndnr/respd-go/internal/cli/connection"
	"github.com/yndnr/respd-go/internal/server/redisserver"
)

func TestApp(t *testing.T) {
	app := App()
	if app.Name != "respd-cli" {
		t.Errorf("Name = %q, want %q", app.Name, "respd-cli")
	}

	commandNames := make(map[string]bool)
	for _, cmd := range app.Commands {
		commandNames[cmd.Name] = true
	}
	for _, name := range []string{"ping", "echo", "raw", "repl"} {
		if !commandNames[name] {
			t.Errorf("missing command: %s", name)
		}
	}

	flagNames := make(map[string]bool)
	for _, flag := range app.Flags {
		flagNames[flag.Names()[0]] = true
	}
	for _, name := range []string{"server", "output", "timeout", "tls", "tls-ca"} {
		if !flagNames[name] {
			t.Errorf("missing flag: %s", name)
		}
	}
}

func TestApp_InvalidGlobalFlags(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"unknown output format", []string{"-o", "table", "ping"}},
		{"zero timeout", []string{"--timeout", "0s", "ping"}},
		{"missing tls ca file", []string{"--tls-ca", "/nonexistent/ca.pem", "ping"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := runApp(t, "", tt.args...); err == nil {
				t.Error("Run() should fail")
			}
		})
	}
}

// ============================================================
// Command Tests
// ============================================================

func TestPing(t *testing.T) {
	addr := startServer(t, redisserver.PolicyDrop)

	out, err := runApp(t, "", "-s", addr, "ping")
	if err != nil {
		t.Fatalf("ping error = %v", err)
	}
	if out != "PONG\n" {
		t.Errorf("output = %q, want PONG", out)
	}
}

func TestPing_ServerFromEnv(t *testing.T) {
	t.Setenv("RESPD_SERVER", startServer(t, redisserver.PolicyDrop))

	out, err := runApp(t, "", "ping")
	if err != nil {
		t.Fatalf("ping error = %v", err)
	}
	if out != "PONG\n" {
		t.Errorf("output = %q, want PONG", out)
	}
}

func TestPing_ConnectionRefused(t *testing.T) {
	if _, err := runApp(t, "", "-s", "127.0.0.1:1", "--timeout", "500ms", "ping"); err == nil {
		t.Error("ping to a closed port should fail")
	}
}

func TestPing_TLS(t *testing.T) {
	addr, caFile := startTLSServer(t)

	out, err := runApp(t, "", "-s", addr, "--tls-ca", caFile, "ping")
	if err != nil {
		t.Fatalf("ping error = %v", err)
	}
	if out != "PONG\n" {
		t.Errorf("output = %q, want PONG", out)
	}

	// Without the CA the self-signed certificate is rejected.
	if _, err := runApp(t, "", "-s", addr, "--tls", "--timeout", "500ms", "ping"); err == nil {
		t.Error("ping over TLS without the CA should fail")
	}
}

func TestRepl_TLS(t *testing.T) {
	addr, caFile := startTLSServer(t)

	out, err := runApp(t, "echo secure\nexit\n", "-s", addr, "--tls-ca", caFile, "repl", "--history-file", "")
	if err != nil {
		t.Fatalf("repl error = %v", err)
	}
	if !strings.Contains(out, `"secure"`) {
		t.Errorf("output = %q, want the echoed text", out)
	}
}

func TestEcho(t *testing.T) {
	addr := startServer(t, redisserver.PolicyDrop)

	tests := []struct {
		name   string
		args   []string
		want   string
		format string
	}{
		{"text", []string{"echo", "hello world"}, "\"hello world\"\n", "text"},
		{"empty", []string{"echo", ""}, "\"\"\n", "text"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := runApp(t, "", append([]string{"-s", addr, "-o", tt.format}, tt.args...)...)
			if err != nil {
				t.Fatalf("echo error = %v", err)
			}
			if out != tt.want {
				t.Errorf("output = %q, want %q", out, tt.want)
			}
		})
	}
}

func TestEcho_JSON(t *testing.T) {
	addr := startServer(t, redisserver.PolicyDrop)

	out, err := runApp(t, "", "-s", addr, "-o", "json", "echo", "hey")
	if err != nil {
		t.Fatalf("echo error = %v", err)
	}

	var got map[string]any
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("output is not JSON: %v (%q)", err, out)
	}
	if got["type"] != "bulk" || got["value"] != "hey" {
		t.Errorf("JSON = %v", got)
	}
}

func TestEcho_WrongArgs(t *testing.T) {
	addr := startServer(t, redisserver.PolicyDrop)

	for _, args := range [][]string{{"echo"}, {"echo", "a", "b"}} {
		if _, err := runApp(t, "", append([]string{"-s", addr}, args...)...); err == nil {
			t.Errorf("%v should fail", args)
		}
	}
}

func TestRaw(t *testing.T) {
	addr := startServer(t, redisserver.PolicyReply)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"ping", []string{"raw", "PING"}, "PONG\n"},
		{"echo", []string{"raw", "echo", "x"}, "\"x\"\n"},
		{"unknown command", []string{"raw", "GET", "k"}, "(error) ERROR_UNKNOWN_COMMAND\n"},
		{"echo arity", []string{"raw", "ECHO", "a", "b"}, "(error) ERROR_UNKNOWN_COMMAND\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := runApp(t, "", append([]string{"-s", addr}, tt.args...)...)
			if err != nil {
				t.Fatalf("raw error = %v", err)
			}
			if out != tt.want {
				t.Errorf("output = %q, want %q", out, tt.want)
			}
		})
	}
}

func TestRaw_YAML(t *testing.T) {
	addr := startServer(t, redisserver.PolicyReply)

	out, err := runApp(t, "", "-s", addr, "-o", "yaml", "raw", "GET", "k")
	if err != nil {
		t.Fatalf("raw error = %v", err)
	}

	var got struct {
		Type  string `yaml:"type"`
		Value string `yaml:"value"`
	}
	if err := yaml.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("output is not YAML: %v (%q)", err, out)
	}
	if got.Type != "error" || got.Value != "ERROR_UNKNOWN_COMMAND" {
		t.Errorf("YAML = %+v", got)
	}
}

func TestRaw_DropPolicyTimesOut(t *testing.T) {
	addr := startServer(t, redisserver.PolicyDrop)

	start := time.Now()
	_, err := runApp(t, "", "-s", addr, "--timeout", "200ms", "raw", "GET", "k")
	if !errors.Is(err, connection.ErrNoReply) {
		t.Errorf("raw error = %v, want ErrNoReply", err)
	}
	if time.Since(start) > 3*time.Second {
		t.Error("raw should give up after --timeout")
	}
}

func TestRaw_NoArgs(t *testing.T) {
	if _, err := runApp(t, "", "raw"); err == nil {
		t.Error("raw without arguments should fail")
	}
}

// ============================================================
// REPL Tests
// ============================================================

func TestRepl(t *testing.T) {
	addr := startServer(t, redisserver.PolicyReply)
	history := filepath.Join(t.TempDir(), "history")

	stdin := "PING\necho \"a b\"\nget k\nexit\n"
	out, err := runApp(t, stdin, "-s", addr, "repl", "--history-file", history)
	if err != nil {
		t.Fatalf("repl error = %v", err)
	}

	for _, want := range []string{addr + "> ", "PONG\n", "\"a b\"\n", "(error) ERROR_UNKNOWN_COMMAND\n"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRepl_ReconnectsAfterLostReply(t *testing.T) {
	addr := startServer(t, redisserver.PolicyDrop)

	stdin := "get k\nping\n"
	out, err := runApp(t, stdin, "-s", addr, "--timeout", "200ms", "repl", "--history-file", "")
	if err != nil {
		t.Fatalf("repl error = %v", err)
	}
	if !strings.Contains(out, "no reply") {
		t.Errorf("output missing timeout error:\n%s", out)
	}
	if !strings.Contains(out, "PONG\n") {
		t.Errorf("ping after a lost reply should succeed:\n%s", out)
	}
}

func TestRepl_Connect(t *testing.T) {
	first := startServer(t, redisserver.PolicyDrop)
	second := startServer(t, redisserver.PolicyReply)

	stdin := "connect " + second + "\nget k\nconnect\n"
	out, err := runApp(t, stdin, "-s", first, "repl", "--history-file", "")
	if err != nil {
		t.Fatalf("repl error = %v", err)
	}
	if !strings.Contains(out, "connected to "+second) {
		t.Errorf("output missing connect confirmation:\n%s", out)
	}
	if !strings.Contains(out, "(error) ERROR_UNKNOWN_COMMAND") {
		t.Errorf("commands should go to the new server:\n%s", out)
	}
	if !strings.Contains(out, "usage: connect HOST:PORT") {
		t.Errorf("output missing usage error:\n%s", out)
	}
}

func TestRepl_ServerDown(t *testing.T) {
	if _, err := runApp(t, "", "-s", "127.0.0.1:1", "--timeout", "500ms", "repl", "--history-file", ""); err == nil {
		t.Error("repl should fail when the server is unreachable")
	}
}
