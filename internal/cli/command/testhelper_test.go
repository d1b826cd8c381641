package command

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/yndnr/respd-go/internal/infra/tlsroots"
	"github.com/yndnr/respd-go/internal/server/redisserver"
	"github.com/yndnr/respd-go/internal/telemetry/logger"
)

// startServer runs a real RESP server on a loopback port.
func startServer(t *testing.T, policy redisserver.ErrorPolicy) string {
	t.Helper()

	log, err := logger.New(logger.Config{Output: io.Discard})
	if err != nil {
		t.Fatalf("logger.New() error = %v", err)
	}
	srv := redisserver.New(&redisserver.Config{
		Address:     "127.0.0.1:0",
		ErrorPolicy: policy,
	}, nil, log)
	if err := srv.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	t.Cleanup(func() { _ = srv.Shutdown(context.Background()) })
	return srv.Addr().String()
}

// startTLSServer runs a RESP server with a TLS listener and returns the
// TLS address and the CA file that verifies it.
func startTLSServer(t *testing.T) (addr, caFile string) {
	t.Helper()

	certFile, keyFile, err := tlsroots.WriteSelfSigned(t.TempDir(), []string{"127.0.0.1"}, time.Hour)
	if err != nil {
		t.Fatalf("WriteSelfSigned() error = %v", err)
	}
	tlsCfg, err := tlsroots.ServerTLSConfig(certFile, keyFile, "")
	if err != nil {
		t.Fatalf("ServerTLSConfig() error = %v", err)
	}
	log, err := logger.New(logger.Config{Output: io.Discard})
	if err != nil {
		t.Fatalf("logger.New() error = %v", err)
	}
	srv := redisserver.New(&redisserver.Config{
		Address:    "127.0.0.1:0",
		TLSConfig:  tlsCfg,
		TLSAddress: "127.0.0.1:0",
	}, nil, log)
	if err := srv.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	t.Cleanup(func() { _ = srv.Shutdown(context.Background()) })
	return srv.TLSAddr().String(), certFile
}

// runApp runs the CLI with args and stdin, returning what it printed.
func runApp(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	app := App()
	app.Reader = strings.NewReader(stdin)
	app.Writer = &out
	app.ErrWriter = io.Discard

	err := app.Run(append([]string{"respd-cli"}, args...))
	return out.String(), err
}
