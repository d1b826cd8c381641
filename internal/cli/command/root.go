package command

import (
	"context"
	"crypto/tls"
	"fmt"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/respd-go/internal/cli/connection"
	"github.com/yndnr/respd-go/internal/cli/output"
	"github.com/yndnr/respd-go/internal/infra/buildinfo"
	"github.com/yndnr/respd-go/internal/infra/tlsroots"
	"github.com/yndnr/respd-go/internal/protocol/resp"
)

// DefaultServer is the address used when neither --server nor
// RESPD_SERVER is set.
const DefaultServer = "127.0.0.1:6379"

// App creates the CLI application.
func App() *cli.App {
	return &cli.App{
		Name:    "respd-cli",
		Usage:   "Command-line client for respd",
		Version: buildinfo.String(),
		Flags:   globalFlags(),
		Commands: []*cli.Command{
			PingCommand(),
			EchoCommand(),
			RawCommand(),
			ReplCommand(),
		},
		Before: func(c *cli.Context) error {
			_, err := ParseGlobalFlags(c)
			return err
		},
	}
}

// globalFlags returns the global CLI flags.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "server",
			Aliases: []string{"s"},
			Usage:   "respd server address",
			EnvVars: []string{"RESPD_SERVER"},
			Value:   DefaultServer,
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output format: text, json, yaml",
			Value:   string(output.FormatText),
		},
		&cli.DurationFlag{
			Name:  "timeout",
			Usage: "Connect and reply timeout",
			Value: connection.DefaultTimeout,
		},
		&cli.BoolFlag{
			Name:    "tls",
			Usage:   "Connect over TLS",
			EnvVars: []string{"RESPD_TLS"},
		},
		&cli.StringFlag{
			Name:    "tls-ca",
			Usage:   "CA certificate file to verify the server (implies --tls)",
			EnvVars: []string{"RESPD_TLS_CA"},
		},
	}
}

// GlobalFlags defines flags available to all commands.
type GlobalFlags struct {
	Server  string
	Output  output.Format
	Timeout time.Duration
	// TLS is nil for plain TCP.
	TLS *tls.Config
}

// ParseGlobalFlags extracts and validates global flags from context.
func ParseGlobalFlags(c *cli.Context) (*GlobalFlags, error) {
	format, err := output.ParseFormat(c.String("output"))
	if err != nil {
		return nil, err
	}
	timeout := c.Duration("timeout")
	if timeout <= 0 {
		return nil, fmt.Errorf("--timeout must be positive, got %s", timeout)
	}
	flags := &GlobalFlags{
		Server:  c.String("server"),
		Output:  format,
		Timeout: timeout,
	}
	if c.Bool("tls") || c.String("tls-ca") != "" {
		if flags.TLS, err = tlsroots.ClientTLSConfig(c.String("tls-ca")); err != nil {
			return nil, fmt.Errorf("--tls-ca: %w", err)
		}
	}
	return flags, nil
}

// connect dials the server named by the global flags.
func connect(c *cli.Context) (*connection.Client, *GlobalFlags, error) {
	flags, err := ParseGlobalFlags(c)
	if err != nil {
		return nil, nil, err
	}
	client, err := connection.DialTLS(commandContext(c), flags.Server, flags.Timeout, flags.TLS)
	if err != nil {
		return nil, nil, err
	}
	return client, flags, nil
}

// printReply writes v to the application's writer in the selected format.
func printReply(c *cli.Context, format output.Format, v resp.Value) error {
	return output.NewFormatter(format).Format(c.App.Writer, output.FromValue(v))
}

func commandContext(c *cli.Context) context.Context {
	if c.Context != nil {
		return c.Context
	}
	return context.Background()
}
