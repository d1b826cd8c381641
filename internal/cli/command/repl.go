package command

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/respd-go/internal/cli/connection"
	"github.com/yndnr/respd-go/internal/cli/output"
	"github.com/yndnr/respd-go/internal/cli/repl"
)

// ReplCommand returns the interactive mode command.
func ReplCommand() *cli.Command {
	return &cli.Command{
		Name:  "repl",
		Usage: "Start an interactive session",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "history-file",
				Usage: "History file (default: ~/.respd/history, empty string disables)",
				Value: repl.DefaultHistoryPath(),
			},
		},
		Action: replAction,
	}
}

func replAction(c *cli.Context) error {
	flags, err := ParseGlobalFlags(c)
	if err != nil {
		return err
	}

	mgr := connection.NewManager(flags.Timeout, flags.TLS)
	defer mgr.Disconnect()

	ctx := commandContext(c)
	if _, err := mgr.Connect(ctx, flags.Server); err != nil {
		return err
	}

	exec := func(ctx context.Context, args []string) error {
		return replExec(ctx, c, mgr, flags.Output, args)
	}

	r := repl.New(exec,
		repl.WithInput(c.App.Reader),
		repl.WithOutput(c.App.Writer),
		repl.WithPrompt(flags.Server+"> "),
		repl.WithHistory(repl.NewHistory(c.String("history-file"))),
	)
	return r.Run(ctx)
}

// replExec runs one REPL line. "connect ADDR" switches servers; anything
// else is sent as a command.
func replExec(ctx context.Context, c *cli.Context, mgr *connection.Manager, format output.Format, args []string) error {
	if strings.EqualFold(args[0], "connect") {
		if len(args) != 2 {
			return fmt.Errorf("usage: connect HOST:PORT")
		}
		if _, err := mgr.Connect(ctx, args[1]); err != nil {
			return err
		}
		fmt.Fprintf(c.App.Writer, "connected to %s\n", args[1])
		return nil
	}

	client, err := mgr.Client(ctx)
	if err != nil {
		return err
	}
	v, err := client.Do(ctx, args[0], args[1:]...)
	if err != nil {
		return err
	}
	return printReply(c, format, v)
}
