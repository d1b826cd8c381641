package command

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/respd-go/internal/protocol/resp"
)

// PingCommand returns the ping command.
func PingCommand() *cli.Command {
	return &cli.Command{
		Name:   "ping",
		Usage:  "Check that the server answers",
		Action: pingAction,
	}
}

func pingAction(c *cli.Context) error {
	client, flags, err := connect(c)
	if err != nil {
		return err
	}
	defer client.Close()

	status, err := client.Ping(commandContext(c))
	if err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return printReply(c, flags.Output, resp.SimpleString(status))
}

// EchoCommand returns the echo command.
func EchoCommand() *cli.Command {
	return &cli.Command{
		Name:      "echo",
		Usage:     "Have the server send TEXT back",
		ArgsUsage: "TEXT",
		Action:    echoAction,
	}
}

func echoAction(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("echo takes exactly one argument, got %d", c.NArg())
	}

	client, flags, err := connect(c)
	if err != nil {
		return err
	}
	defer client.Close()

	text, err := client.Echo(commandContext(c), c.Args().First())
	if err != nil {
		return fmt.Errorf("echo: %w", err)
	}
	return printReply(c, flags.Output, resp.BulkString([]byte(text)))
}

// RawCommand returns the raw command, which sends any command array.
func RawCommand() *cli.Command {
	return &cli.Command{
		Name:      "raw",
		Usage:     "Send an arbitrary command and print the reply",
		ArgsUsage: "NAME [ARG...]",
		Description: "Error replies are printed like any other reply. A server using the\n" +
			"drop error policy does not answer rejected commands; raw then fails\n" +
			"once --timeout expires.",
		Action: rawAction,
	}
}

func rawAction(c *cli.Context) error {
	if c.NArg() == 0 {
		return fmt.Errorf("raw needs a command name")
	}

	client, flags, err := connect(c)
	if err != nil {
		return err
	}
	defer client.Close()

	args := c.Args().Slice()
	v, err := client.Do(commandContext(c), args[0], args[1:]...)
	if err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}
	return printReply(c, flags.Output, v)
}
