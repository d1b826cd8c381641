package command

import (
	"errors"

	"github.com/yndnr/respd-go/internal/protocol/resp"
)

// Kind enumerates the supported commands.
type Kind int

const (
	KindUnknown Kind = iota
	KindPing
	KindEcho
)

// Fixed reply payloads.
const (
	PongReply           = "PONG"
	UnknownCommandReply = "ERROR_UNKNOWN_COMMAND"
)

// ErrNoRequestForm is returned by Request for commands a client cannot send.
var ErrNoRequestForm = errors.New("command: no request form")

// Command is the result of interpreting one request.
type Command struct {
	Kind Kind
	Text string // ECHO payload
}

// Ping returns the PING command.
func Ping() Command { return Command{Kind: KindPing} }

// Echo returns ECHO(text).
func Echo(text string) Command { return Command{Kind: KindEcho, Text: text} }

// Unknown returns the UNKNOWN command.
func Unknown() Command { return Command{Kind: KindUnknown} }

// Name returns the upper-case command name, used as a metrics label.
func (c Command) Name() string {
	switch c.Kind {
	case KindPing:
		return "PING"
	case KindEcho:
		return "ECHO"
	default:
		return "UNKNOWN"
	}
}

// AppendReply appends the wire reply for c to dst.
func (c Command) AppendReply(dst []byte) []byte {
	switch c.Kind {
	case KindPing:
		return resp.AppendSimpleString(dst, PongReply)
	case KindEcho:
		return resp.AppendBulkString(dst, c.Text)
	default:
		return resp.AppendError(dst, UnknownCommandReply)
	}
}

// Reply returns the wire reply for c.
func (c Command) Reply() []byte {
	return c.AppendReply(nil)
}

// Request returns the wire form a client sends to invoke c.
func (c Command) Request() ([]byte, error) {
	switch c.Kind {
	case KindPing:
		return resp.Marshal(resp.Command("PING")), nil
	case KindEcho:
		return resp.Marshal(resp.Command("ECHO", []byte(c.Text))), nil
	default:
		return nil, ErrNoRequestForm
	}
}

// UnknownReply returns the reply sent for requests that cannot be served.
func UnknownReply() []byte {
	return Unknown().Reply()
}
