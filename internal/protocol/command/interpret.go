package command

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/yndnr/respd-go/internal/protocol/resp"
	"github.com/yndnr/respd-go/internal/telemetry/logger"
)

// Interpret maps a decoded value to a Command. It has no side effects.
//
// An error frame is not a failure: it yields Unknown with a nil error.
func Interpret(v resp.Value) (Command, error) {
	switch v.Kind {
	case resp.KindArray:
		return interpretArray(v.Array)
	case resp.KindError:
		return Unknown(), nil
	default:
		return Command{}, &Error{Kind: ErrNotACommand, Detail: "top-level " + v.Kind.String()}
	}
}

func interpretArray(elems []resp.Value) (Command, error) {
	if len(elems) == 0 {
		return Command{}, &Error{Kind: ErrNotACommand, Detail: "empty array"}
	}
	if elems[0].Kind != resp.KindBulkString {
		return Command{}, &Error{Kind: ErrNotACommand, Detail: "command name is a " + elems[0].Kind.String()}
	}

	name := strings.ToLower(lossyString(elems[0].Bulk))
	args := elems[1:]

	switch name {
	case "ping":
		return Ping(), nil

	case "echo":
		switch {
		case len(args) == 0:
			return Command{}, &Error{Kind: ErrArity, Name: name, Detail: "missing argument"}
		case len(args) > 1:
			return Command{}, &Error{Kind: ErrArity, Name: name, Detail: "variadic ECHO is not implemented"}
		case args[0].Kind != resp.KindBulkString:
			return Command{}, &Error{Kind: ErrType, Name: name, Detail: "argument is a " + args[0].Kind.String()}
		}
		return Echo(lossyString(args[0].Bulk)), nil

	default:
		return Command{}, &Error{Kind: ErrUnknownCommand, Name: name}
	}
}

// lossyString decodes b as UTF-8, replacing each maximal invalid
// subsequence with one U+FFFD.
func lossyString(b []byte) string {
	if utf8.Valid(b) {
		return string(b)
	}
	var sb strings.Builder
	sb.Grow(len(b) + 8)
	for len(b) > 0 {
		r, size := utf8.DecodeRune(b)
		if r == utf8.RuneError && size == 1 {
			sb.WriteRune(utf8.RuneError)
			size = invalidPrefixLen(b)
		} else {
			sb.Write(b[:size])
		}
		b = b[size:]
	}
	return sb.String()
}

// invalidPrefixLen returns the length of the ill-formed sequence at the
// start of b: a lead byte plus the continuation bytes that could still
// extend it, or 1 when the first byte cannot start a sequence.
func invalidPrefixLen(b []byte) int {
	lo, hi, n := byte(0x80), byte(0xBF), 0
	switch c := b[0]; {
	case c >= 0xC2 && c <= 0xDF:
		n = 2
	case c == 0xE0:
		lo, n = 0xA0, 3
	case c == 0xED:
		hi, n = 0x9F, 3
	case c >= 0xE1 && c <= 0xEF:
		n = 3
	case c == 0xF0:
		lo, n = 0x90, 4
	case c >= 0xF1 && c <= 0xF3:
		n = 4
	case c == 0xF4:
		hi, n = 0x8F, 4
	default:
		return 1
	}
	i := 1
	for ; i < n && i < len(b); i++ {
		if b[i] < lo || b[i] > hi {
			break
		}
		lo, hi = 0x80, 0xBF
	}
	return i
}

// Interpreter wraps Interpret with the diagnostic logging a server needs.
type Interpreter struct {
	log logger.Logger
}

// NewInterpreter creates an Interpreter. A nil logger uses the default logger.
func NewInterpreter(l logger.Logger) *Interpreter {
	if l == nil {
		l = logger.Default()
	}
	return &Interpreter{log: l}
}

// Interpret interprets v and reports error frames sent by the peer.
func (in *Interpreter) Interpret(ctx context.Context, v resp.Value) (Command, error) {
	if v.Kind == resp.KindError {
		logger.Enrich(ctx, in.log).Warn("peer sent an error frame", "payload", v.Str)
	}
	return Interpret(v)
}
