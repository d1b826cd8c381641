package resp

import (
	"errors"
	"fmt"
	"strconv"
)

var (
	// ErrProtocol is the parent of every malformed-frame error.
	ErrProtocol = errors.New("resp: protocol error")

	// ErrUnknownType is returned for a frame whose tag byte is not one of + - : $ *.
	ErrUnknownType = fmt.Errorf("%w: unknown type", ErrProtocol)

	// ErrBadInteger is returned when an integer frame does not hold a signed decimal.
	ErrBadInteger = fmt.Errorf("%w: bad integer", ErrProtocol)

	// ErrBadLength is returned for a malformed or negative bulk length or array count.
	ErrBadLength = fmt.Errorf("%w: bad length", ErrProtocol)

	// ErrLimitExceeded is returned when a frame exceeds a configured decoder limit.
	ErrLimitExceeded = errors.New("resp: limit exceeded")
)

// DecodeError describes why a frame could not be decoded.
//
// It matches its sentinel (and ErrProtocol where applicable) with errors.Is.
type DecodeError struct {
	Kind   error  // one of the sentinels above
	Tag    byte   // type-tag byte of the failing frame
	Line   []byte // offending header or remainder of the malformed line, best effort
	Detail string
}

func (e *DecodeError) Error() string {
	msg := e.Kind.Error()
	if e.Kind == ErrUnknownType {
		msg += " " + strconv.QuoteRune(rune(e.Tag))
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if len(e.Line) > 0 {
		msg += " (line " + strconv.Quote(string(e.Line)) + ")"
	}
	return msg
}

// Unwrap returns the sentinel.
func (e *DecodeError) Unwrap() error {
	return e.Kind
}

func limitError(tag byte, format string, args ...any) *DecodeError {
	return &DecodeError{Kind: ErrLimitExceeded, Tag: tag, Detail: fmt.Sprintf(format, args...)}
}
