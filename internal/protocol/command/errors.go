package command

import "errors"

var (
	// ErrNotACommand is returned when the value is not a non-empty array
	// whose first element is a bulk string.
	ErrNotACommand = errors.New("command: not a command")

	// ErrUnknownCommand is returned for an unrecognized command name.
	ErrUnknownCommand = errors.New("command: unknown command")

	// ErrArity is returned for a wrong argument count.
	ErrArity = errors.New("command: wrong number of arguments")

	// ErrType is returned when an argument has the wrong frame type.
	ErrType = errors.New("command: wrong argument type")
)

// Error describes an interpretation failure. It matches its sentinel with errors.Is.
type Error struct {
	Kind   error
	Name   string // lower-cased command name, empty if none was found
	Detail string
}

func (e *Error) Error() string {
	msg := e.Kind.Error()
	if e.Name != "" {
		msg += " '" + e.Name + "'"
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

// Unwrap returns the sentinel.
func (e *Error) Unwrap() error {
	return e.Kind
}
