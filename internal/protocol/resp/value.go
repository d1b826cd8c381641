package resp

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
)

// Kind identifies the type of a RESP frame. Its value is the type-tag byte.
type Kind byte

const (
	KindSimpleString Kind = '+'
	KindError        Kind = '-'
	KindInteger      Kind = ':'
	KindBulkString   Kind = '$'
	KindArray        Kind = '*'
)

// String returns the frame type name.
func (k Kind) String() string {
	switch k {
	case KindSimpleString:
		return "simple-string"
	case KindError:
		return "error"
	case KindInteger:
		return "integer"
	case KindBulkString:
		return "bulk-string"
	case KindArray:
		return "array"
	default:
		return fmt.Sprintf("kind(0x%02x)", byte(k))
	}
}

// Value is one decoded RESP frame.
//
// Only the field matching Kind is meaningful: Str for simple strings and
// errors, Int for integers, Bulk for bulk strings, Array for arrays.
type Value struct {
	Kind  Kind
	Str   string
	Int   int64
	Bulk  []byte
	Array []Value
}

// SimpleString returns a simple string value.
func SimpleString(s string) Value {
	return Value{Kind: KindSimpleString, Str: s}
}

// Error returns an error value.
func Error(s string) Value {
	return Value{Kind: KindError, Str: s}
}

// Integer returns an integer value.
func Integer(n int64) Value {
	return Value{Kind: KindInteger, Int: n}
}

// BulkString returns a bulk string value holding b.
func BulkString(b []byte) Value {
	if b == nil {
		b = []byte{}
	}
	return Value{Kind: KindBulkString, Bulk: b}
}

// Array returns an array value holding elems in order.
func Array(elems ...Value) Value {
	if elems == nil {
		elems = []Value{}
	}
	return Value{Kind: KindArray, Array: elems}
}

// Command builds the array-of-bulk-strings form clients use for requests.
func Command(name string, args ...[]byte) Value {
	elems := make([]Value, 0, len(args)+1)
	elems = append(elems, BulkString([]byte(name)))
	for _, a := range args {
		elems = append(elems, BulkString(a))
	}
	return Array(elems...)
}

// Equal reports whether v and o are the same frame, recursively.
func (v Value) Equal(o Value) bool {
	if v.Kind != o.Kind {
		return false
	}
	switch v.Kind {
	case KindSimpleString, KindError:
		return v.Str == o.Str
	case KindInteger:
		return v.Int == o.Int
	case KindBulkString:
		return bytes.Equal(v.Bulk, o.Bulk)
	case KindArray:
		if len(v.Array) != len(o.Array) {
			return false
		}
		for i := range v.Array {
			if !v.Array[i].Equal(o.Array[i]) {
				return false
			}
		}
		return true
	default:
		return true
	}
}

// String returns a human readable rendering, used in logs and the CLI.
func (v Value) String() string {
	switch v.Kind {
	case KindSimpleString:
		return v.Str
	case KindError:
		return "(error) " + v.Str
	case KindInteger:
		return strconv.FormatInt(v.Int, 10)
	case KindBulkString:
		return strconv.Quote(string(v.Bulk))
	case KindArray:
		parts := make([]string, len(v.Array))
		for i, item := range v.Array {
			parts[i] = item.String()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	default:
		return "(invalid)"
	}
}
