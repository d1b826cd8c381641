package resp

import (
	"strconv"
	"strings"
)

// CRLF terminates every header and simple line.
const CRLF = "\r\n"

// lineSafe replaces CR and LF, which cannot appear inside a simple line.
var lineSafe = strings.NewReplacer("\r", " ", "\n", " ")

// AppendSimpleString appends "+<s>\r\n".
func AppendSimpleString(dst []byte, s string) []byte {
	dst = append(dst, byte(KindSimpleString))
	dst = append(dst, lineSafe.Replace(s)...)
	return append(dst, CRLF...)
}

// AppendError appends "-<s>\r\n".
func AppendError(dst []byte, s string) []byte {
	dst = append(dst, byte(KindError))
	dst = append(dst, lineSafe.Replace(s)...)
	return append(dst, CRLF...)
}

// AppendInteger appends ":<n>\r\n".
func AppendInteger(dst []byte, n int64) []byte {
	dst = append(dst, byte(KindInteger))
	dst = strconv.AppendInt(dst, n, 10)
	return append(dst, CRLF...)
}

// AppendBulk appends "$<len(b)>\r\n<b>\r\n". The length is the byte length.
func AppendBulk(dst []byte, b []byte) []byte {
	dst = append(dst, byte(KindBulkString))
	dst = strconv.AppendInt(dst, int64(len(b)), 10)
	dst = append(dst, CRLF...)
	dst = append(dst, b...)
	return append(dst, CRLF...)
}

// AppendBulkString is AppendBulk for a string payload.
func AppendBulkString(dst []byte, s string) []byte {
	dst = append(dst, byte(KindBulkString))
	dst = strconv.AppendInt(dst, int64(len(s)), 10)
	dst = append(dst, CRLF...)
	dst = append(dst, s...)
	return append(dst, CRLF...)
}

// AppendArrayHeader appends "*<n>\r\n". The caller appends the n elements.
func AppendArrayHeader(dst []byte, n int) []byte {
	dst = append(dst, byte(KindArray))
	dst = strconv.AppendInt(dst, int64(n), 10)
	return append(dst, CRLF...)
}

// AppendValue appends the wire form of v. Values with an unknown Kind are
// encoded as an error frame.
func AppendValue(dst []byte, v Value) []byte {
	switch v.Kind {
	case KindSimpleString:
		return AppendSimpleString(dst, v.Str)
	case KindError:
		return AppendError(dst, v.Str)
	case KindInteger:
		return AppendInteger(dst, v.Int)
	case KindBulkString:
		return AppendBulk(dst, v.Bulk)
	case KindArray:
		dst = AppendArrayHeader(dst, len(v.Array))
		for _, elem := range v.Array {
			dst = AppendValue(dst, elem)
		}
		return dst
	default:
		return AppendError(dst, "ERR invalid value kind")
	}
}

// Marshal returns the wire form of v.
func Marshal(v Value) []byte {
	return AppendValue(nil, v)
}
