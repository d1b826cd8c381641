package output

import (
	"encoding/base64"
	"unicode/utf8"

	"github.com/yndnr/respd-go/internal/protocol/resp"
)

// Reply type names.
const (
	TypeStatus  = "status"
	TypeError   = "error"
	TypeInteger = "integer"
	TypeBulk    = "bulk"
	TypeArray   = "array"
)

// Reply is a RESP value shaped for structured output. Value holds a string
// for status, error and bulk replies, an int64 for integers and a []Reply
// for arrays. Bulk payloads that are not valid UTF-8 are base64 encoded and
// flagged in Encoding.
type Reply struct {
	Type     string `json:"type" yaml:"type"`
	Value    any    `json:"value" yaml:"value"`
	Encoding string `json:"encoding,omitempty" yaml:"encoding,omitempty"`
}

// FromValue converts a decoded RESP value.
func FromValue(v resp.Value) Reply {
	switch v.Kind {
	case resp.KindSimpleString:
		return Reply{Type: TypeStatus, Value: v.Str}
	case resp.KindError:
		return Reply{Type: TypeError, Value: v.Str}
	case resp.KindInteger:
		return Reply{Type: TypeInteger, Value: v.Int}
	case resp.KindBulkString:
		if utf8.Valid(v.Bulk) {
			return Reply{Type: TypeBulk, Value: string(v.Bulk)}
		}
		return Reply{Type: TypeBulk, Value: base64.StdEncoding.EncodeToString(v.Bulk), Encoding: "base64"}
	case resp.KindArray:
		items := make([]Reply, len(v.Array))
		for i, item := range v.Array {
			items[i] = FromValue(item)
		}
		return Reply{Type: TypeArray, Value: items}
	default:
		return Reply{Type: TypeError, Value: "invalid reply"}
	}
}
