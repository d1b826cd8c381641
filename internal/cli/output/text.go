package output

import (
	"encoding/base64"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// TextFormatter renders replies the way redis-cli does. Data other than a
// Reply is printed with fmt.
type TextFormatter struct{}

// Format writes data followed by a newline.
func (f *TextFormatter) Format(w io.Writer, data any) error {
	reply, ok := data.(Reply)
	if !ok {
		_, err := fmt.Fprintln(w, data)
		return err
	}
	var b strings.Builder
	writeText(&b, reply, "")
	_, err := io.WriteString(w, b.String())
	return err
}

func writeText(b *strings.Builder, r Reply, indent string) {
	switch r.Type {
	case TypeStatus:
		fmt.Fprintf(b, "%v\n", r.Value)
	case TypeError:
		fmt.Fprintf(b, "(error) %v\n", r.Value)
	case TypeInteger:
		fmt.Fprintf(b, "(integer) %v\n", r.Value)
	case TypeBulk:
		s, _ := r.Value.(string)
		if r.Encoding == "base64" {
			if raw, err := base64.StdEncoding.DecodeString(s); err == nil {
				s = string(raw)
			}
		}
		b.WriteString(strconv.Quote(s))
		b.WriteByte('\n')
	case TypeArray:
		items, _ := r.Value.([]Reply)
		if len(items) == 0 {
			b.WriteString("(empty array)\n")
			return
		}
		width := len(strconv.Itoa(len(items)))
		for i, item := range items {
			if i > 0 {
				b.WriteString(indent)
			}
			label := fmt.Sprintf("%*d) ", width, i+1)
			b.WriteString(label)
			writeText(b, item, indent+strings.Repeat(" ", len(label)))
		}
	default:
		fmt.Fprintf(b, "%v\n", r.Value)
	}
}
