package repl

import (
	"errors"
	"strconv"
	"strings"
)

// ErrUnbalancedQuotes is returned for a line with an unterminated quote.
var ErrUnbalancedQuotes = errors.New("invalid argument(s): unbalanced quotes")

// SplitArgs splits a line into arguments. Double-quoted arguments support
// the escapes \n \r \t \" \\ and \xHH; single-quoted arguments are literal
// except for \'.
func SplitArgs(line string) ([]string, error) {
	var (
		args    []string
		cur     strings.Builder
		inArg   bool
		inQuote byte
	)

	for i := 0; i < len(line); i++ {
		c := line[i]

		switch {
		case inQuote == '"':
			switch {
			case c == '\\' && i+3 < len(line) && line[i+1] == 'x' && isHex(line[i+2]) && isHex(line[i+3]):
				n, _ := strconv.ParseUint(line[i+2:i+4], 16, 8)
				cur.WriteByte(byte(n))
				i += 3
			case c == '\\' && i+1 < len(line):
				i++
				switch line[i] {
				case 'n':
					cur.WriteByte('\n')
				case 'r':
					cur.WriteByte('\r')
				case 't':
					cur.WriteByte('\t')
				default:
					cur.WriteByte(line[i])
				}
			case c == '"':
				inQuote = 0
			default:
				cur.WriteByte(c)
			}

		case inQuote == '\'':
			switch {
			case c == '\\' && i+1 < len(line) && line[i+1] == '\'':
				cur.WriteByte('\'')
				i++
			case c == '\'':
				inQuote = 0
			default:
				cur.WriteByte(c)
			}

		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			if inArg {
				args = append(args, cur.String())
				cur.Reset()
				inArg = false
			}

		case c == '"' || c == '\'':
			inQuote = c
			inArg = true

		default:
			cur.WriteByte(c)
			inArg = true
		}
	}

	if inQuote != 0 {
		return nil, ErrUnbalancedQuotes
	}
	if inArg {
		args = append(args, cur.String())
	}
	return args, nil
}

func isHex(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}
