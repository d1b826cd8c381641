package resp

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"strconv"
)

// Default decoder limits.
const (
	DefaultMaxDepth    = 32
	DefaultMaxArrayLen = 1024 * 1024
	DefaultMaxBulkLen  = 512 * 1024 * 1024
	DefaultMaxLineLen  = 64 * 1024

	// Bulk payloads larger than this grow with the data actually received
	// instead of being allocated up front from the declared length.
	bulkPreallocLimit = 64 * 1024
)

// Limits bounds what a single frame may cost the decoder.
// Zero fields fall back to the defaults.
type Limits struct {
	MaxDepth    int // array nesting levels
	MaxArrayLen int // elements per array
	MaxBulkLen  int // bytes per bulk string
	MaxLineLen  int // bytes per header or simple line, terminator excluded
}

// DefaultLimits returns the default decoder limits.
func DefaultLimits() Limits {
	return Limits{
		MaxDepth:    DefaultMaxDepth,
		MaxArrayLen: DefaultMaxArrayLen,
		MaxBulkLen:  DefaultMaxBulkLen,
		MaxLineLen:  DefaultMaxLineLen,
	}
}

func (l Limits) withDefaults() Limits {
	d := DefaultLimits()
	if l.MaxDepth <= 0 {
		l.MaxDepth = d.MaxDepth
	}
	if l.MaxArrayLen <= 0 {
		l.MaxArrayLen = d.MaxArrayLen
	}
	if l.MaxBulkLen <= 0 {
		l.MaxBulkLen = d.MaxBulkLen
	}
	if l.MaxLineLen <= 0 {
		l.MaxLineLen = d.MaxLineLen
	}
	return l
}

// Decoder reads RESP frames from a buffered stream.
//
// A Decoder is not safe for concurrent use. After any error other than a
// clean io.EOF the stream position is undefined, except for ErrUnknownType
// which leaves the stream at the start of the following line.
type Decoder struct {
	r      *bufio.Reader
	limits Limits
}

// NewDecoder returns a Decoder reading from r. If r is not already a
// *bufio.Reader it is wrapped in one.
func NewDecoder(r io.Reader, limits Limits) *Decoder {
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(r)
	}
	return &Decoder{r: br, limits: limits.withDefaults()}
}

// Decode reads exactly one frame from r using the default limits.
func Decode(r *bufio.Reader) (Value, error) {
	return NewDecoder(r, DefaultLimits()).Decode()
}

// Limits returns the effective limits.
func (d *Decoder) Limits() Limits {
	return d.limits
}

// Buffered returns the number of bytes read from the stream but not yet decoded.
func (d *Decoder) Buffered() int {
	return d.r.Buffered()
}

// Decode reads the next frame. It returns io.EOF only when the stream ends
// cleanly between frames; a stream ending inside a frame yields
// io.ErrUnexpectedEOF.
func (d *Decoder) Decode() (Value, error) {
	return d.decode(0)
}

func (d *Decoder) decode(depth int) (Value, error) {
	tag, err := d.r.ReadByte()
	if err != nil {
		if depth > 0 {
			err = unexpected(err)
		}
		return Value{}, err
	}

	switch Kind(tag) {
	case KindSimpleString, KindError:
		line, err := d.readLine(tag)
		if err != nil {
			return Value{}, err
		}
		return Value{Kind: Kind(tag), Str: string(line)}, nil

	case KindInteger:
		line, err := d.readLine(tag)
		if err != nil {
			return Value{}, err
		}
		n, err := strconv.ParseInt(string(bytes.TrimSpace(line)), 10, 64)
		if err != nil {
			return Value{}, &DecodeError{Kind: ErrBadInteger, Tag: tag, Line: bytes.Clone(line)}
		}
		return Integer(n), nil

	case KindBulkString:
		n, err := d.readLength(tag)
		if err != nil {
			return Value{}, err
		}
		if n > int64(d.limits.MaxBulkLen) {
			return Value{}, limitError(tag, "bulk length %d exceeds limit %d", n, d.limits.MaxBulkLen)
		}
		payload, err := d.readBulk(n)
		if err != nil {
			return Value{}, err
		}
		return Value{Kind: KindBulkString, Bulk: payload}, nil

	case KindArray:
		n, err := d.readLength(tag)
		if err != nil {
			return Value{}, err
		}
		if n > int64(d.limits.MaxArrayLen) {
			return Value{}, limitError(tag, "array length %d exceeds limit %d", n, d.limits.MaxArrayLen)
		}
		if depth >= d.limits.MaxDepth {
			return Value{}, limitError(tag, "array nesting exceeds limit %d", d.limits.MaxDepth)
		}
		elems := make([]Value, 0, min(n, 1024))
		for i := int64(0); i < n; i++ {
			v, err := d.decode(depth + 1)
			if err != nil {
				return Value{}, err
			}
			elems = append(elems, v)
		}
		return Value{Kind: KindArray, Array: elems}, nil

	default:
		derr := &DecodeError{Kind: ErrUnknownType, Tag: tag}
		// A bare LF already ends the malformed line.
		if tag != '\n' {
			derr.Line = d.skipLine()
		}
		return Value{}, derr
	}
}

// readLength reads a bulk length or array count header.
func (d *Decoder) readLength(tag byte) (int64, error) {
	line, err := d.readLine(tag)
	if err != nil {
		return 0, err
	}
	n, err := strconv.ParseInt(string(bytes.TrimSpace(line)), 10, 64)
	if err != nil {
		return 0, &DecodeError{Kind: ErrBadLength, Tag: tag, Line: bytes.Clone(line)}
	}
	if n < 0 {
		return 0, &DecodeError{
			Kind:   ErrBadLength,
			Tag:    tag,
			Line:   bytes.Clone(line),
			Detail: "negative length, null frames are not supported",
		}
	}
	return n, nil
}

// readBulk reads n payload bytes and discards the 2-byte terminator after them.
func (d *Decoder) readBulk(n int64) ([]byte, error) {
	if n <= bulkPreallocLimit {
		buf := make([]byte, n+2)
		if _, err := io.ReadFull(d.r, buf); err != nil {
			return nil, unexpected(err)
		}
		return buf[:n:n], nil
	}

	var b bytes.Buffer
	b.Grow(bulkPreallocLimit)
	if _, err := io.CopyN(&b, d.r, n); err != nil {
		return nil, unexpected(err)
	}
	if _, err := d.r.Discard(2); err != nil {
		return nil, unexpected(err)
	}
	return b.Bytes(), nil
}

// readLine reads through the next LF and returns the line without its
// CRLF (or bare LF) terminator. The result may alias the reader's buffer
// and is only valid until the next read.
func (d *Decoder) readLine(tag byte) ([]byte, error) {
	limit := d.limits.MaxLineLen
	var buf []byte
	for {
		frag, err := d.r.ReadSlice('\n')
		if err == nil {
			if buf == nil {
				buf = frag
			} else {
				buf = append(buf, frag...)
			}
			break
		}
		if errors.Is(err, bufio.ErrBufferFull) {
			buf = append(buf, frag...)
			if len(buf) > limit+2 {
				return nil, limitError(tag, "line length exceeds limit %d", limit)
			}
			continue
		}
		return nil, unexpected(err)
	}

	buf = buf[:len(buf)-1]
	if n := len(buf); n > 0 && buf[n-1] == '\r' {
		buf = buf[:n-1]
	}
	if len(buf) > limit {
		return nil, limitError(tag, "line length exceeds limit %d", limit)
	}
	return buf, nil
}

// skipLine discards input through the next LF, however long the line is,
// and returns at most MaxLineLen bytes of it without the terminator.
// Read errors are left for the next Decode to report.
func (d *Decoder) skipLine() []byte {
	limit := d.limits.MaxLineLen
	var kept []byte
	for {
		frag, err := d.r.ReadSlice('\n')
		if room := limit + 2 - len(kept); room > 0 {
			kept = append(kept, frag[:min(len(frag), room)]...)
		}
		if err == nil {
			break
		}
		if !errors.Is(err, bufio.ErrBufferFull) {
			return nil
		}
	}
	kept = bytes.TrimSuffix(kept, []byte("\n"))
	kept = bytes.TrimSuffix(kept, []byte("\r"))
	if len(kept) > limit {
		kept = kept[:limit]
	}
	return kept
}

// unexpected maps a clean EOF inside a frame to io.ErrUnexpectedEOF.
func unexpected(err error) error {
	if err == io.EOF {
		return io.ErrUnexpectedEOF
	}
	return err
}
