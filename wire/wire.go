// Package wire implements the primitive codecs (P): reading and writing the
// scalar atoms and the map/array/nil framings the rest of the library builds
// on (§6.1). Framing is a small, self-contained RFC 8949 major-type/length
// codec — fxamacker/cbor/v2 has no public streaming API for map/array
// headers, so wire owns just enough of that "byte-level packer" role (§1)
// to let Type Providers walk a Complex record's fields one key at a time;
// every scalar value itself is delegated to cbor.Marshal/Unmarshal.
package wire

import (
	"bufio"
	"bytes"
	"io"

	"github.com/fxamacker/cbor/v2"

	"github.com/drewnoakes/msgpack-strict/errs"
)

const (
	majorUint  = 0
	majorNint  = 1
	majorBytes = 2
	majorText  = 3
	majorArray = 4
	majorMap   = 5
	majorTag   = 6
	majorOther = 7
)

const (
	simpleNil   = 22
	simpleFloat = 26 // not referenced; copyItem checks the float info values directly
)

// Writer emits a MessagePack-like stream. It is not safe for concurrent use.
type Writer struct {
	w   io.Writer
	buf [9]byte
}

// NewWriter returns a Writer that writes to w.
func NewWriter(w io.Writer) *Writer { return &Writer{w: w} }

func (w *Writer) writeHeader(major byte, n uint64) error {
	switch {
	case n < 24:
		w.buf[0] = major<<5 | byte(n)
		_, err := w.w.Write(w.buf[:1])
		return err
	case n <= 0xff:
		w.buf[0] = major<<5 | 24
		w.buf[1] = byte(n)
		_, err := w.w.Write(w.buf[:2])
		return err
	case n <= 0xffff:
		w.buf[0] = major<<5 | 25
		w.buf[1] = byte(n >> 8)
		w.buf[2] = byte(n)
		_, err := w.w.Write(w.buf[:3])
		return err
	case n <= 0xffffffff:
		w.buf[0] = major<<5 | 26
		for i := 0; i < 4; i++ {
			w.buf[4-i] = byte(n >> (8 * i))
		}
		_, err := w.w.Write(w.buf[:5])
		return err
	default:
		w.buf[0] = major<<5 | 27
		for i := 0; i < 8; i++ {
			w.buf[8-i] = byte(n >> (8 * i))
		}
		_, err := w.w.Write(w.buf[:9])
		return err
	}
}

// WriteMapHeader begins a map of n (fieldName, value) entries. The caller
// writes exactly n keys and n values afterward, in whatever order it likes;
// Complex writes them in case-insensitive lexicographic order (§4.3).
func (w *Writer) WriteMapHeader(n int) error { return w.writeHeader(majorMap, uint64(n)) }

// WriteArrayHeader begins an array of n elements.
func (w *Writer) WriteArrayHeader(n int) error { return w.writeHeader(majorArray, uint64(n)) }

// WriteNil writes the nil marker (Nullable's absent-value encoding).
func (w *Writer) WriteNil() error {
	_, err := w.w.Write([]byte{majorOther<<5 | simpleNil})
	return err
}

// WriteString writes a text-string field name or Enum/Decimal payload.
func (w *Writer) WriteString(s string) error {
	if err := w.writeHeader(majorText, uint64(len(s))); err != nil {
		return err
	}
	_, err := io.WriteString(w.w, s)
	return err
}

// WriteScalar writes any other primitive atom (bool, integers, floats,
// bytes, timestamp) using its native CBOR encoding via cbor.Marshal — the
// "assumed" byte-level packer scope (§1).
func (w *Writer) WriteScalar(v interface{}) error {
	b, err := cbor.Marshal(v)
	if err != nil {
		return errs.Wrap(errs.SerialisationFault, "", err, "encode scalar %T", v)
	}
	_, err = w.w.Write(b)
	if err != nil {
		return errs.Wrap(errs.SerialisationFault, "", err, "write scalar %T", v)
	}
	return nil
}

// Reader consumes a MessagePack-like stream produced by Writer.
type Reader struct {
	r *bufio.Reader
}

// NewReader returns a Reader that reads from r.
func NewReader(r io.Reader) *Reader {
	if br, ok := r.(*bufio.Reader); ok {
		return &Reader{r: br}
	}
	return &Reader{r: bufio.NewReader(r)}
}

func (r *Reader) readHeader() (major byte, n uint64, err error) {
	first, err := r.r.ReadByte()
	if err != nil {
		return 0, 0, errs.Wrap(errs.DeserialisationFault, "", err, "read item header")
	}
	major = first >> 5
	info := first & 0x1f
	switch {
	case info < 24:
		return major, uint64(info), nil
	case info == 24:
		b, err := r.r.ReadByte()
		return major, uint64(b), err
	case info == 25:
		var buf [2]byte
		if _, err := io.ReadFull(r.r, buf[:]); err != nil {
			return 0, 0, err
		}
		return major, uint64(buf[0])<<8 | uint64(buf[1]), nil
	case info == 26:
		var buf [4]byte
		if _, err := io.ReadFull(r.r, buf[:]); err != nil {
			return 0, 0, err
		}
		var n uint64
		for _, b := range buf {
			n = n<<8 | uint64(b)
		}
		return major, n, nil
	case info == 27:
		var buf [8]byte
		if _, err := io.ReadFull(r.r, buf[:]); err != nil {
			return 0, 0, err
		}
		var n uint64
		for _, b := range buf {
			n = n<<8 | uint64(b)
		}
		return major, n, nil
	default:
		// simple values (nil, bool, float) carry their payload in info or
		// following bytes; PeekNil/ReadScalar below handle those directly.
		return major, uint64(info), nil
	}
}

// PeekNil reports whether the next item is the nil marker, without
// consuming it unless it is nil.
func (r *Reader) PeekNil() (bool, error) {
	b, err := r.r.Peek(1)
	if err != nil {
		return false, errs.Wrap(errs.DeserialisationFault, "", err, "peek item")
	}
	if b[0] == majorOther<<5|simpleNil {
		_, _ = r.r.Discard(1)
		return true, nil
	}
	return false, nil
}

// ReadMapHeader reads a map header and returns its entry count.
func (r *Reader) ReadMapHeader() (int, error) {
	major, n, err := r.readHeader()
	if err != nil {
		return 0, err
	}
	if major != majorMap {
		return 0, errs.New(errs.DeserialisationFault, "", "expected map, got major type %d", major)
	}
	return int(n), nil
}

// ReadArrayHeader reads an array header and returns its element count.
func (r *Reader) ReadArrayHeader() (int, error) {
	major, n, err := r.readHeader()
	if err != nil {
		return 0, err
	}
	if major != majorArray {
		return 0, errs.New(errs.DeserialisationFault, "", "expected array, got major type %d", major)
	}
	return int(n), nil
}

// ReadString reads a text-string item, used for field names, Enum member
// names, Decimal literals and Union member names.
func (r *Reader) ReadString() (string, error) {
	major, n, err := r.readHeader()
	if err != nil {
		return "", err
	}
	if major != majorText {
		return "", errs.New(errs.DeserialisationFault, "", "expected text string, got major type %d", major)
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r.r, buf); err != nil {
		return "", errs.Wrap(errs.DeserialisationFault, "", err, "read text string body")
	}
	return string(buf), nil
}

// ReadScalar reads one complete scalar item (bool, integer, float, bytes,
// or a tagged timestamp) into v, delegating the actual decode to
// cbor.Unmarshal over the item's reconstructed bytes.
func (r *Reader) ReadScalar(v interface{}) error {
	raw, err := r.readRawItem()
	if err != nil {
		return err
	}
	if err := cbor.Unmarshal(raw, v); err != nil {
		return errs.Wrap(errs.DeserialisationFault, "", err, "decode scalar into %T", v)
	}
	return nil
}

// SkipValue consumes and discards one complete item, used to implement the
// Ignore unexpected-field policy (§4.4) and Empty's read-anything semantics.
func (r *Reader) SkipValue() error {
	_, err := r.readRawItem()
	return err
}

// ReadRawValue consumes and returns the exact encoded bytes of the next
// complete item, without interpreting it. Complex buffers a wire map's
// entries this way so it can compare all incoming keys against its
// expected field list before recursively decoding any one value (§4.4).
func (r *Reader) ReadRawValue() ([]byte, error) {
	return r.readRawItem()
}

// readRawItem consumes exactly one complete CBOR data item — scalar,
// nested array, or nested map — and returns its raw encoded bytes.
func (r *Reader) readRawItem() ([]byte, error) {
	first, err := r.r.Peek(1)
	if err != nil {
		return nil, errs.Wrap(errs.DeserialisationFault, "", err, "peek item")
	}
	major := first[0] >> 5
	var buf bytes.Buffer
	if err := r.copyItem(&buf, major); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// copyItem copies one item's bytes from r into dst, recursing into
// array/map elements so nested container items are fully consumed.
func (r *Reader) copyItem(dst *bytes.Buffer, expectMajor byte) error {
	firstByte, err := r.r.ReadByte()
	if err != nil {
		return errs.Wrap(errs.DeserialisationFault, "", err, "read item byte")
	}
	dst.WriteByte(firstByte)
	major := firstByte >> 5
	info := firstByte & 0x1f

	var extra int
	switch {
	case info < 24:
		extra = 0
	case info == 24:
		extra = 1
	case info == 25:
		extra = 2
	case info == 26:
		extra = 4
	case info == 27:
		extra = 8
	default:
		extra = 0
	}
	var lenBuf [8]byte
	if extra > 0 {
		if _, err := io.ReadFull(r.r, lenBuf[:extra]); err != nil {
			return errs.Wrap(errs.DeserialisationFault, "", err, "read item length")
		}
		dst.Write(lenBuf[:extra])
	}

	length := headerValue(info, lenBuf[:extra])

	switch major {
	case majorUint, majorNint:
		// fixed-size, already fully consumed above
		return nil
	case majorBytes, majorText:
		body := make([]byte, length)
		if _, err := io.ReadFull(r.r, body); err != nil {
			return errs.Wrap(errs.DeserialisationFault, "", err, "read item body")
		}
		dst.Write(body)
		return nil
	case majorArray:
		for i := uint64(0); i < length; i++ {
			b, err := r.r.Peek(1)
			if err != nil {
				return errs.Wrap(errs.DeserialisationFault, "", err, "peek array element")
			}
			if err := r.copyItem(dst, b[0]>>5); err != nil {
				return err
			}
		}
		return nil
	case majorMap:
		for i := uint64(0); i < length*2; i++ {
			b, err := r.r.Peek(1)
			if err != nil {
				return errs.Wrap(errs.DeserialisationFault, "", err, "peek map entry")
			}
			if err := r.copyItem(dst, b[0]>>5); err != nil {
				return err
			}
		}
		return nil
	case majorTag:
		b, err := r.r.Peek(1)
		if err != nil {
			return errs.Wrap(errs.DeserialisationFault, "", err, "peek tagged value")
		}
		return r.copyItem(dst, b[0]>>5)
	case majorOther:
		if info == 25 { // half-precision float, unused by wire but handled defensively
			return nil
		}
		if info == 26 { // float32, extra already consumed above (4 bytes)
			return nil
		}
		if info == 27 { // float64, extra already consumed above (8 bytes)
			return nil
		}
		return nil
	default:
		return errs.New(errs.DeserialisationFault, "", "unsupported major type %d", major)
	}
}

func headerValue(info byte, extra []byte) uint64 {
	if info < 24 {
		return uint64(info)
	}
	var n uint64
	for _, b := range extra {
		n = n<<8 | uint64(b)
	}
	return n
}
