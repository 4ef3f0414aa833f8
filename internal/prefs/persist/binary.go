package persist

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"sort"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
)

var utf16le = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)

// headerSize is the size of the record count and of each length field.
const headerSize = 4

// Encode writes table to w in the binary settings layout.
// Records are written in key order so equal tables encode identically.
func Encode(w io.Writer, table map[string]string) error {
	if len(table) > math.MaxInt32 {
		return fmt.Errorf("%w: %d records", ErrTooLarge, len(table))
	}

	keys := make([]string, 0, len(table))
	for k := range table {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	bw := bufio.NewWriter(w)
	enc := utf16le.NewEncoder()

	if err := writeInt32(bw, len(keys)); err != nil {
		return err
	}
	for _, k := range keys {
		kb, err := encodeString(enc, k)
		if err != nil {
			return err
		}
		vb, err := encodeString(enc, table[k])
		if err != nil {
			return err
		}

		if err := writeInt32(bw, len(kb)/2); err != nil {
			return err
		}
		if err := writeInt32(bw, len(vb)/2); err != nil {
			return err
		}
		if _, err := bw.Write(kb); err != nil {
			return err
		}
		if _, err := bw.Write(vb); err != nil {
			return err
		}
	}

	return bw.Flush()
}

// Decode parses data produced by Encode. Any structural problem returns
// an error wrapping ErrCorrupt and no table. Bytes after the last record
// are ignored.
func Decode(data []byte) (map[string]string, error) {
	r := &reader{data: data}
	dec := utf16le.NewDecoder()

	count, err := r.int32()
	if err != nil {
		return nil, fmt.Errorf("%w: missing record count", ErrCorrupt)
	}
	if count < 0 {
		return nil, fmt.Errorf("%w: negative record count %d", ErrCorrupt, count)
	}

	table := make(map[string]string, min(int(count), len(data)/(2*headerSize)))
	for i := 0; i < int(count); i++ {
		keyLen, err := r.int32()
		if err != nil {
			return nil, recordError(i, r, err)
		}
		valueLen, err := r.int32()
		if err != nil {
			return nil, recordError(i, r, err)
		}
		if keyLen < 0 || valueLen < 0 {
			return nil, fmt.Errorf("%w: record %d has negative length (key %d, value %d)",
				ErrCorrupt, i, keyLen, valueLen)
		}

		k, err := r.utf16(dec, keyLen)
		if err != nil {
			return nil, recordError(i, r, err)
		}
		v, err := r.utf16(dec, valueLen)
		if err != nil {
			return nil, recordError(i, r, err)
		}

		if _, dup := table[k]; dup {
			return nil, fmt.Errorf("%w: record %d duplicates key %q", ErrCorrupt, i, k)
		}
		table[k] = v
	}

	return table, nil
}

func recordError(i int, r *reader, err error) error {
	return fmt.Errorf("%w: record %d at offset %d of %d: %v", ErrCorrupt, i, r.off, len(r.data), err)
}

func encodeString(enc *encoding.Encoder, s string) ([]byte, error) {
	if !utf8.ValidString(s) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidText, s)
	}
	b, err := enc.Bytes([]byte(s))
	if err != nil {
		return nil, fmt.Errorf("encoding %q: %w", s, err)
	}
	if len(b)/2 > math.MaxInt32 {
		return nil, fmt.Errorf("%w: string of %d bytes", ErrTooLarge, len(b))
	}
	return b, nil
}

func writeInt32(w io.Writer, n int) error {
	return binary.Write(w, binary.LittleEndian, int32(n))
}

// reader walks a byte slice, refusing to read past its end.
type reader struct {
	data []byte
	off  int
}

func (r *reader) int32() (int32, error) {
	if len(r.data)-r.off < headerSize {
		return 0, io.ErrUnexpectedEOF
	}
	n := int32(binary.LittleEndian.Uint32(r.data[r.off:]))
	r.off += headerSize
	return n, nil
}

func (r *reader) utf16(dec *encoding.Decoder, units int32) (string, error) {
	size := int64(units) * 2
	if int64(len(r.data)-r.off) < size {
		return "", io.ErrUnexpectedEOF
	}
	raw := r.data[r.off : r.off+int(size)]
	r.off += int(size)

	if i := unpairedSurrogate(raw); i >= 0 {
		return "", fmt.Errorf("unpaired surrogate at code unit %d", i)
	}

	b, err := dec.Bytes(raw)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// unpairedSurrogate returns the index of the first UTF-16LE code unit in raw
// that is a surrogate without its partner, or -1.
func unpairedSurrogate(raw []byte) int {
	n := len(raw) / 2
	for i := 0; i < n; i++ {
		u := binary.LittleEndian.Uint16(raw[2*i:])
		switch {
		case u >= 0xD800 && u < 0xDC00:
			if i+1 >= n {
				return i
			}
			next := binary.LittleEndian.Uint16(raw[2*i+2:])
			if next < 0xDC00 || next >= 0xE000 {
				return i
			}
			i++
		case u >= 0xDC00 && u < 0xE000:
			return i
		}
	}
	return -1
}
