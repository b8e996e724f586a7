// Package binread reads fixed-offset fields out of emulator memory blobs.
//
// Every accessor is total: a field that falls outside the buffer reads as
// zero instead of failing, so short or truncated blobs degrade to default
// values rather than aborting a tick.
package binread

import (
	"encoding/base64"
	"encoding/binary"
	"strings"
)

// Reader is a read-only view over a memory blob.
type Reader struct {
	buf []byte
}

// New wraps b without copying it.
func New(b []byte) Reader {
	return Reader{buf: b}
}

// Decode turns a base64 blob into a Reader. Both padded and unpadded
// encodings are accepted.
func Decode(blob string) (Reader, error) {
	b, err := DecodeBase64(blob)
	if err != nil {
		return Reader{}, err
	}
	return New(b), nil
}

// DecodeBase64 decodes standard or URL-safe base64, tolerating missing
// padding and surrounding whitespace.
func DecodeBase64(blob string) ([]byte, error) {
	blob = strings.TrimSpace(blob)
	padded, raw := base64.StdEncoding, base64.RawStdEncoding
	if strings.ContainsAny(blob, "-_") {
		padded, raw = base64.URLEncoding, base64.RawURLEncoding
	}
	if strings.HasSuffix(blob, "=") || len(blob)%4 == 0 {
		return padded.DecodeString(blob)
	}
	return raw.DecodeString(blob)
}

// Len returns the blob size in bytes.
func (r Reader) Len() int {
	return len(r.buf)
}

// Bytes returns the underlying buffer.
func (r Reader) Bytes() []byte {
	return r.buf
}

// Fits reports whether n bytes starting at off are inside the blob.
func (r Reader) Fits(off, n int) bool {
	return off >= 0 && n >= 0 && off+n <= len(r.buf)
}

// Slice returns a sub-reader of n bytes at off, clamped to the blob.
func (r Reader) Slice(off, n int) Reader {
	if off < 0 || off >= len(r.buf) || n <= 0 {
		return Reader{}
	}
	end := off + n
	if end > len(r.buf) {
		end = len(r.buf)
	}
	return Reader{buf: r.buf[off:end]}
}

// U8 reads one byte.
func (r Reader) U8(off int) uint8 {
	if !r.Fits(off, 1) {
		return 0
	}
	return r.buf[off]
}

// U8Or reads one byte, returning def when the offset is out of range.
func (r Reader) U8Or(off int, def uint8) uint8 {
	if !r.Fits(off, 1) {
		return def
	}
	return r.buf[off]
}

// U16LE reads a little-endian uint16.
func (r Reader) U16LE(off int) uint16 {
	if !r.Fits(off, 2) {
		return 0
	}
	return binary.LittleEndian.Uint16(r.buf[off:])
}

// U32LE reads a little-endian uint32.
func (r Reader) U32LE(off int) uint32 {
	if !r.Fits(off, 4) {
		return 0
	}
	return binary.LittleEndian.Uint32(r.buf[off:])
}

// I32LE reads a little-endian int32.
func (r Reader) I32LE(off int) int32 {
	return int32(r.U32LE(off))
}

// I32Array reads up to max consecutive little-endian int32 values, stopping
// at the last whole word in the blob.
func (r Reader) I32Array(max int) []int32 {
	count := min(len(r.buf)/4, max)
	out := make([]int32, count)
	for i := range count {
		out[i] = r.I32LE(i * 4)
	}
	return out
}

// U32Array reads up to max consecutive little-endian uint32 values.
func (r Reader) U32Array(max int) []uint32 {
	count := min(len(r.buf)/4, max)
	out := make([]uint32, count)
	for i := range count {
		out[i] = r.U32LE(i * 4)
	}
	return out
}
