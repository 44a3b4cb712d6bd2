package osc

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
)

////
// De/Encoding functions
////

// writePaddedString writes a string with its NUL terminator and padding
// bytes to the buffer. Returns the number of written bytes.
func writePaddedString(str string, b *bytes.Buffer) int {
	n, _ := b.WriteString(str)
	b.WriteByte(0)
	n++

	pad := padBytesNeeded(n)
	b.Write(empty[:pad])

	return n + pad
}

// writeBlob writes data as an OSC blob into b. If the length of data isn't
// 32-bit aligned, padding bytes will be added.
func writeBlob(data []byte, b *bytes.Buffer) int {
	writeUint32(uint32(len(data)), b)
	b.Write(data)

	pad := padBytesNeeded(len(data))
	b.Write(empty[:pad])

	return bit32Size + len(data) + pad
}

func writeUint32(v uint32, b *bytes.Buffer) {
	var buf [bit32Size]byte
	binary.BigEndian.PutUint32(buf[:], v)
	b.Write(buf[:])
}

// padBytesNeeded determines how many bytes are needed to fill up to the next 4
// byte length.
func padBytesNeeded(elementLen int) int {
	return (4 - (elementLen % 4)) % 4
}

// reader walks a message buffer. Every read checks the remaining length, so a
// truncated message fails with ErrMalformedMessage instead of panicking.
type reader struct {
	data []byte
	off  int
}

func (r *reader) remaining() int {
	if r.off >= len(r.data) {
		return 0
	}
	return len(r.data) - r.off
}

// paddedString reads a NUL-terminated string and skips its padding.
func (r *reader) paddedString() (string, error) {
	if r.remaining() == 0 {
		return "", fmt.Errorf("paddedString: string not NUL-terminated: %w", ErrMalformedMessage)
	}
	pos := bytes.IndexByte(r.data[r.off:], 0)
	if pos == -1 {
		return "", fmt.Errorf("paddedString: string not NUL-terminated: %w", ErrMalformedMessage)
	}

	str := string(r.data[r.off : r.off+pos])
	r.off += pos + 1 + padBytesNeeded(pos+1)
	return str, nil
}

func (r *reader) uint32() (uint32, error) {
	if r.remaining() < bit32Size {
		return 0, fmt.Errorf("uint32: need %d bytes, have %d: %w", bit32Size, r.remaining(), ErrMalformedMessage)
	}
	v := binary.BigEndian.Uint32(r.data[r.off:])
	r.off += bit32Size
	return v, nil
}

func (r *reader) int32() (int32, error) {
	v, err := r.uint32()
	return int32(v), err
}

func (r *reader) float32() (float32, error) {
	v, err := r.uint32()
	return math.Float32frombits(v), err
}

// blob reads a length-prefixed blob. Padding bytes are skipped and not
// returned.
func (r *reader) blob() ([]byte, error) {
	n, err := r.int32()
	if err != nil {
		return nil, fmt.Errorf("blob: %w", err)
	}
	if n < 0 || int(n) > r.remaining() {
		return nil, fmt.Errorf("blob: invalid blob length %d: %w", n, ErrMalformedMessage)
	}

	buf := make([]byte, n)
	copy(buf, r.data[r.off:])
	r.off += int(n) + padBytesNeeded(int(n))
	return buf, nil
}
