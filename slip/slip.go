// Package slip implements RFC 1055 SLIP framing, as used by OSC 1.1 to
// delimit packets on a reliable byte stream.
package slip

const (
	End    = 0xC0
	Esc    = 0xDB
	EscEnd = 0xDC
	EscEsc = 0xDD
)

// Encode wraps data in SLIP framing.
// A leading END flushes any line noise the receiver has accumulated, then the
// escaped payload and a trailing END follow.
func Encode(data []byte) []byte {
	result := make([]byte, 0, len(data)+len(data)/8+2)
	result = append(result, End)

	for _, b := range data {
		switch b {
		case End:
			result = append(result, Esc, EscEnd)
		case Esc:
			result = append(result, Esc, EscEsc)
		default:
			result = append(result, b)
		}
	}

	return append(result, End)
}

// Decoder extracts frames from a byte stream delivered in arbitrary chunks.
// Partial frames and a pending escape carry over between calls to Feed.
//
// A Decoder belongs to one connection and is not safe for concurrent use.
type Decoder struct {
	frame   []byte
	escaped bool
}

// Feed consumes chunk and returns every frame it completed. Returned frames
// do not alias the decoder's buffer.
//
// Empty frames (duplicate or leading END bytes) are ignored. An escape byte
// followed by anything other than EscEnd or EscEsc yields that byte as is.
func (d *Decoder) Feed(chunk []byte) [][]byte {
	var frames [][]byte

	for _, b := range chunk {
		if d.escaped {
			switch b {
			case EscEnd:
				d.frame = append(d.frame, End)
			case EscEsc:
				d.frame = append(d.frame, Esc)
			default:
				d.frame = append(d.frame, b)
			}
			d.escaped = false
			continue
		}

		switch b {
		case Esc:
			d.escaped = true
		case End:
			if len(d.frame) > 0 {
				frames = append(frames, append([]byte(nil), d.frame...))
				d.frame = d.frame[:0]
			}
		default:
			d.frame = append(d.frame, b)
		}
	}

	return frames
}

// Buffered returns the number of bytes of the current partial frame.
func (d *Decoder) Buffered() int {
	return len(d.frame)
}

// Reset discards any partial frame and pending escape.
func (d *Decoder) Reset() {
	d.frame = d.frame[:0]
	d.escaped = false
}
