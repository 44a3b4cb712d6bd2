package osc

import (
	"bytes"
	"fmt"
	"math"
	"reflect"
	"strings"
)

// Message represents a single OSC message. An OSC message consists of an OSC
// address and zero or more arguments.
//
// Arguments hold int32, float32, string, []byte (blob), bool, nil and
// []interface{} (array) values. Arrays may nest.
type Message struct {
	Address   string
	Arguments []interface{}
}

// NewMessage returns a new Message. The address parameter is the OSC address.
func NewMessage(addr string, args ...interface{}) *Message {
	return &Message{Address: addr, Arguments: args}
}

// Append appends the given arguments to the arguments list.
func (m *Message) Append(args ...interface{}) {
	m.Arguments = append(m.Arguments, args...)
}

// Equals returns true if the given OSC Message `o` has the same address and
// arguments.
func (m *Message) Equals(o *Message) bool {
	return reflect.DeepEqual(m, o)
}

// TypeTags returns the type tag string.
func (m *Message) TypeTags() (string, error) {
	if m == nil {
		return "", fmt.Errorf("TypeTags: message is nil")
	}
	return GetTypeTag(m.Arguments), nil
}

// String implements the fmt.Stringer interface.
func (m *Message) String() string {
	if m == nil {
		return ""
	}

	tags, _ := m.TypeTags()

	strBuf := bufPool.Get().(*bytes.Buffer)
	defer bufPool.Put(strBuf)
	strBuf.Reset()

	strBuf.WriteString(m.Address)
	strBuf.WriteByte(' ')
	strBuf.WriteString(tags)
	writeArgumentStrings(strBuf, m.Arguments)

	return strBuf.String()
}

func writeArgumentStrings(b *bytes.Buffer, args []interface{}) {
	for _, arg := range args {
		switch arg := arg.(type) {
		case nil:
			b.WriteString(" Nil")
		case []byte:
			b.WriteString(" blob")
		case []interface{}:
			b.WriteString(" [")
			writeArgumentStrings(b, arg)
			b.WriteString(" ]")
		default:
			fmt.Fprintf(b, " %v", arg)
		}
	}
}

// Encode serializes an address and its arguments into OSC message bytes.
func Encode(addr string, args ...interface{}) ([]byte, error) {
	return NewMessage(addr, args...).MarshalBinary()
}

// Decode parses OSC message bytes into an address and its arguments.
func Decode(data []byte) (string, []interface{}, error) {
	m, err := NewMessageFromData(data)
	if err != nil {
		return "", nil, err
	}
	return m.Address, m.Arguments, nil
}

// MarshalBinary implements the encoding.BinaryMarshaler interface. The byte
// buffer has the following format:
// 1. OSC Address
// 2. OSC Type Tag String
// 3. OSC Arguments
func (m *Message) MarshalBinary() ([]byte, error) {
	data := bufPool.Get().(*bytes.Buffer)
	defer bufPool.Put(data)
	data.Reset()

	if err := m.LightMarshalBinary(data); err != nil {
		return nil, err
	}
	return append([]byte(nil), data.Bytes()...), nil
}

// LightMarshalBinary writes the encoded message into data.
func (m *Message) LightMarshalBinary(data *bytes.Buffer) error {
	if !strings.HasPrefix(m.Address, "/") {
		return fmt.Errorf("LightMarshalBinary: address %q: %w", m.Address, ErrInvalidAddress)
	}

	writePaddedString(m.Address, data)

	tags, err := m.TypeTags()
	if err != nil {
		return err
	}
	writePaddedString(tags, data)

	writeArguments(m.Arguments, data)
	return nil
}

// writeArguments writes the payload of every argument. Arrays write their
// elements in order; bools and nil have no payload.
func writeArguments(args []interface{}, b *bytes.Buffer) {
	for _, arg := range args {
		switch t := arg.(type) {
		case bool, nil:
			continue
		case int32, int, int8, int16, int64, uint8, uint16, uint32, uint64, uint:
			if v, ok := int32Value(t); ok {
				writeUint32(uint32(v), b)
			} else {
				writePaddedString(fmt.Sprint(t), b)
			}
		case float32:
			writeUint32(math.Float32bits(t), b)
		case float64:
			writeUint32(math.Float32bits(float32(t)), b)
		case string:
			writePaddedString(t, b)
		case []byte:
			writeBlob(t, b)
		case []interface{}:
			writeArguments(t, b)
		case []string:
			for _, s := range t {
				writePaddedString(s, b)
			}
		default:
			writePaddedString(fmt.Sprint(t), b)
		}
	}
}

// NewMessageFromData returns a new OSC message created from the parsed data.
func NewMessageFromData(data []byte) (*Message, error) {
	m := &Message{}
	if err := m.UnmarshalBinary(data); err != nil {
		return nil, err
	}
	return m, nil
}

// UnmarshalBinary implements the encoding.BinaryUnmarshaler interface.
func (m *Message) UnmarshalBinary(data []byte) error {
	r := &reader{data: data}

	addr, err := r.paddedString()
	if err != nil {
		return fmt.Errorf("UnmarshalBinary: address: %w", err)
	}

	typetags, err := r.paddedString()
	if err != nil {
		return fmt.Errorf("UnmarshalBinary: typetags: %w", err)
	}
	if len(typetags) == 0 || typetags[0] != ',' {
		return fmt.Errorf("UnmarshalBinary: unsupported typetag string %q: %w", typetags, ErrMalformedMessage)
	}

	args, _, err := r.readArguments(typetags[1:], false)
	if err != nil {
		return fmt.Errorf("UnmarshalBinary: %w", err)
	}

	m.Address = addr
	m.Arguments = args
	return nil
}

// readArguments walks tags alongside the byte cursor and returns the decoded
// arguments and the number of tags consumed. Inside an array the walk stops
// after the matching ']'; an array left open runs to the end of the tags.
// Unknown tags are skipped without consuming payload.
func (r *reader) readArguments(tags string, nested bool) ([]interface{}, int, error) {
	var args []interface{}
	if nested {
		args = make([]interface{}, 0)
	}

	i := 0
	for i < len(tags) {
		c := TypeTag(tags[i])
		i++

		switch c {
		case TypeInt32:
			v, err := r.int32()
			if err != nil {
				return nil, i, err
			}
			args = append(args, v)

		case TypeFloat32:
			v, err := r.float32()
			if err != nil {
				return nil, i, err
			}
			args = append(args, v)

		case TypeString:
			v, err := r.paddedString()
			if err != nil {
				return nil, i, err
			}
			args = append(args, v)

		case TypeBlob:
			v, err := r.blob()
			if err != nil {
				return nil, i, err
			}
			args = append(args, v)

		case TypeTrue:
			args = append(args, true)

		case TypeFalse:
			args = append(args, false)

		case TypeNil:
			args = append(args, nil)

		case TypeArrayStart:
			inner, n, err := r.readArguments(tags[i:], true)
			if err != nil {
				return nil, i, err
			}
			i += n
			args = append(args, inner)

		case TypeArrayEnd:
			if nested {
				return args, i, nil
			}
		}
	}

	return args, i, nil
}
