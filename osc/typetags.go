package osc

import (
	"math"
)

// TypeTag is a single character of an OSC type tag string.
type TypeTag rune

const (
	TypeString     TypeTag = 's'
	TypeInt32      TypeTag = 'i'
	TypeFloat32    TypeTag = 'f'
	TypeBlob       TypeTag = 'b'
	TypeNil        TypeTag = 'N'
	TypeTrue       TypeTag = 'T'
	TypeFalse      TypeTag = 'F'
	TypeArrayStart TypeTag = '['
	TypeArrayEnd   TypeTag = ']'
)

// ToTypeTag returns the OSC TypeTag for the given argument. Arrays report
// TypeArrayStart. Go integers within the int32 range and float64 values are
// narrowed to int32 and float32. Integers outside that range, and anything
// else, are sent as their string representation.
func ToTypeTag(arg interface{}) TypeTag {
	switch t := arg.(type) {
	case bool:
		if t {
			return TypeTrue
		}
		return TypeFalse
	case nil:
		return TypeNil
	case int32, int, int8, int16, int64, uint8, uint16, uint32, uint64, uint:
		if _, ok := int32Value(t); ok {
			return TypeInt32
		}
		return TypeString
	case float32, float64:
		return TypeFloat32
	case string:
		return TypeString
	case []byte:
		return TypeBlob
	case []interface{}, []string:
		return TypeArrayStart
	default:
		return TypeString
	}
}

// appendTypeTags appends the tags for args to tags. Arrays contribute their
// bracketed run of inner tags.
func appendTypeTags(tags []byte, args []interface{}) []byte {
	for _, arg := range args {
		switch t := arg.(type) {
		case []interface{}:
			tags = append(tags, byte(TypeArrayStart))
			tags = appendTypeTags(tags, t)
			tags = append(tags, byte(TypeArrayEnd))
		case []string:
			tags = append(tags, byte(TypeArrayStart))
			for range t {
				tags = append(tags, byte(TypeString))
			}
			tags = append(tags, byte(TypeArrayEnd))
		default:
			tags = append(tags, byte(ToTypeTag(arg)))
		}
	}
	return tags
}

// GetTypeTag returns the OSC type tag string for the given arguments,
// including the leading ','.
func GetTypeTag(args []interface{}) string {
	tags := make([]byte, 1, len(args)+1)
	tags[0] = ','
	return string(appendTypeTags(tags, args))
}

// int32Value returns arg as an int32 if it is a Go integer that fits.
func int32Value(arg interface{}) (int32, bool) {
	switch t := arg.(type) {
	case int32:
		return t, true
	case int8:
		return int32(t), true
	case int16:
		return int32(t), true
	case uint8:
		return int32(t), true
	case uint16:
		return int32(t), true
	case int:
		if t >= math.MinInt32 && t <= math.MaxInt32 {
			return int32(t), true
		}
	case int64:
		if t >= math.MinInt32 && t <= math.MaxInt32 {
			return int32(t), true
		}
	case uint32:
		if t <= math.MaxInt32 {
			return int32(t), true
		}
	case uint64:
		if t <= math.MaxInt32 {
			return int32(t), true
		}
	case uint:
		if t <= math.MaxInt32 {
			return int32(t), true
		}
	}
	return 0, false
}
