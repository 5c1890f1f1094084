package amf0

import (
	"fmt"
	"time"
)

// Type markers as defined in the AMF0 spec: https://www.adobe.com/content/dam/acom/en/devnet/pdf/amf0-file-format-specification.pdf
const (
	TypeNumber      byte = 0x00
	TypeBoolean     byte = 0x01
	TypeString      byte = 0x02
	TypeObject      byte = 0x03
	TypeMovieClip   byte = 0x04
	TypeNull        byte = 0x05
	TypeUndefined   byte = 0x06
	TypeReference   byte = 0x07
	TypeECMAArray   byte = 0x08
	TypeObjectEnd   byte = 0x09
	TypeStrictArray byte = 0x0A
	TypeDate        byte = 0x0B
	TypeLongString  byte = 0x0C
)

// NoLimit tells Decode that aggregates are only terminated by the object end marker.
const NoLimit int64 = -1

// Value is one AMF0 script data value. The set of implementations is closed:
// Number, Boolean, String, Object, MovieClip, Null, Undefined, Reference,
// ECMAArray, StrictArray, Date and LongString.
type Value interface {
	// Type returns the marker byte the value is encoded with.
	Type() byte
	amf0()
}

type Number float64

type Boolean bool

// String holds arbitrary bytes; it is not necessarily valid UTF-8.
type String string

// LongString is only produced by decoding. It is encoded as a String.
type LongString string

// MovieClip holds the clip path. Reserved by the format but still decodable.
type MovieClip string

type Null struct{}

type Undefined struct{}

// Reference is an index into the table of previously decoded complex values.
// It is kept as is and never resolved.
type Reference uint16

// Date is always interpreted and produced as UTC; the encoded time zone is ignored.
type Date struct {
	time.Time
}

// StrictArray is a dense, count prefixed sequence of values.
type StrictArray []Value

// Property is one key/value pair of an Object or an ECMAArray.
type Property struct {
	Key   string
	Value Value
}

// Object is an ordered set of properties, encoded in insertion order.
type Object []Property

// ECMAArray is an Object whose encoding carries an (untrusted) entry count.
type ECMAArray []Property

func (Number) Type() byte      { return TypeNumber }
func (Boolean) Type() byte     { return TypeBoolean }
func (String) Type() byte      { return TypeString }
func (LongString) Type() byte  { return TypeLongString }
func (MovieClip) Type() byte   { return TypeMovieClip }
func (Null) Type() byte        { return TypeNull }
func (Undefined) Type() byte   { return TypeUndefined }
func (Reference) Type() byte   { return TypeReference }
func (Date) Type() byte        { return TypeDate }
func (StrictArray) Type() byte { return TypeStrictArray }
func (Object) Type() byte      { return TypeObject }
func (ECMAArray) Type() byte   { return TypeECMAArray }

func (Number) amf0()      {}
func (Boolean) amf0()     {}
func (String) amf0()      {}
func (LongString) amf0()  {}
func (MovieClip) amf0()   {}
func (Null) amf0()        {}
func (Undefined) amf0()   {}
func (Reference) amf0()   {}
func (Date) amf0()        {}
func (StrictArray) amf0() {}
func (Object) amf0()      {}
func (ECMAArray) amf0()   {}

// NewDate returns t as a UTC Date.
func NewDate(t time.Time) Date {
	return Date{t.UTC()}
}

// Get returns the value stored under key.
func (o Object) Get(key string) (Value, bool) {
	return get(o, key)
}

// Set replaces the value stored under key, or appends a new property.
func (o *Object) Set(key string, v Value) {
	*o = set(*o, key, v)
}

func (o Object) Len() int { return len(o) }

func (a ECMAArray) Get(key string) (Value, bool) {
	return get(a, key)
}

func (a *ECMAArray) Set(key string, v Value) {
	*a = set(*a, key, v)
}

func (a ECMAArray) Len() int { return len(a) }

func get(props []Property, key string) (Value, bool) {
	for _, p := range props {
		if p.Key == key {
			return p.Value, true
		}
	}
	return nil, false
}

func set(props []Property, key string, v Value) []Property {
	for i := range props {
		if props[i].Key == key {
			props[i].Value = v
			return props
		}
	}
	return append(props, Property{Key: key, Value: v})
}

// Properties returns the properties of an Object or ECMAArray, and false for any other value.
func Properties(v Value) ([]Property, bool) {
	switch v := v.(type) {
	case Object:
		return v, true
	case ECMAArray:
		return v, true
	}
	return nil, false
}

// TypeName returns a human readable name of the marker.
func TypeName(marker byte) string {
	switch marker {
	case TypeNumber:
		return "Number"
	case TypeBoolean:
		return "Boolean"
	case TypeString:
		return "String"
	case TypeObject:
		return "Object"
	case TypeMovieClip:
		return "MovieClip"
	case TypeNull:
		return "Null"
	case TypeUndefined:
		return "Undefined"
	case TypeReference:
		return "Reference"
	case TypeECMAArray:
		return "ECMAArray"
	case TypeStrictArray:
		return "StrictArray"
	case TypeDate:
		return "Date"
	case TypeLongString:
		return "LongString"
	}
	return fmt.Sprintf("Unknown(0x%02x)", marker)
}
