package amf0

import (
	"math"
	"time"

	"github.com/pkg/errors"
	"github.com/torresjeff/flv/primitive"
)

// Decode reads one marker-prefixed value from r.
//
// end is either NoLimit or the absolute offset at which the enclosing payload
// ends. Some producers end an Object or ECMAArray exactly at the payload
// boundary without writing the object end marker; with end set, such an
// aggregate stops there instead of running into the next tag.
func Decode(r *primitive.Reader, end int64) (Value, error) {
	marker, err := r.Uint8()
	if err != nil {
		return nil, err
	}
	return decodeType(r, marker, end)
}

// DecodeVariable reads a script data variable: a String name without marker followed by a value.
func DecodeVariable(r *primitive.Reader, end int64) (String, Value, error) {
	name, err := decodeString(r)
	if err != nil {
		return "", nil, err
	}
	v, err := Decode(r, end)
	if err != nil {
		return "", nil, err
	}
	return name, v, nil
}

func decodeType(r *primitive.Reader, marker byte, end int64) (Value, error) {
	switch marker {
	case TypeNumber:
		f, err := r.Float64()
		return Number(f), err
	case TypeBoolean:
		b, err := r.Uint8()
		return Boolean(b != 0), err
	case TypeString:
		return decodeString(r)
	case TypeObject:
		props, err := decodeProperties(r, end)
		return Object(props), err
	case TypeMovieClip:
		s, err := decodeString(r)
		return MovieClip(s), err
	case TypeNull:
		return Null{}, nil
	case TypeUndefined:
		return Undefined{}, nil
	case TypeReference:
		ref, err := r.Uint16()
		return Reference(ref), err
	case TypeECMAArray:
		// The associative count is only a hint and is often wrong.
		if _, err := r.Uint32(); err != nil {
			return nil, err
		}
		props, err := decodeProperties(r, end)
		return ECMAArray(props), err
	case TypeStrictArray:
		return decodeStrictArray(r, end)
	case TypeDate:
		return decodeDate(r)
	case TypeLongString:
		n, err := r.Uint32()
		if err != nil {
			return nil, err
		}
		b, err := r.Bytes(int64(n))
		return LongString(b), err
	default:
		return nil, errors.Wrapf(primitive.ErrMalformed, "unknown AMF0 type marker 0x%02x at offset %d", marker, r.Offset()-1)
	}
}

func decodeString(r *primitive.Reader) (String, error) {
	n, err := r.Uint16()
	if err != nil {
		return "", err
	}
	b, err := r.Bytes(int64(n))
	if err != nil {
		return "", err
	}
	return String(b), nil
}

// decodeProperties reads key/value pairs until the object end marker or until end is reached.
func decodeProperties(r *primitive.Reader, end int64) ([]Property, error) {
	props := []Property{}
	for {
		if end != NoLimit && r.Offset() == end {
			return props, nil
		}
		b, err := r.Peek(3)
		if err != nil {
			return nil, err
		}
		if b[0] == 0x00 && b[1] == 0x00 && b[2] == TypeObjectEnd {
			return props, r.Skip(3)
		}
		key, err := decodeString(r)
		if err != nil {
			return nil, err
		}
		v, err := Decode(r, end)
		if err != nil {
			return nil, err
		}
		props = append(props, Property{Key: string(key), Value: v})
	}
}

func decodeStrictArray(r *primitive.Reader, end int64) (StrictArray, error) {
	n, err := r.Uint32()
	if err != nil {
		return nil, err
	}
	// n is untrusted; let the slice grow as values actually decode.
	arr := StrictArray{}
	for i := uint32(0); i < n; i++ {
		v, err := Decode(r, end)
		if err != nil {
			return nil, err
		}
		arr = append(arr, v)
	}
	return arr, nil
}

func decodeDate(r *primitive.Reader) (Date, error) {
	ms, err := r.Float64()
	if err != nil {
		return Date{}, err
	}
	// Time zone offset, ignored.
	if _, err := r.Int16(); err != nil {
		return Date{}, err
	}
	return Date{millisToTime(ms)}, nil
}

func millisToTime(ms float64) time.Time {
	sec := math.Floor(ms / 1000)
	nsec := math.Round((ms - sec*1000) * float64(time.Millisecond))
	return time.Unix(int64(sec), int64(nsec)).UTC()
}

func timeToMillis(t time.Time) float64 {
	return float64(t.Unix())*1000 + float64(t.Nanosecond())/float64(time.Millisecond)
}
