package amf0

import (
	"math"

	"github.com/pkg/errors"
	"github.com/torresjeff/flv/primitive"
)

var ErrStringTooLong = errors.New("string longer than 65535 bytes")

// Encode returns the marker-prefixed encoding of v.
// LongString values are encoded as String.
func Encode(v Value) ([]byte, error) {
	return Append(nil, v)
}

// Append appends the encoding of v to b.
func Append(b []byte, v Value) ([]byte, error) {
	switch v := v.(type) {
	case Number:
		b = append(b, TypeNumber)
		return primitive.AppendFloat64(b, float64(v)), nil
	case Boolean:
		b = append(b, TypeBoolean)
		if v {
			return append(b, 1), nil
		}
		return append(b, 0), nil
	case String:
		return appendString(append(b, TypeString), string(v))
	case LongString:
		return appendString(append(b, TypeString), string(v))
	case MovieClip:
		return appendString(append(b, TypeMovieClip), string(v))
	case Null:
		return append(b, TypeNull), nil
	case Undefined:
		return append(b, TypeUndefined), nil
	case Reference:
		b = append(b, TypeReference)
		return primitive.AppendUint16(b, uint16(v)), nil
	case Object:
		return appendProperties(append(b, TypeObject), v)
	case ECMAArray:
		b = append(b, TypeECMAArray)
		b = primitive.AppendUint32(b, uint32(len(v)))
		return appendProperties(b, v)
	case StrictArray:
		b = append(b, TypeStrictArray)
		b = primitive.AppendUint32(b, uint32(len(v)))
		var err error
		for _, elem := range v {
			if b, err = Append(b, elem); err != nil {
				return nil, err
			}
		}
		return b, nil
	case Date:
		b = append(b, TypeDate)
		b = primitive.AppendFloat64(b, timeToMillis(v.Time))
		return primitive.AppendInt16(b, 0), nil
	case nil:
		return nil, errors.New("cannot encode nil Value")
	default:
		return nil, errors.Errorf("cannot encode type %T", v)
	}
}

// EncodeVariable returns the encoding of a script data variable.
func EncodeVariable(name String, v Value) ([]byte, error) {
	b, err := appendString(nil, string(name))
	if err != nil {
		return nil, err
	}
	return Append(b, v)
}

func appendString(b []byte, s string) ([]byte, error) {
	if len(s) > math.MaxUint16 {
		return nil, errors.Wrapf(ErrStringTooLong, "%d bytes", len(s))
	}
	b = primitive.AppendUint16(b, uint16(len(s)))
	return append(b, s...), nil
}

func appendProperties(b []byte, props []Property) ([]byte, error) {
	var err error
	for _, p := range props {
		if b, err = appendString(b, p.Key); err != nil {
			return nil, errors.WithMessagef(err, "key %.32q", p.Key)
		}
		if b, err = Append(b, p.Value); err != nil {
			return nil, errors.WithMessagef(err, "value of %q", p.Key)
		}
	}
	return append(b, 0x00, 0x00, TypeObjectEnd), nil
}
