package flv

import (
	"github.com/torresjeff/flv/amf/amf0"
	"github.com/torresjeff/flv/primitive"
)

// BuildHeader returns a version 1 file header followed by PreviousTagSize0.
func BuildHeader(hasAudio, hasVideo bool) []byte {
	var flags uint8
	if hasVideo {
		flags |= 0x01
	}
	if hasAudio {
		flags |= 0x04
	}
	b := make([]byte, 0, HeaderSize+PreviousTagSizeLength)
	b = append(b, signature...)
	b = primitive.AppendUint8(b, 1)
	b = primitive.AppendUint8(b, flags)
	b = primitive.AppendUint32(b, HeaderSize)
	return primitive.AppendUint32(b, 0)
}

// BuildTag frames payload as a tag of type t, including the trailing tag size.
func BuildTag(t TagType, payload []byte, timestamp int32) []byte {
	size := uint32(len(payload))
	b := make([]byte, 0, TagHeaderSize+len(payload)+PreviousTagSizeLength)
	b = primitive.AppendUint8(b, uint8(t))
	b = primitive.AppendUint24(b, size)
	b = primitive.AppendExtendedInt32(b, timestamp)
	// StreamID
	b = primitive.AppendUint24(b, 0)
	b = append(b, payload...)
	return primitive.AppendUint32(b, size+TagHeaderSize)
}

// BuildScriptTag returns a script tag holding the variable name = v.
func BuildScriptTag(name amf0.String, v amf0.Value, timestamp int32) ([]byte, error) {
	variable, err := amf0.EncodeVariable(name, v)
	if err != nil {
		return nil, err
	}
	payload := append([]byte{amf0.TypeString}, variable...)
	return BuildTag(TagTypeScript, payload, timestamp), nil
}
