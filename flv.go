// Package flv reads, validates and builds FLV files: the file header, the
// tag envelope and the audio, video and script data tag bodies.
//
// As defined in the FLV spec: https://www.adobe.com/content/dam/acom/en/devnet/flv/video_file_format_spec_v10_1.pdf
package flv

import (
	"fmt"

	"github.com/torresjeff/flv/primitive"
)

type TagType uint8

const (
	TagTypeAudio      TagType = 8
	TagTypeVideo      TagType = 9
	TagTypeScriptAMF3 TagType = 15
	TagTypeScript     TagType = 18
)

func (t TagType) String() string {
	switch t {
	case TagTypeAudio:
		return "audio"
	case TagTypeVideo:
		return "video"
	case TagTypeScriptAMF3:
		return "AMF3 script"
	case TagTypeScript:
		return "script"
	}
	return fmt.Sprintf("unknown(%d)", uint8(t))
}

const (
	// HeaderSize is the size of the header written by BuildHeader.
	HeaderSize = 9
	// TagHeaderSize is the size of the tag envelope preceding the payload.
	TagHeaderSize = 11
	// PreviousTagSizeLength is the size of the trailing size echo after every tag.
	PreviousTagSizeLength = 4
)

// MetadataName is the name of the script tag carrying the stream metadata.
const MetadataName = "onMetaData"

var signature = []byte("FLV")

// Errors returned while parsing. End of the tag sequence is reported as io.EOF.
var (
	ErrMalformed = primitive.ErrMalformed
	ErrEndOfData = primitive.ErrEndOfData
)
