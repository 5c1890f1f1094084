package flv

import (
	"fmt"

	"github.com/torresjeff/flv/amf/amf0"
	"github.com/torresjeff/flv/audio"
	"github.com/torresjeff/flv/video"
)

// FileHeader is the parsed FLV file header.
type FileHeader struct {
	Version    uint8
	HasAudio   bool
	HasVideo   bool
	HeaderSize uint32
}

// Tag is one framed record of an FLV file. Body is one of *AudioBody,
// *VideoBody, *ScriptBody or *AMF3Body, matching Type.
type Tag struct {
	Type TagType
	// Offset of the tag's type byte in the stream.
	Offset int64
	// Size of the payload, excluding the envelope and the trailing size.
	Size      uint32
	Timestamp int32
	Body      Body
}

// Body is the kind-specific part of a tag.
type Body interface {
	tagType() TagType
}

type AudioBody struct {
	Format     audio.Format
	Rate       audio.SampleRate
	SampleSize audio.SampleSize
	Channel    audio.Channel
	// Only meaningful when Format is audio.AAC.
	PacketType audio.AACPacketType
}

type VideoBody struct {
	FrameType video.FrameType
	Codec     video.Codec
	// Only meaningful when Codec is video.H264.
	PacketType video.AVCPacketType
}

type ScriptBody struct {
	Name  amf0.String
	Value amf0.Value
}

// AMF3Body carries nothing; AMF3 payloads are skipped.
type AMF3Body struct{}

func (*AudioBody) tagType() TagType  { return TagTypeAudio }
func (*VideoBody) tagType() TagType  { return TagTypeVideo }
func (*ScriptBody) tagType() TagType { return TagTypeScript }
func (*AMF3Body) tagType() TagType   { return TagTypeScriptAMF3 }

func (b *AudioBody) IsAAC() bool { return b.Format == audio.AAC }

func (b *VideoBody) IsH264() bool { return b.Codec == video.H264 }

func (b *VideoBody) IsKeyFrame() bool { return b.FrameType == video.KeyFrame }

// End returns the offset just past the tag's payload, where its trailing size begins.
func (t *Tag) End() int64 {
	return t.Offset + TagHeaderSize + int64(t.Size)
}

// Audio returns the audio body, or nil for other kinds.
func (t *Tag) Audio() *AudioBody {
	b, _ := t.Body.(*AudioBody)
	return b
}

func (t *Tag) Video() *VideoBody {
	b, _ := t.Body.(*VideoBody)
	return b
}

func (t *Tag) Script() *ScriptBody {
	b, _ := t.Body.(*ScriptBody)
	return b
}

// IsMedia reports whether t is an audio or a video tag.
func (t *Tag) IsMedia() bool {
	return t.Type == TagTypeAudio || t.Type == TagTypeVideo
}

// IsSequenceHeader reports whether t carries an AAC or AVC decoder configuration.
func (t *Tag) IsSequenceHeader() bool {
	switch b := t.Body.(type) {
	case *AudioBody:
		return b.IsAAC() && b.PacketType == audio.AACSequenceHeader
	case *VideoBody:
		return b.IsH264() && b.PacketType == video.AVCSequenceHeader
	}
	return false
}

// IsNonHeaderMedia reports whether t is an audio or video tag carrying media data.
func (t *Tag) IsNonHeaderMedia() bool {
	return t.IsMedia() && !t.IsSequenceHeader()
}

// IsMetadata reports whether t is the onMetaData script tag.
func (t *Tag) IsMetadata() bool {
	s := t.Script()
	return s != nil && s.Name == MetadataName
}

func (t *Tag) String() string {
	switch b := t.Body.(type) {
	case *AudioBody:
		if b.IsAAC() {
			return fmt.Sprintf("<AudioTag at offset 0x%08X, time %d, size %d, %s, %s>",
				t.Offset, t.Timestamp, t.Size, b.Format, b.PacketType)
		}
		return fmt.Sprintf("<AudioTag at offset 0x%08X, time %d, size %d, %s>",
			t.Offset, t.Timestamp, t.Size, b.Format)
	case *VideoBody:
		if b.IsH264() {
			return fmt.Sprintf("<VideoTag at offset 0x%08X, time %d, size %d, %s (%s), %s>",
				t.Offset, t.Timestamp, t.Size, b.Codec, b.FrameType, b.PacketType)
		}
		return fmt.Sprintf("<VideoTag at offset 0x%08X, time %d, size %d, %s (%s)>",
			t.Offset, t.Timestamp, t.Size, b.Codec, b.FrameType)
	case *ScriptBody:
		return fmt.Sprintf("<ScriptTag %s at offset 0x%08X, time %d, size %d>",
			b.Name, t.Offset, t.Timestamp, t.Size)
	case *AMF3Body:
		return fmt.Sprintf("<ScriptAMF3Tag at offset 0x%08X, time %d, size %d>",
			t.Offset, t.Timestamp, t.Size)
	}
	return fmt.Sprintf("<%s tag unparsed>", t.Type)
}
