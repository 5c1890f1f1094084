package video

import "fmt"

// As defined in the FLV spec: https://www.adobe.com/content/dam/acom/en/devnet/flv/video_file_format_spec_v10_1.pdf

type FrameType uint8

const (
	KeyFrame             FrameType = 1
	InterFrame           FrameType = 2
	DisposableInterFrame FrameType = 3
	GeneratedKeyFrame    FrameType = 4
	// Video info/command frame
	CommandFrame FrameType = 5
)

func (f FrameType) Valid() bool {
	return f >= KeyFrame && f <= CommandFrame
}

func (f FrameType) String() string {
	switch f {
	case KeyFrame:
		return "keyframe"
	case InterFrame:
		return "interframe"
	case DisposableInterFrame:
		return "disposable interframe"
	case GeneratedKeyFrame:
		return "generated keyframe"
	case CommandFrame:
		return "video info/command frame"
	}
	return fmt.Sprintf("unknown frame type %d", uint8(f))
}

type Codec uint8

const (
	JPEG            Codec = 1
	SorensonH263    Codec = 2
	ScreenVideo     Codec = 3
	VP6             Codec = 4
	VP6AlphaChannel Codec = 5
	ScreenVideoV2   Codec = 6
	H264            Codec = 7
)

func (c Codec) Valid() bool {
	return c >= JPEG && c <= H264
}

func (c Codec) String() string {
	switch c {
	case JPEG:
		return "JPEG"
	case SorensonH263:
		return "Sorenson H.263"
	case ScreenVideo:
		return "Screen video"
	case VP6:
		return "On2 VP6"
	case VP6AlphaChannel:
		return "On2 VP6 with alpha channel"
	case ScreenVideoV2:
		return "Screen video version 2"
	case H264:
		return "H.264"
	}
	return fmt.Sprintf("unknown codec %d", uint8(c))
}

type AVCPacketType uint8

const (
	AVCSequenceHeader AVCPacketType = 0
	AVCNALU           AVCPacketType = 1
	AVCEndOfSequence  AVCPacketType = 2
)

func (p AVCPacketType) Valid() bool {
	return p <= AVCEndOfSequence
}

func (p AVCPacketType) String() string {
	switch p {
	case AVCSequenceHeader:
		return "sequence header"
	case AVCNALU:
		return "NAL unit"
	case AVCEndOfSequence:
		return "sequence end"
	}
	return fmt.Sprintf("unknown H.264 packet type %d", uint8(p))
}

// ParseFlags splits the first byte of a video tag payload.
func ParseFlags(b byte) (FrameType, Codec) {
	return FrameType(b >> 4), Codec(b & 0x0F)
}

func Flags(f FrameType, c Codec) byte {
	return byte(f)<<4 | byte(c&0x0F)
}
