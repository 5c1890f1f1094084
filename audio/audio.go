package audio

import "fmt"

// As defined in the FLV spec: https://www.adobe.com/content/dam/acom/en/devnet/flv/video_file_format_spec_v10_1.pdf

type Format uint8

const (
	LinearPCMPlatformEndian Format = 0
	ADPCM                   Format = 1
	MP3                     Format = 2
	LinearPCMLittleEndian   Format = 3
	Nellymoser16KHzMono     Format = 4
	Nellymoser8KHzMono      Format = 5
	Nellymoser              Format = 6
	G711AlawLogPCM          Format = 7
	G711MulawLogPCM         Format = 8
	AAC                     Format = 10
	Speex                   Format = 11
	MP38KHz                 Format = 14
	DeviceSpecificSound     Format = 15
)

var formatNames = map[Format]string{
	LinearPCMPlatformEndian: "Linear PCM, platform endian",
	ADPCM:                   "ADPCM",
	MP3:                     "MP3",
	LinearPCMLittleEndian:   "Linear PCM, little endian",
	Nellymoser16KHzMono:     "Nellymoser 16-kHz mono",
	Nellymoser8KHzMono:      "Nellymoser 8-kHz mono",
	Nellymoser:              "Nellymoser",
	G711AlawLogPCM:          "G.711 A-law logarithmic PCM",
	G711MulawLogPCM:         "G.711 mu-law logarithmic PCM",
	AAC:                     "AAC",
	Speex:                   "Speex",
	MP38KHz:                 "MP3 8-kHz",
	DeviceSpecificSound:     "Device-specific sound",
}

// Valid reports whether f is a defined sound format. 9, 12 and 13 are reserved.
func (f Format) Valid() bool {
	_, ok := formatNames[f]
	return ok
}

func (f Format) String() string {
	if name, ok := formatNames[f]; ok {
		return name
	}
	return fmt.Sprintf("unknown sound format %d", uint8(f))
}

type SampleRate uint8

const (
	Rate5p5KHz SampleRate = 0
	Rate11KHz  SampleRate = 1
	Rate22KHz  SampleRate = 2
	Rate44KHz  SampleRate = 3
)

func (r SampleRate) String() string {
	switch r {
	case Rate5p5KHz:
		return "5.5-kHz"
	case Rate11KHz:
		return "11-kHz"
	case Rate22KHz:
		return "22-kHz"
	case Rate44KHz:
		return "44-kHz"
	}
	return fmt.Sprintf("unknown sound rate %d", uint8(r))
}

type SampleSize uint8

const (
	Size8Bit  SampleSize = 0
	Size16Bit SampleSize = 1
)

func (s SampleSize) String() string {
	if s == Size16Bit {
		return "snd16Bit"
	}
	return "snd8Bit"
}

type Channel uint8

const (
	Mono   Channel = 0
	Stereo Channel = 1
)

func (c Channel) String() string {
	if c == Stereo {
		return "sndStereo"
	}
	return "sndMono"
}

type AACPacketType uint8

const (
	AACSequenceHeader AACPacketType = 0
	AACRaw            AACPacketType = 1
)

func (p AACPacketType) Valid() bool {
	return p == AACSequenceHeader || p == AACRaw
}

func (p AACPacketType) String() string {
	switch p {
	case AACSequenceHeader:
		return "sequence header"
	case AACRaw:
		return "raw"
	}
	return fmt.Sprintf("unknown AAC packet type %d", uint8(p))
}

// ParseFlags splits the first byte of an audio tag payload.
func ParseFlags(b byte) (Format, SampleRate, SampleSize, Channel) {
	return Format(b >> 4), SampleRate((b >> 2) & 0x03), SampleSize((b >> 1) & 0x01), Channel(b & 0x01)
}

// Flags packs the fields back into the first byte of an audio tag payload.
func Flags(f Format, r SampleRate, s SampleSize, c Channel) byte {
	return byte(f)<<4 | byte(r&0x03)<<2 | byte(s&0x01)<<1 | byte(c&0x01)
}
