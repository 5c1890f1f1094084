package flv

import (
	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"github.com/torresjeff/flv/amf/amf0"
)

// Metadata holds the commonly used onMetaData properties. Properties that
// are missing from the script tag keep their zero value.
type Metadata struct {
	Duration        float64   `mapstructure:"duration"`
	FileSize        float64   `mapstructure:"filesize"`
	Width           float64   `mapstructure:"width"`
	Height          float64   `mapstructure:"height"`
	FrameRate       float64   `mapstructure:"framerate"`
	VideoDataRate   float64   `mapstructure:"videodatarate"`
	AudioDataRate   float64   `mapstructure:"audiodatarate"`
	AudioSampleRate float64   `mapstructure:"audiosamplerate"`
	Stereo          bool      `mapstructure:"stereo"`
	// Numeric for ffmpeg, a fourcc string for OBS.
	VideoCodecID    string    `mapstructure:"videocodecid"`
	AudioCodecID    string    `mapstructure:"audiocodecid"`
	Encoder         string    `mapstructure:"encoder"`
	MetadataCreator string    `mapstructure:"metadata_creator"`
	Keyframes       Keyframes `mapstructure:"keyframes"`
}

// Keyframes is the seek table: parallel lists of byte offsets and times in seconds.
type Keyframes struct {
	FilePositions []float64 `mapstructure:"filepositions"`
	Times         []float64 `mapstructure:"times"`
}

// DecodeMetadata extracts the well-known properties of an onMetaData value.
// v must be an Object or an ECMAArray.
func DecodeMetadata(v amf0.Value) (*Metadata, error) {
	if _, ok := amf0.Properties(v); !ok {
		return nil, errors.Errorf("metadata is a %s, not an object", amf0.TypeName(v.Type()))
	}

	md := &Metadata{}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           md,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(amf0.ToGo(v)); err != nil {
		return nil, errors.Wrap(err, "cannot decode metadata")
	}
	return md, nil
}
