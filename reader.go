package flv

import (
	"bytes"
	"fmt"
	"io"

	"github.com/pkg/errors"
	"github.com/torresjeff/flv/amf/amf0"
	"github.com/torresjeff/flv/audio"
	"github.com/torresjeff/flv/primitive"
	"github.com/torresjeff/flv/video"
	"go.uber.org/zap"
)

// Options control a single parse.
type Options struct {
	// Strict makes every non-conformant field a fatal ErrMalformed. When
	// false, such fields are logged as warnings and parsing continues with
	// the value that was read.
	Strict bool
	Logger *zap.Logger
}

// Reader parses an FLV file tag by tag.
type Reader struct {
	r      *primitive.Reader
	strict bool
	logger *zap.Logger
	header *FileHeader
}

func NewReader(rs io.ReadSeeker, opts Options) (*Reader, error) {
	r, err := primitive.NewReader(rs)
	if err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reader{r: r, strict: opts.Strict, logger: logger}, nil
}

// Offset returns the current position in the stream.
func (r *Reader) Offset() int64 {
	return r.r.Offset()
}

// Header returns the header read by ReadHeader, or nil.
func (r *Reader) Header() *FileHeader {
	return r.header
}

// ensure checks actual against expected. In strict mode a mismatch is an
// ErrMalformed, otherwise it is logged and ignored.
func (r *Reader) ensure(actual, expected interface{}, format string, args ...interface{}) error {
	if actual == expected {
		return nil
	}
	msg := fmt.Sprintf(format, args...)
	if r.strict {
		return errors.Wrap(ErrMalformed, msg)
	}
	r.logger.Warn(fmt.Sprint("[flv] Skipping non-conformant value: ", msg),
		zap.Any("actual", actual),
		zap.Any("expected", expected),
		zap.Int64("offset", r.r.Offset()))
	return nil
}

// ReadHeader seeks to the start of the stream and parses the file header.
// The next call to Next returns the first tag.
func (r *Reader) ReadHeader() (*FileHeader, error) {
	if _, err := r.r.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}

	sig, err := r.r.Bytes(int64(len(signature)))
	if err != nil {
		return nil, errors.Wrap(err, "stream is shorter than the FLV signature")
	}
	// Checked regardless of the mode, to catch files that are not FLV at all.
	if !bytes.Equal(sig, signature) {
		return nil, errors.Wrapf(ErrMalformed, "stream signature is incorrect: 0x%X", sig)
	}

	h := &FileHeader{}
	if h.Version, err = r.r.Uint8(); err != nil {
		return nil, err
	}
	flags, err := r.r.Uint8()
	if err != nil {
		return nil, err
	}
	if err := r.ensure(flags&0xF8, uint8(0), "first TypeFlagsReserved field non zero: 0x%X", flags&0xF8); err != nil {
		return nil, err
	}
	if err := r.ensure(flags&0x02, uint8(0), "second TypeFlagsReserved field non zero: 0x%X", flags&0x02); err != nil {
		return nil, err
	}
	h.HasAudio = flags&0x04 != 0
	h.HasVideo = flags&0x01 != 0

	if h.HeaderSize, err = r.r.Uint32(); err != nil {
		return nil, err
	}
	if _, err := r.r.Seek(int64(h.HeaderSize), io.SeekStart); err != nil {
		return nil, err
	}
	tag0Size, err := r.r.Uint32()
	if err != nil {
		return nil, err
	}
	if err := r.ensure(tag0Size, uint32(0), "PreviousTagSize0 non zero: 0x%08X", tag0Size); err != nil {
		return nil, err
	}

	r.logger.Debug("[flv] Parsed header",
		zap.Uint8("version", h.Version),
		zap.Bool("hasAudio", h.HasAudio),
		zap.Bool("hasVideo", h.HasVideo),
		zap.Uint32("headerSize", h.HeaderSize))
	r.header = h
	return h, nil
}

// Next parses the next tag. It returns io.EOF when the stream ends exactly
// at a tag boundary. Running out of data anywhere else is ErrEndOfData.
func (r *Reader) Next() (*Tag, error) {
	if r.header == nil {
		if _, err := r.ReadHeader(); err != nil {
			return nil, err
		}
	}

	typ, err := r.r.Uint8()
	if err == primitive.ErrEndOfData {
		return nil, io.EOF
	} else if err != nil {
		return nil, err
	}

	tag := &Tag{Type: TagType(typ), Offset: r.r.Offset() - 1}
	switch tag.Type {
	case TagTypeAudio, TagTypeVideo, TagTypeScript, TagTypeScriptAMF3:
	default:
		return nil, errors.Wrapf(ErrMalformed, "invalid tag type %d at offset 0x%08X", typ, tag.Offset)
	}

	if err := r.readTag(tag); err != nil {
		return nil, errors.WithMessagef(err, "%s tag at offset 0x%08X", tag.Type, tag.Offset)
	}
	r.logger.Debug(fmt.Sprint("[flv] Parsed ", tag))
	return tag, nil
}

// Walk reads the header and calls fn for every tag until the end of the stream.
func (r *Reader) Walk(fn func(*Tag) error) error {
	if _, err := r.ReadHeader(); err != nil {
		return err
	}
	for {
		tag, err := r.Next()
		if err == io.EOF {
			return nil
		} else if err != nil {
			return err
		}
		if err := fn(tag); err != nil {
			return err
		}
	}
}

func (r *Reader) readTag(tag *Tag) error {
	var err error
	if tag.Size, err = r.r.Uint24(); err != nil {
		return err
	}
	if tag.Timestamp, err = r.r.ExtendedInt32(); err != nil {
		return err
	}
	if tag.Timestamp < 0 {
		r.logger.Warn(fmt.Sprint("[flv] Tag has negative timestamp ", tag.Timestamp), zap.Int64("offset", tag.Offset))
	}
	streamID, err := r.r.Uint24()
	if err != nil {
		return err
	}
	if err := r.ensure(streamID, uint32(0), "StreamID non zero: 0x%06X", streamID); err != nil {
		return err
	}

	end := tag.End()
	switch tag.Type {
	case TagTypeAudio:
		tag.Body, err = r.readAudio(tag.Size)
	case TagTypeVideo:
		tag.Body, err = r.readVideo(tag.Size)
	case TagTypeScript:
		tag.Body, err = r.readScript(end)
		if err == nil && r.r.Offset() != end {
			err = r.ensure(r.r.Offset(), end, "script data does not match the tag size")
		}
	case TagTypeScriptAMF3:
		tag.Body = &AMF3Body{}
	}
	if err != nil {
		return err
	}
	if _, err := r.r.Seek(end, io.SeekStart); err != nil {
		return err
	}

	prevSize, err := r.r.Uint32()
	if err != nil {
		return err
	}
	return r.ensure(prevSize, tag.Size+TagHeaderSize, "PreviousTagSize of %d (0x%08X) not equal to actual tag size of %d (0x%08X)",
		prevSize, prevSize, tag.Size+TagHeaderSize, tag.Size+TagHeaderSize)
}

func (r *Reader) readAudio(size uint32) (*AudioBody, error) {
	body := &AudioBody{}
	if size < 1 {
		return body, r.ensure(size, uint32(1), "audio tag without payload")
	}
	flags, err := r.r.Uint8()
	if err != nil {
		return nil, err
	}
	body.Format, body.Rate, body.SampleSize, body.Channel = audio.ParseFlags(flags)

	if body.IsAAC() {
		if size < 2 {
			return body, r.ensure(size, uint32(2), "AAC audio tag without packet type")
		}
		packetType, err := r.r.Uint8()
		if err != nil {
			return nil, err
		}
		body.PacketType = audio.AACPacketType(packetType)
		// AAC is always announced as 44 kHz stereo, the real values are in the AudioSpecificConfig.
		if err := r.ensure(body.Rate, audio.Rate44KHz, "AAC sound rate not 44 kHz: %d", body.Rate); err != nil {
			return nil, err
		}
		if err := r.ensure(body.Channel, audio.Stereo, "AAC sound type not stereo: %d", body.Channel); err != nil {
			return nil, err
		}
		if err := r.ensure(body.PacketType.Valid(), true, "invalid AAC packet type: %d", packetType); err != nil {
			return nil, err
		}
	}
	if err := r.ensure(body.Format.Valid(), true, "invalid sound format: %d", body.Format); err != nil {
		return nil, err
	}
	return body, nil
}

func (r *Reader) readVideo(size uint32) (*VideoBody, error) {
	body := &VideoBody{}
	if size < 1 {
		return body, r.ensure(size, uint32(1), "video tag without payload")
	}
	flags, err := r.r.Uint8()
	if err != nil {
		return nil, err
	}
	body.FrameType, body.Codec = video.ParseFlags(flags)

	if body.IsH264() {
		if size < 2 {
			return body, r.ensure(size, uint32(2), "H.264 video tag without packet type")
		}
		packetType, err := r.r.Uint8()
		if err != nil {
			return nil, err
		}
		body.PacketType = video.AVCPacketType(packetType)
	}
	if err := r.ensure(body.FrameType.Valid(), true, "invalid frame type: %d", body.FrameType); err != nil {
		return nil, err
	}
	if err := r.ensure(body.Codec.Valid(), true, "invalid codec ID: %d", body.Codec); err != nil {
		return nil, err
	}
	if body.IsH264() {
		if err := r.ensure(body.PacketType.Valid(), true, "invalid H.264 packet type: %d", body.PacketType); err != nil {
			return nil, err
		}
	}
	return body, nil
}

func (r *Reader) readScript(end int64) (*ScriptBody, error) {
	marker, err := r.r.Uint8()
	if err != nil {
		return nil, err
	}
	if err := r.ensure(marker, amf0.TypeString, "the name of a script tag is not a string: 0x%02x", marker); err != nil {
		return nil, err
	}

	// Some cameras end the onMetaData object at the tag boundary without
	// writing the object end marker. Only tolerated in lenient mode.
	limit := end
	if r.strict {
		limit = amf0.NoLimit
	}
	name, value, err := amf0.DecodeVariable(r.r, limit)
	if err != nil {
		return nil, err
	}
	return &ScriptBody{Name: name, Value: value}, nil
}
