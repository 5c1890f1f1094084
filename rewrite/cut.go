package rewrite

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/torresjeff/flv"
	"github.com/torresjeff/flv/amf/amf0"
	"github.com/torresjeff/flv/video"
	"go.uber.org/zap"
)

// OpenBound disables the start or the end bound of Cut.
const OpenBound int32 = -1

type cutter struct {
	start, end int32

	sawMedia bool
	sawVideo bool
	metadata amf0.Value

	// last tag inside the window, first tag past it, and where the output starts.
	last     *flv.Tag
	after    *flv.Tag
	keyframe *flv.Tag
}

func (c *cutter) inWindow(ts int32) bool {
	return c.end == OpenBound || ts <= c.end
}

func (c *cutter) visit(tag *flv.Tag) error {
	switch tag.Type {
	case flv.TagTypeAudio:
		c.sawMedia = true
		if c.keyframe == nil && !c.sawVideo && tag.Timestamp > c.start {
			c.keyframe = tag
		}
	case flv.TagTypeVideo:
		c.sawVideo = true
		if !tag.IsSequenceHeader() {
			c.sawMedia = true
		}
		if c.keyframe == nil && tag.Timestamp > c.start && isSeekable(tag.Video()) {
			c.keyframe = tag
		}
	case flv.TagTypeScript:
		if tag.IsMetadata() && c.metadata == nil {
			c.metadata = tag.Script().Value
		}
	}

	if tag.Timestamp == 0 {
		return nil
	}
	if c.inWindow(tag.Timestamp) {
		c.last = tag
	} else if c.after == nil {
		c.after = tag
	}
	return nil
}

// isSeekable reports whether playback can start at a video tag: a keyframe
// that carries picture data rather than a decoder configuration.
func isSeekable(b *flv.VideoBody) bool {
	if !b.IsKeyFrame() {
		return false
	}
	return !b.IsH264() || b.PacketType == video.AVCNALU
}

// Cut writes the part of in between start and end, in milliseconds, to out.
// Either bound may be OpenBound. The output starts at the first keyframe
// after start, so that it can be decoded, and ends before the first tag past
// end. Timestamps are kept; Retimestamp can rebase them afterwards. When out
// is empty in is replaced.
func Cut(in, out string, start, end int32, opts Options) error {
	opts = opts.withDefaults()
	err := withInput(in, func(src *os.File) error {
		c := &cutter{start: start, end: end}
		h, err := scan(src, opts, c.visit)
		if err != nil {
			return err
		}
		if !c.sawMedia {
			return ErrNoMediaContent
		}
		if c.last == nil {
			return ErrNoNonZeroTimestamp
		}
		if c.keyframe == nil {
			return ErrNoQualifyingKeyframe
		}
		stop := int64(-1)
		if c.after != nil {
			stop = c.after.Offset
			if stop <= c.keyframe.Offset {
				return errors.Wrapf(ErrNoQualifyingKeyframe, "first keyframe after %d ms is at %d ms", start, c.keyframe.Timestamp)
			}
		}

		md := cloneMetadata(c.metadata, opts.Logger)
		md = setProperty(md, "duration", amf0.Number(c.duration()))
		tag, err := flv.BuildScriptTag(flv.MetadataName, md, 0)
		if err != nil {
			return errors.Wrap(err, "cannot encode metadata")
		}

		opts.Logger.Info(fmt.Sprint("[cut] Cutting ", in),
			zap.Int32("keyframe", c.keyframe.Timestamp),
			zap.Int64("from", c.keyframe.Offset),
			zap.Int64("to", stop))
		return writeOutput(in, out, func(dst *os.File) error {
			return writeRewritten(dst, h, tag, src, c.keyframe.Offset, stop)
		})
	})
	if err != nil {
		return &Error{Op: "cut", Path: in, Err: err}
	}
	return nil
}

// duration is the length of the requested window in seconds.
func (c *cutter) duration() float64 {
	start, end := c.start, c.end
	if start == OpenBound {
		start = 0
	}
	if end == OpenBound {
		end = c.last.Timestamp
	}
	return float64(end-start) / 1000
}
