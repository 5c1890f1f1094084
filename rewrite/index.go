package rewrite

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/torresjeff/flv"
	"github.com/torresjeff/flv/amf/amf0"
	"github.com/torresjeff/flv/internal/fsutil"
	"go.uber.org/zap"
)

type seekpoint struct {
	offset int64
	time   float64
}

// indexer collects what Index needs in a single pass over the tags.
type indexer struct {
	density int

	firstMedia  int64
	sawVideo    bool
	audioCount  int
	keyframes   []seekpoint
	audioPoints []seekpoint

	metadata amf0.Value
	last     *flv.Tag
}

func newIndexer(density int) *indexer {
	return &indexer{density: density, firstMedia: -1}
}

func (ix *indexer) visit(tag *flv.Tag) error {
	switch tag.Type {
	case flv.TagTypeAudio:
		if ix.firstMedia < 0 {
			ix.firstMedia = tag.Offset
		}
		if !ix.sawVideo {
			ix.audioCount++
			if ix.audioCount%ix.density == 0 {
				ix.audioPoints = append(ix.audioPoints, seekpoint{tag.Offset, float64(tag.Timestamp) / 1000})
			}
		}
	case flv.TagTypeVideo:
		if ix.firstMedia < 0 {
			ix.firstMedia = tag.Offset
		}
		ix.sawVideo = true
		if tag.Video().IsKeyFrame() {
			ix.keyframes = append(ix.keyframes, seekpoint{tag.Offset, float64(tag.Timestamp) / 1000})
		}
	case flv.TagTypeScript:
		if tag.IsMetadata() && ix.metadata == nil {
			ix.metadata = tag.Script().Value
		}
	}
	if tag.Timestamp != 0 {
		ix.last = tag
	}
	return nil
}

// seekpoints returns the video keyframes, or the synthetic audio seekpoints
// of a file without video.
func (ix *indexer) seekpoints() []seekpoint {
	if ix.sawVideo {
		return ix.keyframes
	}
	return ix.audioPoints
}

// Index rebuilds the onMetaData tag of in with a keyframes table, the
// duration and the creator, and writes the result to out. When out is empty
// in is replaced.
//
// The output is a fresh header, the new metadata tag and every byte of the
// input from its first audio or video tag on. Any script tag that precedes
// the first media tag, the old metadata included, is dropped.
func Index(in, out string, opts Options) error {
	opts = opts.withDefaults()
	target := out
	if target == "" {
		target = in
	}
	err := withInput(in, func(src *os.File) error {
		return indexFile(src, in, target, opts)
	})
	if err != nil {
		return &Error{Op: "index", Path: in, Err: err}
	}
	return nil
}

// indexFile scans src and commits its indexed rewrite to target with a
// single rename. Nothing is written when src cannot be indexed.
func indexFile(src *os.File, in, target string, opts Options) error {
	ix := newIndexer(opts.SeekpointDensity)
	h, err := scan(src, opts, ix.visit)
	if err != nil {
		return err
	}
	if ix.firstMedia < 0 {
		return ErrNoMediaContent
	}
	if ix.last == nil {
		return ErrNoNonZeroTimestamp
	}

	tag, err := ix.buildMetadataTag(opts)
	if err != nil {
		return err
	}
	opts.Logger.Info(fmt.Sprint("[index] Writing index of ", in),
		zap.Int("seekpoints", len(ix.seekpoints())),
		zap.Int("metadataSize", len(tag)))

	return fsutil.ReplaceFile(target, func(dst *os.File) error {
		return writeRewritten(dst, h, tag, src, ix.firstMedia, -1)
	})
}

// buildMetadataTag encodes the new onMetaData tag. File positions depend on
// the size of the tag itself, so it is encoded once to measure it and again
// with the corrected positions.
func (ix *indexer) buildMetadataTag(opts Options) ([]byte, error) {
	points := ix.seekpoints()
	keyframes := flv.Keyframes{
		FilePositions: make([]float64, len(points)),
		Times:         make([]float64, len(points)),
	}
	for i, p := range points {
		keyframes.FilePositions[i] = float64(p.offset)
		keyframes.Times[i] = p.time
	}

	duration := getNumber(ix.metadata, "duration")
	if duration == 0 {
		duration = float64(ix.last.Timestamp) / 1000
	}

	build := func() ([]byte, error) {
		table, err := amf0.FromGo(keyframes)
		if err != nil {
			return nil, err
		}
		md := cloneMetadata(ix.metadata, opts.Logger)
		md = setProperty(md, "duration", amf0.Number(duration))
		md = setProperty(md, "keyframes", table)
		md = setProperty(md, "metadata_creator", amf0.String(opts.Creator))
		return flv.BuildScriptTag(flv.MetadataName, md, 0)
	}

	tag, err := build()
	if err != nil {
		return nil, errors.Wrap(err, "cannot encode metadata")
	}
	// Bytes before the first media tag are replaced by the header and the new tag.
	delta := int64(flv.HeaderSize+flv.PreviousTagSizeLength+len(tag)) - ix.firstMedia
	if delta == 0 {
		return tag, nil
	}
	for i := range keyframes.FilePositions {
		keyframes.FilePositions[i] += float64(delta)
	}
	corrected, err := build()
	if err != nil {
		return nil, errors.Wrap(err, "cannot encode metadata")
	}
	if len(corrected) != len(tag) {
		return nil, errors.Errorf("metadata size changed from %d to %d bytes after correcting file positions", len(tag), len(corrected))
	}
	return corrected, nil
}

// IndexWithRetimestamp rebases the timestamps of in before indexing it. The
// input is copied to a scratch file next to the target, rebased there and
// indexed from it, so a single rename commits both steps: on failure neither
// in nor out is touched. The target is out, or in when out is empty.
//
// With an empty out and InPlace, in is patched in place first and then
// indexed. A failed index leaves in rebased.
func IndexWithRetimestamp(in, out string, mode Mode, opts Options) error {
	opts = opts.withDefaults()
	if out == "" && mode == InPlace {
		if err := Retimestamp(in, "", InPlace, opts); err != nil {
			return err
		}
		return Index(in, "", opts)
	}

	target := out
	if target == "" {
		target = in
	}
	err := fsutil.WithScratch(target, func(scratch *os.File) error {
		if err := fsutil.CopyFile(scratch, in); err != nil {
			return err
		}
		if _, err := patchTimestamps(scratch, scratch, opts); err != nil {
			return err
		}
		return indexFile(scratch, in, target, opts)
	})
	if err != nil {
		return &Error{Op: "index", Path: in, Err: err}
	}
	return nil
}
