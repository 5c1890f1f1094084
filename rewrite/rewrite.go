// Package rewrite implements whole-file FLV transformations: rebuilding the
// keyframe index, rebasing timestamps and cutting time ranges.
//
// Outputs are always written to a scratch file next to the destination and
// renamed into place on success, so a failed rewrite never leaves a partial
// file behind and never modifies the input.
package rewrite

import (
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/torresjeff/flv"
	"github.com/torresjeff/flv/amf/amf0"
	"github.com/torresjeff/flv/config"
	"github.com/torresjeff/flv/internal/fsutil"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

var (
	ErrNoMediaContent       = errors.New("no audio or video tags found")
	ErrNoNonZeroTimestamp   = errors.New("no tag with a non-zero timestamp found")
	ErrNoQualifyingKeyframe = errors.New("no keyframe found in the requested range")
)

// Error records a failed rewrite and the file it failed on.
type Error struct {
	Op   string
	Path string
	Err  error
}

func (e *Error) Error() string {
	return e.Op + " " + e.Path + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Cause() error {
	return e.Err
}

// Options are shared by all rewrites.
type Options struct {
	// Strict is passed to the FLV reader.
	Strict bool
	Logger *zap.Logger
	// Creator is stored as metadata_creator by Index.
	Creator string
	// SeekpointDensity is the number of audio tags per synthetic seekpoint
	// in files without video.
	SeekpointDensity int
}

func (o Options) withDefaults() Options {
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	if o.Creator == "" {
		o.Creator = config.DefaultCreator
	}
	if o.SeekpointDensity <= 0 {
		o.SeekpointDensity = config.DefaultSeekpointDensity
	}
	return o
}

// scan parses every tag of rs and calls fn for each one.
func scan(rs io.ReadSeeker, opts Options, fn func(tag *flv.Tag) error) (*flv.FileHeader, error) {
	r, err := flv.NewReader(rs, flv.Options{Strict: opts.Strict, Logger: opts.Logger})
	if err != nil {
		return nil, err
	}
	err = r.Walk(fn)
	return r.Header(), err
}

// withInput opens path read-only for the duration of fn.
func withInput(path string, fn func(f *os.File) error) (err error) {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, f.Close())
	}()
	return fn(f)
}

// writeOutput commits what fn writes to out, or to in when out is empty.
func writeOutput(in, out string, fn func(f *os.File) error) error {
	target := out
	if target == "" {
		target = in
	}
	return fsutil.ReplaceFile(target, fn)
}

// writeRewritten writes a fresh header, the metadata tag and src[start:end] to w.
func writeRewritten(w io.Writer, h *flv.FileHeader, metadataTag []byte, src *os.File, start, end int64) error {
	if _, err := w.Write(flv.BuildHeader(h.HasAudio, h.HasVideo)); err != nil {
		return err
	}
	if _, err := w.Write(metadataTag); err != nil {
		return err
	}
	return fsutil.CopyRange(w, src, start, end)
}

// cloneMetadata returns a copy of an existing onMetaData value that can be
// modified, keeping its Object or ECMAArray kind. Anything else yields an
// empty ECMAArray.
func cloneMetadata(v amf0.Value, logger *zap.Logger) amf0.Value {
	switch v := v.(type) {
	case amf0.Object:
		return append(amf0.Object{}, v...)
	case amf0.ECMAArray:
		return append(amf0.ECMAArray{}, v...)
	case nil:
	default:
		logger.Warn("[rewrite] Ignoring onMetaData that is not an object", zap.String("type", amf0.TypeName(v.Type())))
	}
	return amf0.ECMAArray{}
}

func setProperty(v amf0.Value, key string, value amf0.Value) amf0.Value {
	switch v := v.(type) {
	case amf0.Object:
		v.Set(key, value)
		return v
	case amf0.ECMAArray:
		v.Set(key, value)
		return v
	}
	return v
}

func getNumber(v amf0.Value, key string) float64 {
	props, ok := amf0.Properties(v)
	if !ok {
		return 0
	}
	for _, p := range props {
		if p.Key == key {
			n, _ := p.Value.(amf0.Number)
			return float64(n)
		}
	}
	return 0
}
