package rewrite

import (
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/torresjeff/flv"
	"github.com/torresjeff/flv/primitive"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Mode selects how an input file is updated.
type Mode int

const (
	// Atomic patches a scratch copy and renames it over the input.
	Atomic Mode = iota
	// InPlace patches the input through a read/write handle. A failure
	// halfway leaves the file partially rebased.
	InPlace
)

func (m Mode) String() string {
	switch m {
	case Atomic:
		return "atomic"
	case InPlace:
		return "inplace"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

var errZeroOffset = errors.New("first media timestamp is already zero")

// Retimestamp shifts the timestamps of all non-header media tags so that the
// first one starts at zero. When out is set the input is left alone and the
// rebased copy is written to out; otherwise the input is updated using mode.
// A file that already starts at zero is left as it is.
func Retimestamp(in, out string, mode Mode, opts Options) error {
	opts = opts.withDefaults()
	var err error
	if out == "" && mode == InPlace {
		err = retimestampInPlace(in, opts)
	} else {
		err = retimestampCopy(in, out, opts)
	}
	if err != nil {
		return &Error{Op: "retimestamp", Path: in, Err: err}
	}
	return nil
}

func retimestampInPlace(path string, opts Options) (err error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, f.Close())
	}()
	_, err = patchTimestamps(f, f, opts)
	return err
}

func retimestampCopy(in, out string, opts Options) error {
	return withInput(in, func(src *os.File) error {
		return writeOutput(in, out, func(dst *os.File) error {
			if _, err := io.Copy(dst, src); err != nil {
				return err
			}
			_, err := patchTimestamps(src, dst, opts)
			return err
		})
	})
}

// patchTimestamps reads the tags of src and writes the rebased timestamps
// into dst at the same offsets. src and dst may be the same file: a tag is
// only patched after it has been read.
func patchTimestamps(src io.ReadSeeker, dst io.WriterAt, opts Options) (int, error) {
	var offset int32
	found := false
	patched := 0
	_, err := scan(src, opts, func(tag *flv.Tag) error {
		if !tag.IsNonHeaderMedia() {
			return nil
		}
		if !found {
			found = true
			offset = tag.Timestamp
			if offset == 0 {
				return errZeroOffset
			}
			opts.Logger.Info(fmt.Sprint("[retimestamp] Rebasing timestamps by ", offset))
		}
		b := primitive.AppendExtendedInt32(nil, tag.Timestamp-offset)
		// Skip the type byte and the 24-bit size.
		if _, err := dst.WriteAt(b, tag.Offset+4); err != nil {
			return errors.Wrapf(err, "cannot patch tag at offset 0x%08X", tag.Offset)
		}
		patched++
		return nil
	})
	if err == errZeroOffset {
		opts.Logger.Info("[retimestamp] Timestamps already start at zero")
		return 0, nil
	}
	if err == nil && !found {
		opts.Logger.Info("[retimestamp] No media tags to rebase")
	}
	opts.Logger.Debug("[retimestamp] Done", zap.Int("patched", patched))
	return patched, err
}
