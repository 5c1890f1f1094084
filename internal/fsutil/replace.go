package fsutil

import (
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/torresjeff/flv/rand"
	"go.uber.org/multierr"
)

const defaultPerm os.FileMode = 0644

// replacer atomically updates the content of a file. Content goes to a
// scratch file in the same directory; close renames it over the target and
// abort removes it, leaving the target untouched.
type replacer struct {
	f        *os.File
	filename string
	perm     os.FileMode
}

// newReplacer returns a replacer for filename. The replacement keeps the
// permission bits of an existing file.
func newReplacer(filename string) (*replacer, error) {
	filename, err := filepath.Abs(filename)
	if err != nil {
		return nil, err
	}
	perm := defaultPerm
	if info, err := os.Stat(filename); err == nil {
		perm = info.Mode().Perm()
	}
	f, err := createScratch(filename)
	if err != nil {
		return nil, err
	}
	return &replacer{
		f:        f,
		filename: filename,
		perm:     perm,
	}, nil
}

func (r *replacer) abort() {
	r.f.Close()
	os.Remove(r.f.Name())
}

func (r *replacer) close() (err error) {
	defer func() {
		if err != nil {
			os.Remove(r.f.Name())
		}
	}()
	if err := r.f.Close(); err != nil {
		return err
	}
	if err := os.Chmod(r.f.Name(), r.perm); err != nil {
		return err
	}
	return os.Rename(r.f.Name(), r.filename)
}

// ReplaceFile calls fn with a scratch file next to name and renames it over
// name only if fn succeeds. On failure the scratch file is removed and name
// is left untouched.
func ReplaceFile(name string, fn func(f *os.File) error) error {
	r, err := newReplacer(name)
	if err != nil {
		return err
	}
	if err := fn(r.f); err != nil {
		r.abort()
		return err
	}
	return r.close()
}

// WithScratch calls fn with a read/write scratch file next to name. The
// scratch file is removed when fn returns.
func WithScratch(name string, fn func(f *os.File) error) (err error) {
	name, err = filepath.Abs(name)
	if err != nil {
		return err
	}
	f, err := createScratch(name)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, f.Close())
		os.Remove(f.Name())
	}()
	return fn(f)
}

func createScratch(filename string) (*os.File, error) {
	scratch := filepath.Join(filepath.Dir(filename), rand.ScratchName(filepath.Base(filename)))
	f, err := os.OpenFile(scratch, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0600)
	if err != nil {
		return nil, errors.Wrap(err, "cannot create scratch file")
	}
	return f, nil
}

// CopyRange copies src[start:end] to w. An end of -1 copies to the end of src.
func CopyRange(w io.Writer, src *os.File, start, end int64) error {
	if end < 0 {
		info, err := src.Stat()
		if err != nil {
			return err
		}
		end = info.Size()
	}
	if end < start {
		return errors.Errorf("invalid range [%d, %d)", start, end)
	}
	n, err := io.Copy(w, io.NewSectionReader(src, start, end-start))
	if err != nil {
		return err
	}
	if n != end-start {
		return errors.Errorf("short copy: %d of %d bytes", n, end-start)
	}
	return nil
}

// CopyFile copies the content of src into w.
func CopyFile(w io.Writer, src string) (err error) {
	f, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, f.Close())
	}()
	_, err = io.Copy(w, f)
	return err
}
