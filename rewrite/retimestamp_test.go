package rewrite

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/torresjeff/flv"
	"github.com/torresjeff/flv/amf/amf0"
	"github.com/torresjeff/flv/audio"
	"github.com/torresjeff/flv/video"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func shiftedFixture(t *testing.T) *fixture {
	f := newFixture(t, true, true)
	f.metadata(amf0.ECMAArray{{Key: "duration", Value: amf0.Number(1)}})
	f.avc(500, video.KeyFrame, video.AVCSequenceHeader)
	f.aac(500, audio.AACSequenceHeader)
	f.aac(1000, audio.AACRaw)
	f.avc(1000, video.KeyFrame, video.AVCNALU)
	f.aac(1040, audio.AACRaw)
	f.avc(1080, video.InterFrame, video.AVCNALU)
	return f
}

func timestamps(tags []*flv.Tag) []int32 {
	ts := make([]int32, len(tags))
	for i, tag := range tags {
		ts[i] = tag.Timestamp
	}
	return ts
}

func TestRetimestamp(t *testing.T) {
	f := shiftedFixture(t)
	in := f.write("in.flv")
	atomic := copyFile(t, in, "atomic.flv")
	inplace := copyFile(t, in, "inplace.flv")

	core, logs := observer.New(zapcore.InfoLevel)
	require.NoError(t, Retimestamp(atomic, "", Atomic, Options{Logger: zap.New(core)}))
	require.Equal(t, 1, logs.FilterMessage("[retimestamp] Rebasing timestamps by 1000").Len())
	require.NoError(t, Retimestamp(inplace, "", InPlace, Options{}))

	// Headers and script tags keep their timestamps.
	assert.Equal(t, []int32{0, 500, 500, 0, 0, 40, 80}, timestamps(readTags(t, atomic)))
	assert.Equal(t, readFile(t, atomic), readFile(t, inplace))
	assert.Equal(t, len(f.b), len(readFile(t, atomic)))
}

func TestRetimestamp_Output(t *testing.T) {
	f := shiftedFixture(t)
	in := f.write("in.flv")
	out := filepath.Join(filepath.Dir(in), "out.flv")

	// The mode only applies to updates.
	require.NoError(t, Retimestamp(in, out, InPlace, Options{}))
	assert.Equal(t, f.b, readFile(t, in))
	assert.Equal(t, []int32{0, 500, 500, 0, 0, 40, 80}, timestamps(readTags(t, out)))
}

func TestRetimestamp_NoOp(t *testing.T) {
	f := shiftedFixture(t)
	in := f.write("in.flv")
	require.NoError(t, Retimestamp(in, "", Atomic, Options{}))
	once := readFile(t, in)

	for _, mode := range []Mode{Atomic, InPlace} {
		t.Run(mode.String(), func(t *testing.T) {
			core, logs := observer.New(zapcore.InfoLevel)
			require.NoError(t, Retimestamp(in, "", mode, Options{Logger: zap.New(core)}))
			assert.Equal(t, once, readFile(t, in))
			assert.Equal(t, 1, logs.FilterMessage("[retimestamp] Timestamps already start at zero").Len())
		})
	}
}

func TestRetimestamp_NegativeResult(t *testing.T) {
	f := newFixture(t, true, false)
	f.mp3(100)
	f.mp3(60)
	f.mp3(140)
	in := f.write("in.flv")

	require.NoError(t, Retimestamp(in, "", InPlace, Options{}))
	assert.Equal(t, []int32{0, -40, 40}, timestamps(readTags(t, in)))
}

func TestRetimestamp_Errors(t *testing.T) {
	f := shiftedFixture(t)
	f.b = f.b[:len(f.b)-2]
	in := f.write("in.flv")

	err := Retimestamp(in, "", Atomic, Options{})
	require.ErrorIs(t, err, flv.ErrEndOfData)
	assert.Equal(t, f.b, readFile(t, in))
	entries, err := filepath.Glob(filepath.Join(filepath.Dir(in), ".tmp-*"))
	require.NoError(t, err)
	assert.Empty(t, entries)

	err = Retimestamp(filepath.Join(t.TempDir(), "missing.flv"), "", InPlace, Options{})
	var rerr *Error
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, "retimestamp", rerr.Op)
}

func TestMode_String(t *testing.T) {
	assert.Equal(t, "atomic", Atomic.String())
	assert.Equal(t, "inplace", InPlace.String())
	assert.Equal(t, "Mode(7)", Mode(7).String())
}
