package rewrite

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/torresjeff/flv"
	"github.com/torresjeff/flv/amf/amf0"
	"github.com/torresjeff/flv/video"
)

type cutFixture struct {
	*fixture
	keyframe140 int64
	after260    int64
}

func newCutFixture(t *testing.T) *cutFixture {
	f := &cutFixture{fixture: newFixture(t, true, true)}
	f.metadata(amf0.ECMAArray{{Key: "duration", Value: amf0.Number(0.3)}, {Key: "width", Value: amf0.Number(320)}})
	f.vp6(0, video.KeyFrame)
	f.mp3(0)
	f.vp6(100, video.InterFrame)
	f.keyframe140 = f.vp6(140, video.KeyFrame)
	f.vp6(200, video.InterFrame)
	f.mp3(240)
	f.after260 = f.vp6(260, video.InterFrame)
	f.vp6(280, video.KeyFrame)
	return f
}

func expectedCut(t *testing.T, f *cutFixture, duration float64, start, end int64) []byte {
	tag, err := flv.BuildScriptTag(flv.MetadataName, amf0.ECMAArray{
		{Key: "duration", Value: amf0.Number(duration)},
		{Key: "width", Value: amf0.Number(320)},
	}, 0)
	require.NoError(t, err)
	want := flv.BuildHeader(true, true)
	want = append(want, tag...)
	return append(want, f.b[start:end]...)
}

func TestCut(t *testing.T) {
	f := newCutFixture(t)
	in := f.write("in.flv")
	out := filepath.Join(filepath.Dir(in), "out.flv")

	require.NoError(t, Cut(in, out, 120, 250, Options{}))
	assert.Equal(t, f.b, readFile(t, in))
	assert.Equal(t, expectedCut(t, f, 0.13, f.keyframe140, f.after260), readFile(t, out))
	assert.Equal(t, []int32{0, 140, 200, 240}, timestamps(readTags(t, out)))
}

func TestCut_OpenBounds(t *testing.T) {
	f := newCutFixture(t)
	in := f.write("in.flv")
	dir := filepath.Dir(in)

	t.Run("end", func(t *testing.T) {
		out := filepath.Join(dir, "end.flv")
		require.NoError(t, Cut(in, out, 120, OpenBound, Options{}))
		assert.Equal(t, expectedCut(t, f, 0.16, f.keyframe140, int64(len(f.b))), readFile(t, out))
	})

	t.Run("start", func(t *testing.T) {
		out := filepath.Join(dir, "start.flv")
		require.NoError(t, Cut(in, out, OpenBound, 250, Options{}))
		tags := readTags(t, out)
		require.Len(t, tags, 7)
		assert.Equal(t, []int32{0, 0, 0, 100, 140, 200, 240}, timestamps(tags))
		assert.Equal(t, 0.25, outputMetadata(t, tags).Duration)
		assert.Equal(t, int64(flv.HeaderSize+flv.PreviousTagSizeLength), tags[0].Offset)
	})
}

func TestCut_AudioOnly(t *testing.T) {
	f := &cutFixture{fixture: newFixture(t, true, false)}
	f.mp3(0)
	f.mp3(26)
	f.keyframe140 = f.mp3(52)
	f.mp3(78)
	f.after260 = f.mp3(104)
	in := f.write("in.flv")
	out := filepath.Join(filepath.Dir(in), "out.flv")

	require.NoError(t, Cut(in, out, 30, 80, Options{}))
	tags := readTags(t, out)
	assert.Equal(t, []int32{0, 52, 78}, timestamps(tags))
	assert.Equal(t, 0.05, outputMetadata(t, tags).Duration)
}

func TestCut_SkipsSequenceHeaders(t *testing.T) {
	f := newFixture(t, true, true)
	f.avc(0, video.KeyFrame, video.AVCSequenceHeader)
	f.avc(50, video.KeyFrame, video.AVCSequenceHeader)
	keyframe := f.avc(60, video.KeyFrame, video.AVCNALU)
	f.avc(90, video.InterFrame, video.AVCNALU)
	in := f.write("in.flv")
	out := filepath.Join(filepath.Dir(in), "out.flv")

	require.NoError(t, Cut(in, out, 10, OpenBound, Options{}))
	tags := readTags(t, out)
	require.Len(t, tags, 3)
	assert.Equal(t, int32(60), tags[1].Timestamp)
	assert.Equal(t, f.b[keyframe:], readFile(t, out)[tags[1].Offset:])
}

func TestCut_Errors(t *testing.T) {
	f := newCutFixture(t)
	in := f.write("in.flv")
	out := filepath.Join(filepath.Dir(in), "out.flv")

	t.Run("noKeyframeAfterStart", func(t *testing.T) {
		require.ErrorIs(t, Cut(in, out, 280, OpenBound, Options{}), ErrNoQualifyingKeyframe)
	})

	t.Run("keyframeBeyondEnd", func(t *testing.T) {
		require.ErrorIs(t, Cut(in, out, 200, 250, Options{}), ErrNoQualifyingKeyframe)
	})

	t.Run("noMedia", func(t *testing.T) {
		f := newFixture(t, false, false)
		f.metadata(amf0.ECMAArray{})
		in := f.write("in.flv")
		require.ErrorIs(t, Cut(in, out, OpenBound, OpenBound, Options{}), ErrNoMediaContent)
	})

	t.Run("onlySequenceHeaders", func(t *testing.T) {
		f := newFixture(t, false, true)
		f.avc(0, video.KeyFrame, video.AVCSequenceHeader)
		in := f.write("in.flv")
		require.ErrorIs(t, Cut(in, out, OpenBound, OpenBound, Options{}), ErrNoMediaContent)
	})

	t.Run("noNonZeroTimestamp", func(t *testing.T) {
		f := newFixture(t, true, false)
		f.mp3(0)
		in := f.write("in.flv")
		require.ErrorIs(t, Cut(in, out, OpenBound, OpenBound, Options{}), ErrNoNonZeroTimestamp)
	})

	assert.NoFileExists(t, out)
}
