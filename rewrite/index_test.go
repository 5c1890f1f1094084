package rewrite

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/torresjeff/flv"
	"github.com/torresjeff/flv/amf/amf0"
	"github.com/torresjeff/flv/config"
	"github.com/torresjeff/flv/video"
)

func outputMetadata(t *testing.T, tags []*flv.Tag) *flv.Metadata {
	require.NotEmpty(t, tags)
	require.True(t, tags[0].IsMetadata(), "first tag is %s", tags[0])
	md, err := flv.DecodeMetadata(tags[0].Script().Value)
	require.NoError(t, err)
	return md
}

func TestIndex(t *testing.T) {
	f := newFixture(t, true, true)
	f.metadata(amf0.ECMAArray{{Key: "author", Value: amf0.String("someone")}})
	f.mp3(0)
	f.vp6(0, video.KeyFrame)
	f.mp3(20)
	f.vp6(40, video.InterFrame)
	f.mp3(40)
	in := f.write("in.flv")
	out := filepath.Join(filepath.Dir(in), "out.flv")

	require.NoError(t, Index(in, out, Options{}))
	require.Equal(t, f.b, readFile(t, in), "input was modified")

	tags := readTags(t, out)
	require.Len(t, tags, 6)
	md := outputMetadata(t, tags)
	assert.Equal(t, 0.04, md.Duration)
	assert.Equal(t, config.DefaultCreator, md.MetadataCreator)
	assert.Equal(t, []float64{0}, md.Keyframes.Times)
	require.Len(t, md.Keyframes.FilePositions, 1)

	// The recorded position must land on the keyframe in the new layout.
	keyframe := tags[2]
	require.Equal(t, flv.TagTypeVideo, keyframe.Type)
	require.True(t, keyframe.Video().IsKeyFrame())
	assert.Equal(t, float64(keyframe.Offset), md.Keyframes.FilePositions[0])

	author, ok := tags[0].Script().Value.(amf0.ECMAArray).Get("author")
	require.True(t, ok)
	assert.Equal(t, amf0.String("someone"), author)
}

func TestIndex_MediaOnly(t *testing.T) {
	f := newFixture(t, true, true)
	f.mp3(0)
	f.vp6(0, video.KeyFrame)
	f.mp3(20)
	f.vp6(40, video.InterFrame)
	f.mp3(40)
	in := f.write("in.flv")
	out := filepath.Join(filepath.Dir(in), "out.flv")

	require.NoError(t, Index(in, out, Options{}))

	tags := readTags(t, out)
	require.Len(t, tags, 6)
	md := outputMetadata(t, tags)
	assert.Equal(t, 0.04, md.Duration)
	assert.Equal(t, []float64{0}, md.Keyframes.Times)
	assert.Equal(t, []float64{float64(tags[2].Offset)}, md.Keyframes.FilePositions)
	assert.Equal(t, f.b[flv.HeaderSize+flv.PreviousTagSizeLength:], readFile(t, out)[tags[1].Offset:])
}

func TestIndex_WithoutExistingMetadata(t *testing.T) {
	f := newFixture(t, false, true)
	f.vp6(0, video.KeyFrame)
	f.vp6(40, video.InterFrame)
	f.vp6(80, video.KeyFrame)
	in := f.write("in.flv")

	require.NoError(t, Index(in, "", Options{Creator: "tests"}))

	tags := readTags(t, in)
	require.Len(t, tags, 4)
	md := outputMetadata(t, tags)
	assert.Equal(t, "tests", md.MetadataCreator)
	assert.Equal(t, 0.08, md.Duration)
	assert.Equal(t, []float64{0, 0.08}, md.Keyframes.Times)
	assert.Equal(t, []float64{float64(tags[1].Offset), float64(tags[3].Offset)}, md.Keyframes.FilePositions)
	assert.IsType(t, amf0.ECMAArray{}, tags[0].Script().Value)
}

func TestIndex_KeepsDuration(t *testing.T) {
	f := newFixture(t, true, false)
	f.metadata(amf0.Object{{Key: "duration", Value: amf0.Number(12.5)}})
	f.mp3(0)
	f.mp3(26)
	in := f.write("in.flv")

	require.NoError(t, Index(in, "", Options{}))

	tags := readTags(t, in)
	assert.IsType(t, amf0.Object{}, tags[0].Script().Value)
	assert.Equal(t, 12.5, outputMetadata(t, tags).Duration)
}

func TestIndex_AudioSeekpoints(t *testing.T) {
	f := newFixture(t, true, false)
	for i := int32(0); i < 25; i++ {
		f.mp3(i * 26)
	}
	in := f.write("in.flv")

	require.NoError(t, Index(in, "", Options{SeekpointDensity: 10}))

	tags := readTags(t, in)
	md := outputMetadata(t, tags)
	// The 10th and the 20th audio tags.
	assert.Equal(t, []float64{0.234, 0.494}, md.Keyframes.Times)
	assert.Equal(t, []float64{float64(tags[10].Offset), float64(tags[20].Offset)}, md.Keyframes.FilePositions)
	assert.Equal(t, 0.624, md.Duration)
}

func TestIndex_Idempotent(t *testing.T) {
	f := newFixture(t, true, true)
	f.metadata(amf0.ECMAArray{{Key: "duration", Value: amf0.Number(0)}})
	f.avc(0, video.KeyFrame, video.AVCSequenceHeader)
	f.avc(0, video.KeyFrame, video.AVCNALU)
	f.mp3(10)
	f.avc(33, video.InterFrame, video.AVCNALU)
	f.avc(66, video.KeyFrame, video.AVCNALU)
	in := f.write("in.flv")

	require.NoError(t, Index(in, "", Options{}))
	first := readFile(t, in)
	require.NoError(t, Index(in, "", Options{}))
	assert.Equal(t, first, readFile(t, in))

	tags := readTags(t, in)
	md := outputMetadata(t, tags)
	// The sequence header is a keyframe too.
	assert.Equal(t, []float64{0, 0, 0.066}, md.Keyframes.Times)
	assert.Equal(t, float64(tags[1].Offset), md.Keyframes.FilePositions[0])
}

func TestIndex_Errors(t *testing.T) {
	t.Run("noMedia", func(t *testing.T) {
		f := newFixture(t, false, false)
		f.metadata(amf0.ECMAArray{})
		in := f.write("in.flv")

		err := Index(in, "", Options{})
		require.ErrorIs(t, err, ErrNoMediaContent)
		require.Equal(t, f.b, readFile(t, in))
	})

	t.Run("noNonZeroTimestamp", func(t *testing.T) {
		f := newFixture(t, true, false)
		f.mp3(0)
		f.mp3(0)
		in := f.write("in.flv")

		require.ErrorIs(t, Index(in, "", Options{}), ErrNoNonZeroTimestamp)
	})

	t.Run("malformedStrict", func(t *testing.T) {
		f := newFixture(t, true, false)
		f.mp3(0)
		f.mp3(26)
		f.b[len(f.b)-1]++
		in := f.write("in.flv")

		err := Index(in, "", Options{Strict: true})
		require.ErrorIs(t, err, flv.ErrMalformed)
		var rerr *Error
		require.ErrorAs(t, err, &rerr)
		assert.Equal(t, in, rerr.Path)

		require.NoError(t, Index(in, "", Options{}))
	})

	t.Run("missing", func(t *testing.T) {
		err := Index(filepath.Join(t.TempDir(), "missing.flv"), "", Options{})
		require.Error(t, err)
	})
}

func TestIndexWithRetimestamp(t *testing.T) {
	f := newFixture(t, true, true)
	f.vp6(500, video.KeyFrame)
	f.mp3(520)
	f.vp6(540, video.InterFrame)
	in := f.write("in.flv")
	out := filepath.Join(filepath.Dir(in), "out.flv")

	require.NoError(t, IndexWithRetimestamp(in, out, InPlace, Options{}))
	require.Equal(t, f.b, readFile(t, in))

	tags := readTags(t, out)
	md := outputMetadata(t, tags)
	assert.Equal(t, 0.04, md.Duration)
	assert.Equal(t, []float64{0}, md.Keyframes.Times)
	assert.Equal(t, int32(20), tags[2].Timestamp)

	inplace := copyFile(t, in, "inplace.flv")
	require.NoError(t, IndexWithRetimestamp(inplace, "", InPlace, Options{}))
	assert.Equal(t, readFile(t, out), readFile(t, inplace))
}

func TestIndexWithRetimestamp_Failure(t *testing.T) {
	// Both tags land on zero once rebased, so indexing fails after the
	// timestamps have been patched.
	newInput := func(t *testing.T) (*fixture, string) {
		f := newFixture(t, true, false)
		f.mp3(100)
		f.mp3(100)
		return f, f.write("in.flv")
	}
	onlyFile := func(t *testing.T, dir, name string) {
		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, name, entries[0].Name())
	}

	t.Run("update", func(t *testing.T) {
		f, in := newInput(t)
		err := IndexWithRetimestamp(in, "", Atomic, Options{})
		require.ErrorIs(t, err, ErrNoNonZeroTimestamp)
		assert.Equal(t, f.b, readFile(t, in))
		onlyFile(t, filepath.Dir(in), "in.flv")
	})

	t.Run("output", func(t *testing.T) {
		f, in := newInput(t)
		out := filepath.Join(filepath.Dir(in), "out.flv")
		err := IndexWithRetimestamp(in, out, Atomic, Options{})
		require.ErrorIs(t, err, ErrNoNonZeroTimestamp)
		assert.Equal(t, f.b, readFile(t, in))
		assert.NoFileExists(t, out)
		onlyFile(t, filepath.Dir(in), "in.flv")
	})
}

func TestIndexWithRetimestamp_Update(t *testing.T) {
	f := newFixture(t, true, true)
	f.vp6(500, video.KeyFrame)
	f.mp3(520)
	f.vp6(540, video.InterFrame)
	in := f.write("in.flv")

	require.NoError(t, IndexWithRetimestamp(in, "", Atomic, Options{}))

	tags := readTags(t, in)
	require.Len(t, tags, 4)
	md := outputMetadata(t, tags)
	assert.Equal(t, 0.04, md.Duration)
	assert.Equal(t, []float64{float64(tags[1].Offset)}, md.Keyframes.FilePositions)
	assert.Equal(t, []int32{0, 0, 20, 40}, timestamps(tags))

	entries, err := os.ReadDir(filepath.Dir(in))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
