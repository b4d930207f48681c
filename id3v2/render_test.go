package id3v2

import (
	"bytes"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	binutil "github.com/simonhull/audiotag/internal/binary"
)

func TestRender_SingleTextFrame(t *testing.T) {
	tag := NewTag()
	require.NoError(t, tag.AttachFrame("TIT2", "Test"))

	out := tag.Render()
	require.Len(t, out, 15)
	assert.Equal(t, []byte{
		'T', 'I', 'T', '2',
		0x00, 0x00, 0x00, 0x05,
		0x00, 0x00,
		0x03, 'T', 'e', 's', 't',
	}, out)

	size, err := binutil.ReadSynchSafe(out[4:8])
	require.NoError(t, err)
	assert.Equal(t, uint32(5), size)
}

func TestRender_AppendSemantics(t *testing.T) {
	tag := NewTag()
	require.NoError(t, tag.AttachFrame("TPE1", "A"))
	require.NoError(t, tag.AttachFrame("TPE1", "BB"))
	assert.Equal(t, 2, tag.Len())

	out := tag.Render()
	require.Len(t, out, 12+13)

	first, second := out[:12], out[12:]
	assert.Equal(t, "TPE1", string(first[0:4]))
	assert.Equal(t, []byte{0, 0, 0, 2}, first[4:8])
	assert.Equal(t, []byte{3, 'A'}, first[10:])

	assert.Equal(t, "TPE1", string(second[0:4]))
	assert.Equal(t, []byte{0, 0, 0, 3}, second[4:8])
	assert.Equal(t, []byte{3, 'B', 'B'}, second[10:])
}

func TestRenderFrames_SizeEncoding(t *testing.T) {
	frames := []Frame{{ID: "PRIV", Body: bytes.Repeat([]byte{0}, 200)}}

	assert.Equal(t, []byte{0, 0, 0x01, 0x48}, RenderFrames(frames, 4)[4:8])
	assert.Equal(t, []byte{0, 0, 0x00, 0xC8}, RenderFrames(frames, 3)[4:8])
}

func TestRenderFrames_Empty(t *testing.T) {
	assert.Empty(t, RenderFrames(nil, 4))
	assert.Empty(t, NewTag().Render())
}

func TestRenderTag(t *testing.T) {
	tag := &Tag{header: Header{
		MajorVersion: 4,
		Flags:        FlagUnsynchronisation | FlagExtendedHeader | FlagExperimental | FlagFooter,
		TagSize:      999,
	}}
	require.NoError(t, tag.AttachFrame("TIT2", "Test"))

	out := tag.RenderTag(16)
	require.Len(t, out, HeaderSize+15+16)

	h, err := ParseHeader(out)
	require.NoError(t, err)
	assert.Equal(t, byte(4), h.MajorVersion)
	assert.Equal(t, FlagExperimental, h.Flags)
	assert.Equal(t, uint32(15+16), h.TagSize)
	assert.Equal(t, make([]byte, 16), out[HeaderSize+15:])

	reparsed, err := Parse(out)
	require.NoError(t, err)
	assert.Equal(t, tag.Frames(), reparsed.Frames())
}

func TestRenderTag_NegativePadding(t *testing.T) {
	tag := NewTag()
	require.NoError(t, tag.AttachFrame("TIT2", "x"))

	assert.Equal(t, tag.RenderTag(0), tag.RenderTag(-5))
}

func TestRenderTag_V23RoundTrip(t *testing.T) {
	tag, err := NewTagVersion(3)
	require.NoError(t, err)
	require.NoError(t, tag.AttachFrame("TALB", string(bytes.Repeat([]byte{'a'}, 300))))

	out := tag.RenderTag(0)
	assert.Equal(t, byte(3), out[3])

	reparsed, err := Parse(out)
	require.NoError(t, err)
	text, ok := reparsed.Text("TALB")
	assert.True(t, ok)
	assert.Len(t, text, 300)
}

func TestTag_WriteTo(t *testing.T) {
	tag := NewTag()
	require.NoError(t, tag.AttachFrame("TIT2", "Test"))

	var buf bytes.Buffer
	n, err := tag.WriteTo(&buf)
	require.NoError(t, err)
	assert.Equal(t, int64(HeaderSize+15), n)
	assert.Equal(t, tag.RenderTag(0), buf.Bytes())
}

func TestRenderTag_PaddingOutOfRange(t *testing.T) {
	tag := NewTag()
	require.NoError(t, tag.AttachFrame("TIT2", "Test"))

	assert.Panics(t, func() { tag.RenderTag(binutil.MaxSynchSafe) })
	assert.Panics(t, func() { tag.RenderTag(math.MaxInt32) })
	assert.Panics(t, func() { tag.RenderTag(binutil.MaxSynchSafe - 14) })
}
