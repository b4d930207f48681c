package audiotag

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTag_Strings(t *testing.T) {
	f := openMemory(t, map[string][]string{
		"TITLE":  {"Song"},
		"ARTIST": {"One", "Two"},
		"GENRE":  {""},
	})
	tag, err := f.Tag()
	require.NoError(t, err)

	title, ok := tag.String(Title)
	assert.True(t, ok)
	assert.Equal(t, "Song", title)

	artist, ok := tag.String(Artist)
	assert.True(t, ok)
	assert.Equal(t, "One", artist, "first value wins")

	_, ok = tag.String(Genre)
	assert.False(t, ok, "empty value is absent")
	_, ok = tag.String(Album)
	assert.False(t, ok)
	_, ok = tag.String(StringField(42))
	assert.False(t, ok)
}

func TestTag_SetString(t *testing.T) {
	f := openMemory(t, map[string][]string{"ARTIST": {"One", "Two"}})
	tag, err := f.Tag()
	require.NoError(t, err)

	tag.SetString(Artist, "Solo")
	assert.Equal(t, []string{"Solo"}, f.PropertyMap()["ARTIST"])
	assert.True(t, f.Modified())

	tag.SetString(Artist, "")
	assert.NotContains(t, f.PropertyMap(), "ARTIST")

	tag.SetString(StringField(-1), "ignored")
	assert.Empty(t, f.PropertyMap())
}

func TestTag_Ints(t *testing.T) {
	f := openMemory(t, map[string][]string{
		"DATE":        {"2024-05-01"},
		"TRACKNUMBER": {"3/12"},
	})
	tag, err := f.Tag()
	require.NoError(t, err)

	year, ok := tag.Int(Year)
	assert.True(t, ok)
	assert.Equal(t, 2024, year)

	track, ok := tag.Int(Track)
	assert.True(t, ok)
	assert.Equal(t, 3, track)

	tag.SetInt(Track, 7)
	assert.Equal(t, []string{"7"}, f.PropertyMap()["TRACKNUMBER"])

	tag.SetInt(Year, 0)
	_, ok = tag.Int(Year)
	assert.False(t, ok)
	assert.NotContains(t, f.PropertyMap(), "DATE")
}

func TestTag_IntZeroIsAbsent(t *testing.T) {
	f := openMemory(t, map[string][]string{"TRACKNUMBER": {"0"}, "DATE": {"unknown"}})
	tag, err := f.Tag()
	require.NoError(t, err)

	_, ok := tag.Int(Track)
	assert.False(t, ok)
	_, ok = tag.Int(Year)
	assert.False(t, ok)
}

func TestParseFields(t *testing.T) {
	for _, name := range []string{"title", "artist", "album", "comment", "genre"} {
		f, err := ParseStringField(name)
		require.NoError(t, err, name)
		assert.Equal(t, name, f.String())
	}
	for _, name := range []string{"year", "track"} {
		f, err := ParseIntField(name)
		require.NoError(t, err, name)
		assert.Equal(t, name, f.String())
	}

	_, err := ParseStringField("Title")
	assert.Error(t, err)
	_, err = ParseIntField("title")
	assert.Error(t, err)

	assert.Equal(t, "StringField(9)", StringField(9).String())
	assert.Equal(t, "IntField(-1)", IntField(-1).String())
}

func TestLeadingInt(t *testing.T) {
	tests := map[string]int{
		"2024":       2024,
		"2024-05-01": 2024,
		"3/12":       3,
		" 7 ":        7,
		"":           0,
		"abc":        0,
		"-5":         0,
	}
	for in, want := range tests {
		assert.Equal(t, want, leadingInt(in), "leadingInt(%q)", in)
	}
}
