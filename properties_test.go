package audiotag

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collect(f *File) [][2]string {
	var out [][2]string
	for k, v := range f.Properties() {
		out = append(out, [2]string{k, v})
	}
	return out
}

func TestProperties_PropertyMap(t *testing.T) {
	f := openMemory(t, map[string][]string{
		"TITLE":  {"Song"},
		"ARTIST": {"One", "Two"},
		"ISRC":   {"USRC17607839"},
	})

	assert.Equal(t, [][2]string{
		{"ARTIST", "One"},
		{"ARTIST", "Two"},
		{"ISRC", "USRC17607839"},
		{"TITLE", "Song"},
	}, collect(f))

	m := f.PropertyMap()
	m["TITLE"][0] = "mutated"
	assert.Equal(t, []string{"Song"}, f.PropertyMap()["TITLE"], "PropertyMap returns a copy")
}

func TestProperties_StopsEarly(t *testing.T) {
	f := openMemory(t, map[string][]string{"A": {"1", "2"}, "B": {"3"}})

	var n int
	for range f.Properties() {
		n++
		if n == 2 {
			break
		}
	}
	assert.Equal(t, 2, n)
}

func TestProperties_FixedFieldFallback(t *testing.T) {
	path := writeTemp(t, "song.mp3", mpegData(4))
	readOnly.setTags(path, map[string][]string{
		"TITLE":       {"Song"},
		"DATE":        {"1999"},
		"TRACKNUMBER": {"4/10"},
		"ISRC":        {"hidden"},
	})
	f, err := Open(path, Autodetect, WithBackend(readOnly.Name()))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, [][2]string{
		{"title", "Song"},
		{"artist", ""},
		{"album", ""},
		{"comment", ""},
		{"genre", ""},
		{"year", "1999"},
		{"track", "4"},
	}, collect(f))

	m := f.PropertyMap()
	assert.Equal(t, []string{"Song"}, m["title"])
	assert.NotContains(t, m, "ISRC")

	err = f.SetProperties(map[string][]string{"TITLE": {"x"}})
	var uoe *UnsupportedOperationError
	require.ErrorAs(t, err, &uoe)
	assert.Equal(t, "memory-readonly", uoe.Backend)
	assert.Equal(t, MPEG, uoe.Type)
}

func TestSetProperties(t *testing.T) {
	f := openMemory(t, map[string][]string{"TITLE": {"Old"}, "GENRE": {"Rock"}})

	require.NoError(t, f.SetProperties(map[string][]string{
		"title":  {"New"},
		"Artist": {"A", ""},
		"EMPTY":  {""},
	}))

	assert.Equal(t, map[string][]string{
		"TITLE":  {"New"},
		"ARTIST": {"A"},
	}, f.PropertyMap())
	assert.True(t, f.Modified())
}
