package native

import (
	"errors"
	"strings"

	"github.com/simonhull/audiotag/id3v2"
	"github.com/simonhull/audiotag/internal/types"
)

// tagPadding is reserved after rewritten tags.
const tagPadding = 1024

const commentLanguage = "eng"

// textFrames maps text frames to keys. DATE is handled per version.
var textFrames = []struct {
	id  string
	key string
}{
	{"TIT2", types.KeyTitle},
	{"TPE1", types.KeyArtist},
	{"TALB", types.KeyAlbum},
	{"TCON", types.KeyGenre},
	{"TRCK", types.KeyTrackNumber},
}

// dateFrame returns the frame that carries the recording date for a version.
func dateFrame(major byte) string {
	if major == 3 {
		return "TYER"
	}
	return "TDRC"
}

// readMPEGTags reads the ID3v2 tag, falling back to ID3v1 when the file has
// no ID3v2 tag.
func readMPEGTags(path string) (map[string][]string, error) {
	t, err := id3v2.ReadFile(path)
	if errors.Is(err, id3v2.ErrNoTag) {
		return readGeneric(path)
	}
	if err != nil {
		return nil, &types.InvalidFileError{Path: path, Reason: "read ID3v2 tag", Err: err}
	}
	return fromID3v2(t), nil
}

func fromID3v2(t *id3v2.Tag) map[string][]string {
	tags := make(map[string][]string)

	textValues := func(id string) []string {
		for _, f := range t.FramesByID(id) {
			if vs, err := f.TextValues(); err == nil {
				if vs = nonEmpty(vs); len(vs) > 0 {
					return vs
				}
			}
		}
		return nil
	}

	for _, tf := range textFrames {
		if vs := textValues(tf.id); vs != nil {
			tags[tf.key] = vs
		}
	}

	// v2.3 files converted to v2.4 by some writers keep TYER.
	if vs := textValues("TDRC"); vs != nil {
		tags[types.KeyDate] = vs
	} else if vs := textValues("TYER"); vs != nil {
		tags[types.KeyDate] = vs
	}

	if c, ok := firstComment(t); ok {
		tags[types.KeyComment] = []string{c}
	}
	return tags
}

// firstComment returns the first comment without a description. Described
// comments such as iTunNORM carry player data, not the file's comment.
func firstComment(t *id3v2.Tag) (string, bool) {
	for _, f := range t.FramesByID("COMM") {
		if c, err := f.Comment(); err == nil && c.Description == "" && c.Text != "" {
			return c.Text, true
		}
	}
	return "", false
}

// isPlainComment reports whether f is a comment without a description.
func isPlainComment(f id3v2.Frame) bool {
	if f.ID != "COMM" {
		return false
	}
	c, err := f.Comment()
	return err == nil && c.Description == ""
}

// writeMPEGTags replaces the fixed fields in the file's ID3v2 tag. Frames the
// fixed field set does not cover are kept, described comments included.
// Files without a tag get a v2.4 tag.
func writeMPEGTags(path string, tags map[string][]string) error {
	t, err := id3v2.ReadFile(path)
	switch {
	case errors.Is(err, id3v2.ErrNoTag):
		t = id3v2.NewTag()
	case err != nil:
		return &types.InvalidFileError{Path: path, Reason: "read ID3v2 tag", Err: err}
	}

	if err := applyTags(t, tags); err != nil {
		return err
	}
	return id3v2.SaveFile(path, t, tagPadding)
}

func applyTags(t *id3v2.Tag, tags map[string][]string) error {
	for _, tf := range textFrames {
		if err := setText(t, tf.id, tags[tf.key]); err != nil {
			return err
		}
	}

	t.RemoveFrames("TYER")
	t.RemoveFrames("TDRC")
	date := tags[types.KeyDate]
	if t.Version() == 3 && len(date) > 0 && len(date[0]) > 4 {
		date = []string{date[0][:4]}
	}
	if err := setText(t, dateFrame(t.Version()), date); err != nil {
		return err
	}

	t.RemoveFramesFunc(isPlainComment)
	if vs := nonEmpty(tags[types.KeyComment]); len(vs) > 0 {
		f, err := id3v2.NewCommentFrame(commentLanguage, "", strings.Join(vs, "\n"))
		if err != nil {
			return err
		}
		if err := t.AddFrame(f); err != nil {
			return err
		}
	}
	return nil
}

// setText replaces the frame with the values, NUL-separated, or removes it
// when there are none.
func setText(t *id3v2.Tag, id string, values []string) error {
	values = nonEmpty(values)
	if len(values) == 0 {
		t.RemoveFrames(id)
		return nil
	}
	return t.SetText(id, strings.Join(values, "\x00"))
}
