// Package types provides the file-type enumeration, audio properties and
// error types shared by the facade and its backends.
package types

// Property map keys for the fixed tag fields. They follow TagLib's property
// naming, which the backends use for every file type.
const (
	KeyTitle       = "TITLE"
	KeyArtist      = "ARTIST"
	KeyAlbum       = "ALBUM"
	KeyComment     = "COMMENT"
	KeyGenre       = "GENRE"
	KeyDate        = "DATE"
	KeyTrackNumber = "TRACKNUMBER"
)

// FixedKeys lists the keys of the fixed field set in enumeration order.
var FixedKeys = []string{KeyTitle, KeyArtist, KeyAlbum, KeyComment, KeyGenre, KeyDate, KeyTrackNumber}
