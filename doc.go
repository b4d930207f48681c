// Package audiotag reads and writes tags and audio properties of audio
// files.
//
// Files are opened through a tagging backend. The default backend binds
// TagLib and handles every supported type with generic property maps; the
// native backend is pure Go, reads the fixed field set and writes ID3v2 tags
// on MPEG files. The ID3v2 codec itself lives in the id3v2 subpackage.
//
// # Quick Start
//
//	file, err := audiotag.Open("song.mp3", audiotag.Autodetect)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer file.Close()
//
//	tag, err := file.Tag()
//	if err != nil {
//		log.Fatal(err)
//	}
//	if title, ok := tag.String(audiotag.Title); ok {
//		fmt.Println(title)
//	}
//
//	tag.SetInt(audiotag.Year, 2024)
//	if err := file.Save(); err != nil {
//		log.Fatal(err)
//	}
//
// # Supported Types
//
// MPEG, Ogg Vorbis, Ogg Opus, Ogg FLAC, Speex, FLAC, MP4, ASF, MusePack,
// WavPack and TrueAudio. The type is detected from content unless a hint is
// given, and is fixed for the life of the File.
//
// # Absent Values
//
// Getters return (value, ok). An empty string or zero integer is reported as
// absent, and setting one removes the field.
//
// # Property Maps
//
// Properties and PropertyMap expose every tag as upper-case keys with lists
// of values. Without property-map support the fixed field set is returned
// under lower-case names, and SetProperties fails with
// *UnsupportedOperationError.
//
// Open multiple files concurrently:
//
//	files, err := audiotag.OpenMany(ctx, audiotag.Autodetect, paths...)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer func() {
//		for _, f := range files {
//			f.Close()
//		}
//	}()
//
// # Error Handling
//
// Missing files, tags and properties match ErrNotFound. Files that exist but
// cannot be read are *InvalidFileError, types no backend handles are
// *UnsupportedFormatError, and Save on a read-only type is
// *UnsupportedWriteError.
package audiotag
