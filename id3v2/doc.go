// Package id3v2 parses and renders ID3v2 tags.
//
// A tag is read in two phases. The fixed 10-byte header comes first and
// declares how many bytes follow it:
//
//	hdr, err := id3v2.ParseHeader(raw[:id3v2.HeaderSize])
//	if err != nil {
//	    return err
//	}
//	body := raw[id3v2.HeaderSize : id3v2.HeaderSize+int(hdr.TagSize)]
//
// The body is then split into frames. Frames keep their encounter order,
// duplicate IDs stay separate entries, and frames the package does not
// understand are carried as opaque bodies so they survive a rewrite.
//
// Frame sizes are synch-safe in ID3v2.4 and plain big-endian in ID3v2.3.
// Text frames written by this package always use encoding 3 (UTF-8); all four
// encodings are accepted when reading.
//
// Typical use:
//
//	tag, err := id3v2.ReadFile("song.mp3")
//	if err != nil {
//	    return err
//	}
//	title, _ := tag.Text("TIT2")
//	if err := tag.SetText("TPE1", "Someone Else"); err != nil {
//	    return err
//	}
//	err = id3v2.SaveFile("song.mp3", tag, 1024)
package id3v2
