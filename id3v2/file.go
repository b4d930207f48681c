package id3v2

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	binutil "github.com/simonhull/audiotag/internal/binary"
)

// ReadFrom reads the tag at the start of r. It reads the fixed header first,
// then exactly the number of bytes it declares.
//
// It returns ErrNoTag when r does not begin with "ID3".
func ReadFrom(r io.ReaderAt, size int64, path string) (*Tag, error) {
	if size < HeaderSize {
		return nil, ErrNoTag
	}
	sr := binutil.NewSafeReader(r, size, path)

	raw := make([]byte, HeaderSize)
	if err := sr.ReadAt(raw, 0, "ID3v2 header"); err != nil {
		return nil, err
	}
	if string(raw[0:3]) != marker {
		return nil, ErrNoTag
	}

	t := &Tag{}
	if err := t.ParseHeader(raw); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if t.header.TagSize == 0 {
		return t, nil
	}

	if int64(HeaderSize)+int64(t.header.TagSize) > size {
		return nil, fmt.Errorf("%s: %w", path, &TruncatedFrameError{
			Size:      t.header.TagSize,
			Remaining: int(size - HeaderSize),
		})
	}

	body := make([]byte, t.header.TagSize)
	if err := sr.ReadAt(body, HeaderSize, "ID3v2 tag body"); err != nil {
		return nil, err
	}
	if err := t.ParseBody(body); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// ReadFile reads the tag at the start of the named file.
func ReadFile(path string) (*Tag, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	return ReadFrom(f, info.Size(), path)
}

// SaveFile writes tag to the start of the named file, replacing any ID3v2 tag
// already there. The rest of the file is copied unchanged. A tag with no
// frames removes the existing tag.
//
// The file is rewritten through a temporary file in the same directory that
// is renamed over the original, so a failed save leaves the original intact.
func SaveFile(path string, tag *Tag, padding int) error {
	src, err := os.Open(path)
	if err != nil {
		return err
	}
	defer src.Close()

	info, err := src.Stat()
	if err != nil {
		return err
	}

	audioStart, err := existingTagEnd(src, info.Size())
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".audiotag-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	if tag.Len() > 0 {
		if _, err := tmp.Write(tag.RenderTag(padding)); err != nil {
			return fmt.Errorf("write tag: %w", err)
		}
	}

	audio := io.NewSectionReader(src, audioStart, info.Size()-audioStart)
	if _, err := io.Copy(tmp, audio); err != nil {
		return fmt.Errorf("copy audio: %w", err)
	}

	if err := tmp.Chmod(info.Mode().Perm()); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rename temp to output: %w", err)
	}

	success = true
	return nil
}

// existingTagEnd returns the offset where audio data begins: after the
// leading ID3v2 tag if there is one, otherwise 0.
func existingTagEnd(r io.ReaderAt, size int64) (int64, error) {
	if size < HeaderSize {
		return 0, nil
	}
	raw := make([]byte, HeaderSize)
	if _, err := r.ReadAt(raw, 0); err != nil && err != io.EOF {
		return 0, err
	}
	if string(raw[0:3]) != marker {
		return 0, nil
	}

	h, err := ParseHeader(raw)
	if err != nil {
		return 0, err
	}
	return min(int64(h.CompleteTagSize()), size), nil
}
