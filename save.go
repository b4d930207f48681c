package audiotag

import (
	"fmt"
	"io"
	"maps"
	"os"
	"slices"

	"github.com/simonhull/audiotag/internal/registry"
)

// SaveOption configures behavior when saving audio files.
//
// Example:
//
//	err := file.Save(
//	    audiotag.WithBackup(".bak"),
//	    audiotag.WithValidation(),
//	)
type SaveOption func(*saveOptions)

// saveOptions holds configuration for saving files.
type saveOptions struct {
	backupSuffix    string
	validate        bool
	preserveModTime bool
}

// WithBackup copies the original file to path+suffix before saving. An
// existing backup is overwritten.
func WithBackup(suffix string) SaveOption {
	return func(o *saveOptions) {
		o.backupSuffix = suffix
	}
}

// WithValidation re-reads the tags after writing and fails when the fixed
// fields differ from what was saved.
func WithValidation() SaveOption {
	return func(o *saveOptions) {
		o.validate = true
	}
}

// WithPreserveModTime keeps the original file modification time.
func WithPreserveModTime() SaveOption {
	return func(o *saveOptions) {
		o.preserveModTime = true
	}
}

// Save writes the tags back to the file.
//
// It returns ErrClosed after Close and *UnsupportedWriteError when the
// backend cannot write the file type. Saving unchanged tags does nothing.
// Each changed key is logged at debug level.
func (f *File) Save(opts ...SaveOption) error {
	if f.closed {
		return ErrClosed
	}
	if !f.caps.Has(registry.CapWrite) {
		return &UnsupportedWriteError{Backend: f.backend.Name(), Type: f.fileType}
	}

	options := &saveOptions{}
	for _, opt := range opts {
		opt(options)
	}

	if !f.Modified() {
		return nil
	}
	f.logChanges()

	info, err := os.Stat(f.path)
	if err != nil {
		return fmt.Errorf("stat file: %w", err)
	}

	if options.backupSuffix != "" {
		if err := copyFile(f.path, f.path+options.backupSuffix, info.Mode().Perm()); err != nil {
			return fmt.Errorf("create backup: %w", err)
		}
	}

	if err := f.backend.WriteTags(f.path, f.fileType, f.tags); err != nil {
		return fmt.Errorf("write tags: %w", err)
	}
	f.saved = cloneTags(f.tags)
	f.hasTag = true

	if options.preserveModTime {
		_ = os.Chtimes(f.path, info.ModTime(), info.ModTime()) //nolint:errcheck // Non-fatal: tags were written
	}

	if options.validate {
		if err := f.validateWritten(); err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}
	}
	return nil
}

// logChanges logs one record per key whose values differ from the last save.
func (f *File) logChanges() {
	keys := slices.Collect(maps.Keys(f.tags))
	for k := range f.saved {
		if _, ok := f.tags[k]; !ok {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)

	for _, k := range keys {
		before, after := f.saved[k], f.tags[k]
		if slices.Equal(before, after) {
			continue
		}
		f.logger.Debug("tag change", "path", f.path, "key", k, "from", before, "to", after)
	}
}

// validateWritten re-reads the tags and compares the fixed fields.
func (f *File) validateWritten() error {
	written, err := f.backend.ReadTags(f.path, f.fileType)
	if err != nil {
		return fmt.Errorf("re-read: %w", err)
	}
	reread := &File{tags: written}
	want := &File{tags: f.tags}
	got, expected := reread.fixedProperties(), want.fixedProperties()
	for i := range expected {
		if got[i] != expected[i] {
			return fmt.Errorf("%s mismatch: got %q, want %q", expected[i][0], got[i][1], expected[i][1])
		}
	}
	return nil
}

func copyFile(src, dst string, perm os.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
