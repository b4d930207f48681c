package audiotag

import (
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrors_Messages(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		contains []string
	}{
		{
			name:     "invalid file with cause",
			err:      &InvalidFileError{Path: "a.mp3", Reason: "read tags", Err: io.ErrUnexpectedEOF},
			contains: []string{"a.mp3", "invalid file", "read tags", "unexpected EOF"},
		},
		{
			name:     "unsupported format",
			err:      &UnsupportedFormatError{Path: "a.xyz", Reason: "unknown extension"},
			contains: []string{"a.xyz", "unsupported format", "unknown extension"},
		},
		{
			name:     "corrupted file",
			err:      &CorruptedFileError{Path: "b.flac", Offset: 42, Reason: "bad block"},
			contains: []string{"b.flac", "offset 42", "bad block"},
		},
		{
			name:     "unsupported write",
			err:      &UnsupportedWriteError{Type: FLAC, Backend: BackendNative, Reason: "read-only"},
			contains: []string{"FLAC", "native", "read-only"},
		},
		{
			name:     "unsupported operation",
			err:      &UnsupportedOperationError{Op: "set properties", Type: MPEG, Backend: BackendNative},
			contains: []string{"set properties", "MPEG", "native"},
		},
		{
			name:     "offset beyond size",
			err:      &OutOfBoundsError{Path: "c.ogg", Offset: 1000, Length: 4, Size: 500, What: "page header"},
			contains: []string{"c.ogg", "offset 1000 out of bounds", "file size: 500", "page header"},
		},
		{
			name:     "read past end",
			err:      &OutOfBoundsError{Path: "c.ogg", Offset: 100, Length: 50, Size: 120, What: "packet"},
			contains: []string{"read of 50 bytes", "offset 100", "exceed file size 120"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, s := range tt.contains {
				assert.Contains(t, msg, s)
			}
		})
	}
}

func TestInvalidFileError_Matching(t *testing.T) {
	cause := io.ErrUnexpectedEOF
	err := fmt.Errorf("open: %w", &InvalidFileError{Path: "a.mp3", Reason: "read tags", Err: cause})

	assert.ErrorIs(t, err, ErrInvalidFile)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, ErrNotFound)

	var ife *InvalidFileError
	if assert.ErrorAs(t, err, &ife) {
		assert.Equal(t, "a.mp3", ife.Path)
	}
}

func TestSentinels_Distinct(t *testing.T) {
	sentinels := []error{ErrNotFound, ErrClosed, ErrInvalidFile}
	for i, a := range sentinels {
		for j, b := range sentinels {
			assert.Equal(t, i == j, errors.Is(a, b), "%v vs %v", a, b)
		}
	}
}
