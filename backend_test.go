package audiotag

import (
	"maps"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/simonhull/audiotag/internal/registry"
	"github.com/simonhull/audiotag/internal/types"
)

// memoryBackend keeps tags in memory, keyed by path. Paths without an entry
// have no tag.
type memoryBackend struct {
	name string
	caps registry.Capabilities
	only []types.FileType

	mu         sync.Mutex
	tags       map[string]map[string][]string
	writes     int
	propsReads atomic.Int32
}

func newMemoryBackend(name string, caps registry.Capabilities, only ...types.FileType) *memoryBackend {
	return &memoryBackend{name: name, caps: caps, only: only, tags: make(map[string]map[string][]string)}
}

func (m *memoryBackend) Name() string { return m.name }

func (m *memoryBackend) Supports(ft types.FileType) bool {
	if len(m.only) == 0 {
		return true
	}
	for _, t := range m.only {
		if t == ft {
			return true
		}
	}
	return false
}

func (m *memoryBackend) Capabilities(types.FileType) registry.Capabilities { return m.caps }

func (m *memoryBackend) ReadTags(path string, _ types.FileType) (map[string][]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tags[path]
	if !ok {
		return nil, types.ErrNoTag
	}
	return cloneTags(t), nil
}

func (m *memoryBackend) ReadProperties(_ string, ft types.FileType) (types.AudioProperties, error) {
	m.propsReads.Add(1)
	if ft != types.MPEG {
		return types.AudioProperties{}, types.ErrNotFound
	}
	return types.AudioProperties{Length: 3 * time.Second, Bitrate: 128, SampleRate: 44100, Channels: 2}, nil
}

func (m *memoryBackend) WriteTags(path string, _ types.FileType, tags map[string][]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writes++
	m.tags[path] = maps.Clone(tags)
	return nil
}

func (m *memoryBackend) setTags(path string, tags map[string][]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tags[path] = tags
}

func (m *memoryBackend) writeCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}

var (
	// full has every capability.
	full = newMemoryBackend("memory", registry.CapWrite|registry.CapPropertyMap)
	// readOnly has no capabilities and handles MPEG only.
	readOnly = newMemoryBackend("memory-readonly", 0, types.MPEG)
)

func init() {
	registry.RegisterBackend(full)
	registry.RegisterBackend(readOnly)
}

// mpegData returns n MPEG-1 layer III frames (128 kb/s, 44.1 kHz).
func mpegData(n int) []byte {
	var out []byte
	for range n {
		frame := make([]byte, 417)
		copy(frame, []byte{0xFF, 0xFB, 0x90, 0x64})
		out = append(out, frame...)
	}
	return out
}

func writeTemp(t testing.TB, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

// openMemory opens a fresh MPEG file on the full memory backend, seeded with
// tags when tags is not nil.
func openMemory(t *testing.T, tags map[string][]string) *File {
	t.Helper()
	path := writeTemp(t, "song.mp3", mpegData(4))
	if tags != nil {
		full.setTags(path, tags)
	}
	f, err := Open(path, Autodetect, WithBackend(full.Name()))
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })
	return f
}
