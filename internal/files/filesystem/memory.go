package filesystem

import (
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

// memoryFileInfo implements fs.FileInfo for in-memory files
type memoryFileInfo struct {
	name    string
	size    int64
	mode    fs.FileMode
	modTime time.Time
	isDir   bool
}

func (f *memoryFileInfo) Name() string       { return f.name }
func (f *memoryFileInfo) Size() int64        { return f.size }
func (f *memoryFileInfo) Mode() fs.FileMode  { return f.mode }
func (f *memoryFileInfo) ModTime() time.Time { return f.modTime }
func (f *memoryFileInfo) IsDir() bool        { return f.isDir }
func (f *memoryFileInfo) Sys() interface{}   { return nil }

type memoryEntry struct {
	content []byte
	info    *memoryFileInfo
}

// MemoryFileSystem implements FileSystem for in-memory testing.
// Paths are normalized to forward slashes; relative paths resolve against root.
type MemoryFileSystem struct {
	mu      sync.RWMutex
	entries map[string]*memoryEntry
	root    string

	// FailWrites makes every WriteFile call return this error when set.
	FailWrites error
}

// NewMemoryFileSystem creates a new in-memory filesystem rooted at root.
func NewMemoryFileSystem(root string) *MemoryFileSystem {
	root = path.Clean(filepath.ToSlash(root))

	mfs := &MemoryFileSystem{
		entries: make(map[string]*memoryEntry),
		root:    root,
	}
	mfs.entries[root] = newDirEntry(root, 0755)
	return mfs
}

func newDirEntry(p string, perm fs.FileMode) *memoryEntry {
	return &memoryEntry{
		info: &memoryFileInfo{
			name:    path.Base(p),
			mode:    perm | fs.ModeDir,
			modTime: time.Now(),
			isDir:   true,
		},
	}
}

func (m *MemoryFileSystem) resolve(p string) string {
	p = filepath.ToSlash(p)
	if !path.IsAbs(p) {
		p = path.Join(m.root, p)
	}
	return path.Clean(p)
}

func (m *MemoryFileSystem) MkdirAll(p string, perm fs.FileMode) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.mkdirAllLocked(m.resolve(p), perm)
}

func (m *MemoryFileSystem) mkdirAllLocked(p string, perm fs.FileMode) error {
	var missing []string
	for cur := p; ; cur = path.Dir(cur) {
		if e, ok := m.entries[cur]; ok {
			if !e.info.isDir {
				return fmt.Errorf("failed to create directory %s: %s is not a directory", p, cur)
			}
			break
		}
		missing = append(missing, cur)
		if path.Dir(cur) == cur {
			break
		}
	}

	for _, dir := range missing {
		m.entries[dir] = newDirEntry(dir, perm)
	}
	return nil
}

func (m *MemoryFileSystem) WriteFile(p string, data []byte, perm fs.FileMode) error {
	if m.FailWrites != nil {
		return m.FailWrites
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	abs := m.resolve(p)
	parent, ok := m.entries[path.Dir(abs)]
	if !ok || !parent.info.isDir {
		return fmt.Errorf("failed to write %s: %w", p, fs.ErrNotExist)
	}
	if e, ok := m.entries[abs]; ok && e.info.isDir {
		return fmt.Errorf("failed to write %s: is a directory", p)
	}

	content := make([]byte, len(data))
	copy(content, data)
	m.entries[abs] = &memoryEntry{
		content: content,
		info: &memoryFileInfo{
			name:    path.Base(abs),
			size:    int64(len(content)),
			mode:    perm,
			modTime: time.Now(),
		},
	}
	return nil
}

func (m *MemoryFileSystem) ReadFile(p string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.entries[m.resolve(p)]
	if !ok {
		return nil, fmt.Errorf("file not found: %s: %w", p, fs.ErrNotExist)
	}
	if e.info.isDir {
		return nil, fmt.Errorf("path is a directory: %s", p)
	}
	out := make([]byte, len(e.content))
	copy(out, e.content)
	return out, nil
}

func (m *MemoryFileSystem) Stat(p string) (FileInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.entries[m.resolve(p)]
	if !ok {
		return nil, fmt.Errorf("file not found: %s: %w", p, fs.ErrNotExist)
	}
	return e.info, nil
}

func (m *MemoryFileSystem) Abs(p string) (string, error) {
	return m.resolve(p), nil
}

// Files lists the absolute paths of all regular files, sorted.
func (m *MemoryFileSystem) Files() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []string
	for p, e := range m.entries {
		if !e.info.isDir {
			out = append(out, p)
		}
	}
	sort.Strings(out)
	return out
}

// String renders the tree for test failure messages.
func (m *MemoryFileSystem) String() string {
	return "MemoryFileSystem{" + strings.Join(m.Files(), ", ") + "}"
}
