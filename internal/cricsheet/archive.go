package cricsheet

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/klauspost/compress/zip"
)

// Entry is one match document inside a source.
type Entry struct {
	Name string
	open func() (io.ReadCloser, error)
}

// Open returns a reader over the entry's bytes.
func (e Entry) Open() (io.ReadCloser, error) {
	return e.open()
}

// Source is a set of match documents plus whatever must be released afterwards.
type Source struct {
	Entries []Entry
	closer  io.Closer
}

// Close releases the underlying archive, if any.
func (s *Source) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}

// Limit keeps at most n entries (n <= 0 keeps all).
func (s *Source) Limit(n int) {
	if n > 0 && len(s.Entries) > n {
		s.Entries = s.Entries[:n]
	}
}

// Open resolves path into a Source: a .zip archive, a directory of .json
// files, or a single .json file.
func Open(path string) (*Source, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat source: %w", err)
	}
	switch {
	case info.IsDir():
		return OpenDir(path)
	case strings.EqualFold(filepath.Ext(path), ".zip"):
		return OpenArchive(path)
	default:
		return OpenFiles(path), nil
	}
}

// OpenArchive lists the .json members of a zip archive, newest first.
func OpenArchive(path string) (*Source, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}
	src := &Source{closer: zr}
	for _, f := range zr.File {
		if f.FileInfo().IsDir() || !isJSON(f.Name) {
			continue
		}
		src.Entries = append(src.Entries, Entry{Name: f.Name, open: f.Open})
	}
	sortNewestFirst(src.Entries)
	return src, nil
}

// OpenDir lists the .json files directly inside dir, newest first.
func OpenDir(dir string) (*Source, error) {
	des, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dir: %w", err)
	}
	var paths []string
	for _, de := range des {
		if de.IsDir() || !isJSON(de.Name()) {
			continue
		}
		paths = append(paths, filepath.Join(dir, de.Name()))
	}
	src := OpenFiles(paths...)
	sortNewestFirst(src.Entries)
	return src, nil
}

// OpenFiles wraps explicit file paths, preserving their order.
func OpenFiles(paths ...string) *Source {
	src := &Source{}
	for _, p := range paths {
		p := p
		src.Entries = append(src.Entries, Entry{
			Name: filepath.Base(p),
			open: func() (io.ReadCloser, error) { return os.Open(p) },
		})
	}
	return src
}

func isJSON(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".json")
}

// sortNewestFirst orders entries by descending file name. Cricsheet names
// files by match id, which grows over time.
func sortNewestFirst(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := baseID(entries[i].Name), baseID(entries[j].Name)
		if len(a) != len(b) {
			return len(a) > len(b)
		}
		return a > b
	})
}

func baseID(name string) string {
	return strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
}
