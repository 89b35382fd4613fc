package texture

import (
	"os"
	"path/filepath"
	"strings"
)

// extension priority, lower wins: formats with alpha first
var extRank = map[string]int{
	".tga":  0,
	".png":  1,
	".bmp":  2,
	".jpg":  3,
	".jpeg": 3,
}

// Index maps lowercase file stems to texture paths.
type Index struct {
	entries map[string]string
}

// BuildIndex scans dir recursively for texture files. When several files
// share a stem, the one whose format carries alpha wins.
func BuildIndex(dir string) *Index {
	idx := &Index{entries: make(map[string]string)}
	if dir == "" {
		return idx
	}
	filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		rank, ok := extRank[ext]
		if !ok {
			return nil
		}
		stem := strings.ToLower(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))
		existing, exists := idx.entries[stem]
		if !exists || rank < extRank[strings.ToLower(filepath.Ext(existing))] {
			idx.entries[stem] = path
		}
		return nil
	})
	return idx
}

// ResolvePath returns the texture path for name, matched by stem.
func (idx *Index) ResolvePath(name string) (string, bool) {
	name = strings.ReplaceAll(name, "\\", "/")
	base := filepath.Base(name)
	stem := strings.ToLower(strings.TrimSuffix(base, filepath.Ext(base)))

	path, ok := idx.entries[stem]
	return path, ok
}

// Len returns the number of indexed textures.
func (idx *Index) Len() int {
	return len(idx.entries)
}
