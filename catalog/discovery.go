package catalog

import (
	"fmt"
	"sort"
)

// Index holds the merged scenario definitions from every catalog directory.
type Index struct {
	files []DefinitionFile
	byID  map[string]DefinitionFile
}

// Discover scans the given directories for YAML scenario definitions and
// merges them into an index. Duplicate IDs across directories are an error.
func Discover(dirs []string) (*Index, error) {
	idx := &Index{byID: make(map[string]DefinitionFile)}
	seen := make(map[string]string)
	for _, dir := range dirs {
		defs, err := LoadDefinitionDir(dir)
		if err != nil {
			return nil, err
		}
		for _, file := range defs {
			id := file.Definition.ID
			if existing, ok := seen[id]; ok {
				return nil, fmt.Errorf("catalog: duplicate definition id %s (%s and %s)", id, existing, file.Path)
			}
			seen[id] = file.Path
			idx.files = append(idx.files, file)
			idx.byID[id] = file
		}
	}
	sort.Slice(idx.files, func(i, j int) bool {
		return idx.files[i].Definition.ID < idx.files[j].Definition.ID
	})
	return idx, nil
}

// Find returns the definition registered under the given ID.
func (idx *Index) Find(id string) (DefinitionFile, bool) {
	file, ok := idx.byID[id]
	return file, ok
}

// All returns every definition sorted by ID.
func (idx *Index) All() []DefinitionFile {
	out := make([]DefinitionFile, len(idx.files))
	copy(out, idx.files)
	return out
}

// IDs returns the sorted definition IDs.
func (idx *Index) IDs() []string {
	out := make([]string, 0, len(idx.files))
	for _, file := range idx.files {
		out = append(out, file.Definition.ID)
	}
	return out
}
