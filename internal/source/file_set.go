package source

import (
	"crypto/sha256"
	"fmt"
	"os"
	"sort"

	"fortio.org/safecast"
)

// FileSet owns all source files of one compilation and resolves spans back
// to line/column positions.
type FileSet struct {
	files []File
	index map[string]FileID
}

func NewFileSet() *FileSet {
	return &FileSet{
		files: make([]File, 0),
		index: make(map[string]FileID),
	}
}

// Add stores content under path and returns a fresh FileID.
// IDs start at 1; NoFileID stays reserved.
func (fs *FileSet) Add(path string, content []byte) FileID {
	count, err := safecast.Conv[uint32](len(fs.files))
	if err != nil {
		panic(fmt.Sprintf("file set overflow: %v", err))
	}
	id := FileID(count + 1)
	fs.files = append(fs.files, File{
		ID:      id,
		Path:    path,
		Content: content,
		Hash:    sha256.Sum256(content),
		lineIdx: buildLineIndex(content),
	})
	fs.index[path] = id
	return id
}

// Load reads path from disk and adds it. A path already present returns
// its existing ID without re-reading.
func (fs *FileSet) Load(path string) (FileID, error) {
	if id, ok := fs.index[path]; ok {
		return id, nil
	}
	content, err := os.ReadFile(path) // #nosec G304 -- compiler input path
	if err != nil {
		return NoFileID, fmt.Errorf("read %s: %w", path, err)
	}
	return fs.Add(path, content), nil
}

// Get returns the file for id, or nil if the id is unknown.
func (fs *FileSet) Get(id FileID) *File {
	if id == NoFileID || int(id) > len(fs.files) {
		return nil
	}
	return &fs.files[id-1]
}

func (fs *FileSet) Len() int {
	return len(fs.files)
}

// Position resolves a byte offset inside the file to 1-based line/column.
func (f *File) Position(offset uint32) Position {
	if f == nil || len(f.lineIdx) == 0 {
		return Position{Line: 1, Col: 1}
	}
	line := sort.Search(len(f.lineIdx), func(i int) bool {
		return f.lineIdx[i] > offset
	})
	// line is now 1-based: lineIdx[line-1] <= offset
	start := f.lineIdx[line-1]
	return Position{
		Line: uint32(line), // #nosec G115 -- bounded by lineIdx length
		Col:  offset - start + 1,
	}
}

// PositionFor resolves the start of span to a position in its file.
func (fs *FileSet) PositionFor(span Span) (string, Position) {
	f := fs.Get(span.File)
	if f == nil {
		return "<unknown>", Position{Line: 1, Col: 1}
	}
	return f.Path, f.Position(span.Start)
}

// Line returns the raw bytes of the 1-based line number, without the
// trailing newline. Out-of-range lines yield nil.
func (f *File) Line(line uint32) []byte {
	if f == nil || line == 0 || int(line) > len(f.lineIdx) {
		return nil
	}
	start := f.lineIdx[line-1]
	end := uint32(len(f.Content)) // #nosec G115 -- file sizes fit uint32
	if int(line) < len(f.lineIdx) {
		end = f.lineIdx[line]
	}
	for end > start && (f.Content[end-1] == '\n' || f.Content[end-1] == '\r') {
		end--
	}
	return f.Content[start:end]
}

func buildLineIndex(content []byte) []uint32 {
	idx := make([]uint32, 1, 16)
	idx[0] = 0
	for i, b := range content {
		if b == '\n' {
			idx = append(idx, uint32(i+1)) // #nosec G115 -- file sizes fit uint32
		}
	}
	return idx
}
