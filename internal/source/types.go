package source

// FileID identifies a file inside a FileSet. Zero means "no file".
type FileID uint32

// NoFileID marks the absence of a file.
const NoFileID FileID = 0

// Digest is a sha256 content hash.
type Digest [32]byte

// File is one loaded source file.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	Hash    Digest
	lineIdx []uint32 // byte offsets of line starts, always begins with 0
}

// Position is a human-facing 1-based line/column pair.
type Position struct {
	Line uint32
	Col  uint32
}
