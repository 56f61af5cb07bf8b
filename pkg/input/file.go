package input

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/golang/snappy"
	"golang.org/x/exp/mmap"
)

// SnappySuffix marks inputs stored in the snappy framing format.
const SnappySuffix = ".sz"

// FileSource reads rows from a file on disk. Plain files are memory-mapped;
// files ending in SnappySuffix are decompressed while streaming.
type FileSource struct {
	Path    string
	Options Options
}

// NewFileSource creates a FileSource with the given options.
func NewFileSource(path string, opts Options) *FileSource {
	return &FileSource{Path: path, Options: opts}
}

// Check opens and closes the file so callers can fail fast before any work.
func (s *FileSource) Check() error {
	f, err := os.Open(s.Path)
	if err != nil {
		return openError(s.Path, err)
	}
	return f.Close()
}

// Scan implements Source.
func (s *FileSource) Scan(ctx context.Context, fn RowFunc) error {
	if strings.HasSuffix(s.Path, SnappySuffix) {
		return s.scanSnappy(ctx, fn)
	}
	return s.scanMapped(ctx, fn)
}

func (s *FileSource) scanMapped(ctx context.Context, fn RowFunc) error {
	// An empty input has no rows and nothing to map.
	if info, err := os.Stat(s.Path); err != nil {
		return openError(s.Path, err)
	} else if info.Size() == 0 {
		return nil
	}

	reader, err := mmap.Open(s.Path)
	if err != nil {
		return openError(s.Path, err)
	}
	defer func() { _ = reader.Close() }()

	section := io.NewSectionReader(reader, 0, int64(reader.Len()))
	return scanLines(ctx, section, s.Path, s.Options, fn)
}

func (s *FileSource) scanSnappy(ctx context.Context, fn RowFunc) error {
	r, err := Open(s.Path)
	if err != nil {
		return err
	}
	defer func() { _ = r.Close() }()

	return scanLines(ctx, r, s.Path, s.Options, fn)
}

type snappyFile struct {
	*snappy.Reader
	f *os.File
}

func (s snappyFile) Close() error { return s.f.Close() }

// Open returns a reader over the decoded content of path, decompressing
// files that end in SnappySuffix. Open failures wrap ErrOpen.
func Open(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, openError(path, err)
	}
	if !strings.HasSuffix(path, SnappySuffix) {
		return f, nil
	}
	return snappyFile{Reader: snappy.NewReader(f), f: f}, nil
}
