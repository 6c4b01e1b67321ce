package storage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	UploadExt     = ".webm"
	NormalizedExt = ".wav"

	stampLayout = "20060102150405"
)

// Recording is one uploaded clip on disk.
type Recording struct {
	ID        string
	Dir       string
	Path      string // uploaded container file
	WavPath   string // normalized PCM file, may not exist yet
	Size      int64
	CreatedAt time.Time
}

// Store writes uploads under a root directory, one sub-directory per request.
type Store struct {
	root string
	now  func() time.Time
}

func NewStore(root string) (*Store, error) {
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("failed to create recordings directory: %w", err)
	}
	return &Store{root: root, now: time.Now}, nil
}

func (s *Store) Root() string {
	return s.root
}

// SaveAudio saves an uploaded multipart file.
func (s *Store) SaveAudio(file *multipart.FileHeader) (*Recording, error) {
	src, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open upload: %w", err)
	}
	defer src.Close()
	return s.Save(src)
}

// Save writes r to <root>/<uuid>/<YYYYMMDDHHMMSS>.webm.
func (s *Store) Save(r io.Reader) (*Recording, error) {
	id := uuid.NewString()
	dir := filepath.Join(s.root, id)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create recording directory: %w", err)
	}

	createdAt := s.now()
	dst := filepath.Join(dir, createdAt.Format(stampLayout)+UploadExt)

	out, err := os.Create(dst)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}
	defer out.Close()

	size, err := out.ReadFrom(r)
	if err != nil {
		return nil, fmt.Errorf("failed to save file: %w", err)
	}

	return &Recording{
		ID:        id,
		Dir:       dir,
		Path:      dst,
		WavPath:   NormalizedPath(dst),
		Size:      size,
		CreatedAt: createdAt,
	}, nil
}

// NormalizedPath maps an upload path to its PCM sibling by swapping the
// extension.
func NormalizedPath(uploadPath string) string {
	return strings.TrimSuffix(uploadPath, filepath.Ext(uploadPath)) + NormalizedExt
}
