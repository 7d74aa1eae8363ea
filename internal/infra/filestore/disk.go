package filestore

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/harborlight-care/leadcore/internal/usecase"
)

// DiskStore resolves resource file references against one root directory.
// References are relative paths; anything that escapes the root is refused.
type DiskStore struct {
	root string
}

func NewDiskStore(root string) *DiskStore {
	return &DiskStore{root: root}
}

func (s *DiskStore) Resolve(_ context.Context, fileReference string) (*usecase.File, error) {
	cleaned := filepath.Clean("/" + fileReference)
	path := filepath.Join(s.root, cleaned)
	if !strings.HasPrefix(path, filepath.Clean(s.root)+string(os.PathSeparator)) {
		return nil, fmt.Errorf("file reference %q escapes the store root", fileReference)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %q: %w", fileReference, err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	if info.IsDir() {
		f.Close()
		return nil, fmt.Errorf("file reference %q is a directory", fileReference)
	}

	contentType := mime.TypeByExtension(filepath.Ext(path))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	return &usecase.File{
		Name:        filepath.Base(path),
		Size:        info.Size(),
		ContentType: contentType,
		Content:     f,
	}, nil
}
