package libs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/RayaSatriatama/dicoding-genai-backend/model"
)

// DocumentStore is the persistence contract for document metadata.
type DocumentStore interface {
	Insert(ctx context.Context, doc *model.Document) error
	ListByOwner(ctx context.Context, ownerID string) ([]model.Document, error)
	FindByPath(ctx context.Context, ownerID, path string) (*model.Document, error)
	DeleteByPath(ctx context.Context, ownerID, path string) (bool, error)
}

// allowedDocumentTypes is the upload allow-list, by file extension.
var allowedDocumentTypes = map[string]bool{
	"txt": true, "pdf": true, "docx": true, "rtf": true, "html": true,
	"xml": true, "json": true, "csv": true, "md": true, "epub": true,
	"odt": true, "pptx": true, "tsv": true, "yaml": true, "log": true,
}

// DocumentService stores uploaded files plus their metadata records. The
// two always move together: an upload creates both or neither, a delete
// removes both or neither.
type DocumentService struct {
	store     DocumentStore
	uploadDir string
}

func NewDocumentService(store DocumentStore, uploadDir string) *DocumentService {
	return &DocumentService{store: store, uploadDir: uploadDir}
}

// Save validates the extension, writes the bytes under a unique name, and
// inserts the metadata record. The extension check runs before any byte is
// stored; a failed record insert removes the file again.
func (s *DocumentService) Save(ctx context.Context, ownerID, filename string, src io.Reader) (*model.Document, error) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
	if !allowedDocumentTypes[ext] {
		return nil, fmt.Errorf("%w: %q", model.ErrUnsupportedType, ext)
	}

	if err := os.MkdirAll(s.uploadDir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}

	storedName := uuid.NewString() + "-" + filepath.Base(filename)
	fullPath := filepath.Join(s.uploadDir, storedName)

	dst, err := os.Create(fullPath)
	if err != nil {
		return nil, fmt.Errorf("create file: %w", err)
	}
	written, err := io.Copy(dst, src)
	if cerr := dst.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(fullPath)
		return nil, fmt.Errorf("write file: %w", err)
	}

	doc := &model.Document{
		ID:         uuid.NewString(),
		UserID:     ownerID,
		Title:      filepath.Base(filename),
		Path:       storedName,
		Size:       written,
		Type:       ext,
		UploadDate: time.Now(),
	}
	if err := s.store.Insert(ctx, doc); err != nil {
		_ = os.Remove(fullPath)
		return nil, err
	}
	return doc, nil
}

func (s *DocumentService) List(ctx context.Context, ownerID string) ([]model.Document, error) {
	return s.store.ListByOwner(ctx, ownerID)
}

// Delete removes the stored file and the record together. The file's
// existence is checked first so a missing file surfaces as not-found
// instead of a record deletion with nothing behind it.
func (s *DocumentService) Delete(ctx context.Context, ownerID, path string) error {
	if path != filepath.Base(path) {
		return model.ErrDocumentNotFound
	}

	doc, err := s.store.FindByPath(ctx, ownerID, path)
	if err != nil {
		return err
	}

	fullPath := filepath.Join(s.uploadDir, doc.Path)
	if _, err := os.Stat(fullPath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: file missing on server", model.ErrDocumentNotFound)
		}
		return fmt.Errorf("stat file: %w", err)
	}

	if err := os.Remove(fullPath); err != nil {
		return fmt.Errorf("remove file: %w", err)
	}

	existed, err := s.store.DeleteByPath(ctx, ownerID, path)
	if err != nil {
		return err
	}
	if !existed {
		return model.ErrDocumentNotFound
	}
	return nil
}
