package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/akolanti/ContentAPI/internal/domain/contentModel"
	"github.com/akolanti/ContentAPI/pkg/logger_i"
)

// Layout names the directories that hold the artifacts of a content id.
type Layout struct {
	DataDir   string
	UploadDir string
	ImageDir  string
}

// ContentStore owns every artifact of a content id: the record, the
// uploaded source file and the extracted image directory.
type ContentStore struct {
	backend contentModel.RecordBackend
	layout  Layout
	locks   *keyedMutex
	logger  *logger_i.Logger
}

func NewContentStore(backend contentModel.RecordBackend, layout Layout, logger *logger_i.Logger) (*ContentStore, error) {
	for _, dir := range []string{layout.UploadDir, layout.ImageDir} {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("create %s: %w", dir, err)
		}
	}
	return &ContentStore{
		backend: backend,
		layout:  layout,
		locks:   newKeyedMutex(),
		logger:  logger,
	}, nil
}

// validID rejects ids that could escape the store directories or act as a
// glob pattern.
func validID(id string) bool {
	if id == "" || id == "." || strings.Contains(id, "..") {
		return false
	}
	return !strings.ContainsAny(id, `/\*?[]`)
}

func (s *ContentStore) Put(ctx context.Context, rec contentModel.ContentRecord) error {
	if !validID(rec.ContentID) {
		return contentModel.InvalidInput("invalid content id")
	}
	unlock := s.locks.Lock(rec.ContentID)
	defer unlock()

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}
	if err := s.backend.Write(ctx, rec.ContentID, data); err != nil {
		return fmt.Errorf("write record %s: %w", rec.ContentID, err)
	}
	s.logger.WithTrace(ctx).Debug("stored record", "contentId", rec.ContentID, "location", s.backend.Location(rec.ContentID))
	return nil
}

func (s *ContentStore) Get(ctx context.Context, id string) (contentModel.ContentRecord, error) {
	var rec contentModel.ContentRecord
	if !validID(id) {
		return rec, contentModel.NotFound("Content not found")
	}
	unlock := s.locks.RLock(id)
	defer unlock()

	data, err := s.backend.Read(ctx, id)
	if errors.Is(err, ErrRecordNotFound) {
		return rec, contentModel.NotFound("Content not found")
	}
	if err != nil {
		return rec, fmt.Errorf("read record %s: %w", id, err)
	}
	if err := json.Unmarshal(data, &rec); err != nil {
		return rec, fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}
	return rec, nil
}

// GetPage returns the page with 1-based number n.
func (s *ContentStore) GetPage(ctx context.Context, id string, n int) (contentModel.PageRecord, error) {
	rec, err := s.Get(ctx, id)
	if err != nil {
		return contentModel.PageRecord{}, err
	}
	page, ok := rec.Page(n)
	if !ok {
		return contentModel.PageRecord{}, contentModel.NotFound(fmt.Sprintf("Page %d not found", n))
	}
	return page, nil
}

// Delete removes every artifact of id and describes what it removed. Each
// removal is attempted even if an earlier one failed; missing artifacts are
// skipped silently, so deleting twice is safe.
func (s *ContentStore) Delete(ctx context.Context, id string) ([]string, error) {
	removed := []string{}
	if !validID(id) {
		return removed, contentModel.InvalidInput("invalid content id")
	}
	unlock := s.locks.Lock(id)
	defer unlock()
	log := s.logger.WithTrace(ctx).With("contentId", id)

	var errs []error
	sources, err := filepath.Glob(filepath.Join(s.layout.UploadDir, id+"_*"))
	if err != nil {
		errs = append(errs, err)
	}
	sort.Strings(sources)
	for _, path := range sources {
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			log.Error("could not remove source file", "path", path, "error", err)
			errs = append(errs, fmt.Errorf("remove %s: %w", filepath.Base(path), err))
			continue
		}
		removed = append(removed, "PDF file: "+filepath.Base(path))
	}

	if ok, err := s.backend.Remove(ctx, id); err != nil {
		log.Error("could not remove record", "location", s.backend.Location(id), "error", err)
		errs = append(errs, fmt.Errorf("remove record: %w", err))
	} else if ok {
		removed = append(removed, "Data file: "+filepath.Base(s.backend.Location(id)))
	}

	dir := s.ImageDir(id)
	if _, err := os.Stat(dir); err == nil {
		if err := os.RemoveAll(dir); err != nil {
			log.Error("could not remove images directory", "path", dir, "error", err)
			errs = append(errs, fmt.Errorf("remove images: %w", err))
		} else {
			removed = append(removed, "Images directory: "+id)
		}
	}

	log.Info("deleted content", "removed", removed)
	return removed, errors.Join(errs...)
}

// SaveSource writes the uploaded bytes as <upload dir>/<id>_<filename>.
func (s *ContentStore) SaveSource(id, filename string, data []byte) (string, error) {
	if !validID(id) {
		return "", contentModel.InvalidInput("invalid content id")
	}
	path := filepath.Join(s.layout.UploadDir, id+"_"+cleanFilename(filename))
	if err := os.WriteFile(path, data, 0o640); err != nil {
		return "", fmt.Errorf("save source: %w", err)
	}
	return path, nil
}

// FindSource returns the stored pdf for id and its original file name.
func (s *ContentStore) FindSource(id string) (path, name string, err error) {
	notFound := contentModel.NotFound("PDF file not found")
	if !validID(id) {
		return "", "", notFound
	}
	matches, err := filepath.Glob(filepath.Join(s.layout.UploadDir, id+"_*.pdf"))
	if err != nil {
		return "", "", err
	}
	if len(matches) == 0 {
		return "", "", notFound
	}
	sort.Strings(matches)
	path = matches[0]
	_, name, _ = strings.Cut(filepath.Base(path), "_")
	return path, name, nil
}

func (s *ContentStore) ImageDir(id string) string {
	return filepath.Join(s.layout.ImageDir, id)
}

func (s *ContentStore) RemoveImages(ctx context.Context, id string) error {
	if !validID(id) {
		return nil
	}
	return os.RemoveAll(s.ImageDir(id))
}

// DataFile is where the record of id is kept, as reported to clients.
func (s *ContentStore) DataFile(id string) string {
	return filepath.ToSlash(s.backend.Location(id))
}

func (s *ContentStore) Layout() Layout {
	return s.layout
}

func cleanFilename(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = filepath.Base(strings.TrimSpace(name))
	if name == "." || name == "/" || name == "" {
		return "document.pdf"
	}
	return name
}
