package service

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"wego/internal/domain"
)

var imageExtensions = map[string]struct{}{
	".png": {}, ".jpg": {}, ".jpeg": {}, ".gif": {}, ".webp": {}, ".svg": {}, ".ico": {},
}

// FileService writes uploaded images under the files dir, partitioned by
// owner and date. Served back via the /files static route.
type FileService struct {
	dir string
}

func NewFileService(dir string) *FileService { return &FileService{dir: dir} }

func (s *FileService) SaveImage(ownerID int64, data []byte, ext string) (string, error) {
	if len(data) == 0 {
		return "", domain.E(domain.KindValidation, "empty file")
	}
	if _, ok := imageExtensions[ext]; !ok {
		return "", domain.E(domain.KindValidation, "unsupported image type")
	}

	now := time.Now().UTC()
	rel := filepath.Join("image", fmt.Sprint(ownerID), now.Format("20060102"))
	name := fmt.Sprintf("%s%06d%s", now.Format("150405"), now.Nanosecond()/1000, ext)

	dir := filepath.Join(s.dir, rel)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", domain.Wrap(domain.KindInternal, "save image failed", err)
	}
	if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
		return "", domain.Wrap(domain.KindInternal, "save image failed", err)
	}
	return filepath.ToSlash(filepath.Join(rel, name)), nil
}
