// Package storage persists uploaded post images on local disk and
// serves their relative paths back to the feed layer.
package storage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/goliatone/go-errors"
)

// Accepted image extensions. Anything else is rejected before a byte
// touches disk.
var allowedExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
}

// ErrUnsupportedImageType rejects uploads that are not png or jpeg.
var ErrUnsupportedImageType = errors.New("image must be a png or jpeg file", errors.CategoryValidation).
	WithTextCode("UNSUPPORTED_IMAGE_TYPE")

// ImageStore is the persistence surface the feed layer uses for post
// images.
type ImageStore interface {
	Save(file *multipart.FileHeader) (string, error)
	Remove(path string) error
}

// DiskStore stores images under a single root directory. Stored names
// carry a millisecond timestamp prefix so repeated uploads of the same
// file never collide.
type DiskStore struct {
	root string
}

// NewDiskStore ensures the root directory exists and returns a store
// rooted there.
func NewDiskStore(root string) (*DiskStore, error) {
	if root == "" {
		return nil, errors.New("storage root must not be empty", errors.CategoryBadInput)
	}

	if err := os.MkdirAll(root, 0o770); err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to create storage root")
	}

	return &DiskStore{root: root}, nil
}

// Root returns the directory uploads are written to.
func (s *DiskStore) Root() string {
	return s.root
}

// Save writes the uploaded file to disk and returns the stored name,
// relative to the root. The original name survives as a suffix with
// path separators stripped out.
func (s *DiskStore) Save(file *multipart.FileHeader) (string, error) {
	if file == nil {
		return "", errors.New("no image file provided", errors.CategoryBadInput)
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedExtensions[ext] {
		return "", ErrUnsupportedImageType
	}

	src, err := file.Open()
	if err != nil {
		return "", errors.Wrap(err, errors.CategoryInternal, "failed to open uploaded image")
	}
	defer src.Close()

	name, dst, err := s.createUnique(sanitizeName(file.Filename))
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", errors.Wrap(err, errors.CategoryInternal, "failed to write image file")
	}

	return name, nil
}

// createUnique opens a fresh file named after the upload with a
// millisecond timestamp prefix. O_EXCL guards against two uploads of
// the same name landing in the same millisecond; collisions get a
// sequence number appended to the prefix.
func (s *DiskStore) createUnique(base string) (string, *os.File, error) {
	for attempt := 0; attempt < maxNameAttempts; attempt++ {
		name := fmt.Sprintf("%d_%s", time.Now().UnixMilli(), base)
		if attempt > 0 {
			name = fmt.Sprintf("%d_%d_%s", time.Now().UnixMilli(), attempt, base)
		}

		dst, err := os.OpenFile(filepath.Join(s.root, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o660)
		if err == nil {
			return name, dst, nil
		}
		if !os.IsExist(err) {
			return "", nil, errors.Wrap(err, errors.CategoryInternal, "failed to create image file")
		}
	}

	return "", nil, errors.New("could not allocate a unique image name", errors.CategoryInternal)
}

const maxNameAttempts = 100

// Remove deletes a stored image by its relative name. Names that
// resolve outside the root are refused; an already-missing file is not
// an error.
func (s *DiskStore) Remove(path string) error {
	if path == "" {
		return nil
	}

	target, err := s.resolve(path)
	if err != nil {
		return err
	}

	if err := os.Remove(target); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.Wrap(err, errors.CategoryInternal, "failed to remove image file")
	}

	return nil
}

// resolve anchors a relative name under the root and refuses anything
// that escapes it.
func (s *DiskStore) resolve(path string) (string, error) {
	cleaned := filepath.Clean("/" + path)
	target := filepath.Join(s.root, cleaned)

	root, err := filepath.Abs(s.root)
	if err != nil {
		return "", errors.Wrap(err, errors.CategoryInternal, "failed to resolve storage root")
	}

	abs, err := filepath.Abs(target)
	if err != nil {
		return "", errors.Wrap(err, errors.CategoryInternal, "failed to resolve image path")
	}

	if abs != root && !strings.HasPrefix(abs, root+string(filepath.Separator)) {
		return "", errors.New("image path escapes the storage root", errors.CategoryBadInput)
	}

	if abs == root {
		return "", errors.New("image path must name a file", errors.CategoryBadInput)
	}

	return abs, nil
}

func sanitizeName(name string) string {
	base := filepath.Base(name)
	base = strings.ReplaceAll(base, " ", "_")
	base = strings.ReplaceAll(base, string(filepath.Separator), "_")
	return base
}

var _ ImageStore = (*DiskStore)(nil)
