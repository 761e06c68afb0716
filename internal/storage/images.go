package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var log = logrus.New()

func init() {
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetLevel(logrus.InfoLevel)
}

// SetLogLevel adjusts the package logger, used by the CLI after config is loaded
func SetLogLevel(level logrus.Level) {
	log.SetLevel(level)
}

// Folder is a sub directory of the upload root
type Folder string

const (
	FolderFoods  Folder = "foods"
	FolderCombos Folder = "combos"
)

// MaxImageSize caps a single upload at 5 MiB
const MaxImageSize = 5 << 20

var (
	ErrUnsupportedImage = errors.New("unsupported image type")
	ErrImageTooLarge    = errors.New("image too large")
)

var allowedExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".webp": true,
}

// ImageStore persists uploaded menu images and returns the public URL
type ImageStore interface {
	Save(ctx context.Context, folder Folder, originalName string, src io.Reader) (string, error)
	Remove(ctx context.Context, url string) error
}

// LocalImageStore writes images below Root. Files are served by the router
// under URLPrefix ("/images") and addressed with BaseURL in front.
type LocalImageStore struct {
	Root      string
	BaseURL   string
	URLPrefix string
}

func NewLocalImageStore(root, baseURL string) *LocalImageStore {
	return &LocalImageStore{
		Root:      root,
		BaseURL:   strings.TrimSuffix(baseURL, "/"),
		URLPrefix: "/images",
	}
}

// Save stores src under a fresh uuid name keeping the original extension
func (s *LocalImageStore) Save(ctx context.Context, folder Folder, originalName string, src io.Reader) (string, error) {
	if folder != FolderFoods && folder != FolderCombos {
		return "", errors.Errorf("unknown image folder %q", folder)
	}
	ext := strings.ToLower(filepath.Ext(originalName))
	if !allowedExtensions[ext] {
		return "", errors.Wrapf(ErrUnsupportedImage, "extension %q", ext)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	dir := filepath.Join(s.Root, string(folder))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.Wrapf(err, "create image directory %s", dir)
	}

	fileName := uuid.New().String() + ext
	path := filepath.Join(dir, fileName)
	dst, err := os.Create(path)
	if err != nil {
		return "", errors.Wrapf(err, "create image file %s", path)
	}

	written, err := io.Copy(dst, io.LimitReader(src, MaxImageSize+1))
	closeErr := dst.Close()
	if err == nil && written > MaxImageSize {
		err = ErrImageTooLarge
	}
	if err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(path)
		return "", errors.Wrapf(err, "write image %s", fileName)
	}

	url := s.BaseURL + s.URLPrefix + "/" + string(folder) + "/" + fileName
	log.WithFields(logrus.Fields{"folder": folder, "file": fileName, "bytes": written}).Info("Image stored")
	return url, nil
}

// Remove deletes the file behind a URL returned by Save. URLs from elsewhere are ignored.
func (s *LocalImageStore) Remove(ctx context.Context, url string) error {
	prefix := s.BaseURL + s.URLPrefix + "/"
	if !strings.HasPrefix(url, prefix) {
		return nil
	}
	rel := filepath.Clean(filepath.FromSlash(strings.TrimPrefix(url, prefix)))
	if rel == "." || strings.HasPrefix(rel, "..") || filepath.IsAbs(rel) {
		return nil
	}

	err := os.Remove(filepath.Join(s.Root, rel))
	if err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, "remove image %s", rel)
	}
	return nil
}
