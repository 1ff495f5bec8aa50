package storage

import (
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// allowedExtensions is the upload allowlist, matched on the file extension.
var allowedExtensions = map[string]bool{
	".jpeg": true,
	".jpg":  true,
	".png":  true,
	".pdf":  true,
	".doc":  true,
	".docx": true,
	".txt":  true,
}

// DiskStore writes uploads to a local directory served under /uploads.
type DiskStore struct {
	dir     string
	maxSize int64
}

// NewDiskStore creates the upload directory if needed and returns a store.
func NewDiskStore(dir string, maxSize int64) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory %s: %w", dir, err)
	}
	return &DiskStore{dir: dir, maxSize: maxSize}, nil
}

// Dir returns the directory backing the store.
func (d *DiskStore) Dir() string { return d.dir }

// Save persists one multipart upload and returns its public URL path. The
// stored name is <field>-<unix-nanos><ext> so concurrent uploads of the same
// original filename never collide.
func (d *DiskStore) Save(field string, header *multipart.FileHeader) (string, error) {
	if header == nil {
		return "", status.Error(codes.InvalidArgument, "no file provided")
	}
	if d.maxSize > 0 && header.Size > d.maxSize {
		return "", status.Error(codes.InvalidArgument, "file exceeds the maximum upload size")
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedExtensions[ext] {
		return "", status.Error(codes.InvalidArgument, "unsupported file type")
	}

	name := fmt.Sprintf("%s-%d%s", field, time.Now().UnixNano(), ext)
	path := filepath.Join(d.dir, name)

	src, err := header.Open()
	if err != nil {
		log.Printf("Error opening upload %s: %v", header.Filename, err)
		return "", status.Error(codes.Internal, "failed to store file")
	}
	defer src.Close()

	dst, err := os.Create(path)
	if err != nil {
		log.Printf("Error creating upload file %s: %v", path, err)
		return "", status.Error(codes.Internal, "failed to store file")
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(path)
		log.Printf("Error writing upload file %s: %v", path, err)
		return "", status.Error(codes.Internal, "failed to store file")
	}

	return "/uploads/" + name, nil
}

// Resolve maps a public /uploads URL back to the file on disk. Paths that
// escape the upload directory are rejected.
func (d *DiskStore) Resolve(fileURL string) (string, error) {
	name := strings.TrimPrefix(fileURL, "/uploads/")
	if name == "" || name != filepath.Base(name) {
		return "", status.Error(codes.InvalidArgument, "invalid file path")
	}
	path := filepath.Join(d.dir, name)
	if _, err := os.Stat(path); err != nil {
		return "", status.Error(codes.NotFound, "file not found")
	}
	return path, nil
}
