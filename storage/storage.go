// Package storage persists post images. The core only ever stores a path
// reference, the bytes live on disk or in an S3 bucket.
package storage

import (
	"io"
	"net/http"

	"blog/config"
)

type Storage interface {
	Save(path string, reader io.Reader) (int64, error)
	Load(path string, writer io.Writer) (int64, error)
	Serve(path string, request *http.Request, writer http.ResponseWriter)
	Delete(path string) error
}

// FromConfig picks the S3 backend when a bucket is configured and local disk
// otherwise.
func FromConfig(cfg config.MediaConfig) (Storage, error) {
	if cfg.S3Bucket != "" {
		return NewS3Storage(cfg)
	}
	return NewDiskStorage(cfg.Path), nil
}
