package storage

import (
	"context"
	"io"
)

// Storage holds raw attendance exports between upload and parsing. Keys
// are opaque; the import job carries the key of the file it should parse.
type Storage interface {
	Download(ctx context.Context, key string) (io.ReadCloser, error)
	Upload(ctx context.Context, key string, data io.Reader) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}
