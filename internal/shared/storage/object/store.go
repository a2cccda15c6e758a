package object

import (
	"context"
	"errors"
	"io"
	"net/http"
)

// ErrNotFound is returned when a storage key has no object behind it.
var ErrNotFound = errors.New("object not found")

// Object describes a stored blob.
type Object struct {
	Key         string
	Size        int64
	ContentType string
}

// Store saves, opens and removes binary objects such as resume photos.
type Store interface {
	Put(ctx context.Context, owner, fileName string, r io.Reader) (Object, error)
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}

// Sniff reads up to 512 bytes from r and returns them with the detected content type.
// The returned reader yields the full original stream.
func Sniff(r io.Reader) (io.Reader, []byte, string, error) {
	var head [512]byte
	n, err := io.ReadFull(r, head[:])
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return nil, nil, "", err
	}
	return r, head[:n], http.DetectContentType(head[:n]), nil
}
