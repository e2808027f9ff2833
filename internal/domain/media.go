package domain

import (
	"context"
	"io"
)

// MediaUploader is the object-storage collaborator. Implementations stream
// the file to the storage service and return the public URL.
type MediaUploader interface {
	Upload(ctx context.Context, album, filename string, content io.Reader) (url string, err error)
}
