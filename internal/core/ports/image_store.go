package ports

import "context"

// ObjectStore is a blob store addressed by key that serves objects by URL.
type ObjectStore interface {
	Put(ctx context.Context, key string, body []byte, contentType string) (string, error)
	// Delete removes the object previously returned as url by Put.
	Delete(ctx context.Context, url string) error
}

// ImageStore uploads client-supplied images and releases them when replaced
// or when their owning record is removed.
type ImageStore interface {
	// Upload stores a base64 data URL under folder and returns its reference.
	Upload(ctx context.Context, dataURL, folder string) (string, error)
	Release(ctx context.Context, ref string) error
}
