package ports

import "context"

// MediaUploader relays raw image bytes to the external media host and returns
// a durable URL. Storage and CDN behaviour belong to the host, not to us.
type MediaUploader interface {
	Upload(ctx context.Context, data []byte, folder string) (string, error)
}
