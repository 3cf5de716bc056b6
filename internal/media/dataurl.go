package media

import (
	"context"
	"encoding/base64"
	"fmt"
)

// DefaultDataURLLimit bounds objects embedded as data URLs.
const DefaultDataURLLimit = 512 << 10

// DataURLUploader embeds the object in a data: URL. It is the last resort
// when no backend can store the bytes.
type DataURLUploader struct {
	// MaxBytes rejects larger objects. Zero means DefaultDataURLLimit.
	MaxBytes int
}

// Name implements Uploader.
func (u DataURLUploader) Name() string { return "data-url" }

// Upload implements Uploader.
func (u DataURLUploader) Upload(_ context.Context, obj Object) (string, error) {
	limit := u.MaxBytes
	if limit <= 0 {
		limit = DefaultDataURLLimit
	}
	if len(obj.Data) > limit {
		return "", fmt.Errorf("object of %d bytes exceeds data URL limit %d", len(obj.Data), limit)
	}
	return "data:" + obj.MIME + ";base64," + base64.StdEncoding.EncodeToString(obj.Data), nil
}
