package storage

import (
	"context"
	"fmt"
)

// ObjectStore is the bucket facing side of the conversion pipeline. Put
// overwrites any object already stored under the key, which is what makes
// re-running a conversion safe: the same conversion always lands on the same
// keys.
type ObjectStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	PublicURL(key string) string
}

// ModelFormat identifies one of the three file formats produced by the CAD
// service.
type ModelFormat string

const (
	FormatStep ModelFormat = "step"
	FormatStl  ModelFormat = "stl"
	FormatObj  ModelFormat = "obj"
)

// Formats lists all model formats in upload order.
func Formats() []ModelFormat {
	return []ModelFormat{FormatStep, FormatStl, FormatObj}
}

// Key returns the deterministic bucket path for a conversion in this format:
// {format}/design_{conversionID}.{ext}.
func (f ModelFormat) Key(conversionID string) string {
	return fmt.Sprintf("%s/design_%s.%s", f, conversionID, f)
}

// ContentType returns the content type the object is stored with.
func (f ModelFormat) ContentType() string {
	return fmt.Sprintf("model/%s", f)
}
