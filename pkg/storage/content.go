package storage

import (
	"path"
	"strings"
)

// ContentKind tells the caller how Content.Data is encoded.
type ContentKind string

const (
	// KindText is plain UTF-8 text, returned as-is.
	KindText ContentKind = "text"

	// KindJSON is a JSON document from the service (info results,
	// save-as receipts), returned as-is.
	KindJSON ContentKind = "json"

	// KindBinary is raw bytes, returned base64-encoded.
	KindBinary ContentKind = "binary"
)

// Content is a fetched object body plus the encoding decision.
type Content struct {
	// Kind tells how Data is encoded.
	Kind ContentKind

	// Data is the body: plain text, JSON, or base64 depending on Kind.
	Data string

	// ContentType is the MIME type reported by the service, if any.
	ContentType string

	// Size is the raw body size in bytes before any encoding.
	Size int64
}

// textExtensions are key suffixes treated as UTF-8 text by GetObject.
var textExtensions = map[string]struct{}{
	".txt": {}, ".log": {}, ".json": {}, ".xml": {}, ".yml": {},
	".yaml": {}, ".md": {}, ".csv": {}, ".ini": {}, ".conf": {},
	".py": {}, ".js": {}, ".html": {}, ".css": {}, ".sh": {},
	".bash": {}, ".cfg": {}, ".properties": {},
}

// isTextKey reports whether an object key looks like a text file.
func isTextKey(key string) bool {
	ext := strings.ToLower(path.Ext(key))
	_, ok := textExtensions[ext]
	return ok
}
