package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"regexp"
	"strings"
	"time"
)

// Upload categories accepted by the upload endpoint.
const (
	KindImages = "images"
	KindVideos = "videos"
	KindPDFs   = "pdfs"
)

// Service persists uploaded media and returns the path clients should use to
// fetch it.
type Service interface {
	Save(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error)
}

var unsafeNameChars = regexp.MustCompile(`[^a-zA-Z0-9.-]`)

// ValidKind reports whether kind is an accepted upload category.
func ValidKind(kind string) bool {
	switch kind {
	case KindImages, KindVideos, KindPDFs:
		return true
	}
	return false
}

// ObjectKey builds "{kind}/{unixMillis}-{name}" keeping only [A-Za-z0-9.-]
// from the original file name.
func ObjectKey(kind, filename string, now time.Time) string {
	name := unsafeNameChars.ReplaceAllString(path.Base(strings.ReplaceAll(filename, `\`, "/")), "")
	name = strings.TrimLeft(name, ".")
	if name == "" {
		name = "file"
	}
	return fmt.Sprintf("%s/%d-%s", kind, now.UnixMilli(), name)
}
