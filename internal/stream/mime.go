package stream

import (
	"path/filepath"
	"strings"

	"github.com/jgivc/philportal/internal/entity"
)

const (
	mimeTypeVideoDefault        = "video/mp4"
	mimeTypePresentationDefault = "application/octet-stream"
	MimeTypePDF                 = "application/pdf"
)

var (
	videoTypes = map[string]string{
		".webm": "video/webm",
		".ogg":  "video/ogg",
	}

	presentationTypes = map[string]string{
		".pdf":  MimeTypePDF,
		".ppt":  "application/vnd.ms-powerpoint",
		".pptx": "application/vnd.openxmlformats-officedocument.presentationml.presentation",
		".odp":  "application/vnd.oasis.opendocument.presentation",
	}
)

// ContentType returns the MIME type of a media file by its extension.
func ContentType(kind entity.Kind, filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))

	switch kind {
	case entity.KindPresentations:
		if t, ok := presentationTypes[ext]; ok {
			return t
		}

		return mimeTypePresentationDefault
	default:
		if t, ok := videoTypes[ext]; ok {
			return t
		}

		return mimeTypeVideoDefault
	}
}
