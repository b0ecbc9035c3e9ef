package library

import (
	"log/slog"
	"path/filepath"
	"slices"
	"strings"

	"github.com/jgivc/philportal/internal/entity"
	"github.com/jgivc/philportal/internal/util"
	"github.com/spf13/afero"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

const (
	maxFiles = 1000
)

var (
	extensions = map[entity.Kind][]string{
		entity.KindVideos:        {".mp4", ".webm", ".ogg"},
		entity.KindPresentations: {".pdf", ".ppt", ".pptx", ".odp"},
	}

	hrefPatterns = map[entity.Kind]string{
		entity.KindVideos:        "/media/videos/stream/",
		entity.KindPresentations: "/media/presentations/download/",
	}
)

type libraryStorage struct {
	fs    afero.Fs
	roots map[entity.Kind]string
	log   *slog.Logger
}

func NewLibraryStorage(roots map[entity.Kind]string, log *slog.Logger) *libraryStorage {
	return NewLibraryStorageWithFS(afero.NewOsFs(), roots, log)
}

func NewLibraryStorageWithFS(fs afero.Fs, roots map[entity.Kind]string, log *slog.Logger) *libraryStorage {
	return &libraryStorage{
		fs:    fs,
		roots: roots,
		log:   log.With(slog.String("item", "LibraryStorage")),
	}
}

// List reads the media directory of the given kind. The result is never
// cached: every call reflects the current directory content. A missing or
// unreadable directory yields an empty list.
func (l *libraryStorage) List(kind entity.Kind) []*entity.MediaRecord {
	root, ok := l.roots[kind]
	if !ok {
		l.log.Warn("Unknown media kind", slog.String("kind", kind.String()))

		return []*entity.MediaRecord{}
	}

	entries, err := afero.ReadDir(l.fs, root)
	if err != nil {
		l.log.Warn("Cannot read media dir", slog.String("kind", kind.String()), slog.String("path", root), slog.Any("error", err))

		return []*entity.MediaRecord{}
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !acceptExt(kind, entry.Name()) {
			continue
		}

		names = append(names, entry.Name())

		if len(names) >= maxFiles {
			l.log.Warn("Too many files, list truncated", slog.String("path", root), slog.Int("max", maxFiles))

			break
		}
	}

	sortNames(names)

	records := make([]*entity.MediaRecord, 0, len(names))
	for _, name := range names {
		records = append(records, newRecord(kind, root, name))
	}

	return records
}

func newRecord(kind entity.Kind, root, name string) *entity.MediaRecord {
	slug := util.Slugify(strings.TrimSuffix(name, filepath.Ext(name)))

	return &entity.MediaRecord{
		Filename: name,
		Title:    util.Title(name),
		Slug:     slug,
		Href:     hrefPatterns[kind] + slug,
		Path:     filepath.Join(root, name),
		Kind:     kind,
	}
}

func acceptExt(kind entity.Kind, name string) bool {
	return slices.Contains(extensions[kind], strings.ToLower(filepath.Ext(name)))
}

// sortNames orders names case-insensitively with numbers compared by value,
// so "2" goes before "10".
func sortNames(names []string) {
	c := collate.New(language.Russian, collate.IgnoreCase, collate.Numeric)

	slices.SortStableFunc(names, func(a, b string) int {
		if r := c.CompareString(a, b); r != 0 {
			return r
		}

		return strings.Compare(a, b)
	})
}
