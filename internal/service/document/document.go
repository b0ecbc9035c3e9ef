package document

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/jgivc/philportal/internal/common"
	"github.com/spf13/afero"
)

const (
	serviceName = "document"
)

// Document is a course PDF with a fixed location: the syllabus or a practice task.
type Document struct {
	Name string
	Path string
	Size int64
}

type documentService struct {
	fs              afero.Fs
	syllabusFile    string
	practiceDir     string
	practicePattern string
	log             *slog.Logger
}

func NewDocumentService(fs afero.Fs, syllabusFile, practiceDir, practicePattern string, log *slog.Logger) *documentService {
	return &documentService{
		fs:              fs,
		syllabusFile:    syllabusFile,
		practiceDir:     practiceDir,
		practicePattern: practicePattern,
		log:             log.With(slog.String("service", serviceName)),
	}
}

func (d *documentService) Syllabus(ctx context.Context) (*Document, error) {
	return d.stat(d.syllabusFile)
}

func (d *documentService) Practice(ctx context.Context, n int) (*Document, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: practice number %d", common.ErrInvalidInput, n)
	}

	return d.stat(filepath.Join(d.practiceDir, fmt.Sprintf(d.practicePattern, n)))
}

func (d *documentService) stat(path string) (*Document, error) {
	fi, err := d.fs.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("document %s: %w", path, common.ErrNotFound)
		}

		d.log.Error("Cannot stat document", slog.String("path", path), slog.Any("error", err))

		return nil, fmt.Errorf("cannot stat document %s: %w", path, err)
	}

	if fi.IsDir() {
		return nil, fmt.Errorf("document %s is a directory: %w", path, common.ErrNotFound)
	}

	return &Document{
		Name: fi.Name(),
		Path: path,
		Size: fi.Size(),
	}, nil
}
