package document

import (
	"context"
	"io"
	"log/slog"
	"os"
	"testing"

	"github.com/jgivc/philportal/internal/common"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

func TestDocuments(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/public/practice", os.ModeDir))
	require.NoError(t, afero.WriteFile(fs, "/public/syllabus.pdf", []byte("%PDF-1.4"), 0644))
	require.NoError(t, afero.WriteFile(fs, "/public/practice/Амалий_2.pdf", []byte("%PDF-1.7 practice"), 0644))

	log := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
	s := NewDocumentService(fs, "/public/syllabus.pdf", "/public/practice", "Амалий_%d.pdf", log)
	ctx := context.Background()

	doc, err := s.Syllabus(ctx)
	require.NoError(t, err)
	require.Equal(t, "syllabus.pdf", doc.Name)
	require.EqualValues(t, 8, doc.Size)

	doc, err = s.Practice(ctx, 2)
	require.NoError(t, err)
	require.Equal(t, "Амалий_2.pdf", doc.Name)
	require.Equal(t, "/public/practice/Амалий_2.pdf", doc.Path)

	_, err = s.Practice(ctx, 3)
	require.ErrorIs(t, err, common.ErrNotFound)

	_, err = s.Practice(ctx, 0)
	require.ErrorIs(t, err, common.ErrInvalidInput)

	_, err = s.Practice(ctx, -1)
	require.ErrorIs(t, err, common.ErrInvalidInput)

	require.NoError(t, fs.Remove("/public/syllabus.pdf"))
	_, err = s.Syllabus(ctx)
	require.ErrorIs(t, err, common.ErrNotFound)
}
