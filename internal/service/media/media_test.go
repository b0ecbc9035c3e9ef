package media

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/jgivc/philportal/internal/common"
	"github.com/jgivc/philportal/internal/entity"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockLibraryStorage struct {
	mock.Mock
}

func (m *MockLibraryStorage) List(kind entity.Kind) []*entity.MediaRecord {
	args := m.Called(kind)

	var records []*entity.MediaRecord
	if args[0] != nil {
		if rr, ok := args.Get(0).([]*entity.MediaRecord); ok {
			records = rr
		}
	}

	return records
}

func newTestService(store LibraryStorage) *mediaService {
	return NewMediaService(store, slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})))
}

func TestResolve(t *testing.T) {
	records := []*entity.MediaRecord{
		{Filename: "Intro.mp4", Slug: "intro"},
		{Filename: "Лекция 1.mp4", Slug: "lekciya-1"},
		{Filename: "lekciya_1.webm", Slug: "lekciya-1"},
	}

	store := new(MockLibraryStorage)
	store.On("List", entity.KindVideos).Return(records)

	s := newTestService(store)
	ctx := context.Background()

	t.Run("round trip", func(t *testing.T) {
		for _, record := range records[:2] {
			found, err := s.Resolve(ctx, entity.KindVideos, record.Slug)
			require.NoError(t, err)
			require.Equal(t, record.Filename, found.Filename)
		}
	})

	t.Run("collision returns first match", func(t *testing.T) {
		found, err := s.Resolve(ctx, entity.KindVideos, "lekciya-1")
		require.NoError(t, err)
		require.Equal(t, "Лекция 1.mp4", found.Filename)
	})

	t.Run("not found", func(t *testing.T) {
		found, err := s.Resolve(ctx, entity.KindVideos, "nonexistent-slug")
		require.ErrorIs(t, err, common.ErrNotFound)
		require.Nil(t, found)
	})

	// Index is rebuilt on every call.
	store.AssertNumberOfCalls(t, "List", 4)
}

func TestListUnknownKind(t *testing.T) {
	store := new(MockLibraryStorage)
	s := newTestService(store)

	_, err := s.List(context.Background(), entity.Kind("music"))
	require.ErrorIs(t, err, common.ErrInvalidInput)

	_, err = s.Resolve(context.Background(), entity.Kind("music"), "x")
	require.ErrorIs(t, err, common.ErrInvalidInput)

	store.AssertNotCalled(t, "List", mock.Anything)
}

func TestListEmpty(t *testing.T) {
	store := new(MockLibraryStorage)
	store.On("List", entity.KindPresentations).Return([]*entity.MediaRecord{})

	records, err := newTestService(store).List(context.Background(), entity.KindPresentations)
	require.NoError(t, err)
	require.Empty(t, records)
}
