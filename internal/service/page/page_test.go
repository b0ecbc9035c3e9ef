package page

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

type MockLectureRepository struct {
	mock.Mock
}

func (m *MockLectureRepository) ToLecture(ctx context.Context, lang string, n int) (*entity.Lecture, error) {
	args := m.Called(lang, n)

	var l *entity.Lecture
	if args[0] != nil {
		if ll, ok := args.Get(0).(*entity.Lecture); ok {
			l = ll
		}
	}

	return l, args.Error(1)
}

func TestGetLecture(t *testing.T) {
	repo := new(MockLectureRepository)
	repo.On("ToLecture", "ru", 1).Return(&entity.Lecture{Number: 1, Enabled: true, Title: "Введение"}, nil)
	repo.On("ToLecture", "ru", 2).Return(&entity.Lecture{Number: 2, Enabled: false}, nil)
	repo.On("ToLecture", "uz", 9).Return(nil, common.ErrNotFound)

	s := NewPageService(repo, slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})))
	ctx := context.Background()

	lecture, err := s.GetLecture(ctx, "ru", 1)
	require.NoError(t, err)
	require.Equal(t, "Введение", lecture.Title)

	_, err = s.GetLecture(ctx, "ru", 2)
	require.ErrorIs(t, err, common.ErrNotFound)
	require.ErrorIs(t, err, common.ErrLectureDisabled)

	_, err = s.GetLecture(ctx, "uz", 9)
	require.ErrorIs(t, err, common.ErrNotFound)

	repo.AssertExpectations(t)
}
