package page

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jgivc/philportal/internal/common"
	"github.com/jgivc/philportal/internal/entity"
)

const (
	serviceName = "page"
)

type LectureRepository interface {
	ToLecture(ctx context.Context, lang string, n int) (*entity.Lecture, error)
}

type pageService struct {
	repo LectureRepository
	log  *slog.Logger
}

func NewPageService(repo LectureRepository, log *slog.Logger) *pageService {
	return &pageService{
		repo: repo,
		log:  log.With(slog.String("service", serviceName)),
	}
}

// GetLecture returns a rendered lecture. Disabled lectures are reported as not found.
func (p *pageService) GetLecture(ctx context.Context, lang string, n int) (*entity.Lecture, error) {
	lecture, err := p.repo.ToLecture(ctx, lang, n)
	if err != nil {
		p.log.Error("Cannot get lecture", slog.String("lang", lang), slog.Int("number", n), slog.Any("error", err))

		return nil, fmt.Errorf("cannot get lecture %s/%d: %w", lang, n, err)
	}

	if !lecture.Enabled {
		p.log.Info("Lecture disabled", slog.String("lang", lang), slog.Int("number", n))

		return nil, fmt.Errorf("lecture %s/%d: %w: %w", lang, n, common.ErrLectureDisabled, common.ErrNotFound)
	}

	return lecture, nil
}
