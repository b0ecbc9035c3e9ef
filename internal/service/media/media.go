package media

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jgivc/philportal/internal/common"
	"github.com/jgivc/philportal/internal/entity"
)

const (
	serviceName = "media"
)

type LibraryStorage interface {
	List(kind entity.Kind) []*entity.MediaRecord
}

type mediaService struct {
	store LibraryStorage
	log   *slog.Logger
}

func NewMediaService(store LibraryStorage, log *slog.Logger) *mediaService {
	return &mediaService{
		store: store,
		log:   log.With(slog.String("service", serviceName)),
	}
}

func (m *mediaService) List(ctx context.Context, kind entity.Kind) ([]*entity.MediaRecord, error) {
	if _, err := entity.ParseKind(kind.String()); err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrInvalidInput, err)
	}

	return m.store.List(kind), nil
}

// Resolve rebuilds the index and returns the first record with the given slug.
// If two files share a slug, the one sorted first always wins.
func (m *mediaService) Resolve(ctx context.Context, kind entity.Kind, slug string) (*entity.MediaRecord, error) {
	records, err := m.List(ctx, kind)
	if err != nil {
		return nil, err
	}

	for _, record := range records {
		if record.Slug == slug {
			return record, nil
		}
	}

	m.log.Debug("Slug not found", slog.String("kind", kind.String()), slog.String("slug", slug), slog.Int("count", len(records)))

	return nil, fmt.Errorf("cannot resolve %s/%s: %w", kind, slug, common.ErrNotFound)
}
