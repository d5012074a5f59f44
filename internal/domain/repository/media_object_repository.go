package repository

import (
	"context"

	"webcarros/internal/domain/entity"
)

type MediaObjectRepository interface {
	Create(ctx context.Context, object *entity.MediaObject) error
	GetByURL(ctx context.Context, url string) (*entity.MediaObject, error)
	ListByOwner(ctx context.Context, uid string) ([]*entity.MediaObject, error)
	DeleteByURL(ctx context.Context, url string) error
}
