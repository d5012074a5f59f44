package repository

import (
	"context"

	"webcarros/internal/domain/entity"
)

type ListingRepository interface {
	// Create stores a new listing and returns the id assigned by the store.
	// The creation timestamp is set by the store, not by the caller.
	Create(ctx context.Context, listing *entity.Listing) (string, error)
	GetByID(ctx context.Context, id string) (*entity.Listing, error)
	// ListAll returns every listing, newest first.
	ListAll(ctx context.Context) ([]*entity.Listing, error)
	// SearchByName returns listings whose name falls in entity.PrefixBounds(query).
	SearchByName(ctx context.Context, query string) ([]*entity.Listing, error)
	ListByOwner(ctx context.Context, uid string) ([]*entity.Listing, error)
	Delete(ctx context.Context, id string) error
}
