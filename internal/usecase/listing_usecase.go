package usecase

import (
	"context"
	"strings"

	"webcarros/internal/domain/entity"
	"webcarros/internal/domain/repository"
	"webcarros/internal/domain/service"
	"webcarros/internal/infrastructure/metrics"
	"webcarros/pkg/errors"
	"webcarros/pkg/logger"
)

// SiteName appears in the WhatsApp message sent to sellers.
const SiteName = "WebMotors"

type ListingUseCase struct {
	listingRepo repository.ListingRepository
	mediaRepo   repository.MediaObjectRepository
	objectStore service.ObjectStore
	publisher   service.EventPublisher
	metrics     *metrics.MetricsManager
}

func NewListingUseCase(
	listingRepo repository.ListingRepository,
	mediaRepo repository.MediaObjectRepository,
	objectStore service.ObjectStore,
	publisher service.EventPublisher,
	m *metrics.MetricsManager,
) *ListingUseCase {
	return &ListingUseCase{
		listingRepo: listingRepo,
		mediaRepo:   mediaRepo,
		objectStore: objectStore,
		publisher:   publisher,
		metrics:     m,
	}
}

type ListingDetail struct {
	*entity.Listing
	Cover        string `json:"cover"`
	WhatsappLink string `json:"whatsapp_link"`
}

func (uc *ListingUseCase) ListAll(ctx context.Context) ([]*entity.Listing, error) {
	return uc.listingRepo.ListAll(ctx)
}

// Search runs a name-prefix search. A blank query falls back to the full feed.
func (uc *ListingUseCase) Search(ctx context.Context, query string) ([]*entity.Listing, error) {
	if strings.TrimSpace(query) == "" {
		return uc.listingRepo.ListAll(ctx)
	}
	uc.metrics.Searched()
	return uc.listingRepo.SearchByName(ctx, query)
}

func (uc *ListingUseCase) GetDetail(ctx context.Context, id string) (*ListingDetail, error) {
	if strings.TrimSpace(id) == "" {
		return nil, errors.NotFound("Listing", nil)
	}

	listing, err := uc.listingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return &ListingDetail{
		Listing:      listing,
		Cover:        listing.Cover(),
		WhatsappLink: listing.WhatsappLink(SiteName),
	}, nil
}

func (uc *ListingUseCase) ListByOwner(ctx context.Context, uid string) ([]*entity.Listing, error) {
	return uc.listingRepo.ListByOwner(ctx, uid)
}

// DeleteOwn removes a listing owned by uid, then its images. Image cleanup is
// best effort; a leftover object does not undo the delete.
func (uc *ListingUseCase) DeleteOwn(ctx context.Context, uid, id string) error {
	listing, err := uc.listingRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if listing.UID != uid {
		return errors.Forbidden("You don't have permission to delete this listing", nil)
	}

	if err := uc.listingRepo.Delete(ctx, id); err != nil {
		return err
	}
	uc.metrics.ListingDeleted()

	for _, image := range listing.Images {
		key := ObjectKey(image.UID, image.Name)
		if err := uc.objectStore.Delete(ctx, key); err != nil {
			logger.Warn("Failed to delete image %s of listing %s: %v", key, id, err)
			continue
		}
		if err := uc.mediaRepo.DeleteByURL(ctx, image.URL); err != nil {
			logger.Warn("Failed to remove media object record for %s: %v", image.URL, err)
		}
	}

	event := service.ListingEvent{
		ListingID: id,
		UID:       uid,
		Name:      listing.Name,
		Images:    len(listing.Images),
	}
	if err := uc.publisher.Publish(ctx, service.SubjectListingDeleted, event); err != nil {
		logger.Warn("Failed to publish %s for %s: %v", service.SubjectListingDeleted, id, err)
	}

	return nil
}
