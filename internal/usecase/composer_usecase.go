package usecase

import (
	"context"

	"webcarros/internal/domain/entity"
	"webcarros/internal/domain/repository"
	"webcarros/internal/domain/service"
	"webcarros/internal/infrastructure/metrics"
	"webcarros/internal/session"
	"webcarros/pkg/errors"
	"webcarros/pkg/logger"
)

// ErrNoImagesMessage is the notice shown when a listing is submitted with an
// empty draft.
const ErrNoImagesMessage = "send at least one image"

type ComposerUseCase struct {
	listingRepo repository.ListingRepository
	publisher   service.EventPublisher
	metrics     *metrics.MetricsManager
}

func NewComposerUseCase(listingRepo repository.ListingRepository, publisher service.EventPublisher, m *metrics.MetricsManager) *ComposerUseCase {
	return &ComposerUseCase{
		listingRepo: listingRepo,
		publisher:   publisher,
		metrics:     m,
	}
}

type ListingInput struct {
	Name        string `json:"name" validate:"required"`
	Model       string `json:"model" validate:"required"`
	Year        string `json:"year" validate:"required"`
	Km          string `json:"km" validate:"required"`
	Price       string `json:"price" validate:"required"`
	City        string `json:"city" validate:"required"`
	Whatsapp    string `json:"whatsapp" validate:"required,phone"`
	Description string `json:"description" validate:"required"`
}

// Submit turns the session's draft into a listing. The input is expected to
// be validated already. On a failed write the draft is left untouched so the
// user can try again.
func (uc *ComposerUseCase) Submit(ctx context.Context, identity *entity.Identity, draft *session.Draft, input ListingInput) (*entity.Listing, error) {
	if identity == nil {
		return nil, errors.Unauthorized("Sign in to create a listing", nil)
	}

	ws := draft.Snapshot()
	if ws.IsEmpty() {
		return nil, errors.BadRequest(ErrNoImagesMessage, nil)
	}

	listing := &entity.Listing{
		Name:        entity.NormalizeName(input.Name),
		Model:       input.Model,
		Year:        input.Year,
		Km:          input.Km,
		Price:       input.Price,
		City:        input.City,
		Whatsapp:    input.Whatsapp,
		Description: input.Description,
		Owner:       identity.Name,
		UID:         identity.UID,
		Images:      ws.References(),
	}

	if _, err := uc.listingRepo.Create(ctx, listing); err != nil {
		logger.Error("Failed to create listing for user %s: %v", identity.UID, err)
		return nil, errors.Internal("Failed to create listing", err)
	}

	// Only the committed items leave the draft; anything uploaded meanwhile stays.
	draft.Update(func(current entity.WorkingSet) entity.WorkingSet {
		for _, item := range ws.Items() {
			current = current.RemoveByURL(item.URL)
		}
		return current
	})

	uc.metrics.ListingCreated()
	logger.Info("Listing %s created by %s with %d images", listing.ID, identity.UID, len(listing.Images))

	event := service.ListingEvent{
		ListingID: listing.ID,
		UID:       listing.UID,
		Name:      listing.Name,
		Images:    len(listing.Images),
	}
	if err := uc.publisher.Publish(ctx, service.SubjectListingCreated, event); err != nil {
		logger.Warn("Failed to publish %s for %s: %v", service.SubjectListingCreated, listing.ID, err)
	}

	return listing, nil
}
