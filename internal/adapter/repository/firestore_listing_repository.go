package repository

import (
	"context"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"webcarros/internal/domain/entity"
	"webcarros/internal/domain/repository"
	"webcarros/pkg/errors"
	"webcarros/pkg/logger"
)

const listingsCollection = "cars"

// listingDocument is the stored shape of a listing. The creation time is left
// zero on write so that Firestore fills in its own timestamp.
type listingDocument struct {
	Name        string                  `firestore:"name"`
	Model       string                  `firestore:"model"`
	Year        string                  `firestore:"year"`
	Km          string                  `firestore:"km"`
	Price       string                  `firestore:"price"`
	City        string                  `firestore:"city"`
	Whatsapp    string                  `firestore:"whatsapp"`
	Description string                  `firestore:"description"`
	Created     interface{}             `firestore:"created"`
	Owner       string                  `firestore:"owner"`
	UID         string                  `firestore:"uid"`
	Images      []entity.MediaReference `firestore:"images"`
}

type firestoreListingRepository struct {
	client *firestore.Client
}

func NewFirestoreListingRepository(client *firestore.Client) repository.ListingRepository {
	return &firestoreListingRepository{
		client: client,
	}
}

func (r *firestoreListingRepository) Create(ctx context.Context, listing *entity.Listing) (string, error) {
	doc := listingDocument{
		Name:        listing.Name,
		Model:       listing.Model,
		Year:        listing.Year,
		Km:          listing.Km,
		Price:       listing.Price,
		City:        listing.City,
		Whatsapp:    listing.Whatsapp,
		Description: listing.Description,
		Created:     firestore.ServerTimestamp,
		Owner:       listing.Owner,
		UID:         listing.UID,
		Images:      listing.Images,
	}

	ref, result, err := r.client.Collection(listingsCollection).Add(ctx, doc)
	if err != nil {
		return "", errors.Internal("Failed to create listing", err)
	}

	listing.ID = ref.ID
	// The commit time is the value the server stored for the timestamp.
	listing.Created = result.UpdateTime

	return ref.ID, nil
}

func (r *firestoreListingRepository) GetByID(ctx context.Context, id string) (*entity.Listing, error) {
	if id == "" {
		return nil, errors.NotFound("Listing", nil)
	}

	doc, err := r.client.Collection(listingsCollection).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Listing", err)
		}
		return nil, errors.Internal("Failed to get listing", err)
	}

	return decodeListing(doc)
}

func (r *firestoreListingRepository) ListAll(ctx context.Context) ([]*entity.Listing, error) {
	query := r.client.Collection(listingsCollection).OrderBy("created", firestore.Desc)
	return r.collect(query.Documents(ctx), "Failed to list listings")
}

func (r *firestoreListingRepository) SearchByName(ctx context.Context, query string) ([]*entity.Listing, error) {
	lo, hi := entity.PrefixBounds(query)

	q := r.client.Collection(listingsCollection).
		Where("name", ">=", lo).
		Where("name", "<", hi)

	return r.collect(q.Documents(ctx), "Failed to search listings")
}

func (r *firestoreListingRepository) ListByOwner(ctx context.Context, uid string) ([]*entity.Listing, error) {
	query := r.client.Collection(listingsCollection).
		Where("uid", "==", uid).
		OrderBy("created", firestore.Desc)

	return r.collect(query.Documents(ctx), "Failed to list owner listings")
}

func (r *firestoreListingRepository) Delete(ctx context.Context, id string) error {
	_, err := r.client.Collection(listingsCollection).Doc(id).Delete(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return errors.NotFound("Listing", err)
		}
		return errors.Internal("Failed to delete listing", err)
	}

	return nil
}

func (r *firestoreListingRepository) collect(iter *firestore.DocumentIterator, failure string) ([]*entity.Listing, error) {
	defer iter.Stop()

	listings := []*entity.Listing{}
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.Internal(failure, err)
		}

		listing, err := decodeListing(doc)
		if err != nil {
			logger.Error("Skipping listing %s: %v", doc.Ref.ID, err)
			continue
		}
		listings = append(listings, listing)
	}

	return listings, nil
}

func decodeListing(doc *firestore.DocumentSnapshot) (*entity.Listing, error) {
	var listing entity.Listing
	if err := doc.DataTo(&listing); err != nil {
		return nil, errors.Internal("Failed to parse listing data", err)
	}
	listing.ID = doc.Ref.ID

	return &listing, nil
}
