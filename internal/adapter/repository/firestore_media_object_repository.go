package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"

	"webcarros/internal/domain/entity"
	"webcarros/internal/domain/repository"
	"webcarros/pkg/errors"
	"webcarros/pkg/logger"
)

const mediaObjectsCollection = "media_objects"

type firestoreMediaObjectRepository struct {
	client *firestore.Client
}

func NewFirestoreMediaObjectRepository(client *firestore.Client) repository.MediaObjectRepository {
	return &firestoreMediaObjectRepository{
		client: client,
	}
}

func (r *firestoreMediaObjectRepository) Create(ctx context.Context, object *entity.MediaObject) error {
	if object.ID == "" {
		object.ID = uuid.New().String()
	}
	if object.CreatedAt.IsZero() {
		object.CreatedAt = time.Now()
	}

	_, err := r.client.Collection(mediaObjectsCollection).Doc(object.ID).Set(ctx, object)
	if err != nil {
		return errors.Internal("Failed to create media object record", err)
	}
	return nil
}

func (r *firestoreMediaObjectRepository) GetByURL(ctx context.Context, url string) (*entity.MediaObject, error) {
	iter := r.client.Collection(mediaObjectsCollection).Where("url", "==", url).Limit(1).Documents(ctx)
	defer iter.Stop()

	doc, err := iter.Next()
	if err != nil {
		if err == iterator.Done {
			return nil, errors.NotFound("Media object", nil)
		}
		return nil, errors.Internal("Failed to query media objects", err)
	}

	var object entity.MediaObject
	if err := doc.DataTo(&object); err != nil {
		return nil, errors.Internal("Failed to parse media object", err)
	}

	return &object, nil
}

func (r *firestoreMediaObjectRepository) ListByOwner(ctx context.Context, uid string) ([]*entity.MediaObject, error) {
	query := r.client.Collection(mediaObjectsCollection).
		Where("uid", "==", uid).
		OrderBy("createdAt", firestore.Desc)

	iter := query.Documents(ctx)
	defer iter.Stop()

	objects := []*entity.MediaObject{}
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.Internal("Failed to iterate media objects", err)
		}

		var object entity.MediaObject
		if err := doc.DataTo(&object); err != nil {
			logger.Error("Failed to parse media object: %v", err)
			continue
		}
		objects = append(objects, &object)
	}

	return objects, nil
}

func (r *firestoreMediaObjectRepository) DeleteByURL(ctx context.Context, url string) error {
	object, err := r.GetByURL(ctx, url)
	if err != nil {
		return err
	}

	if _, err := r.client.Collection(mediaObjectsCollection).Doc(object.ID).Delete(ctx); err != nil {
		return errors.Internal("Failed to delete media object record", err)
	}
	return nil
}
