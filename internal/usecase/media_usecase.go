package usecase

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"webcarros/internal/domain/entity"
	"webcarros/internal/domain/repository"
	"webcarros/internal/domain/service"
	"webcarros/internal/infrastructure/metrics"
	"webcarros/internal/session"
	"webcarros/pkg/errors"
	"webcarros/pkg/logger"
)

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

type MediaUseCase struct {
	objectStore service.ObjectStore
	mediaRepo   repository.MediaObjectRepository
	metrics     *metrics.MetricsManager
	maxBytes    int64
}

func NewMediaUseCase(objectStore service.ObjectStore, mediaRepo repository.MediaObjectRepository, m *metrics.MetricsManager, maxBytes int64) *MediaUseCase {
	return &MediaUseCase{
		objectStore: objectStore,
		mediaRepo:   mediaRepo,
		metrics:     m,
		maxBytes:    maxBytes,
	}
}

type UploadInput struct {
	Filename    string
	ContentType string
	Size        int64
	Content     io.Reader
}

type UploadFailure struct {
	Filename string `json:"filename"`
	Reason   string `json:"reason"`
}

type UploadResult struct {
	Uploaded []entity.PendingMedia `json:"uploaded"`
	Failed   []UploadFailure       `json:"failed"`
	Items    []entity.PendingMedia `json:"items"`
}

func ObjectKey(uid, name string) string {
	return fmt.Sprintf("images/%s/%s", uid, name)
}

func PreviewPath(name string) string {
	return "/v1/drafts/images/" + name + "/preview"
}

// Upload sends every file to the object store concurrently. Each success is
// appended to the draft as soon as its URL resolves; failures never enter it.
func (uc *MediaUseCase) Upload(ctx context.Context, uid string, draft *session.Draft, files []UploadInput) (*UploadResult, error) {
	if uid == "" {
		return nil, errors.Unauthorized("Sign in to upload images", nil)
	}
	if len(files) == 0 {
		return nil, errors.BadRequest("No files provided", nil)
	}

	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		result = &UploadResult{
			Uploaded: []entity.PendingMedia{},
			Failed:   []UploadFailure{},
		}
	)

	fail := func(filename, reason string) {
		uc.metrics.UploadFailed()
		mu.Lock()
		result.Failed = append(result.Failed, UploadFailure{Filename: filename, Reason: reason})
		mu.Unlock()
	}

	for _, file := range files {
		contentType := strings.ToLower(strings.TrimSpace(file.ContentType))
		if !allowedImageTypes[contentType] {
			fail(file.Filename, "only jpeg, png, gif and webp images are accepted")
			continue
		}
		if uc.maxBytes > 0 && file.Size > uc.maxBytes {
			fail(file.Filename, fmt.Sprintf("file exceeds %d bytes", uc.maxBytes))
			continue
		}

		wg.Add(1)
		go func(file UploadInput, contentType string) {
			defer wg.Done()

			item, err := uc.uploadOne(ctx, uid, file, contentType)
			if err != nil {
				logger.Error("Failed to upload %s for user %s: %v", file.Filename, uid, err)
				fail(file.Filename, "upload failed")
				return
			}

			draft.Update(func(ws entity.WorkingSet) entity.WorkingSet {
				return ws.Append(*item)
			})
			uc.metrics.UploadSucceeded()

			mu.Lock()
			result.Uploaded = append(result.Uploaded, *item)
			mu.Unlock()
		}(file, contentType)
	}

	wg.Wait()

	result.Items = draft.Snapshot().Items()
	return result, nil
}

func (uc *MediaUseCase) uploadOne(ctx context.Context, uid string, file UploadInput, contentType string) (*entity.PendingMedia, error) {
	name := uuid.New().String()
	key := ObjectKey(uid, name)

	handle, err := uc.objectStore.Upload(ctx, key, contentType, file.Content, file.Size)
	if err != nil {
		return nil, err
	}

	url, err := uc.objectStore.ResolveURL(ctx, handle)
	if err != nil {
		return nil, err
	}

	record := &entity.MediaObject{
		ObjectKey:   key,
		URL:         url,
		UID:         uid,
		Filename:    file.Filename,
		ContentType: contentType,
		Size:        handle.Size,
		CreatedAt:   time.Now(),
	}
	if err := uc.mediaRepo.Create(ctx, record); err != nil {
		logger.Warn("Failed to record media object %s: %v", key, err)
	}

	return &entity.PendingMedia{
		Name:       name,
		UID:        uid,
		URL:        url,
		PreviewURL: PreviewPath(name),
		ObjectKey:  key,
	}, nil
}

// Delete removes a pending image from the object store and then from the
// draft. If the store refuses, the item stays where it was.
func (uc *MediaUseCase) Delete(ctx context.Context, uid string, draft *session.Draft, name string) ([]entity.PendingMedia, error) {
	item, ok := draft.Snapshot().Find(name)
	if !ok {
		return nil, errors.NotFound("Image", nil)
	}
	if item.UID != uid {
		return nil, errors.Forbidden("You don't have permission to delete this image", nil)
	}

	if err := uc.objectStore.Delete(ctx, item.ObjectKey); err != nil {
		logger.Error("Failed to delete image %s: %v", item.ObjectKey, err)
		uc.metrics.MediaDeleted(false)
		return nil, errors.BadGateway("Failed to delete image", err)
	}
	uc.metrics.MediaDeleted(true)

	next := draft.Update(func(ws entity.WorkingSet) entity.WorkingSet {
		return ws.RemoveByURL(item.URL)
	})

	if err := uc.mediaRepo.DeleteByURL(ctx, item.URL); err != nil {
		logger.Warn("Failed to remove media object record for %s: %v", item.URL, err)
	}

	return next.Items(), nil
}

// Preview streams the bytes of a pending image back to the session that
// uploaded it.
func (uc *MediaUseCase) Preview(ctx context.Context, draft *session.Draft, name string) (io.ReadCloser, string, error) {
	item, ok := draft.Snapshot().Find(name)
	if !ok {
		return nil, "", errors.NotFound("Image", nil)
	}

	body, contentType, err := uc.objectStore.Open(ctx, item.ObjectKey)
	if err != nil {
		return nil, "", errors.BadGateway("Failed to read image", err)
	}
	return body, contentType, nil
}

func (uc *MediaUseCase) ListUploads(ctx context.Context, uid string) ([]*entity.MediaObject, error) {
	return uc.mediaRepo.ListByOwner(ctx, uid)
}
