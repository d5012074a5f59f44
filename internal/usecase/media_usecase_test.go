package usecase

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"webcarros/internal/domain/entity"
	"webcarros/internal/domain/service"
	"webcarros/internal/session"
	apperrors "webcarros/pkg/errors"
)

func imageFile(name, contentType, body string) UploadInput {
	return UploadInput{
		Filename:    name,
		ContentType: contentType,
		Size:        int64(len(body)),
		Content:     strings.NewReader(body),
	}
}

func keyFor(uid string) interface{} {
	return mock.MatchedBy(func(key string) bool {
		return strings.HasPrefix(key, "images/"+uid+"/")
	})
}

func TestMediaUseCase_Upload(t *testing.T) {
	store := new(MockObjectStore)
	records := new(MockMediaObjectRepository)
	uc := NewMediaUseCase(store, records, nil, 5<<20)
	draft := session.NewDraft()

	store.On("Upload", mock.Anything, keyFor("user-1"), "image/jpeg", mock.Anything, int64(3)).
		Return(service.ObjectHandle{Key: "images/user-1/x", ContentType: "image/jpeg", Size: 3}, nil).Twice()
	store.On("ResolveURL", mock.Anything, mock.Anything).Return("https://cdn.example/x", nil).Twice()
	records.On("Create", mock.Anything, mock.AnythingOfType("*entity.MediaObject")).Return(nil).Twice()

	result, err := uc.Upload(context.Background(), "user-1", draft, []UploadInput{
		imageFile("a.jpg", "image/jpeg", "abc"),
		imageFile("b.jpg", "image/jpeg", "def"),
	})
	require.NoError(t, err)

	assert.Len(t, result.Uploaded, 2)
	assert.Empty(t, result.Failed)
	assert.Len(t, result.Items, 2)
	assert.Equal(t, 2, draft.Snapshot().Len())

	for _, item := range result.Uploaded {
		assert.Equal(t, "user-1", item.UID)
		assert.Equal(t, "https://cdn.example/x", item.URL)
		assert.Equal(t, PreviewPath(item.Name), item.PreviewURL)
		assert.Equal(t, ObjectKey("user-1", item.Name), item.ObjectKey)
	}
	assert.NotEqual(t, result.Uploaded[0].Name, result.Uploaded[1].Name)

	store.AssertExpectations(t)
	records.AssertExpectations(t)
}

func TestMediaUseCase_UploadFailureNeverEntersWorkingSet(t *testing.T) {
	store := new(MockObjectStore)
	records := new(MockMediaObjectRepository)
	uc := NewMediaUseCase(store, records, nil, 5<<20)
	draft := session.NewDraft()

	store.On("Upload", mock.Anything, mock.Anything, "image/png", mock.Anything, mock.Anything).
		Return(service.ObjectHandle{}, errors.New("bucket unavailable"))

	result, err := uc.Upload(context.Background(), "user-1", draft, []UploadInput{
		imageFile("a.png", "image/png", "abc"),
	})
	require.NoError(t, err)

	assert.Empty(t, result.Uploaded)
	require.Len(t, result.Failed, 1)
	assert.Equal(t, "a.png", result.Failed[0].Filename)
	assert.True(t, draft.Snapshot().IsEmpty())
	records.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestMediaUseCase_UploadResolveFailure(t *testing.T) {
	store := new(MockObjectStore)
	records := new(MockMediaObjectRepository)
	uc := NewMediaUseCase(store, records, nil, 5<<20)
	draft := session.NewDraft()

	store.On("Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(service.ObjectHandle{Key: "k"}, nil)
	store.On("ResolveURL", mock.Anything, mock.Anything).Return("", errors.New("no token"))

	result, err := uc.Upload(context.Background(), "user-1", draft, []UploadInput{
		imageFile("a.webp", "image/webp", "abc"),
	})
	require.NoError(t, err)

	assert.Len(t, result.Failed, 1)
	assert.True(t, draft.Snapshot().IsEmpty())
}

func TestMediaUseCase_UploadRejectsTypeAndSize(t *testing.T) {
	store := new(MockObjectStore)
	records := new(MockMediaObjectRepository)
	uc := NewMediaUseCase(store, records, nil, 4)
	draft := session.NewDraft()

	result, err := uc.Upload(context.Background(), "user-1", draft, []UploadInput{
		imageFile("doc.pdf", "application/pdf", "abc"),
		imageFile("big.jpg", "image/jpeg", "too large"),
	})
	require.NoError(t, err)

	assert.Len(t, result.Failed, 2)
	assert.Empty(t, result.Uploaded)
	store.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestMediaUseCase_UploadRecordFailureIsNotFatal(t *testing.T) {
	store := new(MockObjectStore)
	records := new(MockMediaObjectRepository)
	uc := NewMediaUseCase(store, records, nil, 5<<20)
	draft := session.NewDraft()

	store.On("Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(service.ObjectHandle{Key: "k", Size: 3}, nil)
	store.On("ResolveURL", mock.Anything, mock.Anything).Return("https://cdn.example/k", nil)
	records.On("Create", mock.Anything, mock.Anything).Return(errors.New("firestore down"))

	result, err := uc.Upload(context.Background(), "user-1", draft, []UploadInput{
		imageFile("a.gif", "image/gif", "abc"),
	})
	require.NoError(t, err)
	assert.Len(t, result.Uploaded, 1)
	assert.Equal(t, 1, draft.Snapshot().Len())
}

func TestMediaUseCase_UploadRequiresUser(t *testing.T) {
	uc := NewMediaUseCase(new(MockObjectStore), new(MockMediaObjectRepository), nil, 0)

	_, err := uc.Upload(context.Background(), "", session.NewDraft(), []UploadInput{imageFile("a.jpg", "image/jpeg", "x")})
	assert.True(t, apperrors.Is(err, "UNAUTHORIZED"))

	_, err = uc.Upload(context.Background(), "user-1", session.NewDraft(), nil)
	assert.True(t, apperrors.Is(err, "BAD_REQUEST"))
}

func pendingDraft(items ...entity.PendingMedia) *session.Draft {
	draft := session.NewDraft()
	draft.Update(func(entity.WorkingSet) entity.WorkingSet {
		return entity.NewWorkingSet(items...)
	})
	return draft
}

var (
	itemA = entity.PendingMedia{Name: "a", UID: "user-1", URL: "https://cdn.example/a", ObjectKey: "images/user-1/a"}
	itemB = entity.PendingMedia{Name: "b", UID: "user-1", URL: "https://cdn.example/b", ObjectKey: "images/user-1/b"}
)

func TestMediaUseCase_DeleteSuccessRemovesItem(t *testing.T) {
	store := new(MockObjectStore)
	records := new(MockMediaObjectRepository)
	uc := NewMediaUseCase(store, records, nil, 0)
	draft := pendingDraft(itemA, itemB)

	store.On("Delete", mock.Anything, "images/user-1/a").Return(nil)
	records.On("DeleteByURL", mock.Anything, "https://cdn.example/a").Return(nil)

	items, err := uc.Delete(context.Background(), "user-1", draft, "a")
	require.NoError(t, err)

	assert.Equal(t, []entity.PendingMedia{itemB}, items)
	assert.Equal(t, 1, draft.Snapshot().Len())
	store.AssertExpectations(t)
}

func TestMediaUseCase_DeleteFailureKeepsItem(t *testing.T) {
	store := new(MockObjectStore)
	records := new(MockMediaObjectRepository)
	uc := NewMediaUseCase(store, records, nil, 0)
	draft := pendingDraft(itemA, itemB)

	store.On("Delete", mock.Anything, "images/user-1/a").Return(errors.New("permission denied"))

	_, err := uc.Delete(context.Background(), "user-1", draft, "a")
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, "UPSTREAM_ERROR"))

	_, still := draft.Snapshot().Find("a")
	assert.True(t, still)
	assert.Equal(t, 2, draft.Snapshot().Len())
	records.AssertNotCalled(t, "DeleteByURL", mock.Anything, mock.Anything)
}

func TestMediaUseCase_DeleteUnknownAndForeign(t *testing.T) {
	uc := NewMediaUseCase(new(MockObjectStore), new(MockMediaObjectRepository), nil, 0)
	draft := pendingDraft(itemA)

	_, err := uc.Delete(context.Background(), "user-1", draft, "missing")
	assert.True(t, apperrors.Is(err, "NOT_FOUND"))

	_, err = uc.Delete(context.Background(), "user-2", draft, "a")
	assert.True(t, apperrors.Is(err, "FORBIDDEN"))
}

func TestMediaUseCase_Preview(t *testing.T) {
	store := new(MockObjectStore)
	uc := NewMediaUseCase(store, new(MockMediaObjectRepository), nil, 0)
	draft := pendingDraft(itemA)

	store.On("Open", mock.Anything, "images/user-1/a").
		Return(io.NopCloser(strings.NewReader("jpeg-bytes")), "image/jpeg", nil)

	body, contentType, err := uc.Preview(context.Background(), draft, "a")
	require.NoError(t, err)
	defer body.Close()

	data, _ := io.ReadAll(body)
	assert.Equal(t, "jpeg-bytes", string(data))
	assert.Equal(t, "image/jpeg", contentType)

	_, _, err = uc.Preview(context.Background(), draft, "zzz")
	assert.True(t, apperrors.Is(err, "NOT_FOUND"))
}
