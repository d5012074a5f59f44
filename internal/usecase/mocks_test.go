package usecase

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"webcarros/internal/domain/entity"
	"webcarros/internal/domain/service"
)

type MockListingRepository struct{ mock.Mock }

func (m *MockListingRepository) Create(ctx context.Context, listing *entity.Listing) (string, error) {
	args := m.Called(ctx, listing)
	return args.String(0), args.Error(1)
}
func (m *MockListingRepository) GetByID(ctx context.Context, id string) (*entity.Listing, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Listing), args.Error(1)
}
func (m *MockListingRepository) ListAll(ctx context.Context) ([]*entity.Listing, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Listing), args.Error(1)
}
func (m *MockListingRepository) SearchByName(ctx context.Context, query string) ([]*entity.Listing, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Listing), args.Error(1)
}
func (m *MockListingRepository) ListByOwner(ctx context.Context, uid string) ([]*entity.Listing, error) {
	args := m.Called(ctx, uid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Listing), args.Error(1)
}
func (m *MockListingRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockMediaObjectRepository struct{ mock.Mock }

func (m *MockMediaObjectRepository) Create(ctx context.Context, object *entity.MediaObject) error {
	args := m.Called(ctx, object)
	return args.Error(0)
}
func (m *MockMediaObjectRepository) GetByURL(ctx context.Context, url string) (*entity.MediaObject, error) {
	args := m.Called(ctx, url)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.MediaObject), args.Error(1)
}
func (m *MockMediaObjectRepository) ListByOwner(ctx context.Context, uid string) ([]*entity.MediaObject, error) {
	args := m.Called(ctx, uid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.MediaObject), args.Error(1)
}
func (m *MockMediaObjectRepository) DeleteByURL(ctx context.Context, url string) error {
	args := m.Called(ctx, url)
	return args.Error(0)
}

type MockObjectStore struct{ mock.Mock }

func (m *MockObjectStore) Upload(ctx context.Context, key, contentType string, r io.Reader, size int64) (service.ObjectHandle, error) {
	args := m.Called(ctx, key, contentType, r, size)
	return args.Get(0).(service.ObjectHandle), args.Error(1)
}
func (m *MockObjectStore) ResolveURL(ctx context.Context, handle service.ObjectHandle) (string, error) {
	args := m.Called(ctx, handle)
	return args.String(0), args.Error(1)
}
func (m *MockObjectStore) Open(ctx context.Context, key string) (io.ReadCloser, string, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}
	return args.Get(0).(io.ReadCloser), args.String(1), args.Error(2)
}
func (m *MockObjectStore) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}
func (m *MockObjectStore) Close() error {
	args := m.Called()
	return args.Error(0)
}

type MockEventPublisher struct{ mock.Mock }

func (m *MockEventPublisher) Publish(ctx context.Context, subject string, payload interface{}) error {
	args := m.Called(ctx, subject, payload)
	return args.Error(0)
}

type MockIdentityProvider struct{ mock.Mock }

func (m *MockIdentityProvider) CreateUser(ctx context.Context, email, password, displayName string) (string, error) {
	args := m.Called(ctx, email, password, displayName)
	return args.String(0), args.Error(1)
}
func (m *MockIdentityProvider) SignInWithEmailPassword(ctx context.Context, email, password string) (*service.SignInResult, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.SignInResult), args.Error(1)
}
func (m *MockIdentityProvider) VerifyToken(ctx context.Context, token string) (*entity.Identity, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Identity), args.Error(1)
}
func (m *MockIdentityProvider) RevokeSessions(ctx context.Context, uid string) error {
	args := m.Called(ctx, uid)
	return args.Error(0)
}

// recordingSession captures what auth flows publish.
type recordingSession struct {
	identity *entity.Identity
	token    string
	signIns  int
	signOuts int
}

func (s *recordingSession) SignIn(identity *entity.Identity, token string) {
	s.identity = identity
	s.token = token
	s.signIns++
}
func (s *recordingSession) SignOut() {
	s.identity = nil
	s.token = ""
	s.signOuts++
}
func (s *recordingSession) Token() string { return s.token }
