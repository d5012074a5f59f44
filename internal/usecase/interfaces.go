package usecase

import (
	"webcarros/internal/domain/entity"
	"webcarros/internal/session"
)

// SessionPublisher is the side of a session notifier that auth flows drive.
type SessionPublisher interface {
	SignIn(identity *entity.Identity, token string)
	SignOut()
	Token() string
}

var _ SessionPublisher = (*session.Notifier)(nil)
