package handler

import (
	"webcarros/internal/infrastructure/websocket"
	"webcarros/internal/usecase"
)

var (
	authHandler    *AuthHandler
	listingHandler *ListingHandler
	draftHandler   *DraftHandler
	sessionHandler *SessionHandler
)

func Setup(
	authUseCase *usecase.AuthUseCase,
	listingUseCase *usecase.ListingUseCase,
	composerUseCase *usecase.ComposerUseCase,
	mediaUseCase *usecase.MediaUseCase,
	wsManager *websocket.Manager,
) {
	authHandler = NewAuthHandler(authUseCase)
	listingHandler = NewListingHandler(listingUseCase, composerUseCase)
	draftHandler = NewDraftHandler(mediaUseCase)
	sessionHandler = NewSessionHandler(wsManager)
}

func GetAuthHandler() *AuthHandler {
	return authHandler
}

func GetListingHandler() *ListingHandler {
	return listingHandler
}

func GetDraftHandler() *DraftHandler {
	return draftHandler
}

func GetSessionHandler() *SessionHandler {
	return sessionHandler
}
