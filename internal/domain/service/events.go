package service

import "context"

const (
	SubjectListingCreated = "listings.created"
	SubjectListingDeleted = "listings.deleted"
)

type ListingEvent struct {
	ListingID string `json:"listing_id"`
	UID       string `json:"uid"`
	Name      string `json:"name"`
	Images    int    `json:"images"`
}

type EventPublisher interface {
	Publish(ctx context.Context, subject string, payload interface{}) error
}
