package entity

import (
	"time"
)

// PendingMedia is an uploaded image that has not been attached to a listing
// yet. PreviewURL only makes sense to the session that uploaded it.
type PendingMedia struct {
	Name       string `json:"name"`
	UID        string `json:"uid"`
	URL        string `json:"url"`
	PreviewURL string `json:"preview_url"`
	ObjectKey  string `json:"-"`
}

func (p PendingMedia) Reference() MediaReference {
	return MediaReference{Name: p.Name, UID: p.UID, URL: p.URL}
}

// WorkingSet is an immutable, ordered collection of pending media. Every
// operation returns a new value; the receiver is never modified.
type WorkingSet struct {
	items []PendingMedia
}

func NewWorkingSet(items ...PendingMedia) WorkingSet {
	return WorkingSet{items: append([]PendingMedia(nil), items...)}
}

func (w WorkingSet) Append(item PendingMedia) WorkingSet {
	next := make([]PendingMedia, len(w.items), len(w.items)+1)
	copy(next, w.items)
	return WorkingSet{items: append(next, item)}
}

// RemoveByURL drops every item whose durable URL equals url.
func (w WorkingSet) RemoveByURL(url string) WorkingSet {
	next := make([]PendingMedia, 0, len(w.items))
	for _, item := range w.items {
		if item.URL != url {
			next = append(next, item)
		}
	}
	return WorkingSet{items: next}
}

func (w WorkingSet) Find(name string) (PendingMedia, bool) {
	for _, item := range w.items {
		if item.Name == name {
			return item, true
		}
	}
	return PendingMedia{}, false
}

func (w WorkingSet) Items() []PendingMedia {
	items := make([]PendingMedia, len(w.items))
	copy(items, w.items)
	return items
}

func (w WorkingSet) Len() int {
	return len(w.items)
}

func (w WorkingSet) IsEmpty() bool {
	return len(w.items) == 0
}

// References strips the preview data, leaving what gets persisted.
func (w WorkingSet) References() []MediaReference {
	refs := make([]MediaReference, len(w.items))
	for i, item := range w.items {
		refs[i] = item.Reference()
	}
	return refs
}

// MediaObject records an object written to the object store, whether or not
// it ever made it into a listing.
type MediaObject struct {
	ID          string    `json:"id" firestore:"id"`
	ObjectKey   string    `json:"object_key" firestore:"objectKey"`
	URL         string    `json:"url" firestore:"url"`
	UID         string    `json:"uid" firestore:"uid"`
	Filename    string    `json:"filename" firestore:"filename"`
	ContentType string    `json:"content_type" firestore:"contentType"`
	Size        int64     `json:"size" firestore:"size"`
	CreatedAt   time.Time `json:"created_at" firestore:"createdAt"`
}
