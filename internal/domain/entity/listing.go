package entity

import (
	"net/url"
	"strings"
	"time"
)

// SearchSentinel is the highest code point of the BMP private use area; appending
// it to a prefix gives an upper bound that sorts after every name starting with
// that prefix.
const SearchSentinel = "\uf8ff"

type MediaReference struct {
	Name string `json:"name" firestore:"name"`
	UID  string `json:"uid" firestore:"uid"`
	URL  string `json:"url" firestore:"url"`
}

// Listing is a car for sale. Form values are kept as the strings the seller
// typed, so "80.000" km or "69.000,00" survive round trips untouched.
type Listing struct {
	ID          string           `json:"id" firestore:"-"`
	Name        string           `json:"name" firestore:"name"`
	Model       string           `json:"model" firestore:"model"`
	Year        string           `json:"year" firestore:"year"`
	Km          string           `json:"km" firestore:"km"`
	Price       string           `json:"price" firestore:"price"`
	City        string           `json:"city" firestore:"city"`
	Whatsapp    string           `json:"whatsapp" firestore:"whatsapp"`
	Description string           `json:"description" firestore:"description"`
	Created     time.Time        `json:"created" firestore:"created"`
	Owner       string           `json:"owner" firestore:"owner"`
	UID         string           `json:"uid" firestore:"uid"`
	Images      []MediaReference `json:"images" firestore:"images"`
}

// Cover returns the first image URL, used as the thumbnail in the feed.
func (l *Listing) Cover() string {
	if len(l.Images) == 0 {
		return ""
	}
	return l.Images[0].URL
}

// WhatsappLink builds the "talk to the seller" link shown on the detail page.
func (l *Listing) WhatsappLink(siteName string) string {
	text := " Olá vi esse(a) " + l.Name + " no site " + siteName +
		" e fiquei interessado, se possivel gostaria de mais informações!"

	q := url.Values{}
	q.Set("phone", l.Whatsapp)
	q.Set("text", text)
	return "https://api.whatsapp.com/send?" + q.Encode()
}

// NormalizeName is applied to names on write and to search queries so that the
// prefix search behaves case-insensitively.
func NormalizeName(name string) string {
	return strings.ToUpper(strings.TrimSpace(name))
}

// PrefixBounds returns the half-open range [lo, hi) of names that start with
// the normalized query.
func PrefixBounds(query string) (lo, hi string) {
	lo = NormalizeName(query)
	return lo, lo + SearchSentinel
}

// InPrefixRange reports whether name falls inside PrefixBounds(query).
func InPrefixRange(name, query string) bool {
	lo, hi := PrefixBounds(query)
	return name >= lo && name < hi
}
