package entity

// Identity is the signed-in user as known to the identity provider.
type Identity struct {
	UID   string `json:"uid"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}
