package entity

import (
	"encoding/json"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrefixBoundsMatchesStartsWith(t *testing.T) {
	lo, hi := PrefixBounds("onix")
	assert.Equal(t, "ONIX", lo)
	assert.Equal(t, "ONIX\uf8ff", hi)

	assert.True(t, InPrefixRange("ONIX PLUS", "onix"))
	assert.True(t, InPrefixRange("ONIX", "onix"))
	assert.False(t, InPrefixRange("CIVIC", "onix"))
	assert.False(t, InPrefixRange("ONI", "onix"))
	assert.False(t, InPrefixRange("PONIX", "onix"))
}

func TestWorkingSetIsImmutable(t *testing.T) {
	a := PendingMedia{Name: "a", UID: "u1", URL: "https://cdn/a", PreviewURL: "/p/a"}
	b := PendingMedia{Name: "b", UID: "u1", URL: "https://cdn/b", PreviewURL: "/p/b"}

	empty := NewWorkingSet()
	one := empty.Append(a)
	two := one.Append(b)

	assert.True(t, empty.IsEmpty())
	assert.Equal(t, 1, one.Len())
	assert.Equal(t, 2, two.Len())

	removed := two.RemoveByURL("https://cdn/a")
	assert.Equal(t, 2, two.Len())
	require.Equal(t, 1, removed.Len())
	assert.Equal(t, "b", removed.Items()[0].Name)

	items := two.Items()
	items[0].Name = "mutated"
	assert.Equal(t, "a", two.Items()[0].Name)
}

func TestEmptyWorkingSetItemsEncodeAsArray(t *testing.T) {
	items := NewWorkingSet().Items()
	require.NotNil(t, items)

	data, err := json.Marshal(items)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}

func TestWorkingSetReferencesDropPreview(t *testing.T) {
	ws := NewWorkingSet(PendingMedia{Name: "a", UID: "u1", URL: "https://cdn/a", PreviewURL: "/p/a", ObjectKey: "images/u1/a"})

	assert.Equal(t, []MediaReference{{Name: "a", UID: "u1", URL: "https://cdn/a"}}, ws.References())

	found, ok := ws.Find("a")
	assert.True(t, ok)
	assert.Equal(t, "images/u1/a", found.ObjectKey)

	_, ok = ws.Find("missing")
	assert.False(t, ok)
}

func TestWhatsappLink(t *testing.T) {
	l := &Listing{Name: "ONIX", Whatsapp: "05199452265"}

	link, err := url.Parse(l.WhatsappLink("WebCarros"))
	require.NoError(t, err)

	assert.Equal(t, "api.whatsapp.com", link.Host)
	assert.Equal(t, "05199452265", link.Query().Get("phone"))
	assert.Contains(t, link.Query().Get("text"), "ONIX no site WebCarros")
}

func TestCover(t *testing.T) {
	assert.Equal(t, "", (&Listing{}).Cover())
	assert.Equal(t, "https://cdn/a", (&Listing{Images: []MediaReference{{URL: "https://cdn/a"}, {URL: "https://cdn/b"}}}).Cover())
}
