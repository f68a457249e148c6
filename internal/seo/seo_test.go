package seo

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAlternates(t *testing.T) {
	alts := Alternates("https://luxesalon.cz/gallery?hl=cs")
	require.Len(t, alts, 4)
	assert.Equal(t, Alternate{Href: "https://luxesalon.cz/gallery?hl=en", Hreflang: "en"}, alts[0])
	assert.Equal(t, "uk", alts[1].Hreflang)
	assert.Equal(t, Alternate{Href: "https://luxesalon.cz/gallery", Hreflang: "x-default"}, alts[3])
}

func TestOfferCatalogGroupsByCategory(t *testing.T) {
	catalog := OfferCatalog("Services", []Offer{
		{Name: "Cut", Price: 80, Currency: "USD", Category: "Hair"},
		{Name: "Manicure", Price: 35, Currency: "USD", Category: "Nails"},
		{Name: "Color", Price: 150, Currency: "USD", Category: "Hair"},
	})
	var decoded struct {
		Items []struct {
			Name  string `json:"name"`
			Items []struct {
				Price    string `json:"price"`
				Currency string `json:"priceCurrency"`
			} `json:"itemListElement"`
		} `json:"itemListElement"`
	}
	require.NoError(t, json.Unmarshal([]byte(JSON(catalog)), &decoded))
	require.Len(t, decoded.Items, 2)
	assert.Equal(t, "Hair", decoded.Items[0].Name)
	assert.Len(t, decoded.Items[0].Items, 2)
	assert.Equal(t, "80.00", decoded.Items[0].Items[0].Price)
	assert.Equal(t, "USD", decoded.Items[0].Items[0].Currency)
}

func TestBeautySalonOmitsEmptyFields(t *testing.T) {
	m := BeautySalon(Salon{Name: "Luxe Salon", Phone: "+420 123"})
	assert.Equal(t, "BeautySalon", m["@type"])
	assert.Equal(t, "+420 123", m["telephone"])
	assert.NotContains(t, m, "address")
	assert.NotContains(t, m, "hasOfferCatalog")
}
