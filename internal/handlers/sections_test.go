package handlers

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"luxesalon.cz/salon-web/internal/cms"
	"luxesalon.cz/salon-web/internal/config"
	"luxesalon.cz/salon-web/internal/i18n"
	"luxesalon.cz/salon-web/internal/sections"
)

type mapTranslator map[string]string

func (m mapTranslator) T(_ i18n.Language, key string) string {
	if v, ok := m[key]; ok {
		return v
	}
	return key
}

var tr = mapTranslator{
	"services.category.hair":  "Hair",
	"services.category.other": "Other",
	"gallery.alt_default":     "Salon work",
	"contact.required":        "Required",
	"contact.invalid_email":   "Bad email",
	"contact.success":         "Thanks",
	"contact.error":           "Try again",
}

func TestBuildServicesView(t *testing.T) {
	snap := sections.ServicesSnapshot{
		State: sections.Loaded,
		Groups: []sections.ServiceGroup{
			{Key: "hair", Services: []cms.Service{{
				ID:          1,
				Name:        i18n.Text("Cut", "Стрижка", ""),
				Description: i18n.Text("<b>Fresh</b><script>x()</script>", "", ""),
				Price:       80,
				Currency:    "USD",
			}}},
			{Key: "", Services: []cms.Service{{ID: 2, Name: i18n.Text("Gift", "", ""), Price: 10, Currency: "USD"}}},
			{Key: "9", Label: i18n.Text("Brows", "Брови", ""), Services: []cms.Service{{ID: 3, Name: i18n.Text("Tint", "", ""), Price: 5}}},
		},
	}
	pricing := config.PricingConfig{Locale: "en-US", DefaultCurrency: "USD"}
	view := BuildServicesView(snap, i18n.Ukrainian, tr, pricing)

	assert.Equal(t, "loaded", view.State)
	require.Len(t, view.Groups, 3)
	assert.Equal(t, "Hair", view.Groups[0].Label)
	assert.Equal(t, "Other", view.Groups[1].Label)
	assert.Equal(t, "Брови", view.Groups[2].Label)

	item := view.Groups[0].Items[0]
	assert.Equal(t, "Стрижка", item.Name)
	assert.Equal(t, "$80.00", item.Price)
	assert.Contains(t, string(item.Description), "<b>Fresh</b>")
	assert.NotContains(t, string(item.Description), "script")

	offers := Offers(view, snap, i18n.English, pricing)
	require.Len(t, offers, 3)
	assert.Equal(t, "Hair", offers[0].Category)
	assert.Equal(t, "USD", offers[0].Currency)
	assert.Equal(t, "Fresh", offers[0].Description)
}

func TestBuildServicesViewWholeUnits(t *testing.T) {
	snap := sections.ServicesSnapshot{State: sections.Loaded, Groups: []sections.ServiceGroup{
		{Key: "hair", Services: []cms.Service{{ID: 1, Name: i18n.Text("Cut", "", ""), Price: 1500}}},
	}}
	view := BuildServicesView(snap, i18n.Czech, tr, config.PricingConfig{Locale: "cs-CZ", Currency: "CZK"})
	assert.Contains(t, view.Groups[0].Items[0].Price, "Kč")
	assert.NotContains(t, view.Groups[0].Items[0].Price, ",")
}

func TestBuildGalleryView(t *testing.T) {
	snap := sections.GallerySnapshot{
		State: sections.Loaded,
		Items: []cms.GalleryItem{
			{ID: 2, Image: "abc", Title: i18n.Text("Hall", "Зала", "")},
			{ID: 1, Image: "def"},
		},
		ShowViewAll: true,
	}
	view := BuildGalleryView(snap, i18n.Ukrainian, tr, func(id string) string { return "https://cms/assets/" + id })
	require.Len(t, view.Items, 2)
	assert.Equal(t, "https://cms/assets/abc", view.Items[0].URL)
	assert.Equal(t, "Зала", view.Items[0].Alt)
	assert.Equal(t, "Salon work", view.Items[1].Alt)
	assert.True(t, view.ShowViewAll)
}

func TestBuildContactView(t *testing.T) {
	failed := BuildContactView(sections.ContactSnapshot{
		State:       sections.SubmitFailed,
		Fields:      sections.ContactFields{Name: "Jane"},
		Err:         errors.New("down"),
		FieldErrors: map[string]string{"message": "required"},
	}, map[string]string{"email": "email"}, i18n.English, tr)

	assert.Equal(t, "Try again", failed.Notice)
	assert.Equal(t, "Jane", failed.Fields.Name)
	assert.Equal(t, "Required", failed.FieldErrors["message"])
	assert.Equal(t, "Bad email", failed.FieldErrors["email"])
	assert.False(t, failed.Success())

	ok := BuildContactView(sections.ContactSnapshot{State: sections.SubmitSuccess}, nil, i18n.English, tr)
	assert.True(t, ok.Success())
	assert.Equal(t, "Thanks", ok.Notice)
	assert.Nil(t, ok.FieldErrors)
}

func TestBuildContactViewCarriesAttachment(t *testing.T) {
	lost := BuildContactView(sections.ContactSnapshot{State: sections.SubmitFailed, Attachment: "nails.png"}, nil, i18n.English, tr)
	assert.Equal(t, "nails.png", lost.Attachment)
	assert.False(t, lost.AttachmentStored)

	stored := BuildContactView(sections.ContactSnapshot{
		State:            sections.SubmitFailed,
		Attachment:       "nails.png",
		AttachmentFileID: "file-1",
	}, map[string]string{"attachment": "reattach"}, i18n.English, tr)
	assert.True(t, stored.AttachmentStored)
	assert.Equal(t, "contact.attachment_reattach", stored.FieldErrors["attachment"])

	done := BuildContactView(sections.ContactSnapshot{State: sections.SubmitSuccess, Attachment: "nails.png"}, nil, i18n.English, tr)
	assert.Empty(t, done.Attachment)
}
