package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveFallsBackToEnglish(t *testing.T) {
	record := map[string]any{
		"name_en": "Classic Manicure",
		"name_uk": "Класичний манікюр",
		"name_cs": "",
	}

	assert.Equal(t, "Класичний манікюр", Resolve(record, Ukrainian, "name"))
	assert.Equal(t, "Classic Manicure", Resolve(record, Czech, "name"), "empty value falls back")
	assert.Equal(t, "Classic Manicure", Resolve(record, English, "name"))
}

func TestResolveNeverFailsOnMissingFields(t *testing.T) {
	for _, lang := range Languages() {
		assert.Equal(t, "", Resolve(map[string]any{}, lang, "description"))
		assert.Equal(t, "", Resolve(nil, lang, "description"))
	}
	record := map[string]any{"title_uk": 42, "title_en": "Gallery"}
	assert.Equal(t, "Gallery", Resolve(record, Ukrainian, "title"), "non-string values are absent")
}

func TestResolveIsGenericOverRecordShapes(t *testing.T) {
	category := map[string]any{"id": 3, "title_en": "Hair", "title_cs": "Vlasy"}
	nav := map[string]any{"key": "home", "label_en": "Home", "label_uk": "Головна"}

	assert.Equal(t, "Vlasy", Resolve(category, Czech, "title"))
	assert.Equal(t, "Hair", Resolve(category, Ukrainian, "title"))
	assert.Equal(t, "Головна", Resolve(nav, Ukrainian, "label"))
}

func TestLocalizedIn(t *testing.T) {
	l := Text("Book Appointment", "  ", "Rezervovat")
	assert.Equal(t, "Book Appointment", l.In(Ukrainian), "blank value falls back")
	assert.Equal(t, "Rezervovat", l.In(Czech))
	assert.Equal(t, "Book Appointment", l.In(Language(99)))
	assert.False(t, l.IsZero())
	assert.True(t, Localized{}.IsZero())
	assert.Equal(t, "", Localized{}.In(Czech))
}
