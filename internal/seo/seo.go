package seo

import (
	"html/template"
	"net/url"

	"luxesalon.cz/salon-web/internal/i18n"
)

type OpenGraph struct {
	Title       string
	Description string
	Image       string
	Type        string
	URL         string
	SiteName    string
	Locale      string
}

type Twitter struct {
	Card  string
	Site  string
	Image string
}

// Alternate is one hreflang link.
type Alternate struct {
	Href     string
	Hreflang string
}

type Meta struct {
	Title       string
	Description string
	Canonical   string
	Robots      string
	OG          OpenGraph
	Twitter     Twitter
	Alternates  []Alternate
	JSONLD      []template.JS
}

// Alternates returns one link per language (pageURL with ?hl=) plus
// x-default pointing at pageURL itself.
func Alternates(pageURL string) []Alternate {
	u, err := url.Parse(pageURL)
	if err != nil {
		return nil
	}
	out := make([]Alternate, 0, len(i18n.Languages())+1)
	for _, lang := range i18n.Languages() {
		v := *u
		q := v.Query()
		q.Set("hl", lang.Code())
		v.RawQuery = q.Encode()
		out = append(out, Alternate{Href: v.String(), Hreflang: lang.Code()})
	}
	def := *u
	q := def.Query()
	q.Del("hl")
	def.RawQuery = q.Encode()
	return append(out, Alternate{Href: def.String(), Hreflang: "x-default"})
}

// OGLocale maps a language to the OpenGraph locale form.
func OGLocale(lang i18n.Language) string {
	switch lang {
	case i18n.Ukrainian:
		return "uk_UA"
	case i18n.Czech:
		return "cs_CZ"
	default:
		return "en_US"
	}
}
