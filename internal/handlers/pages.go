package handlers

import (
	"luxesalon.cz/salon-web/internal/config"
	"luxesalon.cz/salon-web/internal/i18n"
	"luxesalon.cz/salon-web/internal/nav"
	"luxesalon.cz/salon-web/internal/seo"
)

// Translator resolves UI strings.
type Translator interface {
	T(lang i18n.Language, key string) string
}

// PageData is the view model shared by every page using the base layout.
type PageData struct {
	Title     string
	Lang      i18n.Language
	LangCode  string
	Languages []LanguageOption
	SEO       seo.Meta
	Analytics Analytics
	Site      SiteView
	Year      int
	CSRFToken string

	Path        string
	Nav         []nav.RenderedItem
	Breadcrumbs []nav.Crumb

	// per-page payloads
	Services *ServicesView
	Gallery  *GalleryView
	Contact  *ContactView
}

// LanguageOption is one entry of the language switcher.
type LanguageOption struct {
	Code   string
	Label  string
	Href   string
	Active bool
}

// Languages builds the switcher for path, marking current active.
func Languages(path string, current i18n.Language) []LanguageOption {
	if path == "" {
		path = "/"
	}
	out := make([]LanguageOption, 0, len(i18n.Languages()))
	for _, lang := range i18n.Languages() {
		out = append(out, LanguageOption{
			Code:   lang.Code(),
			Label:  lang.NativeName(),
			Href:   path + "?hl=" + lang.Code(),
			Active: lang == current,
		})
	}
	return out
}

// SiteView is the salon's contact block and footer.
type SiteView struct {
	Name     string
	Phone    string
	PhoneTel string
	Email    string
	Address  string
	Hours    []string
}

// SiteFrom copies the configured contact details.
func SiteFrom(cfg config.SiteConfig) SiteView {
	return SiteView{
		Name:     cfg.Name,
		Phone:    cfg.Phone,
		PhoneTel: telHref(cfg.Phone),
		Email:    cfg.Email,
		Address:  cfg.Address,
		Hours:    append([]string(nil), cfg.Hours...),
	}
}

func telHref(phone string) string {
	out := make([]rune, 0, len(phone))
	for _, r := range phone {
		if r == '+' || (r >= '0' && r <= '9') {
			out = append(out, r)
		}
	}
	return string(out)
}
