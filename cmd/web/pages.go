package main

import (
	"net/http"
	"strings"
	"time"

	handlersPkg "luxesalon.cz/salon-web/internal/handlers"
	"luxesalon.cz/salon-web/internal/i18n"
	mw "luxesalon.cz/salon-web/internal/middleware"
	"luxesalon.cz/salon-web/internal/nav"
	"luxesalon.cz/salon-web/internal/sections"
	"luxesalon.cz/salon-web/internal/seo"
)

// homeHandler renders the landing page: hero, pricelist, gallery preview and contact form.
func (a *app) homeHandler(w http.ResponseWriter, r *http.Request) {
	lang := mw.Lang(r)
	vm := a.homePage(r, lang, a.freshContact(r))
	a.templates.renderPage(w, r, "home", http.StatusOK, vm)
}

// homePage loads the home sections and assembles the page around contact.
func (a *app) homePage(r *http.Request, lang i18n.Language, contact handlersPkg.ContactView) handlersPkg.PageData {
	services := sections.NewServices(a.content, a.servicesOptions())
	gallery := sections.NewGallery(a.content, sections.PreviewGallery(a.cfg.Gallery.PreviewLimit))
	activate(r.Context(), services, gallery)

	brand := a.brand(lang)
	vm := a.pageData(r, lang, "", a.bundle.T(lang, "seo.home.description"))
	vm.SEO.Title = brand + " | " + a.bundle.T(lang, "brand.tagline")
	vm.SEO.OG.Title = vm.SEO.Title

	servicesSnap := services.Snapshot()
	sv := handlersPkg.BuildServicesView(servicesSnap, lang, a.bundle, a.cfg.Pricing)
	gv := handlersPkg.BuildGalleryView(gallery.Snapshot(), lang, a.bundle, a.content.AssetURL)
	vm.Services = &sv
	vm.Gallery = &gv
	vm.Contact = &contact
	if len(gv.Items) > 0 {
		vm.SEO.OG.Image = gv.Items[0].URL
		vm.SEO.Twitter.Image = gv.Items[0].URL
	}

	salon := seo.Salon{
		Name:    brand,
		URL:     a.siteRoot(r),
		Image:   vm.SEO.OG.Image,
		Phone:   a.cfg.Site.Phone,
		Email:   a.cfg.Site.Email,
		Address: a.cfg.Site.Address,
	}
	if offers := handlersPkg.Offers(sv, servicesSnap, lang, a.cfg.Pricing); len(offers) > 0 {
		salon.PriceList = seo.OfferCatalog(a.bundle.T(lang, "services.title"), offers)
	}
	vm.SEO.JSONLD = append(vm.SEO.JSONLD, seo.JSON(seo.BeautySalon(salon)))
	return vm
}

// galleryHandler renders the full gallery listing.
func (a *app) galleryHandler(w http.ResponseWriter, r *http.Request) {
	lang := mw.Lang(r)
	gallery := sections.NewGallery(a.content, sections.FullGallery())
	activate(r.Context(), gallery)

	title := a.bundle.T(lang, "seo.gallery.title")
	vm := a.pageData(r, lang, title, a.bundle.T(lang, "seo.gallery.description"))
	gv := handlersPkg.BuildGalleryView(gallery.Snapshot(), lang, a.bundle, a.content.AssetURL)
	vm.Gallery = &gv

	images := make([]string, 0, len(gv.Items))
	for _, it := range gv.Items {
		images = append(images, it.URL)
	}
	if len(images) > 0 {
		vm.SEO.OG.Image = images[0]
		vm.SEO.Twitter.Image = images[0]
	}
	crumbs := make([]seo.BreadcrumbItem, 0, len(vm.Breadcrumbs))
	for _, c := range vm.Breadcrumbs {
		crumbs = append(crumbs, seo.BreadcrumbItem{Name: c.Label, Item: a.siteRoot(r) + c.Href})
	}
	vm.SEO.JSONLD = append(vm.SEO.JSONLD,
		seo.JSON(seo.ImageGallery(title, vm.SEO.Canonical, images)),
		seo.JSON(seo.BreadcrumbList(crumbs)),
	)
	a.templates.renderPage(w, r, "gallery", http.StatusOK, vm)
}

// pageData fills the layout fields. An empty title yields the bare brand.
func (a *app) pageData(r *http.Request, lang i18n.Language, title, description string) handlersPkg.PageData {
	brand := a.brand(lang)
	vm := handlersPkg.PageData{
		Title:     title,
		Lang:      lang,
		LangCode:  lang.Code(),
		Languages: handlersPkg.Languages(r.URL.Path, lang),
		Analytics: handlersPkg.AnalyticsFrom(a.cfg.Analytics),
		Site:      handlersPkg.SiteFrom(a.cfg.Site),
		Year:      time.Now().Year(),
		CSRFToken: mw.CSRFToken(r),
		Path:      r.URL.Path,
		Nav:       nav.Build(r.URL.Path, lang),
	}
	vm.Site.Name = brand
	if r.URL.Path != "/" {
		vm.Breadcrumbs = nav.Breadcrumbs(r.URL.Path, lang)
	}

	vm.SEO.Title = brand
	if title != "" {
		vm.SEO.Title = title + " | " + brand
	}
	vm.SEO.Description = description
	vm.SEO.Canonical = a.siteRoot(r) + r.URL.Path
	vm.SEO.OG.URL = vm.SEO.Canonical
	vm.SEO.OG.SiteName = brand
	vm.SEO.OG.Title = vm.SEO.Title
	vm.SEO.OG.Description = description
	vm.SEO.OG.Type = "website"
	vm.SEO.OG.Locale = seo.OGLocale(lang)
	vm.SEO.Twitter.Card = "summary_large_image"
	vm.SEO.Alternates = seo.Alternates(vm.SEO.Canonical)
	return vm
}

func (a *app) brand(lang i18n.Language) string {
	if name := strings.TrimSpace(a.cfg.Site.Name); name != "" {
		return name
	}
	return a.bundle.T(lang, "brand.name")
}

// siteRoot returns the configured public origin, or one derived from the request.
func (a *app) siteRoot(r *http.Request) string {
	if u := strings.TrimRight(strings.TrimSpace(a.cfg.Site.URL), "/"); u != "" {
		return u
	}
	scheme := "http"
	if r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https") {
		scheme = "https"
	}
	return scheme + "://" + r.Host
}
