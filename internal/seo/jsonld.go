package seo

import (
	"encoding/json"
	"html/template"
	"strconv"
	"strings"
)

// JSON marshals v for a <script type="application/ld+json"> block. It
// returns an empty value on error.
func JSON(v any) template.JS {
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return template.JS(b)
}

// Salon describes the business for the BeautySalon schema.
type Salon struct {
	Name      string
	URL       string
	Image     string
	Phone     string
	Email     string
	Address   string
	Hours     []string // schema.org openingHours, e.g. "Mo-Fr 09:00-20:00"
	PriceList map[string]any
}

// BeautySalon returns a schema.org BeautySalon payload.
func BeautySalon(s Salon) map[string]any {
	m := map[string]any{
		"@context": "https://schema.org",
		"@type":    "BeautySalon",
		"name":     s.Name,
	}
	if s.URL != "" {
		m["url"] = s.URL
	}
	if s.Image != "" {
		m["image"] = s.Image
	}
	if s.Phone != "" {
		m["telephone"] = s.Phone
	}
	if s.Email != "" {
		m["email"] = s.Email
	}
	if s.Address != "" {
		m["address"] = map[string]any{"@type": "PostalAddress", "streetAddress": s.Address}
	}
	if len(s.Hours) > 0 {
		m["openingHours"] = s.Hours
	}
	if s.PriceList != nil {
		m["hasOfferCatalog"] = s.PriceList
	}
	return m
}

// Offer is one priced service.
type Offer struct {
	Name        string
	Description string
	Price       float64
	Currency    string
	Category    string
}

// OfferCatalog builds a schema.org OfferCatalog, one nested catalog per
// category in input order.
func OfferCatalog(name string, offers []Offer) map[string]any {
	var order []string
	byCategory := map[string][]map[string]any{}
	for _, o := range offers {
		if _, ok := byCategory[o.Category]; !ok {
			order = append(order, o.Category)
		}
		service := map[string]any{"@type": "Service", "name": o.Name}
		if d := strings.TrimSpace(o.Description); d != "" {
			service["description"] = d
		}
		offer := map[string]any{
			"@type":       "Offer",
			"itemOffered": service,
			"price":       strconv.FormatFloat(o.Price, 'f', 2, 64),
		}
		if o.Currency != "" {
			offer["priceCurrency"] = o.Currency
		}
		byCategory[o.Category] = append(byCategory[o.Category], offer)
	}
	catalogs := make([]map[string]any, 0, len(order))
	for _, c := range order {
		catalogs = append(catalogs, map[string]any{
			"@type":           "OfferCatalog",
			"name":            c,
			"itemListElement": byCategory[c],
		})
	}
	return map[string]any{
		"@type":           "OfferCatalog",
		"name":            name,
		"itemListElement": catalogs,
	}
}

// BreadcrumbItem maps name and absolute item URL.
type BreadcrumbItem struct {
	Name string
	Item string
}

// BreadcrumbList builds schema.org BreadcrumbList.
func BreadcrumbList(items []BreadcrumbItem) map[string]any {
	el := make([]map[string]any, 0, len(items))
	for i, it := range items {
		el = append(el, map[string]any{
			"@type":    "ListItem",
			"position": i + 1,
			"name":     it.Name,
			"item":     it.Item,
		})
	}
	return map[string]any{
		"@context":        "https://schema.org",
		"@type":           "BreadcrumbList",
		"itemListElement": el,
	}
}

// ImageGallery lists image URLs as a schema.org ImageGallery.
func ImageGallery(name, url string, images []string) map[string]any {
	m := map[string]any{
		"@context": "https://schema.org",
		"@type":    "ImageGallery",
		"name":     name,
	}
	if url != "" {
		m["url"] = url
	}
	if len(images) > 0 {
		m["image"] = images
	}
	return m
}
