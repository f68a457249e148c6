package nav

import (
	"path"
	"strings"

	"luxesalon.cz/salon-web/internal/i18n"
)

// Item represents a top-level navigation item.
type Item struct {
	Key     string
	Label   i18n.Localized
	Href    string // e.g. "/#services"
	Section string // page path that marks the item active, "" for anchors only
}

// RenderedItem is a view model for templates.
type RenderedItem struct {
	Key    string
	Href   string
	Label  string
	Active bool
}

// Crumb represents a breadcrumb entry.
type Crumb struct {
	Href   string
	Label  string
	Active bool
}

// Main is the primary navigation definition.
var Main = []Item{
	{Key: "home", Label: i18n.Text("Home", "Головна", "Domů"), Href: "/#home", Section: "/"},
	{Key: "services", Label: i18n.Text("Services", "Послуги", "Služby"), Href: "/#services"},
	{Key: "gallery", Label: i18n.Text("Gallery", "Галерея", "Galerie"), Href: "/#gallery", Section: "/gallery"},
	{Key: "contact", Label: i18n.Text("Contact", "Контакти", "Kontakt"), Href: "/#contact"},
}

// Build renders navigation items in lang with active state given the current path.
func Build(currentPath string, lang i18n.Language) []RenderedItem {
	if currentPath == "" {
		currentPath = "/"
	}
	items := make([]RenderedItem, 0, len(Main))
	for _, it := range Main {
		items = append(items, RenderedItem{
			Key:    it.Key,
			Href:   it.Href,
			Label:  it.Label.In(lang),
			Active: it.Section != "" && isActive(it.Section, currentPath),
		})
	}
	return items
}

// Label returns the localized label of the item with key, or key itself.
func Label(key string, lang i18n.Language) string {
	for _, it := range Main {
		if it.Key == key {
			return it.Label.In(lang)
		}
	}
	return key
}

func isActive(itemPath, currentPath string) bool {
	if itemPath == "/" {
		return currentPath == "/"
	}
	// match exact or prefix boundary: "/gallery" or "/gallery/..."
	return currentPath == itemPath || strings.HasPrefix(currentPath, itemPath+"/")
}

// Breadcrumbs builds breadcrumb entries from the current path. Known
// sections use their nav label, deeper segments a prettified slug.
func Breadcrumbs(currentPath string, lang i18n.Language) []Crumb {
	if currentPath == "" {
		currentPath = "/"
	}
	crumbs := []Crumb{{Href: "/", Label: Label("home", lang), Active: currentPath == "/"}}
	if currentPath == "/" {
		return crumbs
	}

	clean := path.Clean(currentPath)
	parts := strings.Split(strings.TrimPrefix(clean, "/"), "/")
	href := ""
	for i, part := range parts {
		if part == "" {
			continue
		}
		href += "/" + part
		label := titleFromSegment(part)
		if i == 0 {
			for _, it := range Main {
				if it.Section == href {
					label = it.Label.In(lang)
					break
				}
			}
		}
		crumbs = append(crumbs, Crumb{Href: href, Label: label, Active: i == len(parts)-1})
	}
	return crumbs
}

func titleFromSegment(seg string) string {
	if seg == "" {
		return seg
	}
	s := strings.NewReplacer("-", " ", "_", " ").Replace(seg)
	r := []rune(s)
	if r[0] >= 'a' && r[0] <= 'z' {
		r[0] -= 'a' - 'A'
	}
	return string(r)
}
