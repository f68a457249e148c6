package cms

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"luxesalon.cz/salon-web/internal/i18n"
	"luxesalon.cz/salon-web/internal/observability"
)

// Collections consumed by the site.
const (
	CollectionServices   = "services"
	CollectionCategories = "service_categories"
	CollectionGallery    = "gallery"
)

// Service is one pricelist entry.
type Service struct {
	ID          int64
	Name        i18n.Localized
	Description i18n.Localized // rich text, must be sanitized before rendering
	Price       float64
	Currency    string
	Category    CategoryRef
}

// ServiceCategory labels a group of services when categories are normalized
// into their own collection.
type ServiceCategory struct {
	ID    int64
	Title i18n.Localized
}

type categoryKind uint8

const (
	categoryNone categoryKind = iota
	categoryKey
	categoryID
	categoryExpanded
)

// CategoryRef is how a service points at its category: a raw enum key
// ("hair"), a raw relation id, or the expanded related record.
type CategoryRef struct {
	kind     categoryKind
	key      string
	id       int64
	expanded ServiceCategory
}

// CategoryKey references a category by its enum key.
func CategoryKey(key string) CategoryRef {
	key = strings.TrimSpace(key)
	if key == "" {
		return CategoryRef{}
	}
	return CategoryRef{kind: categoryKey, key: key}
}

// CategoryID references a category by relation id.
func CategoryID(id int64) CategoryRef { return CategoryRef{kind: categoryID, id: id} }

// CategoryExpanded wraps an embedded category record.
func CategoryExpanded(c ServiceCategory) CategoryRef {
	return CategoryRef{kind: categoryExpanded, id: c.ID, expanded: c}
}

// Key returns the grouping key. A raw id and the expanded record of the same
// category yield the same key. The zero CategoryRef yields "".
func (r CategoryRef) Key() string {
	switch r.kind {
	case categoryKey:
		return r.key
	case categoryID, categoryExpanded:
		return strconv.FormatInt(r.id, 10)
	default:
		return ""
	}
}

// Expanded returns the embedded category record, if any.
func (r CategoryRef) Expanded() (ServiceCategory, bool) {
	return r.expanded, r.kind == categoryExpanded
}

// ID returns the relation id for id-based references.
func (r CategoryRef) ID() (int64, bool) {
	return r.id, r.kind == categoryID || r.kind == categoryExpanded
}

// IsZero reports whether the service carries no category.
func (r CategoryRef) IsZero() bool { return r.kind == categoryNone }

// GalleryItem is one gallery image.
type GalleryItem struct {
	ID       int64
	Image    string // file id, resolved with Client.AssetURL
	Alt      string
	Title    i18n.Localized
	Category string
}

// Caption returns the localized title, falling back to the alt text.
func (g GalleryItem) Caption(lang i18n.Language) string {
	if t := g.Title.In(lang); t != "" {
		return t
	}
	return strings.TrimSpace(g.Alt)
}

// DecodeService maps a raw services record. categoryField names the field
// holding the category reference ("category" or "category_id").
func DecodeService(rec Record, categoryField string) (Service, error) {
	id, ok := toInt64(rec["id"])
	if !ok {
		return Service{}, errors.New("service: missing id")
	}
	s := Service{
		ID:          id,
		Name:        i18n.Collect(rec, "name"),
		Description: i18n.Collect(rec, "description"),
		Currency:    strings.ToUpper(strings.TrimSpace(stringValue(rec["currency"]))),
	}
	if strings.TrimSpace(s.Name[i18n.English]) == "" {
		return Service{}, fmt.Errorf("service %d: missing name_en", id)
	}
	price, ok := toFloat(rec["price"])
	if !ok || price < 0 {
		return Service{}, fmt.Errorf("service %d: invalid price %v", id, rec["price"])
	}
	s.Price = price
	s.Category = decodeCategoryRef(categoryValue(rec, categoryField))
	return s, nil
}

func categoryValue(rec Record, field string) any {
	if field != "" {
		if v, ok := rec[field]; ok && v != nil {
			return v
		}
	}
	for _, f := range []string{"category_id", "category"} {
		if v, ok := rec[f]; ok && v != nil {
			return v
		}
	}
	return nil
}

func decodeCategoryRef(v any) CategoryRef {
	switch t := v.(type) {
	case map[string]any:
		c, err := DecodeCategory(t)
		if err != nil {
			return CategoryRef{}
		}
		return CategoryExpanded(c)
	case Record:
		return decodeCategoryRef(map[string]any(t))
	case string:
		return CategoryKey(t)
	default:
		if id, ok := toInt64(v); ok {
			return CategoryID(id)
		}
		return CategoryRef{}
	}
}

// DecodeCategory maps a raw service_categories record.
func DecodeCategory(rec map[string]any) (ServiceCategory, error) {
	id, ok := toInt64(rec["id"])
	if !ok {
		return ServiceCategory{}, errors.New("category: missing id")
	}
	return ServiceCategory{ID: id, Title: i18n.Collect(rec, "title")}, nil
}

// DecodeGalleryItem maps a raw gallery record. image may be a file id or an
// expanded file record.
func DecodeGalleryItem(rec Record) (GalleryItem, error) {
	id, ok := toInt64(rec["id"])
	if !ok {
		return GalleryItem{}, errors.New("gallery: missing id")
	}
	image := stringValue(rec["image"])
	if file, ok := rec["image"].(map[string]any); ok {
		image = stringValue(file["id"])
	}
	image = strings.TrimSpace(image)
	if image == "" {
		return GalleryItem{}, fmt.Errorf("gallery %d: missing image", id)
	}
	return GalleryItem{
		ID:       id,
		Image:    image,
		Alt:      stringValue(rec["alt"]),
		Title:    i18n.Collect(rec, "title"),
		Category: stringValue(rec["category"]),
	}, nil
}

// ServiceQuery shapes ListServices.
type ServiceQuery struct {
	CategoryField  string // defaults to "category"
	SortByCategory bool
}

// ListServices reads the whole services collection. Records that cannot be
// decoded are skipped and logged.
func (c *Client) ListServices(ctx context.Context, q ServiceQuery) ([]Service, error) {
	field := strings.TrimSpace(q.CategoryField)
	if field == "" {
		field = "category"
	}
	opts := ListOptions{Limit: Unlimited, Fields: []string{"*"}}
	// "category" is a plain enum; any other field is a relation worth expanding.
	if field != "category" {
		opts.Fields = append(opts.Fields, field+".*")
	}
	if q.SortByCategory {
		opts.Sort = []string{field, "id"}
	}
	records, err := c.List(ctx, CollectionServices, opts)
	if err != nil {
		return nil, err
	}
	out := make([]Service, 0, len(records))
	for _, rec := range records {
		s, err := DecodeService(rec, field)
		if err != nil {
			observability.FromContext(ctx).Warn("cms: skip service record", zap.Error(err))
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

// ListCategories reads every service category.
func (c *Client) ListCategories(ctx context.Context) ([]ServiceCategory, error) {
	records, err := c.List(ctx, CollectionCategories, ListOptions{Limit: Unlimited, Sort: []string{"id"}})
	if err != nil {
		return nil, err
	}
	out := make([]ServiceCategory, 0, len(records))
	for _, rec := range records {
		cat, err := DecodeCategory(rec)
		if err != nil {
			observability.FromContext(ctx).Warn("cms: skip category record", zap.Error(err))
			continue
		}
		out = append(out, cat)
	}
	return out, nil
}

// GalleryFields is the projection requested for gallery reads.
var GalleryFields = []string{"id", "image", "alt", "category", "title_en", "title_uk", "title_cs"}

// ListGallery reads gallery items newest first. limit follows ListOptions.Limit.
func (c *Client) ListGallery(ctx context.Context, limit int) ([]GalleryItem, error) {
	records, err := c.List(ctx, CollectionGallery, ListOptions{
		Limit:  limit,
		Sort:   []string{"-id"},
		Fields: GalleryFields,
	})
	if err != nil {
		return nil, err
	}
	out := make([]GalleryItem, 0, len(records))
	for _, rec := range records {
		item, err := DecodeGalleryItem(rec)
		if err != nil {
			observability.FromContext(ctx).Warn("cms: skip gallery record", zap.Error(err))
			continue
		}
		out = append(out, item)
	}
	return out, nil
}

func stringValue(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		return t.String()
	default:
		return ""
	}
}

func toInt64(v any) (int64, bool) {
	switch t := v.(type) {
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i, true
		}
		if f, err := t.Float64(); err == nil && f == math.Trunc(f) {
			return int64(f), true
		}
	case int:
		return int64(t), true
	case int64:
		return t, true
	case float64:
		if t == math.Trunc(t) {
			return int64(t), true
		}
	case string:
		if i, err := strconv.ParseInt(strings.TrimSpace(t), 10, 64); err == nil {
			return i, true
		}
	}
	return 0, false
}

// toFloat accepts JSON numbers and decimal strings (Directus serializes
// decimal columns as strings).
func toFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	case float64:
		return t, !math.IsNaN(t) && !math.IsInf(t, 0)
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		return f, err == nil && !math.IsNaN(f) && !math.IsInf(f, 0)
	}
	return 0, false
}
