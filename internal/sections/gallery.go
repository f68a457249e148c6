package sections

import (
	"context"

	"go.uber.org/zap"

	"luxesalon.cz/salon-web/internal/cms"
	"luxesalon.cz/salon-web/internal/observability"
)

// GalleryLister is the content read the gallery needs.
type GalleryLister interface {
	ListGallery(ctx context.Context, limit int) ([]cms.GalleryItem, error)
}

// GalleryOptions selects the preview or the full listing.
type GalleryOptions struct {
	Limit   int  // cms.Unlimited for the full page
	Preview bool // offer a "view all" link
}

// PreviewGallery is the bounded home-page variant.
func PreviewGallery(limit int) GalleryOptions {
	if limit <= 0 {
		limit = 6
	}
	return GalleryOptions{Limit: limit, Preview: true}
}

// FullGallery lists every item.
func FullGallery() GalleryOptions { return GalleryOptions{Limit: cms.Unlimited} }

// Gallery backs the gallery section.
type Gallery struct {
	src  GalleryLister
	opts GalleryOptions
	l    loader[[]cms.GalleryItem]
}

// GallerySnapshot is the rendered view of a Gallery.
type GallerySnapshot struct {
	State       State
	Items       []cms.GalleryItem
	Err         error
	ShowViewAll bool
}

func NewGallery(src GalleryLister, opts GalleryOptions) *Gallery {
	return &Gallery{src: src, opts: opts}
}

// Load activates the section. It fetches only from Idle and returns the
// resulting state.
func (g *Gallery) Load(ctx context.Context) State {
	gen, ok := g.l.begin()
	if !ok {
		state, _, _ := g.l.snapshot()
		return state
	}
	items, err := g.src.ListGallery(ctx, g.opts.Limit)
	switch {
	case err != nil && cms.IsUnexpectedShape(err):
		observability.FromContext(ctx).Warn("gallery: unexpected payload", zap.Error(err))
		items, err = nil, nil
	case err != nil:
		observability.FromContext(ctx).Error("gallery: load failed", zap.Error(err))
	}
	if g.opts.Limit > 0 && len(items) > g.opts.Limit {
		items = items[:g.opts.Limit]
	}
	g.l.finish(gen, items, err)
	state, _, _ := g.l.snapshot()
	return state
}

// Deactivate discards any in-flight result and returns the section to Idle.
func (g *Gallery) Deactivate() { g.l.deactivate() }

func (g *Gallery) Snapshot() GallerySnapshot {
	state, items, err := g.l.snapshot()
	return GallerySnapshot{
		State:       state,
		Items:       items,
		Err:         err,
		ShowViewAll: g.opts.Preview && state == Loaded && len(items) > 0,
	}
}
