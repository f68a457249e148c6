package sections

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"luxesalon.cz/salon-web/internal/cms"
)

func galleryItems(ids ...int64) []cms.GalleryItem {
	out := make([]cms.GalleryItem, 0, len(ids))
	for _, id := range ids {
		out = append(out, cms.GalleryItem{ID: id, Image: "img"})
	}
	return out
}

func TestGalleryPreviewShowsNewestSix(t *testing.T) {
	src := &fakeGallery{items: galleryItems(12, 11, 10, 9, 8, 7)}
	g := NewGallery(src, PreviewGallery(6))

	assert.Equal(t, Idle, g.Snapshot().State)
	require.Equal(t, Loaded, g.Load(context.Background()))

	snap := g.Snapshot()
	assert.Equal(t, 6, src.limit)
	require.Len(t, snap.Items, 6)
	assert.Equal(t, int64(12), snap.Items[0].ID)
	assert.True(t, snap.ShowViewAll)
}

func TestGalleryRespectsLimit(t *testing.T) {
	src := &fakeGallery{items: galleryItems(5, 4, 3, 2, 1)}
	g := NewGallery(src, PreviewGallery(3))
	g.Load(context.Background())
	assert.Len(t, g.Snapshot().Items, 3)
}

func TestGalleryFullListingIsUnbounded(t *testing.T) {
	src := &fakeGallery{items: galleryItems(3, 2, 1)}
	g := NewGallery(src, FullGallery())
	g.Load(context.Background())

	snap := g.Snapshot()
	assert.Equal(t, cms.Unlimited, src.limit)
	assert.Len(t, snap.Items, 3)
	assert.False(t, snap.ShowViewAll)
}

func TestGalleryFailureLeavesEmptyList(t *testing.T) {
	src := &fakeGallery{items: galleryItems(1), err: &cms.TransportError{Op: "list", Err: errors.New("down")}}
	g := NewGallery(src, PreviewGallery(6))

	assert.Equal(t, Failed, g.Load(context.Background()))
	snap := g.Snapshot()
	assert.Empty(t, snap.Items)
	assert.Error(t, snap.Err)
	assert.False(t, snap.ShowViewAll)
}

func TestGalleryNonArrayIsEmptyNotFailed(t *testing.T) {
	src := &fakeGallery{err: &cms.TransportError{Op: "list", Err: cms.ErrUnexpectedShape}}
	g := NewGallery(src, PreviewGallery(6))

	assert.Equal(t, Loaded, g.Load(context.Background()))
	snap := g.Snapshot()
	assert.Empty(t, snap.Items)
	assert.NoError(t, snap.Err)
}

func TestGalleryLoadsOncePerActivation(t *testing.T) {
	src := &fakeGallery{items: galleryItems(1)}
	g := NewGallery(src, PreviewGallery(6))
	g.Load(context.Background())
	g.Load(context.Background())
	assert.Equal(t, 1, src.calls)

	g.Deactivate()
	assert.Equal(t, Idle, g.Snapshot().State)
	g.Load(context.Background())
	assert.Equal(t, 2, src.calls)
}

func TestGalleryDiscardsResultAfterDeactivate(t *testing.T) {
	src := &fakeGallery{items: galleryItems(1, 2)}
	g := NewGallery(src, PreviewGallery(6))
	src.hook = g.Deactivate

	g.Load(context.Background())
	snap := g.Snapshot()
	assert.Equal(t, Idle, snap.State)
	assert.Empty(t, snap.Items)
}
