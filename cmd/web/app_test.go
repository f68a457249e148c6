package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"luxesalon.cz/salon-web/internal/cms"
	"luxesalon.cz/salon-web/internal/sections"
)

// slowGallery returns its items only after the request is gone.
type slowGallery struct {
	started chan struct{}
}

func (s slowGallery) ListGallery(ctx context.Context, _ int) ([]cms.GalleryItem, error) {
	close(s.started)
	<-ctx.Done()
	return []cms.GalleryItem{{ID: 1, Image: "late"}}, nil
}

func TestActivateDropsResultsOfCancelledRequest(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	src := slowGallery{started: make(chan struct{})}
	gallery := sections.NewGallery(src, sections.PreviewGallery(6))

	go func() {
		<-src.started
		cancel()
	}()
	activate(ctx, gallery)

	snap := gallery.Snapshot()
	assert.Equal(t, sections.Idle, snap.State)
	assert.Empty(t, snap.Items)
}

func TestActivateKeepsResultsAfterCompletion(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	gallery := sections.NewGallery(cms.NewClient("", ""), sections.PreviewGallery(2))

	activate(ctx, gallery)
	cancel()

	snap := gallery.Snapshot()
	assert.Equal(t, sections.Loaded, snap.State)
	assert.Len(t, snap.Items, 2)
}
