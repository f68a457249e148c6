package sections

import (
	"context"
	"io"
	"strings"
	"sync"

	"luxesalon.cz/salon-web/internal/cms"
)

type fakeGallery struct {
	items []cms.GalleryItem
	err   error
	limit int
	calls int
	hook  func()
}

func (f *fakeGallery) ListGallery(_ context.Context, limit int) ([]cms.GalleryItem, error) {
	f.calls++
	f.limit = limit
	if f.hook != nil {
		f.hook()
	}
	return f.items, f.err
}

type fakeServices struct {
	services   []cms.Service
	categories []cms.ServiceCategory
	err        error
	catErr     error
	query      cms.ServiceQuery
	catCalls   int
}

func (f *fakeServices) ListServices(_ context.Context, q cms.ServiceQuery) ([]cms.Service, error) {
	f.query = q
	return f.services, f.err
}

func (f *fakeServices) ListCategories(context.Context) ([]cms.ServiceCategory, error) {
	f.catCalls++
	return f.categories, f.catErr
}

type leadCall struct {
	op     string
	folder string
	fields map[string]any
	body   string
	id     string
}

type fakeLeads struct {
	mu        sync.Mutex
	calls     []leadCall
	uploadID  string
	uploadErr error
	createErr error
}

func (f *fakeLeads) UploadFile(_ context.Context, up cms.Upload, folder string) (string, error) {
	b, _ := io.ReadAll(up.Body)
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, leadCall{op: "upload", folder: folder, body: string(b)})
	if f.uploadErr != nil {
		return "", f.uploadErr
	}
	return f.uploadID, nil
}

func (f *fakeLeads) CreateRecord(_ context.Context, collection string, fields map[string]any) (cms.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, leadCall{op: "create:" + collection, fields: fields})
	if f.createErr != nil {
		return nil, f.createErr
	}
	return cms.Record{"id": 1}, nil
}

func (f *fakeLeads) DeleteFile(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, leadCall{op: "delete", id: id})
	return nil
}

func (f *fakeLeads) ops() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.calls))
	for _, c := range f.calls {
		out = append(out, c.op)
	}
	return out
}

func textAttachment(name, body string) *Attachment {
	return &Attachment{
		FileName:    name,
		ContentType: "image/png",
		Size:        int64(len(body)),
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(strings.NewReader(body)), nil
		},
	}
}
