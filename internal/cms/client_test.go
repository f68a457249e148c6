package cms

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"luxesalon.cz/salon-web/internal/i18n"
)

func TestListSendsQueryAndDecodesEnvelope(t *testing.T) {
	var got *http.Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"data":[{"id":1,"name_en":"Haircut","price":"80.00","currency":"usd","category":"hair"}]}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/", "secret")
	services, err := c.ListServices(context.Background(), ServiceQuery{SortByCategory: true})
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, "/items/services", got.URL.Path)
	assert.Equal(t, "-1", got.URL.Query().Get("limit"))
	assert.Equal(t, "category,id", got.URL.Query().Get("sort"))
	assert.Equal(t, "Bearer secret", got.Header.Get("Authorization"))

	require.Len(t, services, 1)
	assert.Equal(t, int64(1), services[0].ID)
	assert.Equal(t, 80.0, services[0].Price)
	assert.Equal(t, "USD", services[0].Currency)
	assert.Equal(t, "hair", services[0].Category.Key())
}

func TestListExpandsRelationCategory(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "*,category_id.*", r.URL.Query().Get("fields"))
		_, _ = io.WriteString(w, `{"data":[
			{"id":1,"name_en":"Cut","price":10,"category_id":{"id":3,"title_en":"Hair","title_cs":"Vlasy"}},
			{"id":2,"name_en":"Color","price":20,"category_id":3}
		]}`)
	}))
	defer srv.Close()

	services, err := NewClient(srv.URL, "").ListServices(context.Background(), ServiceQuery{CategoryField: "category_id"})
	require.NoError(t, err)
	require.Len(t, services, 2)

	cat, ok := services[0].Category.Expanded()
	require.True(t, ok)
	assert.Equal(t, "Vlasy", cat.Title.In(i18n.Czech))
	_, ok = services[1].Category.Expanded()
	assert.False(t, ok)
	assert.Equal(t, services[0].Category.Key(), services[1].Category.Key())
}

func TestListSkipsInvalidRecords(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"data":[{"id":1,"price":10},{"id":2,"name_en":"Ok","price":-1},{"id":3,"name_en":"Kept","price":5}]}`)
	}))
	defer srv.Close()

	services, err := NewClient(srv.URL, "").ListServices(context.Background(), ServiceQuery{})
	require.NoError(t, err)
	require.Len(t, services, 1)
	assert.Equal(t, int64(3), services[0].ID)
}

func TestListRejectsNonArray(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"data":{"id":1}}`)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, "").ListGallery(context.Background(), 6)
	require.Error(t, err)
	assert.True(t, IsUnexpectedShape(err))
	var te *TransportError
	assert.True(t, errors.As(err, &te))
}

func TestListReportsStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, `{"errors":[{"message":"boom"}]}`)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, "").List(context.Background(), "services", ListOptions{})
	var te *TransportError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, http.StatusInternalServerError, te.Status)
	assert.Equal(t, "list", te.Op)
	assert.Contains(t, err.Error(), "boom")
	assert.False(t, IsUnexpectedShape(err))
}

func TestListUnreachableBackend(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewClient(url, "").List(context.Background(), "gallery", ListOptions{Limit: 1})
	var te *TransportError
	require.True(t, errors.As(err, &te))
	assert.Zero(t, te.Status)
}

func TestListGalleryQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "/items/gallery", r.URL.Path)
		assert.Equal(t, "6", q.Get("limit"))
		assert.Equal(t, "-id", q.Get("sort"))
		assert.Equal(t, strings.Join(GalleryFields, ","), q.Get("fields"))
		_, _ = io.WriteString(w, `{"data":[{"id":9,"image":{"id":"abc"},"alt":"Hall","title_uk":"Зала"},{"id":8,"alt":"no image"}]}`)
	}))
	defer srv.Close()

	items, err := NewClient(srv.URL, "").ListGallery(context.Background(), 6)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "abc", items[0].Image)
	assert.Equal(t, "Зала", items[0].Caption(i18n.Ukrainian))
	assert.Equal(t, "Hall", items[0].Caption(i18n.English))
}

func TestUploadFileSendsFolderFirst(t *testing.T) {
	var order []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/files", r.URL.Path)
		mr, err := r.MultipartReader()
		require.NoError(t, err)
		for {
			part, err := mr.NextPart()
			if err == io.EOF {
				break
			}
			require.NoError(t, err)
			order = append(order, part.FormName())
			if part.FormName() == "file" {
				assert.Equal(t, `pic "1".png`, part.FileName())
				body, _ := io.ReadAll(part)
				assert.Equal(t, "PNGDATA", string(body))
			}
		}
		_, _ = io.WriteString(w, `{"data":{"id":"file-1"}}`)
	}))
	defer srv.Close()

	id, err := NewClient(srv.URL, "").UploadFile(context.Background(), Upload{
		FileName:    `pic "1".png`,
		ContentType: "image/png",
		Body:        strings.NewReader("PNGDATA"),
	}, "folder-uuid")
	require.NoError(t, err)
	assert.Equal(t, "file-1", id)
	assert.Equal(t, []string{"folder", "file"}, order)
}

func TestUploadFileWithoutID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"data":{}}`)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, "").UploadFile(context.Background(), Upload{Body: strings.NewReader("x")}, "")
	assert.True(t, IsUnexpectedShape(err))
}

func TestCreateRecord(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/items/leads", r.URL.Path)
		var fields map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&fields))
		assert.Equal(t, "Anna", fields["name"])
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	rec, err := NewClient(srv.URL, "").CreateRecord(context.Background(), "leads", map[string]any{"name": "Anna"})
	require.NoError(t, err)
	assert.Empty(t, rec)
}

func TestDeleteFile(t *testing.T) {
	var path, method string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path, method = r.URL.Path, r.Method
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	require.NoError(t, NewClient(srv.URL, "").DeleteFile(context.Background(), "file-1"))
	assert.Equal(t, "/files/file-1", path)
	assert.Equal(t, http.MethodDelete, method)
}

func TestAssetURL(t *testing.T) {
	c := NewClient("https://cms.example.com/", "")
	assert.Equal(t, "https://cms.example.com/assets/abc-123", c.AssetURL("abc-123"))
	assert.Equal(t, "https://cdn.example.com/x.jpg", c.AssetURL("https://cdn.example.com/x.jpg"))
	assert.Equal(t, "", c.AssetURL(" "))
}

func TestFallbackDataset(t *testing.T) {
	c := NewClient("", "")
	require.True(t, c.Fallback())

	services, err := c.ListServices(context.Background(), ServiceQuery{SortByCategory: true})
	require.NoError(t, err)
	require.Len(t, services, 8)
	assert.Equal(t, "face", services[0].Category.Key())

	gallery, err := c.ListGallery(context.Background(), 4)
	require.NoError(t, err)
	require.Len(t, gallery, 4)
	assert.Equal(t, int64(6), gallery[0].ID)

	id, err := c.UploadFile(context.Background(), Upload{Body: strings.NewReader("x")}, "")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(id, "local-"))
}
