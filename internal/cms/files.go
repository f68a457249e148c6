package cms

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"resty.dev/v3"
)

// Upload is a file handed to UploadFile.
type Upload struct {
	FileName    string
	ContentType string
	Body        io.Reader
}

// UploadFile stores up in the file library and returns the new file id.
// folder, when set, is sent ahead of the file part so the backend files it
// on arrival.
func (c *Client) UploadFile(ctx context.Context, up Upload, folder string) (string, error) {
	if up.Body == nil {
		return "", &TransportError{Op: "upload", Collection: "files", Err: errors.New("empty upload")}
	}
	if c.fallback != nil {
		if _, err := io.Copy(io.Discard, up.Body); err != nil {
			return "", &TransportError{Op: "upload", Collection: "files", Err: err}
		}
		return "local-" + uuid.NewString(), nil
	}

	payload, contentType, err := multipartBody(up, folder)
	if err != nil {
		return "", &TransportError{Op: "upload", Collection: "files", Err: err}
	}
	endpoint, err := c.endpoint("files")
	if err != nil {
		return "", &TransportError{Op: "upload", Collection: "files", Err: err}
	}
	body, err := c.do(ctx, "upload", "files", http.MethodPost, endpoint, func(r *resty.Request) {
		r.SetHeader("Content-Type", contentType)
		r.SetBody(payload)
	})
	if err != nil {
		return "", err
	}
	rec, err := decodeItem(body)
	if err != nil {
		return "", &TransportError{Op: "upload", Collection: "files", Err: err}
	}
	id := strings.TrimSpace(stringValue(rec["id"]))
	if id == "" {
		return "", &TransportError{Op: "upload", Collection: "files", Err: ErrUnexpectedShape}
	}
	return id, nil
}

func multipartBody(up Upload, folder string) ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if folder = strings.TrimSpace(folder); folder != "" {
		if err := w.WriteField("folder", folder); err != nil {
			return nil, "", err
		}
	}
	name := strings.TrimSpace(up.FileName)
	if name == "" {
		name = "attachment"
	}
	ct := strings.TrimSpace(up.ContentType)
	if ct == "" {
		ct = "application/octet-stream"
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, quoteEscaper.Replace(name)))
	h.Set("Content-Type", ct)
	part, err := w.CreatePart(h)
	if err != nil {
		return nil, "", err
	}
	if _, err := io.Copy(part, up.Body); err != nil {
		return nil, "", err
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// DeleteFile removes a stored file.
func (c *Client) DeleteFile(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return &TransportError{Op: "delete", Collection: "files", Err: errors.New("empty file id")}
	}
	if c.fallback != nil {
		return nil
	}
	endpoint, err := c.endpoint("files", id)
	if err != nil {
		return &TransportError{Op: "delete", Collection: "files", Err: err}
	}
	_, err = c.do(ctx, "delete", "files", http.MethodDelete, endpoint, nil)
	return err
}

// AssetURL returns the public URL of a stored file. Absolute URLs pass
// through unchanged.
func (c *Client) AssetURL(id string) string {
	id = strings.TrimSpace(id)
	if id == "" {
		return ""
	}
	if u, err := url.Parse(id); err == nil && u.IsAbs() {
		return id
	}
	return c.baseURL + "/assets/" + url.PathEscape(id)
}
