package cms

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"resty.dev/v3"
)

// CreateRecord inserts fields into collection and returns the stored record.
// Backends answering 204 yield an empty Record.
func (c *Client) CreateRecord(ctx context.Context, collection string, fields map[string]any) (Record, error) {
	if c.fallback != nil {
		rec := make(Record, len(fields)+1)
		for k, v := range fields {
			rec[k] = v
		}
		rec["id"] = "local-" + uuid.NewString()
		return rec, nil
	}
	payload, err := json.Marshal(fields)
	if err != nil {
		return nil, &TransportError{Op: "create", Collection: collection, Err: err}
	}
	endpoint, err := c.endpoint("items", collection)
	if err != nil {
		return nil, &TransportError{Op: "create", Collection: collection, Err: err}
	}
	body, err := c.do(ctx, "create", collection, http.MethodPost, endpoint, func(r *resty.Request) {
		r.SetHeader("Content-Type", "application/json")
		r.SetBody(payload)
	})
	if err != nil {
		return nil, err
	}
	rec, err := decodeItem(body)
	if err != nil {
		return nil, &TransportError{Op: "create", Collection: collection, Err: err}
	}
	return rec, nil
}
