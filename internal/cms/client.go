package cms

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"resty.dev/v3"
)

// Unlimited requests every row of a collection.
const Unlimited = -1

// Record is a raw item as returned by the content API. Numbers are kept as
// json.Number.
type Record map[string]any

// ListOptions shape a collection read.
type ListOptions struct {
	Limit  int      // 0 leaves the backend default, Unlimited returns all rows
	Sort   []string // field names, "-" prefix for descending
	Fields []string // projection; dotted paths expand relations
	Filter map[string]any
}

func (o ListOptions) query() (map[string]string, error) {
	q := map[string]string{}
	if o.Limit != 0 {
		q["limit"] = strconv.Itoa(o.Limit)
	}
	if len(o.Sort) > 0 {
		q["sort"] = strings.Join(o.Sort, ",")
	}
	if len(o.Fields) > 0 {
		q["fields"] = strings.Join(o.Fields, ",")
	}
	if len(o.Filter) > 0 {
		b, err := json.Marshal(o.Filter)
		if err != nil {
			return nil, fmt.Errorf("encode filter: %w", err)
		}
		q["filter"] = string(b)
	}
	return q, nil
}

// Client is a typed wrapper over a Directus-style REST content API. Its
// configuration is immutable after NewClient, so one Client is shared by
// every request. An empty base URL serves the bundled fallback dataset.
type Client struct {
	baseURL  string
	token    string
	http     *resty.Client
	fallback *fallbackStore
}

// NewClient constructs a Client for baseURL. token, when set, is sent as a
// bearer token on every call.
func NewClient(baseURL, token string) *Client {
	c := &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		token:   strings.TrimSpace(token),
		http: resty.New().
			SetHeader("Accept", "application/json").
			SetHeader("User-Agent", "salon-web"),
	}
	if c.baseURL == "" {
		c.fallback = loadFallback()
	}
	return c
}

// BaseURL returns the configured API root ("" in fallback mode).
func (c *Client) BaseURL() string { return c.baseURL }

// Fallback reports whether reads are served from the bundled dataset.
func (c *Client) Fallback() bool { return c.fallback != nil }

// List reads records from collection.
func (c *Client) List(ctx context.Context, collection string, opts ListOptions) ([]Record, error) {
	if c.fallback != nil {
		return c.fallback.list(collection, opts), nil
	}
	q, err := opts.query()
	if err != nil {
		return nil, &TransportError{Op: "list", Collection: collection, Err: err}
	}
	endpoint, err := c.endpoint("items", collection)
	if err != nil {
		return nil, &TransportError{Op: "list", Collection: collection, Err: err}
	}
	body, err := c.do(ctx, "list", collection, http.MethodGet, endpoint, func(r *resty.Request) {
		r.SetQueryParams(q)
	})
	if err != nil {
		return nil, err
	}
	records, err := decodeList(body)
	if err != nil {
		return nil, &TransportError{Op: "list", Collection: collection, Err: err}
	}
	return records, nil
}

func (c *Client) endpoint(segments ...string) (string, error) {
	escaped := make([]string, 0, len(segments))
	for _, s := range segments {
		escaped = append(escaped, url.PathEscape(s))
	}
	return url.JoinPath(c.baseURL, escaped...)
}

// do executes one request and returns the response body of a 2xx answer.
func (c *Client) do(ctx context.Context, op, collection, method, endpoint string, prepare func(*resty.Request)) ([]byte, error) {
	req := c.http.R().SetContext(ctx)
	if c.token != "" {
		req.SetHeader("Authorization", "Bearer "+c.token)
	}
	if prepare != nil {
		prepare(req)
	}
	resp, err := req.Execute(method, endpoint)
	if err != nil {
		return nil, &TransportError{Op: op, Collection: collection, Err: err}
	}
	body := resp.String()
	if resp.IsError() {
		return nil, &TransportError{
			Op:         op,
			Collection: collection,
			Status:     resp.StatusCode(),
			Err:        errors.New(errorMessage(body)),
		}
	}
	return []byte(body), nil
}

// decodeList accepts {"data": [...]} or a bare array.
func decodeList(body []byte) ([]Record, error) {
	raw, err := unwrapData(body)
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 || raw[0] != '[' {
		return nil, ErrUnexpectedShape
	}
	var out []Record
	if err := decodeJSON(raw, &out); err != nil {
		return nil, fmt.Errorf("decode list: %w", err)
	}
	return out, nil
}

func decodeItem(body []byte) (Record, error) {
	raw, err := unwrapData(body)
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return Record{}, nil
	}
	if raw[0] != '{' {
		return nil, ErrUnexpectedShape
	}
	var out Record
	if err := decodeJSON(raw, &out); err != nil {
		return nil, fmt.Errorf("decode item: %w", err)
	}
	return out, nil
}

func unwrapData(body []byte) ([]byte, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return trimmed, nil
	}
	var env struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return nil, fmt.Errorf("decode envelope: %w", err)
	}
	return bytes.TrimSpace(env.Data), nil
}

func decodeJSON(raw []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	return dec.Decode(v)
}

// errorMessage extracts the first Directus error message, or a bounded
// prefix of the body.
func errorMessage(body string) string {
	var payload struct {
		Errors []struct {
			Message string `json:"message"`
		} `json:"errors"`
	}
	if err := json.Unmarshal([]byte(body), &payload); err == nil && len(payload.Errors) > 0 {
		if msg := strings.TrimSpace(payload.Errors[0].Message); msg != "" {
			return truncate(msg, 256)
		}
	}
	msg := strings.TrimSpace(body)
	if msg == "" {
		return "empty response"
	}
	return truncate(msg, 256)
}

func truncate(s string, limit int) string {
	if len(s) > limit {
		return s[:limit]
	}
	return s
}
