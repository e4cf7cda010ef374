package api

import (
	"context"
	"net/url"
	"strconv"

	"coinfixi/internal/table"
)

// ListParams selects one page of a list endpoint plus server-side filters.
type ListParams struct {
	Page    int
	Limit   int
	Filters map[string]string
}

func (p ListParams) query() url.Values {
	q := url.Values{}
	for k, v := range p.Filters {
		if v != "" {
			q.Set(k, v)
		}
	}
	page, limit := p.Page, p.Limit
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 25
	}
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(limit))
	return q
}

// ListRecords fetches one page from a paginated endpoint as table records.
func ListRecords[K ~string](ctx context.Context, c *Client, path string, p ListParams) (Page[table.Record[K]], error) {
	return Get[Page[table.Record[K]]](ctx, c, path, p.query())
}

// AllRecords fetches an endpoint that returns a bare array in its envelope.
func AllRecords[K ~string](ctx context.Context, c *Client, path string) ([]table.Record[K], error) {
	resp, err := Get[Response[[]table.Record[K]]](ctx, c, path, nil)
	return resp.Data, err
}

// GetRecord fetches one object as a table record.
func GetRecord[K ~string](ctx context.Context, c *Client, path string) (table.Record[K], error) {
	resp, err := Get[Response[table.Record[K]]](ctx, c, path, nil)
	return resp.Data, err
}
