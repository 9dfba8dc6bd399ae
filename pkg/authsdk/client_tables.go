package authsdk

import (
	"context"
	"net/url"
	"strconv"
)

// ListTables lists every table in the served file.
func (c *SDKClient) ListTables(ctx context.Context) (*ListTablesResponse, error) {
	var out ListTablesResponse
	if err := c.getJSON(ctx, "/v1/tables", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ReadTable reads one page of raw rows. A zero limit uses the server default.
func (c *SDKClient) ReadTable(ctx context.Context, table string, limit, offset int) (*TableRowsResponse, error) {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	if offset > 0 {
		q.Set("offset", strconv.Itoa(offset))
	}

	var out TableRowsResponse
	if err := c.getJSON(ctx, "/v1/tables/"+url.PathEscape(table), q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ReadAll pages through a table pageSize rows at a time and returns every
// row. Rows added while paging may be missed or repeated.
func (c *SDKClient) ReadAll(ctx context.Context, table string, pageSize int) (*TableRowsResponse, error) {
	first, err := c.ReadTable(ctx, table, pageSize, 0)
	if err != nil {
		return nil, err
	}
	for len(first.Rows) < first.Total {
		page, err := c.ReadTable(ctx, table, pageSize, len(first.Rows))
		if err != nil {
			return nil, err
		}
		if len(page.Rows) == 0 {
			break
		}
		first.Rows = append(first.Rows, page.Rows...)
	}
	first.Limit = len(first.Rows)
	first.Offset = 0
	return first, nil
}
