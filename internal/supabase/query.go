package supabase

import (
	"context"
	"net/http"

	"github.com/go-resty/resty/v2"
)

// Query PostgREST request against one table.
type Query struct {
	c      *Client
	table  string
	params map[string]string
	single bool
}

// From starts a query on table.
func (c *Client) From(table string) *Query {
	return &Query{c: c, table: table, params: map[string]string{}}
}

// Eq filters column = value.
func (q *Query) Eq(column, value string) *Query {
	q.params[column] = "eq." + value
	return q
}

// Order sorts by column; multiple calls append.
func (q *Query) Order(column string, ascending bool) *Query {
	dir := "desc"
	if ascending {
		dir = "asc"
	}
	if prev, ok := q.params["order"]; ok {
		q.params["order"] = prev + "," + column + "." + dir
	} else {
		q.params["order"] = column + "." + dir
	}
	return q
}

// OrderBy takes a raw "col.dir[,col.dir]" clause.
func (q *Query) OrderBy(clause string) *Query {
	if clause != "" {
		q.params["order"] = clause
	}
	return q
}

// Single expects exactly one row; zero rows fail with CodeNoRows.
func (q *Query) Single() *Query {
	q.single = true
	return q
}

func (q *Query) path() string { return "/rest/v1/" + q.table }

func (q *Query) request(ctx context.Context) *resty.Request {
	req := q.c.request(ctx).SetQueryParams(q.params)
	if q.single {
		req.SetHeader("Accept", mediaSingleObject)
	}
	return req
}

// Select reads rows into out (a slice, or a struct when Single).
func (q *Query) Select(ctx context.Context, out any) error {
	req := q.request(ctx).SetQueryParam("select", "*")
	return q.c.send(req, http.MethodGet, q.path(), out)
}

// Insert creates row and reads back the representation.
func (q *Query) Insert(ctx context.Context, row any, out any) error {
	req := q.request(ctx).
		SetQueryParam("select", "*").
		SetHeader("Prefer", "return=representation").
		SetBody(row)
	return q.c.send(req, http.MethodPost, q.path(), out)
}

// Update patches the filtered rows and reads back the representation.
func (q *Query) Update(ctx context.Context, patch any, out any) error {
	req := q.request(ctx).
		SetQueryParam("select", "*").
		SetHeader("Prefer", "return=representation").
		SetBody(patch)
	return q.c.send(req, http.MethodPatch, q.path(), out)
}

// Upsert inserts row or merges it into the row conflicting on onConflict.
func (q *Query) Upsert(ctx context.Context, row any, onConflict string, out any) error {
	req := q.request(ctx).
		SetQueryParam("select", "*").
		SetQueryParam("on_conflict", onConflict).
		SetHeader("Prefer", "resolution=merge-duplicates,return=representation").
		SetBody(row)
	return q.c.send(req, http.MethodPost, q.path(), out)
}

// Delete removes the filtered rows.
func (q *Query) Delete(ctx context.Context) error {
	return q.c.send(q.request(ctx), http.MethodDelete, q.path(), nil)
}
