package repository

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"lifeband-data/internal/supabase"
)

// restTable one table of the hosted PostgREST API.
type restTable[T any, P entity[T]] struct {
	c      *supabase.Client
	spec   table
	logger *zap.Logger
}

func newRestTable[T any, P entity[T]](c *supabase.Client, spec table, logger *zap.Logger) *restTable[T, P] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &restTable[T, P]{c: c, spec: spec, logger: logger}
}

func (t *restTable[T, P]) fail(op string, err error) error {
	be := &BackendError{Op: op, Table: t.spec.name, Err: err}
	var apiErr *supabase.Error
	if errors.As(err, &apiErr) {
		be.Code = apiErr.Code
	}
	t.logger.Error("backend operation failed",
		zap.String("op", op),
		zap.String("table", t.spec.name),
		zap.Error(err),
	)
	return be
}

// listBy rows where column = value, in the table's order.
func (t *restTable[T, P]) listBy(ctx context.Context, column, value string) ([]*T, error) {
	var rows []T
	err := t.c.From(t.spec.name).Eq(column, value).OrderBy(restOrder(t.spec.order)).Select(ctx, &rows)
	if err != nil {
		return nil, t.fail("list", err)
	}
	out := make([]*T, len(rows))
	for i := range rows {
		out[i] = &rows[i]
	}
	return out, nil
}

// findBy single row where column = value. (nil, nil) when none.
func (t *restTable[T, P]) findBy(ctx context.Context, column, value string) (*T, error) {
	var row T
	err := t.c.From(t.spec.name).Eq(column, value).Single().Select(ctx, &row)
	if supabase.IsNoRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, t.fail("get", err)
	}
	return &row, nil
}

func (t *restTable[T, P]) getBy(ctx context.Context, column, value string) (*T, error) {
	row, err := t.findBy(ctx, column, value)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, ErrNotFound
	}
	return row, nil
}

func (t *restTable[T, P]) get(ctx context.Context, id string) (*T, error) {
	return t.getBy(ctx, "id", id)
}

// insert sends the data columns; ids and timestamps are backend defaults
// unless an id is preset.
func (t *restTable[T, P]) insert(ctx context.Context, rec *T) (*T, error) {
	body, err := t.body(rec)
	if err != nil {
		return nil, t.fail("create", err)
	}
	var row T
	if err := t.c.From(t.spec.name).Single().Insert(ctx, body, &row); err != nil {
		return nil, t.fail("create", err)
	}
	return &row, nil
}

// update returns (nil, nil) when id is absent.
func (t *restTable[T, P]) update(ctx context.Context, id string, patch Patch) (*T, error) {
	var row T
	err := t.c.From(t.spec.name).Eq("id", id).Single().Update(ctx, t.spec.writable(patch), &row)
	if supabase.IsNoRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, t.fail("update", err)
	}
	return &row, nil
}

func (t *restTable[T, P]) upsert(ctx context.Context, conflict string, rec *T) (*T, error) {
	body, err := t.body(rec)
	if err != nil {
		return nil, t.fail("upsert", err)
	}
	var row T
	if err := t.c.From(t.spec.name).Single().Upsert(ctx, body, conflict, &row); err != nil {
		return nil, t.fail("upsert", err)
	}
	return &row, nil
}

func (t *restTable[T, P]) delete(ctx context.Context, id string) error {
	if err := t.c.From(t.spec.name).Eq("id", id).Delete(ctx); err != nil {
		return t.fail("delete", err)
	}
	return nil
}

func (t *restTable[T, P]) body(rec *T) (Patch, error) {
	body, err := dataColumns(rec, t.spec)
	if err != nil {
		return nil, err
	}
	if id := P(rec).Base().ID; id != "" {
		body["id"] = id
	}
	return body, nil
}

// restOrder maps "col.dir" table orders; priority lists break ties newest first.
func restOrder(order string) string {
	if strings.HasPrefix(order, "priority.") {
		return order + "," + orderNewest
	}
	return order
}
