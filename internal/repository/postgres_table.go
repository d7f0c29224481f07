package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

// pgTable one table over a direct Postgres connection.
type pgTable[T any, P entity[T]] struct {
	db     *sql.DB
	spec   table
	fields fieldsFunc[T]
	logger *zap.Logger
}

func newPgTable[T any, P entity[T]](db *sql.DB, spec table, fields fieldsFunc[T], logger *zap.Logger) *pgTable[T, P] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &pgTable[T, P]{db: db, spec: spec, fields: fields, logger: logger}
}

func (t *pgTable[T, P]) fail(op string, err error) error {
	be := &BackendError{Op: op, Table: t.spec.name, Err: err}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		be.Code = string(pqErr.Code)
	}
	t.logger.Error("database operation failed",
		zap.String("op", op),
		zap.String("table", t.spec.name),
		zap.Error(err),
	)
	return be
}

// selectList id, created_at, updated_at, then the data columns.
func (t *pgTable[T, P]) selectList() string {
	cols := make([]string, 0, len(t.spec.columns)+3)
	cols = append(cols, "id::text", "created_at", "updated_at")
	for _, c := range t.spec.columns {
		if c.cast != "" {
			cols = append(cols, fmt.Sprintf("%s::%s AS %s", c.name, c.cast, c.name))
		} else {
			cols = append(cols, c.name)
		}
	}
	return strings.Join(cols, ", ")
}

func (t *pgTable[T, P]) dest(row *T) []any {
	base := P(row).Base()
	return append([]any{&base.ID, &base.CreatedAt, &base.UpdatedAt}, t.fields(row)...)
}

func (t *pgTable[T, P]) orderBy() string {
	switch t.spec.order {
	case orderPriority:
		return "priority ASC, created_at DESC"
	default:
		return "created_at DESC"
	}
}

func (t *pgTable[T, P]) scanOne(ctx context.Context, query string, args ...any) (*T, error) {
	var row T
	if err := t.db.QueryRowContext(ctx, query, args...).Scan(t.dest(&row)...); err != nil {
		return nil, err
	}
	return &row, nil
}

func (t *pgTable[T, P]) listBy(ctx context.Context, column, value string) ([]*T, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s = $1 ORDER BY %s",
		t.selectList(), t.spec.name, column, t.orderBy())

	rows, err := t.db.QueryContext(ctx, query, value)
	if err != nil {
		return nil, t.fail("list", err)
	}
	defer rows.Close()

	out := []*T{}
	for rows.Next() {
		var row T
		if err := rows.Scan(t.dest(&row)...); err != nil {
			return nil, t.fail("list", err)
		}
		out = append(out, &row)
	}
	if err := rows.Err(); err != nil {
		return nil, t.fail("list", err)
	}
	return out, nil
}

// findBy (nil, nil) when no row matches.
func (t *pgTable[T, P]) findBy(ctx context.Context, column, value string) (*T, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s = $1 LIMIT 1", t.selectList(), t.spec.name, column)
	row, err := t.scanOne(ctx, query, value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, t.fail("get", err)
	}
	return row, nil
}

func (t *pgTable[T, P]) getBy(ctx context.Context, column, value string) (*T, error) {
	row, err := t.findBy(ctx, column, value)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, fmt.Errorf("%s %s=%s: %w", t.spec.name, column, value, ErrNotFound)
	}
	return row, nil
}

func (t *pgTable[T, P]) get(ctx context.Context, id string) (*T, error) {
	return t.getBy(ctx, "id", id)
}

// insertColumns data columns plus id when preset.
func (t *pgTable[T, P]) insertColumns(rec *T) ([]string, []any) {
	cols := make([]string, 0, len(t.spec.columns)+1)
	args := make([]any, 0, len(t.spec.columns)+1)
	if id := P(rec).Base().ID; id != "" {
		cols = append(cols, "id")
		args = append(args, id)
	}
	for i, f := range t.fields(rec) {
		cols = append(cols, t.spec.columns[i].name)
		args = append(args, f)
	}
	return cols, args
}

func placeholders(n int) string {
	ph := make([]string, n)
	for i := range ph {
		ph[i] = fmt.Sprintf("$%d", i+1)
	}
	return strings.Join(ph, ", ")
}

func (t *pgTable[T, P]) insert(ctx context.Context, rec *T) (*T, error) {
	cols, args := t.insertColumns(rec)
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING %s",
		t.spec.name, strings.Join(cols, ", "), placeholders(len(cols)), t.selectList())

	row, err := t.scanOne(ctx, query, args...)
	if err != nil {
		return nil, t.fail("create", err)
	}
	return row, nil
}

// upsert on conflict overwrites the data columns; NULL optional columns keep
// the stored value.
func (t *pgTable[T, P]) upsert(ctx context.Context, conflict string, rec *T) (*T, error) {
	cols, args := t.insertColumns(rec)
	sets := make([]string, 0, len(t.spec.columns)+1)
	for _, c := range t.spec.columns {
		if c.name == conflict {
			continue
		}
		if c.nullable {
			sets = append(sets, fmt.Sprintf("%s = COALESCE(EXCLUDED.%s, %s.%s)", c.name, c.name, t.spec.name, c.name))
		} else {
			sets = append(sets, fmt.Sprintf("%s = EXCLUDED.%s", c.name, c.name))
		}
	}
	sets = append(sets, "updated_at = now()")

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) ON CONFLICT (%s) DO UPDATE SET %s RETURNING %s",
		t.spec.name, strings.Join(cols, ", "), placeholders(len(cols)), conflict, strings.Join(sets, ", "), t.selectList())

	row, err := t.scanOne(ctx, query, args...)
	if err != nil {
		return nil, t.fail("upsert", err)
	}
	return row, nil
}

// update returns (nil, nil) when id is absent.
func (t *pgTable[T, P]) update(ctx context.Context, id string, patch Patch) (*T, error) {
	patch = t.spec.writable(patch)
	keys := make([]string, 0, len(patch))
	for k := range patch {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	sets := make([]string, 0, len(keys)+1)
	args := []any{id}
	for _, k := range keys {
		args = append(args, patch[k])
		sets = append(sets, fmt.Sprintf("%s = $%d", k, len(args)))
	}
	sets = append(sets, "updated_at = now()")

	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = $1 RETURNING %s",
		t.spec.name, strings.Join(sets, ", "), t.selectList())

	row, err := t.scanOne(ctx, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, t.fail("update", err)
	}
	return row, nil
}

func (t *pgTable[T, P]) delete(ctx context.Context, id string) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE id = $1", t.spec.name)
	if _, err := t.db.ExecContext(ctx, query, id); err != nil {
		return t.fail("delete", err)
	}
	return nil
}
