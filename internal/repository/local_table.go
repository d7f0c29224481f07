package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"lifeband-data/internal/collection"
)

// localTable one relational table emulated as a JSON array under spec.key.
// read-modify-write cycles hold mu.
type localTable[T any, P entity[T]] struct {
	store  collection.Storage
	spec   table
	logger *zap.Logger
	now    func() time.Time
	mu     sync.Mutex
}

func newLocalTable[T any, P entity[T]](s collection.Storage, spec table, logger *zap.Logger) *localTable[T, P] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &localTable[T, P]{store: s, spec: spec, logger: logger, now: time.Now}
}

func (t *localTable[T, P]) load(ctx context.Context) []T {
	return collection.Load(ctx, t.store, t.spec.key, []T{}, t.logger)
}

func (t *localTable[T, P]) save(ctx context.Context, items []T) {
	collection.Save(ctx, t.store, t.spec.key, items, t.logger)
}

func (t *localTable[T, P]) newestFirst(a, b *T) bool {
	return P(a).Base().CreatedAt.After(P(b).Base().CreatedAt)
}

// list returns the matching rows, stably sorted by less when given.
func (t *localTable[T, P]) list(ctx context.Context, match func(*T) bool, less func(a, b *T) bool) []*T {
	t.mu.Lock()
	items := t.load(ctx)
	t.mu.Unlock()

	out := make([]*T, 0, len(items))
	for i := range items {
		if match == nil || match(&items[i]) {
			out = append(out, &items[i])
		}
	}
	if less != nil {
		sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	}
	return out
}

func (t *localTable[T, P]) find(ctx context.Context, match func(*T) bool) *T {
	t.mu.Lock()
	items := t.load(ctx)
	t.mu.Unlock()

	for i := range items {
		if match(&items[i]) {
			return &items[i]
		}
	}
	return nil
}

func (t *localTable[T, P]) byID(id string) func(*T) bool {
	return func(v *T) bool { return P(v).Base().ID == id }
}

func (t *localTable[T, P]) get(ctx context.Context, id string) (*T, error) {
	if v := t.find(ctx, t.byID(id)); v != nil {
		return v, nil
	}
	return nil, ErrNotFound
}

// insert assigns id (unless preset) and both timestamps, prepends the row.
func (t *localTable[T, P]) insert(ctx context.Context, rec *T) *T {
	t.mu.Lock()
	defer t.mu.Unlock()

	row := *rec
	if base := P(&row).Base(); base.ID == "" {
		base.ID = collection.GenerateID(t.spec.prefix)
	}
	P(&row).Stamp(t.now())

	items := t.load(ctx)
	items = append([]T{row}, items...)
	t.save(ctx, items)
	return &row
}

// update returns (nil, nil) when id is absent.
func (t *localTable[T, P]) update(ctx context.Context, id string, patch Patch) (*T, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	items := t.load(ctx)
	for i := range items {
		if P(&items[i]).Base().ID != id {
			continue
		}
		merged, err := mergePatch(&items[i], t.spec.writable(patch))
		if err != nil {
			return nil, err
		}
		P(merged).Touch(t.now())
		items[i] = *merged
		t.save(ctx, items)
		row := items[i]
		return &row, nil
	}
	return nil, nil
}

// upsert overwrites the first row matching match with rec's data columns,
// or inserts rec when none matches.
func (t *localTable[T, P]) upsert(ctx context.Context, match func(*T) bool, rec *T) (*T, error) {
	t.mu.Lock()
	items := t.load(ctx)
	for i := range items {
		if !match(&items[i]) {
			continue
		}
		patch, err := dataColumns(rec, t.spec)
		if err != nil {
			t.mu.Unlock()
			return nil, err
		}
		merged, err := mergePatch(&items[i], patch)
		if err != nil {
			t.mu.Unlock()
			return nil, err
		}
		P(merged).Touch(t.now())
		items[i] = *merged
		t.save(ctx, items)
		row := items[i]
		t.mu.Unlock()
		return &row, nil
	}
	t.mu.Unlock()
	return t.insert(ctx, rec), nil
}

func (t *localTable[T, P]) delete(ctx context.Context, id string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	items := t.load(ctx)
	kept := items[:0]
	for i := range items {
		if P(&items[i]).Base().ID != id {
			kept = append(kept, items[i])
		}
	}
	t.save(ctx, kept)
}

// mergePatch overlays patch onto a JSON view of rec.
func mergePatch[T any](rec *T, patch Patch) (*T, error) {
	raw, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPatch, err)
	}
	fields := map[string]any{}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPatch, err)
	}
	for k, v := range patch {
		fields[k] = v
	}
	raw, err = json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPatch, err)
	}
	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPatch, err)
	}
	return &out, nil
}

// dataColumns the JSON fields of rec that belong to spec's columns.
// Omitted optional fields stay omitted.
func dataColumns(rec any, spec table) (Patch, error) {
	raw, err := json.Marshal(rec)
	if err != nil {
		return nil, err
	}
	fields := map[string]any{}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}
	out := make(Patch, len(fields))
	for k, v := range fields {
		if spec.hasColumn(k) {
			out[k] = v
		}
	}
	return out, nil
}
