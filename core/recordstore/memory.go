package recordstore

import (
	"cmp"
	"context"
	"fmt"
	"maps"
	"reflect"
	"slices"
	"sync"
	"time"
)

// Memory keeps tables in process memory. Rows are copied on the way in and out.
type Memory struct {
	mu     sync.RWMutex
	tables map[string][]Record
}

// NewMemory returns an empty store.
func NewMemory() *Memory {
	return &Memory{tables: make(map[string][]Record)}
}

func (m *Memory) Insert(ctx context.Context, table string, rec Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := ValidateInsert(table, rec); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.tables[table] = append(m.tables[table], maps.Clone(rec))
	return nil
}

func (m *Memory) Update(ctx context.Context, table string, filter []Condition, patch Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := ValidateUpdate(table, filter, patch); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, row := range m.tables[table] {
		if matches(row, filter) {
			maps.Copy(row, patch)
		}
	}
	return nil
}

func (m *Memory) Select(ctx context.Context, table string, q Query) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := ValidateSelect(table, q); err != nil {
		return nil, err
	}

	m.mu.RLock()
	out := make([]Record, 0, len(m.tables[table]))
	for _, row := range m.tables[table] {
		if matches(row, q.Filter) {
			out = append(out, maps.Clone(row))
		}
	}
	m.mu.RUnlock()

	if q.Order != nil {
		col, desc := q.Order.Column, q.Order.Desc
		slices.SortStableFunc(out, func(a, b Record) int {
			c := compareValues(a[col], b[col])
			if desc {
				return -c
			}
			return c
		})
	}
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

// Count returns the number of rows in table.
func (m *Memory) Count(table string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.tables[table])
}

func matches(row Record, filter []Condition) bool {
	for _, c := range filter {
		v, ok := row[c.Column]
		if !ok || compareValues(v, c.Value) != 0 {
			return false
		}
	}
	return true
}

// compareValues orders nil first, then numbers, times and strings by value. Mixed or
// unsupported kinds fall back to comparing their formatted form.
func compareValues(a, b any) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}

	if ta, ok := a.(time.Time); ok {
		if tb, ok := b.(time.Time); ok {
			return ta.Compare(tb)
		}
	}
	if fa, ok := toFloat(a); ok {
		if fb, ok := toFloat(b); ok {
			return cmp.Compare(fa, fb)
		}
	}
	if sa, ok := a.(string); ok {
		if sb, ok := b.(string); ok {
			return cmp.Compare(sa, sb)
		}
	}
	if ba, ok := a.(bool); ok {
		if bb, ok := b.(bool); ok {
			switch {
			case ba == bb:
				return 0
			case !ba:
				return -1
			default:
				return 1
			}
		}
	}
	return cmp.Compare(fmt.Sprint(a), fmt.Sprint(b))
}

func toFloat(v any) (float64, bool) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	default:
		return 0, false
	}
}
