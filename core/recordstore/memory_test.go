package recordstore_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moi-restaurants/tracker/core/recordstore"
)

func TestMemory_InsertSelect(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := recordstore.NewMemory()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	for i, path := range []string{"/", "/menu", "/"} {
		require.NoError(t, store.Insert(ctx, "page_views", recordstore.Record{
			"session_id": "s1",
			"page_path":  path,
			"created_at": base.Add(time.Duration(i) * time.Second),
		}))
	}
	require.NoError(t, store.Insert(ctx, "page_views", recordstore.Record{
		"session_id": "s2",
		"page_path":  "/",
		"created_at": base,
	}))

	t.Run("filters by equality", func(t *testing.T) {
		t.Parallel()

		rows, err := store.Select(ctx, "page_views", recordstore.Query{
			Filter: []recordstore.Condition{recordstore.Eq("session_id", "s1"), recordstore.Eq("page_path", "/")},
		})
		require.NoError(t, err)
		assert.Len(t, rows, 2)
	})

	t.Run("orders and limits", func(t *testing.T) {
		t.Parallel()

		rows, err := store.Select(ctx, "page_views", recordstore.Query{
			Filter: []recordstore.Condition{recordstore.Eq("session_id", "s1")},
			Order:  &recordstore.Order{Column: "created_at", Desc: true},
			Limit:  1,
		})
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, base.Add(2*time.Second), rows[0]["created_at"])
	})

	t.Run("returns copies", func(t *testing.T) {
		t.Parallel()

		rows, err := store.Select(ctx, "page_views", recordstore.Query{
			Filter: []recordstore.Condition{recordstore.Eq("session_id", "s2")},
		})
		require.NoError(t, err)
		require.Len(t, rows, 1)
		rows[0]["page_path"] = "/mutated"

		again, err := store.Select(ctx, "page_views", recordstore.Query{
			Filter: []recordstore.Condition{recordstore.Eq("session_id", "s2")},
		})
		require.NoError(t, err)
		assert.Equal(t, "/", again[0]["page_path"])
	})

	t.Run("unknown table is empty", func(t *testing.T) {
		t.Parallel()

		rows, err := store.Select(ctx, "events", recordstore.Query{})
		require.NoError(t, err)
		assert.Empty(t, rows)
	})
}

func TestMemory_Update(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := recordstore.NewMemory()
	require.NoError(t, store.Insert(ctx, "sessions", recordstore.Record{"session_id": "a", "page_views": 0}))
	require.NoError(t, store.Insert(ctx, "sessions", recordstore.Record{"session_id": "b", "page_views": 0}))

	require.NoError(t, store.Update(ctx, "sessions",
		[]recordstore.Condition{recordstore.Eq("session_id", "a")},
		recordstore.Record{"page_views": 3, "is_bounce": false}))

	rows, err := store.Select(ctx, "sessions", recordstore.Query{Order: &recordstore.Order{Column: "session_id"}})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, 3, rows[0]["page_views"])
	assert.Equal(t, false, rows[0]["is_bounce"])
	assert.Equal(t, 0, rows[1]["page_views"])

	// Numeric filters match across integer widths.
	require.NoError(t, store.Update(ctx, "sessions",
		[]recordstore.Condition{recordstore.Eq("page_views", int64(3))},
		recordstore.Record{"is_active": false}))
	rows, err = store.Select(ctx, "sessions", recordstore.Query{
		Filter: []recordstore.Condition{recordstore.Eq("is_active", false)},
	})
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestMemory_Validation(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := recordstore.NewMemory()

	tests := []struct {
		name string
		err  error
		run  func() error
	}{
		{"bad table", recordstore.ErrInvalidTable, func() error {
			return store.Insert(ctx, "drop table;", recordstore.Record{"a": 1})
		}},
		{"empty record", recordstore.ErrEmptyRecord, func() error {
			return store.Insert(ctx, "events", recordstore.Record{})
		}},
		{"bad column", recordstore.ErrInvalidColumn, func() error {
			return store.Insert(ctx, "events", recordstore.Record{"a-b": 1})
		}},
		{"update without filter", recordstore.ErrNoFilter, func() error {
			return store.Update(ctx, "events", nil, recordstore.Record{"a": 1})
		}},
		{"bad order column", recordstore.ErrInvalidColumn, func() error {
			_, err := store.Select(ctx, "events", recordstore.Query{Order: &recordstore.Order{Column: "1x"}})
			return err
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.ErrorIs(t, tt.run(), tt.err)
		})
	}
}

func TestMemory_CancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	store := recordstore.NewMemory()
	assert.ErrorIs(t, store.Insert(ctx, "events", recordstore.Record{"a": 1}), context.Canceled)
	assert.Equal(t, 0, store.Count("events"))
}

func TestValidateIdentifier(t *testing.T) {
	t.Parallel()

	for name, want := range map[string]bool{
		"session_id": true,
		"_private":   true,
		"col2":       true,
		"":           false,
		"2col":       false,
		"a b":        false,
		"a;":         false,
	} {
		assert.Equal(t, want, recordstore.ValidateIdentifier(name), name)
	}
}
