package pg

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/moi-restaurants/tracker/core/recordstore"
)

// RecordStore is a recordstore.Store over PostgreSQL tables. A transaction attached with
// WithTx is used instead of the pool.
type RecordStore struct {
	pool *pgxpool.Pool
}

// NewRecordStore wraps pool.
func NewRecordStore(pool *pgxpool.Pool) *RecordStore {
	return &RecordStore{pool: pool}
}

func (s *RecordStore) db(ctx context.Context) querier {
	return querierFrom(ctx, s.pool)
}

func (s *RecordStore) Insert(ctx context.Context, table string, rec recordstore.Record) error {
	if err := recordstore.ValidateInsert(table, rec); err != nil {
		return err
	}

	sql, args := buildInsert(table, rec)
	if _, err := s.db(ctx).Exec(ctx, sql, args...); err != nil {
		if IsDuplicateKeyError(err) {
			return errors.Join(ErrDuplicateRecord, err)
		}
		return fmt.Errorf("pg: insert into %s: %w", table, err)
	}
	return nil
}

func (s *RecordStore) Update(ctx context.Context, table string, filter []recordstore.Condition, patch recordstore.Record) error {
	if err := recordstore.ValidateUpdate(table, filter, patch); err != nil {
		return err
	}

	sql, args := buildUpdate(table, filter, patch)
	if _, err := s.db(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("pg: update %s: %w", table, err)
	}
	return nil
}

func (s *RecordStore) Select(ctx context.Context, table string, q recordstore.Query) ([]recordstore.Record, error) {
	if err := recordstore.ValidateSelect(table, q); err != nil {
		return nil, err
	}

	sql, args := buildSelect(table, q)
	rows, err := s.db(ctx).Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("pg: select from %s: %w", table, err)
	}

	maps, err := pgx.CollectRows(rows, pgx.RowToMap)
	if err != nil {
		return nil, fmt.Errorf("pg: scan %s: %w", table, err)
	}

	out := make([]recordstore.Record, len(maps))
	for i, m := range maps {
		for k, v := range m {
			// uuid columns decode as raw bytes.
			if b, ok := v.([16]byte); ok {
				m[k] = uuid.UUID(b).String()
			}
		}
		out[i] = m
	}
	return out, nil
}

func quote(name string) string {
	return pgx.Identifier{name}.Sanitize()
}

func sortedColumns(rec recordstore.Record) []string {
	cols := make([]string, 0, len(rec))
	for c := range rec {
		cols = append(cols, c)
	}
	slices.Sort(cols)
	return cols
}

func buildInsert(table string, rec recordstore.Record) (string, []any) {
	cols := sortedColumns(rec)
	names := make([]string, len(cols))
	marks := make([]string, len(cols))
	args := make([]any, len(cols))
	for i, c := range cols {
		names[i] = quote(c)
		marks[i] = "$" + strconv.Itoa(i+1)
		args[i] = rec[c]
	}
	return "INSERT INTO " + quote(table) + " (" + strings.Join(names, ", ") + ") VALUES (" + strings.Join(marks, ", ") + ")", args
}

func buildUpdate(table string, filter []recordstore.Condition, patch recordstore.Record) (string, []any) {
	cols := sortedColumns(patch)
	sets := make([]string, len(cols))
	args := make([]any, 0, len(cols)+len(filter))
	for i, c := range cols {
		args = append(args, patch[c])
		sets[i] = quote(c) + " = $" + strconv.Itoa(len(args))
	}
	where, args := buildWhere(filter, args)
	return "UPDATE " + quote(table) + " SET " + strings.Join(sets, ", ") + where, args
}

func buildSelect(table string, q recordstore.Query) (string, []any) {
	var b strings.Builder
	b.WriteString("SELECT * FROM ")
	b.WriteString(quote(table))

	where, args := buildWhere(q.Filter, nil)
	b.WriteString(where)

	if q.Order != nil {
		b.WriteString(" ORDER BY ")
		b.WriteString(quote(q.Order.Column))
		if q.Order.Desc {
			b.WriteString(" DESC")
		}
	}
	if q.Limit > 0 {
		b.WriteString(" LIMIT ")
		b.WriteString(strconv.Itoa(q.Limit))
	}
	return b.String(), args
}

func buildWhere(filter []recordstore.Condition, args []any) (string, []any) {
	if len(filter) == 0 {
		return "", args
	}
	conds := make([]string, len(filter))
	for i, c := range filter {
		args = append(args, c.Value)
		conds[i] = quote(c.Column) + " = $" + strconv.Itoa(len(args))
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}
