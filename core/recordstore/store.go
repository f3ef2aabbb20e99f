package recordstore

import (
	"context"
	"errors"
	"fmt"
)

// Record is one row: column name to value. Values are strings, numbers, booleans,
// time.Time, nil or JSON-like maps and slices.
type Record map[string]any

// Condition matches rows whose Column equals Value.
type Condition struct {
	Column string
	Value  any
}

// Eq builds an equality condition.
func Eq(column string, value any) Condition {
	return Condition{Column: column, Value: value}
}

// Order sorts Select results by one column.
type Order struct {
	Column string
	Desc   bool
}

// Query narrows a Select. The zero Query returns every row in insertion order.
type Query struct {
	Filter []Condition
	Order  *Order
	Limit  int // 0 means no limit
}

// Store is a remote table store. Implementations must be safe for concurrent use.
type Store interface {
	Insert(ctx context.Context, table string, rec Record) error
	// Update applies patch to every row matching all conditions of filter.
	// Matching nothing is not an error.
	Update(ctx context.Context, table string, filter []Condition, patch Record) error
	Select(ctx context.Context, table string, q Query) ([]Record, error)
}

// ValidateIdentifier reports whether name is safe to use as a table or column name:
// a letter or underscore followed by letters, digits or underscores.
func ValidateIdentifier(name string) bool {
	if name == "" || len(name) > 63 {
		return false
	}
	for i, r := range name {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}

// ValidateInsert checks table and column names of an Insert.
func ValidateInsert(table string, rec Record) error {
	if !ValidateIdentifier(table) {
		return fmt.Errorf("%w: %q", ErrInvalidTable, table)
	}
	if len(rec) == 0 {
		return ErrEmptyRecord
	}
	return validateColumns(rec)
}

// ValidateUpdate checks table, filter and patch of an Update.
func ValidateUpdate(table string, filter []Condition, patch Record) error {
	if !ValidateIdentifier(table) {
		return fmt.Errorf("%w: %q", ErrInvalidTable, table)
	}
	if len(filter) == 0 {
		return ErrNoFilter
	}
	if len(patch) == 0 {
		return ErrEmptyRecord
	}
	return errors.Join(validateConditions(filter), validateColumns(patch))
}

// ValidateSelect checks table, filter and order of a Select.
func ValidateSelect(table string, q Query) error {
	if !ValidateIdentifier(table) {
		return fmt.Errorf("%w: %q", ErrInvalidTable, table)
	}
	if err := validateConditions(q.Filter); err != nil {
		return err
	}
	if q.Order != nil && !ValidateIdentifier(q.Order.Column) {
		return fmt.Errorf("%w: %q", ErrInvalidColumn, q.Order.Column)
	}
	return nil
}

func validateColumns(rec Record) error {
	for col := range rec {
		if !ValidateIdentifier(col) {
			return fmt.Errorf("%w: %q", ErrInvalidColumn, col)
		}
	}
	return nil
}

func validateConditions(filter []Condition) error {
	for _, c := range filter {
		if !ValidateIdentifier(c.Column) {
			return fmt.Errorf("%w: %q", ErrInvalidColumn, c.Column)
		}
	}
	return nil
}
