package recordstore

import "errors"

var (
	ErrInvalidTable  = errors.New("recordstore: invalid table name")
	ErrInvalidColumn = errors.New("recordstore: invalid column name")
	ErrEmptyRecord   = errors.New("recordstore: record has no columns")
	ErrNoFilter      = errors.New("recordstore: update requires a filter")
)
