package billing

import "errors"

var (
	ErrInvalidImportSource = errors.New("invalid import source")
	ErrReadSource          = errors.New("failed to read import source")
	ErrWriteReport         = errors.New("failed to write import report")
	ErrListSubscriptions   = errors.New("failed to list subscriptions")
)
