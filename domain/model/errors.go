package model

import "errors"

// Error taxonomy shared by usecases and handlers. Repositories wrap store
// failures with ErrQueryFailed and missing documents with ErrNotFound so
// handlers can map them to status codes with errors.Is.
var (
	ErrValidation  = errors.New("validation failed")
	ErrNotFound    = errors.New("not found")
	ErrForbidden   = errors.New("forbidden")
	ErrQueryFailed = errors.New("query failed")
)
