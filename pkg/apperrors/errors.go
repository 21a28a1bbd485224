package apperrors

import "errors"

var (
	ErrNotFound     = errors.New("not found")
	ErrUnknownStage = errors.New("unknown pipeline stage")
)
