package upload

import "errors"

var (
	ErrValidation = errors.New("validation error")
	ErrStorage    = errors.New("storage error")
	ErrLabeling   = errors.New("labeling error")
	ErrPersist    = errors.New("failed to save image record")
)
