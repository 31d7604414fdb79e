package domain

import "errors"

var (
	ErrImageNotFound  = errors.New("image not found")
	ErrDuplicateImage = errors.New("image already exists")
)
