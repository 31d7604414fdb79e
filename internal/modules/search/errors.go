package search

import "errors"

var (
	ErrValidation    = errors.New("validation error")
	ErrQueryParse    = errors.New("could not resolve query")
	ErrLanguageModel = errors.New("language model error")
	ErrCatalog       = errors.New("tag catalog error")
)
