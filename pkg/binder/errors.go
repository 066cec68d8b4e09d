package binder

import "errors"

var (
	ErrUnsupportedMediaType = errors.New("unsupported media type")
	ErrFailedToParseJSON    = errors.New("failed to parse json body")
	ErrFailedToParseForm    = errors.New("failed to parse form body")
	ErrTargetMustBePointer  = errors.New("bind target must be a non-nil struct pointer")
)
