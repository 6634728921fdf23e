package storage

import "errors"

var (
	ErrPhotoNotFound = errors.New("photo not found")
)

var (
	ErrObjectNotFound       = errors.New("object not found")
	ErrIncompleteDescriptor = errors.New("storage returned incomplete descriptor")
	ErrInvalidObjectKey     = errors.New("invalid object key")
)
