package media

import "errors"

var (
	ErrMediaNotFound = errors.New("media not found")
	ErrStorageError  = errors.New("storage error")
)
