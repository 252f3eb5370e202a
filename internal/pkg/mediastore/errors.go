package mediastore

import "errors"

var (
	ErrPayloadTooLarge      = errors.New("file exceeds maximum allowed size")
	ErrEmptyFile            = errors.New("file is empty")
	ErrUnsupportedMediaType = errors.New("only images and videos can be uploaded")
	ErrMissingPublicID      = errors.New("public id is required")
	ErrUploadFailed         = errors.New("media upload failed")
	ErrDeleteFailed         = errors.New("media delete failed")
)
