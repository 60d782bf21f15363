package internal

import "errors"

var (
	// ErrFileTooLarge is returned before reading a file whose size exceeds the limit.
	ErrFileTooLarge = errors.New("file exceeds size limit")

	// ErrDecode is returned when file content cannot be decoded with the configured encoding.
	ErrDecode = errors.New("undecodable content")

	// ErrInvalidPattern is returned for patterns that do not compile or do not
	// carry exactly one capture group.
	ErrInvalidPattern = errors.New("invalid pattern")

	// ErrUnknownEncoding is returned when the configured encoding name is not recognized.
	ErrUnknownEncoding = errors.New("unknown encoding")
)
