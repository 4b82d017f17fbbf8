package treblo

import "errors"

var (
	ErrInvalidName   = errors.New("treblo: entry name is not valid UTF-8")
	ErrSizeMismatch  = errors.New("treblo: file size changed while hashing")
	ErrUnknownHasher = errors.New("treblo: unknown hasher")
	ErrRevisited     = errors.New("treblo: directory resolved twice")
	ErrNotRegular    = errors.New("treblo: not a regular file")
)
