package punch

import "errors"

var (
	ErrUnknownDirection     = errors.New("unknown direction code")
	ErrMalformedDate        = errors.New("date must be in DDMMYYYY format")
	ErrMalformedTime        = errors.New("time must be in HHMM format")
	ErrMissingEmployee      = errors.New("employee id is empty")
	ErrTooFewFields         = errors.New("record has fewer than 8 fields")
	ErrInvalidFileExtension = errors.New("invalid file type: only .txt, .csv, .dat allowed")
	ErrEmptyFile            = errors.New("file has no records")
)
