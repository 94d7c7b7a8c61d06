package errs

import "errors"

var (
	ErrRecordNotFound = errors.New("record not found")
	ErrValidation     = errors.New("validation failed")
	ErrUnknownJobType = errors.New("unknown job type")
	ErrTerminalStatus = errors.New("job already in terminal status")
	ErrProvider       = errors.New("photo provider request failed")
	ErrStorage        = errors.New("object storage request failed")
)
