package entity

import "errors"

// Failure kinds raised by collaborators. Wrap them with fmt.Errorf("%w: ...")
// and test with errors.Is.
var (
	ErrTransport = errors.New("transport failure")
	ErrDataShape = errors.New("data shape failure")
	ErrNotFound  = errors.New("not found")
)
