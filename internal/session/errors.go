package session

import (
	"errors"
	"fmt"
)

var (
	ErrNoRecognizer  = errors.New("no recognizer has been created")
	ErrNoModelPath   = errors.New("no model path recorded")
	ErrDatabaseUnset = errors.New("database root is not set")
)

// NotFoundError reports a path the operator supplied that does not exist.
type NotFoundError struct {
	What string // "directory", "image" or "model"
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.What, e.Path)
}
