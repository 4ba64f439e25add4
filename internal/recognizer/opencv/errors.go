// Package opencv backs the recognizer interfaces with the OpenCV face module
// through gocv. Build with -tags opencv; OpenCV with the contrib modules must
// be installed. Without the tag every recognizer request fails with
// ErrUnavailable.
package opencv

import "errors"

// ErrUnavailable is returned when recognizers are requested from a binary
// built without the opencv tag.
var ErrUnavailable = errors.New("built without OpenCV support, rebuild with -tags opencv")

// ErrClosed is returned by a recognizer used after Close.
var ErrClosed = errors.New("recognizer is closed")
