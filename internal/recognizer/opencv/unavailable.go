//go:build !opencv

package opencv

import (
	"github.com/kozaktomas/face-shell/internal/recognizer"
)

// Available reports whether this binary was built with OpenCV support.
const Available = false

// NewFactory returns a factory that always fails with ErrUnavailable.
func NewFactory() recognizer.Factory {
	return recognizer.FactoryFunc(New)
}

func New(kind recognizer.Kind, params recognizer.Params) (recognizer.Recognizer, error) {
	return nil, ErrUnavailable
}
