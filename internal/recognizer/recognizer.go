// Package recognizer defines the face recognizer capability the shell drives.
// The recognition algorithms live in an external vision library; this package
// only names the variants and the operations the shell needs from them.
package recognizer

import (
	"errors"
	"fmt"
	"image"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/width"
)

// Kind selects one of the three library recognizers.
type Kind int

const (
	Eigen Kind = iota
	Fisher
	LBPH
)

var (
	ErrUnknownKind            = errors.New("unknown recognizer")
	ErrNotTrained             = errors.New("recognizer has not been trained or loaded")
	ErrIncrementalUnsupported = errors.New("recognizer does not support incremental training")
	ErrEmptyTrainingSet       = errors.New("no training images")
	ErrLabelMismatch          = errors.New("number of images and labels differ")
)

var kindNames = map[Kind]string{
	Eigen:  "EIGEN",
	Fisher: "FISHER",
	LBPH:   "LBPH",
}

// Kinds lists every supported recognizer in display order.
func Kinds() []Kind {
	return []Kind{Eigen, Fisher, LBPH}
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// DisplayName is the name printed when a recognizer of this kind is created.
func (k Kind) DisplayName() string {
	switch k {
	case Eigen:
		return "EigenFaceRecognizer"
	case Fisher:
		return "FisherFaceRecognizer"
	case LBPH:
		return "LBPHFaceRecognizer"
	}
	return k.String()
}

// Incremental reports whether the library can extend an already trained
// model of this kind with more samples. Only LBPH can.
func (k Kind) Incremental() bool {
	return k == LBPH
}

// ParseKind matches name against the known recognizers ignoring case and
// character width, so full-width input from CJK keyboards is accepted.
func ParseKind(name string) (Kind, error) {
	fold := cases.Fold()
	folded := fold.String(width.Fold.String(strings.TrimSpace(name)))
	for _, k := range Kinds() {
		if fold.String(k.String()) == folded {
			return k, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, name)
}

// Params are the hyperparameters a recognizer is constructed with.
// Zero values leave the library defaults in place.
type Params struct {
	Components int
	Threshold  float64
}

// DefaultParams returns the fixed hyperparameters used for each kind.
func DefaultParams(k Kind) Params {
	if k == Eigen {
		return Params{Components: 300, Threshold: 10.0}
	}
	return Params{}
}

// Recognizer is a trained or trainable face recognizer handle.
// All images must be grayscale templates of identical size.
type Recognizer interface {
	Kind() Kind
	// Train replaces any learned state with a model fitted to images.
	Train(images []*image.Gray, labels []int) error
	// Update extends the learned state. Fails with ErrIncrementalUnsupported
	// for kinds that cannot do this.
	Update(images []*image.Gray, labels []int) error
	// Predict returns the nearest label. What "no match" looks like is up
	// to the library (usually -1).
	Predict(img *image.Gray) (int, error)
	Save(path string) error
	Load(path string) error
	Close() error
}

// Factory constructs recognizers.
type Factory interface {
	New(kind Kind, params Params) (Recognizer, error)
}

// FactoryFunc adapts a function to the Factory interface.
type FactoryFunc func(kind Kind, params Params) (Recognizer, error)

func (f FactoryFunc) New(kind Kind, params Params) (Recognizer, error) {
	return f(kind, params)
}

// CheckSamples validates a training batch before it is handed to a library.
func CheckSamples(images []*image.Gray, labels []int) error {
	if len(images) == 0 {
		return ErrEmptyTrainingSet
	}
	if len(images) != len(labels) {
		return fmt.Errorf("%w: %d images, %d labels", ErrLabelMismatch, len(images), len(labels))
	}
	return nil
}

// DistinctLabels counts the different labels in labels.
func DistinctLabels(labels []int) int {
	seen := make(map[int]struct{}, len(labels))
	for _, l := range labels {
		seen[l] = struct{}{}
	}
	return len(seen)
}
