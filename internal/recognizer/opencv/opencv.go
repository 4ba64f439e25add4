//go:build opencv

package opencv

import (
	"fmt"
	"image"

	"github.com/kozaktomas/face-shell/internal/recognizer"
	"gocv.io/x/gocv"
	"gocv.io/x/gocv/contrib"
)

// Available reports whether this binary was built with OpenCV support.
const Available = true

// model is the subset of the gocv contrib recognizers used here.
type model interface {
	Train(images []gocv.Mat, labels []int) error
	Predict(sample gocv.Mat) int
	SaveFile(fname string) error
	LoadFile(fname string) error
	Close() error
}

type updater interface {
	Update(images []gocv.Mat, labels []int) error
}

// Recognizer wraps one OpenCV face recognizer.
type Recognizer struct {
	kind    recognizer.Kind
	model   model
	trained bool
}

// NewFactory returns a factory creating OpenCV recognizers.
func NewFactory() recognizer.Factory {
	return recognizer.FactoryFunc(New)
}

// New creates an OpenCV recognizer of the given kind.
func New(kind recognizer.Kind, params recognizer.Params) (recognizer.Recognizer, error) {
	var m model
	switch kind {
	case recognizer.Eigen:
		r := contrib.NewEigenFaceRecognizer()
		if params.Components > 0 {
			r.SetNumComponents(params.Components)
		}
		if params.Threshold > 0 {
			r.SetThreshold(float32(params.Threshold))
		}
		m = r
	case recognizer.Fisher:
		r := contrib.NewFisherFaceRecognizer()
		if params.Components > 0 {
			r.SetNumComponents(params.Components)
		}
		if params.Threshold > 0 {
			r.SetThreshold(float32(params.Threshold))
		}
		m = r
	case recognizer.LBPH:
		r := contrib.NewLBPHFaceRecognizer()
		if params.Threshold > 0 {
			r.SetThreshold(float32(params.Threshold))
		}
		m = r
	default:
		return nil, fmt.Errorf("%w: %v", recognizer.ErrUnknownKind, kind)
	}

	return &Recognizer{kind: kind, model: m}, nil
}

func (r *Recognizer) Kind() recognizer.Kind {
	return r.kind
}

// Train fits the model to images, discarding anything learned before.
func (r *Recognizer) Train(images []*image.Gray, labels []int) error {
	if err := r.checkTrainable(images, labels); err != nil {
		return err
	}

	mats, err := toMats(images)
	if err != nil {
		return err
	}
	defer closeMats(mats)

	if err := r.model.Train(mats, labels); err != nil {
		return fmt.Errorf("opencv train: %w", err)
	}
	r.trained = true
	return nil
}

// Update extends an LBPH model. The first update of an untrained model is a
// plain Train.
func (r *Recognizer) Update(images []*image.Gray, labels []int) error {
	if r.model == nil {
		return ErrClosed
	}
	u, ok := r.model.(updater)
	if !ok || !r.kind.Incremental() {
		return fmt.Errorf("%s: %w", r.kind, recognizer.ErrIncrementalUnsupported)
	}
	if !r.trained {
		return r.Train(images, labels)
	}
	if err := recognizer.CheckSamples(images, labels); err != nil {
		return err
	}

	mats, err := toMats(images)
	if err != nil {
		return err
	}
	defer closeMats(mats)

	if err := u.Update(mats, labels); err != nil {
		return fmt.Errorf("opencv update: %w", err)
	}
	return nil
}

func (r *Recognizer) Predict(img *image.Gray) (int, error) {
	if !r.trained {
		return -1, recognizer.ErrNotTrained
	}

	mat, err := gocv.ImageGrayToMatGray(img)
	if err != nil {
		return -1, fmt.Errorf("failed to convert image: %w", err)
	}
	defer mat.Close()

	return r.model.Predict(mat), nil
}

func (r *Recognizer) Save(path string) error {
	if !r.trained {
		return recognizer.ErrNotTrained
	}
	if err := r.model.SaveFile(path); err != nil {
		return fmt.Errorf("opencv save: %w", err)
	}
	return nil
}

// Load replaces the learned state with the model at path. A failed load
// leaves the recognizer untrained.
func (r *Recognizer) Load(path string) error {
	if r.model == nil {
		return ErrClosed
	}
	r.trained = false
	if err := r.model.LoadFile(path); err != nil {
		return fmt.Errorf("opencv load: %w", err)
	}
	r.trained = true
	return nil
}

// Close releases the native model. Calling it again is a no-op.
func (r *Recognizer) Close() error {
	if r.model == nil {
		return nil
	}
	err := r.model.Close()
	r.model = nil
	r.trained = false
	return err
}

// checkTrainable rejects batches the library would abort on.
func (r *Recognizer) checkTrainable(images []*image.Gray, labels []int) error {
	if r.model == nil {
		return ErrClosed
	}
	if err := recognizer.CheckSamples(images, labels); err != nil {
		return err
	}
	if r.kind == recognizer.Fisher && recognizer.DistinctLabels(labels) < 2 {
		return fmt.Errorf("%s needs at least two distinct labels", r.kind)
	}
	size := images[0].Bounds().Size()
	for i, img := range images[1:] {
		if img.Bounds().Size() != size {
			return fmt.Errorf("image %d is %v, expected %v", i+1, img.Bounds().Size(), size)
		}
	}
	return nil
}

func toMats(images []*image.Gray) ([]gocv.Mat, error) {
	mats := make([]gocv.Mat, 0, len(images))
	for i, img := range images {
		m, err := gocv.ImageGrayToMatGray(img)
		if err != nil {
			closeMats(mats)
			return nil, fmt.Errorf("failed to convert image %d: %w", i, err)
		}
		mats = append(mats, m)
	}
	return mats, nil
}

func closeMats(mats []gocv.Mat) {
	for i := range mats {
		_ = mats[i].Close()
	}
}
