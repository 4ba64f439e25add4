// Package mock provides an in-memory recognizer implementation for testing.
package mock

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"image"
	"os"

	"github.com/kozaktomas/face-shell/internal/recognizer"
)

type sample struct {
	Pix   []byte
	W, H  int
	Label int
}

// Recognizer is a mock recognizer.Recognizer. Predict returns the label of
// the first stored sample with identical pixels, or -1.
type Recognizer struct {
	kind    recognizer.Kind
	params  recognizer.Params
	samples []sample
	trained bool
	closed  bool

	// Call recording
	TrainCalls   [][]int
	UpdateCalls  [][]int
	PredictCalls int
	SavedPaths   []string
	LoadedPaths  []string

	// ForceLabel makes Predict return this label when non-nil
	ForceLabel *int

	// Error injection
	TrainError   error
	UpdateError  error
	PredictError error
	SaveError    error
	LoadError    error
}

// NewRecognizer creates an empty mock recognizer of the given kind.
func NewRecognizer(kind recognizer.Kind, params recognizer.Params) *Recognizer {
	return &Recognizer{kind: kind, params: params}
}

func (m *Recognizer) Kind() recognizer.Kind {
	return m.kind
}

// Params returns the hyperparameters the recognizer was created with.
func (m *Recognizer) Params() recognizer.Params {
	return m.params
}

// Closed reports whether Close was called.
func (m *Recognizer) Closed() bool {
	return m.closed
}

// Samples returns the number of samples currently learned.
func (m *Recognizer) Samples() int {
	return len(m.samples)
}

func (m *Recognizer) Train(images []*image.Gray, labels []int) error {
	m.TrainCalls = append(m.TrainCalls, append([]int(nil), labels...))
	if m.TrainError != nil {
		return m.TrainError
	}
	if err := recognizer.CheckSamples(images, labels); err != nil {
		return err
	}
	m.samples = m.samples[:0]
	m.add(images, labels)
	m.trained = true
	return nil
}

func (m *Recognizer) Update(images []*image.Gray, labels []int) error {
	m.UpdateCalls = append(m.UpdateCalls, append([]int(nil), labels...))
	if m.UpdateError != nil {
		return m.UpdateError
	}
	if !m.kind.Incremental() {
		return recognizer.ErrIncrementalUnsupported
	}
	if err := recognizer.CheckSamples(images, labels); err != nil {
		return err
	}
	m.add(images, labels)
	m.trained = true
	return nil
}

func (m *Recognizer) add(images []*image.Gray, labels []int) {
	for i, img := range images {
		b := img.Bounds()
		pix := make([]byte, 0, b.Dx()*b.Dy())
		for y := b.Min.Y; y < b.Max.Y; y++ {
			off := img.PixOffset(b.Min.X, y)
			pix = append(pix, img.Pix[off:off+b.Dx()]...)
		}
		m.samples = append(m.samples, sample{Pix: pix, W: b.Dx(), H: b.Dy(), Label: labels[i]})
	}
}

func (m *Recognizer) Predict(img *image.Gray) (int, error) {
	m.PredictCalls++
	if m.PredictError != nil {
		return -1, m.PredictError
	}
	if !m.trained {
		return -1, recognizer.ErrNotTrained
	}
	if m.ForceLabel != nil {
		return *m.ForceLabel, nil
	}

	query := &Recognizer{}
	query.add([]*image.Gray{img}, []int{0})
	p := query.samples[0]
	for _, s := range m.samples {
		if s.W == p.W && s.H == p.H && bytes.Equal(s.Pix, p.Pix) {
			return s.Label, nil
		}
	}
	return -1, nil
}

func (m *Recognizer) Save(path string) error {
	m.SavedPaths = append(m.SavedPaths, path)
	if m.SaveError != nil {
		return m.SaveError
	}
	if !m.trained {
		return recognizer.ErrNotTrained
	}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(m.samples); err != nil {
		return fmt.Errorf("failed to encode samples: %w", err)
	}
	return os.WriteFile(path, buf.Bytes(), 0600)
}

func (m *Recognizer) Load(path string) error {
	m.LoadedPaths = append(m.LoadedPaths, path)
	if m.LoadError != nil {
		return m.LoadError
	}

	data, err := os.ReadFile(path) //nolint:gosec // test helper
	if err != nil {
		return fmt.Errorf("failed to read model: %w", err)
	}
	var samples []sample
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&samples); err != nil {
		return fmt.Errorf("failed to decode model: %w", err)
	}
	m.samples = samples
	m.trained = true
	return nil
}

func (m *Recognizer) Close() error {
	m.closed = true
	return nil
}

// Factory is a mock recognizer.Factory that remembers what it built.
type Factory struct {
	Created []*Recognizer

	// NewError makes New fail
	NewError error
}

// NewFactory creates a new mock factory
func NewFactory() *Factory {
	return &Factory{}
}

func (f *Factory) New(kind recognizer.Kind, params recognizer.Params) (recognizer.Recognizer, error) {
	if f.NewError != nil {
		return nil, f.NewError
	}
	rec := NewRecognizer(kind, params)
	f.Created = append(f.Created, rec)
	return rec, nil
}

// Last returns the most recently created recognizer, or nil.
func (f *Factory) Last() *Recognizer {
	if len(f.Created) == 0 {
		return nil
	}
	return f.Created[len(f.Created)-1]
}
