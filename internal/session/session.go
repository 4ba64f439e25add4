// Package session holds the state the shell commands operate on: the active
// recognizer, the template size, the database root and the label registry.
package session

import (
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/kozaktomas/face-shell/internal/faceimg"
	"github.com/kozaktomas/face-shell/internal/labels"
	"github.com/kozaktomas/face-shell/internal/recognizer"
	"github.com/schollz/progressbar/v3"
)

// DefaultBatchSize is how many images are loaded before an incremental
// recognizer is updated.
const DefaultBatchSize = 1000

// Options configure a Session.
type Options struct {
	Database     string      // root under which resized templates are written
	TemplateSize image.Point // size every image is normalised to
	BatchSize    int         // samples per incremental update, <= 0 disables batching
	LabelMode    labels.Mode
	Progress     bool // show a progress bar instead of per-file lines
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		TemplateSize: faceimg.DefaultTemplateSize,
		BatchSize:    DefaultBatchSize,
		LabelMode:    labels.FilenameMode,
		Progress:     true,
	}
}

// Session is the state shared by all commands of one shell.
// It starts without a recognizer; Create installs one.
type Session struct {
	id        uuid.UUID
	factory   recognizer.Factory
	opts      Options
	out       io.Writer
	rec       recognizer.Recognizer
	registry  *labels.Registry
	modelPath string
}

// New creates an uninitialized session writing its console output to out.
func New(factory recognizer.Factory, opts Options, out io.Writer) *Session {
	if opts.TemplateSize == (image.Point{}) {
		opts.TemplateSize = faceimg.DefaultTemplateSize
	}
	if out == nil {
		out = io.Discard
	}
	return &Session{
		id:       uuid.New(),
		factory:  factory,
		opts:     opts,
		out:      out,
		registry: labels.NewRegistry(),
	}
}

func (s *Session) ID() uuid.UUID {
	return s.id
}

func (s *Session) Options() Options {
	return s.opts
}

// Recognizer returns the active recognizer or nil.
func (s *Session) Recognizer() recognizer.Recognizer {
	return s.rec
}

func (s *Session) Registry() *labels.Registry {
	return s.registry
}

// ModelPath returns the path recorded by the last Save.
func (s *Session) ModelPath() string {
	return s.modelPath
}

// Create installs a new recognizer of the named algorithm and creates
// outputDir if given. An unknown algorithm keeps the current recognizer and
// returns an error wrapping recognizer.ErrUnknownKind.
func (s *Session) Create(algorithm, outputDir string) error {
	kind, parseErr := recognizer.ParseKind(algorithm)
	if parseErr == nil {
		rec, err := s.factory.New(kind, recognizer.DefaultParams(kind))
		if err != nil {
			return fmt.Errorf("failed to create %s recognizer: %w", kind, err)
		}
		s.replace(rec)
		fmt.Fprintf(s.out, "%s loaded.\n", kind.DisplayName())
	}

	if outputDir != "" {
		if err := os.MkdirAll(outputDir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory %s: %w", outputDir, err)
		}
	}

	return parseErr
}

func (s *Session) replace(rec recognizer.Recognizer) {
	if s.rec != nil {
		_ = s.rec.Close()
	}
	s.rec = rec
	s.registry.Reset()
}

// TrainResult summarises one training run.
type TrainResult struct {
	Images    int // samples handed to the recognizer
	Batches   int // number of train/update calls
	Unlabeled int // images that got the Unknown label
}

// Train loads every png/jpg under dir, normalises it to the template size,
// writes the template to <database>/resized/ and trains the recognizer.
// Incremental recognizers are updated every BatchSize images. Nothing is
// rolled back if a later image or batch fails.
func (s *Session) Train(dir string) (TrainResult, error) {
	var result TrainResult

	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return result, &NotFoundError{What: "directory", Path: dir}
	}
	if s.rec == nil {
		return result, ErrNoRecognizer
	}
	if s.opts.Database == "" {
		return result, ErrDatabaseUnset
	}

	paths, err := faceimg.ListImages(dir)
	if err != nil {
		return result, err
	}
	if len(paths) == 0 {
		return result, fmt.Errorf("%w in %s", recognizer.ErrEmptyTrainingSet, dir)
	}

	s.registry.Reset()

	limit := 0
	if s.rec.Kind().Incremental() {
		limit = s.opts.BatchSize
	}
	batch := NewBatch(limit)
	assigner := labels.NewAssigner(s.opts.LabelMode)
	resizedDir := filepath.Join(s.opts.Database, "resized")

	commit := func(images []*image.Gray, lbls []int, first bool) error {
		if first {
			return s.rec.Train(images, lbls)
		}
		return s.rec.Update(images, lbls)
	}

	var bar *progressbar.ProgressBar
	if s.opts.Progress {
		bar = s.newProgressBar(len(paths))
	}

	for _, path := range paths {
		name := filepath.Base(path)

		gray, err := faceimg.LoadGray(path)
		if err != nil {
			return result, err
		}
		template := faceimg.Normalize(gray, s.opts.TemplateSize)

		if bar == nil {
			fmt.Fprintf(s.out, "Processing %s\n", name)
			fmt.Fprintf(s.out, "   Image size width: %d height: %d scaled to %d %d\n",
				gray.Bounds().Dx(), gray.Bounds().Dy(), template.Bounds().Dx(), template.Bounds().Dy())
		}

		if err := faceimg.Save(template, filepath.Join(resizedDir, name)); err != nil {
			return result, err
		}

		label, ok := assigner.Assign(name)
		if !ok {
			fmt.Fprintf(s.out, "Warning: no label found in %s, using %d\n", name, label)
			result.Unlabeled++
		}
		s.registry.Register(label, name)
		batch.Add(template, label)

		if batch.Full() {
			fmt.Fprintf(s.out, "Training at %d images...\n", batch.Committed()+batch.Len())
			if err := batch.Commit(commit); err != nil {
				return result, fmt.Errorf("training failed: %w", err)
			}
			result.Images, result.Batches = batch.Committed(), batch.Commits()
			fmt.Fprintln(s.out, "Done training. Continue loading...")
		}

		if bar != nil {
			_ = bar.Add(1)
		}
	}

	if bar != nil {
		_ = bar.Finish()
		fmt.Fprintln(s.out)
	}

	if err := batch.Commit(commit); err != nil {
		return result, fmt.Errorf("training failed: %w", err)
	}
	result.Images, result.Batches = batch.Committed(), batch.Commits()

	fmt.Fprintf(s.out, "Trained %s on %d images (%d labels)\n", s.rec.Kind(), result.Images, s.registry.Len())
	return result, nil
}

func (s *Session) newProgressBar(count int) *progressbar.ProgressBar {
	return progressbar.NewOptions(count,
		progressbar.OptionSetWriter(s.out),
		progressbar.OptionSetDescription("Training"),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("images"),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionFullWidth(),
	)
}

// Match is the outcome of a search.
type Match struct {
	Label int
	Name  string // registered image name, empty if the label is not registered
}

func (m Match) String() string {
	if m.Name != "" {
		return m.Name
	}
	return strconv.Itoa(m.Label)
}

// Search predicts the label of the image at path. Images that are not
// template sized are resized first.
func (s *Session) Search(path string) (Match, error) {
	if _, err := os.Stat(path); err != nil {
		return Match{}, &NotFoundError{What: "image", Path: path}
	}
	if s.rec == nil {
		return Match{}, ErrNoRecognizer
	}

	gray, err := faceimg.LoadGray(path)
	if err != nil {
		return Match{}, err
	}

	label, err := s.rec.Predict(faceimg.Normalize(gray, s.opts.TemplateSize))
	if err != nil {
		return Match{}, fmt.Errorf("prediction failed: %w", err)
	}

	m := Match{Label: label}
	if name, ok := s.registry.Lookup(label); ok {
		m.Name = name
	}
	fmt.Fprintf(s.out, "Possible match: %s\n", m)
	return m, nil
}

// Load replaces the learned state of the current recognizer with the model
// stored at path, along with its label registry when one was saved.
func (s *Session) Load(path string) error {
	if s.rec == nil {
		return ErrNoRecognizer
	}

	fmt.Fprintf(s.out, "Trying to load %s\n", path)

	if _, err := os.Stat(path); err != nil {
		return &NotFoundError{What: "model", Path: path}
	}
	if err := s.rec.Load(path); err != nil {
		return fmt.Errorf("failed to load model %s: %w", path, err)
	}

	reg, meta, err := labels.LoadRegistry(labels.SidecarPath(path))
	switch {
	case err == nil:
		s.registry = reg
		if meta.Algorithm != "" && meta.Algorithm != s.rec.Kind().String() {
			fmt.Fprintf(s.out, "Warning: model was saved by %s, current recognizer is %s\n",
				meta.Algorithm, s.rec.Kind())
		}
	case errors.Is(err, os.ErrNotExist):
		s.registry.Reset()
	default:
		fmt.Fprintf(s.out, "Warning: ignoring label registry: %v\n", err)
		s.registry.Reset()
	}
	return nil
}

// Save records path as the model path and writes the model and its label
// registry there.
func (s *Session) Save(path string) error {
	s.modelPath = path

	if s.rec == nil {
		return ErrNoRecognizer
	}
	if err := s.rec.Save(path); err != nil {
		return fmt.Errorf("failed to save model %s: %w", path, err)
	}

	meta := labels.Metadata{
		Algorithm: s.rec.Kind().String(),
		Session:   s.id.String(),
		SavedAt:   time.Now().UTC(),
	}
	if err := labels.SaveRegistry(labels.SidecarPath(path), s.registry, meta); err != nil {
		return err
	}

	fmt.Fprintf(s.out, "Model saved to %s\n", path)
	return nil
}

// SaveLast saves to the path recorded by the previous Save.
func (s *Session) SaveLast() error {
	if s.modelPath == "" {
		return ErrNoModelPath
	}
	return s.Save(s.modelPath)
}

// Close releases the recognizer.
func (s *Session) Close() error {
	if s.rec == nil {
		return nil
	}
	err := s.rec.Close()
	s.rec = nil
	return err
}
