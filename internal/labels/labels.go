// Package labels assigns integer identity labels to training images and
// keeps the label to image-name registry used to print search results.
package labels

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

// Unknown is assigned to images whose file name carries no label.
const Unknown = -1

var filenameLabel = regexp.MustCompile(`-(\d+)$`)

// FromFilename extracts the trailing "-<digits>" label from a file name,
// ignoring directory and extension ("alice-7.png" -> 7).
func FromFilename(name string) (int, bool) {
	base := filepath.Base(name)
	base = strings.TrimSuffix(base, filepath.Ext(base))

	m := filenameLabel.FindStringSubmatch(base)
	if m == nil {
		return Unknown, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return Unknown, false
	}
	return n, true
}

// Mode selects how labels are assigned during training.
type Mode int

const (
	// FilenameMode parses the label out of each file name.
	FilenameMode Mode = iota
	// SequentialMode numbers images 0, 1, 2... in the order they are read.
	SequentialMode
)

func (m Mode) String() string {
	switch m {
	case FilenameMode:
		return "filename"
	case SequentialMode:
		return "sequential"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// ParseMode parses "filename" or "sequential".
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "filename":
		return FilenameMode, nil
	case "sequential":
		return SequentialMode, nil
	}
	return FilenameMode, fmt.Errorf("invalid label mode %q, expected filename or sequential", s)
}

// Assigner hands out labels for one training run.
type Assigner struct {
	mode Mode
	next int
}

// NewAssigner creates an assigner starting from zero.
func NewAssigner(mode Mode) *Assigner {
	return &Assigner{mode: mode}
}

// Assign returns the label for the named image. ok is false when the name
// has no label and Unknown was returned.
func (a *Assigner) Assign(name string) (label int, ok bool) {
	if a.mode == SequentialMode {
		label = a.next
		a.next++
		return label, true
	}
	return FromFilename(name)
}
