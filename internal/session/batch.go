package session

import "image"

// Batch accumulates training samples until they are committed to a
// recognizer. A limit of zero or less never reports the batch as full.
type Batch struct {
	limit     int
	images    []*image.Gray
	labels    []int
	committed int
	commits   int
}

// NewBatch creates a batch that is full after limit samples.
func NewBatch(limit int) *Batch {
	return &Batch{limit: limit}
}

// Add appends one sample.
func (b *Batch) Add(img *image.Gray, label int) {
	b.images = append(b.images, img)
	b.labels = append(b.labels, label)
}

// Full reports whether the batch reached its limit.
func (b *Batch) Full() bool {
	return b.limit > 0 && len(b.images) >= b.limit
}

// Len returns the number of pending samples.
func (b *Batch) Len() int {
	return len(b.images)
}

// Committed returns how many samples have been committed so far.
func (b *Batch) Committed() int {
	return b.committed
}

// Commits returns how many successful commits happened.
func (b *Batch) Commits() int {
	return b.commits
}

// Commit hands the pending samples to fn. first is true for the first commit
// of this batch. The pending samples are released whether fn fails or not.
func (b *Batch) Commit(fn func(images []*image.Gray, labels []int, first bool) error) error {
	if len(b.images) == 0 {
		return nil
	}

	images, labels := b.images, b.labels
	b.images, b.labels = nil, nil

	if err := fn(images, labels, b.commits == 0); err != nil {
		return err
	}
	b.committed += len(images)
	b.commits++
	return nil
}
