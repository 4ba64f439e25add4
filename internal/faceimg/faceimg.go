// Package faceimg prepares images for the recognizers: grayscale decoding,
// normalisation to a fixed template size and writing templates back to disk.
package faceimg

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/disintegration/imaging"
	"golang.org/x/image/draw"
)

// DefaultTemplateSize is the size every template is normalised to.
var DefaultTemplateSize = image.Pt(512, 512)

// IsTrainingImage checks if a file has an extension the trainer picks up.
func IsTrainingImage(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".png", ".jpg":
		return true
	}
	return false
}

// ListImages walks root recursively and returns every training image in
// lexical order.
func ListImages(root string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && IsTrainingImage(d.Name()) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("cannot walk folder %s: %w", root, err)
	}
	return paths, nil
}

// LoadGray decodes the image at path and converts it to 8-bit grayscale.
func LoadGray(path string) (*image.Gray, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", path, err)
	}
	return ToGray(img), nil
}

// ToGray converts img to grayscale, returning it unchanged if it already is.
func ToGray(img image.Image) *image.Gray {
	if g, ok := img.(*image.Gray); ok {
		return g
	}
	b := img.Bounds()
	gray := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(gray, gray.Bounds(), img, b.Min, draw.Src)
	return gray
}

// Normalize scales img to size with bicubic (Catmull-Rom) interpolation.
// An image that already has the requested size is returned as is.
func Normalize(img *image.Gray, size image.Point) *image.Gray {
	if img.Bounds().Size() == size {
		return img
	}
	dst := image.NewGray(image.Rect(0, 0, size.X, size.Y))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	return dst
}

// Save writes img to path, creating missing parent directories. The format
// follows the file extension.
func Save(img image.Image, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}
	if err := imaging.Save(img, path); err != nil {
		return fmt.Errorf("failed to write image %s: %w", path, err)
	}
	return nil
}

// ParseSize parses a "WIDTHxHEIGHT" template size such as "512x512".
func ParseSize(s string) (image.Point, error) {
	w, h, ok := strings.Cut(strings.ToLower(strings.TrimSpace(s)), "x")
	if !ok {
		return image.Point{}, fmt.Errorf("invalid size %q, expected WIDTHxHEIGHT", s)
	}
	width, errW := strconv.Atoi(w)
	height, errH := strconv.Atoi(h)
	if errW != nil || errH != nil {
		return image.Point{}, fmt.Errorf("invalid size %q, expected WIDTHxHEIGHT", s)
	}
	if width <= 0 || height <= 0 {
		return image.Point{}, fmt.Errorf("invalid size %q, dimensions must be positive", s)
	}
	return image.Pt(width, height), nil
}
