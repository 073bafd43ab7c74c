package frame

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
)

// Load decodes an image file into a frame.
//
// Supported formats are the ones the imaging package understands (PNG, JPEG,
// GIF, BMP, TIFF). The channel layout follows FromImage.
//
// # Errors
//
//   - Returns error if the file does not exist or cannot be read
//   - Returns error if the file is not a decodable image
func Load(path string) (*Frame, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	return FromImage(img), nil
}

// Save encodes an 8-bit frame to path. The format is chosen from the file
// extension.
func Save(path string, f *Frame) error {
	img, err := f.Image()
	if err != nil {
		return fmt.Errorf("failed to convert frame: %w", err)
	}
	if err := imaging.Save(img, path); err != nil {
		return fmt.Errorf("failed to save image: %w", err)
	}
	return nil
}

// FormatOf returns the image format implied by a file extension: "png", "jpeg",
// "gif", "bmp", "tiff" or "unknown".
func FormatOf(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return "png"
	case ".jpg", ".jpeg":
		return "jpeg"
	case ".gif":
		return "gif"
	case ".bmp":
		return "bmp"
	case ".tif", ".tiff":
		return "tiff"
	}
	return "unknown"
}
