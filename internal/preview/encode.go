package preview

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/HugoSmits86/nativewebp"
	"golang.org/x/image/bmp"
)

// Output formats accepted by Encode.
const (
	FormatWebP = "webp"
	FormatPNG  = "png"
	FormatBMP  = "bmp"
)

// FormatFor derives the output format from a file extension.
func FormatFor(path string) (string, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".webp":
		return FormatWebP, nil
	case ".png":
		return FormatPNG, nil
	case ".bmp":
		return FormatBMP, nil
	default:
		return "", fmt.Errorf("preview: unsupported image extension %q", ext)
	}
}

// Encode writes img to w in format. WebP output is lossless.
func Encode(w io.Writer, img image.Image, format string) error {
	switch format {
	case FormatWebP:
		if err := nativewebp.Encode(w, img, nil); err != nil {
			return fmt.Errorf("preview: webp encode: %w", err)
		}
	case FormatPNG:
		if err := png.Encode(w, img); err != nil {
			return fmt.Errorf("preview: png encode: %w", err)
		}
	case FormatBMP:
		if err := bmp.Encode(w, img); err != nil {
			return fmt.Errorf("preview: bmp encode: %w", err)
		}
	default:
		return fmt.Errorf("preview: unsupported format %q", format)
	}
	return nil
}

// WriteFile encodes img to path, creating parent directories. An empty
// format is derived from the extension.
func WriteFile(path string, img image.Image, format string) error {
	if format == "" {
		var err error
		if format, err = FormatFor(path); err != nil {
			return err
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Encode(f, img, format); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
