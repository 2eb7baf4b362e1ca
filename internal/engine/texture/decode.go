// Package texture decodes material images into RGBA pixels for upload.
package texture

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // register GIF
	_ "image/jpeg" // register JPEG
	_ "image/png"  // register PNG
	"path"
	"strings"

	"github.com/anthonynsimon/bild/clone"
	"github.com/h2non/filetype"
	_ "golang.org/x/image/bmp"  // register BMP
	_ "golang.org/x/image/tiff" // register TIFF
	_ "golang.org/x/image/webp" // register WebP
)

// ErrUnsupported reports image data in a format we cannot decode.
var ErrUnsupported = errors.New("unsupported image format")

// decodable lists the sniffed extensions image.Decode has a decoder for.
var decodable = map[string]bool{
	"png":  true,
	"jpg":  true,
	"gif":  true,
	"bmp":  true,
	"tif":  true,
	"webp": true,
}

// Decode decodes image bytes. The format is sniffed from the content; TGA,
// which carries no signature, is recognized by the name's extension.
func Decode(data []byte, name string) (image.Image, error) {
	if strings.EqualFold(path.Ext(name), ".tga") {
		img, err := DecodeTGA(data)
		if err != nil {
			return nil, fmt.Errorf("decoding %s: %w", name, err)
		}
		return img, nil
	}

	kind, err := filetype.Match(data)
	if err != nil || kind == filetype.Unknown || !decodable[kind.Extension] {
		return nil, fmt.Errorf("decoding %s: %w", name, ErrUnsupported)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding %s as %s: %w", name, kind.Extension, err)
	}
	return img, nil
}

// ToRGBA returns img as tightly packed RGBA with its origin at (0, 0).
func ToRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Bounds().Min == (image.Point{}) && rgba.Stride == 4*rgba.Bounds().Dx() {
		return rgba
	}
	out := clone.AsRGBA(img)
	out.Rect = out.Rect.Sub(out.Rect.Min)
	return out
}

// DecodeRGBA decodes and converts in one step.
func DecodeRGBA(data []byte, name string) (*image.RGBA, error) {
	img, err := Decode(data, name)
	if err != nil {
		return nil, err
	}
	return ToRGBA(img), nil
}
