package texture

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tgaHeaderBytes(imageType byte, w, h int, bpp byte, descriptor byte) []byte {
	hdr := make([]byte, 18)
	hdr[2] = imageType
	hdr[12] = byte(w)
	hdr[13] = byte(w >> 8)
	hdr[14] = byte(h)
	hdr[15] = byte(h >> 8)
	hdr[16] = bpp
	hdr[17] = descriptor
	return hdr
}

func TestDecodeTGAUncompressedBottomUp(t *testing.T) {
	// 1x2, 24-bit, stored bottom row first: blue then red (BGR order).
	data := tgaHeaderBytes(TGATypeUncompressed, 1, 2, 24, 0)
	data = append(data, 255, 0, 0, 0, 0, 255)

	img, err := DecodeTGA(data)
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{R: 255, A: 255}, img.RGBAAt(0, 0))
	assert.Equal(t, color.RGBA{B: 255, A: 255}, img.RGBAAt(0, 1))
}

func TestDecodeTGARLE(t *testing.T) {
	// 3x1, 32-bit, top-down: a run of two green pixels then one raw white pixel.
	data := tgaHeaderBytes(TGATypeRLE, 3, 1, 32, 0x20)
	data = append(data, 0x81, 0, 255, 0, 128)
	data = append(data, 0x00, 255, 255, 255, 255)

	img, err := DecodeTGA(data)
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{G: 255, A: 128}, img.RGBAAt(0, 0))
	assert.Equal(t, color.RGBA{G: 255, A: 128}, img.RGBAAt(1, 0))
	assert.Equal(t, color.RGBA{R: 255, G: 255, B: 255, A: 255}, img.RGBAAt(2, 0))
}

func TestDecodeTGAErrors(t *testing.T) {
	_, err := DecodeTGA([]byte{1, 2, 3})
	assert.Error(t, err)

	_, err = DecodeTGA(tgaHeaderBytes(1, 1, 1, 24, 0))
	assert.Error(t, err)

	_, err = DecodeTGA(tgaHeaderBytes(TGATypeUncompressed, 1, 1, 16, 0))
	assert.Error(t, err)

	_, err = DecodeTGA(append(tgaHeaderBytes(TGATypeUncompressed, 2, 2, 24, 0), 1, 2, 3))
	assert.Error(t, err)
}

func TestDecodePNG(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	src.SetNRGBA(1, 1, color.NRGBA{R: 10, G: 20, B: 30, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, src))

	rgba, err := DecodeRGBA(buf.Bytes(), "wall.png")
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 2, 2), rgba.Bounds())
	assert.Equal(t, color.RGBA{R: 10, G: 20, B: 30, A: 255}, rgba.RGBAAt(1, 1))
}

func TestDecodeTGAByExtension(t *testing.T) {
	data := append(tgaHeaderBytes(TGATypeUncompressed, 1, 1, 24, 0), 0, 0, 255)
	img, err := Decode(data, "textures/Stone.TGA")
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 1, 1), img.Bounds())
}

func TestDecodeUnknown(t *testing.T) {
	_, err := Decode([]byte("definitely not an image"), "notes.png")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnsupported))
}

func TestToRGBA(t *testing.T) {
	rgba := image.NewRGBA(image.Rect(0, 0, 4, 4))
	assert.Same(t, rgba, ToRGBA(rgba))

	sub := rgba.SubImage(image.Rect(1, 1, 3, 3))
	out := ToRGBA(sub)
	assert.Equal(t, image.Rect(0, 0, 2, 2), out.Bounds())
	assert.Len(t, out.Pix, 2*2*4)

	gray := image.NewGray(image.Rect(0, 0, 1, 1))
	gray.SetGray(0, 0, color.Gray{Y: 200})
	assert.Equal(t, color.RGBA{R: 200, G: 200, B: 200, A: 255}, ToRGBA(gray).RGBAAt(0, 0))
}
