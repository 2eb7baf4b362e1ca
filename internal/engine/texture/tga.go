package texture

import (
	"errors"
	"fmt"
	"image"
	"image/color"
)

// TGA image type constants.
const (
	TGATypeUncompressed = 2  // Uncompressed true-color
	TGATypeRLE          = 10 // RLE compressed true-color
)

var errTGATruncated = errors.New("TGA pixel data truncated")

// tgaHeader is the fixed 18-byte TGA header, reduced to the fields we use.
type tgaHeader struct {
	idLength     int
	colorMapType byte
	imageType    byte
	width        int
	height       int
	bpp          int
	topToBottom  bool
}

func readTGAHeader(data []byte) (tgaHeader, error) {
	if len(data) < 18 {
		return tgaHeader{}, fmt.Errorf("TGA data too short")
	}
	return tgaHeader{
		idLength:     int(data[0]),
		colorMapType: data[1],
		imageType:    data[2],
		width:        int(data[12]) | int(data[13])<<8,
		height:       int(data[14]) | int(data[15])<<8,
		bpp:          int(data[16]),
		topToBottom:  data[17]&0x20 != 0,
	}, nil
}

// DecodeTGA decodes a TGA image file.
// Supports uncompressed true-color (type 2) and RLE compressed (type 10)
// images at 24 or 32 bits per pixel.
func DecodeTGA(data []byte) (*image.RGBA, error) {
	h, err := readTGAHeader(data)
	if err != nil {
		return nil, err
	}
	if h.colorMapType != 0 {
		return nil, fmt.Errorf("color-mapped TGA not supported")
	}
	if h.imageType != TGATypeUncompressed && h.imageType != TGATypeRLE {
		return nil, fmt.Errorf("unsupported TGA type %d (only uncompressed/RLE true-color supported)", h.imageType)
	}
	if h.bpp != 24 && h.bpp != 32 {
		return nil, fmt.Errorf("unsupported TGA bit depth %d (only 24/32 supported)", h.bpp)
	}

	offset := 18 + h.idLength
	if offset > len(data) {
		return nil, fmt.Errorf("TGA data truncated")
	}

	d := &tgaDecoder{
		hdr:  h,
		src:  data[offset:],
		img:  image.NewRGBA(image.Rect(0, 0, h.width, h.height)),
		size: h.bpp / 8,
	}
	if h.imageType == TGATypeUncompressed {
		err = d.raw()
	} else {
		err = d.rle()
	}
	if err != nil {
		return nil, err
	}
	return d.img, nil
}

type tgaDecoder struct {
	hdr  tgaHeader
	src  []byte
	pos  int
	img  *image.RGBA
	size int // bytes per pixel
	n    int // pixels written
}

// pixel reads one BGR(A) pixel.
func (d *tgaDecoder) pixel() (color.RGBA, bool) {
	if d.pos+d.size > len(d.src) {
		return color.RGBA{}, false
	}
	p := d.src[d.pos : d.pos+d.size]
	d.pos += d.size
	c := color.RGBA{R: p[2], G: p[1], B: p[0], A: 255}
	if d.size == 4 {
		c.A = p[3]
	}
	return c, true
}

// put stores the next pixel in file order, flipping bottom-up images.
func (d *tgaDecoder) put(c color.RGBA) {
	x := d.n % d.hdr.width
	y := d.n / d.hdr.width
	if !d.hdr.topToBottom {
		y = d.hdr.height - 1 - y
	}
	d.img.SetRGBA(x, y, c)
	d.n++
}

func (d *tgaDecoder) total() int {
	return d.hdr.width * d.hdr.height
}

func (d *tgaDecoder) raw() error {
	if len(d.src) < d.total()*d.size {
		return errTGATruncated
	}
	for d.n < d.total() {
		c, _ := d.pixel()
		d.put(c)
	}
	return nil
}

// rle decodes run-length packets. A short stream leaves the remaining
// pixels transparent.
func (d *tgaDecoder) rle() error {
	for d.n < d.total() && d.pos < len(d.src) {
		packet := d.src[d.pos]
		d.pos++
		count := int(packet&0x7F) + 1

		if packet&0x80 != 0 {
			c, ok := d.pixel()
			if !ok {
				break
			}
			for i := 0; i < count && d.n < d.total(); i++ {
				d.put(c)
			}
			continue
		}
		for i := 0; i < count && d.n < d.total(); i++ {
			c, ok := d.pixel()
			if !ok {
				break
			}
			d.put(c)
		}
	}
	return nil
}
