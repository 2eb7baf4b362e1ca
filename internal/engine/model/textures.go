package model

import (
	"image"

	"github.com/Faultbox/ssrview/internal/engine/gpu"
)

// UploadTextures creates one texture per decoded diffuse map, keyed by
// material name. Nil or empty images are skipped.
func UploadTextures(dev gpu.Device, images map[string]*image.RGBA) map[string]uint32 {
	textures := make(map[string]uint32, len(images))
	for name, img := range images {
		if img == nil || len(img.Pix) == 0 {
			continue
		}
		if tex := dev.CreateImageTexture(img); tex != 0 {
			textures[name] = tex
		}
	}
	return textures
}
