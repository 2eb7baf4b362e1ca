package gpu

import (
	"testing"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/stretchr/testify/assert"
)

func TestImageSamplerClampsLinear(t *testing.T) {
	assert.Equal(t, Sampler{MinFilter: gl.LINEAR, MagFilter: gl.LINEAR, Wrap: gl.CLAMP_TO_EDGE}, ImageSampler)
}

func TestRenderSamplerNearest(t *testing.T) {
	assert.Equal(t, Sampler{MinFilter: gl.NEAREST, MagFilter: gl.NEAREST, Wrap: gl.CLAMP_TO_EDGE}, RenderSampler)
}
