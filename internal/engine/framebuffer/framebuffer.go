// Package framebuffer manages the off-screen attachment set the geometry
// pass renders into.
package framebuffer

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/ssrview/internal/engine/gpu"
	"github.com/Faultbox/ssrview/internal/logger"
)

// ErrIncomplete reports a framebuffer the driver refused.
var ErrIncomplete = errors.New("framebuffer incomplete")

// Channel is one semantic color output of the geometry pass.
type Channel int

const (
	Color Channel = iota
	Reflectivity
	Normal
	Position
)

// DefaultChannels is the full G-buffer layout, in attachment order.
var DefaultChannels = []Channel{Color, Reflectivity, Normal, Position}

func (c Channel) String() string {
	switch c {
	case Color:
		return "color"
	case Reflectivity:
		return "reflectivity"
	case Normal:
		return "normal"
	case Position:
		return "position"
	default:
		return fmt.Sprintf("channel(%d)", int(c))
	}
}

// AttachmentSet is one framebuffer with a 16-bit float color texture per
// channel, attached in channel order, and a 16-bit depth texture. Every
// attachment always has the same size.
type AttachmentSet struct {
	dev      gpu.Device
	channels []Channel
	fbo      uint32
	colors   []uint32
	depth    uint32
	width    int32
	height   int32
}

// New creates an attachment set for channels at the given size.
func New(dev gpu.Device, channels []Channel, width, height int32) (*AttachmentSet, error) {
	if len(channels) == 0 {
		return nil, fmt.Errorf("attachment set needs at least one channel")
	}
	seen := make(map[Channel]bool, len(channels))
	for _, ch := range channels {
		if seen[ch] {
			return nil, fmt.Errorf("duplicate channel %s", ch)
		}
		seen[ch] = true
	}

	s := &AttachmentSet{
		dev:      dev,
		channels: append([]Channel(nil), channels...),
	}
	if err := s.Reshape(width, height); err != nil {
		return nil, err
	}
	return s, nil
}

// Reshape destroys every attachment and recreates the whole set at the new
// size. It is safe to call repeatedly.
func (s *AttachmentSet) Reshape(width, height int32) error {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}

	s.Destroy()
	s.width, s.height = width, height

	s.fbo = s.dev.CreateFramebuffer()
	s.dev.BindFramebuffer(s.fbo)

	s.colors = make([]uint32, len(s.channels))
	for i := range s.channels {
		tex := s.dev.CreateRenderTexture(gpu.FormatRGBA16F, width, height)
		s.dev.AttachColor(i, tex)
		s.colors[i] = tex
	}
	s.dev.DrawBuffers(len(s.channels))

	s.depth = s.dev.CreateRenderTexture(gpu.FormatDepth16, width, height)
	s.dev.AttachDepth(s.depth)

	err := s.dev.CheckFramebuffer()
	s.dev.BindFramebuffer(0)
	if err != nil {
		s.Destroy()
		return fmt.Errorf("%w: %dx%d: %w", ErrIncomplete, width, height, err)
	}

	logger.Debug("attachment set created",
		zap.Int32("width", width),
		zap.Int32("height", height),
		zap.Int("channels", len(s.channels)))
	return nil
}

// Bind makes the set the draw target and sets the viewport to its size.
func (s *AttachmentSet) Bind() {
	s.dev.BindFramebuffer(s.fbo)
	s.dev.Viewport(s.width, s.height)
}

// Unbind restores the default framebuffer.
func (s *AttachmentSet) Unbind() {
	s.dev.BindFramebuffer(0)
}

// Texture returns the color texture for ch, or zero if the set lacks it.
func (s *AttachmentSet) Texture(ch Channel) uint32 {
	for i, c := range s.channels {
		if c == ch && i < len(s.colors) {
			return s.colors[i]
		}
	}
	return 0
}

// DepthTexture returns the depth attachment.
func (s *AttachmentSet) DepthTexture() uint32 {
	return s.depth
}

// Channels returns the channels in attachment order.
func (s *AttachmentSet) Channels() []Channel {
	return s.channels
}

// Size returns the attachment dimensions.
func (s *AttachmentSet) Size() (width, height int32) {
	return s.width, s.height
}

// Destroy releases the framebuffer and every attachment.
func (s *AttachmentSet) Destroy() {
	if s.fbo != 0 {
		s.dev.DeleteFramebuffer(s.fbo)
		s.fbo = 0
	}
	for i, tex := range s.colors {
		if tex != 0 {
			s.dev.DeleteTexture(tex)
			s.colors[i] = 0
		}
	}
	s.colors = nil
	if s.depth != 0 {
		s.dev.DeleteTexture(s.depth)
		s.depth = 0
	}
}
