package shaders

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedSources(t *testing.T) {
	for _, src := range []string{
		GeometryVertexShader, GeometryFragmentShader,
		CompositeVertexShader, CompositeFragmentShader,
	} {
		assert.True(t, strings.HasPrefix(src, "#version 410 core"))
	}
}

func TestCompositeDeclaresOrchestratorUniforms(t *testing.T) {
	for _, name := range []string{
		"uDepth", "uColor", "uReflectivity", "uNormal", "uPosition",
		"uProjection", "uInvProjection", "uView", "uInvView",
		"uFresnelF0", "uFadeExponent", "uMouse", "uResolution",
	} {
		assert.Contains(t, CompositeFragmentShader, " "+name+";", name)
	}
	for _, name := range []string{"uProjection", "uView", "uCameraTranslation", "uModel"} {
		assert.Contains(t, GeometryVertexShader, " "+name+";", name)
	}
}

func TestLoadPrefersDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "composite.frag"), []byte("override"), 0o644))

	pair, err := Load(dir, "composite")
	require.NoError(t, err)
	assert.Equal(t, "override", pair.Fragment)
	assert.Equal(t, CompositeVertexShader, pair.Vertex)

	pair, err = Load("", "geometry")
	require.NoError(t, err)
	assert.Equal(t, GeometryFragmentShader, pair.Fragment)

	_, err = Load("", "missing")
	assert.Error(t, err)
}

func TestProgramFor(t *testing.T) {
	name, ok := ProgramFor("geometry.frag")
	assert.True(t, ok)
	assert.Equal(t, "geometry", name)

	_, ok = ProgramFor("other.frag")
	assert.False(t, ok)
}
