// Package shaders provides embedded GLSL shader sources.
package shaders

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
)

// GeometryVertexShader transforms scene objects for the G-buffer pass.
//
//go:embed geometry.vert
var GeometryVertexShader string

// GeometryFragmentShader writes color, reflectivity, normal and position.
//
//go:embed geometry.frag
var GeometryFragmentShader string

// CompositeVertexShader passes the full-screen quad through.
//
//go:embed composite.vert
var CompositeVertexShader string

// CompositeFragmentShader resolves screen-space reflections from the G-buffer.
//
//go:embed composite.frag
var CompositeFragmentShader string

//go:embed *.vert *.frag
var files embed.FS

// Pair holds the two stage sources of one program.
type Pair struct {
	Vertex, Fragment string
}

// Programs maps program names to the file names of their stages.
var Programs = map[string][2]string{
	"geometry":  {"geometry.vert", "geometry.frag"},
	"composite": {"composite.vert", "composite.frag"},
}

// Load returns the sources for a program. When dir is non-empty, files found
// there take precedence over the embedded copies.
func Load(dir, program string) (Pair, error) {
	stages, ok := Programs[program]
	if !ok {
		return Pair{}, fmt.Errorf("unknown shader program %q", program)
	}
	vs, err := read(dir, stages[0])
	if err != nil {
		return Pair{}, err
	}
	fs, err := read(dir, stages[1])
	if err != nil {
		return Pair{}, err
	}
	return Pair{Vertex: vs, Fragment: fs}, nil
}

// ProgramFor returns the program a stage file belongs to.
func ProgramFor(file string) (string, bool) {
	for name, stages := range Programs {
		if stages[0] == file || stages[1] == file {
			return name, true
		}
	}
	return "", false
}

func read(dir, name string) (string, error) {
	if dir != "" {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err == nil {
			return string(data), nil
		}
		if !os.IsNotExist(err) {
			return "", fmt.Errorf("reading shader %s: %w", name, err)
		}
	}
	data, err := files.ReadFile(name)
	if err != nil {
		return "", fmt.Errorf("reading embedded shader %s: %w", name, err)
	}
	return string(data), nil
}
