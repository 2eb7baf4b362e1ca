// Package assets loads meshes, materials and images off the render thread.
//
// Results are delivered on channels and never touch the GPU; the caller
// uploads them on the thread that owns the graphics context.
package assets

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"path"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Faultbox/ssrview/internal/engine/mesh"
	"github.com/Faultbox/ssrview/internal/engine/texture"
	"github.com/Faultbox/ssrview/internal/logger"
)

// Manager handles asset loading from one or more sources.
type Manager struct {
	sources     []Source
	cache       *Cache
	maxParallel int
	mu          sync.RWMutex
	log         *zap.Logger
}

// NewManager creates a new asset manager. maxParallel bounds concurrent
// image decodes per model; values below 1 mean one at a time.
func NewManager(maxParallel int, sources ...Source) *Manager {
	if maxParallel < 1 {
		maxParallel = 1
	}
	return &Manager{
		sources:     sources,
		cache:       NewCache(),
		maxParallel: maxParallel,
		log:         logger.Named("assets"),
	}
}

// AddSource adds a source to the manager.
// Sources are searched in reverse order (last added = highest priority).
func (m *Manager) AddSource(src Source) {
	m.mu.Lock()
	m.sources = append(m.sources, src)
	m.mu.Unlock()
}

// Cache returns the byte cache.
func (m *Manager) Cache() *Cache {
	return m.cache
}

// Load reads a file from the sources.
func (m *Manager) Load(name string) ([]byte, error) {
	if data, ok := m.cache.Get(name); ok {
		return data, nil
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	for i := len(m.sources) - 1; i >= 0; i-- {
		rc, err := m.sources[i].Open(name)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("opening %s: %w", name, err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", name, err)
		}
		m.cache.Set(name, data)
		return data, nil
	}

	return nil, fmt.Errorf("%s: %w", name, ErrNotFound)
}

// LoadLines reads a text file and splits it into lines.
func (m *Manager) LoadLines(ctx context.Context, name string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := m.Load(name)
	if err != nil {
		return nil, err
	}
	var lines []string
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	return lines, scanner.Err()
}

// LoadImage reads and decodes an image.
func (m *Manager) LoadImage(ctx context.Context, name string) (*image.RGBA, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := m.Load(name)
	if err != nil {
		return nil, err
	}
	return texture.DecodeRGBA(data, name)
}

// ModelResult is a fully parsed model ready for GPU upload.
type ModelResult struct {
	Path       string
	Model      *mesh.Model
	Attributes *mesh.Attributes
	Materials  []mesh.MaterialDef
	Images     map[string]*image.RGBA // decoded diffuse maps by material name
	Err        error
}

// Material looks up a material definition by name.
func (r ModelResult) Material(name string) (mesh.MaterialDef, bool) {
	for _, def := range r.Materials {
		if def.Name == name {
			return def, true
		}
	}
	return mesh.MaterialDef{}, false
}

// LoadModel parses a mesh, its material library and every diffuse map in the
// background. The returned channel receives exactly one result.
func (m *Manager) LoadModel(ctx context.Context, meshPath string) <-chan ModelResult {
	out := make(chan ModelResult, 1)
	go func() {
		out <- m.loadModel(ctx, meshPath)
	}()
	return out
}

func (m *Manager) loadModel(ctx context.Context, meshPath string) ModelResult {
	res := ModelResult{Path: meshPath}
	if res.Err = ctx.Err(); res.Err != nil {
		return res
	}

	data, err := m.Load(meshPath)
	if err != nil {
		res.Err = err
		return res
	}
	model, err := mesh.ParseOBJ(bytes.NewReader(data))
	if err != nil {
		res.Err = fmt.Errorf("parsing %s: %w", meshPath, err)
		return res
	}
	attrs := mesh.Reindex(model)
	mesh.ComputeTangents(attrs, model.Indices())

	stats := model.Stats()
	m.log.Info("loaded mesh",
		zap.String("path", meshPath),
		zap.Int("vertices", stats.Vertices),
		zap.Int("texcoords", stats.TexCoords),
		zap.Int("normals", stats.Normals),
		zap.Int("tangents", len(attrs.Tangents)/3),
		zap.Int("faces", stats.Faces),
		zap.Int("submeshes", stats.Submeshes),
		zap.Int("warnings", len(model.Warnings)),
	)

	res.Model = model
	res.Attributes = attrs
	res.Materials = m.loadMaterials(meshPath, model)
	res.Images, res.Err = m.loadImages(ctx, mesh.CompanionMTL(meshPath, model), res.Materials)
	return res
}

// loadMaterials reads the companion material library. A missing or unreadable
// library leaves every submesh untextured.
func (m *Manager) loadMaterials(meshPath string, model *mesh.Model) []mesh.MaterialDef {
	mtlPath := mesh.CompanionMTL(meshPath, model)
	data, err := m.Load(mtlPath)
	if err != nil {
		m.log.Warn("no material library", zap.String("path", mtlPath), zap.Error(err))
		return nil
	}
	defs, err := mesh.ParseMTL(bytes.NewReader(data))
	if err != nil {
		m.log.Warn("reading material library", zap.String("path", mtlPath), zap.Error(err))
		return nil
	}
	return defs
}

// loadImages decodes diffuse maps concurrently. One failing image is logged
// and leaves its material untextured.
func (m *Manager) loadImages(ctx context.Context, mtlPath string, defs []mesh.MaterialDef) (map[string]*image.RGBA, error) {
	images := make(map[string]*image.RGBA)
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(m.maxParallel)
	dir := path.Dir(mtlPath)
	for _, def := range defs {
		def := def
		if def.DiffuseMap == "" {
			continue
		}
		imgPath := path.Join(dir, def.DiffuseMap)
		g.Go(func() error {
			img, err := m.LoadImage(gctx, imgPath)
			if err != nil {
				m.log.Warn("material image failed",
					zap.String("material", def.Name),
					zap.String("path", imgPath),
					zap.Error(err))
				return nil
			}
			mu.Lock()
			images[def.Name] = img
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return images, nil
}

// Close drops all sources and cached data.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, src := range m.sources {
		if c, ok := src.(io.Closer); ok {
			c.Close()
		}
	}
	m.sources = nil
	m.cache.Clear()
}
