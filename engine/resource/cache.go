// Package resource holds the CPU side asset cache shared by scenes: processed shader variants,
// decoded textures and cubemaps. GPU objects are created from these by the renderer; the cache
// itself never touches the device, which keeps it usable from worker goroutines.
package resource

import (
	"errors"
	"log"
	"path/filepath"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/voidstar-go/common"
	"github.com/Carmen-Shannon/voidstar-go/engine/renderer/shader"
	"github.com/fsnotify/fsnotify"
)

// ErrEmptyPath is returned when a resource is requested without a path.
var ErrEmptyPath = errors.New("empty resource path")

// CubemapFaces lists the six face image paths in +X, -X, +Y, -Y, +Z, -Z order.
type CubemapFaces [6]string

// Stats counts the entries currently held by a Cache.
type Stats struct {
	Shaders  int
	Textures int
	Cubemaps int
}

// cache is the implementation of the Cache interface.
type cache struct {
	mu sync.RWMutex

	shaders  map[string]shader.Shader
	textures map[string]common.TextureStagingData
	cubemaps map[CubemapFaces]common.CubemapStagingData

	workers     int
	placeholder [4]uint8

	watcher *fsnotify.Watcher
	changes chan string
	done    chan struct{}
}

// Cache defines the resource cache used by scenes to share shader variants and decoded images.
// Every lookup is memoized; a failed image load is logged and replaced by a 1x1 placeholder so
// rendering can continue.
type Cache interface {
	// GetShader returns the shader variant for path and defines, processing it on first use.
	// Variants are memoized on shader.VariantKey plus the stage, so define order and duplicates
	// do not produce separate entries.
	//
	// Parameters:
	//   - path: the WGSL file path
	//   - shaderType: the stage to compile the source for
	//   - defines: the variant's defines
	//
	// Returns:
	//   - shader.Shader: the processed variant
	//   - error: ErrEmptyPath, or the read or pre-processing error; failures are not cached
	GetShader(path string, shaderType shader.ShaderType, defines ...string) (shader.Shader, error)

	// GetTexture returns the decoded RGBA pixels of an image file. A file that cannot be read or
	// decoded yields the placeholder texture, which is cached under the path until invalidated.
	//
	// Parameters:
	//   - path: the image file path
	//
	// Returns:
	//   - common.TextureStagingData: the decoded image or the placeholder
	GetTexture(path string) common.TextureStagingData

	// GetCubemap returns the six decoded faces of a cubemap. Faces are rescaled to the edge length
	// of the first face. If any face fails to load the whole cubemap is replaced by placeholder faces.
	//
	// Parameters:
	//   - faces: the face image paths
	//
	// Returns:
	//   - common.CubemapStagingData: the decoded faces or the placeholder
	GetCubemap(faces CubemapFaces) common.CubemapStagingData

	// Preload decodes the given textures and cubemaps in parallel on a worker pool and blocks until
	// every one is cached.
	//
	// Parameters:
	//   - textures: image paths to decode
	//   - cubemaps: cubemap face sets to decode
	Preload(textures []string, cubemaps []CubemapFaces)

	// Invalidate drops every entry loaded from path: shader variants, textures and cubemaps that
	// use it as a face.
	//
	// Parameters:
	//   - path: the file path
	//
	// Returns:
	//   - int: the number of entries dropped
	Invalidate(path string) int

	// InvalidateAll empties the cache.
	InvalidateAll()

	// Watch starts watching dir for file changes. Changed paths are queued for PollChanges.
	//
	// Parameters:
	//   - dir: the directory to watch, not recursive
	//
	// Returns:
	//   - error: an error if the watcher cannot be created or the directory added
	Watch(dir string) error

	// PollChanges drains the queued file changes without blocking, invalidates each changed path
	// and returns the distinct paths in the order they were first seen.
	//
	// Returns:
	//   - []string: the changed paths, nil if nothing changed
	PollChanges() []string

	// Stats returns the number of cached entries of each kind.
	//
	// Returns:
	//   - Stats: the entry counts
	Stats() Stats

	// Close stops the watcher, if any.
	//
	// Returns:
	//   - error: an error from closing the watcher
	Close() error
}

var _ Cache = &cache{}

// NewCache creates an empty Cache with the given options applied.
//
// Parameters:
//   - options: a variadic list of CacheBuilderOption functions
//
// Returns:
//   - Cache: a new cache
func NewCache(options ...CacheBuilderOption) Cache {
	c := &cache{
		shaders:     make(map[string]shader.Shader),
		textures:    make(map[string]common.TextureStagingData),
		cubemaps:    make(map[CubemapFaces]common.CubemapStagingData),
		workers:     4,
		placeholder: [4]uint8{255, 0, 255, 255},
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}

// normalizePath makes paths from callers and from the file watcher comparable.
func normalizePath(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return filepath.Clean(path)
}

func shaderCacheKey(path string, shaderType shader.ShaderType, defines []string) string {
	return shaderType.String() + ":" + shader.VariantKey(normalizePath(path), defines)
}

func (c *cache) GetShader(path string, shaderType shader.ShaderType, defines ...string) (shader.Shader, error) {
	if path == "" {
		return nil, ErrEmptyPath
	}
	key := shaderCacheKey(path, shaderType, defines)

	c.mu.RLock()
	s, ok := c.shaders[key]
	c.mu.RUnlock()
	if ok {
		return s, nil
	}

	s, err := shader.NewShader(shader.VariantKey(filepath.Base(path), defines), shaderType, path, defines...)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	// another caller may have processed the same variant meanwhile
	if existing, ok := c.shaders[key]; ok {
		return existing, nil
	}
	c.shaders[key] = s
	return s, nil
}

func (c *cache) GetTexture(path string) common.TextureStagingData {
	key := normalizePath(path)
	c.mu.RLock()
	tex, ok := c.textures[key]
	c.mu.RUnlock()
	if ok {
		return tex
	}

	tex = c.loadTexture(path)

	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.textures[key]; ok {
		return existing
	}
	c.textures[key] = tex
	return tex
}

func (c *cache) loadTexture(path string) common.TextureStagingData {
	if path == "" {
		log.Printf("[Resource] texture: %v, using placeholder", ErrEmptyPath)
		return c.placeholderTexture()
	}
	tex, err := common.LoadImage(path, 0)
	if err != nil {
		log.Printf("[Resource] texture %s: %v, using placeholder", path, err)
		return c.placeholderTexture()
	}
	return tex
}

func (c *cache) GetCubemap(faces CubemapFaces) common.CubemapStagingData {
	key := normalizeFaces(faces)
	c.mu.RLock()
	cube, ok := c.cubemaps[key]
	c.mu.RUnlock()
	if ok {
		return cube
	}

	cube = c.loadCubemap(faces)

	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.cubemaps[key]; ok {
		return existing
	}
	c.cubemaps[key] = cube
	return cube
}

func (c *cache) loadCubemap(faces CubemapFaces) common.CubemapStagingData {
	var cube common.CubemapStagingData
	var size uint32
	for i, path := range faces {
		if path == "" {
			log.Printf("[Resource] cubemap face %d: %v, using placeholder", i, ErrEmptyPath)
			return c.placeholderCubemap()
		}
		face, err := common.LoadImage(path, size)
		if err != nil {
			log.Printf("[Resource] cubemap face %d %s: %v, using placeholder", i, path, err)
			return c.placeholderCubemap()
		}
		if i == 0 && face.Width != face.Height {
			// the first face sets the edge length for the rest, so it must be square as well
			face, err = common.LoadImage(path, max(face.Width, face.Height))
			if err != nil {
				log.Printf("[Resource] cubemap face %d %s: %v, using placeholder", i, path, err)
				return c.placeholderCubemap()
			}
		}
		if i == 0 {
			size = face.Width
		}
		cube.Faces[i] = face
	}
	return cube
}

func normalizeFaces(faces CubemapFaces) CubemapFaces {
	var key CubemapFaces
	for i, f := range faces {
		if f != "" {
			key[i] = normalizePath(f)
		}
	}
	return key
}

func (c *cache) placeholderTexture() common.TextureStagingData {
	return common.SolidTexture(c.placeholder[0], c.placeholder[1], c.placeholder[2], c.placeholder[3])
}

func (c *cache) placeholderCubemap() common.CubemapStagingData {
	var cube common.CubemapStagingData
	for i := range cube.Faces {
		cube.Faces[i] = c.placeholderTexture()
	}
	return cube
}

func (c *cache) Preload(textures []string, cubemaps []CubemapFaces) {
	if len(textures)+len(cubemaps) == 0 {
		return
	}

	pool := worker.NewDynamicWorkerPool(c.workers, len(textures)+len(cubemaps), 1*time.Second)
	defer pool.Stop()

	// pool.Wait blocks until the workers idle out, so completion is tracked separately.
	var wg sync.WaitGroup
	taskID := 0
	for _, path := range textures {
		wg.Add(1)
		p := path
		pool.SubmitTask(worker.Task{
			ID:      taskID,
			Payload: p,
			Do: func() (any, error) {
				defer wg.Done()
				return c.GetTexture(p), nil
			},
		})
		taskID++
	}
	for _, faces := range cubemaps {
		wg.Add(1)
		f := faces
		pool.SubmitTask(worker.Task{
			ID:      taskID,
			Payload: f,
			Do: func() (any, error) {
				defer wg.Done()
				return c.GetCubemap(f), nil
			},
		})
		taskID++
	}
	wg.Wait()
	log.Printf("[Resource] preloaded %d textures and %d cubemaps", len(textures), len(cubemaps))
}

func (c *cache) Invalidate(path string) int {
	key := normalizePath(path)

	c.mu.Lock()
	defer c.mu.Unlock()

	dropped := 0
	for k, s := range c.shaders {
		if s.Path() != "" && normalizePath(s.Path()) == key {
			delete(c.shaders, k)
			dropped++
		}
	}
	if _, ok := c.textures[key]; ok {
		delete(c.textures, key)
		dropped++
	}
	for faces := range c.cubemaps {
		for _, f := range faces {
			if f == key {
				delete(c.cubemaps, faces)
				dropped++
				break
			}
		}
	}
	return dropped
}

func (c *cache) InvalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.shaders = make(map[string]shader.Shader)
	c.textures = make(map[string]common.TextureStagingData)
	c.cubemaps = make(map[CubemapFaces]common.CubemapStagingData)
}

func (c *cache) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Stats{
		Shaders:  len(c.shaders),
		Textures: len(c.textures),
		Cubemaps: len(c.cubemaps),
	}
}
