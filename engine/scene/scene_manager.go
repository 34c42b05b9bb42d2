package scene

import (
	"fmt"
	"log"
	"slices"

	"github.com/Carmen-Shannon/voidstar-go/engine/resource"
)

// SceneManager keeps the registered scene factories and the single current scene, and forwards
// the frame callbacks to it.
type SceneManager interface {
	// Register adds a factory under name. Registering an existing name replaces its factory but
	// keeps its position in Names.
	//
	// Parameters:
	//   - name: the scene name
	//   - factory: creates the scene when it becomes current
	Register(name string, factory Factory)

	// Names returns the registered scene names in registration order.
	//
	// Returns:
	//   - []string: a copy of the names
	Names() []string

	// SetCurrentSceneByName releases the current scene and creates the named one.
	// If the factory fails no scene is current afterwards.
	//
	// Parameters:
	//   - name: a registered scene name
	//
	// Returns:
	//   - error: ErrSceneNotFound for an unknown name, or the wrapped factory error
	SetCurrentSceneByName(name string) error

	// Current returns the current scene, or nil if there is none.
	Current() Scene

	// DeleteCurrentScene releases the current scene and drops every cached resource.
	// Does nothing when no scene is current.
	DeleteCurrentScene()

	// OnUpdate forwards to the current scene.
	OnUpdate(dt float32)

	// OnRender forwards to the current scene. Returns nil when no scene is current.
	OnRender() error

	// OnResize forwards to the current scene.
	OnResize(width, height int)

	// OnGUIRender forwards to the current scene.
	OnGUIRender()
}

type sceneManager struct {
	cache     resource.Cache
	names     []string
	factories map[string]Factory
	current   Scene
}

var _ SceneManager = &sceneManager{}

// NewSceneManager creates an empty SceneManager.
//
// Parameters:
//   - cache: the resource cache invalidated when a scene is deleted; may be nil
//
// Returns:
//   - SceneManager: the manager with no scene registered
func NewSceneManager(cache resource.Cache) SceneManager {
	return &sceneManager{
		cache:     cache,
		factories: make(map[string]Factory),
	}
}

func (m *sceneManager) Register(name string, factory Factory) {
	if _, ok := m.factories[name]; !ok {
		m.names = append(m.names, name)
	}
	m.factories[name] = factory
}

func (m *sceneManager) Names() []string {
	return slices.Clone(m.names)
}

func (m *sceneManager) SetCurrentSceneByName(name string) error {
	factory, ok := m.factories[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrSceneNotFound, name)
	}

	m.DeleteCurrentScene()

	s, err := factory()
	if err != nil {
		return fmt.Errorf("failed to create scene %q: %w", name, err)
	}
	m.current = s
	log.Printf("[Scene] current scene is %q", name)
	return nil
}

func (m *sceneManager) Current() Scene {
	return m.current
}

func (m *sceneManager) DeleteCurrentScene() {
	if m.current == nil {
		return
	}
	log.Printf("[Scene] deleting scene %q", m.current.Name())
	m.current.Release()
	m.current = nil
	if m.cache != nil {
		m.cache.InvalidateAll()
	}
}

func (m *sceneManager) OnUpdate(dt float32) {
	if m.current != nil {
		m.current.OnUpdate(dt)
	}
}

func (m *sceneManager) OnRender() error {
	if m.current == nil {
		return nil
	}
	return m.current.OnRender()
}

func (m *sceneManager) OnResize(width, height int) {
	if m.current != nil {
		m.current.OnResize(width, height)
	}
}

func (m *sceneManager) OnGUIRender() {
	if m.current != nil {
		m.current.OnGUIRender()
	}
}
