// Package scene holds the entities of a small 3D scene. Entities are
// allocated from a fixed pool so their addresses stay stable for parent
// links, listed in draw order in a vector, and optionally indexed by name.
package scene

import (
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"unicode/utf8"

	"github.com/pavanmanishd/memkit"
	"github.com/pavanmanishd/memkit/arena"
	"github.com/pavanmanishd/memkit/hashmap"
	"github.com/pavanmanishd/memkit/pool"
	"github.com/pavanmanishd/memkit/vector"
)

const (
	// DefaultCapacity is the entity pool size used when New is given
	// capacity <= 0.
	DefaultCapacity = 4096
	// MaxNameSize is the longest entity name, in bytes.
	MaxNameSize = 32
)

// ErrNameInUse is returned when spawning an entity whose name is already
// registered.
var ErrNameInUse = errors.New("name already in use")

// Vec3 is a 3-component vector.
type Vec3 struct {
	X, Y, Z float32
}

// Add returns v+o.
func (v Vec3) Add(o Vec3) Vec3 { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }

// Mul returns the component-wise product of v and o.
func (v Vec3) Mul(o Vec3) Vec3 { return Vec3{v.X * o.X, v.Y * o.Y, v.Z * o.Z} }

// Transform places an entity relative to its parent.
type Transform struct {
	Translation Vec3
	Scale       Vec3
}

// Identity is the transform that leaves points unchanged.
var Identity = Transform{Scale: Vec3{1, 1, 1}}

// Apply maps a point from local space into the parent's space.
func (t Transform) Apply(p Vec3) Vec3 {
	return t.Translation.Add(t.Scale.Mul(p))
}

// Entity is one object in the scene.
type Entity struct {
	Name      string
	Transform Transform
	Color     Vec3
	Parent    *Entity
}

// WorldPosition returns the entity's origin in world space, composing the
// transforms of every ancestor.
func (e *Entity) WorldPosition() Vec3 {
	p := e.Transform.Translation
	for pe := e.Parent; pe != nil; pe = pe.Parent {
		p = pe.Transform.Apply(p)
	}
	return p
}

// Scene owns a set of entities. Not goroutine-safe.
type Scene struct {
	pool     *pool.Pool[Entity]
	entities *vector.Vector[*Entity]
	names    *hashmap.Map[string, *Entity]
	log      *slog.Logger
}

// Option is a configuration option for Scene.
type Option func(*config)

type config struct {
	logger *slog.Logger
}

// WithLogger sets the logger for the scene and the containers it owns.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		c.logger = l
	}
}

// New creates an empty scene with room for capacity entities.
// If capacity <= 0, DefaultCapacity is used.
func New(capacity int, opts ...Option) (*Scene, error) {
	c := config{logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(&c)
	}
	if capacity <= 0 {
		capacity = DefaultCapacity
	}

	p, err := pool.New[Entity](capacity, pool.WithLogger(c.logger))
	if err != nil {
		return nil, fmt.Errorf("scene: %w", err)
	}
	return &Scene{
		pool:     p,
		entities: vector.New[*Entity](vector.WithLogger(c.logger)),
		names:    hashmap.New[string, *Entity](hashmap.String[string](), hashmap.WithLogger(c.logger)),
		log:      c.logger,
	}, nil
}

// Spawn copies e into the pool and appends it to the draw list. A non-empty
// name is cut to MaxNameSize bytes and must be unique.
func (s *Scene) Spawn(e Entity) (*Entity, error) {
	e.Name = clipName(e.Name)
	if e.Name != "" && s.names.Contains(e.Name) {
		return nil, fmt.Errorf("scene: spawn %q: %w", e.Name, ErrNameInUse)
	}
	p, err := s.pool.Construct(e)
	if err != nil {
		return nil, fmt.Errorf("scene: spawn: %w", err)
	}
	s.entities.PushBack(p)
	if p.Name != "" {
		s.names.Insert(p.Name, p)
	}
	return p, nil
}

// clipName cuts name to MaxNameSize bytes without splitting a rune.
func clipName(name string) string {
	if len(name) <= MaxNameSize {
		return name
	}
	n := MaxNameSize
	for n > 0 && !utf8.RuneStart(name[n]) {
		n--
	}
	return name[:n]
}

// Remove destroys e. Its children are reattached to e's parent, keeping
// their local transforms. The last entity in draw order takes e's place.
func (s *Scene) Remove(e *Entity) error {
	if !s.pool.Contains(e) {
		return fmt.Errorf("scene: remove: %w", memkit.ErrInvalidHandle)
	}

	idx := -1
	for i, other := range s.entities.All() {
		switch {
		case other == e:
			idx = i
		case other.Parent == e:
			other.Parent = e.Parent
		}
	}

	last, err := s.entities.PopBack()
	if err != nil {
		return fmt.Errorf("scene: remove: %w", err)
	}
	if last != e {
		if err := s.entities.Set(idx, last); err != nil {
			return fmt.Errorf("scene: remove: %w", err)
		}
	}
	if e.Name != "" {
		if err := s.names.Erase(e.Name); err != nil {
			return fmt.Errorf("scene: remove: %w", err)
		}
	}
	return s.pool.Destroy(e)
}

// Lookup returns the entity registered under name.
func (s *Scene) Lookup(name string) (*Entity, bool) {
	return s.names.Lookup(name)
}

// Populate fills a cube of side 2*radius centered on the origin with
// entities spaced step apart, colored by position. It stops early, without
// error, once the pool is full, and returns the number of entities spawned.
func (s *Scene) Populate(radius, step float32) (int, error) {
	if radius < 0 || step <= 0 {
		return 0, fmt.Errorf("scene: populate: invalid grid radius=%v step=%v", radius, step)
	}
	n := 0
	for x := -radius; x <= radius; x += step {
		for y := -radius; y <= radius; y += step {
			for z := -radius; z <= radius; z += step {
				if s.pool.Full() {
					s.log.Debug("scene: entity pool full", "spawned", n, "capacity", s.pool.Cap())
					return n, nil
				}
				if _, err := s.Spawn(Entity{
					Transform: Transform{
						Translation: Vec3{x, y, z},
						Scale:       Vec3{0.5, 0.5, 0.5},
					},
					Color: gridColor(x, y, z, radius),
				}); err != nil {
					return n, err
				}
				n++
			}
		}
	}
	s.log.Debug("scene: populated", "spawned", n, "live", s.pool.Len())
	return n, nil
}

func gridColor(x, y, z, radius float32) Vec3 {
	if radius == 0 {
		return Vec3{0.5, 0.5, 0.5}
	}
	d := 2 * radius
	return Vec3{(x + radius) / d, (y + radius) / d, (z + radius) / d}
}

// Len returns the number of live entities.
func (s *Scene) Len() int { return s.entities.Len() }

// Cap returns the entity capacity.
func (s *Scene) Cap() int { return s.pool.Cap() }

// Entities yields the entities in draw order.
func (s *Scene) Entities() iter.Seq[*Entity] {
	return s.entities.Values()
}

// Metrics returns the entity pool's statistics.
func (s *Scene) Metrics() arena.Metrics {
	return s.pool.Metrics()
}

// Names exposes the name index, for statistics.
func (s *Scene) Names() *hashmap.Map[string, *Entity] {
	return s.names
}

// Close destroys every entity. The scene must not be used afterwards.
func (s *Scene) Close() {
	s.names.Clear()
	s.entities.Release()
	s.pool.Close()
}
