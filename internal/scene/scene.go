package scene

import (
	"errors"
	"slices"

	"go.uber.org/zap"

	"github.com/san-kum/scenecore/internal/logging"
	"github.com/san-kum/scenecore/internal/physics"
	"github.com/san-kum/scenecore/internal/spatial"
)

type Scene struct {
	root     *Entity
	entities []*Entity
	byID     map[ID]*Entity
	nextID   ID

	physics *physics.Integrator
	logger  *zap.Logger
}

type Option func(*Scene)

func WithLogger(l *zap.Logger) Option {
	return func(s *Scene) { s.logger = logging.OrNop(l) }
}

// WithPhysics sets the integrator rigid bodies register with.
func WithPhysics(in *physics.Integrator) Option {
	return func(s *Scene) { s.physics = in }
}

func New(opts ...Option) *Scene {
	s := &Scene{
		byID:    make(map[ID]*Entity),
		physics: physics.NewIntegrator(physics.DefaultGravity),
		logger:  logging.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.reset()
	return s
}

func (s *Scene) reset() {
	s.root = newEntity(s, RootID, "Root")
	s.root.Geometry = nil
	s.entities = nil
	clear(s.byID)
	s.nextID = RootID + 1
}

func (s *Scene) Root() *Entity { return s.root }

func (s *Scene) Physics() *physics.Integrator { return s.physics }

func (s *Scene) Logger() *zap.Logger { return s.logger }

// Entities returns every entity except the root, in creation order.
func (s *Scene) Entities() []*Entity { return slices.Clone(s.entities) }

func (s *Scene) Len() int { return len(s.entities) }

func (s *Scene) Entity(id ID) (*Entity, bool) {
	e, ok := s.byID[id]
	return e, ok
}

// Find returns the first entity with the given name.
func (s *Scene) Find(name string) (*Entity, bool) {
	for _, e := range s.entities {
		if e.Name == name {
			return e, true
		}
	}
	return nil, false
}

// CreateEntity allocates the next id and attaches the entity to the root.
func (s *Scene) CreateEntity(name string) *Entity {
	if name == "" {
		name = "Entity"
	}
	e := s.insert(s.nextID, name)
	link(s.root, e)
	e.UpdateBounds()
	return e
}

func (s *Scene) insert(id ID, name string) *Entity {
	e := newEntity(s, id, name)
	s.entities = append(s.entities, e)
	s.byID[id] = e
	if id >= s.nextID {
		s.nextID = id + 1
	}
	return e
}

func (s *Scene) owns(e *Entity) bool {
	return e != nil && e.scene == s && s.byID[e.ID] == e
}

// DeleteEntity destroys e's components and removes it from the scene. Its
// children move to the root with their local transforms unchanged.
func (s *Scene) DeleteEntity(e *Entity) error {
	if !s.owns(e) {
		return ErrNotInScene
	}

	e.destroyComponents()
	for _, c := range slices.Clone(e.children) {
		link(s.root, c)
	}
	unlink(e)

	s.entities = slices.DeleteFunc(s.entities, func(o *Entity) bool { return o == e })
	delete(s.byID, e.ID)
	e.scene = nil

	s.logger.Debug("entity deleted", zap.Uint64("id", uint64(e.ID)), zap.String("name", e.Name))
	return nil
}

// SetParent moves child under parent, or under the root when parent is nil.
func (s *Scene) SetParent(child, parent *Entity) error {
	if parent == nil {
		parent = s.root
	}
	if !s.owns(child) || (parent != s.root && !s.owns(parent)) {
		return ErrNotInScene
	}
	if isAncestor(child, parent) {
		return ErrCyclicParent
	}
	link(parent, child)
	return nil
}

// isAncestor reports whether a is e or one of e's ancestors.
func isAncestor(a, e *Entity) bool {
	for p := e; p != nil; p = p.parent {
		if p == a {
			return true
		}
	}
	return false
}

// link attaches child to parent, detaching it from any previous parent in
// both the entity and transform trees.
func link(parent, child *Entity) {
	unlink(child)
	child.parent = parent
	parent.children = append(parent.children, child)
	parent.Transform.AddChild(child.Transform)
}

func unlink(child *Entity) {
	p := child.parent
	if p == nil {
		return
	}
	p.children = slices.DeleteFunc(p.children, func(o *Entity) bool { return o == child })
	p.Transform.RemoveChild(child.Transform)
	child.parent = nil
}

// Update runs one step over every entity in creation order: animation,
// components, then bounds. Failures are logged and returned joined.
func (s *Scene) Update(dt float64) error {
	var errs []error
	for _, e := range slices.Clone(s.entities) {
		if e.scene != s {
			continue
		}
		if err := e.Update(dt); err != nil {
			s.logger.Warn("component update failed", zap.Uint64("entity", uint64(e.ID)), zap.Error(err))
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// RefreshBounds recomputes cached bounds without running components.
func (s *Scene) RefreshBounds() {
	for _, e := range s.entities {
		e.UpdateBounds()
	}
}

// Step integrates physics for dt and then updates every entity.
func (s *Scene) Step(dt float64) error {
	if s.physics != nil {
		s.physics.Update(dt)
	}
	return s.Update(dt)
}

func (s *Scene) logComponentError(err *ComponentError) {
	s.logger.Warn("component callback failed", zap.Error(err))
}

// Raycast returns the entity whose cached box the ray enters first, and the
// entry distance.
func (s *Scene) Raycast(ray spatial.Ray) (*Entity, float64, bool) {
	hit, ok := physics.RaycastNearest(ray, s.entities)
	if !ok {
		return nil, 0, false
	}
	return hit.Item, hit.Distance, true
}

// RaycastFirst returns the first entity in creation order whose box the ray
// hits. It is not distance ordered.
func (s *Scene) RaycastFirst(ray spatial.Ray) (*Entity, bool) {
	return physics.Raycast(ray, s.entities)
}

type Pair struct {
	A, B *Entity
}

// Overlaps lists every pair of entities with enabled colliders whose shapes
// intersect, using the bounds cached by the last update.
func (s *Scene) Overlaps() []Pair {
	var cols []*Collider
	for _, e := range s.entities {
		if !e.Enabled(KindCollider) {
			continue
		}
		if c, ok := Get[*Collider](e); ok {
			cols = append(cols, c)
		}
	}

	var pairs []Pair
	for i := 0; i < len(cols); i++ {
		for j := i + 1; j < len(cols); j++ {
			if cols[i].Overlaps(cols[j]) {
				pairs = append(pairs, Pair{A: cols[i].entity, B: cols[j].entity})
			}
		}
	}
	return pairs
}
