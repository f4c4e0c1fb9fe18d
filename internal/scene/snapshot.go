package scene

import (
	"fmt"
	"slices"

	"github.com/san-kum/scenecore/internal/animation"
	"github.com/san-kum/scenecore/internal/geometry"
	"github.com/san-kum/scenecore/internal/vmath"
)

const SnapshotVersion = 1

// Snapshot is the flat, id-linked form of a scene.
type Snapshot struct {
	Version  int      `json:"version" yaml:"version"`
	Entities []Record `json:"entities" yaml:"entities"`
}

// Record describes one entity. ParentID 0 means the root.
type Record struct {
	ID       ID               `json:"id" yaml:"id"`
	Name     string           `json:"name" yaml:"name"`
	Position [3]float64       `json:"position" yaml:"position,flow"`
	Rotation [3]float64       `json:"rotation" yaml:"rotation,flow"`
	Scale    [3]float64       `json:"scale" yaml:"scale,flow"`
	Geometry geometry.Kind    `json:"geometry" yaml:"geometry"`
	Params   *geometry.Params `json:"params,omitempty" yaml:"params,omitempty"`
	Material string           `json:"material" yaml:"material"`
	Color    geometry.Color   `json:"color" yaml:"color,flow"`
	ParentID ID               `json:"parentId" yaml:"parentId"`

	Collider string       `json:"collider,omitempty" yaml:"collider,omitempty"`
	Body     *BodyRecord  `json:"body,omitempty" yaml:"body,omitempty"`
	Clips    []ClipRecord `json:"clips,omitempty" yaml:"clips,omitempty"`
}

type BodyRecord struct {
	Mass       float64    `json:"mass" yaml:"mass"`
	Velocity   [3]float64 `json:"velocity" yaml:"velocity,flow"`
	UseGravity bool       `json:"useGravity" yaml:"useGravity"`
}

type ClipRecord struct {
	Name     string                          `json:"name" yaml:"name"`
	Autoplay bool                            `json:"autoplay,omitempty" yaml:"autoplay,omitempty"`
	Channels map[string][]animation.Keyframe `json:"channels" yaml:"channels"`
}

// Serialize captures every entity except the root, in creation order.
func (s *Scene) Serialize() Snapshot {
	snap := Snapshot{Version: SnapshotVersion, Entities: make([]Record, 0, len(s.entities))}
	for _, e := range s.entities {
		snap.Entities = append(snap.Entities, e.record())
	}
	return snap
}

func (e *Entity) record() Record {
	r := Record{
		ID:       e.ID,
		Name:     e.Name,
		Position: e.Transform.Position.Array(),
		Rotation: e.Transform.Rotation.Array(),
		Scale:    e.Transform.Scale.Array(),
		Geometry: geometry.Empty,
		Material: e.Material.Name,
		Color:    e.Material.Color,
	}
	if e.Geometry != nil {
		r.Geometry = e.Geometry.Kind
		if e.Geometry.Params != (geometry.Params{}) {
			p := e.Geometry.Params
			r.Params = &p
		}
	}
	if e.parent != nil {
		r.ParentID = e.parent.ID
	}
	if c, ok := Get[*Collider](e); ok {
		r.Collider = c.Shape.String()
	}
	if rb, ok := Get[*RigidBody](e); ok {
		r.Body = &BodyRecord{
			Mass:       rb.Body.Mass,
			Velocity:   rb.Body.Velocity.Array(),
			UseGravity: rb.Body.UseGravity,
		}
	}
	for _, name := range e.Animation.ClipNames() {
		clip, _ := e.Animation.Clip(name)
		cr := ClipRecord{
			Name:     name,
			Autoplay: e.Animation.IsPlaying() && e.Animation.Current() == name,
			Channels: make(map[string][]animation.Keyframe),
		}
		for _, ch := range animation.Channels() {
			if keys := clip.Curve(ch).Keys(); len(keys) > 0 {
				cr.Channels[ch.String()] = keys
			}
		}
		r.Clips = append(r.Clips, cr)
	}
	return r
}

// Deserialize replaces the scene contents with snap. Entities are created
// first and linked to their parents in a second pass; a ParentID of 0 or
// one that names no record attaches to the root, as does a link that would
// close a cycle. The id allocator resumes
// after the largest id seen.
func (s *Scene) Deserialize(snap Snapshot) error {
	seen := make(map[ID]bool, len(snap.Entities))
	for _, r := range snap.Entities {
		if r.ID == RootID || seen[r.ID] {
			return fmt.Errorf("%w: %d", ErrDuplicateID, r.ID)
		}
		seen[r.ID] = true
		if _, err := geometry.ParseKind(string(r.Geometry)); err != nil {
			return fmt.Errorf("scene: entity %d: %w", r.ID, err)
		}
		if _, err := ParseShape(r.Collider); r.Collider != "" && err != nil {
			return fmt.Errorf("scene: entity %d: %w", r.ID, err)
		}
		for _, cr := range r.Clips {
			for name := range cr.Channels {
				if _, err := animation.ParseChannel(name); err != nil {
					return fmt.Errorf("scene: entity %d clip %q: %w", r.ID, cr.Name, err)
				}
			}
		}
	}

	for _, e := range slices.Clone(s.entities) {
		e.destroyComponents()
		e.scene = nil
	}
	s.reset()

	for _, r := range snap.Entities {
		s.apply(s.insert(r.ID, r.Name), r)
	}
	for _, r := range snap.Entities {
		child := s.byID[r.ID]
		parent, ok := s.byID[r.ParentID]
		if !ok || isAncestor(child, parent) {
			parent = s.root
		}
		link(parent, child)
	}
	for _, e := range s.entities {
		e.UpdateBounds()
	}

	s.logger.Debug("scene loaded")
	return nil
}

func (s *Scene) apply(e *Entity, r Record) {
	e.Transform.Position = vmath.FromArray(r.Position)
	e.Transform.Rotation = vmath.FromArray(r.Rotation)
	// Hand-written files may omit scale.
	if r.Scale != ([3]float64{}) {
		e.Transform.Scale = vmath.FromArray(r.Scale)
	}

	kind, _ := geometry.ParseKind(string(r.Geometry))
	var params geometry.Params
	if r.Params != nil {
		params = *r.Params
	}
	e.Geometry = geometry.New(kind, params)
	e.Material = geometry.Material{Name: r.Material, Color: r.Color}

	if r.Collider != "" {
		shape, _ := ParseShape(r.Collider)
		e.Attach(NewCollider(shape))
	}
	if r.Body != nil {
		rb := NewRigidBody(r.Body.Mass)
		rb.Body.Velocity = vmath.FromArray(r.Body.Velocity)
		rb.Body.UseGravity = r.Body.UseGravity
		e.Attach(rb)
	}
	for _, cr := range r.Clips {
		clip := animation.NewClip(cr.Name)
		for name, keys := range cr.Channels {
			ch, _ := animation.ParseChannel(name)
			for _, k := range keys {
				clip.AddKeyframe(ch, k.Time, k.Value)
			}
		}
		e.Animation.AddClip(clip)
		if cr.Autoplay {
			e.Animation.Play(cr.Name)
		}
	}
}
