package scene

import (
	"errors"
	"fmt"
)

var (
	// ErrCyclicParent is returned when an entity would become its own ancestor.
	ErrCyclicParent = errors.New("scene: parent would create a cycle")

	// ErrNotInScene is returned for entities owned by another scene, deleted
	// entities and the root where a regular entity is required.
	ErrNotInScene = errors.New("scene: entity not in scene")

	// ErrDuplicateID is returned by Deserialize when two records share an id
	// or a record claims the root id.
	ErrDuplicateID = errors.New("scene: duplicate entity id")
)

// ComponentError wraps a failure raised by one component during a lifecycle
// callback.
type ComponentError struct {
	Entity  ID
	Kind    Kind
	Phase   string
	Wrapped error
}

func (e *ComponentError) Error() string {
	return fmt.Sprintf("scene: entity %d %s %s: %v", e.Entity, e.Kind, e.Phase, e.Wrapped)
}

func (e *ComponentError) Unwrap() error {
	return e.Wrapped
}

// guard runs fn and turns a panic into an error.
func guard(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return fn()
}
