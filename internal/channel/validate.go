package channel

import (
	"fmt"

	"fbx2json/internal/scene"
)

// Validate checks a whole channel against a mesh with the given control-point
// and polygon-vertex counts, so that Resolve cannot fail for any corner.
func Validate[V any](e *scene.Element[V], controlPoints, polygonVertices int) error {
	var size int
	switch e.Mapping {
	case scene.ByControlPoint:
		size = controlPoints
	case scene.ByPolygonVertex:
		size = polygonVertices
	default:
		return fmt.Errorf("channel %q: %s: %w", e.Name, e.Mapping, ErrUnsupportedMappingMode)
	}

	switch e.Reference {
	case scene.Direct:
		if len(e.Direct) < size {
			return fmt.Errorf("channel %q: direct has %d values, domain has %d: %w", e.Name, len(e.Direct), size, ErrIndexOutOfBounds)
		}
	case scene.IndexToDirect:
		if len(e.Index) != size {
			return fmt.Errorf("channel %q: index has %d entries, domain has %d: %w", e.Name, len(e.Index), size, ErrIndexOutOfBounds)
		}
		for d, i := range e.Index {
			if i < 0 || i >= len(e.Direct) {
				return fmt.Errorf("channel %q: index[%d] = %d, direct has %d: %w", e.Name, d, i, len(e.Direct), ErrIndexOutOfBounds)
			}
		}
	default:
		return fmt.Errorf("channel %q: %s: %w", e.Name, e.Reference, ErrUnsupportedReferenceMode)
	}
	return nil
}
