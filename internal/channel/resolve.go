// Package channel resolves geometry channel values for a control point or
// polygon-vertex, whatever the channel's mapping and reference modes.
package channel

import (
	"errors"
	"fmt"

	"fbx2json/internal/scene"
)

var (
	ErrUnsupportedMappingMode   = errors.New("unsupported mapping mode")
	ErrUnsupportedReferenceMode = errors.New("unsupported reference mode")
	ErrIndexOutOfBounds         = errors.New("index out of bounds")
	ErrChannelNotFound          = errors.New("channel not found")
)

// DomainIndex picks the index a channel with mapping m is addressed by.
func DomainIndex(m scene.MappingMode, controlPoint, polygonVertex int) (int, error) {
	switch m {
	case scene.ByControlPoint:
		return controlPoint, nil
	case scene.ByPolygonVertex:
		return polygonVertex, nil
	default:
		return 0, fmt.Errorf("channel: %s: %w", m, ErrUnsupportedMappingMode)
	}
}

// Resolve returns the value of e for the corner at control point controlPoint
// and polygon-vertex id polygonVertex. Only the index selected by e.Mapping
// is read. Resolve never modifies e.
func Resolve[V any](e *scene.Element[V], controlPoint, polygonVertex int) (V, error) {
	var zero V
	d, err := DomainIndex(e.Mapping, controlPoint, polygonVertex)
	if err != nil {
		return zero, fmt.Errorf("channel %q: %w", e.Name, err)
	}

	switch e.Reference {
	case scene.Direct:
		if d < 0 || d >= len(e.Direct) {
			return zero, fmt.Errorf("channel %q: direct[%d] of %d: %w", e.Name, d, len(e.Direct), ErrIndexOutOfBounds)
		}
		return e.Direct[d], nil
	case scene.IndexToDirect:
		if d < 0 || d >= len(e.Index) {
			return zero, fmt.Errorf("channel %q: index[%d] of %d: %w", e.Name, d, len(e.Index), ErrIndexOutOfBounds)
		}
		i := e.Index[d]
		if i < 0 || i >= len(e.Direct) {
			return zero, fmt.Errorf("channel %q: index[%d] = %d, direct has %d: %w", e.Name, d, i, len(e.Direct), ErrIndexOutOfBounds)
		}
		return e.Direct[i], nil
	default:
		return zero, fmt.Errorf("channel %q: %s: %w", e.Name, e.Reference, ErrUnsupportedReferenceMode)
	}
}
