package scene

import (
	"math"
	"strconv"
)

// MarshalJSON writes non-finite components as null so that one bad value
// does not make the whole document unencodable.
func (v Vec4) MarshalJSON() ([]byte, error) {
	return appendComponents(make([]byte, 0, 64), v[:]), nil
}

// MarshalJSON writes non-finite components as null.
func (v Vec2) MarshalJSON() ([]byte, error) {
	return appendComponents(make([]byte, 0, 32), v[:]), nil
}

func appendComponents(b []byte, fs []float64) []byte {
	b = append(b, '[')
	for i, f := range fs {
		if i > 0 {
			b = append(b, ',')
		}
		b = appendFloat(b, f)
	}
	return append(b, ']')
}

// appendFloat formats f the way encoding/json does.
func appendFloat(b []byte, f float64) []byte {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return append(b, "null"...)
	}
	format := byte('f')
	if abs := math.Abs(f); abs != 0 && (abs < 1e-6 || abs >= 1e21) {
		format = 'e'
	}
	b = strconv.AppendFloat(b, f, format, -1, 64)
	if format == 'e' {
		// clean up e-09 to e-9
		n := len(b)
		if n >= 4 && b[n-4] == 'e' && b[n-3] == '-' && b[n-2] == '0' {
			b[n-2] = b[n-1]
			b = b[:n-1]
		}
	}
	return b
}
