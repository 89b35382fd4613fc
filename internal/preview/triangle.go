package preview

import (
	"image"
	"math"
)

// Vertex is a projected triangle corner. X and Y are in pixels, Z is depth
// (larger is closer). C is the corner color in sRGB; U and V are only read
// when a texture is given.
type Vertex struct {
	X, Y, Z float64
	C       [3]uint8
	U, V    float64
}

// RasterizeTriangle fills one triangle with z-buffering. Corner colors are
// interpolated in linear space; a non-nil tex replaces them with texels.
// shade is the flat lighting term of the face.
func RasterizeTriangle(fb *FrameBuffer, tri *[3]Vertex, tex *image.NRGBA, shade float64, lc *LightConfig) {
	x0, y0, z0 := tri[0].X, tri[0].Y, tri[0].Z
	x1, y1, z1 := tri[1].X, tri[1].Y, tri[1].Z
	x2, y2, z2 := tri[2].X, tri[2].Y, tri[2].Z

	// Bounding box
	minX := int(math.Min(math.Min(x0, x1), x2))
	maxX := int(math.Max(math.Max(x0, x1), x2)) + 1
	minY := int(math.Min(math.Min(y0, y1), y2))
	maxY := int(math.Max(math.Max(y0, y1), y2)) + 1

	if minX < 0 {
		minX = 0
	}
	if maxX >= fb.Width {
		maxX = fb.Width - 1
	}
	if minY < 0 {
		minY = 0
	}
	if maxY >= fb.Height {
		maxY = fb.Height - 1
	}
	if minX > maxX || minY > maxY {
		return
	}

	// Barycentric setup
	det := (y1-y2)*(x0-x2) + (x2-x1)*(y0-y2)
	if det > -1e-8 && det < 1e-8 {
		return
	}
	invDet := 1.0 / det

	dy12 := y1 - y2
	dx21 := x2 - x1
	dy20 := y2 - y0
	dx02 := x0 - x2

	// Corner colors decoded to linear once per triangle.
	var lin [3][3]float64
	for i := range tri {
		for c := 0; c < 3; c++ {
			lin[i][c] = srgbToLinear[tri[i].C[c]]
		}
	}

	// Pixel loop, no allocations
	for sy := minY; sy <= maxY; sy++ {
		dsy := float64(sy) - y2
		rowOff := sy * fb.Width
		for sx := minX; sx <= maxX; sx++ {
			dsx := float64(sx) - x2
			w0 := (dy12*dsx + dx21*dsy) * invDet
			w1 := (dy20*dsx + dx02*dsy) * invDet
			w2 := 1.0 - w0 - w1

			if w0 < -0.001 || w1 < -0.001 || w2 < -0.001 {
				continue
			}

			z := w0*z0 + w1*z1 + w2*z2
			zIdx := rowOff + sx
			if z <= fb.ZBuf[zIdx] {
				continue
			}

			var lr, lg, lb float64
			alpha := uint8(255)
			if tex != nil {
				u := w0*tri[0].U + w1*tri[1].U + w2*tri[2].U
				v := w0*tri[0].V + w1*tri[1].V + w2*tri[2].V
				cr, cg, cb, ca := SampleTexture(tex, u, v)
				// Skip transparent texels
				if ca < 8 {
					continue
				}
				lr, lg, lb = srgbToLinear[cr], srgbToLinear[cg], srgbToLinear[cb]
				alpha = ca
			} else {
				lr = w0*lin[0][0] + w1*lin[1][0] + w2*lin[2][0]
				lg = w0*lin[0][1] + w1*lin[1][1] + w2*lin[2][1]
				lb = w0*lin[0][2] + w1*lin[1][2] + w2*lin[2][2]
			}
			fb.ZBuf[zIdx] = z

			pxIdx := zIdx * 4
			fb.Color[pxIdx] = lc.encode(lr * shade)
			fb.Color[pxIdx+1] = lc.encode(lg * shade)
			fb.Color[pxIdx+2] = lc.encode(lb * shade)
			fb.Color[pxIdx+3] = alpha
		}
	}
}

// encode maps a shaded linear value back to an sRGB byte.
func (lc *LightConfig) encode(x float64) uint8 {
	x *= lc.Exposure
	if lc.Tonemap {
		x = ACESTonemap(x)
	}
	if x <= 0 {
		return 0
	}
	return clamp255(math.Pow(x, lc.InvGamma) * 255)
}

func clamp255(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}
