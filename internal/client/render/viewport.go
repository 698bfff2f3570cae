package render

import "math"

// Viewport maps page space to device pixels for a given scale and rotation.
// Transform follows the [a b c d e f] affine convention:
//
//	x' = a*x + c*y + e
//	y' = b*x + d*y + f
type Viewport struct {
	Scale     float64
	Rotation  int
	Width     float64
	Height    float64
	Transform [6]float64
}

// NewViewport builds the viewport for a page with the given media box
// [x0 y0 x1 y1]. rotation is normalised to 0, 90, 180 or 270.
func NewViewport(box [4]float64, scale float64, rotation int) Viewport {
	rotation = NormalizeRotation(rotation)

	centerX := (box[2] + box[0]) / 2
	centerY := (box[3] + box[1]) / 2

	var a, b, c, d float64
	switch rotation {
	case 90:
		a, b, c, d = 0, 1, 1, 0
	case 180:
		a, b, c, d = -1, 0, 0, 1
	case 270:
		a, b, c, d = 0, -1, -1, 0
	default:
		a, b, c, d = 1, 0, 0, -1
	}

	var offX, offY, width, height float64
	if a == 0 {
		offX = math.Abs(centerY-box[1]) * scale
		offY = math.Abs(centerX-box[0]) * scale
		width = (box[3] - box[1]) * scale
		height = (box[2] - box[0]) * scale
	} else {
		offX = math.Abs(centerX-box[0]) * scale
		offY = math.Abs(centerY-box[1]) * scale
		width = (box[2] - box[0]) * scale
		height = (box[3] - box[1]) * scale
	}

	return Viewport{
		Scale:    scale,
		Rotation: rotation,
		Width:    width,
		Height:   height,
		Transform: [6]float64{
			a * scale, b * scale, c * scale, d * scale,
			offX - a*scale*centerX - c*scale*centerY,
			offY - b*scale*centerX - d*scale*centerY,
		},
	}
}

// Apply maps a page-space point to device space.
func (v Viewport) Apply(x, y float64) (float64, float64) {
	t := v.Transform
	return t[0]*x + t[2]*y + t[4], t[1]*x + t[3]*y + t[5]
}

// NormalizeRotation folds any multiple of 90 into [0, 360). Other values
// round down to the previous quarter turn.
func NormalizeRotation(r int) int {
	r %= 360
	if r < 0 {
		r += 360
	}
	return r - r%90
}
