package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var letter = [4]float64{0, 0, 612, 792}

func TestNewViewport_Rotations(t *testing.T) {
	tests := []struct {
		name      string
		rotation  int
		scale     float64
		transform [6]float64
		w, h      float64
	}{
		{"upright", 0, 1, [6]float64{1, 0, 0, -1, 0, 792}, 612, 792},
		{"upright scaled", 0, 2, [6]float64{2, 0, 0, -2, 0, 1584}, 1224, 1584},
		{"quarter", 90, 1, [6]float64{0, 1, 1, 0, 0, 0}, 792, 612},
		{"half", 180, 1, [6]float64{-1, 0, 0, 1, 612, 0}, 612, 792},
		{"three quarters", 270, 1, [6]float64{0, -1, -1, 0, 792, 612}, 792, 612},
		{"full turn folds to upright", 360, 1, [6]float64{1, 0, 0, -1, 0, 792}, 612, 792},
		{"negative", -90, 1, [6]float64{0, -1, -1, 0, 792, 612}, 792, 612},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vp := NewViewport(letter, tt.scale, tt.rotation)
			for i := range tt.transform {
				assert.InDelta(t, tt.transform[i], vp.Transform[i], 1e-9, "transform[%d]", i)
			}
			assert.InDelta(t, tt.w, vp.Width, 1e-9)
			assert.InDelta(t, tt.h, vp.Height, 1e-9)
		})
	}
}

func TestViewport_ApplyKeepsCornersOnCanvas(t *testing.T) {
	for _, rot := range []int{0, 90, 180, 270} {
		vp := NewViewport(letter, 1.5, rot)
		for _, pt := range [][2]float64{{0, 0}, {612, 0}, {0, 792}, {612, 792}} {
			x, y := vp.Apply(pt[0], pt[1])
			assert.True(t, x >= -1e-9 && x <= vp.Width+1e-9, "rot %d x=%v", rot, x)
			assert.True(t, y >= -1e-9 && y <= vp.Height+1e-9, "rot %d y=%v", rot, y)
		}
	}
}

func TestViewport_UprightFlipsY(t *testing.T) {
	vp := NewViewport(letter, 1, 0)
	x, y := vp.Apply(72, 720)
	assert.InDelta(t, 72, x, 1e-9)
	assert.InDelta(t, 72, y, 1e-9)
}

func TestNormalizeRotation(t *testing.T) {
	assert.Equal(t, 0, NormalizeRotation(0))
	assert.Equal(t, 90, NormalizeRotation(450))
	assert.Equal(t, 270, NormalizeRotation(-90))
	assert.Equal(t, 90, NormalizeRotation(100))
}
