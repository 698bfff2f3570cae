package render

import (
	"context"
	"image"
	"image/color"
	"image/draw"
	"math"
)

var (
	paper = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	ink   = color.RGBA{R: 0x60, G: 0x60, B: 0x60, A: 0xff}
)

// rasterize paints a page preview: blank paper with a bar where each text
// run sits, placed with the same geometry the highlight overlay uses.
func rasterize(ctx context.Context, vp Viewport, items []TextItem) (image.Image, error) {
	w := int(math.Ceil(vp.Width))
	h := int(math.Ceil(vp.Height))
	img := image.NewRGBA(image.Rect(0, 0, max(w, 1), max(h, 1)))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: paper}, image.Point{}, draw.Src)

	for i, it := range items {
		if i%64 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		x0, y0 := vp.Apply(it.Transform[4], it.Transform[5]+it.Height*0.8)
		x1, y1 := vp.Apply(it.Transform[4]+it.Width, it.Transform[5])
		r := image.Rect(int(math.Floor(x0)), int(math.Floor(y0)), int(math.Ceil(x1)), int(math.Ceil(y1))).Canon()
		draw.Draw(img, r.Intersect(img.Bounds()), &image.Uniform{C: ink}, image.Point{}, draw.Src)
	}
	return img, ctx.Err()
}
