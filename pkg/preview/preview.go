package preview

import (
	"image"
	"image/color"
	"io"
	"math"

	"github.com/fogleman/gg"
	"github.com/pkg/errors"

	"github.com/df07/go-bending-light/pkg/core"
	"github.com/df07/go-bending-light/pkg/geometry"
	"github.com/df07/go-bending-light/pkg/scene"
	"github.com/df07/go-bending-light/pkg/tracer"
)

// defaultViewWidth is the model-space width shown when no scale is given (meters)
const defaultViewWidth = 4e-5

// Options controls the preview image
type Options struct {
	Width  int       // Image width in pixels
	Height int       // Image height in pixels
	Scale  float64   // Pixels per meter; 0 fits defaultViewWidth across the image
	Center core.Vec2 // Model point at the image center; zero means the laser pivot
}

// DefaultOptions returns an 800x600 view centered on the pivot
func DefaultOptions() Options {
	return Options{Width: 800, Height: 600}
}

// view maps model coordinates (y up) to pixels (y down)
type view struct {
	width, height float64
	scale         float64
	center        core.Vec2
}

func (v view) point(p core.Vec2) (float64, float64) {
	return v.width/2 + (p.X-v.center.X)*v.scale, v.height/2 - (p.Y-v.center.Y)*v.scale
}

// extent is the model distance across the image diagonal
func (v view) extent() float64 {
	return math.Hypot(v.width, v.height) / v.scale
}

// Render draws media, prisms, rays, normals and the sensor
func Render(s *scene.Scene, result tracer.Result, opts Options) (image.Image, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, errors.Errorf("image size must be positive, got %dx%d", opts.Width, opts.Height)
	}
	if s == nil || s.Mode == nil {
		return nil, errors.New("nothing to render")
	}

	v := view{width: float64(opts.Width), height: float64(opts.Height), scale: opts.Scale, center: opts.Center}
	if v.scale <= 0 {
		v.scale = v.width / defaultViewWidth
	}
	if v.center.IsZero() {
		v.center = s.Laser.Pivot
	}

	dc := gg.NewContext(opts.Width, opts.Height)
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	switch mode := s.Mode.(type) {
	case scene.InterfaceMode:
		_, pivotY := v.point(s.Laser.Pivot)
		dc.SetColor(mode.Top.Color)
		dc.DrawRectangle(0, 0, v.width, pivotY)
		dc.Fill()
		dc.SetColor(mode.Bottom.Color)
		dc.DrawRectangle(0, pivotY, v.width, v.height-pivotY)
		dc.Fill()

	case scene.PrismMode:
		dc.SetColor(mode.Environment.Color)
		dc.DrawRectangle(0, 0, v.width, v.height)
		dc.Fill()
		for _, shape := range mode.Shapes() {
			drawShape(dc, v, shape)
			dc.SetColor(mode.PrismMedium.Color)
			dc.FillPreserve()
			dc.SetRGB(0.3, 0.3, 0.3)
			dc.SetLineWidth(1)
			dc.Stroke()
		}
	}

	limit := v.extent() * 2
	dc.SetLineWidth(2)
	for _, ray := range result.Rays {
		tip := ray.Tip
		if ray.Length() > limit {
			tip = ray.Tail.Add(ray.Direction().Multiply(limit))
		}
		dc.SetColor(opaque(ray.Color))
		dc.MoveTo(v.point(ray.Tail))
		dc.LineTo(v.point(tip))
		dc.Stroke()
	}

	normalLength := 20 / v.scale
	dc.SetRGB(1, 1, 0)
	dc.SetLineWidth(1)
	for _, hit := range result.Intersections {
		dc.MoveTo(v.point(hit.Point.Subtract(hit.UnitNormal.Multiply(normalLength))))
		dc.LineTo(v.point(hit.Point.Add(hit.UnitNormal.Multiply(normalLength))))
		dc.Stroke()
	}

	if s.Sensor != nil {
		x, y := v.point(s.Sensor.Position)
		dc.DrawCircle(x, y, s.Sensor.Radius*v.scale)
		if result.Reading.Hit {
			dc.SetRGB(0, 0.6, 0)
		} else {
			dc.SetRGB(0.2, 0.2, 0.2)
		}
		dc.SetLineWidth(2)
		dc.Stroke()
	}

	return dc.Image(), nil
}

// WritePNG renders the preview and encodes it as PNG
func WritePNG(w io.Writer, s *scene.Scene, result tracer.Result, opts Options) error {
	img, err := Render(s, result, opts)
	if err != nil {
		return err
	}
	dc := gg.NewContextForImage(img)
	return errors.Wrap(dc.EncodePNG(w), "encoding preview")
}

// SavePNG renders the preview to a PNG file
func SavePNG(path string, s *scene.Scene, result tracer.Result, opts Options) error {
	img, err := Render(s, result, opts)
	if err != nil {
		return err
	}
	return errors.Wrapf(gg.SavePNG(path, img), "saving preview %s", path)
}

// drawShape adds the outline of a shape to the current path
func drawShape(dc *gg.Context, v view, shape geometry.Shape) {
	switch sh := shape.(type) {
	case *geometry.Polygon:
		for i, vertex := range sh.Vertices {
			x, y := v.point(vertex)
			if i == 0 {
				dc.MoveTo(x, y)
			} else {
				dc.LineTo(x, y)
			}
		}
		dc.ClosePath()
	case *geometry.Circle:
		x, y := v.point(sh.Center)
		dc.DrawCircle(x, y, sh.Radius*v.scale)
	case *geometry.SemiCircle:
		// Pixel angles run clockwise because y is flipped
		x, y := v.point(sh.Center)
		facing := sh.Facing.Angle()
		dc.DrawArc(x, y, sh.Radius*v.scale, -facing-math.Pi/2, -facing+math.Pi/2)
		dc.ClosePath()
	}
}

// opaque keeps faint rays visible
func opaque(c color.NRGBA) color.NRGBA {
	if c.A < 64 {
		c.A = 64
	}
	return c
}
