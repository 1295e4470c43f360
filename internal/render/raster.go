package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	"sort"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"

	"github.com/ivlev/geoslides/internal/geometry"
	"github.com/ivlev/geoslides/internal/scene"
	"github.com/ivlev/geoslides/internal/viewport"
)

const (
	// PointLabelOffset lifts point labels above the dot, in pixels.
	PointLabelOffset = 10
	arrowHeadLength  = 10.0
	arrowHeadWidth   = 4.0
	circleSteps      = 24
	overlayMargin    = 8
)

// Options control stroke widths and the background of a Raster.
type Options struct {
	LineWidth   float64
	PointRadius float64
	Background  color.Color
}

func DefaultOptions() Options {
	return Options{
		LineWidth:   1.5,
		PointRadius: 3,
		Background:  color.White,
	}
}

type object struct {
	id      scene.ID
	color   color.RGBA
	view    Primitives
	label   string
	labelAt geometry.Point
	anchor  geometry.Anchor
	isLabel bool
}

// Raster keeps a display list and rasterizes it into an RGBA image on
// Refresh.
type Raster struct {
	opts    Options
	img     *image.RGBA
	z       *vector.Rasterizer
	face    font.Face
	next    scene.ID
	objects map[scene.ID]*object
}

func NewRaster(width, height int, opts Options) *Raster {
	if opts.LineWidth <= 0 {
		opts.LineWidth = DefaultOptions().LineWidth
	}
	if opts.PointRadius <= 0 {
		opts.PointRadius = DefaultOptions().PointRadius
	}
	if opts.Background == nil {
		opts.Background = DefaultOptions().Background
	}
	return &Raster{
		opts:    opts,
		img:     image.NewRGBA(image.Rect(0, 0, width, height)),
		z:       vector.NewRasterizer(width, height),
		face:    basicfont.Face7x13,
		objects: make(map[scene.ID]*object),
	}
}

func (r *Raster) Draw(s *scene.Shape, vp *viewport.Viewport) (scene.Handle, error) {
	col, err := ParseColor(s.Color)
	if err != nil {
		return scene.Handle{}, err
	}

	r.next++
	h := scene.Handle{Geometry: r.next}
	r.objects[r.next] = &object{
		id:    r.next,
		color: col,
		view:  Project(s.Figure.Outline(), vp),
	}

	if l, ok := s.Label(); ok {
		at := vp.ToView(l.At)
		if s.Kind() == geometry.KindPoint {
			at.Y -= PointLabelOffset
		}
		r.next++
		h.Label = r.next
		r.objects[r.next] = &object{
			id:      r.next,
			color:   col,
			label:   l.Text,
			labelAt: at,
			anchor:  l.Anchor,
			isLabel: true,
		}
	}
	return h, nil
}

func (r *Raster) Undraw(h scene.Handle) error {
	for _, id := range []scene.ID{h.Geometry, h.Label} {
		if id == 0 {
			continue
		}
		if _, ok := r.objects[id]; !ok {
			return fmt.Errorf("undraw of unknown handle %d", id)
		}
		delete(r.objects, id)
	}
	return nil
}

// Refresh repaints the image from the display list.
func (r *Raster) Refresh() error {
	draw.Draw(r.img, r.img.Bounds(), image.NewUniform(r.opts.Background), image.Point{}, draw.Src)

	objs := make([]*object, 0, len(r.objects))
	for _, o := range r.objects {
		objs = append(objs, o)
	}
	sort.Slice(objs, func(i, j int) bool { return objs[i].id < objs[j].id })

	for _, o := range objs {
		if o.isLabel {
			r.label(o)
			continue
		}
		r.paint(o)
	}
	return nil
}

// Image returns the surface painted by the last Refresh.
func (r *Raster) Image() *image.RGBA {
	return r.img
}

// Resize drops the surface and starts a blank one of the new size.
func (r *Raster) Resize(width, height int) {
	r.img = image.NewRGBA(image.Rect(0, 0, width, height))
	r.z = vector.NewRasterizer(width, height)
}

func (r *Raster) paint(o *object) {
	for _, line := range o.view.Polylines {
		r.fill(o.color, func() {
			for i := 1; i < len(line); i++ {
				r.quad(geometry.Segment{A: line[i-1], B: line[i]})
			}
		})
	}
	for _, a := range o.view.Arrows {
		r.arrow(o.color, a)
	}
	rad := r.opts.PointRadius
	b := r.img.Bounds()
	for _, d := range o.view.Dots {
		if d.X < -rad || d.Y < -rad || d.X > float64(b.Dx())+rad || d.Y > float64(b.Dy())+rad {
			continue
		}
		r.fill(o.color, func() { r.circle(d, rad) })
	}
	for i, text := range o.view.Text {
		y := overlayMargin + r.face.Metrics().Ascent.Ceil() + i*r.face.Metrics().Height.Ceil()
		r.text(o.color, text, overlayMargin, y)
	}
}

func (r *Raster) fill(col color.RGBA, build func()) {
	b := r.img.Bounds()
	r.z.Reset(b.Dx(), b.Dy())
	r.z.DrawOp = draw.Over
	build()
	r.z.Draw(r.img, b, image.NewUniform(col), image.Point{})
}

// quad adds a stroke of the configured width, clipped to the surface.
func (r *Raster) quad(s geometry.Segment) {
	b := r.img.Bounds()
	m := 2 * r.opts.LineWidth
	s, ok := Clip(s, -m, -m, float64(b.Dx())+m, float64(b.Dy())+m)
	if !ok {
		return
	}
	d := s.B.Sub(s.A)
	l := d.Len()
	if l < 1e-9 {
		return
	}
	n := geometry.Point{X: -d.Y / l, Y: d.X / l}.Mul(r.opts.LineWidth / 2)

	r.z.MoveTo(f32(s.A.Add(n)))
	r.z.LineTo(f32(s.B.Add(n)))
	r.z.LineTo(f32(s.B.Sub(n)))
	r.z.LineTo(f32(s.A.Sub(n)))
	r.z.ClosePath()
}

func (r *Raster) circle(c geometry.Point, radius float64) {
	for i := 0; i <= circleSteps; i++ {
		a := 2 * math.Pi * float64(i) / circleSteps
		p := geometry.Point{X: c.X + radius*math.Cos(a), Y: c.Y + radius*math.Sin(a)}
		if i == 0 {
			r.z.MoveTo(f32(p))
		} else {
			r.z.LineTo(f32(p))
		}
	}
	r.z.ClosePath()
}

func (r *Raster) arrow(col color.RGBA, a geometry.Segment) {
	d := a.A.Sub(a.B)
	l := d.Len()
	if l < 1e-9 {
		return
	}
	u := d.Mul(1 / l)
	hl := math.Min(arrowHeadLength, l/2)
	base := a.B.Add(u.Mul(hl))

	r.fill(col, func() { r.quad(geometry.Segment{A: a.A, B: base}) })

	b := r.img.Bounds()
	if a.B.X < -hl || a.B.Y < -hl || a.B.X > float64(b.Dx())+hl || a.B.Y > float64(b.Dy())+hl {
		return
	}
	perp := geometry.Point{X: -u.Y, Y: u.X}.Mul(arrowHeadWidth)
	r.fill(col, func() {
		r.z.MoveTo(f32(a.B))
		r.z.LineTo(f32(base.Add(perp)))
		r.z.LineTo(f32(base.Sub(perp)))
		r.z.ClosePath()
	})
}

func (r *Raster) label(o *object) {
	m := r.face.Metrics()
	w := font.MeasureString(r.face, o.label).Ceil()
	x, y := int(math.Round(o.labelAt.X)), int(math.Round(o.labelAt.Y))

	switch o.anchor {
	case geometry.AnchorSouth:
		x -= w / 2
		y -= m.Descent.Ceil()
	case geometry.AnchorSouthWest:
		y -= m.Descent.Ceil()
	default:
		x -= w / 2
		y += (m.Ascent.Ceil() - m.Descent.Ceil()) / 2
	}
	r.text(o.color, o.label, x, y)
}

func (r *Raster) text(col color.RGBA, s string, x, baseline int) {
	d := font.Drawer{
		Dst:  r.img,
		Src:  image.NewUniform(col),
		Face: r.face,
		Dot:  fixed.P(x, baseline),
	}
	d.DrawString(s)
}

func f32(p geometry.Point) (float32, float32) {
	return float32(p.X), float32(p.Y)
}
