package viz

import (
	"math"
	"sort"
)

type Vec3 struct {
	X, Y, Z float64
}

// Vec3 methods.
func (v Vec3) Add(o Vec3) Vec3      { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v Vec3) Sub(o Vec3) Vec3      { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }
func (v Vec3) Scale(s float64) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }
func (v Vec3) Length() float64      { return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z) }

// FromSlice reads up to three coordinates; missing ones are zero.
func FromSlice(p []float64) Vec3 {
	var v Vec3
	switch {
	case len(p) >= 3:
		v.Z = p[2]
		fallthrough
	case len(p) == 2:
		v.Y = p[1]
		fallthrough
	case len(p) == 1:
		v.X = p[0]
	}
	return v
}

// Camera manages 3D projection to a 2D plane. World points are first moved
// by -Center and scaled by Norm so the attractor fits a unit sphere.
type Camera struct {
	Position         Vec3
	Near             float64
	RotX, RotY, RotZ float64
	Zoom             float64
	Center           Vec3
	Norm             float64
}

func NewCamera() *Camera {
	return &Camera{Position: Vec3{0, 0, 5}, Near: 0.1, Zoom: 1.0, Norm: 1.0}
}

func (c *Camera) RotateX(a float64) { c.RotX += a }
func (c *Camera) RotateY(a float64) { c.RotY += a }
func (c *Camera) RotateZ(a float64) { c.RotZ += a }
func (c *Camera) ZoomIn()           { c.Zoom = math.Min(10, c.Zoom*1.2) }
func (c *Camera) ZoomOut()          { c.Zoom = math.Max(0.1, c.Zoom/1.2) }

// Fit centres the camera on the box [lo, hi]. It reports false and leaves
// the camera unchanged when the box is empty.
func (c *Camera) Fit(lo, hi []float64) bool {
	if len(lo) == 0 || len(lo) != len(hi) {
		return false
	}
	l, h := FromSlice(lo), FromSlice(hi)
	c.Center = l.Add(h).Scale(0.5)
	half := h.Sub(l).Scale(0.5).Length()
	if half == 0 {
		half = 1
	}
	c.Norm = 1 / half
	return true
}

// RotatePoint rotates a point around the camera's axes.
func (c *Camera) RotatePoint(p Vec3) Vec3 {
	cx, sx := math.Cos(c.RotX), math.Sin(c.RotX)
	p.Y, p.Z = p.Y*cx-p.Z*sx, p.Y*sx+p.Z*cx
	cy, sy := math.Cos(c.RotY), math.Sin(c.RotY)
	p.X, p.Z = p.X*cy+p.Z*sy, -p.X*sy+p.Z*cy
	cz, sz := math.Cos(c.RotZ), math.Sin(c.RotZ)
	p.X, p.Y = p.X*cz-p.Y*sz, p.X*sz+p.Y*cz
	return p
}

// Project converts world coordinates to a sw x sh pixel plane.
// Returns x, y, depth, and visibility.
func (c *Camera) Project(p Vec3, sw, sh int) (int, int, float64, bool) {
	rot := c.RotatePoint(p.Sub(c.Center).Scale(c.Norm)).Scale(c.Zoom)
	dist := c.Position.Z
	if rot.Z >= dist-c.Near {
		return 0, 0, 0, false
	}
	scale := dist / (dist - rot.Z)
	minDim := float64(sh)
	if float64(sw) < minDim {
		minDim = float64(sw)
	}
	pScale := minDim / 2.5
	sx := int(rot.X*scale*pScale) + sw/2
	sy := int(-rot.Y*scale*pScale) + sh/2
	return sx, sy, rot.Z, sx >= 0 && sx < sw && sy >= 0 && sy < sh
}

type Edge struct {
	Start, End Vec3
	Level      uint8
}

type Wireframe struct{ Edges []Edge }

func NewWireframe() *Wireframe                  { return &Wireframe{Edges: make([]Edge, 0)} }
func (w *Wireframe) AddEdge(s, e Vec3, l uint8) { w.Edges = append(w.Edges, Edge{s, e, l}) }

type ProjectedEdge struct {
	X1, Y1, X2, Y2 int
	Depth          float64
	Level          uint8
}

// Render3D draws the wireframe to the canvas, far edges first.
func Render3D(c *Canvas, w *Wireframe, cam *Camera) {
	if c == nil || w == nil || cam == nil {
		return
	}
	pw, ph := c.PixelSize()
	proj := make([]ProjectedEdge, 0, len(w.Edges))
	for _, e := range w.Edges {
		x1, y1, d1, v1 := cam.Project(e.Start, pw, ph)
		x2, y2, d2, v2 := cam.Project(e.End, pw, ph)
		if v1 || v2 {
			proj = append(proj, ProjectedEdge{x1, y1, x2, y2, (d1 + d2) / 2, e.Level})
		}
	}
	sort.SliceStable(proj, func(i, j int) bool { return proj[i].Depth < proj[j].Depth })
	for _, e := range proj {
		c.DrawLine(e.X1, e.Y1, e.X2, e.Y2, e.Level)
	}
}

// CreateAxesWireframe draws the three world axes through the camera centre.
func CreateAxesWireframe(center Vec3, l float64) *Wireframe {
	w := NewWireframe()
	w.AddEdge(center, center.Add(Vec3{l, 0, 0}), 0)
	w.AddEdge(center, center.Add(Vec3{0, l, 0}), 0)
	w.AddEdge(center, center.Add(Vec3{0, 0, l}), 0)
	return w
}
