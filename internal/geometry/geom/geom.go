// Package geom holds the plain geometric types shared by every
// geometry sub-manager: points, sizes and rectangles over an
// output's or a surface's coordinate space.
package geom

// Point is a signed 2D position, in the same coordinate space as the
// component it's attached to (output-relative or absolute screen space).
type Point struct {
	X, Y int32
}

func (p Point) Add(o Point) Point { return Point{p.X + o.X, p.Y + o.Y} }
func (p Point) Sub(o Point) Point { return Point{p.X - o.X, p.Y - o.Y} }

// AddVec offsets p by a Vec2, used for popup anchor offsets.
func (p Point) AddVec(v Vec2) Point { return Point{p.X + v.X, p.Y + v.Y} }

// Vec2 is a signed 2D offset, used for popup anchor offsets.
type Vec2 struct {
	X, Y int32
}

// Size is an unsigned 2D extent.
type Size struct {
	W, H uint32
}

func (s Size) Half() Size {
	return Size{W: s.W / 2, H: s.H / 2}
}

// Rect is a position + size pair. Position is signed, size is
// unsigned, matching the spec's Rect<i32,u32>.
type Rect struct {
	Pos  Point
	Size Size
}

func NewRect(x, y int32, w, h uint32) Rect {
	return Rect{Pos: Point{X: x, Y: y}, Size: Size{W: w, H: h}}
}

// Max returns the exclusive bottom-right corner of the rect.
func (r Rect) Max() Point {
	return Point{X: r.Pos.X + int32(r.Size.W), Y: r.Pos.Y + int32(r.Size.H)}
}

// Contains reports whether p lies within the rect, Min inclusive and
// Max exclusive.
func (r Rect) Contains(p Point) bool {
	max := r.Max()
	return p.X >= r.Pos.X && p.X < max.X && p.Y >= r.Pos.Y && p.Y < max.Y
}

// Inflate grows the rect by n on every side. A negative n shrinks it.
func (r Rect) Inflate(n int32) Rect {
	w := int64(r.Size.W) + 2*int64(n)
	h := int64(r.Size.H) + 2*int64(n)
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	return Rect{
		Pos:  Point{X: r.Pos.X - n, Y: r.Pos.Y - n},
		Size: Size{W: uint32(w), H: uint32(h)},
	}
}

// Translate shifts the rect's position by o, keeping size fixed.
func (r Rect) Translate(o Point) Rect {
	return Rect{Pos: r.Pos.Add(o), Size: r.Size}
}

// Overlaps reports whether two rects share any area.
func (r Rect) Overlaps(o Rect) bool {
	rMax, oMax := r.Max(), o.Max()
	if r.Pos.X >= oMax.X || o.Pos.X >= rMax.X {
		return false
	}
	if r.Pos.Y >= oMax.Y || o.Pos.Y >= rMax.Y {
		return false
	}
	return true
}
