package jsondom

// Geometric aggregates are stored as fixed-length arrays of numbers.

type Size struct{ Width, Height int32 }

type Point struct{ X, Y int32 }

type Rect struct{ Left, Top, Right, Bottom int32 }

type Rate struct{ Num, Den uint32 }

type Ratio struct{ Num, Den uint32 }

type Color struct{ R, G, B, A uint8 }

type FloatSize struct{ Width, Height float32 }

type FloatPoint2D struct{ X, Y float32 }

type FloatPoint3D struct{ X, Y, Z float32 }

type FloatVector4D struct{ X, Y, Z, W float32 }

func (n *Node) SetSize(name string, s Size) {
	SetArray(n, name, []int32{s.Width, s.Height})
}

func (n *Node) GetSize(name string) (Size, bool) {
	v, ok := getFixed[int32](n, name, 2) //nolint:mnd
	if !ok {
		return Size{}, false
	}
	return Size{Width: v[0], Height: v[1]}, true
}

func (n *Node) SetPoint(name string, p Point) {
	SetArray(n, name, []int32{p.X, p.Y})
}

func (n *Node) GetPoint(name string) (Point, bool) {
	v, ok := getFixed[int32](n, name, 2) //nolint:mnd
	if !ok {
		return Point{}, false
	}
	return Point{X: v[0], Y: v[1]}, true
}

func (n *Node) SetRect(name string, r Rect) {
	SetArray(n, name, []int32{r.Left, r.Top, r.Right, r.Bottom})
}

func (n *Node) GetRect(name string) (Rect, bool) {
	v, ok := getFixed[int32](n, name, 4) //nolint:mnd
	if !ok {
		return Rect{}, false
	}
	return Rect{Left: v[0], Top: v[1], Right: v[2], Bottom: v[3]}, true
}

func (n *Node) SetRate(name string, r Rate) {
	SetArray(n, name, []uint32{r.Num, r.Den})
}

func (n *Node) GetRate(name string) (Rate, bool) {
	v, ok := getFixed[uint32](n, name, 2) //nolint:mnd
	if !ok {
		return Rate{}, false
	}
	return Rate{Num: v[0], Den: v[1]}, true
}

func (n *Node) SetRatio(name string, r Ratio) {
	SetArray(n, name, []uint32{r.Num, r.Den})
}

func (n *Node) GetRatio(name string) (Ratio, bool) {
	v, ok := getFixed[uint32](n, name, 2) //nolint:mnd
	if !ok {
		return Ratio{}, false
	}
	return Ratio{Num: v[0], Den: v[1]}, true
}

func (n *Node) SetColor(name string, c Color) {
	SetArray(n, name, []uint8{c.R, c.G, c.B, c.A})
}

func (n *Node) GetColor(name string) (Color, bool) {
	v, ok := getFixed[uint8](n, name, 4) //nolint:mnd
	if !ok {
		return Color{}, false
	}
	return Color{R: v[0], G: v[1], B: v[2], A: v[3]}, true
}

func (n *Node) SetFloatSize(name string, s FloatSize) {
	SetArray(n, name, []float32{s.Width, s.Height})
}

func (n *Node) GetFloatSize(name string) (FloatSize, bool) {
	v, ok := getFixed[float32](n, name, 2) //nolint:mnd
	if !ok {
		return FloatSize{}, false
	}
	return FloatSize{Width: v[0], Height: v[1]}, true
}

func (n *Node) SetFloatPoint2D(name string, p FloatPoint2D) {
	SetArray(n, name, []float32{p.X, p.Y})
}

func (n *Node) GetFloatPoint2D(name string) (FloatPoint2D, bool) {
	v, ok := getFixed[float32](n, name, 2) //nolint:mnd
	if !ok {
		return FloatPoint2D{}, false
	}
	return FloatPoint2D{X: v[0], Y: v[1]}, true
}

func (n *Node) SetFloatPoint3D(name string, p FloatPoint3D) {
	SetArray(n, name, []float32{p.X, p.Y, p.Z})
}

func (n *Node) GetFloatPoint3D(name string) (FloatPoint3D, bool) {
	v, ok := getFixed[float32](n, name, 3) //nolint:mnd
	if !ok {
		return FloatPoint3D{}, false
	}
	return FloatPoint3D{X: v[0], Y: v[1], Z: v[2]}, true
}

func (n *Node) SetFloatVector4D(name string, p FloatVector4D) {
	SetArray(n, name, []float32{p.X, p.Y, p.Z, p.W})
}

func (n *Node) GetFloatVector4D(name string) (FloatVector4D, bool) {
	v, ok := getFixed[float32](n, name, 4) //nolint:mnd
	if !ok {
		return FloatVector4D{}, false
	}
	return FloatVector4D{X: v[0], Y: v[1], Z: v[2], W: v[3]}, true
}
