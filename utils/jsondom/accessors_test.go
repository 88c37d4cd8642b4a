package jsondom

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNodeAccessors(t *testing.T) {
	t.Parallel()

	node := NewNode()
	node.SetBool("bool", true)
	node.SetInt32("i32", -7)
	node.SetUInt32("u32", 4000000000)
	node.SetInt64("i64", -9000000000)
	node.SetUInt64("u64", 18000000000000000000)
	node.SetFloat("f32", 0.25)
	node.SetDouble("f64", -12.5)
	node.SetString("str", "hello")

	b, ok := node.GetBool("bool")
	require.True(t, ok)
	require.True(t, b)
	i32, _ := node.GetInt32("i32")
	require.Equal(t, int32(-7), i32)
	u32, _ := node.GetUInt32("u32")
	require.Equal(t, uint32(4000000000), u32)
	i64, _ := node.GetInt64("i64")
	require.Equal(t, int64(-9000000000), i64)
	u64, _ := node.GetUInt64("u64")
	require.Equal(t, uint64(18000000000000000000), u64)
	f32, _ := node.GetFloat("f32")
	require.InDelta(t, float32(0.25), f32, 0)
	f64, _ := node.GetDouble("f64")
	require.InDelta(t, -12.5, f64, 0)
	s, _ := node.GetString("str")
	require.Equal(t, "hello", s)

	t.Run("missing_or_wrong_kind", func(t *testing.T) {
		t.Parallel()
		_, ok := node.GetInt32("absent")
		require.False(t, ok)
		_, ok = node.GetNode("str")
		require.False(t, ok)
		_, ok = node.GetArray("str")
		require.False(t, ok)
	})

	t.Run("set_replaces", func(t *testing.T) {
		t.Parallel()
		n := NewNode()
		n.SetString("k", "first")
		n.SetInt32("k", 2)
		require.Equal(t, 1, n.GetElementCount())
		v, ok := n.GetInt32("k")
		require.True(t, ok)
		require.Equal(t, int32(2), v)
		n.SetElement("k", nil)
		require.Zero(t, n.GetElementCount())
	})
}

func TestNumberArrays(t *testing.T) {
	t.Parallel()

	node := NewNode()
	SetArray(node, "ints", []int16{-1, 0, 300})
	SetArray(node, "floats", []float64{0.5, -1.25})

	ints, ok := GetArray[int16](node, "ints")
	require.True(t, ok)
	require.Equal(t, []int16{-1, 0, 300}, ints)
	floats, ok := GetArray[float64](node, "floats")
	require.True(t, ok)
	require.Equal(t, []float64{0.5, -1.25}, floats)
	require.Equal(t, "[-1,0,300]", node.GetElementByName("ints").Stringify())

	mixed := NewArray()
	require.NoError(t, mixed.AddElement(NewValue()))
	require.NoError(t, mixed.AddElement(NewNode()))
	node.SetElement("mixed", mixed)
	_, ok = GetArray[int32](node, "mixed")
	require.False(t, ok)
}

func TestGeometry(t *testing.T) {
	t.Parallel()

	node := NewNode()
	node.SetSize("size", Size{Width: 640, Height: 480})
	node.SetPoint("point", Point{X: -3, Y: 9})
	node.SetRect("rect", Rect{Left: 1, Top: 2, Right: 30, Bottom: 40})
	node.SetRate("rate", Rate{Num: 30000, Den: 1001})
	node.SetRatio("ratio", Ratio{Num: 16, Den: 9})
	node.SetColor("color", Color{R: 255, G: 128, B: 0, A: 255})
	node.SetFloatSize("fsize", FloatSize{Width: 1.5, Height: 0.5})
	node.SetFloatPoint2D("p2", FloatPoint2D{X: 0.25, Y: -0.75})
	node.SetFloatPoint3D("p3", FloatPoint3D{X: 1, Y: 2, Z: -3.5})
	node.SetFloatVector4D("v4", FloatVector4D{X: 0.125, Y: 1, Z: 2, W: 3})

	size, ok := node.GetSize("size")
	require.True(t, ok)
	require.Equal(t, Size{Width: 640, Height: 480}, size)
	point, _ := node.GetPoint("point")
	require.Equal(t, Point{X: -3, Y: 9}, point)
	rect, _ := node.GetRect("rect")
	require.Equal(t, Rect{Left: 1, Top: 2, Right: 30, Bottom: 40}, rect)
	rate, _ := node.GetRate("rate")
	require.Equal(t, Rate{Num: 30000, Den: 1001}, rate)
	ratio, _ := node.GetRatio("ratio")
	require.Equal(t, Ratio{Num: 16, Den: 9}, ratio)
	color, _ := node.GetColor("color")
	require.Equal(t, Color{R: 255, G: 128, B: 0, A: 255}, color)
	fsize, _ := node.GetFloatSize("fsize")
	require.Equal(t, FloatSize{Width: 1.5, Height: 0.5}, fsize)
	p2, _ := node.GetFloatPoint2D("p2")
	require.Equal(t, FloatPoint2D{X: 0.25, Y: -0.75}, p2)
	p3, _ := node.GetFloatPoint3D("p3")
	require.Equal(t, FloatPoint3D{X: 1, Y: 2, Z: -3.5}, p3)
	v4, _ := node.GetFloatVector4D("v4")
	require.Equal(t, FloatVector4D{X: 0.125, Y: 1, Z: 2, W: 3}, v4)

	require.Equal(t, "[640,480]", node.GetElementByName("size").Stringify())

	t.Run("short_array", func(t *testing.T) {
		t.Parallel()
		n := NewNode()
		SetArray(n, "rect", []int32{1, 2, 3})
		_, ok := n.GetRect("rect")
		require.False(t, ok)
	})

	t.Run("extra_elements_ignored", func(t *testing.T) {
		t.Parallel()
		n := NewNode()
		SetArray(n, "size", []int32{5, 6, 7})
		got, ok := n.GetSize("size")
		require.True(t, ok)
		require.Equal(t, Size{Width: 5, Height: 6}, got)
	})
}
