package jsondom

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Parallel()

	doc, err := Parse(`garbage { "b" : [1, 2.5, "x", null, true, {"c":{}}, []], "a":"hello world", "n":-3 } trailing`)
	require.NoError(t, err)
	require.Equal(t, 3, doc.GetElementCount())

	name, el := doc.GetElementAt(0)
	require.Equal(t, "a", name)
	require.Equal(t, "hello world", el.(*Value).GetValue())

	arr, ok := doc.GetArray("b")
	require.True(t, ok)
	require.Equal(t, 7, arr.GetElementCount())
	require.Equal(t, TypeNumeric, arr.GetElementAt(0).(*Value).Type())
	require.InDelta(t, 2.5, arr.GetElementAt(1).(*Value).GetValueAsDouble(), 0)
	require.Equal(t, TypeString, arr.GetElementAt(2).(*Value).Type())
	require.True(t, arr.GetElementAt(3).(*Value).IsNull())
	require.True(t, arr.GetElementAt(4).(*Value).GetValueAsBool())
	inner, ok := arr.GetElementAt(5).(*Node)
	require.True(t, ok)
	c, ok := inner.GetNode("c")
	require.True(t, ok)
	require.Zero(t, c.GetElementCount())
	require.Zero(t, arr.GetElementAt(6).(*Array).GetElementCount())

	n, ok := doc.GetInt32("n")
	require.True(t, ok)
	require.Equal(t, int32(-3), n)
}

func TestParseErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		text   string
		code   Result
		offset int
	}{
		{"missing_closing_brace", `{"a":1`, MissingBrace, 0},
		{"no_object", `[1,2]`, MissingBrace, 0},
		{"missing_colon", `{"a"1}`, MissingDelimiter, 4},
		{"duplicate_name", `{"a":1,"a":2}`, DuplicateName, 7},
		{"invalid_literal", `{"a":nope}`, InvalidValue, 5},
		{"missing_value", `{"a":}`, MissingValue, 5},
		{"unterminated_string_value", `{"a":"x}`, MissingQuote, 5},
		{"unterminated_name", `{"a:1}`, MissingQuote, 1},
		{"unterminated_nested_array", `{"a":[1,2}`, MissingBracket, 5},
		{"array_space_before_bracket", `{"a":[ ]}`, MissingValue, 7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := Parse(tt.text)
			require.ErrorIs(t, err, tt.code)
			var perr *Error
			require.True(t, errors.As(err, &perr))
			require.Equal(t, tt.offset, perr.Offset)
		})
	}
}

func TestParseErrorMessage(t *testing.T) {
	t.Parallel()

	_, err := Parse(`{"a":nope}`)
	require.EqualError(t, err, "jsondom: INVALID_VALUE at offset 5")
	require.EqualError(t, InvalidValue, "jsondom: INVALID_VALUE")
}

func TestParseArrayWhitespace(t *testing.T) {
	t.Parallel()

	for _, text := range []string{`{"a":[]}`, "{\"a\":[\n]}", "{\"a\":[\t\r\n]}"} {
		doc, err := Parse(text)
		require.NoError(t, err, text)
		arr, ok := doc.GetArray("a")
		require.True(t, ok)
		require.Zero(t, arr.GetElementCount())
	}

	doc, err := Parse("{\"a\":[\n  1,\n  2\n]}")
	require.NoError(t, err)
	values, ok := GetArray[int32](doc, "a")
	require.True(t, ok)
	require.Equal(t, []int32{1, 2}, values)
}

func TestCreateElement(t *testing.T) {
	t.Parallel()

	el, next, err := CreateElement(`  "quoted \"x\"" , 1`, 0, 19)
	require.NoError(t, err)
	require.Equal(t, KindValue, el.Kind())
	require.Equal(t, `quoted \"x\"`, el.(*Value).GetValue())
	require.Equal(t, 16, next)

	el, next, err = CreateElement(`12,`, 0, 3)
	require.NoError(t, err)
	require.Equal(t, "12", el.(*Value).GetValue())
	require.Equal(t, 2, next)

	_, _, err = CreateElement(`12`, 0, 2)
	require.ErrorIs(t, err, MissingDelimiter)

	_, _, err = CreateElement("   ", 0, 3)
	require.ErrorIs(t, err, MissingValue)
}

func TestNodeDuplicateName(t *testing.T) {
	t.Parallel()

	node := NewNode()
	first := NewValue()
	first.SetValueAsInt32(1)
	second := NewValue()
	second.SetValueAsInt32(2)

	require.NoError(t, node.AddElement("x", first))
	require.ErrorIs(t, node.AddElement("x", second), DuplicateName)
	require.Same(t, first, node.GetElementByName("x"))
	require.Equal(t, 1, node.GetElementCount())

	require.ErrorIs(t, node.AddElement("y", nil), InvalidArg)
	require.ErrorIs(t, NewArray().AddElement(nil), InvalidArg)
}

func TestNodeSortedOrder(t *testing.T) {
	t.Parallel()

	node := NewNode()
	for _, name := range []string{"zeta", "alpha", "mid", "Beta"} {
		node.SetString(name, name)
	}
	var names []string
	for i := range node.GetElementCount() {
		name, _ := node.GetElementAt(i)
		names = append(names, name)
	}
	require.Equal(t, []string{"Beta", "alpha", "mid", "zeta"}, names)

	require.True(t, node.RemoveElement("mid"))
	require.False(t, node.RemoveElement("mid"))
	name, el := node.GetElementAt(5)
	require.Empty(t, name)
	require.Nil(t, el)
}

func TestSharedElement(t *testing.T) {
	t.Parallel()

	shared := NewNode()
	shared.SetInt32("v", 7)
	a := NewNode()
	b := NewNode()
	a.SetNode("child", shared)
	b.SetNode("child", shared)

	shared.SetInt32("v", 8)
	for _, parent := range []*Node{a, b} {
		child, ok := parent.GetNode("child")
		require.True(t, ok)
		v, _ := child.GetInt32("v")
		require.Equal(t, int32(8), v)
	}
}
