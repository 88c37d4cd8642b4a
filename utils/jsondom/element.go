// Package jsondom is a small JSON document model used to persist configuration and
// state. Node keeps its children sorted by name. Quoted strings are stored verbatim:
// no escape sequence is decoded on input or produced on output.
package jsondom

import "strings"

// Kind identifies the concrete type of an Element.
type Kind int

const (
	KindValue Kind = iota
	KindNode
	KindArray
)

func (k Kind) String() string {
	switch k {
	case KindValue:
		return "VALUE"
	case KindNode:
		return "NODE"
	case KindArray:
		return "ARRAY"
	}
	return "UNKNOWN"
}

// Element is one of *Value, *Node or *Array. An element may be attached to more than
// one parent.
type Element interface {
	Kind() Kind
	// Parse replaces the element content with the text in [start, end).
	Parse(text string, start, end int) error
	Stringify() string
	StringifyFormatted(format OutputFormat, indent int) string

	sealed()
}

func NewNode() *Node {
	return &Node{}
}

func NewArray() *Array {
	return &Array{}
}

func NewValue() *Value {
	return &Value{}
}

// Parse reads a document. The root object spans from the first '{' to the last '}'.
func Parse(text string) (*Node, error) {
	first := strings.IndexByte(text, '{')
	if first < 0 {
		return nil, errorAt(0, MissingBrace)
	}
	last := strings.LastIndexByte(text, '}')
	if last < first {
		return nil, errorAt(first, MissingBrace)
	}
	root := NewNode()
	if err := root.Parse(text, first, last+1); err != nil {
		return nil, err
	}
	return root, nil
}

// CreateElement builds the element starting at the first non-blank character of
// text[start:end] and returns it with the offset just past its text. Objects and arrays
// are parsed recursively; quoted strings are taken as is.
func CreateElement(text string, start, end int) (Element, int, error) {
	end = min(end, len(text))
	pos := skipSpace(text, start, end)
	if pos >= end {
		return nil, pos, errorAt(pos, MissingValue)
	}

	switch text[pos] {
	case '{':
		closer := findClosure(text, pos, end)
		if closer < 0 {
			return nil, pos, errorAt(pos, MissingBrace)
		}
		node := NewNode()
		if err := node.Parse(text, pos, closer+1); err != nil {
			return nil, pos, err
		}
		return node, closer + 1, nil
	case '[':
		closer := findClosure(text, pos, end)
		if closer < 0 {
			return nil, pos, errorAt(pos, MissingBracket)
		}
		arr := NewArray()
		if err := arr.Parse(text, pos, closer+1); err != nil {
			return nil, pos, err
		}
		return arr, closer + 1, nil
	case '"':
		closer := findClosure(text, pos, end)
		if closer < 0 {
			return nil, pos, errorAt(pos, MissingQuote)
		}
		return &Value{text: text[pos+1 : closer], typ: TypeString}, closer + 1, nil
	}

	lit := pos
	for lit < end && !isTerminator(text[lit]) {
		lit++
	}
	if lit == pos {
		return nil, pos, errorAt(pos, MissingValue)
	}
	if lit == end {
		return nil, pos, errorAt(pos, MissingDelimiter)
	}
	v := NewValue()
	if err := v.Parse(text, pos, lit); err != nil {
		return nil, pos, err
	}
	return v, lit, nil
}

// Equal reports whether a and b hold the same content.
func Equal(a, b Element) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Kind() != b.Kind() {
		return false
	}
	switch x := a.(type) {
	case *Value:
		y, _ := b.(*Value)
		return x.typ == y.typ && x.text == y.text
	case *Node:
		y, _ := b.(*Node)
		if len(x.entries) != len(y.entries) {
			return false
		}
		for i := range x.entries {
			if x.entries[i].name != y.entries[i].name || !Equal(x.entries[i].el, y.entries[i].el) {
				return false
			}
		}
		return true
	case *Array:
		y, _ := b.(*Array)
		if len(x.elems) != len(y.elems) {
			return false
		}
		for i := range x.elems {
			if !Equal(x.elems[i], y.elems[i]) {
				return false
			}
		}
		return true
	}
	return false
}
