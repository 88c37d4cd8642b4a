package jsondom

import "strings"

// Array is an ordered list of elements.
type Array struct {
	elems []Element
}

func (a *Array) Kind() Kind { return KindArray }
func (a *Array) sealed()    {}

func (a *Array) AddElement(el Element) error {
	if el == nil {
		return InvalidArg
	}
	a.elems = append(a.elems, el)
	return nil
}

func (a *Array) GetElementAt(idx int) Element {
	if idx < 0 || idx >= len(a.elems) {
		return nil
	}
	return a.elems[idx]
}

func (a *Array) GetElementCount() int {
	return len(a.elems)
}

func (a *Array) Clear() {
	a.elems = nil
}

// Parse reads the array in text[start:end], where text[start] is its '[' and
// text[end-1] its ']'. Only tabs and line breaks are skipped before looking for the
// closing bracket, so "[ ]" is rejected with MissingValue.
func (a *Array) Parse(text string, start, end int) error {
	end = min(end, len(text))
	a.Clear()
	pos := start
	if pos < end && text[pos] == '[' {
		pos++
	}
	for {
		for pos < end && isArraySpace(text[pos]) {
			pos++
		}
		if pos >= end-1 {
			return nil
		}
		el, next, err := CreateElement(text, pos, end)
		if err != nil {
			return err
		}
		a.elems = append(a.elems, el)

		next = skipSpace(text, next, end)
		if next >= end || text[next] != ',' {
			return nil
		}
		pos = next + 1
	}
}

func (a *Array) Stringify() string {
	return a.StringifyFormatted(OutputFormat{}, 0)
}

// StringifyFormatted keeps scalars on one line. With NewLineBeforeBrace set, each
// object starts on its own line and the closing bracket follows a line break.
func (a *Array) StringifyFormatted(format OutputFormat, indent int) string {
	if len(a.elems) == 0 {
		return "[]"
	}
	var sb strings.Builder
	sb.WriteByte('[')
	hasNode := false
	for i, el := range a.elems {
		if i > 0 {
			sb.WriteByte(',')
		}
		_, isNode := el.(*Node)
		hasNode = hasNode || isNode
		switch {
		case format.HumanReadable && format.NewLineBeforeBrace && isNode:
			sb.WriteByte('\n')
			sb.WriteString(format.pad(indent + 1))
		case format.HumanReadable && i > 0:
			sb.WriteByte(' ')
		}
		sb.WriteString(el.StringifyFormatted(format, indent+1))
	}
	if format.HumanReadable && format.NewLineBeforeBrace && hasNode {
		sb.WriteByte('\n')
		sb.WriteString(format.pad(indent))
	}
	sb.WriteByte(']')
	return sb.String()
}
