package jsondom

import (
	"slices"
	"strings"
)

type nodeEntry struct {
	name string
	el   Element
}

// Node maps unique names to elements. Iteration follows the sorted order of the names,
// not the order of insertion.
type Node struct {
	entries []nodeEntry
}

func (n *Node) Kind() Kind { return KindNode }
func (n *Node) sealed()    {}

func (n *Node) find(name string) (int, bool) {
	return slices.BinarySearchFunc(n.entries, name, func(e nodeEntry, name string) int {
		return strings.Compare(e.name, name)
	})
}

// AddElement attaches el under name. It fails with DuplicateName when the name is taken.
func (n *Node) AddElement(name string, el Element) error {
	if el == nil {
		return InvalidArg
	}
	i, found := n.find(name)
	if found {
		return DuplicateName
	}
	n.entries = slices.Insert(n.entries, i, nodeEntry{name: name, el: el})
	return nil
}

// SetElement attaches el under name, replacing any existing element. A nil el removes
// the name.
func (n *Node) SetElement(name string, el Element) {
	if el == nil {
		n.RemoveElement(name)
		return
	}
	i, found := n.find(name)
	if found {
		n.entries[i].el = el
		return
	}
	n.entries = slices.Insert(n.entries, i, nodeEntry{name: name, el: el})
}

func (n *Node) RemoveElement(name string) bool {
	i, found := n.find(name)
	if found {
		n.entries = slices.Delete(n.entries, i, i+1)
	}
	return found
}

func (n *Node) GetElementByName(name string) Element {
	if i, found := n.find(name); found {
		return n.entries[i].el
	}
	return nil
}

func (n *Node) GetElementCount() int {
	return len(n.entries)
}

// GetElementAt returns the idx-th element in name order.
func (n *Node) GetElementAt(idx int) (string, Element) {
	if idx < 0 || idx >= len(n.entries) {
		return "", nil
	}
	return n.entries[idx].name, n.entries[idx].el
}

func (n *Node) Clear() {
	n.entries = nil
}

// Parse reads the object in text[start:end], where text[start] is its '{'. Parsing
// stops at the first member not followed by a comma.
func (n *Node) Parse(text string, start, end int) error {
	end = min(end, len(text))
	n.Clear()
	pos := start
	if pos < end && text[pos] == '{' {
		pos++
	}
	for {
		nameOpen := strings.IndexByte(text[pos:end], '"')
		brace := strings.IndexByte(text[pos:end], '}')
		if brace >= 0 && (nameOpen < 0 || brace < nameOpen) {
			return nil
		}
		if nameOpen < 0 {
			return errorAt(pos, MissingBrace)
		}
		nameOpen += pos
		nameClose := findClosure(text, nameOpen, end)
		if nameClose < 0 {
			return errorAt(nameOpen, MissingQuote)
		}
		name := text[nameOpen+1 : nameClose]

		colon := skipSpace(text, nameClose+1, end)
		if colon >= end || text[colon] != ':' {
			return errorAt(colon, MissingDelimiter)
		}
		el, next, err := CreateElement(text, colon+1, end)
		if err != nil {
			return err
		}
		if err = n.AddElement(name, el); err != nil {
			return errorAt(nameOpen, DuplicateName)
		}

		next = skipSpace(text, next, end)
		if next >= end || text[next] != ',' {
			return nil
		}
		pos = next + 1
	}
}

func (n *Node) Stringify() string {
	return n.StringifyFormatted(OutputFormat{}, 0)
}

func (n *Node) StringifyFormatted(format OutputFormat, indent int) string {
	if len(n.entries) == 0 {
		return "{}"
	}
	var sb strings.Builder
	sb.WriteByte('{')
	for i, e := range n.entries {
		if i > 0 {
			sb.WriteByte(',')
		}
		if format.HumanReadable {
			sb.WriteByte('\n')
			sb.WriteString(format.pad(indent + 1))
		}
		sb.WriteByte('"')
		sb.WriteString(e.name)
		sb.WriteString(`":`)
		if format.HumanReadable {
			sb.WriteByte(' ')
		}
		sb.WriteString(e.el.StringifyFormatted(format, indent+1))
	}
	if format.HumanReadable {
		sb.WriteByte('\n')
		sb.WriteString(format.pad(indent))
	}
	sb.WriteByte('}')
	return sb.String()
}
