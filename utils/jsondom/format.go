package jsondom

import "strings"

// OutputFormat controls StringifyFormatted. The zero value produces compact text.
type OutputFormat struct {
	HumanReadable      bool
	NewLineBeforeBrace bool
	IndentChar         byte
	IndentWidth        uint8
}

// Indented returns a human-readable format using width copies of ch per level.
func Indented(ch byte, width uint8) OutputFormat {
	return OutputFormat{HumanReadable: true, NewLineBeforeBrace: true, IndentChar: ch, IndentWidth: width}
}

func (f OutputFormat) pad(indent int) string {
	if !f.HumanReadable || indent <= 0 || f.IndentWidth == 0 {
		return ""
	}
	ch := f.IndentChar
	if ch == 0 {
		ch = ' '
	}
	return strings.Repeat(string(ch), indent*int(f.IndentWidth))
}
