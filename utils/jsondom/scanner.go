package jsondom

// FindClosure returns the offset of the delimiter closing the one at text[start], or -1.
// Braces and brackets nest; delimiters inside quoted strings are ignored. For a quote
// the next unescaped quote is returned. A backslash inside a string skips the
// following character.
func FindClosure(text string, start int) int {
	return findClosure(text, start, len(text))
}

func findClosure(text string, start, end int) int {
	if start < 0 || start >= end {
		return -1
	}
	opener := text[start]
	if opener == '"' {
		return findQuote(text, start+1, end)
	}
	var closer byte
	switch opener {
	case '{':
		closer = '}'
	case '[':
		closer = ']'
	default:
		return -1
	}

	depth := 0
	for i := start; i < end; i++ {
		switch text[i] {
		case '"':
			q := findQuote(text, i+1, end)
			if q < 0 {
				return -1
			}
			i = q
		case opener:
			depth++
		case closer:
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// findQuote returns the first unescaped '"' in text[from:end].
func findQuote(text string, from, end int) int {
	for i := from; i < end; i++ {
		switch text[i] {
		case '\\':
			i++
		case '"':
			return i
		}
	}
	return -1
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n'
}

// isArraySpace is the narrower set skipped before an array element.
func isArraySpace(c byte) bool {
	return c == '\t' || c == '\r' || c == '\n'
}

func isTerminator(c byte) bool {
	switch c {
	case '\t', '\n', '\r', ',', ':', '}', ']', ' ':
		return true
	}
	return false
}

func skipSpace(text string, pos, end int) int {
	for pos < end && isSpace(text[pos]) {
		pos++
	}
	return pos
}
