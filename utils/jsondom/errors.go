package jsondom

import "fmt"

// Result is the outcome code of a parse or DOM operation.
type Result int

const (
	OK Result = iota
	MissingQuote
	MissingBrace
	MissingBracket
	MissingDelimiter
	MissingValue
	UnexpectedEnd
	DuplicateName
	InvalidArg
	InvalidValue
)

var resultNames = [...]string{
	OK:               "OK",
	MissingQuote:     "MISSING_QUOTE",
	MissingBrace:     "MISSING_BRACE",
	MissingBracket:   "MISSING_BRACKET",
	MissingDelimiter: "MISSING_DELIMITER",
	MissingValue:     "MISSING_VALUE",
	UnexpectedEnd:    "UNEXPECTED_END",
	DuplicateName:    "DUPLICATE_NAME",
	InvalidArg:       "INVALID_ARG",
	InvalidValue:     "INVALID_VALUE",
}

func (r Result) String() string {
	if r < 0 || int(r) >= len(resultNames) {
		return fmt.Sprintf("RESULT(%d)", int(r))
	}
	return resultNames[r]
}

func (r Result) Error() string {
	return "jsondom: " + r.String()
}

// Error reports where in the source text parsing stopped.
type Error struct {
	Offset int
	Code   Result
}

func (e *Error) Error() string {
	return fmt.Sprintf("jsondom: %s at offset %d", e.Code.String(), e.Offset)
}

func (e *Error) Unwrap() error {
	return e.Code
}

func errorAt(offset int, code Result) *Error {
	return &Error{Offset: offset, Code: code}
}
