package jsondom

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// ValueType tags the text held by a Value.
type ValueType int

const (
	TypeUnknown ValueType = iota
	TypeNull
	TypeBool
	TypeString
	TypeNumeric
)

func (t ValueType) String() string {
	switch t {
	case TypeNull:
		return "NULL"
	case TypeBool:
		return "BOOL"
	case TypeString:
		return "STRING"
	case TypeNumeric:
		return "NUMERIC"
	}
	return "UNKNOWN"
}

// Value is a scalar kept in its canonical text form. Conversions parse the text on
// every call.
type Value struct {
	text string
	typ  ValueType
}

func (v *Value) Kind() Kind { return KindValue }
func (v *Value) sealed()    {}

func (v *Value) Type() ValueType {
	return v.typ
}

// Parse reads a bare literal (null, true, false or a number) or a quoted string.
func (v *Value) Parse(text string, start, end int) error {
	end = min(end, len(text))
	if start >= end {
		return errorAt(start, MissingValue)
	}
	lit := text[start:end]
	switch {
	case lit[0] == '"':
		if len(lit) < 2 || lit[len(lit)-1] != '"' { //nolint:mnd
			return errorAt(start, MissingQuote)
		}
		v.text, v.typ = lit[1:len(lit)-1], TypeString
	case lit == "null":
		v.text, v.typ = lit, TypeNull
	case lit == "true" || lit == "false":
		v.text, v.typ = lit, TypeBool
	case isNumber(lit):
		v.text, v.typ = lit, TypeNumeric
	default:
		return errorAt(start, InvalidValue)
	}
	return nil
}

// isNumber accepts an optional sign, digits with an optional fraction and an optional
// exponent.
func isNumber(s string) bool {
	i := 0
	if i < len(s) && (s[i] == '-' || s[i] == '+') {
		i++
	}
	digits := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
		digits++
	}
	if i < len(s) && s[i] == '.' {
		i++
		for i < len(s) && s[i] >= '0' && s[i] <= '9' {
			i++
			digits++
		}
	}
	if digits == 0 {
		return false
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		i++
		if i < len(s) && (s[i] == '-' || s[i] == '+') {
			i++
		}
		exp := 0
		for i < len(s) && s[i] >= '0' && s[i] <= '9' {
			i++
			exp++
		}
		if exp == 0 {
			return false
		}
	}
	return i == len(s)
}

func (v *Value) SetValue(s string) {
	v.text, v.typ = s, TypeString
}

func (v *Value) SetToNull() {
	v.text, v.typ = "null", TypeNull
}

func (v *Value) SetValueAsBool(b bool) {
	v.text, v.typ = strconv.FormatBool(b), TypeBool
}

func (v *Value) SetValueAsInt32(n int32) {
	v.SetValueAsInt64(int64(n))
}

func (v *Value) SetValueAsUInt32(n uint32) {
	v.SetValueAsUInt64(uint64(n))
}

func (v *Value) SetValueAsInt64(n int64) {
	v.text, v.typ = strconv.FormatInt(n, 10), TypeNumeric
}

func (v *Value) SetValueAsUInt64(n uint64) {
	v.text, v.typ = strconv.FormatUint(n, 10), TypeNumeric
}

// SetValueAsFloat stores f as a number. NaN and infinities have no JSON literal and
// are stored as null.
func (v *Value) SetValueAsFloat(f float32) {
	v.setFloat(float64(f), 32) //nolint:mnd
}

// SetValueAsDouble behaves like SetValueAsFloat.
func (v *Value) SetValueAsDouble(f float64) {
	v.setFloat(f, 64) //nolint:mnd
}

func (v *Value) setFloat(f float64, bitSize int) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		v.SetToNull()
		return
	}
	v.text, v.typ = formatFloat(f, bitSize), TypeNumeric
}

// SetValueAsTime stores d as a count of nanoseconds.
func (v *Value) SetValueAsTime(d time.Duration) {
	v.SetValueAsInt64(int64(d))
}

// formatFloat prints six decimals and trims trailing zeros and a trailing dot.
func formatFloat(f float64, bitSize int) string {
	s := strconv.FormatFloat(f, 'f', 6, bitSize) //nolint:mnd
	if strings.IndexByte(s, '.') >= 0 {
		s = strings.TrimRight(s, "0")
		s = strings.TrimSuffix(s, ".")
	}
	if s == "" || s == "-" || s == "-0" {
		return "0"
	}
	return s
}

func (v *Value) GetValue() string {
	return v.text
}

func (v *Value) IsNull() bool {
	return v.typ == TypeNull
}

func (v *Value) GetValueAsBool() bool {
	b, err := strconv.ParseBool(v.text)
	return err == nil && b
}

func (v *Value) GetValueAsInt32() int32 {
	return int32(parseInt(v.text, 32)) //nolint:mnd
}

func (v *Value) GetValueAsUInt32() uint32 {
	return uint32(parseUint(v.text, 32)) //nolint:mnd
}

func (v *Value) GetValueAsInt64() int64 {
	return parseInt(v.text, 64) //nolint:mnd
}

func (v *Value) GetValueAsUInt64() uint64 {
	return parseUint(v.text, 64) //nolint:mnd
}

func (v *Value) GetValueAsFloat() float32 {
	f, err := strconv.ParseFloat(v.text, 32)
	if err != nil {
		return 0
	}
	return float32(f)
}

func (v *Value) GetValueAsDouble() float64 {
	f, err := strconv.ParseFloat(v.text, 64)
	if err != nil {
		return 0
	}
	return f
}

// GetValueAsTime returns the stored nanosecond count only when the value is tagged as
// a string. SetValueAsTime tags its output as numeric, so the two do not round-trip.
func (v *Value) GetValueAsTime() time.Duration {
	if v.typ != TypeString {
		return 0
	}
	return time.Duration(parseInt(v.text, 64)) //nolint:mnd
}

// parseInt converts base-10 text, falling back to the integer part of a decimal number.
// Malformed or out of range text yields 0.
func parseInt(s string, bitSize int) int64 {
	if n, err := strconv.ParseInt(s, 10, bitSize); err == nil {
		return n
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || !isNumber(s) {
		return 0
	}
	n, err := strconv.ParseInt(strconv.FormatFloat(math.Trunc(f), 'f', 0, 64), 10, bitSize)
	if err != nil {
		return 0
	}
	return n
}

func parseUint(s string, bitSize int) uint64 {
	if n, err := strconv.ParseUint(s, 10, bitSize); err == nil {
		return n
	}
	i := parseInt(s, 64)                            //nolint:mnd
	if i < 0 || (bitSize < 64 && i >= 1<<bitSize) { //nolint:mnd
		return 0
	}
	return uint64(i)
}

func (v *Value) Stringify() string {
	return v.StringifyFormatted(OutputFormat{}, 0)
}

// StringifyFormatted quotes strings and empty non-null values; everything else is
// written bare.
func (v *Value) StringifyFormatted(_ OutputFormat, _ int) string {
	if v.typ == TypeString || (v.text == "" && v.typ != TypeNull) {
		return `"` + v.text + `"`
	}
	return v.text
}
