// Package bits implements the bit-level primitives used by the H.26x parameter set parsers:
// fixed-width unsigned reads (u(n)) and Exp-Golomb codes (ue(v), se(v)).
package bits

import (
	"errors"
	"fmt"

	mbits "github.com/bluenviron/mediacommon/pkg/bits"
)

// ErrTruncated is returned when a read needs more bits than the payload holds.
var ErrTruncated = errors.New("bits: truncated bitstream")

// maxGolombBits is the length of the longest ue(v) code the reader accepts:
// 32 leading zeros, the marker bit and a 32 bit suffix.
const maxGolombBits = 2*32 + 1

// GolombBitReader reads MSB-first bits from an RBSP payload.
type GolombBitReader struct {
	buf []byte
	pos int
}

func NewReader(buf []byte) *GolombBitReader {
	return &GolombBitReader{buf: buf}
}

// fail classifies err returned by a read that started at bit start and needed need bits.
func (r *GolombBitReader) fail(err error, start, need int) error {
	if mbits.HasSpace(r.buf, start, need) != nil {
		return fmt.Errorf("%w at bit %d: %w", ErrTruncated, start, err)
	}
	return fmt.Errorf("bits: %w at bit %d", err, start)
}

// ReadBit reads one bit.
func (r *GolombBitReader) ReadBit() (uint, error) {
	v, err := r.ReadBits64(1)
	return uint(v), err
}

// ReadBits reads n (<= 32) bits as an unsigned value.
func (r *GolombBitReader) ReadBits(n int) (uint, error) {
	v, err := r.ReadBits64(n)
	return uint(v), err
}

// ReadBits32 reads n (<= 32) bits.
func (r *GolombBitReader) ReadBits32(n int) (uint32, error) {
	if n > 32 { //nolint:mnd
		return 0, fmt.Errorf("bits: ReadBits32 called with %d bits", n)
	}
	v, err := r.ReadBits64(n)
	return uint32(v), err //nolint:gosec // n <= 32
}

// ReadBits64 reads n (<= 64) bits.
func (r *GolombBitReader) ReadBits64(n int) (uint64, error) {
	if n < 0 || n > 64 { //nolint:mnd
		return 0, fmt.Errorf("bits: invalid bit count %d", n)
	}
	if n == 0 {
		return 0, nil
	}
	start := r.pos
	v, err := mbits.ReadBits(r.buf, &r.pos, n)
	if err != nil {
		return 0, r.fail(err, start, n)
	}
	return v, nil
}

// SkipBits discards n bits.
func (r *GolombBitReader) SkipBits(n int) error {
	if err := mbits.HasSpace(r.buf, r.pos, n); err != nil {
		return r.fail(err, r.pos, n)
	}
	r.pos += n
	return nil
}

// ReadFlag reads one bit as a boolean.
func (r *GolombBitReader) ReadFlag() (bool, error) {
	start := r.pos
	b, err := mbits.ReadFlag(r.buf, &r.pos)
	if err != nil {
		return false, r.fail(err, start, 1)
	}
	return b, nil
}

// ReadExponentialGolombCode reads an unsigned Exp-Golomb code, ue(v). A prefix of more
// than 32 zeros is rejected unless the payload ends first, which reports ErrTruncated.
func (r *GolombBitReader) ReadExponentialGolombCode() (uint, error) {
	start := r.pos
	v, err := mbits.ReadGolombUnsigned(r.buf, &r.pos)
	if err != nil {
		return 0, r.fail(err, start, maxGolombBits)
	}
	return uint(v), nil
}

// ReadSE reads a signed Exp-Golomb code, se(v).
func (r *GolombBitReader) ReadSE() (int, error) {
	start := r.pos
	v, err := mbits.ReadGolombSigned(r.buf, &r.pos)
	if err != nil {
		return 0, r.fail(err, start, maxGolombBits)
	}
	return int(v), nil
}

// BitsRead reports how many bits have been consumed so far.
func (r *GolombBitReader) BitsRead() uint64 {
	return uint64(r.pos) //nolint:gosec // never negative
}
