package h265

import (
	"errors"
	"fmt"

	"github.com/ugparu/hwcore/utils/bits/pio"
	"github.com/ugparu/hwcore/utils/buffer"
)

const (
	extradataReservedSize = 21
	lengthSizeMinusOne    = 3
	extradataArrayCount   = 2
	maxExtradataSPS       = 31
	minSPSBufferSize      = 5
	// arrayHeaderSize is the NAL type byte plus the two count bytes.
	arrayHeaderSize = 3
)

var (
	ErrNoSPS       = errors.New("h265parser: extradata has no SPS")
	ErrNoPPS       = errors.New("h265parser: extradata has no PPS")
	ErrTooManySPS  = errors.New("h265parser: extradata has too many SPS")
	ErrSPSTooShort = errors.New("h265parser: extradata SPS data too short")
)

// ExtraDataBuilder collects SPS and PPS NAL units, each stored with a two byte
// big-endian length prefix. The zero value is ready to use.
type ExtraDataBuilder struct {
	sps      buffer.PooledBuffer
	pps      buffer.PooledBuffer
	spsCount int
	ppsCount int
}

func appendLengthPrefixed(dst buffer.PooledBuffer, nal []byte) buffer.PooledBuffer {
	if dst == nil {
		dst = buffer.Get(0)
	}
	var size [2]byte
	pio.PutU16BE(size[:], uint16(len(nal))) //nolint:gosec // NAL units stored here are parameter sets
	dst.Append(size[:]...)
	dst.Append(nal...)
	return dst
}

// AddSPS stores an SPS NAL unit (header included, start code excluded).
func (b *ExtraDataBuilder) AddSPS(nal []byte) {
	b.sps = appendLengthPrefixed(b.sps, nal)
	b.spsCount++
}

// AddPPS stores a PPS NAL unit (header included, start code excluded).
func (b *ExtraDataBuilder) AddPPS(nal []byte) {
	b.pps = appendLengthPrefixed(b.pps, nal)
	b.ppsCount++
}

func (b *ExtraDataBuilder) SPSCount() int { return b.spsCount }
func (b *ExtraDataBuilder) PPSCount() int { return b.ppsCount }

// Extradata lays out the collected parameter sets:
//
//	[21 x 0][0xFC|3][2][33][count lo][count hi][SPS...][34][count lo][count hi][PPS...]
func (b *ExtraDataBuilder) Extradata() ([]byte, error) {
	if b.spsCount == 0 {
		return nil, ErrNoSPS
	}
	if b.ppsCount == 0 {
		return nil, ErrNoPPS
	}
	if b.spsCount > maxExtradataSPS {
		return nil, fmt.Errorf("%w: %d", ErrTooManySPS, b.spsCount)
	}
	if b.sps.Len() < minSPSBufferSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrSPSTooShort, b.sps.Len())
	}

	out := make([]byte, 0,
		extradataReservedSize+2+arrayHeaderSize+b.sps.Len()+arrayHeaderSize+b.pps.Len())
	out = append(out, make([]byte, extradataReservedSize)...)
	out = append(out, 0xFC|lengthSizeMinusOne, extradataArrayCount)      //nolint:mnd
	out = append(out, NalUnitSps, byte(b.spsCount), byte(b.spsCount>>8)) //nolint:mnd,gosec
	out = append(out, b.sps.Data()...)
	out = append(out, NalUnitPps, byte(b.ppsCount), byte(b.ppsCount>>8)) //nolint:mnd,gosec
	out = append(out, b.pps.Data()...)
	return out, nil
}

// Reset drops the collected NAL units and returns the buffers to the pool.
func (b *ExtraDataBuilder) Reset() {
	if b.sps != nil {
		b.sps.Release()
	}
	if b.pps != nil {
		b.pps.Release()
	}
	*b = ExtraDataBuilder{}
}
