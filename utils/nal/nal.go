package nal

import (
	"github.com/ugparu/hwcore/utils/bits/pio"
)

// Format describes how NAL units are delimited inside a byte slice.
type Format int

const (
	Raw    Format = iota // single NAL unit without framing
	AVCC                 // 4-byte big-endian length prefixes
	AnnexB               // start codes (0x000001 or 0x00000001)
)

func (f Format) String() string {
	switch f {
	case Raw:
		return "raw"
	case AVCC:
		return "avcc"
	case AnnexB:
		return "annexb"
	}
	return "unknown"
}

// MinNaluSize is the minimum size of a Network Abstraction Layer Unit (NALU).
const MinNaluSize = 4

// StartCode is the 3-byte Annex-B prefix written in front of every NAL unit.
var StartCode = []byte{0, 0, 1}

// StartCodeLen reports the length of the start code (3 or 4) beginning at pos, or 0 when there is none.
func StartCodeLen(b []byte, pos int) int {
	if pos+2 >= len(b) || b[pos] != 0 {
		return 0
	}

	val3 := pio.U24BE(b[pos:])
	if val3 == 1 {
		return 3 //nolint:mnd
	}

	if val3 == 0 && pos+3 < len(b) && b[pos+3] == 1 {
		return 4 //nolint:mnd
	}

	return 0
}

// splitAnnexB returns the payloads between start codes. Zero bytes trailing a payload
// (the leading zero of a 4-byte start code) are not part of the payload.
func splitAnnexB(b []byte) [][]byte {
	var nalus [][]byte
	start := -1
	for pos := 0; pos < len(b); {
		n := StartCodeLen(b, pos)
		if n == 0 {
			pos++
			continue
		}
		if start >= 0 && pos > start {
			nalus = append(nalus, b[start:pos])
		}
		pos += n
		start = pos
	}
	if start >= 0 && start < len(b) {
		nalus = append(nalus, b[start:])
	}
	return nalus
}

func splitAVCC(b []byte) ([][]byte, bool) {
	var nalus [][]byte
	for len(b) >= MinNaluSize {
		size := pio.U32BE(b)
		b = b[MinNaluSize:]
		if size > uint32(len(b)) { //nolint:gosec
			return nil, false
		}
		if size > 0 {
			nalus = append(nalus, b[:size])
		}
		b = b[size:]
	}
	return nalus, len(b) == 0 && len(nalus) > 0
}

// SplitNALUs splits a byte slice into NAL units and reports the framing it detected.
// Annex-B is tried first: AVCC prefixes of 1 and 256..511 are indistinguishable from
// start codes and such NAL sizes do not occur for H.265 parameter sets or slices.
func SplitNALUs(b []byte) (nalus [][]byte, typ Format) {
	if len(b) < MinNaluSize {
		return [][]byte{b}, Raw
	}

	if StartCodeLen(b, 0) > 0 {
		return splitAnnexB(b), AnnexB
	}

	if nalus, ok := splitAVCC(b); ok {
		return nalus, AVCC
	}

	return [][]byte{b}, Raw
}

// JoinAnnexB concatenates NAL units, each prefixed with a 3-byte start code.
func JoinAnnexB(nalus [][]byte) []byte {
	size := 0
	for _, n := range nalus {
		size += len(StartCode) + len(n)
	}
	out := make([]byte, 0, size)
	for _, n := range nalus {
		out = append(out, StartCode...)
		out = append(out, n...)
	}
	return out
}
