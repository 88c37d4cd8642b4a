package h265

import (
	"errors"
	"fmt"
)

const (
	NalUnitCodedSliceTrailN    = 0
	NalUnitCodedSliceTrailR    = 1
	NalUnitCodedSliceTsaN      = 2
	NalUnitCodedSliceTsaR      = 3
	NalUnitCodedSliceStsaN     = 4
	NalUnitCodedSliceStsaR     = 5
	NalUnitCodedSliceRadlN     = 6
	NalUnitCodedSliceRadlR     = 7
	NalUnitCodedSliceRaslN     = 8
	NalUnitCodedSliceRaslR     = 9
	NalUnitCodedSliceBlaWLp    = 16
	NalUnitCodedSliceBlaWRadl  = 17
	NalUnitCodedSliceBlaNLp    = 18
	NalUnitCodedSliceIdrWRadl  = 19
	NalUnitCodedSliceIdrNLp    = 20
	NalUnitCodedSliceCra       = 21
	NalUnitVps                 = 32
	NalUnitSps                 = 33
	NalUnitPps                 = 34
	NalUnitAccessUnitDelimiter = 35
	NalUnitEos                 = 36
	NalUnitEob                 = 37
	NalUnitFillerData          = 38
	NalUnitPrefixSei           = 39
	NalUnitSuffixSei           = 40
	NalFU                      = 49
	NalUnitInvalid             = 64

	MaxVPSCount  = 16
	MaxSubLayers = 7
	MaxSPSCount  = 16
	MaxPPSCount  = 64

	// nal_unit_header() is two bytes.
	NalHeaderSize = 2
)

var (
	ErrH265IncorectUnitSize = errors.New("h265parser: incorrect unit size")
	ErrH265IncorectUnitType = errors.New("h265parser: incorrect unit type")
	ErrH265InvalidValue     = errors.New("h265parser: syntax element out of range")
)

// NalUnitHeader mirrors nal_unit_header().
type NalUnitHeader struct {
	ForbiddenZeroBit   uint8
	NalUnitType        uint8
	NuhLayerID         uint8
	NuhTemporalIDPlus1 uint8
}

// ParseNalUnitHeader decodes the two header bytes at the start of b.
func ParseNalUnitHeader(b []byte) (hdr NalUnitHeader, err error) {
	if len(b) < NalHeaderSize {
		err = ErrH265IncorectUnitSize
		return
	}
	hdr.ForbiddenZeroBit = b[0] >> 7          //nolint:mnd
	hdr.NalUnitType = (b[0] >> 1) & 0x3f      //nolint:mnd
	hdr.NuhLayerID = (b[0]&0x01)<<5 | b[1]>>3 //nolint:mnd
	hdr.NuhTemporalIDPlus1 = b[1] & 0x07      //nolint:mnd
	return
}

func (hdr NalUnitHeader) String() string {
	return fmt.Sprintf("NAL{type=%d(%s) layer=%d tid=%d}",
		hdr.NalUnitType, NalTypeName(hdr.NalUnitType), hdr.NuhLayerID, hdr.NuhTemporalIDPlus1)
}

// NalType extracts nal_unit_type from the first header byte.
func NalType(b byte) uint8 {
	return (b >> 1) & 0x3f //nolint:mnd
}

func NalTypeName(t uint8) string {
	switch t {
	case NalUnitCodedSliceTrailN, NalUnitCodedSliceTrailR:
		return "TRAIL"
	case NalUnitCodedSliceTsaN, NalUnitCodedSliceTsaR:
		return "TSA"
	case NalUnitCodedSliceStsaN, NalUnitCodedSliceStsaR:
		return "STSA"
	case NalUnitCodedSliceRadlN, NalUnitCodedSliceRadlR:
		return "RADL"
	case NalUnitCodedSliceRaslN, NalUnitCodedSliceRaslR:
		return "RASL"
	case NalUnitCodedSliceBlaWLp, NalUnitCodedSliceBlaWRadl, NalUnitCodedSliceBlaNLp:
		return "BLA"
	case NalUnitCodedSliceIdrWRadl, NalUnitCodedSliceIdrNLp:
		return "IDR"
	case NalUnitCodedSliceCra:
		return "CRA"
	case NalUnitVps:
		return "VPS"
	case NalUnitSps:
		return "SPS"
	case NalUnitPps:
		return "PPS"
	case NalUnitAccessUnitDelimiter:
		return "AUD"
	case NalUnitEos:
		return "EOS"
	case NalUnitEob:
		return "EOB"
	case NalUnitFillerData:
		return "FD"
	case NalUnitPrefixSei:
		return "PREFIX_SEI"
	case NalUnitSuffixSei:
		return "SUFFIX_SEI"
	case NalUnitInvalid:
		return "INVALID"
	}
	return "OTHER"
}

// IsSlice reports whether t is one of the coded slice segment types.
func IsSlice(t uint8) bool {
	return t <= NalUnitCodedSliceRaslR || (t >= NalUnitCodedSliceBlaWLp && t <= NalUnitCodedSliceCra)
}

// IsKey reports whether t is an IRAP picture (BLA, IDR or CRA).
func IsKey(naluType byte) bool {
	return naluType >= NalUnitCodedSliceBlaWLp && naluType <= NalUnitCodedSliceCra
}

// EBSPToRBSP removes emulation prevention bytes: every 0x03 that follows two zero bytes.
func EBSPToRBSP(ebsp []byte) []byte {
	rbsp := make([]byte, 0, len(ebsp))
	zeros := 0
	for _, b := range ebsp {
		if zeros >= 2 && b == 0x03 { //nolint:mnd
			zeros = 0
			continue
		}
		if b == 0 {
			zeros++
		} else {
			zeros = 0
		}
		rbsp = append(rbsp, b)
	}
	return rbsp
}
