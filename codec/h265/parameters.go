package h265

import (
	"fmt"
	"math/bits"
	"strings"

	"github.com/ugparu/hwcore"
	"github.com/ugparu/hwcore/codec"
)

// bitrateFactor is kbit/s per pixel column at 30 fps.
const bitrateFactor = 1.71

// CodecParameters describes one H.265 stream: its active parameter sets, the decoded SPS
// and the extradata built from them.
type CodecParameters struct {
	codec.BaseParameters
	VPSNal    []byte
	SPSNal    []byte
	PPSNal    []byte
	SPSInfo   SPS
	Extradata []byte
	fps       uint
}

// NewCodecParameters parses sps and builds extradata from sps and pps. fallbackFPS is
// used when the SPS carries no VUI timing information.
func NewCodecParameters(vps, sps, pps []byte, fallbackFPS uint) (codecPar *CodecParameters, err error) {
	if len(sps) == 0 || len(pps) == 0 {
		return nil, fmt.Errorf("h265parser: codec parameters need SPS and PPS (sps=%d pps=%d)", len(sps), len(pps))
	}
	codecPar = &CodecParameters{
		BaseParameters: codec.NewBaseParameters(hwcore.H265),
		VPSNal:         vps,
		SPSNal:         sps,
		PPSNal:         pps,
	}
	if codecPar.SPSInfo, err = ParseSPS(sps); err != nil {
		return nil, fmt.Errorf("h265parser: parse SPS failed(%w)", err)
	}

	var edb ExtraDataBuilder
	defer edb.Reset()
	edb.AddSPS(sps)
	edb.AddPPS(pps)
	if codecPar.Extradata, err = edb.Extradata(); err != nil {
		return nil, err
	}

	codecPar.fps = fallbackFPS
	if rate := codecPar.SPSInfo.FrameRate(); rate >= 1 {
		codecPar.fps = uint(rate + 0.5) //nolint:mnd
	}
	codecPar.SetBitrate(codec.EstimateBitrate(codecPar.Width(), codecPar.fps, bitrateFactor))
	return codecPar, nil
}

func (par *CodecParameters) Width() uint {
	return par.SPSInfo.Width()
}

func (par *CodecParameters) Height() uint {
	return par.SPSInfo.Height()
}

func (par *CodecParameters) FPS() uint {
	return par.fps
}

// ParameterSets returns the non-empty VPS, SPS and PPS in that order.
func (par *CodecParameters) ParameterSets() [][]byte {
	if par == nil {
		return nil
	}
	sets := make([][]byte, 0, 3) //nolint:mnd
	for _, ps := range [][]byte{par.VPSNal, par.SPSNal, par.PPSNal} {
		if len(ps) > 0 {
			sets = append(sets, ps)
		}
	}
	return sets
}

// Tag returns the RFC 6381 codec string, e.g. hev1.1.6.L93.B0.
func (par *CodecParameters) Tag() string {
	gp := par.SPSInfo.PTL.General
	var sb strings.Builder
	sb.WriteString("hev1.")
	if gp.ProfileSpace > 0 {
		sb.WriteByte(byte('A' + gp.ProfileSpace - 1))
	}
	fmt.Fprintf(&sb, "%d.%X.", gp.ProfileIDC, bits.Reverse32(gp.ProfileCompatibilityFlags))
	if gp.TierFlag != 0 {
		sb.WriteByte('H')
	} else {
		sb.WriteByte('L')
	}
	fmt.Fprintf(&sb, "%d", par.SPSInfo.PTL.General.LevelIDC)

	constraints := make([]byte, 6) //nolint:mnd
	for i := range constraints {
		constraints[i] = byte(gp.ConstraintIndicatorFlags >> (40 - 8*i)) //nolint:mnd,gosec
	}
	last := len(constraints)
	for last > 0 && constraints[last-1] == 0 {
		last--
	}
	for _, c := range constraints[:last] {
		fmt.Fprintf(&sb, ".%X", c)
	}
	return sb.String()
}

func (par *CodecParameters) String() string {
	return fmt.Sprintf("H265_CODEC_PARAMETERS %dx%d@%d tag=%s", par.Width(), par.Height(), par.fps, par.Tag())
}
