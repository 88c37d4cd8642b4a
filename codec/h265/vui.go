//nolint:mnd // Field widths below are fixed by the H.265 syntax tables (Annex E)
package h265

import (
	"fmt"

	"github.com/ugparu/hwcore/utils/bits"
)

const (
	extendedSAR = 255
	maxCpbCount = 32
)

type SubLayerHRD struct {
	BitRateValueMinus1   []uint
	CpbSizeValueMinus1   []uint
	CpbSizeDuValueMinus1 []uint
	BitRateDuValueMinus1 []uint
	CbrFlag              []uint
}

type HRDParameters struct {
	NalHrdParametersPresentFlag            uint
	VclHrdParametersPresentFlag            uint
	SubPicHrdParamsPresentFlag             uint
	TickDivisorMinus2                      uint
	DuCpbRemovalDelayIncrementLengthMinus1 uint
	SubPicCpbParamsInPicTimingSeiFlag      uint
	DpbOutputDelayDuLengthMinus1           uint
	BitRateScale                           uint
	CpbSizeScale                           uint
	CpbSizeDuScale                         uint
	InitialCpbRemovalDelayLengthMinus1     uint
	AuCpbRemovalDelayLengthMinus1          uint
	DpbOutputDelayLengthMinus1             uint
	FixedPicRateGeneralFlag                [MaxSubLayers]uint
	FixedPicRateWithinCvsFlag              [MaxSubLayers]uint
	ElementalDurationInTcMinus1            [MaxSubLayers]uint
	LowDelayHrdFlag                        [MaxSubLayers]uint
	CpbCntMinus1                           [MaxSubLayers]uint
	NalSubLayers                           [MaxSubLayers]SubLayerHRD
	VclSubLayers                           [MaxSubLayers]SubLayerHRD
}

type VUIParameters struct {
	AspectRatioInfoPresentFlag         uint
	AspectRatioIDC                     uint
	SarWidth                           uint
	SarHeight                          uint
	OverscanInfoPresentFlag            uint
	OverscanAppropriateFlag            uint
	VideoSignalTypePresentFlag         uint
	VideoFormat                        uint
	VideoFullRangeFlag                 uint
	ColourDescriptionPresentFlag       uint
	ColourPrimaries                    uint
	TransferCharacteristics            uint
	MatrixCoeffs                       uint
	ChromaLocInfoPresentFlag           uint
	ChromaSampleLocTypeTopField        uint
	ChromaSampleLocTypeBottomField     uint
	NeutralChromaIndicationFlag        uint
	FieldSeqFlag                       uint
	FrameFieldInfoPresentFlag          uint
	DefaultDisplayWindowFlag           uint
	DefDispWinLeftOffset               uint
	DefDispWinRightOffset              uint
	DefDispWinTopOffset                uint
	DefDispWinBottomOffset             uint
	TimingInfoPresentFlag              uint
	NumUnitsInTick                     uint32
	TimeScale                          uint32
	PocProportionalToTimingFlag        uint
	NumTicksPocDiffOneMinus1           uint
	HrdParametersPresentFlag           uint
	HRD                                HRDParameters
	BitstreamRestrictionFlag           uint
	TilesFixedStructureFlag            uint
	MotionVectorsOverPicBoundariesFlag uint
	RestrictedRefPicListsFlag          uint
	MinSpatialSegmentationIDC          uint
	MaxBytesPerPicDenom                uint
	MaxBitsPerMinCuDenom               uint
	Log2MaxMvLengthHorizontal          uint
	Log2MaxMvLengthVertical            uint
}

// readFields reads a sequence of syntax elements in order; width 0 means ue(v).
func readFields(br *bits.GolombBitReader, fields ...field) error {
	for _, f := range fields {
		var err error
		switch {
		case f.sdst != nil:
			*f.sdst, err = br.ReadSE()
		case f.width == 0:
			*f.dst, err = br.ReadExponentialGolombCode()
		default:
			*f.dst, err = br.ReadBits(f.width)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

type field struct {
	dst   *uint
	sdst  *int
	width int
}

func u(dst *uint, width int) field { return field{dst: dst, width: width} }
func ue(dst *uint) field           { return field{dst: dst} }
func se(dst *int) field            { return field{sdst: dst} }

//nolint:gocyclo,cyclop // Straight transcription of vui_parameters()
func parseVUI(br *bits.GolombBitReader, vui *VUIParameters, maxSubLayersMinus1 uint) (err error) {
	if err = readFields(br, u(&vui.AspectRatioInfoPresentFlag, 1)); err != nil {
		return
	}
	if vui.AspectRatioInfoPresentFlag != 0 {
		if err = readFields(br, u(&vui.AspectRatioIDC, 8)); err != nil {
			return
		}
		if vui.AspectRatioIDC == extendedSAR {
			if err = readFields(br, u(&vui.SarWidth, 16), u(&vui.SarHeight, 16)); err != nil {
				return
			}
		}
	}
	if err = readFields(br, u(&vui.OverscanInfoPresentFlag, 1)); err != nil {
		return
	}
	if vui.OverscanInfoPresentFlag != 0 {
		if err = readFields(br, u(&vui.OverscanAppropriateFlag, 1)); err != nil {
			return
		}
	}
	if err = readFields(br, u(&vui.VideoSignalTypePresentFlag, 1)); err != nil {
		return
	}
	if vui.VideoSignalTypePresentFlag != 0 {
		if err = readFields(br,
			u(&vui.VideoFormat, 3),
			u(&vui.VideoFullRangeFlag, 1),
			u(&vui.ColourDescriptionPresentFlag, 1),
		); err != nil {
			return
		}
		if vui.ColourDescriptionPresentFlag != 0 {
			if err = readFields(br,
				u(&vui.ColourPrimaries, 8),
				u(&vui.TransferCharacteristics, 8),
				u(&vui.MatrixCoeffs, 8),
			); err != nil {
				return
			}
		}
	}
	if err = readFields(br, u(&vui.ChromaLocInfoPresentFlag, 1)); err != nil {
		return
	}
	if vui.ChromaLocInfoPresentFlag != 0 {
		if err = readFields(br, ue(&vui.ChromaSampleLocTypeTopField), ue(&vui.ChromaSampleLocTypeBottomField)); err != nil {
			return
		}
	}
	if err = readFields(br,
		u(&vui.NeutralChromaIndicationFlag, 1),
		u(&vui.FieldSeqFlag, 1),
		u(&vui.FrameFieldInfoPresentFlag, 1),
		u(&vui.DefaultDisplayWindowFlag, 1),
	); err != nil {
		return
	}
	if vui.DefaultDisplayWindowFlag != 0 {
		if err = readFields(br,
			ue(&vui.DefDispWinLeftOffset),
			ue(&vui.DefDispWinRightOffset),
			ue(&vui.DefDispWinTopOffset),
			ue(&vui.DefDispWinBottomOffset),
		); err != nil {
			return
		}
	}
	if err = readFields(br, u(&vui.TimingInfoPresentFlag, 1)); err != nil {
		return
	}
	if vui.TimingInfoPresentFlag != 0 {
		if vui.NumUnitsInTick, err = br.ReadBits32(32); err != nil {
			return
		}
		if vui.TimeScale, err = br.ReadBits32(32); err != nil {
			return
		}
		if err = readFields(br, u(&vui.PocProportionalToTimingFlag, 1)); err != nil {
			return
		}
		if vui.PocProportionalToTimingFlag != 0 {
			if err = readFields(br, ue(&vui.NumTicksPocDiffOneMinus1)); err != nil {
				return
			}
		}
		if err = readFields(br, u(&vui.HrdParametersPresentFlag, 1)); err != nil {
			return
		}
		if vui.HrdParametersPresentFlag != 0 {
			if err = parseHRD(br, &vui.HRD, true, maxSubLayersMinus1); err != nil {
				return fmt.Errorf("hrd_parameters: %w", err)
			}
		}
	}
	if err = readFields(br, u(&vui.BitstreamRestrictionFlag, 1)); err != nil {
		return
	}
	if vui.BitstreamRestrictionFlag != 0 {
		err = readFields(br,
			u(&vui.TilesFixedStructureFlag, 1),
			u(&vui.MotionVectorsOverPicBoundariesFlag, 1),
			u(&vui.RestrictedRefPicListsFlag, 1),
			ue(&vui.MinSpatialSegmentationIDC),
			ue(&vui.MaxBytesPerPicDenom),
			ue(&vui.MaxBitsPerMinCuDenom),
			ue(&vui.Log2MaxMvLengthHorizontal),
			ue(&vui.Log2MaxMvLengthVertical),
		)
	}
	return
}

//nolint:gocyclo,cyclop // Straight transcription of hrd_parameters()
func parseHRD(br *bits.GolombBitReader, hrd *HRDParameters, commonInfPresent bool, maxSubLayersMinus1 uint) (err error) {
	if commonInfPresent {
		if err = readFields(br,
			u(&hrd.NalHrdParametersPresentFlag, 1),
			u(&hrd.VclHrdParametersPresentFlag, 1),
		); err != nil {
			return
		}
		if hrd.NalHrdParametersPresentFlag != 0 || hrd.VclHrdParametersPresentFlag != 0 {
			if err = readFields(br, u(&hrd.SubPicHrdParamsPresentFlag, 1)); err != nil {
				return
			}
			if hrd.SubPicHrdParamsPresentFlag != 0 {
				if err = readFields(br,
					u(&hrd.TickDivisorMinus2, 8),
					u(&hrd.DuCpbRemovalDelayIncrementLengthMinus1, 5),
					u(&hrd.SubPicCpbParamsInPicTimingSeiFlag, 1),
					u(&hrd.DpbOutputDelayDuLengthMinus1, 5),
				); err != nil {
					return
				}
			}
			if err = readFields(br, u(&hrd.BitRateScale, 4), u(&hrd.CpbSizeScale, 4)); err != nil {
				return
			}
			if hrd.SubPicHrdParamsPresentFlag != 0 {
				if err = readFields(br, u(&hrd.CpbSizeDuScale, 4)); err != nil {
					return
				}
			}
			if err = readFields(br,
				u(&hrd.InitialCpbRemovalDelayLengthMinus1, 5),
				u(&hrd.AuCpbRemovalDelayLengthMinus1, 5),
				u(&hrd.DpbOutputDelayLengthMinus1, 5),
			); err != nil {
				return
			}
		}
	}
	for i := uint(0); i <= maxSubLayersMinus1; i++ {
		if err = readFields(br, u(&hrd.FixedPicRateGeneralFlag[i], 1)); err != nil {
			return
		}
		hrd.FixedPicRateWithinCvsFlag[i] = 1
		if hrd.FixedPicRateGeneralFlag[i] == 0 {
			if err = readFields(br, u(&hrd.FixedPicRateWithinCvsFlag[i], 1)); err != nil {
				return
			}
		}
		if hrd.FixedPicRateWithinCvsFlag[i] != 0 {
			if err = readFields(br, ue(&hrd.ElementalDurationInTcMinus1[i])); err != nil {
				return
			}
		} else if err = readFields(br, u(&hrd.LowDelayHrdFlag[i], 1)); err != nil {
			return
		}
		if hrd.LowDelayHrdFlag[i] == 0 {
			if err = readFields(br, ue(&hrd.CpbCntMinus1[i])); err != nil {
				return
			}
			if hrd.CpbCntMinus1[i] >= maxCpbCount {
				return fmt.Errorf("%w: cpb_cnt_minus1=%d", ErrH265InvalidValue, hrd.CpbCntMinus1[i])
			}
		}
		if hrd.NalHrdParametersPresentFlag != 0 {
			if err = parseSubLayerHRD(br, &hrd.NalSubLayers[i], hrd.CpbCntMinus1[i], hrd.SubPicHrdParamsPresentFlag); err != nil {
				return
			}
		}
		if hrd.VclHrdParametersPresentFlag != 0 {
			if err = parseSubLayerHRD(br, &hrd.VclSubLayers[i], hrd.CpbCntMinus1[i], hrd.SubPicHrdParamsPresentFlag); err != nil {
				return
			}
		}
	}
	return
}

func parseSubLayerHRD(br *bits.GolombBitReader, sl *SubLayerHRD, cpbCntMinus1 uint, subPic uint) error {
	n := cpbCntMinus1 + 1
	sl.BitRateValueMinus1 = make([]uint, n)
	sl.CpbSizeValueMinus1 = make([]uint, n)
	sl.CbrFlag = make([]uint, n)
	if subPic != 0 {
		sl.CpbSizeDuValueMinus1 = make([]uint, n)
		sl.BitRateDuValueMinus1 = make([]uint, n)
	}
	for k := range n {
		if err := readFields(br, ue(&sl.BitRateValueMinus1[k]), ue(&sl.CpbSizeValueMinus1[k])); err != nil {
			return err
		}
		if subPic != 0 {
			if err := readFields(br, ue(&sl.CpbSizeDuValueMinus1[k]), ue(&sl.BitRateDuValueMinus1[k])); err != nil {
				return err
			}
		}
		if err := readFields(br, u(&sl.CbrFlag[k], 1)); err != nil {
			return err
		}
	}
	return nil
}
