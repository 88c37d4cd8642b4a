//nolint:mnd // This file contains many magic numbers that are part of the H.265 specification
package h265

import (
	"fmt"

	"github.com/ugparu/hwcore/utils/bits"
)

// SPS is a decoded seq_parameter_set_rbsp().
type SPS struct {
	VideoParameterSetID   uint
	MaxSubLayersMinus1    uint
	TemporalIDNestingFlag uint
	PTL                   ProfileTierLevel
	SeqParameterSetID     uint

	ChromaFormatIDC         uint
	SeparateColourPlaneFlag uint
	PicWidthInLumaSamples   uint
	PicHeightInLumaSamples  uint
	ConformanceWindowFlag   uint
	ConfWinLeftOffset       uint
	ConfWinRightOffset      uint
	ConfWinTopOffset        uint
	ConfWinBottomOffset     uint

	BitDepthLumaMinus8              uint
	BitDepthChromaMinus8            uint
	Log2MaxPicOrderCntLsbMinus4     uint
	SubLayerOrderingInfoPresentFlag uint
	MaxDecPicBufferingMinus1        [MaxSubLayers]uint
	MaxNumReorderPics               [MaxSubLayers]uint
	MaxLatencyIncreasePlus1         [MaxSubLayers]uint

	Log2MinLumaCodingBlockSizeMinus3  uint
	Log2DiffMaxMinLumaCodingBlockSize uint
	Log2MinTransformBlockSizeMinus2   uint
	Log2DiffMaxMinTransformBlockSize  uint
	MaxTransformHierarchyDepthInter   uint
	MaxTransformHierarchyDepthIntra   uint

	ScalingListEnabledFlag     uint
	ScalingListDataPresentFlag uint
	ScalingList                ScalingListData

	AmpEnabledFlag                       uint
	SampleAdaptiveOffsetEnabledFlag      uint
	PcmEnabledFlag                       uint
	PcmSampleBitDepthLumaMinus1          uint
	PcmSampleBitDepthChromaMinus1        uint
	Log2MinPcmLumaCodingBlockSizeMinus3  uint
	Log2DiffMaxMinPcmLumaCodingBlockSize uint
	PcmLoopFilterDisabledFlag            uint

	NumShortTermRefPicSets     uint
	ShortTermRefPicSets        []ShortTermRPS
	LongTermRefPicsPresentFlag uint
	LongTermRefPics            LongTermRefPics

	TemporalMvpEnabledFlag          uint
	StrongIntraSmoothingEnabledFlag uint
	VuiParametersPresentFlag        uint
	VUI                             VUIParameters

	ExtensionPresentFlag    uint
	RangeExtensionFlag      uint
	MultilayerExtensionFlag uint
	Extension3DFlag         uint
	SccExtensionFlag        uint
	Extension4Bits          uint
}

// ParseSPS decodes an SPS NAL unit including its two-byte header.
//
//nolint:gocyclo,cyclop,funlen // This function is complex due to the H.265 specification requirements
func ParseSPS(nal []byte) (sps SPS, err error) {
	if len(nal) < 4 {
		err = ErrH265IncorectUnitSize
		return
	}
	if NalType(nal[0]) != NalUnitSps {
		err = fmt.Errorf("%w: %d is not an SPS", ErrH265IncorectUnitType, NalType(nal[0]))
		return
	}
	br := bits.NewReader(EBSPToRBSP(nal[NalHeaderSize:]))
	defer func() {
		if err != nil {
			err = fmt.Errorf("sps at bit %d: %w", br.BitsRead(), err)
		}
	}()

	if err = readFields(br,
		u(&sps.VideoParameterSetID, 4),
		u(&sps.MaxSubLayersMinus1, 3),
		u(&sps.TemporalIDNestingFlag, 1),
	); err != nil {
		return
	}
	if sps.MaxSubLayersMinus1 >= MaxSubLayers {
		err = fmt.Errorf("%w: sps_max_sub_layers_minus1=%d", ErrH265InvalidValue, sps.MaxSubLayersMinus1)
		return
	}
	if err = parsePTL(br, &sps.PTL, true, sps.MaxSubLayersMinus1); err != nil {
		return
	}
	if err = readFields(br, ue(&sps.SeqParameterSetID), ue(&sps.ChromaFormatIDC)); err != nil {
		return
	}
	if sps.SeqParameterSetID >= MaxSPSCount || sps.ChromaFormatIDC > 3 {
		err = fmt.Errorf("%w: sps_seq_parameter_set_id=%d chroma_format_idc=%d",
			ErrH265InvalidValue, sps.SeqParameterSetID, sps.ChromaFormatIDC)
		return
	}
	if sps.ChromaFormatIDC == 3 {
		if err = readFields(br, u(&sps.SeparateColourPlaneFlag, 1)); err != nil {
			return
		}
	}
	if err = readFields(br,
		ue(&sps.PicWidthInLumaSamples),
		ue(&sps.PicHeightInLumaSamples),
		u(&sps.ConformanceWindowFlag, 1),
	); err != nil {
		return
	}
	if sps.ConformanceWindowFlag != 0 {
		if err = readFields(br,
			ue(&sps.ConfWinLeftOffset),
			ue(&sps.ConfWinRightOffset),
			ue(&sps.ConfWinTopOffset),
			ue(&sps.ConfWinBottomOffset),
		); err != nil {
			return
		}
	}
	if err = readFields(br,
		ue(&sps.BitDepthLumaMinus8),
		ue(&sps.BitDepthChromaMinus8),
		ue(&sps.Log2MaxPicOrderCntLsbMinus4),
		u(&sps.SubLayerOrderingInfoPresentFlag, 1),
	); err != nil {
		return
	}
	if sps.Log2MaxPicOrderCntLsbMinus4 > 12 {
		err = fmt.Errorf("%w: log2_max_pic_order_cnt_lsb_minus4=%d", ErrH265InvalidValue, sps.Log2MaxPicOrderCntLsbMinus4)
		return
	}

	first := sps.MaxSubLayersMinus1
	if sps.SubLayerOrderingInfoPresentFlag != 0 {
		first = 0
	}
	for i := first; i <= sps.MaxSubLayersMinus1; i++ {
		if err = readFields(br,
			ue(&sps.MaxDecPicBufferingMinus1[i]),
			ue(&sps.MaxNumReorderPics[i]),
			ue(&sps.MaxLatencyIncreasePlus1[i]),
		); err != nil {
			return
		}
	}
	// Values for lower sub-layers are inferred from the highest one.
	for i := range first {
		sps.MaxDecPicBufferingMinus1[i] = sps.MaxDecPicBufferingMinus1[first]
		sps.MaxNumReorderPics[i] = sps.MaxNumReorderPics[first]
		sps.MaxLatencyIncreasePlus1[i] = sps.MaxLatencyIncreasePlus1[first]
	}

	if err = readFields(br,
		ue(&sps.Log2MinLumaCodingBlockSizeMinus3),
		ue(&sps.Log2DiffMaxMinLumaCodingBlockSize),
		ue(&sps.Log2MinTransformBlockSizeMinus2),
		ue(&sps.Log2DiffMaxMinTransformBlockSize),
		ue(&sps.MaxTransformHierarchyDepthInter),
		ue(&sps.MaxTransformHierarchyDepthIntra),
		u(&sps.ScalingListEnabledFlag, 1),
	); err != nil {
		return
	}
	if sps.ScalingListEnabledFlag != 0 {
		if err = readFields(br, u(&sps.ScalingListDataPresentFlag, 1)); err != nil {
			return
		}
		if sps.ScalingListDataPresentFlag != 0 {
			if err = parseScalingListData(br, &sps.ScalingList); err != nil {
				return
			}
		} else {
			sps.ScalingList.SetDefault()
		}
	}

	if err = readFields(br,
		u(&sps.AmpEnabledFlag, 1),
		u(&sps.SampleAdaptiveOffsetEnabledFlag, 1),
		u(&sps.PcmEnabledFlag, 1),
	); err != nil {
		return
	}
	if sps.PcmEnabledFlag != 0 {
		if err = readFields(br,
			u(&sps.PcmSampleBitDepthLumaMinus1, 4),
			u(&sps.PcmSampleBitDepthChromaMinus1, 4),
			ue(&sps.Log2MinPcmLumaCodingBlockSizeMinus3),
			ue(&sps.Log2DiffMaxMinPcmLumaCodingBlockSize),
			u(&sps.PcmLoopFilterDisabledFlag, 1),
		); err != nil {
			return
		}
	}

	if err = readFields(br, ue(&sps.NumShortTermRefPicSets)); err != nil {
		return
	}
	if sps.NumShortTermRefPicSets > maxShortTermRefPicSets {
		err = fmt.Errorf("%w: num_short_term_ref_pic_sets=%d", ErrH265InvalidValue, sps.NumShortTermRefPicSets)
		return
	}
	numSets := int(sps.NumShortTermRefPicSets) //nolint:gosec // bounded above
	sps.ShortTermRefPicSets = make([]ShortTermRPS, 0, numSets)
	for i := range numSets {
		var rps ShortTermRPS
		if rps, err = parseShortTermRPS(br, i, numSets, sps.ShortTermRefPicSets); err != nil {
			err = fmt.Errorf("st_ref_pic_set(%d): %w", i, err)
			return
		}
		sps.ShortTermRefPicSets = append(sps.ShortTermRefPicSets, rps)
	}

	if err = readFields(br, u(&sps.LongTermRefPicsPresentFlag, 1)); err != nil {
		return
	}
	if sps.LongTermRefPicsPresentFlag != 0 {
		pocLsbBits := int(sps.Log2MaxPicOrderCntLsbMinus4) + 4 //nolint:gosec // bounded above
		if sps.LongTermRefPics, err = parseLongTermRefPics(br, pocLsbBits); err != nil {
			return
		}
	}

	if err = readFields(br,
		u(&sps.TemporalMvpEnabledFlag, 1),
		u(&sps.StrongIntraSmoothingEnabledFlag, 1),
		u(&sps.VuiParametersPresentFlag, 1),
	); err != nil {
		return
	}
	if sps.VuiParametersPresentFlag != 0 {
		if err = parseVUI(br, &sps.VUI, sps.MaxSubLayersMinus1); err != nil {
			err = fmt.Errorf("vui_parameters: %w", err)
			return
		}
	}

	if err = readFields(br, u(&sps.ExtensionPresentFlag, 1)); err != nil {
		return
	}
	if sps.ExtensionPresentFlag != 0 {
		err = readFields(br,
			u(&sps.RangeExtensionFlag, 1),
			u(&sps.MultilayerExtensionFlag, 1),
			u(&sps.Extension3DFlag, 1),
			u(&sps.SccExtensionFlag, 1),
			u(&sps.Extension4Bits, 4),
		)
	}
	return
}

// subsampling returns SubWidthC and SubHeightC.
func (sps *SPS) subsampling() (uint, uint) {
	if sps.SeparateColourPlaneFlag != 0 {
		return 1, 1
	}
	switch sps.ChromaFormatIDC {
	case 1:
		return 2, 2
	case 2:
		return 2, 1
	}
	return 1, 1
}

// Width is the luma width after the conformance window is applied.
func (sps *SPS) Width() uint {
	subW, _ := sps.subsampling()
	crop := subW * (sps.ConfWinLeftOffset + sps.ConfWinRightOffset)
	if crop >= sps.PicWidthInLumaSamples {
		return sps.PicWidthInLumaSamples
	}
	return sps.PicWidthInLumaSamples - crop
}

// Height is the luma height after the conformance window is applied.
func (sps *SPS) Height() uint {
	_, subH := sps.subsampling()
	crop := subH * (sps.ConfWinTopOffset + sps.ConfWinBottomOffset)
	if crop >= sps.PicHeightInLumaSamples {
		return sps.PicHeightInLumaSamples
	}
	return sps.PicHeightInLumaSamples - crop
}

func (sps *SPS) BitDepthLuma() uint {
	return sps.BitDepthLumaMinus8 + 8
}

func (sps *SPS) BitDepthChroma() uint {
	return sps.BitDepthChromaMinus8 + 8
}

// FrameRate derives frames per second from the VUI timing info, or returns 0 when absent.
func (sps *SPS) FrameRate() float64 {
	if sps.VUI.TimingInfoPresentFlag == 0 || sps.VUI.NumUnitsInTick == 0 {
		return 0
	}
	return float64(sps.VUI.TimeScale) / float64(sps.VUI.NumUnitsInTick)
}
