//nolint:mnd // This file contains many magic numbers that are part of the H.265 specification
package h265

import (
	"fmt"

	"github.com/ugparu/hwcore/utils/bits"
)

const (
	maxTileColumns         = 20
	maxTileRows            = 22
	maxChromaQPOffsetLists = 6
)

// PPS is a decoded pic_parameter_set_rbsp().
type PPS struct {
	PicParameterSetID                 uint
	SeqParameterSetID                 uint
	DependentSliceSegmentsEnabledFlag uint
	OutputFlagPresentFlag             uint
	NumExtraSliceHeaderBits           uint
	SignDataHidingEnabledFlag         uint
	CabacInitPresentFlag              uint
	NumRefIdxL0DefaultActiveMinus1    uint
	NumRefIdxL1DefaultActiveMinus1    uint
	InitQPMinus26                     int
	ConstrainedIntraPredFlag          uint
	TransformSkipEnabledFlag          uint
	CuQPDeltaEnabledFlag              uint
	DiffCuQPDeltaDepth                uint
	CbQPOffset                        int
	CrQPOffset                        int
	SliceChromaQPOffsetsPresentFlag   uint
	WeightedPredFlag                  uint
	WeightedBipredFlag                uint
	TransquantBypassEnabledFlag       uint
	TilesEnabledFlag                  uint
	EntropyCodingSyncEnabledFlag      uint

	NumTileColumnsMinus1              uint
	NumTileRowsMinus1                 uint
	UniformSpacingFlag                uint
	ColumnWidthMinus1                 []uint
	RowHeightMinus1                   []uint
	LoopFilterAcrossTilesEnabledFlag  uint
	LoopFilterAcrossSlicesEnabledFlag uint

	DeblockingFilterControlPresentFlag  uint
	DeblockingFilterOverrideEnabledFlag uint
	DeblockingFilterDisabledFlag        uint
	BetaOffsetDiv2                      int
	TcOffsetDiv2                        int

	ScalingListDataPresentFlag             uint
	ScalingList                            ScalingListData
	ListsModificationPresentFlag           uint
	Log2ParallelMergeLevelMinus2           uint
	SliceSegmentHeaderExtensionPresentFlag uint

	ExtensionPresentFlag    uint
	RangeExtensionFlag      uint
	MultilayerExtensionFlag uint
	Extension3DFlag         uint
	SccExtensionFlag        uint
	Extension4Bits          uint
	RangeExtension          PPSRangeExtension
}

// PPSRangeExtension is pps_range_extension().
type PPSRangeExtension struct {
	Log2MaxTransformSkipBlockSizeMinus2 uint
	CrossComponentPredictionEnabledFlag uint
	ChromaQPOffsetListEnabledFlag       uint
	DiffCuChromaQPOffsetDepth           uint
	ChromaQPOffsetListLenMinus1         uint
	CbQPOffsetList                      []int
	CrQPOffsetList                      []int
	Log2SaoOffsetScaleLuma              uint
	Log2SaoOffsetScaleChroma            uint
}

// ParsePPS decodes a PPS NAL unit including its two-byte header.
//
//nolint:gocyclo,cyclop,funlen // This function is complex due to the H.265 specification requirements
func ParsePPS(nal []byte) (pps PPS, err error) {
	if len(nal) < 3 {
		err = ErrH265IncorectUnitSize
		return
	}
	if NalType(nal[0]) != NalUnitPps {
		err = fmt.Errorf("%w: %d is not a PPS", ErrH265IncorectUnitType, NalType(nal[0]))
		return
	}
	br := bits.NewReader(EBSPToRBSP(nal[NalHeaderSize:]))
	defer func() {
		if err != nil {
			err = fmt.Errorf("pps at bit %d: %w", br.BitsRead(), err)
		}
	}()

	if err = readFields(br, ue(&pps.PicParameterSetID), ue(&pps.SeqParameterSetID)); err != nil {
		return
	}
	if pps.PicParameterSetID >= MaxPPSCount || pps.SeqParameterSetID >= MaxSPSCount {
		err = fmt.Errorf("%w: pps_pic_parameter_set_id=%d pps_seq_parameter_set_id=%d",
			ErrH265InvalidValue, pps.PicParameterSetID, pps.SeqParameterSetID)
		return
	}
	if err = readFields(br,
		u(&pps.DependentSliceSegmentsEnabledFlag, 1),
		u(&pps.OutputFlagPresentFlag, 1),
		u(&pps.NumExtraSliceHeaderBits, 3),
		u(&pps.SignDataHidingEnabledFlag, 1),
		u(&pps.CabacInitPresentFlag, 1),
		ue(&pps.NumRefIdxL0DefaultActiveMinus1),
		ue(&pps.NumRefIdxL1DefaultActiveMinus1),
		se(&pps.InitQPMinus26),
		u(&pps.ConstrainedIntraPredFlag, 1),
		u(&pps.TransformSkipEnabledFlag, 1),
		u(&pps.CuQPDeltaEnabledFlag, 1),
	); err != nil {
		return
	}
	if pps.CuQPDeltaEnabledFlag != 0 {
		if err = readFields(br, ue(&pps.DiffCuQPDeltaDepth)); err != nil {
			return
		}
	}
	if err = readFields(br,
		se(&pps.CbQPOffset),
		se(&pps.CrQPOffset),
		u(&pps.SliceChromaQPOffsetsPresentFlag, 1),
		u(&pps.WeightedPredFlag, 1),
		u(&pps.WeightedBipredFlag, 1),
		u(&pps.TransquantBypassEnabledFlag, 1),
		u(&pps.TilesEnabledFlag, 1),
		u(&pps.EntropyCodingSyncEnabledFlag, 1),
	); err != nil {
		return
	}

	if pps.TilesEnabledFlag != 0 {
		if err = parseTiles(br, &pps); err != nil {
			return
		}
	}

	if err = readFields(br,
		u(&pps.LoopFilterAcrossSlicesEnabledFlag, 1),
		u(&pps.DeblockingFilterControlPresentFlag, 1),
	); err != nil {
		return
	}
	if pps.DeblockingFilterControlPresentFlag != 0 {
		if err = readFields(br,
			u(&pps.DeblockingFilterOverrideEnabledFlag, 1),
			u(&pps.DeblockingFilterDisabledFlag, 1),
		); err != nil {
			return
		}
		if pps.DeblockingFilterDisabledFlag == 0 {
			if err = readFields(br, se(&pps.BetaOffsetDiv2), se(&pps.TcOffsetDiv2)); err != nil {
				return
			}
		}
	}

	if err = readFields(br, u(&pps.ScalingListDataPresentFlag, 1)); err != nil {
		return
	}
	if pps.ScalingListDataPresentFlag != 0 {
		if err = parseScalingListData(br, &pps.ScalingList); err != nil {
			return
		}
	}

	if err = readFields(br,
		u(&pps.ListsModificationPresentFlag, 1),
		ue(&pps.Log2ParallelMergeLevelMinus2),
		u(&pps.SliceSegmentHeaderExtensionPresentFlag, 1),
		u(&pps.ExtensionPresentFlag, 1),
	); err != nil {
		return
	}
	if pps.ExtensionPresentFlag == 0 {
		return
	}
	if err = readFields(br,
		u(&pps.RangeExtensionFlag, 1),
		u(&pps.MultilayerExtensionFlag, 1),
		u(&pps.Extension3DFlag, 1),
		u(&pps.SccExtensionFlag, 1),
		u(&pps.Extension4Bits, 4),
	); err != nil {
		return
	}
	if pps.RangeExtensionFlag != 0 {
		err = parsePPSRangeExtension(br, &pps.RangeExtension, pps.TransformSkipEnabledFlag != 0)
	}
	return
}

func parseTiles(br *bits.GolombBitReader, pps *PPS) (err error) {
	if err = readFields(br,
		ue(&pps.NumTileColumnsMinus1),
		ue(&pps.NumTileRowsMinus1),
		u(&pps.UniformSpacingFlag, 1),
	); err != nil {
		return
	}
	if pps.NumTileColumnsMinus1 >= maxTileColumns || pps.NumTileRowsMinus1 >= maxTileRows {
		return fmt.Errorf("%w: tiles %dx%d", ErrH265InvalidValue,
			pps.NumTileColumnsMinus1+1, pps.NumTileRowsMinus1+1)
	}
	if pps.UniformSpacingFlag == 0 {
		pps.ColumnWidthMinus1 = make([]uint, pps.NumTileColumnsMinus1)
		for i := range pps.ColumnWidthMinus1 {
			if err = readFields(br, ue(&pps.ColumnWidthMinus1[i])); err != nil {
				return
			}
		}
		pps.RowHeightMinus1 = make([]uint, pps.NumTileRowsMinus1)
		for i := range pps.RowHeightMinus1 {
			if err = readFields(br, ue(&pps.RowHeightMinus1[i])); err != nil {
				return
			}
		}
	}
	return readFields(br, u(&pps.LoopFilterAcrossTilesEnabledFlag, 1))
}

func parsePPSRangeExtension(br *bits.GolombBitReader, ext *PPSRangeExtension, transformSkip bool) (err error) {
	if transformSkip {
		if err = readFields(br, ue(&ext.Log2MaxTransformSkipBlockSizeMinus2)); err != nil {
			return
		}
	}
	if err = readFields(br,
		u(&ext.CrossComponentPredictionEnabledFlag, 1),
		u(&ext.ChromaQPOffsetListEnabledFlag, 1),
	); err != nil {
		return
	}
	if ext.ChromaQPOffsetListEnabledFlag != 0 {
		if err = readFields(br,
			ue(&ext.DiffCuChromaQPOffsetDepth),
			ue(&ext.ChromaQPOffsetListLenMinus1),
		); err != nil {
			return
		}
		if ext.ChromaQPOffsetListLenMinus1 >= maxChromaQPOffsetLists {
			return fmt.Errorf("%w: chroma_qp_offset_list_len_minus1=%d", ErrH265InvalidValue,
				ext.ChromaQPOffsetListLenMinus1)
		}
		n := ext.ChromaQPOffsetListLenMinus1 + 1
		ext.CbQPOffsetList = make([]int, n)
		ext.CrQPOffsetList = make([]int, n)
		for i := range n {
			if err = readFields(br, se(&ext.CbQPOffsetList[i]), se(&ext.CrQPOffsetList[i])); err != nil {
				return
			}
		}
	}
	return readFields(br,
		ue(&ext.Log2SaoOffsetScaleLuma),
		ue(&ext.Log2SaoOffsetScaleChroma),
	)
}
