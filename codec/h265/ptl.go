//nolint:mnd // Field widths below are fixed by the H.265 syntax tables
package h265

import (
	"github.com/ugparu/hwcore/utils/bits"
)

// LayerProfile holds the profile and level fields shared by the general and sub-layer entries
// of profile_tier_level().
type LayerProfile struct {
	ProfileSpace              uint
	TierFlag                  uint
	ProfileIDC                uint
	ProfileCompatibilityFlags uint32
	ProgressiveSourceFlag     uint
	InterlacedSourceFlag      uint
	NonPackedConstraintFlag   uint
	FrameOnlyConstraintFlag   uint
	// ConstraintIndicatorFlags holds all 48 constraint bits, including the four flags above.
	ConstraintIndicatorFlags uint64
	LevelIDC                 uint
}

type ProfileTierLevel struct {
	General                    LayerProfile
	SubLayerProfilePresentFlag [MaxSubLayers]uint
	SubLayerLevelPresentFlag   [MaxSubLayers]uint
	SubLayers                  [MaxSubLayers]LayerProfile
}

func parseLayerProfile(br *bits.GolombBitReader, lp *LayerProfile) (err error) {
	if lp.ProfileSpace, err = br.ReadBits(2); err != nil {
		return
	}
	if lp.TierFlag, err = br.ReadBit(); err != nil {
		return
	}
	if lp.ProfileIDC, err = br.ReadBits(5); err != nil {
		return
	}
	if lp.ProfileCompatibilityFlags, err = br.ReadBits32(32); err != nil {
		return
	}
	if lp.ConstraintIndicatorFlags, err = br.ReadBits64(48); err != nil {
		return
	}
	lp.ProgressiveSourceFlag = uint(lp.ConstraintIndicatorFlags>>47) & 1
	lp.InterlacedSourceFlag = uint(lp.ConstraintIndicatorFlags>>46) & 1
	lp.NonPackedConstraintFlag = uint(lp.ConstraintIndicatorFlags>>45) & 1
	lp.FrameOnlyConstraintFlag = uint(lp.ConstraintIndicatorFlags>>44) & 1
	return
}

func parsePTL(br *bits.GolombBitReader, ptl *ProfileTierLevel, profilePresent bool, maxSubLayersMinus1 uint) (err error) {
	if profilePresent {
		if err = parseLayerProfile(br, &ptl.General); err != nil {
			return
		}
	}
	if ptl.General.LevelIDC, err = br.ReadBits(8); err != nil {
		return
	}
	for i := range maxSubLayersMinus1 {
		if ptl.SubLayerProfilePresentFlag[i], err = br.ReadBit(); err != nil {
			return
		}
		if ptl.SubLayerLevelPresentFlag[i], err = br.ReadBit(); err != nil {
			return
		}
	}
	if maxSubLayersMinus1 > 0 {
		// reserved_zero_2bits
		if err = br.SkipBits(2 * (8 - int(maxSubLayersMinus1))); err != nil {
			return
		}
	}
	for i := range maxSubLayersMinus1 {
		if ptl.SubLayerProfilePresentFlag[i] != 0 {
			if err = parseLayerProfile(br, &ptl.SubLayers[i]); err != nil {
				return
			}
		}
		if ptl.SubLayerLevelPresentFlag[i] != 0 {
			if ptl.SubLayers[i].LevelIDC, err = br.ReadBits(8); err != nil {
				return
			}
		}
	}
	return
}
