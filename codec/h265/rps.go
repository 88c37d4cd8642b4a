package h265

import (
	"fmt"

	"github.com/ugparu/hwcore/utils/bits"
)

const (
	maxShortTermRefPicSets = 64
	maxLongTermRefPicsSPS  = 32
	maxDeltaPocs           = 16
	maxPocLsbBits          = 16
)

// ShortTermRPS is one reconstructed st_ref_pic_set(). DeltaPOC lists the NumNegativePics
// entries (S0, decreasing from 0) followed by the NumPositivePics entries (S1, increasing from 0).
type ShortTermRPS struct {
	InterRefPicSetPredictionFlag uint
	DeltaIdxMinus1               uint
	DeltaRpsSign                 uint
	AbsDeltaRpsMinus1            uint
	NumNegativePics              int
	NumPositivePics              int
	DeltaPOC                     []int32
	UsedByCurrPic                []uint
}

// NumDeltaPocs is NumNegativePics + NumPositivePics.
func (rps *ShortTermRPS) NumDeltaPocs() int {
	return rps.NumNegativePics + rps.NumPositivePics
}

// DeltaPocS0 returns the negative part of the set.
func (rps *ShortTermRPS) DeltaPocS0() []int32 {
	return rps.DeltaPOC[:rps.NumNegativePics]
}

// DeltaPocS1 returns the positive part of the set.
func (rps *ShortTermRPS) DeltaPocS1() []int32 {
	return rps.DeltaPOC[rps.NumNegativePics:]
}

// parseShortTermRPS decodes st_ref_pic_set(idx). sets holds the already decoded entries
// 0..idx-1; numSets is num_short_term_ref_pic_sets.
//
//nolint:gocyclo,cyclop // Mirrors the inter RPS derivation in 7.4.8
func parseShortTermRPS(br *bits.GolombBitReader, idx int, numSets int, sets []ShortTermRPS) (rps ShortTermRPS, err error) {
	if idx != 0 {
		if rps.InterRefPicSetPredictionFlag, err = br.ReadBit(); err != nil {
			return
		}
	}

	if rps.InterRefPicSetPredictionFlag == 0 {
		var neg, pos uint
		if neg, err = br.ReadExponentialGolombCode(); err != nil {
			return
		}
		if pos, err = br.ReadExponentialGolombCode(); err != nil {
			return
		}
		if neg > maxDeltaPocs || pos > maxDeltaPocs || neg+pos > maxDeltaPocs {
			err = fmt.Errorf("%w: num_negative_pics=%d num_positive_pics=%d", ErrH265InvalidValue, neg, pos)
			return
		}
		rps.NumNegativePics = int(neg) //nolint:gosec // bounded above
		rps.NumPositivePics = int(pos) //nolint:gosec // bounded above
		rps.DeltaPOC = make([]int32, 0, neg+pos)
		rps.UsedByCurrPic = make([]uint, 0, neg+pos)

		var poc int32
		for range neg {
			var delta, used uint
			if delta, err = br.ReadExponentialGolombCode(); err != nil {
				return
			}
			if used, err = br.ReadBit(); err != nil {
				return
			}
			poc -= int32(delta) + 1 //nolint:gosec // ue values of a valid stream fit in 16 bits
			rps.DeltaPOC = append(rps.DeltaPOC, poc)
			rps.UsedByCurrPic = append(rps.UsedByCurrPic, used)
		}
		poc = 0
		for range pos {
			var delta, used uint
			if delta, err = br.ReadExponentialGolombCode(); err != nil {
				return
			}
			if used, err = br.ReadBit(); err != nil {
				return
			}
			poc += int32(delta) + 1 //nolint:gosec // ue values of a valid stream fit in 16 bits
			rps.DeltaPOC = append(rps.DeltaPOC, poc)
			rps.UsedByCurrPic = append(rps.UsedByCurrPic, used)
		}
		return
	}

	if idx == numSets {
		// Only present when the set is coded in a slice header.
		if rps.DeltaIdxMinus1, err = br.ReadExponentialGolombCode(); err != nil {
			return
		}
	}
	refIdx := idx - int(rps.DeltaIdxMinus1) - 1 //nolint:gosec // checked below
	if refIdx < 0 || refIdx >= len(sets) {
		err = fmt.Errorf("%w: delta_idx_minus1=%d for set %d", ErrH265InvalidValue, rps.DeltaIdxMinus1, idx)
		return
	}
	if rps.DeltaRpsSign, err = br.ReadBit(); err != nil {
		return
	}
	if rps.AbsDeltaRpsMinus1, err = br.ReadExponentialGolombCode(); err != nil {
		return
	}
	if rps.AbsDeltaRpsMinus1 > 1<<15-1 {
		err = fmt.Errorf("%w: abs_delta_rps_minus1=%d", ErrH265InvalidValue, rps.AbsDeltaRpsMinus1)
		return
	}
	deltaRps := int32(rps.AbsDeltaRpsMinus1) + 1 //nolint:gosec // bounded above
	if rps.DeltaRpsSign != 0 {
		deltaRps = -deltaRps
	}

	ref := &sets[refIdx]
	refCount := ref.NumDeltaPocs()
	usedByCurr := make([]uint, refCount+1)
	useDelta := make([]uint, refCount+1)
	for j := 0; j <= refCount; j++ {
		if usedByCurr[j], err = br.ReadBit(); err != nil {
			return
		}
		useDelta[j] = 1
		if usedByCurr[j] == 0 {
			if useDelta[j], err = br.ReadBit(); err != nil {
				return
			}
		}
	}

	refS0 := ref.DeltaPocS0()
	refS1 := ref.DeltaPocS1()
	refNeg := ref.NumNegativePics

	var s0, s1 []int32
	var used0, used1 []uint

	for j := ref.NumPositivePics - 1; j >= 0; j-- {
		dPoc := refS1[j] + deltaRps
		if dPoc < 0 && useDelta[refNeg+j] != 0 {
			s0 = append(s0, dPoc)
			used0 = append(used0, usedByCurr[refNeg+j])
		}
	}
	if deltaRps < 0 && useDelta[refCount] != 0 {
		s0 = append(s0, deltaRps)
		used0 = append(used0, usedByCurr[refCount])
	}
	for j := range refNeg {
		dPoc := refS0[j] + deltaRps
		if dPoc < 0 && useDelta[j] != 0 {
			s0 = append(s0, dPoc)
			used0 = append(used0, usedByCurr[j])
		}
	}

	for j := refNeg - 1; j >= 0; j-- {
		dPoc := refS0[j] + deltaRps
		if dPoc > 0 && useDelta[j] != 0 {
			s1 = append(s1, dPoc)
			used1 = append(used1, usedByCurr[j])
		}
	}
	if deltaRps > 0 && useDelta[refCount] != 0 {
		s1 = append(s1, deltaRps)
		used1 = append(used1, usedByCurr[refCount])
	}
	for j := range ref.NumPositivePics {
		dPoc := refS1[j] + deltaRps
		if dPoc > 0 && useDelta[refNeg+j] != 0 {
			s1 = append(s1, dPoc)
			used1 = append(used1, usedByCurr[refNeg+j])
		}
	}

	if len(s0)+len(s1) > maxDeltaPocs {
		err = fmt.Errorf("%w: predicted set %d has %d pictures", ErrH265InvalidValue, idx, len(s0)+len(s1))
		return
	}
	rps.NumNegativePics = len(s0)
	rps.NumPositivePics = len(s1)
	rps.DeltaPOC = append(s0, s1...)
	rps.UsedByCurrPic = append(used0, used1...)
	return
}

// LongTermRefPics holds the long-term reference candidates signalled in the SPS.
type LongTermRefPics struct {
	LtRefPicPocLsbSps      []uint
	UsedByCurrPicLtSpsFlag []uint
}

func parseLongTermRefPics(br *bits.GolombBitReader, pocLsbBits int) (lt LongTermRefPics, err error) {
	var num uint
	if num, err = br.ReadExponentialGolombCode(); err != nil {
		return
	}
	if num > maxLongTermRefPicsSPS {
		err = fmt.Errorf("%w: num_long_term_ref_pics_sps=%d", ErrH265InvalidValue, num)
		return
	}
	lt.LtRefPicPocLsbSps = make([]uint, num)
	lt.UsedByCurrPicLtSpsFlag = make([]uint, num)
	for i := range num {
		if lt.LtRefPicPocLsbSps[i], err = br.ReadBits(min(pocLsbBits, maxPocLsbBits)); err != nil {
			return
		}
		if lt.UsedByCurrPicLtSpsFlag[i], err = br.ReadBit(); err != nil {
			return
		}
	}
	return
}
