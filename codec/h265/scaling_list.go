//nolint:mnd // Scaling list dimensions and default tables are fixed by the H.265 specification
package h265

import (
	"fmt"

	"github.com/ugparu/hwcore/utils/bits"
)

// Scaling list size classes (sizeId).
const (
	ScalingList4x4 = iota
	ScalingList8x8
	ScalingList16x16
	ScalingList32x32
	scalingListSizeCount
)

const (
	scalingListMatrixCount = 6
	scalingListMaxCoefs    = 64
	scalingListDCDefault   = 16
)

// Default lists in up-right diagonal scan order (Table 7-5 and 7-6).
var (
	defaultScalingList4x4 = [16]uint8{
		16, 16, 16, 16, 16, 16, 16, 16, 16, 16, 16, 16, 16, 16, 16, 16,
	}
	defaultScalingListIntra = [scalingListMaxCoefs]uint8{
		16, 16, 16, 16, 16, 16, 16, 16, 16, 16, 17, 16, 17, 16, 17, 18,
		17, 18, 18, 17, 18, 21, 19, 20, 21, 20, 19, 21, 24, 22, 22, 24,
		24, 22, 22, 24, 25, 25, 27, 30, 27, 25, 25, 29, 31, 35, 35, 31,
		29, 36, 41, 44, 41, 36, 47, 54, 54, 47, 65, 70, 65, 88, 88, 115,
	}
	defaultScalingListInter = [scalingListMaxCoefs]uint8{
		16, 16, 16, 16, 16, 16, 16, 16, 16, 16, 17, 17, 17, 17, 17, 18,
		18, 18, 18, 18, 18, 20, 20, 20, 20, 20, 20, 20, 24, 24, 24, 24,
		24, 24, 24, 24, 25, 25, 25, 25, 25, 25, 25, 28, 28, 28, 28, 28,
		28, 33, 33, 33, 33, 33, 41, 41, 41, 41, 54, 54, 54, 71, 71, 91,
	}
)

// ScalingListData holds the reconstructed scaling_list_data(). Lists[sizeId][matrixId] keeps
// the coefficients in diagonal scan order; only the first 16 entries are used for 4x4.
type ScalingListData struct {
	PredModeFlag      [scalingListSizeCount][scalingListMatrixCount]uint
	PredMatrixIDDelta [scalingListSizeCount][scalingListMatrixCount]uint
	Lists             [scalingListSizeCount][scalingListMatrixCount][scalingListMaxCoefs]uint8
	DCCoef            [scalingListSizeCount][scalingListMatrixCount]uint8
}

func scalingListCoefNum(sizeID int) int {
	return min(scalingListMaxCoefs, 1<<(4+(sizeID<<1)))
}

// defaultScalingList returns the default table for the block size class and matrix.
func defaultScalingList(sizeID, matrixID int) []uint8 {
	switch {
	case sizeID == ScalingList4x4:
		return defaultScalingList4x4[:]
	case matrixID < 3:
		return defaultScalingListIntra[:]
	default:
		return defaultScalingListInter[:]
	}
}

// SetDefault fills every matrix with its default list.
func (sl *ScalingListData) SetDefault() {
	for sizeID := range scalingListSizeCount {
		for matrixID := range scalingListMatrixCount {
			copy(sl.Lists[sizeID][matrixID][:], defaultScalingList(sizeID, matrixID))
			sl.DCCoef[sizeID][matrixID] = scalingListDCDefault
		}
	}
}

func parseScalingListData(br *bits.GolombBitReader, sl *ScalingListData) error {
	sl.SetDefault()
	for sizeID := range scalingListSizeCount {
		step := 1
		if sizeID == ScalingList32x32 {
			step = 3
		}
		coefNum := scalingListCoefNum(sizeID)
		for matrixID := 0; matrixID < scalingListMatrixCount; matrixID += step {
			predMode, err := br.ReadBit()
			if err != nil {
				return err
			}
			sl.PredModeFlag[sizeID][matrixID] = predMode

			if predMode == 0 {
				delta, err := br.ReadExponentialGolombCode()
				if err != nil {
					return err
				}
				sl.PredMatrixIDDelta[sizeID][matrixID] = delta
				if delta == 0 {
					copy(sl.Lists[sizeID][matrixID][:], defaultScalingList(sizeID, matrixID))
					sl.DCCoef[sizeID][matrixID] = scalingListDCDefault
					continue
				}
				refMatrixID := matrixID - int(delta)*step //nolint:gosec // bounded below
				if refMatrixID < 0 {
					return fmt.Errorf("%w: scaling_list_pred_matrix_id_delta=%d", ErrH265InvalidValue, delta)
				}
				sl.Lists[sizeID][matrixID] = sl.Lists[sizeID][refMatrixID]
				sl.DCCoef[sizeID][matrixID] = sl.DCCoef[sizeID][refMatrixID]
				continue
			}

			nextCoef := 8
			if sizeID > ScalingList8x8 {
				dc, err := br.ReadSE()
				if err != nil {
					return err
				}
				if dc < -7 || dc > 247 {
					return fmt.Errorf("%w: scaling_list_dc_coef_minus8=%d", ErrH265InvalidValue, dc)
				}
				nextCoef = dc + 8
				sl.DCCoef[sizeID][matrixID] = uint8(nextCoef) //nolint:gosec // checked above
			}
			for i := range coefNum {
				delta, err := br.ReadSE()
				if err != nil {
					return err
				}
				if delta < -128 || delta > 127 {
					return fmt.Errorf("%w: scaling_list_delta_coef=%d", ErrH265InvalidValue, delta)
				}
				nextCoef = (nextCoef + delta + 256) % 256
				sl.Lists[sizeID][matrixID][i] = uint8(nextCoef) //nolint:gosec // modulo 256
			}
		}
	}
	return nil
}
