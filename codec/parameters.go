package codec

import (
	"fmt"
	"math"

	"github.com/ugparu/hwcore"
)

const (
	referenceFrameRate = 30   // fps the bitrate factor was measured at
	kbpsToBps          = 1000 // kbit/s to bit/s
)

// BaseParameters carries the codec independent half of hwcore.CodecParameters.
// A nil *BaseParameters reports an unknown codec on stream math.MaxUint8.
type BaseParameters struct {
	codec   hwcore.CodecType
	index   uint8
	bitrate uint
}

func NewBaseParameters(ct hwcore.CodecType) BaseParameters {
	return BaseParameters{codec: ct}
}

func (par *BaseParameters) Type() hwcore.CodecType {
	if par == nil {
		return math.MaxUint32
	}
	return par.codec
}

func (par *BaseParameters) StreamIndex() uint8 {
	if par == nil {
		return math.MaxUint8
	}
	return par.index
}

func (par *BaseParameters) SetStreamIndex(idx uint8) {
	par.index = idx
}

func (par *BaseParameters) Bitrate() uint {
	if par == nil {
		return 0
	}
	return par.bitrate
}

func (par *BaseParameters) SetBitrate(br uint) {
	par.bitrate = br
}

// EstimateBitrate guesses a target bitrate from the coded width and frame rate.
// factor is the kbit/s per pixel column at 30 fps; lower frame rates scale it up.
func EstimateBitrate(width, fps uint, factor float64) uint {
	if fps == 0 {
		fps = referenceFrameRate
	}
	return uint(float64(width) * factor * (referenceFrameRate / float64(fps)) * kbpsToBps)
}

func (par *BaseParameters) String() string {
	if par == nil {
		return "EMPTY_CODEC_PARAMETERS"
	}
	return fmt.Sprintf("CODEC_PARAMETERS codec=%v stream=%d bitrate=%d", par.codec, par.index, par.bitrate)
}
