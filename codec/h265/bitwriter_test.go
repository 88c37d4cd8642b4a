package h265

import (
	mbits "math/bits"

	"github.com/ugparu/hwcore/utils/bits"
)

// bitWriter emits RBSP syntax elements for building test NAL units.
type bitWriter struct {
	buf   []byte
	nbits int
}

func (w *bitWriter) bit(b uint64) {
	if w.nbits%8 == 0 {
		w.buf = append(w.buf, 0)
	}
	if b != 0 {
		w.buf[len(w.buf)-1] |= 0x80 >> (w.nbits % 8)
	}
	w.nbits++
}

func (w *bitWriter) u(v uint64, n int) {
	for i := n - 1; i >= 0; i-- {
		w.bit(v >> uint(i) & 1)
	}
}

func (w *bitWriter) flag(b bool) {
	if b {
		w.bit(1)
	} else {
		w.bit(0)
	}
}

func (w *bitWriter) ue(v uint) {
	v1 := uint64(v) + 1
	n := mbits.Len64(v1)
	w.u(0, n-1)
	w.u(v1, n)
}

func (w *bitWriter) se(v int) {
	if v > 0 {
		w.ue(uint(2*v - 1))
	} else {
		w.ue(uint(-2 * v))
	}
}

// trailing writes rbsp_trailing_bits().
func (w *bitWriter) trailing() {
	w.bit(1)
	for w.nbits%8 != 0 {
		w.bit(0)
	}
}

// toEBSP inserts emulation prevention bytes.
func toEBSP(rbsp []byte) []byte {
	out := make([]byte, 0, len(rbsp)+len(rbsp)/2)
	zeros := 0
	for _, b := range rbsp {
		if zeros >= 2 && b <= 3 {
			out = append(out, 0x03)
			zeros = 0
		}
		out = append(out, b)
		if b == 0 {
			zeros++
		} else {
			zeros = 0
		}
	}
	return out
}

func makeNAL(typ uint8, rbsp []byte) []byte {
	return append([]byte{typ << 1, 0x01}, toEBSP(rbsp)...)
}

func readerFor(w *bitWriter) *bits.GolombBitReader {
	return bits.NewReader(w.buf)
}

type testSPS struct {
	id          uint
	width       uint
	height      uint
	confBottom  uint
	timing      bool
	interRPS    bool
	longTerm    bool
	subLayers   uint
	scalingList bool
}

func defaultTestSPS() testSPS {
	return testSPS{width: 1920, height: 1088, confBottom: 4, timing: true, interRPS: true}
}

func writeTestPTL(w *bitWriter, maxSubLayersMinus1 uint) {
	w.u(0, 2)           // profile_space
	w.u(0, 1)           // tier
	w.u(1, 5)           // profile_idc Main
	w.u(0x60000000, 32) // compatibility flags 1 and 2
	w.u(0xB00000000000, 48)
	w.u(93, 8) // level 3.1
	for range maxSubLayersMinus1 {
		w.u(0, 1) // sub_layer_profile_present_flag
		w.u(1, 1) // sub_layer_level_present_flag
	}
	if maxSubLayersMinus1 > 0 {
		w.u(0, 2*(8-int(maxSubLayersMinus1)))
	}
	for range maxSubLayersMinus1 {
		w.u(90, 8)
	}
}

func buildSPS(cfg testSPS) []byte {
	w := &bitWriter{}
	w.u(0, 4) // vps id
	w.u(uint64(cfg.subLayers), 3)
	w.u(1, 1)
	writeTestPTL(w, cfg.subLayers)
	w.ue(cfg.id)
	w.ue(1) // 4:2:0
	w.ue(cfg.width)
	w.ue(cfg.height)
	w.flag(cfg.confBottom > 0)
	if cfg.confBottom > 0 {
		w.ue(0)
		w.ue(0)
		w.ue(0)
		w.ue(cfg.confBottom)
	}
	w.ue(0) // bit_depth_luma_minus8
	w.ue(0) // bit_depth_chroma_minus8
	w.ue(4) // log2_max_pic_order_cnt_lsb_minus4
	w.u(1, 1)
	for range cfg.subLayers + 1 {
		w.ue(4)
		w.ue(2)
		w.ue(0)
	}
	w.ue(0)
	w.ue(3)
	w.ue(0)
	w.ue(3)
	w.ue(0)
	w.ue(0)
	w.flag(cfg.scalingList)
	if cfg.scalingList {
		w.u(0, 1) // sps_scaling_list_data_present_flag: use defaults
	}
	w.u(1, 1) // amp
	w.u(1, 1) // sao
	w.u(0, 1) // pcm

	if cfg.interRPS {
		w.ue(2)
	} else {
		w.ue(1)
	}
	// set 0: S0 = {-1, -3}, S1 = {+2}
	w.ue(2)
	w.ue(1)
	w.ue(0)
	w.u(1, 1)
	w.ue(1)
	w.u(1, 1)
	w.ue(1)
	w.u(0, 1)
	if cfg.interRPS {
		// set 1 predicted from set 0 with deltaRps = +1, all entries used
		w.u(1, 1)
		w.u(0, 1)
		w.ue(0)
		w.u(0xF, 4)
	}

	w.flag(cfg.longTerm)
	if cfg.longTerm {
		w.ue(2)
		w.u(5, 8)
		w.u(1, 1)
		w.u(9, 8)
		w.u(0, 1)
	}
	w.u(1, 1) // temporal mvp
	w.u(1, 1) // strong intra smoothing
	w.u(1, 1) // vui present
	w.u(0, 1) // aspect ratio
	w.u(0, 1) // overscan
	w.u(0, 1) // video signal type
	w.u(0, 1) // chroma loc
	w.u(0, 3) // neutral chroma, field seq, frame field info
	w.u(0, 1) // default display window
	w.flag(cfg.timing)
	if cfg.timing {
		w.u(1001, 32)
		w.u(60000, 32)
		w.u(0, 1) // poc proportional
		w.u(0, 1) // hrd
	}
	w.u(0, 1) // bitstream restriction
	w.u(0, 1) // extension
	w.trailing()
	return makeNAL(NalUnitSps, w.buf)
}

type testPPS struct {
	id    uint
	spsID uint
	tiles bool
}

func buildPPS(cfg testPPS) []byte {
	w := &bitWriter{}
	w.ue(cfg.id)
	w.ue(cfg.spsID)
	w.u(0, 1)
	w.u(0, 1)
	w.u(0, 3)
	w.u(0, 1)
	w.u(0, 1)
	w.ue(0)
	w.ue(0)
	w.se(-3) // init_qp_minus26
	w.u(0, 1)
	w.u(0, 1)
	w.u(1, 1) // cu_qp_delta_enabled_flag
	w.ue(1)
	w.se(-2)
	w.se(3)
	w.u(0, 1)
	w.u(0, 1)
	w.u(0, 1)
	w.u(0, 1)
	w.flag(cfg.tiles)
	w.u(0, 1) // entropy coding sync
	if cfg.tiles {
		w.ue(2) // 3 columns
		w.ue(1) // 2 rows
		w.u(0, 1)
		w.ue(9)
		w.ue(4)
		w.ue(7)
		w.u(1, 1)
	}
	w.u(1, 1) // loop filter across slices
	w.u(1, 1) // deblocking control present
	w.u(0, 1)
	w.u(0, 1)
	w.se(-1)
	w.se(2)
	w.u(0, 1) // scaling list
	w.u(0, 1) // lists modification
	w.ue(2)   // log2_parallel_merge_level_minus2
	w.u(0, 1)
	w.u(0, 1) // extension
	w.trailing()
	return makeNAL(NalUnitPps, w.buf)
}

// slice returns a minimal slice segment NAL with the given first_slice_segment_in_pic_flag.
func slice(typ uint8, first bool) []byte {
	b := byte(0x2a)
	if first {
		b |= 0x80
	}
	return []byte{typ << 1, 0x01, b, 0xd1, 0x7f}
}
