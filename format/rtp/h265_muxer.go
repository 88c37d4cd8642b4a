package rtp

import (
	"fmt"
	"io"

	"github.com/ugparu/hwcore"
	"github.com/ugparu/hwcore/codec/h265"
	"github.com/ugparu/hwcore/utils/logger"
	"github.com/ugparu/hwcore/utils/nal"
)

const (
	fuHeaderSize = 3
	fuStart      = 0x80
	fuEnd        = 0x40
)

// H265Muxer packetizes H.265 access units following RFC 7798. NAL units that fit the
// MTU travel as single NAL unit packets, larger ones as fragmentation units.
type H265Muxer struct {
	*baseMuxer
	nalus [][]byte
}

// NewH265Muxer returns a muxer writing length-framed RTP packets to w.
func NewH265Muxer(w io.Writer, cfg Config) *H265Muxer {
	return &H265Muxer{baseMuxer: newBaseMuxer(w, cfg)}
}

// WritePacket sends one access unit. All packets share the RTP timestamp of pkt and the
// last one carries the marker bit.
func (m *H265Muxer) WritePacket(pkt hwcore.VideoPacket) error {
	data := pkt.Data()
	if len(data) == 0 {
		return nil
	}

	nalus, _ := nal.SplitNALUs(data)
	m.nalus = m.nalus[:0]
	if pkt.IsKeyFrame() && m.cfg.ParameterSets && !hasParameterSets(nalus) {
		if par := pkt.CodecParameters(); par != nil {
			m.nalus = append(m.nalus, par.ParameterSets()...)
		}
	}
	for _, nalu := range nalus {
		if len(nalu) < h265.NalHeaderSize {
			logger.Debugf(m, "skipping %d byte NAL unit", len(nalu))
			continue
		}
		m.nalus = append(m.nalus, nalu)
	}
	if len(m.nalus) == 0 {
		return nil
	}

	ts := pkt.Timestamp()
	for i, nalu := range m.nalus {
		last := i == len(m.nalus)-1
		if len(nalu) <= m.cfg.MTU {
			if err := m.writeRTP(nalu, ts, last); err != nil {
				return err
			}
			continue
		}
		if err := m.writeFragments(nalu, pkt, last); err != nil {
			return err
		}
	}
	return nil
}

// writeFragments splits nalu into FU packets. The FU indicator keeps the F bit, layer
// id and temporal id of the original header and carries type 49.
func (m *H265Muxer) writeFragments(nalu []byte, pkt hwcore.VideoPacket, last bool) error {
	maxFragment := m.cfg.MTU - fuHeaderSize
	if maxFragment <= 0 {
		return fmt.Errorf("rtp: mtu %d is too small for fragmentation", m.cfg.MTU)
	}

	typ := h265.NalType(nalu[0])
	indicator0 := nalu[0]&0x81 | h265.NalFU<<1 //nolint:mnd
	indicator1 := nalu[1]
	payload := nalu[h265.NalHeaderSize:]

	for offset := 0; offset < len(payload); {
		size := min(maxFragment, len(payload)-offset)
		end := offset+size == len(payload)

		header := typ
		if offset == 0 {
			header |= fuStart
		}
		if end {
			header |= fuEnd
		}

		fu := make([]byte, 0, fuHeaderSize+size)
		fu = append(fu, indicator0, indicator1, header)
		fu = append(fu, payload[offset:offset+size]...)
		if err := m.writeRTP(fu, pkt.Timestamp(), last && end); err != nil {
			return err
		}
		offset += size
	}
	return nil
}

func hasParameterSets(nalus [][]byte) bool {
	for _, nalu := range nalus {
		if len(nalu) > 0 && h265.NalType(nalu[0]) == h265.NalUnitSps {
			return true
		}
	}
	return false
}

func (m *H265Muxer) String() string {
	return fmt.Sprintf("H265_RTP_MUXER ssrc=%08x", m.cfg.SSRC)
}
