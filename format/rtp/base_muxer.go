package rtp

import (
	"fmt"
	"io"
	"math/rand/v2"
	"time"

	"github.com/pion/rtp"
	"github.com/ugparu/hwcore/utils/bits/pio"
	"github.com/ugparu/hwcore/utils/logger"
)

const (
	// DefaultMTU bounds the RTP payload size. Packets are length-framed on a stream, so
	// the limit only matters to receivers that relay them over UDP.
	DefaultMTU = 1200

	DefaultPayloadType = 96
	DefaultClockRate   = 90000

	rtpVersion      = 2
	frameHeaderSize = 2
	maxFrameSize    = 0xffff
)

// Config describes the outgoing RTP stream. Zero values select the defaults; a zero
// SSRC is replaced with a random one.
type Config struct {
	PayloadType uint8
	ClockRate   uint32
	MTU         int
	SSRC        uint32
	// ParameterSets sends VPS, SPS and PPS ahead of every key frame that does not carry
	// them in band.
	ParameterSets bool
}

func (c Config) withDefaults() Config {
	if c.PayloadType == 0 {
		c.PayloadType = DefaultPayloadType
	}
	if c.ClockRate == 0 {
		c.ClockRate = DefaultClockRate
	}
	if c.MTU <= 0 {
		c.MTU = DefaultMTU
	}
	if c.SSRC == 0 {
		c.SSRC = rand.Uint32() //nolint:gosec
	}
	return c
}

// baseMuxer builds RTP packets and writes them to w, each preceded by its 16-bit
// big-endian length (RFC 4571).
type baseMuxer struct {
	w        io.Writer
	cfg      Config
	sequence uint16
	packets  uint64
	octets   uint64
	frame    []byte
}

func newBaseMuxer(w io.Writer, cfg Config) *baseMuxer {
	return &baseMuxer{
		w:        w,
		cfg:      cfg.withDefaults(),
		sequence: uint16(rand.UintN(1 << 16)), //nolint:gosec,mnd
	}
}

// rtpTimestamp converts a presentation time into the media clock.
func (m *baseMuxer) rtpTimestamp(ts time.Duration) uint32 {
	return uint32(uint64(ts) * uint64(m.cfg.ClockRate) / uint64(time.Second)) //nolint:gosec
}

func (m *baseMuxer) writeRTP(payload []byte, ts time.Duration, marker bool) error {
	pkt := rtp.Packet{
		Header: rtp.Header{
			Version:        rtpVersion,
			Marker:         marker,
			PayloadType:    m.cfg.PayloadType,
			SequenceNumber: m.sequence,
			Timestamp:      m.rtpTimestamp(ts),
			SSRC:           m.cfg.SSRC,
		},
		Payload: payload,
	}

	size := pkt.MarshalSize()
	if size > maxFrameSize {
		return fmt.Errorf("rtp: packet of %d bytes does not fit the length prefix", size)
	}
	if cap(m.frame) < frameHeaderSize+size {
		m.frame = make([]byte, frameHeaderSize+size)
	}
	buf := m.frame[:frameHeaderSize+size]
	n, err := pkt.MarshalTo(buf[frameHeaderSize:])
	if err != nil {
		return fmt.Errorf("rtp: marshal packet %d: %w", m.sequence, err)
	}
	pio.PutU16BE(buf, uint16(n)) //nolint:gosec
	buf = buf[:frameHeaderSize+n]

	written, err := m.w.Write(buf)
	if err != nil {
		return fmt.Errorf("rtp: write packet %d: %w", m.sequence, err)
	}
	if written != len(buf) {
		logger.Warningf(m, "short RTP write: wrote %d of %d bytes", written, len(buf))
	}

	m.sequence++
	m.packets++
	m.octets += uint64(len(payload))
	return nil
}

// Packets reports the number of RTP packets written.
func (m *baseMuxer) Packets() uint64 {
	return m.packets
}

// Octets reports the payload bytes written, excluding RTP headers and framing.
func (m *baseMuxer) Octets() uint64 {
	return m.octets
}

func (m *baseMuxer) SSRC() uint32 {
	return m.cfg.SSRC
}

func (m *baseMuxer) String() string {
	return fmt.Sprintf("RTP_MUXER pt=%d ssrc=%08x", m.cfg.PayloadType, m.cfg.SSRC)
}
