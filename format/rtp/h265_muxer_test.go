package rtp

import (
	"bytes"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/pion/rtp"
	"github.com/stretchr/testify/require"
	"github.com/ugparu/hwcore/codec/h265"
	"github.com/ugparu/hwcore/utils/bits/pio"
	"github.com/ugparu/hwcore/utils/buffer"
	"github.com/ugparu/hwcore/utils/nal"
)

func testNAL(typ uint8, size int) []byte {
	b := make([]byte, size)
	b[0] = typ << 1
	b[1] = 1
	for i := 2; i < size; i++ {
		b[i] = byte(i%250 + 1)
	}
	return b
}

func testPacket(key bool, ts time.Duration, par *h265.CodecParameters, nalus ...[]byte) *h265.Packet {
	buf := buffer.Get(0)
	buf.Append(nal.JoinAnnexB(nalus)...)
	return h265.NewPacket(key, ts, 40*time.Millisecond, buf, "test", par)
}

// readFrames decodes every length-prefixed RTP packet in b.
func readFrames(t *testing.T, b []byte) []rtp.Packet {
	t.Helper()
	var pkts []rtp.Packet
	for len(b) > 0 {
		require.GreaterOrEqual(t, len(b), frameHeaderSize)
		size := int(pio.U16BE(b))
		b = b[frameHeaderSize:]
		require.GreaterOrEqual(t, len(b), size)
		var pkt rtp.Packet
		require.NoError(t, pkt.Unmarshal(b[:size]))
		pkts = append(pkts, pkt)
		b = b[size:]
	}
	return pkts
}

func TestH265MuxerSingleNAL(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	m := NewH265Muxer(&out, Config{SSRC: 0x01020304})
	first := testNAL(h265.NalUnitCodedSliceTrailR, 40)
	second := testNAL(h265.NalUnitCodedSliceTrailR, 60)
	pkt := testPacket(false, 40*time.Millisecond, nil, first, second)
	defer pkt.Close()

	require.NoError(t, m.WritePacket(pkt))

	pkts := readFrames(t, out.Bytes())
	require.Len(t, pkts, 2)
	for i, p := range pkts {
		require.Equal(t, uint8(2), p.Version)
		require.Equal(t, uint8(DefaultPayloadType), p.PayloadType)
		require.Equal(t, uint32(0x01020304), p.SSRC)
		require.Equal(t, uint32(3600), p.Timestamp)
		require.Equal(t, i == len(pkts)-1, p.Marker)
	}
	require.Equal(t, pkts[0].SequenceNumber+1, pkts[1].SequenceNumber)
	require.Equal(t, first, pkts[0].Payload)
	require.Equal(t, second, pkts[1].Payload)
	require.Equal(t, uint64(2), m.Packets())
	require.Equal(t, uint64(100), m.Octets())
}

func TestH265MuxerFragmentation(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	m := NewH265Muxer(&out, Config{MTU: 100, PayloadType: 102, ClockRate: 1000})
	big := testNAL(h265.NalUnitCodedSliceIdrWRadl, 250)
	big[1] = 0x03 // temporal id 2
	tail := testNAL(h265.NalUnitSuffixSei, 10)
	pkt := testPacket(true, time.Second, nil, big, tail)
	defer pkt.Close()

	require.NoError(t, m.WritePacket(pkt))

	pkts := readFrames(t, out.Bytes())
	require.Len(t, pkts, 4)

	var rebuilt []byte
	for i, p := range pkts[:3] {
		require.LessOrEqual(t, len(p.Payload), 100)
		require.Equal(t, uint8(h265.NalFU), h265.NalType(p.Payload[0]))
		require.Equal(t, byte(0x03), p.Payload[1])
		fu := p.Payload[2]
		require.Equal(t, uint8(h265.NalUnitCodedSliceIdrWRadl), fu&0x3f)
		require.Equal(t, i == 0, fu&fuStart != 0)
		require.Equal(t, i == 2, fu&fuEnd != 0)
		require.False(t, p.Marker)
		require.Equal(t, uint8(102), p.PayloadType)
		require.Equal(t, uint32(1000), p.Timestamp)
		rebuilt = append(rebuilt, p.Payload[3:]...)
	}
	require.Equal(t, big[2:], rebuilt)
	require.Equal(t, tail, pkts[3].Payload)
	require.True(t, pkts[3].Marker)
}

func TestH265MuxerFragmentedLastNAL(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	m := NewH265Muxer(&out, Config{MTU: 50})
	pkt := testPacket(false, 0, nil, testNAL(h265.NalUnitCodedSliceTrailN, 120))
	defer pkt.Close()
	require.NoError(t, m.WritePacket(pkt))

	pkts := readFrames(t, out.Bytes())
	require.Len(t, pkts, 3)
	require.False(t, pkts[0].Marker)
	require.False(t, pkts[1].Marker)
	require.True(t, pkts[2].Marker)
}

func TestH265MuxerParameterSets(t *testing.T) {
	t.Parallel()

	vps := testNAL(h265.NalUnitVps, 12)
	sps := testNAL(h265.NalUnitSps, 20)
	pps := testNAL(h265.NalUnitPps, 8)
	par := &h265.CodecParameters{VPSNal: vps, SPSNal: sps, PPSNal: pps}
	idr := testNAL(h265.NalUnitCodedSliceIdrNLp, 30)
	trail := testNAL(h265.NalUnitCodedSliceTrailR, 30)

	tests := []struct {
		name   string
		cfg    Config
		pkt    *h265.Packet
		expect [][]byte
	}{
		{"key_frame_gets_sets", Config{ParameterSets: true}, testPacket(true, 0, par, idr), [][]byte{vps, sps, pps, idr}},
		{"disabled", Config{}, testPacket(true, 0, par, idr), [][]byte{idr}},
		{"not_a_key_frame", Config{ParameterSets: true}, testPacket(false, 0, par, trail), [][]byte{trail}},
		{"sets_in_band", Config{ParameterSets: true}, testPacket(true, 0, par, vps, sps, pps, idr), [][]byte{vps, sps, pps, idr}},
		{"no_codec_parameters", Config{ParameterSets: true}, testPacket(true, 0, nil, idr), [][]byte{idr}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			defer tt.pkt.Close()

			var out bytes.Buffer
			require.NoError(t, NewH265Muxer(&out, tt.cfg).WritePacket(tt.pkt))
			pkts := readFrames(t, out.Bytes())
			require.Len(t, pkts, len(tt.expect))
			for i, p := range pkts {
				require.Equal(t, tt.expect[i], p.Payload)
			}
		})
	}
}

type failingWriter struct {
	after int
}

var errWriteFailed = errors.New("write failed")

func (w *failingWriter) Write(p []byte) (int, error) {
	if w.after == 0 {
		return 0, errWriteFailed
	}
	w.after--
	return len(p), nil
}

func TestH265MuxerErrors(t *testing.T) {
	t.Parallel()

	t.Run("writer_error", func(t *testing.T) {
		t.Parallel()
		m := NewH265Muxer(&failingWriter{after: 1}, Config{})
		pkt := testPacket(false, 0, nil, testNAL(1, 10), testNAL(1, 10))
		defer pkt.Close()
		require.ErrorIs(t, m.WritePacket(pkt), errWriteFailed)
		require.Equal(t, uint64(1), m.Packets())
	})

	t.Run("mtu_too_small", func(t *testing.T) {
		t.Parallel()
		m := NewH265Muxer(io.Discard, Config{MTU: 3})
		pkt := testPacket(false, 0, nil, testNAL(1, 10))
		defer pkt.Close()
		require.Error(t, m.WritePacket(pkt))
	})

	t.Run("empty_packet", func(t *testing.T) {
		t.Parallel()
		var out bytes.Buffer
		m := NewH265Muxer(&out, Config{})
		pkt := testPacket(false, 0, nil)
		defer pkt.Close()
		require.NoError(t, m.WritePacket(pkt))
		require.Zero(t, out.Len())
	})
}

func TestConfigDefaults(t *testing.T) {
	t.Parallel()

	cfg := Config{}.withDefaults()
	require.Equal(t, uint8(DefaultPayloadType), cfg.PayloadType)
	require.Equal(t, uint32(DefaultClockRate), cfg.ClockRate)
	require.Equal(t, DefaultMTU, cfg.MTU)

	cfg = Config{PayloadType: 97, ClockRate: 1, MTU: 10, SSRC: 5}.withDefaults()
	require.Equal(t, Config{PayloadType: 97, ClockRate: 1, MTU: 10, SSRC: 5}, cfg)
}
