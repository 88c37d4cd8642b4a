package h265

import (
	"bytes"
	"errors"
	"io"
	"testing"
	"testing/iotest"
	"time"

	"github.com/stretchr/testify/require"
)

var testVPS = []byte{NalUnitVps << 1, 0x01, 0x0c, 0x01, 0xff, 0xff}

var (
	startCode4 = []byte{0, 0, 0, 1}
	startCode3 = []byte{0, 0, 1}
)

func frame(sc []byte, nals ...[]byte) []byte {
	var out []byte
	for _, nal := range nals {
		out = append(out, sc...)
		out = append(out, nal...)
	}
	return out
}

func annexB(nals ...[]byte) []byte {
	return frame(startCode4, nals...)
}

func readAll(t *testing.T, p *Parser) []*Packet {
	t.Helper()
	var pkts []*Packet
	for {
		pkt, err := p.ReadPacket()
		if errors.Is(err, io.EOF) {
			return pkts
		}
		require.NoError(t, err)
		pkts = append(pkts, pkt)
	}
}

func TestParserReadPacket(t *testing.T) {
	t.Parallel()

	sps := buildSPS(defaultTestSPS())
	pps := buildPPS(testPPS{})
	idr := uint8(NalUnitCodedSliceIdrWRadl)
	trail := uint8(NalUnitCodedSliceTrailR)
	nals := [][]byte{
		testVPS, sps, pps, slice(idr, true), slice(idr, false),
		slice(trail, true), slice(trail, false),
		slice(trail, true),
	}

	for _, sc := range [][]byte{startCode4, startCode3} {
		for _, readSize := range []int{1, 7, 4096} {
			p := NewParser(bytes.NewReader(frame(sc, nals...)),
				WithReadSize(readSize), WithFrameRate(25), WithURL("file://test.h265"))
			pkts := readAll(t, p)
			p.Close()

			require.Len(t, pkts, 3)
			require.Equal(t, frame(sc, nals[:5]...), pkts[0].Data())
			require.Equal(t, frame(sc, nals[5:7]...), pkts[1].Data())
			require.Equal(t, frame(sc, nals[7]), pkts[2].Data())

			require.True(t, pkts[0].IsKeyFrame())
			require.False(t, pkts[1].IsKeyFrame())
			for i, pkt := range pkts {
				require.Equal(t, time.Duration(i)*40*time.Millisecond, pkt.Timestamp())
				require.Equal(t, 40*time.Millisecond, pkt.Duration())
				require.Equal(t, "file://test.h265", pkt.URL())
				require.NotNil(t, pkt.CodecPar)
				require.Equal(t, uint(1080), pkt.CodecPar.Height())
				pkt.Close()
			}
		}
	}
}

func TestParserFrameRateFromSPS(t *testing.T) {
	t.Parallel()

	stream := annexB(buildSPS(defaultTestSPS()), buildPPS(testPPS{}),
		slice(NalUnitCodedSliceCra, true), slice(NalUnitCodedSliceCra, true))
	p := NewParser(bytes.NewReader(stream))
	defer p.Close()

	pkts := readAll(t, p)
	require.Len(t, pkts, 2)
	require.InDelta(t, float64(time.Second)*1001/60000, float64(pkts[1].Timestamp()), 2)
	require.Equal(t, uint(60), pkts[1].CodecPar.FPS())
}

func TestParserParameterSets(t *testing.T) {
	t.Parallel()

	first := defaultTestSPS()
	second := defaultTestSPS()
	second.width = 1280
	second.height = 720
	second.confBottom = 0
	broken := buildSPS(defaultTestSPS())[:12]
	other := defaultTestSPS()
	other.id = 4

	stream := annexB(
		buildSPS(first), buildSPS(other), broken, buildSPS(second),
		buildPPS(testPPS{id: 1}), buildPPS(testPPS{id: 0, spsID: 4}),
	)
	p := NewParser(bytes.NewReader(stream))
	defer p.Close()

	var types []uint8
	for {
		hdr, nal, err := p.ReadNALUnit()
		if errors.Is(err, io.EOF) {
			require.Equal(t, uint8(NalUnitInvalid), hdr.NalUnitType)
			break
		}
		require.NoError(t, err)
		require.NotEmpty(t, nal)
		types = append(types, hdr.NalUnitType)
	}
	require.Equal(t, []uint8{NalUnitSps, NalUnitSps, NalUnitSps, NalUnitSps, NalUnitPps, NalUnitPps}, types)

	sps, ok := p.SPS(0)
	require.True(t, ok)
	require.Equal(t, uint(1280), sps.Width())
	require.Equal(t, []uint{0, 4}, p.SPSIDs())
	require.Equal(t, []uint{0, 1}, p.PPSIDs())
	_, ok = p.SPS(1)
	require.False(t, ok)

	pps, ok := p.PPS(0)
	require.True(t, ok)
	require.Equal(t, uint(4), pps.SeqParameterSetID)

	params := p.CodecParameters()
	require.NotNil(t, params)
	require.Equal(t, uint(1080), params.Height())

	extradata, err := p.Extradata()
	require.NoError(t, err)
	require.Equal(t, []byte{NalUnitSps, 2, 0}, extradata[23:26])
}

func TestParserExtradataSingleSet(t *testing.T) {
	t.Parallel()

	sps := buildSPS(defaultTestSPS())
	pps := buildPPS(testPPS{})
	p := NewParser(bytes.NewReader(annexB(sps, pps)))
	defer p.Close()
	readAll(t, p)

	out, err := p.Extradata()
	require.NoError(t, err)
	require.Len(t, out, 21+1+1+3+(2+len(sps))+3+(2+len(pps)))
	require.Equal(t, byte(0xFC|3), out[21])
}

func TestParserEmptyAndErrors(t *testing.T) {
	t.Parallel()

	t.Run("empty", func(t *testing.T) {
		t.Parallel()
		p := NewParser(bytes.NewReader(nil))
		defer p.Close()
		_, err := p.ReadPacket()
		require.ErrorIs(t, err, io.EOF)
		_, err = p.Extradata()
		require.ErrorIs(t, err, ErrNoSPS)
		require.Nil(t, p.CodecParameters())
	})

	t.Run("garbage_before_start_code", func(t *testing.T) {
		t.Parallel()
		stream := append([]byte{0xde, 0xad, 0xbe, 0xef}, annexB(slice(NalUnitCodedSliceTrailR, true))...)
		p := NewParser(bytes.NewReader(stream))
		defer p.Close()
		pkts := readAll(t, p)
		require.Len(t, pkts, 1)
		require.Nil(t, pkts[0].CodecPar)
	})

	t.Run("reader_error", func(t *testing.T) {
		t.Parallel()
		boom := errors.New("boom")
		p := NewParser(iotest.ErrReader(boom))
		defer p.Close()
		_, err := p.ReadPacket()
		require.ErrorIs(t, err, boom)
	})
}
