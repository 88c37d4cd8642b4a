package codec

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/ugparu/hwcore"
	"github.com/ugparu/hwcore/utils/buffer"
)

type testParams struct {
	BaseParameters
}

func (*testParams) Tag() string { return "test" }

func TestBaseParameters(t *testing.T) {
	t.Parallel()

	t.Run("nil_receiver", func(t *testing.T) {
		t.Parallel()
		var par *BaseParameters
		require.Equal(t, hwcore.CodecType(math.MaxUint32), par.Type())
		require.Equal(t, uint8(math.MaxUint8), par.StreamIndex())
		require.Zero(t, par.Bitrate())
		require.Equal(t, "EMPTY_CODEC_PARAMETERS", par.String())
	})

	t.Run("setters", func(t *testing.T) {
		t.Parallel()
		par := NewBaseParameters(hwcore.H265)
		par.SetStreamIndex(3)
		par.SetBitrate(2_000_000)
		require.Equal(t, hwcore.H265, par.Type())
		require.Equal(t, uint8(3), par.StreamIndex())
		require.Equal(t, uint(2_000_000), par.Bitrate())
		require.Equal(t, "CODEC_PARAMETERS codec=H265 stream=3 bitrate=2000000", par.String())
	})
}

func TestEstimateBitrate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		width uint
		fps   uint
		want  uint
	}{
		{name: "reference_rate", width: 1000, fps: 30, want: 2_000_000},
		{name: "unknown_rate", width: 1000, fps: 0, want: 2_000_000},
		{name: "half_rate", width: 1000, fps: 15, want: 4_000_000},
		{name: "zero_width", width: 0, fps: 25, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, EstimateBitrate(tt.width, tt.fps, 2))
		})
	}
}

func TestBasePacketRefCount(t *testing.T) {
	t.Parallel()

	buf := buffer.Get(0)
	buf.Append(1, 2, 3)
	par := &testParams{BaseParameters: NewBaseParameters(hwcore.H265)}
	pkt := NewBasePacket(1, time.Second, 40*time.Millisecond, "file.h265", buf, par)

	shared := pkt.Clone(false)
	copied := pkt.Clone(true)
	require.Equal(t, []byte{1, 2, 3}, shared.Data())
	require.Equal(t, []byte{1, 2, 3}, copied.Data())
	require.Equal(t, "file.h265", shared.URL())
	require.Equal(t, time.Second, shared.Timestamp())

	copied.Data()[0] = 9
	require.Equal(t, byte(1), pkt.Data()[0])

	pkt.Close()
	shared.Close()
	copied.Close()
	require.Panics(t, func() { pkt.Close() })
}
