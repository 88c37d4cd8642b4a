package h265

import (
	"time"

	"github.com/ugparu/hwcore/codec"
	"github.com/ugparu/hwcore/utils/buffer"
)

// Packet is one access unit in Annex-B form. CodecPar is nil for access units that
// precede the first SPS/PPS pair.
type Packet struct {
	codec.VideoPacket[*CodecParameters]
}

func NewPacket(
	key bool,
	timestamp time.Duration,
	duration time.Duration,
	buf buffer.PooledBuffer,
	url string,
	param *CodecParameters,
) *Packet {
	var idx uint8
	if param != nil {
		idx = param.StreamIndex()
	}
	return &Packet{
		VideoPacket: codec.VideoPacket[*CodecParameters]{
			BasePacket: codec.NewBasePacket(
				idx,
				timestamp,
				duration,
				url,
				buf,
				param,
			),
			IsKeyFrm: key,
		},
	}
}

func (pkt *Packet) Clone(copyData bool) *Packet {
	return &Packet{
		VideoPacket: pkt.VideoPacket.Clone(copyData),
	}
}
