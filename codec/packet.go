package codec

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/ugparu/hwcore"
	"github.com/ugparu/hwcore/utils/buffer"
)

// sharedBuffer holds the buffer and reference count, shared between packet clones.
type sharedBuffer struct {
	buf buffer.PooledBuffer
	ref int32
}

type BasePacket[T hwcore.CodecParameters] struct {
	Idx          uint8
	RelativeTime time.Duration
	Dur          time.Duration
	InpURL       string
	shared       *sharedBuffer // shared between clones
	CodecPar     T
}

// NewBasePacket creates a packet owning buf with a reference count of one.
func NewBasePacket[T hwcore.CodecParameters](
	idx uint8,
	relativeTime time.Duration,
	dur time.Duration,
	url string,
	buf buffer.PooledBuffer,
	codecPar T,
) BasePacket[T] {
	return BasePacket[T]{
		Idx:          idx,
		RelativeTime: relativeTime,
		Dur:          dur,
		InpURL:       url,
		shared:       &sharedBuffer{buf: buf, ref: 1},
		CodecPar:     codecPar,
	}
}

// Clone returns a packet with the same metadata. Without copyData the clone shares the
// buffer and both must be closed before it returns to the pool.
func (pkt *BasePacket[T]) Clone(copyData bool) BasePacket[T] {
	newPkt := BasePacket[T]{
		Idx:          pkt.Idx,
		RelativeTime: pkt.RelativeTime,
		Dur:          pkt.Dur,
		InpURL:       pkt.InpURL,
		CodecPar:     pkt.CodecPar,
	}
	if copyData {
		buf := buffer.Get(pkt.shared.buf.Len())
		copy(buf.Data(), pkt.shared.buf.Data())
		newPkt.shared = &sharedBuffer{buf: buf, ref: 1}
	} else {
		atomic.AddInt32(&pkt.shared.ref, 1)
		newPkt.shared = pkt.shared
	}
	return newPkt
}

func (pkt *BasePacket[T]) Data() []byte {
	if pkt.shared == nil {
		return nil
	}
	return pkt.shared.buf.Data()
}

func (pkt *BasePacket[T]) Len() int {
	if pkt.shared == nil {
		return 0
	}
	return pkt.shared.buf.Len()
}

func (pkt *BasePacket[T]) URL() string {
	return pkt.InpURL
}

func (pkt *BasePacket[T]) SetURL(url string) {
	pkt.InpURL = url
}

func (pkt *BasePacket[T]) StreamIndex() uint8 {
	return pkt.Idx
}

func (pkt *BasePacket[T]) SetStreamIndex(idx uint8) {
	pkt.Idx = idx
}

func (pkt *BasePacket[T]) Timestamp() time.Duration {
	return pkt.RelativeTime
}

func (pkt *BasePacket[T]) SetTimestamp(ts time.Duration) {
	pkt.RelativeTime = ts
}

func (pkt *BasePacket[T]) Duration() time.Duration {
	return pkt.Dur
}

func (pkt *BasePacket[T]) SetDuration(dur time.Duration) {
	pkt.Dur = dur
}

func (pkt *BasePacket[T]) String() string {
	if pkt == nil || pkt.shared == nil {
		return "EMPTY_PACKET"
	}
	return fmt.Sprintf("PACKET sz=%d ts=%v", pkt.shared.buf.Len(), pkt.RelativeTime)
}

// Retain increases the reference count.
func (pkt *BasePacket[T]) Retain() {
	atomic.AddInt32(&pkt.shared.ref, 1)
}

// Close drops one reference and releases the buffer with the last one.
func (pkt *BasePacket[T]) Close() {
	if pkt.shared == nil {
		return
	}
	count := atomic.AddInt32(&pkt.shared.ref, -1)
	if count == 0 {
		pkt.shared.buf.Release()
	} else if count < 0 {
		panic("packet reference count is negative")
	}
}

type VideoPacket[T hwcore.VideoCodecParameters] struct {
	BasePacket[T]
	IsKeyFrm bool
}

func (pkt *VideoPacket[T]) Clone(copyData bool) VideoPacket[T] {
	return VideoPacket[T]{
		BasePacket: pkt.BasePacket.Clone(copyData),
		IsKeyFrm:   pkt.IsKeyFrm,
	}
}

func (pkt *VideoPacket[T]) CodecParameters() hwcore.VideoCodecParameters {
	return pkt.CodecPar
}

func (pkt *VideoPacket[T]) IsKeyFrame() bool {
	return pkt.IsKeyFrm
}
