// Package hwcore holds the contracts shared by the parsers and muxers of this module.
package hwcore

import "time"

// CodecType represents the type of a codec.
type CodecType uint32

// avCodecTypeMagic is a magic number used to create unique codec types.
const avCodecTypeMagic = 233333

const codecTypeOtherBits = 1

// makeVideoCodecType creates a video CodecType based on the provided base.
func makeVideoCodecType(base uint32) (c CodecType) {
	c = CodecType(base) << codecTypeOtherBits
	return
}

var (
	H264 = makeVideoCodecType(avCodecTypeMagic + 1) //nolint:mnd
	H265 = makeVideoCodecType(avCodecTypeMagic + 2) //nolint:mnd
)

func (ct CodecType) String() string {
	switch ct {
	case H264:
		return "H264"
	case H265:
		return "H265"
	}
	return "UNKNOWN"
}

// CodecParameters defines the interface for codec configuration.
type CodecParameters interface {
	Type() CodecType      // Returns the codec type.
	Tag() string          // Returns the codec identifier string (RFC 6381).
	StreamIndex() uint8   // Returns the index of the stream in a container.
	SetStreamIndex(uint8) // Sets the stream index value.
	Bitrate() uint        // Returns the codec's bitrate in bits per second.
	SetBitrate(uint)      // Sets the codec's target bitrate.
}

// VideoCodecParameters extends CodecParameters with video-specific properties.
type VideoCodecParameters interface {
	CodecParameters
	Width() uint  // Cropped frame width in pixels.
	Height() uint // Cropped frame height in pixels.
	FPS() uint    // Frame rate.
	// ParameterSets returns the VPS, SPS and PPS NAL units that precede key frames.
	ParameterSets() [][]byte
}

// Packet is a unit of compressed media.
type Packet interface {
	URL() string
	StreamIndex() uint8
	Timestamp() time.Duration
	SetTimestamp(time.Duration)
	Duration() time.Duration
	SetDuration(time.Duration)
	Data() []byte
	Close()
}

// VideoPacket extends Packet with video-specific functionality.
type VideoPacket interface {
	Packet
	IsKeyFrame() bool
	CodecParameters() VideoCodecParameters
}
