// Package pio provides big-endian integer helpers for packed byte layouts.
package pio

func U16BE(b []byte) uint16 {
	return uint16(b[0])<<8 | uint16(b[1])
}

func U24BE(b []byte) uint32 {
	return uint32(b[0])<<16 | uint32(b[1])<<8 | uint32(b[2])
}

func U32BE(b []byte) uint32 {
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}

func PutU16BE(b []byte, v uint16) {
	b[0] = byte(v >> 8) //nolint:mnd
	b[1] = byte(v)
}

func PutU32BE(b []byte, v uint32) {
	b[0] = byte(v >> 24) //nolint:mnd
	b[1] = byte(v >> 16) //nolint:mnd
	b[2] = byte(v >> 8)  //nolint:mnd
	b[3] = byte(v)
}
