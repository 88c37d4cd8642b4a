// Package sdp describes H.265 RTP streams with session descriptions (RFC 8866), using
// the fmtp parameters of RFC 7798.
package sdp

import (
	"encoding/base64"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	psdp "github.com/pion/sdp/v3"
	"github.com/ugparu/hwcore"
)

const (
	defaultPayloadType = 96
	defaultClockRate   = 90000
	defaultSessionName = "hwcore"

	h265Encoding = "H265"
)

// Session holds the session-level fields.
type Session struct {
	Name string
	URI  string
}

// Media is one video stream.
type Media struct {
	Type        hwcore.CodecType
	PayloadType uint8
	ClockRate   uint32
	Control     string
	FPS         uint
	Width       uint
	Height      uint
	VPS         []byte
	SPS         []byte
	PPS         []byte
}

// Generate builds a session description. Medias without a payload type or clock rate
// get 96 and 90 kHz.
func Generate(sess Session, medias []Media) ([]byte, error) {
	name := sess.Name
	if name == "" {
		name = defaultSessionName
	}
	sd := &psdp.SessionDescription{
		Origin: psdp.Origin{
			Username:       "-",
			NetworkType:    "IN",
			AddressType:    "IP4",
			UnicastAddress: "127.0.0.1",
		},
		SessionName:      psdp.SessionName(name),
		TimeDescriptions: []psdp.TimeDescription{{}},
		Attributes:       []psdp.Attribute{{Key: "control", Value: "*"}},
	}
	if sess.URI != "" {
		u, err := url.Parse(sess.URI)
		if err != nil {
			return nil, fmt.Errorf("sdp: session uri: %w", err)
		}
		sd.URI = u
	}

	for _, m := range medias {
		md, err := marshalMedia(m)
		if err != nil {
			return nil, err
		}
		sd.MediaDescriptions = append(sd.MediaDescriptions, md)
	}
	return sd.Marshal()
}

func marshalMedia(m Media) (*psdp.MediaDescription, error) {
	if m.Type != hwcore.H265 {
		return nil, fmt.Errorf("sdp: unsupported codec %v", m.Type)
	}
	pt := m.PayloadType
	if pt == 0 {
		pt = defaultPayloadType
	}
	clock := m.ClockRate
	if clock == 0 {
		clock = defaultClockRate
	}

	md := &psdp.MediaDescription{
		MediaName: psdp.MediaName{
			Media:  "video",
			Port:   psdp.RangedPort{Value: 0},
			Protos: []string{"RTP", "AVP"},
		},
	}
	md.WithCodec(pt, h265Encoding, clock, 0, fmtp(m))
	if m.FPS > 0 {
		md.WithValueAttribute("framerate", strconv.FormatUint(uint64(m.FPS), 10))
	}
	if m.Width > 0 && m.Height > 0 {
		md.WithValueAttribute("x-dimensions", fmt.Sprintf("%d,%d", m.Width, m.Height))
	}
	if m.Control != "" {
		md.WithValueAttribute("control", m.Control)
	}
	return md, nil
}

// fmtp lists the non-empty parameter sets, base64 encoded.
func fmtp(m Media) string {
	var params []string
	for _, ps := range []struct {
		key string
		nal []byte
	}{{"sprop-vps", m.VPS}, {"sprop-sps", m.SPS}, {"sprop-pps", m.PPS}} {
		if len(ps.nal) > 0 {
			params = append(params, ps.key+"="+base64.StdEncoding.EncodeToString(ps.nal))
		}
	}
	return strings.Join(params, "; ")
}

// Parse reads a session description. Video medias with an encoding other than H.265
// are returned with a zero Type.
func Parse(content []byte) (Session, []Media, error) {
	var sd psdp.SessionDescription
	if err := sd.Unmarshal(content); err != nil {
		return Session{}, nil, fmt.Errorf("sdp: %w", err)
	}

	sess := Session{Name: string(sd.SessionName)}
	if sd.URI != nil {
		sess.URI = sd.URI.String()
	}

	var medias []Media
	for _, md := range sd.MediaDescriptions {
		if md.MediaName.Media != "video" || len(md.MediaName.Formats) == 0 {
			continue
		}
		medias = append(medias, parseMedia(md))
	}
	return sess, medias, nil
}

func parseMedia(md *psdp.MediaDescription) Media {
	var m Media
	if pt, err := strconv.ParseUint(md.MediaName.Formats[0], 10, 8); err == nil {
		m.PayloadType = uint8(pt)
	}
	prefix := strconv.Itoa(int(m.PayloadType)) + " "

	for _, attr := range md.Attributes {
		switch attr.Key {
		case "rtpmap":
			if enc, ok := strings.CutPrefix(attr.Value, prefix); ok {
				parseRtpmap(&m, enc)
			}
		case "fmtp":
			if params, ok := strings.CutPrefix(attr.Value, prefix); ok {
				parseFmtp(&m, params)
			}
		case "framerate", "x-framerate":
			if f, err := strconv.ParseFloat(attr.Value, 64); err == nil && f > 0 {
				m.FPS = uint(f + 0.5) //nolint:mnd
			}
		case "x-dimensions":
			w, h, _ := strings.Cut(attr.Value, ",")
			width, errW := strconv.ParseUint(strings.TrimSpace(w), 10, 32)
			height, errH := strconv.ParseUint(strings.TrimSpace(h), 10, 32)
			if errW == nil && errH == nil {
				m.Width, m.Height = uint(width), uint(height)
			}
		case "control":
			m.Control = attr.Value
		}
	}
	return m
}

// parseRtpmap reads "<encoding>/<clock rate>".
func parseRtpmap(m *Media, enc string) {
	fields := strings.Split(enc, "/")
	switch strings.ToUpper(fields[0]) {
	case "H265", "HEVC":
		m.Type = hwcore.H265
	}
	if len(fields) > 1 {
		if clock, err := strconv.ParseUint(fields[1], 10, 32); err == nil {
			m.ClockRate = uint32(clock)
		}
	}
}

func parseFmtp(m *Media, params string) {
	for _, param := range strings.Split(params, ";") {
		key, val, ok := strings.Cut(strings.TrimSpace(param), "=")
		if !ok {
			continue
		}
		decoded, err := base64.StdEncoding.DecodeString(val)
		if err != nil {
			continue
		}
		switch key {
		case "sprop-vps":
			m.VPS = decoded
		case "sprop-sps":
			m.SPS = decoded
		case "sprop-pps":
			m.PPS = decoded
		}
	}
}
