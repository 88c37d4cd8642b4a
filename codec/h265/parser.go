package h265

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/ugparu/hwcore/utils/buffer"
	"github.com/ugparu/hwcore/utils/logger"
)

const defaultFrameRate = 25.0

// Option configures a Parser.
type Option func(*Parser)

// WithFrameRate sets the rate used for packet timestamps. Without it the SPS timing
// info is used when present, otherwise 25 fps.
func WithFrameRate(fps float64) Option {
	return func(p *Parser) {
		if fps > 0 {
			p.frameRate = fps
			p.fixedRate = true
		}
	}
}

// WithReadSize sets the number of bytes requested from the reader per refill.
func WithReadSize(n int) Option {
	return func(p *Parser) {
		p.scanner.readSize = n
	}
}

// WithURL tags every packet with the source url.
func WithURL(url string) Option {
	return func(p *Parser) {
		p.url = url
	}
}

// ParameterSet is a stored VPS, SPS or PPS: its raw NAL unit and, for SPS and PPS,
// the decoded form.
type ParameterSet[T any] struct {
	NAL  []byte
	Info T
}

// Parser reads an H.265 Annex-B elementary stream and emits access units. It is not
// safe for concurrent use.
type Parser struct {
	scanner   *naluScanner
	detector  AccessUnitDetector
	url       string
	frameRate float64
	fixedRate bool

	vps map[uint]ParameterSet[struct{}]
	sps map[uint]ParameterSet[SPS]
	pps map[uint]ParameterSet[PPS]

	auStart   int
	auKey     bool
	auCount   int64
	lastPPSID int
	paramsOK  bool
	params    *CodecParameters
}

// NewParser returns a parser reading from r.
func NewParser(r io.Reader, opts ...Option) *Parser {
	p := &Parser{
		scanner:   newNaluScanner(r, defaultReadSize),
		frameRate: defaultFrameRate,
		vps:       make(map[uint]ParameterSet[struct{}]),
		sps:       make(map[uint]ParameterSet[SPS]),
		pps:       make(map[uint]ParameterSet[PPS]),
		auStart:   -1,
		lastPPSID: -1,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.scanner.readSize <= 0 {
		p.scanner.readSize = defaultReadSize
	}
	return p
}

func (p *Parser) String() string {
	return fmt.Sprintf("H265_PARSER %s", p.url)
}

// ReadNALUnit returns the next NAL unit (header included, start code excluded) and
// records it if it is a parameter set. It returns io.EOF at the end of the stream.
// It must not be mixed with ReadPacket on the same parser.
func (p *Parser) ReadNALUnit() (NalUnitHeader, []byte, error) {
	nu, err := p.scanner.next()
	if err != nil {
		return NalUnitHeader{NalUnitType: NalUnitInvalid}, nil, err
	}
	nal := slices.Clone(p.scanner.bytes(nu.data, nu.end))
	p.scanner.discard(nu.end)
	hdr, _ := ParseNalUnitHeader(nal)
	p.handleParameterSet(hdr.NalUnitType, nal)
	return hdr, nal, nil
}

// ReadPacket returns the next access unit in Annex-B form. Timestamps advance by one
// frame duration per packet. It returns io.EOF once the stream is exhausted.
func (p *Parser) ReadPacket() (*Packet, error) {
	for {
		nu, err := p.scanner.next()
		if errors.Is(err, io.EOF) {
			if p.auStart < 0 {
				return nil, io.EOF
			}
			end := p.scanner.buf.Len()
			pkt := p.emit(end)
			p.scanner.discard(end)
			p.auStart = -1
			p.detector.Reset()
			return pkt, nil
		}
		if err != nil {
			return nil, err
		}

		nal := p.scanner.bytes(nu.data, nu.end)
		typ := NalType(nal[0])
		if p.detector.Push(nal) && p.auStart >= 0 {
			pkt := p.emit(nu.start)
			p.scanner.discard(nu.start)
			p.auStart = 0
			p.account(typ, p.scanner.bytes(nu.data-nu.start, nu.end-nu.start))
			return pkt, nil
		}
		if p.auStart < 0 {
			p.auStart = nu.start
		}
		p.account(typ, nal)
	}
}

// account applies the side effects of a NAL unit joining the current access unit.
func (p *Parser) account(typ uint8, nal []byte) {
	if IsKey(typ) {
		p.auKey = true
	}
	p.handleParameterSet(typ, nal)
}

func (p *Parser) handleParameterSet(typ uint8, nal []byte) {
	switch typ {
	case NalUnitVps:
		if len(nal) <= NalHeaderSize {
			logger.Warningf(p, "skipping truncated VPS of %d bytes", len(nal))
			return
		}
		id := uint(nal[NalHeaderSize] >> 4) //nolint:mnd
		p.vps[id] = ParameterSet[struct{}]{NAL: slices.Clone(nal)}
	case NalUnitSps:
		sps, err := ParseSPS(nal)
		if err != nil {
			logger.Warningf(p, "skipping malformed SPS: %v", err)
			return
		}
		p.sps[sps.SeqParameterSetID] = ParameterSet[SPS]{NAL: slices.Clone(nal), Info: sps}
		p.paramsOK = false
		logger.Debugf(p, "SPS %d: %dx%d", sps.SeqParameterSetID, sps.Width(), sps.Height())
	case NalUnitPps:
		pps, err := ParsePPS(nal)
		if err != nil {
			logger.Warningf(p, "skipping malformed PPS: %v", err)
			return
		}
		p.pps[pps.PicParameterSetID] = ParameterSet[PPS]{NAL: slices.Clone(nal), Info: pps}
		p.lastPPSID = int(pps.PicParameterSetID) //nolint:gosec // bounded by MaxPPSCount
		p.paramsOK = false
		logger.Debugf(p, "PPS %d -> SPS %d", pps.PicParameterSetID, pps.SeqParameterSetID)
	}
}

// emit copies the current access unit, which ends at end, into a packet.
func (p *Parser) emit(end int) *Packet {
	src := p.scanner.bytes(p.auStart, end)
	buf := buffer.Get(len(src))
	copy(buf.Data(), src)

	params := p.CodecParameters()
	rate := p.frameRate
	if !p.fixedRate && params != nil && params.SPSInfo.FrameRate() > 0 {
		rate = params.SPSInfo.FrameRate()
	}
	dur := time.Duration(float64(time.Second) / rate)
	pkt := NewPacket(p.auKey, time.Duration(p.auCount)*dur, dur, buf, p.url, params)
	logger.Tracef(p, "access unit %d: %d bytes key=%v", p.auCount, len(src), p.auKey)

	p.auCount++
	p.auKey = false
	return pkt
}

// CodecParameters returns the parameters built from the most recent PPS and the SPS it
// references, or nil when no such pair has been seen.
func (p *Parser) CodecParameters() *CodecParameters {
	if p.paramsOK {
		return p.params
	}
	p.paramsOK = true
	if p.lastPPSID < 0 {
		return p.params
	}
	pps := p.pps[uint(p.lastPPSID)]
	sps, ok := p.sps[pps.Info.SeqParameterSetID]
	if !ok {
		return p.params
	}
	vps := p.vps[sps.Info.VideoParameterSetID]
	fps := uint(p.frameRate + 0.5) //nolint:mnd
	params, err := NewCodecParameters(vps.NAL, sps.NAL, pps.NAL, fps)
	if err != nil {
		logger.Warningf(p, "codec parameters: %v", err)
		return p.params
	}
	if p.params != nil {
		params.SetStreamIndex(p.params.StreamIndex())
	}
	p.params = params
	return p.params
}

// SPS returns the last SPS received with the given id.
func (p *Parser) SPS(id uint) (SPS, bool) {
	ps, ok := p.sps[id]
	return ps.Info, ok
}

// PPS returns the last PPS received with the given id.
func (p *Parser) PPS(id uint) (PPS, bool) {
	ps, ok := p.pps[id]
	return ps.Info, ok
}

// SPSIDs lists the ids of the stored SPS in ascending order.
func (p *Parser) SPSIDs() []uint {
	return sortedKeys(p.sps)
}

// PPSIDs lists the ids of the stored PPS in ascending order.
func (p *Parser) PPSIDs() []uint {
	return sortedKeys(p.pps)
}

func sortedKeys[T any](m map[uint]ParameterSet[T]) []uint {
	keys := make([]uint, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Extradata builds the extradata blob from every stored SPS and PPS, ordered by id.
func (p *Parser) Extradata() ([]byte, error) {
	var edb ExtraDataBuilder
	defer edb.Reset()
	for _, id := range p.SPSIDs() {
		edb.AddSPS(p.sps[id].NAL)
	}
	for _, id := range p.PPSIDs() {
		edb.AddPPS(p.pps[id].NAL)
	}
	return edb.Extradata()
}

// Close releases the read buffer.
func (p *Parser) Close() {
	p.scanner.release()
}
