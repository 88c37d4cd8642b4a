package h265

import (
	"errors"
	"io"

	"github.com/ugparu/hwcore/utils/buffer"
)

const defaultReadSize = 4096

// naluPos locates one NAL unit inside the scanner buffer.
type naluPos struct {
	start int // first byte of the start code
	data  int // first byte of the NAL header
	end   int // one past the last payload byte
}

// naluScanner frames Annex-B NAL units over a growable buffer refilled from r.
type naluScanner struct {
	r        io.Reader
	buf      buffer.PooledBuffer
	readSize int
	pos      int
	eof      bool
}

func newNaluScanner(r io.Reader, readSize int) *naluScanner {
	if readSize <= 0 {
		readSize = defaultReadSize
	}
	return &naluScanner{
		r:        r,
		buf:      buffer.Get(0),
		readSize: readSize,
	}
}

// fill appends up to readSize bytes. A read that returns no data ends the stream.
func (s *naluScanner) fill() error {
	if s.eof {
		return io.EOF
	}
	n := s.buf.Len()
	s.buf.Resize(n + s.readSize)
	k, err := s.r.Read(s.buf.Data()[n:])
	s.buf.Resize(n + k)
	if err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	if k == 0 {
		s.eof = true
		return io.EOF
	}
	return nil
}

// findStartCode returns the offset and length of the first start code at or after from,
// or -1 at end of stream. A zero byte right before 00 00 01 is counted as part of it.
func (s *naluScanner) findStartCode(from int) (int, int, error) {
	scan := from
	for {
		b := s.buf.Data()
		for i := scan; i+2 < len(b); i++ {
			if b[i+2] > 1 {
				i += 2
				continue
			}
			if b[i] != 0 || b[i+1] != 0 || b[i+2] != 1 {
				continue
			}
			if i > from && b[i-1] == 0 {
				return i - 1, 4, nil //nolint:mnd
			}
			return i, 3, nil //nolint:mnd
		}
		scan = max(from, len(b)-2) //nolint:mnd
		if err := s.fill(); err != nil {
			if errors.Is(err, io.EOF) {
				return -1, 0, nil
			}
			return -1, 0, err
		}
	}
}

// next returns the position of the next NAL unit or io.EOF.
func (s *naluScanner) next() (naluPos, error) {
	for {
		start, codeLen, err := s.findStartCode(s.pos)
		if err != nil {
			return naluPos{}, err
		}
		if start < 0 {
			s.pos = s.buf.Len()
			return naluPos{}, io.EOF
		}
		nu := naluPos{start: start, data: start + codeLen}
		next, _, err := s.findStartCode(nu.data)
		if err != nil {
			return naluPos{}, err
		}
		if next < 0 {
			next = s.buf.Len()
		}
		s.pos = next
		nu.end = next
		b := s.buf.Data()
		for nu.end > nu.data && b[nu.end-1] == 0 {
			nu.end--
		}
		if nu.end-nu.data < NalHeaderSize {
			// Empty or header-less unit, keep scanning.
			continue
		}
		return nu, nil
	}
}

func (s *naluScanner) bytes(from, to int) []byte {
	return s.buf.Data()[from:to]
}

// discard drops the first n buffered bytes.
func (s *naluScanner) discard(n int) {
	s.buf.Discard(n)
	s.pos -= n
}

func (s *naluScanner) release() {
	s.buf.Release()
}
