package h265

// AccessUnitSigns carries the slice header bits needed to find picture boundaries.
type AccessUnitSigns struct {
	FirstSliceSegmentInPicFlag bool
}

// Parse reads first_slice_segment_in_pic_flag, the first bit after the NAL header.
func (s *AccessUnitSigns) Parse(nal []byte) error {
	if len(nal) <= NalHeaderSize {
		return ErrH265IncorectUnitSize
	}
	if !IsSlice(NalType(nal[0])) {
		return ErrH265IncorectUnitType
	}
	s.FirstSliceSegmentInPicFlag = nal[NalHeaderSize]&0x80 != 0 //nolint:mnd
	return nil
}
