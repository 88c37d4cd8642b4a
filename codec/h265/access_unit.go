package h265

// AccessUnitDetector splits a NAL unit sequence into access units. It closes the
// current unit when:
//   - an AUD arrives and the unit is not empty,
//   - a prefix SEI follows a slice,
//   - a slice has a different type than the previous slice,
//   - a slice of the same type has first_slice_segment_in_pic_flag set.
//
// Parameter sets and suffix SEI never close a unit.
type AccessUnitDetector struct {
	size          int
	sawSlice      bool
	prevSliceType uint8
}

// Push accounts nal and reports whether it starts a new access unit. When it does,
// nal belongs to the new unit, not to the one being closed.
func (d *AccessUnitDetector) Push(nal []byte) (boundary bool) {
	if len(nal) == 0 {
		return false
	}
	typ := NalType(nal[0])
	switch {
	case typ == NalUnitAccessUnitDelimiter:
		boundary = d.size > 0
	case typ == NalUnitPrefixSei:
		boundary = d.sawSlice
	case IsSlice(typ) && d.sawSlice:
		if typ != d.prevSliceType {
			boundary = true
		} else {
			var signs AccessUnitSigns
			boundary = signs.Parse(nal) == nil && signs.FirstSliceSegmentInPicFlag
		}
	}

	if boundary {
		d.size = 0
		d.sawSlice = false
	}
	d.size += len(nal)
	if IsSlice(typ) {
		d.sawSlice = true
		d.prevSliceType = typ
	}
	return boundary
}

// Size is the number of NAL bytes accumulated in the current unit.
func (d *AccessUnitDetector) Size() int {
	return d.size
}

func (d *AccessUnitDetector) Reset() {
	*d = AccessUnitDetector{}
}
