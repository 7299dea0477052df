package score

import (
	"fmt"

	"lyscore/frac"
)

// TimeSignature of one measure.
type TimeSignature struct {
	Numerator   uint32
	Denominator uint32
}

func NewTimeSignature(num, den uint32) TimeSignature {
	return TimeSignature{Numerator: num, Denominator: den}
}

// Length returns the measure length implied by the signature.
func (ts TimeSignature) Length() Length {
	return LengthOf(frac.New(int64(ts.Numerator), int64(ts.Denominator)))
}

func (ts TimeSignature) RenderLilypond() string {
	return fmt.Sprintf(`\time %d/%d`, ts.Numerator, ts.Denominator)
}

// MeasureInfo is one row of the time map.
type MeasureInfo struct {
	Index         uint32
	TimeSignature TimeSignature
	Length        Length
}

func NewMeasureInfo(index uint32, ts TimeSignature) MeasureInfo {
	return MeasureInfo{Index: index, TimeSignature: ts, Length: ts.Length()}
}

// TimeMap is the ruler of the exported range: the ordered table of
// measures with their time signatures, pinned to an absolute start
// position. It is immutable after construction and shared read-only
// by every Voice built from the same parse.
type TimeMap struct {
	measures []MeasureInfo
	begin    uint32
	end      uint32
	start    AbsolutePosition
}

// NewTimeMap builds a map from consecutive measures. Panics on an
// empty table.
func NewTimeMap(measures []MeasureInfo, start AbsolutePosition) *TimeMap {
	if len(measures) == 0 {
		panic("score: can not build TimeMap from empty measure table")
	}
	begin := measures[0].Index
	return &TimeMap{
		measures: measures,
		begin:    begin,
		end:      begin + uint32(len(measures)) - 1,
		start:    start,
	}
}

func (tm *TimeMap) Measures() []MeasureInfo { return tm.measures }
func (tm *TimeMap) BeginMeasure() uint32    { return tm.begin }
func (tm *TimeMap) EndMeasure() uint32      { return tm.end }

// MeasureInfoAt returns the row for a 1-based measure index.
func (tm *TimeMap) MeasureInfoAt(index uint32) MeasureInfo {
	return tm.measures[index-tm.begin]
}

// AbsolutePositionOfMeasure returns the absolute start of a measure.
func (tm *TimeMap) AbsolutePositionOfMeasure(index uint32) AbsolutePosition {
	counted := tm.start
	for _, m := range tm.measures {
		if m.Index == index {
			break
		}
		counted = counted.Add(m.Length)
	}
	return counted
}

// MeasureFromAbsolute finds the measure containing the given absolute
// position, returning its row and absolute start. ok is false when the
// position lies past the mapped range.
func (tm *TimeMap) MeasureFromAbsolute(
	abs AbsolutePosition,
) (info MeasureInfo, start AbsolutePosition, ok bool) {
	counted := tm.start
	for _, m := range tm.measures {
		measureStart := counted
		counted = counted.Add(m.Length)
		if counted.Cmp(abs) > 0 {
			return m, measureStart, true
		}
	}
	return MeasureInfo{}, AbsolutePosition{}, false
}

// RelativeFromAbsolute converts an absolute position to its
// (measure, offset) form.
func (tm *TimeMap) RelativeFromAbsolute(
	abs AbsolutePosition,
) (RelativePosition, bool) {
	info, start, ok := tm.MeasureFromAbsolute(abs)
	if !ok {
		return RelativePosition{}, false
	}
	return NewRelativePosition(
		info.Index, abs.Quantized().Sub(start.Quantized()),
	), true
}

// AbsoluteFromRelative converts a (measure, offset) position back to
// its absolute form.
func (tm *TimeMap) AbsoluteFromRelative(rel RelativePosition) AbsolutePosition {
	start := tm.AbsolutePositionOfMeasure(rel.Measure())
	return AbsoluteOf(start.Quantized().Add(rel.Offset()))
}
