package score

import (
	"fmt"

	"lyscore/frac"
)

// AbsolutePosition is an exact distance in whole notes from the time
// origin of the exported range.
type AbsolutePosition struct {
	value frac.Fraction
}

func AbsoluteOf(f frac.Fraction) AbsolutePosition { return AbsolutePosition{value: f} }

func (p AbsolutePosition) Value() frac.Fraction { return p.value }

func (p AbsolutePosition) Quantized() frac.Fraction {
	return frac.LimitDenominator(p.value, LimitDenom)
}

func (p AbsolutePosition) Add(l Length) AbsolutePosition {
	return AbsolutePosition{value: p.Quantized().Add(l.Quantized())}
}

func (p AbsolutePosition) Cmp(o AbsolutePosition) int {
	return p.Quantized().Cmp(o.Quantized())
}

// Distance returns the absolute distance between two positions.
func (p AbsolutePosition) Distance(o AbsolutePosition) Length {
	a, b := p.Quantized(), o.Quantized()
	if a.Cmp(b) < 0 {
		a, b = b, a
	}
	return LengthOf(a.Sub(b))
}

func (p AbsolutePosition) String() string { return p.value.String() }

// RelativePosition addresses a point inside one measure: 1-based
// measure index plus the offset from the measure start in whole notes.
// Positions from different measures must never meet in arithmetic.
type RelativePosition struct {
	measure uint32
	offset  frac.Fraction
}

func NewRelativePosition(measure uint32, offset frac.Fraction) RelativePosition {
	return RelativePosition{measure: measure, offset: offset}
}

func (p RelativePosition) Measure() uint32 { return p.measure }

// Offset returns the measure offset quantized to the LimitDenom grid:
// the comparison/lookup key form.
func (p RelativePosition) Offset() frac.Fraction {
	return frac.LimitDenominator(p.offset, LimitDenom)
}

func (p *RelativePosition) SetOffset(f frac.Fraction) { p.offset = f }
func (p *RelativePosition) SetMeasure(m uint32)       { p.measure = m }

// Add moves the position forward by a length within its measure.
func (p RelativePosition) Add(l Length) RelativePosition {
	return RelativePosition{
		measure: p.measure,
		offset:  p.Offset().Add(l.Quantized()),
	}
}

// Cmp orders two positions of the same measure. Mixing measures here
// is a programming error.
func (p RelativePosition) Cmp(o RelativePosition) int {
	if p.measure != o.measure {
		panic(fmt.Sprintf(
			"score: comparing positions of measures %d and %d", p.measure, o.measure,
		))
	}
	return p.Offset().Cmp(o.Offset())
}

// Equal also holds across measures (it just reports false).
func (p RelativePosition) Equal(o RelativePosition) bool {
	return p.measure == o.measure && p.Offset() == o.Offset()
}

// DistanceToBarEnd returns the length left until the measure's end,
// looked up in the time map.
func (p RelativePosition) DistanceToBarEnd(tm *TimeMap) Length {
	info := tm.MeasureInfoAt(p.measure)
	return LengthOf(info.Length.Quantized().Sub(p.Offset()))
}

func (p RelativePosition) String() string {
	return fmt.Sprintf("m%d+%s", p.measure, p.offset)
}

// RelativeDistance is the span between two relative positions
// expressed as barline crossings plus the partial measures on both
// sides.
type RelativeDistance struct {
	// Measures counts crossed barlines; negative when the second
	// position precedes the first.
	Measures int
	// BeforeFirstBarline runs from the earlier position to its bar end.
	BeforeFirstBarline Length
	// AfterLastBarline runs from the last barline to the later position.
	AfterLastBarline Length
}

// RelativeDistanceBetween computes the relative distance of a and b
// using the time map for measure lengths.
func RelativeDistanceBetween(a, b RelativePosition, tm *TimeMap) RelativeDistance {
	measures := int(b.Measure()) - int(a.Measure())
	if a.Measure() > b.Measure() ||
		(a.Measure() == b.Measure() && a.Offset().Cmp(b.Offset()) > 0) {
		a, b = b, a
	}
	return RelativeDistance{
		Measures:           measures,
		BeforeFirstBarline: a.DistanceToBarEnd(tm),
		AfterLastBarline:   LengthOf(b.Offset()),
	}
}
