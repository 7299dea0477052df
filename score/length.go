// Package score holds the hierarchical score model: exact positions
// and lengths, events and their payloads, the non-overlapping event
// container, measures, voices and parts, plus LilyPond rendering for
// all of them.
//
// Coordinates are fractions of a whole note. Raw values keep their
// exact form; every comparison and lookup goes through a value
// quantized to the LimitDenom grid so repeated rational arithmetic
// cannot drift events off the grid of legal durations.
package score

import (
	"fmt"

	"lyscore/frac"
)

// LimitDenom is the denominator grid for all position/length keys.
const LimitDenom = 128

// tupletGrid is the finer grid used for intermediate tuplet scaling.
const tupletGrid = 256

// Length is an exact duration in whole notes.
type Length struct {
	value frac.Fraction
}

func LengthOf(f frac.Fraction) Length { return Length{value: f} }

// Value returns the raw, unquantized fraction.
func (l Length) Value() frac.Fraction { return l.value }

// Quantized returns the length on the LimitDenom grid. This is the
// value used for every comparison.
func (l Length) Quantized() frac.Fraction {
	return frac.LimitDenominator(l.value, LimitDenom)
}

// QuantizedTo quantizes to an explicit grid (tuplets use 256).
func (l Length) QuantizedTo(denom int64) frac.Fraction {
	return frac.LimitDenominator(l.value, denom)
}

func (l Length) Add(o Length) Length {
	return Length{value: l.Quantized().Add(o.Quantized())}
}

// Sub panics when the result would be negative: a negative length is
// always a bug in the caller, never recoverable input.
func (l Length) Sub(o Length) Length {
	res := l.Quantized().Sub(o.Quantized())
	if res.IsNegative() {
		panic(fmt.Sprintf(
			"score: length below zero: %s - %s", l.Quantized(), o.Quantized(),
		))
	}
	return Length{value: res}
}

func (l Length) Equal(o Length) bool { return l.Quantized() == o.Quantized() }
func (l Length) Cmp(o Length) int    { return l.Quantized().Cmp(o.Quantized()) }
func (l Length) IsZero() bool        { return l.Quantized().IsZero() }

func (l Length) String() string { return l.value.String() }

// RenderLilypond returns the duration token: "4" for 1/4, "8." for
// 3/16, "\breve." for 3/1. Any other shape means the caller skipped
// normalization, which is an invariant violation.
func (l Length) RenderLilypond() string {
	q := l.Quantized()
	switch q.Num() {
	case 1:
		return fmt.Sprintf("%d", q.Den())
	case 3:
		if q.Den() > 1 {
			return fmt.Sprintf("%d.", q.Den()/2)
		}
		return `\breve.`
	}
	panic(fmt.Sprintf("score: invalid length to render: %s (normalized: %v)",
		q, frac.Normalize(q)))
}
