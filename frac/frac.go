// Package frac implements exact rational arithmetic for musical
// positions and lengths.
//
// All score math runs on Fraction values so repeated splitting and
// scaling never accumulates floating point drift. Raw fractions can
// still grow unbounded denominators (think tuplet rates applied to
// tuplet rates), so anything used as a lookup or comparison key is
// first pushed onto a bounded grid with LimitDenominator.
package frac

import (
	"fmt"
	"strconv"
	"strings"
)

// Fraction is an exact rational number. The zero value is 0/1.
//
// Fractions are always kept reduced with a positive denominator, so
// two equal values are == comparable.
type Fraction struct {
	num int64
	den int64
}

// New returns the reduced fraction num/den. Panics on zero denominator.
func New(num, den int64) Fraction {
	if den == 0 {
		panic(fmt.Sprintf("frac: zero denominator in %d/%d", num, den))
	}
	if den < 0 {
		num, den = -num, -den
	}
	g := gcd(abs(num), den)
	return Fraction{num / g, den / g}
}

// FromInt returns n as a fraction.
func FromInt(n int64) Fraction {
	return Fraction{n, 1}
}

// FromFloat converts v to the nearest fraction on the 1/(2^20) grid.
// Good enough for host positions that arrive as float seconds/beats;
// callers quantize further before using the value as a key.
func FromFloat(v float64) Fraction {
	const grid = 1 << 20
	neg := v < 0
	if neg {
		v = -v
	}
	f := New(int64(v*grid+0.5), grid)
	if neg {
		f.num = -f.num
	}
	return f
}

func (f Fraction) Num() int64 { return f.num }
func (f Fraction) Den() int64 {
	if f.den == 0 {
		return 1
	}
	return f.den
}

func (f Fraction) Add(o Fraction) Fraction {
	return New(f.num*o.Den()+o.num*f.Den(), f.Den()*o.Den())
}

func (f Fraction) Sub(o Fraction) Fraction {
	return New(f.num*o.Den()-o.num*f.Den(), f.Den()*o.Den())
}

func (f Fraction) Mul(o Fraction) Fraction {
	return New(f.num*o.num, f.Den()*o.Den())
}

// Div panics when o is zero: dividing a length by zero is always a
// programming error upstream.
func (f Fraction) Div(o Fraction) Fraction {
	if o.num == 0 {
		panic("frac: division by zero")
	}
	return New(f.num*o.Den(), f.Den()*o.num)
}

// Cmp returns -1, 0 or +1.
func (f Fraction) Cmp(o Fraction) int {
	l := f.num * o.Den()
	r := o.num * f.Den()
	switch {
	case l < r:
		return -1
	case l > r:
		return 1
	default:
		return 0
	}
}

func (f Fraction) IsZero() bool     { return f.num == 0 }
func (f Fraction) IsNegative() bool { return f.num < 0 }

func (f Fraction) Float() float64 {
	return float64(f.num) / float64(f.Den())
}

func (f Fraction) String() string {
	if f.Den() == 1 {
		return fmt.Sprintf("%d", f.num)
	}
	return fmt.Sprintf("%d/%d", f.num, f.Den())
}

// Parse reads a fraction in "num/den" or plain integer form. Inverse
// of String.
func Parse(s string) (Fraction, error) {
	numStr, denStr, ok := strings.Cut(s, "/")
	num, err := strconv.ParseInt(strings.TrimSpace(numStr), 10, 64)
	if err != nil {
		return Fraction{}, fmt.Errorf("frac: bad fraction %q: %w", s, err)
	}
	if !ok {
		return FromInt(num), nil
	}
	den, err := strconv.ParseInt(strings.TrimSpace(denStr), 10, 64)
	if err != nil || den == 0 {
		return Fraction{}, fmt.Errorf("frac: bad denominator in %q", s)
	}
	return New(num, den), nil
}

// maxDescentSteps bounds the Stern-Brocot descent in LimitDenominator.
// Int64 continued fractions converge in far fewer steps; hitting the
// bound means the precision contract is broken.
const maxDescentSteps = 1000

// LimitDenominator returns the fraction with denominator at most limit
// that is nearest to f, found by continued-fraction best rational
// approximation. A fraction already on the grid comes back unchanged,
// which makes the operation idempotent.
//
// Panics when limit < 1 or when the descent fails to converge: both
// signal a violation of the precision contract, not bad user input.
func LimitDenominator(f Fraction, limit int64) Fraction {
	if limit < 1 {
		panic(fmt.Sprintf("frac: denominator limit below one: %d", limit))
	}
	if f.Den() <= limit {
		return f
	}
	neg := f.num < 0
	n, d := abs(f.num), f.Den()

	var p0, q0, p1, q1 int64 = 0, 1, 1, 0
	steps := 0
	for {
		if steps > maxDescentSteps {
			panic(fmt.Sprintf("frac: limit denominator did not converge for %s", f))
		}
		a := n / d
		q2 := q0 + a*q1
		if q2 > limit {
			break
		}
		p0, q0, p1, q1 = p1, q1, p0+a*p1, q2
		n, d = d, n-a*d
		steps++
	}

	k := (limit - q0) / q1
	lower := New(p0+k*p1, q0+k*q1)
	upper := New(p1, q1)
	abs1 := upper.Sub(Fraction{abs(f.num), f.den}).absValue()
	abs2 := lower.Sub(Fraction{abs(f.num), f.den}).absValue()
	best := upper
	if abs2.Cmp(abs1) < 0 {
		best = lower
	}
	if neg {
		best.num = -best.num
	}
	return best
}

func (f Fraction) absValue() Fraction {
	return Fraction{abs(f.num), f.den}
}

func gcd(a, b int64) int64 {
	for b != 0 {
		a, b = b, a%b
	}
	if a == 0 {
		return 1
	}
	return a
}

func abs(a int64) int64 {
	if a < 0 {
		return -a
	}
	return a
}
