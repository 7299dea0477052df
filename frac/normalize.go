package frac

// Normalize splits a quantized length into fractions that are each
// representable as a single (possibly dotted) note duration, smallest
// first. The caller renders them as a tied sequence.
//
// A zero length yields nil. A fraction whose numerator is below five,
// is a power of two, or whose denominator is one, already renders as
// one duration and is returned as-is. Anything else gives up its
// largest power-of-two part and recurses on the remainder; once the
// remainder's numerator drops to three or less it is fused in front of
// the whole part, which is what produces dotted-style decompositions:
//
//	5/8  -> [1/8, 1/2]
//	13/16 -> [1/16, 1/4, 1/2]
func Normalize(f Fraction) []Fraction {
	return normalize(f, nil)
}

func normalize(f Fraction, head []Fraction) []Fraction {
	num, den := f.Num(), f.Den()
	if num == 0 {
		return head
	}
	if den == 1 || num < 5 {
		return append(head, f)
	}
	if num == floorPowerOfTwo(num) {
		return append(head, f)
	}

	part := floorPowerOfTwo(num)
	whole := New(part, den)
	remainder := New(num-part, den)
	if remainder.Num() > 3 {
		return normalize(remainder, append(head, whole))
	}
	return append([]Fraction{remainder, whole}, head...)
}

// floorPowerOfTwo returns the largest power of two not above num.
func floorPowerOfTwo(num int64) int64 {
	if num < 1 {
		return 0
	}
	var p int64 = 1
	for p*2 <= num {
		p *= 2
	}
	return p
}
