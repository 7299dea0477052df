package frac

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestArithmeticStaysReduced(t *testing.T) {
	assert := assert.New(t)
	assert.Equal(New(1, 2), New(2, 4))
	assert.Equal(New(3, 4), New(1, 4).Add(New(1, 2)))
	assert.Equal(New(1, 8), New(3, 8).Sub(New(1, 4)))
	assert.Equal(New(1, 8), New(1, 12).Mul(New(3, 2)))
	assert.Equal(New(1, 12), New(1, 8).Div(New(3, 2)))
	assert.Equal(New(-1, 4), New(1, -4))
}

func TestCmp(t *testing.T) {
	assert := assert.New(t)
	assert.Equal(-1, New(1, 4).Cmp(New(1, 2)))
	assert.Equal(1, New(3, 8).Cmp(New(1, 4)))
	assert.Equal(0, New(2, 8).Cmp(New(1, 4)))
}

func TestLimitDenominator(t *testing.T) {
	assert := assert.New(t)
	assert.Equal(New(1, 128), LimitDenominator(New(1, 129), 128))
	// already on the grid: unchanged
	assert.Equal(New(6, 25), LimitDenominator(New(6, 25), 128))
	assert.Equal(New(1, 12), LimitDenominator(New(1, 12), 128))
	// best rational approximation of pi
	pi := FromFloat(3.141592653589793)
	assert.Equal(New(22, 7), LimitDenominator(pi, 10))
	assert.Equal(New(311, 99), LimitDenominator(pi, 100))
}

func TestLimitDenominatorIdempotent(t *testing.T) {
	cases := []Fraction{
		New(1, 3), New(7, 129), New(355, 113), FromFloat(0.7071067811865476),
	}
	for _, f := range cases {
		once := LimitDenominator(f, 128)
		assert.Equal(t, once, LimitDenominator(once, 128), "for %v", f)
	}
}

func TestLimitDenominatorPanicsOnBadLimit(t *testing.T) {
	assert.Panics(t, func() { LimitDenominator(New(1, 2), 0) })
}

func TestNormalize(t *testing.T) {
	assert := assert.New(t)
	assert.Equal([]Fraction{New(1, 8), New(1, 2)}, Normalize(New(5, 8)))
	assert.Equal(
		[]Fraction{New(1, 16), New(1, 4), New(1, 2)},
		Normalize(New(13, 16)),
	)
	assert.Equal([]Fraction{New(3, 8)}, Normalize(New(3, 8)))
	assert.Equal([]Fraction{New(1, 4)}, Normalize(New(1, 4)))
	assert.Equal([]Fraction{FromInt(1)}, Normalize(FromInt(1)))
	assert.Nil(Normalize(New(0, 4)))
}

func TestNormalizeIdempotent(t *testing.T) {
	for _, f := range []Fraction{New(5, 8), New(13, 16), New(7, 8), New(3, 4)} {
		for _, part := range Normalize(f) {
			assert.Equal(t, []Fraction{part}, Normalize(part), "for %v", f)
		}
	}
}

func TestParse(t *testing.T) {
	assert := assert.New(t)

	f, err := Parse("3/4")
	assert.NoError(err)
	assert.Equal(New(3, 4), f)

	f, err = Parse("7/2")
	assert.NoError(err)
	assert.Equal(New(7, 2), f)

	f, err = Parse("4")
	assert.NoError(err)
	assert.Equal(FromInt(4), f)

	f, err = Parse("0")
	assert.NoError(err)
	assert.Equal(New(0, 1), f)

	f, err = Parse(" 6 / 8 ")
	assert.NoError(err)
	assert.Equal(New(3, 4), f)

	_, err = Parse("")
	assert.Error(err)
	_, err = Parse("1/0")
	assert.Error(err)
	_, err = Parse("a/b")
	assert.Error(err)
}
