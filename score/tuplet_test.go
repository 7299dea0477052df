package score

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTripletQuarterEighthRender(t *testing.T) {
	quarter := noteEvent(1, 1, 4, q(2, 12), 60)
	eighth := noteEvent(1, 5, 12, q(1, 12), 60)

	triplet, err := NewTupletEvent(q(3, 2), []EventInfo{quarter, eighth})
	assert.NoError(t, err)
	assert.Equal(t,
		`\tuplet 3/2 { c'4 c'8 }`,
		triplet.RenderLilypond(DefaultRenderSettings()),
	)
}

func TestTripletWithGapAndChordRender(t *testing.T) {
	a := noteEvent(1, 3, 12, q(1, 12), 60)
	b := noteEvent(1, 5, 12, q(1, 12), 60)
	c := noteEvent(1, 5, 12, q(1, 12), 62)

	triplet, err := NewTupletEvent(q(3, 2), []EventInfo{a, b, c})
	assert.NoError(t, err)
	assert.Equal(t,
		`\tuplet 3/2 { c'8 r8 < c' d' >8 }`,
		triplet.RenderLilypond(DefaultRenderSettings()),
	)
}

func TestTupletSpansAndEndPosition(t *testing.T) {
	a := noteEvent(1, 1, 4, q(1, 12), 60)
	b := noteEvent(1, 4, 12, q(1, 12), 62)
	c := noteEvent(1, 5, 12, q(1, 12), 64)

	triplet, err := NewTupletEvent(q(3, 2), []EventInfo{a, b, c})
	assert := assert.New(t)
	assert.NoError(err)
	assert.Equal(pos(1, 1, 4), triplet.Position)
	assert.Equal(q(1, 4), triplet.Length.Quantized())

	tuplet := triplet.Payload.(*Tuplet)
	assert.Equal(pos(1, 1, 2), tuplet.EndPosition())
	// inner events live on the rate-scaled grid
	inner := tuplet.inner.Events()
	assert.Len(inner, 3)
	for i := range inner {
		assert.Equal(q(1, 8), inner[i].Length.Quantized())
	}
}

func TestTupletFromNoEventsFails(t *testing.T) {
	_, err := NewTupletEvent(q(3, 2), nil)
	assert.Error(t, err)
}

func TestTupletCannotBeSplit(t *testing.T) {
	a := noteEvent(1, 0, 1, q(1, 12), 60)
	triplet, err := NewTupletEvent(q(3, 2), []EventInfo{a})
	assert.NoError(t, err)
	assert.Panics(t, func() { triplet.CutHead(LengthOf(q(1, 24))) })
}

func TestQuintupletRate(t *testing.T) {
	// five sixteenths in the time of four
	events := make([]EventInfo, 0, 5)
	for i := int64(0); i < 5; i++ {
		events = append(events, noteEvent(1, i, 20, q(1, 20), 60))
	}
	quintuplet, err := NewTupletEvent(q(5, 4), events)
	assert := assert.New(t)
	assert.NoError(err)
	assert.Equal(q(1, 4), quintuplet.Length.Quantized())
	assert.Equal(
		`\tuplet 5/4 { c'16 c'16 c'16 c'16 c'16 }`,
		quintuplet.RenderLilypond(DefaultRenderSettings()),
	)
}
