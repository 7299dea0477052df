package score

import (
	"fmt"
	"strings"

	"lyscore/frac"
	"lyscore/notation"
)

// Tuplet compresses a group of events by a rational rate (3/2 for a
// regular triplet: three notes in the time of two). It owns an inner
// container whose coordinate space is pre-scaled by the rate relative
// to the tuplet's outer start, so the inner events carry ordinary
// representable durations.
type Tuplet struct {
	Rate  frac.Fraction
	inner *Container
	// start is the outer position of the first pushed event, pinning
	// the origin of the scaled coordinate space.
	start   RelativePosition
	started bool
}

// newTupletEvent wraps a first raw event into an EventInfo holding a
// fresh tuplet at the given rate. The raw event itself still has to be
// pushed.
func newTupletEvent(first EventInfo, rate frac.Fraction) EventInfo {
	pos := first.Position
	pos.SetOffset(pos.Offset())
	return EventInfo{
		Position: pos,
		Length:   first.Length,
		Payload:  &Tuplet{Rate: rate},
	}
}

// NewTupletEvent builds a completed tuplet event from a ready list of
// events in outer coordinates. The first event pins the tuplet start.
func NewTupletEvent(rate frac.Fraction, events []EventInfo) (EventInfo, error) {
	if len(events) == 0 {
		return EventInfo{}, fmt.Errorf("can not build tuplet from no events")
	}
	ev := newTupletEvent(events[0], rate)
	t := ev.Payload.(*Tuplet)
	for _, e := range events {
		if err := t.Push(e); err != nil {
			return EventInfo{}, err
		}
	}
	ev.SetEndPosition(t.EndPosition())
	return ev, nil
}

// Push scales the event from outer coordinates into the tuplet's
// inner space and inserts it there, growing the inner container when
// the event reaches past its current end. Scaling goes through the
// finer 256 grid before landing back on the standard one so repeated
// rate transforms do not compound rounding error.
func (t *Tuplet) Push(event EventInfo) error {
	if !t.started {
		t.start = event.Position
		t.start.SetOffset(t.start.Offset())
		t.started = true
		inner := NewRelativePosition(t.start.Measure(), frac.New(0, 1))
		t.inner = EmptyContainer(inner, t.applyRateToLength(event.Length))
	}

	offset := frac.LimitDenominator(
		event.Position.Offset().Sub(t.start.Offset()), tupletGrid,
	)
	event.Position.SetOffset(
		frac.LimitDenominator(offset.Mul(t.Rate), LimitDenom),
	)
	event.Length = t.applyRateToLength(event.Length)

	end := event.EndPosition()
	if end.Offset().Cmp(t.inner.Length().Quantized()) > 0 {
		t.inner.SetEndPosition(end)
	}
	head, err := t.inner.Insert(event)
	if err != nil {
		return err
	}
	if head != nil {
		panic(fmt.Sprintf("score: event escaped tuplet body: %v", head))
	}
	return nil
}

func (t *Tuplet) applyRateToLength(l Length) Length {
	scaled := l.QuantizedTo(tupletGrid).Mul(t.Rate)
	return LengthOf(frac.LimitDenominator(scaled, LimitDenom))
}

// EndPosition returns the tuplet's end in outer coordinates: the inner
// length scaled back down by the rate.
func (t *Tuplet) EndPosition() RelativePosition {
	outerLen := t.inner.Length().Quantized().Div(t.Rate)
	return t.start.Add(LengthOf(frac.LimitDenominator(outerLen, LimitDenom)))
}

// setOuterLength forwards an outer length change into the inner
// container so both coordinate spaces agree.
func (t *Tuplet) setOuterLength(outer Length) {
	if t.inner == nil {
		return
	}
	innerEnd := t.applyRateToLength(outer).Quantized()
	if innerEnd.Cmp(t.inner.Length().Quantized()) > 0 {
		t.inner.SetEndPosition(
			NewRelativePosition(t.start.Measure(), innerEnd),
		)
	}
}

func (t *Tuplet) split() (EventType, EventType) {
	panic("score: tuplet can not be split")
}

func (t *Tuplet) clone() EventType {
	c := *t
	if t.inner != nil {
		innerCopy := *t.inner
		innerCopy.events = make([]EventInfo, len(t.inner.events))
		for i, ev := range t.inner.events {
			ev.Payload = ev.Payload.clone()
			innerCopy.events[i] = ev
		}
		c.inner = &innerCopy
	}
	return &c
}

func (t *Tuplet) applyNotation(n notation.Notation) error {
	return fmt.Errorf("%w: %q on closed tuplet", ErrUnexpectedNotation, n.Token())
}

// RenderLilypond wraps the normalized inner events:
// \tuplet 3/2 { c'4 c'8 }.
func (t *Tuplet) RenderLilypond(_ string, settings RenderSettings) string {
	var tokens []string
	for i := range t.inner.events {
		for _, part := range t.inner.events[i].WithNormalizedLength() {
			tokens = append(tokens, part.RenderLilypond(settings))
		}
	}
	return fmt.Sprintf(
		`\tuplet %d/%d { %s }`,
		t.Rate.Num(), t.Rate.Den(), strings.Join(tokens, " "),
	)
}
