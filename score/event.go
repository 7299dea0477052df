package score

import (
	"errors"
	"fmt"

	"lyscore/frac"
	"lyscore/notation"
)

var (
	// ErrNoSlot reports an event whose start position no container
	// element covers. It means the upstream event stream is
	// inconsistent with the time map.
	ErrNoSlot = errors.New("no container slot found for event")
	// ErrUnexpectedNotation reports a notation applied to a payload
	// kind that can not carry it.
	ErrUnexpectedNotation = errors.New("unexpected notation for payload")
	// ErrCannotPushRest reports an attempt to merge a rest into a
	// chord.
	ErrCannotPushRest = errors.New("can not push rest to chord")
)

// TupletMarkerKind tags how an event relates to a tuplet group.
type TupletMarkerKind int

const (
	NonTuplet TupletMarkerKind = iota
	TupletStart
	TupletEnd
)

// TupletMarker carries the tuplet grouping state of a raw event. Rate
// is meaningful only for TupletStart.
type TupletMarker struct {
	Kind TupletMarkerKind
	Rate frac.Fraction
}

// EventType is the payload of an EventInfo. The variant set is closed:
// Rest, *Note, *Chord, *Tuplet.
type EventType interface {
	// split returns the payloads for the left (first in time) and
	// right fragments of a tied split. The left keeps head-anchored
	// notations and gains a tie; the right keeps tail-anchored ones.
	split() (EventType, EventType)
	// applyNotation forwards a notation to the payload.
	applyNotation(n notation.Notation) error
	clone() EventType
	// RenderLilypond renders the payload with an already-formatted
	// duration token.
	RenderLilypond(lengthStr string, settings RenderSettings) string
}

// Rest is the placeholder payload. Containers are born as one big
// rest; rests surviving to render become "r" tokens.
type Rest struct{}

func (Rest) split() (EventType, EventType) { return Rest{}, Rest{} }
func (Rest) clone() EventType              { return Rest{} }
func (Rest) applyNotation(n notation.Notation) error {
	return fmt.Errorf("%w: %q on rest", ErrUnexpectedNotation, n.Token())
}
func (Rest) RenderLilypond(lengthStr string, _ RenderSettings) string {
	return "r" + lengthStr
}

// EventInfo is one slot of musical content: a position, a length and
// a payload, plus the tuplet marker of the raw event it came from.
type EventInfo struct {
	Position RelativePosition
	Length   Length
	Payload  EventType
	Marker   TupletMarker
}

func NewEvent(pos RelativePosition, length Length, payload EventType) EventInfo {
	if payload == nil {
		payload = Rest{}
	}
	return EventInfo{Position: pos, Length: length, Payload: payload}
}

// EndPosition is the half-open end of the event's interval.
func (e *EventInfo) EndPosition() RelativePosition {
	return e.Position.Add(e.Length)
}

// ContainsPos reports whether pos falls inside the event's half-open
// interval. Positions from other measures are never contained.
func (e *EventInfo) ContainsPos(pos RelativePosition) bool {
	if pos.Measure() != e.Position.Measure() {
		return false
	}
	start := e.Position.Offset()
	end := start.Add(e.Length.Quantized())
	return start.Cmp(pos.Offset()) <= 0 && end.Cmp(pos.Offset()) > 0
}

// Outlasts returns how far e's end extends past other's end. ok is
// false when e ends at or before other, or when the events belong to
// different measures.
func (e *EventInfo) Outlasts(other *EventInfo) (Length, bool) {
	if e.Position.Measure() != other.Position.Measure() {
		return Length{}, false
	}
	oEnd := other.Position.Offset().Add(other.Length.Quantized())
	sEnd := e.Position.Offset().Add(e.Length.Quantized())
	if sEnd.Cmp(oEnd) <= 0 {
		return Length{}, false
	}
	return LengthOf(sEnd.Sub(oEnd)), true
}

// Overlaps reports whether the two intervals intersect. Sharing either
// endpoint counts, matching the measure-subdivision alignment checks.
func (e *EventInfo) Overlaps(other *EventInfo) bool {
	if e.Position.Measure() != other.Position.Measure() {
		return false
	}
	sStart, oStart := e.Position.Offset(), other.Position.Offset()
	sEnd := sStart.Add(e.Length.Quantized())
	oEnd := oStart.Add(other.Length.Quantized())
	if sEnd == oEnd || sStart == oStart {
		return true
	}
	if sStart.Cmp(oStart) < 0 {
		return sEnd.Cmp(oStart) > 0
	}
	return oEnd.Cmp(sStart) > 0
}

// CutHead splits the event in place, keeping the first part and
// returning the cut tail ("head" of what overflows) of the given
// length. The payload split ties the kept part into the tail and
// distributes head/tail notations. Panics when the cut is longer than
// the event or when the payload is a tuplet: a closed tuplet is
// atomic.
func (e *EventInfo) CutHead(headLength Length) EventInfo {
	if _, ok := e.Payload.(*Tuplet); ok {
		panic(fmt.Sprintf("score: tuplet can not be split: %v", e))
	}
	if e.Length.Cmp(headLength) < 0 {
		panic(fmt.Sprintf(
			"score: cutting head %s longer than body %s", headLength, e.Length,
		))
	}
	left, right := e.Payload.split()
	leftLen := e.Length.Sub(headLength)
	tailPos := e.Position.Add(leftLen)

	e.Payload = left
	e.Length = leftLen
	return EventInfo{
		Position: tailPos,
		Length:   headLength,
		Payload:  right,
		Marker:   e.Marker,
	}
}

// CutHeadAt cuts at an explicit position inside the event. The
// position must strictly follow the event's start.
func (e *EventInfo) CutHeadAt(pos RelativePosition) EventInfo {
	if pos.Cmp(e.Position) <= 0 {
		panic(fmt.Sprintf(
			"score: can not cut at or before event start: %s at %s",
			e.Position, pos,
		))
	}
	end := e.Position.Offset().Add(e.Length.Quantized())
	return e.CutHead(LengthOf(end.Sub(pos.Offset())))
}

// WithNormalizedLength expands the event into the minimal tied
// sequence of representable durations, largest first in time. Every
// fragment but the last is tied forward and keeps only its share of
// head/tail notations; the last keeps the remaining payload state.
func (e *EventInfo) WithNormalizedLength() []EventInfo {
	lengths := frac.Normalize(e.Length.Quantized())
	if len(lengths) <= 1 {
		return []EventInfo{*e}
	}
	pos := e.Position
	payload := e.Payload.clone()
	events := make([]EventInfo, 0, len(lengths))
	for idx := len(lengths) - 1; idx >= 0; idx-- {
		var part EventType
		if idx == 0 {
			part = payload
		} else {
			part, payload = payload.split()
		}
		events = append(events, EventInfo{
			Position: pos,
			Length:   LengthOf(lengths[idx]),
			Payload:  part,
			Marker:   e.Marker,
		})
		pos = pos.Add(LengthOf(lengths[idx]))
	}
	return events
}

// PushNotation applies a notation token to the event. Tuplet markers
// land on the event itself; everything else is the payload's business.
func (e *EventInfo) PushNotation(n notation.Notation) error {
	switch nt := n.(type) {
	case notation.TupletRate:
		e.Marker = TupletMarker{Kind: TupletStart, Rate: nt.Rate}
		return nil
	case notation.TupletEnd:
		e.Marker = TupletMarker{Kind: TupletEnd}
		return nil
	}
	return e.Payload.applyNotation(n)
}

// QuantizeEnd snaps the event's length so its end lands on the
// LimitDenom grid.
func (e *EventInfo) QuantizeEnd() {
	end := e.Position.Offset().Add(e.Length.Quantized())
	e.Length = LengthOf(end.Sub(e.Position.Offset()))
}

// SetEndPosition stretches or shrinks the event to end at the given
// position. Tuplet payloads forward the change to their inner
// container so the scaled coordinate spaces stay consistent.
func (e *EventInfo) SetEndPosition(end RelativePosition) {
	length := LengthOf(end.Offset().Sub(e.Position.Offset()))
	e.Length = length
	if t, ok := e.Payload.(*Tuplet); ok {
		t.setOuterLength(length)
	}
}

// RenderLilypond renders the event as one token (or wrapped group for
// chords and tuplets).
func (e *EventInfo) RenderLilypond(settings RenderSettings) string {
	if t, ok := e.Payload.(*Tuplet); ok {
		return t.RenderLilypond("", settings)
	}
	return e.Payload.RenderLilypond(e.Length.RenderLilypond(), settings)
}

func (e EventInfo) String() string {
	return fmt.Sprintf("event{%s len=%s %T}", e.Position, e.Length, e.Payload)
}
