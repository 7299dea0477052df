package score

import (
	"fmt"
	"log"

	"lyscore/frac"
)

// Container owns the ordered, gap-free, non-overlapping sequence of
// events covering exactly [0, length) of one measure or one tuplet
// body. It is born as a single rest and mutated only through Insert
// and SetEndPosition, which preserve the coverage invariant.
type Container struct {
	events   []EventInfo
	position RelativePosition
	length   Length
	// pending holds a tuplet under construction: its start marker has
	// been seen, its end marker has not.
	pending *EventInfo
}

// EmptyContainer returns a container spanning length from position,
// filled with one rest.
func EmptyContainer(position RelativePosition, length Length) *Container {
	return &Container{
		events:   []EventInfo{NewEvent(position, length, Rest{})},
		position: position,
		length:   length,
	}
}

func (c *Container) Length() Length      { return c.length }
func (c *Container) Events() []EventInfo { return c.events }

// SetEndPosition stretches the container to end at the given position:
// a trailing rest grows, anything else gets a fresh rest appended.
func (c *Container) SetEndPosition(end RelativePosition) {
	selfEnd := c.position.Add(c.length)
	last := &c.events[len(c.events)-1]
	if _, isRest := last.Payload.(Rest); isRest {
		last.SetEndPosition(end)
	} else {
		additional := LengthOf(end.Offset().Sub(selfEnd.Offset()))
		c.events = append(c.events, NewEvent(selfEnd, additional, Rest{}))
	}
	c.length = LengthOf(end.Offset().Sub(c.position.Offset()))
}

// Insert places an event into the container, resolving overlaps,
// splits and merges against the existing contents.
//
// The returned event, when non-nil, is the part that belongs to the
// next measure (position already reset to the measure start) and must
// be inserted there by the caller.
func (c *Container) Insert(event EventInfo) (*EventInfo, error) {
	next, done, err := c.handleTupletMarker(&event)
	if err != nil || done {
		return nil, err
	}
	event = *next

	// Work queue instead of recursive re-entry: every pass places one
	// event and may yield a remainder that either queues up again or
	// overflows to the next measure.
	queue := []EventInfo{event}
	var overflow *EventInfo
	for len(queue) > 0 {
		ev := queue[0]
		queue = queue[1:]

		remainder, err := c.place(ev)
		if err != nil {
			return nil, err
		}
		if remainder == nil {
			continue
		}

		// In-bounds remainders may pile up while an overflow tail is
		// already pending (a barline-crossing event cut against a
		// resident slot); only a second barline crossing is impossible.
		switch {
		case remainder.Position.Offset() == c.length.Quantized():
			// starts exactly at the barline: entirely next measure's
			if overflow != nil {
				panic(fmt.Sprintf(
					"score: unexpected second overflow from insert: %v", remainder,
				))
			}
			remainder.Position.SetMeasure(c.position.Measure() + 1)
			remainder.Position.SetOffset(frac.New(0, 1))
			overflow = remainder
		case remainder.EndPosition().Offset().Cmp(c.length.Quantized()) > 0:
			// crosses the barline: keep our part, pass on the rest
			if overflow != nil {
				panic(fmt.Sprintf(
					"score: unexpected second overflow from insert: %v", remainder,
				))
			}
			tail := remainder.CutHeadAt(
				NewRelativePosition(c.position.Measure(), c.length.Quantized()),
			)
			tail.Position.SetMeasure(c.position.Measure() + 1)
			tail.Position.SetOffset(frac.New(0, 1))
			overflow = &tail
			queue = append(queue, *remainder)
		default:
			queue = append(queue, *remainder)
		}
	}
	return overflow, nil
}

// handleTupletMarker routes events carrying tuplet state. done is true
// when the event was consumed (buffered into the pending tuplet). The
// returned event is the one to place normally, which for a TupletEnd
// is the completed tuplet itself.
func (c *Container) handleTupletMarker(
	event *EventInfo,
) (next *EventInfo, done bool, err error) {
	switch event.Marker.Kind {
	case TupletStart:
		rate := event.Marker.Rate
		event.Marker = TupletMarker{}
		tupletEvent := newTupletEvent(*event, rate)
		if err := tupletEvent.Payload.(*Tuplet).Push(*event); err != nil {
			return nil, false, err
		}
		c.pending = &tupletEvent
		return nil, true, nil
	case NonTuplet:
		if c.pending == nil {
			return event, false, nil
		}
		if err := c.pending.Payload.(*Tuplet).Push(*event); err != nil {
			return nil, false, err
		}
		return nil, true, nil
	case TupletEnd:
		if c.pending == nil {
			log.Printf("score: unexpected tuplet end event: %v", event)
			event.Marker = TupletMarker{}
			return event, false, nil
		}
		event.QuantizeEnd()
		event.Marker = TupletMarker{}
		tuplet := c.pending.Payload.(*Tuplet)
		if err := tuplet.Push(*event); err != nil {
			return nil, false, err
		}
		completed := c.pending
		c.pending = nil
		completed.SetEndPosition(tuplet.EndPosition())
		return completed, false, nil
	}
	panic(fmt.Sprintf("score: unknown tuplet marker %d", event.Marker.Kind))
}

// place performs one placement pass: locate the slot, resolve
// overlaps, align the slot boundary and merge payloads. The returned
// remainder is the cut-off part of ev still waiting for a home.
func (c *Container) place(ev EventInfo) (*EventInfo, error) {
	idx := c.slotIndex(ev.Position)
	if idx < 0 {
		return nil, fmt.Errorf(
			"%w: position %s\n event: %v\n container: %v",
			ErrNoSlot, ev.Position, ev, c.events,
		)
	}

	remainder := c.resolveEventOverlaps(&ev, idx)

	// split the located slot so its start matches the event's
	current := &c.events[idx]
	if !current.Position.Equal(ev.Position) {
		head := current.CutHeadAt(ev.Position)
		idx++
		c.insertAt(idx, head)
		current = &c.events[idx]
	}

	// merge payloads of the now position-equal slot
	switch payload := current.Payload.(type) {
	case Rest:
		current.Payload = ev.Payload
	case *Note:
		chord := NewChord()
		if err := chord.Push(payload); err != nil {
			return nil, err
		}
		if err := chord.Push(ev.Payload); err != nil {
			return nil, err
		}
		current.Payload = chord
	case *Chord:
		if err := payload.Push(ev.Payload); err != nil {
			return nil, err
		}
	case *Tuplet:
		if err := payload.Push(ev); err != nil {
			return nil, err
		}
	default:
		panic(fmt.Sprintf("score: unknown payload kind %T", payload))
	}
	return remainder, nil
}

// resolveEventOverlaps cuts the inserted event or the resident slot,
// whichever outlasts the other, so both end together. A completed
// tuplet is never cut: it resolves as a whole against the slots it
// spans.
func (c *Container) resolveEventOverlaps(ev *EventInfo, idx int) *EventInfo {
	current := &c.events[idx]
	if length, ok := ev.Outlasts(current); ok {
		if _, isTuplet := ev.Payload.(*Tuplet); isTuplet {
			// the slot keeps its own length here, so a tuplet that
			// outlasts it still sounds under whatever is inserted
			// after it.
			// TODO: stretch the slot to the tuplet's end so later
			// inserts cannot overlap the sounding tuplet
			return nil
		}
		tail := ev.CutHead(length)
		return &tail
	}
	if length, ok := current.Outlasts(ev); ok {
		tail := current.CutHead(length)
		c.insertAt(idx+1, tail)
	}
	return nil
}

func (c *Container) slotIndex(pos RelativePosition) int {
	for i := range c.events {
		if c.events[i].ContainsPos(pos) {
			return i
		}
	}
	return -1
}

func (c *Container) insertAt(idx int, ev EventInfo) {
	c.events = append(c.events, EventInfo{})
	copy(c.events[idx+1:], c.events[idx:])
	c.events[idx] = ev
}
