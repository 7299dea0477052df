package score

import (
	"lyscore/frac"
)

// Measure binds one container to a bar index and time signature.
// A fresh measure holds a single rest spanning its whole length, so
// a measure is never empty.
//
// Measure routes lengths and positions; event splitting itself lives
// with EventInfo and Container.
type Measure struct {
	index         uint32
	timeSignature TimeSignature
	container     *Container
}

func NewMeasure(index uint32, ts TimeSignature) *Measure {
	pos := NewRelativePosition(index, frac.New(0, 1))
	return &Measure{
		index:         index,
		timeSignature: ts,
		container:     EmptyContainer(pos, ts.Length()),
	}
}

func NewMeasureFromInfo(info MeasureInfo) *Measure {
	return NewMeasure(info.Index, info.TimeSignature)
}

func (m *Measure) Index() uint32                { return m.index }
func (m *Measure) TimeSignature() TimeSignature { return m.timeSignature }
func (m *Measure) Length() Length               { return m.container.Length() }
func (m *Measure) Events() []EventInfo          { return m.container.Events() }

// Insert places an event into the measure. A non-nil return is the
// overflow that belongs to the next measure.
func (m *Measure) Insert(event EventInfo) (*EventInfo, error) {
	return m.container.Insert(event)
}

// EventsNormalized returns the stored events re-split along the
// beat grid of the time signature (one subdivision per denominator
// unit), each fragment expanded into representable tied durations.
// An event whose span crosses a beat boundary while ending off the
// grid is cut at that boundary; events ending on the grid, or smaller
// than a beat, pass through whole. Tuplets are atomic and are never
// force-split here.
func (m *Measure) EventsNormalized() []EventInfo {
	den := int64(m.timeSignature.Denominator)
	beats := make([]EventInfo, 0, m.timeSignature.Numerator)
	for i := uint32(0); i < m.timeSignature.Numerator; i++ {
		pos := NewRelativePosition(m.index, frac.New(int64(i), den))
		beats = append(beats, NewEvent(pos, LengthOf(frac.New(1, den)), Rest{}))
	}

	var out []EventInfo
	for _, stored := range m.container.Events() {
		event := stored
		event.Payload = event.Payload.clone()
		if _, isTuplet := event.Payload.(*Tuplet); isTuplet {
			out = append(out, event)
			continue
		}
		for bi := range beats {
			beat := &beats[bi]
			if !beat.Overlaps(&event) {
				continue
			}
			if !event.Position.Equal(beat.Position) {
				length, outlasts := event.Outlasts(beat)
				if !outlasts {
					out = append(out, event.WithNormalizedLength()...)
					break
				}
				if event.Position.Cmp(beat.Position) > 0 {
					// off-grid start running past the beat end:
					// cut there, emit the first part, keep scanning
					// with the tail
					head := event.CutHead(length)
					out = append(out, event.WithNormalizedLength()...)
					event = head
				}
				continue
			}
			endsWithBeat := event.EndPosition().Equal(beat.EndPosition())
			if endsWithBeat {
				out = append(out, event.WithNormalizedLength()...)
				break
			}
			if _, outlasts := event.Outlasts(beat); !outlasts {
				out = append(out, event.WithNormalizedLength()...)
				break
			}
			// starts on the beat and runs past it: a later beat
			// decides whether it stays whole
		}
	}
	return out
}
